// internal/app/notification_service.go
package app

import (
	"context"
	"fmt"
	"time"

	"qr_order_system/internal/domain/joblock"
	"qr_order_system/internal/domain/mail"
	"qr_order_system/internal/domain/order"
	"qr_order_system/internal/domain/schedule"
	"qr_order_system/internal/domain/vendor"

	"github.com/sirupsen/logrus"
)

// VendorDigestLockName keys the mutual-exclusion record guarding the digest
// job in the shared store.
const VendorDigestLockName = "vendor_digest"

// RunSummary is what the external trigger gets back from one run. Per-vendor
// detail stays in the logs.
type RunSummary struct {
	SentCount    int `json:"sentCount"`
	SkippedCount int `json:"skippedCount"`
	FailedCount  int `json:"failedCount"`
}

// NotificationService defines the digest job exposed to the external trigger.
// RunOnce is idempotent with respect to duplicate and overlapping
// invocations: overlaps yield on the job lock, and repeats within a cadence
// window are deduplicated by the evaluator.
type NotificationService interface {
	RunOnce(ctx context.Context) (RunSummary, error)
}

// NotificationServiceImpl implements the NotificationService interface.
type NotificationServiceImpl struct {
	vendorRepo vendor.Repository
	orderRepo  order.Repository
	lockRepo   joblock.Repository
	mailClient mail.Client
	logger     logrus.FieldLogger
	lockTTL    time.Duration
	now        func() time.Time
}

func NewNotificationService(
	vr vendor.Repository,
	or order.Repository,
	lr joblock.Repository,
	mc mail.Client,
	logger logrus.FieldLogger,
	lockTTL time.Duration,
) *NotificationServiceImpl {
	return &NotificationServiceImpl{
		vendorRepo: vr,
		orderRepo:  or,
		lockRepo:   lr,
		mailClient: mc,
		logger:     logger,
		lockTTL:    lockTTL,
		now:        time.Now,
	}
}

// RunOnce executes one pass of the vendor digest job: acquire the lock,
// evaluate every vendor's cadence, send digests for the due ones, persist
// the outcome, release the lock.
//
// Delivery failures are isolated per vendor. Store failures abort the run;
// the deferred release still runs first so later runs are not blocked for
// the remainder of the lock TTL.
func (s *NotificationServiceImpl) RunOnce(ctx context.Context) (summary RunSummary, err error) {
	acquired, err := s.lockRepo.TryAcquire(ctx, VendorDigestLockName, s.lockTTL)
	if err != nil {
		return summary, fmt.Errorf("failed to acquire digest lock: %w", err)
	}
	if !acquired {
		// Expected under overlapping triggers, not an error.
		s.logger.Info("Digest lock held by another run; yielding.")
		return summary, nil
	}
	defer func() {
		if relErr := s.lockRepo.Release(context.WithoutCancel(ctx), VendorDigestLockName); relErr != nil {
			s.logger.WithError(relErr).Warn("Failed to release digest lock; next run may wait out the TTL.")
		}
	}()

	vendors, err := s.vendorRepo.ListAll(ctx)
	if err != nil {
		return summary, fmt.Errorf("failed to list vendors: %w", err)
	}

	now := s.now()
	for _, v := range vendors {
		log := s.logger.WithField("vendor", v.Name)

		cadence, parseErr := schedule.ParseCadence(v.Cadence)
		if parseErr != nil {
			log.WithError(parseErr).Warn("Cadence not recognized; vendor treated as never due.")
		}

		eval := schedule.Evaluate(cadence, bookkeepingOf(v), now)
		if !eval.ShouldSend {
			summary.SkippedCount++
			log.WithField("window_start", eval.WindowStart).Debug("Vendor not due; skipping.")
			continue
		}

		// Orders join to vendors by display name; see the vendors schema note.
		orders, err := s.orderRepo.ListActiveByVendorName(ctx, v.Name)
		if err != nil {
			return summary, fmt.Errorf("failed to list active orders for vendor %q: %w", v.Name, err)
		}
		if len(orders) == 0 {
			summary.SkippedCount++
			log.Debug("Vendor due but has no active orders; skipping.")
			continue
		}

		subject := fmt.Sprintf("Orders for %s", v.Name)
		body, err := RenderDigestHTML(v.Name, orders)
		if err != nil {
			return summary, fmt.Errorf("failed to render digest for vendor %q: %w", v.Name, err)
		}

		if sendErr := s.mailClient.SendDigest(ctx, v.Email, subject, body); sendErr != nil {
			summary.FailedCount++
			log.WithField("email", v.Email).WithError(sendErr).Error("Digest delivery failed; vendor and order state left untouched.")
			continue
		}

		// The order flips and the bookkeeping update are two writes, not one
		// transaction; a crash between them leaves a bounded inconsistency
		// the next run cannot fully repair. Kept as-is.
		ids := make([]int64, 0, len(orders))
		for _, o := range orders {
			ids = append(ids, o.ID)
		}
		if err := s.orderRepo.MarkInactive(ctx, ids); err != nil {
			return summary, fmt.Errorf("failed to mark orders inactive for vendor %q: %w", v.Name, err)
		}
		if err := s.vendorRepo.UpdateBookkeeping(ctx, v.ID, now, eval.WindowStart); err != nil {
			return summary, fmt.Errorf("failed to update bookkeeping for vendor %q: %w", v.Name, err)
		}

		summary.SentCount++
		log.WithFields(logrus.Fields{
			"orders":       len(orders),
			"window_start": eval.WindowStart,
		}).Info("Digest sent.")
	}

	return summary, nil
}

func bookkeepingOf(v *vendor.Vendor) schedule.Bookkeeping {
	var book schedule.Bookkeeping
	if v.LastEmailSentAt.Valid {
		book.LastSentAt = v.LastEmailSentAt.Time
	}
	if v.LastEmailWindowStart.Valid {
		book.LastWindowStart = v.LastEmailWindowStart.Time
	}
	return book
}
