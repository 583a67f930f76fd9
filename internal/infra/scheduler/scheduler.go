package scheduler

import (
	"context"
	"time"

	"qr_order_system/internal/app"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// runTimeout bounds a single cron-triggered run. It is longer than the job
// lock TTL so a timed-out run has already lost its lock by the time another
// trigger fires.
const runTimeout = 20 * time.Minute

// DigestScheduler fires the vendor digest job on a cron spec. The job itself
// owns no timer; this is the in-process stand-in for an external trigger.
// The HTTP trigger endpoint can fire the same job concurrently; the job lock
// arbitrates.
type DigestScheduler struct {
	cronEngine *cron.Cron
	notifSvc   app.NotificationService
	logger     logrus.FieldLogger
	cronSpec   string
}

func NewDigestScheduler(notifSvc app.NotificationService, logger logrus.FieldLogger, cronSpec string) *DigestScheduler {
	return &DigestScheduler{
		cronEngine: cron.New(cron.WithLocation(time.Local)), // Use server's local time for cron
		notifSvc:   notifSvc,
		logger:     logger,
		cronSpec:   cronSpec,
	}
}

func (s *DigestScheduler) Start() error {
	_, err := s.cronEngine.AddFunc(s.cronSpec, func() {
		s.logger.Info("Cron trigger fired for vendor digest job.")
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()

		summary, err := s.notifSvc.RunOnce(ctx)
		if err != nil {
			s.logger.WithError(err).Error("Vendor digest run failed.")
			return
		}
		s.logger.WithFields(logrus.Fields{
			"sent":    summary.SentCount,
			"skipped": summary.SkippedCount,
			"failed":  summary.FailedCount,
		}).Info("Vendor digest run completed.")
	})
	if err != nil {
		return err
	}

	s.cronEngine.Start()
	s.logger.WithField("spec", s.cronSpec).Info("Digest scheduler started.")
	return nil
}

func (s *DigestScheduler) Stop() {
	s.logger.Info("Stopping digest scheduler...")
	ctx := s.cronEngine.Stop() // Waits for a running job to finish.
	<-ctx.Done()
	s.logger.Info("Digest scheduler stopped.")
}
