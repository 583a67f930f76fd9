package mail

import (
	"context"
	"fmt"
)

// Client defines an interface for delivering digest emails.
// This decouples the notification logic from the concrete transport
// (Microsoft Graph in production).
type Client interface {
	SendDigest(ctx context.Context, toAddress, subject, bodyHTML string) error
}

// DeliveryError is a transport failure with the provider's diagnostic
// attached. Retryable failures are not retried within a run; the next
// eligible run picks the vendor up again because its bookkeeping is
// untouched.
type DeliveryError struct {
	StatusCode int
	Retryable  bool
	Detail     string
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("mail delivery failed: status=%d retryable=%t: %s", e.StatusCode, e.Retryable, e.Detail)
}
