// internal/domain/joblock/repository.go
package joblock

import (
	"context"
	"time"
)

// Repository is the cooperative job-lock contract. TryAcquire is a single
// atomic create-if-absent-or-expired write; a false return means another run
// holds the lock and the caller must skip its run entirely, not retry.
// Release pulls the expiry to now so the next acquirer can proceed, and must
// run on both success and failure paths of the guarded section.
type Repository interface {
	TryAcquire(ctx context.Context, name string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, name string) error
}
