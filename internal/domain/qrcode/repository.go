package qrcode

import "context"

// Repository defines the operations for persisting and retrieving QR code records.
type Repository interface {
	Create(ctx context.Context, code *Code) error
	// ListAll returns every stored code with VendorName resolved.
	ListAll(ctx context.Context) ([]*Code, error)
	GetByUID(ctx context.Context, uid string) (*Code, error)
}
