package order

import "context"

// Filter narrows List results. Zero value means "all orders".
type Filter struct {
	ActiveOnly  bool
	ProductName string // case-insensitive substring match
}

// Repository defines the operations for persisting and retrieving Order entities.
type Repository interface {
	Create(ctx context.Context, order *Order) error
	List(ctx context.Context, filter Filter) ([]*Order, error)
	// ListActiveByVendorName returns the active orders joined to a vendor by
	// display name, in store order.
	ListActiveByVendorName(ctx context.Context, vendorName string) ([]*Order, error)
	MarkInactive(ctx context.Context, ids []int64) error
	Delete(ctx context.Context, id int64) error
}
