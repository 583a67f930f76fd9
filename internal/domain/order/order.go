package order

import (
	"database/sql"
	"time"
)

// Order is a single procurement request captured from the order intake UI.
// VendorName is the join key to vendors; the system has always associated
// orders to vendors by display name, not id.
type Order struct {
	ID              int64
	ProductName     string
	ProductURL      sql.NullString
	ProductQuantity sql.NullString // pack size as entered, free text
	OrderQuantity   int
	VendorName      sql.NullString
	IsActive        bool
	CreatedAt       time.Time
}
