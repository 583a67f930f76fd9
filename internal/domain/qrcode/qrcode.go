package qrcode

import (
	"database/sql"
	"time"
)

// Code is a stored QR label for a product, scanned from the ordering UI.
// QRDataURL holds the rendered image as a data URL, as the browser uploads it.
type Code struct {
	ID              int64
	UID             string
	ProductName     string
	ProductURL      string
	QRDataURL       string
	ProductQuantity sql.NullString
	VendorID        sql.NullInt64
	// VendorName is resolved on read; "N/A" when the code has no vendor.
	VendorName string
	CreatedAt  time.Time
}
