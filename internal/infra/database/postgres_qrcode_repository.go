package database

import (
	"context"
	"database/sql"
	"fmt"

	"qr_order_system/internal/domain/qrcode"
)

// Custom errors
var ErrQRCodeNotFound = fmt.Errorf("qr code not found")

type PostgresQRCodeRepository struct {
	db *sql.DB
}

func NewPostgresQRCodeRepository(db *sql.DB) *PostgresQRCodeRepository {
	return &PostgresQRCodeRepository{db: db}
}

func (r *PostgresQRCodeRepository) Create(ctx context.Context, c *qrcode.Code) error {
	query := `INSERT INTO qr_codes (uid, product_name, product_url, qr_data_url, product_quantity, vendor_id)
               VALUES ($1, $2, $3, $4, $5, $6)
               RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		c.UID, c.ProductName, c.ProductURL, c.QRDataURL, c.ProductQuantity, c.VendorID,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating qr code: %w", err)
	}
	return nil
}

// ListAll resolves each code's vendor display name; codes without a vendor
// report "N/A", matching what the scanning UI has always shown.
func (r *PostgresQRCodeRepository) ListAll(ctx context.Context) ([]*qrcode.Code, error) {
	query := `SELECT q.id, q.uid, q.product_name, q.product_url, q.qr_data_url, q.product_quantity, q.vendor_id,
                      COALESCE(v.vendor_name, 'N/A'), q.created_at
               FROM qr_codes q
               LEFT JOIN vendors v ON v.id = q.vendor_id
               ORDER BY q.id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing qr codes: %w", err)
	}
	defer rows.Close()

	codes := make([]*qrcode.Code, 0)
	for rows.Next() {
		c := &qrcode.Code{}
		if err := rows.Scan(&c.ID, &c.UID, &c.ProductName, &c.ProductURL, &c.QRDataURL, &c.ProductQuantity, &c.VendorID, &c.VendorName, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning qr code: %w", err)
		}
		codes = append(codes, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating qr codes: %w", err)
	}
	return codes, nil
}

func (r *PostgresQRCodeRepository) GetByUID(ctx context.Context, uid string) (*qrcode.Code, error) {
	query := `SELECT q.id, q.uid, q.product_name, q.product_url, q.qr_data_url, q.product_quantity, q.vendor_id,
                      COALESCE(v.vendor_name, 'N/A'), q.created_at
               FROM qr_codes q
               LEFT JOIN vendors v ON v.id = q.vendor_id
               WHERE q.uid = $1`

	c := &qrcode.Code{}
	err := r.db.QueryRowContext(ctx, query, uid).Scan(&c.ID, &c.UID, &c.ProductName, &c.ProductURL, &c.QRDataURL, &c.ProductQuantity, &c.VendorID, &c.VendorName, &c.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrQRCodeNotFound
		}
		return nil, fmt.Errorf("error getting qr code by uid: %w", err)
	}
	return c, nil
}
