package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"qr_order_system/internal/domain/vendor"

	"github.com/lib/pq"
)

// Custom errors
var ErrVendorNotFound = fmt.Errorf("vendor not found")

type PostgresVendorRepository struct {
	db *sql.DB
}

func NewPostgresVendorRepository(db *sql.DB) *PostgresVendorRepository {
	return &PostgresVendorRepository{db: db}
}

func (r *PostgresVendorRepository) Create(ctx context.Context, v *vendor.Vendor) error {
	query := `INSERT INTO vendors (vendor_name, vendor_email, cadence)
               VALUES ($1, $2, $3)
               RETURNING id, created_at, updated_at`

	var cadence any
	if len(v.Cadence) > 0 {
		cadence = []byte(v.Cadence)
	}

	err := r.db.QueryRowContext(ctx, query, v.Name, v.Email, cadence).Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating vendor: %w", err)
	}
	return nil
}

func (r *PostgresVendorRepository) GetByID(ctx context.Context, id int64) (*vendor.Vendor, error) {
	query := `SELECT id, vendor_name, vendor_email, cadence, last_email_sent_at, last_email_window_start, created_at, updated_at
               FROM vendors WHERE id = $1`
	v, err := scanVendor(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrVendorNotFound
		}
		return nil, fmt.Errorf("error getting vendor by ID: %w", err)
	}
	return v, nil
}

func (r *PostgresVendorRepository) ListAll(ctx context.Context) ([]*vendor.Vendor, error) {
	query := `SELECT id, vendor_name, vendor_email, cadence, last_email_sent_at, last_email_window_start, created_at, updated_at
               FROM vendors ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing vendors: %w", err)
	}
	defer rows.Close()

	vendors := make([]*vendor.Vendor, 0)
	for rows.Next() {
		v, err := scanVendor(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning vendor: %w", err)
		}
		vendors = append(vendors, v)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating vendors: %w", err)
	}
	return vendors, nil
}

func (r *PostgresVendorRepository) UpdateBookkeeping(ctx context.Context, id int64, sentAt, windowStart time.Time) error {
	query := `UPDATE vendors
               SET last_email_sent_at = $1, last_email_window_start = $2, updated_at = NOW()
               WHERE id = $3`

	res, err := r.db.ExecContext(ctx, query, sentAt, windowStart, id)
	if err != nil {
		return fmt.Errorf("error updating vendor bookkeeping: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error updating vendor bookkeeping: %w", err)
	}
	if affected == 0 {
		return ErrVendorNotFound
	}
	return nil
}

func (r *PostgresVendorRepository) DeleteByIDs(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query := `DELETE FROM vendors WHERE id = ANY($1)`
	res, err := r.db.ExecContext(ctx, query, pq.Array(ids))
	if err != nil {
		return 0, fmt.Errorf("error deleting vendors: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("error deleting vendors: %w", err)
	}
	return deleted, nil
}

// scanVendor works for both *sql.Row and *sql.Rows.
func scanVendor(row interface{ Scan(...any) error }) (*vendor.Vendor, error) {
	v := &vendor.Vendor{}
	var cadence []byte
	err := row.Scan(&v.ID, &v.Name, &v.Email, &cadence, &v.LastEmailSentAt, &v.LastEmailWindowStart, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(cadence) > 0 {
		v.Cadence = json.RawMessage(cadence)
	}
	return v, nil
}
