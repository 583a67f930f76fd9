package database

import (
	"context"
	"database/sql"
	"fmt"

	"qr_order_system/internal/domain/order"

	"github.com/lib/pq"
)

// Custom errors
var ErrOrderNotFound = fmt.Errorf("order not found")

type PostgresOrderRepository struct {
	db *sql.DB
}

func NewPostgresOrderRepository(db *sql.DB) *PostgresOrderRepository {
	return &PostgresOrderRepository{db: db}
}

func (r *PostgresOrderRepository) Create(ctx context.Context, o *order.Order) error {
	query := `INSERT INTO orders (product_name, product_url, product_quantity, order_quantity, vendor_name, is_active)
               VALUES ($1, $2, $3, $4, $5, TRUE)
               RETURNING id, is_active, created_at`

	err := r.db.QueryRowContext(ctx, query,
		o.ProductName, o.ProductURL, o.ProductQuantity, o.OrderQuantity, o.VendorName,
	).Scan(&o.ID, &o.IsActive, &o.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating order: %w", err)
	}
	return nil
}

func (r *PostgresOrderRepository) List(ctx context.Context, filter order.Filter) ([]*order.Order, error) {
	query := `SELECT id, product_name, product_url, product_quantity, order_quantity, vendor_name, is_active, created_at
               FROM orders WHERE TRUE`
	args := []any{}

	if filter.ActiveOnly {
		query += ` AND is_active = TRUE`
	}
	if filter.ProductName != "" {
		args = append(args, "%"+filter.ProductName+"%")
		query += fmt.Sprintf(` AND product_name ILIKE $%d`, len(args))
	}
	query += ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing orders: %w", err)
	}
	defer rows.Close()
	return collectOrders(rows)
}

func (r *PostgresOrderRepository) ListActiveByVendorName(ctx context.Context, vendorName string) ([]*order.Order, error) {
	query := `SELECT id, product_name, product_url, product_quantity, order_quantity, vendor_name, is_active, created_at
               FROM orders WHERE vendor_name = $1 AND is_active = TRUE ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, vendorName)
	if err != nil {
		return nil, fmt.Errorf("error listing active orders for vendor %q: %w", vendorName, err)
	}
	defer rows.Close()
	return collectOrders(rows)
}

func (r *PostgresOrderRepository) MarkInactive(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	query := `UPDATE orders SET is_active = FALSE WHERE id = ANY($1)`
	if _, err := r.db.ExecContext(ctx, query, pq.Array(ids)); err != nil {
		return fmt.Errorf("error marking orders inactive: %w", err)
	}
	return nil
}

func (r *PostgresOrderRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting order: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error deleting order: %w", err)
	}
	if deleted == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func collectOrders(rows *sql.Rows) ([]*order.Order, error) {
	orders := make([]*order.Order, 0)
	for rows.Next() {
		o := &order.Order{}
		if err := rows.Scan(&o.ID, &o.ProductName, &o.ProductURL, &o.ProductQuantity, &o.OrderQuantity, &o.VendorName, &o.IsActive, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}
	return orders, nil
}
