package store

import (
	"context"
	"errors"
)

// ErrNegativeStock is returned when a stock level below zero is requested.
var ErrNegativeStock = errors.New("stock cannot be negative")

// UpdateStock sets the absolute stock for a product (admin operation).
func (s *PostgresStore) UpdateStock(ctx context.Context, productID int64, newStock int) error {
	if newStock < 0 {
		return ErrNegativeStock
	}
	res, err := s.q().ExecContext(ctx, `UPDATE products SET available_quantity=$1 WHERE id=$2`, newStock, productID)
	if err != nil {
		return err
	}
	return mustAffect(res)
}

// GetStock returns current stock for a product.
func (s *PostgresStore) GetStock(ctx context.Context, productID int64) (int, error) {
	var stock int
	if err := s.q().QueryRowContext(ctx, `SELECT available_quantity FROM products WHERE id=$1`, productID).Scan(&stock); err != nil {
		return 0, notFound(err)
	}
	return stock, nil
}
