package store

import (
	"context"

	"enchanted-shop/model"
)

func (s *PostgresStore) CreateCart(ctx context.Context) (model.Cart, error) {
	var c model.Cart
	if err := s.q().QueryRowContext(ctx, `INSERT INTO carts DEFAULT VALUES RETURNING id`).Scan(&c.ID); err != nil {
		return model.Cart{}, err
	}
	return c, nil
}

// GetCart returns the cart row only; line items are loaded with ListProductOrders.
func (s *PostgresStore) GetCart(ctx context.Context, id int64) (model.Cart, error) {
	var c model.Cart
	if err := s.q().QueryRowContext(ctx, `SELECT id FROM carts WHERE id=$1`, id).Scan(&c.ID); err != nil {
		return model.Cart{}, notFound(err)
	}
	return c, nil
}

const productOrderSelect = `
		SELECT po.id, po.cart_id, po.amount,
			p.id, p.name, p.category, p.type, p.color, p.price, p.available_quantity
		FROM product_orders po
		JOIN products p ON p.id = po.product_id`

func scanProductOrder(r rowScanner) (model.ProductOrder, error) {
	var o model.ProductOrder
	p := &o.Product
	err := r.Scan(&o.ID, &o.CartID, &o.Amount,
		&p.ID, &p.Name, &p.Category, &p.Type, &p.Color, &p.Price, &p.AvailableQuantity)
	return o, err
}

func (s *PostgresStore) CreateProductOrder(ctx context.Context, o model.ProductOrder) (model.ProductOrder, error) {
	err := s.q().QueryRowContext(ctx,
		`INSERT INTO product_orders (cart_id, product_id, amount) VALUES ($1, $2, $3) RETURNING id`,
		o.CartID, o.Product.ID, o.Amount,
	).Scan(&o.ID)
	if err != nil {
		return model.ProductOrder{}, err
	}
	return o, nil
}

// FindProductOrder returns the line item for (cartID, productID). When the
// cart holds the product more than once the oldest line item wins.
func (s *PostgresStore) FindProductOrder(ctx context.Context, cartID, productID int64) (model.ProductOrder, error) {
	row := s.q().QueryRowContext(ctx, productOrderSelect+`
		WHERE po.cart_id = $1 AND po.product_id = $2
		ORDER BY po.id
		LIMIT 1`, cartID, productID)
	o, err := scanProductOrder(row)
	if err != nil {
		return model.ProductOrder{}, notFound(err)
	}
	return o, nil
}

func (s *PostgresStore) ListProductOrders(ctx context.Context, cartID int64) ([]model.ProductOrder, error) {
	rows, err := s.q().QueryContext(ctx, productOrderSelect+`
		WHERE po.cart_id = $1
		ORDER BY po.id`, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.ProductOrder{}
	for rows.Next() {
		o, err := scanProductOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (s *PostgresStore) UpdateProductOrderAmount(ctx context.Context, id int64, amount int) error {
	res, err := s.q().ExecContext(ctx, `UPDATE product_orders SET amount=$1 WHERE id=$2`, amount, id)
	if err != nil {
		return err
	}
	return mustAffect(res)
}

func (s *PostgresStore) DeleteProductOrder(ctx context.Context, id int64) error {
	res, err := s.q().ExecContext(ctx, `DELETE FROM product_orders WHERE id=$1`, id)
	if err != nil {
		return err
	}
	return mustAffect(res)
}
