package store

import (
	"context"

	"enchanted-shop/model"
)

const customerColumns = `id, name, email, phone_number, address, cart_id`

func scanCustomer(r rowScanner) (model.Customer, error) {
	var c model.Customer
	err := r.Scan(&c.ID, &c.Name, &c.Email, &c.PhoneNumber, &c.Address, &c.Cart.ID)
	return c, err
}

// CreateCustomer inserts c. c.Cart.ID must reference an existing cart.
func (s *PostgresStore) CreateCustomer(ctx context.Context, c model.Customer) (model.Customer, error) {
	err := s.q().QueryRowContext(ctx,
		`INSERT INTO customers (name, email, phone_number, address, cart_id) VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		c.Name, c.Email, c.PhoneNumber, c.Address, c.Cart.ID,
	).Scan(&c.ID)
	if err != nil {
		return model.Customer{}, err
	}
	return c, nil
}

func (s *PostgresStore) ListCustomers(ctx context.Context) ([]model.Customer, error) {
	rows, err := s.q().QueryContext(ctx, `SELECT `+customerColumns+` FROM customers ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *PostgresStore) GetCustomer(ctx context.Context, id int64) (model.Customer, error) {
	row := s.q().QueryRowContext(ctx, `SELECT `+customerColumns+` FROM customers WHERE id=$1`, id)
	c, err := scanCustomer(row)
	if err != nil {
		return model.Customer{}, notFound(err)
	}
	return c, nil
}

func (s *PostgresStore) GetCustomerByCartID(ctx context.Context, cartID int64) (model.Customer, error) {
	row := s.q().QueryRowContext(ctx, `SELECT `+customerColumns+` FROM customers WHERE cart_id=$1`, cartID)
	c, err := scanCustomer(row)
	if err != nil {
		return model.Customer{}, notFound(err)
	}
	return c, nil
}
