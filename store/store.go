package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"enchanted-shop/model"

	_ "github.com/lib/pq"
)

// querier is the subset of *sql.DB and *sql.Tx the store needs.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

var _ Store = (*PostgresStore)(nil)

// PostgresStore is a Store backed by Postgres.
type PostgresStore struct {
	DB *sql.DB

	// set on the view handed to WithTx callbacks
	tx *sql.Tx
}

func NewPostgresStore(dsn string) (*PostgresStore, error) {
	DB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := DB.Ping(); err != nil {
		_ = DB.Close()
		return nil, err
	}
	return &PostgresStore{DB: DB}, nil
}

func (s *PostgresStore) Close() error { return s.DB.Close() }

// Migrate applies the idempotent schema script.
func (s *PostgresStore) Migrate(ctx context.Context, schema string) error {
	if _, err := s.DB.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error { return s.DB.PingContext(ctx) }

func (s *PostgresStore) q() querier {
	if s.tx != nil {
		return s.tx
	}
	return s.DB
}

func (s *PostgresStore) WithTx(ctx context.Context, fn func(Store) error) error {
	if s.tx != nil {
		return fn(s)
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	// ensure rollback on early return or panic
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := fn(&PostgresStore{DB: s.DB, tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// mustAffect turns a zero RowsAffected into ErrNotFound.
func mustAffect(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

const productColumns = `id, name, category, type, color, price, available_quantity`

func scanProduct(r rowScanner) (model.Product, error) {
	var p model.Product
	err := r.Scan(&p.ID, &p.Name, &p.Category, &p.Type, &p.Color, &p.Price, &p.AvailableQuantity)
	return p, err
}

func (s *PostgresStore) queryProducts(ctx context.Context, query string, args ...any) ([]model.Product, error) {
	rows, err := s.q().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *PostgresStore) ListProducts(ctx context.Context) ([]model.Product, error) {
	return s.queryProducts(ctx, `SELECT `+productColumns+` FROM products ORDER BY id`)
}

func (s *PostgresStore) GetProduct(ctx context.Context, id int64) (model.Product, error) {
	row := s.q().QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id=$1`, id)
	p, err := scanProduct(row)
	if err != nil {
		return model.Product{}, notFound(err)
	}
	return p, nil
}

// buildProductQuery renders f as a WHERE clause with positional args.
func buildProductQuery(f model.ProductFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.Category != model.CategoryUnknown {
		add("category=$%d", f.Category)
	}
	if f.Color != "" {
		add("color=$%d", f.Color)
	}
	if f.Type != "" {
		add("type=$%d", f.Type)
	}
	if f.Price != nil {
		add("price=$%d", *f.Price)
	}
	if f.OutOfStock {
		conds = append(conds, "available_quantity=0")
	}

	query := `SELECT ` + productColumns + ` FROM products`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	return query + ` ORDER BY id`, args
}

func (s *PostgresStore) FindProducts(ctx context.Context, f model.ProductFilter) ([]model.Product, error) {
	query, args := buildProductQuery(f)
	return s.queryProducts(ctx, query, args...)
}

// CreateProduct inserts a product and returns it with its id
func (s *PostgresStore) CreateProduct(ctx context.Context, p model.Product) (model.Product, error) {
	err := s.q().QueryRowContext(ctx,
		`INSERT INTO products (name, category, type, color, price, available_quantity) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		p.Name, p.Category, p.Type, p.Color, p.Price, p.AvailableQuantity,
	).Scan(&p.ID)
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}

func (s *PostgresStore) UpdateProduct(ctx context.Context, p model.Product) error {
	res, err := s.q().ExecContext(ctx,
		`UPDATE products SET name=$1, category=$2, type=$3, color=$4, price=$5, available_quantity=$6 WHERE id=$7`,
		p.Name, p.Category, p.Type, p.Color, p.Price, p.AvailableQuantity, p.ID,
	)
	if err != nil {
		return err
	}
	return mustAffect(res)
}

// DeleteProduct removes the product; its line items go with it (ON DELETE CASCADE).
func (s *PostgresStore) DeleteProduct(ctx context.Context, id int64) error {
	res, err := s.q().ExecContext(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return err
	}
	return mustAffect(res)
}
