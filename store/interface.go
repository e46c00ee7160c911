package store

import (
	"context"
	"errors"

	"enchanted-shop/model"
)

// ErrNotFound is returned when a lookup, update or delete addresses no row.
var ErrNotFound = errors.New("record not found")

// Store is the persistence boundary used by the services.
type Store interface {
	ListProducts(ctx context.Context) ([]model.Product, error)
	GetProduct(ctx context.Context, id int64) (model.Product, error)
	FindProducts(ctx context.Context, f model.ProductFilter) ([]model.Product, error)
	CreateProduct(ctx context.Context, p model.Product) (model.Product, error)
	UpdateProduct(ctx context.Context, p model.Product) error
	DeleteProduct(ctx context.Context, id int64) error
	UpdateStock(ctx context.Context, productID int64, newStock int) error
	GetStock(ctx context.Context, productID int64) (int, error)

	CreateCart(ctx context.Context) (model.Cart, error)
	GetCart(ctx context.Context, id int64) (model.Cart, error)

	CreateProductOrder(ctx context.Context, o model.ProductOrder) (model.ProductOrder, error)
	FindProductOrder(ctx context.Context, cartID, productID int64) (model.ProductOrder, error)
	ListProductOrders(ctx context.Context, cartID int64) ([]model.ProductOrder, error)
	UpdateProductOrderAmount(ctx context.Context, id int64, amount int) error
	DeleteProductOrder(ctx context.Context, id int64) error

	CreateCustomer(ctx context.Context, c model.Customer) (model.Customer, error)
	ListCustomers(ctx context.Context) ([]model.Customer, error)
	GetCustomer(ctx context.Context, id int64) (model.Customer, error)
	GetCustomerByCartID(ctx context.Context, cartID int64) (model.Customer, error)

	// WithTx runs fn against a transactional view of the store. The
	// transaction commits when fn returns nil and rolls back otherwise.
	// Calling WithTx on a transactional view joins the outer transaction.
	WithTx(ctx context.Context, fn func(Store) error) error

	Ping(ctx context.Context) error
	Close() error
}
