package service

import (
	"context"

	"enchanted-shop/model"

	"github.com/shopspring/decimal"
)

type CatalogServiceInterface interface {
	FindAll(ctx context.Context) ([]model.Product, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)
	FindByCategory(ctx context.Context, c model.Category) ([]model.Product, error)
	FindByColor(ctx context.Context, color string) ([]model.Product, error)
	FindByPrice(ctx context.Context, price decimal.Decimal) ([]model.Product, error)
	FindByType(ctx context.Context, typ string) ([]model.Product, error)
	FindByCategoryAndColor(ctx context.Context, c model.Category, color string) ([]model.Product, error)
	OutOfStock(ctx context.Context) ([]model.Product, error)
	Create(ctx context.Context, in CreateProductInput) (model.Product, error)
	Edit(ctx context.Context, id int64, in EditProductInput) (model.Product, error)
	Delete(ctx context.Context, id int64) error
	UpdateStock(ctx context.Context, id int64, qty int) (model.Product, error)
}

type CartServiceInterface interface {
	CreateOrder(ctx context.Context, cartID int64, product model.Product, amount int) (model.ProductOrder, error)
	AddProductToCart(ctx context.Context, cartID, productID int64, amount int) (model.ProductOrder, error)
	EditAmount(ctx context.Context, cartID, productID int64, amount int) (model.ProductOrder, bool, error)
	DeleteProductFromCart(ctx context.Context, cartID, productID int64) error
	ViewProductsInCart(ctx context.Context, cartID int64) ([]model.ProductView, error)
	TotalPrice(ctx context.Context, cartID int64) (decimal.Decimal, error)
}

type CustomerServiceInterface interface {
	Register(ctx context.Context, in RegisterCustomerInput) (model.Customer, error)
	FindAll(ctx context.Context) ([]model.Customer, error)
	FindByID(ctx context.Context, id int64) (model.Customer, error)
	FindByCartID(ctx context.Context, cartID int64) (model.Customer, error)
}

var (
	_ CatalogServiceInterface  = (*CatalogService)(nil)
	_ CartServiceInterface     = (*CartService)(nil)
	_ CustomerServiceInterface = (*CustomerService)(nil)
)
