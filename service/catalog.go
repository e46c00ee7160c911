package service

import (
	"context"
	"strings"

	"enchanted-shop/model"
	"enchanted-shop/store"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// CatalogService reads and maintains products.
type CatalogService struct {
	store store.Store
	log   zerolog.Logger
}

func NewCatalogService(s store.Store, log zerolog.Logger) *CatalogService {
	return &CatalogService{store: s, log: log.With().Str("component", "catalog").Logger()}
}

type CreateProductInput struct {
	Name              string         `validate:"required,notblank"`
	Category          model.Category `validate:"category"`
	Type              string
	Color             string
	Price             decimal.Decimal `validate:"price"`
	AvailableQuantity int             `validate:"gte=0"`
}

type EditProductInput struct {
	Name              string          `validate:"required,notblank"`
	Price             decimal.Decimal `validate:"price"`
	AvailableQuantity int             `validate:"gte=0"`
}

func (s *CatalogService) FindAll(ctx context.Context) ([]model.Product, error) {
	ps, err := s.store.ListProducts(ctx)
	return ps, classify("list products", err)
}

func (s *CatalogService) FindByID(ctx context.Context, id int64) (model.Product, error) {
	p, err := s.store.GetProduct(ctx, id)
	if err != nil {
		return model.Product{}, classify("get product", lookup(err, "product %d", id))
	}
	return p, nil
}

func (s *CatalogService) find(ctx context.Context, f model.ProductFilter) ([]model.Product, error) {
	ps, err := s.store.FindProducts(ctx, f)
	if err != nil {
		return nil, classify("find products", err)
	}
	return ps, nil
}

// No product is addressable by a blank attribute; those lookups are empty.

func (s *CatalogService) FindByCategory(ctx context.Context, c model.Category) ([]model.Product, error) {
	if !c.Valid() {
		return []model.Product{}, nil
	}
	return s.find(ctx, model.ProductFilter{Category: c})
}

func (s *CatalogService) FindByColor(ctx context.Context, color string) ([]model.Product, error) {
	if strings.TrimSpace(color) == "" {
		return []model.Product{}, nil
	}
	return s.find(ctx, model.ProductFilter{Color: color})
}

func (s *CatalogService) FindByPrice(ctx context.Context, price decimal.Decimal) ([]model.Product, error) {
	return s.find(ctx, model.ProductFilter{Price: &price})
}

func (s *CatalogService) FindByType(ctx context.Context, typ string) ([]model.Product, error) {
	if strings.TrimSpace(typ) == "" {
		return []model.Product{}, nil
	}
	return s.find(ctx, model.ProductFilter{Type: typ})
}

func (s *CatalogService) FindByCategoryAndColor(ctx context.Context, c model.Category, color string) ([]model.Product, error) {
	if !c.Valid() || strings.TrimSpace(color) == "" {
		return []model.Product{}, nil
	}
	return s.find(ctx, model.ProductFilter{Category: c, Color: color})
}

// OutOfStock returns exactly the products with no available units.
func (s *CatalogService) OutOfStock(ctx context.Context) ([]model.Product, error) {
	return s.find(ctx, model.ProductFilter{OutOfStock: true})
}

func (s *CatalogService) Create(ctx context.Context, in CreateProductInput) (model.Product, error) {
	if err := check(in); err != nil {
		return model.Product{}, err
	}

	p, err := s.store.CreateProduct(ctx, model.Product{
		Name:              in.Name,
		Category:          in.Category,
		Type:              in.Type,
		Color:             in.Color,
		Price:             in.Price,
		AvailableQuantity: in.AvailableQuantity,
	})
	if err != nil {
		return model.Product{}, classify("create product", err)
	}
	s.log.Info().Int64("product_id", p.ID).Str("category", p.Category.String()).Msg("product created")
	return p, nil
}

// Edit overwrites name, price and available quantity of an existing product.
func (s *CatalogService) Edit(ctx context.Context, id int64, in EditProductInput) (model.Product, error) {
	if err := check(in); err != nil {
		return model.Product{}, err
	}

	var out model.Product
	err := s.store.WithTx(ctx, func(tx store.Store) error {
		p, err := tx.GetProduct(ctx, id)
		if err != nil {
			return lookup(err, "product %d", id)
		}
		p.Name = in.Name
		p.Price = in.Price
		p.AvailableQuantity = in.AvailableQuantity
		if err := tx.UpdateProduct(ctx, p); err != nil {
			return lookup(err, "product %d", id)
		}
		out = p
		return nil
	})
	if err != nil {
		return model.Product{}, classify("edit product", err)
	}
	s.log.Info().Int64("product_id", id).Msg("product edited")
	return out, nil
}

func (s *CatalogService) Delete(ctx context.Context, id int64) error {
	if err := s.store.DeleteProduct(ctx, id); err != nil {
		return classify("delete product", lookup(err, "product %d", id))
	}
	s.log.Info().Int64("product_id", id).Msg("product deleted")
	return nil
}

// UpdateStock sets the absolute stock level of a product.
func (s *CatalogService) UpdateStock(ctx context.Context, id int64, qty int) (model.Product, error) {
	if err := validate.Var(qty, "gte=0"); err != nil {
		return model.Product{}, validationError("availableQuantity", err)
	}

	var out model.Product
	err := s.store.WithTx(ctx, func(tx store.Store) error {
		if err := tx.UpdateStock(ctx, id, qty); err != nil {
			return lookup(err, "product %d", id)
		}
		p, err := tx.GetProduct(ctx, id)
		if err != nil {
			return lookup(err, "product %d", id)
		}
		out = p
		return nil
	})
	if err != nil {
		return model.Product{}, classify("update stock", err)
	}
	s.log.Info().Int64("product_id", id).Int("available_quantity", qty).Msg("stock updated")
	return out, nil
}
