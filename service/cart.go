package service

import (
	"context"
	"errors"

	"enchanted-shop/model"
	"enchanted-shop/store"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// CartService manages the line items of a cart.
//
// Stock is checked when a line item is created but never decremented: a
// line item records the intent to buy, not a reservation of units.
type CartService struct {
	store store.Store
	log   zerolog.Logger
}

func NewCartService(s store.Store, log zerolog.Logger) *CartService {
	return &CartService{store: s, log: log.With().Str("component", "cart").Logger()}
}

// CreateOrder adds a new line item for product to the cart. Adding a product
// that is already in the cart creates a second line item.
func (s *CartService) CreateOrder(ctx context.Context, cartID int64, product model.Product, amount int) (model.ProductOrder, error) {
	var o model.ProductOrder
	err := s.store.WithTx(ctx, func(tx store.Store) (err error) {
		o, err = s.createOrder(ctx, tx, cartID, product, amount)
		return err
	})
	if err != nil {
		return model.ProductOrder{}, classify("create order", err)
	}
	return o, nil
}

func (s *CartService) createOrder(ctx context.Context, st store.Store, cartID int64, product model.Product, amount int) (model.ProductOrder, error) {
	if err := validate.Var(amount, "gt=0"); err != nil {
		return model.ProductOrder{}, validationError("amount", err)
	}
	// stock is read inside the unit of work, not taken from the caller's copy
	stock, err := st.GetStock(ctx, product.ID)
	if err != nil {
		return model.ProductOrder{}, lookup(err, "product %d", product.ID)
	}
	if amount > stock {
		return model.ProductOrder{}, insufficientStock(amount, stock)
	}
	cart, err := st.GetCart(ctx, cartID)
	if err != nil {
		return model.ProductOrder{}, lookup(err, "cart %d", cartID)
	}

	o, err := st.CreateProductOrder(ctx, model.ProductOrder{CartID: cart.ID, Product: product, Amount: amount})
	if err != nil {
		return model.ProductOrder{}, err
	}
	s.log.Info().
		Int64("cart_id", cartID).
		Int64("product_id", product.ID).
		Int("amount", amount).
		Msg("product added to cart")
	return o, nil
}

// AddProductToCart resolves productID and creates the line item in one
// unit of work.
func (s *CartService) AddProductToCart(ctx context.Context, cartID, productID int64, amount int) (model.ProductOrder, error) {
	var out model.ProductOrder
	err := s.store.WithTx(ctx, func(tx store.Store) error {
		p, err := tx.GetProduct(ctx, productID)
		if err != nil {
			return lookup(err, "product %d", productID)
		}
		out, err = s.createOrder(ctx, tx, cartID, p, amount)
		return err
	})
	if err != nil {
		return model.ProductOrder{}, classify("add product to cart", err)
	}
	return out, nil
}

// EditAmount overwrites the amount of the line item for (cartID, productID).
// found is false when the cart holds no such line item; nothing is written
// in that case. Positivity of amount is the caller's responsibility.
func (s *CartService) EditAmount(ctx context.Context, cartID, productID int64, amount int) (model.ProductOrder, bool, error) {
	var (
		out   model.ProductOrder
		found bool
	)
	err := s.store.WithTx(ctx, func(tx store.Store) error {
		o, err := tx.FindProductOrder(ctx, cartID, productID)
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := tx.UpdateProductOrderAmount(ctx, o.ID, amount); err != nil {
			return err
		}
		o.Amount = amount
		out, found = o, true
		return nil
	})
	if err != nil {
		return model.ProductOrder{}, false, classify("edit amount", err)
	}
	if found {
		s.log.Info().Int64("cart_id", cartID).Int64("product_id", productID).Int("amount", amount).Msg("line item amount edited")
	}
	return out, found, nil
}

func (s *CartService) DeleteProductFromCart(ctx context.Context, cartID, productID int64) error {
	err := s.store.WithTx(ctx, func(tx store.Store) error {
		o, err := tx.FindProductOrder(ctx, cartID, productID)
		if err != nil {
			return lookup(err, "product %d in cart %d", productID, cartID)
		}
		return lookup(tx.DeleteProductOrder(ctx, o.ID), "product %d in cart %d", productID, cartID)
	})
	if err != nil {
		return classify("delete product from cart", err)
	}
	s.log.Info().Int64("cart_id", cartID).Int64("product_id", productID).Msg("product removed from cart")
	return nil
}

// ViewProductsInCart returns one view per line item, in line item order.
func (s *CartService) ViewProductsInCart(ctx context.Context, cartID int64) ([]model.ProductView, error) {
	items, err := s.store.ListProductOrders(ctx, cartID)
	if err != nil {
		return nil, classify("view products in cart", err)
	}
	out := make([]model.ProductView, 0, len(items))
	for _, o := range items {
		out = append(out, o.Product.View())
	}
	return out, nil
}

// TotalPrice sums price * amount over the cart's current line items.
func (s *CartService) TotalPrice(ctx context.Context, cartID int64) (decimal.Decimal, error) {
	var cart model.Cart
	err := s.store.WithTx(ctx, func(tx store.Store) error {
		c, err := tx.GetCart(ctx, cartID)
		if err != nil {
			return lookup(err, "cart %d", cartID)
		}
		c.ProductOrders, err = tx.ListProductOrders(ctx, cartID)
		if err != nil {
			return err
		}
		cart = c
		return nil
	})
	if err != nil {
		return decimal.Zero, classify("total price", err)
	}
	return cart.TotalPrice(), nil
}
