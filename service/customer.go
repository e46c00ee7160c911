package service

import (
	"context"

	"enchanted-shop/model"
	"enchanted-shop/store"

	"github.com/rs/zerolog"
)

type CustomerService struct {
	store store.Store
	log   zerolog.Logger
}

func NewCustomerService(s store.Store, log zerolog.Logger) *CustomerService {
	return &CustomerService{store: s, log: log.With().Str("component", "customer").Logger()}
}

type RegisterCustomerInput struct {
	Name        string `validate:"required,notblank"`
	Email       string `validate:"required,email"`
	PhoneNumber string `validate:"required,notblank"`
	Address     string `validate:"required,notblank"`
}

// Register creates an empty cart and a customer owning it. Both rows are
// written in one unit of work, so a failed customer insert leaves no cart.
func (s *CustomerService) Register(ctx context.Context, in RegisterCustomerInput) (model.Customer, error) {
	if err := check(in); err != nil {
		return model.Customer{}, err
	}

	var out model.Customer
	err := s.store.WithTx(ctx, func(tx store.Store) error {
		cart, err := tx.CreateCart(ctx)
		if err != nil {
			return err
		}
		out, err = tx.CreateCustomer(ctx, model.Customer{
			Name:        in.Name,
			Email:       in.Email,
			PhoneNumber: in.PhoneNumber,
			Address:     in.Address,
			Cart:        cart,
		})
		return err
	})
	if err != nil {
		return model.Customer{}, classify("register customer", err)
	}
	s.log.Info().Int64("customer_id", out.ID).Int64("cart_id", out.Cart.ID).Msg("customer registered")
	return out, nil
}

func (s *CustomerService) FindAll(ctx context.Context) ([]model.Customer, error) {
	cs, err := s.store.ListCustomers(ctx)
	if err != nil {
		return nil, classify("list customers", err)
	}
	return cs, nil
}

func (s *CustomerService) FindByID(ctx context.Context, id int64) (model.Customer, error) {
	c, err := s.store.GetCustomer(ctx, id)
	if err != nil {
		return model.Customer{}, classify("find customer", lookup(err, "customer %d", id))
	}
	return c, nil
}

func (s *CustomerService) FindByCartID(ctx context.Context, cartID int64) (model.Customer, error) {
	c, err := s.store.GetCustomerByCartID(ctx, cartID)
	if err != nil {
		return model.Customer{}, classify("find customer by cart", lookup(err, "customer with cart %d", cartID))
	}
	return c, nil
}
