package model

import "github.com/shopspring/decimal"

// ProductOrder is one line item of a cart. Product is a reference to the
// catalog row, so price changes are visible in later totals.
type ProductOrder struct {
	ID      int64   `json:"id"`
	CartID  int64   `json:"-"`
	Product Product `json:"product"`
	Amount  int     `json:"amount"`
}

// Subtotal is price times amount.
func (o ProductOrder) Subtotal() decimal.Decimal {
	return o.Product.Price.Mul(decimal.NewFromInt(int64(o.Amount)))
}

// Cart owns line items. Its total is always derived, never stored.
type Cart struct {
	ID            int64          `json:"id"`
	ProductOrders []ProductOrder `json:"productOrders,omitempty"`
}

func (c Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, o := range c.ProductOrders {
		total = total.Add(o.Subtotal())
	}
	return total
}
