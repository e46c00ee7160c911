package model

import "github.com/shopspring/decimal"

// Product is a catalog entry. Only the catalog mutates it.
type Product struct {
	ID                int64           `json:"id"`
	Name              string          `json:"name"`
	Category          Category        `json:"category"`
	Type              string          `json:"type"`
	Color             string          `json:"color"`
	Price             decimal.Decimal `json:"price"`
	AvailableQuantity int             `json:"availableQuantity"`
}

// InStock reports whether at least one unit is available.
func (p Product) InStock() bool {
	return p.AvailableQuantity > 0
}

// View returns the display projection shown in cart listings.
func (p Product) View() ProductView {
	return ProductView{
		Name:     p.Name,
		Price:    p.Price,
		Type:     p.Type,
		Category: p.Category,
		Color:    p.Color,
	}
}

type ProductView struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Type     string          `json:"type"`
	Category Category        `json:"category"`
	Color    string          `json:"color"`
}

// ProductFilter is a conjunction of equality predicates over products.
// Zero-valued fields do not constrain the result.
type ProductFilter struct {
	Category   Category
	Color      string
	Type       string
	Price      *decimal.Decimal
	OutOfStock bool
}

// Matches applies the filter to p in memory.
func (f ProductFilter) Matches(p Product) bool {
	if f.Category != CategoryUnknown && p.Category != f.Category {
		return false
	}
	if f.Color != "" && p.Color != f.Color {
		return false
	}
	if f.Type != "" && p.Type != f.Type {
		return false
	}
	if f.Price != nil && !p.Price.Equal(*f.Price) {
		return false
	}
	if f.OutOfStock && p.InStock() {
		return false
	}
	return true
}
