// Package catalog provides the product catalog snapshot consumed by order forms.
//
// A snapshot is loaded once per page (or once per refresh on the server) and
// never changes afterwards. Lines copy SKU, name and price from it at selection
// time, so later catalog changes never reach existing lines.
package catalog

import (
	"inventory/internal/core/types"
)

// Product is a purchasable catalog entry.
type Product struct {
	ID          int64         `db:"id" json:"id"`
	SKU         string        `db:"sku" json:"sku"`
	Name        string        `db:"name" json:"name"`
	Description string        `db:"description" json:"description,omitempty"`
	Price       types.Numeric `db:"-" json:"price"`
}

// UnitPrice returns the catalog price, clamped to zero when the source sent a
// negative value.
func (p Product) UnitPrice() types.Money {
	return types.NonNegative(p.Price.Decimal)
}
