package pricing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"inventory/internal/core/types"
)

// RateFormat is the convention the order API uses for the tax rate.
// Inside the engine the tax rate is always a percentage.
type RateFormat string

const (
	// RateFraction stores 8% as 0.08.
	RateFraction RateFormat = "fraction"
	// RatePercent stores 8% as 8.
	RatePercent RateFormat = "percent"
)

// Valid reports whether f is a known format.
func (f RateFormat) Valid() bool {
	return f == RateFraction || f == RatePercent
}

// ParseRateFormat parses a configuration value.
func ParseRateFormat(s string) (RateFormat, error) {
	f := RateFormat(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		return RateFraction, nil
	}
	if !f.Valid() {
		return "", fmt.Errorf("unknown tax rate format %q (want %q or %q)", s, RateFraction, RatePercent)
	}
	return f, nil
}

// ToPercent converts a persisted rate to a percentage.
func (f RateFormat) ToPercent(rate types.Money) types.Money {
	if f == RatePercent {
		return rate
	}
	return rate.Mul(types.Hundred)
}

// FromPercent converts a percentage to the persisted convention.
func (f RateFormat) FromPercent(pct types.Money) types.Money {
	if f == RatePercent {
		return pct
	}
	return pct.Div(types.Hundred)
}

// PersistedLine is a line as returned by the order API. Numbers may arrive
// as JSON strings; server-computed totals are read but never trusted.
type PersistedLine struct {
	ProductID             types.Numeric `json:"product_id"`
	ProductSKU            string        `json:"product_sku"`
	ProductName           string        `json:"product_name"`
	ProductDescription    string        `json:"product_description"`
	Quantity              types.Numeric `json:"quantity"`
	UnitPrice             types.Numeric `json:"unit_price"`
	DiscountPercentage    types.Numeric `json:"discount_percentage"`
	LineTotal             types.Numeric `json:"line_total"`
	Notes                 string        `json:"notes"`
	CustomerNotes         string        `json:"customer_notes"`
	RequestedDeliveryDate string        `json:"requested_delivery_date"`
	ExpectedDeliveryDate  string        `json:"expected_delivery_date"`
}

// PersistedOrder is the pricing-relevant part of a stored order.
type PersistedOrder struct {
	Items          []PersistedLine `json:"items"`
	TaxRate        types.Numeric   `json:"tax_rate"`
	ShippingCost   types.Numeric   `json:"shipping_cost"`
	DiscountAmount types.Numeric   `json:"discount_amount"`
	Currency       string          `json:"currency"`
}

// Hydrate converts a stored order into editable lines and adjustments.
// Every line is recomputed from its inputs. SKU and name fall back to the
// catalog only when the stored line has none; the stored price is kept.
func (e *Engine) Hydrate(order PersistedOrder) ([]LineItem, Adjustments) {
	lines := make([]LineItem, 0, len(order.Items))
	for _, item := range order.Items {
		line := LineItem{
			ProductID:             types.ParseLenientInt(item.ProductID),
			ProductSKU:            item.ProductSKU,
			ProductName:           item.ProductName,
			ProductDescription:    item.ProductDescription,
			Quantity:              coerceQuantity(item.Quantity),
			UnitPrice:             coercePrice(item.UnitPrice),
			DiscountPercentage:    coercePercent(item.DiscountPercentage),
			Notes:                 item.Notes,
			CustomerNotes:         item.CustomerNotes,
			RequestedDeliveryDate: coerceDate(item.RequestedDeliveryDate),
			ExpectedDeliveryDate:  coerceDate(item.ExpectedDeliveryDate),
		}

		if product, ok := e.catalog.Lookup(line.ProductID); ok {
			if line.ProductSKU == "" {
				line.ProductSKU = product.SKU
			}
			if line.ProductName == "" {
				line.ProductName = product.Name
			}
		}

		lines = append(lines, e.Recompute(line))
	}

	adj := Adjustments{
		TaxRate:        types.Clamp(e.rates.ToPercent(order.TaxRate.Decimal), decimal.Zero, types.Hundred),
		ShippingCost:   types.NonNegative(order.ShippingCost.Decimal),
		DiscountAmount: types.NonNegative(order.DiscountAmount.Decimal),
		Currency:       normalizeCurrency(order.Currency),
	}
	if e.kind == KindPurchaseOrder {
		adj.DiscountAmount = decimal.Zero
	}
	if !validCurrency(adj.Currency) {
		adj.Currency = e.currency
	}

	return lines, adj
}

// PersistedTaxRate converts the engine's percentage into the order API
// convention.
func (e *Engine) PersistedTaxRate(adj Adjustments) types.Money {
	return e.rates.FromPercent(adj.TaxRate)
}

// RateFormat returns the persisted tax-rate convention.
func (e *Engine) RateFormat() RateFormat { return e.rates }
