package pricing

import (
	"strings"

	"github.com/shopspring/decimal"

	"inventory/internal/core/apperror"
	"inventory/internal/core/types"
)

// Adjustments are the order-level pricing inputs.
type Adjustments struct {
	// TaxRate is a percentage in [0, 100].
	TaxRate types.Money `json:"taxRate"`

	// ShippingCost is an absolute amount.
	ShippingCost types.Money `json:"shippingCost"`

	// DiscountAmount is an absolute amount subtracted after tax and shipping.
	// Always zero for purchase orders.
	DiscountAmount types.Money `json:"discountAmount"`

	// Currency is an ISO 4217 code.
	Currency string `json:"currency"`
}

// Totals are derived from lines and adjustments and never stored.
type Totals struct {
	LineCount      int         `json:"lineCount"`
	TotalQuantity  int64       `json:"totalQuantity"`
	Subtotal       types.Money `json:"subtotal"`
	TaxAmount      types.Money `json:"taxAmount"`
	ShippingCost   types.Money `json:"shippingCost"`
	DiscountAmount types.Money `json:"discountAmount"`
	Total          types.Money `json:"total"`
	Currency       string      `json:"currency"`
}

// NewAdjustments returns zero adjustments in the default currency.
func (e *Engine) NewAdjustments() Adjustments {
	return Adjustments{
		TaxRate:        decimal.Zero,
		ShippingCost:   decimal.Zero,
		DiscountAmount: decimal.Zero,
		Currency:       e.currency,
	}
}

// ComputeOrderTotals derives order totals from the current lines and
// adjustments. It reads the lines' derived fields as they are; lines that did
// not come from this engine should go through Normalize first.
//
//	taxAmount = subtotal * taxRate / 100
//	total     = subtotal + taxAmount + shippingCost - discountAmount
func (e *Engine) ComputeOrderTotals(lines []LineItem, adj Adjustments) Totals {
	subtotal := decimal.Zero
	var qty int64
	for _, l := range lines {
		qty += l.Quantity
		if e.kind == KindPurchaseOrder {
			subtotal = subtotal.Add(l.LineTotal)
		} else {
			subtotal = subtotal.Add(l.FinalLineTotal)
		}
	}

	discount := adj.DiscountAmount
	if e.kind == KindPurchaseOrder {
		discount = decimal.Zero
	}

	tax := types.PercentOf(subtotal, adj.TaxRate)
	total := subtotal.Add(tax).Add(adj.ShippingCost).Sub(discount)

	currency := adj.Currency
	if currency == "" {
		currency = e.currency
	}

	return Totals{
		LineCount:      len(lines),
		TotalQuantity:  qty,
		Subtotal:       subtotal,
		TaxAmount:      tax,
		ShippingCost:   adj.ShippingCost,
		DiscountAmount: discount,
		Total:          total,
		Currency:       currency,
	}
}

// SetAdjustment sets one order-level field and returns the new adjustments.
// Numeric input never fails: unparsable values become zero, the tax rate is
// clamped to [0, 100] and amounts to >= 0.
func (e *Engine) SetAdjustment(adj Adjustments, field string, value any) (Adjustments, error) {
	name, _ := CanonicalField(field)

	switch name {
	case FieldTaxRate:
		adj.TaxRate = coercePercent(value)
	case FieldShippingCost:
		adj.ShippingCost = coercePrice(value)
	case FieldDiscountAmount:
		if e.kind == KindPurchaseOrder {
			return adj, apperror.NewUnsupportedField("purchase order adjustments", name)
		}
		adj.DiscountAmount = coercePrice(value)
	case FieldCurrency:
		currency := normalizeCurrency(coerceText(value))
		if currency == "" {
			currency = e.currency
		}
		if !validCurrency(currency) {
			return adj, apperror.NewValidation("currency must be a 3-letter code").
				WithDetail("field", FieldCurrency).
				WithDetail("value", currency)
		}
		adj.Currency = currency
	default:
		return adj, apperror.NewUnsupportedField(e.kind.String()+" adjustments", field)
	}
	return adj, nil
}

// NormalizeAdjustments applies the SetAdjustment coercion rules to
// adjustments received from outside the engine.
func (e *Engine) NormalizeAdjustments(adj Adjustments) Adjustments {
	adj.TaxRate = types.Clamp(types.Bounded(adj.TaxRate), decimal.Zero, types.Hundred)
	adj.ShippingCost = types.NonNegative(types.Bounded(adj.ShippingCost))
	adj.DiscountAmount = types.NonNegative(types.Bounded(adj.DiscountAmount))
	if e.kind == KindPurchaseOrder {
		adj.DiscountAmount = decimal.Zero
	}
	adj.Currency = normalizeCurrency(adj.Currency)
	if !validCurrency(adj.Currency) {
		adj.Currency = e.currency
	}
	return adj
}

// RoundTotals rounds every amount to places decimals for display.
// The engine itself never rounds.
func RoundTotals(t Totals, places int32) Totals {
	t.Subtotal = t.Subtotal.Round(places)
	t.TaxAmount = t.TaxAmount.Round(places)
	t.ShippingCost = t.ShippingCost.Round(places)
	t.DiscountAmount = t.DiscountAmount.Round(places)
	t.Total = t.Total.Round(places)
	return t
}

func normalizeCurrency(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func validCurrency(s string) bool {
	if len(s) != 3 {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
