// Package orders prepares priced drafts for the order API: the reduced
// submission payload, the pre-submit checks run before sending it, and the
// mapping of field errors the API sends back.
package orders

import (
	"inventory/internal/core/types"
	"inventory/internal/domain/pricing"
)

// SubmissionItem is the reduced line projection accepted by the order API.
type SubmissionItem struct {
	ProductID          int64       `json:"product_id"`
	Quantity           int64       `json:"quantity"`
	UnitPrice          types.Money `json:"unit_price"`
	DiscountPercentage types.Money `json:"discount_percentage"`
	Notes              string      `json:"notes,omitempty"`
	LineTotal          types.Money `json:"line_total"`
}

// Submission is the pricing part of a create/update order request.
// TaxRate is expressed in the API's persisted convention.
type Submission struct {
	Items          []SubmissionItem `json:"items"`
	TaxRate        types.Money      `json:"tax_rate"`
	ShippingCost   types.Money      `json:"shipping_cost"`
	DiscountAmount *types.Money     `json:"discount_amount,omitempty"`
	Currency       string           `json:"currency"`
	Subtotal       types.Money      `json:"subtotal"`
	TaxAmount      types.Money      `json:"tax_amount"`
	TotalAmount    types.Money      `json:"total_amount"`
}

// Build validates the draft and projects it into a submission. Lines are
// recomputed first, so the payload never carries stale totals.
//
// line_total carries the value the order kind stores as its line total:
// post-discount for purchase orders, pre-discount for sales orders.
func Build(engine *pricing.Engine, lines []pricing.LineItem, adj pricing.Adjustments) (Submission, error) {
	lines = engine.Normalize(lines)
	adj = engine.NormalizeAdjustments(adj)

	if err := Validate(lines); err != nil {
		return Submission{}, err
	}

	totals := engine.ComputeOrderTotals(lines, adj)

	items := make([]SubmissionItem, len(lines))
	for i, l := range lines {
		items[i] = SubmissionItem{
			ProductID:          l.ProductID,
			Quantity:           l.Quantity,
			UnitPrice:          l.UnitPrice,
			DiscountPercentage: l.DiscountPercentage,
			Notes:              l.Notes,
			LineTotal:          l.LineTotal,
		}
	}

	sub := Submission{
		Items:        items,
		TaxRate:      engine.PersistedTaxRate(adj),
		ShippingCost: adj.ShippingCost,
		Currency:     totals.Currency,
		Subtotal:     totals.Subtotal,
		TaxAmount:    totals.TaxAmount,
		TotalAmount:  totals.Total,
	}
	if engine.Kind() == pricing.KindSalesOrder {
		discount := adj.DiscountAmount
		sub.DiscountAmount = &discount
	}
	return sub, nil
}
