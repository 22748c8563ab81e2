package dto

import (
	"inventory/internal/domain/orders"
	"inventory/internal/domain/pricing"
)

// --- Request DTOs ---

// DraftRequest carries the caller-held order state. Derived fields sent by
// the client are ignored and recomputed.
type DraftRequest struct {
	Lines       []pricing.LineItem  `json:"lines"`
	Adjustments pricing.Adjustments `json:"adjustments"`
}

// ToDraft converts the request into service input.
func (r *DraftRequest) ToDraft() pricing.Draft {
	return pricing.Draft{
		Lines:       r.Lines,
		Adjustments: r.Adjustments,
	}
}

// FieldUpdateRequest sets one field on a line or on the adjustments.
// Value is passed to the engine as decoded; any JSON scalar is accepted.
type FieldUpdateRequest struct {
	DraftRequest
	Field string `json:"field" binding:"required"`
	Value any    `json:"value"`
}

// --- Response DTOs ---

// DraftResponse returns the new state with exact and display totals.
type DraftResponse struct {
	Lines         []pricing.LineItem  `json:"lines"`
	Adjustments   pricing.Adjustments `json:"adjustments"`
	Totals        pricing.Totals      `json:"totals"`
	DisplayTotals pricing.Totals      `json:"displayTotals"`
}

// displayPlaces is the number of decimals shown in order forms.
const displayPlaces = 2

// FromDraft converts service output to response.
func FromDraft(d pricing.Draft) DraftResponse {
	return DraftResponse{
		Lines:         d.Lines,
		Adjustments:   d.Adjustments,
		Totals:        d.Totals,
		DisplayTotals: pricing.RoundTotals(d.Totals, displayPlaces),
	}
}

// SubmissionResponse wraps the payload ready for the order API.
type SubmissionResponse struct {
	Kind       pricing.Kind       `json:"kind"`
	Submission orders.Submission `json:"submission"`
}
