package handlers

import (
	"github.com/gin-gonic/gin"

	"inventory/internal/domain/orders"
	"inventory/internal/domain/pricing"
	"inventory/internal/infrastructure/http/v1/dto"
)

// PricingHandler exposes the pricing engines to order forms.
// The draft travels with every request; the server keeps no order state.
type PricingHandler struct {
	*BaseHandler
	service *pricing.Service
}

// NewPricingHandler creates a new pricing handler.
func NewPricingHandler(service *pricing.Service) *PricingHandler {
	return &PricingHandler{
		BaseHandler: NewBaseHandler(),
		service:     service,
	}
}

func (h *PricingHandler) kind(c *gin.Context) (pricing.Kind, bool) {
	kind, err := pricing.ParseKind(c.Param("kind"))
	if err != nil {
		h.Error(c, err)
		return "", false
	}
	return kind, true
}

func (h *PricingHandler) respond(c *gin.Context, draft pricing.Draft, err error) {
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromDraft(draft))
}

// New returns an empty draft.
// POST /v1/pricing/:kind/new
func (h *PricingHandler) New(c *gin.Context) {
	kind, ok := h.kind(c)
	if !ok {
		return
	}
	draft, err := h.service.New(c.Request.Context(), kind)
	h.respond(c, draft, err)
}

// AddLine appends an empty line.
// POST /v1/pricing/:kind/lines
func (h *PricingHandler) AddLine(c *gin.Context) {
	kind, ok := h.kind(c)
	if !ok {
		return
	}
	var req dto.DraftRequest
	if !h.BindJSON(c, &req) {
		return
	}
	draft, err := h.service.AddLine(c.Request.Context(), kind, req.ToDraft())
	h.respond(c, draft, err)
}

// UpdateLine sets one field of a line.
// PATCH /v1/pricing/:kind/lines/:index
func (h *PricingHandler) UpdateLine(c *gin.Context) {
	kind, ok := h.kind(c)
	if !ok {
		return
	}
	index, ok := h.ParseIntParam(c, "index")
	if !ok {
		return
	}
	var req dto.FieldUpdateRequest
	if !h.BindJSON(c, &req) {
		return
	}
	draft, err := h.service.UpdateLine(c.Request.Context(), kind, req.ToDraft(), index, req.Field, req.Value)
	h.respond(c, draft, err)
}

// RemoveLine removes a line.
// DELETE /v1/pricing/:kind/lines/:index
func (h *PricingHandler) RemoveLine(c *gin.Context) {
	kind, ok := h.kind(c)
	if !ok {
		return
	}
	index, ok := h.ParseIntParam(c, "index")
	if !ok {
		return
	}
	var req dto.DraftRequest
	if !h.BindJSON(c, &req) {
		return
	}
	draft, err := h.service.RemoveLine(c.Request.Context(), kind, req.ToDraft(), index)
	h.respond(c, draft, err)
}

// SetAdjustment sets one order-level field.
// POST /v1/pricing/:kind/adjustments
func (h *PricingHandler) SetAdjustment(c *gin.Context) {
	kind, ok := h.kind(c)
	if !ok {
		return
	}
	var req dto.FieldUpdateRequest
	if !h.BindJSON(c, &req) {
		return
	}
	draft, err := h.service.SetAdjustment(c.Request.Context(), kind, req.ToDraft(), req.Field, req.Value)
	h.respond(c, draft, err)
}

// Totals recomputes totals for the posted draft.
// POST /v1/pricing/:kind/totals
func (h *PricingHandler) Totals(c *gin.Context) {
	kind, ok := h.kind(c)
	if !ok {
		return
	}
	var req dto.DraftRequest
	if !h.BindJSON(c, &req) {
		return
	}
	draft, err := h.service.Totals(c.Request.Context(), kind, req.ToDraft())
	h.respond(c, draft, err)
}

// Hydrate converts a stored order into a draft.
// POST /v1/pricing/:kind/hydrate
func (h *PricingHandler) Hydrate(c *gin.Context) {
	kind, ok := h.kind(c)
	if !ok {
		return
	}
	var req pricing.PersistedOrder
	if !h.BindJSON(c, &req) {
		return
	}
	draft, err := h.service.Hydrate(c.Request.Context(), kind, req)
	h.respond(c, draft, err)
}

// Submission validates the draft and returns the order API payload.
// POST /v1/pricing/:kind/submission
func (h *PricingHandler) Submission(c *gin.Context) {
	kind, ok := h.kind(c)
	if !ok {
		return
	}
	var req dto.DraftRequest
	if !h.BindJSON(c, &req) {
		return
	}
	engine, err := h.service.Engine(kind)
	if err != nil {
		h.Error(c, err)
		return
	}
	sub, err := orders.Build(engine, req.Lines, req.Adjustments)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.SubmissionResponse{Kind: kind, Submission: sub})
}
