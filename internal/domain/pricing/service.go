package pricing

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"inventory/internal/core/apperror"
	"inventory/internal/domain/catalog"
	"inventory/pkg/logger"
)

const tracerName = "inventory/pricing"

// SnapshotProvider returns the catalog snapshot current at call time.
type SnapshotProvider interface {
	Snapshot() *catalog.Snapshot
}

// Draft is the caller-held state of an order being edited, together with
// the totals derived from it.
type Draft struct {
	Lines       []LineItem  `json:"lines"`
	Adjustments Adjustments `json:"adjustments"`
	Totals      Totals      `json:"totals"`
}

// Service exposes the engines to transport adapters. Incoming state is
// normalized before every operation and totals are always recomputed.
type Service struct {
	catalog SnapshotProvider
	cfg     Config
	tracer  trace.Tracer
}

// NewService creates a pricing service.
func NewService(provider SnapshotProvider, cfg Config) *Service {
	return &Service{
		catalog: provider,
		cfg:     cfg,
		tracer:  otel.Tracer(tracerName),
	}
}

// ParseKind accepts the URL and API spellings of an order kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "purchase-orders", "purchase-order", "purchase_orders", "purchase_order", "po":
		return KindPurchaseOrder, nil
	case "sales-orders", "sales-order", "sales_orders", "sales_order", "so":
		return KindSalesOrder, nil
	}
	return "", apperror.NewInvalidInput(fmt.Sprintf("unknown order kind %q", s)).
		WithDetail("kind", s)
}

// Engine returns an engine for kind bound to the current catalog snapshot.
func (s *Service) Engine(kind Kind) (*Engine, error) {
	var snap *catalog.Snapshot
	if s.catalog != nil {
		snap = s.catalog.Snapshot()
	}
	return NewEngine(kind, snap, s.cfg)
}

// New returns an empty draft with default adjustments.
func (s *Service) New(ctx context.Context, kind Kind) (Draft, error) {
	return s.run(ctx, "New", kind, Draft{}, func(e *Engine, d Draft) (Draft, error) {
		d.Adjustments = e.NewAdjustments()
		d.Lines = []LineItem{}
		return d, nil
	})
}

// AddLine appends an empty line.
func (s *Service) AddLine(ctx context.Context, kind Kind, in Draft) (Draft, error) {
	return s.run(ctx, "AddLine", kind, in, func(e *Engine, d Draft) (Draft, error) {
		d.Lines = e.AddLine(d.Lines)
		return d, nil
	})
}

// RemoveLine removes the line at index.
func (s *Service) RemoveLine(ctx context.Context, kind Kind, in Draft, index int) (Draft, error) {
	return s.run(ctx, "RemoveLine", kind, in, func(e *Engine, d Draft) (Draft, error) {
		lines, err := e.RemoveLine(d.Lines, index)
		if err != nil {
			return d, err
		}
		d.Lines = lines
		return d, nil
	}, attribute.Int("line.index", index))
}

// UpdateLine sets one field of the line at index.
func (s *Service) UpdateLine(ctx context.Context, kind Kind, in Draft, index int, field string, value any) (Draft, error) {
	return s.run(ctx, "UpdateLine", kind, in, func(e *Engine, d Draft) (Draft, error) {
		lines, err := e.UpdateLine(d.Lines, index, field, value)
		if err != nil {
			return d, err
		}
		d.Lines = lines
		return d, nil
	}, attribute.Int("line.index", index), attribute.String("line.field", field))
}

// SetAdjustment sets one order-level field.
func (s *Service) SetAdjustment(ctx context.Context, kind Kind, in Draft, field string, value any) (Draft, error) {
	return s.run(ctx, "SetAdjustment", kind, in, func(e *Engine, d Draft) (Draft, error) {
		adj, err := e.SetAdjustment(d.Adjustments, field, value)
		if err != nil {
			return d, err
		}
		d.Adjustments = adj
		return d, nil
	}, attribute.String("adjustment.field", field))
}

// Totals recomputes the totals of a draft without changing it.
func (s *Service) Totals(ctx context.Context, kind Kind, in Draft) (Draft, error) {
	return s.run(ctx, "Totals", kind, in, func(_ *Engine, d Draft) (Draft, error) {
		return d, nil
	})
}

// Hydrate turns a stored order into an editable draft.
func (s *Service) Hydrate(ctx context.Context, kind Kind, order PersistedOrder) (Draft, error) {
	return s.run(ctx, "Hydrate", kind, Draft{}, func(e *Engine, d Draft) (Draft, error) {
		d.Lines, d.Adjustments = e.Hydrate(order)
		return d, nil
	}, attribute.Int("order.items", len(order.Items)))
}

type operation func(e *Engine, d Draft) (Draft, error)

func (s *Service) run(ctx context.Context, name string, kind Kind, in Draft, op operation, attrs ...attribute.KeyValue) (Draft, error) {
	ctx, span := s.tracer.Start(ctx, "pricing."+name,
		trace.WithAttributes(append(attrs,
			attribute.String("order.kind", kind.String()),
			attribute.Int("order.lines", len(in.Lines)),
		)...),
	)
	defer span.End()

	engine, err := s.Engine(kind)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Draft{}, err
	}

	in.Lines = engine.Normalize(in.Lines)
	in.Adjustments = engine.NormalizeAdjustments(in.Adjustments)

	out, err := op(engine, in)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Debug(ctx, "pricing operation rejected",
			"op", name,
			"kind", kind,
			"error", err)
		return Draft{}, err
	}

	if out.Lines == nil {
		out.Lines = []LineItem{}
	}
	out.Totals = engine.ComputeOrderTotals(out.Lines, out.Adjustments)

	logger.Debug(ctx, "pricing operation",
		"op", name,
		"kind", kind,
		"lines", len(out.Lines),
		"total", out.Totals.Total.String())

	return out, nil
}
