package pricing

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"inventory/internal/core/apperror"
	"inventory/internal/core/types"
	"inventory/internal/domain/catalog"
)

// Config holds engine settings shared by both order kinds.
type Config struct {
	// DefaultCurrency is used for new orders and when a currency is cleared.
	DefaultCurrency string

	// PersistedRateFormat is how the order API stores the tax rate.
	PersistedRateFormat RateFormat
}

// DefaultConfig returns the defaults used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		DefaultCurrency:     "USD",
		PersistedRateFormat: RateFraction,
	}
}

// Engine derives totals for one order kind against a fixed catalog snapshot.
// An Engine holds no per-order state and is safe for concurrent use.
type Engine struct {
	kind     Kind
	catalog  *catalog.Snapshot
	currency string
	rates    RateFormat
}

// NewPurchaseOrderPricing returns the engine for purchase orders.
func NewPurchaseOrderPricing(snapshot *catalog.Snapshot, cfg Config) *Engine {
	return newEngine(KindPurchaseOrder, snapshot, cfg)
}

// NewSalesOrderPricing returns the engine for sales orders.
func NewSalesOrderPricing(snapshot *catalog.Snapshot, cfg Config) *Engine {
	return newEngine(KindSalesOrder, snapshot, cfg)
}

// NewEngine returns the engine for kind.
func NewEngine(kind Kind, snapshot *catalog.Snapshot, cfg Config) (*Engine, error) {
	if !kind.Valid() {
		return nil, apperror.NewInvalidInput(fmt.Sprintf("unknown order kind %q", kind))
	}
	return newEngine(kind, snapshot, cfg), nil
}

func newEngine(kind Kind, snapshot *catalog.Snapshot, cfg Config) *Engine {
	if snapshot == nil {
		snapshot = catalog.Empty()
	}
	currency := normalizeCurrency(cfg.DefaultCurrency)
	if !validCurrency(currency) {
		currency = DefaultConfig().DefaultCurrency
	}
	rates := cfg.PersistedRateFormat
	if !rates.Valid() {
		rates = RateFraction
	}
	return &Engine{kind: kind, catalog: snapshot, currency: currency, rates: rates}
}

// Kind returns the order kind the engine prices.
func (e *Engine) Kind() Kind { return e.kind }

// Catalog returns the snapshot the engine looks products up in.
func (e *Engine) Catalog() *catalog.Snapshot { return e.catalog }

// DefaultCurrency returns the currency assigned to new orders.
func (e *Engine) DefaultCurrency() string { return e.currency }

// NewLine returns an empty line: quantity 1, no product, zero price and discount.
func (e *Engine) NewLine() LineItem {
	return e.Recompute(LineItem{
		Quantity:           1,
		UnitPrice:          decimal.Zero,
		DiscountPercentage: decimal.Zero,
	})
}

// AddLine returns lines with a new empty line appended.
func (e *Engine) AddLine(lines []LineItem) []LineItem {
	out := cloneLines(lines, 1)
	return append(out, e.NewLine())
}

// RemoveLine returns lines without the line at index.
func (e *Engine) RemoveLine(lines []LineItem, index int) ([]LineItem, error) {
	if index < 0 || index >= len(lines) {
		return nil, apperror.NewLineIndexOutOfRange(index, len(lines))
	}
	out := make([]LineItem, 0, len(lines)-1)
	out = append(out, lines[:index]...)
	out = append(out, lines[index+1:]...)
	return out, nil
}

// UpdateLine sets one field of the line at index and returns the new list.
//
// Quantity, unit price and discount are coerced leniently and trigger
// recomputation of the line. Selecting a product copies SKU, name,
// description and price from the catalog snapshot; an id missing from the
// snapshot only changes the id. Text and date fields are stored without
// recomputation, and unknown field names land in Extra. Derived fields
// cannot be set.
func (e *Engine) UpdateLine(lines []LineItem, index int, field string, value any) ([]LineItem, error) {
	if index < 0 || index >= len(lines) {
		return nil, apperror.NewLineIndexOutOfRange(index, len(lines))
	}

	line := lines[index].clone()
	name, known := CanonicalField(field)

	switch name {
	case FieldQuantity:
		line.Quantity = coerceQuantity(value)
		line = e.Recompute(line)
	case FieldUnitPrice:
		line.UnitPrice = coercePrice(value)
		line = e.Recompute(line)
	case FieldDiscountPercentage:
		line.DiscountPercentage = coercePercent(value)
		line = e.Recompute(line)
	case FieldProductID:
		line = e.selectProduct(line, types.ParseLenientInt(value))
	case FieldProductSKU:
		line.ProductSKU = coerceText(value)
	case FieldProductName:
		line.ProductName = coerceText(value)
	case FieldProductDescription:
		line.ProductDescription = coerceText(value)
	case FieldNotes:
		line.Notes = coerceText(value)
	case FieldCustomerNotes:
		line.CustomerNotes = coerceText(value)
	case FieldRequestedDeliveryDate:
		line.RequestedDeliveryDate = coerceDate(value)
	case FieldExpectedDeliveryDate:
		line.ExpectedDeliveryDate = coerceDate(value)
	default:
		if known {
			return nil, apperror.NewUnsupportedField(e.kind.String()+" line", name)
		}
		if strings.TrimSpace(field) == "" {
			return nil, apperror.NewValidation("field name is required")
		}
		if line.Extra == nil {
			line.Extra = make(map[string]any, 1)
		}
		line.Extra[field] = value
	}

	out := cloneLines(lines, 0)
	out[index] = line
	return out, nil
}

// selectProduct applies a catalog selection. Quantity and discount are kept.
func (e *Engine) selectProduct(line LineItem, productID int64) LineItem {
	line.ProductID = productID

	product, ok := e.catalog.Lookup(productID)
	if !ok {
		return line
	}

	line.ProductSKU = product.SKU
	line.ProductName = product.Name
	line.ProductDescription = product.Description
	line.UnitPrice = product.UnitPrice()
	return e.Recompute(line)
}

// Recompute derives DiscountAmount, LineTotal and FinalLineTotal from the
// line's quantity, unit price and discount percentage. The result depends on
// those three inputs only, so recomputing an unchanged line is a no-op.
func (e *Engine) Recompute(line LineItem) LineItem {
	gross := line.GrossAmount()
	discount := types.PercentOf(gross, line.DiscountPercentage)
	net := gross.Sub(discount)

	line.DiscountAmount = discount
	switch e.kind {
	case KindPurchaseOrder:
		line.LineTotal = net
		line.FinalLineTotal = net
	default:
		line.LineTotal = gross
		line.FinalLineTotal = net
	}
	return line
}

// Normalize re-coerces the inputs of every line and recomputes its derived
// fields. Out-of-range amounts become zero, as they would through UpdateLine. Use it on lines received from outside the engine so that client
// supplied totals are never trusted.
func (e *Engine) Normalize(lines []LineItem) []LineItem {
	out := make([]LineItem, len(lines))
	for i, l := range lines {
		l = l.clone()
		if l.Quantity < 0 {
			l.Quantity = 0
		}
		l.UnitPrice = types.NonNegative(types.Bounded(l.UnitPrice))
		l.DiscountPercentage = types.Clamp(types.Bounded(l.DiscountPercentage), decimal.Zero, types.Hundred)
		out[i] = e.Recompute(l)
	}
	return out
}

// --- coercion ---

func coerceQuantity(v any) int64 {
	q := types.ParseLenientInt(v)
	if q < 0 {
		return 0
	}
	return q
}

func coercePrice(v any) types.Money {
	return types.NonNegative(types.ParseLenient(v))
}

func coercePercent(v any) types.Money {
	return types.Clamp(types.ParseLenient(v), decimal.Zero, types.Hundred)
}

func coerceText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

var dateLayouts = []string{"2006-01-02", time.RFC3339, time.RFC3339Nano}

func coerceDate(v any) *time.Time {
	switch x := v.(type) {
	case time.Time:
		if x.IsZero() {
			return nil
		}
		return &x
	case *time.Time:
		if x == nil || x.IsZero() {
			return nil
		}
		t := *x
		return &t
	case string:
		s := strings.TrimSpace(x)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return &t
			}
		}
	}
	return nil
}
