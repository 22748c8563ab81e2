// Package pricing derives line and order totals for purchase and sales orders.
//
// Every operation is a pure function over caller-held state: the caller owns
// the line list and the adjustments, passes them in, and receives new values
// back. Input slices and maps are never modified, so callers that detect
// changes by identity always observe a fresh value.
package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"inventory/internal/core/types"
)

// Kind selects the discount model of an order.
type Kind string

const (
	// KindPurchaseOrder bakes the line discount into LineTotal and has no
	// order-level discount.
	KindPurchaseOrder Kind = "purchase_order"
	// KindSalesOrder keeps LineTotal pre-discount, derives FinalLineTotal and
	// subtracts an order-level discount after tax and shipping.
	KindSalesOrder Kind = "sales_order"
)

// String implements fmt.Stringer.
func (k Kind) String() string { return string(k) }

// Valid reports whether k is a known order kind.
func (k Kind) Valid() bool {
	return k == KindPurchaseOrder || k == KindSalesOrder
}

// LineItem is one product line of an order.
type LineItem struct {
	// Product reference; 0 means no product chosen yet.
	ProductID int64 `json:"productId"`

	// Copied from the catalog at selection time.
	ProductSKU         string `json:"productSku"`
	ProductName        string `json:"productName"`
	ProductDescription string `json:"productDescription,omitempty"`

	// Inputs
	Quantity           int64       `json:"quantity"`
	UnitPrice          types.Money `json:"unitPrice"`
	DiscountPercentage types.Money `json:"discountPercentage"`

	// Derived
	DiscountAmount types.Money `json:"discountAmount"`
	LineTotal      types.Money `json:"lineTotal"`
	FinalLineTotal types.Money `json:"finalLineTotal"`

	// Not used in computation
	Notes                 string         `json:"notes,omitempty"`
	CustomerNotes         string         `json:"customerNotes,omitempty"`
	RequestedDeliveryDate *time.Time     `json:"requestedDeliveryDate,omitempty"`
	ExpectedDeliveryDate  *time.Time     `json:"expectedDeliveryDate,omitempty"`
	Extra                 map[string]any `json:"extra,omitempty"`
}

// GrossAmount returns quantity * unit price, before any discount.
func (l LineItem) GrossAmount() types.Money {
	return decimal.NewFromInt(l.Quantity).Mul(l.UnitPrice)
}

// Submittable reports whether the line has a product and a positive quantity.
func (l LineItem) Submittable() bool {
	return l.ProductID != 0 && l.Quantity >= 1
}

// clone copies the line, including the Extra map.
func (l LineItem) clone() LineItem {
	if l.Extra != nil {
		extra := make(map[string]any, len(l.Extra))
		for k, v := range l.Extra {
			extra[k] = v
		}
		l.Extra = extra
	}
	return l
}

func cloneLines(lines []LineItem, extra int) []LineItem {
	out := make([]LineItem, len(lines), len(lines)+extra)
	copy(out, lines)
	return out
}
