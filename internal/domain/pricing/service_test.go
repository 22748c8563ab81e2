package pricing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventory/internal/core/apperror"
	"inventory/internal/core/types"
	"inventory/internal/domain/catalog"
)

type fixedSnapshot struct {
	snap *catalog.Snapshot
}

func (f fixedSnapshot) Snapshot() *catalog.Snapshot { return f.snap }

func newTestService() *Service {
	return NewService(fixedSnapshot{snap: testCatalog()}, DefaultConfig())
}

func TestParseKind(t *testing.T) {
	for in, want := range map[string]Kind{
		"purchase-orders": KindPurchaseOrder,
		"PO":              KindPurchaseOrder,
		"sales_order":     KindSalesOrder,
		"sales-orders":    KindSalesOrder,
	} {
		got, err := ParseKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseKind("invoices")
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidInput))
}

func TestService_EditFlow(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	d, err := svc.New(ctx, KindSalesOrder)
	require.NoError(t, err)
	assert.Empty(t, d.Lines)
	assert.Equal(t, "USD", d.Adjustments.Currency)

	d, err = svc.AddLine(ctx, KindSalesOrder, d)
	require.NoError(t, err)
	require.Len(t, d.Lines, 1)

	d, err = svc.UpdateLine(ctx, KindSalesOrder, d, 0, "productId", 7)
	require.NoError(t, err)
	d, err = svc.UpdateLine(ctx, KindSalesOrder, d, 0, "quantity", 4)
	require.NoError(t, err)
	d, err = svc.SetAdjustment(ctx, KindSalesOrder, d, "taxRate", 10)
	require.NoError(t, err)

	assertMoney(t, "50", d.Totals.Subtotal)
	assertMoney(t, "5", d.Totals.TaxAmount)
	assertMoney(t, "55", d.Totals.Total)

	d, err = svc.RemoveLine(ctx, KindSalesOrder, d, 0)
	require.NoError(t, err)
	assert.NotNil(t, d.Lines)
	assertMoney(t, "0", d.Totals.Total)
}

func TestService_TotalsIgnoreClientDerivedFields(t *testing.T) {
	svc := newTestService()
	in := Draft{
		Lines: []LineItem{{
			ProductID:      7,
			Quantity:       2,
			UnitPrice:      types.MustMoney("10"),
			LineTotal:      types.MustMoney("1"),
			FinalLineTotal: types.MustMoney("1"),
		}},
		Adjustments: Adjustments{DiscountAmount: types.MustMoney("4")},
		Totals:      Totals{Total: types.MustMoney("999")},
	}

	d, err := svc.Totals(context.Background(), KindPurchaseOrder, in)
	require.NoError(t, err)
	assertMoney(t, "20", d.Lines[0].LineTotal)
	assertMoney(t, "20", d.Totals.Total)
	assertMoney(t, "0", d.Adjustments.DiscountAmount)
	assert.Equal(t, "USD", d.Totals.Currency)
}

func TestService_Errors(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	_, err := svc.UpdateLine(ctx, KindSalesOrder, Draft{}, 3, "quantity", 1)
	assert.True(t, apperror.IsLineIndexOutOfRange(err))

	_, err = svc.SetAdjustment(ctx, KindPurchaseOrder, Draft{}, "discountAmount", 1)
	assert.True(t, apperror.HasCode(err, apperror.CodeUnsupportedField))

	_, err = svc.Totals(ctx, Kind("invoice"), Draft{})
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidInput))
}

func TestService_Hydrate(t *testing.T) {
	svc := newTestService()
	d, err := svc.Hydrate(context.Background(), KindSalesOrder, decodeOrder(t, storedSalesOrder))
	require.NoError(t, err)
	assertMoney(t, "46.38", d.Totals.Total)
	assert.Equal(t, 2, d.Totals.LineCount)
}

func TestService_NilProvider(t *testing.T) {
	svc := NewService(nil, DefaultConfig())
	d, err := svc.New(context.Background(), KindPurchaseOrder)
	require.NoError(t, err)

	d, err = svc.AddLine(context.Background(), KindPurchaseOrder, d)
	require.NoError(t, err)
	d, err = svc.UpdateLine(context.Background(), KindPurchaseOrder, d, 0, "productId", 7)
	require.NoError(t, err)
	assertMoney(t, "0", d.Lines[0].UnitPrice)
}
