package pricing

import (
	"encoding/json"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventory/internal/core/apperror"
	"inventory/internal/core/types"
	"inventory/internal/domain/catalog"
)

func testCatalog() *catalog.Snapshot {
	return catalog.NewSnapshot([]catalog.Product{
		{ID: 7, SKU: "SKU-7", Name: "Widget", Description: "Blue widget", Price: types.NewNumeric("12.50")},
		{ID: 8, SKU: "SKU-8", Name: "Gadget", Price: types.NewNumeric("3")},
	})
}

func assertMoney(t *testing.T, want string, got types.Money, msgAndArgs ...any) {
	t.Helper()
	msg := fmt.Sprintf("want %s, got %s", want, got.String())
	if len(msgAndArgs) > 0 {
		if format, ok := msgAndArgs[0].(string); ok {
			msg += ": " + fmt.Sprintf(format, msgAndArgs[1:]...)
		}
	}
	assert.True(t, types.MustMoney(want).Equal(got), msg)
}

func TestAddEditRemoveCycle(t *testing.T) {
	for _, e := range []*Engine{
		NewSalesOrderPricing(testCatalog(), DefaultConfig()),
		NewPurchaseOrderPricing(testCatalog(), DefaultConfig()),
	} {
		t.Run(e.Kind().String(), func(t *testing.T) {
			lines := []LineItem{}

			lines = e.AddLine(lines)
			require.Len(t, lines, 1)
			assert.Equal(t, int64(1), lines[0].Quantity)
			assert.Equal(t, int64(0), lines[0].ProductID)
			assertMoney(t, "0", lines[0].UnitPrice)
			assertMoney(t, "0", lines[0].FinalLineTotal)

			lines, err := e.UpdateLine(lines, 0, "unitPrice", 10)
			require.NoError(t, err)
			assertMoney(t, "10", lines[0].FinalLineTotal)

			lines, err = e.UpdateLine(lines, 0, "quantity", 3)
			require.NoError(t, err)
			assertMoney(t, "30", lines[0].FinalLineTotal)

			lines, err = e.UpdateLine(lines, 0, "discountPercentage", 10)
			require.NoError(t, err)
			assertMoney(t, "27", lines[0].FinalLineTotal)
			assertMoney(t, "3", lines[0].DiscountAmount)

			lines, err = e.RemoveLine(lines, 0)
			require.NoError(t, err)
			assert.Empty(t, lines)
		})
	}
}

func TestDiscountPlacementByKind(t *testing.T) {
	base := []LineItem{{Quantity: 3, UnitPrice: types.MustMoney("10"), DiscountPercentage: types.MustMoney("10")}}

	so := NewSalesOrderPricing(nil, DefaultConfig()).Normalize(base)
	assertMoney(t, "30", so[0].LineTotal)
	assertMoney(t, "3", so[0].DiscountAmount)
	assertMoney(t, "27", so[0].FinalLineTotal)

	po := NewPurchaseOrderPricing(nil, DefaultConfig()).Normalize(base)
	assertMoney(t, "27", po[0].LineTotal)
	assertMoney(t, "3", po[0].DiscountAmount)
	assertMoney(t, "27", po[0].FinalLineTotal)
}

func TestRecomputeFormula(t *testing.T) {
	prices := []string{"0", "0.01", "9.99", "100", "1234.5678"}
	percents := []string{"0", "12.5", "33.333", "99.99", "100"}

	so := NewSalesOrderPricing(nil, DefaultConfig())
	po := NewPurchaseOrderPricing(nil, DefaultConfig())

	for q := int64(0); q <= 5; q++ {
		for _, p := range prices {
			for _, d := range percents {
				line := LineItem{Quantity: q, UnitPrice: types.MustMoney(p), DiscountPercentage: types.MustMoney(d)}
				gross := types.MustMoney(p).Mul(decimal.NewFromInt(q))
				want := gross.Sub(gross.Mul(types.MustMoney(d)).Div(types.Hundred))

				s := so.Recompute(line)
				assertMoney(t, want.String(), s.FinalLineTotal, "sales q=%d p=%s d=%s", q, p, d)
				assert.True(t, s.FinalLineTotal.Equal(s.LineTotal.Sub(s.DiscountAmount)))

				o := po.Recompute(line)
				assertMoney(t, want.String(), o.FinalLineTotal, "purchase q=%d p=%s d=%s", q, p, d)
				assert.True(t, o.LineTotal.Equal(o.GrossAmount().Sub(o.DiscountAmount)))
			}
		}
	}
}

func TestUpdateLine_Idempotent(t *testing.T) {
	e := NewSalesOrderPricing(testCatalog(), DefaultConfig())
	lines := e.AddLine(nil)

	steps := []struct {
		field string
		value any
	}{
		{"productId", 7},
		{"quantity", "3"},
		{"discountPercentage", "12.5"},
		{"unitPrice", 19.99},
	}

	var err error
	for _, s := range steps {
		lines, err = e.UpdateLine(lines, 0, s.field, s.value)
		require.NoError(t, err)
	}

	first, err := e.UpdateLine(lines, 0, "unitPrice", 19.99)
	require.NoError(t, err)
	second, err := e.UpdateLine(first, 0, "unitPrice", 19.99)
	require.NoError(t, err)

	a, b := first[0], second[0]
	for _, pair := range [][2]types.Money{
		{a.LineTotal, b.LineTotal},
		{a.DiscountAmount, b.DiscountAmount},
		{a.FinalLineTotal, b.FinalLineTotal},
	} {
		assert.Equal(t, pair[0].String(), pair[1].String())
		assert.Equal(t, pair[0].Exponent(), pair[1].Exponent())
	}
}

func TestUpdateLine_CopyOnWrite(t *testing.T) {
	e := NewSalesOrderPricing(testCatalog(), DefaultConfig())
	original := e.AddLine(e.AddLine(nil))
	original[0].Extra = map[string]any{"color": "red"}

	updated, err := e.UpdateLine(original, 0, "quantity", 5)
	require.NoError(t, err)
	assert.Equal(t, int64(1), original[0].Quantity)
	assert.Equal(t, int64(5), updated[0].Quantity)

	updated, err = e.UpdateLine(original, 0, "size", "XL")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"color": "red"}, original[0].Extra)
	assert.Equal(t, "XL", updated[0].Extra["size"])

	removed, err := e.RemoveLine(original, 0)
	require.NoError(t, err)
	assert.Len(t, original, 2)
	assert.Len(t, removed, 1)

	added := e.AddLine(original)
	assert.Len(t, original, 2)
	assert.Len(t, added, 3)
}

func TestUpdateLine_Coercion(t *testing.T) {
	e := NewSalesOrderPricing(testCatalog(), DefaultConfig())
	base := e.AddLine(nil)

	tests := []struct {
		name  string
		field string
		value any
		check func(t *testing.T, l LineItem)
	}{
		{"quantity garbage", "quantity", "abc", func(t *testing.T, l LineItem) { assert.Equal(t, int64(0), l.Quantity) }},
		{"quantity nil", "quantity", nil, func(t *testing.T, l LineItem) { assert.Equal(t, int64(0), l.Quantity) }},
		{"quantity fraction", "quantity", 3.7, func(t *testing.T, l LineItem) { assert.Equal(t, int64(3), l.Quantity) }},
		{"quantity negative", "quantity", -4, func(t *testing.T, l LineItem) { assert.Equal(t, int64(0), l.Quantity) }},
		{"quantity noisy", "quantity", "12 pcs", func(t *testing.T, l LineItem) { assert.Equal(t, int64(12), l.Quantity) }},
		{"price garbage", "unitPrice", "n/a", func(t *testing.T, l LineItem) { assertMoney(t, "0", l.UnitPrice) }},
		{"price NaN", "unitPrice", math.NaN(), func(t *testing.T, l LineItem) { assertMoney(t, "0", l.UnitPrice) }},
		{"price currency", "unit_price", "$1,250.00", func(t *testing.T, l LineItem) { assertMoney(t, "1250", l.UnitPrice) }},
		{"price negative", "unitPrice", "-3", func(t *testing.T, l LineItem) { assertMoney(t, "0", l.UnitPrice) }},
		{"price json number", "unitPrice", json.Number("4.2"), func(t *testing.T, l LineItem) { assertMoney(t, "4.2", l.UnitPrice) }},
		{"discount over 100", "discountPercentage", 150, func(t *testing.T, l LineItem) { assertMoney(t, "100", l.DiscountPercentage) }},
		{"discount garbage", "discount_percentage", struct{}{}, func(t *testing.T, l LineItem) { assertMoney(t, "0", l.DiscountPercentage) }},
		{"product garbage", "productId", "none", func(t *testing.T, l LineItem) { assert.Equal(t, int64(0), l.ProductID) }},
		{"quantity huge exponent", "quantity", "1e20000000", func(t *testing.T, l LineItem) { assert.Equal(t, int64(0), l.Quantity) }},
		{"price huge exponent", "unitPrice", "1e5000000", func(t *testing.T, l LineItem) { assertMoney(t, "0", l.UnitPrice) }},
		{"discount huge exponent", "discountPercentage", "1e-5000000", func(t *testing.T, l LineItem) { assertMoney(t, "0", l.DiscountPercentage) }},
		{"quantity exponent with unit", "quantity", "1e3 pcs", func(t *testing.T, l LineItem) { assert.Equal(t, int64(1000), l.Quantity) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				lines []LineItem
				err   error
			)
			assert.NotPanics(t, func() { lines, err = e.UpdateLine(base, 0, tt.field, tt.value) })
			require.NoError(t, err)
			tt.check(t, lines[0])
			assert.True(t, lines[0].FinalLineTotal.Equal(lines[0].LineTotal.Sub(lines[0].DiscountAmount)))
		})
	}
}

func TestUpdateLine_ProductSelection(t *testing.T) {
	e := NewSalesOrderPricing(testCatalog(), DefaultConfig())
	lines := []LineItem{{Quantity: 2, UnitPrice: types.MustMoney("5"), DiscountPercentage: types.MustMoney("10")}}
	lines = e.Normalize(lines)

	t.Run("known product", func(t *testing.T) {
		got, err := e.UpdateLine(lines, 0, "productId", "7")
		require.NoError(t, err)
		l := got[0]
		assert.Equal(t, int64(7), l.ProductID)
		assert.Equal(t, "SKU-7", l.ProductSKU)
		assert.Equal(t, "Widget", l.ProductName)
		assert.Equal(t, "Blue widget", l.ProductDescription)
		assertMoney(t, "12.5", l.UnitPrice)
		assert.Equal(t, int64(2), l.Quantity)
		assertMoney(t, "25", l.LineTotal)
		assertMoney(t, "2.5", l.DiscountAmount)
		assertMoney(t, "22.5", l.FinalLineTotal)
	})

	t.Run("unknown product", func(t *testing.T) {
		got, err := e.UpdateLine(lines, 0, "productId", 999)
		require.NoError(t, err)
		assert.Equal(t, int64(999), got[0].ProductID)
		assertMoney(t, "5", got[0].UnitPrice)
		assert.Empty(t, got[0].ProductSKU)
		assertMoney(t, "9", got[0].FinalLineTotal)
	})

	t.Run("price edited after selection", func(t *testing.T) {
		got, err := e.UpdateLine(lines, 0, "productId", 7)
		require.NoError(t, err)
		got, err = e.UpdateLine(got, 0, "unitPrice", "11")
		require.NoError(t, err)
		assertMoney(t, "11", got[0].UnitPrice)
		assert.Equal(t, "SKU-7", got[0].ProductSKU)
	})
}

func TestUpdateLine_CatalogMismatchScenario(t *testing.T) {
	e := NewPurchaseOrderPricing(testCatalog(), DefaultConfig())
	lines := []LineItem{{ProductID: 0, Quantity: 1, UnitPrice: types.MustMoney("5")}}

	got, err := e.UpdateLine(lines, 0, "productId", 999)
	require.NoError(t, err)
	assert.Equal(t, int64(999), got[0].ProductID)
	assertMoney(t, "5", got[0].UnitPrice)
}

func TestUpdateLine_CatalogPriceFromJSONString(t *testing.T) {
	var products []catalog.Product
	require.NoError(t, json.Unmarshal([]byte(`[{"id": 3, "sku": "S3", "name": "Bolt", "price": "0.35"}]`), &products))

	e := NewSalesOrderPricing(catalog.NewSnapshot(products), DefaultConfig())
	lines, err := e.UpdateLine(e.AddLine(nil), 0, "product_id", 3)
	require.NoError(t, err)
	lines, err = e.UpdateLine(lines, 0, "quantity", 100)
	require.NoError(t, err)
	assertMoney(t, "35", lines[0].FinalLineTotal)
}

func TestUpdateLine_TextAndDates(t *testing.T) {
	e := NewSalesOrderPricing(nil, DefaultConfig())
	lines := e.Normalize([]LineItem{{Quantity: 2, UnitPrice: types.MustMoney("4")}})

	got, err := e.UpdateLine(lines, 0, "notes", "fragile")
	require.NoError(t, err)
	assert.Equal(t, "fragile", got[0].Notes)
	assertMoney(t, "8", got[0].FinalLineTotal)

	got, err = e.UpdateLine(got, 0, "customer_notes", 42)
	require.NoError(t, err)
	assert.Equal(t, "42", got[0].CustomerNotes)

	got, err = e.UpdateLine(got, 0, "requestedDeliveryDate", "2024-03-15")
	require.NoError(t, err)
	require.NotNil(t, got[0].RequestedDeliveryDate)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), *got[0].RequestedDeliveryDate)

	got, err = e.UpdateLine(got, 0, "requestedDeliveryDate", "not a date")
	require.NoError(t, err)
	assert.Nil(t, got[0].RequestedDeliveryDate)

	got, err = e.UpdateLine(got, 0, "expected_delivery_date", "2024-04-01T10:00:00Z")
	require.NoError(t, err)
	require.NotNil(t, got[0].ExpectedDeliveryDate)
}

func TestUpdateLine_Errors(t *testing.T) {
	e := NewSalesOrderPricing(nil, DefaultConfig())
	lines := e.AddLine(nil)

	_, err := e.UpdateLine(lines, 1, "quantity", 2)
	assert.True(t, apperror.IsLineIndexOutOfRange(err))

	_, err = e.UpdateLine(lines, -1, "quantity", 2)
	assert.True(t, apperror.IsLineIndexOutOfRange(err))

	_, err = e.UpdateLine(nil, 0, "quantity", 2)
	assert.True(t, apperror.IsLineIndexOutOfRange(err))

	for _, derived := range []string{"lineTotal", "final_line_total", "discountAmount", "subtotal"} {
		_, err = e.UpdateLine(lines, 0, derived, 100)
		assert.True(t, apperror.HasCode(err, apperror.CodeUnsupportedField), derived)
	}

	_, err = e.UpdateLine(lines, 0, " ", 1)
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
}

func TestRemoveLine_OutOfRange(t *testing.T) {
	e := NewPurchaseOrderPricing(nil, DefaultConfig())
	lines := e.AddLine(nil)

	_, err := e.RemoveLine(lines, 1)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeLineIndexOutOfRange, appErr.Code)
	assert.Equal(t, 1, appErr.Details["index"])
	assert.Equal(t, 1, appErr.Details["length"])

	_, err = e.RemoveLine(lines, -1)
	assert.True(t, apperror.IsLineIndexOutOfRange(err))
}

func TestNormalize_DiscardsClientTotals(t *testing.T) {
	e := NewSalesOrderPricing(nil, DefaultConfig())
	in := []LineItem{{
		Quantity:           -2,
		UnitPrice:          types.MustMoney("-1"),
		DiscountPercentage: types.MustMoney("250"),
		LineTotal:          types.MustMoney("1000000"),
		FinalLineTotal:     types.MustMoney("1000000"),
	}, {
		Quantity:       4,
		UnitPrice:      types.MustMoney("2.5"),
		FinalLineTotal: types.MustMoney("1"),
	}}

	out := e.Normalize(in)
	assert.Equal(t, int64(0), out[0].Quantity)
	assertMoney(t, "0", out[0].UnitPrice)
	assertMoney(t, "100", out[0].DiscountPercentage)
	assertMoney(t, "0", out[0].FinalLineTotal)
	assertMoney(t, "10", out[1].FinalLineTotal)
	assertMoney(t, "1000000", in[0].LineTotal)
}

func TestCanonicalField(t *testing.T) {
	for _, in := range []string{"unitPrice", "unit_price", "UnitPrice", "unit-price", " unit_price "} {
		got, ok := CanonicalField(in)
		assert.True(t, ok, in)
		assert.Equal(t, FieldUnitPrice, got, in)
	}

	got, ok := CanonicalField("warehouse_bin")
	assert.False(t, ok)
	assert.Equal(t, "warehouse_bin", got)
}

func TestNewEngine(t *testing.T) {
	_, err := NewEngine("invoice", nil, DefaultConfig())
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidInput))

	e, err := NewEngine(KindSalesOrder, nil, Config{DefaultCurrency: "eur"})
	require.NoError(t, err)
	assert.Equal(t, "EUR", e.DefaultCurrency())
	assert.Equal(t, RateFraction, e.RateFormat())

	e, err = NewEngine(KindPurchaseOrder, nil, Config{DefaultCurrency: "euro"})
	require.NoError(t, err)
	assert.Equal(t, "USD", e.DefaultCurrency())
	assert.Equal(t, 0, e.Catalog().Len())
}

func TestNormalize_OversizedAmounts(t *testing.T) {
	e := NewSalesOrderPricing(nil, DefaultConfig())
	out := e.Normalize([]LineItem{{
		Quantity:           2,
		UnitPrice:          decimal.New(1, 20000000),
		DiscountPercentage: decimal.New(5, -20000000),
	}})

	assertMoney(t, "0", out[0].UnitPrice)
	assertMoney(t, "0", out[0].DiscountPercentage)
	assert.Equal(t, "0", out[0].FinalLineTotal.String())

	adj := e.NormalizeAdjustments(Adjustments{
		TaxRate:      decimal.New(1, 20000000),
		ShippingCost: decimal.New(1, 20000000),
	})
	assertMoney(t, "0", adj.TaxRate)
	assertMoney(t, "0", adj.ShippingCost)
}
