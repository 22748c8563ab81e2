package pricing

import "strings"

// Canonical field names accepted by UpdateLine and SetAdjustment.
// Callers may also use the snake_case spelling used by the order API.
const (
	FieldProductID             = "productId"
	FieldProductSKU            = "productSku"
	FieldProductName           = "productName"
	FieldProductDescription    = "productDescription"
	FieldQuantity              = "quantity"
	FieldUnitPrice             = "unitPrice"
	FieldDiscountPercentage    = "discountPercentage"
	FieldNotes                 = "notes"
	FieldCustomerNotes         = "customerNotes"
	FieldRequestedDeliveryDate = "requestedDeliveryDate"
	FieldExpectedDeliveryDate  = "expectedDeliveryDate"

	// Derived line fields. Rejected by UpdateLine.
	FieldDiscountAmount = "discountAmount"
	FieldLineTotal      = "lineTotal"
	FieldFinalLineTotal = "finalLineTotal"

	FieldTaxRate      = "taxRate"
	FieldShippingCost = "shippingCost"
	FieldCurrency     = "currency"
)

var canonicalFields = func() map[string]string {
	names := []string{
		FieldProductID, FieldProductSKU, FieldProductName, FieldProductDescription,
		FieldQuantity, FieldUnitPrice, FieldDiscountPercentage,
		FieldNotes, FieldCustomerNotes, FieldRequestedDeliveryDate, FieldExpectedDeliveryDate,
		FieldDiscountAmount, FieldLineTotal, FieldFinalLineTotal,
		FieldTaxRate, FieldShippingCost, FieldCurrency,
		"subtotal",
	}
	m := make(map[string]string, len(names))
	for _, n := range names {
		m[foldField(n)] = n
	}
	return m
}()

// foldField lowercases and drops separators so that "unit_price",
// "unitPrice" and "UnitPrice" compare equal.
func foldField(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range strings.TrimSpace(name) {
		if r == '_' || r == '-' || r == ' ' {
			continue
		}
		b.WriteRune(r)
	}
	return strings.ToLower(b.String())
}

// CanonicalField maps a field name in any accepted spelling to its canonical
// form. Unknown names are returned unchanged with ok=false.
func CanonicalField(name string) (string, bool) {
	if c, ok := canonicalFields[foldField(name)]; ok {
		return c, true
	}
	return name, false
}
