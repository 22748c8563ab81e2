package orders

import (
	"inventory/internal/core/apperror"
	"inventory/internal/domain/pricing"
)

// Validate runs the checks the order form performs before submitting.
// It is not authoritative: the order API validates again.
func Validate(lines []pricing.LineItem) error {
	errs := FieldErrors{}

	if len(lines) == 0 {
		errs.Add("items", "at least one item is required")
	}

	for i, l := range lines {
		if l.ProductID == 0 {
			errs.Add(ItemKey(i, "product_id"), "product is required")
		}
		if l.Quantity < 1 {
			errs.Add(ItemKey(i, "quantity"), "quantity must be at least 1")
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return apperror.NewValidation("order has invalid items").
		WithDetail("fields", map[string][]string(errs))
}
