package form

import (
	"fmt"
	"math"
)

// DefaultValues returns the documented defaults for a fresh product draft
func DefaultValues() map[string]interface{} {
	return map[string]interface{}{
		FieldProductNumber:  "",
		FieldSKU:            "",
		FieldProductName:    "",
		FieldBrand:          "",
		FieldWarranty:       "",
		FieldCategory:       nil,
		FieldPrice:          "",
		FieldDiscount:       "",
		FieldStock:          "",
		FieldAlertThreshold: "",
		FieldDescription:    "",
		FieldTags:           []string{},
		FieldMediaURL:       []string{},
		FieldIsFeatured:     false,
	}
}

// PriceAfterDiscount derives the discounted price from the raw price and
// discount inputs. When either input is absent, non-numeric or zero the
// derived field is cleared, not "0.00".
func PriceAfterDiscount(price, discount interface{}) (string, bool) {
	p, ok := toNumber(price)
	if !ok || p == 0 {
		return "", false
	}
	d, ok := toNumber(discount)
	if !ok || d == 0 {
		return "", false
	}
	result := p - p*d/100
	rounded := math.Round(result*100) / 100
	return fmt.Sprintf("%.2f", rounded), true
}
