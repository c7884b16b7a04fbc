package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDraft() map[string]interface{} {
	return map[string]interface{}{
		FieldProductNumber:  "P1234",
		FieldSKU:            "SKU-001",
		FieldProductName:    "Wireless Mouse",
		FieldBrand:          "Logi",
		FieldWarranty:       "12 months",
		FieldCategory:       uint(1),
		FieldPrice:          "200",
		FieldDiscount:       "25",
		FieldStock:          "10",
		FieldAlertThreshold: "3",
		FieldDescription:    "<p>A very good mouse</p>",
		FieldTags:           []string{"mouse", "wireless"},
		FieldMediaURL:       []string{"https://cdn.example.com/a.jpg"},
		FieldIsFeatured:     true,
	}
}

func TestCompileOneRulePerSupportedKind(t *testing.T) {
	schema := &CategorySchema{
		CategoryID:   1,
		CategoryName: "Electronics",
		Attributes: []AttributeDefinition{
			{Name: "brandName", Label: "Brand", Kind: KindText},
			{Name: "warrantyPeriod", Label: "Warranty Period", Kind: KindNumber},
			{Name: "gender", Label: "Gender", Kind: KindSelect, Options: []string{"Men", "Women"}},
			{Name: "sizes", Label: "Sizes", Kind: KindMultiSelect, Options: []string{"S", "M"}},
		},
	}

	rs := Compile(schema)

	fields := rs.StepFields(StepAttributes)
	require.Len(t, fields, 4)
	for _, attr := range schema.Attributes {
		_, ok := rs.Rule(attr.Name)
		assert.True(t, ok, "expected a rule for %s", attr.Name)
	}
}

func TestCompileSkipsUnknownKind(t *testing.T) {
	schema := &CategorySchema{
		CategoryName: "Weird",
		Attributes: []AttributeDefinition{
			{Name: "known", Label: "Known", Kind: KindText},
			{Name: "mystery", Label: "Mystery", Kind: FieldKind("date-range")},
		},
	}

	rs := Compile(schema)

	assert.Equal(t, []string{"known"}, rs.StepFields(StepAttributes))
	_, ok := rs.Rule("mystery")
	assert.False(t, ok)
}

func TestCompileNilSchemaLeavesStepTwoEmpty(t *testing.T) {
	rs := Compile(nil)
	assert.Empty(t, rs.StepFields(StepAttributes))
	assert.NotEmpty(t, rs.StepFields(StepBase))
}

func TestProductNumberPattern(t *testing.T) {
	rs := Compile(nil)
	rule, ok := rs.Rule(FieldProductNumber)
	require.True(t, ok)

	tests := []struct {
		name  string
		value interface{}
		valid bool
	}{
		{"valid", "P1234", true},
		{"single digit", "P1", true},
		{"trims whitespace", "  P42  ", true},
		{"missing prefix", "1234", false},
		{"lowercase prefix", "p1234", false},
		{"no digits", "P", false},
		{"empty", "", false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, msg := rule.Apply(tt.value)
			if tt.valid {
				assert.Empty(t, msg)
			} else {
				assert.NotEmpty(t, msg)
			}
		})
	}
}

func TestPriceAndDiscountBounds(t *testing.T) {
	rs := Compile(nil)
	price, _ := rs.Rule(FieldPrice)
	discount, _ := rs.Rule(FieldDiscount)

	_, msg := price.Apply("49.99")
	assert.Empty(t, msg)
	_, msg = price.Apply("0")
	assert.NotEmpty(t, msg)
	_, msg = price.Apply("-5")
	assert.NotEmpty(t, msg)
	_, msg = price.Apply("abc")
	assert.NotEmpty(t, msg)

	_, msg = discount.Apply(nil)
	assert.Empty(t, msg, "discount is optional")
	_, msg = discount.Apply("100")
	assert.Empty(t, msg)
	_, msg = discount.Apply("101")
	assert.NotEmpty(t, msg)
	_, msg = discount.Apply("-1")
	assert.NotEmpty(t, msg)
}

func TestStockQuantityRequiresWholeNumber(t *testing.T) {
	rs := Compile(nil)
	rule, _ := rs.Rule(FieldStock)

	value, msg := rule.Apply("10")
	assert.Empty(t, msg)
	assert.Equal(t, 10, value)

	_, msg = rule.Apply(nil)
	assert.NotEmpty(t, msg)
	_, msg = rule.Apply("-1")
	assert.NotEmpty(t, msg)
	_, msg = rule.Apply("2.5")
	assert.NotEmpty(t, msg)
}

func TestDescriptionMarkupOnlyIsRejected(t *testing.T) {
	rs := Compile(nil)
	rule, _ := rs.Rule(FieldDescription)

	_, msg := rule.Apply("<p><br></p>")
	assert.NotEmpty(t, msg, "markup-only description counts as empty")

	_, msg = rule.Apply("<p>&nbsp;</p>")
	assert.NotEmpty(t, msg)

	_, msg = rule.Apply("<p>Real content</p>")
	assert.Empty(t, msg)
}

func TestTagsRequireAtLeastOne(t *testing.T) {
	rs := Compile(nil)
	rule, _ := rs.Rule(FieldTags)

	_, msg := rule.Apply([]string{})
	assert.NotEmpty(t, msg)
	_, msg = rule.Apply(nil)
	assert.NotEmpty(t, msg)
	_, msg = rule.Apply([]string{"sale"})
	assert.Empty(t, msg)
}

func TestMediaURLListOptionalButWellFormed(t *testing.T) {
	rs := Compile(nil)
	rule, _ := rs.Rule(FieldMediaURL)

	_, msg := rule.Apply(nil)
	assert.Empty(t, msg)
	_, msg = rule.Apply([]string{"https://cdn.example.com/a.jpg"})
	assert.Empty(t, msg)
	_, msg = rule.Apply([]string{"not a url"})
	assert.NotEmpty(t, msg)
}

func TestSelectRulesEnforceEnumMembership(t *testing.T) {
	schema := &CategorySchema{
		CategoryName: "Shoes",
		Attributes: []AttributeDefinition{
			{Name: "gender", Label: "Gender", Kind: KindSelect, Options: []string{"Men", "Women", "Unisex"}},
			{Name: "sizes", Label: "Sizes", Kind: KindMultiSelect, Options: []string{"6", "7", "8"}},
		},
	}
	rs := Compile(schema)

	gender, _ := rs.Rule("gender")
	_, msg := gender.Apply("Men")
	assert.Empty(t, msg)
	_, msg = gender.Apply("Kids")
	assert.NotEmpty(t, msg)
	_, msg = gender.Apply("")
	assert.NotEmpty(t, msg)

	sizes, _ := rs.Rule("sizes")
	_, msg = sizes.Apply([]string{"6", "8"})
	assert.Empty(t, msg)
	_, msg = sizes.Apply([]string{})
	assert.NotEmpty(t, msg)
	_, msg = sizes.Apply([]string{"13"})
	assert.NotEmpty(t, msg)
}

func TestValidateStepScopedToStepFields(t *testing.T) {
	rs := Compile(nil)
	values := validDraft()
	values[FieldSKU] = ""
	values[FieldDescription] = ""

	_, errs := rs.ValidateStep(StepBase, values)
	assert.Contains(t, errs, FieldSKU)
	assert.NotContains(t, errs, FieldDescription, "step 1 must not validate step 3 fields")
}

func TestValidateAllPassesOnValidDraft(t *testing.T) {
	rs := Compile(nil)
	normalized, errs := rs.ValidateAll(validDraft())
	require.Empty(t, errs)
	assert.Equal(t, float64(200), normalized[FieldPrice])
	assert.Equal(t, 10, normalized[FieldStock])
}
