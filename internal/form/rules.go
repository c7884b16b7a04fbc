package form

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/dukkan-shop/dukkan-backend/pkg/logger"
)

// Base field names shared by every product regardless of category
const (
	FieldProductNumber  = "productNumber"
	FieldSKU            = "sku"
	FieldProductName    = "productName"
	FieldBrand          = "brand"
	FieldWarranty       = "warranty"
	FieldCategory       = "categoryID"
	FieldPrice          = "price"
	FieldDiscount       = "discountPercentage"
	FieldStock          = "stockQuantity"
	FieldAlertThreshold = "inventoryAlertThreshold"
	FieldDescription    = "description"
	FieldTags           = "tags"
	FieldMediaURL       = "mediaURL"
	FieldIsFeatured     = "isFeatured"
)

var (
	productNumberPattern = regexp.MustCompile(`^P\d+$`)
	markupTagPattern     = regexp.MustCompile(`<[^>]*>|&nbsp;`)
)

var baseFieldNames = map[string]bool{
	FieldProductNumber:  true,
	FieldSKU:            true,
	FieldProductName:    true,
	FieldBrand:          true,
	FieldWarranty:       true,
	FieldCategory:       true,
	FieldPrice:          true,
	FieldDiscount:       true,
	FieldStock:          true,
	FieldAlertThreshold: true,
	FieldDescription:    true,
	FieldTags:           true,
	FieldMediaURL:       true,
	FieldIsFeatured:     true,
}

// IsBaseField reports whether the name belongs to the fixed base field
// set shared by every category.
func IsBaseField(name string) bool {
	return baseFieldNames[name]
}

// Rule validates and normalizes one field value. check returns the
// normalized value and an empty message on success, or the raw value and
// a human-readable message on failure.
type Rule struct {
	Field string
	check func(value interface{}) (interface{}, string)
}

// Apply runs the rule against a raw value
func (r Rule) Apply(value interface{}) (interface{}, string) {
	return r.check(value)
}

// FieldErrors maps field names to their validation messages
type FieldErrors map[string]string

// Step numbers of the product form
const (
	StepBase        = 1
	StepAttributes  = 2
	StepDescription = 3
	StepMedia       = 4

	FirstStep = StepBase
	LastStep  = StepMedia
)

// RuleSet is the compiled validation ruleset for one category selection.
// It is discarded wholesale and recompiled whenever the category changes.
type RuleSet struct {
	rules map[string]Rule
	steps map[int][]string
}

// Compile builds the ruleset for the given category schema. A nil schema
// compiles base rules only, leaving step 2 empty. Attribute definitions
// with an unsupported kind are skipped with a diagnostic.
func Compile(schema *CategorySchema) *RuleSet {
	rs := &RuleSet{
		rules: make(map[string]Rule),
		steps: make(map[int][]string),
	}

	rs.add(StepBase, Rule{FieldProductNumber, checkProductNumber})
	rs.add(StepBase, Rule{FieldSKU, requiredString("SKU is required")})
	rs.add(StepBase, Rule{FieldProductName, requiredString("Product name is required")})
	rs.add(StepBase, Rule{FieldBrand, requiredString("Brand is required")})
	rs.add(StepBase, Rule{FieldWarranty, optionalString()})
	rs.add(StepBase, Rule{FieldCategory, checkCategory})
	rs.add(StepBase, Rule{FieldPrice, checkPrice})
	rs.add(StepBase, Rule{FieldDiscount, checkDiscount})
	rs.add(StepBase, Rule{FieldStock, requiredNonNegativeInt("Stock quantity is required", "Stock quantity must be a non-negative whole number")})
	rs.add(StepBase, Rule{FieldAlertThreshold, optionalNonNegativeInt("Inventory alert threshold must be a non-negative whole number")})

	if schema != nil {
		for _, attr := range schema.Attributes {
			// Some seed schemas repeat base fields (sku, brand). The base
			// rule already covers those, so they do not join step 2.
			if IsBaseField(attr.Name) {
				continue
			}
			rule, ok := compileAttributeRule(attr)
			if !ok {
				logger.Warn("Skipping attribute with unsupported kind", map[string]interface{}{
					"attribute": attr.Name,
					"kind":      string(attr.Kind),
					"category":  schema.CategoryName,
				})
				continue
			}
			rs.add(StepAttributes, rule)
		}
	}

	rs.add(StepDescription, Rule{FieldDescription, checkDescription})
	rs.add(StepDescription, Rule{FieldTags, checkTags})

	rs.add(StepMedia, Rule{FieldMediaURL, checkMediaURLs})
	rs.add(StepMedia, Rule{FieldIsFeatured, checkFeatured})

	return rs
}

func (rs *RuleSet) add(step int, rule Rule) {
	rs.rules[rule.Field] = rule
	rs.steps[step] = append(rs.steps[step], rule.Field)
}

// StepFields returns the field names owned by a step, in rule order
func (rs *RuleSet) StepFields(step int) []string {
	fields := rs.steps[step]
	out := make([]string, len(fields))
	copy(out, fields)
	return out
}

// Rule returns the compiled rule for a field name
func (rs *RuleSet) Rule(field string) (Rule, bool) {
	rule, ok := rs.rules[field]
	return rule, ok
}

// ValidateStep validates only the fields owned by one step. It returns
// the normalized values for those fields and any per-field messages.
func (rs *RuleSet) ValidateStep(step int, values map[string]interface{}) (map[string]interface{}, FieldErrors) {
	normalized := make(map[string]interface{})
	errs := make(FieldErrors)
	for _, field := range rs.steps[step] {
		rule := rs.rules[field]
		value, msg := rule.Apply(values[field])
		if msg != "" {
			errs[field] = msg
			continue
		}
		normalized[field] = value
	}
	return normalized, errs
}

// ValidateAll validates every field across all steps
func (rs *RuleSet) ValidateAll(values map[string]interface{}) (map[string]interface{}, FieldErrors) {
	normalized := make(map[string]interface{})
	errs := make(FieldErrors)
	for step := FirstStep; step <= LastStep; step++ {
		stepValues, stepErrs := rs.ValidateStep(step, values)
		for k, v := range stepValues {
			normalized[k] = v
		}
		for k, v := range stepErrs {
			errs[k] = v
		}
	}
	return normalized, errs
}

// compileAttributeRule maps one attribute definition to exactly one rule
// by its kind. The switch is exhaustive over the FieldKind constants.
func compileAttributeRule(attr AttributeDefinition) (Rule, bool) {
	switch attr.Kind {
	case KindText:
		return Rule{attr.Name, requiredString(attr.Label + " is required")}, true
	case KindNumber:
		label := attr.Label
		return Rule{attr.Name, func(v interface{}) (interface{}, string) {
			n, ok := toNumber(v)
			if !ok {
				return v, label + " must be a number"
			}
			return n, ""
		}}, true
	case KindSelect:
		label := attr.Label
		options := attr.Options
		return Rule{attr.Name, func(v interface{}) (interface{}, string) {
			s := strings.TrimSpace(toString(v))
			if s == "" {
				return v, label + " is required"
			}
			if !containsOption(options, s) {
				return v, label + " must be one of the available options"
			}
			return s, ""
		}}, true
	case KindMultiSelect:
		label := attr.Label
		options := attr.Options
		return Rule{attr.Name, func(v interface{}) (interface{}, string) {
			items, ok := toStringSlice(v)
			if !ok || len(items) == 0 {
				return v, "Select at least one " + strings.ToLower(label)
			}
			for _, item := range items {
				if !containsOption(options, item) {
					return v, label + " contains a value outside the available options"
				}
			}
			return items, ""
		}}, true
	default:
		return Rule{}, false
	}
}

func checkProductNumber(v interface{}) (interface{}, string) {
	s := strings.TrimSpace(toString(v))
	if s == "" {
		return v, "Product number is required"
	}
	if !productNumberPattern.MatchString(s) {
		return v, "Product number must be 'P' followed by digits (e.g. P1234)"
	}
	return s, ""
}

func checkCategory(v interface{}) (interface{}, string) {
	n, ok := toNumber(v)
	if !ok || n <= 0 {
		return v, "Category is required"
	}
	return uint(n), ""
}

func checkPrice(v interface{}) (interface{}, string) {
	n, ok := toNumber(v)
	if !ok {
		return v, "Price must be a number"
	}
	if n <= 0 {
		return v, "Price must be greater than zero"
	}
	return n, ""
}

func checkDiscount(v interface{}) (interface{}, string) {
	if isEmpty(v) {
		return float64(0), ""
	}
	n, ok := toNumber(v)
	if !ok {
		return v, "Discount percentage must be a number"
	}
	if n < 0 || n > 100 {
		return v, "Discount percentage must be between 0 and 100"
	}
	return n, ""
}

func checkDescription(v interface{}) (interface{}, string) {
	s := toString(v)
	if strings.TrimSpace(StripMarkup(s)) == "" {
		return v, "Description is required"
	}
	return s, ""
}

func checkTags(v interface{}) (interface{}, string) {
	tags, ok := toStringSlice(v)
	if !ok || len(tags) == 0 {
		return v, "At least one tag is required"
	}
	return tags, ""
}

func checkMediaURLs(v interface{}) (interface{}, string) {
	if isEmpty(v) {
		return []string{}, ""
	}
	urls, ok := toStringSlice(v)
	if !ok {
		return v, "Media URLs must be a list of URLs"
	}
	for _, raw := range urls {
		parsed, err := url.Parse(raw)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return v, fmt.Sprintf("Invalid media URL: %s", raw)
		}
	}
	return urls, ""
}

func checkFeatured(v interface{}) (interface{}, string) {
	if isEmpty(v) {
		return false, ""
	}
	switch b := v.(type) {
	case bool:
		return b, ""
	case string:
		parsed, err := strconv.ParseBool(b)
		if err != nil {
			return v, "Featured flag must be true or false"
		}
		return parsed, ""
	default:
		return v, "Featured flag must be true or false"
	}
}

func requiredString(message string) func(interface{}) (interface{}, string) {
	return func(v interface{}) (interface{}, string) {
		s := strings.TrimSpace(toString(v))
		if s == "" {
			return v, message
		}
		return s, ""
	}
}

func optionalString() func(interface{}) (interface{}, string) {
	return func(v interface{}) (interface{}, string) {
		return strings.TrimSpace(toString(v)), ""
	}
}

func requiredNonNegativeInt(requiredMsg, invalidMsg string) func(interface{}) (interface{}, string) {
	return func(v interface{}) (interface{}, string) {
		if isEmpty(v) {
			return v, requiredMsg
		}
		n, ok := toInt(v)
		if !ok || n < 0 {
			return v, invalidMsg
		}
		return n, ""
	}
}

func optionalNonNegativeInt(invalidMsg string) func(interface{}) (interface{}, string) {
	return func(v interface{}) (interface{}, string) {
		if isEmpty(v) {
			return 0, ""
		}
		n, ok := toInt(v)
		if !ok || n < 0 {
			return v, invalidMsg
		}
		return n, ""
	}
}

// StripMarkup removes markup tags and non-breaking space entities so a
// description made of formatting alone counts as empty.
func StripMarkup(s string) string {
	return markupTagPattern.ReplaceAllString(s, "")
}

func containsOption(options []string, value string) bool {
	for _, opt := range options {
		if opt == value {
			return true
		}
	}
	return false
}

func isEmpty(v interface{}) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	case []string:
		return len(x) == 0
	case []interface{}:
		return len(x) == 0
	default:
		return false
	}
}

func toString(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	default:
		return fmt.Sprintf("%v", x)
	}
}

func toNumber(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, false
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

func toInt(v interface{}) (int, bool) {
	n, ok := toNumber(v)
	if !ok {
		return 0, false
	}
	if n != float64(int(n)) {
		return 0, false
	}
	return int(n), true
}

func toStringSlice(v interface{}) ([]string, bool) {
	switch x := v.(type) {
	case nil:
		return nil, true
	case []string:
		out := make([]string, len(x))
		copy(out, x)
		return out, true
	case []interface{}:
		out := make([]string, 0, len(x))
		for _, item := range x {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}
