package form

import (
	"context"
	"errors"
	"fmt"
)

// FieldKind is the closed set of input kinds a category attribute can have.
// The wire values match what the storefront sends and what the
// category_attributes table stores.
type FieldKind string

const (
	KindText        FieldKind = "text"
	KindNumber      FieldKind = "number"
	KindSelect      FieldKind = "select"
	KindMultiSelect FieldKind = "multi-select"
)

// ParseFieldKind validates a raw kind string
func ParseFieldKind(s string) (FieldKind, error) {
	switch FieldKind(s) {
	case KindText, KindNumber, KindSelect, KindMultiSelect:
		return FieldKind(s), nil
	default:
		return "", fmt.Errorf("unsupported field kind %q", s)
	}
}

// IsSelect reports whether the kind draws its values from an options list
func (k FieldKind) IsSelect() bool {
	return k == KindSelect || k == KindMultiSelect
}

// AttributeDefinition describes one category-specific product field
type AttributeDefinition struct {
	Name        string    `json:"name"`
	Label       string    `json:"label"`
	Kind        FieldKind `json:"kind"`
	Options     []string  `json:"options,omitempty"`
	Placeholder string    `json:"placeholder,omitempty"`
	Tooltip     string    `json:"tooltip,omitempty"`
}

// CategorySchema is the ordered attribute list of one category.
// It is immutable once fetched; a category change replaces it wholesale.
type CategorySchema struct {
	CategoryID   uint                  `json:"category_id"`
	CategoryName string                `json:"category_name"`
	Attributes   []AttributeDefinition `json:"attributes"`
}

// FieldNames returns the attribute names in schema order
func (s *CategorySchema) FieldNames() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.Attributes))
	for _, attr := range s.Attributes {
		names = append(names, attr.Name)
	}
	return names
}

// Attribute looks up a definition by name
func (s *CategorySchema) Attribute(name string) (AttributeDefinition, bool) {
	if s == nil {
		return AttributeDefinition{}, false
	}
	for _, attr := range s.Attributes {
		if attr.Name == name {
			return attr, true
		}
	}
	return AttributeDefinition{}, false
}

// Validate checks the schema invariants: attribute names are unique and
// select kinds carry a non-empty options list.
func (s *CategorySchema) Validate() error {
	seen := make(map[string]bool, len(s.Attributes))
	for _, attr := range s.Attributes {
		if attr.Name == "" {
			return errors.New("attribute name must not be empty")
		}
		if seen[attr.Name] {
			return fmt.Errorf("duplicate attribute name %q", attr.Name)
		}
		seen[attr.Name] = true
		if attr.Kind.IsSelect() && len(attr.Options) == 0 {
			return fmt.Errorf("attribute %q: %s kind requires options", attr.Name, attr.Kind)
		}
	}
	return nil
}

// ErrSchemaNotFound is returned by a SchemaSource when the category has
// no attribute schema anywhere.
var ErrSchemaNotFound = errors.New("category schema not found")

// SchemaSource resolves the attribute schema for a category. The session
// never assumes which source (remote, cache or static fallback) supplied
// the result.
type SchemaSource interface {
	Resolve(ctx context.Context, categoryID uint, categoryName string) (*CategorySchema, error)
}
