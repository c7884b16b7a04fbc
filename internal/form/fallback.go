package form

import "context"

// Static fallback schemas for the seed categories. Used when the remote
// catalog cannot serve a schema, and by the database seeder on first run.
// The attribute lists mirror what the storefront shipped with.
var fallbackSchemas = []CategorySchema{
	{
		CategoryName: "Electronics",
		Attributes: []AttributeDefinition{
			{Name: "brand", Label: "Brand", Kind: KindText, Placeholder: "Enter brand name", Tooltip: "Manufacturer or brand of the electronic product."},
			{Name: "warrantyPeriod", Label: "Warranty Period (Months)", Kind: KindNumber, Placeholder: "Enter warranty period", Tooltip: "Duration of the warranty in months."},
			{Name: "sku", Label: "SKU", Kind: KindText, Placeholder: "Enter SKU", Tooltip: "Unique Stock Keeping Unit identifier."},
		},
	},
	{
		CategoryName: "Clothing",
		Attributes: []AttributeDefinition{
			{Name: "sizes", Label: "Sizes", Kind: KindMultiSelect, Options: []string{"XS", "S", "M", "L", "XL", "XXL"}, Placeholder: "Select sizes", Tooltip: "Available sizes for the clothing item."},
			{Name: "colors", Label: "Colors", Kind: KindMultiSelect, Options: []string{"Red", "Blue", "Green", "Black", "White", "Yellow"}, Placeholder: "Select colors", Tooltip: "Available colors for the clothing item."},
			{Name: "material", Label: "Material", Kind: KindText, Placeholder: "Enter material", Tooltip: "Material composition of the clothing item."},
			{Name: "sku", Label: "SKU", Kind: KindText, Placeholder: "Enter SKU", Tooltip: "Unique Stock Keeping Unit identifier."},
		},
	},
	{
		CategoryName: "Shoes",
		Attributes: []AttributeDefinition{
			{Name: "sizes", Label: "Sizes", Kind: KindMultiSelect, Options: []string{"6", "7", "8", "9", "10", "11", "12"}, Placeholder: "Select shoe sizes", Tooltip: "Available sizes for the shoes."},
			{Name: "colors", Label: "Colors", Kind: KindMultiSelect, Options: []string{"Black", "White", "Brown", "Grey", "Blue", "Red"}, Placeholder: "Select colors", Tooltip: "Available colors for the shoes."},
			{Name: "material", Label: "Material", Kind: KindText, Placeholder: "Enter material", Tooltip: "Material composition of the shoes."},
			{Name: "gender", Label: "Gender", Kind: KindSelect, Options: []string{"Men", "Women", "Unisex"}, Placeholder: "Select gender", Tooltip: "Intended gender for the shoes."},
			{Name: "sku", Label: "SKU", Kind: KindText, Placeholder: "Enter SKU", Tooltip: "Unique Stock Keeping Unit identifier."},
		},
	},
	{
		CategoryName: "Accessories",
		Attributes: []AttributeDefinition{
			{Name: "type", Label: "Type", Kind: KindSelect, Options: []string{"Belt", "Hat", "Scarf", "Wallet", "Jewelry"}, Placeholder: "Select accessory type", Tooltip: "Type of accessory."},
			{Name: "material", Label: "Material", Kind: KindText, Placeholder: "Enter material", Tooltip: "Material composition of the accessory."},
			{Name: "color", Label: "Color", Kind: KindText, Placeholder: "Enter color", Tooltip: "Color of the accessory."},
			{Name: "sku", Label: "SKU", Kind: KindText, Placeholder: "Enter SKU", Tooltip: "Unique Stock Keeping Unit identifier."},
		},
	},
	{
		CategoryName: "Glasses",
		Attributes: []AttributeDefinition{
			{Name: "lensType", Label: "Lens Type", Kind: KindSelect, Options: []string{"Single Vision", "Bifocal", "Progressive"}, Placeholder: "Select lens type", Tooltip: "Type of lenses for the glasses."},
			{Name: "frameMaterial", Label: "Frame Material", Kind: KindText, Placeholder: "Enter frame material", Tooltip: "Material of the glasses frame."},
			{Name: "color", Label: "Color", Kind: KindText, Placeholder: "Enter color", Tooltip: "Color of the glasses."},
			{Name: "sku", Label: "SKU", Kind: KindText, Placeholder: "Enter SKU", Tooltip: "Unique Stock Keeping Unit identifier."},
		},
	},
}

var fallbackArabicNames = map[string]string{
	"Electronics": "إلكترونيات",
	"Clothing":    "ملابس",
	"Shoes":       "أحذية",
	"Accessories": "إكسسوارات",
	"Glasses":     "نظارات",
}

// FallbackSchemas returns a copy of the static schema table
func FallbackSchemas() []CategorySchema {
	out := make([]CategorySchema, len(fallbackSchemas))
	copy(out, fallbackSchemas)
	return out
}

// FallbackSchemaByName returns the static schema for a seed category name
func FallbackSchemaByName(name string) (*CategorySchema, bool) {
	for _, schema := range fallbackSchemas {
		if schema.CategoryName == name {
			s := schema
			return &s, true
		}
	}
	return nil, false
}

// FallbackArabicName returns the Arabic display name for a seed category
func FallbackArabicName(name string) string {
	return fallbackArabicNames[name]
}

// FallbackSource serves schemas from the static table only. It is used
// standalone in tests and as the last resort behind the remote source.
type FallbackSource struct{}

func (FallbackSource) Resolve(_ context.Context, categoryID uint, categoryName string) (*CategorySchema, error) {
	schema, ok := FallbackSchemaByName(categoryName)
	if !ok {
		return nil, ErrSchemaNotFound
	}
	s := *schema
	s.CategoryID = categoryID
	return &s, nil
}
