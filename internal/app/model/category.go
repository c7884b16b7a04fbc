package model

import (
	"time"

	"gorm.io/gorm"
)

type Category struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Name      string         `gorm:"uniqueIndex:idx_categories_name;not null" json:"name"`
	NameAr    string         `json:"name_ar"` // Arabic display name for the RTL storefront
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Ordered attribute definitions that drive the product form
	Attributes []CategoryAttribute `gorm:"foreignKey:CategoryID" json:"attributes,omitempty"`
}

func (Category) TableName() string {
	return "categories"
}

// CategoryAttribute is one dynamic field definition belonging to a category.
// Kind is one of the form.FieldKind values; Options only applies to the
// select kinds.
type CategoryAttribute struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	CategoryID  uint           `gorm:"index;not null;uniqueIndex:idx_category_attr_name" json:"category_id"`
	Name        string         `gorm:"not null;uniqueIndex:idx_category_attr_name" json:"name"`
	Label       string         `gorm:"not null" json:"label"`
	Kind        string         `gorm:"type:varchar(20);not null" json:"kind"`
	Options     StringList     `gorm:"type:text" json:"options"`
	Placeholder string         `json:"placeholder"`
	Tooltip     string         `json:"tooltip"`
	SortOrder   int            `gorm:"default:0" json:"sort_order"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (CategoryAttribute) TableName() string {
	return "category_attributes"
}
