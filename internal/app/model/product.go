package model

import (
	"time"

	"gorm.io/gorm"
)

type Product struct {
	ID                      uint           `gorm:"primarykey" json:"id"`
	ProductNumber           string         `gorm:"uniqueIndex:idx_products_product_number;not null" json:"productNumber"`
	SKU                     string         `gorm:"uniqueIndex:idx_products_sku;not null" json:"sku"`
	Name                    string         `gorm:"not null" json:"productName"`
	Brand                   string         `json:"brand"`
	Warranty                string         `json:"warranty"`
	CategoryID              uint           `gorm:"index;not null" json:"categoryID"`
	CategoryName            string         `gorm:"not null" json:"categoryName"`
	Price                   float64        `gorm:"not null" json:"price"`
	DiscountPercentage      float64        `gorm:"default:0" json:"discountPercentage"`
	PriceAfterDiscount      *float64       `json:"priceAfterDiscount,omitempty"` // informational snapshot, recomputed by the form
	StockQuantity           int            `gorm:"default:0" json:"stockQuantity"`
	InventoryAlertThreshold int            `gorm:"default:0" json:"inventoryAlertThreshold"`
	Description             string         `gorm:"type:text" json:"description"`
	Tags                    StringList     `gorm:"type:text" json:"tags"`
	MediaURLs               StringList     `gorm:"type:text" json:"mediaURL"`
	IsFeatured              bool           `gorm:"default:false;index" json:"isFeatured"`
	IsTrend                 bool           `gorm:"default:false;index" json:"isTrend"`
	Attributes              AttributeMap   `gorm:"type:text" json:"attributes"`
	CreatedAt               time.Time      `json:"created_at"`
	UpdatedAt               time.Time      `json:"updated_at"`
	DeletedAt               gorm.DeletedAt `gorm:"index" json:"-"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"-"`
}

func (Product) TableName() string {
	return "products"
}
