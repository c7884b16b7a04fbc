package model

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// StockAlert records one low-stock observation made by the inventory
// scheduler. Channels lists where the alert was delivered
// (e.g. ["dashboard", "websocket"]).
type StockAlert struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	ProductID     uint   `gorm:"not null;index" json:"product_id"`
	ProductName   string `gorm:"not null" json:"product_name"`
	StockQuantity int    `gorm:"not null" json:"stock_quantity"`
	Threshold     int    `gorm:"not null" json:"threshold"`

	Channels pq.StringArray `gorm:"type:text[];default:'{}';not null" json:"channels"`

	Acknowledged bool `gorm:"default:false;index" json:"acknowledged"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (StockAlert) TableName() string {
	return "stock_alerts"
}
