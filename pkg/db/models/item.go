package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item is a stocked product. Quantity never drops below zero.
type Item struct {
	ID          uuid.UUID       `gorm:"column:id;type:text;primaryKey"`
	Name        string          `gorm:"column:name;not null"`
	Description string          `gorm:"column:description"`
	Barcode     *string         `gorm:"column:barcode;uniqueIndex"`
	Category    string          `gorm:"column:category"`
	Price       decimal.Decimal `gorm:"column:price;type:real;not null"`
	Cost        decimal.Decimal `gorm:"column:cost;type:real"`
	Quantity    int             `gorm:"column:quantity;not null;default:0"`
	MinStock    int             `gorm:"column:min_stock;not null;default:0"`
	Supplier    string          `gorm:"column:supplier"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Item) TableName() string { return "items" }
