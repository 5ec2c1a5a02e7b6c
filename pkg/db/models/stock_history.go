package models

import (
	"time"

	"github.com/angelmondragon/stockpos/pkg/enums"
	"github.com/google/uuid"
)

// StockHistory is an append-only audit row. ItemName and Barcode are
// snapshots taken when the movement happened.
type StockHistory struct {
	ID            int64              `gorm:"column:id;primaryKey;autoIncrement"`
	ItemID        uuid.UUID          `gorm:"column:item_id;type:text;not null"`
	ItemName      string             `gorm:"column:item_name;not null"`
	Barcode       *string            `gorm:"column:barcode"`
	Type          enums.MovementType `gorm:"column:type;not null"`
	Quantity      int                `gorm:"column:quantity;not null"`
	PreviousStock int                `gorm:"column:previous_stock;not null"`
	NewStock      int                `gorm:"column:new_stock;not null"`
	Reference     string             `gorm:"column:reference"`
	CreatedAt     time.Time          `gorm:"column:created_at;autoCreateTime"`
}

func (StockHistory) TableName() string { return "stock_history" }
