package models

import (
	"time"

	"github.com/angelmondragon/stockpos/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is the header of a completed sale.
type Order struct {
	ID             uuid.UUID           `gorm:"column:id;type:text;primaryKey"`
	OrderNumber    string              `gorm:"column:order_number;not null;uniqueIndex"`
	CustomerName   *string             `gorm:"column:customer_name"`
	CustomerPhone  *string             `gorm:"column:customer_phone"`
	TotalAmount    decimal.Decimal     `gorm:"column:total_amount;type:real;not null"`
	TaxAmount      decimal.Decimal     `gorm:"column:tax_amount;type:real;not null;default:0"`
	DiscountAmount decimal.Decimal     `gorm:"column:discount_amount;type:real;not null;default:0"`
	PaymentMethod  enums.PaymentMethod `gorm:"column:payment_method;not null;default:cash"`
	Status         enums.OrderStatus   `gorm:"column:status;not null;default:completed"`
	CreatedAt      time.Time           `gorm:"column:created_at;autoCreateTime"`
}

func (Order) TableName() string { return "orders" }

// OrderItem is one line of an order. TotalPrice is stored as supplied.
type OrderItem struct {
	ID         uuid.UUID       `gorm:"column:id;type:text;primaryKey"`
	OrderID    uuid.UUID       `gorm:"column:order_id;type:text;not null"`
	ItemID     uuid.UUID       `gorm:"column:item_id;type:text;not null"`
	Quantity   int             `gorm:"column:quantity;not null"`
	UnitPrice  decimal.Decimal `gorm:"column:unit_price;type:real;not null"`
	TotalPrice decimal.Decimal `gorm:"column:total_price;type:real;not null"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (OrderItem) TableName() string { return "order_items" }
