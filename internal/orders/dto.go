package orders

import (
	"time"

	"github.com/angelmondragon/stockpos/pkg/db/models"
	"github.com/angelmondragon/stockpos/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateOrderInput is the sale payload. Tax and discount default to zero and
// the payment method defaults to cash.
type CreateOrderInput struct {
	CustomerName   *string          `json:"customer_name"`
	CustomerPhone  *string          `json:"customer_phone"`
	TotalAmount    *decimal.Decimal `json:"total_amount" validate:"required,gte=0"`
	TaxAmount      *decimal.Decimal `json:"tax_amount" validate:"omitempty,gte=0"`
	DiscountAmount *decimal.Decimal `json:"discount_amount" validate:"omitempty,gte=0"`
	PaymentMethod  string           `json:"payment_method"`
	Items          []LineInput      `json:"items" validate:"dive"`
}

// LineInput is one sold item. TotalPrice is stored as supplied; when it is
// absent it defaults to quantity x unit price.
type LineInput struct {
	ItemID     uuid.UUID        `json:"item_id" validate:"required"`
	Quantity   int              `json:"quantity" validate:"gt=0"`
	UnitPrice  *decimal.Decimal `json:"unit_price" validate:"required,gte=0"`
	TotalPrice *decimal.Decimal `json:"total_price" validate:"omitempty,gte=0"`
}

// LineDTO is an order line joined to its item.
type LineDTO struct {
	ID         uuid.UUID       `json:"id"`
	OrderID    uuid.UUID       `json:"order_id"`
	ItemID     uuid.UUID       `json:"item_id"`
	ItemName   string          `json:"item_name"`
	Barcode    *string         `json:"barcode"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// OrderDTO is an order header with its lines.
type OrderDTO struct {
	ID             uuid.UUID           `json:"id"`
	OrderNumber    string              `json:"order_number"`
	CustomerName   *string             `json:"customer_name"`
	CustomerPhone  *string             `json:"customer_phone"`
	TotalAmount    decimal.Decimal     `json:"total_amount"`
	TaxAmount      decimal.Decimal     `json:"tax_amount"`
	DiscountAmount decimal.Decimal     `json:"discount_amount"`
	PaymentMethod  enums.PaymentMethod `json:"payment_method"`
	Status         enums.OrderStatus   `json:"status"`
	CreatedAt      time.Time           `json:"created_at"`
	Items          []LineDTO           `json:"items"`
}

// OrderSummary is one row of the order listing.
type OrderSummary struct {
	ID             uuid.UUID           `json:"id"`
	OrderNumber    string              `json:"order_number"`
	CustomerName   *string             `json:"customer_name"`
	CustomerPhone  *string             `json:"customer_phone"`
	TotalAmount    decimal.Decimal     `json:"total_amount"`
	TaxAmount      decimal.Decimal     `json:"tax_amount"`
	DiscountAmount decimal.Decimal     `json:"discount_amount"`
	PaymentMethod  enums.PaymentMethod `json:"payment_method"`
	Status         enums.OrderStatus   `json:"status"`
	CreatedAt      time.Time           `json:"created_at"`
	ItemNames      string              `json:"item_names"`
	ItemCount      int                 `json:"item_count"`
}

func newOrderDTO(order models.Order, lines []LineDTO) *OrderDTO {
	if lines == nil {
		lines = []LineDTO{}
	}
	return &OrderDTO{
		ID:             order.ID,
		OrderNumber:    order.OrderNumber,
		CustomerName:   order.CustomerName,
		CustomerPhone:  order.CustomerPhone,
		TotalAmount:    order.TotalAmount,
		TaxAmount:      order.TaxAmount,
		DiscountAmount: order.DiscountAmount,
		PaymentMethod:  order.PaymentMethod,
		Status:         order.Status,
		CreatedAt:      order.CreatedAt,
		Items:          lines,
	}
}
