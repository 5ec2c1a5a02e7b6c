package orders

import (
	"context"
	"time"

	"github.com/angelmondragon/stockpos/pkg/db/models"
	"github.com/angelmondragon/stockpos/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repository defines persistence operations for orders and order lines.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.Order) error
	CreateLine(ctx context.Context, line *models.OrderItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindLines(ctx context.Context, orderID uuid.UUID) ([]LineDTO, error)
	ListSummaries(ctx context.Context, limit int) ([]OrderSummary, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an orders repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *repository) CreateLine(ctx context.Context, line *models.OrderItem) error {
	return r.db.WithContext(ctx).Create(line).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

type lineRow struct {
	ID         uuid.UUID       `gorm:"column:id"`
	OrderID    uuid.UUID       `gorm:"column:order_id"`
	ItemID     uuid.UUID       `gorm:"column:item_id"`
	ItemName   *string         `gorm:"column:item_name"`
	Barcode    *string         `gorm:"column:barcode"`
	Quantity   int             `gorm:"column:quantity"`
	UnitPrice  decimal.Decimal `gorm:"column:unit_price"`
	TotalPrice decimal.Decimal `gorm:"column:total_price"`
}

// FindLines returns the lines of an order in insertion order, joined to the
// current item name and barcode.
func (r *repository) FindLines(ctx context.Context, orderID uuid.UUID) ([]LineDTO, error) {
	var rows []lineRow
	err := r.db.WithContext(ctx).
		Table("order_items AS oi").
		Select("oi.id, oi.order_id, oi.item_id, i.name AS item_name, i.barcode AS barcode, oi.quantity, oi.unit_price, oi.total_price").
		Joins("LEFT JOIN items i ON i.id = oi.item_id").
		Where("oi.order_id = ?", orderID).
		Order("oi.rowid ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	lines := make([]LineDTO, 0, len(rows))
	for _, row := range rows {
		name := ""
		if row.ItemName != nil {
			name = *row.ItemName
		}
		lines = append(lines, LineDTO{
			ID:         row.ID,
			OrderID:    row.OrderID,
			ItemID:     row.ItemID,
			ItemName:   name,
			Barcode:    row.Barcode,
			Quantity:   row.Quantity,
			UnitPrice:  row.UnitPrice,
			TotalPrice: row.TotalPrice,
		})
	}
	return lines, nil
}

type summaryRow struct {
	ID             uuid.UUID           `gorm:"column:id"`
	OrderNumber    string              `gorm:"column:order_number"`
	CustomerName   *string             `gorm:"column:customer_name"`
	CustomerPhone  *string             `gorm:"column:customer_phone"`
	TotalAmount    decimal.Decimal     `gorm:"column:total_amount"`
	TaxAmount      decimal.Decimal     `gorm:"column:tax_amount"`
	DiscountAmount decimal.Decimal     `gorm:"column:discount_amount"`
	PaymentMethod  enums.PaymentMethod `gorm:"column:payment_method"`
	Status         enums.OrderStatus   `gorm:"column:status"`
	CreatedAt      time.Time           `gorm:"column:created_at"`
	ItemNames      *string             `gorm:"column:item_names"`
	ItemCount      int                 `gorm:"column:item_count"`
}

// ListSummaries returns one row per order, newest first, with the joined item
// names and line count. A non-positive limit returns every order.
func (r *repository) ListSummaries(ctx context.Context, limit int) ([]OrderSummary, error) {
	query := r.db.WithContext(ctx).
		Table("orders AS o").
		Select(`o.id, o.order_number, o.customer_name, o.customer_phone, o.total_amount, o.tax_amount,
			o.discount_amount, o.payment_method, o.status, o.created_at,
			GROUP_CONCAT(i.name, ', ') AS item_names, COUNT(oi.id) AS item_count`).
		Joins("LEFT JOIN order_items oi ON oi.order_id = o.id").
		Joins("LEFT JOIN items i ON i.id = oi.item_id").
		Group("o.id").
		Order("o.created_at DESC").
		Order("o.rowid DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []summaryRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]OrderSummary, 0, len(rows))
	for _, row := range rows {
		names := ""
		if row.ItemNames != nil {
			names = *row.ItemNames
		}
		out = append(out, OrderSummary{
			ID:             row.ID,
			OrderNumber:    row.OrderNumber,
			CustomerName:   row.CustomerName,
			CustomerPhone:  row.CustomerPhone,
			TotalAmount:    row.TotalAmount,
			TaxAmount:      row.TaxAmount,
			DiscountAmount: row.DiscountAmount,
			PaymentMethod:  row.PaymentMethod,
			Status:         row.Status,
			CreatedAt:      row.CreatedAt,
			ItemNames:      names,
			ItemCount:      row.ItemCount,
		})
	}
	return out, nil
}
