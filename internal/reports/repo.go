package reports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repository runs the aggregate queries behind the dashboard.
type Repository interface {
	InventoryTotals(ctx context.Context, lowStockThreshold int) (InventoryTotals, error)
	SalesBetween(ctx context.Context, from, to time.Time) (SalesTotals, error)
}

// InventoryTotals summarizes the items table.
type InventoryTotals struct {
	TotalItems     int64           `gorm:"column:total_items"`
	InventoryValue decimal.Decimal `gorm:"column:inventory_value"`
	LowStockCount  int64           `gorm:"column:low_stock_count"`
}

// SalesTotals summarizes orders created in a window.
type SalesTotals struct {
	Orders  int64           `gorm:"column:orders"`
	Revenue decimal.Decimal `gorm:"column:revenue"`
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a reports repository bound to db.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) InventoryTotals(ctx context.Context, lowStockThreshold int) (InventoryTotals, error) {
	var out InventoryTotals
	err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(*) AS total_items,
		       COALESCE(SUM(price * quantity), 0) AS inventory_value,
		       COALESCE(SUM(CASE WHEN quantity <= min_stock OR quantity <= ? THEN 1 ELSE 0 END), 0) AS low_stock_count
		FROM items`, lowStockThreshold).Scan(&out).Error
	return out, err
}

// SalesBetween counts completed orders with created_at in [from, to).
func (r *repository) SalesBetween(ctx context.Context, from, to time.Time) (SalesTotals, error) {
	var out SalesTotals
	err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(*) AS orders,
		       COALESCE(SUM(total_amount), 0) AS revenue
		FROM orders
		WHERE status = 'completed' AND created_at >= ? AND created_at < ?`,
		from.UTC(), to.UTC()).Scan(&out).Error
	return out, err
}
