package reports

import (
	"github.com/angelmondragon/stockpos/internal/orders"
	"github.com/shopspring/decimal"
)

// Dashboard is the landing-screen projection.
type Dashboard struct {
	TotalItems     int64                 `json:"total_items"`
	InventoryValue decimal.Decimal       `json:"inventory_value"`
	LowStockCount  int64                 `json:"low_stock_count"`
	TodayOrders    int64                 `json:"today_orders"`
	TodayRevenue   decimal.Decimal       `json:"today_revenue"`
	RecentOrders   []orders.OrderSummary `json:"recent_orders"`
}
