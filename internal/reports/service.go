package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/stockpos/internal/orders"
	"github.com/angelmondragon/stockpos/pkg/db"
)

// RecentOrderLimit caps the orders listed on the dashboard.
const RecentOrderLimit = 5

// Service builds read-only projections over the store.
type Service interface {
	Dashboard(ctx context.Context) (*Dashboard, error)
}

type orderLister interface {
	RecentOrders(ctx context.Context, limit int) ([]orders.OrderSummary, error)
}

type service struct {
	repo              Repository
	orders            orderLister
	lowStockThreshold int
	now               func() time.Time
}

// NewService wires the reporting surface. now may be nil.
func NewService(repo Repository, lister orderLister, lowStockThreshold int, now func() time.Time) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reports repository required")
	}
	if lister == nil {
		return nil, fmt.Errorf("order lister required")
	}
	if now == nil {
		now = time.Now
	}
	return &service{repo: repo, orders: lister, lowStockThreshold: lowStockThreshold, now: now}, nil
}

func (s *service) Dashboard(ctx context.Context) (*Dashboard, error) {
	inventory, err := s.repo.InventoryTotals(ctx, s.lowStockThreshold)
	if err != nil {
		return nil, db.Classify(err, "inventory totals")
	}

	from, to := DayWindow(s.now())
	sales, err := s.repo.SalesBetween(ctx, from, to)
	if err != nil {
		return nil, db.Classify(err, "sales totals")
	}

	recent, err := s.orders.RecentOrders(ctx, RecentOrderLimit)
	if err != nil {
		return nil, err
	}
	if recent == nil {
		recent = []orders.OrderSummary{}
	}

	return &Dashboard{
		TotalItems:     inventory.TotalItems,
		InventoryValue: inventory.InventoryValue,
		LowStockCount:  inventory.LowStockCount,
		TodayOrders:    sales.Orders,
		TodayRevenue:   sales.Revenue,
		RecentOrders:   recent,
	}, nil
}
