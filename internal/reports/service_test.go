package reports

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/stockpos/internal/inventory"
	"github.com/angelmondragon/stockpos/internal/orders"
	"github.com/angelmondragon/stockpos/internal/stockhistory"
	"github.com/angelmondragon/stockpos/pkg/dbtest"
	"github.com/angelmondragon/stockpos/pkg/logger"
	"github.com/angelmondragon/stockpos/pkg/types"
)

func money(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestDashboardEmptyStore(t *testing.T) {
	client := dbtest.Open(t)
	orderSvc := stubOrders{}
	svc, err := NewService(NewRepository(client.DB()), orderSvc, 10, nil)
	require.NoError(t, err)

	dash, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	require.Zero(t, dash.TotalItems)
	require.True(t, dash.InventoryValue.IsZero())
	require.Zero(t, dash.TodayOrders)
	require.True(t, dash.TodayRevenue.IsZero())
	require.NotNil(t, dash.RecentOrders)
}

func TestDashboardAggregates(t *testing.T) {
	client := dbtest.Open(t)
	ctx := context.Background()
	log := logger.Nop()

	history := stockhistory.NewRepository(client.DB())
	items, err := inventory.NewService(inventory.NewRepository(client.DB()), history, client, nil, log, inventory.Config{LowStockThreshold: 10})
	require.NoError(t, err)
	orderSvc, err := orders.NewService(orders.NewRepository(client.DB()), items, client, nil, log)
	require.NoError(t, err)

	plenty, err := items.AddItem(ctx, inventory.ItemInput{Name: "Flour", Price: money("2.00"), Quantity: types.IntOf(50)})
	require.NoError(t, err)
	_, err = items.AddItem(ctx, inventory.ItemInput{Name: "Yeast", Price: money("1.50"), Quantity: types.IntOf(4)})
	require.NoError(t, err)

	for i := 0; i < 6; i++ {
		_, err := orderSvc.CreateOrder(ctx, orders.CreateOrderInput{
			TotalAmount: money("4.00"),
			Items:       []orders.LineInput{{ItemID: plenty.ID, Quantity: 2, UnitPrice: money("2.00")}},
		})
		require.NoError(t, err)
	}

	svc, err := NewService(NewRepository(client.DB()), orderSvc, 10, nil)
	require.NoError(t, err)
	dash, err := svc.Dashboard(ctx)
	require.NoError(t, err)

	require.EqualValues(t, 2, dash.TotalItems)
	// Flour 38 x 2.00 plus Yeast 4 x 1.50.
	require.True(t, decimal.RequireFromString("82").Equal(dash.InventoryValue), dash.InventoryValue.String())
	require.EqualValues(t, 1, dash.LowStockCount)
	require.EqualValues(t, 6, dash.TodayOrders)
	require.True(t, decimal.RequireFromString("24").Equal(dash.TodayRevenue), dash.TodayRevenue.String())
	require.Len(t, dash.RecentOrders, RecentOrderLimit)
}

func TestDashboardExcludesOtherDays(t *testing.T) {
	client := dbtest.Open(t)
	ctx := context.Background()
	yesterday := time.Now().UTC().Add(-48 * time.Hour)
	require.NoError(t, client.Exec(ctx,
		`INSERT INTO orders (id, order_number, total_amount, tax_amount, discount_amount, payment_method, status, created_at)
		 VALUES (?, 'ORD-1', 9, 0, 0, 'cash', 'completed', ?)`, uuid.NewString(), yesterday).Error)

	svc, err := NewService(NewRepository(client.DB()), stubOrders{}, 10, nil)
	require.NoError(t, err)
	dash, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	require.Zero(t, dash.TodayOrders)
	require.True(t, dash.TodayRevenue.IsZero())
}

type stubOrders struct{}

func (stubOrders) RecentOrders(context.Context, int) ([]orders.OrderSummary, error) {
	return nil, nil
}
