package orders

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/stockpos/internal/inventory"
	"github.com/angelmondragon/stockpos/internal/stockhistory"
	"github.com/angelmondragon/stockpos/pkg/db"
	"github.com/angelmondragon/stockpos/pkg/dbtest"
	"github.com/angelmondragon/stockpos/pkg/enums"
	pkgerrors "github.com/angelmondragon/stockpos/pkg/errors"
	"github.com/angelmondragon/stockpos/pkg/logger"
	"github.com/angelmondragon/stockpos/pkg/metrics"
	"github.com/angelmondragon/stockpos/pkg/types"
)

type fixture struct {
	client  *db.Client
	items   inventory.Service
	svc     Service
	history stockhistory.Repository
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	client := dbtest.Open(t)
	sales := metrics.NewSalesMetrics(prometheus.NewRegistry())
	history := stockhistory.NewRepository(client.DB())

	items, err := inventory.NewService(
		inventory.NewRepository(client.DB()),
		history,
		client,
		sales,
		logger.Nop(),
		inventory.Config{LowStockThreshold: 10},
	)
	require.NoError(t, err)

	svc, err := NewService(NewRepository(client.DB()), items, client, sales, logger.Nop())
	require.NoError(t, err)
	return fixture{client: client, items: items, svc: svc, history: history}
}

func money(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func (f fixture) addItem(t *testing.T, name, barcode string, qty int) *inventory.ItemDTO {
	t.Helper()
	item, err := f.items.AddItem(context.Background(), inventory.ItemInput{
		Name:     name,
		Barcode:  barcode,
		Price:    money("2.50"),
		Quantity: types.IntOf(qty),
	})
	require.NoError(t, err)
	return item
}

func line(itemID uuid.UUID, qty int) LineInput {
	return LineInput{ItemID: itemID, Quantity: qty, UnitPrice: money("2.50")}
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := NewService(nil, nil, nil, nil, nil)
	require.Error(t, err)
}

func TestCreateOrderDecrementsStockAndAudits(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	milk := f.addItem(t, "Milk", "111", 10)
	bread := f.addItem(t, "Bread", "", 4)

	order, err := f.svc.CreateOrder(ctx, CreateOrderInput{
		CustomerName:  strPtr("  Dana "),
		TotalAmount:   money("15.00"),
		TaxAmount:     money("1.50"),
		PaymentMethod: "Card",
		Items:         []LineInput{line(milk.ID, 3), line(bread.ID, 2)},
	})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(order.OrderNumber, "ORD-"))
	require.Equal(t, enums.PaymentMethodCard, order.PaymentMethod)
	require.Equal(t, enums.OrderStatusCompleted, order.Status)
	require.Equal(t, "Dana", *order.CustomerName)
	require.Nil(t, order.CustomerPhone)
	require.True(t, order.DiscountAmount.IsZero())
	require.Len(t, order.Items, 2)
	require.True(t, decimal.RequireFromString("7.50").Equal(order.Items[0].TotalPrice))

	got, err := f.items.GetItem(ctx, milk.ID)
	require.NoError(t, err)
	require.Equal(t, 7, got.Quantity)
	got, err = f.items.GetItem(ctx, bread.ID)
	require.NoError(t, err)
	require.Equal(t, 2, got.Quantity)

	entries, err := f.history.List(ctx, stockhistory.Filters{})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, entry := range entries {
		require.Equal(t, enums.MovementTypeOut, entry.Type)
		require.Equal(t, ReferencePrefix+order.OrderNumber, entry.Reference)
		require.Equal(t, entry.PreviousStock-entry.Quantity, entry.NewStock)
	}
}

func TestCreateOrderKeepsSuppliedLineTotal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.addItem(t, "Soap", "", 5)

	in := line(item.ID, 2)
	in.TotalPrice = money("4.00")
	order, err := f.svc.CreateOrder(ctx, CreateOrderInput{TotalAmount: money("4.00"), Items: []LineInput{in}})
	require.NoError(t, err)

	loaded, err := f.svc.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 1)
	require.True(t, decimal.RequireFromString("4.00").Equal(loaded.Items[0].TotalPrice))
	require.Equal(t, "Soap", loaded.Items[0].ItemName)
	require.Equal(t, enums.PaymentMethodCash, loaded.PaymentMethod)
}

func TestCreateOrderInsufficientStockRollsBackEverything(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.addItem(t, "Eggs", "", 10)
	second := f.addItem(t, "Rice", "", 1)

	before := map[string]int64{}
	for _, table := range []string{"orders", "order_items", "stock_history"} {
		before[table] = dbtest.Count(t, f.client, table)
	}

	_, err := f.svc.CreateOrder(ctx, CreateOrderInput{
		TotalAmount: money("10.00"),
		Items:       []LineInput{line(first.ID, 2), line(second.ID, 5)},
	})
	require.Error(t, err)
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeInsufficientStock))

	details, ok := pkgerrors.As(err).Details().(pkgerrors.InsufficientStockDetails)
	require.True(t, ok)
	assert.Equal(t, "Rice", details.ItemName)
	assert.Equal(t, 1, details.Available)
	assert.Equal(t, 5, details.Required)

	for table, count := range before {
		require.Equal(t, count, dbtest.Count(t, f.client, table), table)
	}
	got, err := f.items.GetItem(ctx, first.ID)
	require.NoError(t, err)
	require.Equal(t, 10, got.Quantity)
}

func TestCreateOrderUnknownItemIsNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	known := f.addItem(t, "Tea", "", 3)

	_, err := f.svc.CreateOrder(ctx, CreateOrderInput{
		TotalAmount: money("1.00"),
		Items:       []LineInput{line(known.ID, 1), line(uuid.New(), 1)},
	})
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
	require.Zero(t, dbtest.Count(t, f.client, "orders"))
	require.Zero(t, dbtest.Count(t, f.client, "stock_history"))

	got, err := f.items.GetItem(ctx, known.ID)
	require.NoError(t, err)
	require.Equal(t, 3, got.Quantity)
}

func TestCreateOrderWithoutLines(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order, err := f.svc.CreateOrder(ctx, CreateOrderInput{TotalAmount: money("0")})
	require.NoError(t, err)
	require.Empty(t, order.Items)
	require.EqualValues(t, 1, dbtest.Count(t, f.client, "orders"))
	require.Zero(t, dbtest.Count(t, f.client, "stock_history"))
}

func TestCreateOrderValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.addItem(t, "Salt", "", 3)

	tests := []struct {
		name  string
		input CreateOrderInput
	}{
		{name: "missing total", input: CreateOrderInput{}},
		{name: "negative total", input: CreateOrderInput{TotalAmount: money("-1")}},
		{name: "negative tax", input: CreateOrderInput{TotalAmount: money("1"), TaxAmount: money("-0.5")}},
		{name: "bad payment method", input: CreateOrderInput{TotalAmount: money("1"), PaymentMethod: "barter"}},
		{name: "zero quantity", input: CreateOrderInput{TotalAmount: money("1"), Items: []LineInput{line(item.ID, 0)}}},
		{name: "missing unit price", input: CreateOrderInput{TotalAmount: money("1"), Items: []LineInput{{ItemID: item.ID, Quantity: 1}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateOrder(ctx, tt.input)
			require.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation), "got %v", err)
		})
	}
	require.Zero(t, dbtest.Count(t, f.client, "orders"))
}

func TestListOrdersAggregatesLines(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.addItem(t, "Apples", "", 10)
	b := f.addItem(t, "Pears", "", 10)

	first, err := f.svc.CreateOrder(ctx, CreateOrderInput{TotalAmount: money("5"), Items: []LineInput{line(a.ID, 1), line(b.ID, 1)}})
	require.NoError(t, err)
	second, err := f.svc.CreateOrder(ctx, CreateOrderInput{TotalAmount: money("0")})
	require.NoError(t, err)

	list, err := f.svc.ListOrders(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, second.ID, list[0].ID)
	require.Equal(t, 0, list[0].ItemCount)
	require.Equal(t, "", list[0].ItemNames)
	require.Equal(t, first.ID, list[1].ID)
	require.Equal(t, 2, list[1].ItemCount)
	require.Contains(t, list[1].ItemNames, "Apples")
	require.Contains(t, list[1].ItemNames, "Pears")

	recent, err := f.svc.RecentOrders(ctx, 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
}

func TestGetOrderAbsentReturnsNil(t *testing.T) {
	f := newFixture(t)
	order, err := f.svc.GetOrder(context.Background(), uuid.New())
	require.NoError(t, err)
	require.Nil(t, order)
}

func TestNumberGeneratorIsStrictlyIncreasing(t *testing.T) {
	fixed := time.UnixMilli(1_700_000_000_000)
	gen := newNumberGenerator(func() time.Time { return fixed })

	var last int64
	for i := 0; i < 5; i++ {
		number := gen.Next()
		require.True(t, strings.HasPrefix(number, "ORD-"))
		value, err := strconv.ParseInt(strings.TrimPrefix(number, "ORD-"), 10, 64)
		require.NoError(t, err)
		require.Greater(t, value, last)
		last = value
	}
}

func strPtr(s string) *string { return &s }
