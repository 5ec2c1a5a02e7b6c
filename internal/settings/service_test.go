package settings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/stockpos/pkg/dbtest"
	pkgerrors "github.com/angelmondragon/stockpos/pkg/errors"
	"github.com/angelmondragon/stockpos/pkg/logger"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	client := dbtest.Open(t)
	svc, err := NewService(NewRepository(client.DB()), client, logger.Nop())
	require.NoError(t, err)
	return svc
}

func TestGetAbsentKey(t *testing.T) {
	svc := newTestService(t)
	value, ok, err := svc.Get(context.Background(), "missing")
	require.NoError(t, err)
	require.False(t, ok)
	require.Empty(t, value)
}

func TestSetUpserts(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Set(ctx, "taxRate", "5"))
	require.NoError(t, svc.Set(ctx, "taxRate", "7.5"))

	value, ok, err := svc.Get(ctx, "taxRate")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "7.5", value)

	all, err := svc.All(ctx)
	require.NoError(t, err)
	require.Equal(t, map[string]string{"taxRate": "7.5"}, all)
}

func TestSetRequiresKey(t *testing.T) {
	svc := newTestService(t)
	err := svc.Set(context.Background(), "  ", "x")
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
}

func TestInitializeDefaultsKeepsExistingValues(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Set(ctx, KeyCompanyName, "Corner Shop"))

	added, err := svc.InitializeDefaults(ctx)
	require.NoError(t, err)
	require.Equal(t, len(Defaults())-1, added)

	all, err := svc.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, len(Defaults()))
	require.Equal(t, "Corner Shop", all[KeyCompanyName])
	require.Equal(t, "10", all[KeyTaxRate])
	require.Equal(t, "$", all[KeyCurrencySymbol])

	added, err = svc.InitializeDefaults(ctx)
	require.NoError(t, err)
	require.Zero(t, added)
}
