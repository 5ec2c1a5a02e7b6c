package migrate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/stockpos/pkg/db"
)

func init() {
	goose.SetLogger(goose.NopLogger())
}

func TestSchemaMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_inventory_schema.sql"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS items",
		"barcode TEXT UNIQUE",
		"CHECK (quantity >= 0)",
		"order_number TEXT NOT NULL UNIQUE",
		"FOREIGN KEY (item_id) REFERENCES items (id)",
		"CHECK (type IN ('in', 'out'))",
		"key TEXT NOT NULL UNIQUE",
		"email TEXT NOT NULL UNIQUE",
		"idx_items_barcode",
		"idx_items_name",
		"idx_orders_date",
		"idx_order_items_order",
		"idx_settings_key",
		"idx_stock_history_item_id",
		"idx_stock_history_created_at",
		"idx_stock_history_type",
		"DROP TABLE IF EXISTS items",
	}
	for _, sub := range checks {
		require.Truef(t, strings.Contains(content, sub), "missing expected statement %q", sub)
	}
}

func TestValidateEmbedded(t *testing.T) {
	require.NoError(t, ValidateEmbedded())
	require.NoError(t, ValidateDir("migrations"))
}

func TestValidateDirRejectsBadFiles(t *testing.T) {
	dir := t.TempDir()
	require.Error(t, ValidateDir(dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad-name.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644))
	require.ErrorContains(t, ValidateDir(dir), "invalid migration filename")

	dir = t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "20260101000000_pg.sql"), []byte("-- +goose Up\nSELECT gen_random_uuid();\n-- +goose Down\n"), 0o644))
	require.ErrorContains(t, ValidateDir(dir), "sqlite does not support")
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)

	path, err := createAt(dir, "Add Item Tags!", now)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "20261018093000_add_item_tags.sql"), path)
	require.NoError(t, ValidateDir(dir))

	_, err = createAt(dir, "Add Item Tags!", now)
	require.ErrorContains(t, err, "already exists")

	_, err = createAt(dir, "!!!", now)
	require.Error(t, err)
}

func TestUpAppliesSchemaAndMigrateToVersion(t *testing.T) {
	client, err := db.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	sqlDB, err := client.DB().DB()
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, Up(ctx, sqlDB))
	version, err := Version(ctx, sqlDB)
	require.NoError(t, err)
	require.EqualValues(t, 20261018000001, version)

	for _, table := range []string{"items", "orders", "order_items", "settings", "stock_history", "users"} {
		require.Truef(t, client.DB().Migrator().HasTable(table), "table %s missing", table)
	}

	require.NoError(t, MigrateToVersion(ctx, sqlDB, "", "0"))
	require.False(t, client.DB().Migrator().HasTable("items"))

	require.NoError(t, MigrateToVersion(ctx, sqlDB, "", "20261018000001"))
	require.True(t, client.DB().Migrator().HasTable("items"))

	require.Error(t, MigrateToVersion(ctx, sqlDB, "", "not-a-version"))
}
