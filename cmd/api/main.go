package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/angelmondragon/stockpos/api"
	"github.com/angelmondragon/stockpos/api/routes"
	"github.com/angelmondragon/stockpos/internal/auth"
	"github.com/angelmondragon/stockpos/internal/inventory"
	"github.com/angelmondragon/stockpos/internal/orders"
	"github.com/angelmondragon/stockpos/internal/reports"
	"github.com/angelmondragon/stockpos/internal/settings"
	"github.com/angelmondragon/stockpos/internal/stockhistory"
	"github.com/angelmondragon/stockpos/internal/users"
	"github.com/angelmondragon/stockpos/pkg/config"
	"github.com/angelmondragon/stockpos/pkg/db"
	"github.com/angelmondragon/stockpos/pkg/logger"
	"github.com/angelmondragon/stockpos/pkg/metrics"
	"github.com/angelmondragon/stockpos/pkg/migrate"
	"github.com/angelmondragon/stockpos/pkg/security"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "stockpos-api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "stockpos-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(context.Background(), "api stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(context.Background(), "api shut down gracefully")
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) (err error) {
	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, dbClient.Close())
	}()

	if err := migrate.MaybeRun(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	if cfg.JWT.Secret == "" {
		secret, err := security.RandomSecret(32)
		if err != nil {
			return err
		}
		cfg.JWT.Secret = secret
		logg.Warn(ctx, "STOCKPOS_JWT_SECRET unset, using a per-process secret")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	sales := metrics.NewSalesMetrics(reg)

	itemRepo := inventory.NewRepository(dbClient.DB())
	historyRepo := stockhistory.NewRepository(dbClient.DB())

	inventoryService, err := inventory.NewService(itemRepo, historyRepo, dbClient, sales, logg, inventory.Config{
		LowStockThreshold: cfg.Inventory.LowStockThreshold,
		DefaultMinStock:   cfg.Inventory.DefaultMinStock,
	})
	if err != nil {
		return err
	}

	historyService, err := stockhistory.NewService(historyRepo, itemRepo, sales, logg)
	if err != nil {
		return err
	}

	ordersService, err := orders.NewService(orders.NewRepository(dbClient.DB()), inventoryService, dbClient, sales, logg)
	if err != nil {
		return err
	}

	settingsService, err := settings.NewService(settings.NewRepository(dbClient.DB()), dbClient, logg)
	if err != nil {
		return err
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       users.NewRepository(dbClient.DB()),
		PasswordConfig: cfg.Password,
		JWTConfig:      cfg.JWT,
		AuthConfig:     cfg.Auth,
		Logger:         logg,
	})
	if err != nil {
		return err
	}

	reportsService, err := reports.NewService(reports.NewRepository(dbClient.DB()), ordersService, cfg.Inventory.LowStockThreshold, nil)
	if err != nil {
		return err
	}

	if err := bootstrap(ctx, cfg, logg, settingsService, authService, inventoryService); err != nil {
		return err
	}

	handler := routes.NewRouter(
		cfg,
		logg,
		dbClient,
		reg,
		authService,
		inventoryService,
		historyService,
		ordersService,
		settingsService,
		reportsService,
	)

	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": cfg.App.ListenAddr,
	})
	logg.Info(ctx, "starting api server")

	return api.NewServer(cfg, handler, logg).Run(ctx)
}

// bootstrap seeds the default settings, the administrator account and, when
// enabled, the sample catalog on an empty store.
func bootstrap(
	ctx context.Context,
	cfg *config.Config,
	logg *logger.Logger,
	settingsService settings.Service,
	authService auth.Service,
	inventoryService inventory.Service,
) error {
	added, err := settingsService.InitializeDefaults(ctx)
	if err != nil {
		return err
	}

	created, err := authService.InitializeDefaultUser(ctx)
	if err != nil {
		return err
	}

	seeded := 0
	if cfg.Inventory.SeedSampleItems {
		if seeded, err = inventoryService.SeedSampleItems(ctx); err != nil {
			return err
		}
	}

	logg.Info(logg.WithFields(ctx, map[string]any{
		"settings_added": added,
		"admin_created":  created,
		"items_seeded":   seeded,
	}), "store bootstrapped")
	return nil
}
