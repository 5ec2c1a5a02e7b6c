package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/stockpos/api/controllers"
	ordercontrollers "github.com/angelmondragon/stockpos/api/controllers/orders"
	"github.com/angelmondragon/stockpos/api/middleware"
	"github.com/angelmondragon/stockpos/internal/auth"
	"github.com/angelmondragon/stockpos/internal/inventory"
	"github.com/angelmondragon/stockpos/internal/orders"
	"github.com/angelmondragon/stockpos/internal/reports"
	"github.com/angelmondragon/stockpos/internal/settings"
	"github.com/angelmondragon/stockpos/internal/stockhistory"
	"github.com/angelmondragon/stockpos/pkg/config"
	"github.com/angelmondragon/stockpos/pkg/db"
	"github.com/angelmondragon/stockpos/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	gatherer prometheus.Gatherer,
	authService auth.Service,
	inventoryService inventory.Service,
	historyService stockhistory.Service,
	ordersService orders.Service,
	settingsService settings.Service,
	reportsService reports.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP))
	})

	if cfg.Metrics.Enabled && gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/setup/settings", controllers.SetupSettings(settingsService, logg))
		r.Post("/setup/user", controllers.SetupDefaultUser(authService, logg))
		r.Post("/auth/login", controllers.AuthLogin(authService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))

			r.Post("/auth/password", controllers.AuthUpdatePassword(authService, logg))
			r.Get("/dashboard", controllers.Dashboard(reportsService, logg))

			r.Route("/items", func(r chi.Router) {
				r.Get("/", controllers.ItemList(inventoryService, logg))
				r.Post("/", controllers.ItemCreate(inventoryService, logg))
				r.Get("/low-stock", controllers.ItemLowStock(inventoryService, logg))
				r.Get("/barcode/{barcode}", controllers.ItemByBarcode(inventoryService, logg))
				r.Get("/{itemId}", controllers.ItemGet(inventoryService, logg))
				r.Put("/{itemId}", controllers.ItemUpdate(inventoryService, logg))
				r.Delete("/{itemId}", controllers.ItemDelete(inventoryService, logg))
				r.Put("/{itemId}/stock", controllers.ItemSetStock(inventoryService, logg))
				r.Post("/{itemId}/adjust", controllers.ItemAdjustStock(inventoryService, logg))
			})

			r.Post("/stock/receive", controllers.StockReceive(inventoryService, logg))

			r.Route("/stock-history", func(r chi.Router) {
				r.Get("/", controllers.StockHistoryList(historyService, logg))
				r.Post("/", controllers.StockHistoryCreate(historyService, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", ordercontrollers.List(ordersService, logg))
				r.Post("/", ordercontrollers.Create(ordersService, logg))
				r.Get("/{orderId}", ordercontrollers.Detail(ordersService, logg))
			})

			r.Route("/settings", func(r chi.Router) {
				r.Get("/", controllers.SettingsAll(settingsService, logg))
				r.Get("/{key}", controllers.SettingGet(settingsService, logg))
				r.Put("/{key}", controllers.SettingPut(settingsService, logg))
			})
		})
	})

	return r
}
