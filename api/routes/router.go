package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stocktrackhq/stocktrack-backend/api/controllers"
	"github.com/stocktrackhq/stocktrack-backend/api/middleware"
	"github.com/stocktrackhq/stocktrack-backend/internal/history"
	"github.com/stocktrackhq/stocktrack-backend/internal/inventory"
	"github.com/stocktrackhq/stocktrack-backend/internal/reports"
	"github.com/stocktrackhq/stocktrack-backend/pkg/config"
	"github.com/stocktrackhq/stocktrack-backend/pkg/db"
	"github.com/stocktrackhq/stocktrack-backend/pkg/logger"
	"github.com/stocktrackhq/stocktrack-backend/pkg/metrics"
	"github.com/stocktrackhq/stocktrack-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	registry *prometheus.Registry,
	httpMetrics *metrics.HTTPMetrics,
	inventoryService inventory.Service,
	historyService history.Service,
	reportsService reports.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
		middleware.Metrics(httpMetrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/items", func(r chi.Router) {
			r.Get("/", controllers.ListItems(inventoryService, logg))
			r.Post("/", controllers.CreateItem(inventoryService, logg))
			r.Get("/low-stock", controllers.LowStockItems(reportsService, logg))

			r.Route("/{itemId}", func(r chi.Router) {
				r.Get("/", controllers.GetItem(inventoryService, logg))
				r.Put("/", controllers.UpdateItem(inventoryService, logg))
				r.Delete("/", controllers.DeleteItem(inventoryService, logg))
				r.Post("/purchase", controllers.PurchaseItem(inventoryService, logg))
				r.Post("/restock", controllers.RestockItem(inventoryService, logg))
			})
		})

		r.Get("/ledger/recent", controllers.RecentLedger(reportsService, logg))
		r.Get("/dashboard/summary", controllers.DashboardSummary(reportsService, logg))

		r.Route("/analytics", func(r chi.Router) {
			r.Get("/metrics", controllers.ItemMetrics(historyService, logg))
			r.Get("/inventory-trend", controllers.InventoryTrend(historyService, logg))
			r.Get("/items/{itemId}/history", controllers.ItemHistory(historyService, logg))
		})
	})

	return r
}
