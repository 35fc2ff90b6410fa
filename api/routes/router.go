package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/bouquet-backend/api/controllers"
	"github.com/angelmondragon/bouquet-backend/api/middleware"
	"github.com/angelmondragon/bouquet-backend/internal/catalog"
	"github.com/angelmondragon/bouquet-backend/internal/composer"
	"github.com/angelmondragon/bouquet-backend/internal/orders"
	"github.com/angelmondragon/bouquet-backend/pkg/config"
	"github.com/angelmondragon/bouquet-backend/pkg/enums"
	"github.com/angelmondragon/bouquet-backend/pkg/logger"
	"github.com/angelmondragon/bouquet-backend/pkg/metrics"
)

// Deps carries everything the router hands to controllers.
type Deps struct {
	Config        *config.Config
	Logger        *logger.Logger
	Catalog       catalog.Service
	Composer      composer.Service
	Orders        orders.Service
	Visualization controllers.Renderer
	Idempotency   middleware.IdempotencyStore
	// Ready lists dependencies checked by /health/ready.
	Ready    map[string]controllers.Pinger
	Gatherer prometheus.Gatherer
	HTTP     *metrics.HTTPMetrics
}

func NewRouter(deps Deps) http.Handler {
	cfg, logg := deps.Config, deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.RequestID(logg),
		middleware.Recoverer(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTP),
		middleware.CORS(cfg.App.CORSAllowedOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Ready))
	})

	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/flowers", controllers.CatalogList(deps.Catalog, enums.ProductCategoryFlower, logg))
		r.Get("/foliage", controllers.CatalogList(deps.Catalog, enums.ProductCategoryFoliage, logg))
		r.Get("/papers", controllers.CatalogList(deps.Catalog, enums.ProductCategoryPaper, logg))
		r.Get("/ribbons", controllers.CatalogList(deps.Catalog, enums.ProductCategoryRibbon, logg))

		r.Post("/visualization", controllers.Visualize(deps.Composer, deps.Visualization, logg))

		r.Route("/orders", func(r chi.Router) {
			r.With(middleware.Idempotency(deps.Idempotency, cfg.App.IdempotencyTTL, logg)).
				Post("/", controllers.PlaceOrder(deps.Composer, logg))
			r.Get("/", controllers.OrderHistory(deps.Orders, logg))
			r.Get("/{orderNumber}", controllers.OrderDetail(deps.Orders, logg))
		})
	})

	return r
}
