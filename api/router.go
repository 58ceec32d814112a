package api

import (
	"net/http"
	"storefront_server/api/carts"
	"storefront_server/api/debug"
	"storefront_server/api/health"
	"storefront_server/api/middleware"
	"storefront_server/config"
	"storefront_server/services"
	"storefront_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	chiware "github.com/go-chi/chi/v5/middleware"
)

func App() chi.Router {
	cfg := config.GetConfig()
	standardLogger := config.NewLogger(true)

	return NewRouter(cfg, services.NewServiceManager(standardLogger, cfg))
}

// NewRouter wires the HTTP surface around an existing set of services
func NewRouter(cfg *structs.Config, sm *services.ServiceManager) chi.Router {
	r := chi.NewRouter()

	// create loggers
	logLevel := gecho.ParseLogLevel("debug")
	if cfg.Server.IsProduction() {
		logLevel = gecho.ParseLogLevel("info")
	}
	mwLogger := gecho.NewLogger(gecho.NewConfig(gecho.WithShowCaller(false), gecho.WithLogLevel(logLevel)))
	standardLogger := gecho.NewLogger(gecho.NewConfig(gecho.WithShowCaller(true), gecho.WithLogLevel(logLevel)))

	// Initialize middleware
	mw := middleware.NewMiddleware(cfg, mwLogger, sm.CacheService)

	// Core infra
	r.Use(chiware.RequestID)
	r.Use(chiware.RealIP)
	r.Use(chiware.Recoverer)

	// Limits & security
	r.Use(mw.BodyLimit(64 * 1024))
	r.Use(mw.SecurityHeaders())

	// Observability
	r.Use(mw.RequestLogger())
	r.Use(middleware.MetricsMiddleware)

	// CORS (must be before the session cookie is issued)
	r.Use(mw.SetupCORS().Handler)

	// Register all routes
	NewRouterManager(
		carts.NewCartRoutesManager(standardLogger, sm.CartService, mw),
		health.NewHealthRoutesManager(sm.HealthService),
		debug.NewDebugRoutesManager(standardLogger, sm.CacheService, cfg.Server.IsProduction()),
	).RegisterRoutes(r)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		gecho.Success(w,
			gecho.WithMessage("Welcome to the "+cfg.Server.AppName+" cart API"),
			gecho.Send(),
		)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		gecho.NotFound(w,
			gecho.Send(),
		)
	})

	return r
}
