package debug

import (
	"storefront_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type DebugRoutesManager struct {
	logger       *gecho.Logger
	cacheService *services.CacheService
	production   bool
}

func NewDebugRoutesManager(logger *gecho.Logger, cacheService *services.CacheService, production bool) *DebugRoutesManager {
	return &DebugRoutesManager{
		logger:       logger,
		cacheService: cacheService,
		production:   production,
	}
}

func (drm *DebugRoutesManager) RegisterRoutes(r chi.Router) {
	// Debug routes - only in non-production environments
	if drm.production {
		return
	}
	r.Route("/debug", func(r chi.Router) {
		r.Post("/cache/products/clear", drm.ClearProductCache)
		r.Delete("/cache/products/{id}", drm.InvalidateProduct)
		r.Get("/cache/stats", drm.CacheStats)
		r.Get("/ratelimit", drm.RateLimitStatus)
	})
}
