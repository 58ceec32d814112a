package api

import (
	"storefront_server/api/carts"
	"storefront_server/api/debug"
	"storefront_server/api/health"

	"github.com/go-chi/chi/v5"
)

type routerManager struct {
	cartRoutes   *carts.CartRoutesManager
	healthRoutes *health.HealthRoutesManager
	debugRoutes  *debug.DebugRoutesManager
}

func NewRouterManager(
	cartRoutes *carts.CartRoutesManager,
	healthRoutes *health.HealthRoutesManager,
	debugRoutes *debug.DebugRoutesManager,
) *routerManager {
	return &routerManager{
		cartRoutes:   cartRoutes,
		healthRoutes: healthRoutes,
		debugRoutes:  debugRoutes,
	}
}

func (rm *routerManager) RegisterRoutes(r chi.Router) {
	rm.cartRoutes.RegisterRoutes(r)
	rm.healthRoutes.RegisterRoutes(r)
	rm.debugRoutes.RegisterRoutes(r)
}
