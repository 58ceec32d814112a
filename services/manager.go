package services

import (
	"storefront_server/structs"

	"github.com/MonkyMars/gecho"
)

type ServiceManager struct {
	CacheService     *CacheService
	HealthService    *HealthService
	CatalogService   *CatalogService
	AnalyticsService *AnalyticsService
	CartService      *CartService
}

func NewServiceManager(logger *gecho.Logger, cfg *structs.Config) *ServiceManager {
	return NewServiceManagerWithCache(logger, cfg, NewCacheService(logger, cfg))
}

// NewServiceManagerWithCache wires every service around the given cache
func NewServiceManagerWithCache(logger *gecho.Logger, cfg *structs.Config, cacheService *CacheService) *ServiceManager {
	healthService := NewHealthService(logger, cacheService)
	catalogService := NewCatalogService(logger, cfg, cacheService)
	analyticsService := NewAnalyticsService(logger)
	cartService := NewCartService(logger, cfg, cacheService, catalogService, analyticsService)

	return &ServiceManager{
		CacheService:     cacheService,
		HealthService:    healthService,
		CatalogService:   catalogService,
		AnalyticsService: analyticsService,
		CartService:      cartService,
	}
}
