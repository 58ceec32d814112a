package services

import (
	"net/http"
	"net/http/httptest"
	"storefront_server/structs"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func testConfig(catalogURL string) *structs.Config {
	return &structs.Config{
		Server: &structs.ServerConfig{AppName: "Storefront", Environment: "test"},
		Cors:   &structs.CorsConfig{},
		Cache:  &structs.CacheConfig{ProductTTL: time.Minute},
		Cart: &structs.CartConfig{
			SessionCookie: "cart_session",
			SessionTTL:    time.Hour,
			StaleAfter:    24 * time.Hour,
		},
		Catalog: &structs.CatalogConfig{
			BaseURL:    catalogURL,
			Timeout:    time.Second,
			MaxRetries: 1,
		},
		RateLimit: &structs.RateLimitConfig{},
	}
}

func newTestCache(t *testing.T, cfg *structs.Config) (*CacheService, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewCacheServiceWithClient(gecho.NewDefaultLogger(), cfg, client), mr
}

const roseJSON = `{
	"id": "rose",
	"name": "Rose bouquet",
	"images": ["rose.jpg"],
	"price": "12.50",
	"currency": "EUR",
	"category": "flowers",
	"attributes": [
		{"id": "size", "name": "Size", "variants": [
			{"id": "s", "value": "Small"},
			{"id": "l", "value": "Large", "price": 5, "sku": "ROSE-L"}
		]}
	],
	"store": {"id": "bloom", "name": "Bloom", "phones": ["+31612345678"]}
}`

// fakeCatalog serves roseJSON under /products/rose, 404 elsewhere, and counts hits
type fakeCatalog struct {
	server *httptest.Server
	hits   atomic.Int32
	status atomic.Int32 // forced status when non-zero
}

func newFakeCatalog(t *testing.T, enveloped bool) *fakeCatalog {
	t.Helper()

	fc := &fakeCatalog{}
	fc.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fc.hits.Add(1)

		if status := fc.status.Load(); status != 0 {
			w.WriteHeader(int(status))
			return
		}
		if r.URL.Path != "/products/rose" {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if enveloped {
			_, _ = w.Write([]byte(`{"success":true,"message":"ok","data":` + roseJSON + `}`))
			return
		}
		_, _ = w.Write([]byte(roseJSON))
	}))
	t.Cleanup(fc.server.Close)

	return fc
}
