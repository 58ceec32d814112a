package debug

import (
	"net"
	"net/http"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

func (drm *DebugRoutesManager) ClearProductCache(w http.ResponseWriter, r *http.Request) {
	if err := drm.cacheService.InvalidateAllProducts(); err != nil {
		gecho.InternalServerError(w,
			gecho.WithMessage("error.cache.clearFailed"),
			gecho.Send(),
		)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.cache.cleared"),
		gecho.Send(),
	)
}

func (drm *DebugRoutesManager) InvalidateProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := drm.cacheService.InvalidateProduct(id); err != nil {
		gecho.InternalServerError(w,
			gecho.WithMessage("error.cache.invalidateFailed"),
			gecho.Send(),
		)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.cache.invalidated"),
		gecho.WithData(map[string]string{"id": id}),
		gecho.Send(),
	)
}

func (drm *DebugRoutesManager) CacheStats(w http.ResponseWriter, r *http.Request) {
	gecho.Success(w,
		gecho.WithData(drm.cacheService.GetConnectionStats()),
		gecho.Send(),
	)
}

// RateLimitStatus reports the caller's counters for both buckets
func (drm *DebugRoutesManager) RateLimitStatus(w http.ResponseWriter, r *http.Request) {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}

	status := make(map[string]any, 2)
	for _, bucket := range []string{"cart:read", "cart:mutation"} {
		counters, err := drm.cacheService.GetRateLimitStatus(ip, bucket)
		if err != nil {
			drm.logger.Warn("Failed to read rate limit status", gecho.Field("error", err), gecho.Field("bucket", bucket))
			gecho.InternalServerError(w,
				gecho.WithMessage("error.cache.readFailed"),
				gecho.Send(),
			)
			return
		}
		status[bucket] = counters
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"ip":      ip,
			"buckets": status,
		}),
		gecho.Send(),
	)
}
