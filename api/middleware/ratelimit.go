package middleware

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/MonkyMars/gecho"
)

// limitForRequest picks the mutation budget for state-changing cart calls and
// the general one for everything else
func (mw *Middleware) limitForRequest(r *http.Request) (int, time.Duration, string) {
	switch r.Method {
	case http.MethodPost, http.MethodPatch, http.MethodPut, http.MethodDelete:
		return mw.cfg.RateLimit.MutationLimit, mw.cfg.RateLimit.MutationWindow, "cart:mutation"
	default:
		return mw.cfg.RateLimit.GeneralLimit, mw.cfg.RateLimit.GeneralWindow, "cart:read"
	}
}

// clientIP reads the address set by chi's RealIP middleware
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimitMiddleware counts requests per client in Redis. Cache failures
// let the request through.
func (mw *Middleware) RateLimitMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !mw.cfg.RateLimit.Enabled || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			ip := clientIP(r)
			limit, window, bucket := mw.limitForRequest(r)

			count, err := mw.cacheService.IncrementRateLimit(ip, bucket, window)
			if err != nil {
				mw.logger.Warn("Rate limit cache error, allowing request",
					gecho.Field("error", err),
					gecho.Field("ip", ip),
					gecho.Field("bucket", bucket),
				)
				next.ServeHTTP(w, r)
				return
			}

			remaining := max(0, limit-count)
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(window).Unix(), 10))

			if count > limit {
				mw.logger.Warn("Rate limit exceeded",
					gecho.Field("ip", ip),
					gecho.Field("bucket", bucket),
					gecho.Field("count", count),
					gecho.Field("limit", limit),
				)

				w.Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
				gecho.TooManyRequests(w,
					gecho.WithMessage("error.rateLimitExceeded"),
					gecho.WithData(map[string]any{
						"limit":               limit,
						"window":              window.String(),
						"retry_after_seconds": int(window.Seconds()),
					}),
					gecho.Send(),
				)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
