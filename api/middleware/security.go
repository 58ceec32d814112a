package middleware

import (
	"net/http"
	"slices"

	"github.com/MonkyMars/gecho"
)

func (mw *Middleware) SecurityHeaders() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
			w.Header().Set("Content-Security-Policy", "default-src 'none'")
			w.Header().Set("Cache-Control", "no-store")

			next.ServeHTTP(w, r)
		})
	}
}

func (mw *Middleware) BodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// OriginGuard rejects state-changing requests sent from an origin outside the
// CORS allow list. The session cookie is SameSite=None in production, so this
// is what keeps other sites from editing a shopper's cart.
func (mw *Middleware) OriginGuard() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}

			origin := r.Header.Get("Origin")
			if origin == "" || slices.Contains(mw.cfg.Cors.AllowedOrigins, "*") || slices.Contains(mw.cfg.Cors.AllowedOrigins, origin) {
				next.ServeHTTP(w, r)
				return
			}

			mw.logger.Warn("Rejected cross-origin cart mutation",
				gecho.Field("origin", origin),
				gecho.Field("path", r.URL.Path),
			)
			gecho.Forbidden(w, gecho.WithMessage("error.request.originNotAllowed"), gecho.Send())
		})
	}
}
