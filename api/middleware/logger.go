package middleware

import (
	"net/http"
	"time"

	"github.com/MonkyMars/gecho"
	chiware "github.com/go-chi/chi/v5/middleware"
)

// RequestLogger logs one line per request keyed by chi route, so cart item
// ids stay out of the message. Successful calls log at debug, client errors
// at warn and server errors at error.
func (mw *Middleware) RequestLogger() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chiware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := responseStatus(ww)

			args := []any{
				"HTTP request",
				gecho.Field("method", r.Method),
				gecho.Field("route", routePattern(r)),
				gecho.Field("status", status),
				gecho.Field("bytes", ww.BytesWritten()),
				gecho.Field("duration_ms", time.Since(start).Milliseconds()),
				gecho.Field("request_id", chiware.GetReqID(r.Context())),
				gecho.Field("ip", clientIP(r)),
			}

			switch {
			case status >= http.StatusInternalServerError:
				mw.logger.Error(args...)
			case status >= http.StatusBadRequest:
				mw.logger.Warn(args...)
			default:
				mw.logger.Debug(args...)
			}
		})
	}
}
