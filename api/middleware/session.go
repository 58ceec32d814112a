package middleware

import (
	"context"
	"net/http"
	"storefront_server/lib"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

type contextKey string

const SessionContextKey contextKey = "cart_session"

// SessionMiddleware makes sure every request carries an anonymous cart
// session. Missing or malformed cookies get a fresh session id.
func (mw *Middleware) SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := mw.cfg.Cart.SessionCookie

		sessionID, err := lib.GetCookieValue(name, r)
		if err == nil {
			if parsed, parseErr := uuid.Parse(sessionID); parseErr == nil {
				sessionID = parsed.String()
			} else {
				mw.logger.Debug("Replacing malformed cart session", gecho.Field("error", parseErr))
				sessionID = ""
			}
		} else {
			sessionID = ""
		}

		if sessionID == "" {
			sessionID = uuid.NewString()
		}

		// refresh the cookie on every request so it expires with the stored cart
		lib.SetCookie(name, sessionID, lib.CookieOptions{
			Domain:     mw.cfg.Server.CookieDomain,
			Production: mw.cfg.Server.IsProduction(),
			MaxAge:     mw.cfg.Cart.SessionTTL,
		}, w)

		ctx := context.WithValue(r.Context(), SessionContextKey, sessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SessionID returns the cart session attached by SessionMiddleware
func SessionID(r *http.Request) (string, error) {
	sessionID, ok := r.Context().Value(SessionContextKey).(string)
	if !ok || sessionID == "" {
		return "", lib.ErrInvalidSession
	}
	return sessionID, nil
}
