package lib

import (
	"net/http"
	"time"
)

// CookieOptions controls where a cookie is valid
type CookieOptions struct {
	Domain     string
	Production bool
	MaxAge     time.Duration
}

// SetCookie sets an HttpOnly cookie. In production the cookie is sent
// cross-subdomain (www <-> api), which requires SameSite=None and Secure.
func SetCookie(key, val string, opts CookieOptions, w http.ResponseWriter) {
	sameSite := http.SameSiteLaxMode
	secure := false
	domain := ""

	if opts.Production {
		sameSite = http.SameSiteNoneMode
		secure = true
		domain = opts.Domain
	}

	cookie := &http.Cookie{
		Name:     key,
		Value:    val,
		Path:     "/",
		Domain:   domain,
		Secure:   secure,
		SameSite: sameSite,
		HttpOnly: true,
	}
	if opts.MaxAge > 0 {
		cookie.Expires = time.Now().Add(opts.MaxAge)
		cookie.MaxAge = int(opts.MaxAge.Seconds())
	}

	http.SetCookie(w, cookie)
}

func GetCookieValue(key string, r *http.Request) (string, error) {
	cookie, err := r.Cookie(key)
	if err != nil {
		return "", err
	}
	return cookie.Value, nil
}
