package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, ":8082", cfg.Server.Port)
	assert.Equal(t, "cart_session", cfg.Cart.SessionCookie)
	assert.Equal(t, 24*time.Hour, cfg.Cart.StaleAfter)
	assert.Equal(t, 500*time.Millisecond, cfg.Cart.SettleDelay)
	assert.Equal(t, 5*time.Minute, cfg.Cache.ProductTTL)
	assert.True(t, cfg.RateLimit.Enabled)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("CART_STALE_AFTER", "36h")
	t.Setenv("CART_SESSION_TTL", "3600")
	t.Setenv("CATALOG_BASE_URL", "https://api.example.com")
	t.Setenv("CORS_ALLOW_ORIGINS", " https://shop.example.com , ,https://www.example.com")
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg := Load()

	assert.Equal(t, "production", cfg.Server.Environment)
	assert.Equal(t, 36*time.Hour, cfg.Cart.StaleAfter)
	assert.Equal(t, time.Hour, cfg.Cart.SessionTTL, "bare numbers are seconds")
	assert.Equal(t, "https://api.example.com", cfg.Catalog.BaseURL)
	assert.Equal(t, []string{"https://shop.example.com", "https://www.example.com"}, cfg.Cors.AllowedOrigins)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 0, cfg.Cache.DB, "unparsable values fall back")
}

func TestGetEnvAsTimeDuration_InvalidFallsBack(t *testing.T) {
	t.Setenv("SOME_DURATION", "soon")
	assert.Equal(t, time.Minute, getEnvAsTimeDuration("SOME_DURATION", time.Minute))
}
