package structs

import "time"

type Config struct {
	Server    *ServerConfig
	Cors      *CorsConfig
	Cache     *CacheConfig
	Cart      *CartConfig
	Catalog   *CatalogConfig
	RateLimit *RateLimitConfig
}

type ServerConfig struct {
	AppName        string        // Storefront
	Environment    string        // development, production
	Port           string        // :8082
	CookieDomain   string        // .example.com in production, empty locally
	ReadTimeout    time.Duration // in seconds
	WriteTimeout   time.Duration // in seconds
	IdleTimeout    time.Duration // in seconds
	MaxHeaderBytes int           // in bytes
}

func (s *ServerConfig) IsProduction() bool {
	return s.Environment == "production"
}

type CorsConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int // in seconds
}

type CacheConfig struct {
	Address         string
	Username        string
	Password        string
	DB              int
	PoolSize        int
	MinIdleConns    int
	MaxIdleConns    int
	PoolTimeout     time.Duration
	IdleTimeout     time.Duration
	DialTimeout     time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	MaxRetries      int
	MinRetryBackoff time.Duration
	MaxRetryBackoff time.Duration
	ProductTTL      time.Duration // how long catalog products stay cached
}

type CartConfig struct {
	SessionCookie string        // name of the anonymous session cookie
	SessionTTL    time.Duration // lifetime of the session cookie and its stored cart
	StaleAfter    time.Duration // age after which a restored cart is offered for clearing
	SettleDelay   time.Duration // delay before the staleness check runs on mount
}

type CatalogConfig struct {
	BaseURL    string        // remote storefront API, e.g. https://api.example.com
	Timeout    time.Duration // per request
	MaxRetries int
}

type RateLimitConfig struct {
	Enabled        bool
	GeneralLimit   int
	GeneralWindow  time.Duration
	MutationLimit  int
	MutationWindow time.Duration
}
