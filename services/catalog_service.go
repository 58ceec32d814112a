package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"storefront_server/lib"
	"storefront_server/structs"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/cenkalti/backoff/v5"
	json "github.com/goccy/go-json"
)

const maxCatalogResponseBytes = 1 << 20

// CatalogService resolves products from the remote storefront API, reading
// through the product cache
type CatalogService struct {
	logger       *gecho.Logger
	config       *structs.Config
	client       *http.Client
	cacheService *CacheService
}

func NewCatalogService(logger *gecho.Logger, cfg *structs.Config, cacheService *CacheService) *CatalogService {
	timeout := 5 * time.Second
	if cfg.Catalog != nil && cfg.Catalog.Timeout > 0 {
		timeout = cfg.Catalog.Timeout
	}

	return &CatalogService{
		logger:       logger,
		config:       cfg,
		client:       &http.Client{Timeout: timeout},
		cacheService: cacheService,
	}
}

// catalogEnvelope matches the API's {"success", "message", "data"} responses
type catalogEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// GetProduct returns the product with the given id. lib.ErrNotFound means the
// catalog does not know it, lib.ErrCatalogUnavailable that it could not be reached.
func (cs *CatalogService) GetProduct(ctx context.Context, id string) (*structs.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, lib.ErrNotFound
	}

	if cs.cacheService != nil {
		cached, err := cs.cacheService.GetProduct(id)
		if err == nil && cached != nil {
			CatalogRequests.WithLabelValues("cache").Inc()
			return cached, nil
		}
	}

	product, err := cs.fetchWithRetry(ctx, id)
	if err != nil {
		return nil, err
	}
	CatalogRequests.WithLabelValues("remote").Inc()

	if cs.cacheService != nil {
		if err := cs.cacheService.SetProduct(product); err != nil {
			cs.logger.Warn("Failed to cache product", gecho.Field("id", id), gecho.Field("error", err))
		}
	}

	return product, nil
}

func (cs *CatalogService) fetchWithRetry(ctx context.Context, id string) (*structs.Product, error) {
	maxRetries := 2
	if cs.config.Catalog != nil && cs.config.Catalog.MaxRetries >= 0 {
		maxRetries = cs.config.Catalog.MaxRetries
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 200 * time.Millisecond
	policy.MaxInterval = 2 * time.Second

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		product, err := cs.fetch(ctx, id)
		if err == nil {
			return product, nil
		}
		if errors.Is(err, lib.ErrNotFound) || ctx.Err() != nil {
			return nil, err
		}
		lastErr = err

		cs.logger.Warn("Catalog request failed",
			gecho.Field("id", id),
			gecho.Field("attempt", attempt+1),
			gecho.Field("error", err),
		)

		if attempt == maxRetries {
			break
		}
		sleep := policy.NextBackOff()
		if sleep == backoff.Stop {
			break
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %w", lib.ErrCatalogUnavailable, ctx.Err())
		case <-time.After(sleep):
		}
	}

	CatalogRequests.WithLabelValues("failed").Inc()
	return nil, fmt.Errorf("%w: %w", lib.ErrCatalogUnavailable, lastErr)
}

func (cs *CatalogService) fetch(ctx context.Context, id string) (*structs.Product, error) {
	if cs.config.Catalog == nil || cs.config.Catalog.BaseURL == "" {
		return nil, errors.New("catalog base url not configured")
	}

	endpoint := strings.TrimRight(cs.config.Catalog.BaseURL, "/") + "/products/" + url.PathEscape(id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := cs.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxCatalogResponseBytes))
	if err != nil {
		return nil, err
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, lib.ErrNotFound
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("catalog responded with status %d", resp.StatusCode)
	}

	return decodeProduct(body)
}

// decodeProduct accepts either an enveloped or a bare product document
func decodeProduct(body []byte) (*structs.Product, error) {
	payload := body

	var envelope catalogEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Data) > 0 && string(envelope.Data) != "null" {
		payload = envelope.Data
	}

	var product structs.Product
	if err := json.Unmarshal(payload, &product); err != nil {
		return nil, fmt.Errorf("decode product: %w", err)
	}
	if product.ID == "" {
		return nil, lib.ErrNotFound
	}

	return &product, nil
}
