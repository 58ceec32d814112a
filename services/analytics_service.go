package services

import (
	"storefront_server/cart"
	"storefront_server/structs"

	"github.com/MonkyMars/gecho"
)

// AnalyticsService records cart events as logs and Prometheus counters
type AnalyticsService struct {
	logger *gecho.Logger
}

var _ cart.Tracker = (*AnalyticsService)(nil)

func NewAnalyticsService(logger *gecho.Logger) *AnalyticsService {
	return &AnalyticsService{logger: logger}
}

func (as *AnalyticsService) TrackAddToCart(event structs.CartEvent) {
	as.logger.Debug("add_to_cart",
		gecho.Field("product_id", event.ProductID),
		gecho.Field("product_name", event.ProductName),
		gecho.Field("quantity", event.Quantity),
		gecho.Field("unit_price", event.UnitPrice),
		gecho.Field("currency", event.Currency),
		gecho.Field("store_id", event.StoreID),
	)

	CartItemsAdded.WithLabelValues(label(event.StoreID), label(event.Category)).Add(float64(event.Quantity))
	CartValueAdded.WithLabelValues(label(event.Currency)).Add(event.UnitPrice * float64(event.Quantity))
}

func (as *AnalyticsService) TrackRemoveFromCart(event structs.CartEvent) {
	as.logger.Debug("remove_from_cart",
		gecho.Field("product_id", event.ProductID),
		gecho.Field("product_name", event.ProductName),
		gecho.Field("quantity", event.Quantity),
		gecho.Field("unit_price", event.UnitPrice),
		gecho.Field("currency", event.Currency),
		gecho.Field("store_id", event.StoreID),
	)

	CartItemsRemoved.WithLabelValues(label(event.StoreID), label(event.Category)).Add(float64(event.Quantity))
}

// TrackStalePrompt counts how a stale cart prompt was resolved
func (as *AnalyticsService) TrackStalePrompt(outcome string) {
	as.logger.Debug("stale_cart_prompt", gecho.Field("outcome", outcome))
	StaleCartPrompts.WithLabelValues(outcome).Inc()
}

func label(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
