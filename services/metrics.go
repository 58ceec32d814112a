package services

import "github.com/prometheus/client_golang/prometheus"

var (
	CartItemsAdded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "cart",
			Name:      "items_added_total",
			Help:      "Units added to carts",
		},
		[]string{"store", "category"},
	)

	CartItemsRemoved = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "cart",
			Name:      "items_removed_total",
			Help:      "Units removed from carts",
		},
		[]string{"store", "category"},
	)

	CartValueAdded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "cart",
			Name:      "value_added_total",
			Help:      "Sum of unit price times quantity added to carts",
		},
		[]string{"currency"},
	)

	StaleCartPrompts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "cart",
			Name:      "stale_prompts_total",
			Help:      "Stale cart prompts by outcome",
		},
		[]string{"outcome"},
	)

	CatalogRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "catalog",
			Name:      "requests_total",
			Help:      "Product lookups by source",
		},
		[]string{"source"},
	)
)

// Collectors lists every metric owned by the service layer
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		CartItemsAdded,
		CartItemsRemoved,
		CartValueAdded,
		StaleCartPrompts,
		CatalogRequests,
	}
}
