package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LoginsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_logins_total",
		Help: "Login attempts by result",
	}, []string{"result"})

	CartMutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_cart_mutations_total",
		Help: "Cart mutations by operation",
	}, []string{"op"})

	CartCommunitySwitchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_cart_community_switches_total",
		Help: "Carts cleared because items were added from another community",
	})

	OrdersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_orders_created_total",
		Help: "Total number of orders created",
	})

	OrdersRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_orders_rejected_total",
		Help: "Checkout attempts rejected by reason",
	}, []string{"reason"})

	OrderRevenueTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_order_revenue_total",
		Help: "Sum of order totals placed through checkout",
	})

	OrderStatusUpdatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_order_status_updates_total",
		Help: "Order status updates by target status and result",
	}, []string{"status", "result"})

	ProductMutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_product_mutations_total",
		Help: "Product catalog mutations by operation",
	}, []string{"op"})

	MalformedStoreValuesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_malformed_store_values_total",
		Help: "Stored values that failed to parse and were treated as absent",
	}, []string{"key"})

	StoreOpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "storefront_store_op_latency_seconds",
		Help:    "Latency of key-value store operations",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})

	EventsPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_events_published_total",
		Help: "Domain events published by type and result",
	}, []string{"type", "result"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
