package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Total number of orders created",
	})

	OrdersFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_failed_total",
		Help: "Total number of failed order operations",
	}, []string{"reason"})

	OrdersDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_deleted_total",
		Help: "Total number of orders deleted",
	})

	OrderStatusChangesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "order_status_changes_total",
		Help: "Total number of order status transitions",
	}, []string{"status"})

	StockInsufficientTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stock_insufficient_total",
		Help: "Total number of order operations rejected for insufficient stock",
	})

	OrderCreateLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "order_create_latency_seconds",
		Help:    "Latency of order creation",
		Buckets: prometheus.DefBuckets,
	})

	EmailsSentTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "notification_emails_sent_total",
		Help: "Total number of status-change emails sent",
	})

	EmailsFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "notification_emails_failed_total",
		Help: "Total number of status-change emails that failed to send",
	})

	ProductCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "product_cache_hits_total",
		Help: "Total number of product reads served from Redis",
	})

	ProductCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "product_cache_misses_total",
		Help: "Total number of product reads that fell through to the database",
	})

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
