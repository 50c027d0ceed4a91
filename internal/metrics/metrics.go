// Package metrics defines the Prometheus collectors shared by every service.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "arena"

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		},
		[]string{"service", "path", "method", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "path", "method"},
	)

	BattlesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "battles_total",
			Help:      "Battles simulated and persisted.",
		},
	)

	// SummonsTotal is labelled by result: success, create_failed,
	// attach_failed or catalog_empty.
	SummonsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "summons_total",
			Help:      "Summon attempts by result.",
		},
		[]string{"result"},
	)

	PartialSuccessTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "partial_success_total",
			Help:      "Saga steps that failed after an earlier step committed.",
		},
		[]string{"service", "kind"},
	)

	OutboxPending = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "outbox",
			Name:      "pending",
			Help:      "Pending operations still eligible for a retry.",
		},
		[]string{"service"},
	)

	OutboxProcessedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "outbox",
			Name:      "processed_total",
			Help:      "Pending operations retried, by kind and result.",
		},
		[]string{"service", "kind", "result"},
	)
)

// InitMetrics registers every collector. Call it once per process.
func InitMetrics(registerer prometheus.Registerer) {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	registerer.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		BattlesTotal,
		SummonsTotal,
		PartialSuccessTotal,
		OutboxPending,
		OutboxProcessedTotal,
	)
}

// Middleware records request count and latency labelled by route template.
func Middleware(service string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = "unknown"
		}

		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		HTTPRequestsTotal.WithLabelValues(service, path, c.Request.Method, status).Inc()
		HTTPRequestDuration.WithLabelValues(service, path, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}
