// AngelaMos | 2026
// metrics.go

package core

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lifelog_http_requests_total",
		Help: "HTTP requests by method, route pattern and status code",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "lifelog_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route pattern",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lifelog_redis_errors_total",
		Help: "Redis command errors by command name",
	}, []string{"command"})

	CacheResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lifelog_cache_results_total",
		Help: "Cache lookups by key family and result (hit, miss, error)",
	}, []string{"family", "result"})

	PaymentsReconciled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lifelog_payments_reconciled_total",
		Help: "Checkout sessions reconciled by source and outcome",
	}, []string{"source", "outcome"})
)
