package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal tracks API requests by route and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledgerd_http_requests_total",
			Help: "The total number of HTTP requests handled",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration tracks API request latency per route
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ledgerd_http_request_duration_seconds",
			Help:    "Time taken to handle HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	// LedgerAppends tracks transaction record appends by outcome
	LedgerAppends = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledgerd_ledger_appends_total",
			Help: "The total number of transaction append attempts",
		},
		[]string{"status"}, // success, rejected, failed
	)

	// DatabaseOperations tracks database operations
	DatabaseOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledgerd_database_operations_total",
			Help: "The total number of database operations",
		},
		[]string{"operation", "status"}, // insert/select, success/failed
	)

	// CacheRequests tracks response cache lookups
	CacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledgerd_cache_requests_total",
			Help: "The total number of response cache lookups",
		},
		[]string{"result"}, // hit, miss, error
	)
)

// RecordHTTPRequest records a handled HTTP request
func RecordHTTPRequest(method, route, status string) {
	HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
}

// RecordHTTPRequestDuration records the time taken to handle a request
func RecordHTTPRequestDuration(route string, duration float64) {
	HTTPRequestDuration.WithLabelValues(route).Observe(duration)
}

// RecordLedgerAppend records an append attempt with the given outcome
func RecordLedgerAppend(status string) {
	LedgerAppends.WithLabelValues(status).Inc()
}

// RecordDatabaseOperation records a database operation
func RecordDatabaseOperation(operation, status string) {
	DatabaseOperations.WithLabelValues(operation, status).Inc()
}

// RecordCacheRequest records a response cache lookup result
func RecordCacheRequest(result string) {
	CacheRequests.WithLabelValues(result).Inc()
}
