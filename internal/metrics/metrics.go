// ABOUTME: Prometheus collectors for MCP calls, HTTP requests, store queries, and faults.
// ABOUTME: Helpers time an operation and record its outcome in one call.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Counts MCP method calls per endpoint (tools/call, resources/read, ...).
	MCPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sfm_mcp_requests_total",
			Help: "Total number of MCP requests handled (by endpoint, method and result).",
		},
		[]string{"endpoint", "method", "result"}, // result = "ok" | "error"
	)

	MCPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sfm_mcp_request_duration_seconds",
			Help:    "Duration of MCP requests in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
		},
		[]string{"endpoint", "method"},
	)

	// Counts HTTP responses by route pattern and status code.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sfm_http_requests_total",
			Help: "Total number of HTTP requests served.",
		},
		[]string{"route", "code"},
	)

	StoreQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sfm_store_query_duration_seconds",
			Help:    "Duration of store queries in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
		},
		[]string{"table", "op"},
	)

	StoreErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sfm_store_errors_total",
			Help: "Count of failed store queries.",
		},
		[]string{"table", "op"},
	)

	// Faults rendered as 500 envelopes by the error translator.
	FaultsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sfm_faults_total",
			Help: "Count of unhandled faults converted to error responses.",
		},
		[]string{"kind"}, // kind = "error" | "panic"
	)
)

// ObserveQuery records the duration of a store query and counts failures.
func ObserveQuery(table, op string, start time.Time, err error) {
	StoreQueryDuration.WithLabelValues(table, op).Observe(time.Since(start).Seconds())
	if err != nil {
		StoreErrorsTotal.WithLabelValues(table, op).Inc()
	}
}

// ObserveMCP records one MCP request.
func ObserveMCP(endpoint, method string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	MCPRequestsTotal.WithLabelValues(endpoint, method, result).Inc()
	MCPRequestDuration.WithLabelValues(endpoint, method).Observe(time.Since(start).Seconds())
}
