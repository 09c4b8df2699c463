// Package metrics exposes the Prometheus registry used by hn-reader.
// All metrics are defined in their respective packages (hn, loader, session, api)
// to maintain modularity and avoid circular dependencies.
//
// This package provides the scrape handler and a reference for all available metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the registerer all hn-reader metrics are added to via promauto.
var Registry = prometheus.DefaultRegisterer

// Gatherer is the gatherer scraped by Handler.
var Gatherer = prometheus.DefaultGatherer

// Handler returns the /metrics scrape handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(Gatherer, promhttp.HandlerOpts{})
}

// Metrics Documentation
//
// Request Metrics (pkg/hn):
//   - hn_requests_total{endpoint, status} (Counter): Requests by endpoint (topstories, item) and HTTP status
//   - hn_request_duration_seconds{endpoint} (Histogram): Request duration by endpoint
//   - hn_errors_total{endpoint, class} (Counter): Errors by class (client, server, network, decode, type)
//
// Loader Metrics (pkg/loader):
//   - hn_loader_batch_duration_seconds (Histogram): Time to fetch one batch of story details
//   - hn_loader_items_loaded_total (Counter): Stories kept
//   - hn_loader_items_dropped_total{class} (Counter): Items dropped by error class
//
// Session Metrics (pkg/session):
//   - hn_sessions_created_total{result} (Counter): Sessions created (ok, listing_error)
//   - hn_session_lookups_total{result} (Counter): Session lookups (hit, miss)
//   - hn_session_errors_total{operation} (Counter): Store operation errors
//
// HTTP Metrics (internal/api):
//   - hn_http_requests_total{route, status} (Counter): Requests served by route
//   - hn_http_request_duration_seconds{route} (Histogram): Handler latency by route
//
// Example Prometheus Queries:
//
//   # Item drop rate
//   sum(rate(hn_loader_items_dropped_total[5m])) /
//   (sum(rate(hn_loader_items_loaded_total[5m])) + sum(rate(hn_loader_items_dropped_total[5m])))
//
//   # Listing failures
//   rate(hn_sessions_created_total{result="listing_error"}[5m])
//
//   # P95 item latency
//   histogram_quantile(0.95, rate(hn_request_duration_seconds_bucket{endpoint="item"}[5m]))
