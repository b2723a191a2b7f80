// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests by route, method and status",
		},
		[]string{"route", "method", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP request handling in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	OpportunityQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "opportunity_queries_total",
			Help: "Opportunity list queries by sort key and whether any filter applied",
		},
		[]string{"sort_by", "filtered"},
	)

	OpportunityFilterRejections = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "opportunity_filter_rejections_total",
			Help: "Filter sets discarded because they could not be parsed",
		},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_lookups_total",
			Help: "Opportunity cache lookups by result (hit, miss, error)",
		},
		[]string{"result"},
	)

	SearchRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_requests_total",
			Help: "Search index calls by outcome (ok, error, rejected)",
		},
		[]string{"outcome"},
	)
)
