package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brewjournal_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "brewjournal_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	}, []string{"method", "path"})

	RateLimitedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brewjournal_rate_limited_total",
		Help: "Total number of requests rejected by a rate limiter",
	}, []string{"limiter"})
)

// Store metrics
var (
	StoreOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brewjournal_store_operations_total",
		Help: "Total number of record store operations",
	}, []string{"collection", "operation", "result"})

	StoreOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "brewjournal_store_operation_duration_seconds",
		Help:    "Record store operation duration in seconds",
		Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1},
	}, []string{"collection", "operation"})
)

// Autofill metrics
var (
	AutofillLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brewjournal_autofill_lookups_total",
		Help: "Total number of bean detail lookups against the model",
	}, []string{"result"})

	AutofillCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "brewjournal_autofill_cache_hits_total",
		Help: "Total number of autofill cache hits",
	})

	AutofillCacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "brewjournal_autofill_cache_misses_total",
		Help: "Total number of autofill cache misses",
	})
)

// Event hub metrics
var (
	EventsPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brewjournal_events_published_total",
		Help: "Total number of change events published",
	}, []string{"type"})

	EventsDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "brewjournal_events_dropped_total",
		Help: "Total number of events dropped for slow subscribers",
	})

	EventSubscribers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "brewjournal_event_subscribers",
		Help: "Number of connected event subscribers",
	})
)

// Business metrics (gauges updated periodically by collector)
var (
	BeansByStatus = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "brewjournal_beans",
		Help: "Number of beans in the inventory by status",
	}, []string{"status"})

	BrewsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "brewjournal_brews",
		Help: "Number of logged brews",
	})

	PresetsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "brewjournal_presets",
		Help: "Number of saved presets",
	})

	CafeLogsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "brewjournal_cafe_logs",
		Help: "Number of recorded cafe visits",
	})

	BrewSpend = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "brewjournal_brew_spend",
		Help: "Sum of calculated brew costs",
	})

	CafeSpend = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "brewjournal_cafe_spend",
		Help: "Sum of cafe visit prices",
	})
)

// Event counters (incremented on occurrence)
var (
	BeansAddedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "brewjournal_beans_added_total",
		Help: "Total number of beans added to the inventory",
	})

	BeanStatusChangesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brewjournal_bean_status_changes_total",
		Help: "Total number of bean archive and reactivate operations",
	}, []string{"status"})

	BrewsLoggedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "brewjournal_brews_logged_total",
		Help: "Total number of brews logged",
	})

	PresetOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brewjournal_preset_operations_total",
		Help: "Total number of preset operations",
	}, []string{"operation"})

	CafeVisitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "brewjournal_cafe_visits_total",
		Help: "Total number of cafe visits logged",
	})

	DeletionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brewjournal_deletions_total",
		Help: "Total number of deleted records",
	}, []string{"collection"})
)

// NormalizePath reduces high-cardinality path labels by replacing dynamic
// segments with placeholders. This keeps the metric label space bounded.
func NormalizePath(path string) string {
	// Routes like /api/beans/{id}, /api/beans/{id}/status, /api/presets/{id}/apply,
	// /api/suggestions/{kind}
	segments := splitPath(path)
	if len(segments) < 3 || segments[0] != "api" {
		return path
	}

	switch segments[1] {
	case "beans":
		if len(segments) == 3 {
			return "/api/beans/:id"
		}
		if len(segments) == 4 && segments[3] == "status" {
			return "/api/beans/:id/status"
		}
	case "brews":
		if len(segments) == 3 {
			return "/api/brews/:id"
		}
	case "presets":
		if len(segments) == 3 {
			if segments[2] == "import" {
				return path
			}
			return "/api/presets/:id"
		}
		if len(segments) == 4 && segments[3] == "apply" {
			return "/api/presets/:id/apply"
		}
	case "suggestions":
		if len(segments) == 3 {
			return "/api/suggestions/:kind"
		}
	case "cafe-logs":
		if len(segments) == 3 {
			if segments[2] == "grouped" {
				return path
			}
			return "/api/cafe-logs/:id"
		}
	}

	return path
}

func splitPath(path string) []string {
	// Skip leading slash
	if len(path) > 0 && path[0] == '/' {
		path = path[1:]
	}
	// Split on /
	var segments []string
	start := 0
	for i := 0; i < len(path); i++ {
		if path[i] == '/' {
			if i > start {
				segments = append(segments, path[start:i])
			}
			start = i + 1
		}
	}
	if start < len(path) {
		segments = append(segments, path[start:])
	}
	return segments
}
