// Package metrics defines the Prometheus collectors shared across the
// service. Collectors are registered on the default registry via
// promauto, so importing a package that increments them is enough.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts handled HTTP requests by method, path and status.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "smartsplit_http_requests_total",
		Help: "HTTP requests handled, by method, route and status code.",
	}, []string{"method", "route", "status"})

	// HTTPDuration observes request latency by route.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "smartsplit_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	// CoercionFallbacks counts numeric fields that failed to parse and
	// fell back to their documented default. A rising rate usually means
	// the upstream extraction model changed its output shape.
	CoercionFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "smartsplit_coercion_fallbacks_total",
		Help: "Numeric coercions that returned the fallback value.",
	})

	// ItemsFiltered counts raw item records dropped by the normalizer's
	// noise filters, by reason ("metadata" or "no_signal").
	ItemsFiltered = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "smartsplit_items_filtered_total",
		Help: "Raw item records dropped during normalization, by reason.",
	}, []string{"reason"})

	// SplitsComputed counts computed splits by strategy.
	SplitsComputed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "smartsplit_splits_computed_total",
		Help: "Bill splits computed, by strategy.",
	}, []string{"strategy"})

	// SplitMismatches counts splits whose share sum missed the declared
	// total by more than the verification tolerance.
	SplitMismatches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "smartsplit_split_verification_mismatches_total",
		Help: "Computed splits that failed verification against the receipt total.",
	})
)
