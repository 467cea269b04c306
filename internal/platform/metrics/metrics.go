// Package metrics holds the Prometheus metrics for the application.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all registered collectors. A single instance is created in
// main and injected into the components that record to it.
type Metrics struct {
	RequestDuration   *prometheus.HistogramVec
	CountriesServed   prometheus.Counter
	OverridesCreated  prometheus.Counter
	OverridesDeleted  prometheus.Counter
	RefreshesApplied  prometheus.Counter
	ChannelsDefaulted prometheus.Counter
	CacheHits         prometheus.Counter
	CacheMisses       prometheus.Counter
}

// New creates and registers all metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mandatemap_request_duration_seconds",
			Help:    "HTTP request latency by route and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
		CountriesServed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mandatemap_countries_served_total",
			Help: "Country list responses served.",
		}),
		OverridesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mandatemap_custom_links_created_total",
			Help: "Custom link overrides created or replaced.",
		}),
		OverridesDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mandatemap_custom_links_deleted_total",
			Help: "Custom link overrides deleted.",
		}),
		RefreshesApplied: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mandatemap_compliance_refreshes_total",
			Help: "Compliance refresh runs.",
		}),
		ChannelsDefaulted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mandatemap_channels_defaulted_total",
			Help: "Channels filled in by the default rule table.",
		}),
		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mandatemap_country_cache_hits_total",
			Help: "Merged country list cache hits.",
		}),
		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mandatemap_country_cache_misses_total",
			Help: "Merged country list cache misses.",
		}),
	}
}
