// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Cache lookup results.
const (
	CacheHit  = "hit"
	CacheMiss = "miss"
)

var (
	// Simulations counts simulation requests by strategy and outcome
	Simulations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payoff_simulations_total",
			Help: "Number of payoff simulations by strategy and status",
		},
		[]string{"strategy", "status"},
	)

	// SimulationDuration observes how long a comparison run takes
	SimulationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "payoff_simulation_duration_seconds",
			Help:    "Time spent computing a payoff comparison",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"strategy"},
	)

	// CacheLookups counts result cache hits and misses
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payoff_cache_lookups_total",
			Help: "Result cache lookups by result",
		},
		[]string{"result"},
	)

	// HTTPRequests counts handled HTTP requests
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by route, method and status code",
		},
		[]string{"route", "method", "code"},
	)
)
