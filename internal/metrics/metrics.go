// Package metrics holds the Prometheus collectors for the news reader.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// NewsFetchTotal counts provider fetches by provider and outcome (success, error, canceled).
	NewsFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "news_fetch_total",
			Help: "Total number of news provider fetches",
		},
		[]string{"provider", "outcome"},
	)

	NewsFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "news_fetch_duration_seconds",
			Help:    "News provider fetch duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"},
	)

	// ArticleLookupTotal counts detail lookups by source (cache, refetch) and result (found, not_found, error).
	ArticleLookupTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "article_lookup_total",
			Help: "Total number of single-article lookups",
		},
		[]string{"source", "result"},
	)

	// AuthAttemptsTotal counts auth form submissions by action and outcome.
	AuthAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_attempts_total",
			Help: "Total number of authentication form submissions",
		},
		[]string{"action", "outcome"},
	)

	SessionStreams = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "session_event_streams",
			Help: "Number of open session event streams",
		},
	)
)
