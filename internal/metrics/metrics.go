// Package metrics exposes Prometheus instrumentation for the engine
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gridiron_edge"

var (
	// HTTPRequests counts API requests by route, method and status
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "API requests by route, method and status code.",
	}, []string{"route", "method", "status"})

	// HTTPDuration observes request latency per route
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "API request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})

	// TradeEvaluations counts trade analyses by verdict
	TradeEvaluations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "trade_evaluations_total",
		Help:      "Trade evaluations by recommendation.",
	}, []string{"recommendation"})

	// DraftRecommendations counts draft recommendation requests
	DraftRecommendations = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "draft_recommendations_total",
		Help:      "Draft recommendation requests served.",
	})

	// DraftPicks counts completed draft selections
	DraftPicks = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "draft_picks_total",
		Help:      "Draft picks recorded.",
	})

	// StatsSyncs counts warehouse sync runs by outcome
	StatsSyncs = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stats_syncs_total",
		Help:      "Warehouse sync runs by outcome.",
	}, []string{"outcome"})

	// PoolSize tracks the number of players in the serving pool
	PoolSize = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "player_pool_size",
		Help:      "Players currently in the serving pool.",
	})

	// SSEClients tracks connected event-stream clients
	SSEClients = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "sse_clients",
		Help:      "Connected server-sent-event clients.",
	})
)

// Handler returns the Prometheus scrape endpoint
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveRequest records one API request
func ObserveRequest(route, method string, status int, elapsed time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}
