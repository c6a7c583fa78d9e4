// Package metrics provides the centralized Prometheus registry for the
// edge engine.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	MarketFetchesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "encore_edge",
		Name:      "market_fetches_total",
		Help:      "Total venue market fetches by outcome",
	}, []string{"venue", "status"})
	EdgesComputedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "encore_edge",
		Name:      "edges_computed_total",
		Help:      "Total edge calculations produced",
	})
	ComparisonCacheHitsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "encore_edge",
		Name:      "comparison_cache_requests_total",
		Help:      "Market comparison cache lookups by result",
	}, []string{"result"})
	ModelUpdatesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "encore_edge",
		Name:      "model_updates_total",
		Help:      "Model mutations by type",
	}, []string{"type"})
	ReconciliationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "encore_edge",
		Name:      "reconciliations_total",
		Help:      "Portfolio reconciliation runs by outcome",
	}, []string{"status"})
)

// Gauge metrics
var (
	SignificantEdges = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "encore_edge",
		Name:      "significant_edges",
		Help:      "High-conviction edges in the latest comparison",
	})
	PortfolioUnrealizedPnL = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "encore_edge",
		Name:      "portfolio_unrealized_pnl",
		Help:      "Total unrealized P&L across held positions",
	})
)

// Histogram metrics
var (
	MarketFetchDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "encore_edge",
		Name:      "market_fetch_duration_seconds",
		Help:      "Duration of venue market fetches in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"venue"})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register counter metrics
		registry.MustRegister(MarketFetchesTotal)
		registry.MustRegister(EdgesComputedTotal)
		registry.MustRegister(ComparisonCacheHitsTotal)
		registry.MustRegister(ModelUpdatesTotal)
		registry.MustRegister(ReconciliationsTotal)

		// Register gauge metrics
		registry.MustRegister(SignificantEdges)
		registry.MustRegister(PortfolioUnrealizedPnL)

		// Register histogram metrics
		registry.MustRegister(MarketFetchDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}
