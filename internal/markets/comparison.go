package markets

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/encore-edge/internal/edge"
	"github.com/yourusername/encore-edge/internal/metrics"
	"github.com/yourusername/encore-edge/internal/models"
)

const comparisonCacheKey = "market_comparison"

// VenueClient fetches normalized quotes from one venue. Implementations
// absorb their own failures and return whatever quotes they have.
type VenueClient interface {
	Name() string
	FetchQuotes(ctx context.Context) []models.Quote
}

// Comparison is the full model-versus-market view for one fetch cycle.
type Comparison struct {
	Quotes      map[string][]models.Quote `json:"quotes"`
	Edges       []models.EdgeCalculation  `json:"edges"`
	LastFetched time.Time                 `json:"last_fetched"`
}

// ComparisonService fans out to all venues, computes edges against the
// model, and caches the result briefly so bursts of dashboard reads do
// not hammer venue APIs.
type ComparisonService struct {
	clients      []VenueClient
	resolver     edge.Resolver
	cache        *gocache.Cache
	cacheTTL     time.Duration
	venueTimeout time.Duration
	logger       *logrus.Logger
	mu           sync.Mutex
}

// NewComparisonService creates a comparison service over the given
// venue clients.
func NewComparisonService(clients []VenueClient, resolver edge.Resolver, cacheTTL, venueTimeout time.Duration, logger *logrus.Logger) *ComparisonService {
	if cacheTTL <= 0 {
		cacheTTL = 15 * time.Second
	}
	if venueTimeout <= 0 {
		venueTimeout = 10 * time.Second
	}
	return &ComparisonService{
		clients:      clients,
		resolver:     resolver,
		cache:        gocache.New(cacheTTL, 2*cacheTTL),
		cacheTTL:     cacheTTL,
		venueTimeout: venueTimeout,
		logger:       logger,
	}
}

// GetComparison returns the current comparison, served from cache when
// fresh. Venues are queried concurrently, each under its own timeout;
// one venue's outage never blocks or fails the others.
func (s *ComparisonService) GetComparison(ctx context.Context) *Comparison {
	if cached, found := s.cache.Get(comparisonCacheKey); found {
		metrics.ComparisonCacheHitsTotal.WithLabelValues("hit").Inc()
		return cached.(*Comparison)
	}
	metrics.ComparisonCacheHitsTotal.WithLabelValues("miss").Inc()

	// Single flight: concurrent misses would each fan out to every venue.
	s.mu.Lock()
	defer s.mu.Unlock()
	if cached, found := s.cache.Get(comparisonCacheKey); found {
		return cached.(*Comparison)
	}

	perVenue := make([][]models.Quote, len(s.clients))
	var wg sync.WaitGroup
	for i, client := range s.clients {
		wg.Add(1)
		go func(i int, client VenueClient) {
			defer wg.Done()
			venueCtx, cancel := context.WithTimeout(ctx, s.venueTimeout)
			defer cancel()
			perVenue[i] = client.FetchQuotes(venueCtx)
		}(i, client)
	}
	wg.Wait()

	// Merge in client registration order so edge tie-breaking stays
	// deterministic across fetches.
	quotes := make(map[string][]models.Quote, len(s.clients))
	var all []models.Quote
	for i, client := range s.clients {
		quotes[client.Name()] = perVenue[i]
		all = append(all, perVenue[i]...)
	}

	edges := edge.FindAll(s.resolver, all)
	metrics.EdgesComputedTotal.Add(float64(len(edges)))
	metrics.SignificantEdges.Set(float64(len(edge.Significant(edges))))

	comparison := &Comparison{
		Quotes:      quotes,
		Edges:       edges,
		LastFetched: time.Now().UTC(),
	}
	s.cache.Set(comparisonCacheKey, comparison, s.cacheTTL)
	return comparison
}

// InvalidateCache drops the cached comparison so the next read
// recomputes edges. Called after any model mutation.
func (s *ComparisonService) InvalidateCache() {
	s.cache.Delete(comparisonCacheKey)
}

// ScanStats summarizes one scheduled market scan.
type ScanStats struct {
	MarketsChecked   int                     `json:"markets_checked"`
	EdgesCalculated  int                     `json:"edges_calculated"`
	SignificantEdges int                     `json:"significant_edges"`
	TopEdge          *models.EdgeCalculation `json:"top_edge,omitempty"`
}

// Scan runs one full comparison pass and logs significant edges. Used by
// the scheduler and the CLI.
func (s *ComparisonService) Scan(ctx context.Context) ScanStats {
	s.InvalidateCache()
	comparison := s.GetComparison(ctx)

	marketsChecked := 0
	for _, venueQuotes := range comparison.Quotes {
		marketsChecked += len(venueQuotes)
	}

	significant := edge.Significant(comparison.Edges)
	stats := ScanStats{
		MarketsChecked:   marketsChecked,
		EdgesCalculated:  len(comparison.Edges),
		SignificantEdges: len(significant),
		TopEdge:          edge.Top(comparison.Edges),
	}

	fields := logrus.Fields{
		"markets_checked":   stats.MarketsChecked,
		"edges_calculated":  stats.EdgesCalculated,
		"significant_edges": stats.SignificantEdges,
	}
	if stats.TopEdge != nil {
		fields["top_edge_entity"] = stats.TopEdge.Entity
		fields["top_edge"] = stats.TopEdge.Edge
	}
	s.logger.WithFields(fields).Info("Market scan complete")

	return stats
}
