// Package edge computes signed edges between model probabilities and
// market-implied probabilities, with fixed recommendation bands.
package edge

import (
	"math"
	"sort"

	"github.com/yourusername/encore-edge/internal/models"
)

// Band thresholds on |edge|. Direction comes from the sign: positive
// edge means the model is more bullish than the market.
const (
	BandVeryHigh = 0.15
	BandHigh     = 0.05
	BandMedium   = 0.02

	// HighConvictionThreshold flags edges worth surfacing on their own.
	HighConvictionThreshold = 0.15

	// bandEpsilon absorbs float64 subtraction error at band boundaries
	// so they stay inclusive: 0.28 - 0.26 must still classify as 0.02.
	bandEpsilon = 1e-9
)

// Resolver resolves a market label to a model probability within one
// category. A miss is routine, not an error.
type Resolver interface {
	ResolveProbability(label string, category models.MarketCategory) (float64, bool)
}

// Calculate produces an EdgeCalculation for one model/market probability
// pair. The entity label is filled in by the caller.
func Calculate(ourProbability, marketProbability float64, platform string, category models.MarketCategory) models.EdgeCalculation {
	e := ourProbability - marketProbability
	magnitude := math.Abs(e)

	var recommendation models.Recommendation
	var confidence models.ConfidenceLevel

	switch {
	case magnitude <= BandMedium+bandEpsilon:
		recommendation = models.RecommendationHold
		confidence = models.ConfidenceLow
	case magnitude <= BandHigh+bandEpsilon:
		confidence = models.ConfidenceMedium
	case magnitude <= BandVeryHigh+bandEpsilon:
		confidence = models.ConfidenceHigh
	default:
		confidence = models.ConfidenceVeryHigh
	}

	if recommendation == "" {
		switch {
		case e > 0:
			recommendation = models.RecommendationBuy
		case confidence == models.ConfidenceMedium:
			// Mild overpricing: fade rather than outright short.
			recommendation = models.RecommendationFade
		default:
			recommendation = models.RecommendationSell
		}
	}

	return models.EdgeCalculation{
		ModelProbability:  ourProbability,
		MarketProbability: marketProbability,
		Platform:          platform,
		Category:          category,
		Edge:              e,
		Recommendation:    recommendation,
		Confidence:        confidence,
	}
}

// FindAll resolves each quote against the model and returns one edge per
// resolved quote, sorted by descending |edge| with input order breaking
// ties. Unresolved labels are skipped silently.
func FindAll(resolver Resolver, quotes []models.Quote) []models.EdgeCalculation {
	edges := make([]models.EdgeCalculation, 0, len(quotes))

	for _, q := range quotes {
		ourProbability, ok := resolver.ResolveProbability(q.Entity, q.Category)
		if !ok {
			continue
		}

		e := Calculate(ourProbability, q.ImpliedProbability, q.Platform, q.Category)
		e.Entity = q.Entity
		edges = append(edges, e)
	}

	sort.SliceStable(edges, func(i, j int) bool {
		return math.Abs(edges[i].Edge) > math.Abs(edges[j].Edge)
	})

	return edges
}

// Top returns the largest high-conviction edge from an already sorted
// edge list, or nil when none qualifies.
func Top(edges []models.EdgeCalculation) *models.EdgeCalculation {
	for i := range edges {
		if math.Abs(edges[i].Edge) > HighConvictionThreshold+bandEpsilon {
			out := edges[i]
			return &out
		}
	}
	return nil
}

// Significant filters edges whose magnitude exceeds the high-conviction
// threshold, preserving order.
func Significant(edges []models.EdgeCalculation) []models.EdgeCalculation {
	out := make([]models.EdgeCalculation, 0)
	for _, e := range edges {
		if math.Abs(e.Edge) > HighConvictionThreshold+bandEpsilon {
			out = append(out, e)
		}
	}
	return out
}
