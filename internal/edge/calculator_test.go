package edge

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/encore-edge/internal/models"
)

type stubResolver struct {
	probabilities map[models.MarketCategory]map[string]float64
}

func (r *stubResolver) ResolveProbability(label string, category models.MarketCategory) (float64, bool) {
	set, ok := r.probabilities[category]
	if !ok {
		return 0, false
	}
	for name, p := range set {
		if strings.EqualFold(name, label) {
			return p, true
		}
	}
	return 0, false
}

func TestCalculateBands(t *testing.T) {
	tests := []struct {
		name           string
		our            float64
		market         float64
		expectedEdge   float64
		recommendation models.Recommendation
		confidence     models.ConfidenceLevel
	}{
		{
			name: "deep overpricing sells at very high confidence",
			our:  0.20, market: 0.56,
			expectedEdge:   -0.36,
			recommendation: models.RecommendationSell,
			confidence:     models.ConfidenceVeryHigh,
		},
		{
			name: "boundary edge holds",
			our:  0.28, market: 0.26,
			expectedEdge:   0.02,
			recommendation: models.RecommendationHold,
			confidence:     models.ConfidenceLow,
		},
		{
			// 0.20-0.15 lands a hair above 0.05 in float64; the band
			// boundary is inclusive so this is still medium.
			name: "medium band boundary is inclusive",
			our:  0.20, market: 0.15,
			expectedEdge:   0.05,
			recommendation: models.RecommendationBuy,
			confidence:     models.ConfidenceMedium,
		},
		{
			name: "high band boundary is inclusive",
			our:  0.40, market: 0.25,
			expectedEdge:   0.15,
			recommendation: models.RecommendationBuy,
			confidence:     models.ConfidenceHigh,
		},
		{
			name: "small positive edge buys at medium",
			our:  0.30, market: 0.26,
			expectedEdge:   0.04,
			recommendation: models.RecommendationBuy,
			confidence:     models.ConfidenceMedium,
		},
		{
			name: "solid positive edge buys at high",
			our:  0.40, market: 0.30,
			expectedEdge:   0.10,
			recommendation: models.RecommendationBuy,
			confidence:     models.ConfidenceHigh,
		},
		{
			name: "large positive edge buys at very high",
			our:  0.50, market: 0.30,
			expectedEdge:   0.20,
			recommendation: models.RecommendationBuy,
			confidence:     models.ConfidenceVeryHigh,
		},
		{
			name: "mild overpricing fades at medium",
			our:  0.22, market: 0.26,
			expectedEdge:   -0.04,
			recommendation: models.RecommendationFade,
			confidence:     models.ConfidenceMedium,
		},
		{
			name: "clear overpricing sells at high",
			our:  0.20, market: 0.30,
			expectedEdge:   -0.10,
			recommendation: models.RecommendationSell,
			confidence:     models.ConfidenceHigh,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Calculate(tt.our, tt.market, "kalshi", models.CategoryFirstSong)
			assert.InDelta(t, tt.expectedEdge, result.Edge, 1e-9)
			assert.Equal(t, tt.recommendation, result.Recommendation)
			assert.Equal(t, tt.confidence, result.Confidence)
		})
	}
}

func TestFindAllResolvesAndSkips(t *testing.T) {
	resolver := &stubResolver{
		probabilities: map[models.MarketCategory]map[string]float64{
			models.CategoryFirstSong: {"nuevayol": 0.20},
		},
	}

	quotes := []models.Quote{
		{Platform: "kalshi", Entity: "NuevaYol", Category: models.CategoryFirstSong, ImpliedProbability: 0.56},
		{Platform: "kalshi", Entity: "Unknown Song", Category: models.CategoryFirstSong, ImpliedProbability: 0.10},
	}

	edges := FindAll(resolver, quotes)
	require.Len(t, edges, 1)
	assert.Equal(t, "NuevaYol", edges[0].Entity)
	assert.InDelta(t, -0.36, edges[0].Edge, 1e-9)
}

func TestFindAllSortsByAbsoluteEdgeStable(t *testing.T) {
	resolver := &stubResolver{
		probabilities: map[models.MarketCategory]map[string]float64{
			models.CategoryFirstSong: {"a": 0.30, "b": 0.50, "c": 0.35, "d": 0.30},
		},
	}

	// a, c and d all use the operand pair {0.30, 0.35}, so their |edge|
	// values are bit-identical and only input order can break the tie.
	quotes := []models.Quote{
		{Platform: "kalshi", Entity: "a", Category: models.CategoryFirstSong, ImpliedProbability: 0.35},     // -0.05
		{Platform: "kalshi", Entity: "b", Category: models.CategoryFirstSong, ImpliedProbability: 0.30},     // +0.20
		{Platform: "kalshi", Entity: "c", Category: models.CategoryFirstSong, ImpliedProbability: 0.30},     // +0.05
		{Platform: "polymarket", Entity: "d", Category: models.CategoryFirstSong, ImpliedProbability: 0.35}, // -0.05
	}

	edges := FindAll(resolver, quotes)
	require.Len(t, edges, 4)

	assert.Equal(t, "b", edges[0].Entity)
	// Ties on |edge| keep input order: a before c before d.
	assert.Equal(t, "a", edges[1].Entity)
	assert.Equal(t, "c", edges[2].Entity)
	assert.Equal(t, "d", edges[3].Entity)
}

func TestTopReturnsHighConvictionOnly(t *testing.T) {
	edges := []models.EdgeCalculation{
		{Entity: "big", Edge: -0.36, Confidence: models.ConfidenceVeryHigh},
		{Entity: "small", Edge: 0.04, Confidence: models.ConfidenceMedium},
	}

	top := Top(edges)
	require.NotNil(t, top)
	assert.Equal(t, "big", top.Entity)

	assert.Nil(t, Top([]models.EdgeCalculation{{Entity: "small", Edge: 0.04}}))
	assert.Nil(t, Top(nil))
}

func TestSignificant(t *testing.T) {
	edges := []models.EdgeCalculation{
		{Entity: "a", Edge: 0.30},
		{Entity: "b", Edge: -0.16},
		{Entity: "c", Edge: 0.15},
	}

	out := Significant(edges)
	require.Len(t, out, 2)
	assert.Equal(t, "a", out[0].Entity)
	assert.Equal(t, "b", out[1].Entity)
}
