package portfolio

import (
	"fmt"
	"strings"

	"github.com/yourusername/encore-edge/internal/metrics"
	"github.com/yourusername/encore-edge/internal/models"
)

// Reconciliation thresholds on the model edge for a held position.
const (
	// CloseThreshold is how far the edge must run against a position
	// before the position should be closed.
	CloseThreshold = 0.10
	// IncreaseThreshold is how strong an aligned edge must be before
	// adding to a position.
	IncreaseThreshold = 0.15
	// MissedThreshold is the minimum absolute edge for an unheld
	// market to count as a missed opportunity.
	MissedThreshold = 0.10
)

// Reconcile compares held positions against the current edge list and
// produces per-position recommendations plus the high-edge markets the
// account does not hold. Positions whose ticker matches no edge entity
// are treated as zero-edge and held.
func Reconcile(portfolio models.Portfolio, edges []models.EdgeCalculation) models.PortfolioAnalysis {
	analysis := models.PortfolioAnalysis{Portfolio: portfolio}

	for _, position := range portfolio.Positions {
		edge := 0.0
		if match, ok := matchEdge(position.Ticker, edges); ok {
			edge = match.Edge
		}
		analysis.Recommendations = append(analysis.Recommendations, recommend(position, edge))
	}

	for _, edge := range edges {
		if abs(edge.Edge) <= MissedThreshold || !edge.IsDirectional() {
			continue
		}
		if heldFor(edge.Entity, portfolio.Positions) {
			continue
		}
		analysis.MissedOpportunities = append(analysis.MissedOpportunities, models.MissedOpportunity{
			Entity:         edge.Entity,
			Edge:           edge.Edge,
			Recommendation: edge.Recommendation,
		})
	}

	metrics.ReconciliationsTotal.WithLabelValues("success").Inc()
	return analysis
}

func recommend(position models.Position, edge float64) models.PositionRecommendation {
	rec := models.PositionRecommendation{Position: position, ModelEdge: edge}

	switch {
	case position.Side == models.SideYes && edge < -CloseThreshold:
		rec.Action = models.ActionClose
		rec.Reasoning = fmt.Sprintf("Model sees %.0f%% negative edge, contract overpriced", edge*100)
	case position.Side == models.SideNo && edge > CloseThreshold:
		rec.Action = models.ActionClose
		rec.Reasoning = fmt.Sprintf("Model sees %.0f%% positive edge, contract underpriced", edge*100)
	case abs(edge) > IncreaseThreshold:
		rec.Action = models.ActionIncrease
		rec.Reasoning = fmt.Sprintf("Strong %.0f%% edge supports this position", edge*100)
	default:
		rec.Action = models.ActionHold
		rec.Reasoning = "Position aligns with model within tolerance"
	}
	return rec
}

// matchEdge finds the edge whose entity name, lowercased with spaces
// removed, appears as a substring of the lowercased ticker.
func matchEdge(ticker string, edges []models.EdgeCalculation) (models.EdgeCalculation, bool) {
	lowered := strings.ToLower(ticker)
	for _, edge := range edges {
		if strings.Contains(lowered, normalizeEntity(edge.Entity)) {
			return edge, true
		}
	}
	return models.EdgeCalculation{}, false
}

func heldFor(entity string, positions []models.Position) bool {
	needle := normalizeEntity(entity)
	for _, p := range positions {
		if strings.Contains(strings.ToLower(p.Ticker), needle) {
			return true
		}
	}
	return false
}

func normalizeEntity(entity string) string {
	return strings.ReplaceAll(strings.ToLower(entity), " ", "")
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
