package models

// Recommendation is the directional action implied by an edge.
type Recommendation string

const (
	RecommendationBuy  Recommendation = "BUY"
	RecommendationSell Recommendation = "SELL"
	RecommendationFade Recommendation = "FADE"
	RecommendationHold Recommendation = "HOLD"
)

// EdgeCalculation compares one model probability against one
// market-implied probability. Derived and immutable; recomputed on every
// comparison, never persisted.
type EdgeCalculation struct {
	Entity            string          `json:"entity"`
	ModelProbability  float64         `json:"model_probability"`
	MarketProbability float64         `json:"market_probability"`
	Platform          string          `json:"platform"`
	Category          MarketCategory  `json:"category"`
	Edge              float64         `json:"edge"`
	Recommendation    Recommendation  `json:"recommendation"`
	Confidence        ConfidenceLevel `json:"confidence"`
}

// IsDirectional reports whether the edge calls for taking a position.
func (e EdgeCalculation) IsDirectional() bool {
	return e.Recommendation != RecommendationHold
}
