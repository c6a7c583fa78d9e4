package models

// PositionSide is the side of a binary contract a position holds.
type PositionSide string

const (
	SideYes PositionSide = "yes"
	SideNo  PositionSide = "no"
)

// Position is a read-only snapshot of one held contract from the
// external account. The core never mutates positions.
type Position struct {
	Ticker        string       `json:"ticker" validate:"required"`
	Title         string       `json:"title"`
	Side          PositionSide `json:"side" validate:"required,oneof=yes no"`
	Quantity      int          `json:"quantity" validate:"gte=0"`
	AvgPrice      float64      `json:"avg_price"`
	CurrentPrice  float64      `json:"current_price"`
	UnrealizedPnL float64      `json:"unrealized_pnl"`
}

// Portfolio is the full account snapshot.
type Portfolio struct {
	Balance            float64    `json:"balance"`
	Positions          []Position `json:"positions"`
	TotalUnrealizedPnL float64    `json:"total_unrealized_pnl"`
}

// PositionAction is the recommended action for one held position.
type PositionAction string

const (
	ActionHold     PositionAction = "HOLD"
	ActionClose    PositionAction = "CLOSE"
	ActionIncrease PositionAction = "INCREASE"
)

// PositionRecommendation pairs a held position with the model's view of it.
type PositionRecommendation struct {
	Position  Position       `json:"position"`
	ModelEdge float64        `json:"model_edge"`
	Action    PositionAction `json:"action"`
	Reasoning string         `json:"reasoning"`
}

// MissedOpportunity is a high-edge market the account does not hold.
type MissedOpportunity struct {
	Entity         string         `json:"entity"`
	Edge           float64        `json:"edge"`
	Recommendation Recommendation `json:"recommendation"`
}

// PortfolioAnalysis is the output of a reconciliation pass.
type PortfolioAnalysis struct {
	Portfolio           Portfolio                `json:"portfolio"`
	Recommendations     []PositionRecommendation `json:"recommendations"`
	MissedOpportunities []MissedOpportunity      `json:"missed_opportunities"`
}
