package models

import "time"

// MarketCategory identifies which candidate set a market belongs to.
// The three categories are disjoint: a quote in the wrong category will
// never match a candidate and therefore contributes no edge.
type MarketCategory string

const (
	CategoryFirstSong   MarketCategory = "first_song"
	CategorySongsPlayed MarketCategory = "songs_played"
	CategoryGuest       MarketCategory = "guest"

	// CategoryLastSong is an administrative-update target only; no venue
	// currently lists last-song markets, so it never appears on quotes.
	CategoryLastSong MarketCategory = "last_song"
)

// TwoSidedPrice holds bid/ask for one side of a binary market, in
// probability units (0-1).
type TwoSidedPrice struct {
	Bid float64 `json:"bid"`
	Ask float64 `json:"ask"`
}

// Mid returns the midpoint when both sides are positive, otherwise the
// better of the two sides.
func (p TwoSidedPrice) Mid() float64 {
	if p.Bid > 0 && p.Ask > 0 {
		return (p.Bid + p.Ask) / 2
	}
	if p.Bid > p.Ask {
		return p.Bid
	}
	return p.Ask
}

// Spread returns ask minus bid.
func (p TwoSidedPrice) Spread() float64 {
	return p.Ask - p.Bid
}

// Quote is the canonical representation of one venue market after
// normalization. Produced fresh on every fetch and never mutated.
type Quote struct {
	Platform           string         `json:"platform" validate:"required"`
	Entity             string         `json:"entity" validate:"required"`
	Category           MarketCategory `json:"category" validate:"required"`
	ImpliedProbability float64        `json:"implied_probability" validate:"gte=0,lte=1"`
	Yes                TwoSidedPrice  `json:"yes"`
	No                 TwoSidedPrice  `json:"no"`
	LastPrice          float64        `json:"last_price,omitempty"`
	Volume             float64        `json:"volume"`
	FetchedAt          time.Time      `json:"fetched_at"`
}
