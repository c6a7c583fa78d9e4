// Package markets fetches venue market data and normalizes it into
// canonical quotes. Market data is only ever compared against the model;
// it never feeds the model's probability calculations.
package markets

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/yourusername/encore-edge/internal/models"
)

// BookQuote holds one venue market's raw two-sided book in probability
// units, before normalization.
type BookQuote struct {
	Platform  string
	Entity    string
	Category  models.MarketCategory
	YesBid    float64
	YesAsk    float64
	NoBid     float64
	NoAsk     float64
	LastPrice float64
	Volume    float64
}

// NormalizeBook converts a raw two-sided book into a canonical quote.
// The implied probability is the YES-side mid; when the book is one-sided
// or empty the last-trade price stands in.
func NormalizeBook(raw BookQuote, fetchedAt time.Time) models.Quote {
	yes := models.TwoSidedPrice{Bid: raw.YesBid, Ask: raw.YesAsk}
	no := models.TwoSidedPrice{Bid: raw.NoBid, Ask: raw.NoAsk}

	implied := raw.LastPrice
	if raw.YesBid > 0 && raw.YesAsk > 0 {
		implied = yes.Mid()
	}

	return models.Quote{
		Platform:           raw.Platform,
		Entity:             raw.Entity,
		Category:           raw.Category,
		ImpliedProbability: implied,
		Yes:                yes,
		No:                 no,
		LastPrice:          raw.LastPrice,
		Volume:             raw.Volume,
		FetchedAt:          fetchedAt,
	}
}

// NormalizeLastTrade synthesizes a degenerate two-sided quote for venues
// that expose only a single last-traded price: bid = ask = mid = price,
// spread = 0.
func NormalizeLastTrade(platform, entity string, category models.MarketCategory, price, volume float64, fetchedAt time.Time) models.Quote {
	return models.Quote{
		Platform:           platform,
		Entity:             entity,
		Category:           category,
		ImpliedProbability: price,
		Yes:                models.TwoSidedPrice{Bid: price, Ask: price},
		No:                 models.TwoSidedPrice{Bid: 1 - price, Ask: 1 - price},
		LastPrice:          price,
		Volume:             volume,
		FetchedAt:          fetchedAt,
	}
}

// centsToProbability converts an integer cent price (0-100) to a
// probability, using decimal arithmetic to avoid float artifacts at the
// ingestion boundary.
func centsToProbability(cents int64) float64 {
	p, _ := decimal.New(cents, -2).Float64()
	return p
}
