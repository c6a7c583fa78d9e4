package markets

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/encore-edge/internal/metrics"
	"github.com/yourusername/encore-edge/internal/models"
)

const polymarketPlatform = "polymarket"

// PolymarketConfig holds Polymarket Gamma API configuration.
type PolymarketConfig struct {
	GammaURL    string
	SearchTerms []string
	MarketLimit int
}

// gammaMarket mirrors the subset of the Gamma market payload we read.
// Outcome prices arrive as a JSON-encoded string array.
type gammaMarket struct {
	ID            string `json:"id"`
	Question      string `json:"question"`
	Slug          string `json:"slug"`
	OutcomePrices string `json:"outcomePrices"`
	Volume        string `json:"volume"`
	Active        bool   `json:"active"`
	Closed        bool   `json:"closed"`
}

// PolymarketClient discovers relevant markets via the Gamma API. Gamma
// exposes a single last-trade style price per outcome, so quotes from
// this venue are degenerate two-sided books.
type PolymarketClient struct {
	httpClient *VenueHTTPClient
	cfg        PolymarketConfig
	logger     *logrus.Logger
}

// NewPolymarketClient creates a new Polymarket market data client.
func NewPolymarketClient(cfg PolymarketConfig, httpClient *VenueHTTPClient, logger *logrus.Logger) *PolymarketClient {
	if cfg.MarketLimit <= 0 {
		cfg.MarketLimit = 200
	}
	if len(cfg.SearchTerms) == 0 {
		cfg.SearchTerms = []string{"halftime"}
	}
	return &PolymarketClient{
		httpClient: httpClient,
		cfg:        cfg,
		logger:     logger,
	}
}

// Name returns the venue name.
func (c *PolymarketClient) Name() string {
	return polymarketPlatform
}

// FetchQuotes discovers halftime-show markets and normalizes them. On
// failure the venue contributes an empty list; it never fails the batch.
func (c *PolymarketClient) FetchQuotes(ctx context.Context) []models.Quote {
	start := time.Now()
	raw, err := c.fetchMarkets(ctx)
	metrics.MarketFetchDuration.WithLabelValues(polymarketPlatform).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.MarketFetchesTotal.WithLabelValues(polymarketPlatform, "error").Inc()
		c.logger.WithError(err).Warn("Polymarket fetch failed, venue contributes no quotes")
		return nil
	}
	metrics.MarketFetchesTotal.WithLabelValues(polymarketPlatform, "success").Inc()

	fetchedAt := time.Now().UTC()
	var quotes []models.Quote
	for _, m := range raw {
		if m.Closed || !c.matchesSearch(m.Question) {
			continue
		}

		category, ok := classifyQuestion(m.Question)
		if !ok {
			continue
		}

		price, ok := parseYesPrice(m.OutcomePrices)
		if !ok {
			continue
		}

		volume, _ := strconv.ParseFloat(m.Volume, 64)

		entity := m.Question
		if entity == "" {
			entity = m.Slug
		}

		quotes = append(quotes, NormalizeLastTrade(polymarketPlatform, entity, category, price, volume, fetchedAt))
	}
	return quotes
}

func (c *PolymarketClient) matchesSearch(question string) bool {
	q := strings.ToLower(question)
	for _, term := range c.cfg.SearchTerms {
		if strings.Contains(q, strings.ToLower(term)) {
			return true
		}
	}
	return false
}

// classifyQuestion infers the market category from the question text.
// The assignment is authoritative downstream: a market classified into
// the wrong category silently fails to match any candidate.
func classifyQuestion(question string) (models.MarketCategory, bool) {
	q := strings.ToLower(question)
	switch {
	case strings.Contains(q, "first song") || strings.Contains(q, "opening song") || strings.Contains(q, "open with"):
		return models.CategoryFirstSong, true
	case strings.Contains(q, "guest") || strings.Contains(q, "appear"):
		return models.CategoryGuest, true
	case strings.Contains(q, "played") || strings.Contains(q, "setlist") || strings.Contains(q, "perform"):
		return models.CategorySongsPlayed, true
	default:
		return "", false
	}
}

// parseYesPrice extracts the YES outcome price from Gamma's stringified
// price array.
func parseYesPrice(outcomePrices string) (float64, bool) {
	if outcomePrices == "" {
		return 0, false
	}
	var prices []string
	if err := json.Unmarshal([]byte(outcomePrices), &prices); err != nil || len(prices) == 0 {
		return 0, false
	}
	price, err := strconv.ParseFloat(prices[0], 64)
	if err != nil || price <= 0 || price >= 1 {
		return 0, false
	}
	return price, true
}

func (c *PolymarketClient) fetchMarkets(ctx context.Context) ([]gammaMarket, error) {
	endpoint := fmt.Sprintf("%s/markets?_limit=%d&active=true&closed=false", c.cfg.GammaURL, c.cfg.MarketLimit)

	resp, err := c.httpClient.Get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("gamma request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("gamma API error: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read gamma response: %w", err)
	}

	var markets []gammaMarket
	if err := json.Unmarshal(body, &markets); err != nil {
		return nil, fmt.Errorf("failed to parse gamma response: %w", err)
	}
	return markets, nil
}
