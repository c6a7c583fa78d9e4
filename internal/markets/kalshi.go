package markets

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/encore-edge/internal/metrics"
	"github.com/yourusername/encore-edge/internal/models"
)

const kalshiPlatform = "kalshi"

// KalshiConfig holds Kalshi API configuration.
type KalshiConfig struct {
	APIURL            string
	FirstSongSeries   string
	SongsPlayedSeries string
	GuestSeries       string
	MarketLimit       int
}

// kalshiMarket mirrors the Kalshi trade API market payload. Prices are
// integer cents.
type kalshiMarket struct {
	Ticker      string `json:"ticker"`
	Title       string `json:"title"`
	YesSubTitle string `json:"yes_sub_title"`
	NoSubTitle  string `json:"no_sub_title"`
	YesBid      int64  `json:"yes_bid"`
	YesAsk      int64  `json:"yes_ask"`
	NoBid       int64  `json:"no_bid"`
	NoAsk       int64  `json:"no_ask"`
	LastPrice   int64  `json:"last_price"`
	Volume      int64  `json:"volume"`
	Status      string `json:"status"`
	EventTicker string `json:"event_ticker"`
}

type kalshiMarketsResponse struct {
	Markets []kalshiMarket `json:"markets"`
}

// KalshiClient fetches market quotes from the Kalshi trade API.
type KalshiClient struct {
	httpClient *VenueHTTPClient
	cfg        KalshiConfig
	logger     *logrus.Logger
}

// NewKalshiClient creates a new Kalshi market data client.
func NewKalshiClient(cfg KalshiConfig, httpClient *VenueHTTPClient, logger *logrus.Logger) *KalshiClient {
	if cfg.MarketLimit <= 0 {
		cfg.MarketLimit = 50
	}
	return &KalshiClient{
		httpClient: httpClient,
		cfg:        cfg,
		logger:     logger,
	}
}

// Name returns the venue name.
func (c *KalshiClient) Name() string {
	return kalshiPlatform
}

// FetchQuotes fetches every configured series. A failed or empty series
// falls back to static data rather than failing the batch; one series'
// outage never blanks out the others. An unconfigured series is not
// scanned at all, so it contributes neither quotes nor fallback data.
func (c *KalshiClient) FetchQuotes(ctx context.Context) []models.Quote {
	series := []struct {
		ticker   string
		category models.MarketCategory
	}{
		{c.cfg.FirstSongSeries, models.CategoryFirstSong},
		{c.cfg.SongsPlayedSeries, models.CategorySongsPlayed},
		{c.cfg.GuestSeries, models.CategoryGuest},
	}

	var quotes []models.Quote
	for _, s := range series {
		if s.ticker == "" {
			continue
		}
		quotes = append(quotes, c.fetchSeries(ctx, s.ticker, s.category)...)
	}
	return quotes
}

func (c *KalshiClient) fetchSeries(ctx context.Context, seriesTicker string, category models.MarketCategory) []models.Quote {
	start := time.Now()
	raw, err := c.fetchMarkets(ctx, seriesTicker)
	metrics.MarketFetchDuration.WithLabelValues(kalshiPlatform).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.MarketFetchesTotal.WithLabelValues(kalshiPlatform, "error").Inc()
		c.logger.WithError(err).WithFields(logrus.Fields{
			"series":   seriesTicker,
			"category": category,
		}).Warn("Kalshi fetch failed, using fallback quotes")
		return FallbackQuotes(kalshiPlatform, category)
	}
	metrics.MarketFetchesTotal.WithLabelValues(kalshiPlatform, "success").Inc()

	fetchedAt := time.Now().UTC()
	quotes := make([]models.Quote, 0, len(raw))
	for _, m := range raw {
		if m.Status != "active" {
			continue
		}

		// The outcome name lives in the sub-title fields.
		entity := m.YesSubTitle
		if entity == "" {
			entity = m.NoSubTitle
		}
		if entity == "" {
			continue
		}

		quotes = append(quotes, NormalizeBook(BookQuote{
			Platform:  kalshiPlatform,
			Entity:    entity,
			Category:  category,
			YesBid:    centsToProbability(m.YesBid),
			YesAsk:    centsToProbability(m.YesAsk),
			NoBid:     centsToProbability(m.NoBid),
			NoAsk:     centsToProbability(m.NoAsk),
			LastPrice: centsToProbability(m.LastPrice),
			Volume:    float64(m.Volume),
		}, fetchedAt))
	}

	if len(quotes) == 0 {
		return FallbackQuotes(kalshiPlatform, category)
	}
	return quotes
}

func (c *KalshiClient) fetchMarkets(ctx context.Context, seriesTicker string) ([]kalshiMarket, error) {
	endpoint := fmt.Sprintf("%s/markets?series_ticker=%s&limit=%d",
		c.cfg.APIURL, url.QueryEscape(seriesTicker), c.cfg.MarketLimit)

	resp, err := c.httpClient.Get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("kalshi request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("kalshi API error: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read kalshi response: %w", err)
	}

	var parsed kalshiMarketsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse kalshi response: %w", err)
	}
	return parsed.Markets, nil
}
