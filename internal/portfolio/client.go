// Package portfolio fetches the account's exchange positions and
// reconciles them against the probability model's edges.
package portfolio

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/encore-edge/internal/markets"
	"github.com/yourusername/encore-edge/internal/metrics"
	"github.com/yourusername/encore-edge/internal/models"
)

// ClientConfig holds the authenticated exchange endpoints and the
// ticker substrings identifying event-relevant positions.
type ClientConfig struct {
	APIURL        string
	TickerFilters []string
}

// DefaultTickerFilters narrow the account's full position list down to
// the halftime-show event markets.
func DefaultTickerFilters() []string {
	return []string{"SBLX", "BADBUNNY", "SB-"}
}

// Client fetches the account balance and positions from the exchange's
// authenticated portfolio endpoints.
type Client struct {
	config     ClientConfig
	httpClient *markets.VenueHTTPClient
	signer     *RequestSigner
	logger     *logrus.Logger
}

// NewClient creates an authenticated portfolio client. The signer must
// not be nil; callers without credentials should not construct a client.
func NewClient(cfg ClientConfig, httpClient *markets.VenueHTTPClient, signer *RequestSigner, logger *logrus.Logger) *Client {
	if len(cfg.TickerFilters) == 0 {
		cfg.TickerFilters = DefaultTickerFilters()
	}
	return &Client{
		config:     cfg,
		httpClient: httpClient,
		signer:     signer,
		logger:     logger,
	}
}

type balanceResponse struct {
	Balance int64 `json:"balance"`
}

type marketPosition struct {
	Ticker        string `json:"ticker"`
	Title         string `json:"title"`
	Position      int64  `json:"position"`
	AveragePrice  int64  `json:"average_price"`
	MarketPrice   int64  `json:"market_price"`
	UnrealizedPnL int64  `json:"unrealized_pnl"`
}

type positionsResponse struct {
	MarketPositions []marketPosition `json:"market_positions"`
}

// Fetch retrieves the account snapshot. Any failure surfaces as
// ErrPortfolioUnavailable; the caller never sees a partial portfolio.
func (c *Client) Fetch(ctx context.Context) (*models.Portfolio, error) {
	var balance balanceResponse
	if err := c.getSigned(ctx, "/portfolio/balance", &balance); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrPortfolioUnavailable, err)
	}

	var positions positionsResponse
	if err := c.getSigned(ctx, "/portfolio/positions", &positions); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrPortfolioUnavailable, err)
	}

	portfolio := &models.Portfolio{
		Balance: centsToDollars(balance.Balance),
	}
	for _, p := range positions.MarketPositions {
		if !c.matchesEvent(p.Ticker) {
			continue
		}
		side := models.SideYes
		quantity := p.Position
		if quantity < 0 {
			side = models.SideNo
			quantity = -quantity
		}
		position := models.Position{
			Ticker:        p.Ticker,
			Title:         p.Title,
			Side:          side,
			Quantity:      int(quantity),
			AvgPrice:      centsToDollars(p.AveragePrice),
			CurrentPrice:  centsToDollars(p.MarketPrice),
			UnrealizedPnL: centsToDollars(p.UnrealizedPnL),
		}
		if position.Title == "" {
			position.Title = position.Ticker
		}
		portfolio.Positions = append(portfolio.Positions, position)
		portfolio.TotalUnrealizedPnL += position.UnrealizedPnL
	}

	metrics.PortfolioUnrealizedPnL.Set(portfolio.TotalUnrealizedPnL)

	c.logger.WithFields(logrus.Fields{
		"balance":   portfolio.Balance,
		"positions": len(portfolio.Positions),
	}).Debug("Fetched portfolio snapshot")

	return portfolio, nil
}

func (c *Client) matchesEvent(ticker string) bool {
	for _, filter := range c.config.TickerFilters {
		if strings.Contains(ticker, filter) {
			return true
		}
	}
	return false
}

func (c *Client) getSigned(ctx context.Context, path string, out interface{}) error {
	timestampMs := strconv.FormatInt(time.Now().UnixMilli(), 10)
	signature, err := c.signer.Sign(timestampMs, http.MethodGet, path)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.APIURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("KALSHI-ACCESS-KEY", c.signer.KeyID())
	req.Header.Set("KALSHI-ACCESS-TIMESTAMP", timestampMs)
	req.Header.Set("KALSHI-ACCESS-SIGNATURE", signature)

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("portfolio endpoint %s returned status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// centsToDollars converts exchange integer cents to dollars exactly.
func centsToDollars(cents int64) float64 {
	return decimal.New(cents, -2).InexactFloat64()
}
