package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/encore-edge/internal/markets"
	"github.com/yourusername/encore-edge/internal/model"
	"github.com/yourusername/encore-edge/internal/models"
)

type staticVenue struct {
	quotes []models.Quote
}

func (v *staticVenue) Name() string { return "kalshi" }

func (v *staticVenue) FetchQuotes(ctx context.Context) []models.Quote {
	return v.quotes
}

type stubPortfolio struct {
	snapshot *models.Portfolio
	err      error
}

func (p *stubPortfolio) Fetch(ctx context.Context) (*models.Portfolio, error) {
	return p.snapshot, p.err
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	return log
}

func newTestServer(t *testing.T, fetcher PortfolioFetcher) *Server {
	t.Helper()
	log := testLogger()
	store := model.NewStore("", log)
	venue := &staticVenue{quotes: []models.Quote{
		{Platform: "kalshi", Entity: "NUEVAYoL", Category: models.CategoryFirstSong, ImpliedProbability: 0.56},
	}}
	comparison := markets.NewComparisonService(
		[]markets.VenueClient{venue}, store, time.Minute, time.Second, log,
	)
	return NewServer(Config{Address: ":0"}, store, comparison, fetcher, nil, log)
}

func doRequest(t *testing.T, handler http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var resp envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func TestPredictionsEndpoint(t *testing.T) {
	server := newTestServer(t, nil)

	rec, resp := doRequest(t, server.Handler(), http.MethodGet, "/api/predictions", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Timestamp)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	firstSong, ok := data["first_song"].([]interface{})
	require.True(t, ok)
	assert.Len(t, firstSong, 5)
}

func TestMarketsEndpointCarriesComparisonNote(t *testing.T) {
	server := newTestServer(t, nil)

	rec, resp := doRequest(t, server.Handler(), http.MethodGet, "/api/markets", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)
	assert.Equal(t, marketDataNote, resp.Note)
}

func TestTopEdgeEndpoint(t *testing.T) {
	server := newTestServer(t, nil)

	rec, resp := doRequest(t, server.Handler(), http.MethodGet, "/api/edges/top", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.True(t, resp.Success)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, data, "top_edge")
	assert.Contains(t, data, "significant")
}

func TestUpdateOverrideAppendsOneLogEntry(t *testing.T) {
	server := newTestServer(t, nil)
	handler := server.Handler()

	probability := 0.40
	rec, resp := doRequest(t, handler, http.MethodPost, "/api/update", UpdateRequest{
		Entity:         "NUEVAYoL",
		NewProbability: &probability,
		Reasoning:      "Insider setlist leak",
		Author:         "analyst",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)

	rec, resp = doRequest(t, handler, http.MethodGet, "/api/update", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	log, ok := data["update_log"].([]interface{})
	require.True(t, ok)
	require.Len(t, log, 1)

	entry, ok := log[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "NUEVAYoL", entry["entity"])
	assert.Equal(t, 0.40, entry["new_value"])
	assert.Equal(t, "analyst", entry["author"])
}

func TestUpdateUnknownEntityReturns404(t *testing.T) {
	server := newTestServer(t, nil)

	probability := 0.40
	rec, resp := doRequest(t, server.Handler(), http.MethodPost, "/api/update", UpdateRequest{
		Entity:         "Unknown Song",
		NewProbability: &probability,
	})

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, resp.Success)
}

func TestUpdateRequiresProbabilityOrFactors(t *testing.T) {
	server := newTestServer(t, nil)

	rec, resp := doRequest(t, server.Handler(), http.MethodPost, "/api/update", UpdateRequest{
		Entity: "NUEVAYoL",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, resp.Error, "new_probability or factors")
}

func TestUpdateFactorsRescoresCandidate(t *testing.T) {
	server := newTestServer(t, nil)

	rec, resp := doRequest(t, server.Handler(), http.MethodPost, "/api/update", UpdateRequest{
		Entity: "DtMF",
		Factors: &models.Factors{
			Streaming: 95, Concert: 90, ShowFit: 92, Cultural: 94, AlbumPush: 96,
		},
		Reasoning: "Album anniversary push",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)

	// The whole candidate set is renormalized after a factor update.
	snapshot, err := server.store.Snapshot()
	require.NoError(t, err)
	total := 0.0
	for _, p := range snapshot.FirstSong {
		total += p.Probability
	}
	assert.InDelta(t, 1.0, total, 1e-9)
}

func TestPortfolioUnavailableWithoutFetcher(t *testing.T) {
	server := newTestServer(t, nil)

	rec, resp := doRequest(t, server.Handler(), http.MethodGet, "/api/portfolio", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "not available")
}

func TestPortfolioUnavailableOnFetchFailure(t *testing.T) {
	server := newTestServer(t, &stubPortfolio{err: models.ErrPortfolioUnavailable})

	rec, resp := doRequest(t, server.Handler(), http.MethodGet, "/api/portfolio", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, resp.Success)
	// No partial portfolio data on failure.
	assert.Nil(t, resp.Data)
}

func TestPortfolioReconciliation(t *testing.T) {
	server := newTestServer(t, &stubPortfolio{snapshot: &models.Portfolio{
		Balance: 1250.50,
		Positions: []models.Position{
			{Ticker: "KXSBLX-FIRSTSONG-NUEVAYOL", Side: models.SideYes, Quantity: 10},
		},
	}})

	rec, resp := doRequest(t, server.Handler(), http.MethodGet, "/api/portfolio", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, resp.Success)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	recommendations, ok := data["recommendations"].([]interface{})
	require.True(t, ok)
	require.Len(t, recommendations, 1)
}

func TestMethodNotAllowed(t *testing.T) {
	server := newTestServer(t, nil)

	rec, _ := doRequest(t, server.Handler(), http.MethodDelete, "/api/predictions", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec, _ = doRequest(t, server.Handler(), http.MethodPut, "/api/update", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
