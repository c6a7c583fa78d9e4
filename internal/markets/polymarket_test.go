package markets

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/encore-edge/internal/models"
)

func TestClassifyQuestion(t *testing.T) {
	tests := []struct {
		question string
		category models.MarketCategory
		ok       bool
	}{
		{question: "What will be the first song of the halftime show?", category: models.CategoryFirstSong, ok: true},
		{question: "Will the show open with NUEVAYoL?", category: models.CategoryFirstSong, ok: true},
		{question: "Will DÁKITI be played at the halftime show?", category: models.CategorySongsPlayed, ok: true},
		{question: "Will Cardi B appear as a guest?", category: models.CategoryGuest, ok: true},
		{question: "Who wins the coin toss?", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			category, ok := classifyQuestion(tt.question)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.category, category)
			}
		})
	}
}

func TestParseYesPrice(t *testing.T) {
	p, ok := parseYesPrice(`["0.62", "0.38"]`)
	require.True(t, ok)
	assert.InDelta(t, 0.62, p, 1e-9)

	_, ok = parseYesPrice("")
	assert.False(t, ok)
	_, ok = parseYesPrice(`not json`)
	assert.False(t, ok)
	_, ok = parseYesPrice(`["0"]`)
	assert.False(t, ok)
}

func TestPolymarketFetchQuotes(t *testing.T) {
	body := `[
		{"question": "Halftime show first song NUEVAYoL?", "outcomePrices": "[\"0.44\", \"0.56\"]", "volume": "1200", "active": true},
		{"question": "Halftime guest appearance by Cardi B?", "outcomePrices": "[\"0.35\", \"0.65\"]", "volume": "800", "active": true},
		{"question": "Unrelated election market", "outcomePrices": "[\"0.50\", \"0.50\"]", "volume": "99", "active": true},
		{"question": "Halftime show first song closed?", "outcomePrices": "[\"0.10\", \"0.90\"]", "closed": true}
	]`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, body)
	}))
	defer server.Close()

	client := NewPolymarketClient(PolymarketConfig{
		GammaURL:    server.URL,
		SearchTerms: []string{"halftime"},
	}, newTestVenueClient(), testLogger())

	quotes := client.FetchQuotes(context.Background())

	require.Len(t, quotes, 2)
	assert.Equal(t, models.CategoryFirstSong, quotes[0].Category)
	assert.InDelta(t, 0.44, quotes[0].ImpliedProbability, 1e-9)
	assert.InDelta(t, 0.0, quotes[0].Yes.Spread(), 1e-9)
	assert.Equal(t, models.CategoryGuest, quotes[1].Category)
}

func TestPolymarketFetchFailureReturnsNothing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewPolymarketClient(PolymarketConfig{GammaURL: server.URL}, newTestVenueClient(), testLogger())
	assert.Empty(t, client.FetchQuotes(context.Background()))
}
