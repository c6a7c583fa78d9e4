package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/encore-edge/internal/models"
)

func uniformFactors(v float64) models.Factors {
	return models.Factors{Streaming: v, Concert: v, ShowFit: v, Cultural: v, AlbumPush: v}
}

func TestScoreUniformFactors(t *testing.T) {
	// Weights sum to 1, so uniform factors score exactly v/100.
	tests := []struct {
		name     string
		value    float64
		expected float64
	}{
		{name: "all zero", value: 0, expected: 0},
		{name: "all fifty", value: 50, expected: 0.5},
		{name: "all eighty", value: 80, expected: 0.8},
		{name: "all hundred", value: 100, expected: 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Score(uniformFactors(tt.value)), 1e-12)
		})
	}
}

func TestScoreWeighted(t *testing.T) {
	f := models.Factors{Streaming: 100, Concert: 0, ShowFit: 0, Cultural: 0, AlbumPush: 0}
	assert.InDelta(t, 0.20, Score(f), 1e-12)

	f = models.Factors{Streaming: 0, Concert: 0, ShowFit: 100, Cultural: 0, AlbumPush: 0}
	assert.InDelta(t, 0.25, Score(f), 1e-12)
}

func TestNormalizeSumsToOne(t *testing.T) {
	songs := []models.SongPrediction{
		{Song: "A", Factors: models.Factors{Streaming: 90, Concert: 80, ShowFit: 95, Cultural: 88, AlbumPush: 92}},
		{Song: "B", Factors: models.Factors{Streaming: 60, Concert: 70, ShowFit: 50, Cultural: 65, AlbumPush: 40}},
		{Song: "C", Factors: models.Factors{Streaming: 30, Concert: 20, ShowFit: 40, Cultural: 25, AlbumPush: 35}},
	}

	Normalize(songs)

	sum := 0.0
	for _, s := range songs {
		sum += s.Probability
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
	require.NoError(t, CheckNormalized(songs))

	// Ordering of strength must survive normalization.
	assert.Greater(t, songs[0].Probability, songs[1].Probability)
	assert.Greater(t, songs[1].Probability, songs[2].Probability)
}

func TestNormalizeEmptySet(t *testing.T) {
	assert.NotPanics(t, func() { Normalize(nil) })
	assert.NotPanics(t, func() { Normalize([]models.SongPrediction{}) })
}

func TestCheckNormalizedViolation(t *testing.T) {
	songs := []models.SongPrediction{
		{Song: "A", Probability: 0.8},
		{Song: "B", Probability: 0.8},
	}
	assert.ErrorIs(t, CheckNormalized(songs), models.ErrInvariantViolation)
}

func TestConfidenceLabels(t *testing.T) {
	tests := []struct {
		name        string
		probability float64
		factors     models.Factors
		expected    models.ConfidenceLevel
	}{
		{
			name:        "high probability consistent factors",
			probability: 0.9,
			factors:     uniformFactors(90),
			expected:    models.ConfidenceVeryHigh,
		},
		{
			name:        "moderate probability consistent factors",
			probability: 0.45,
			factors:     uniformFactors(50),
			expected:    models.ConfidenceHigh,
		},
		{
			name:        "low probability consistent factors",
			probability: 0.05,
			factors:     uniformFactors(40),
			expected:    models.ConfidenceMedium,
		},
		{
			name:        "low probability scattered factors",
			probability: 0.05,
			factors:     models.Factors{Streaming: 100, Concert: 0, ShowFit: 100, Cultural: 0, AlbumPush: 50},
			expected:    models.ConfidenceLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Confidence(tt.probability, tt.factors))
		})
	}
}

func TestConfidenceMonotonicInProbability(t *testing.T) {
	// Holding factor variance fixed, a higher probability can never
	// produce a lower label.
	factors := models.Factors{Streaming: 80, Concert: 60, ShowFit: 70, Cultural: 65, AlbumPush: 75}

	rank := map[models.ConfidenceLevel]int{
		models.ConfidenceLow:      0,
		models.ConfidenceMedium:   1,
		models.ConfidenceHigh:     2,
		models.ConfidenceVeryHigh: 3,
	}

	prev := -1
	for p := 0.0; p <= 1.0+1e-9; p += 0.05 {
		level := Confidence(math.Min(p, 1.0), factors)
		require.GreaterOrEqual(t, rank[level], prev, "confidence decreased at p=%.2f", p)
		prev = rank[level]
	}
}

func TestConfidenceDeterministic(t *testing.T) {
	f := models.Factors{Streaming: 77, Concert: 81, ShowFit: 69, Cultural: 90, AlbumPush: 72}
	first := Confidence(0.42, f)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Confidence(0.42, f))
	}
}
