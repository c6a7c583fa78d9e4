// Package model implements the probability scoring engine and the
// in-memory prediction store. All probabilities are calculated
// independently of market prices; markets are only ever compared against.
package model

import (
	"math"

	"github.com/yourusername/encore-edge/internal/models"
)

// Factor weights. Fixed constants, not learned; they sum to 1.0 so a
// candidate scoring v on every factor scores exactly v overall.
const (
	WeightStreaming = 0.20
	WeightConcert   = 0.15
	WeightShowFit   = 0.25
	WeightCultural  = 0.20
	WeightAlbumPush = 0.20
)

// Confidence label thresholds on the blended confidence score.
const (
	ThresholdVeryHigh = 0.8
	ThresholdHigh     = 0.6
	ThresholdMedium   = 0.4
)

// SumTolerance is the allowed floating-point drift on a normalized
// candidate set's probability sum.
const SumTolerance = 1e-9

// Score converts a factor set into a raw probability in [0, 1].
func Score(f models.Factors) float64 {
	raw := f.Streaming*WeightStreaming +
		f.Concert*WeightConcert +
		f.ShowFit*WeightShowFit +
		f.Cultural*WeightCultural +
		f.AlbumPush*WeightAlbumPush

	return raw / 100
}

// Normalize recomputes every member's raw score and rescales the set so
// probabilities sum to 1. It touches every member: a single factor change
// shifts the whole distribution, so the recompute is global, not
// incremental.
func Normalize(songs []models.SongPrediction) {
	if len(songs) == 0 {
		return
	}

	scores := make([]float64, len(songs))
	total := 0.0
	for i := range songs {
		scores[i] = Score(songs[i].Factors)
		total += scores[i]
	}
	if total == 0 {
		return
	}

	for i := range songs {
		songs[i].Probability = scores[i] / total
	}
}

// CheckNormalized verifies the sum-to-1 invariant on a candidate set.
// A violation here is a programming defect, not a runtime condition.
func CheckNormalized(songs []models.SongPrediction) error {
	sum := 0.0
	for i := range songs {
		sum += songs[i].Probability
	}
	if math.Abs(sum-1.0) > SumTolerance {
		return models.ErrInvariantViolation
	}
	return nil
}

// Confidence derives a qualitative label from probability magnitude and
// factor consistency. Pure and deterministic.
func Confidence(probability float64, f models.Factors) models.ConfidenceLevel {
	values := f.Values()

	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	variance := 0.0
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(values))

	// Consistency can go negative for extreme variance; clamp so the
	// blended score stays meaningful.
	consistency := 1 - math.Sqrt(variance)/100
	if consistency < 0 {
		consistency = 0
	}

	score := 0.6*probability + 0.4*consistency

	switch {
	case score >= ThresholdVeryHigh:
		return models.ConfidenceVeryHigh
	case score >= ThresholdHigh:
		return models.ConfidenceHigh
	case score >= ThresholdMedium:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}
