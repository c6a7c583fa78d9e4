package markets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmericanToImplied(t *testing.T) {
	tests := []struct {
		american string
		expected float64
	}{
		{american: "+100", expected: 0.5},
		{american: "-100", expected: 0.5},
		{american: "+300", expected: 0.25},
		{american: "-300", expected: 0.75},
		{american: "+150", expected: 0.4},
	}

	for _, tt := range tests {
		t.Run(tt.american, func(t *testing.T) {
			p, err := AmericanToImplied(tt.american)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, p, 1e-9)
		})
	}

	_, err := AmericanToImplied("even")
	assert.Error(t, err)
}

func TestImpliedToAmerican(t *testing.T) {
	assert.Equal(t, "+300", ImpliedToAmerican(0.25))
	assert.Equal(t, "-300", ImpliedToAmerican(0.75))
	assert.Equal(t, "-100", ImpliedToAmerican(0.5))
}
