package markets

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// AmericanToImplied converts American odds ("+250", "-120") to an
// implied probability.
func AmericanToImplied(american string) (float64, error) {
	trimmed := strings.TrimLeft(american, "+-")
	odds, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || odds == 0 {
		return 0, fmt.Errorf("invalid american odds %q", american)
	}

	if strings.HasPrefix(american, "-") {
		return odds / (odds + 100), nil
	}
	return 100 / (odds + 100), nil
}

// ImpliedToAmerican converts a probability to the American odds string a
// sportsbook would quote for it.
func ImpliedToAmerican(probability float64) string {
	if probability >= 0.5 {
		return fmt.Sprintf("-%d", int(math.Round(probability/(1-probability)*100)))
	}
	return fmt.Sprintf("+%d", int(math.Round((1-probability)/probability*100)))
}
