package markets

import (
	"time"

	"github.com/yourusername/encore-edge/internal/models"
)

// FallbackQuotes returns static quotes for a venue/category pair, used
// when a venue fetch fails or a series comes back empty. Only the
// songs-played series carries fallback data; the other categories return
// an empty list so the dashboard shows no data rather than stale prices.
func FallbackQuotes(platform string, category models.MarketCategory) []models.Quote {
	if platform != kalshiPlatform || category != models.CategorySongsPlayed {
		return nil
	}

	now := time.Now().UTC()
	entries := []struct {
		song    string
		implied float64
		volume  float64
	}{
		{"DÁKITI", 0.92, 6200},
		{"Tití Me Preguntó", 0.85, 5800},
		{"BAILE INoLVIDABLE", 0.88, 5100},
		{"Me Porto Bonito", 0.80, 4500},
		{"DtMF", 0.75, 3900},
	}

	quotes := make([]models.Quote, 0, len(entries))
	for _, e := range entries {
		quotes = append(quotes, NormalizeLastTrade(platform, e.song, category, e.implied, e.volume, now))
	}
	return quotes
}
