package model

import (
	"time"

	"github.com/yourusername/encore-edge/internal/models"
)

// defaultModel returns the built-in model snapshot used when no seed file
// is configured. Probabilities on the factor-scored sets are raw scores;
// the loader normalizes them before the snapshot is served.
func defaultModel() *models.PredictionModel {
	return &models.PredictionModel{
		Meta: models.ModelMeta{
			Version:     "2.0",
			LastUpdated: time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
			Confidence:  0.72,
		},
		FirstSong: []models.SongPrediction{
			{
				Rank: 1, Song: "NUEVAYoL", Album: "DeBÍ TiRAR MáS FOToS",
				Reasoning: "Album opener, NYC anthem, strongest statement piece for an opening slot",
				Factors:   models.Factors{Streaming: 88, Concert: 92, ShowFit: 95, Cultural: 96, AlbumPush: 90},
			},
			{
				Rank: 2, Song: "Tití Me Preguntó", Album: "Un Verano Sin Ti",
				Reasoning: "Biggest crossover hit, instantly recognizable intro",
				Factors:   models.Factors{Streaming: 96, Concert: 90, ShowFit: 82, Cultural: 80, AlbumPush: 55},
			},
			{
				Rank: 3, Song: "BAILE INoLVIDABLE", Album: "DeBÍ TiRAR MáS FOToS",
				Reasoning: "Salsa centerpiece of the current album cycle",
				Factors:   models.Factors{Streaming: 84, Concert: 88, ShowFit: 78, Cultural: 90, AlbumPush: 88},
			},
			{
				Rank: 4, Song: "DtMF", Album: "DeBÍ TiRAR MáS FOToS",
				Reasoning: "Title track, emotional weight but slow tempo for an opener",
				Factors:   models.Factors{Streaming: 90, Concert: 80, ShowFit: 60, Cultural: 85, AlbumPush: 85},
			},
			{
				Rank: 5, Song: "DÁKITI", Album: "EL ÚLTIMO TOUR DEL MUNDO",
				Reasoning: "Global #1 but an older cycle; more likely mid-set",
				Factors:   models.Factors{Streaming: 94, Concert: 78, ShowFit: 65, Cultural: 70, AlbumPush: 40},
			},
		},
		LastSong: []models.SongPrediction{
			{
				Rank: 1, Song: "DtMF", Album: "DeBÍ TiRAR MáS FOToS",
				Reasoning: "Emotional closer, singalong outro",
				Factors:   models.Factors{Streaming: 90, Concert: 85, ShowFit: 88, Cultural: 85, AlbumPush: 85},
			},
			{
				Rank: 2, Song: "Tití Me Preguntó", Album: "Un Verano Sin Ti",
				Reasoning: "High-energy finish if the set closes on hits",
				Factors:   models.Factors{Streaming: 96, Concert: 90, ShowFit: 75, Cultural: 80, AlbumPush: 55},
			},
		},
		Setlist: []models.SetlistSlot{
			{Position: 1, Song: "NUEVAYoL", Album: "DeBÍ TiRAR MáS FOToS", InclusionProbability: 0.93},
			{Position: 2, Song: "Tití Me Preguntó", Album: "Un Verano Sin Ti", InclusionProbability: 0.91},
			{Position: 3, Song: "DÁKITI", Album: "EL ÚLTIMO TOUR DEL MUNDO", InclusionProbability: 0.88},
			{Position: 4, Song: "Me Porto Bonito", Album: "Un Verano Sin Ti", InclusionProbability: 0.84},
			{Position: 5, Song: "BAILE INoLVIDABLE", Album: "DeBÍ TiRAR MáS FOToS", InclusionProbability: 0.86},
			{Position: 6, Song: "DtMF", Album: "DeBÍ TiRAR MáS FOToS", Guest: "Chuwi", InclusionProbability: 0.80},
		},
		SongTiers: models.SongTiers{
			Locks:      []string{"NUEVAYoL", "Tití Me Preguntó"},
			VeryLikely: []string{"DÁKITI", "BAILE INoLVIDABLE"},
			Likely:     []string{"Me Porto Bonito", "DtMF"},
			Possible:   []string{"CALLAITA", "MONACO"},
			Unlikely:   []string{"Safaera"},
		},
		Guests: []models.GuestPrediction{
			{Name: "Rauw Alejandro", Probability: 0.35, AssociatedSong: "", Reasoning: "Frequent collaborator, same-market draw"},
			{Name: "Cardi B", Probability: 0.40, AssociatedSong: "I Like It", Reasoning: "Shared crossover hit with mainstream reach"},
			{Name: "J Balvin", Probability: 0.20, AssociatedSong: "I Like It", Reasoning: "History of joint performances, cooled relationship"},
			{Name: "Chuwi", Probability: 0.45, AssociatedSong: "DtMF", Reasoning: "Featured on the current album's live arrangements"},
		},
		UpdateLog: []models.UpdateLogEntry{},
	}
}
