package models

// ConfidenceLevel is a qualitative confidence label derived from
// probability magnitude and factor consistency.
type ConfidenceLevel string

const (
	ConfidenceLow      ConfidenceLevel = "low"
	ConfidenceMedium   ConfidenceLevel = "medium"
	ConfidenceHigh     ConfidenceLevel = "high"
	ConfidenceVeryHigh ConfidenceLevel = "very_high"
)

// Factors holds the five 0-100 scores that drive a song's probability.
type Factors struct {
	Streaming float64 `json:"streaming" validate:"gte=0,lte=100"`
	Concert   float64 `json:"concert" validate:"gte=0,lte=100"`
	ShowFit   float64 `json:"show_fit" validate:"gte=0,lte=100"`
	Cultural  float64 `json:"cultural" validate:"gte=0,lte=100"`
	AlbumPush float64 `json:"album_push" validate:"gte=0,lte=100"`
}

// Values returns the factor scores as a slice, in a fixed order.
func (f Factors) Values() []float64 {
	return []float64{f.Streaming, f.Concert, f.ShowFit, f.Cultural, f.AlbumPush}
}

// SongPrediction represents the model's view of one song candidate.
// Candidates are identified by display name, matched case-insensitively.
type SongPrediction struct {
	Rank        int             `json:"rank"`
	Song        string          `json:"song" validate:"required"`
	Album       string          `json:"album"`
	Probability float64         `json:"probability" validate:"gte=0,lte=1"`
	Confidence  ConfidenceLevel `json:"confidence"`
	Reasoning   string          `json:"reasoning"`
	Factors     Factors         `json:"factors"`
}

// GuestPrediction represents a predicted guest appearance.
type GuestPrediction struct {
	Name           string  `json:"name" validate:"required"`
	Probability    float64 `json:"probability" validate:"gte=0,lte=1"`
	AssociatedSong string  `json:"associated_song,omitempty"`
	Reasoning      string  `json:"reasoning"`
}

// SetlistSlot represents one position in the predicted setlist with its
// inclusion probability.
type SetlistSlot struct {
	Position             int     `json:"position"`
	Song                 string  `json:"song" validate:"required"`
	Album                string  `json:"album"`
	Guest                string  `json:"guest,omitempty"`
	InclusionProbability float64 `json:"inclusion_probability" validate:"gte=0,lte=1"`
}

// SongTiers buckets setlist songs by how locked-in the model considers them.
type SongTiers struct {
	Locks      []string `json:"locks"`
	VeryLikely []string `json:"very_likely"`
	Likely     []string `json:"likely"`
	Possible   []string `json:"possible"`
	Unlikely   []string `json:"unlikely"`
}
