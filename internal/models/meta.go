package models

import (
	"time"

	"github.com/google/uuid"
)

// ModelMeta describes the model snapshot as a whole.
type ModelMeta struct {
	Version     string    `json:"version" validate:"required"`
	LastUpdated time.Time `json:"last_updated"`
	Confidence  float64   `json:"confidence" validate:"gte=0,lte=1"`
}

// UpdateLogEntry records one administrative override. The update log is
// append-only and never truncated.
type UpdateLogEntry struct {
	ID        uuid.UUID `json:"id"`
	Version   string    `json:"version"`
	Entity    string    `json:"entity"`
	OldValue  float64   `json:"old_value"`
	NewValue  float64   `json:"new_value"`
	Changes   string    `json:"changes"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}

// PredictionModel is the full in-memory model snapshot exposed to readers.
type PredictionModel struct {
	Meta      ModelMeta         `json:"meta"`
	FirstSong []SongPrediction  `json:"first_song"`
	LastSong  []SongPrediction  `json:"last_song"`
	Setlist   []SetlistSlot     `json:"setlist"`
	SongTiers SongTiers         `json:"song_tiers"`
	Guests    []GuestPrediction `json:"guests"`
	UpdateLog []UpdateLogEntry  `json:"update_log"`
}
