package model

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/encore-edge/internal/models"
)

// Store owns the process-wide model snapshot. The snapshot is loaded
// lazily on first access and all writes are serialized through a single
// writer lock, so concurrent readers can never observe a candidate set
// mid-renormalization.
type Store struct {
	seedPath string
	logger   *logrus.Logger

	mu       sync.RWMutex
	snapshot *models.PredictionModel
}

// NewStore creates a store backed by the given seed file. An empty path
// falls back to the built-in default snapshot.
func NewStore(seedPath string, logger *logrus.Logger) *Store {
	return &Store{
		seedPath: seedPath,
		logger:   logger,
	}
}

// Snapshot returns a deep copy of the current model state, loading the
// seed on first access.
func (s *Store) Snapshot() (*models.PredictionModel, error) {
	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyModel(s.snapshot), nil
}

// Healthy reports whether the model snapshot is loadable. Used by the
// readiness probe.
func (s *Store) Healthy() error {
	return s.ensureLoaded()
}

// Invalidate drops the cached snapshot so the next read reloads from the
// seed. In-memory overrides are intentionally discarded; this is the
// administrative reset path.
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = nil
}

// ResolveProbability resolves a market label to the model probability in
// the given category. Matching is exact after case-folding; categories
// are never cross-searched.
func (s *Store) ResolveProbability(label string, category models.MarketCategory) (float64, bool) {
	if err := s.ensureLoaded(); err != nil {
		return 0, false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(label)
	switch category {
	case models.CategoryFirstSong:
		for i := range s.snapshot.FirstSong {
			if strings.ToLower(s.snapshot.FirstSong[i].Song) == needle {
				return s.snapshot.FirstSong[i].Probability, true
			}
		}
	case models.CategorySongsPlayed:
		for i := range s.snapshot.Setlist {
			if strings.ToLower(s.snapshot.Setlist[i].Song) == needle {
				return s.snapshot.Setlist[i].InclusionProbability, true
			}
		}
	case models.CategoryGuest:
		for i := range s.snapshot.Guests {
			if strings.ToLower(s.snapshot.Guests[i].Name) == needle {
				return s.snapshot.Guests[i].Probability, true
			}
		}
	}
	return 0, false
}

// UpdateFactors replaces a song's factor set, recomputes its score and
// confidence, and renormalizes the whole candidate set. The update and
// renormalization run as one critical section, so readers never see the
// set between the two steps.
func (s *Store) UpdateFactors(category models.MarketCategory, song string, factors models.Factors, reasoning string) (*models.SongPrediction, error) {
	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	set, err := s.songSet(category)
	if err != nil {
		return nil, err
	}

	idx := findSong(set, song)
	if idx < 0 {
		return nil, fmt.Errorf("update factors for %q: %w", song, models.ErrNotFound)
	}

	set[idx].Factors = factors
	score := Score(factors)
	set[idx].Probability = score
	set[idx].Confidence = Confidence(score, factors)
	if reasoning != "" {
		set[idx].Reasoning = reasoning
	}

	Normalize(set)
	s.snapshot.Meta.LastUpdated = time.Now().UTC()

	s.logger.WithFields(logrus.Fields{
		"song":        set[idx].Song,
		"category":    category,
		"probability": set[idx].Probability,
		"confidence":  set[idx].Confidence,
	}).Info("Song factors updated")

	out := set[idx]
	return &out, nil
}

// SetProbability sets a candidate's probability verbatim, bypassing the
// factor calculation, and appends one immutable entry to the update log.
// The rest of the set is NOT renormalized: overrides are allowed to break
// the sum-to-1 invariant until the next factor-driven update.
func (s *Store) SetProbability(category models.MarketCategory, name string, probability float64, reasoning, author string) (*models.UpdateLogEntry, error) {
	if probability < 0 || probability > 1 {
		return nil, models.ErrInvalidProbability
	}
	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	old, err := s.applyOverride(category, name, probability, reasoning)
	if err != nil {
		return nil, err
	}

	entry := models.UpdateLogEntry{
		ID:        uuid.New(),
		Version:   s.snapshot.Meta.Version,
		Entity:    name,
		OldValue:  old,
		NewValue:  probability,
		Changes:   fmt.Sprintf("Updated %s probability: %.4f -> %.4f", name, old, probability),
		Author:    author,
		CreatedAt: time.Now().UTC(),
	}
	s.snapshot.UpdateLog = append(s.snapshot.UpdateLog, entry)
	s.snapshot.Meta.LastUpdated = entry.CreatedAt

	s.logger.WithFields(logrus.Fields{
		"entity":    name,
		"category":  category,
		"old_value": old,
		"new_value": probability,
		"author":    author,
	}).Info("Direct probability override applied")

	return &entry, nil
}

// UpdateLog returns the most recent limit entries, oldest first. A
// non-positive limit returns the whole log.
func (s *Store) UpdateLog(limit int) ([]models.UpdateLogEntry, error) {
	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	log := s.snapshot.UpdateLog
	if limit > 0 && len(log) > limit {
		log = log[len(log)-limit:]
	}
	out := make([]models.UpdateLogEntry, len(log))
	copy(out, log)
	return out, nil
}

func (s *Store) applyOverride(category models.MarketCategory, name string, probability float64, reasoning string) (float64, error) {
	needle := strings.ToLower(name)

	switch category {
	case models.CategoryFirstSong, "":
		// First-song is the default override target.
		if idx := findSong(s.snapshot.FirstSong, name); idx >= 0 {
			return s.overrideSong(&s.snapshot.FirstSong[idx], probability, reasoning), nil
		}
	case models.CategoryLastSong:
		if idx := findSong(s.snapshot.LastSong, name); idx >= 0 {
			return s.overrideSong(&s.snapshot.LastSong[idx], probability, reasoning), nil
		}
	case models.CategorySongsPlayed:
		for i := range s.snapshot.Setlist {
			if strings.ToLower(s.snapshot.Setlist[i].Song) == needle {
				old := s.snapshot.Setlist[i].InclusionProbability
				s.snapshot.Setlist[i].InclusionProbability = probability
				return old, nil
			}
		}
	case models.CategoryGuest:
		for i := range s.snapshot.Guests {
			if strings.ToLower(s.snapshot.Guests[i].Name) == needle {
				old := s.snapshot.Guests[i].Probability
				s.snapshot.Guests[i].Probability = probability
				if reasoning != "" {
					s.snapshot.Guests[i].Reasoning = reasoning
				}
				return old, nil
			}
		}
	}
	return 0, fmt.Errorf("override for %q in category %q: %w", name, category, models.ErrNotFound)
}

func (s *Store) overrideSong(song *models.SongPrediction, probability float64, reasoning string) float64 {
	old := song.Probability
	song.Probability = probability
	if reasoning != "" {
		song.Reasoning = fmt.Sprintf("%s [Updated from %.1f%% to %.1f%%]", reasoning, old*100, probability*100)
	}
	return old
}

func (s *Store) songSet(category models.MarketCategory) ([]models.SongPrediction, error) {
	switch category {
	case models.CategoryFirstSong, "":
		return s.snapshot.FirstSong, nil
	case models.CategoryLastSong:
		return s.snapshot.LastSong, nil
	default:
		return nil, fmt.Errorf("category %q has no factor-scored candidate set: %w", category, models.ErrNotFound)
	}
}

func (s *Store) ensureLoaded() error {
	s.mu.RLock()
	loaded := s.snapshot != nil
	s.mu.RUnlock()
	if loaded {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot != nil {
		return nil
	}

	snapshot, err := s.load()
	if err != nil {
		return err
	}
	s.snapshot = snapshot
	return nil
}

func (s *Store) load() (*models.PredictionModel, error) {
	if s.seedPath == "" {
		m := defaultModel()
		Normalize(m.FirstSong)
		Normalize(m.LastSong)
		s.logger.Info("Model loaded from built-in seed")
		return m, nil
	}

	data, err := os.ReadFile(s.seedPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read model seed %s: %w", s.seedPath, err)
	}

	m := &models.PredictionModel{}
	if err := json.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("failed to parse model seed %s: %w", s.seedPath, err)
	}

	Normalize(m.FirstSong)
	Normalize(m.LastSong)

	s.logger.WithFields(logrus.Fields{
		"seed":       s.seedPath,
		"version":    m.Meta.Version,
		"first_song": len(m.FirstSong),
		"guests":     len(m.Guests),
	}).Info("Model loaded from seed file")

	return m, nil
}

func findSong(set []models.SongPrediction, name string) int {
	needle := strings.ToLower(name)
	for i := range set {
		if strings.ToLower(set[i].Song) == needle {
			return i
		}
	}
	return -1
}

func copyModel(m *models.PredictionModel) *models.PredictionModel {
	out := &models.PredictionModel{
		Meta:      m.Meta,
		FirstSong: append([]models.SongPrediction(nil), m.FirstSong...),
		LastSong:  append([]models.SongPrediction(nil), m.LastSong...),
		Setlist:   append([]models.SetlistSlot(nil), m.Setlist...),
		Guests:    append([]models.GuestPrediction(nil), m.Guests...),
		UpdateLog: append([]models.UpdateLogEntry(nil), m.UpdateLog...),
	}
	out.SongTiers = models.SongTiers{
		Locks:      append([]string(nil), m.SongTiers.Locks...),
		VeryLikely: append([]string(nil), m.SongTiers.VeryLikely...),
		Likely:     append([]string(nil), m.SongTiers.Likely...),
		Possible:   append([]string(nil), m.SongTiers.Possible...),
		Unlikely:   append([]string(nil), m.SongTiers.Unlikely...),
	}
	return out
}
