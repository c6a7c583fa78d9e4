package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/yourusername/encore-edge/internal/edge"
	"github.com/yourusername/encore-edge/internal/metrics"
	"github.com/yourusername/encore-edge/internal/models"
	"github.com/yourusername/encore-edge/internal/portfolio"
)

// marketDataNote accompanies every market payload so consumers never
// mistake venue prices for model output.
const marketDataNote = "Market data is for COMPARISON only. Our model probabilities are calculated independently."

// envelope is the JSON response shape shared by all endpoints.
type envelope struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Message   string      `json:"message,omitempty"`
	Note      string      `json:"note,omitempty"`
	Error     string      `json:"error,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// UpdateRequest is the admin model-update payload. Exactly one of
// NewProbability and Factors must be set.
type UpdateRequest struct {
	Category       string          `json:"category" validate:"omitempty,oneof=first_song last_song songs_played guest"`
	Entity         string          `json:"entity" validate:"required"`
	NewProbability *float64        `json:"new_probability" validate:"omitempty,gte=0,lte=1"`
	Factors        *models.Factors `json:"factors"`
	Reasoning      string          `json:"reasoning"`
	Author         string          `json:"author"`
}

var validate = validator.New()

func writeJSON(w http.ResponseWriter, status int, resp envelope) {
	resp.Timestamp = time.Now().UTC().Format(time.RFC3339)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: false, Error: message})
}

// handlePredictions serves the current model snapshot.
func (s *Server) handlePredictions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	snapshot, err := s.store.Snapshot()
	if err != nil {
		s.logger.WithError(err).Error("Failed to load model snapshot")
		writeError(w, http.StatusInternalServerError, "failed to load predictions")
		return
	}

	writeJSON(w, http.StatusOK, envelope{Success: true, Data: snapshot})
}

// handleMarkets serves the cached venue comparison and its edges.
func (s *Server) handleMarkets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	comparison := s.comparison.GetComparison(r.Context())
	writeJSON(w, http.StatusOK, envelope{
		Success: true,
		Data:    comparison,
		Note:    marketDataNote,
	})
}

// handleTopEdge serves the strongest current mispricing plus all
// significant edges.
func (s *Server) handleTopEdge(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	comparison := s.comparison.GetComparison(r.Context())
	writeJSON(w, http.StatusOK, envelope{
		Success: true,
		Data: map[string]interface{}{
			"top_edge":    edge.Top(comparison.Edges),
			"significant": edge.Significant(comparison.Edges),
			"total_edges": len(comparison.Edges),
		},
	})
}

// handlePortfolio fetches the account snapshot and reconciles it
// against current edges. An unavailable portfolio is a soft failure,
// never a partial response.
func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if s.portfolio == nil {
		metrics.ReconciliationsTotal.WithLabelValues("unavailable").Inc()
		writeJSON(w, http.StatusOK, envelope{
			Success: false,
			Error:   "Portfolio not available. Configure exchange credentials to enable it.",
		})
		return
	}

	snapshot, err := s.portfolio.Fetch(r.Context())
	if err != nil {
		metrics.ReconciliationsTotal.WithLabelValues("unavailable").Inc()
		s.audit.LogPortfolioAccess(false, 0)
		if errors.Is(err, models.ErrPortfolioUnavailable) {
			writeJSON(w, http.StatusOK, envelope{
				Success: false,
				Error:   "Portfolio not available. Configure exchange credentials to enable it.",
			})
			return
		}
		s.logger.WithError(err).Error("Portfolio fetch failed")
		writeError(w, http.StatusInternalServerError, "failed to fetch portfolio")
		return
	}
	s.audit.LogPortfolioAccess(true, len(snapshot.Positions))

	comparison := s.comparison.GetComparison(r.Context())
	analysis := portfolio.Reconcile(*snapshot, comparison.Edges)

	writeJSON(w, http.StatusOK, envelope{Success: true, Data: analysis})
}

// handleUpdate applies an admin model update on POST and serves the
// recent update log on GET.
func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleUpdateLog(w, r)
	case http.MethodPost:
		s.handleApplyUpdate(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleUpdateLog(w http.ResponseWriter, r *http.Request) {
	limit := 5
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	snapshot, err := s.store.Snapshot()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load model")
		return
	}

	entries, err := s.store.UpdateLog(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load update log")
		return
	}

	writeJSON(w, http.StatusOK, envelope{
		Success: true,
		Data: map[string]interface{}{
			"version":      snapshot.Meta.Version,
			"last_updated": snapshot.Meta.LastUpdated,
			"update_log":   entries,
		},
	})
}

func (s *Server) handleApplyUpdate(w http.ResponseWriter, r *http.Request) {
	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid update request: "+err.Error())
		return
	}

	category := models.MarketCategory(req.Category)
	if req.Category == "" {
		category = models.CategoryFirstSong
	}
	if req.Reasoning == "" {
		req.Reasoning = "Manual update"
	}
	if req.Author == "" {
		req.Author = "admin"
	}

	switch {
	case req.NewProbability != nil:
		entry, err := s.store.SetProbability(category, req.Entity, *req.NewProbability, req.Reasoning, req.Author)
		if err != nil {
			s.writeUpdateError(w, req.Entity, err)
			return
		}
		metrics.ModelUpdatesTotal.WithLabelValues("override").Inc()
		s.audit.LogProbabilityOverride(req.Entity, string(category), entry.OldValue, entry.NewValue, req.Author, entry.CreatedAt)
		s.persistEntry(r, *entry)
		s.comparison.InvalidateCache()

		writeJSON(w, http.StatusOK, envelope{
			Success: true,
			Data:    entry,
			Message: "Updated " + req.Entity + " probability",
		})

	case req.Factors != nil:
		updated, err := s.store.UpdateFactors(category, req.Entity, *req.Factors, req.Reasoning)
		if err != nil {
			s.writeUpdateError(w, req.Entity, err)
			return
		}
		metrics.ModelUpdatesTotal.WithLabelValues("factors").Inc()
		s.audit.LogFactorUpdate(req.Entity, string(category), updated.Probability, req.Reasoning)
		s.comparison.InvalidateCache()

		writeJSON(w, http.StatusOK, envelope{
			Success: true,
			Data:    updated,
			Message: "Rescored " + req.Entity + " from factors",
		})

	default:
		writeError(w, http.StatusBadRequest, "new_probability or factors required")
	}
}

func (s *Server) writeUpdateError(w http.ResponseWriter, entity string, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		writeError(w, http.StatusNotFound, "entity \""+entity+"\" not found")
	case errors.Is(err, models.ErrInvalidProbability):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.WithError(err).Error("Model update failed")
		writeError(w, http.StatusInternalServerError, "failed to update model")
	}
}

// persistEntry mirrors an update-log entry into the durable sink when
// one is configured.
func (s *Server) persistEntry(r *http.Request, entry models.UpdateLogEntry) {
	if s.sink == nil {
		return
	}
	if err := s.sink.SaveEntry(r.Context(), entry); err != nil {
		s.logger.WithError(err).Warn("Failed to persist update-log entry")
	}
}
