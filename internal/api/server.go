// Package api exposes the prediction model, market comparison and
// portfolio analysis over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/encore-edge/internal/logger"
	"github.com/yourusername/encore-edge/internal/markets"
	"github.com/yourusername/encore-edge/internal/model"
	"github.com/yourusername/encore-edge/internal/models"
)

// PortfolioFetcher retrieves the external account snapshot. Nil when
// portfolio integration is disabled.
type PortfolioFetcher interface {
	Fetch(ctx context.Context) (*models.Portfolio, error)
}

// UpdateLogSink durably persists update-log entries. Nil when the
// database is disabled; persistence failures never fail the update.
type UpdateLogSink interface {
	SaveEntry(ctx context.Context, entry models.UpdateLogEntry) error
}

// Config holds the configuration for the API server.
type Config struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server is the HTTP API server.
type Server struct {
	config     Config
	store      *model.Store
	comparison *markets.ComparisonService
	portfolio  PortfolioFetcher
	sink       UpdateLogSink
	audit      *logger.AuditLogger
	logger     *logrus.Logger
	server     *http.Server
}

// NewServer creates a new API server. portfolio and sink may be nil.
func NewServer(
	cfg Config,
	store *model.Store,
	comparison *markets.ComparisonService,
	portfolio PortfolioFetcher,
	sink UpdateLogSink,
	log *logrus.Logger,
) *Server {
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 10 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 15 * time.Second
	}

	return &Server{
		config:     cfg,
		store:      store,
		comparison: comparison,
		portfolio:  portfolio,
		sink:       sink,
		audit:      logger.NewAuditLogger(log),
		logger:     log,
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/predictions", s.handlePredictions)
	mux.HandleFunc("/api/markets", s.handleMarkets)
	mux.HandleFunc("/api/edges/top", s.handleTopEdge)
	mux.HandleFunc("/api/portfolio", s.handlePortfolio)
	mux.HandleFunc("/api/update", s.handleUpdate)
	return mux
}

// Start starts the API server in the background.
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:         s.config.Address,
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		s.logger.WithFields(logrus.Fields{
			"address": s.config.Address,
		}).Info("API server starting")

		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.WithError(err).Error("API server error")
		}
	}()

	go func() {
		<-ctx.Done()
		s.Shutdown()
	}()

	return nil
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	if s.server == nil {
		return nil
	}

	s.logger.Info("API server shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.server.Shutdown(ctx)
}
