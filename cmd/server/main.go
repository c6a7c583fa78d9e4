// Package main provides the entry point for the Encore Edge server.
package main

import (
	"context"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/encore-edge/internal/api"
	"github.com/yourusername/encore-edge/internal/config"
	"github.com/yourusername/encore-edge/internal/database"
	"github.com/yourusername/encore-edge/internal/health"
	"github.com/yourusername/encore-edge/internal/logger"
	"github.com/yourusername/encore-edge/internal/markets"
	"github.com/yourusername/encore-edge/internal/metrics"
	"github.com/yourusername/encore-edge/internal/model"
	"github.com/yourusername/encore-edge/internal/portfolio"
	"github.com/yourusername/encore-edge/internal/repository"
	"github.com/yourusername/encore-edge/internal/scheduler"
	"github.com/yourusername/encore-edge/internal/tracing"
)

func main() {
	var (
		cfg    *config.Config
		err    error
		appLog *logrus.Logger
		db     *database.DB
	)

	// Load configuration
	cfg, err = config.LoadWithDefaults(os.Getenv("ENCORE_EDGE_CONFIG_PATH"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Load AWS secrets if enabled
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			log.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			log.Fatalf("Failed to load secrets: %v", err)
		}
	}

	// Validate configuration
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if err := config.ValidateEnvironment(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Set up logging
	appLog = logger.NewLogger(cfg.App.LogLevel)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"log_level":   cfg.App.LogLevel,
	}).Info("Encore Edge server starting")

	// Initialize tracing
	if err := tracing.Initialize(tracing.Config{
		ServiceName:  cfg.App.Name,
		Enabled:      cfg.Tracing.Enabled,
		SamplingRate: cfg.Tracing.SamplingRate,
		DaemonAddr:   cfg.Tracing.DaemonAddr,
	}, appLog); err != nil {
		appLog.WithError(err).Fatal("Failed to initialize tracing")
	}

	// Initialize optional update-log persistence
	var sink api.UpdateLogSink
	if cfg.Database.Enabled {
		db, err = database.Initialize(context.Background(), cfg)
		if err != nil {
			appLog.WithError(err).Fatal("Failed to connect to database")
		}
		defer db.Close()

		repos := repository.NewRepositories(db)
		sink = repos.UpdateLog
		appLog.Info("Database connection established")
	}

	// Initialize the prediction model store
	store := model.NewStore(cfg.Model.SeedPath, appLog)
	if err := store.Healthy(); err != nil {
		appLog.WithError(err).Fatal("Failed to load prediction model")
	}
	appLog.Info("Prediction model loaded")

	// Initialize venue clients. One HTTP client per venue so a tripped
	// circuit breaker never affects the other venue.
	httpCfg := markets.DefaultHTTPClientConfig()
	httpCfg.Timeout = cfg.MarketsFetchTimeout()
	httpCfg.MaxRetries = cfg.Markets.MaxRetries
	httpCfg.RateLimit = cfg.Markets.RateLimit

	kalshiClient := markets.NewKalshiClient(markets.KalshiConfig{
		APIURL:            cfg.Markets.Kalshi.APIURL,
		FirstSongSeries:   cfg.Markets.Kalshi.FirstSongSeries,
		SongsPlayedSeries: cfg.Markets.Kalshi.SongsPlayedSeries,
		GuestSeries:       cfg.Markets.Kalshi.GuestSeries,
		MarketLimit:       cfg.Markets.Kalshi.MarketLimit,
	}, markets.NewVenueHTTPClient(httpCfg, appLog), appLog)

	polymarketClient := markets.NewPolymarketClient(markets.PolymarketConfig{
		GammaURL:    cfg.Markets.Polymarket.GammaURL,
		SearchTerms: cfg.Markets.Polymarket.SearchTerms,
		MarketLimit: cfg.Markets.Polymarket.MarketLimit,
	}, markets.NewVenueHTTPClient(httpCfg, appLog), appLog)

	comparison := markets.NewComparisonService(
		[]markets.VenueClient{kalshiClient, polymarketClient},
		store,
		cfg.MarketsCacheTTL(),
		cfg.MarketsFetchTimeout(),
		appLog,
	)

	// Initialize the authenticated portfolio client when configured
	var portfolioFetcher api.PortfolioFetcher
	if cfg.Portfolio.Enabled {
		pem := []byte(cfg.Portfolio.PrivateKeyPEM)
		if len(pem) == 0 {
			pem, err = os.ReadFile(cfg.Portfolio.PrivateKeyPath)
			if err != nil {
				appLog.WithError(err).Fatal("Failed to read exchange private key")
			}
		}
		signer, err := portfolio.NewRequestSigner(cfg.Portfolio.APIKeyID, pem)
		if err != nil {
			appLog.WithError(err).Fatal("Failed to parse exchange private key")
		}
		portfolioFetcher = portfolio.NewClient(portfolio.ClientConfig{
			APIURL:        cfg.Portfolio.APIURL,
			TickerFilters: cfg.Portfolio.TickerFilters,
		}, markets.NewVenueHTTPClient(httpCfg, appLog), signer, appLog)
		appLog.Info("Portfolio client initialized")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start the scheduled market scan
	if cfg.Scheduler.Enabled {
		sched := scheduler.NewScheduler(comparison, appLog)
		if cfg.Tracing.Enabled {
			sched.EnableTracing()
		}
		if err := sched.ScheduleScan(cfg.Scheduler.ScanSchedule); err != nil {
			appLog.WithError(err).Fatal("Failed to schedule market scan")
		}
		if err := sched.Start(); err != nil {
			appLog.WithError(err).Fatal("Failed to start scheduler")
		}
		defer func() {
			if err := sched.Stop(); err != nil {
				appLog.WithError(err).Error("Failed to stop scheduler")
			}
		}()
		appLog.WithField("schedule", cfg.Scheduler.ScanSchedule).Info("Market scan scheduler started")
	}

	// Start the health check server
	healthCfg := health.Config{
		ServiceName: cfg.App.Name,
		Logger:      appLog,
		Model:       store,
	}
	// The API server owns the main port; health defaults next to it
	// unless HEALTH_PORT overrides.
	if os.Getenv("HEALTH_PORT") == "" {
		healthCfg.Port = strconv.Itoa(cfg.Server.Port + 1)
	}
	if db != nil {
		healthCfg.DB = db
	}
	healthServer := health.NewServer(healthCfg)
	if err := healthServer.Start(ctx); err != nil {
		appLog.WithError(err).Fatal("Failed to start health server")
	}
	healthServer.SetReady(true)

	// Start the metrics server
	if cfg.Metrics.Enabled {
		metricsMux := http.NewServeMux()
		metricsMux.Handle(cfg.Metrics.Path, metrics.Handler())
		metricsServer := &http.Server{
			Addr:    addrForPort(cfg.Server.Host, cfg.Metrics.Port),
			Handler: metricsMux,
		}
		go func() {
			appLog.WithField("addr", metricsServer.Addr).Info("Metrics server starting")
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				appLog.WithError(err).Error("Metrics server failed")
			}
		}()
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				appLog.WithError(err).Error("Failed to stop metrics server")
			}
		}()
	}

	// Start the API server
	apiServer := api.NewServer(api.Config{
		Address:      cfg.ServerAddress(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
	}, store, comparison, portfolioFetcher, sink, appLog)
	if err := apiServer.Start(ctx); err != nil {
		appLog.WithError(err).Fatal("Failed to start API server")
	}
	appLog.WithField("addr", cfg.ServerAddress()).Info("API server started")

	// Wait for a shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	appLog.WithField("signal", sig.String()).Info("Shutdown signal received")

	healthServer.SetReady(false)
	cancel()

	if err := apiServer.Shutdown(); err != nil {
		appLog.WithError(err).Error("Failed to stop API server")
	}
	if err := healthServer.Shutdown(); err != nil {
		appLog.WithError(err).Error("Failed to stop health server")
	}

	// Give in-flight requests a moment to drain before deferred cleanup
	time.Sleep(2 * time.Second)
	appLog.Info("Encore Edge server stopped")
}

func addrForPort(host string, port int) string {
	if host == "" {
		host = "0.0.0.0"
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}
