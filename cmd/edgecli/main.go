package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/encore-edge/internal/config"
	"github.com/yourusername/encore-edge/internal/edge"
	"github.com/yourusername/encore-edge/internal/logger"
	"github.com/yourusername/encore-edge/internal/markets"
	"github.com/yourusername/encore-edge/internal/model"
	"github.com/yourusername/encore-edge/internal/models"
	"github.com/yourusername/encore-edge/internal/portfolio"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile string
	appLog     *logrus.Logger
	cfg        *config.Config
	store      *model.Store
	comparison *markets.ComparisonService
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(predictionsCmd)
	rootCmd.AddCommand(topCmd)
	rootCmd.AddCommand(portfolioCmd)
}

var rootCmd = &cobra.Command{
	Use:   "edgecli",
	Short: "Inspect halftime show predictions and market edges",
	Long:  `Compares the independent halftime show prediction model against live prediction-market prices and reports mispricings.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		setupDependencies()
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig() error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}
	return config.Validate(cfg)
}

func setupDependencies() {
	appLog = logger.NewLogger("warn")
	store = model.NewStore(cfg.Model.SeedPath, appLog)

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

	comparison = markets.NewComparisonService(
		[]markets.VenueClient{kalshiClient, polymarketClient},
		store,
		cfg.MarketsCacheTTL(),
		cfg.MarketsFetchTimeout(),
		appLog,
	)
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run one full market scan",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		stats := comparison.Scan(ctx)

		fmt.Println("\n╔════════════════════════════════════════════════════════════════╗")
		fmt.Println("║                      Market Scan Results                       ║")
		fmt.Println("╚════════════════════════════════════════════════════════════════╝")
		fmt.Printf("\n  Markets Checked:   %d\n", stats.MarketsChecked)
		fmt.Printf("  Edges Calculated:  %d\n", stats.EdgesCalculated)
		fmt.Printf("  Significant Edges: %d\n", stats.SignificantEdges)
		if stats.TopEdge != nil {
			fmt.Println("\n  Top Edge:")
			printEdge(*stats.TopEdge)
		}
		fmt.Println()
		return nil
	},
}

var predictionsCmd = &cobra.Command{
	Use:   "predictions",
	Short: "Display the current prediction model",
	RunE: func(cmd *cobra.Command, args []string) error {
		snapshot, err := store.Snapshot()
		if err != nil {
			return fmt.Errorf("failed to load model: %w", err)
		}

		fmt.Printf("\nModel version %s (updated %s, confidence %.2f)\n",
			snapshot.Meta.Version,
			snapshot.Meta.LastUpdated.Format("2006-01-02"),
			snapshot.Meta.Confidence)

		fmt.Println("\nFirst Song:")
		for _, p := range snapshot.FirstSong {
			fmt.Printf("  %2d. %-28s %5.1f%%  (%s)\n", p.Rank, p.Song, p.Probability*100, p.Confidence)
		}

		fmt.Println("\nGuests:")
		for _, g := range snapshot.Guests {
			fmt.Printf("      %-28s %5.1f%%\n", g.Name, g.Probability*100)
		}
		fmt.Println()
		return nil
	},
}

var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Show the largest model-vs-market edges",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		result := comparison.GetComparison(ctx)
		if len(result.Edges) == 0 {
			fmt.Println("No markets matched any model candidate.")
			return nil
		}

		significant := edge.Significant(result.Edges)
		fmt.Printf("\n%d edges calculated, %d significant\n\n", len(result.Edges), len(significant))
		for _, e := range result.Edges {
			printEdge(e)
		}
		fmt.Println()
		return nil
	},
}

var portfolioCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Reconcile exchange positions against the model",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cfg.Portfolio.Enabled {
			return fmt.Errorf("portfolio integration is disabled; configure exchange credentials to enable it")
		}

		pem := []byte(cfg.Portfolio.PrivateKeyPEM)
		if len(pem) == 0 {
			var err error
			pem, err = os.ReadFile(cfg.Portfolio.PrivateKeyPath)
			if err != nil {
				return fmt.Errorf("failed to read exchange private key: %w", err)
			}
		}
		signer, err := portfolio.NewRequestSigner(cfg.Portfolio.APIKeyID, pem)
		if err != nil {
			return fmt.Errorf("failed to parse exchange private key: %w", err)
		}

		httpCfg := markets.DefaultHTTPClientConfig()
		httpCfg.Timeout = cfg.MarketsFetchTimeout()
		client := portfolio.NewClient(portfolio.ClientConfig{
			APIURL:        cfg.Portfolio.APIURL,
			TickerFilters: cfg.Portfolio.TickerFilters,
		}, markets.NewVenueHTTPClient(httpCfg, appLog), signer, appLog)

		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		snapshot, err := client.Fetch(ctx)
		if err != nil {
			return err
		}

		result := comparison.GetComparison(ctx)
		analysis := portfolio.Reconcile(*snapshot, result.Edges)

		fmt.Printf("\nBalance: $%.2f   Unrealized PnL: $%+.2f\n",
			analysis.Portfolio.Balance, analysis.Portfolio.TotalUnrealizedPnL)

		fmt.Println("\nPositions:")
		if len(analysis.Recommendations) == 0 {
			fmt.Println("  (none)")
		}
		for _, rec := range analysis.Recommendations {
			fmt.Printf("  %-8s %-36s %s side, edge %+.1f%%\n",
				rec.Action, rec.Position.Ticker, rec.Position.Side, rec.ModelEdge*100)
			fmt.Printf("           %s\n", rec.Reasoning)
		}

		if len(analysis.MissedOpportunities) > 0 {
			fmt.Println("\nMissed Opportunities:")
			for _, m := range analysis.MissedOpportunities {
				fmt.Printf("  %-36s edge %+.1f%% (%s)\n", m.Entity, m.Edge*100, m.Recommendation)
			}
		}
		fmt.Println()
		return nil
	},
}

func printEdge(e models.EdgeCalculation) {
	fmt.Printf("  %-8s %-28s %-10s model %5.1f%% vs market %5.1f%% = %+.1f%% (%s)\n",
		e.Recommendation, e.Entity, e.Platform,
		e.ModelProbability*100, e.MarketProbability*100, e.Edge*100, e.Confidence)
}
