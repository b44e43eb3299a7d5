// Package main provides the entry point for the backtesting CLI tool.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/yourusername/steady-better/internal/backtest"
	"github.com/yourusername/steady-better/internal/config"
	"github.com/yourusername/steady-better/internal/database"
	"github.com/yourusername/steady-better/internal/dataset"
	"github.com/yourusername/steady-better/internal/health"
	applogger "github.com/yourusername/steady-better/internal/logger"
	"github.com/yourusername/steady-better/internal/metrics"
	"github.com/yourusername/steady-better/internal/models"
	"github.com/yourusername/steady-better/internal/repository"
	"github.com/yourusername/steady-better/internal/staking"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile  string
	selection   string
	filterName  string
	filterLow   float64
	filterHigh  float64
	presetName  string
	bankroll    float64
	baseStake   float64
	exportDir   string
	dbEnabled   bool
	concurrency int
	metricsAddr string
	logLevel    string

	appLog *logrus.Logger
	cfg    *config.Config
	db     *database.DB
	repos  *repository.Repositories
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "config/config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override log level (debug, info, warn, error)")

	runCmd.Flags().StringVarP(&selection, "selection", "s", "", "Outcome selection policy (min_coef, max_coef, draw, home, away)")
	runCmd.Flags().StringVarP(&filterName, "filter", "f", "", "Row filter policy (min_coef, range_coef)")
	runCmd.Flags().Float64Var(&filterLow, "low", 0, "Filter lower odds bound")
	runCmd.Flags().Float64Var(&filterHigh, "high", 0, "Filter upper odds bound (range_coef only)")
	runCmd.Flags().StringVarP(&presetName, "preset", "p", "", "Named filter preset (value, uk, spain)")
	runCmd.Flags().Float64Var(&bankroll, "bankroll", 0, "Override initial bankroll")
	runCmd.Flags().Float64Var(&baseStake, "base-stake", 0, "Override base stake")
	runCmd.Flags().StringVarP(&exportDir, "export-dir", "o", "", "Override export directory")
	runCmd.Flags().BoolVar(&dbEnabled, "db", false, "Persist run results to PostgreSQL")
	runCmd.Flags().IntVar(&concurrency, "concurrency", 4, "Maximum season files processed in parallel")
	runCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address while running")
}

var rootCmd = &cobra.Command{
	Use:   "steady-backtest",
	Short: "Backtest staking plans over historical football seasons",
	Long: `Replay a unit-progression staking plan over historical season files,
one independent run per file, and export per-match results.`,
	SilenceUsage: true,
}

var runCmd = &cobra.Command{
	Use:   "run [files...]",
	Short: "Run the staking simulation over one or more season files",
	Args:  cobra.MinimumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(cmd); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		return setupDependencies(cmd.Context())
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBacktests(cmd.Context(), args)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("steady-backtest %s\n", Version)
		fmt.Printf("  commit: %s\n", GitCommit)
		fmt.Printf("  built:  %s\n", BuildDate)
	},
}

func main() {
	rootCmd.AddCommand(runCmd, versionCmd)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		if appLog != nil {
			appLog.WithField("signal", sig).Info("Shutdown signal received")
		}
		cancel()
	}()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig(cmd *cobra.Command) error {
	loaded, err := config.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}
	cfg = loaded

	if err := applyFlagOverrides(cmd); err != nil {
		return err
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	return config.Validate(cfg)
}

// applyFlagOverrides layers explicit command-line flags over the loaded file.
// A preset is applied first so --low/--high can still fine-tune it.
func applyFlagOverrides(cmd *cobra.Command) error {
	flags := cmd.Flags()

	if logLevel != "" {
		cfg.App.LogLevel = logLevel
	}
	if presetName != "" {
		preset, err := config.FilterPreset(presetName)
		if err != nil {
			return err
		}
		cfg.Strategy.Filter = preset
	}
	if selection != "" {
		cfg.Strategy.Selection = selection
	}
	if filterName != "" {
		cfg.Strategy.Filter.Policy = filterName
	}
	if flags.Changed("low") {
		cfg.Strategy.Filter.Low = filterLow
	}
	if flags.Changed("high") {
		high := filterHigh
		cfg.Strategy.Filter.High = &high
	}
	if flags.Changed("bankroll") {
		cfg.Simulation.InitialBankroll = bankroll
	}
	if flags.Changed("base-stake") {
		cfg.Simulation.BaseStake = baseStake
	}
	if exportDir != "" {
		cfg.Export.Dir = exportDir
	}
	if flags.Changed("db") {
		cfg.Database.Enabled = dbEnabled
	}
	if metricsAddr != "" {
		cfg.Metrics.Enabled = true
	}

	return nil
}

func setupDependencies(ctx context.Context) error {
	appLog = applogger.NewLogger(cfg.App.LogLevel)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"log_level":   cfg.App.LogLevel,
	}).Info("Steady Better backtester starting")

	if cfg.Database.Enabled {
		var err error
		db, err = database.Initialize(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		repos, err = repository.NewRepositories(db)
		if err != nil {
			return fmt.Errorf("failed to initialize repositories: %w", err)
		}
		appLog.Info("Database connection established")
	}

	return nil
}

// concurrencyLimit floors the flag value at 1; errgroup.SetLimit treats a
// non-positive limit as "start nothing" and every g.Go call would block.
func concurrencyLimit(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

func runBacktests(ctx context.Context, sources []string) error {
	if db != nil {
		defer db.Close()
	}

	stopMetrics := startMetricsServer()
	defer stopMetrics()

	reader := dataset.NewReader(appLog)
	fetcher := newFetcher()
	engine := backtest.NewEngine(staking.NewSimulator(staking.DAlembert{}), appLog)

	results := make([]*backtest.Result, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrencyLimit(concurrency))
	for i, source := range sources {
		i, source := i, source
		g.Go(func() error {
			result, err := runSingle(gctx, engine, reader, fetcher, source)
			if err != nil {
				return fmt.Errorf("%s: %w", source, err)
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	exporter := backtest.NewExporter(cfg.Export.Dir, engine.Logger())
	for _, result := range results {
		if err := exportResult(exporter, result); err != nil {
			return err
		}
		fmt.Println(backtest.GenerateConsoleReport(result))
	}

	if repos != nil {
		if err := persistResults(ctx, results); err != nil {
			return err
		}
	}

	return nil
}

// runSingle executes one independent simulation over a season file, fetching
// it into the cache first when the source is a URL.
func runSingle(ctx context.Context, engine *backtest.Engine, reader *dataset.Reader, fetcher *dataset.Fetcher, source string) (*backtest.Result, error) {
	path := source
	if dataset.IsURL(source) {
		fetched, cached, err := fetcher.Fetch(ctx, source)
		if err != nil {
			return nil, err
		}
		if cached {
			appLog.WithField("path", fetched).Debug("Using cached season file")
		}
		path = fetched
	}

	records, skipped, err := reader.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		appLog.WithFields(logrus.Fields{
			"path":    path,
			"skipped": skipped,
		}).Warn("Season file contained incomplete rows")
	}

	runCfg, err := backtest.FromConfig(cfg, dataset.SeasonLabel(path))
	if err != nil {
		return nil, err
	}

	return engine.Run(ctx, runCfg, records)
}

func exportResult(exporter *backtest.Exporter, result *backtest.Result) error {
	if _, err := exporter.WriteStepCSV(result); err != nil {
		return fmt.Errorf("failed to write step CSV: %w", err)
	}
	if _, err := exporter.WriteRunJSON(result); err != nil {
		return fmt.Errorf("failed to write run JSON: %w", err)
	}
	if _, err := exporter.WriteCurveCSV(result); err != nil {
		return fmt.Errorf("failed to write bankroll curve: %w", err)
	}
	if cfg.Export.HTMLReport {
		if _, err := exporter.WriteHTMLReport(result); err != nil {
			return fmt.Errorf("failed to write HTML report: %w", err)
		}
	}
	return nil
}

func persistResults(ctx context.Context, results []*backtest.Result) error {
	runs := make([]*models.RunResult, 0, len(results))
	for _, result := range results {
		run := result.RunResult
		runs = append(runs, &run)
	}
	if err := repos.RunResult.SaveBatch(ctx, runs); err != nil {
		return fmt.Errorf("failed to persist run results: %w", err)
	}
	appLog.WithField("runs", len(runs)).Info("Run results persisted")
	return nil
}

func newFetcher() *dataset.Fetcher {
	httpCfg := dataset.DefaultHTTPClientConfig()
	httpCfg.Timeout = time.Duration(cfg.Dataset.TimeoutSeconds) * time.Second
	httpCfg.MaxRetries = cfg.Dataset.RetryAttempts
	httpCfg.RateLimit = cfg.Dataset.RequestsPerSecond
	httpCfg.Burst = cfg.Dataset.Burst

	client := dataset.NewRateLimitedHTTPClient(httpCfg, appLog)
	return dataset.NewFetcher(client, cfg.Dataset.CacheDir, appLog)
}

// startMetricsServer exposes the Prometheus registry and health probes for
// the duration of the batch when enabled. Returns a stop function safe to
// call unconditionally.
func startMetricsServer() func() {
	if !cfg.Metrics.Enabled {
		return func() {}
	}

	addr := metricsAddr
	if addr == "" {
		addr = cfg.GetMetricsAddr()
	}

	checkerCfg := health.Config{
		ServiceName: "steady-backtest",
		Version:     Version,
		Commit:      GitCommit,
		Logger:      appLog,
	}
	if db != nil {
		checkerCfg.DB = db
	}
	checker := health.NewChecker(checkerCfg)
	checker.SetReady(true)

	mux := http.NewServeMux()
	mux.Handle(cfg.Metrics.Path, metrics.Handler())
	checker.Register(mux)
	server := &http.Server{Addr: addr, Handler: mux}

	go func() {
		appLog.WithField("addr", addr).Info("Metrics endpoint listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.WithError(err).Error("Metrics server failed")
		}
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			appLog.WithError(err).Error("Failed to stop metrics server")
		}
	}
}
