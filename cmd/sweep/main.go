// Package main provides the policy sweep CLI: a grid of selection policies
// and filter thresholds replayed over a single season file, ranked by
// composite score.
package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/yourusername/steady-better/internal/backtest"
	"github.com/yourusername/steady-better/internal/config"
	"github.com/yourusername/steady-better/internal/dataset"
	"github.com/yourusername/steady-better/internal/metrics"
	"github.com/yourusername/steady-better/internal/staking"
	"github.com/yourusername/steady-better/internal/strategy"
)

type gridCell struct {
	selection strategy.SelectionPolicy
	low       float64
}

func main() {
	var (
		configPath  = flag.String("config", "config/config.yaml", "Path to config file")
		file        = flag.String("file", "", "Season file path or URL (required)")
		selections  = flag.String("selections", "min_coef,max_coef,draw,home,away", "Comma-separated selection policies to sweep")
		filterName  = flag.String("filter", "min_coef", "Row filter policy applied at each threshold")
		lowMin      = flag.Float64("low-min", 1.50, "Lowest filter threshold")
		lowMax      = flag.Float64("low-max", 3.00, "Highest filter threshold")
		lowStep     = flag.Float64("low-step", 0.10, "Threshold increment")
		high        = flag.Float64("high", 0, "Upper odds bound for range filters (0 = unbounded)")
		output      = flag.String("output", "", "Comparison CSV path (default <export-dir>/sweep_<dataset>.csv)")
		top         = flag.Int("top", 10, "Number of ranked rows to print")
		concurrency = flag.Int("concurrency", 4, "Maximum grid cells simulated in parallel")
		metricsAddr = flag.String("metrics-addr", "", "Serve Prometheus metrics on this address while running")
	)
	flag.Parse()

	logger := newLogger()

	if *file == "" {
		logger.Fatalf("-file is required")
	}

	cfg := loadConfig(*configPath, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	if *metricsAddr != "" {
		stop := serveMetrics(*metricsAddr, cfg.Metrics.Path, logger)
		defer stop()
	}

	path := resolveSource(ctx, cfg, *file, logger)
	label := dataset.SeasonLabel(path)

	grid := buildGrid(*selections, *lowMin, *lowMax, *lowStep, logger)
	logger.WithFields(logrus.Fields{
		"dataset": label,
		"cells":   len(grid),
	}).Info("Starting policy sweep")

	store := dataset.NewStore(dataset.NewReader(logger), time.Duration(cfg.Dataset.CacheTTLSeconds)*time.Second)
	engine := backtest.NewEngine(staking.NewSimulator(staking.DAlembert{}), logger)

	results := runGrid(ctx, engine, store, cfg, path, label, grid, *filterName, *high, *concurrency, logger)

	ranked := backtest.RankResults(results)
	if len(ranked) == 0 {
		logger.Fatalf("Sweep produced no results")
	}

	printTable(ranked, *top)

	outputPath := *output
	if outputPath == "" {
		outputPath = filepath.Join(cfg.Export.Dir, fmt.Sprintf("sweep_%s.csv", label))
	}
	if err := backtest.WriteComparisonCSV(ranked, outputPath); err != nil {
		logger.Fatalf("Failed to write comparison CSV: %v", err)
	}

	hits, misses, ratio := store.Stats()
	logger.WithFields(logrus.Fields{
		"output":          outputPath,
		"cache_hits":      hits,
		"cache_misses":    misses,
		"cache_hit_ratio": fmt.Sprintf("%.2f", ratio),
	}).Info("Sweep completed")
}

func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	return logger
}

func loadConfig(path string, logger *logrus.Logger) *config.Config {
	cfg, err := config.LoadWithDefaults(path)
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	if err := config.Validate(cfg); err != nil {
		logger.Fatalf("Invalid configuration: %v", err)
	}
	return cfg
}

func resolveSource(ctx context.Context, cfg *config.Config, source string, logger *logrus.Logger) string {
	if !dataset.IsURL(source) {
		return source
	}

	httpCfg := dataset.DefaultHTTPClientConfig()
	httpCfg.Timeout = time.Duration(cfg.Dataset.TimeoutSeconds) * time.Second
	httpCfg.MaxRetries = cfg.Dataset.RetryAttempts
	httpCfg.RateLimit = cfg.Dataset.RequestsPerSecond
	httpCfg.Burst = cfg.Dataset.Burst

	fetcher := dataset.NewFetcher(dataset.NewRateLimitedHTTPClient(httpCfg, logger), cfg.Dataset.CacheDir, logger)
	path, _, err := fetcher.Fetch(ctx, source)
	if err != nil {
		logger.Fatalf("Failed to fetch season file: %v", err)
	}
	return path
}

// buildGrid expands the selection list and threshold range into one cell per
// combination. Thresholds are derived by index so float accumulation cannot
// shorten the range.
func buildGrid(selections string, lowMin, lowMax, lowStep float64, logger *logrus.Logger) []gridCell {
	if lowStep <= 0 {
		logger.Fatalf("-low-step must be positive")
	}
	if lowMax < lowMin {
		logger.Fatalf("-low-max must not be below -low-min")
	}

	var policies []strategy.SelectionPolicy
	for _, name := range strings.Split(selections, ",") {
		policy, err := strategy.ParseSelectionPolicy(strings.TrimSpace(name))
		if err != nil {
			logger.Fatalf("Invalid selection policy: %v", err)
		}
		policies = append(policies, policy)
	}

	steps := int(math.Round((lowMax-lowMin)/lowStep)) + 1
	grid := make([]gridCell, 0, len(policies)*steps)
	for _, policy := range policies {
		for i := 0; i < steps; i++ {
			grid = append(grid, gridCell{selection: policy, low: lowMin + float64(i)*lowStep})
		}
	}
	return grid
}

// concurrencyLimit floors the flag value at 1; errgroup.SetLimit treats a
// non-positive limit as "start nothing" and every g.Go call would block.
func concurrencyLimit(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

func runGrid(
	ctx context.Context,
	engine *backtest.Engine,
	store *dataset.Store,
	cfg *config.Config,
	path, label string,
	grid []gridCell,
	filterName string,
	high float64,
	concurrency int,
	logger *logrus.Logger,
) []*backtest.Result {
	filterPolicy, err := strategy.ParseFilterPolicy(filterName)
	if err != nil {
		logger.Fatalf("Invalid filter policy: %v", err)
	}
	var highBound *float64
	if high > 0 {
		highBound = &high
	}

	results := make([]*backtest.Result, len(grid))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrencyLimit(concurrency))
	for i, cell := range grid {
		i, cell := i, cell
		g.Go(func() error {
			records, err := store.Load(path)
			if err != nil {
				return err
			}

			filter, err := strategy.NewFilter(filterPolicy, cell.low, highBound)
			if err != nil {
				return err
			}

			runCfg := backtest.RunConfig{
				RunID:             uuid.New(),
				Dataset:           label,
				SelectionPolicy:   cell.selection,
				Filter:            filter,
				InitialBankroll:   cfg.Simulation.InitialBankroll,
				BaseStake:         cfg.Simulation.BaseStake,
				StakeWarnMultiple: cfg.Simulation.StakeWarnMultiple,
				Seed:              cfg.Simulation.Seed,
			}

			result, err := engine.Run(gctx, runCfg, records)
			if err != nil {
				return fmt.Errorf("%s low=%.2f: %w", cell.selection, cell.low, err)
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Fatalf("Sweep failed: %v", err)
	}

	return results
}

func printTable(ranked []backtest.RankedResult, top int) {
	if top > len(ranked) {
		top = len(ranked)
	}

	fmt.Printf("%-5s %-10s %-24s %9s %9s %11s %10s %9s\n",
		"rank", "selection", "filter", "score", "roi", "final", "max_stake", "bankrupt")
	for _, row := range ranked[:top] {
		res := row.Result
		fmt.Printf("%-5d %-10s %-24s %9.4f %8.2f%% %11.2f %10.2f %9v\n",
			row.Rank,
			res.Config.SelectionPolicy,
			res.Config.Filter.String(),
			row.CompositeScore,
			res.Statistics.ROI,
			res.Statistics.FinalBalance,
			res.Statistics.MaxStake,
			res.Statistics.WentBankrupt,
		)
	}
}

func serveMetrics(addr, path string, logger *logrus.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle(path, metrics.Handler())
	server := &http.Server{Addr: addr, Handler: mux}

	go func() {
		logger.WithField("addr", addr).Info("Metrics endpoint listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("Metrics server failed")
		}
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Error("Failed to stop metrics server")
		}
	}
}
