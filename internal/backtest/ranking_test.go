package backtest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yourusername/steady-better/internal/models"
	"github.com/yourusername/steady-better/internal/strategy"
)

func winningRecords() []models.MatchRecord {
	return []models.MatchRecord{
		{HomeOdds: 2.0, DrawOdds: 3.4, AwayOdds: 3.6, HomeGoals: 1, AwayGoals: 0, Result: models.OutcomeHome},
		{HomeOdds: 2.1, DrawOdds: 3.2, AwayOdds: 3.5, HomeGoals: 2, AwayGoals: 0, Result: models.OutcomeHome},
		{HomeOdds: 1.9, DrawOdds: 3.6, AwayOdds: 4.0, HomeGoals: 3, AwayGoals: 1, Result: models.OutcomeHome},
	}
}

func TestRankResults(t *testing.T) {
	engine := NewEngine(nil, nil)
	filter := mustFilter(t, strategy.FilterMinCoef, 1.5, nil)

	profitable, err := engine.Run(context.Background(), RunConfig{
		Dataset:         "winning",
		SelectionPolicy: strategy.SelectMinCoef,
		Filter:          filter,
		InitialBankroll: 100,
		BaseStake:       10,
	}, winningRecords())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	losing, err := engine.Run(context.Background(), RunConfig{
		Dataset:         "losing",
		SelectionPolicy: strategy.SelectMinCoef,
		Filter:          filter,
		InitialBankroll: 100,
		BaseStake:       10,
	}, testRecords())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	ranked := RankResults([]*Result{losing, profitable, nil})
	if len(ranked) != 2 {
		t.Fatalf("expected 2 ranked results, got %d", len(ranked))
	}
	if ranked[0].Result.Config.Dataset != "winning" {
		t.Fatalf("expected the profitable run first, got %s", ranked[0].Result.Config.Dataset)
	}
	if ranked[0].Rank != 1 || ranked[1].Rank != 2 {
		t.Fatalf("expected ranks 1 and 2, got %d and %d", ranked[0].Rank, ranked[1].Rank)
	}
	if ranked[0].CompositeScore <= ranked[1].CompositeScore {
		t.Fatalf("expected descending scores, got %v then %v", ranked[0].CompositeScore, ranked[1].CompositeScore)
	}
}

func TestCalculateCompositeScoreBankruptcyPenalty(t *testing.T) {
	res := runTestResult(t)
	base := CalculateCompositeScore(res)

	res.Statistics.WentBankrupt = true
	penalized := CalculateCompositeScore(res)
	if !almostEqual(penalized, base*0.5) {
		t.Fatalf("expected bankruptcy to halve the score: %v vs %v", penalized, base)
	}
}

func TestWriteComparisonCSV(t *testing.T) {
	engine := NewEngine(nil, nil)
	filter := mustFilter(t, strategy.FilterMinCoef, 1.5, nil)

	res, err := engine.Run(context.Background(), RunConfig{
		Dataset:         "winning",
		SelectionPolicy: strategy.SelectMinCoef,
		Filter:          filter,
		InitialBankroll: 100,
		BaseStake:       10,
	}, winningRecords())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "sweep", "comparison.csv")
	ranked := RankResults([]*Result{res})
	if err := WriteComparisonCSV(ranked, path); err != nil {
		t.Fatalf("WriteComparisonCSV failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading comparison failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus one row, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[1], "1,winning,min_coef,") {
		t.Fatalf("unexpected row: %s", lines[1])
	}
}

func TestNormalize(t *testing.T) {
	if normalize(0.5, 0, 1) != 0.5 {
		t.Fatalf("expected midpoint 0.5")
	}
	if normalize(-10, 0, 1) != 0 {
		t.Fatalf("expected clamping at 0")
	}
	if normalize(10, 0, 1) != 1 {
		t.Fatalf("expected clamping at 1")
	}
	if normalize(5, 3, 3) != 0 {
		t.Fatalf("expected 0 for a degenerate range")
	}
}
