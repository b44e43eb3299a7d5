package backtest

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
)

// RankedResult pairs a completed run with its composite score
type RankedResult struct {
	Rank           int
	CompositeScore float64
	Result         *Result
}

// RankResults orders runs by composite score, best first. Ties keep input
// order, so a stable sweep grid ranks deterministically.
func RankResults(results []*Result) []RankedResult {
	ranked := make([]RankedResult, 0, len(results))
	for _, res := range results {
		if res == nil {
			continue
		}
		ranked = append(ranked, RankedResult{
			CompositeScore: CalculateCompositeScore(res),
			Result:         res,
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].CompositeScore > ranked[j].CompositeScore
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}

// CalculateCompositeScore calculates a weighted score from run outcomes.
// ROI dominates; drawdown and stake escalation count against, and a run
// whose bankroll went negative is halved outright.
func CalculateCompositeScore(res *Result) float64 {
	s := res.Statistics

	roiScore := normalize(s.ROI, -100, 100)
	profitFactorScore := normalize(res.Extended.ProfitFactor, 0, 3)
	winRatioScore := normalize(s.WinRatio, 0, 100)
	drawdownPenalty := 1.0 - normalize(res.Extended.MaxDrawdown, 0, 1)

	stakePenalty := 1.0
	if res.Config.BaseStake > 0 {
		stakePenalty = 1.0 - normalize(s.MaxStake/res.Config.BaseStake, 1, 20)
	}

	weighted := 0.0
	weighted += roiScore * 0.35
	weighted += profitFactorScore * 0.20
	weighted += drawdownPenalty * 0.20
	weighted += winRatioScore * 0.10
	weighted += stakePenalty * 0.15

	if s.WentBankrupt {
		weighted *= 0.5
	}
	return weighted
}

// WriteComparisonCSV writes ranked runs as a comparison table
func WriteComparisonCSV(ranked []RankedResult, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{
		"rank", "dataset", "selection_policy", "filter", "score",
		"matches_played", "total_profit", "roi", "win_ratio",
		"final_balance", "max_stake", "max_lose_streak", "bankrupt",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range ranked {
		cfg := r.Result.Config
		s := r.Result.Statistics
		row := []string{
			strconv.Itoa(r.Rank),
			cfg.Dataset,
			cfg.SelectionPolicy.String(),
			cfg.Filter.String(),
			fmt.Sprintf("%.4f", r.CompositeScore),
			strconv.Itoa(r.Result.RunResult.MatchesPlayed),
			fmt.Sprintf("%.2f", s.TotalProfit),
			fmt.Sprintf("%.2f", s.ROI),
			fmt.Sprintf("%.2f", s.WinRatio),
			fmt.Sprintf("%.2f", s.FinalBalance),
			fmt.Sprintf("%.2f", s.MaxStake),
			strconv.Itoa(s.MaxLoseStreak),
			strconv.FormatBool(s.WentBankrupt),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func normalize(value, min, max float64) float64 {
	if max-min == 0 {
		return 0
	}
	v := (value - min) / (max - min)
	return math.Max(0, math.Min(1, v))
}
