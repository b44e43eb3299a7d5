package backtest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// GenerateConsoleReport formats a run result for terminal output
func GenerateConsoleReport(res *Result) string {
	if res == nil {
		return ""
	}
	s := res.Statistics
	var builder strings.Builder
	builder.WriteString("Simulation Report\n")
	builder.WriteString("=================\n")
	builder.WriteString(fmt.Sprintf("Dataset: %s\n", res.Config.Dataset))
	builder.WriteString(fmt.Sprintf("Selection Policy: %s\n", res.Config.SelectionPolicy))
	builder.WriteString(fmt.Sprintf("Filter: %s\n", res.Config.Filter))
	builder.WriteString(fmt.Sprintf("Matches Played: %d (of %d loaded)\n", res.RunResult.MatchesPlayed, res.RunResult.MatchesLoaded))
	builder.WriteString(fmt.Sprintf("Wins / Losses: %d / %d\n", s.Wins, s.Losses))
	builder.WriteString(fmt.Sprintf("Total Profit: %.2f\n", s.TotalProfit))
	builder.WriteString(fmt.Sprintf("ROI: %.2f%%\n", s.ROI))
	builder.WriteString(fmt.Sprintf("Win Ratio: %.2f%%\n", s.WinRatio))
	builder.WriteString(fmt.Sprintf("Final Balance: %.2f\n", s.FinalBalance))
	builder.WriteString(fmt.Sprintf("Max Stake: %.2f\n", s.MaxStake))
	builder.WriteString(fmt.Sprintf("Max Win Streak: %d\n", s.MaxWinStreak))
	builder.WriteString(fmt.Sprintf("Max Lose Streak: %d\n", s.MaxLoseStreak))
	builder.WriteString(fmt.Sprintf("Max Drawdown: %.2f%%\n", res.Extended.MaxDrawdown*100))
	builder.WriteString(fmt.Sprintf("Profit Factor: %.2f\n", res.Extended.ProfitFactor))
	if s.WentBankrupt {
		builder.WriteString("Bankroll went negative during the run\n")
	}
	if res.MonteCarlo != nil {
		mc := res.MonteCarlo
		builder.WriteString(fmt.Sprintf("Monte Carlo (%d iterations): mean return %.2f%%, P(profit) %.1f%%, P(ruin) %.1f%%\n",
			mc.Iterations, mc.MeanReturn*100, mc.ProbabilityOfProfit*100, mc.ProbabilityOfRuin*100))
	}
	return builder.String()
}

// GenerateHTMLReport creates a simple HTML report for a run
func GenerateHTMLReport(res *Result, outputPath string) error {
	if res == nil {
		return fmt.Errorf("result is required")
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}

	s := res.Statistics
	html := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><title>Simulation Report: %s</title></head>
<body>
<h1>Simulation Report</h1>
<p><strong>Dataset:</strong> %s</p>
<p><strong>Selection Policy:</strong> %s</p>
<p><strong>Filter:</strong> %s</p>
<p><strong>Matches Played:</strong> %d (of %d loaded)</p>
<p><strong>Wins / Losses:</strong> %d / %d</p>
<p><strong>Total Profit:</strong> %.2f</p>
<p><strong>ROI:</strong> %.2f%%</p>
<p><strong>Win Ratio:</strong> %.2f%%</p>
<p><strong>Final Balance:</strong> %.2f</p>
<p><strong>Max Stake:</strong> %.2f</p>
<p><strong>Max Lose Streak:</strong> %d</p>
<p><strong>Max Drawdown:</strong> %.2f%%</p>
<p><strong>Profit Factor:</strong> %.2f</p>
</body>
</html>`,
		res.Config.Dataset,
		res.Config.Dataset,
		res.Config.SelectionPolicy,
		res.Config.Filter,
		res.RunResult.MatchesPlayed,
		res.RunResult.MatchesLoaded,
		s.Wins,
		s.Losses,
		s.TotalProfit,
		s.ROI,
		s.WinRatio,
		s.FinalBalance,
		s.MaxStake,
		s.MaxLoseStreak,
		res.Extended.MaxDrawdown*100,
		res.Extended.ProfitFactor,
	)

	return os.WriteFile(outputPath, []byte(html), 0o644)
}
