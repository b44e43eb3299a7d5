package backtest

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/yourusername/steady-better/internal/logger"
	"github.com/yourusername/steady-better/internal/metrics"
	"github.com/yourusername/steady-better/internal/models"
	"github.com/yourusername/steady-better/internal/staking"
)

var stepCSVHeader = []string{
	"match", "policy", "bet", "coefficient", "win_probability", "won",
	"stake", "bankroll", "win_streak", "lose_streak",
	"home_odds", "draw_odds", "away_odds", "result",
}

// Exporter writes run artifacts into the export directory
type Exporter struct {
	dir    string
	logger *logger.RunLogger
}

// NewExporter creates an exporter rooted at dir. The logger may be nil.
func NewExporter(dir string, runLogger *logger.RunLogger) *Exporter {
	return &Exporter{dir: dir, logger: runLogger}
}

// BaseName derives the artifact file stem for a run
func BaseName(cfg RunConfig) string {
	return fmt.Sprintf("%s_%s_results_%s", cfg.Filter.Policy, cfg.SelectionPolicy, cfg.Dataset)
}

// WriteStepCSV writes the per-wager trace of a run
func (e *Exporter) WriteStepCSV(res *Result) (string, error) {
	if res == nil {
		return "", fmt.Errorf("result is required")
	}
	if len(res.Steps) != len(res.Decisions) || len(res.Steps) != len(res.Matches) {
		return "", fmt.Errorf("misaligned run artifacts: %d steps, %d decisions, %d matches",
			len(res.Steps), len(res.Decisions), len(res.Matches))
	}

	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(e.dir, BaseName(res.Config)+".csv")

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(stepCSVHeader); err != nil {
		return "", err
	}
	for i, st := range res.Steps {
		d := res.Decisions[i]
		m := res.Matches[i]
		row := []string{
			strconv.Itoa(i + 1),
			d.Policy,
			d.Outcome.String(),
			formatFloat(d.Coefficient),
			formatFloat(d.Probability),
			strconv.FormatBool(st.Won),
			formatFloat(st.StakeUsed),
			formatFloat(st.Bankroll),
			strconv.Itoa(st.WinStreak),
			strconv.Itoa(st.LoseStreak),
			formatFloat(m.HomeOdds),
			formatFloat(m.DrawOdds),
			formatFloat(m.AwayOdds),
			m.Result.String(),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	metrics.RecordExportWritten("csv")
	if e.logger != nil {
		e.logger.LogExportWritten(res.Config.RunID.String(), path, len(res.Steps))
	}
	return path, nil
}

// WriteRunJSON writes the run summary as indented JSON
func (e *Exporter) WriteRunJSON(res *Result) (string, error) {
	if res == nil {
		return "", fmt.Errorf("result is required")
	}
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(e.dir, BaseName(res.Config)+".json")

	payload := struct {
		Run        models.RunResult   `json:"run"`
		Statistics staking.Statistics `json:"statistics"`
		Extended   ExtendedMetrics    `json:"extended_metrics"`
		MonteCarlo *MonteCarloResult  `json:"monte_carlo,omitempty"`
	}{res.RunResult, res.Statistics, res.Extended, res.MonteCarlo}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}

	metrics.RecordExportWritten("json")
	if e.logger != nil {
		e.logger.LogExportWritten(res.Config.RunID.String(), path, 1)
	}
	return path, nil
}

// WriteCurveCSV writes the bankroll curve of a run
func (e *Exporter) WriteCurveCSV(res *Result) (string, error) {
	if res == nil {
		return "", fmt.Errorf("result is required")
	}
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(e.dir, BaseName(res.Config)+"_curve.csv")

	if err := os.WriteFile(path, []byte(res.Curve.ToCSV()), 0o644); err != nil {
		return "", err
	}

	metrics.RecordExportWritten("csv")
	if e.logger != nil {
		e.logger.LogExportWritten(res.Config.RunID.String(), path, len(res.Curve))
	}
	return path, nil
}

// WriteHTMLReport writes the HTML report for a run
func (e *Exporter) WriteHTMLReport(res *Result) (string, error) {
	if res == nil {
		return "", fmt.Errorf("result is required")
	}
	path := filepath.Join(e.dir, BaseName(res.Config)+".html")
	if err := GenerateHTMLReport(res, path); err != nil {
		return "", err
	}

	metrics.RecordExportWritten("html")
	if e.logger != nil {
		e.logger.LogExportWritten(res.Config.RunID.String(), path, 1)
	}
	return path, nil
}
