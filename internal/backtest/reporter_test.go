package backtest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGenerateConsoleReport(t *testing.T) {
	res := runTestResult(t)
	report := GenerateConsoleReport(res)

	for _, want := range []string{"E0-2425", "ROI: -20.00%", "Final Balance: 80.00", "Max Stake: 20.00"} {
		if !strings.Contains(report, want) {
			t.Fatalf("expected report to contain %q, got:\n%s", want, report)
		}
	}
}

func TestGenerateConsoleReportNil(t *testing.T) {
	if GenerateConsoleReport(nil) != "" {
		t.Fatalf("expected empty report for nil result")
	}
}

func TestGenerateConsoleReportWithMonteCarlo(t *testing.T) {
	res := runTestResult(t)
	res.MonteCarlo = &MonteCarloResult{Iterations: 100, MeanReturn: -0.1, ProbabilityOfProfit: 0.3, ProbabilityOfRuin: 0.05}
	report := GenerateConsoleReport(res)
	if !strings.Contains(report, "Monte Carlo (100 iterations)") {
		t.Fatalf("expected monte carlo section, got:\n%s", report)
	}
}

func TestGenerateHTMLReport(t *testing.T) {
	res := runTestResult(t)
	path := filepath.Join(t.TempDir(), "reports", "run.html")

	if err := GenerateHTMLReport(res, path); err != nil {
		t.Fatalf("GenerateHTMLReport failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading report failed: %v", err)
	}
	html := string(data)
	if !strings.Contains(html, "<h1>Simulation Report</h1>") {
		t.Fatalf("expected report heading")
	}
	if !strings.Contains(html, "min_coef") {
		t.Fatalf("expected policy name in report")
	}
}

func TestGenerateHTMLReportNil(t *testing.T) {
	if err := GenerateHTMLReport(nil, filepath.Join(t.TempDir(), "run.html")); err == nil {
		t.Fatalf("expected error for nil result")
	}
}
