package backtest

import (
	"testing"

	"github.com/yourusername/steady-better/internal/staking"
)

func TestCalculateExtendedMetrics(t *testing.T) {
	steps := testSteps()
	curve := NewBankrollCurve(100, steps)
	m := CalculateExtendedMetrics(curve, steps, 100)

	if !almostEqual(m.TotalReturn, -0.2) {
		t.Fatalf("expected total return -0.2, got %v", m.TotalReturn)
	}
	if !almostEqual(m.ProfitFactor, 10.0/30.0) {
		t.Fatalf("expected profit factor 1/3, got %v", m.ProfitFactor)
	}
	if !almostEqual(m.Expectancy, -20.0/3.0) {
		t.Fatalf("expected expectancy -20/3, got %v", m.Expectancy)
	}
	if m.AverageWin != 10 {
		t.Fatalf("expected average win 10, got %v", m.AverageWin)
	}
	if m.AverageLoss != -15 {
		t.Fatalf("expected average loss -15, got %v", m.AverageLoss)
	}
	if m.LargestLoss != -20 {
		t.Fatalf("expected largest loss -20, got %v", m.LargestLoss)
	}
	if !almostEqual(m.AverageStake, 40.0/3.0) {
		t.Fatalf("expected average stake 40/3, got %v", m.AverageStake)
	}
	if !almostEqual(m.MaxDrawdown, 30.0/110.0) {
		t.Fatalf("expected max drawdown 30/110, got %v", m.MaxDrawdown)
	}
	if m.SharpeRatio >= 0 {
		t.Fatalf("expected negative sharpe for a losing run, got %v", m.SharpeRatio)
	}
}

func TestCalculateExtendedMetricsEmpty(t *testing.T) {
	m := CalculateExtendedMetrics(NewBankrollCurve(100, nil), nil, 100)
	if m != (ExtendedMetrics{}) {
		t.Fatalf("expected zero metrics for empty run, got %+v", m)
	}
}

func TestProfitFactorSentinel(t *testing.T) {
	allWins := []staking.Step{
		{StakeUsed: 10, Bankroll: 110, Won: true, Coefficient: 2.0},
		{StakeUsed: 10, Bankroll: 120, Won: true, Coefficient: 2.0},
	}
	if pf := calculateProfitFactor(allWins); pf != 999 {
		t.Fatalf("expected sentinel 999 with no losses, got %v", pf)
	}
	if pf := calculateProfitFactor(nil); pf != 0 {
		t.Fatalf("expected 0 with no steps, got %v", pf)
	}
}

func TestStepPnL(t *testing.T) {
	won := staking.Step{StakeUsed: 20, Won: true, Coefficient: 2.5}
	if pnl := stepPnL(won); pnl != 30 {
		t.Fatalf("expected pnl 30 for a win at 2.5, got %v", pnl)
	}
	lost := staking.Step{StakeUsed: 20, Won: false, Coefficient: 2.5}
	if pnl := stepPnL(lost); pnl != -20 {
		t.Fatalf("expected pnl -20 for a loss, got %v", pnl)
	}
}

func TestCalculateVaR(t *testing.T) {
	returns := []float64{-0.3, -0.1, 0.0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7}
	v := calculateVaR(returns, 0.95)
	if v != -0.3 {
		t.Fatalf("expected var at the worst return, got %v", v)
	}
	if calculateVaR(nil, 0.95) != 0 {
		t.Fatalf("expected 0 for empty returns")
	}
}

func TestSharpeRatio(t *testing.T) {
	returns := []float64{0.01, 0.02, -0.01, 0.03}
	if calculateSharpeRatio(returns) == 0 {
		t.Fatalf("expected non-zero sharpe ratio")
	}
	if calculateSharpeRatio(nil) != 0 {
		t.Fatalf("expected zero sharpe for no returns")
	}
	flat := []float64{0.01, 0.01, 0.01}
	if calculateSharpeRatio(flat) != 0 {
		t.Fatalf("expected zero sharpe for zero volatility")
	}
}

func TestSortinoRatio(t *testing.T) {
	returns := []float64{0.01, 0.02, -0.01, 0.03}
	if calculateSortinoRatio(returns) == 0 {
		t.Fatalf("expected non-zero sortino ratio")
	}
	allPositive := []float64{0.01, 0.02, 0.03}
	if calculateSortinoRatio(allPositive) != 0 {
		t.Fatalf("expected zero sortino with no downside")
	}
}

func TestDownsideDeviation(t *testing.T) {
	// A lone loss is still downside risk: deviation is taken about zero,
	// so sortino stays finite and meaningful.
	singleLoss := []float64{0.01, 0.02, -0.01, 0.03}
	if dd := downsideDeviation(singleLoss); !almostEqual(dd, 0.01) {
		t.Fatalf("expected downside deviation 0.01 for a single -0.01 loss, got %v", dd)
	}
	if ratio := calculateSortinoRatio(singleLoss); !almostEqual(ratio, 1.25) {
		t.Fatalf("expected sortino 1.25, got %v", ratio)
	}

	equalLosses := []float64{0.05, -0.02, -0.02}
	if dd := downsideDeviation(equalLosses); !almostEqual(dd, 0.02) {
		t.Fatalf("expected downside deviation 0.02 for equal losses, got %v", dd)
	}

	if dd := downsideDeviation(nil); dd != 0 {
		t.Fatalf("expected 0 for no returns, got %v", dd)
	}
}

func TestSortinoMatchesCurveDownsideDeviation(t *testing.T) {
	steps := testSteps()
	curve := NewBankrollCurve(100, steps)
	if dd := curve.GetDownsideDeviation(); !almostEqual(dd, downsideDeviation(curve.GetReturns())) {
		t.Fatalf("curve and helper downside deviation diverged: %v", dd)
	}
}
