package backtest

import (
	"math"
	"strings"
	"testing"

	"github.com/yourusername/steady-better/internal/staking"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func testSteps() []staking.Step {
	return []staking.Step{
		{StakeUsed: 10, Bankroll: 110, WinStreak: 1, Won: true, Coefficient: 2.0},
		{StakeUsed: 10, Bankroll: 100, LoseStreak: 1, Won: false, Coefficient: 2.5},
		{StakeUsed: 20, Bankroll: 80, LoseStreak: 2, Won: false, Coefficient: 1.8},
	}
}

func TestNewBankrollCurve(t *testing.T) {
	curve := NewBankrollCurve(100, testSteps())
	if len(curve) != 4 {
		t.Fatalf("expected 4 points, got %d", len(curve))
	}
	if curve[0].Step != 0 || curve[0].Bankroll != 100 {
		t.Fatalf("expected initial point at 100, got %+v", curve[0])
	}
	if curve[1].Drawdown != 0 {
		t.Fatalf("expected no drawdown at the peak, got %v", curve[1].Drawdown)
	}
	if !almostEqual(curve[2].Drawdown, 10.0/110.0) {
		t.Fatalf("expected drawdown 10/110, got %v", curve[2].Drawdown)
	}
	if !almostEqual(curve[3].Drawdown, 30.0/110.0) {
		t.Fatalf("expected drawdown 30/110, got %v", curve[3].Drawdown)
	}
	if curve[3].Stake != 20 {
		t.Fatalf("expected stake 20 on last point, got %v", curve[3].Stake)
	}
}

func TestBankrollCurveGetReturns(t *testing.T) {
	curve := NewBankrollCurve(100, testSteps())
	returns := curve.GetReturns()
	if len(returns) != 3 {
		t.Fatalf("expected 3 returns, got %d", len(returns))
	}
	if !almostEqual(returns[0], 0.1) {
		t.Fatalf("expected first return 0.1, got %v", returns[0])
	}
	if !almostEqual(returns[2], -0.2) {
		t.Fatalf("expected last return -0.2, got %v", returns[2])
	}
}

func TestBankrollCurveGetReturnsEmpty(t *testing.T) {
	var curve BankrollCurve
	if len(curve.GetReturns()) != 0 {
		t.Fatalf("expected no returns for empty curve")
	}
}

func TestBankrollCurveGetMaxDrawdown(t *testing.T) {
	curve := NewBankrollCurve(100, testSteps())
	if !almostEqual(curve.GetMaxDrawdown(), 30.0/110.0) {
		t.Fatalf("expected max drawdown 30/110, got %v", curve.GetMaxDrawdown())
	}
}

func TestBankrollCurveGetVolatility(t *testing.T) {
	curve := NewBankrollCurve(100, testSteps())
	if curve.GetVolatility() <= 0 {
		t.Fatalf("expected positive volatility")
	}
}

func TestBankrollCurveGetDownsideDeviation(t *testing.T) {
	curve := NewBankrollCurve(100, testSteps())
	if curve.GetDownsideDeviation() <= 0 {
		t.Fatalf("expected positive downside deviation")
	}

	winning := []staking.Step{{StakeUsed: 10, Bankroll: 110, Won: true, Coefficient: 2.0}}
	flat := NewBankrollCurve(100, winning)
	if flat.GetDownsideDeviation() != 0 {
		t.Fatalf("expected zero downside deviation with no losing steps")
	}
}

func TestBankrollCurveToCSV(t *testing.T) {
	curve := NewBankrollCurve(100, testSteps())
	out := curve.ToCSV()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected header plus 4 rows, got %d lines", len(lines))
	}
	if lines[0] != "step,bankroll,drawdown,stake" {
		t.Fatalf("unexpected header: %s", lines[0])
	}
	if !strings.HasPrefix(lines[1], "0,100.000000") {
		t.Fatalf("unexpected first row: %s", lines[1])
	}
}

func TestBankrollCurveToJSON(t *testing.T) {
	curve := NewBankrollCurve(100, testSteps())
	out := curve.ToJSON()
	if !strings.Contains(out, `"bankroll":110`) {
		t.Fatalf("expected bankroll in JSON output, got %s", out)
	}
}
