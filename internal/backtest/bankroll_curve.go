package backtest

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/yourusername/steady-better/internal/staking"
)

// CurvePoint represents the bankroll after one settled wager
type CurvePoint struct {
	Step     int     `json:"step"`
	Bankroll float64 `json:"bankroll"`
	Drawdown float64 `json:"drawdown"`
	Stake    float64 `json:"stake"`
}

// BankrollCurve represents the bankroll series over a run. Point zero is the
// initial bankroll before any wager settled.
type BankrollCurve []CurvePoint

// NewBankrollCurve builds the curve from simulation steps
func NewBankrollCurve(initialBankroll float64, steps []staking.Step) BankrollCurve {
	curve := make(BankrollCurve, 0, len(steps)+1)
	curve = append(curve, CurvePoint{Step: 0, Bankroll: initialBankroll})

	peak := initialBankroll
	for i, st := range steps {
		if st.Bankroll > peak {
			peak = st.Bankroll
		}
		drawdown := 0.0
		if peak > 0 && st.Bankroll < peak {
			drawdown = (peak - st.Bankroll) / peak
		}
		curve = append(curve, CurvePoint{
			Step:     i + 1,
			Bankroll: st.Bankroll,
			Drawdown: drawdown,
			Stake:    st.StakeUsed,
		})
	}
	return curve
}

// GetReturns calculates per-step returns from the curve
func (c BankrollCurve) GetReturns() []float64 {
	if len(c) < 2 {
		return []float64{}
	}
	returns := make([]float64, 0, len(c)-1)
	for i := 1; i < len(c); i++ {
		prev := c[i-1].Bankroll
		curr := c[i].Bankroll
		if prev == 0 {
			returns = append(returns, 0)
			continue
		}
		returns = append(returns, (curr-prev)/prev)
	}
	return returns
}

// GetVolatility calculates standard deviation of per-step returns
func (c BankrollCurve) GetVolatility() float64 {
	return stddev(c.GetReturns())
}

// GetDownsideDeviation calculates the zero-anchored deviation of negative returns
func (c BankrollCurve) GetDownsideDeviation() float64 {
	return downsideDeviation(c.GetReturns())
}

// GetMaxDrawdown returns the largest peak-to-trough drawdown fraction
func (c BankrollCurve) GetMaxDrawdown() float64 {
	maxDD := 0.0
	for _, p := range c {
		if p.Drawdown > maxDD {
			maxDD = p.Drawdown
		}
	}
	return maxDD
}

// ToCSV exports the curve to a CSV string
func (c BankrollCurve) ToCSV() string {
	var buf bytes.Buffer
	buf.WriteString("step,bankroll,drawdown,stake\n")
	for _, point := range c {
		buf.WriteString(strconv.Itoa(point.Step))
		buf.WriteString(",")
		buf.WriteString(formatFloat(point.Bankroll))
		buf.WriteString(",")
		buf.WriteString(formatFloat(point.Drawdown))
		buf.WriteString(",")
		buf.WriteString(formatFloat(point.Stake))
		buf.WriteString("\n")
	}
	return buf.String()
}

// ToJSON exports the curve to a JSON string
func (c BankrollCurve) ToJSON() string {
	data, _ := json.Marshal(c)
	return string(data)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
