package backtest

import (
	"encoding/json"
	"math"
	"sort"

	"github.com/yourusername/steady-better/internal/staking"
)

// ExtendedMetrics represents risk and quality measures beyond the headline
// run statistics
type ExtendedMetrics struct {
	TotalReturn       float64 `json:"total_return"`
	MaxDrawdown       float64 `json:"max_drawdown"`
	Volatility        float64 `json:"volatility"`
	DownsideDeviation float64 `json:"downside_deviation"`
	SharpeRatio       float64 `json:"sharpe_ratio"`
	SortinoRatio      float64 `json:"sortino_ratio"`
	ProfitFactor      float64 `json:"profit_factor"`
	Expectancy        float64 `json:"expectancy"`
	AverageWin        float64 `json:"average_win"`
	AverageLoss       float64 `json:"average_loss"`
	LargestWin        float64 `json:"largest_win"`
	LargestLoss       float64 `json:"largest_loss"`
	AverageStake      float64 `json:"average_stake"`
	ValueAtRisk95     float64 `json:"var_95"`
}

// CalculateExtendedMetrics derives extended metrics from a completed run.
// Returns are per settled wager, so the Sharpe and Sortino ratios are
// per-step figures with no calendar annualization.
func CalculateExtendedMetrics(curve BankrollCurve, steps []staking.Step, initialBankroll float64) ExtendedMetrics {
	m := ExtendedMetrics{}
	if len(steps) == 0 {
		return m
	}

	final := steps[len(steps)-1].Bankroll
	if initialBankroll > 0 {
		m.TotalReturn = (final - initialBankroll) / initialBankroll
	}
	m.MaxDrawdown = curve.GetMaxDrawdown()

	returns := curve.GetReturns()
	m.Volatility = stddev(returns)
	m.DownsideDeviation = curve.GetDownsideDeviation()
	m.SharpeRatio = calculateSharpeRatio(returns)
	m.SortinoRatio = calculateSortinoRatio(returns)
	m.ValueAtRisk95 = calculateVaR(returns, 0.95)

	m.ProfitFactor = calculateProfitFactor(steps)
	m.Expectancy = calculateExpectancy(steps)
	m.AverageWin, m.AverageLoss, m.LargestWin, m.LargestLoss = calculatePnLStats(steps)
	m.AverageStake = calculateAverageStake(steps)

	return m
}

// ToJSON exports metrics to JSON
func (m ExtendedMetrics) ToJSON() string {
	data, _ := json.Marshal(m)
	return string(data)
}

// stepPnL is the settled profit or loss of one step
func stepPnL(st staking.Step) float64 {
	if st.Won {
		return st.StakeUsed * (st.Coefficient - 1)
	}
	return -st.StakeUsed
}

func calculateSharpeRatio(returns []float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	std := stddev(returns)
	if std == 0 {
		return 0
	}
	return average(returns) / std
}

func calculateSortinoRatio(returns []float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	dd := downsideDeviation(returns)
	if dd == 0 {
		return 0
	}
	return average(returns) / dd
}

func calculateProfitFactor(steps []staking.Step) float64 {
	grossProfit := 0.0
	grossLoss := 0.0
	for _, st := range steps {
		pnl := stepPnL(st)
		if pnl > 0 {
			grossProfit += pnl
		} else {
			grossLoss += math.Abs(pnl)
		}
	}
	if grossLoss == 0 {
		if grossProfit > 0 {
			return 999
		}
		return 0
	}
	return grossProfit / grossLoss
}

func calculateExpectancy(steps []staking.Step) float64 {
	if len(steps) == 0 {
		return 0
	}
	net := 0.0
	for _, st := range steps {
		net += stepPnL(st)
	}
	return net / float64(len(steps))
}

func calculateVaR(returns []float64, level float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	sorted := append([]float64{}, returns...)
	sort.Float64s(sorted)
	index := int(math.Floor((1.0 - level) * float64(len(sorted))))
	if index < 0 {
		index = 0
	}
	if index >= len(sorted) {
		index = len(sorted) - 1
	}
	return sorted[index]
}

func calculatePnLStats(steps []staking.Step) (float64, float64, float64, float64) {
	wins := 0
	losses := 0
	winSum := 0.0
	lossSum := 0.0
	largestWin := 0.0
	largestLoss := 0.0
	for _, st := range steps {
		pnl := stepPnL(st)
		if pnl > 0 {
			wins++
			winSum += pnl
			if pnl > largestWin {
				largestWin = pnl
			}
		} else if pnl < 0 {
			losses++
			lossSum += pnl
			if pnl < largestLoss {
				largestLoss = pnl
			}
		}
	}

	avgWin := 0.0
	avgLoss := 0.0
	if wins > 0 {
		avgWin = winSum / float64(wins)
	}
	if losses > 0 {
		avgLoss = lossSum / float64(losses)
	}
	return avgWin, avgLoss, largestWin, largestLoss
}

func calculateAverageStake(steps []staking.Step) float64 {
	if len(steps) == 0 {
		return 0
	}
	total := 0.0
	for _, st := range steps {
		total += st.StakeUsed
	}
	return total / float64(len(steps))
}

func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	return mean / float64(len(values))
}

func stddev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := average(values)
	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	variance /= float64(len(values))
	return math.Sqrt(variance)
}

// downsideDeviation measures dispersion of the negative returns about zero,
// not about their own mean, so a lone loss still registers as downside risk.
func downsideDeviation(values []float64) float64 {
	variance := 0.0
	count := 0
	for _, v := range values {
		if v < 0 {
			variance += v * v
			count++
		}
	}
	if count == 0 {
		return 0
	}
	variance /= float64(count)
	return math.Sqrt(variance)
}
