package staking

// Statistics aggregates a completed run. TotalProfit, ROI, WinRatio and
// FinalBalance are the headline figures; the remaining fields surface the
// risk profile of the progression, whose stake growth is unbounded on long
// losing runs.
type Statistics struct {
	TotalProfit   float64 `json:"total_profit"`
	ROI           float64 `json:"roi"`
	WinRatio      float64 `json:"win_ratio"`
	FinalBalance  float64 `json:"final_balance"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	MaxStake      float64 `json:"max_stake"`
	MaxBankroll   float64 `json:"max_bankroll"`
	MinBankroll   float64 `json:"min_bankroll"`
	MaxWinStreak  int     `json:"max_win_streak"`
	MaxLoseStreak int     `json:"max_lose_streak"`
	WentBankrupt  bool    `json:"went_bankrupt"`
}

// Summarize reduces a step sequence to scalar statistics. An empty sequence
// reports zero profit, zero ratios and the initial bankroll untouched.
func Summarize(steps []Step, initialBankroll float64) Statistics {
	stats := Statistics{
		FinalBalance: initialBankroll,
		MaxBankroll:  initialBankroll,
		MinBankroll:  initialBankroll,
	}
	if len(steps) == 0 {
		return stats
	}

	for _, st := range steps {
		if st.Won {
			stats.Wins++
		} else {
			stats.Losses++
		}
		if st.StakeUsed > stats.MaxStake {
			stats.MaxStake = st.StakeUsed
		}
		if st.Bankroll > stats.MaxBankroll {
			stats.MaxBankroll = st.Bankroll
		}
		if st.Bankroll < stats.MinBankroll {
			stats.MinBankroll = st.Bankroll
		}
		if st.WinStreak > stats.MaxWinStreak {
			stats.MaxWinStreak = st.WinStreak
		}
		if st.LoseStreak > stats.MaxLoseStreak {
			stats.MaxLoseStreak = st.LoseStreak
		}
		if st.Bankroll < 0 {
			stats.WentBankrupt = true
		}
	}

	last := steps[len(steps)-1]
	stats.FinalBalance = last.Bankroll
	stats.TotalProfit = last.Bankroll - initialBankroll
	if initialBankroll != 0 {
		stats.ROI = 100 * stats.TotalProfit / initialBankroll
	}
	stats.WinRatio = 100 * float64(stats.Wins) / float64(len(steps))

	return stats
}
