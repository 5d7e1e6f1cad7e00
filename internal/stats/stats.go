package stats

import (
	"sort"

	"trading-journal-go/internal/models"
)

// Snapshot is a read-only aggregate over a set of trades for one
// lookback period. It is recomputed on demand and never persisted.
type Snapshot struct {
	Period      string  `json:"period"`
	TotalTrades int     `json:"total_trades"`
	WinTrades   int     `json:"win_trades"`
	LossTrades  int     `json:"loss_trades"`
	TieTrades   int     `json:"tie_trades"`
	WinRate     float64 `json:"win_rate"`
	TotalPnl    float64 `json:"total_pnl"`
	AvgPnl      float64 `json:"avg_pnl"`
	MaxDrawdown float64 `json:"max_drawdown"`
	AvgStake    float64 `json:"avg_stake"`
	MaxStake    float64 `json:"max_stake"`
}

// Compute derives descriptive aggregates over trades. The input is
// assumed already time-filtered by the caller; period is a label only.
// An empty set yields an all-zero snapshot, never a division error.
func Compute(trades []models.Trade, period string) Snapshot {
	snap := Snapshot{Period: period, TotalTrades: len(trades)}
	if snap.TotalTrades == 0 {
		return snap
	}

	var stakeSum float64
	for _, t := range trades {
		switch t.Result {
		case models.ResultWin:
			snap.WinTrades++
		case models.ResultTie:
			snap.TieTrades++
		default:
			snap.LossTrades++
		}
		snap.TotalPnl += t.Profit
		stakeSum += t.Amount
		if t.Amount > snap.MaxStake {
			snap.MaxStake = t.Amount
		}
	}

	snap.WinRate = float64(snap.WinTrades) / float64(snap.TotalTrades) * 100
	snap.AvgPnl = snap.TotalPnl / float64(snap.TotalTrades)
	snap.AvgStake = stakeSum / float64(snap.TotalTrades)
	snap.MaxDrawdown = maxDrawdown(trades)
	return snap
}

// maxDrawdown scans trades in entry-time order, tracking the running
// cumulative P&L and its peak. The result is the largest peak-to-current
// distance observed, always >= 0. The peak starts at 0: the account's
// cumulative P&L before any trade.
func maxDrawdown(trades []models.Trade) float64 {
	ordered := make([]models.Trade, len(trades))
	copy(ordered, trades)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].EntryTime.Before(ordered[j].EntryTime)
	})

	var running, peak, worst float64
	for _, t := range ordered {
		running += t.Profit
		if running > peak {
			peak = running
		}
		if dd := peak - running; dd > worst {
			worst = dd
		}
	}
	return worst
}
