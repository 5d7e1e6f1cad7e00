package models

import (
	"time"

	"gorm.io/gorm"
)

// Trade direction values.
const (
	DirectionCall = "call"
	DirectionPut  = "put"
)

// Source status vocabulary and derived result values.
const (
	StatusWin  = "WIN"
	StatusLose = "LOSE"

	ResultWin  = "win"
	ResultLoss = "loss"
	// ResultTie is reserved for manually entered trades. The import
	// pipeline never produces it: the source vocabulary is binary.
	ResultTie = "tie"
)

// Trade is the canonical record every trade, manual or imported, is
// normalized into. TradeID is the natural key assigned by the source
// platform and must be unique per owner; uniqueness is enforced by the
// import dedup pass, not by the store.
type Trade struct {
	gorm.Model
	UserID  string `gorm:"index:idx_user_trade;not null" json:"user_id"`
	TradeID string `gorm:"index:idx_user_trade;not null" json:"trade_id"`

	Asset      string  `json:"asset"`
	Direction  string  `json:"direction"` // "call" or "put"
	Amount     float64 `json:"amount"`
	EntryPrice float64 `json:"entry_price"`
	ExitPrice  float64 `json:"exit_price"`
	// EntryTime and ExitTime are equal for imported trades: the source
	// export carries a single timestamp per row.
	EntryTime  time.Time `gorm:"index" json:"entry_time"`
	ExitTime   time.Time `json:"exit_time"`
	Timeframe  string    `json:"timeframe"`
	CandleTime string    `json:"candle_time"`
	Refunded   float64   `json:"refunded"`
	Executed   float64   `json:"executed"`
	Status     string    `json:"status"` // "WIN" or "LOSE"
	Result     string    `json:"result"` // "win", "loss" or "tie"
	Profit     float64   `json:"profit"`
	// Payout is profit/amount*100. When amount is 0 the stored value is
	// the sentinel 0, never NaN or Inf.
	Payout   float64 `json:"payout"`
	Platform string  `json:"platform"`

	Strategy    string `json:"strategy,omitempty"`
	Notes       string `json:"notes,omitempty"`
	Screenshots string `json:"screenshots,omitempty"`

	ImportedAt  *time.Time `json:"imported_at,omitempty"`
	ImportBatch string     `gorm:"index" json:"import_batch,omitempty"`
}
