package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExitReason tags why a backtest position was closed.
type ExitReason string

const (
	ExitReasonStopLoss      ExitReason = "stop_loss"
	ExitReasonTakeProfit    ExitReason = "take_profit"
	ExitReasonIndicatorExit ExitReason = "indicator_exit"
	ExitReasonBacktestEnd   ExitReason = "backtest_end"
)

// Algorithm is a user-authored strategy definition. The CRUD surface around
// algorithms lives outside this module; the backtest service only reads the
// strategy and writes the latest result back.
type Algorithm struct {
	ID              uuid.UUID       `json:"id"`
	UserID          uuid.UUID       `json:"userId"`
	Name            string          `json:"name"`
	Strategy        Strategy        `json:"strategy"`
	StartingCapital decimal.Decimal `json:"startingCapital"`
	LastResult      *BacktestResult `json:"lastResult,omitempty"`
}

// BacktestTrade is one simulated round trip. It is produced only by the
// backtest simulator and never touches the live ledger.
type BacktestTrade struct {
	Symbol        string          `json:"symbol"`
	Quantity      int64           `json:"quantity"`
	EntryPrice    float64         `json:"entryPrice"`
	ExitPrice     float64         `json:"exitPrice"`
	EntryTime     time.Time       `json:"entryTime"`
	ExitTime      time.Time       `json:"exitTime"`
	Profit        decimal.Decimal `json:"profit"`
	ProfitPercent float64         `json:"profitPercent"`
	Reason        ExitReason      `json:"reason"`
}

// BacktestSummary holds performance statistics for one run. Percentage fields
// keep full precision; rounding happens only at the display boundary.
type BacktestSummary struct {
	TotalTrades     int             `json:"totalTrades"`
	WinningTrades   int             `json:"winningTrades"`
	LosingTrades    int             `json:"losingTrades"`
	WinRate         float64         `json:"winRate"`
	TotalReturn     float64         `json:"totalReturn"`
	AvgWin          float64         `json:"avgWin"`
	AvgLoss         float64         `json:"avgLoss"`
	ProfitFactor    float64         `json:"profitFactor"`
	StartingCapital decimal.Decimal `json:"startingCapital"`
	FinalCapital    decimal.Decimal `json:"finalCapital"`
}

type BacktestResult struct {
	Symbol  string          `json:"symbol"`
	RanAt   time.Time       `json:"ranAt"`
	Trades  []BacktestTrade `json:"trades"`
	Summary BacktestSummary `json:"summary"`
}
