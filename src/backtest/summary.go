package backtest

import (
	"math"

	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"

	"github.com/darshanhiteshshah/virtual-stock-simulator/src/models"
)

// summarize computes the performance summary for a trade list. Every ratio
// guards its denominator: no trades means a zero win rate, no losers means a
// zero profit factor, never NaN or a division panic.
func summarize(trades []models.BacktestTrade, startingCapital, finalCapital decimal.Decimal) models.BacktestSummary {
	summary := models.BacktestSummary{
		TotalTrades:     len(trades),
		StartingCapital: startingCapital,
		FinalCapital:    finalCapital,
	}

	var wins, losses []float64
	for _, trade := range trades {
		profit := trade.Profit.InexactFloat64()
		if profit > 0 {
			wins = append(wins, profit)
		} else if profit < 0 {
			losses = append(losses, profit)
		}
	}

	summary.WinningTrades = len(wins)
	summary.LosingTrades = len(losses)

	if summary.TotalTrades > 0 {
		summary.WinRate = float64(summary.WinningTrades) / float64(summary.TotalTrades) * 100
	}

	summary.TotalReturn = finalCapital.Sub(startingCapital).
		Div(startingCapital).
		Mul(decimal.NewFromInt(100)).
		InexactFloat64()

	if len(wins) > 0 {
		if mean, err := stats.Mean(wins); err == nil {
			summary.AvgWin = mean
		}
	}

	if len(losses) > 0 {
		if mean, err := stats.Mean(losses); err == nil {
			summary.AvgLoss = mean
		}
	}

	if summary.LosingTrades > 0 && summary.AvgLoss != 0 {
		grossWin := summary.AvgWin * float64(summary.WinningTrades)
		grossLoss := math.Abs(summary.AvgLoss) * float64(summary.LosingTrades)
		summary.ProfitFactor = grossWin / grossLoss
	}

	return summary
}

// Round2 truncates a percentage or money value to two decimals for display.
// Internal computations always keep full precision.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
