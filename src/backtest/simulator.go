// Package backtest replays historical bar series through a strategy's entry
// and exit rules, simulating trades against a synthetic capital pool. Runs are
// deterministic and never touch live ledger state.
package backtest

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/darshanhiteshshah/virtual-stock-simulator/src/indicators"
	"github.com/darshanhiteshshah/virtual-stock-simulator/src/models"
	"github.com/darshanhiteshshah/virtual-stock-simulator/src/signals"
)

// WarmupBars is the first bar index a simulation evaluates signals at. By then
// every indicator window (the longest is SMA50) is fully populated.
const WarmupBars = 50

type Simulator struct{}

func NewSimulator() *Simulator {
	return &Simulator{}
}

type openPosition struct {
	quantity   int64
	entryPrice float64
	entryTime  time.Time
}

// Run walks the bar series one bar at a time through a FLAT -> LONG -> FLAT
// state machine: long-only, one open position at a time. A position still open
// at the end of the series is force-closed at the last close with reason
// backtest_end.
func (s *Simulator) Run(ctx context.Context, symbol string, strategy models.Strategy, bars []models.Bar, startingCapital decimal.Decimal) (*models.BacktestResult, error) {
	if err := strategy.Validate(); err != nil {
		return nil, fmt.Errorf("Simulator.Run: invalid strategy: %w", err)
	}

	if startingCapital.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("Simulator.Run: starting capital must be positive, got %s", startingCapital)
	}

	if len(bars) <= WarmupBars {
		return nil, fmt.Errorf("Simulator.Run: %w: need more than %d bars, got %d", models.ErrNotEnoughBars, WarmupBars, len(bars))
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	enriched := indicators.Enrich(bars)

	capital := startingCapital
	var position *openPosition
	var trades []models.BacktestTrade

	closeAt := func(bar models.EnrichedBar, reason models.ExitReason) {
		qty := decimal.NewFromInt(position.quantity)
		exitPrice := decimal.NewFromFloat(bar.Close)
		entryPrice := decimal.NewFromFloat(position.entryPrice)

		capital = capital.Add(exitPrice.Mul(qty))
		profit := exitPrice.Sub(entryPrice).Mul(qty)

		trades = append(trades, models.BacktestTrade{
			Symbol:        symbol,
			Quantity:      position.quantity,
			EntryPrice:    position.entryPrice,
			ExitPrice:     bar.Close,
			EntryTime:     position.entryTime,
			ExitTime:      bar.Date,
			Profit:        profit,
			ProfitPercent: (bar.Close - position.entryPrice) / position.entryPrice * 100,
			Reason:        reason,
		})

		position = nil
	}

	for i := WarmupBars; i < len(enriched); i++ {
		prev, cur := enriched[i-1], enriched[i]

		if position == nil {
			if !signals.Entry(prev, cur, strategy.Entry) {
				continue
			}

			qty, cost := sizePosition(strategy.Sizing, capital, cur.Close)
			if qty <= 0 || cost.GreaterThan(capital) {
				continue
			}

			capital = capital.Sub(cost)
			position = &openPosition{
				quantity:   qty,
				entryPrice: cur.Close,
				entryTime:  cur.Date,
			}

			continue
		}

		if ok, reason := signals.Exit(prev, cur, strategy.Exit, position.entryPrice); ok {
			closeAt(cur, reason)
		}
	}

	if position != nil {
		closeAt(enriched[len(enriched)-1], models.ExitReasonBacktestEnd)
	}

	return &models.BacktestResult{
		Symbol:  symbol,
		RanAt:   time.Now().UTC(),
		Trades:  trades,
		Summary: summarize(trades, startingCapital, capital),
	}, nil
}

// sizePosition converts the sizing policy into a share count and its cost at
// the given close. percent_of_capital invests capital*amount/100,
// fixed_amount invests the amount directly; quantity is floored.
func sizePosition(sizing models.Sizing, capital decimal.Decimal, close float64) (int64, decimal.Decimal) {
	price := decimal.NewFromFloat(close)
	if price.LessThanOrEqual(decimal.Zero) {
		return 0, decimal.Zero
	}

	var invest decimal.Decimal
	switch sizing.Type {
	case models.SizingPercentOfCapital:
		invest = capital.Mul(decimal.NewFromFloat(sizing.Amount)).Div(decimal.NewFromInt(100))
	case models.SizingFixedAmount:
		invest = decimal.NewFromFloat(sizing.Amount)
	default:
		return 0, decimal.Zero
	}

	qty := invest.Div(price).IntPart()

	return qty, price.Mul(decimal.NewFromInt(qty))
}
