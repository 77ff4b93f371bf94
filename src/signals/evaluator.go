// Package signals evaluates strategy entry and exit rules against pairs of
// enriched bars. A signal fires only on the bar where a value crosses its
// threshold, not while it stays on one side.
package signals

import (
	"github.com/darshanhiteshshah/virtual-stock-simulator/src/models"
)

// Entry reports whether the entry rule fires on the (previous, current) bar
// pair. Indicator values missing on either bar mean no signal. Unknown
// indicator/condition combinations evaluate to false, never an error: the
// engine treats "no signal" as the safe default.
func Entry(prev, cur models.EnrichedBar, rule models.Rule) bool {
	switch rule.Indicator {
	case models.IndicatorRSI:
		if cur.RSI == nil || prev.RSI == nil {
			return false
		}

		switch rule.Condition {
		case models.ConditionLessThan:
			return *cur.RSI < rule.Value && *prev.RSI >= rule.Value
		case models.ConditionGreaterThan:
			return *cur.RSI > rule.Value && *prev.RSI <= rule.Value
		default:
			return false
		}
	case models.IndicatorSMACross:
		if rule.Condition != models.ConditionCrossesAbove {
			return false
		}

		if cur.SMA20 == nil || cur.SMA50 == nil || prev.SMA20 == nil || prev.SMA50 == nil {
			return false
		}

		return *cur.SMA20 > *cur.SMA50 && *prev.SMA20 <= *prev.SMA50
	case models.IndicatorMACD:
		if rule.Condition != models.ConditionCrossesAbove {
			return false
		}

		if cur.MACD == nil || prev.MACD == nil {
			return false
		}

		return *cur.MACD > 0 && *prev.MACD <= 0
	default:
		return false
	}
}

// Exit reports whether a held position should be closed on the current bar,
// and why. Risk controls dominate: stop-loss is checked first, take-profit
// second, and only then the exit rule's indicator crossing. A zero stop-loss
// or take-profit percentage disables that check.
func Exit(prev, cur models.EnrichedBar, rule models.ExitRule, entryPrice float64) (bool, models.ExitReason) {
	if entryPrice > 0 {
		changePct := (cur.Close - entryPrice) / entryPrice * 100

		if rule.StopLossPct > 0 && changePct <= -rule.StopLossPct {
			return true, models.ExitReasonStopLoss
		}

		if rule.TakeProfitPct > 0 && changePct >= rule.TakeProfitPct {
			return true, models.ExitReasonTakeProfit
		}
	}

	if Entry(prev, cur, rule.Rule) {
		return true, models.ExitReasonIndicatorExit
	}

	return false, ""
}
