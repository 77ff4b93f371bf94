package signals

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/darshanhiteshshah/virtual-stock-simulator/src/models"
)

func ptr(v float64) *float64 {
	return &v
}

func barWithRsi(v float64) models.EnrichedBar {
	return models.EnrichedBar{RSI: ptr(v)}
}

func TestEntryRsi(t *testing.T) {
	rule := models.Rule{Indicator: models.IndicatorRSI, Condition: models.ConditionLessThan, Value: 30}

	t.Run("fires on downward penetration", func(t *testing.T) {
		assert.True(t, Entry(barWithRsi(32), barWithRsi(28), rule))
	})

	t.Run("does not retrigger while staying below", func(t *testing.T) {
		assert.False(t, Entry(barWithRsi(28), barWithRsi(25), rule))
	})

	t.Run("does not fire above the threshold", func(t *testing.T) {
		assert.False(t, Entry(barWithRsi(45), barWithRsi(35), rule))
	})

	t.Run("fires again only after resurfacing", func(t *testing.T) {
		series := []float64{35, 28, 25, 33, 29}
		fired := 0
		for i := 1; i < len(series); i++ {
			if Entry(barWithRsi(series[i-1]), barWithRsi(series[i]), rule) {
				fired++
			}
		}
		assert.Equal(t, 2, fired)
	})

	t.Run("greater_than is the symmetric upward crossing", func(t *testing.T) {
		up := models.Rule{Indicator: models.IndicatorRSI, Condition: models.ConditionGreaterThan, Value: 70}

		assert.True(t, Entry(barWithRsi(68), barWithRsi(72), up))
		assert.False(t, Entry(barWithRsi(72), barWithRsi(75), up))
	})

	t.Run("missing rsi means no signal", func(t *testing.T) {
		assert.False(t, Entry(models.EnrichedBar{}, barWithRsi(28), rule))
		assert.False(t, Entry(barWithRsi(32), models.EnrichedBar{}, rule))
	})
}

func TestEntrySmaCross(t *testing.T) {
	rule := models.Rule{Indicator: models.IndicatorSMACross, Condition: models.ConditionCrossesAbove}

	smaBar := func(sma20, sma50 float64) models.EnrichedBar {
		return models.EnrichedBar{SMA20: ptr(sma20), SMA50: ptr(sma50)}
	}

	t.Run("fires when the short average crosses above the long", func(t *testing.T) {
		assert.True(t, Entry(smaBar(99, 100), smaBar(101, 100), rule))
	})

	t.Run("does not fire while already above", func(t *testing.T) {
		assert.False(t, Entry(smaBar(101, 100), smaBar(102, 100), rule))
	})

	t.Run("fires when the averages were equal", func(t *testing.T) {
		assert.True(t, Entry(smaBar(100, 100), smaBar(101, 100), rule))
	})

	t.Run("missing sma means no signal", func(t *testing.T) {
		assert.False(t, Entry(models.EnrichedBar{SMA20: ptr(99)}, smaBar(101, 100), rule))
	})
}

func TestEntryMacd(t *testing.T) {
	rule := models.Rule{Indicator: models.IndicatorMACD, Condition: models.ConditionCrossesAbove}

	macdBar := func(v float64) models.EnrichedBar {
		return models.EnrichedBar{MACD: ptr(v)}
	}

	t.Run("fires when macd crosses above zero", func(t *testing.T) {
		assert.True(t, Entry(macdBar(-0.5), macdBar(0.3), rule))
	})

	t.Run("does not fire while already positive", func(t *testing.T) {
		assert.False(t, Entry(macdBar(0.2), macdBar(0.5), rule))
	})
}

func TestEntryUnknownCombinations(t *testing.T) {
	cases := []models.Rule{
		{Indicator: "STOCH", Condition: models.ConditionLessThan, Value: 20},
		{Indicator: models.IndicatorRSI, Condition: models.ConditionCrossesAbove, Value: 30},
		{Indicator: models.IndicatorSMACross, Condition: models.ConditionLessThan},
		{Indicator: models.IndicatorMACD, Condition: models.ConditionGreaterThan},
	}

	prev := models.EnrichedBar{RSI: ptr(40), SMA20: ptr(99), SMA50: ptr(100), MACD: ptr(-1)}
	cur := models.EnrichedBar{RSI: ptr(20), SMA20: ptr(101), SMA50: ptr(100), MACD: ptr(1)}

	for _, rule := range cases {
		assert.False(t, Entry(prev, cur, rule), "%s/%s should evaluate to false", rule.Indicator, rule.Condition)
	}
}

func TestExit(t *testing.T) {
	rule := models.ExitRule{
		Rule:          models.Rule{Indicator: models.IndicatorRSI, Condition: models.ConditionGreaterThan, Value: 70},
		StopLossPct:   5,
		TakeProfitPct: 10,
	}

	t.Run("stop loss fires first", func(t *testing.T) {
		cur := barWithRsi(72)
		cur.Close = 94 // -6% from entry

		ok, reason := Exit(barWithRsi(68), cur, rule, 100)
		assert.True(t, ok)
		assert.Equal(t, models.ExitReasonStopLoss, reason)
	})

	t.Run("take profit fires before the indicator", func(t *testing.T) {
		cur := barWithRsi(72)
		cur.Close = 111

		ok, reason := Exit(barWithRsi(68), cur, rule, 100)
		assert.True(t, ok)
		assert.Equal(t, models.ExitReasonTakeProfit, reason)
	})

	t.Run("indicator exit fires last", func(t *testing.T) {
		cur := barWithRsi(72)
		cur.Close = 102

		ok, reason := Exit(barWithRsi(68), cur, rule, 100)
		assert.True(t, ok)
		assert.Equal(t, models.ExitReasonIndicatorExit, reason)
	})

	t.Run("no exit inside the bands without a crossing", func(t *testing.T) {
		cur := barWithRsi(70)
		cur.Close = 102

		ok, _ := Exit(barWithRsi(71), cur, rule, 100)
		assert.False(t, ok)
	})

	t.Run("zero percentages disable the risk checks", func(t *testing.T) {
		relaxed := models.ExitRule{Rule: rule.Rule}

		cur := barWithRsi(60)
		cur.Close = 50 // -50%, but stop loss disabled

		ok, _ := Exit(barWithRsi(61), cur, relaxed, 100)
		assert.False(t, ok)
	})
}
