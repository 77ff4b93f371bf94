package models

import "fmt"

type Indicator string

const (
	IndicatorRSI      Indicator = "RSI"
	IndicatorSMACross Indicator = "SMA_CROSS"
	IndicatorMACD     Indicator = "MACD"
)

type Condition string

const (
	ConditionLessThan     Condition = "less_than"
	ConditionGreaterThan  Condition = "greater_than"
	ConditionCrossesAbove Condition = "crosses_above"
)

type SizingType string

const (
	SizingPercentOfCapital SizingType = "percent_of_capital"
	SizingFixedAmount      SizingType = "fixed_amount"
)

// Rule is one indicator predicate, e.g. RSI less_than 30.
type Rule struct {
	Indicator Indicator `json:"indicator"`
	Condition Condition `json:"condition"`
	Value     float64   `json:"value"`
}

func (r Rule) Validate() error {
	switch r.Indicator {
	case IndicatorRSI, IndicatorSMACross, IndicatorMACD:
	default:
		return fmt.Errorf("%w: %s", ErrUnknownIndicator, r.Indicator)
	}

	switch r.Condition {
	case ConditionLessThan, ConditionGreaterThan, ConditionCrossesAbove:
	default:
		return fmt.Errorf("%w: %s", ErrUnknownCondition, r.Condition)
	}

	return nil
}

// ExitRule adds risk controls on top of an indicator rule. A zero StopLossPct
// or TakeProfitPct disables that control.
type ExitRule struct {
	Rule
	StopLossPct   float64 `json:"stopLoss"`
	TakeProfitPct float64 `json:"takeProfit"`
}

func (r ExitRule) Validate() error {
	if r.StopLossPct < 0 {
		return fmt.Errorf("stop loss percent must not be negative: %v", r.StopLossPct)
	}

	if r.TakeProfitPct < 0 {
		return fmt.Errorf("take profit percent must not be negative: %v", r.TakeProfitPct)
	}

	return r.Rule.Validate()
}

type Sizing struct {
	Type   SizingType `json:"type"`
	Amount float64    `json:"amount"`
}

func (s Sizing) Validate() error {
	switch s.Type {
	case SizingPercentOfCapital, SizingFixedAmount:
	default:
		return fmt.Errorf("%w: %s", ErrUnknownSizingType, s.Type)
	}

	if s.Amount <= 0 {
		return ErrInvalidSizingAmount
	}

	if s.Type == SizingPercentOfCapital && s.Amount > 100 {
		return fmt.Errorf("percent of capital cannot exceed 100: %v", s.Amount)
	}

	return nil
}

// Strategy is an immutable rule set owned by an Algorithm: one entry rule, one
// exit rule and a position sizing policy.
type Strategy struct {
	Entry  Rule     `json:"entry"`
	Exit   ExitRule `json:"exit"`
	Sizing Sizing   `json:"sizing"`
}

func (s Strategy) Validate() error {
	if err := s.Entry.Validate(); err != nil {
		return fmt.Errorf("entry rule: %w", err)
	}

	if err := s.Exit.Validate(); err != nil {
		return fmt.Errorf("exit rule: %w", err)
	}

	if err := s.Sizing.Validate(); err != nil {
		return fmt.Errorf("sizing: %w", err)
	}

	return nil
}
