package models

import (
	"context"
	"errors"
)

type OutcomeKind int

const (
	// OutcomeOK means the step completed and state was advanced.
	OutcomeOK OutcomeKind = iota
	// OutcomeTransient means the step failed in a retryable way: no state was
	// changed and the scheduler should try again on a later tick.
	OutcomeTransient
	// OutcomeTerminal means the step failed on a business rule: the order was
	// moved to a terminal status and must never be retried.
	OutcomeTerminal
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeOK:
		return "ok"
	case OutcomeTransient:
		return "transient"
	case OutcomeTerminal:
		return "terminal"
	default:
		return "unknown"
	}
}

// Outcome is the tagged result of one scheduler step. The scheduler switches
// on Kind instead of guessing from error shapes.
type Outcome struct {
	Kind OutcomeKind
	Err  error
}

func OK() Outcome {
	return Outcome{Kind: OutcomeOK}
}

func Transient(err error) Outcome {
	return Outcome{Kind: OutcomeTransient, Err: err}
}

func Terminal(err error) Outcome {
	return Outcome{Kind: OutcomeTerminal, Err: err}
}

// IsTransientErr reports whether err should be treated as skip-and-retry.
// Quote fetch failures and timeouts fall in this bucket.
func IsTransientErr(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, ErrQuoteUnavailable) {
		return true
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}

	return false
}
