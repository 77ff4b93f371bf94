package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderType string

const (
	OrderTypeLimit    OrderType = "LIMIT"
	OrderTypeStopLoss OrderType = "STOP_LOSS"
)

type TradeType string

const (
	TradeTypeBuy  TradeType = "BUY"
	TradeTypeSell TradeType = "SELL"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusExecuted  OrderStatus = "EXECUTED"
	OrderStatusFailed    OrderStatus = "FAILED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
	OrderStatusExpired   OrderStatus = "EXPIRED"
)

// IsTerminal reports whether the status admits no further transitions.
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case OrderStatusExecuted, OrderStatusFailed, OrderStatusCancelled, OrderStatusExpired:
		return true
	default:
		return false
	}
}

// PendingOrder is a deferred limit or stop order. Its status moves exactly
// once from PENDING to one of the terminal states; all status writes go
// through the store's compare-and-set so a concurrent cancel and a firing
// tick can never both win.
type PendingOrder struct {
	ID            uuid.UUID        `json:"id"`
	UserID        uuid.UUID        `json:"userId"`
	Symbol        string           `json:"symbol"`
	Quantity      int64            `json:"quantity"`
	OrderType     OrderType        `json:"orderType"`
	TradeType     TradeType        `json:"tradeType"`
	TargetPrice   *decimal.Decimal `json:"targetPrice,omitempty"`
	StopPrice     *decimal.Decimal `json:"stopPrice,omitempty"`
	Status        OrderStatus      `json:"status"`
	FailureReason *string          `json:"failureReason,omitempty"`
	ExpiresAt     *time.Time       `json:"expiresAt,omitempty"`
	ExecutedPrice *decimal.Decimal `json:"executedPrice,omitempty"`
	ExecutedAt    *time.Time       `json:"executedAt,omitempty"`
	CreatedAt     time.Time        `json:"createdAt"`
}

// IsExpired reports whether the order's expiry, if set, has passed.
func (o *PendingOrder) IsExpired(now time.Time) bool {
	return o.ExpiresAt != nil && o.ExpiresAt.Before(now)
}

// ShouldTrigger evaluates the order's trigger condition against the current
// quote price.
//
//	BUY  LIMIT      price <= target
//	BUY  STOP_LOSS  price >= stop
//	SELL LIMIT      price >= target
//	SELL STOP_LOSS  price <= stop
func (o *PendingOrder) ShouldTrigger(price decimal.Decimal) bool {
	switch o.OrderType {
	case OrderTypeLimit:
		if o.TargetPrice == nil {
			return false
		}

		if o.TradeType == TradeTypeBuy {
			return price.LessThanOrEqual(*o.TargetPrice)
		}

		return price.GreaterThanOrEqual(*o.TargetPrice)
	case OrderTypeStopLoss:
		if o.StopPrice == nil {
			return false
		}

		if o.TradeType == TradeTypeBuy {
			return price.GreaterThanOrEqual(*o.StopPrice)
		}

		return price.LessThanOrEqual(*o.StopPrice)
	default:
		return false
	}
}
