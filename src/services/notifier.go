package services

import (
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/darshanhiteshshah/virtual-stock-simulator/src/eventpubsub"
	"github.com/darshanhiteshshah/virtual-stock-simulator/src/models"
)

// TradeExecutedEvent is published after a trade commits. Delivery (email etc.)
// is handled by subscribers outside this module's scope.
type TradeExecutedEvent struct {
	Email       string
	Transaction *models.Transaction
	RealizedPL  decimal.Decimal
}

// Compile-time interface check.
var _ TradeNotifier = (*BusTradeNotifier)(nil)

// BusTradeNotifier publishes trade notifications on the event bus. The
// publish is asynchronous; a slow or failing subscriber can never roll back
// the trade that produced the event.
type BusTradeNotifier struct {
	bus *eventpubsub.Bus
}

func NewBusTradeNotifier(bus *eventpubsub.Bus) *BusTradeNotifier {
	return &BusTradeNotifier{bus: bus}
}

func (n *BusTradeNotifier) NotifyTrade(email string, txn *models.Transaction, realizedPL decimal.Decimal) {
	n.bus.Publish(eventpubsub.TradeExecutedTopic, TradeExecutedEvent{
		Email:       email,
		Transaction: txn,
		RealizedPL:  realizedPL,
	})

	log.Debugf("NotifyTrade: published %v for %s", txn, email)
}

// Compile-time interface check.
var _ TradeNotifier = (*NoopTradeNotifier)(nil)

// NoopTradeNotifier discards notifications. Used in tests.
type NoopTradeNotifier struct{}

func (NoopTradeNotifier) NotifyTrade(string, *models.Transaction, decimal.Decimal) {}
