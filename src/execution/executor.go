// Package execution contains the deferred order engine: ledger execution of
// buys and sells, order placement and cancellation, and the polling scheduler
// that fires pending limit/stop orders against live quotes.
package execution

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/darshanhiteshshah/virtual-stock-simulator/src/models"
	"github.com/darshanhiteshshah/virtual-stock-simulator/src/services"
)

// Executor applies buys and sells to user ledgers. Operations on the same
// user's ledger are serialized through a per-user lock; different users
// proceed independently.
type Executor struct {
	db           services.DatabaseService
	notifier     services.TradeNotifier
	brokerageFee decimal.Decimal

	mutex     sync.Mutex
	userLocks map[uuid.UUID]*sync.Mutex
}

func NewExecutor(db services.DatabaseService, notifier services.TradeNotifier, brokerageFee decimal.Decimal) *Executor {
	return &Executor{
		db:           db,
		notifier:     notifier,
		brokerageFee: brokerageFee,
		userLocks:    make(map[uuid.UUID]*sync.Mutex),
	}
}

func (e *Executor) userLock(userID uuid.UUID) *sync.Mutex {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	lock, ok := e.userLocks[userID]
	if !ok {
		lock = &sync.Mutex{}
		e.userLocks[userID] = lock
	}

	return lock
}

// ExecuteMarketOrder fetches the current quote and trades immediately at that
// price. This is the manual-trade path; it shares the ledger rules with the
// scheduler's order fills.
func (e *Executor) ExecuteMarketOrder(ctx context.Context, userID uuid.UUID, symbol string, quantity int64, tradeType models.TradeType, provider services.QuoteProvider) (*models.Transaction, error) {
	quote, err := provider.GetQuote(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("ExecuteMarketOrder: failed to fetch quote for %s: %w", symbol, err)
	}

	lock := e.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	account, err := e.db.FetchAccount(userID)
	if err != nil {
		return nil, fmt.Errorf("ExecuteMarketOrder: failed to fetch account %s: %w", userID, err)
	}

	txn, realized, err := e.applyTrade(account, symbol, quantity, quote.Price, tradeType, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if err := e.db.SaveAccountWithTransaction(account, txn); err != nil {
		return nil, fmt.Errorf("ExecuteMarketOrder: failed to persist trade: %w", err)
	}

	e.notifier.NotifyTrade(account.Email, txn, realized)

	return txn, nil
}

// applyTrade mutates the in-memory account and returns the transaction plus
// realized P/L (zero on buys). The caller persists.
func (e *Executor) applyTrade(account *models.Account, symbol string, quantity int64, price decimal.Decimal, tradeType models.TradeType, now time.Time) (*models.Transaction, decimal.Decimal, error) {
	switch tradeType {
	case models.TradeTypeBuy:
		txn, err := account.Buy(symbol, quantity, price, e.brokerageFee, now)
		return txn, decimal.Zero, err
	case models.TradeTypeSell:
		return account.Sell(symbol, quantity, price, e.brokerageFee, now)
	default:
		return nil, decimal.Zero, fmt.Errorf("%w: %s", models.ErrUnknownTradeType, tradeType)
	}
}

// FillOrder executes a triggered pending order against its owner's ledger as
// one logical operation. The result is a tagged outcome:
//
//   - OK: the order committed (or a concurrent cancel won and nothing
//     happened, which is equally final for this tick);
//   - Transient: infrastructure failed before any state change, retry on a
//     later tick;
//   - Terminal: a business rule failed and the order was marked FAILED.
func (e *Executor) FillOrder(order *models.PendingOrder, price decimal.Decimal, now time.Time) models.Outcome {
	lock := e.userLock(order.UserID)
	lock.Lock()
	defer lock.Unlock()

	account, err := e.db.FetchAccount(order.UserID)
	if err != nil {
		return models.Transient(fmt.Errorf("FillOrder: failed to fetch account %s: %w", order.UserID, err))
	}

	txn, realized, err := e.applyTrade(account, order.Symbol, order.Quantity, price, order.TradeType, now)
	if err != nil {
		failed, casErr := e.db.MarkOrderFailed(order.ID, err.Error())
		if casErr != nil {
			return models.Transient(fmt.Errorf("FillOrder: failed to mark order %s failed: %w", order.ID, casErr))
		}

		if failed {
			order.Status = models.OrderStatusFailed
			reason := err.Error()
			order.FailureReason = &reason
		}

		return models.Terminal(fmt.Errorf("FillOrder: order %s failed: %w", order.ID, err))
	}

	committed, err := e.db.CommitExecution(order.ID, account, txn, price, now)
	if err != nil {
		return models.Transient(fmt.Errorf("FillOrder: failed to commit order %s: %w", order.ID, err))
	}

	if !committed {
		log.Infof("FillOrder: order %s no longer pending, skipping", order.ID)
		return models.OK()
	}

	order.Status = models.OrderStatusExecuted
	order.ExecutedPrice = &price
	order.ExecutedAt = &now

	e.notifier.NotifyTrade(account.Email, txn, realized)

	log.Infof("FillOrder: executed order %s: %v", order.ID, txn)

	return models.OK()
}
