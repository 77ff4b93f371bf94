// Package services holds the persistence and market-data collaborators the
// trading engine depends on: a database service (postgres via gorm, plus an
// in-memory twin for tests), quote providers and the trade notifier.
package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/darshanhiteshshah/virtual-stock-simulator/src/models"
)

// Quote is a symbol's current price as reported by the market-data provider.
type Quote struct {
	Symbol    string          `json:"symbol"`
	Price     decimal.Decimal `json:"price"`
	Timestamp time.Time       `json:"timestamp"`
}

// QuoteProvider supplies current quotes and historical bar series. Calls must
// honor the context deadline; a timeout is a transient failure, never a
// trigger.
type QuoteProvider interface {
	GetQuote(ctx context.Context, symbol string) (*Quote, error)
	GetBarSeries(ctx context.Context, symbol string, lookbackDays int) ([]models.Bar, error)
}

// DatabaseService is the persistence surface for accounts, orders,
// transactions and algorithms. Order status writes are compare-and-set: the
// bool results report whether the order was still PENDING when the write
// landed, so a firing tick and a user cancel can never both win.
type DatabaseService interface {
	CreateAccount(account *models.Account) error
	FetchAccount(userID uuid.UUID) (*models.Account, error)
	// SaveAccountWithTransaction persists the account's wallet and holdings
	// together with the appended transaction in one atomic write.
	SaveAccountWithTransaction(account *models.Account, txn *models.Transaction) error
	FetchTransactions(userID uuid.UUID) ([]*models.Transaction, error)

	CreateOrder(order *models.PendingOrder) error
	FetchOrder(id uuid.UUID) (*models.PendingOrder, error)
	FetchPendingOrders() ([]*models.PendingOrder, error)
	BulkExpireOrders(ids []uuid.UUID) error
	CancelOrder(id uuid.UUID) (bool, error)
	MarkOrderFailed(id uuid.UUID, reason string) (bool, error)
	// CommitExecution atomically moves the order from PENDING to EXECUTED and
	// persists the mutated account plus the transaction. When the order is no
	// longer pending nothing is written and (false, nil) is returned.
	CommitExecution(orderID uuid.UUID, account *models.Account, txn *models.Transaction, executedPrice decimal.Decimal, executedAt time.Time) (bool, error)

	CreateAlgorithm(algorithm *models.Algorithm) error
	FetchAlgorithm(id uuid.UUID) (*models.Algorithm, error)
	SaveAlgorithmResult(id uuid.UUID, result *models.BacktestResult) error
}

// TradeNotifier delivers best-effort trade notifications. Failures are logged
// and never roll back the trade.
type TradeNotifier interface {
	NotifyTrade(email string, txn *models.Transaction, realizedPL decimal.Decimal)
}
