package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darshanhiteshshah/virtual-stock-simulator/src/models"
)

func newPendingOrder(userID uuid.UUID) *models.PendingOrder {
	target := decimal.NewFromInt(100)
	return &models.PendingOrder{
		ID:          uuid.New(),
		UserID:      userID,
		Symbol:      "AAPL",
		Quantity:    10,
		OrderType:   models.OrderTypeLimit,
		TradeType:   models.TradeTypeBuy,
		TargetPrice: &target,
		Status:      models.OrderStatusPending,
		CreatedAt:   time.Now().UTC(),
	}
}

func TestMemoryStoreAccountRoundTrip(t *testing.T) {
	db := NewMemoryDatabaseService()

	account := models.NewAccount(uuid.New(), "trader@example.com", decimal.NewFromInt(5000))
	require.NoError(t, db.CreateAccount(account))

	fetched, err := db.FetchAccount(account.UserID)
	require.NoError(t, err)
	assert.True(t, fetched.WalletBalance.Equal(decimal.NewFromInt(5000)))

	// The fetched copy is detached: mutating it must not leak into the store.
	fetched.WalletBalance = decimal.Zero
	again, err := db.FetchAccount(account.UserID)
	require.NoError(t, err)
	assert.True(t, again.WalletBalance.Equal(decimal.NewFromInt(5000)))
}

func TestMemoryStoreCancelOrderOnce(t *testing.T) {
	db := NewMemoryDatabaseService()
	order := newPendingOrder(uuid.New())
	require.NoError(t, db.CreateOrder(order))

	cancelled, err := db.CancelOrder(order.ID)
	require.NoError(t, err)
	assert.True(t, cancelled)

	// Second attempt loses the compare-and-set.
	cancelled, err = db.CancelOrder(order.ID)
	require.NoError(t, err)
	assert.False(t, cancelled)
}

func TestMemoryStoreCommitLosesToCancel(t *testing.T) {
	db := NewMemoryDatabaseService()

	account := models.NewAccount(uuid.New(), "trader@example.com", decimal.NewFromInt(5000))
	require.NoError(t, db.CreateAccount(account))

	order := newPendingOrder(account.UserID)
	require.NoError(t, db.CreateOrder(order))

	cancelled, err := db.CancelOrder(order.ID)
	require.NoError(t, err)
	require.True(t, cancelled)

	now := time.Now().UTC()
	txn := models.NewTransaction(account.UserID, "AAPL", 10, decimal.NewFromInt(98), models.TransactionTypeBuy, decimal.NewFromInt(980), now)

	committed, err := db.CommitExecution(order.ID, account, txn, decimal.NewFromInt(98), now)
	require.NoError(t, err)
	assert.False(t, committed)

	fetched, err := db.FetchOrder(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, fetched.Status)

	txns, err := db.FetchTransactions(account.UserID)
	require.NoError(t, err)
	assert.Empty(t, txns, "a lost commit writes nothing")
}

func TestMemoryStoreCommitExecution(t *testing.T) {
	db := NewMemoryDatabaseService()

	account := models.NewAccount(uuid.New(), "trader@example.com", decimal.NewFromInt(5000))
	require.NoError(t, db.CreateAccount(account))

	order := newPendingOrder(account.UserID)
	require.NoError(t, db.CreateOrder(order))

	now := time.Now().UTC()
	mutated, err := db.FetchAccount(account.UserID)
	require.NoError(t, err)

	txn, err := mutated.Buy("AAPL", 10, decimal.NewFromInt(98), decimal.Zero, now)
	require.NoError(t, err)

	committed, err := db.CommitExecution(order.ID, mutated, txn, decimal.NewFromInt(98), now)
	require.NoError(t, err)
	require.True(t, committed)

	fetched, err := db.FetchOrder(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusExecuted, fetched.Status)
	require.NotNil(t, fetched.ExecutedPrice)
	assert.True(t, fetched.ExecutedPrice.Equal(decimal.NewFromInt(98)))

	stored, err := db.FetchAccount(account.UserID)
	require.NoError(t, err)
	assert.True(t, stored.WalletBalance.Equal(decimal.NewFromInt(5000-980)))

	txns, err := db.FetchTransactions(account.UserID)
	require.NoError(t, err)
	require.Len(t, txns, 1)

	// Commit is itself a compare-and-set: replaying it writes nothing more.
	committed, err = db.CommitExecution(order.ID, mutated, txn, decimal.NewFromInt(98), now)
	require.NoError(t, err)
	assert.False(t, committed)

	txns, err = db.FetchTransactions(account.UserID)
	require.NoError(t, err)
	assert.Len(t, txns, 1)
}

func TestMemoryStoreBulkExpireSkipsTerminal(t *testing.T) {
	db := NewMemoryDatabaseService()
	userID := uuid.New()

	stale := newPendingOrder(userID)
	done := newPendingOrder(userID)
	require.NoError(t, db.CreateOrder(stale))
	require.NoError(t, db.CreateOrder(done))

	cancelled, err := db.CancelOrder(done.ID)
	require.NoError(t, err)
	require.True(t, cancelled)

	require.NoError(t, db.BulkExpireOrders([]uuid.UUID{stale.ID, done.ID}))

	fetched, err := db.FetchOrder(stale.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusExpired, fetched.Status)

	fetched, err = db.FetchOrder(done.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, fetched.Status, "expiry never overwrites another terminal state")
}

func TestMemoryStorePendingOrdersSortedByCreation(t *testing.T) {
	db := NewMemoryDatabaseService()
	userID := uuid.New()

	first := newPendingOrder(userID)
	first.CreatedAt = time.Now().UTC().Add(-2 * time.Minute)
	second := newPendingOrder(userID)
	second.CreatedAt = time.Now().UTC().Add(-time.Minute)

	require.NoError(t, db.CreateOrder(second))
	require.NoError(t, db.CreateOrder(first))

	pending, err := db.FetchPendingOrders()
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, first.ID, pending[0].ID)
	assert.Equal(t, second.ID, pending[1].ID)
}

func TestMemoryStoreAlgorithmResult(t *testing.T) {
	db := NewMemoryDatabaseService()

	algorithm := &models.Algorithm{
		ID:     uuid.New(),
		UserID: uuid.New(),
		Name:   "macd swing",
	}
	require.NoError(t, db.CreateAlgorithm(algorithm))

	_, err := db.FetchAlgorithm(uuid.New())
	require.ErrorIs(t, err, models.ErrAlgorithmNotFound)

	result := &models.BacktestResult{Symbol: "AAPL", RanAt: time.Now().UTC()}
	require.NoError(t, db.SaveAlgorithmResult(algorithm.ID, result))

	fetched, err := db.FetchAlgorithm(algorithm.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched.LastResult)
	assert.Equal(t, "AAPL", fetched.LastResult.Symbol)
}
