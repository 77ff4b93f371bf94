package execution

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darshanhiteshshah/virtual-stock-simulator/src/models"
	"github.com/darshanhiteshshah/virtual-stock-simulator/src/services"
)

func validBuyLimitSpec(userID uuid.UUID) OrderSpec {
	target := decimal.NewFromInt(100)
	return OrderSpec{
		UserID:      userID,
		Symbol:      "AAPL",
		Quantity:    10,
		OrderType:   models.OrderTypeLimit,
		TradeType:   models.TradeTypeBuy,
		TargetPrice: &target,
	}
}

func TestOrderSpecValidate(t *testing.T) {
	userID := uuid.New()
	negative := decimal.NewFromInt(-5)
	stop := decimal.NewFromInt(90)

	testCases := []struct {
		name    string
		mutate  func(*OrderSpec)
		wantErr error
	}{
		{"valid limit", func(*OrderSpec) {}, nil},
		{"valid stop", func(s *OrderSpec) {
			s.OrderType = models.OrderTypeStopLoss
			s.TargetPrice = nil
			s.StopPrice = &stop
		}, nil},
		{"missing symbol", func(s *OrderSpec) { s.Symbol = "" }, models.ErrSymbolNotSet},
		{"zero quantity", func(s *OrderSpec) { s.Quantity = 0 }, models.ErrInvalidQuantity},
		{"negative quantity", func(s *OrderSpec) { s.Quantity = -3 }, models.ErrInvalidQuantity},
		{"unknown trade type", func(s *OrderSpec) { s.TradeType = "SHORT" }, models.ErrUnknownTradeType},
		{"unknown order type", func(s *OrderSpec) { s.OrderType = "TRAILING" }, models.ErrUnknownOrderType},
		{"limit without target", func(s *OrderSpec) { s.TargetPrice = nil }, models.ErrMissingTargetPrice},
		{"limit with negative target", func(s *OrderSpec) { s.TargetPrice = &negative }, models.ErrInvalidPrice},
		{"stop without stop price", func(s *OrderSpec) {
			s.OrderType = models.OrderTypeStopLoss
			s.TargetPrice = nil
		}, models.ErrMissingStopPrice},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			spec := validBuyLimitSpec(userID)
			tc.mutate(&spec)

			err := spec.Validate()
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestPlaceOrderCreatesPending(t *testing.T) {
	db := services.NewMemoryDatabaseService()
	account := models.NewAccount(uuid.New(), "trader@example.com", decimal.NewFromInt(1000))
	require.NoError(t, db.CreateAccount(account))

	order, err := NewOrderService(db).PlaceOrder(validBuyLimitSpec(account.UserID))
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.NotEqual(t, uuid.Nil, order.ID)

	pending, err := db.FetchPendingOrders()
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, order.ID, pending[0].ID)
}

func TestPlaceOrderInvalidSpecLeavesNoTrace(t *testing.T) {
	db := services.NewMemoryDatabaseService()
	account := models.NewAccount(uuid.New(), "trader@example.com", decimal.NewFromInt(1000))
	require.NoError(t, db.CreateAccount(account))

	spec := validBuyLimitSpec(account.UserID)
	spec.TargetPrice = nil

	_, err := NewOrderService(db).PlaceOrder(spec)
	require.ErrorIs(t, err, models.ErrMissingTargetPrice)

	pending, err := db.FetchPendingOrders()
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestPlaceOrderUnknownAccount(t *testing.T) {
	db := services.NewMemoryDatabaseService()

	_, err := NewOrderService(db).PlaceOrder(validBuyLimitSpec(uuid.New()))
	require.ErrorIs(t, err, models.ErrAccountNotFound)
}

func TestCancelOrder(t *testing.T) {
	db := services.NewMemoryDatabaseService()
	account := models.NewAccount(uuid.New(), "trader@example.com", decimal.NewFromInt(1000))
	require.NoError(t, db.CreateAccount(account))

	service := NewOrderService(db)

	order, err := service.PlaceOrder(validBuyLimitSpec(account.UserID))
	require.NoError(t, err)

	t.Run("other user cannot cancel", func(t *testing.T) {
		err := service.CancelOrder(order.ID, uuid.New())
		assert.ErrorIs(t, err, models.ErrOrderNotFound)
	})

	t.Run("owner cancels pending order", func(t *testing.T) {
		require.NoError(t, service.CancelOrder(order.ID, account.UserID))

		fetched, err := db.FetchOrder(order.ID)
		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusCancelled, fetched.Status)
	})

	t.Run("cancel is not idempotent past terminal", func(t *testing.T) {
		err := service.CancelOrder(order.ID, account.UserID)
		assert.ErrorIs(t, err, models.ErrInvalidOrderState)
	})
}

func TestCancelOrderAfterExecutionRejected(t *testing.T) {
	db := services.NewMemoryDatabaseService()
	account := models.NewAccount(uuid.New(), "trader@example.com", decimal.NewFromInt(10000))
	require.NoError(t, db.CreateAccount(account))

	service := NewOrderService(db)
	executor := NewExecutor(db, services.NoopTradeNotifier{}, decimal.Zero)

	order, err := service.PlaceOrder(validBuyLimitSpec(account.UserID))
	require.NoError(t, err)

	outcome := executor.FillOrder(order, decimal.NewFromInt(98), time.Now().UTC())
	require.Equal(t, models.OutcomeOK, outcome.Kind)

	err = service.CancelOrder(order.ID, account.UserID)
	require.ErrorIs(t, err, models.ErrInvalidOrderState)

	fetched, err := db.FetchOrder(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusExecuted, fetched.Status, "an executed fill stands")
}
