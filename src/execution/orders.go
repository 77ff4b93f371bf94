package execution

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/darshanhiteshshah/virtual-stock-simulator/src/models"
	"github.com/darshanhiteshshah/virtual-stock-simulator/src/services"
)

// OrderSpec is a request to place a deferred order.
type OrderSpec struct {
	UserID      uuid.UUID
	Symbol      string
	Quantity    int64
	OrderType   models.OrderType
	TradeType   models.TradeType
	TargetPrice *decimal.Decimal
	StopPrice   *decimal.Decimal
	ExpiresAt   *time.Time
}

// Validate rejects malformed specs before any state is created. Funds and
// holdings are deliberately not checked here: they are only known at
// execution time.
func (s OrderSpec) Validate() error {
	if s.Symbol == "" {
		return models.ErrSymbolNotSet
	}

	if s.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive, got %d", models.ErrInvalidQuantity, s.Quantity)
	}

	switch s.TradeType {
	case models.TradeTypeBuy, models.TradeTypeSell:
	default:
		return fmt.Errorf("%w: %s", models.ErrUnknownTradeType, s.TradeType)
	}

	switch s.OrderType {
	case models.OrderTypeLimit:
		if s.TargetPrice == nil {
			return models.ErrMissingTargetPrice
		}
		if s.TargetPrice.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("%w: target price must be positive, got %v", models.ErrInvalidPrice, s.TargetPrice)
		}
	case models.OrderTypeStopLoss:
		if s.StopPrice == nil {
			return models.ErrMissingStopPrice
		}
		if s.StopPrice.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("%w: stop price must be positive, got %v", models.ErrInvalidPrice, s.StopPrice)
		}
	default:
		return fmt.Errorf("%w: %s", models.ErrUnknownOrderType, s.OrderType)
	}

	return nil
}

// OrderService owns the lifecycle of pending orders on behalf of users.
type OrderService struct {
	db services.DatabaseService
}

func NewOrderService(db services.DatabaseService) *OrderService {
	return &OrderService{db: db}
}

// PlaceOrder validates the request, then creates a PENDING order. Validation
// failures leave no trace.
func (s *OrderService) PlaceOrder(spec OrderSpec) (*models.PendingOrder, error) {
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("PlaceOrder: invalid order: %w", err)
	}

	if _, err := s.db.FetchAccount(spec.UserID); err != nil {
		return nil, fmt.Errorf("PlaceOrder: failed to fetch account %s: %w", spec.UserID, err)
	}

	order := &models.PendingOrder{
		ID:          uuid.New(),
		UserID:      spec.UserID,
		Symbol:      spec.Symbol,
		Quantity:    spec.Quantity,
		OrderType:   spec.OrderType,
		TradeType:   spec.TradeType,
		TargetPrice: spec.TargetPrice,
		StopPrice:   spec.StopPrice,
		Status:      models.OrderStatusPending,
		ExpiresAt:   spec.ExpiresAt,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.db.CreateOrder(order); err != nil {
		return nil, fmt.Errorf("PlaceOrder: failed to create order: %w", err)
	}

	log.Infof("PlaceOrder: placed %s %s order %s for %d %s", order.TradeType, order.OrderType, order.ID, order.Quantity, order.Symbol)

	return order, nil
}

// CancelOrder moves a PENDING order owned by userID to CANCELLED. Orders in a
// terminal state cannot be cancelled: a fill that already happened stands.
func (s *OrderService) CancelOrder(orderID, userID uuid.UUID) error {
	order, err := s.db.FetchOrder(orderID)
	if err != nil {
		return fmt.Errorf("CancelOrder: failed to fetch order %s: %w", orderID, err)
	}

	if order.UserID != userID {
		return fmt.Errorf("CancelOrder: order %s: %w", orderID, models.ErrOrderNotFound)
	}

	cancelled, err := s.db.CancelOrder(orderID)
	if err != nil {
		return fmt.Errorf("CancelOrder: failed to cancel order %s: %w", orderID, err)
	}

	if !cancelled {
		return fmt.Errorf("CancelOrder: order %s is %s: %w", orderID, order.Status, models.ErrInvalidOrderState)
	}

	log.Infof("CancelOrder: cancelled order %s", orderID)

	return nil
}
