package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/darshanhiteshshah/virtual-stock-simulator/src/models"
)

type AccountRecord struct {
	gorm.Model
	UserID        uuid.UUID       `gorm:"column:user_id;type:uuid;uniqueIndex;not null"`
	Email         string          `gorm:"column:email;not null"`
	WalletBalance decimal.Decimal `gorm:"column:wallet_balance;type:numeric;not null"`
	Holdings      []HoldingRecord `gorm:"foreignKey:AccountRecordID"`
}

type HoldingRecord struct {
	gorm.Model
	AccountRecordID uint            `gorm:"column:account_record_id;index;not null"`
	Symbol          string          `gorm:"column:symbol;not null"`
	Quantity        int64           `gorm:"column:quantity;not null"`
	AvgBuyPrice     decimal.Decimal `gorm:"column:avg_buy_price;type:numeric;not null"`
}

type OrderRecord struct {
	gorm.Model
	OrderID       uuid.UUID        `gorm:"column:order_id;type:uuid;uniqueIndex;not null"`
	UserID        uuid.UUID        `gorm:"column:user_id;type:uuid;index;not null"`
	Symbol        string           `gorm:"column:symbol;not null"`
	Quantity      int64            `gorm:"column:quantity;not null"`
	OrderType     string           `gorm:"column:order_type;not null"`
	TradeType     string           `gorm:"column:trade_type;not null"`
	TargetPrice   *decimal.Decimal `gorm:"column:target_price;type:numeric"`
	StopPrice     *decimal.Decimal `gorm:"column:stop_price;type:numeric"`
	Status        string           `gorm:"column:status;index;not null"`
	FailureReason *string          `gorm:"column:failure_reason"`
	ExpiresAt     *time.Time       `gorm:"column:expires_at"`
	ExecutedPrice *decimal.Decimal `gorm:"column:executed_price;type:numeric"`
	ExecutedAt    *time.Time       `gorm:"column:executed_at"`
	PlacedAt      time.Time        `gorm:"column:placed_at;not null"`
}

type TransactionRecord struct {
	gorm.Model
	TransactionID uuid.UUID       `gorm:"column:transaction_id;type:uuid;uniqueIndex;not null"`
	UserID        uuid.UUID       `gorm:"column:user_id;type:uuid;index;not null"`
	Symbol        string          `gorm:"column:symbol;not null"`
	Quantity      int64           `gorm:"column:quantity;not null"`
	Price         decimal.Decimal `gorm:"column:price;type:numeric;not null"`
	Type          string          `gorm:"column:type;not null"`
	TotalAmount   decimal.Decimal `gorm:"column:total_amount;type:numeric;not null"`
	Timestamp     time.Time       `gorm:"column:timestamp;type:timestamp;not null"`
}

type AlgorithmRecord struct {
	gorm.Model
	AlgorithmID     uuid.UUID       `gorm:"column:algorithm_id;type:uuid;uniqueIndex;not null"`
	UserID          uuid.UUID       `gorm:"column:user_id;type:uuid;index;not null"`
	Name            string          `gorm:"column:name;not null"`
	Strategy        string          `gorm:"column:strategy;type:jsonb;not null"`
	StartingCapital decimal.Decimal `gorm:"column:starting_capital;type:numeric;not null"`
	LastResult      *string         `gorm:"column:last_result;type:jsonb"`
}

func newOrderRecord(order *models.PendingOrder) *OrderRecord {
	return &OrderRecord{
		OrderID:       order.ID,
		UserID:        order.UserID,
		Symbol:        order.Symbol,
		Quantity:      order.Quantity,
		OrderType:     string(order.OrderType),
		TradeType:     string(order.TradeType),
		TargetPrice:   order.TargetPrice,
		StopPrice:     order.StopPrice,
		Status:        string(order.Status),
		FailureReason: order.FailureReason,
		ExpiresAt:     order.ExpiresAt,
		ExecutedPrice: order.ExecutedPrice,
		ExecutedAt:    order.ExecutedAt,
		PlacedAt:      order.CreatedAt,
	}
}

func (r *OrderRecord) toModel() *models.PendingOrder {
	return &models.PendingOrder{
		ID:            r.OrderID,
		UserID:        r.UserID,
		Symbol:        r.Symbol,
		Quantity:      r.Quantity,
		OrderType:     models.OrderType(r.OrderType),
		TradeType:     models.TradeType(r.TradeType),
		TargetPrice:   r.TargetPrice,
		StopPrice:     r.StopPrice,
		Status:        models.OrderStatus(r.Status),
		FailureReason: r.FailureReason,
		ExpiresAt:     r.ExpiresAt,
		ExecutedPrice: r.ExecutedPrice,
		ExecutedAt:    r.ExecutedAt,
		CreatedAt:     r.PlacedAt,
	}
}

func newTransactionRecord(txn *models.Transaction) *TransactionRecord {
	return &TransactionRecord{
		TransactionID: txn.ID,
		UserID:        txn.UserID,
		Symbol:        txn.Symbol,
		Quantity:      txn.Quantity,
		Price:         txn.Price,
		Type:          string(txn.Type),
		TotalAmount:   txn.TotalAmount,
		Timestamp:     txn.Timestamp,
	}
}

func (r *TransactionRecord) toModel() *models.Transaction {
	return &models.Transaction{
		ID:          r.TransactionID,
		UserID:      r.UserID,
		Symbol:      r.Symbol,
		Quantity:    r.Quantity,
		Price:       r.Price,
		Type:        models.TransactionType(r.Type),
		TotalAmount: r.TotalAmount,
		Timestamp:   r.Timestamp,
	}
}

func (r *AccountRecord) toModel() *models.Account {
	account := models.NewAccount(r.UserID, r.Email, r.WalletBalance)
	for _, h := range r.Holdings {
		account.Holdings[h.Symbol] = &models.Holding{
			Symbol:      h.Symbol,
			Quantity:    h.Quantity,
			AvgBuyPrice: h.AvgBuyPrice,
		}
	}
	return account
}
