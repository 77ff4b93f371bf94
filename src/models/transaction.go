package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeBuy  TransactionType = "BUY"
	TransactionTypeSell TransactionType = "SELL"
)

// Transaction is an append-only record of one executed trade. It is created
// exactly once per successful execution and never mutated or deleted.
type Transaction struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"userId"`
	Symbol      string          `json:"symbol"`
	Quantity    int64           `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Type        TransactionType `json:"type"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Timestamp   time.Time       `json:"timestamp"`
}

func (t Transaction) String() string {
	return fmt.Sprintf("%s %d %s @%s", t.Type, t.Quantity, t.Symbol, t.Price.StringFixed(2))
}

func NewTransaction(userID uuid.UUID, symbol string, quantity int64, price decimal.Decimal, txType TransactionType, totalAmount decimal.Decimal, timestamp time.Time) *Transaction {
	return &Transaction{
		ID:          uuid.New(),
		UserID:      userID,
		Symbol:      symbol,
		Quantity:    quantity,
		Price:       price,
		Type:        txType,
		TotalAmount: totalAmount,
		Timestamp:   timestamp,
	}
}
