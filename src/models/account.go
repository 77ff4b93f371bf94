package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Holding is one symbol's position inside an account. AvgBuyPrice is the
// quantity-weighted mean purchase price; it is recomputed on buys only.
type Holding struct {
	Symbol      string          `json:"symbol"`
	Quantity    int64           `json:"quantity"`
	AvgBuyPrice decimal.Decimal `json:"avgBuyPrice"`
}

// Account is a user's position ledger: a cash wallet plus per-symbol
// weighted-average holdings. Buy and Sell are the only mutators. A holding
// whose quantity reaches zero is removed from the map, never kept at zero.
type Account struct {
	UserID        uuid.UUID           `json:"userId"`
	Email         string              `json:"email"`
	WalletBalance decimal.Decimal     `json:"walletBalance"`
	Holdings      map[string]*Holding `json:"holdings"`
}

func NewAccount(userID uuid.UUID, email string, walletBalance decimal.Decimal) *Account {
	return &Account{
		UserID:        userID,
		Email:         email,
		WalletBalance: walletBalance,
		Holdings:      make(map[string]*Holding),
	}
}

func (a *Account) GetHolding(symbol string) (*Holding, bool) {
	h, ok := a.Holdings[symbol]
	return h, ok
}

// Clone returns a deep copy. Stores hand out clones so callers can stage
// ledger mutations without touching shared state until commit.
func (a *Account) Clone() *Account {
	clone := &Account{
		UserID:        a.UserID,
		Email:         a.Email,
		WalletBalance: a.WalletBalance,
		Holdings:      make(map[string]*Holding, len(a.Holdings)),
	}

	for symbol, holding := range a.Holdings {
		h := *holding
		clone.Holdings[symbol] = &h
	}

	return clone
}

// Buy debits the wallet by price*quantity plus fee and folds the purchase into
// the weighted-average position. Nothing is mutated on failure.
func (a *Account) Buy(symbol string, quantity int64, price, fee decimal.Decimal, timestamp time.Time) (*Transaction, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	if price.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidPrice
	}

	qty := decimal.NewFromInt(quantity)
	cost := price.Mul(qty).Add(fee)

	if a.WalletBalance.LessThan(cost) {
		return nil, fmt.Errorf("%w: balance %s, cost %s", ErrInsufficientFunds, a.WalletBalance.StringFixed(2), cost.StringFixed(2))
	}

	a.WalletBalance = a.WalletBalance.Sub(cost)

	if holding, ok := a.Holdings[symbol]; ok {
		oldQty := decimal.NewFromInt(holding.Quantity)
		newQty := oldQty.Add(qty)
		holding.AvgBuyPrice = holding.AvgBuyPrice.Mul(oldQty).Add(price.Mul(qty)).Div(newQty)
		holding.Quantity += quantity
	} else {
		a.Holdings[symbol] = &Holding{
			Symbol:      symbol,
			Quantity:    quantity,
			AvgBuyPrice: price,
		}
	}

	return NewTransaction(a.UserID, symbol, quantity, price, TransactionTypeBuy, cost, timestamp), nil
}

// Sell credits the wallet with price*quantity minus fee and decrements the
// holding, removing it entirely when the quantity reaches zero. AvgBuyPrice is
// never changed by a sell. The second return value is the realized profit or
// loss (price - avgBuyPrice) * quantity, reported but not stored on the
// ledger.
func (a *Account) Sell(symbol string, quantity int64, price, fee decimal.Decimal, timestamp time.Time) (*Transaction, decimal.Decimal, error) {
	if quantity <= 0 {
		return nil, decimal.Zero, ErrInvalidQuantity
	}

	if price.LessThanOrEqual(decimal.Zero) {
		return nil, decimal.Zero, ErrInvalidPrice
	}

	holding, ok := a.Holdings[symbol]
	if !ok {
		return nil, decimal.Zero, fmt.Errorf("%w: no holding for %s", ErrInsufficientShares, symbol)
	}

	if holding.Quantity < quantity {
		return nil, decimal.Zero, fmt.Errorf("%w: holding %d, requested %d", ErrInsufficientShares, holding.Quantity, quantity)
	}

	qty := decimal.NewFromInt(quantity)
	proceeds := price.Mul(qty).Sub(fee)

	a.WalletBalance = a.WalletBalance.Add(proceeds)

	realized := price.Sub(holding.AvgBuyPrice).Mul(qty)

	holding.Quantity -= quantity
	if holding.Quantity == 0 {
		delete(a.Holdings, symbol)
	}

	return NewTransaction(a.UserID, symbol, quantity, price, TransactionTypeSell, proceeds, timestamp), realized, nil
}
