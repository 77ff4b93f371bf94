package models

import "fmt"

var (
	ErrInsufficientFunds   = fmt.Errorf("insufficient funds")
	ErrInsufficientShares  = fmt.Errorf("insufficient shares")
	ErrHoldingNotFound     = fmt.Errorf("holding not found")
	ErrOrderNotFound       = fmt.Errorf("order not found")
	ErrInvalidOrderState   = fmt.Errorf("order is not pending")
	ErrAccountNotFound     = fmt.Errorf("account not found")
	ErrAlgorithmNotFound   = fmt.Errorf("algorithm not found")
	ErrQuoteUnavailable    = fmt.Errorf("quote unavailable")
	ErrInvalidQuantity     = fmt.Errorf("quantity must be greater than zero")
	ErrInvalidPrice        = fmt.Errorf("price must be greater than zero")
	ErrSymbolNotSet        = fmt.Errorf("symbol is not set")
	ErrNotEnoughBars       = fmt.Errorf("not enough bars to run a backtest")
	ErrUnknownOrderType    = fmt.Errorf("unknown order type")
	ErrUnknownTradeType    = fmt.Errorf("unknown trade type")
	ErrUnknownSizingType   = fmt.Errorf("unknown sizing type")
	ErrMissingTargetPrice  = fmt.Errorf("limit order requires a target price")
	ErrMissingStopPrice    = fmt.Errorf("stop loss order requires a stop price")
	ErrUnknownIndicator    = fmt.Errorf("unknown indicator")
	ErrUnknownCondition    = fmt.Errorf("unknown condition")
	ErrInvalidSizingAmount = fmt.Errorf("sizing amount must be greater than zero")
)
