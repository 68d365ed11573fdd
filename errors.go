package investor

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParameters is returned for an empty symbol or a non positive quantity.
	ErrInvalidParameters = errors.New("invalid parameters")
	// ErrInvalidPurchase is returned when the total price of a trade is not positive.
	ErrInvalidPurchase = errors.New("invalid purchase")
	// ErrInvalidQuote is returned when a quote resolves to a non positive price.
	ErrInvalidQuote = errors.New("invalid quote")
	// ErrLedgerRejected is returned when a sale would drive a holding to zero or below.
	ErrLedgerRejected = errors.New("holding adjustment rejected")
	// ErrInsufficientFunds is returned when the bank refuses a withdrawal.
	ErrInsufficientFunds = errors.New("withdrawal refused")
	// ErrPaymentFailed is returned when the bank refuses to pay the proceeds of a sale.
	ErrPaymentFailed = errors.New("deposit refused")
)

// QuoteFetchError reports that the quote service could not be reached or
// that its answer could not be understood.
type QuoteFetchError struct {
	Symbol Symbol
	Err    error
}

func (e *QuoteFetchError) Error() string {
	return fmt.Sprintf("cannot fetch quote for %s: %v", e.Symbol, e.Err)
}

func (e *QuoteFetchError) Unwrap() error { return e.Err }

// SettlementInconsistencyError reports a trade where one side (money or
// shares) moved and the other did not, and the compensation failed too.
// The books are out of sync and need an operator.
type SettlementInconsistencyError struct {
	TradeID string
	Side    Side
	Account AccountID
	Symbol  Symbol
	// Moved describes the side that went through, e.g "money withdrawn".
	Moved string
	// Err is the failure of the compensating action.
	Err error
}

func (e *SettlementInconsistencyError) Error() string {
	return fmt.Sprintf("trade %s (%s %s for %s): %s but compensation failed: %v", e.TradeID, e.Side, e.Symbol, e.Account, e.Moved, e.Err)
}

func (e *SettlementInconsistencyError) Unwrap() error { return e.Err }
