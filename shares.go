package investor

import (
	"context"
	"fmt"
)

// Holding is the quantity of a symbol owned by an account.
type Holding struct {
	Account  AccountID `json:"account"`
	Symbol   Symbol    `json:"symbol"`
	Quantity Quantity  `json:"quantity"`
}

// HoldingStore persists holdings. Set must be durable before it returns.
//
// A missing record reads as a zero quantity.
type HoldingStore interface {
	Get(ctx context.Context, account AccountID, symbol Symbol) (Quantity, error)
	Set(ctx context.Context, account AccountID, symbol Symbol, q Quantity) error
	// List returns every record of the account, sorted by symbol.
	List(ctx context.Context, account AccountID) ([]Holding, error)
}

// ShareLedger applies trades to holdings.
type ShareLedger struct {
	store HoldingStore
}

func NewShareLedger(store HoldingStore) *ShareLedger {
	return &ShareLedger{store: store}
}

// Holding returns the quantity of symbol held by account, 0 if none.
func (l *ShareLedger) Holding(ctx context.Context, account AccountID, symbol Symbol) (Quantity, error) {
	return l.store.Get(ctx, account, symbol)
}

// Holdings returns all the records of account.
func (l *ShareLedger) Holdings(ctx context.Context, account AccountID) ([]Holding, error) {
	return l.store.List(ctx, account)
}

// Adjust adds delta to the holding of symbol.
//
// A positive delta is always accepted. A negative delta is accepted only if
// the holding remains strictly positive: a sale can never empty a holding.
// A rejected adjustment writes nothing and returns false.
func (l *ShareLedger) Adjust(ctx context.Context, account AccountID, symbol Symbol, delta Quantity) (bool, error) {
	current, err := l.store.Get(ctx, account, symbol)
	if err != nil {
		return false, fmt.Errorf("cannot read holding %s of %s: %w", symbol, account, err)
	}
	next := current.Add(delta)
	if !delta.IsPositive() && !(delta.IsNegative() && next.IsPositive()) {
		return false, nil
	}
	if err := l.store.Set(ctx, account, symbol, next); err != nil {
		return false, fmt.Errorf("cannot write holding %s of %s: %w", symbol, account, err)
	}
	return true, nil
}
