package investor

import (
	"context"
	"sync"
	"time"
)

// SettlementState is the lifecycle of a settlement record.
type SettlementState string

const (
	// Pending records an intent: nothing has moved yet, or the process died
	// in the middle of the settlement.
	Pending SettlementState = "pending"
	// Settled trades moved both money and shares.
	Settled SettlementState = "settled"
	// Rejected trades moved nothing.
	Rejected SettlementState = "rejected"
	// Compensated trades moved one side, then moved it back.
	Compensated SettlementState = "compensated"
	// Inconsistent trades moved one side only. They need an operator.
	Inconsistent SettlementState = "inconsistent"
)

// Settlement is the journal record of a trade.
type Settlement struct {
	ID        string          `json:"id"`
	Account   AccountID       `json:"account"`
	Side      Side            `json:"side"`
	Symbol    Symbol          `json:"symbol"`
	Quantity  int64           `json:"quantity"`
	UnitPrice Money           `json:"unitPrice"`
	Total     Money           `json:"total"`
	State     SettlementState `json:"state"`
	Note      string          `json:"note,omitempty"`
	Created   time.Time       `json:"created"`
	Updated   time.Time       `json:"updated"`
}

// Journal records settlements. Begin is written before anything moves, so a
// record left Pending after a crash points at a trade to review.
type Journal interface {
	Begin(ctx context.Context, s Settlement) error
	Finish(ctx context.Context, id string, state SettlementState, note string) error
	// Unfinished returns the records in the Pending or Inconsistent states.
	Unfinished(ctx context.Context) ([]Settlement, error)
}

// accountLocks serializes settlements per account.
type accountLocks struct {
	mu sync.Mutex
	m  map[AccountID]*accountLock
}

type accountLock struct {
	sync.Mutex
	refs int
}

// lock acquires the account lock and returns its release function.
func (l *accountLocks) lock(account AccountID) (unlock func()) {
	l.mu.Lock()
	if l.m == nil {
		l.m = make(map[AccountID]*accountLock)
	}
	al, ok := l.m[account]
	if !ok {
		al = new(accountLock)
		l.m[account] = al
	}
	al.refs++
	l.mu.Unlock()

	al.Lock()
	return func() {
		al.Unlock()
		l.mu.Lock()
		al.refs--
		if al.refs == 0 {
			delete(l.m, account)
		}
		l.mu.Unlock()
	}
}
