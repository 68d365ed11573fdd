package investor

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	alice = uuid.MustParse("0f8fad5b-d9cb-469f-a165-70867728950e")
	bob   = uuid.MustParse("7c9e6679-7425-40de-944b-e07fc1f90ae7")
)

// USD is a helper for test to create usd money from const
func USD(v float64) Money { return M(v, "USD") }

// fixedQuotes is a QuoteSource with static prices, already normalized.
type fixedQuotes struct {
	mu     sync.Mutex
	prices map[Symbol]decimal.Decimal
	err    error
	calls  int
}

func quotes(prices map[Symbol]float64) *fixedQuotes {
	q := &fixedQuotes{prices: make(map[Symbol]decimal.Decimal)}
	for s, p := range prices {
		q.prices[s] = decimal.NewFromFloat(p)
	}
	return q
}

func (q *fixedQuotes) Price(_ context.Context, symbol Symbol) (decimal.Decimal, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.calls++
	if q.err != nil {
		return decimal.Zero, q.err
	}
	return q.prices[symbol], nil
}

type quoteFunc func(ctx context.Context, symbol Symbol) (decimal.Decimal, error)

func (f quoteFunc) Price(ctx context.Context, symbol Symbol) (decimal.Decimal, error) {
	return f(ctx, symbol)
}

// memBank is an in-memory Bank. Withdraw and Deposit can be made to fail.
type memBank struct {
	mu              sync.Mutex
	balances        map[AccountID]decimal.Decimal
	refuseWithdraws bool
	refuseDeposits  bool
	// depositFailures fails that many deposits, then accepts.
	depositFailures int
}

func newMemBank() *memBank {
	return &memBank{balances: make(map[AccountID]decimal.Decimal)}
}

func (b *memBank) balance(account AccountID) Money {
	b.mu.Lock()
	defer b.mu.Unlock()
	return M(b.balances[account], "USD")
}

func (b *memBank) Withdraw(_ context.Context, account AccountID, amount Money) BankResponse {
	b.mu.Lock()
	defer b.mu.Unlock()
	resp := BankResponse{Amount: amount, Balance: M(b.balances[account], "USD"), Type: Failure}
	if b.refuseWithdraws {
		resp.ErrorMessage = "bank closed"
		return resp
	}
	next := b.balances[account].Sub(amount.Decimal())
	if next.IsNegative() {
		resp.ErrorMessage = "insufficient funds"
		return resp
	}
	b.balances[account] = next
	resp.Balance, resp.Type = M(next, "USD"), Success
	return resp
}

func (b *memBank) Deposit(_ context.Context, account AccountID, amount Money) BankResponse {
	b.mu.Lock()
	defer b.mu.Unlock()
	resp := BankResponse{Amount: amount, Balance: M(b.balances[account], "USD"), Type: Failure}
	if b.refuseDeposits {
		resp.ErrorMessage = "bank closed"
		return resp
	}
	if b.depositFailures > 0 {
		b.depositFailures--
		resp.ErrorMessage = "bank closed"
		return resp
	}
	next := b.balances[account].Add(amount.Decimal())
	b.balances[account] = next
	resp.Balance, resp.Type = M(next, "USD"), Success
	return resp
}

func (b *memBank) Format(amount Money) string { return amount.WithCurrency("USD").String() }

type holdingKey struct {
	account AccountID
	symbol  Symbol
}

// memStore is an in-memory HoldingStore. Writes can be made to fail.
type memStore struct {
	mu       sync.Mutex
	holdings map[holdingKey]Quantity
	// failSets fails the writes numbered in it, counting from 1.
	failSets map[int]bool
	sets     int
}

func newMemStore() *memStore {
	return &memStore{holdings: make(map[holdingKey]Quantity), failSets: make(map[int]bool)}
}

func (s *memStore) Get(_ context.Context, account AccountID, symbol Symbol) (Quantity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.holdings[holdingKey{account, symbol}], nil
}

func (s *memStore) Set(_ context.Context, account AccountID, symbol Symbol, q Quantity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sets++
	if s.failSets[s.sets] {
		return errors.New("disk full")
	}
	s.holdings[holdingKey{account, symbol}] = q
	return nil
}

func (s *memStore) List(_ context.Context, account AccountID) ([]Holding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Holding
	for k, q := range s.holdings {
		if k.account == account {
			out = append(out, Holding{Account: account, Symbol: k.symbol, Quantity: q})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out, nil
}

func (s *memStore) quantity(account AccountID, symbol Symbol) Quantity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.holdings[holdingKey{account, symbol}]
}

// memJournal is an in-memory Journal.
type memJournal struct {
	mu      sync.Mutex
	records map[string]*Settlement
	order   []string
	failing bool
}

func newMemJournal() *memJournal {
	return &memJournal{records: make(map[string]*Settlement)}
}

func (j *memJournal) Begin(_ context.Context, s Settlement) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.failing {
		return errors.New("journal unavailable")
	}
	j.records[s.ID] = &s
	j.order = append(j.order, s.ID)
	return nil
}

func (j *memJournal) Finish(_ context.Context, id string, state SettlementState, note string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	s, ok := j.records[id]
	if !ok {
		return errors.New("unknown settlement")
	}
	s.State, s.Note = state, note
	return nil
}

func (j *memJournal) Unfinished(_ context.Context) ([]Settlement, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	var out []Settlement
	for _, id := range j.order {
		if s := j.records[id]; s.State == Pending || s.State == Inconsistent {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (j *memJournal) state(id string) SettlementState {
	j.mu.Lock()
	defer j.mu.Unlock()
	if s, ok := j.records[id]; ok {
		return s.State
	}
	return ""
}
