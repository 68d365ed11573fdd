package investor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/etnz/investor/id"
	"go.uber.org/zap"
)

// Engine settles trades: it prices them with a QuoteSource, then moves money
// with a Bank and shares with a ShareLedger.
//
// Both sides of a trade move together or not at all: when the second side
// fails the first one is moved back. If that compensation fails as well the
// trade ends with a *SettlementInconsistencyError.
//
// Trades of the same account are serialized, trades of different accounts
// run concurrently. The engine keeps no state between calls.
type Engine struct {
	quotes   QuoteSource
	bank     Bank
	shares   *ShareLedger
	journal  Journal
	currency string
	logger   *zap.Logger
	now      func() time.Time

	locks accountLocks
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithJournal records every settlement in j.
func WithJournal(j Journal) EngineOption { return func(e *Engine) { e.journal = j } }

// WithLogger sets the engine logger.
func WithLogger(l *zap.Logger) EngineOption { return func(e *Engine) { e.logger = l } }

// WithCurrency sets the currency prices are expressed in, "USD" by default.
func WithCurrency(code string) EngineOption { return func(e *Engine) { e.currency = code } }

func NewEngine(quotes QuoteSource, bank Bank, shares *ShareLedger, opts ...EngineOption) *Engine {
	e := &Engine{
		quotes:   quotes,
		bank:     bank,
		shares:   shares,
		currency: "USD",
		logger:   zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = zap.NewNop()
	}
	return e
}

// Format renders an amount the way the bank does.
func (e *Engine) Format(m Money) string { return e.bank.Format(m) }

// Holdings returns all the holdings of account.
func (e *Engine) Holdings(ctx context.Context, account AccountID) ([]Holding, error) {
	return e.shares.Holdings(ctx, account)
}

// Quote returns the current unit price of symbol. It has no side effect.
//
// A price that is not positive is returned along with ErrInvalidQuote.
func (e *Engine) Quote(ctx context.Context, symbol Symbol) (Quote, error) {
	if symbol == "" {
		return Quote{}, ErrInvalidParameters
	}
	p, err := e.quotes.Price(ctx, symbol)
	if err != nil {
		return Quote{Symbol: symbol}, err
	}
	q := Quote{Symbol: symbol, Price: M(p, e.currency)}
	if !p.IsPositive() {
		return q, ErrInvalidQuote
	}
	return q, nil
}

// Buy purchases quantity units of symbol for account.
func (e *Engine) Buy(ctx context.Context, account AccountID, symbol Symbol, quantity int64) (TradeResult, error) {
	return e.Execute(ctx, account, TradeRequest{Side: Buy, Symbol: symbol, Quantity: quantity})
}

// Sell sells quantity units of symbol for account.
func (e *Engine) Sell(ctx context.Context, account AccountID, symbol Symbol, quantity int64) (TradeResult, error) {
	return e.Execute(ctx, account, TradeRequest{Side: Sell, Symbol: symbol, Quantity: quantity})
}

// Execute prices and settles req for account.
//
// The returned result always carries the trade id and, once priced, the unit
// and total prices. Success is true only if both sides moved.
func (e *Engine) Execute(ctx context.Context, account AccountID, req TradeRequest) (res TradeResult, err error) {
	res.ID = id.New()
	defer func() {
		if err != nil {
			res.Message = err.Error()
		}
	}()

	if req.Symbol == "" || req.Quantity <= 0 || (req.Side != Buy && req.Side != Sell) {
		return res, ErrInvalidParameters
	}

	unit, err := e.quotes.Price(ctx, req.Symbol)
	if err != nil {
		return res, err
	}
	res.UnitPrice = M(unit, e.currency)
	res.TotalPrice = res.UnitPrice.Mul(Q(req.Quantity))
	if !res.TotalPrice.IsPositive() {
		return res, ErrInvalidPurchase
	}

	unlock := e.locks.lock(account)
	defer unlock()

	s := Settlement{
		ID:        res.ID,
		Account:   account,
		Side:      req.Side,
		Symbol:    req.Symbol,
		Quantity:  req.Quantity,
		UnitPrice: res.UnitPrice,
		Total:     res.TotalPrice,
		State:     Pending,
		Created:   e.now(),
	}
	s.Updated = s.Created
	if e.journal != nil {
		if err := e.journal.Begin(ctx, s); err != nil {
			return res, fmt.Errorf("cannot journal trade %s: %w", s.ID, err)
		}
	}

	log := e.logger.With(
		zap.String("trade", s.ID),
		zap.Stringer("account", account),
		zap.String("side", string(s.Side)),
		zap.String("symbol", string(s.Symbol)),
		zap.Int64("quantity", s.Quantity),
		zap.Stringer("total", s.Total.Decimal()),
	)

	// once money or shares moved, cancellation must not skip the other side
	ctx = context.WithoutCancel(ctx)
	var state SettlementState
	switch req.Side {
	case Buy:
		state, err = e.settleBuy(ctx, s)
	case Sell:
		state, err = e.settleSell(ctx, s)
	}
	e.finish(ctx, log, s.ID, state, err)

	switch state {
	case Settled:
		log.Info("trade settled")
		res.Success = true
	case Inconsistent:
		log.Error("trade left unbalanced", zap.Error(err))
	case Compensated:
		log.Warn("trade compensated", zap.Error(err))
	default:
		log.Info("trade rejected", zap.Error(err))
	}
	return res, err
}

// settleBuy takes the money first, then credits the shares.
func (e *Engine) settleBuy(ctx context.Context, s Settlement) (SettlementState, error) {
	r := e.bank.Withdraw(ctx, s.Account, s.Total)
	if !r.Success() {
		return Rejected, fmt.Errorf("%w: %v", ErrInsufficientFunds, bankError(r, "no reason given"))
	}

	ok, err := e.shares.Adjust(ctx, s.Account, s.Symbol, Q(s.Quantity))
	if err == nil && ok {
		return Settled, nil
	}
	if err == nil {
		err = ErrLedgerRejected
	}

	refund := e.bank.Deposit(ctx, s.Account, s.Total)
	if refund.Success() {
		return Compensated, fmt.Errorf("shares not credited, payment refunded: %w", err)
	}
	return Inconsistent, &SettlementInconsistencyError{
		TradeID: s.ID,
		Side:    s.Side,
		Account: s.Account,
		Symbol:  s.Symbol,
		Moved:   fmt.Sprintf("%s withdrawn without shares credited (%v)", s.Total.Decimal(), err),
		Err:     bankError(refund, "refund refused"),
	}
}

// settleSell debits the shares first, then pays.
func (e *Engine) settleSell(ctx context.Context, s Settlement) (SettlementState, error) {
	ok, err := e.shares.Adjust(ctx, s.Account, s.Symbol, Q(-s.Quantity))
	if err != nil {
		return Rejected, err
	}
	if !ok {
		return Rejected, ErrLedgerRejected
	}

	r := e.bank.Deposit(ctx, s.Account, s.Total)
	if r.Success() {
		return Settled, nil
	}
	paymentErr := fmt.Errorf("%w: %v", ErrPaymentFailed, bankError(r, "no reason given"))

	ok, err = e.shares.Adjust(ctx, s.Account, s.Symbol, Q(s.Quantity))
	if err == nil && ok {
		return Compensated, fmt.Errorf("shares restored: %w", paymentErr)
	}
	if err == nil {
		err = ErrLedgerRejected
	}
	return Inconsistent, &SettlementInconsistencyError{
		TradeID: s.ID,
		Side:    s.Side,
		Account: s.Account,
		Symbol:  s.Symbol,
		Moved:   fmt.Sprintf("%d shares debited without payment (%v)", s.Quantity, paymentErr),
		Err:     err,
	}
}

// finish closes the journal record. A journal failure does not undo the
// trade, it is only logged.
func (e *Engine) finish(ctx context.Context, log *zap.Logger, tradeID string, state SettlementState, cause error) {
	if e.journal == nil {
		return
	}
	var note string
	if cause != nil {
		note = cause.Error()
	}
	if err := e.journal.Finish(ctx, tradeID, state, note); err != nil {
		log.Error("cannot finish journal record", zap.String("state", string(state)), zap.Error(err))
	}
}

// bankError returns the message of a refused operation, fallback if the bank
// gave none.
func bankError(r BankResponse, fallback string) error {
	if r.ErrorMessage == "" {
		return errors.New(fallback)
	}
	return errors.New(r.ErrorMessage)
}
