package investor

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"
)

// CommandLabel is the only command a Dispatcher answers to.
const CommandLabel = "invest"

// Dispatcher turns "invest" commands into trades and quotes, and their
// outcome into a reply for the account holder.
//
// Two shapes are understood:
//
//	invest buy|sell <symbol> <quantity>
//	invest price <symbol>
//
// Anything else is not handled, so that other command handlers can have a go.
type Dispatcher struct {
	engine *Engine
	logger *zap.Logger
}

func NewDispatcher(engine *Engine, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{engine: engine, logger: logger}
}

// Dispatch runs the command label with args on behalf of account.
// handled is false when the command shape is not recognized, reply is then empty.
func (d *Dispatcher) Dispatch(ctx context.Context, account AccountID, label string, args []string) (reply string, handled bool) {
	if label != CommandLabel {
		return "", false
	}
	switch {
	case len(args) == 3 && (args[0] == string(Buy) || args[0] == string(Sell)):
		return d.trade(ctx, account, Side(args[0]), args[1], args[2]), true
	case len(args) == 2 && args[0] == "price":
		return d.price(ctx, args[1]), true
	}
	return "", false
}

func (d *Dispatcher) trade(ctx context.Context, account AccountID, side Side, sym, qty string) string {
	symbol, err := ParseSymbol(sym)
	if err != nil {
		return "Invalid parameters."
	}
	quantity, err := strconv.ParseInt(qty, 10, 64)
	if err != nil || quantity <= 0 {
		return "Invalid parameters."
	}

	res, err := d.engine.Execute(ctx, account, TradeRequest{Side: side, Symbol: symbol, Quantity: quantity})
	if err == nil {
		if side == Buy {
			return fmt.Sprintf("You have purchased %d share(s) of %s, for %s.", quantity, symbol, d.engine.Format(res.TotalPrice))
		}
		return fmt.Sprintf("You have sold %d share(s) of %s, for %s.", quantity, symbol, d.engine.Format(res.TotalPrice))
	}

	var inconsistent *SettlementInconsistencyError
	var fetch *QuoteFetchError
	switch {
	case errors.As(err, &inconsistent):
		return fmt.Sprintf("Trade could not be settled, please contact an operator (ref %s).", res.ID)
	case errors.As(err, &fetch):
		d.logger.Warn("quote unavailable", zap.String("symbol", string(symbol)), zap.Error(err))
		return "Error fetching stock."
	case errors.Is(err, ErrInvalidPurchase):
		return "Invalid Purchase."
	case errors.Is(err, ErrInvalidParameters):
		return "Invalid parameters."
	case side == Sell && errors.Is(err, ErrLedgerRejected):
		return fmt.Sprintf("You do not hold enough shares of %s.", symbol)
	default:
		return fmt.Sprintf("Transaction failed: %v.", err)
	}
}

func (d *Dispatcher) price(ctx context.Context, sym string) string {
	symbol, err := ParseSymbol(sym)
	if err != nil {
		return "Error fetching stock."
	}
	q, err := d.engine.Quote(ctx, symbol)
	if err != nil {
		if !errors.Is(err, ErrInvalidQuote) {
			d.logger.Warn("quote unavailable", zap.String("symbol", string(symbol)), zap.Error(err))
		}
		return "Error fetching stock."
	}
	return fmt.Sprintf("%s is %s per share.", symbol, d.engine.Format(q.Price))
}
