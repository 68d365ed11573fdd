package investor

// Side of a trade.
type Side string

const (
	Buy  Side = "buy"
	Sell Side = "sell"
)

// TradeRequest is a request to buy or sell a whole quantity of a symbol.
type TradeRequest struct {
	Side     Side
	Symbol   Symbol
	Quantity int64
}

// TradeResult is the outcome of a trade.
type TradeResult struct {
	ID         string `json:"id"`
	Success    bool   `json:"success"`
	UnitPrice  Money  `json:"unitPrice"`
	TotalPrice Money  `json:"totalPrice"`
	Message    string `json:"message,omitempty"`
}

// Quote is the current unit price of a symbol.
type Quote struct {
	Symbol Symbol `json:"symbol"`
	Price  Money  `json:"price"`
}
