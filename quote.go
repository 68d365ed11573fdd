package investor

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
)

// QuoteSource returns the current unit price of a symbol, already normalized
// by NormalizePrice.
type QuoteSource interface {
	Price(ctx context.Context, symbol Symbol) (decimal.Decimal, error)
}

const (
	// DefaultQuoteURL is the base address of the AlphaVantage API.
	DefaultQuoteURL = "https://www.alphavantage.co/"
	// DefaultQuoteTimeout bounds a single quote request.
	DefaultQuoteTimeout = 10 * time.Second

	// PriceScale multiplies every raw upstream quote. Existing holdings and
	// balances have been settled with it, so it is kept as is.
	PriceScale = 1000
)

var (
	scaleCents = decimal.NewFromInt(PriceScale * 100)
	hundred    = decimal.NewFromInt(100)
)

// NormalizePrice turns a raw upstream quote into a unit price.
//
// The raw value is scaled by PriceScale and truncated to whole cents, then
// the cents are integer divided by 100, which drops them: 1.23456 becomes
// 1234. Non positive raw values give 0.
func NormalizePrice(raw decimal.Decimal) decimal.Decimal {
	if !raw.IsPositive() {
		return decimal.Zero
	}
	cents := raw.Mul(scaleCents).Truncate(0)
	return cents.Div(hundred).Truncate(0)
}

// AlphaVantage fetches quotes from the GLOBAL_QUOTE function of alphavantage.co.
//
// Every call performs exactly one request, with no cache and no retry.
type AlphaVantage struct {
	key     string
	base    string
	timeout time.Duration
	client  *http.Client
}

// NewAlphaVantage returns a quote source for apiKey. An empty baseURL means
// DefaultQuoteURL and a zero timeout means DefaultQuoteTimeout.
func NewAlphaVantage(apiKey, baseURL string, timeout time.Duration) *AlphaVantage {
	if baseURL == "" {
		baseURL = DefaultQuoteURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	if timeout <= 0 {
		timeout = DefaultQuoteTimeout
	}
	return &AlphaVantage{
		key:     apiKey,
		base:    baseURL,
		timeout: timeout,
		client:  new(http.Client),
	}
}

// Price returns the normalized price of symbol.
func (a *AlphaVantage) Price(ctx context.Context, symbol Symbol) (decimal.Decimal, error) {
	raw, err := a.RawPrice(ctx, symbol)
	if err != nil {
		return decimal.Zero, err
	}
	return NormalizePrice(raw), nil
}

/*
RawPrice returns the price as published by the service.

	{
	    "Global Quote": {
	        "01. symbol": "IBM",
	        "02. open": "219.0000",
	        "05. price": "221.4500",
	        ...
	    }
	}

A payload without "Global Quote" is an error (AlphaVantage answers that way
for unknown symbols or exhausted keys), a "Global Quote" without a usable
"05. price" is a zero price.
*/
func (a *AlphaVantage) RawPrice(ctx context.Context, symbol Symbol) (decimal.Decimal, error) {
	addr := fmt.Sprintf("%squery?function=GLOBAL_QUOTE&symbol=%s&apikey=%s", a.base, url.QueryEscape(string(symbol)), url.QueryEscape(a.key))

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	var jobj any
	if err := jwget(ctx, a.client, addr, &jobj); err != nil {
		return decimal.Zero, &QuoteFetchError{Symbol: symbol, Err: err}
	}

	quote, err := jsonpath.Get(`$["Global Quote"]`, jobj)
	if err != nil {
		return decimal.Zero, &QuoteFetchError{Symbol: symbol, Err: fmt.Errorf("unexpected payload: %w", err)}
	}
	if _, ok := quote.(map[string]any); !ok {
		return decimal.Zero, &QuoteFetchError{Symbol: symbol, Err: errors.New(`unexpected payload: "Global Quote" is not an object`)}
	}

	jval, err := jsonpath.Get(`$["05. price"]`, quote)
	if err != nil {
		// no price field at all
		return decimal.Zero, nil
	}
	return parsePrice(symbol, jval)
}

// parsePrice reads a json price value, the service publishes strings but
// numbers are accepted too.
func parsePrice(symbol Symbol, jval any) (decimal.Decimal, error) {
	switch v := jval.(type) {
	case nil:
		return decimal.Zero, nil
	case float64:
		return decimal.NewFromFloat(v), nil
	case string:
		v = strings.TrimSpace(v)
		if v == "" {
			return decimal.Zero, nil
		}
		d, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Zero, &QuoteFetchError{Symbol: symbol, Err: fmt.Errorf("invalid price %q: %w", v, err)}
		}
		return d, nil
	default:
		return decimal.Zero, &QuoteFetchError{Symbol: symbol, Err: fmt.Errorf("invalid price %v", jval)}
	}
}
