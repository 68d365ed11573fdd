package investor

import (
	"context"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/shopspring/decimal"
)

// CachedQuotes keeps successful prices of a QuoteSource for a short while.
type CachedQuotes struct {
	src   QuoteSource
	cache *ristretto.Cache
	ttl   time.Duration
}

// NewCachedQuotes wraps src with a cache whose entries live for ttl.
func NewCachedQuotes(src QuoteSource, ttl time.Duration) (*CachedQuotes, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters:        1e4,
		MaxCost:            1 << 10, // one unit per symbol
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, err
	}
	return &CachedQuotes{src: src, cache: c, ttl: ttl}, nil
}

// WithQuoteCache returns src unchanged when ttl is not positive, and a
// CachedQuotes otherwise.
func WithQuoteCache(src QuoteSource, ttl time.Duration) (QuoteSource, error) {
	if ttl <= 0 {
		return src, nil
	}
	return NewCachedQuotes(src, ttl)
}

// Price returns the cached price of symbol or asks the underlying source.
// Errors are never cached.
func (c *CachedQuotes) Price(ctx context.Context, symbol Symbol) (decimal.Decimal, error) {
	if v, ok := c.cache.Get(string(symbol)); ok {
		return v.(decimal.Decimal), nil
	}
	p, err := c.src.Price(ctx, symbol)
	if err != nil {
		return p, err
	}
	c.cache.SetWithTTL(string(symbol), p, 1, c.ttl)
	c.cache.Wait()
	return p, nil
}

// Close releases the cache.
func (c *CachedQuotes) Close() { c.cache.Close() }
