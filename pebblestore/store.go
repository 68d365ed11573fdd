// Package pebblestore persists holdings in a pebble key-value database.
package pebblestore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cockroachdb/pebble"
	"github.com/etnz/investor"
	"github.com/shopspring/decimal"
)

// Store is a HoldingStore backed by pebble.
type Store struct {
	db *pebble.DB
}

var _ investor.HoldingStore = (*Store)(nil)

func Open(path string) (*Store, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// keys: h:<account>:<symbol>
func holdingPrefix(account investor.AccountID) []byte {
	return []byte("h:" + account.String() + ":")
}

func holdingKey(account investor.AccountID, symbol investor.Symbol) []byte {
	return append(holdingPrefix(account), string(symbol)...)
}

// keyUpperBound returns the smallest key greater than every key starting with prefix.
func keyUpperBound(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}

func (s *Store) Get(_ context.Context, account investor.AccountID, symbol investor.Symbol) (investor.Quantity, error) {
	val, closer, err := s.db.Get(holdingKey(account, symbol))
	if errors.Is(err, pebble.ErrNotFound) {
		return investor.Q(0), nil
	}
	if err != nil {
		return investor.Quantity{}, fmt.Errorf("failed to get holding: %w", err)
	}
	defer closer.Close()
	return decode(val)
}

// Set persists the holding with a synced write.
func (s *Store) Set(_ context.Context, account investor.AccountID, symbol investor.Symbol, q investor.Quantity) error {
	if err := s.db.Set(holdingKey(account, symbol), []byte(q.String()), pebble.Sync); err != nil {
		return fmt.Errorf("failed to save holding: %w", err)
	}
	return nil
}

// List returns the holdings of account, in key (symbol) order.
func (s *Store) List(_ context.Context, account investor.AccountID) ([]investor.Holding, error) {
	prefix := holdingPrefix(account)
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: keyUpperBound(prefix),
	})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var holdings []investor.Holding
	for iter.First(); iter.Valid(); iter.Next() {
		q, err := decode(iter.Value())
		if err != nil {
			return nil, err
		}
		holdings = append(holdings, investor.Holding{
			Account:  account,
			Symbol:   investor.Symbol(strings.TrimPrefix(string(iter.Key()), string(prefix))),
			Quantity: q,
		})
	}
	return holdings, iter.Error()
}

func decode(val []byte) (investor.Quantity, error) {
	d, err := decimal.NewFromString(string(val))
	if err != nil {
		return investor.Quantity{}, fmt.Errorf("failed to decode holding %q: %w", val, err)
	}
	return investor.Q(d), nil
}
