// Package yamlstore persists holdings in a YAML file.
//
// The layout is the one of the game server configuration file: a holding
// lives at the key path accounts.<accountId>.<symbol>.
//
//	accounts:
//	  0f8fad5b-d9cb-469f-a165-70867728950e:
//	    AAPL: 5
//	    MSFT: 0.5
package yamlstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/etnz/investor"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// document is the YAML file content. The file may be shared with other
// settings: keys other than accounts are kept as read.
type document struct {
	Accounts map[string]map[string]quantity `yaml:"accounts"`
	Others   map[string]any                 `yaml:",inline"`
}

// quantity is persisted as a plain YAML number with all its digits.
type quantity struct {
	decimal.Decimal
}

func (q quantity) MarshalYAML() (any, error) {
	tag := "!!float"
	if q.IsInteger() {
		tag = "!!int"
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: q.String()}, nil
}

func (q *quantity) UnmarshalYAML(value *yaml.Node) error {
	d, err := decimal.NewFromString(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: invalid quantity %q: %w", value.Line, value.Value, err)
	}
	q.Decimal = d
	return nil
}

// Store is a HoldingStore backed by a YAML file.
//
// The whole file is held in memory, every Set rewrites it. Reading a missing
// holding registers a default zero entry, persisted with the next write.
type Store struct {
	mu   sync.Mutex
	path string
	doc  document
}

var _ investor.HoldingStore = (*Store)(nil)

// Open loads the file at path. A missing file is an empty store.
func Open(path string) (*Store, error) {
	s := &Store{path: path}
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("cannot read holdings %q: %w", path, err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, &s.doc); err != nil {
			return nil, fmt.Errorf("cannot decode holdings %q: %w", path, err)
		}
	}
	if s.doc.Accounts == nil {
		s.doc.Accounts = make(map[string]map[string]quantity)
	}
	return s, nil
}

// Get returns the holding, 0 if it does not exist.
func (s *Store) Get(_ context.Context, account investor.AccountID, symbol investor.Symbol) (investor.Quantity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	symbols := s.account(account)
	q, ok := symbols[string(symbol)]
	if !ok {
		// addDefault: the key shows up in the file on the next save.
		symbols[string(symbol)] = q
	}
	return investor.Q(q.Decimal), nil
}

// Set writes the holding and saves the file.
func (s *Store) Set(_ context.Context, account investor.AccountID, symbol investor.Symbol, q investor.Quantity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	symbols := s.account(account)
	previous, existed := symbols[string(symbol)]
	symbols[string(symbol)] = quantity{q.Decimal()}
	if err := s.save(); err != nil {
		// keep memory and disk in sync
		if existed {
			symbols[string(symbol)] = previous
		} else {
			delete(symbols, string(symbol))
		}
		return err
	}
	return nil
}

// List returns the holdings of account sorted by symbol.
func (s *Store) List(_ context.Context, account investor.AccountID) ([]investor.Holding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	symbols := s.doc.Accounts[account.String()]
	holdings := make([]investor.Holding, 0, len(symbols))
	for sym, q := range symbols {
		holdings = append(holdings, investor.Holding{
			Account:  account,
			Symbol:   investor.Symbol(sym),
			Quantity: investor.Q(q.Decimal),
		})
	}
	sort.Slice(holdings, func(i, j int) bool { return holdings[i].Symbol < holdings[j].Symbol })
	return holdings, nil
}

// Save writes the file, including defaults registered by reads.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save()
}

func (s *Store) account(account investor.AccountID) map[string]quantity {
	key := account.String()
	symbols, ok := s.doc.Accounts[key]
	if !ok {
		symbols = make(map[string]quantity)
		s.doc.Accounts[key] = symbols
	}
	return symbols
}

// save writes to a temporary file and renames it, so that a crash never
// leaves a truncated file behind.
func (s *Store) save() error {
	data, err := yaml.Marshal(&s.doc)
	if err != nil {
		return fmt.Errorf("cannot encode holdings: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("cannot create directory for %q: %w", s.path, err)
	}
	f, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("cannot save holdings %q: %w", s.path, err)
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("cannot save holdings %q: %w", s.path, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("cannot save holdings %q: %w", s.path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("cannot save holdings %q: %w", s.path, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("cannot save holdings %q: %w", s.path, err)
	}
	return nil
}
