// Package cmd implements the CLI application to trade from the command line.
package cmd

import (
	"errors"
	"flag"
	"fmt"

	"github.com/etnz/investor"
	"github.com/etnz/investor/pebblestore"
	"github.com/etnz/investor/sqlite"
	"github.com/etnz/investor/yamlstore"
	"github.com/google/subcommands"
	"go.uber.org/zap"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&buyCmd{}, "trading")
	c.Register(&sellCmd{}, "trading")
	c.Register(&priceCmd{}, "trading")
	c.Register(&investCmd{}, "trading")

	c.Register(&holdingsCmd{}, "accounts")
	c.Register(&balanceCmd{}, "accounts")
	c.Register(&depositCmd{}, "accounts")
	c.Register(&journalCmd{}, "accounts")

	c.Register(&serveCmd{}, "server")
}

// Names of the registered subcommands, for shell completion.
var Names = []string{"buy", "sell", "price", "invest", "holdings", "balance", "deposit", "journal", "serve"}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "investor.yml", "Path to the configuration file (YAML)")
var accountFlag = flag.String("account", "", "Account id to act on. Defaults to the 'account' configuration key.")

// app holds the services wired from the configuration.
type app struct {
	cfg        *investor.Config
	logger     *zap.Logger
	bank       *sqlite.Bank
	journal    *sqlite.Journal
	engine     *investor.Engine
	dispatcher *investor.Dispatcher
	closers    []func() error
}

// openApp loads the configuration at path and wires the services.
func openApp(path string) (a *app, err error) {
	cfg, err := investor.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	a = &app{cfg: cfg}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	a.logger, err = newLogger(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("cannot create logger: %w", err)
	}
	a.closers = append(a.closers, func() error { a.logger.Sync(); return nil })
	if cfg.Investing.AlphaVantageKey == "" {
		a.logger.Warn("no quote service key configured, set investing.alphavantagekey or ALPHAVANTAGE_KEY")
	}

	store, err := openStore(cfg.Store)
	if err != nil {
		return nil, err
	}
	if c, ok := store.(interface{ Close() error }); ok {
		a.closers = append(a.closers, c.Close)
	}

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, db.Close)
	a.bank = sqlite.NewBank(db, cfg.Currency)
	a.journal = sqlite.NewJournal(db)

	quotes, err := investor.WithQuoteCache(
		investor.NewAlphaVantage(cfg.Investing.AlphaVantageKey, cfg.Investing.BaseURL, cfg.Investing.Timeout),
		cfg.Investing.CacheTTL)
	if err != nil {
		return nil, err
	}
	if c, ok := quotes.(*investor.CachedQuotes); ok {
		a.closers = append(a.closers, func() error { c.Close(); return nil })
	}

	a.engine = investor.NewEngine(quotes, a.bank, investor.NewShareLedger(store),
		investor.WithJournal(a.journal),
		investor.WithLogger(a.logger),
		investor.WithCurrency(cfg.Currency),
	)
	a.dispatcher = investor.NewDispatcher(a.engine, a.logger)
	return a, nil
}

func openStore(cfg investor.StoreConfig) (investor.HoldingStore, error) {
	switch cfg.Type {
	case "pebble":
		return pebblestore.Open(cfg.Path)
	case "yaml":
		return yamlstore.Open(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown store type %q", cfg.Type)
	}
}

// Close releases the services in reverse order of creation.
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}

// account returns the account selected by the -account flag or the configuration.
func (a *app) account() (investor.AccountID, error) {
	s := *accountFlag
	if s == "" {
		s = a.cfg.Account
	}
	if s == "" {
		return investor.AccountID{}, errors.New("no account selected, use -account or set the 'account' configuration key")
	}
	return investor.ParseAccountID(s)
}
