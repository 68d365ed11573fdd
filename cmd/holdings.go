package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/investor"
	"github.com/etnz/investor/renderer"
	"github.com/google/subcommands"
	"go.uber.org/zap"
)

type holdingsCmd struct {
	update bool
}

func (*holdingsCmd) Name() string     { return "holdings" }
func (*holdingsCmd) Synopsis() string { return "display the holdings of an account" }
func (*holdingsCmd) Usage() string {
	return `inv holdings [-u]

  Displays the shares held by the account. With -u, the current quotes are
  fetched to display the market value of each holding.
`
}

func (c *holdingsCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.update, "u", false, "fetch current quotes to value the holdings")
}

func (c *holdingsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	account, err := a.account()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	holdings, err := a.engine.Holdings(ctx, account)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading holdings: %v\n", err)
		return subcommands.ExitFailure
	}

	var prices map[investor.Symbol]investor.Money
	if c.update {
		prices = make(map[investor.Symbol]investor.Money)
		for _, h := range holdings {
			q, err := a.engine.Quote(ctx, h.Symbol)
			if err != nil {
				// an unpriced holding is still listed
				a.logger.Warn("cannot value holding", zap.String("symbol", string(h.Symbol)), zap.Error(err))
				continue
			}
			prices[h.Symbol] = q.Price
		}
	}

	printMarkdown(renderer.HoldingsMarkdown(account, holdings, prices))
	return subcommands.ExitSuccess
}
