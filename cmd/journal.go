package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/investor/renderer"
	"github.com/google/subcommands"
)

type journalCmd struct {
	all   bool
	limit int
}

func (*journalCmd) Name() string     { return "journal" }
func (*journalCmd) Synopsis() string { return "review the settlement journal" }
func (*journalCmd) Usage() string {
	return `inv journal [-all [-n <limit>]]

  Lists the trades that need an operator: the ones left pending by a crash
  and the ones that could not be compensated.

  With -all, lists the last trades of the account instead.
`
}

func (c *journalCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.all, "all", false, "list the last trades of the account")
	f.IntVar(&c.limit, "n", 20, "maximum number of trades listed with -all")
}

func (c *journalCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	if !c.all {
		list, err := a.journal.Unfinished(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading journal: %v\n", err)
			return subcommands.ExitFailure
		}
		printMarkdown(renderer.SettlementsMarkdown("Unfinished trades", list))
		return subcommands.ExitSuccess
	}

	account, err := a.account()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	list, err := a.journal.List(ctx, account, c.limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading journal: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.SettlementsMarkdown(fmt.Sprintf("Trades of %s", account), list))
	return subcommands.ExitSuccess
}
