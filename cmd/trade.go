package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/etnz/investor"
	"github.com/google/subcommands"
)

// dispatch runs an invest command for the selected account and prints the reply.
func dispatch(ctx context.Context, args ...string) subcommands.ExitStatus {
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

	reply, handled := a.dispatcher.Dispatch(ctx, account, investor.CommandLabel, args)
	if !handled {
		fmt.Fprintf(os.Stderr, "Error: unknown command 'invest %v'\n", args)
		return subcommands.ExitUsageError
	}
	fmt.Println(reply)
	return subcommands.ExitSuccess
}

// --- Buy Command ---

type buyCmd struct {
	symbol   string
	quantity int64
}

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "buy shares at the current price" }
func (*buyCmd) Usage() string {
	return `inv buy -s <symbol> -q <quantity>

  Buys shares of a symbol at the current quote. The total price is withdrawn
  from the account balance.
`
}

func (c *buyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "Symbol to buy")
	f.Int64Var(&c.quantity, "q", 0, "Number of shares")
}

func (c *buyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.symbol == "" || c.quantity <= 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return dispatch(ctx, string(investor.Buy), c.symbol, strconv.FormatInt(c.quantity, 10))
}

// --- Sell Command ---

type sellCmd struct {
	symbol   string
	quantity int64
}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "sell shares at the current price" }
func (*sellCmd) Usage() string {
	return `inv sell -s <symbol> -q <quantity>

  Sells shares of a symbol at the current quote. The proceeds are deposited
  on the account balance. A sale cannot empty a holding.
`
}

func (c *sellCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "Symbol to sell")
	f.Int64Var(&c.quantity, "q", 0, "Number of shares")
}

func (c *sellCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.symbol == "" || c.quantity <= 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return dispatch(ctx, string(investor.Sell), c.symbol, strconv.FormatInt(c.quantity, 10))
}

// --- Price Command ---

type priceCmd struct{}

func (*priceCmd) Name() string     { return "price" }
func (*priceCmd) Synopsis() string { return "display the current price of a symbol" }
func (*priceCmd) Usage() string {
	return `inv price <symbol>

  Displays the current price per share of a symbol.
`
}

func (c *priceCmd) SetFlags(f *flag.FlagSet) {}

func (c *priceCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "a symbol is required as argument")
		return subcommands.ExitUsageError
	}
	a, err := openApp(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	// quotes do not need an account
	reply, _ := a.dispatcher.Dispatch(ctx, investor.AccountID{}, investor.CommandLabel, []string{"price", f.Arg(0)})
	fmt.Println(reply)
	return subcommands.ExitSuccess
}

// --- Invest Command ---

type investCmd struct{}

func (*investCmd) Name() string     { return "invest" }
func (*investCmd) Synopsis() string { return "run an invest command as typed in game" }
func (*investCmd) Usage() string {
	return `inv invest buy|sell <symbol> <quantity>
inv invest price <symbol>

  Runs the invest command with the same arguments and replies as the game
  server command.
`
}

func (c *investCmd) SetFlags(f *flag.FlagSet) {}

func (c *investCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return dispatch(ctx, f.Args()...)
}
