package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/investor"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

// --- Balance Command ---

type balanceCmd struct{}

func (*balanceCmd) Name() string     { return "balance" }
func (*balanceCmd) Synopsis() string { return "display the cash balance of an account" }
func (*balanceCmd) Usage() string {
	return `inv balance

  Displays the cash balance of the account in the standalone bank.
`
}

func (c *balanceCmd) SetFlags(f *flag.FlagSet) {}

func (c *balanceCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	b, err := a.bank.Balance(ctx, account)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading balance: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Println(a.bank.Format(b))
	return subcommands.ExitSuccess
}

// --- Deposit Command ---

type depositCmd struct {
	amount string
}

func (*depositCmd) Name() string     { return "deposit" }
func (*depositCmd) Synopsis() string { return "add cash to an account" }
func (*depositCmd) Usage() string {
	return `inv deposit -a <amount>

  Deposits cash on the account in the standalone bank, to fund purchases.
`
}

func (c *depositCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.amount, "a", "", "Amount to deposit")
}

func (c *depositCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	amount, err := decimal.NewFromString(c.amount)
	if err != nil || !amount.IsPositive() {
		fmt.Fprintf(os.Stderr, "invalid amount %q, a positive number is required\n", c.amount)
		return subcommands.ExitUsageError
	}

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
	r := a.bank.Deposit(ctx, account, investor.M(amount, a.cfg.Currency))
	if !r.Success() {
		fmt.Fprintf(os.Stderr, "Deposit refused: %s\n", r.ErrorMessage)
		return subcommands.ExitFailure
	}
	fmt.Printf("Deposited %s, balance is %s.\n", a.bank.Format(r.Amount), a.bank.Format(r.Balance))
	return subcommands.ExitSuccess
}
