// Command inv trades shares of an investor account from the command line.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/etnz/investor/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	// exits when invoked by the shell to complete a command line
	completion().Complete("inv")

	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	cmd.Register(subcommands.DefaultCommander)

	flag.Parse()
	os.Exit(int(subcommands.Execute(context.Background())))
}

func completion() *complete.Command {
	symbol := predict.Something
	sub := map[string]*complete.Command{
		"buy":      {Flags: map[string]complete.Predictor{"s": symbol, "q": predict.Something}},
		"sell":     {Flags: map[string]complete.Predictor{"s": symbol, "q": predict.Something}},
		"price":    {Args: symbol},
		"invest":   {Args: predict.Set{"buy", "sell", "price"}},
		"holdings": {Flags: map[string]complete.Predictor{"u": predict.Nothing}},
		"balance":  {},
		"deposit":  {Flags: map[string]complete.Predictor{"a": predict.Something}},
		"journal":  {Flags: map[string]complete.Predictor{"all": predict.Nothing, "n": predict.Something}},
		"serve":    {Flags: map[string]complete.Predictor{"addr": predict.Something}},
	}
	for _, name := range cmd.Names {
		if _, ok := sub[name]; !ok {
			sub[name] = &complete.Command{}
		}
	}
	return &complete.Command{
		Sub: sub,
		Flags: map[string]complete.Predictor{
			"config":  predict.Files("*.yml"),
			"account": predict.Something,
		},
	}
}
