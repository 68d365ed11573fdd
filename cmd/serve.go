package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/etnz/investor/api"
	"github.com/google/subcommands"
	"go.uber.org/zap"
)

type serveCmd struct {
	addr string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the invest commands over HTTP" }
func (*serveCmd) Usage() string {
	return `inv serve [-addr <host:port>]

  Starts the HTTP API. It stops on SIGINT or SIGTERM.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", "", "listen address, defaults to the 'server.addr' configuration key")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	addr := c.addr
	if addr == "" {
		addr = a.cfg.Server.Addr
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	unfinished, err := a.journal.Unfinished(ctx)
	if err != nil {
		a.logger.Error("cannot read journal", zap.Error(err))
	} else if len(unfinished) > 0 {
		a.logger.Warn("trades need review, see 'inv journal'", zap.Int("count", len(unfinished)))
	}

	srv := api.NewServer(a.engine, a.dispatcher, a.cfg.Server.Origins, a.logger)
	if err := srv.Start(ctx, addr); err != nil {
		a.logger.Error("server failed", zap.Error(err))
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
