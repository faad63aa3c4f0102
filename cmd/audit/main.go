package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"rebate_audit/internal/config"
	"rebate_audit/internal/logging"
)

const usage = `Order Units & Rebate Audit

usage:
  audit seed                                 rebuild the store with fake audit data
  audit report [--start] [--end] [--partner] [--out]
                                             run the audit for a date window and partner
  audit serve [--port]                       expose seed and report over HTTP
`

func main() {
	// Load configuration
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, cfg, os.Args[1:], os.Stdout)
	stop()
	os.Exit(code)
}

// run dispatches one subcommand and returns the process exit code.
func run(ctx context.Context, cfg *config.Config, args []string, stdout io.Writer) int {
	log := logging.WithRunID(logging.New(cfg.LogLevel))

	if len(args) == 0 {
		fmt.Fprint(stdout, usage)
		return 2
	}

	a := newApp(cfg, log)
	defer a.close()

	var err error
	switch args[0] {
	case "seed":
		err = a.seed(ctx, args[1:], stdout)
	case "report":
		err = a.report(ctx, args[1:], stdout)
	case "serve":
		err = a.serve(ctx, args[1:])
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
		return 0
	default:
		fmt.Fprintf(stdout, "unknown command %q\n\n%s", args[0], usage)
		return 2
	}

	var uerr *usageError
	switch {
	case err == nil, errors.Is(err, flag.ErrHelp):
		return 0
	case errors.As(err, &uerr):
		return 2
	default:
		log.WithError(err).Errorf("%s failed", args[0])
		return 1
	}
}
