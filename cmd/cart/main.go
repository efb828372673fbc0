package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"github.com/idilsaglam/cart/internal/cart"
	"github.com/idilsaglam/cart/internal/cli"
	"github.com/idilsaglam/cart/internal/config"
	"github.com/idilsaglam/cart/internal/platform/logger"
	"github.com/idilsaglam/cart/internal/tui"
	"github.com/idilsaglam/cart/internal/ui"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		ui.Fail(os.Stderr, "config: "+err.Error())
		return 1
	}

	// Root flags (apply to every subcommand) override the environment.
	flag.StringVar(&cfg.Theme, "theme", cfg.Theme, "classic, neon or mono")
	flag.StringVar(&cfg.Backend, "backend", cfg.Backend, "json, sqlite, redis or memory")
	flag.BoolVar(&cfg.OrderedWrites, "ordered", cfg.OrderedWrites, "serialize writes so the saved cart always ends at the latest state")
	noColor := flag.Bool("no-color", false, "disable colors")
	flag.Parse()
	if err := cfg.Validate(); err != nil {
		ui.Fail(os.Stderr, err.Error())
		return 2
	}
	ui.SetColorForcing(false, *noColor)
	ui.SetTheme(cfg.Theme)

	// Hand the remaining args to the CLI runner.
	args := flag.Args()
	if len(args) == 0 {
		cli.PrintHelp(os.Stderr)
		return 2
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		ui.Fail(os.Stderr, "logger: "+err.Error())
		return 1
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	storage, closer, err := cli.OpenStorage(ctx, cfg, log)
	if err != nil {
		ui.Fail(os.Stderr, err.Error())
		return 1
	}
	defer func() {
		if err := closer.Close(); err != nil {
			log.Warn("closing storage", zap.Error(err))
		}
	}()

	opts := []cart.Option{cart.WithLogger(log)}
	if cfg.OrderedWrites {
		opts = append(opts, cart.WithOrderedWrites())
	}

	code := cli.Run(ctx, args, cli.Env{
		Storage:     storage,
		CartOptions: opts,
		Out:         os.Stdout,
		Err:         os.Stderr,
		Interactive: tui.Run,
	})
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	return code
}
