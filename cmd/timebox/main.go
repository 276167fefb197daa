package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"slices"

	"github.com/mattn/go-isatty"

	"github.com/alexanderramin/timebox/internal/app"
	"github.com/alexanderramin/timebox/internal/cli"
	"github.com/alexanderramin/timebox/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := app.LoadConfig()
	if err != nil {
		return err
	}

	// --debug is also a cobra flag, but logging has to be set up before
	// the command tree exists.
	log, err := logger.Init(logger.Config{
		Debug:     cfg.Debug || slices.Contains(os.Args[1:], "--debug"),
		ConfigDir: cfg.ConfigDir,
	})
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}

	application, cleanup, err := app.Build(cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	application.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Debug("starting", "db", cfg.DBPath, "llm", cfg.LLM.Enabled)
	return cli.NewRootCmd(application).ExecuteContext(ctx)
}
