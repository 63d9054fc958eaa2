package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/befa-admin/internal/app"
	"github.com/okian/befa-admin/internal/cli"
	"github.com/okian/befa-admin/internal/config"
	"github.com/okian/befa-admin/pkg/logger"
)

// Exit codes.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if err := logger.InitWithWriter(stderr); err != nil {
		fmt.Fprintln(stderr, "failed to initialize logging: "+err.Error())
		return exitError
	}
	log := logger.Get()

	// Load configuration (defaults -> .env -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(stderr, "failed to load config: "+err.Error())
		return exitError
	}

	// Apply configured log level (fallback to warn on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to warn", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("warn")
	}

	nav := cli.NewNavigator(stderr)
	a, err := app.New(ctx, cfg,
		app.WithLogger(log),
		app.WithNavigator(nav),
		app.WithNotifier(cli.NewToaster(stderr)),
	)
	if err != nil {
		fmt.Fprintln(stderr, "failed to start: "+err.Error())
		return exitError
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Error(ctx, "shutdown failed", logger.Error(err))
		}
	}()

	shell := cli.New(a, nav, stdout, stderr, cli.WithInput(stdin))
	if err := shell.Run(ctx, args); err != nil {
		fmt.Fprintln(stderr, "error: "+err.Error())
		if errors.Is(err, cli.ErrUsage) || errors.Is(err, cli.ErrUnknownRoute) {
			return exitUsage
		}
		return exitError
	}
	return exitOK
}
