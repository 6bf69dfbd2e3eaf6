package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jpalmerr/slotchecker"
	"github.com/jpalmerr/slotchecker/config"
)

// newLogger creates a JSON logger for CLI use.
func newLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

func runChecker(cmd *cobra.Command, args []string) error {
	s := loadSettings(cmd)
	logger := newLogger(s.Debug)
	slog.SetDefault(logger)

	logger.Info("loading configuration from file", "path", s.ConfigPath)

	opts := []slotchecker.Option{slotchecker.WithLogger(logger)}
	if s.SiteURL != "" {
		opts = append(opts, slotchecker.WithSiteURL(s.SiteURL))
	}

	checker, err := slotchecker.New(config.NewSource(s.ConfigPath), opts...)
	if err != nil {
		return err
	}

	// cancel on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return checker.Run(ctx)
}
