package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samvad-hq/samvad-news-portal/internal/app"
	"github.com/samvad-hq/samvad-news-portal/internal/config"
	"github.com/samvad-hq/samvad-news-portal/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "portal start failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	logger.InfoObj("portal starting", "config", cfg.Redacted())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	portal, err := app.NewPortal(cfg, log)
	if err != nil {
		logger.ErrorObj("failed to initialize portal", "error", err.Error())
		return err
	}

	if err := portal.Run(ctx); err != nil {
		return fmt.Errorf("portal run: %w", err)
	}

	return nil
}
