package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"monsterScope/internal/config"
)

func runShow(cmd *cobra.Command, args []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ids, err := config.ParseIDs(args)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return fmt.Errorf("at least one monster id is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	out, err := openSinks(ctx, cfg)
	if err != nil {
		return err
	}
	defer out.Close()

	logger.Debug("show start", zap.Uint64s("ids", ids), zap.String("contract", a.contract.String()))

	details, err := a.resolver.ResolveBatch(ctx, ids)
	return report(ctx, cmd, out, details, err, func() string {
		return "Failed to fetch monster details."
	}, "No monsters found.")
}
