package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"monsterScope/internal/config"
	"monsterScope/internal/model"
	"monsterScope/internal/monster"
)

func runOwned(cmd *cobra.Command, args []string) error {
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

	principal, err := config.ParsePrincipal(args[0])
	if err != nil {
		return err
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

	logger.Info("owned start",
		zap.String("principal", principal),
		zap.String("contract", a.contract.String()),
		zap.String("api_url", cfg.APIURL),
		zap.Int("concurrency", cfg.Concurrency),
	)

	details, err := a.resolver.ResolveOwned(ctx, principal)
	return report(ctx, cmd, out, details, err, func() string {
		return fmt.Sprintf("Failed to fetch monsters for %s", principal)
	}, "No monsters found for this user.")
}

// report writes resolved details and turns resolution errors into status messages.
func report(ctx context.Context, cmd *cobra.Command, out *sinks, details []model.MonsterDetails, err error, fetchFailed func() string, empty string) error {
	stderr := cmd.ErrOrStderr()

	var batchErr *monster.BatchError
	degraded := false
	switch {
	case err == nil:
	case errors.As(err, &batchErr):
		fmt.Fprintln(stderr, "Failed to fetch monster details.")
		degraded = true
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		var typed *monster.Error
		if errors.As(err, &typed) && typed.Op == monster.OpOwnedIDs {
			fmt.Fprintln(stderr, fetchFailed())
		} else {
			fmt.Fprintln(stderr, "Failed to fetch monster details.")
		}
		return err
	}

	if len(details) == 0 && !degraded {
		fmt.Fprintln(stderr, empty)
		return nil
	}
	if err := out.putMonsters(ctx, details); err != nil {
		return err
	}
	if degraded {
		return fmt.Errorf("%w: %v", errDegraded, batchErr)
	}
	return nil
}
