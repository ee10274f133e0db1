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
	"monsterScope/internal/indexer"
	"monsterScope/internal/monster"
	"monsterScope/internal/storage"
)

func runIndex(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadIndex(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.ToID == 0 {
		return fmt.Errorf("to id is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(cfg.Config, logger)
	if err != nil {
		return err
	}
	out, err := openSinks(ctx, cfg.Config)
	if err != nil {
		return err
	}
	defer out.Close()

	var (
		sink       storage.Storage = out.out
		checkpoint indexer.Checkpointer
	)
	if out.store != nil {
		sink = out.store
		checkpoint = &indexer.DBCheckpoint{Store: out.store, Name: cfg.StateName}
	} else {
		checkpoint = indexer.NewFileCheckpoint(cfg.Checkpoint, cfg.CheckpointEnabled)
	}

	runner := indexer.NewRunner(indexer.RunConfig{
		FromID:       cfg.FromID,
		ToID:         cfg.ToID,
		BatchSize:    cfg.BatchSize,
		SkipUnminted: cfg.SkipUnminted,
	}, a.resolver, sink, checkpoint, logger)

	logger.Info("indexer start",
		zap.String("contract", a.contract.String()),
		zap.Uint64("from", cfg.FromID),
		zap.Uint64("to", cfg.ToID),
		zap.Uint64("batch_size", cfg.BatchSize),
		zap.String("out", cfg.Out),
		zap.Bool("postgres", out.store != nil),
		zap.Bool("checkpoint_enabled", cfg.CheckpointEnabled),
	)

	err = runner.Run(ctx)
	var batchErr *monster.BatchError
	if errors.As(err, &batchErr) {
		fmt.Fprintln(cmd.ErrOrStderr(), "Failed to fetch monster details.")
		return fmt.Errorf("%w: %v", errDegraded, batchErr)
	}
	return err
}
