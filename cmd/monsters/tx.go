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
	"monsterScope/internal/stacks"
	"monsterScope/internal/storage"
	"monsterScope/internal/tx"
)

func runMint(cmd *cobra.Command, _ []string) error {
	name, _ := cmd.Flags().GetString("name")
	image, _ := cmd.Flags().GetInt("image")

	return submit(cmd, func(_ context.Context, a *app) (tx.ContractCall, error) {
		return tx.CreateMonster(a.contract, name, image)
	}, "Monster creation queued.")
}

func runFeed(cmd *cobra.Command, args []string) error {
	id, err := parseMonsterID(args)
	if err != nil {
		return err
	}
	skipCheck, _ := cmd.Flags().GetBool("skip-check")

	return submit(cmd, func(ctx context.Context, a *app) (tx.ContractCall, error) {
		if !skipCheck && !a.resolver.CheckFeed(ctx, id) {
			return tx.ContractCall{}, fmt.Errorf("monster %d cannot be fed right now", id)
		}
		return tx.FeedMonster(a.contract, id), nil
	}, "Feeding queued.")
}

func runJoin(cmd *cobra.Command, args []string) error {
	id, err := parseMonsterID(args)
	if err != nil {
		return err
	}

	return submit(cmd, func(_ context.Context, a *app) (tx.ContractCall, error) {
		return tx.UseMonster(a.contract, id), nil
	}, "Joining competition.")
}

// parseMonsterID returns the single monster id named by args.
func parseMonsterID(args []string) (uint64, error) {
	ids, err := config.ParseIDs(args)
	if err != nil {
		return 0, err
	}
	if len(ids) != 1 {
		return 0, fmt.Errorf("exactly one monster id is required")
	}
	return ids[0], nil
}

func submit(cmd *cobra.Command, build func(context.Context, *app) (tx.ContractCall, error), status string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadTx(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	postConditionMode, err := tx.ParsePostConditionMode(cfg.PostConditionMode)
	if err != nil {
		return err
	}
	anchorMode, err := tx.ParseAnchorMode(cfg.AnchorMode)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(cfg.Config, logger)
	if err != nil {
		return err
	}

	call, err := build(ctx, a)
	if err != nil {
		return err
	}
	call.PostConditionMode = postConditionMode
	call.AnchorMode = anchorMode

	var submitter tx.Submitter = tx.NewOutbox(storage.NewJsonlStorage(cfg.Outbox), logger)
	requestID, err := submitter.Submit(ctx, call)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Transaction failed: %v\n", err)
		return err
	}

	logger.Debug("submitted", zap.String("request_id", requestID), zap.String("outbox", cfg.Outbox))
	fmt.Fprintln(cmd.ErrOrStderr(), status)
	fmt.Fprintln(cmd.OutOrStdout(), requestID)
	return nil
}

func runTxStatus(cmd *cobra.Command, args []string) error {
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := stacks.NewClient(cfg.APIURL, stacks.Options{Timeout: cfg.Timeout, Logger: logger})
	if err != nil {
		return err
	}

	status, err := client.Transaction(ctx, args[0])
	if err != nil {
		return fmt.Errorf("fetch transaction: %w", err)
	}
	return storage.NewJsonlStorage(cfg.Out).PutRecords(ctx, status)
}
