package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"monsterScope/internal/competition"
	"monsterScope/internal/config"
	"monsterScope/internal/model"
)

func runCompetition(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadCompetition(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	participantIDs, err := config.ParseIDs(cfg.ParticipantIDs)
	if err != nil {
		return err
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

	tracker := competition.NewTracker(a.contract, cfg.Sender, a.client, a.client, a.resolver, logger)

	data, err := tracker.Prize(ctx)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "Failed to fetch monster details.")
		return err
	}
	if data.SecondBestPrize == nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "No prize available.")
	}
	if err := out.out.PutRecords(ctx, data); err != nil {
		return err
	}
	if out.store != nil && data.TenureHeight > 0 {
		if err := out.store.UpsertPrize(ctx, data); err != nil {
			return err
		}
	}

	if cfg.Participants {
		participants := tracker.Participants(ctx)
		logger.Info("participants", zap.Int("count", len(participants)))
		if err := out.out.PutRecords(ctx, map[string][]string{"participants": participants}); err != nil {
			return err
		}
	}

	if len(participantIDs) > 0 {
		records := make([]interface{}, 0, len(participantIDs))
		for _, id := range participantIDs {
			records = append(records, model.ParticipantTenure{ParticipantID: id, Tenure: tracker.Tenure(ctx, id)})
		}
		if err := out.out.PutRecords(ctx, records...); err != nil {
			return err
		}
	}

	return nil
}
