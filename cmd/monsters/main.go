package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"monsterScope/internal/config"
	"monsterScope/internal/model"
	"monsterScope/internal/monster"
	"monsterScope/internal/stacks"
	"monsterScope/internal/storage"
	"monsterScope/internal/storage/postgres"
)

// errDegraded marks a run that produced output but not for every requested id.
var errDegraded = errors.New("some monsters could not be resolved")

func main() {
	root := &cobra.Command{
		Use:          "monsters",
		Short:        "Read and play the Stacks monsters game",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	ownedCmd := &cobra.Command{
		Use:   "owned <principal>",
		Short: "List the monsters owned by a principal",
		Args:  cobra.ExactArgs(1),
		RunE:  runOwned,
	}
	addReadFlags(ownedCmd)
	root.AddCommand(ownedCmd)

	showCmd := &cobra.Command{
		Use:   "show <id>...",
		Short: "Show monsters by id",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runShow,
	}
	addReadFlags(showCmd)
	root.AddCommand(showCmd)

	competitionCmd := &cobra.Command{
		Use:   "competition",
		Short: "Show the prize of the current competition",
		Args:  cobra.NoArgs,
		RunE:  runCompetition,
	}
	addReadFlags(competitionCmd)
	competitionCmd.Flags().Bool("participants", false, "also list the competition participants")
	competitionCmd.Flags().StringSlice("tenure-of", nil, "participant ids to report tenures for (comma-separated)")
	root.AddCommand(competitionCmd)

	mintCmd := &cobra.Command{
		Use:   "mint",
		Short: "Queue a create-monster call",
		Args:  cobra.NoArgs,
		RunE:  runMint,
	}
	addTxFlags(mintCmd)
	mintCmd.Flags().String("name", "", "monster name (ascii, up to 20 characters)")
	mintCmd.Flags().Int("image", -1, "image index, -1 picks one at random")
	root.AddCommand(mintCmd)

	feedCmd := &cobra.Command{
		Use:   "feed <id>",
		Short: "Queue a feed-monster call",
		Args:  cobra.ExactArgs(1),
		RunE:  runFeed,
	}
	addTxFlags(feedCmd)
	feedCmd.Flags().Bool("skip-check", false, "queue the call without simulating it first")
	root.AddCommand(feedCmd)

	joinCmd := &cobra.Command{
		Use:   "join <id>",
		Short: "Queue a use call that enters a monster into the competition",
		Args:  cobra.ExactArgs(1),
		RunE:  runJoin,
	}
	addTxFlags(joinCmd)
	root.AddCommand(joinCmd)

	indexCmd := &cobra.Command{
		Use:   "index",
		Short: "Snapshot a range of monster ids into storage",
		Args:  cobra.NoArgs,
		RunE:  runIndex,
	}
	addReadFlags(indexCmd)
	indexCmd.Flags().Uint64("from", 1, "first monster id (inclusive)")
	indexCmd.Flags().Uint64("to", 0, "last monster id (inclusive)")
	indexCmd.Flags().Uint64("batch-size", 25, "ids per batch")
	indexCmd.Flags().String("checkpoint", "./data/checkpoint.json", "checkpoint file path")
	indexCmd.Flags().Bool("checkpoint-enabled", true, "enable checkpointing")
	indexCmd.Flags().String("state-name", "monsters", "checkpoint name in Postgres")
	indexCmd.Flags().Bool("skip-unminted", false, "skip ids without an owner")
	root.AddCommand(indexCmd)

	txStatusCmd := &cobra.Command{
		Use:   "tx-status <txid>",
		Short: "Show the status of a transaction",
		Args:  cobra.ExactArgs(1),
		RunE:  runTxStatus,
	}
	addReadFlags(txStatusCmd)
	root.AddCommand(txStatusCmd)

	if err := root.Execute(); err != nil {
		if errors.Is(err, errDegraded) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func addReadFlags(cmd *cobra.Command) {
	cmd.Flags().String("api-url", "https://api.testnet.hiro.so", "Stacks API base URL")
	cmd.Flags().String("contract", "", "monsters contract (ADDRESS.name)")
	cmd.Flags().String("map-name", "monsters", "metadata map name")
	cmd.Flags().String("asset-name", "nft-monsters", "monster NFT asset name")
	cmd.Flags().String("sender", "", "sender of read-only calls, defaults to the contract address")
	cmd.Flags().Int("concurrency", 8, "monsters resolved at once, negative means unbounded")
	cmd.Flags().Int("page-size", stacks.MaxPageSize, "asset list page size")
	cmd.Flags().Int("max-retries", 2, "maximum retry attempts for asset list pages")
	cmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")
	cmd.Flags().Duration("timeout", 30*time.Second, "HTTP request timeout")
	cmd.Flags().String("out", "-", "output JSONL path, - for stdout")
	cmd.Flags().String("pg-dsn", "", "optional Postgres DSN for snapshots")
	cmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
}

func addTxFlags(cmd *cobra.Command) {
	addReadFlags(cmd)
	cmd.Flags().String("outbox", "./data/outbox.jsonl", "JSONL file unsigned calls are queued to")
	cmd.Flags().String("post-condition-mode", "deny", "post condition mode (allow, deny)")
	cmd.Flags().String("anchor-mode", "any", "anchor mode (any, on_chain, off_chain)")
}

// app bundles the clients shared by the commands.
type app struct {
	contract stacks.Contract
	client   *stacks.Client
	resolver *monster.Resolver
	logger   *zap.Logger
}

func newApp(cfg config.Config, logger *zap.Logger) (*app, error) {
	if cfg.Contract == "" {
		return nil, fmt.Errorf("contract is required")
	}
	contract, err := stacks.ParseContract(cfg.Contract)
	if err != nil {
		return nil, fmt.Errorf("parse contract: %w", err)
	}

	client, err := stacks.NewClient(cfg.APIURL, stacks.Options{
		Timeout:      cfg.Timeout,
		PageSize:     cfg.PageSize,
		MaxRetries:   cfg.MaxRetries,
		RetryBackoff: cfg.RetryBackoff,
		Logger:       logger,
	})
	if err != nil {
		return nil, err
	}

	resolver := monster.NewResolver(monster.Config{
		Contract:    contract,
		MapName:     cfg.MapName,
		AssetName:   cfg.AssetName,
		Sender:      cfg.Sender,
		Concurrency: cfg.Concurrency,
	}, client, client, logger)

	return &app{
		contract: contract,
		client:   client,
		resolver: resolver,
		logger:   logger,
	}, nil
}

// sinks is the JSONL output plus the optional Postgres store.
type sinks struct {
	out   *storage.JsonlStorage
	store *postgres.Store
}

func openSinks(ctx context.Context, cfg config.Config) (*sinks, error) {
	s := &sinks{out: storage.NewJsonlStorage(cfg.Out)}
	if cfg.PGDSN == "" {
		return s, nil
	}
	store, err := postgres.NewStore(ctx, cfg.PGDSN)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := store.EnsureSchema(ctx); err != nil {
		store.Close()
		return nil, err
	}
	s.store = store
	return s, nil
}

func (s *sinks) targets() []storage.Storage {
	targets := []storage.Storage{s.out}
	if s.store != nil {
		targets = append(targets, s.store)
	}
	return targets
}

func (s *sinks) putMonsters(ctx context.Context, monsters []model.MonsterDetails) error {
	for _, target := range s.targets() {
		if err := target.PutMonsters(ctx, monsters); err != nil {
			return fmt.Errorf("store monsters: %w", err)
		}
	}
	return nil
}

func (s *sinks) Close() {
	if s.store != nil {
		s.store.Close()
	}
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
