package indexer

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"monsterScope/internal/model"
	"monsterScope/internal/monster"
	"monsterScope/internal/storage"
)

// BatchResolver resolves a batch of monster ids in input order.
type BatchResolver interface {
	ResolveBatch(ctx context.Context, ids []uint64) ([]model.MonsterDetails, error)
}

// RunConfig holds runtime settings for the indexer.
type RunConfig struct {
	FromID    uint64
	ToID      uint64
	BatchSize uint64
	// SkipUnminted drops ids whose owner is OwnerNotFound.
	SkipUnminted bool
}

// Runner resolves an id range batch by batch and writes the details to storage.
type Runner struct {
	cfg        RunConfig
	resolver   BatchResolver
	storage    storage.Storage
	checkpoint Checkpointer
	logger     *zap.Logger
}

// NewRunner builds a Runner with its dependencies. checkpoint may be nil.
func NewRunner(cfg RunConfig, resolver BatchResolver, storageSink storage.Storage, checkpoint Checkpointer, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		cfg:        cfg,
		resolver:   resolver,
		storage:    storageSink,
		checkpoint: checkpoint,
		logger:     logger,
	}
}

// Run executes the indexing loop. Ids that fail with an unexpected fault do not stop
// the run; they are returned together in a *monster.BatchError once the range is done,
// and the checkpoint stays below the lowest of them.
func (r *Runner) Run(ctx context.Context) error {
	if r.resolver == nil {
		return fmt.Errorf("resolver is nil")
	}
	if r.storage == nil {
		return fmt.Errorf("storage is nil")
	}
	if r.cfg.BatchSize == 0 {
		return fmt.Errorf("batch size must be greater than zero")
	}

	from := r.cfg.FromID
	to := r.cfg.ToID

	if r.checkpoint != nil {
		last, ok, err := r.checkpoint.Load(ctx)
		if err != nil {
			return err
		}
		if ok && last >= from {
			if last >= to {
				r.logger.Info("nothing to index", zap.Uint64("last_indexed", last), zap.Uint64("to", to))
				return nil
			}
			from = last + 1
			r.logger.Info("resume from checkpoint", zap.Uint64("last_indexed", last), zap.Uint64("from", from))
		}
	}

	ranges, err := SplitRange(from, to, r.cfg.BatchSize)
	if err != nil {
		return err
	}

	var (
		failed []*monster.Error
		// lowest id that failed in this run; the checkpoint never moves past it
		held    uint64
		holding bool
	)
	for _, idRange := range ranges {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		details, err := r.resolver.ResolveBatch(ctx, idRange.IDs())
		var batchErr *monster.BatchError
		if errors.As(err, &batchErr) {
			failed = append(failed, batchErr.Failed...)
			for _, id := range batchErr.IDs() {
				if !holding || id < held {
					held, holding = id, true
				}
			}
			r.logger.Warn("batch partially resolved", zap.Uint64s("failed_ids", batchErr.IDs()))
		} else if err != nil {
			return fmt.Errorf("resolve ids %d-%d: %w", idRange.From, idRange.To, err)
		}

		records := r.filter(details)
		if err := r.storage.PutMonsters(ctx, records); err != nil {
			return fmt.Errorf("store monsters: %w", err)
		}

		if r.checkpoint != nil {
			if err := r.saveCheckpoint(ctx, idRange.To, held, holding); err != nil {
				return err
			}
		}

		r.logger.Info("batch complete", zap.Int("monsters", len(records)), zap.Uint64("from", idRange.From), zap.Uint64("to", idRange.To))
	}

	if len(failed) > 0 {
		return &monster.BatchError{Failed: failed}
	}
	return nil
}

// saveCheckpoint records last, capped below the lowest failed id so a rerun retries it.
func (r *Runner) saveCheckpoint(ctx context.Context, last, held uint64, holding bool) error {
	if holding {
		if held == 0 {
			return nil
		}
		if held-1 < last {
			last = held - 1
		}
	}
	return r.checkpoint.Save(ctx, last)
}

func (r *Runner) filter(details []model.MonsterDetails) []model.MonsterDetails {
	if !r.cfg.SkipUnminted {
		return details
	}
	out := make([]model.MonsterDetails, 0, len(details))
	for _, d := range details {
		if d.Owner == model.OwnerNotFound {
			continue
		}
		out = append(out, d)
	}
	return out
}
