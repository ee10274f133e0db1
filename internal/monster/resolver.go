package monster

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"monsterScope/internal/clarity"
	"monsterScope/internal/model"
	"monsterScope/internal/stacks"
)

// Contract functions and names used by the resolver.
const (
	FunctionGetOwner    = "get-owner"
	FunctionIsAlive     = "is-alive"
	FunctionFeedMonster = "feed-monster"

	DefaultMapName     = "monsters"
	DefaultAssetName   = "nft-monsters"
	DefaultConcurrency = 8
)

// ContractReader runs read-only queries against the monsters contract.
type ContractReader interface {
	CallReadOnly(ctx context.Context, contract stacks.Contract, function string, sender string, args ...clarity.Value) (clarity.Value, error)
	MapEntry(ctx context.Context, contract stacks.Contract, mapName string, key clarity.Value) (clarity.Value, error)
}

// AssetLister lists the asset events of a principal.
type AssetLister interface {
	AccountAssets(ctx context.Context, principal string) ([]model.AssetEvent, error)
}

// Config holds resolver settings.
type Config struct {
	Contract  stacks.Contract
	MapName   string
	AssetName string
	// Sender is the principal read-only calls are made as. Empty means the contract address.
	Sender string
	// Concurrency caps the ids resolved at once by ResolveBatch. Zero means
	// DefaultConcurrency and a negative value means no cap.
	Concurrency int
}

// Resolver turns monster ids into MonsterDetails.
type Resolver struct {
	cfg    Config
	reader ContractReader
	assets AssetLister
	logger *zap.Logger
}

// NewResolver builds a Resolver. assets may be nil when owned lookups are not needed.
func NewResolver(cfg Config, reader ContractReader, assets AssetLister, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MapName == "" {
		cfg.MapName = DefaultMapName
	}
	if cfg.AssetName == "" {
		cfg.AssetName = DefaultAssetName
	}
	if cfg.Concurrency == 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	return &Resolver{
		cfg:    cfg,
		reader: reader,
		assets: assets,
		logger: logger,
	}
}

// AssetID is the fully-qualified identifier of the monsters NFT.
func (r *Resolver) AssetID() string {
	return r.cfg.Contract.AssetIdentifier(r.cfg.AssetName)
}

// OwnedIDs lists the distinct monster ids held by principal. An empty list is not an error.
func (r *Resolver) OwnedIDs(ctx context.Context, principal string) ([]uint64, error) {
	if r.assets == nil {
		return nil, &Error{Kind: KindUnexpected, Op: OpOwnedIDs, Principal: principal, Err: errors.New("asset lister is nil")}
	}

	events, err := r.assets.AccountAssets(ctx, principal)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Op: OpOwnedIDs, Principal: principal, Err: err}
	}

	ids, err := DecodeIDs(ExtractOwnedIDs(events, r.AssetID()))
	if err != nil {
		return nil, &Error{Kind: KindDecodeMismatch, Op: OpOwnedIDs, Principal: principal, Err: err}
	}

	r.logger.Debug("owned ids", zap.String("principal", principal), zap.Int("events", len(events)), zap.Int("ids", len(ids)))
	return ids, nil
}

// Resolve queries owner, metadata and liveness of id concurrently and merges them.
// Failed sub-queries fall back to their defaults. Only unexpected faults and
// cancellation of ctx are returned as errors.
func (r *Resolver) Resolve(ctx context.Context, id uint64) (model.MonsterDetails, error) {
	key := clarity.NewUInt(id)

	var (
		owner = model.OwnerUnknown
		meta  = model.DefaultMonsterMeta(id)
		alive bool
	)

	var g errgroup.Group
	g.Go(r.guard(OpOwner, id, func() error {
		v, err := r.query(ctx, FunctionGetOwner, key)
		if err != nil {
			return r.degrade(OpOwner, id, err)
		}
		decoded, err := DecodeOwner(v)
		if err != nil {
			return r.degrade(OpOwner, id, err)
		}
		owner = decoded
		return nil
	}))
	g.Go(r.guard(OpMetadata, id, func() error {
		v, err := r.reader.MapEntry(ctx, r.cfg.Contract, r.cfg.MapName, key)
		if err == nil && v == nil {
			return &Error{Kind: KindUnexpected, Op: OpMetadata, ID: id, Err: errors.New("reader returned no value")}
		}
		if err != nil {
			return r.degrade(OpMetadata, id, err)
		}
		decoded, err := DecodeMetadata(v, id)
		if errors.Is(err, ErrNotFound) {
			r.logger.Debug("metadata absent", zap.Uint64("monster_id", id))
			return nil
		}
		if err != nil {
			return r.degrade(OpMetadata, id, err)
		}
		meta = decoded
		return nil
	}))
	g.Go(r.guard(OpAlive, id, func() error {
		v, err := r.query(ctx, FunctionIsAlive, key)
		if err != nil {
			return r.degrade(OpAlive, id, err)
		}
		decoded, err := DecodeAlive(v)
		if err != nil {
			return r.degrade(OpAlive, id, err)
		}
		alive = decoded
		return nil
	}))

	if err := g.Wait(); err != nil {
		return model.MonsterDetails{}, err
	}
	if err := ctx.Err(); err != nil {
		return model.MonsterDetails{}, err
	}

	return model.MonsterDetails{Owner: owner, MetaData: meta, Alive: alive}, nil
}

// ResolveBatch resolves ids concurrently and returns the details in input order.
// Ids that fail with an unexpected fault are left out and reported in a *BatchError
// next to the successful results.
func (r *Resolver) ResolveBatch(ctx context.Context, ids []uint64) ([]model.MonsterDetails, error) {
	results := make([]model.MonsterDetails, len(ids))
	errs := make([]error, len(ids))

	var g errgroup.Group
	g.SetLimit(r.cfg.Concurrency)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			results[i], errs[i] = r.Resolve(ctx, id)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	details := make([]model.MonsterDetails, 0, len(ids))
	var failed []*Error
	for i, err := range errs {
		if err != nil {
			failed = append(failed, asUnexpected(ids[i], err))
			continue
		}
		details = append(details, results[i])
	}
	if len(failed) > 0 {
		r.logger.Warn("batch resolved with failures", zap.Int("ids", len(ids)), zap.Int("failed", len(failed)))
		return details, &BatchError{Failed: failed}
	}
	return details, nil
}

// ResolveOwned lists the monsters owned by principal and resolves them.
func (r *Resolver) ResolveOwned(ctx context.Context, principal string) ([]model.MonsterDetails, error) {
	ids, err := r.OwnedIDs(ctx, principal)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []model.MonsterDetails{}, nil
	}
	return r.ResolveBatch(ctx, ids)
}

// CheckFeed simulates feed-monster for id and reports whether the contract would accept it.
func (r *Resolver) CheckFeed(ctx context.Context, id uint64) bool {
	v, err := r.query(ctx, FunctionFeedMonster, clarity.NewUInt(id))
	if err != nil {
		_ = r.degrade(OpFeed, id, err)
		return false
	}
	_, isOk := v.(clarity.ResponseOk)
	return isOk
}

func (r *Resolver) query(ctx context.Context, function string, args ...clarity.Value) (clarity.Value, error) {
	v, err := r.reader.CallReadOnly(ctx, r.cfg.Contract, function, r.cfg.Sender, args...)
	if err == nil && v == nil {
		return nil, &Error{Kind: KindUnexpected, Op: function, Err: errors.New("reader returned no value")}
	}
	return v, err
}

// degrade logs an expected sub-query failure and swallows it. Unexpected faults are returned.
func (r *Resolver) degrade(op string, id uint64, err error) error {
	classified := classify(op, id, err)
	if classified.Kind == KindUnexpected {
		classified.Op, classified.ID = op, id
		return classified
	}
	r.logger.Warn("sub-query defaulted",
		zap.Uint64("monster_id", id),
		zap.String("op", op),
		zap.Stringer("kind", classified.Kind),
		zap.Error(err),
	)
	return nil
}

func (r *Resolver) guard(op string, id uint64, fn func() error) func() error {
	return func() (err error) {
		defer func() {
			if rec := recover(); rec != nil {
				err = &Error{Kind: KindUnexpected, Op: op, ID: id, Err: fmt.Errorf("panic: %v", rec)}
			}
		}()
		return fn()
	}
}

func asUnexpected(id uint64, err error) *Error {
	var typed *Error
	if errors.As(err, &typed) {
		return typed
	}
	return &Error{Kind: KindUnexpected, Op: OpResolve, ID: id, Err: err}
}
