package indexer

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"monsterScope/internal/model"
	"monsterScope/internal/monster"
)

type fakeResolver struct {
	batches [][]uint64
	fail    map[uint64]bool
}

func (f *fakeResolver) ResolveBatch(ctx context.Context, ids []uint64) ([]model.MonsterDetails, error) {
	f.batches = append(f.batches, ids)
	var (
		out    []model.MonsterDetails
		failed []*monster.Error
	)
	for _, id := range ids {
		if f.fail[id] {
			failed = append(failed, &monster.Error{Kind: monster.KindUnexpected, Op: monster.OpResolve, ID: id, Err: errors.New("boom")})
			continue
		}
		owner := "SP1"
		if id%2 == 0 {
			owner = model.OwnerNotFound
		}
		out = append(out, model.MonsterDetails{Owner: owner, MetaData: model.DefaultMonsterMeta(id)})
	}
	if len(failed) > 0 {
		return out, &monster.BatchError{Failed: failed}
	}
	return out, nil
}

type memoryStorage struct {
	ids []uint64
}

func (m *memoryStorage) PutMonsters(ctx context.Context, monsters []model.MonsterDetails) error {
	for _, d := range monsters {
		m.ids = append(m.ids, d.MetaData.ID)
	}
	return nil
}

type memoryCheckpoint struct {
	last  uint64
	ok    bool
	saves []uint64
}

func (m *memoryCheckpoint) Load(ctx context.Context) (uint64, bool, error) {
	return m.last, m.ok, nil
}

func (m *memoryCheckpoint) Save(ctx context.Context, lastID uint64) error {
	m.last, m.ok = lastID, true
	m.saves = append(m.saves, lastID)
	return nil
}

func TestRunnerIndexesRange(t *testing.T) {
	resolver := &fakeResolver{}
	store := &memoryStorage{}
	cp := &memoryCheckpoint{}

	runner := NewRunner(RunConfig{FromID: 1, ToID: 5, BatchSize: 2}, resolver, store, cp, nil)
	if err := runner.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	if !reflect.DeepEqual(resolver.batches, [][]uint64{{1, 2}, {3, 4}, {5}}) {
		t.Fatalf("batches mismatch: %+v", resolver.batches)
	}
	if !reflect.DeepEqual(store.ids, []uint64{1, 2, 3, 4, 5}) {
		t.Fatalf("stored ids mismatch: %+v", store.ids)
	}
	if !reflect.DeepEqual(cp.saves, []uint64{2, 4, 5}) {
		t.Fatalf("checkpoint mismatch: %+v", cp.saves)
	}
}

func TestRunnerResumesAndSkipsUnminted(t *testing.T) {
	resolver := &fakeResolver{}
	store := &memoryStorage{}
	cp := &memoryCheckpoint{last: 3, ok: true}

	runner := NewRunner(RunConfig{FromID: 1, ToID: 8, BatchSize: 10, SkipUnminted: true}, resolver, store, cp, nil)
	if err := runner.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	if !reflect.DeepEqual(resolver.batches, [][]uint64{{4, 5, 6, 7, 8}}) {
		t.Fatalf("batches mismatch: %+v", resolver.batches)
	}
	if !reflect.DeepEqual(store.ids, []uint64{5, 7}) {
		t.Fatalf("stored ids mismatch: %+v", store.ids)
	}
}

func TestRunnerCheckpointComplete(t *testing.T) {
	resolver := &fakeResolver{}
	runner := NewRunner(RunConfig{FromID: 1, ToID: 3, BatchSize: 1}, resolver, &memoryStorage{}, &memoryCheckpoint{last: 3, ok: true}, nil)
	if err := runner.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(resolver.batches) != 0 {
		t.Fatalf("expected no batches: %+v", resolver.batches)
	}
}

func TestRunnerCollectsFailures(t *testing.T) {
	resolver := &fakeResolver{fail: map[uint64]bool{2: true, 5: true}}
	store := &memoryStorage{}

	runner := NewRunner(RunConfig{FromID: 1, ToID: 6, BatchSize: 3}, resolver, store, nil, nil)
	err := runner.Run(context.Background())

	var batchErr *monster.BatchError
	if !errors.As(err, &batchErr) {
		t.Fatalf("expected batch error, got %v", err)
	}
	if !reflect.DeepEqual(batchErr.IDs(), []uint64{2, 5}) {
		t.Fatalf("failed ids mismatch: %+v", batchErr.IDs())
	}
	if !reflect.DeepEqual(store.ids, []uint64{1, 3, 4, 6}) {
		t.Fatalf("stored ids mismatch: %+v", store.ids)
	}
}

func TestRunnerRetriesFailedIDsOnRerun(t *testing.T) {
	store := &memoryStorage{}
	cp := &memoryCheckpoint{}
	cfg := RunConfig{FromID: 1, ToID: 4, BatchSize: 2}

	err := NewRunner(cfg, &fakeResolver{fail: map[uint64]bool{2: true}}, store, cp, nil).Run(context.Background())
	var batchErr *monster.BatchError
	if !errors.As(err, &batchErr) {
		t.Fatalf("expected batch error, got %v", err)
	}
	if !reflect.DeepEqual(cp.saves, []uint64{1, 1}) {
		t.Fatalf("checkpoint mismatch: %+v", cp.saves)
	}

	resolver := &fakeResolver{}
	if err := NewRunner(cfg, resolver, store, cp, nil).Run(context.Background()); err != nil {
		t.Fatalf("rerun: %v", err)
	}
	if !reflect.DeepEqual(resolver.batches, [][]uint64{{2, 3}, {4}}) {
		t.Fatalf("batches mismatch: %+v", resolver.batches)
	}
	if !reflect.DeepEqual(store.ids, []uint64{1, 3, 4, 2, 3, 4}) {
		t.Fatalf("stored ids mismatch: %+v", store.ids)
	}
	if cp.last != 4 {
		t.Fatalf("checkpoint mismatch: %d", cp.last)
	}
}

func TestRunnerSkipsCheckpointWhenFirstIDFails(t *testing.T) {
	cp := &memoryCheckpoint{}
	runner := NewRunner(RunConfig{FromID: 0, ToID: 3, BatchSize: 2}, &fakeResolver{fail: map[uint64]bool{0: true}}, &memoryStorage{}, cp, nil)
	if err := runner.Run(context.Background()); err == nil {
		t.Fatalf("expected batch error")
	}
	if len(cp.saves) != 0 {
		t.Fatalf("expected no checkpoint saves: %+v", cp.saves)
	}
}

func TestRunnerValidates(t *testing.T) {
	if err := NewRunner(RunConfig{BatchSize: 1}, nil, &memoryStorage{}, nil, nil).Run(context.Background()); err == nil {
		t.Fatalf("expected error for nil resolver")
	}
	if err := NewRunner(RunConfig{FromID: 1, ToID: 2}, &fakeResolver{}, &memoryStorage{}, nil, nil).Run(context.Background()); err == nil {
		t.Fatalf("expected error for zero batch size")
	}
}
