package postgres

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"monsterScope/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS monsters (
	monster_id BIGINT PRIMARY KEY,
	owner TEXT NOT NULL,
	name TEXT NOT NULL,
	image BIGINT NOT NULL,
	last_meal BIGINT NOT NULL,
	date_of_birth BIGINT NOT NULL,
	alive BOOLEAN NOT NULL,
	observed_at TIMESTAMPTZ NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS competition_prizes (
	tenure_height BIGINT PRIMARY KEY,
	second_best_count BIGINT NOT NULL,
	prize_monster_id BIGINT,
	observed_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS indexer_state (
	name TEXT PRIMARY KEY,
	last_indexed_id BIGINT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// Store persists monster snapshots in Postgres.
type Store struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool, now: time.Now}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// EnsureSchema creates the tables when they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// PutMonsters implements storage.Storage.
func (s *Store) PutMonsters(ctx context.Context, monsters []model.MonsterDetails) error {
	return s.UpsertMonsters(ctx, monsters)
}

// UpsertMonsters inserts or updates the latest view of each monster.
func (s *Store) UpsertMonsters(ctx context.Context, monsters []model.MonsterDetails) error {
	if len(monsters) == 0 {
		return nil
	}
	observedAt := s.now().UTC()
	batch := &pgx.Batch{}
	for _, m := range monsters {
		key, err := monsterKey(m.MetaData.ID)
		if err != nil {
			return err
		}
		batch.Queue(`
			INSERT INTO monsters (
				monster_id, owner, name, image, last_meal, date_of_birth, alive, observed_at, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
			ON CONFLICT (monster_id)
			DO UPDATE SET
				owner = EXCLUDED.owner,
				name = EXCLUDED.name,
				image = EXCLUDED.image,
				last_meal = EXCLUDED.last_meal,
				date_of_birth = EXCLUDED.date_of_birth,
				alive = EXCLUDED.alive,
				observed_at = EXCLUDED.observed_at,
				updated_at = now()
		`,
			key,
			m.Owner,
			m.MetaData.Name,
			m.MetaData.Image,
			m.MetaData.LastMeal,
			m.MetaData.DateOfBirth,
			m.Alive,
			observedAt,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range monsters {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("upsert monster: %w", err)
		}
	}
	return nil
}

// UpsertPrize records the competition state of a tenure. The prize monster, when
// present, is upserted first.
func (s *Store) UpsertPrize(ctx context.Context, data model.CompetitionData) error {
	if data.TenureHeight == 0 {
		return fmt.Errorf("tenure height is required")
	}
	var prizeID *int64
	if data.SecondBestPrize != nil {
		id, err := monsterKey(data.SecondBestPrize.MetaData.ID)
		if err != nil {
			return err
		}
		prizeID = &id
		if err := s.UpsertMonsters(ctx, []model.MonsterDetails{*data.SecondBestPrize}); err != nil {
			return err
		}
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO competition_prizes (tenure_height, second_best_count, prize_monster_id, observed_at, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (tenure_height) DO UPDATE
		SET second_best_count = EXCLUDED.second_best_count,
			prize_monster_id = EXCLUDED.prize_monster_id,
			observed_at = EXCLUDED.observed_at,
			updated_at = now()
	`, int64(data.TenureHeight), int64(data.SecondBestCount), prizeID, s.now().UTC())
	if err != nil {
		return fmt.Errorf("upsert prize: %w", err)
	}
	return nil
}

// monsterKey converts a monster id to its BIGINT column value.
func monsterKey(id uint64) (int64, error) {
	if id > math.MaxInt64 {
		return 0, fmt.Errorf("monster id %d exceeds bigint range", id)
	}
	return int64(id), nil
}

// LoadState returns last_indexed_id for a name.
func (s *Store) LoadState(ctx context.Context, name string) (uint64, bool, error) {
	if name == "" {
		return 0, false, fmt.Errorf("state name required")
	}
	var id int64
	row := s.pool.QueryRow(ctx, `SELECT last_indexed_id FROM indexer_state WHERE name=$1`, name)
	if err := row.Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return uint64(id), true, nil
}

// SaveState upserts last_indexed_id for a name.
func (s *Store) SaveState(ctx context.Context, name string, lastID uint64) error {
	if name == "" {
		return fmt.Errorf("state name required")
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO indexer_state (name, last_indexed_id, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE
		SET last_indexed_id = EXCLUDED.last_indexed_id, updated_at = now()
	`, name, int64(lastID))
	return err
}
