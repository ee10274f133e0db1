package storage

import (
	"context"

	"monsterScope/internal/model"
)

// Storage defines a sink for resolved monsters.
type Storage interface {
	PutMonsters(ctx context.Context, monsters []model.MonsterDetails) error
}
