package indexer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"monsterScope/internal/storage/postgres"
)

// Checkpointer persists the last monster id written by the Runner.
type Checkpointer interface {
	Load(ctx context.Context) (uint64, bool, error)
	Save(ctx context.Context, lastID uint64) error
}

// Checkpoint is the on-disk checkpoint record.
type Checkpoint struct {
	LastIndexedID uint64 `json:"last_indexed_id"`
	UpdatedAt     string `json:"updated_at"`
}

// FileCheckpoint stores the checkpoint in a local JSON file.
type FileCheckpoint struct {
	path    string
	enabled bool
}

func NewFileCheckpoint(path string, enabled bool) *FileCheckpoint {
	return &FileCheckpoint{path: path, enabled: enabled}
}

func (c *FileCheckpoint) Load(ctx context.Context) (uint64, bool, error) {
	if !c.enabled || c.path == "" {
		return 0, false, nil
	}

	stat, err := os.Stat(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("stat checkpoint: %w", err)
	}
	if stat.IsDir() {
		return 0, false, fmt.Errorf("checkpoint path is a directory")
	}

	data, err := os.ReadFile(c.path)
	if err != nil {
		return 0, false, fmt.Errorf("read checkpoint: %w", err)
	}

	var cp Checkpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		return 0, false, fmt.Errorf("parse checkpoint: %w", err)
	}

	return cp.LastIndexedID, true, nil
}

func (c *FileCheckpoint) Save(ctx context.Context, lastID uint64) error {
	if !c.enabled || c.path == "" {
		return nil
	}

	dir := filepath.Dir(c.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create checkpoint dir: %w", err)
		}
	}

	cp := Checkpoint{
		LastIndexedID: lastID,
		UpdatedAt:     time.Now().UTC().Format(time.RFC3339Nano),
	}
	data, err := json.Marshal(cp)
	if err != nil {
		return fmt.Errorf("marshal checkpoint: %w", err)
	}

	tmpPath := c.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write checkpoint tmp: %w", err)
	}
	if err := os.Rename(tmpPath, c.path); err != nil {
		return fmt.Errorf("rename checkpoint: %w", err)
	}

	return nil
}

// DBCheckpoint stores the checkpoint in the indexer_state table.
type DBCheckpoint struct {
	Store *postgres.Store
	Name  string
}

func (c *DBCheckpoint) Load(ctx context.Context) (uint64, bool, error) {
	if c == nil || c.Store == nil {
		return 0, false, nil
	}
	return c.Store.LoadState(ctx, c.Name)
}

func (c *DBCheckpoint) Save(ctx context.Context, lastID uint64) error {
	if c == nil || c.Store == nil {
		return nil
	}
	return c.Store.SaveState(ctx, c.Name, lastID)
}
