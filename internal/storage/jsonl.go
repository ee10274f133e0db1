package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"monsterScope/internal/model"
)

// Stdout is the output path that writes to standard output.
const Stdout = "-"

// JsonlStorage appends records to a JSONL file, or to stdout when the path is "-".
type JsonlStorage struct {
	path   string
	stdout io.Writer
	mu     sync.Mutex
}

func NewJsonlStorage(path string) *JsonlStorage {
	return &JsonlStorage{path: path, stdout: os.Stdout}
}

// NewJsonlWriter writes records to w instead of a file.
func NewJsonlWriter(w io.Writer) *JsonlStorage {
	return &JsonlStorage{path: Stdout, stdout: w}
}

// PutMonsters appends monster details as JSON lines.
func (s *JsonlStorage) PutMonsters(ctx context.Context, monsters []model.MonsterDetails) error {
	records := make([]interface{}, 0, len(monsters))
	for _, m := range monsters {
		records = append(records, m)
	}
	return s.PutRecords(ctx, records...)
}

// PutRecords appends arbitrary records as JSON lines.
func (s *JsonlStorage) PutRecords(ctx context.Context, records ...interface{}) error {
	if len(records) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out, closeFn, err := s.open()
	if err != nil {
		return err
	}
	defer closeFn()

	writer := bufio.NewWriter(out)
	for _, record := range records {
		line, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("marshal record: %w", err)
		}
		if _, err := writer.Write(line); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
		if err := writer.WriteByte('\n'); err != nil {
			return fmt.Errorf("write newline: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}

	return nil
}

func (s *JsonlStorage) open() (io.Writer, func(), error) {
	if s.path == Stdout || s.path == "" {
		return s.stdout, func() {}, nil
	}

	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create output dir: %w", err)
		}
	}

	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open output file: %w", err)
	}
	return file, func() { _ = file.Close() }, nil
}
