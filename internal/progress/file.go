package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore keeps the record as an indented JSON file.
type FileStore struct {
	path string
}

// NewFileStore returns a store writing <dir>/readingProgress.json.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create state dir: %w", err)
	}
	return &FileStore{path: filepath.Join(dir, StorageKey+".json")}, nil
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Load(ctx context.Context) (Progress, error) {
	if err := ctx.Err(); err != nil {
		return Progress{}, err
	}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Progress{}, nil
	}
	if err != nil {
		return Progress{}, fmt.Errorf("failed to read %s: %w", s.path, err)
	}
	return Decode(data)
}

// Save writes a temporary file and renames it over the record.
func (s *FileStore) Save(ctx context.Context, p Progress) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p == nil {
		p = Progress{}
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode reading progress: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), StorageKey+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", s.path, err)
	}
	return nil
}

func (s *FileStore) Close() error {
	return nil
}
