// Package progress records the last chapter read in each book and persists
// the record in a key-value store.
package progress

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"path/filepath"
)

// StorageKey is the single key the record is stored under.
const StorageKey = "readingProgress"

// ErrInvalidState is returned when the stored record cannot be decoded. The
// accompanying Progress is empty and safe to use.
var ErrInvalidState = errors.New("invalid reading progress state")

// Position is the last chapter read in a book.
type Position struct {
	ChapterNumber int `json:"chapterNumber"`
}

// Progress maps a book id to its last read position.
type Progress map[string]Position

// Get returns the recorded position for bookID.
func (p Progress) Get(bookID string) (Position, bool) {
	pos, ok := p[bookID]
	return pos, ok
}

// Set records chapter as the last read chapter of bookID. It reports whether
// the record changed.
func (p Progress) Set(bookID string, chapter int) bool {
	if cur, ok := p[bookID]; ok && cur.ChapterNumber == chapter {
		return false
	}
	p[bookID] = Position{ChapterNumber: chapter}
	return true
}

// Clone returns a copy that can be handed to another goroutine.
func (p Progress) Clone() Progress {
	if p == nil {
		return Progress{}
	}
	return maps.Clone(p)
}

// Encode serializes p in its stored form.
func Encode(p Progress) ([]byte, error) {
	if p == nil {
		p = Progress{}
	}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to encode reading progress: %w", err)
	}
	return data, nil
}

// Decode parses a stored record. Empty input decodes to empty progress.
// Entries without a book id or with a chapter below 1 are dropped.
func Decode(data []byte) (Progress, error) {
	p := Progress{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return p, nil
	}

	var raw map[string]Position
	if err := json.Unmarshal(data, &raw); err != nil {
		return p, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	for bookID, pos := range raw {
		if bookID == "" || pos.ChapterNumber < 1 {
			continue
		}
		p[bookID] = pos
	}
	return p, nil
}

// Store loads and saves the whole progress record.
type Store interface {
	// Load returns the stored record, or empty progress when nothing is stored.
	Load(ctx context.Context) (Progress, error)
	// Save replaces the stored record with p.
	Save(ctx context.Context, p Progress) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendBadger = "badger"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Open opens the named backend rooted at dir.
func Open(backend, dir string) (Store, error) {
	var (
		s   Store
		err error
	)
	switch backend {
	case BackendFile, "":
		s, err = NewFileStore(dir)
	case BackendBadger:
		s, err = OpenBadger(filepath.Join(dir, "badger"))
	case BackendSQLite:
		s, err = OpenSQLite(filepath.Join(dir, "biblioteka.db"))
	case BackendMemory:
		s = NewMemoryStore()
	default:
		err = fmt.Errorf("unknown progress store %q", backend)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}
