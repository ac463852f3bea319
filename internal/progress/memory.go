package progress

import (
	"context"
	"sync"
)

// MemoryStore keeps the encoded record in memory. Nothing survives the process.
type MemoryStore struct {
	mu   sync.Mutex
	data []byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(ctx context.Context) (Progress, error) {
	if err := ctx.Err(); err != nil {
		return Progress{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return Decode(s.data)
}

func (s *MemoryStore) Save(ctx context.Context, p Progress) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := Encode(p)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
	return nil
}

// SetRaw replaces the stored bytes as-is.
func (s *MemoryStore) SetRaw(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = append([]byte(nil), data...)
}

func (s *MemoryStore) Close() error {
	return nil
}
