package progress

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// BadgerStore keeps the record under StorageKey in a Badger database.
type BadgerStore struct {
	db *badger.DB
}

// OpenBadger opens (or creates) a Badger database in dir.
func OpenBadger(dir string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	opts.SyncWrites = true

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

func (s *BadgerStore) Load(ctx context.Context) (Progress, error) {
	if err := ctx.Err(); err != nil {
		return Progress{}, err
	}

	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(StorageKey))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return Progress{}, nil
	}
	if err != nil {
		return Progress{}, fmt.Errorf("failed to read reading progress: %w", err)
	}
	return Decode(data)
}

func (s *BadgerStore) Save(ctx context.Context, p Progress) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := Encode(p)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(StorageKey), data)
	})
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}
