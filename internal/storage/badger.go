package storage

import (
	"fmt"

	"github.com/dgraph-io/badger"
)

// BadgerStore persists blobs in a Badger database on local disk. This is the
// default backend for local-first deployments.
type BadgerStore struct {
	db *badger.DB
}

// OpenBadger opens (or creates) a Badger database in dataDir.
func OpenBadger(dataDir string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dataDir)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("while opening badger data dir: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

func (b *BadgerStore) Load(key, def string) (string, error) {
	value := def
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		raw, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		value = string(raw)
		return nil
	})
	if err != nil {
		return def, fmt.Errorf("while loading %q: %w", key, err)
	}
	return value, nil
}

func (b *BadgerStore) Save(key, value string) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("while saving %q: %w", key, err)
	}
	return nil
}

func (b *BadgerStore) Close() error {
	return b.db.Close()
}
