// Package storage provides the key-value persistence medium backing the
// repository: named collections stored as string blobs. Backends only need
// get/set-by-key semantics; concurrent writers from separate processes are
// last-writer-wins.
package storage

import "sync"

// Store is a key-value store of string blobs keyed by collection name.
type Store interface {
	// Load returns the blob stored under key, or def when the key is absent.
	Load(key, def string) (string, error)
	// Save stores value under key, replacing any previous blob.
	Save(key, value string) error
	Close() error
}

// MemoryStore is an in-process Store used for tests and ephemeral runs.
type MemoryStore struct {
	mu    sync.Mutex
	blobs map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string]string)}
}

func (m *MemoryStore) Load(key, def string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.blobs[key]; ok {
		return v, nil
	}
	return def, nil
}

func (m *MemoryStore) Save(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[key] = value
	return nil
}

func (m *MemoryStore) Close() error { return nil }
