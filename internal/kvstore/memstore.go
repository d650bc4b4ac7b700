package kvstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// MemStore keeps everything in a map. With a filename it also mirrors the map to a JSON
// file after every commit.
type MemStore struct {
	mu       sync.RWMutex
	db       map[string]string
	filename string
}

func NewMemStore() *MemStore {
	return &MemStore{db: make(map[string]string)}
}

// NewFileStore loads filename if it exists and keeps it in sync afterwards.
func NewFileStore(filename string) (*MemStore, error) {
	m := &MemStore{db: make(map[string]string), filename: filename}
	if err := m.loadFromFile(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *MemStore) Begin(ctx context.Context) (*Tx, error) {
	return newTx(ctx, m.read, m.apply), nil
}

func (m *MemStore) Close() error { return nil }

// Snapshot returns a copy of all keys.
func (m *MemStore) Snapshot() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.db))
	for k, v := range m.db {
		out[k] = v
	}
	return out
}

func (m *MemStore) read(_ context.Context, key string) (*string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	val, ok := m.db[key]
	if !ok {
		return nil, nil
	}
	return &val, nil
}

func (m *MemStore) apply(_ context.Context, writes map[string]*string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range writes {
		if v == nil {
			delete(m.db, k)
			continue
		}
		m.db[k] = *v
	}
	if m.filename == "" {
		return nil
	}
	return m.saveToFile()
}

// saveToFile writes the full map to a JSON file. Values are stored as bytes (base64 in
// JSON) since contract records are binary.
func (m *MemStore) saveToFile() error {
	snap := make(map[string][]byte, len(m.db))
	for k, v := range m.db {
		snap[k] = []byte(v)
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	tmp := m.filename + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, m.filename)
}

func (m *MemStore) loadFromFile() error {
	data, err := os.ReadFile(m.filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // file doesn't exist yet
		}
		return err
	}
	var snap map[string][]byte
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("load %s: %w", m.filename, err)
	}
	for k, v := range snap {
		m.db[k] = string(v)
	}
	return nil
}
