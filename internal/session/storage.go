package session

import (
	"encoding/json"
	"fmt"
	"os"
)

// Storage is the persistence medium for the session record. Implementations
// exist for a JSON file (the browser local-storage analog) and for memory
// (tests), so controller logic never depends on the medium.
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Remove(key string) error
}

type MemoryStorage struct {
	values map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string)}
}

func (m *MemoryStorage) Get(key string) (string, bool) {
	value, ok := m.values[key]
	return value, ok
}

func (m *MemoryStorage) Set(key, value string) error {
	m.values[key] = value
	return nil
}

func (m *MemoryStorage) Remove(key string) error {
	delete(m.values, key)
	return nil
}

// FileStorage keeps all keys in one JSON file. A missing or unreadable file
// behaves like an empty store.
type FileStorage struct {
	path string
}

func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

func (f *FileStorage) load() map[string]string {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		return map[string]string{}
	}
	values := map[string]string{}
	if err := json.Unmarshal(raw, &values); err != nil {
		return map[string]string{}
	}
	return values
}

func (f *FileStorage) save(values map[string]string) error {
	raw, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("marshal storage: %w", err)
	}
	if err := os.WriteFile(f.path, raw, 0o600); err != nil {
		return fmt.Errorf("write storage file: %w", err)
	}
	return nil
}

func (f *FileStorage) Get(key string) (string, bool) {
	value, ok := f.load()[key]
	return value, ok
}

func (f *FileStorage) Set(key, value string) error {
	values := f.load()
	values[key] = value
	return f.save(values)
}

func (f *FileStorage) Remove(key string) error {
	values := f.load()
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	return f.save(values)
}
