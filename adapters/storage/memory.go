package storage

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/kalike/kalike-server/domain/entities"
	"github.com/kalike/kalike-server/domain/repositories"
)

// MemoryStore is an in-memory implementation of ArtifactStore. It is
// suitable for tests and for ephemeral deployments where the cache does
// not need to survive restarts.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*memoryEntry
}

type memoryEntry struct {
	data      []byte
	createdAt time.Time
}

// Ensure MemoryStore implements the ArtifactStore interface
var _ repositories.ArtifactStore = (*MemoryStore)(nil)

// NewMemoryStore creates a new in-memory artifact store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*memoryEntry),
	}
}

// Exists implements repositories.ArtifactStore
func (m *MemoryStore) Exists(ctx context.Context, name string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, exists := m.entries[name]
	return exists, nil
}

// Read implements repositories.ArtifactStore
func (m *MemoryStore) Read(ctx context.Context, name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, exists := m.entries[name]
	if !exists {
		return nil, &entities.StorageError{Op: "read", Name: name, Err: errors.New("artifact not found")}
	}

	data := make([]byte, len(entry.data))
	copy(data, entry.data)
	return data, nil
}

// WriteAtomic implements repositories.ArtifactStore. Map assignment
// under the lock is already atomic from a reader's point of view.
func (m *MemoryStore) WriteAtomic(ctx context.Context, name string, data []byte) error {
	stored := make([]byte, len(data))
	copy(stored, data)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[name] = &memoryEntry{
		data:      stored,
		createdAt: time.Now(),
	}
	return nil
}

// List implements repositories.ArtifactStore
func (m *MemoryStore) List(ctx context.Context) ([]entities.CacheEntry, error) {
	return m.list(0)
}

// ListOlderThan implements repositories.ArtifactStore
func (m *MemoryStore) ListOlderThan(ctx context.Context, age time.Duration) ([]entities.CacheEntry, error) {
	return m.list(age)
}

func (m *MemoryStore) list(minAge time.Duration) ([]entities.CacheEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	now := time.Now()
	var matched []entities.CacheEntry

	for name, entry := range m.entries {
		if minAge > 0 && now.Sub(entry.createdAt) < minAge {
			continue
		}
		matched = append(matched, entities.CacheEntry{
			Name:      name,
			Path:      name,
			Size:      int64(len(entry.data)),
			CreatedAt: entry.createdAt,
		})
	}

	return matched, nil
}

// Delete implements repositories.ArtifactStore
func (m *MemoryStore) Delete(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.entries[name]; !exists {
		return &entities.StorageError{Op: "delete", Name: name, Err: errors.New("artifact not found")}
	}

	delete(m.entries, name)
	return nil
}

// SetCreatedAt backdates an entry's creation time. Only useful in tests
// exercising eviction age thresholds.
func (m *MemoryStore) SetCreatedAt(name string, at time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if entry, exists := m.entries[name]; exists {
		entry.createdAt = at
	}
}
