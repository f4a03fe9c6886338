package repositories

import (
	"context"
	"time"

	"github.com/kalike/kalike-server/domain/entities"
)

// ArtifactStore defines data access methods for cached audio artifacts.
// Entries are keyed by filename (`<cacheKey>.<ext>`), written exactly
// once per identity, and only ever deleted by the eviction sweep.
type ArtifactStore interface {
	// Exists reports whether an artifact is already cached
	Exists(ctx context.Context, name string) (bool, error)
	// Read returns the artifact bytes
	Read(ctx context.Context, name string) ([]byte, error)
	// WriteAtomic persists the artifact so that a concurrent reader
	// never observes a partially-written file
	WriteAtomic(ctx context.Context, name string, data []byte) error
	// ListOlderThan returns entries whose age exceeds the given duration
	ListOlderThan(ctx context.Context, age time.Duration) ([]entities.CacheEntry, error)
	// List returns all cached entries
	List(ctx context.Context) ([]entities.CacheEntry, error)
	// Delete removes an artifact
	Delete(ctx context.Context, name string) error
}
