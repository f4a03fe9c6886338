package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kalike/kalike-server/domain/entities"
	"github.com/kalike/kalike-server/domain/repositories"
)

// FilesystemStore persists audio artifacts as a flat directory of files.
// The directory is expected to be served by a separate static file server
// at the gateway's public base URL. The gateway process exclusively owns
// the directory; the only write discipline needed is atomic rename.
type FilesystemStore struct {
	dir    string
	logger *zap.Logger
}

// Ensure FilesystemStore implements the ArtifactStore interface
var _ repositories.ArtifactStore = (*FilesystemStore)(nil)

// NewFilesystemStore creates a filesystem-backed artifact store,
// creating the cache directory if it does not exist
func NewFilesystemStore(dir string, logger *zap.Logger) (*FilesystemStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("cache directory is required")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	logger.Info("Filesystem artifact store initialized", zap.String("dir", dir))

	return &FilesystemStore{
		dir:    dir,
		logger: logger,
	}, nil
}

// Exists implements repositories.ArtifactStore
func (s *FilesystemStore) Exists(ctx context.Context, name string) (bool, error) {
	_, err := os.Stat(filepath.Join(s.dir, name))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, &entities.StorageError{Op: "stat", Name: name, Err: err}
}

// Read implements repositories.ArtifactStore
func (s *FilesystemStore) Read(ctx context.Context, name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return nil, &entities.StorageError{Op: "read", Name: name, Err: err}
	}
	return data, nil
}

// WriteAtomic implements repositories.ArtifactStore. The payload is
// written to a uniquely named temporary file in the same directory and
// renamed into place, so a reader never observes a partial artifact.
// Two racing writers for the same name both succeed; the rename is a
// harmless redundant overwrite of identical content.
func (s *FilesystemStore) WriteAtomic(ctx context.Context, name string, data []byte) error {
	final := filepath.Join(s.dir, name)
	tmp := final + "." + uuid.New().String() + ".tmp"

	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return &entities.StorageError{Op: "write", Name: name, Err: err}
	}

	if err := os.Rename(tmp, final); err != nil {
		// Best effort: don't leave the temp file behind
		if rmErr := os.Remove(tmp); rmErr != nil {
			s.logger.Warn("Failed to remove temp file after rename failure",
				zap.String("tmp", tmp),
				zap.Error(rmErr))
		}
		return &entities.StorageError{Op: "rename", Name: name, Err: err}
	}

	s.logger.Debug("Artifact written",
		zap.String("name", name),
		zap.Int("bytes", len(data)))

	return nil
}

// List implements repositories.ArtifactStore
func (s *FilesystemStore) List(ctx context.Context) ([]entities.CacheEntry, error) {
	return s.list(ctx, 0)
}

// ListOlderThan implements repositories.ArtifactStore
func (s *FilesystemStore) ListOlderThan(ctx context.Context, age time.Duration) ([]entities.CacheEntry, error) {
	return s.list(ctx, age)
}

func (s *FilesystemStore) list(ctx context.Context, minAge time.Duration) ([]entities.CacheEntry, error) {
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, &entities.StorageError{Op: "list", Name: s.dir, Err: err}
	}

	now := time.Now()
	var matched []entities.CacheEntry

	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}

		info, err := de.Info()
		if err != nil {
			// Entry may have been evicted concurrently
			s.logger.Debug("Skipping unstattable entry",
				zap.String("name", de.Name()),
				zap.Error(err))
			continue
		}

		if minAge > 0 && now.Sub(info.ModTime()) < minAge {
			continue
		}

		matched = append(matched, entities.CacheEntry{
			Name:      de.Name(),
			Path:      filepath.Join(s.dir, de.Name()),
			Size:      info.Size(),
			CreatedAt: info.ModTime(),
		})
	}

	return matched, nil
}

// Delete implements repositories.ArtifactStore
func (s *FilesystemStore) Delete(ctx context.Context, name string) error {
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
		return &entities.StorageError{Op: "delete", Name: name, Err: err}
	}
	return nil
}
