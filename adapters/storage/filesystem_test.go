package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

func TestNewFilesystemStore(t *testing.T) {
	logger := zaptest.NewLogger(t)

	// Empty directory is rejected
	_, err := NewFilesystemStore("", logger)
	if err == nil {
		t.Error("Expected error for empty cache directory")
	}

	// Directory is created when missing
	dir := filepath.Join(t.TempDir(), "cache")
	_, err = NewFilesystemStore(dir, logger)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	if _, err := os.Stat(dir); err != nil {
		t.Errorf("Expected cache directory to exist: %v", err)
	}
}

func TestFilesystemStoreWriteReadExists(t *testing.T) {
	logger := zaptest.NewLogger(t)
	store, err := NewFilesystemStore(t.TempDir(), logger)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	ctx := context.Background()

	exists, err := store.Exists(ctx, "abc.mp3")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if exists {
		t.Error("Expected artifact to not exist before write")
	}

	audio := []byte("ABC")
	if err := store.WriteAtomic(ctx, "abc.mp3", audio); err != nil {
		t.Fatalf("WriteAtomic failed: %v", err)
	}

	exists, err = store.Exists(ctx, "abc.mp3")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !exists {
		t.Error("Expected artifact to exist after write")
	}

	data, err := store.Read(ctx, "abc.mp3")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if string(data) != "ABC" {
		t.Errorf("Expected artifact bytes 'ABC', got %q", string(data))
	}
}

func TestFilesystemStoreWriteLeavesNoTempFiles(t *testing.T) {
	logger := zaptest.NewLogger(t)
	dir := t.TempDir()
	store, err := NewFilesystemStore(dir, logger)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	if err := store.WriteAtomic(context.Background(), "abc.mp3", []byte("audio")); err != nil {
		t.Fatalf("WriteAtomic failed: %v", err)
	}

	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}

	for _, de := range dirEntries {
		if strings.HasSuffix(de.Name(), ".tmp") {
			t.Errorf("Temp file left behind: %s", de.Name())
		}
	}
	if len(dirEntries) != 1 {
		t.Errorf("Expected exactly one artifact, found %d entries", len(dirEntries))
	}
}

func TestFilesystemStoreListOlderThan(t *testing.T) {
	logger := zaptest.NewLogger(t)
	dir := t.TempDir()
	store, err := NewFilesystemStore(dir, logger)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	ctx := context.Background()

	if err := store.WriteAtomic(ctx, "old.mp3", []byte("old")); err != nil {
		t.Fatalf("WriteAtomic failed: %v", err)
	}
	if err := store.WriteAtomic(ctx, "new.mp3", []byte("new")); err != nil {
		t.Fatalf("WriteAtomic failed: %v", err)
	}

	// Backdate the old artifact's mtime past the threshold
	past := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(filepath.Join(dir, "old.mp3"), past, past); err != nil {
		t.Fatalf("Chtimes failed: %v", err)
	}

	stale, err := store.ListOlderThan(ctx, 24*time.Hour)
	if err != nil {
		t.Fatalf("ListOlderThan failed: %v", err)
	}

	if len(stale) != 1 {
		t.Fatalf("Expected 1 stale entry, got %d", len(stale))
	}
	if stale[0].Name != "old.mp3" {
		t.Errorf("Expected stale entry 'old.mp3', got %q", stale[0].Name)
	}

	all, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("Expected 2 entries total, got %d", len(all))
	}
}

func TestFilesystemStoreDelete(t *testing.T) {
	logger := zaptest.NewLogger(t)
	store, err := NewFilesystemStore(t.TempDir(), logger)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	ctx := context.Background()

	if err := store.WriteAtomic(ctx, "abc.mp3", []byte("audio")); err != nil {
		t.Fatalf("WriteAtomic failed: %v", err)
	}

	if err := store.Delete(ctx, "abc.mp3"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	exists, err := store.Exists(ctx, "abc.mp3")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if exists {
		t.Error("Expected artifact to be gone after delete")
	}

	// Deleting a missing artifact reports an error for the sweeper to log
	if err := store.Delete(ctx, "abc.mp3"); err == nil {
		t.Error("Expected error deleting missing artifact")
	}
}
