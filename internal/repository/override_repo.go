package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// OverrideRepository stores the single user-supplied dataset slot.
// Every Put fully replaces the previous value.
type OverrideRepository interface {
	// Get returns the stored raw text; ok is false when the slot is empty
	Get(ctx context.Context) (raw string, ok bool, err error)
	// Put replaces the slot with raw
	Put(ctx context.Context, raw string) error
	// Delete empties the slot; an already empty slot is not an error
	Delete(ctx context.Context) error
}

// FileOverrideRepository keeps the override in one file on local disk
type FileOverrideRepository struct {
	mu   sync.Mutex
	path string
}

// NewFileOverrideRepository creates a new FileOverrideRepository
func NewFileOverrideRepository(path string) *FileOverrideRepository {
	return &FileOverrideRepository{path: path}
}

// Get reads the override file
func (r *FileOverrideRepository) Get(_ context.Context) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read override: %w", err)
	}
	return string(data), true, nil
}

// Put writes the override atomically
func (r *FileOverrideRepository) Put(_ context.Context, raw string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := atomicWriteFile(r.path, []byte(raw), 0o644); err != nil {
		return fmt.Errorf("write override: %w", err)
	}
	return nil
}

// Delete removes the override file
func (r *FileOverrideRepository) Delete(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.Remove(r.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove override: %w", err)
	}
	return nil
}

// atomicWriteFile writes to {path}.tmp, syncs, then renames over path so a
// reader sees either the old or the new content.
func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create parent directory: %w", err)
	}

	tmpPath := path + ".tmp"
	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}
