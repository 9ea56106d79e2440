package cache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/desertthunder/spotkit/internal/shared"
)

// FileStore keeps each entry in its own file. Relative keys resolve against root.
type FileStore struct {
	root string
}

// NewFileStore creates a [FileStore]; an empty root resolves keys against the working directory.
func NewFileStore(root string) *FileStore {
	return &FileStore{root: root}
}

func (s *FileStore) path(key string) string {
	if s.root == "" || filepath.IsAbs(key) {
		return key
	}
	return filepath.Join(s.root, key)
}

// Read returns the file contents for key.
func (s *FileStore) Read(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", shared.ErrCacheMiss, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read token cache: %w", err)
	}
	return data, nil
}

// Write replaces the file for key by renaming a fully written temp file over it.
func (s *FileStore) Write(_ context.Context, key string, data []byte) error {
	dest := s.path(key)
	dir := filepath.Dir(dest)

	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(dest)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write token cache: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set cache permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write token cache: %w", err)
	}

	if err := os.Rename(tmp.Name(), dest); err != nil {
		return fmt.Errorf("failed to replace token cache: %w", err)
	}
	return nil
}

// Delete removes the file for key; a missing file is not an error.
func (s *FileStore) Delete(_ context.Context, key string) error {
	if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete token cache: %w", err)
	}
	return nil
}
