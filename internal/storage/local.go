package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/docshield/pdf-redaction-service/internal/domain"
)

// LocalStorage reads and writes files on the local filesystem, resolving
// relative paths against a base directory.
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates a local storage rooted at basePath. An empty
// basePath means the current working directory.
func NewLocalStorage(basePath string) *LocalStorage {
	if basePath == "" {
		basePath = "."
	}
	return &LocalStorage{basePath: basePath}
}

// Exists reports whether path exists and is a regular file.
func (s *LocalStorage) Exists(_ context.Context, path string) bool {
	info, err := os.Stat(s.resolve(path))
	return err == nil && info.Mode().IsRegular()
}

// Read returns the file content at path.
func (s *LocalStorage) Read(_ context.Context, path string) ([]byte, error) {
	resolved := s.resolve(path)
	info, err := os.Stat(resolved)
	if err != nil {
		return nil, &domain.StorageError{Path: path, Err: err}
	}
	if !info.Mode().IsRegular() {
		return nil, &domain.StorageError{Path: path, Err: fmt.Errorf("not a regular file")}
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		return nil, &domain.StorageError{Path: path, Err: err}
	}
	return data, nil
}

// Write stores content at path, creating parent directories as needed.
func (s *LocalStorage) Write(_ context.Context, path string, content []byte) error {
	resolved := s.resolve(path)
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return &domain.StorageError{Path: path, Err: err}
	}
	if err := os.WriteFile(resolved, content, 0o644); err != nil {
		return &domain.StorageError{Path: path, Err: err}
	}
	return nil
}

// Delete removes the file at path. Deleting a missing file is not an error.
func (s *LocalStorage) Delete(_ context.Context, path string) error {
	err := os.Remove(s.resolve(path))
	if err != nil && !os.IsNotExist(err) {
		return &domain.StorageError{Path: path, Err: err}
	}
	return nil
}

func (s *LocalStorage) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(s.basePath, path)
}
