// Package storage provides the file object store backing uploaded media.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ObjectStore is the interface over the file object store.
// Save returns the public URL the stored object is served under.
type ObjectStore interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
	Delete(ctx context.Context, name string) error
}

// LocalStore is a disk-backed ObjectStore. Objects live flat under a single
// directory and are served by the HTTP layer under urlPrefix.
type LocalStore struct {
	dir       string
	urlPrefix string
}

// NewLocalStore creates a LocalStore rooted at dir, creating it if absent.
func NewLocalStore(dir, urlPrefix string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalStore{dir: dir, urlPrefix: strings.TrimSuffix(urlPrefix, "/")}, nil
}

// Dir returns the directory objects are stored under.
func (s *LocalStore) Dir() string {
	return s.dir
}

// Save writes the object to disk and returns its public URL.
func (s *LocalStore) Save(_ context.Context, name string, r io.Reader) (string, error) {
	clean, err := s.objectPath(name)
	if err != nil {
		return "", err
	}

	f, err := os.Create(clean)
	if err != nil {
		return "", fmt.Errorf("failed to create object file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(clean)
		return "", fmt.Errorf("failed to write object file: %w", err)
	}
	return s.urlPrefix + "/" + name, nil
}

// Delete removes the object. Deleting an absent object is not an error.
func (s *LocalStore) Delete(_ context.Context, name string) error {
	clean, err := s.objectPath(name)
	if err != nil {
		return err
	}
	if err := os.Remove(clean); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete object file: %w", err)
	}
	return nil
}

// objectPath resolves an object name to a path inside the store directory,
// rejecting names that would escape it.
func (s *LocalStore) objectPath(name string) (string, error) {
	if name == "" || name != path.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("invalid object name: %q", name)
	}
	return filepath.Join(s.dir, name), nil
}
