package blob

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Filesystem is a Store rooted at a local directory. Keys map to file paths
// under the root; key segments are validated to keep writes inside it.
type Filesystem struct {
	root string
}

// NewFilesystem constructs a filesystem-backed Store rooted at the provided
// path, creating the directory if needed.
func NewFilesystem(root string) (*Filesystem, error) {
	if root == "" {
		return nil, fmt.Errorf("blob: filesystem root is empty")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("blob: create root %q: %w", root, err)
	}
	return &Filesystem{root: root}, nil
}

// Put stores the blob at key, overwriting any existing blob.
func (f *Filesystem) Put(ctx context.Context, key string, data []byte, contentType string) error {
	path, err := f.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("blob: mkdir for %q: %w", key, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("blob: write %q: %w", key, err)
	}
	return nil
}

// Get retrieves the blob contents. Returns ErrNotFound if missing.
func (f *Filesystem) Get(ctx context.Context, key string) ([]byte, error) {
	path, err := f.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("blob: read %q: %w", key, err)
	}
	return data, nil
}

// Delete removes a blob. Returns (false, nil) if not found.
func (f *Filesystem) Delete(ctx context.Context, key string) (bool, error) {
	path, err := f.path(key)
	if err != nil {
		return false, err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("blob: delete %q: %w", key, err)
	}
	return true, nil
}

// Driver returns DriverFilesystem.
func (f *Filesystem) Driver() Driver {
	return DriverFilesystem
}

// path maps a key to a file path under the root, rejecting traversal.
func (f *Filesystem) path(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("blob: empty key")
	}
	for _, segment := range strings.Split(key, "/") {
		if segment == "" || segment == "." || segment == ".." {
			return "", fmt.Errorf("blob: invalid key %q", key)
		}
	}
	return filepath.Join(f.root, filepath.FromSlash(key)), nil
}
