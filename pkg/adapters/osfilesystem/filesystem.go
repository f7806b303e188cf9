// Package osfilesystem provides a filesystem implementation using the os package.
package osfilesystem

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/user/slideshow/pkg/ports"
)

// ErrOutsideRoot is returned when a path escapes the root of a rooted FileSystem.
var ErrOutsideRoot = errors.New("osfilesystem: path escapes root")

// FileSystem implements ports.FileSystem using the os package.
// A rooted FileSystem resolves every path relative to its root and refuses
// paths that leave it.
type FileSystem struct {
	root string
}

// New creates a FileSystem over the host filesystem.
func New() *FileSystem {
	return &FileSystem{}
}

// NewRooted creates a FileSystem confined to root.
func NewRooted(root string) *FileSystem {
	return &FileSystem{root: filepath.Clean(root)}
}

// Root returns the root directory, or "" for the host filesystem.
func (fs *FileSystem) Root() string {
	return fs.root
}

// resolve maps path to a host path.
func (fs *FileSystem) resolve(path string) (string, error) {
	if fs.root == "" {
		return path, nil
	}
	if filepath.IsAbs(path) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, path)
	}
	full := filepath.Join(fs.root, path)
	if full != fs.root && !strings.HasPrefix(full, fs.root+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, path)
	}
	return full, nil
}

// ReadFile reads the entire contents of a file.
func (fs *FileSystem) ReadFile(path string) ([]byte, error) {
	full, err := fs.resolve(path)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(full)
}

// WriteFile writes data to a file, creating it if necessary.
func (fs *FileSystem) WriteFile(path string, data []byte) error {
	full, err := fs.resolve(path)
	if err != nil {
		return err
	}
	// Ensure parent directory exists
	dir := filepath.Dir(full)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(full, data, 0644)
}

// MkdirAll creates a directory and all parent directories.
func (fs *FileSystem) MkdirAll(path string) error {
	full, err := fs.resolve(path)
	if err != nil {
		return err
	}
	return os.MkdirAll(full, 0755)
}

// Exists checks if a file or directory exists.
func (fs *FileSystem) Exists(path string) (bool, error) {
	full, err := fs.resolve(path)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(full)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// Remove deletes a file or empty directory. A missing path is not an error.
func (fs *FileSystem) Remove(path string) error {
	full, err := fs.resolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// RemoveAll deletes path and everything below it.
func (fs *FileSystem) RemoveAll(path string) error {
	full, err := fs.resolve(path)
	if err != nil {
		return err
	}
	return os.RemoveAll(full)
}

// Ensure FileSystem implements ports.FileSystem
var _ ports.FileSystem = (*FileSystem)(nil)
