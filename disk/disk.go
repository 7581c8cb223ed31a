// Package disk is the filesystem seam shared by the fiddle reader and the
// file manager. OS talks to the real disk; Mock keeps everything in memory
// and records the calls made against it.
package disk

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileSystem defines the disk operations a fiddle needs.
// This allows for mocking the file system in tests.
type FileSystem interface {
	ReadDir(dir string) ([]fs.DirEntry, error)
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte) error
	Remove(path string) error
	RemoveAll(path string) error
	Exists(path string) (bool, error)
	MkdirTemp(pattern string) (string, error)
}

// OS handles file system operations against the local disk.
type OS struct {
	// TempRoot is where MkdirTemp creates directories. Empty means os.TempDir().
	TempRoot string
}

// NewOS creates a new OS file system rooted at the default temp directory.
func NewOS() *OS {
	return &OS{}
}

func (o *OS) ReadDir(dir string) ([]fs.DirEntry, error) {
	return os.ReadDir(dir)
}

func (o *OS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteFile overwrites path with data, creating parent directories as needed.
func (o *OS) WriteFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	return os.WriteFile(path, data, 0644)
}

func (o *OS) Remove(path string) error {
	return os.Remove(path)
}

func (o *OS) RemoveAll(path string) error {
	return os.RemoveAll(path)
}

// Exists checks if a file or directory exists
func (o *OS) Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to check if %s exists: %w", path, err)
}

func (o *OS) MkdirTemp(pattern string) (string, error) {
	return os.MkdirTemp(o.TempRoot, pattern)
}
