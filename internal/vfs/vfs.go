// Package vfs is the file-system capability consumed by the engine.
// Implementations are Sync-safe; errors are returned, never panicked.
package vfs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// Metadata is the cheap file identity used by tier-1 revalidation.
type Metadata struct {
	MTime time.Time
	Size  int64
}

// FileSystem is the capability surface. The engine performs no other I/O.
type FileSystem interface {
	ReadToString(path string) (string, error)
	ReadAll(path string) ([]byte, error)
	// WriteAll writes bytes to path, creating parent directories.
	WriteAll(path string, data []byte) error
	// ListFiles recursively lists files under root carrying the extension
	// (without dot), sorted for deterministic indexing.
	ListFiles(root, ext string) ([]string, error)
	Metadata(path string) (Metadata, error)
	Remove(path string) error
	Rename(oldPath, newPath string) error
}

// FS adapts an afero filesystem to the capability surface.
type FS struct {
	fs afero.Fs
}

// NewOS returns the capability over the real file system.
func NewOS() *FS { return &FS{fs: afero.NewOsFs()} }

// NewMem returns an in-memory capability for tests.
func NewMem() *FS { return &FS{fs: afero.NewMemMapFs()} }

func (f *FS) ReadToString(path string) (string, error) {
	data, err := afero.ReadFile(f.fs, path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (f *FS) ReadAll(path string) ([]byte, error) {
	return afero.ReadFile(f.fs, path)
}

func (f *FS) WriteAll(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := f.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create parent directory: %w", err)
		}
	}
	return afero.WriteFile(f.fs, path, data, 0o644)
}

func (f *FS) ListFiles(root, ext string) ([]string, error) {
	suffix := "." + strings.TrimPrefix(ext, ".")
	var files []string
	err := afero.Walk(f.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			// Skip unreadable entries rather than aborting the walk.
			return nil
		}
		if !info.IsDir() && strings.HasSuffix(path, suffix) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func (f *FS) Metadata(path string) (Metadata, error) {
	info, err := f.fs.Stat(path)
	if err != nil {
		return Metadata{}, err
	}
	return Metadata{MTime: info.ModTime(), Size: info.Size()}, nil
}

func (f *FS) Remove(path string) error { return f.fs.Remove(path) }

func (f *FS) Rename(oldPath, newPath string) error {
	if dir := filepath.Dir(newPath); dir != "." {
		if err := f.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create parent directory: %w", err)
		}
	}
	return f.fs.Rename(oldPath, newPath)
}
