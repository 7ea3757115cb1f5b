// Package testutil provides in-memory vault fixtures for engine tests.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/arbornotes/arbor/internal/vfs"
)

// VaultRoot is where MemVault places its files.
const VaultRoot = "/vault"

// MemVault builds an in-memory file system holding the given notes,
// keyed by path relative to VaultRoot.
func MemVault(tb testing.TB, files map[string]string) *vfs.FS {
	tb.Helper()
	fs := vfs.NewMem()
	for name, content := range files {
		if err := fs.WriteAll(filepath.Join(VaultRoot, name), []byte(content)); err != nil {
			tb.Fatalf("write fixture %s: %v", name, err)
		}
	}
	return fs
}

// Path returns the absolute path of a fixture file.
func Path(name string) string {
	return filepath.Join(VaultRoot, name)
}
