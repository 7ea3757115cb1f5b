// Package workspace owns the engine state: the semantic model, the
// identity registry, the note graph and the hierarchy cache. It exposes
// a mutating sync surface driven by file events, a non-mutating planner
// surface, and read queries.
//
// Access is single-writer, multi-reader: mutating entry points take the
// workspace lock exclusively, queries and planners share it. The tree
// cache sits behind its own finer guard, ordered below the workspace
// lock.
package workspace

import (
	"sync"

	"github.com/arbornotes/arbor/internal/identity"
	"github.com/arbornotes/arbor/internal/persist"
	"github.com/arbornotes/arbor/internal/semantic"
	"github.com/arbornotes/arbor/internal/store"
)

// Vault is one configured root directory of notes.
type Vault struct {
	Name string
	Root string
}

// Workspace is the engine façade.
type Workspace struct {
	mu sync.RWMutex

	model semantic.Model
	reg   *identity.Registry
	store *store.Store
	files map[string]persist.FileMetadata

	vaults []Vault

	tree treeCache
}

// New builds a workspace over the model. Without explicit vaults a
// single "main" vault at the model root is assumed.
func New(model semantic.Model, vaults ...Vault) *Workspace {
	if len(vaults) == 0 {
		vaults = []Vault{{Name: "main", Root: model.Root()}}
	}
	return &Workspace{
		model:  model,
		reg:    identity.New(),
		store:  store.New(),
		files:  make(map[string]persist.FileMetadata),
		vaults: vaults,
	}
}

// Model returns the semantic model in effect.
func (w *Workspace) Model() semantic.Model { return w.model }

// Vaults returns the configured vaults.
func (w *Workspace) Vaults() []Vault { return w.vaults }

// SaveSnapshot checkpoints the graph, identity table and file metadata.
func (w *Workspace) SaveSnapshot(path string) error {
	w.mu.RLock()
	defer w.mu.RUnlock()

	files := make(map[string]persist.FileMetadata, len(w.files))
	for p, m := range w.files {
		files[p] = m
	}
	return persist.Save(path, &persist.Snapshot{
		ModelID:  w.model.ID(),
		Store:    w.store,
		Identity: w.reg,
		Files:    files,
	})
}

// LoadSnapshot replaces the workspace state with a previously saved
// snapshot. Version or model mismatches surface as
// persist.ErrIncompatibleSnapshot; the caller starts empty in that case.
func (w *Workspace) LoadSnapshot(path string) error {
	snap, err := persist.Load(path, w.model.ID())
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.store = snap.Store
	w.reg = snap.Identity
	w.files = snap.Files
	w.tree.invalidate()
	return nil
}

func (w *Workspace) vaultNameFor(path string) string {
	if name, ok := w.lookupVault(path); ok {
		return name
	}
	return w.vaults[0].Name
}

func (w *Workspace) lookupVault(path string) (string, bool) {
	best := ""
	bestLen := -1
	for _, v := range w.vaults {
		if len(v.Root) > bestLen && hasPathPrefix(path, v.Root) {
			best = v.Name
			bestLen = len(v.Root)
		}
	}
	return best, bestLen >= 0
}

func hasPathPrefix(path, root string) bool {
	if len(path) < len(root) || path[:len(root)] != root {
		return false
	}
	if len(path) == len(root) {
		return true
	}
	return path[len(root)] == '/' || path[len(root)] == '\\' || root == ""
}
