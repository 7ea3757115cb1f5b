package workspace

import (
	"path/filepath"
	"sort"
	"sync"

	"github.com/arbornotes/arbor/internal/note"
)

// Tree is the materialized hierarchy over real and ghost notes.
type Tree struct {
	Roots    []note.ID
	Children map[note.ID][]note.ID
	Parents  map[note.ID]note.ID
}

// treeCache is a read-through cache of the tree. It has its own guard so
// a read that triggers a rebuild does not upgrade the workspace lock;
// concurrent readers may race to rebuild, which is idempotent.
type treeCache struct {
	mu   sync.RWMutex
	tree *Tree
}

func (c *treeCache) get() *Tree {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tree
}

func (c *treeCache) set(t *Tree) {
	c.mu.Lock()
	c.tree = t
	c.mu.Unlock()
}

func (c *treeCache) invalidate() {
	c.mu.Lock()
	c.tree = nil
	c.mu.Unlock()
}

// Tree returns the hierarchy, rebuilding it when the cache is empty.
func (w *Workspace) Tree() *Tree {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.treeLocked()
}

func (w *Workspace) treeLocked() *Tree {
	if t := w.tree.get(); t != nil {
		return t
	}
	t := w.buildTree()
	w.tree.set(t)
	return t
}

// InvalidateTree drops the cached hierarchy. Any store write does this
// implicitly.
func (w *Workspace) InvalidateTree() {
	w.tree.invalidate()
}

func (w *Workspace) buildTree() *Tree {
	t := &Tree{
		Children: make(map[note.ID][]note.ID),
		Parents:  make(map[note.ID]note.ID),
	}

	keys := make(map[note.ID]note.Key)
	for n := range w.store.All() {
		key, ok := w.reg.KeyOf(n.ID)
		if !ok {
			if n.Path == "" {
				continue
			}
			key = w.model.NoteKeyFromPath(n.Path)
		}
		keys[n.ID] = key
	}

	for id, key := range keys {
		parentKey, ok := w.model.ResolveParent(key)
		if !ok {
			t.Roots = append(t.Roots, id)
			continue
		}
		parentID, ok := w.reg.Lookup(parentKey)
		if !ok {
			t.Roots = append(t.Roots, id)
			continue
		}
		if _, ok := w.store.Get(parentID); !ok {
			// The parent key was only ever a link target; without a node
			// to attach to, this note roots the subtree.
			t.Roots = append(t.Roots, id)
			continue
		}
		t.Children[parentID] = append(t.Children[parentID], id)
		t.Parents[id] = parentID
	}

	byKey := func(ids []note.ID) {
		sort.Slice(ids, func(i, j int) bool { return keys[ids[i]] < keys[ids[j]] })
	}
	byKey(t.Roots)
	for _, children := range t.Children {
		byKey(children)
	}
	return t
}

// fillMissingHierarchyLevels materializes a ghost note for every missing
// interior key, so each real note reaches a root through real or ghost
// parents. Caller holds the workspace lock.
func (w *Workspace) fillMissingHierarchyLevels() {
	realKeys := make(map[note.Key]bool)
	for n := range w.store.All() {
		if n.Path == "" {
			continue
		}
		if key, ok := w.reg.KeyOf(n.ID); ok {
			realKeys[key] = true
		}
	}

	missing := make(map[note.Key]bool)
	for key := range realKeys {
		current := key
		for {
			parent, ok := w.model.ResolveParent(current)
			if !ok {
				break
			}
			if !realKeys[parent] && !missing[parent] {
				missing[parent] = true
			}
			current = parent
		}
	}

	for key := range missing {
		id := w.reg.GetOrCreate(key)
		if _, ok := w.store.Get(id); ok {
			continue
		}
		w.store.Upsert(&note.Note{ID: id})
	}
}

// NoteRef is the display projection of a note in a tree view.
type NoteRef struct {
	ID    string
	Key   note.Key
	Path  string // '/'-separated; empty for ghosts
	Title string
}

// TreeView is the hierarchy rendered for clients, roots first.
type TreeView struct {
	Note     NoteRef
	Children []TreeView
}

// TreeViews renders the current hierarchy.
func (w *Workspace) TreeViews() []TreeView {
	w.mu.RLock()
	defer w.mu.RUnlock()

	t := w.treeLocked()
	views := make([]TreeView, 0, len(t.Roots))
	for _, root := range t.Roots {
		if v, ok := w.treeViewNode(root, t); ok {
			views = append(views, v)
		}
	}
	return views
}

func (w *Workspace) treeViewNode(id note.ID, t *Tree) (TreeView, bool) {
	n, ok := w.store.Get(id)
	if !ok {
		return TreeView{}, false
	}
	key, ok := w.reg.KeyOf(id)
	if !ok && n.Path != "" {
		key = w.model.NoteKeyFromPath(n.Path)
	}

	var children []TreeView
	for _, child := range t.Children[id] {
		if v, ok := w.treeViewNode(child, t); ok {
			children = append(children, v)
		}
	}

	return TreeView{
		Note: NoteRef{
			ID:    string(id),
			Key:   key,
			Path:  filepath.ToSlash(n.Path),
			Title: n.Title,
		},
		Children: children,
	}, true
}
