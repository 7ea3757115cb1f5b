package workspace

import (
	"sort"
	"strings"

	"github.com/arbornotes/arbor/internal/note"
	"github.com/arbornotes/arbor/internal/semantic"
)

// NoteByPath returns the note indexed at path.
func (w *Workspace) NoteByPath(path string) (*note.Note, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	id, ok := w.store.ByPath(path)
	if !ok {
		return nil, false
	}
	return w.store.Get(id)
}

// NoteByKey returns the note bound to key.
func (w *Workspace) NoteByKey(key note.Key) (*note.Note, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	id, ok := w.reg.Lookup(key)
	if !ok {
		return nil, false
	}
	return w.store.Get(id)
}

// KeyOf returns the key bound to a note id.
func (w *Workspace) KeyOf(id note.ID) (note.Key, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.reg.KeyOf(id)
}

// NoteCount returns the number of notes in the graph, ghosts included.
func (w *Workspace) NoteCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.store.Len()
}

// FindLinkAtPosition returns the link under the cursor in the document
// at path.
func (w *Workspace) FindLinkAtPosition(path string, pos note.Point) (note.Link, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	id, ok := w.store.ByPath(path)
	if !ok {
		return note.Link{}, false
	}
	n, ok := w.store.Get(id)
	if !ok {
		return note.Link{}, false
	}
	for _, l := range n.Links {
		if l.Range.Contains(pos) {
			return l, true
		}
	}
	return note.Link{}, false
}

// LinkTargetPath resolves a link to its target's file path. Ghost
// targets have none.
func (w *Workspace) LinkTargetPath(l note.Link) (string, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	n, ok := w.store.Get(l.Target)
	if !ok || n.Path == "" {
		return "", false
	}
	return n.Path, true
}

// BacklinksOf returns the paths of the notes linking to the note at
// path, insertion-ordered.
func (w *Workspace) BacklinksOf(path string) []string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	id, ok := w.store.ByPath(path)
	if !ok {
		return nil
	}
	var paths []string
	for _, src := range w.store.BacklinksOf(id) {
		if n, ok := w.store.Get(src); ok && n.Path != "" {
			paths = append(paths, n.Path)
		}
	}
	return paths
}

// KeyInfo pairs a note key with its display name, for completion.
type KeyInfo struct {
	Key         note.Key
	DisplayName string
}

// AllNoteKeys lists every known key with its display name, sorted.
func (w *Workspace) AllNoteKeys() []KeyInfo {
	w.mu.RLock()
	defer w.mu.RUnlock()

	var infos []KeyInfo
	for n := range w.store.All() {
		key, ok := w.reg.KeyOf(n.ID)
		if !ok {
			continue
		}
		infos = append(infos, KeyInfo{
			Key:         key,
			DisplayName: w.model.DisplayName(n, key),
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Key < infos[j].Key })
	return infos
}

// ResolveLinkAnchor locates a link's anchor inside its target note: a
// ^block by id, or a heading by verbatim text or slug. Returns the range
// to navigate to.
func (w *Workspace) ResolveLinkAnchor(l note.Link) (note.Range, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if l.Anchor == "" {
		return note.Range{}, false
	}
	target, ok := w.store.Get(l.Target)
	if !ok {
		return note.Range{}, false
	}

	if strings.HasPrefix(l.Anchor, "^") {
		for _, b := range target.Blocks {
			if b.ID == l.Anchor {
				return b.Range, true
			}
		}
		return note.Range{}, false
	}

	for _, h := range target.Headings {
		if h.Text == l.Anchor {
			return h.Range, true
		}
	}
	slug := semantic.SlugifyHeading(l.Anchor)
	for _, h := range target.Headings {
		if semantic.SlugifyHeading(h.Text) == slug {
			return h.Range, true
		}
	}
	return note.Range{}, false
}

// VaultNameForPath reports which configured vault contains path.
func (w *Workspace) VaultNameForPath(path string) (string, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.lookupVault(path)
}
