package workspace

import (
	"github.com/arbornotes/arbor/internal/note"
	"github.com/arbornotes/arbor/internal/plan"
)

// The planner surface. These methods compute EditPlans against the
// current graph; nothing here touches the disk, the caller applies the
// plan (plan.Apply) or discards it.

// RenameNote plans renaming the note bound to oldKey to newKey,
// including every backlink rewrite. The new path is the model's forward
// projection of newKey.
func (w *Workspace) RenameNote(cp plan.ContentProvider, oldKey, newKey note.Key) *plan.Plan {
	w.mu.RLock()
	defer w.mu.RUnlock()

	id, ok := w.reg.Lookup(oldKey)
	if !ok {
		return nil
	}
	return plan.Structural(w.store, w.reg, cp, w.model, id,
		w.model.PathFromNoteKey(newKey), newKey)
}

// MoveNote plans moving the note at oldPath to newPath. The key follows
// from the new path, so a move can imply a rename.
func (w *Workspace) MoveNote(cp plan.ContentProvider, oldPath, newPath string) *plan.Plan {
	w.mu.RLock()
	defer w.mu.RUnlock()

	id, ok := w.store.ByPath(oldPath)
	if !ok {
		return nil
	}
	return plan.Structural(w.store, w.reg, cp, w.model, id,
		newPath, w.model.NoteKeyFromPath(newPath))
}

// RenameHierarchy plans the cascading rename of a prefix and all of its
// descendants.
func (w *Workspace) RenameHierarchy(cp plan.ContentProvider, oldPrefix, newPrefix note.Key) *plan.Plan {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return plan.Hierarchy(w.store, w.reg, cp, w.model, oldPrefix, newPrefix)
}

// SplitNote plans extracting the selection from the note at sourcePath
// into a new note titled newTitle.
func (w *Workspace) SplitNote(cp plan.ContentProvider, sourcePath string, selection note.Range, newTitle string) *plan.Plan {
	w.mu.RLock()
	defer w.mu.RUnlock()

	id, ok := w.store.ByPath(sourcePath)
	if !ok {
		return nil
	}
	return plan.Split(w.store, cp, w.model, id, selection, newTitle)
}

// CreateNote plans a new note at key, filled from the model's template.
func (w *Workspace) CreateNote(key note.Key) *plan.Plan {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return plan.Create(w.model, key)
}

// DeleteNote plans removing the note bound to key.
func (w *Workspace) DeleteNote(key note.Key) *plan.Plan {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return plan.Delete(w.store, w.reg, key)
}

// Audit scans the workspace for broken links, dangling anchors and
// forbidden syntax, returning a diagnostics-only plan.
func (w *Workspace) Audit() *plan.Plan {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return plan.Audit(w.store, w.model)
}
