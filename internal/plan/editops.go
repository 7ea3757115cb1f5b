package plan

import (
	"github.com/arbornotes/arbor/internal/identity"
	"github.com/arbornotes/arbor/internal/note"
	"github.com/arbornotes/arbor/internal/semantic"
	"github.com/arbornotes/arbor/internal/store"
)

// Create plans a new note at the key's projected path, filled with the
// model's new-note template.
func Create(model semantic.Model, key note.Key) *Plan {
	content := model.NewNoteContent(key)
	return &Plan{
		Kind: CreateNote,
		Edits: []EditGroup{{
			URI:     model.PathFromNoteKey(key),
			Changes: []Change{CreateFile{Content: &content}},
		}},
		Preconditions: []Precondition{PathNotExists{Path: model.PathFromNoteKey(key)}},
		Reversible:    true,
	}
}

// Delete plans removing the note bound to key. The inverse reconstructs
// the file through the content provider, so the plan stays reversible.
// Returns nil when the key is unknown or the note has no file.
func Delete(st *store.Store, reg *identity.Registry, key note.Key) *Plan {
	id, ok := reg.Lookup(key)
	if !ok {
		return nil
	}
	n, ok := st.Get(id)
	if !ok || n.Path == "" {
		return nil
	}
	return &Plan{
		Kind: DeleteNote,
		Edits: []EditGroup{{
			URI:     n.Path,
			Changes: []Change{DeleteFile{IgnoreIfNotExists: false}},
		}},
		Preconditions: []Precondition{NoteExists{ID: id}},
		Reversible:    true,
	}
}
