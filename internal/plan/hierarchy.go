package plan

import (
	"sort"

	"github.com/arbornotes/arbor/internal/identity"
	"github.com/arbornotes/arbor/internal/note"
	"github.com/arbornotes/arbor/internal/semantic"
	"github.com/arbornotes/arbor/internal/store"
)

// Hierarchy plans a cascading prefix rename: the prefix note itself (when
// it exists) plus every descendant, each reparented under the new prefix.
// Returns nil when the merged plan would be empty.
func Hierarchy(
	st *store.Store,
	reg *identity.Registry,
	cp ContentProvider,
	model semantic.Model,
	oldPrefix, newPrefix note.Key,
) *Plan {
	var edits []EditGroup
	var diagnostics []Diagnostic
	// Text edits bound for the same uri share one group, so all of them
	// resolve against that file's pre-edit content when applied.
	textGroup := make(map[string]int)

	merge := func(p *Plan) {
		if p == nil {
			return
		}
		for _, g := range p.Edits {
			if !hasRename(g) {
				if i, ok := textGroup[g.URI]; ok {
					edits[i].Changes = append(edits[i].Changes, g.Changes...)
					continue
				}
				textGroup[g.URI] = len(edits)
			}
			edits = append(edits, g)
		}
		diagnostics = append(diagnostics, p.Diagnostics...)
	}

	if rootID, ok := reg.Lookup(oldPrefix); ok {
		merge(Structural(st, reg, cp, model, rootID,
			model.PathFromNoteKey(newPrefix), newPrefix))
	}

	type descendant struct {
		id  note.ID
		key note.Key
	}
	var descendants []descendant
	for n := range st.All() {
		if n.Path == "" {
			continue
		}
		key := model.NoteKeyFromPath(n.Path)
		if model.IsDescendant(key, oldPrefix) {
			descendants = append(descendants, descendant{id: n.ID, key: key})
		}
	}
	sort.Slice(descendants, func(i, j int) bool { return descendants[i].key < descendants[j].key })

	for _, d := range descendants {
		newKey := model.ReparentKey(d.key, oldPrefix, newPrefix)
		merge(Structural(st, reg, cp, model, d.id,
			model.PathFromNoteKey(newKey), newKey))
	}

	if len(edits) == 0 {
		return nil
	}
	sortEdits(edits)
	return &Plan{
		Kind:        HierarchyRename,
		Edits:       edits,
		Diagnostics: diagnostics,
		Reversible:  true,
	}
}
