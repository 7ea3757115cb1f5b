package plan

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/arbornotes/arbor/internal/identity"
	"github.com/arbornotes/arbor/internal/note"
	"github.com/arbornotes/arbor/internal/semantic"
	"github.com/arbornotes/arbor/internal/store"
)

// Structural plans a rename and/or move of one note: the file operation
// plus a text edit for every link pointing at it. Returns nil when the
// note is unknown, has no file, or nothing would change.
func Structural(
	st *store.Store,
	reg *identity.Registry,
	cp ContentProvider,
	model semantic.Model,
	id note.ID,
	newPath string,
	newKey note.Key,
) *Plan {
	n, ok := st.Get(id)
	if !ok || n.Path == "" {
		return nil
	}
	oldPath := n.Path
	oldKey, ok := reg.KeyOf(id)
	if !ok {
		return nil
	}

	isRename := oldKey != newKey
	isMove := oldPath != newPath
	if !isRename && !isMove {
		return nil
	}

	preconditions := []Precondition{NoteExists{ID: id}}
	if isMove {
		preconditions = append(preconditions, PathNotExists{Path: newPath})
	}

	var edits []EditGroup
	if isMove {
		edits = append(edits, EditGroup{
			URI:     oldPath,
			Changes: []Change{RenameFile{NewURI: newPath, Overwrite: false}},
		})
	}

	for _, sourceID := range st.BacklinksOf(id) {
		source, ok := st.Get(sourceID)
		if !ok || source.Path == "" {
			continue
		}

		var sourceMap *note.LineMap
		if cp != nil {
			if content, ok := cp.GetContent(source.Path); ok {
				sourceMap = note.NewLineMap(content)
			}
		}

		var changes []Change
		for _, link := range source.Links {
			if link.Target != id {
				continue
			}

			var newText string
			switch link.Kind {
			case note.WikiLink, note.EmbeddedWikiLink:
				if !isRename {
					continue
				}
				newText = model.FormatWikiLink(
					string(newKey), link.Alias, link.Anchor,
					link.Kind == note.EmbeddedWikiLink,
				)
			case note.MarkdownLink:
				if !isRename && !isMove {
					continue
				}
				body := link.Alias
				if body == "" {
					body = string(newKey)
				}
				newText = "[" + body + "](" + relativePath(source.Path, newPath) + ")"
			default:
				continue
			}

			var undo *string
			if sourceMap != nil {
				if s, ok := sourceMap.Slice(link.Range); ok {
					undo = &s
				}
			}

			changes = append(changes, TextEdit{
				Range:    link.Range,
				NewText:  newText,
				UndoText: undo,
			})
		}
		if len(changes) > 0 {
			edits = append(edits, EditGroup{URI: source.Path, Changes: changes})
		}
	}

	kind := MoveNote
	if isRename {
		kind = RenameNote
	}
	sortEdits(edits)
	return &Plan{
		Kind:          kind,
		Edits:         edits,
		Preconditions: preconditions,
		Reversible:    true,
	}
}

// sortEdits orders groups by uri and, within one uri, text edits before
// the file rename so ranges resolve against the old content.
func sortEdits(edits []EditGroup) {
	sort.SliceStable(edits, func(i, j int) bool {
		if edits[i].URI != edits[j].URI {
			return edits[i].URI < edits[j].URI
		}
		return !hasRename(edits[i]) && hasRename(edits[j])
	})
}

func hasRename(g EditGroup) bool {
	for _, c := range g.Changes {
		if _, ok := c.(RenameFile); ok {
			return true
		}
	}
	return false
}

// relativePath computes the '/'-separated path of to, relative to the
// directory holding from.
func relativePath(from, to string) string {
	fromDir := filepath.Dir(from)
	rel, err := filepath.Rel(fromDir, to)
	if err != nil {
		return filepath.ToSlash(to)
	}
	rel = filepath.ToSlash(rel)
	if rel == "." {
		rel = filepath.ToSlash(filepath.Base(to))
	}
	return strings.TrimPrefix(rel, "./")
}
