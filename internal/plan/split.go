package plan

import (
	"github.com/arbornotes/arbor/internal/note"
	"github.com/arbornotes/arbor/internal/semantic"
	"github.com/arbornotes/arbor/internal/store"
)

// Split plans "extract selection to note": a new file holding the
// selected text, and a text edit replacing the selection with a wiki link
// to it. Returns nil when the source is unknown, content is unavailable,
// or the selection does not resolve.
func Split(
	st *store.Store,
	cp ContentProvider,
	model semantic.Model,
	sourceID note.ID,
	selection note.Range,
	newTitle string,
) *Plan {
	source, ok := st.Get(sourceID)
	if !ok || source.Path == "" {
		return nil
	}
	if cp == nil {
		return nil
	}
	content, ok := cp.GetContent(source.Path)
	if !ok {
		return nil
	}

	extracted, ok := note.NewLineMap(content).Slice(selection)
	if !ok {
		return nil
	}

	newPath := model.PathFromNoteKey(note.Key(newTitle))
	linkText := model.FormatWikiLink(newTitle, "", "", false)

	undo := extracted
	return &Plan{
		Kind: SplitNote,
		Edits: []EditGroup{
			{
				URI:     newPath,
				Changes: []Change{CreateFile{Content: &extracted}},
			},
			{
				URI: source.Path,
				Changes: []Change{TextEdit{
					Range:    selection,
					NewText:  linkText,
					UndoText: &undo,
				}},
			},
		},
		Reversible: true,
	}
}
