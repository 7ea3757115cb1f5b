package workspace

import (
	"github.com/arbornotes/arbor/internal/note"
	"github.com/arbornotes/arbor/internal/parse"
)

// assemble merges parse output with identity lookups into a Note whose
// links target stable ids. Links to notes that do not exist yet receive
// fresh ids; they resolve once the target is indexed.
func (w *Workspace) assemble(res parse.Result, path string, id note.ID, vault string) *note.Note {
	sourceKey := w.model.NoteKeyFromPath(path)

	links := make([]note.Link, 0, len(res.Links))
	for _, raw := range res.Links {
		targetKey := w.model.NoteKeyFromLink(sourceKey, raw.Target)
		links = append(links, note.Link{
			Target:    w.reg.GetOrCreate(targetKey),
			RawTarget: raw.Target,
			Alias:     raw.Alias,
			Anchor:    raw.Anchor,
			Range:     raw.Range,
			Kind:      raw.Kind,
			Format:    raw.Format,
		})
	}

	return &note.Note{
		ID:            id,
		Path:          path,
		Title:         res.Title,
		Frontmatter:   res.Frontmatter,
		ContentOffset: res.ContentOffset,
		Links:         links,
		Headings:      res.Headings,
		Blocks:        res.Blocks,
		Digest:        res.Digest,
		VaultName:     vault,
	}
}
