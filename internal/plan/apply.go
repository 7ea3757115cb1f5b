package plan

import (
	"fmt"
	"sort"

	"github.com/arbornotes/arbor/internal/note"
	"github.com/arbornotes/arbor/internal/parse"
	"github.com/arbornotes/arbor/internal/vfs"
)

// FSProvider is a content provider reading through the file-system
// capability.
type FSProvider struct {
	FS vfs.FileSystem
}

func (p FSProvider) GetContent(uri string) (string, bool) {
	content, err := p.FS.ReadToString(uri)
	if err != nil {
		return "", false
	}
	return content, true
}

// Apply executes a plan against the file system: path-level
// preconditions are checked first, then each group's text edits run
// against the pre-edit content, then its resource operations. NoteExists
// preconditions are store-level and already held at plan time.
func Apply(p *Plan, fs vfs.FileSystem) error {
	for _, pc := range p.Preconditions {
		switch pc := pc.(type) {
		case PathNotExists:
			if _, err := fs.Metadata(pc.Path); err == nil {
				return fmt.Errorf("precondition failed: %s already exists", pc.Path)
			}
		case ContentUnchanged:
			content, err := fs.ReadToString(pc.Path)
			if err != nil {
				return fmt.Errorf("precondition failed: read %s: %w", pc.Path, err)
			}
			if parse.Digest(content) != pc.Digest {
				return fmt.Errorf("precondition failed: %s changed since planning", pc.Path)
			}
		}
	}

	for _, g := range p.Edits {
		if err := applyGroup(g, fs); err != nil {
			return err
		}
	}
	return nil
}

func applyGroup(g EditGroup, fs vfs.FileSystem) error {
	var textEdits []TextEdit
	var ops []Change
	for _, c := range g.Changes {
		if te, ok := c.(TextEdit); ok {
			textEdits = append(textEdits, te)
		} else {
			ops = append(ops, c)
		}
	}

	if len(textEdits) > 0 {
		content, err := fs.ReadToString(g.URI)
		if err != nil {
			return fmt.Errorf("apply %s: %w", g.URI, err)
		}
		edited, err := applyTextEdits(content, textEdits)
		if err != nil {
			return fmt.Errorf("apply %s: %w", g.URI, err)
		}
		if err := fs.WriteAll(g.URI, []byte(edited)); err != nil {
			return fmt.Errorf("apply %s: %w", g.URI, err)
		}
	}

	for _, c := range ops {
		switch c := c.(type) {
		case CreateFile:
			var content string
			if c.Content != nil {
				content = *c.Content
			}
			if err := fs.WriteAll(g.URI, []byte(content)); err != nil {
				return fmt.Errorf("create %s: %w", g.URI, err)
			}
		case DeleteFile:
			if err := fs.Remove(g.URI); err != nil && !c.IgnoreIfNotExists {
				return fmt.Errorf("delete %s: %w", g.URI, err)
			}
		case RenameFile:
			if !c.Overwrite {
				if _, err := fs.Metadata(c.NewURI); err == nil {
					return fmt.Errorf("rename %s: %s already exists", g.URI, c.NewURI)
				}
			}
			if err := fs.Rename(g.URI, c.NewURI); err != nil {
				return fmt.Errorf("rename %s: %w", g.URI, err)
			}
		}
	}
	return nil
}

// applyTextEdits resolves every range against the original content, then
// rewrites back to front so earlier offsets stay valid.
func applyTextEdits(content string, edits []TextEdit) (string, error) {
	lm := note.NewLineMap(content)
	type resolved struct {
		start, end int
		text       string
	}
	rs := make([]resolved, 0, len(edits))
	for _, e := range edits {
		start, ok := lm.PointToOffset(e.Range.Start)
		if !ok {
			return "", fmt.Errorf("edit start %+v out of bounds", e.Range.Start)
		}
		end, ok := lm.PointToOffset(e.Range.End)
		if !ok || end < start {
			return "", fmt.Errorf("edit end %+v out of bounds", e.Range.End)
		}
		rs = append(rs, resolved{start: start, end: end, text: e.NewText})
	}
	sort.Slice(rs, func(i, j int) bool { return rs[i].start > rs[j].start })
	for _, r := range rs {
		content = content[:r.start] + r.text + content[r.end:]
	}
	return content, nil
}
