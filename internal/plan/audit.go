package plan

import (
	"fmt"
	"sort"
	"strings"

	"github.com/arbornotes/arbor/internal/note"
	"github.com/arbornotes/arbor/internal/semantic"
	"github.com/arbornotes/arbor/internal/store"
)

// Audit scans the whole workspace for reference-graph health: broken
// links, anchors that resolve to nothing, and syntax the model forbids.
// The returned plan carries diagnostics only and is not reversible.
func Audit(st *store.Store, model semantic.Model) *Plan {
	var diagnostics []Diagnostic

	audited := make(map[note.LinkKind]bool)
	for _, k := range model.AuditedLinkKinds() {
		audited[k] = true
	}

	notes := make([]*note.Note, 0, st.Len())
	for n := range st.All() {
		notes = append(notes, n)
	}
	sort.Slice(notes, func(i, j int) bool { return notes[i].Path < notes[j].Path })

	for _, n := range notes {
		for _, link := range n.Links {
			if !audited[link.Kind] {
				continue
			}
			lower := strings.ToLower(link.RawTarget)
			if strings.HasPrefix(lower, "http://") ||
				strings.HasPrefix(lower, "https://") ||
				strings.HasPrefix(lower, "mailto:") {
				continue
			}

			r := link.Range
			target, targetExists := st.Get(link.Target)

			if !targetExists {
				diagnostics = append(diagnostics, Diagnostic{
					Severity: Error,
					Message:  "Broken link: target note not found.",
					URI:      n.Path,
					Range:    &r,
				})
			} else if link.Anchor != "" {
				if !anchorResolves(target, link.Anchor) {
					diagnostics = append(diagnostics, Diagnostic{
						Severity: Error,
						Message:  fmt.Sprintf("Invalid anchor: %q not found in target note.", link.Anchor),
						URI:      n.Path,
						Range:    &r,
					})
				}
			}

			isWiki := link.Kind == note.WikiLink || link.Kind == note.EmbeddedWikiLink
			if model.Strict() && isWiki && strings.HasPrefix(link.RawTarget, "#") {
				diagnostics = append(diagnostics, Diagnostic{
					Severity: Error,
					Message:  fmt.Sprintf("Bare anchor link %q is not allowed; link as [[note#anchor]].", link.RawTarget),
					URI:      n.Path,
					Range:    &r,
				})
			}
		}
	}

	return &Plan{
		Kind:        WorkspaceAudit,
		Diagnostics: diagnostics,
		Reversible:  false,
	}
}

func anchorResolves(target *note.Note, anchor string) bool {
	if strings.HasPrefix(anchor, "^") {
		for _, b := range target.Blocks {
			if b.ID == anchor {
				return true
			}
		}
		return false
	}
	for _, h := range target.Headings {
		if h.Text == anchor {
			return true
		}
	}
	return false
}
