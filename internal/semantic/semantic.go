// Package semantic defines the policy layer of a workspace: how paths
// become keys, how keys nest into a hierarchy, and how links are written.
// The engine is model-agnostic; vault conventions live here.
package semantic

import (
	"strings"
	"unicode"

	"github.com/arbornotes/arbor/internal/note"
)

// Model encodes one notes convention. Implementations are pure policy
// parameterized by a workspace root; they never touch the file system.
type Model interface {
	// ID names the model; snapshots taken under a different model are
	// refused on load.
	ID() string

	// Root is the workspace root paths are derived against.
	Root() string

	// NoteKeyFromPath derives the key of a note from its path.
	NoteKeyFromPath(path string) note.Key

	// NoteKeyFromLink resolves a raw link target, relative to the source
	// note's key, into a key.
	NoteKeyFromLink(source note.Key, raw string) note.Key

	// PathFromNoteKey is the forward projection of a key onto a path.
	PathFromNoteKey(key note.Key) string

	// ResolveParent returns the hierarchy parent of a key, if it has one.
	ResolveParent(key note.Key) (note.Key, bool)

	// IsDescendant reports whether candidate sits strictly below parent.
	IsDescendant(candidate, parent note.Key) bool

	// ReparentKey rewrites key when its ancestor oldParent becomes
	// newParent. Keys outside oldParent's subtree are returned unchanged.
	ReparentKey(key, oldParent, newParent note.Key) note.Key

	// DisplayName is the human-facing label for a note.
	DisplayName(n *note.Note, key note.Key) string

	// WikiLinkFormat is the [[...]] convention the parser and formatter
	// agree on.
	WikiLinkFormat() note.WikiLinkFormat

	// FormatWikiLink renders a wiki link for refactoring output.
	FormatWikiLink(target, alias, anchor string, embed bool) string

	// SupportedExtensions lists file extensions, preferred first.
	SupportedExtensions() []string

	// NewNoteContent produces the initial content of a freshly created
	// note.
	NewNoteContent(key note.Key) string

	// AuditedLinkKinds lists the link kinds the workspace audit checks.
	AuditedLinkKinds() []note.LinkKind

	// Strict reports whether bare-anchor wiki links ([[#heading]]) are
	// forbidden under this model.
	Strict() bool
}

// NormalizeToKey converts a raw path-ish string into a key: separators
// unified to '/', the markdown extension stripped.
func NormalizeToKey(raw string) note.Key {
	s := strings.ReplaceAll(raw, `\`, "/")
	s = strings.TrimSuffix(s, ".md")
	return note.Key(s)
}

// SlugifyHeading turns heading text into a URL-safe anchor slug:
// lowercase, unicode letters, digits, hyphens and underscores kept,
// whitespace to hyphens, everything else dropped, outer hyphens trimmed.
func SlugifyHeading(text string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune('-')
		}
	}
	return strings.Trim(b.String(), "-")
}
