package semantic

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/arbornotes/arbor/internal/note"
)

func newModel() *DottedModel {
	return NewDottedModel("/vault", note.AliasFirst)
}

func TestNoteKeyFromPath(t *testing.T) {
	t.Parallel()
	m := newModel()

	tests := []struct {
		path string
		want note.Key
	}{
		{"/vault/foo.bar.md", "foo.bar"},
		{"/vault/note.md", "note"},
		{"sub/dir/a.b.c.md", "a.b.c"},
	}
	for _, tt := range tests {
		if got := m.NoteKeyFromPath(tt.path); got != tt.want {
			t.Errorf("NoteKeyFromPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestKeyPathRoundTrip(t *testing.T) {
	t.Parallel()
	m := newModel()

	for _, p := range []string{"/vault/foo.md", "/vault/foo.bar.md", "/vault/a.md"} {
		key := m.NoteKeyFromPath(p)
		back := m.NoteKeyFromPath(m.PathFromNoteKey(key))
		if back != key {
			t.Errorf("key round trip for %q: %q -> %q", p, key, back)
		}
	}
}

func TestNoteKeyFromLink(t *testing.T) {
	t.Parallel()
	m := newModel()

	tests := []struct {
		name   string
		source note.Key
		raw    string
		want   note.Key
	}{
		{"bare key", "src", "target", "target"},
		{"strips extension", "src", "target.md", "target"},
		{"path form", "src", "sub/target.md", "sub/target"},
		{"backslashes", "src", `sub\target.md`, "sub/target"},
		{"relative to sourced dir", "dir/src", "target", "dir/target"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.NoteKeyFromLink(tt.source, tt.raw); got != tt.want {
				t.Errorf("NoteKeyFromLink(%q, %q) = %q, want %q", tt.source, tt.raw, got, tt.want)
			}
		})
	}
}

func TestResolveParent(t *testing.T) {
	t.Parallel()
	m := newModel()

	tests := []struct {
		key    note.Key
		want   note.Key
		wantOK bool
	}{
		{"foo.bar.baz", "foo.bar", true},
		{"foo.bar", "foo", true},
		{"foo", "", false},
	}
	for _, tt := range tests {
		got, ok := m.ResolveParent(tt.key)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("ResolveParent(%q) = (%q, %v), want (%q, %v)", tt.key, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestIsDescendant(t *testing.T) {
	t.Parallel()
	m := newModel()

	tests := []struct {
		candidate, parent note.Key
		want              bool
	}{
		{"a.b", "a", true},
		{"a.b.c", "a", true},
		{"a", "a", false},
		{"ab", "a", false},
		{"a", "a.b", false},
	}
	for _, tt := range tests {
		if got := m.IsDescendant(tt.candidate, tt.parent); got != tt.want {
			t.Errorf("IsDescendant(%q, %q) = %v, want %v", tt.candidate, tt.parent, got, tt.want)
		}
	}
}

func TestReparentKey(t *testing.T) {
	t.Parallel()
	m := newModel()

	if got := m.ReparentKey("a.b.c", "a", "x"); got != "x.b.c" {
		t.Errorf("ReparentKey = %q, want x.b.c", got)
	}
	// Non-descendants pass through unchanged.
	if got := m.ReparentKey("other", "a", "x"); got != "other" {
		t.Errorf("ReparentKey of non-descendant = %q, want other", got)
	}
}

func TestFormatWikiLink(t *testing.T) {
	t.Parallel()

	aliasFirst := NewDottedModel("/vault", note.AliasFirst)
	targetFirst := NewDottedModel("/vault", note.TargetFirst)

	tests := []struct {
		name   string
		m      *DottedModel
		target string
		alias  string
		anchor string
		embed  bool
		want   string
	}{
		{"plain", aliasFirst, "foo", "", "", false, "[[foo]]"},
		{"alias", aliasFirst, "foo", "F", "", false, "[[F|foo]]"},
		{"anchor", aliasFirst, "foo", "", "sec", false, "[[foo#sec]]"},
		{"block anchor", aliasFirst, "foo", "", "^blk", false, "[[foo#^blk]]"},
		{"embed", aliasFirst, "foo", "", "", true, "![[foo]]"},
		{"all alias-first", aliasFirst, "foo", "F", "sec", false, "[[F|foo#sec]]"},
		{"all target-first", targetFirst, "foo", "F", "sec", false, "[[foo#sec|F]]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.FormatWikiLink(tt.target, tt.alias, tt.anchor, tt.embed); got != tt.want {
				t.Errorf("FormatWikiLink = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPathFromNoteKey(t *testing.T) {
	t.Parallel()
	m := newModel()

	want := filepath.Join("/vault", "foo.bar.md")
	if got := m.PathFromNoteKey("foo.bar"); got != want {
		t.Errorf("PathFromNoteKey = %q, want %q", got, want)
	}
}

func TestNewNoteContent(t *testing.T) {
	t.Parallel()
	m := newModel()

	content := m.NewNoteContent("proj.notes.idea")
	if !strings.HasPrefix(content, "---\n") {
		t.Fatalf("content should start with frontmatter:\n%s", content)
	}
	if !strings.Contains(content, "title: Idea\n") {
		t.Errorf("title should be the capitalized last segment:\n%s", content)
	}
	if !strings.Contains(content, "id: ") || !strings.Contains(content, "created: ") {
		t.Errorf("content missing id or created fields:\n%s", content)
	}
}

func TestSlugifyHeading(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"My Cool Header", "my-cool-header"},
		{"Hello (World)!", "hello-world"},
		{"-Hello-", "hello"},
		{"!!!", ""},
		{"A  B", "a--b"},
	}
	for _, tt := range tests {
		if got := SlugifyHeading(tt.in); got != tt.want {
			t.Errorf("SlugifyHeading(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
