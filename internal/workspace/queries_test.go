package workspace_test

import (
	"testing"

	"github.com/arbornotes/arbor/internal/note"
	"github.com/arbornotes/arbor/internal/semantic"
	"github.com/arbornotes/arbor/internal/testutil"
	"github.com/arbornotes/arbor/internal/workspace"
)

func TestFindLinkAtPosition(t *testing.T) {
	t.Parallel()

	fs := testutil.MemVault(t, map[string]string{
		"a.md": "Link to [[b]] here",
		"b.md": "# B",
	})
	ws := newWorkspace()
	if _, err := ws.FullIndex(fs); err != nil {
		t.Fatal(err)
	}

	l, ok := ws.FindLinkAtPosition(testutil.Path("a.md"), note.Point{Line: 0, Col: 10})
	if !ok {
		t.Fatal("no link found at cursor inside [[b]]")
	}
	if l.RawTarget != "b" {
		t.Errorf("RawTarget = %q, want b", l.RawTarget)
	}

	if _, ok := ws.FindLinkAtPosition(testutil.Path("a.md"), note.Point{Line: 0, Col: 2}); ok {
		t.Error("found a link outside any link range")
	}

	path, ok := ws.LinkTargetPath(l)
	if !ok || path != testutil.Path("b.md") {
		t.Errorf("LinkTargetPath = (%q, %v), want b.md", path, ok)
	}
}

func TestAllNoteKeys(t *testing.T) {
	t.Parallel()

	fs := testutil.MemVault(t, map[string]string{
		"b.md": "---\ntitle: Bee\n---\ntext",
		"a.md": "# A Title",
	})
	ws := newWorkspace()
	if _, err := ws.FullIndex(fs); err != nil {
		t.Fatal(err)
	}

	infos := ws.AllNoteKeys()
	if len(infos) != 2 {
		t.Fatalf("got %d keys, want 2: %+v", len(infos), infos)
	}
	if infos[0].Key != "a" || infos[1].Key != "b" {
		t.Errorf("keys = %+v, want sorted a, b", infos)
	}
	if infos[0].DisplayName != "A Title" {
		t.Errorf("display of a = %q, want its H1 title", infos[0].DisplayName)
	}
	if infos[1].DisplayName != "Bee" {
		t.Errorf("display of b = %q, want its frontmatter title", infos[1].DisplayName)
	}
}

func TestResolveLinkAnchor(t *testing.T) {
	t.Parallel()

	fs := testutil.MemVault(t, map[string]string{
		"src.md":    "[[target#My Section]] [[target#^blk]] [[target#my-section]]",
		"target.md": "# My Section\n\nSome paragraph. ^blk\n",
	})
	ws := newWorkspace()
	if _, err := ws.FullIndex(fs); err != nil {
		t.Fatal(err)
	}

	src, _ := ws.NoteByPath(testutil.Path("src.md"))
	if len(src.Links) != 3 {
		t.Fatalf("got %d links, want 3", len(src.Links))
	}

	// Verbatim heading text.
	r, ok := ws.ResolveLinkAnchor(src.Links[0])
	if !ok || r.Start.Line != 0 {
		t.Errorf("heading anchor resolved to (%+v, %v), want line 0", r, ok)
	}

	// Block id.
	r, ok = ws.ResolveLinkAnchor(src.Links[1])
	if !ok || r.Start.Line != 2 {
		t.Errorf("block anchor resolved to (%+v, %v), want line 2", r, ok)
	}

	// Slugged heading form.
	if _, ok := ws.ResolveLinkAnchor(src.Links[2]); !ok {
		t.Error("slugged heading anchor should resolve")
	}
}

func TestVaultNameForPath(t *testing.T) {
	t.Parallel()

	model := semantic.NewDottedModel("/work/notes", note.AliasFirst)
	ws := workspace.New(model,
		workspace.Vault{Name: "notes", Root: "/work/notes"},
		workspace.Vault{Name: "wiki", Root: "/work/wiki"},
	)

	tests := []struct {
		path   string
		want   string
		wantOK bool
	}{
		{"/work/notes/a.md", "notes", true},
		{"/work/wiki/deep/b.md", "wiki", true},
		{"/elsewhere/c.md", "", false},
	}
	for _, tt := range tests {
		got, ok := ws.VaultNameForPath(tt.path)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("VaultNameForPath(%q) = (%q, %v), want (%q, %v)",
				tt.path, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestMultiVaultIndexing(t *testing.T) {
	t.Parallel()

	fs := testutil.MemVault(t, nil)
	if err := fs.WriteAll("/work/notes/n.md", []byte("# N")); err != nil {
		t.Fatal(err)
	}
	if err := fs.WriteAll("/work/wiki/w.md", []byte("# W")); err != nil {
		t.Fatal(err)
	}

	model := semantic.NewDottedModel("/work/notes", note.AliasFirst)
	ws := workspace.New(model,
		workspace.Vault{Name: "notes", Root: "/work/notes"},
		workspace.Vault{Name: "wiki", Root: "/work/wiki"},
	)
	if _, err := ws.FullIndex(fs); err != nil {
		t.Fatal(err)
	}

	n, ok := ws.NoteByPath("/work/notes/n.md")
	if !ok || n.VaultName != "notes" {
		t.Errorf("n.md vault = %+v, want notes", n)
	}
	w, ok := ws.NoteByPath("/work/wiki/w.md")
	if !ok || w.VaultName != "wiki" {
		t.Errorf("w.md vault = %+v, want wiki", w)
	}
}
