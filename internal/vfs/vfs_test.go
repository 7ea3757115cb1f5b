package vfs

import (
	"testing"
)

func TestWriteAllCreatesParents(t *testing.T) {
	t.Parallel()
	fs := NewMem()

	if err := fs.WriteAll("/vault/sub/dir/note.md", []byte("hi")); err != nil {
		t.Fatalf("WriteAll failed: %v", err)
	}
	got, err := fs.ReadToString("/vault/sub/dir/note.md")
	if err != nil || got != "hi" {
		t.Errorf("ReadToString = (%q, %v), want (hi, nil)", got, err)
	}
}

func TestListFiles(t *testing.T) {
	t.Parallel()
	fs := NewMem()

	for _, p := range []string{"/vault/b.md", "/vault/a.md", "/vault/sub/c.md", "/vault/skip.txt"} {
		if err := fs.WriteAll(p, []byte("x")); err != nil {
			t.Fatal(err)
		}
	}

	files, err := fs.ListFiles("/vault", "md")
	if err != nil {
		t.Fatalf("ListFiles failed: %v", err)
	}
	want := []string{"/vault/a.md", "/vault/b.md", "/vault/sub/c.md"}
	if len(files) != len(want) {
		t.Fatalf("ListFiles = %v, want %v", files, want)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Errorf("ListFiles[%d] = %q, want %q", i, files[i], want[i])
		}
	}
}

func TestMetadata(t *testing.T) {
	t.Parallel()
	fs := NewMem()

	if err := fs.WriteAll("/vault/n.md", []byte("12345")); err != nil {
		t.Fatal(err)
	}
	meta, err := fs.Metadata("/vault/n.md")
	if err != nil {
		t.Fatalf("Metadata failed: %v", err)
	}
	if meta.Size != 5 {
		t.Errorf("Size = %d, want 5", meta.Size)
	}
	if meta.MTime.IsZero() {
		t.Error("MTime should be set")
	}

	if _, err := fs.Metadata("/vault/missing.md"); err == nil {
		t.Error("Metadata of missing file should error")
	}
}

func TestRenameAndRemove(t *testing.T) {
	t.Parallel()
	fs := NewMem()

	if err := fs.WriteAll("/vault/a.md", []byte("content")); err != nil {
		t.Fatal(err)
	}
	if err := fs.Rename("/vault/a.md", "/vault/sub/b.md"); err != nil {
		t.Fatalf("Rename failed: %v", err)
	}
	if got, err := fs.ReadToString("/vault/sub/b.md"); err != nil || got != "content" {
		t.Errorf("renamed file = (%q, %v)", got, err)
	}
	if _, err := fs.ReadToString("/vault/a.md"); err == nil {
		t.Error("old path should be gone after rename")
	}

	if err := fs.Remove("/vault/sub/b.md"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, err := fs.ReadToString("/vault/sub/b.md"); err == nil {
		t.Error("removed file should not read")
	}
}
