// Package plan computes declarative, reversible edit plans for workspace
// refactorings. Planners never touch the disk: they read the graph and a
// content provider and return a Plan for the caller to execute.
package plan

import (
	"fmt"

	"github.com/arbornotes/arbor/internal/note"
)

// Kind labels what a plan does.
type Kind int

const (
	RenameNote Kind = iota
	MoveNote
	SplitNote
	CreateNote
	DeleteNote
	HierarchyRename
	WorkspaceAudit
)

func (k Kind) String() string {
	switch k {
	case RenameNote:
		return "rename-note"
	case MoveNote:
		return "move-note"
	case SplitNote:
		return "split-note"
	case CreateNote:
		return "create-note"
	case DeleteNote:
		return "delete-note"
	case HierarchyRename:
		return "hierarchy-rename"
	case WorkspaceAudit:
		return "workspace-audit"
	}
	return "unknown"
}

// ContentProvider supplies document content to planners, typically to
// populate undo text. Missing content degrades gracefully.
type ContentProvider interface {
	GetContent(uri string) (string, bool)
}

// Plan is a refactoring described as data. Within one EditGroup, text
// edits precede file renames so ranges stay valid against the old
// content.
type Plan struct {
	Kind          Kind
	Edits         []EditGroup
	Preconditions []Precondition
	Diagnostics   []Diagnostic
	Reversible    bool
}

// EditGroup collects the changes against one uri.
type EditGroup struct {
	URI     string
	Changes []Change
}

// Change is one text edit or resource operation.
type Change interface{ change() }

// TextEdit replaces Range with NewText. UndoText, when known, is the
// text currently occupying the range; inversion requires it.
type TextEdit struct {
	Range    note.Range
	NewText  string
	UndoText *string
}

// CreateFile creates the group's uri. A nil Content means the content
// could not be determined (an inverted delete without a provider).
type CreateFile struct {
	Content *string
}

// DeleteFile removes the group's uri.
type DeleteFile struct {
	IgnoreIfNotExists bool
}

// RenameFile moves the group's uri to NewURI.
type RenameFile struct {
	NewURI    string
	Overwrite bool
}

func (TextEdit) change()   {}
func (CreateFile) change() {}
func (DeleteFile) change() {}
func (RenameFile) change() {}

// Precondition is a fact the caller verifies before applying a plan.
type Precondition interface{ precondition() }

// NoteExists requires the note to still be in the store.
type NoteExists struct{ ID note.ID }

// PathNotExists requires the path to be free.
type PathNotExists struct{ Path string }

// ContentUnchanged requires the file's digest to still match.
type ContentUnchanged struct {
	Path   string
	Digest string
}

func (NoteExists) precondition()       {}
func (PathNotExists) precondition()    {}
func (ContentUnchanged) precondition() {}

// Severity grades a diagnostic.
type Severity int

const (
	Info Severity = iota
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	}
	return "info"
}

// Diagnostic is a finding attached to a plan.
type Diagnostic struct {
	Severity Severity
	Message  string
	URI      string
	Range    *note.Range
}

// Invert produces the plan that undoes this one. Deleted files are
// reconstructed through the content provider, which must have observed
// the pre-apply state. Preconditions relate to the original state and are
// dropped.
func (p *Plan) Invert(cp ContentProvider) (*Plan, error) {
	inv := &Plan{
		Kind:        p.Kind,
		Diagnostics: p.Diagnostics,
		Reversible:  p.Reversible,
	}
	for _, g := range p.Edits {
		ig, err := g.Invert(cp)
		if err != nil {
			return nil, err
		}
		inv.Edits = append(inv.Edits, ig)
	}
	return inv, nil
}

// Invert reverses the group. When the group renames its file, the inverse
// is addressed to the new uri, since that is where the file will live.
func (g EditGroup) Invert(cp ContentProvider) (EditGroup, error) {
	target := g.URI
	for _, c := range g.Changes {
		if r, ok := c.(RenameFile); ok {
			target = r.NewURI
		}
	}
	out := EditGroup{URI: target}
	for _, c := range g.Changes {
		ic, err := invertChange(c, g.URI, cp)
		if err != nil {
			return EditGroup{}, fmt.Errorf("invert %s: %w", g.URI, err)
		}
		out.Changes = append(out.Changes, ic)
	}
	return out, nil
}

func invertChange(c Change, originalURI string, cp ContentProvider) (Change, error) {
	switch c := c.(type) {
	case TextEdit:
		return c.Invert()
	case CreateFile:
		return DeleteFile{IgnoreIfNotExists: true}, nil
	case DeleteFile:
		var content *string
		if cp != nil {
			if s, ok := cp.GetContent(originalURI); ok {
				content = &s
			}
		}
		return CreateFile{Content: content}, nil
	case RenameFile:
		return RenameFile{NewURI: originalURI, Overwrite: false}, nil
	}
	return nil, fmt.Errorf("unknown change %T", c)
}

// Invert swaps new text and undo text. The inverted range starts where
// the edit started and ends where the inserted text ends: columns advance
// per character and reset on newlines.
func (t TextEdit) Invert() (TextEdit, error) {
	if t.UndoText == nil {
		return TextEdit{}, fmt.Errorf("text edit has no undo text")
	}
	end := t.Range.Start
	for _, r := range t.NewText {
		if r == '\n' {
			end.Line++
			end.Col = 0
		} else {
			end.Col++
		}
	}
	newText := t.NewText
	return TextEdit{
		Range:    note.Range{Start: t.Range.Start, End: end},
		NewText:  *t.UndoText,
		UndoText: &newText,
	}, nil
}
