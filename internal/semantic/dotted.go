package semantic

import (
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/arbornotes/arbor/internal/marshal"
	"github.com/arbornotes/arbor/internal/note"
)

// DottedModel is the reference policy: keys are file stems, hierarchy is
// encoded in dot-separated segments ("foo.bar.baz" sits under "foo.bar"),
// all notes live flat under the root.
type DottedModel struct {
	root   string
	format note.WikiLinkFormat
}

// NewDottedModel builds the dotted policy over root.
func NewDottedModel(root string, format note.WikiLinkFormat) *DottedModel {
	return &DottedModel{root: root, format: format}
}

func (m *DottedModel) ID() string   { return "dotted" }
func (m *DottedModel) Root() string { return m.root }

func (m *DottedModel) NoteKeyFromPath(p string) note.Key {
	base := filepath.Base(filepath.ToSlash(p))
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		return NormalizeToKey(p)
	}
	return note.Key(stem)
}

func (m *DottedModel) NoteKeyFromLink(source note.Key, raw string) note.Key {
	if filepath.IsAbs(raw) || strings.ContainsAny(raw, `/\`) {
		return NormalizeToKey(raw)
	}
	if dir := path.Dir(string(source)); dir != "." && dir != "/" {
		return NormalizeToKey(path.Join(dir, raw))
	}
	return NormalizeToKey(raw)
}

func (m *DottedModel) PathFromNoteKey(key note.Key) string {
	return filepath.Join(m.root, string(key)+".md")
}

func (m *DottedModel) ResolveParent(key note.Key) (note.Key, bool) {
	idx := strings.LastIndexByte(string(key), '.')
	if idx <= 0 {
		return "", false
	}
	return key[:idx], true
}

func (m *DottedModel) IsDescendant(candidate, parent note.Key) bool {
	if len(candidate) <= len(parent) {
		return false
	}
	return strings.HasPrefix(string(candidate), string(parent)) && candidate[len(parent)] == '.'
}

func (m *DottedModel) ReparentKey(key, oldParent, newParent note.Key) note.Key {
	if !m.IsDescendant(key, oldParent) {
		return key
	}
	return newParent + key[len(oldParent):]
}

func (m *DottedModel) DisplayName(n *note.Note, key note.Key) string {
	if n != nil && n.Title != "" {
		return n.Title
	}
	segs := strings.Split(string(key), ".")
	return segs[len(segs)-1]
}

func (m *DottedModel) WikiLinkFormat() note.WikiLinkFormat { return m.format }

func (m *DottedModel) FormatWikiLink(target, alias, anchor string, embed bool) string {
	var b strings.Builder
	if embed {
		b.WriteString("![[")
	} else {
		b.WriteString("[[")
	}
	switch m.format {
	case note.TargetFirst:
		b.WriteString(target)
		if anchor != "" {
			b.WriteByte('#')
			b.WriteString(anchor)
		}
		if alias != "" {
			b.WriteByte('|')
			b.WriteString(alias)
		}
	default: // AliasFirst
		if alias != "" {
			b.WriteString(alias)
			b.WriteByte('|')
		}
		b.WriteString(target)
		if anchor != "" {
			b.WriteByte('#')
			b.WriteString(anchor)
		}
	}
	b.WriteString("]]")
	return b.String()
}

func (m *DottedModel) SupportedExtensions() []string { return []string{"md"} }

type newNoteFrontmatter struct {
	ID      string `yaml:"id"`
	Title   string `yaml:"title"`
	Desc    string `yaml:"desc"`
	Updated int64  `yaml:"updated"`
	Created int64  `yaml:"created"`
}

func (m *DottedModel) NewNoteContent(key note.Key) string {
	segs := strings.Split(string(key), ".")
	title := segs[len(segs)-1]
	if title != "" {
		title = strings.ToUpper(title[:1]) + title[1:]
	}
	now := time.Now().UnixMilli()
	out, err := marshal.RenderFrontmatter(newNoteFrontmatter{
		ID:      uuid.NewString(),
		Title:   title,
		Desc:    "",
		Updated: now,
		Created: now,
	}, "\n")
	if err != nil {
		// yaml.Marshal of a flat struct cannot fail
		panic(err)
	}
	return string(out)
}

func (m *DottedModel) AuditedLinkKinds() []note.LinkKind {
	return []note.LinkKind{note.WikiLink, note.EmbeddedWikiLink, note.MarkdownLink}
}

func (m *DottedModel) Strict() bool { return true }
