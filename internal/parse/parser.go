// Package parse is the parser adapter: it turns raw note text into the
// structural facts the workspace indexes — title, frontmatter, headings,
// block anchors, links with protocol ranges, and a content digest.
//
// Headings come from a goldmark AST walk, which carries reliable line
// segments. Links, block anchors and code spans (fenced and inline) are
// scanned with offset-preserving regexes so edit ranges are exact; link
// and anchor matches inside code are discarded.
package parse

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gtext "github.com/yuin/goldmark/text"

	"github.com/arbornotes/arbor/internal/marshal"
	"github.com/arbornotes/arbor/internal/note"
)

// RawLink is a link as written, before identity resolution.
type RawLink struct {
	Target string
	Alias  string
	Anchor string
	Range  note.Range
	Kind   note.LinkKind
	Format note.WikiLinkFormat
}

// Result is the parser output for one document.
type Result struct {
	Title         string
	Frontmatter   map[string]any
	Headings      []note.Heading
	Blocks        []note.BlockAnchor
	Links         []RawLink
	ContentOffset int
	Digest        string
}

var md = goldmark.New()

// Digest returns the stable content hash of text.
func Digest(text string) string {
	return strconv.FormatUint(xxhash.Sum64String(text), 16)
}

// Parse extracts the structural facts of text. It never fails: malformed
// frontmatter degrades to an absent frontmatter, and nothing else can
// reject input.
func Parse(text string, format note.WikiLinkFormat) Result {
	res := Result{Digest: Digest(text)}

	body := text
	bodyOffset := 0
	if doc, err := marshal.Parse([]byte(text)); err == nil {
		res.Frontmatter = doc.Frontmatter
		res.Title = doc.Title()
		body = doc.Body
		bodyOffset = doc.BodyOffset
	}
	res.ContentOffset = bodyOffset

	lm := note.NewLineMap(text)
	src := []byte(body)
	root := md.Parser().Parse(gtext.NewReader(src))

	headings, firstH1 := collectHeadings(root, src, lm, bodyOffset)
	res.Headings = headings
	if res.Title == "" {
		res.Title = firstH1
	}

	code := codeSpans(body)
	res.Links = scanLinks(body, bodyOffset, lm, format, code)
	res.Blocks = scanBlocks(body, bodyOffset, lm, code)

	return res
}

func collectHeadings(root ast.Node, src []byte, lm *note.LineMap, offset int) ([]note.Heading, string) {
	var headings []note.Heading
	firstH1 := ""

	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		lines := h.Lines()
		if lines.Len() == 0 {
			return ast.WalkContinue, nil
		}

		var textBuf []byte
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			textBuf = append(textBuf, seg.Value(src)...)
		}
		headingText := string(trimSpace(textBuf))
		if headingText == "" {
			return ast.WalkContinue, nil
		}

		first := lines.At(0)
		last := lines.At(lines.Len() - 1)
		start := lm.OffsetToPoint(offset + first.Start)
		// The range covers the whole heading line, marker included.
		start.Col = 0
		end := lm.OffsetToPoint(offset + last.Stop)

		headings = append(headings, note.Heading{
			Level: h.Level,
			Text:  headingText,
			Range: note.Range{Start: start, End: end},
		})
		if h.Level == 1 && firstH1 == "" {
			firstH1 = headingText
		}
		return ast.WalkSkipChildren, nil
	})

	return headings, firstH1
}

func trimSpace(b []byte) []byte {
	start := 0
	for start < len(b) && (b[start] == ' ' || b[start] == '\t' || b[start] == '\n') {
		start++
	}
	end := len(b)
	for end > start && (b[end-1] == ' ' || b[end-1] == '\t' || b[end-1] == '\n') {
		end--
	}
	return b[start:end]
}
