package parse

import (
	"regexp"
	"sort"
	"strings"

	"github.com/arbornotes/arbor/internal/note"
)

var (
	// [[inner]] and ![[inner]]
	wikiLinkRe = regexp.MustCompile(`(!?)\[\[([^\[\]\n]+)\]\]`)

	// [text](target), or ![alt](target) which is skipped as an image
	markdownLinkRe = regexp.MustCompile(`(!?)\[([^\[\]\n]*)\]\(([^()\n]+)\)`)

	// ^token at end of a line
	blockAnchorRe = regexp.MustCompile(`(?m)\^([A-Za-z0-9_-]+)[ \t]*$`)

	fencedCodeRe = regexp.MustCompile("(?s)```.*?```")
	inlineCodeRe = regexp.MustCompile("`[^`\n]*`")
)

type span struct{ start, end int }

// codeSpans returns the byte spans of fenced blocks and inline code in
// body; links and anchors inside them are not real.
func codeSpans(body string) []span {
	var spans []span
	for _, m := range fencedCodeRe.FindAllStringIndex(body, -1) {
		spans = append(spans, span{m[0], m[1]})
	}
	for _, m := range inlineCodeRe.FindAllStringIndex(body, -1) {
		if !inSpans(spans, m[0]) {
			spans = append(spans, span{m[0], m[1]})
		}
	}
	return spans
}

func inSpans(spans []span, offset int) bool {
	for _, s := range spans {
		if offset >= s.start && offset < s.end {
			return true
		}
	}
	return false
}

// scanLinks extracts wiki and markdown links from body in document order.
// Offsets are body-relative and shifted by offset into whole-file points.
func scanLinks(body string, offset int, lm *note.LineMap, format note.WikiLinkFormat, code []span) []RawLink {
	var links []RawLink
	var wikiRanges []span

	for _, m := range wikiLinkRe.FindAllStringSubmatchIndex(body, -1) {
		if inSpans(code, m[0]) {
			continue
		}
		wikiRanges = append(wikiRanges, span{m[0], m[1]})

		embed := m[3] > m[2] // '!' group non-empty
		inner := body[m[4]:m[5]]
		target, alias, anchor := splitWikiTarget(inner, format)
		if target == "" {
			if anchor == "" {
				continue
			}
			// Bare-anchor form [[#heading]]: kept with the anchor folded
			// into the raw target so the audit can see it.
			target = "#" + anchor
		}

		kind := note.WikiLink
		if embed {
			kind = note.EmbeddedWikiLink
		}
		links = append(links, RawLink{
			Target: target,
			Alias:  alias,
			Anchor: anchor,
			Kind:   kind,
			Format: format,
			Range: note.Range{
				Start: lm.OffsetToPoint(offset + m[0]),
				End:   lm.OffsetToPoint(offset + m[1]),
			},
		})
	}

	for _, m := range markdownLinkRe.FindAllStringSubmatchIndex(body, -1) {
		if inSpans(code, m[0]) || inSpans(wikiRanges, m[0]) {
			continue
		}
		if m[3] > m[2] {
			// image embed, not a note link
			continue
		}
		alias := body[m[4]:m[5]]
		rawTarget := strings.TrimSpace(body[m[6]:m[7]])
		target, anchor := rawTarget, ""
		if i := strings.IndexByte(rawTarget, '#'); i >= 0 {
			target, anchor = rawTarget[:i], rawTarget[i+1:]
		}
		if target == "" {
			continue
		}
		links = append(links, RawLink{
			Target: target,
			Alias:  alias,
			Anchor: anchor,
			Kind:   note.MarkdownLink,
			Format: format,
			Range: note.Range{
				Start: lm.OffsetToPoint(offset + m[0]),
				End:   lm.OffsetToPoint(offset + m[1]),
			},
		})
	}

	sort.SliceStable(links, func(i, j int) bool {
		a, b := links[i].Range.Start, links[j].Range.Start
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Col < b.Col
	})
	return links
}

// splitWikiTarget decomposes the inner text of a [[...]] link according to
// the format in effect.
func splitWikiTarget(inner string, format note.WikiLinkFormat) (target, alias, anchor string) {
	rest := inner
	switch format {
	case note.TargetFirst:
		if i := strings.IndexByte(inner, '|'); i >= 0 {
			rest, alias = inner[:i], inner[i+1:]
		}
	default: // AliasFirst
		if i := strings.IndexByte(inner, '|'); i >= 0 {
			alias, rest = inner[:i], inner[i+1:]
		}
	}
	if i := strings.IndexByte(rest, '#'); i >= 0 {
		rest, anchor = rest[:i], rest[i+1:]
	}
	return strings.TrimSpace(rest), strings.TrimSpace(alias), strings.TrimSpace(anchor)
}

// scanBlocks extracts ^token anchors at line ends. The stored id keeps the
// caret so it compares directly against link anchors.
func scanBlocks(body string, offset int, lm *note.LineMap, code []span) []note.BlockAnchor {
	var blocks []note.BlockAnchor
	for _, m := range blockAnchorRe.FindAllStringSubmatchIndex(body, -1) {
		if inSpans(code, m[0]) {
			continue
		}
		blocks = append(blocks, note.BlockAnchor{
			ID: "^" + body[m[2]:m[3]],
			Range: note.Range{
				Start: lm.OffsetToPoint(offset + m[0]),
				End:   lm.OffsetToPoint(offset + m[3]),
			},
		})
	}
	return blocks
}
