package note

import "sort"

// LineMap converts between byte offsets and protocol points for one
// document. Columns are UTF-16 code units.
type LineMap struct {
	text       string
	lineStarts []int
}

// NewLineMap indexes the line starts of text.
func NewLineMap(text string) *LineMap {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineMap{text: text, lineStarts: starts}
}

// OffsetToPoint converts a byte offset into a Point. Offsets beyond the
// text clamp to the end.
func (m *LineMap) OffsetToPoint(offset int) Point {
	if offset > len(m.text) {
		offset = len(m.text)
	}
	// First line start greater than offset; the line is the one before it.
	line := sort.SearchInts(m.lineStarts, offset+1) - 1
	start := m.lineStarts[line]
	col := 0
	for _, r := range m.text[start:offset] {
		col += utf16Len(r)
	}
	return Point{Line: line, Col: col}
}

// PointToOffset converts a Point back into a byte offset. The position one
// past the last character of a line (the newline itself, or end of text)
// is valid; anything further is not.
func (m *LineMap) PointToOffset(p Point) (int, bool) {
	if p.Line < 0 || p.Line >= len(m.lineStarts) || p.Col < 0 {
		return 0, false
	}
	start := m.lineStarts[p.Line]
	col := 0
	for i, r := range m.text[start:] {
		if col == p.Col {
			return start + i, true
		}
		if r == '\n' {
			return 0, false
		}
		col += utf16Len(r)
	}
	if col == p.Col {
		return len(m.text), true
	}
	return 0, false
}

// Slice returns the text between two points, when both resolve.
func (m *LineMap) Slice(r Range) (string, bool) {
	start, ok := m.PointToOffset(r.Start)
	if !ok {
		return "", false
	}
	end, ok := m.PointToOffset(r.End)
	if !ok || end < start {
		return "", false
	}
	return m.text[start:end], true
}

func utf16Len(r rune) int {
	if r > 0xFFFF {
		return 2
	}
	return 1
}
