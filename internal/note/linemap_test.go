package note

import "testing"

func TestLineMapOffsetToPoint(t *testing.T) {
	t.Parallel()

	text := "hello\nworld\n"
	m := NewLineMap(text)

	tests := []struct {
		name   string
		offset int
		want   Point
	}{
		{"start", 0, Point{Line: 0, Col: 0}},
		{"mid first line", 3, Point{Line: 0, Col: 3}},
		{"newline position", 5, Point{Line: 0, Col: 5}},
		{"second line start", 6, Point{Line: 1, Col: 0}},
		{"second line mid", 9, Point{Line: 1, Col: 3}},
		{"end of text", 12, Point{Line: 2, Col: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.OffsetToPoint(tt.offset)
			if got != tt.want {
				t.Errorf("OffsetToPoint(%d) = %+v, want %+v", tt.offset, got, tt.want)
			}
		})
	}
}

func TestLineMapUTF16Columns(t *testing.T) {
	t.Parallel()

	// "𝄞" is U+1D11E, outside the BMP: 4 bytes, 2 UTF-16 units.
	text := "a𝄞b\nc"
	m := NewLineMap(text)

	got := m.OffsetToPoint(5) // byte offset of 'b'
	want := Point{Line: 0, Col: 3}
	if got != want {
		t.Errorf("OffsetToPoint(5) = %+v, want %+v", got, want)
	}

	off, ok := m.PointToOffset(Point{Line: 0, Col: 3})
	if !ok || off != 5 {
		t.Errorf("PointToOffset(0,3) = (%d, %v), want (5, true)", off, ok)
	}
}

func TestLineMapPointToOffset(t *testing.T) {
	t.Parallel()

	text := "hello\nworld"
	m := NewLineMap(text)

	tests := []struct {
		name   string
		p      Point
		want   int
		wantOK bool
	}{
		{"origin", Point{0, 0}, 0, true},
		{"end of first line", Point{0, 5}, 5, true},
		{"past end of first line", Point{0, 6}, 0, false},
		{"second line", Point{1, 2}, 8, true},
		{"end of text", Point{1, 5}, 11, true},
		{"line out of range", Point{2, 0}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := m.PointToOffset(tt.p)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("PointToOffset(%+v) = (%d, %v), want (%d, %v)", tt.p, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestLineMapRoundTrip(t *testing.T) {
	t.Parallel()

	text := "one\ntwo three\n\nfour"
	m := NewLineMap(text)
	for off := 0; off <= len(text); off++ {
		p := m.OffsetToPoint(off)
		back, ok := m.PointToOffset(p)
		if !ok || back != off {
			t.Fatalf("round trip at %d: point %+v -> (%d, %v)", off, p, back, ok)
		}
	}
}

func TestRangeContains(t *testing.T) {
	t.Parallel()

	r := Range{Start: Point{1, 4}, End: Point{1, 9}}

	if !r.Contains(Point{1, 4}) {
		t.Error("start position should be inside")
	}
	if !r.Contains(Point{1, 9}) {
		t.Error("end position should count for hit-testing")
	}
	if r.Contains(Point{1, 3}) {
		t.Error("before start should be outside")
	}
	if r.Contains(Point{2, 0}) {
		t.Error("next line should be outside")
	}
}
