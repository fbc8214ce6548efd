package render

import "github.com/jask/gridsheet/internal/grid"

// View describes the drawing surface: its size, the header bands and the
// scroll offsets of the data area.
type View struct {
	Width              int
	Height             int
	RowHeaderWidth     int
	ColumnHeaderHeight int
	ScrollX            int
	ScrollY            int
	Overscan           int
}

// DataWidth and DataHeight are the extent of the scrolling data area.
func (v View) DataWidth() int  { return v.Width - v.RowHeaderWidth }
func (v View) DataHeight() int { return v.Height - v.ColumnHeaderHeight }

// Span places one track on the surface. Start is in surface coordinates and
// may begin under the header band when the track is partly scrolled off.
type Span struct {
	Index int
	Start int
	Size  int
}

func (s Span) End() int { return s.Start + s.Size }

// Layout is what a paint pass draws: the visible range and the surface
// position of every visible row and column.
type Layout struct {
	View  View
	Range grid.Range
	Rows  []Span
	Cols  []Span
}

func (l Layout) Empty() bool { return l.Range.Empty() || len(l.Rows) == 0 || len(l.Cols) == 0 }

// BuildLayout asks the viewport calculator for the visible range and places
// each track in it. Tracks kept only by overscan are dropped.
func BuildLayout(rows, cols *grid.SizeTrack, v View) Layout {
	l := Layout{View: v}
	l.Range = grid.ComputeVisibleRange(rows, cols, v.ScrollX, v.ScrollY, v.DataWidth(), v.DataHeight(), v.Overscan)
	if l.Range.Empty() {
		return l
	}
	l.Rows = place(rows, l.Range.FirstRow, l.Range.LastRow, v.ScrollY, v.ColumnHeaderHeight, v.Height)
	l.Cols = place(cols, l.Range.FirstCol, l.Range.LastCol, v.ScrollX, v.RowHeaderWidth, v.Width)
	return l
}

func place(t *grid.SizeTrack, first, last, scroll, origin, limit int) []Span {
	out := make([]Span, 0, last-first+1)
	for i := first; i <= last; i++ {
		s := Span{Index: i, Start: origin + t.Position(i) - scroll, Size: t.Size(i)}
		if s.End() <= origin || s.Start >= limit {
			continue
		}
		out = append(out, s)
	}
	return out
}

// RowAt and ColAt return the span covering a surface coordinate.
func (l Layout) RowAt(y int) (Span, bool) { return spanAt(l.Rows, y) }
func (l Layout) ColAt(x int) (Span, bool) { return spanAt(l.Cols, x) }

func spanAt(spans []Span, p int) (Span, bool) {
	for _, s := range spans {
		if p >= s.Start && p < s.End() {
			return s, true
		}
	}
	return Span{}, false
}
