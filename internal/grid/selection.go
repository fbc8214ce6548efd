package grid

import "slices"

// SelectionKind names the single active selection category.
type SelectionKind int

const (
	SelectNone SelectionKind = iota
	SelectCell
	SelectRows
	SelectColumns
	SelectRange
)

func (k SelectionKind) String() string {
	switch k {
	case SelectCell:
		return "cell"
	case SelectRows:
		return "rows"
	case SelectColumns:
		return "columns"
	case SelectRange:
		return "range"
	default:
		return "none"
	}
}

// Point is a (row, col) coordinate.
type Point struct {
	Row int
	Col int
}

// Rect is a normalized rectangle with Top <= Bottom and Left <= Right.
type Rect struct {
	Top    int
	Left   int
	Bottom int
	Right  int
}

func NewRect(a, b Point) Rect {
	return Rect{
		Top:    min(a.Row, b.Row),
		Left:   min(a.Col, b.Col),
		Bottom: max(a.Row, b.Row),
		Right:  max(a.Col, b.Col),
	}
}

func (r Rect) Contains(row, col int) bool {
	return row >= r.Top && row <= r.Bottom && col >= r.Left && col <= r.Right
}

func (r Rect) Rows() int { return r.Bottom - r.Top + 1 }
func (r Rect) Cols() int { return r.Right - r.Left + 1 }

// Selection is the exclusive selection state machine. Every Select* call and
// StartDrag discards whatever was selected before.
type Selection struct {
	kind     SelectionKind
	active   Point
	rows     []int
	cols     []int
	anchor   Point
	focus    Point
	dragging bool
	last     *Rect

	// header-range anchor for keyboard and shift-click extension
	lineAnchor int
}

func NewSelection() *Selection { return &Selection{} }

func (s *Selection) Kind() SelectionKind { return s.kind }

// Clear returns to the empty state, dropping the last completed rectangle.
func (s *Selection) Clear() {
	*s = Selection{}
}

func (s *Selection) SelectCell(row, col int) {
	s.Clear()
	s.kind = SelectCell
	s.active = Point{Row: row, Col: col}
}

// SelectRows selects exactly the given rows. Duplicates are dropped and the
// list is kept sorted.
func (s *Selection) SelectRows(rows ...int) {
	s.Clear()
	if len(rows) == 0 {
		return
	}
	s.kind = SelectRows
	s.rows = normalizeIndices(rows)
	s.lineAnchor = rows[0]
	s.active = Point{Row: s.rows[0]}
}

// SelectRowRange selects every row between anchor and focus inclusive.
func (s *Selection) SelectRowRange(anchor, focus int) {
	s.SelectRows(indexSpan(anchor, focus)...)
	s.lineAnchor = anchor
	s.active = Point{Row: focus}
}

func (s *Selection) SelectColumns(cols ...int) {
	s.Clear()
	if len(cols) == 0 {
		return
	}
	s.kind = SelectColumns
	s.cols = normalizeIndices(cols)
	s.lineAnchor = cols[0]
	s.active = Point{Col: s.cols[0]}
}

func (s *Selection) SelectColumnRange(anchor, focus int) {
	s.SelectColumns(indexSpan(anchor, focus)...)
	s.lineAnchor = anchor
	s.active = Point{Col: focus}
}

// SelectAll selects the whole grid as a completed rectangle.
func (s *Selection) SelectAll(rows, cols int) {
	s.Clear()
	if rows <= 0 || cols <= 0 {
		return
	}
	s.kind = SelectRange
	s.anchor = Point{}
	s.focus = Point{Row: rows - 1, Col: cols - 1}
	s.active = s.anchor
	r := NewRect(s.anchor, s.focus)
	s.last = &r
}

// StartDrag begins a rectangle drag anchored at (row, col).
func (s *Selection) StartDrag(row, col int) {
	s.Clear()
	s.kind = SelectRange
	s.anchor = Point{Row: row, Col: col}
	s.focus = s.anchor
	s.active = s.anchor
	s.dragging = true
}

// UpdateDrag moves the drag focus. It is ignored unless a drag is live.
func (s *Selection) UpdateDrag(row, col int) {
	if !s.dragging {
		return
	}
	s.focus = Point{Row: row, Col: col}
}

// EndDrag finishes a live drag and records its rectangle for header emphasis.
func (s *Selection) EndDrag() {
	if !s.dragging {
		return
	}
	s.dragging = false
	r := NewRect(s.anchor, s.focus)
	s.last = &r
}

func (s *Selection) IsDragging() bool { return s.dragging }

// DragRect returns the normalized rectangle of the current range selection.
func (s *Selection) DragRect() (Rect, bool) {
	if s.kind != SelectRange {
		return Rect{}, false
	}
	return NewRect(s.anchor, s.focus), true
}

// LastRect returns the rectangle of the most recently completed drag, kept
// until the next selection change.
func (s *Selection) LastRect() (Rect, bool) {
	if s.last == nil {
		return Rect{}, false
	}
	return *s.last, true
}

// ActiveCell returns the cell keyboard navigation moves from.
func (s *Selection) ActiveCell() (Point, bool) {
	if s.kind == SelectNone {
		return Point{}, false
	}
	return s.active, true
}

// Anchor returns the fixed corner of a range selection.
func (s *Selection) Anchor() Point { return s.anchor }

// Focus returns the moving corner of a range selection.
func (s *Selection) Focus() Point { return s.focus }

func (s *Selection) SelectedRows() []int {
	return slices.Clone(s.rows)
}

func (s *Selection) SelectedColumns() []int {
	return slices.Clone(s.cols)
}

func (s *Selection) IsRowSelected(row int) bool {
	_, ok := slices.BinarySearch(s.rows, row)
	return ok
}

func (s *Selection) IsColumnSelected(col int) bool {
	_, ok := slices.BinarySearch(s.cols, col)
	return ok
}

// ExtendTo grows a keyboard rectangle from the active cell (or the existing
// range anchor) to (row, col). The result is a completed range.
func (s *Selection) ExtendTo(row, col int) {
	var anchor Point
	switch s.kind {
	case SelectRange:
		anchor = s.anchor
	case SelectCell:
		anchor = s.active
	default:
		s.SelectCell(row, col)
		return
	}
	s.Clear()
	s.kind = SelectRange
	s.anchor = anchor
	s.focus = Point{Row: row, Col: col}
	s.active = anchor
	r := NewRect(s.anchor, s.focus)
	s.last = &r
}

// ExtendRows grows a row selection from its anchor to focus.
func (s *Selection) ExtendRows(focus int) {
	anchor := focus
	if s.kind == SelectRows {
		anchor = s.lineAnchor
	}
	s.SelectRowRange(anchor, focus)
}

// ExtendColumns grows a column selection from its anchor to focus.
func (s *Selection) ExtendColumns(focus int) {
	anchor := focus
	if s.kind == SelectColumns {
		anchor = s.lineAnchor
	}
	s.SelectColumnRange(anchor, focus)
}

// Contains reports whether (row, col) is covered by the selection.
func (s *Selection) Contains(row, col int) bool {
	switch s.kind {
	case SelectCell:
		return s.active.Row == row && s.active.Col == col
	case SelectRows:
		return s.IsRowSelected(row)
	case SelectColumns:
		return s.IsColumnSelected(col)
	case SelectRange:
		return NewRect(s.anchor, s.focus).Contains(row, col)
	}
	return false
}

// ReferencesRow reports whether the selection touches row.
func (s *Selection) ReferencesRow(row int) bool {
	switch s.kind {
	case SelectCell:
		return s.active.Row == row
	case SelectRows:
		return s.IsRowSelected(row)
	case SelectRange:
		r := NewRect(s.anchor, s.focus)
		return row >= r.Top && row <= r.Bottom
	}
	return false
}

// ReferencesColumn reports whether the selection touches col.
func (s *Selection) ReferencesColumn(col int) bool {
	switch s.kind {
	case SelectCell:
		return s.active.Col == col
	case SelectColumns:
		return s.IsColumnSelected(col)
	case SelectRange:
		r := NewRect(s.anchor, s.focus)
		return col >= r.Left && col <= r.Right
	}
	return false
}

func indexSpan(a, b int) []int {
	lo, hi := min(a, b), max(a, b)
	out := make([]int, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		out = append(out, i)
	}
	return out
}

func normalizeIndices(in []int) []int {
	out := slices.Clone(in)
	slices.Sort(out)
	return slices.Compact(out)
}
