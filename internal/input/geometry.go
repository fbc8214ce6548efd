package input

import "github.com/jask/gridsheet/internal/grid"

// Geometry holds the surface constants every behavior shares. It is built
// once from configuration and handed to the dispatcher.
type Geometry struct {
	// ColumnHeaderHeight is the height of the band of column labels.
	ColumnHeaderHeight int
	// RowHeaderWidth is the narrowest the row label band may be. Hosts that
	// widen it for large row numbers report the live width through Host.
	RowHeaderWidth int
	// ResizeGutter is the depth of the hot band at a header's trailing edge.
	ResizeGutter int
	// DragThreshold is the pointer travel that turns a press into a drag.
	DragThreshold int
}

func DefaultGeometry() Geometry {
	return Geometry{
		ColumnHeaderHeight: 1,
		RowHeaderWidth:     6,
		ResizeGutter:       1,
		DragThreshold:      1,
	}
}

// Host is what input handling may touch. *grid.Grid provides the editing
// half; the surface that embeds it provides scroll offsets and size.
type Host interface {
	Selection() *grid.Selection
	Track(axis grid.Axis) *grid.SizeTrack
	BeginResize(axis grid.Axis, index int) *grid.ResizeSession
	ApplyResize(sess *grid.ResizeSession, size int)
	CommitResize(sess *grid.ResizeSession) grid.Command
	ScheduleRender()

	Scroll() (x, y int)
	ViewSize() (width, height int)
	RowHeaderWidth() int
}

// PointerEvent is a pointer position in surface coordinates.
type PointerEvent struct {
	X     int
	Y     int
	Shift bool
}

// Region classifies a surface coordinate.
type Region int

const (
	RegionNone Region = iota
	RegionCorner
	RegionColumnHeader
	RegionRowHeader
	RegionData
)

func (r Region) String() string {
	switch r {
	case RegionCorner:
		return "corner"
	case RegionColumnHeader:
		return "column header"
	case RegionRowHeader:
		return "row header"
	case RegionData:
		return "data"
	default:
		return "none"
	}
}

// RegionAt reports which part of the surface (x, y) falls in.
func RegionAt(h Host, g Geometry, x, y int) Region {
	w, ht := h.ViewSize()
	if x < 0 || y < 0 || x >= w || y >= ht {
		return RegionNone
	}
	left := x < h.RowHeaderWidth()
	top := y < g.ColumnHeaderHeight
	switch {
	case left && top:
		return RegionCorner
	case top:
		return RegionColumnHeader
	case left:
		return RegionRowHeader
	}
	return RegionData
}

// contentX and contentY convert surface coordinates into track positions.
// Positions before the first track clamp to zero.
func contentX(h Host, x int) int {
	sx, _ := h.Scroll()
	return max(x-h.RowHeaderWidth()+sx, 0)
}

func contentY(h Host, g Geometry, y int) int {
	_, sy := h.Scroll()
	return max(y-g.ColumnHeaderHeight+sy, 0)
}

// ColumnAt and RowAt map a surface coordinate to a track index. Lookups past
// the end resolve to the last track.
func ColumnAt(h Host, x int) int {
	return h.Track(grid.AxisColumn).IndexAt(contentX(h, x))
}

func RowAt(h Host, g Geometry, y int) int {
	return h.Track(grid.AxisRow).IndexAt(contentY(h, g, y))
}

// CellAt maps a surface coordinate to a cell.
func CellAt(h Host, g Geometry, x, y int) grid.Point {
	return grid.Point{Row: RowAt(h, g, y), Col: ColumnAt(h, x)}
}

// gutterAt returns the track whose trailing edge band contains pos. Tracks no
// larger than the gutter have no band, so every part of them stays clickable.
func gutterAt(t *grid.SizeTrack, pos, gutter int) (int, bool) {
	if gutter <= 0 || t.Len() == 0 || pos >= t.Total() {
		return 0, false
	}
	i := t.IndexAt(pos)
	size := t.Size(i)
	if size <= gutter {
		return 0, false
	}
	if pos >= t.Position(i)+size-gutter {
		return i, true
	}
	return 0, false
}
