package input

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/gridsheet/internal/grid"
)

// testHost lays a pixel-style surface over a real grid: 40 wide row labels,
// 24 high column labels, 100 wide columns and 20 high rows.
type testHost struct {
	*grid.Grid
	scrollX, scrollY int
	width, height    int
	renders          int
}

func (h *testHost) Scroll() (int, int)   { return h.scrollX, h.scrollY }
func (h *testHost) ViewSize() (int, int) { return h.width, h.height }
func (h *testHost) RowHeaderWidth() int  { return 40 }
func (h *testHost) ScheduleRender()      { h.renders++ }

func newTestDispatcher(t *testing.T) (*Dispatcher, *testHost) {
	t.Helper()
	cfg := grid.DefaultConfig()
	cfg.Rows = 100
	cfg.Columns = 20
	cfg.DefaultRowHeight = 20
	cfg.MinRowHeight = 8
	cfg.DefaultColumnWidth = 100
	cfg.MinColumnWidth = 20
	h := &testHost{Grid: grid.New(cfg), width: 800, height: 600}
	g := Geometry{ColumnHeaderHeight: 24, RowHeaderWidth: 40, ResizeGutter: 4, DragThreshold: 4}
	return NewDispatcher(h, g), h
}

// cellXY returns the surface point in the middle of (row, col).
func cellXY(row, col int) (int, int) { return 40 + col*100 + 50, 24 + row*20 + 10 }

func TestRegionAt(t *testing.T) {
	d, h := newTestDispatcher(t)
	g := d.Geometry()
	require.Equal(t, RegionCorner, RegionAt(h, g, 5, 5))
	require.Equal(t, RegionColumnHeader, RegionAt(h, g, 200, 5))
	require.Equal(t, RegionRowHeader, RegionAt(h, g, 5, 200))
	require.Equal(t, RegionData, RegionAt(h, g, 200, 200))
	require.Equal(t, RegionNone, RegionAt(h, g, 800, 200))
	require.Equal(t, RegionNone, RegionAt(h, g, -1, 200))
}

func TestChainPriority(t *testing.T) {
	tests := []struct {
		name string
		x, y int
		want string
	}{
		{name: "corner", x: 10, y: 10, want: "select-all"},
		{name: "column gutter", x: 438, y: 10, want: "resize"},
		{name: "row gutter", x: 10, y: 24 + 2*20 + 18, want: "resize"},
		{name: "column header body", x: 400, y: 10, want: "header"},
		{name: "row header body", x: 10, y: 24 + 2*20 + 5, want: "header"},
		{name: "data", x: 200, y: 200, want: "cell"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _ := newTestDispatcher(t)
			require.True(t, d.PointerDown(PointerEvent{X: tt.x, Y: tt.y}))
			require.Equal(t, tt.want, d.Active())
		})
	}
}

func TestTrackNoDeeperThanGutterHasNoResizeBand(t *testing.T) {
	_, h := newTestDispatcher(t)
	g := Geometry{ColumnHeaderHeight: 24, RowHeaderWidth: 40, ResizeGutter: 20, DragThreshold: 4}
	d := NewDispatcher(h, g)

	// rows are exactly as tall as the gutter
	require.True(t, d.PointerDown(PointerEvent{X: 10, Y: 24 + 2*20 + 18}))
	require.Equal(t, "header", d.Active())
	d.PointerUp(PointerEvent{X: 10, Y: 24 + 2*20 + 18})

	require.True(t, d.PointerDown(PointerEvent{X: 438, Y: 10}))
	require.Equal(t, "resize", d.Active())
}

func TestPressOutsideRegionsChangesNothing(t *testing.T) {
	d, h := newTestDispatcher(t)
	h.Selection().SelectCell(4, 4)

	require.False(t, d.PointerDown(PointerEvent{X: 900, Y: 10}))
	require.Equal(t, "", d.Active())
	p, ok := h.Selection().ActiveCell()
	require.True(t, ok)
	require.Equal(t, grid.Point{Row: 4, Col: 4}, p)
}

func TestCornerSelectsAll(t *testing.T) {
	d, h := newTestDispatcher(t)
	d.PointerDown(PointerEvent{X: 3, Y: 3})
	d.PointerUp(PointerEvent{X: 3, Y: 3})

	r, ok := h.Selection().DragRect()
	require.True(t, ok)
	require.Equal(t, grid.Rect{Top: 0, Left: 0, Bottom: 99, Right: 19}, r)
	_, ok = h.Selection().LastRect()
	require.True(t, ok)
}

func TestColumnResizeDragRecordsOneCommand(t *testing.T) {
	d, h := newTestDispatcher(t)
	require.Equal(t, 100, h.Columns().Size(3))

	// column 3 ends at surface x 440; the gutter is [436, 440)
	require.True(t, d.PointerDown(PointerEvent{X: 438, Y: 10}))
	require.Equal(t, "resize", d.Active())
	for _, x := range []int{450, 470, 490, 498} {
		d.PointerMove(PointerEvent{X: x, Y: 10})
	}
	require.Equal(t, 160, h.Columns().Size(3))
	require.Equal(t, 0, h.History().UndoLen())

	d.PointerUp(PointerEvent{X: 498, Y: 10})
	require.Equal(t, 1, h.History().UndoLen())
	require.Equal(t, 160, h.Columns().Size(3))

	_, ok := h.Undo()
	require.True(t, ok)
	require.Equal(t, 100, h.Columns().Size(3))
}

func TestResizeClampsToMinimum(t *testing.T) {
	d, h := newTestDispatcher(t)
	d.PointerDown(PointerEvent{X: 438, Y: 10})
	d.PointerMove(PointerEvent{X: 100, Y: 10})
	d.PointerUp(PointerEvent{X: 100, Y: 10})
	require.Equal(t, 20, h.Columns().Size(3))
}

func TestResizeWithoutTravelRecordsNothing(t *testing.T) {
	d, h := newTestDispatcher(t)
	d.PointerDown(PointerEvent{X: 438, Y: 10})
	d.PointerUp(PointerEvent{X: 438, Y: 10})
	require.Equal(t, 0, h.History().UndoLen())
}

func TestBlurCommitsLiveResize(t *testing.T) {
	d, h := newTestDispatcher(t)
	d.PointerDown(PointerEvent{X: 438, Y: 10})
	d.PointerMove(PointerEvent{X: 468, Y: 10})
	d.Blur()

	require.Equal(t, "", d.Active())
	require.Equal(t, 130, h.Columns().Size(3))
	require.Equal(t, 1, h.History().UndoLen())

	// a release after blur is ignored
	d.PointerUp(PointerEvent{X: 600, Y: 10})
	require.Equal(t, 130, h.Columns().Size(3))
}

func TestResizeFollowsSelectedColumns(t *testing.T) {
	d, h := newTestDispatcher(t)
	h.Selection().SelectColumnRange(2, 4)

	d.PointerDown(PointerEvent{X: 438, Y: 10})
	d.PointerMove(PointerEvent{X: 458, Y: 10})
	d.PointerUp(PointerEvent{X: 458, Y: 10})

	for _, c := range []int{2, 3, 4} {
		require.Equal(t, 120, h.Columns().Size(c))
	}
	require.Equal(t, 100, h.Columns().Size(5))
	require.Equal(t, 1, h.History().UndoLen())

	h.Undo()
	for _, c := range []int{2, 3, 4} {
		require.Equal(t, 100, h.Columns().Size(c))
	}
}

func TestRowHeaderDragSelectsRange(t *testing.T) {
	rowY := func(r int) int { return 24 + r*20 + 5 }
	tests := []struct {
		name     string
		from, to int
	}{
		{name: "downward", from: 2, to: 5},
		{name: "upward", from: 5, to: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, h := newTestDispatcher(t)
			d.PointerDown(PointerEvent{X: 10, Y: rowY(tt.from)})
			d.PointerMove(PointerEvent{X: 10, Y: rowY(tt.from + (tt.to-tt.from)/2)})
			d.PointerMove(PointerEvent{X: 10, Y: rowY(tt.to)})
			d.PointerUp(PointerEvent{X: 10, Y: rowY(tt.to)})

			require.Equal(t, grid.SelectRows, h.Selection().Kind())
			require.Equal(t, []int{2, 3, 4, 5}, h.Selection().SelectedRows())
		})
	}
}

func TestHeaderClickBelowThresholdSelectsOne(t *testing.T) {
	d, h := newTestDispatcher(t)
	d.PointerDown(PointerEvent{X: 250, Y: 5})
	require.Equal(t, grid.SelectNone, h.Selection().Kind())
	d.PointerMove(PointerEvent{X: 252, Y: 6})
	d.PointerUp(PointerEvent{X: 252, Y: 6})

	require.Equal(t, grid.SelectColumns, h.Selection().Kind())
	require.Equal(t, []int{2}, h.Selection().SelectedColumns())
}

func TestShiftClickExtendsColumns(t *testing.T) {
	d, h := newTestDispatcher(t)
	d.PointerDown(PointerEvent{X: 150, Y: 5})
	d.PointerUp(PointerEvent{X: 150, Y: 5})
	d.PointerDown(PointerEvent{X: 450, Y: 5, Shift: true})
	d.PointerUp(PointerEvent{X: 450, Y: 5, Shift: true})

	require.Equal(t, []int{1, 2, 3, 4}, h.Selection().SelectedColumns())
}

func TestCellClickAndDrag(t *testing.T) {
	d, h := newTestDispatcher(t)
	x, y := cellXY(1, 1)
	d.PointerDown(PointerEvent{X: x, Y: y})
	d.PointerUp(PointerEvent{X: x + 1, Y: y})

	p, ok := h.Selection().ActiveCell()
	require.True(t, ok)
	require.Equal(t, grid.SelectCell, h.Selection().Kind())
	require.Equal(t, grid.Point{Row: 1, Col: 1}, p)

	ex, ey := cellXY(3, 2)
	d.PointerDown(PointerEvent{X: x, Y: y})
	d.PointerMove(PointerEvent{X: ex, Y: ey})
	require.True(t, h.Selection().IsDragging())
	d.PointerUp(PointerEvent{X: ex, Y: ey})

	require.False(t, h.Selection().IsDragging())
	r, ok := h.Selection().LastRect()
	require.True(t, ok)
	require.Equal(t, grid.Rect{Top: 1, Left: 1, Bottom: 3, Right: 2}, r)
}

func TestDragLeavingDataAreaClamps(t *testing.T) {
	d, h := newTestDispatcher(t)
	x, y := cellXY(2, 2)
	d.PointerDown(PointerEvent{X: x, Y: y})
	d.PointerMove(PointerEvent{X: 0, Y: 0})
	d.PointerUp(PointerEvent{X: 0, Y: 0})

	r, ok := h.Selection().DragRect()
	require.True(t, ok)
	require.Equal(t, grid.Rect{Top: 0, Left: 0, Bottom: 2, Right: 2}, r)
}

func TestLookupPastEndClampsToLastIndex(t *testing.T) {
	d, h := newTestDispatcher(t)
	h.scrollX, h.scrollY = 1<<30, 1<<30
	d.PointerDown(PointerEvent{X: 700, Y: 500})
	d.PointerUp(PointerEvent{X: 700, Y: 500})

	p, ok := h.Selection().ActiveCell()
	require.True(t, ok)
	require.Equal(t, grid.Point{Row: 99, Col: 19}, p)
}

func TestNavigate(t *testing.T) {
	d, h := newTestDispatcher(t)
	sel := h.Selection()

	require.Equal(t, grid.Point{}, d.Navigate(1, 0, false))
	require.Equal(t, grid.SelectCell, sel.Kind())

	require.Equal(t, grid.Point{Row: 1, Col: 0}, d.Navigate(1, 0, false))
	require.Equal(t, grid.Point{Row: 1, Col: 0}, d.Navigate(0, -1, false))

	d.Navigate(0, 2, true)
	d.Navigate(2, 0, true)
	r, ok := sel.DragRect()
	require.True(t, ok)
	require.Equal(t, grid.Rect{Top: 1, Left: 0, Bottom: 3, Right: 2}, r)

	sel.SelectRows(5)
	d.Navigate(1, 0, true)
	d.Navigate(1, 0, true)
	require.Equal(t, []int{5, 6, 7}, sel.SelectedRows())
	d.Navigate(-3, 0, true)
	require.Equal(t, []int{4, 5}, sel.SelectedRows())

	sel.SelectCell(99, 19)
	require.Equal(t, grid.Point{Row: 99, Col: 19}, d.Navigate(1, 1, false))
}

func TestSelectAll(t *testing.T) {
	d, h := newTestDispatcher(t)
	before := h.renders
	d.SelectAll()
	require.Equal(t, grid.SelectRange, h.Selection().Kind())
	require.Greater(t, h.renders, before)
}
