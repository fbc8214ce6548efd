package input

import "github.com/jask/gridsheet/internal/grid"

// Behavior claims pointer presses in one part of the surface. HitTest is
// asked in chain order; the first behavior to return a session owns every
// event until pointer-up.
type Behavior interface {
	Name() string
	HitTest(h Host, g Geometry, ev PointerEvent) (Session, bool)
}

// Session is the per-press state of the behavior that claimed it.
type Session interface {
	Move(ev PointerEvent)
	Up(ev PointerEvent)
	// Cancel ends the session without a release, keeping what was applied.
	Cancel()
}

// DefaultChain is the fixed priority order: select-all corner, resize
// gutters, header bodies, then the data area.
func DefaultChain() []Behavior {
	return []Behavior{
		cornerBehavior{},
		resizeBehavior{},
		headerBehavior{},
		cellBehavior{},
	}
}

// armed tracks the press point and whether travel has crossed the drag
// threshold.
type armed struct {
	start     PointerEvent
	threshold int
	dragging  bool
}

func (a *armed) travel(ev PointerEvent) bool {
	if a.dragging {
		return true
	}
	dx, dy := abs(ev.X-a.start.X), abs(ev.Y-a.start.Y)
	if max(dx, dy) >= max(a.threshold, 1) {
		a.dragging = true
	}
	return a.dragging
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

type cornerBehavior struct{}

func (cornerBehavior) Name() string { return "select-all" }

func (cornerBehavior) HitTest(h Host, g Geometry, ev PointerEvent) (Session, bool) {
	if RegionAt(h, g, ev.X, ev.Y) != RegionCorner {
		return nil, false
	}
	h.Selection().SelectAll(h.Track(grid.AxisRow).Len(), h.Track(grid.AxisColumn).Len())
	h.ScheduleRender()
	return idleSession{}, true
}

type idleSession struct{}

func (idleSession) Move(PointerEvent) {}
func (idleSession) Up(PointerEvent)   {}
func (idleSession) Cancel()           {}

// resizeBehavior claims presses on the trailing gutter of a header. A track
// only has a gutter when its size exceeds Geometry.ResizeGutter, so rows as
// tall as the gutter (one terminal line by default) cannot be resized with
// the pointer; hosts offer keyboard resizing for them instead.
type resizeBehavior struct{}

func (resizeBehavior) Name() string { return "resize" }

func (resizeBehavior) HitTest(h Host, g Geometry, ev PointerEvent) (Session, bool) {
	switch RegionAt(h, g, ev.X, ev.Y) {
	case RegionColumnHeader:
		t := h.Track(grid.AxisColumn)
		i, ok := gutterAt(t, contentX(h, ev.X), g.ResizeGutter)
		if !ok {
			return nil, false
		}
		return newResizeSession(h, grid.AxisColumn, i, ev.X), true
	case RegionRowHeader:
		t := h.Track(grid.AxisRow)
		i, ok := gutterAt(t, contentY(h, g, ev.Y), g.ResizeGutter)
		if !ok {
			return nil, false
		}
		return newResizeSession(h, grid.AxisRow, i, ev.Y), true
	}
	return nil, false
}

// resizeSession sizes the track live on every move and commits one command
// on release or cancel.
type resizeSession struct {
	host      Host
	axis      grid.Axis
	sess      *grid.ResizeSession
	start     int
	startSize int
	done      bool
}

func newResizeSession(h Host, axis grid.Axis, index, start int) *resizeSession {
	sess := h.BeginResize(axis, index)
	return &resizeSession{
		host:      h,
		axis:      axis,
		sess:      sess,
		start:     start,
		startSize: sess.Primary().OldSize(),
	}
}

func (s *resizeSession) coord(ev PointerEvent) int {
	if s.axis == grid.AxisColumn {
		return ev.X
	}
	return ev.Y
}

func (s *resizeSession) Move(ev PointerEvent) {
	if s.done {
		return
	}
	s.host.ApplyResize(s.sess, s.startSize+s.coord(ev)-s.start)
}

func (s *resizeSession) Up(ev PointerEvent) {
	s.Move(ev)
	s.Cancel()
}

func (s *resizeSession) Cancel() {
	if s.done {
		return
	}
	s.done = true
	s.host.CommitResize(s.sess)
}

type headerBehavior struct{}

func (headerBehavior) Name() string { return "header" }

func (headerBehavior) HitTest(h Host, g Geometry, ev PointerEvent) (Session, bool) {
	s := &headerSession{host: h, geom: g, armed: armed{start: ev, threshold: g.DragThreshold}}
	switch RegionAt(h, g, ev.X, ev.Y) {
	case RegionColumnHeader:
		s.axis = grid.AxisColumn
	case RegionRowHeader:
		s.axis = grid.AxisRow
	default:
		return nil, false
	}
	s.anchor = s.index(ev)
	return s, true
}

// headerSession selects one whole track on a click and a contiguous run of
// tracks while dragging.
type headerSession struct {
	armed
	host   Host
	geom   Geometry
	axis   grid.Axis
	anchor int
}

func (s *headerSession) index(ev PointerEvent) int {
	if s.axis == grid.AxisColumn {
		return ColumnAt(s.host, ev.X)
	}
	return RowAt(s.host, s.geom, ev.Y)
}

func (s *headerSession) Move(ev PointerEvent) {
	if !s.travel(ev) {
		return
	}
	sel := s.host.Selection()
	focus := s.index(ev)
	if s.axis == grid.AxisColumn {
		sel.SelectColumnRange(s.anchor, focus)
	} else {
		sel.SelectRowRange(s.anchor, focus)
	}
	s.host.ScheduleRender()
}

func (s *headerSession) Up(ev PointerEvent) {
	if s.travel(ev) {
		s.Move(ev)
		return
	}
	sel := s.host.Selection()
	switch {
	case s.axis == grid.AxisColumn && s.start.Shift:
		sel.ExtendColumns(s.anchor)
	case s.axis == grid.AxisColumn:
		sel.SelectColumns(s.anchor)
	case s.start.Shift:
		sel.ExtendRows(s.anchor)
	default:
		sel.SelectRows(s.anchor)
	}
	s.host.ScheduleRender()
}

func (s *headerSession) Cancel() {}

type cellBehavior struct{}

func (cellBehavior) Name() string { return "cell" }

func (cellBehavior) HitTest(h Host, g Geometry, ev PointerEvent) (Session, bool) {
	if RegionAt(h, g, ev.X, ev.Y) != RegionData {
		return nil, false
	}
	return &cellSession{
		host:   h,
		geom:   g,
		armed:  armed{start: ev, threshold: g.DragThreshold},
		anchor: CellAt(h, g, ev.X, ev.Y),
	}, true
}

// cellSession selects a single cell on a click and drags a rectangle once
// travel crosses the threshold.
type cellSession struct {
	armed
	host   Host
	geom   Geometry
	anchor grid.Point
}

func (s *cellSession) Move(ev PointerEvent) {
	if !s.travel(ev) {
		return
	}
	sel := s.host.Selection()
	if !sel.IsDragging() {
		sel.StartDrag(s.anchor.Row, s.anchor.Col)
	}
	p := CellAt(s.host, s.geom, ev.X, ev.Y)
	sel.UpdateDrag(p.Row, p.Col)
	s.host.ScheduleRender()
}

func (s *cellSession) Up(ev PointerEvent) {
	sel := s.host.Selection()
	if s.travel(ev) {
		s.Move(ev)
		sel.EndDrag()
		s.host.ScheduleRender()
		return
	}
	if s.start.Shift {
		sel.ExtendTo(s.anchor.Row, s.anchor.Col)
	} else {
		sel.SelectCell(s.anchor.Row, s.anchor.Col)
	}
	s.host.ScheduleRender()
}

func (s *cellSession) Cancel() {
	sel := s.host.Selection()
	if sel.IsDragging() {
		sel.EndDrag()
		s.host.ScheduleRender()
	}
}
