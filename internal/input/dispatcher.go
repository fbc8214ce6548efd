package input

import "github.com/jask/gridsheet/internal/grid"

// Dispatcher routes pointer and navigation input to the grid through Host.
// A press is offered to each behavior in chain order and the winner keeps
// the session until release, blur or the next press.
type Dispatcher struct {
	host   Host
	geom   Geometry
	chain  []Behavior
	active Session
	owner  string
}

func NewDispatcher(h Host, g Geometry, chain ...Behavior) *Dispatcher {
	if len(chain) == 0 {
		chain = DefaultChain()
	}
	return &Dispatcher{host: h, geom: g, chain: chain}
}

func (d *Dispatcher) Geometry() Geometry { return d.geom }

// Active names the behavior owning the current session, or "" when idle.
func (d *Dispatcher) Active() string { return d.owner }

// PointerDown starts a session. It reports false when no behavior claimed
// the press, in which case nothing changed.
func (d *Dispatcher) PointerDown(ev PointerEvent) bool {
	d.Blur()
	for _, b := range d.chain {
		if s, ok := b.HitTest(d.host, d.geom, ev); ok {
			d.active, d.owner = s, b.Name()
			return true
		}
	}
	return false
}

func (d *Dispatcher) PointerMove(ev PointerEvent) {
	if d.active != nil {
		d.active.Move(ev)
	}
}

func (d *Dispatcher) PointerUp(ev PointerEvent) {
	if d.active == nil {
		return
	}
	s := d.active
	d.active, d.owner = nil, ""
	s.Up(ev)
}

// Blur abandons the current session after focus loss. Live resizes are kept
// and committed.
func (d *Dispatcher) Blur() {
	if d.active == nil {
		return
	}
	s := d.active
	d.active, d.owner = nil, ""
	s.Cancel()
}

// SelectAll selects every cell as a completed rectangle.
func (d *Dispatcher) SelectAll() {
	d.host.Selection().SelectAll(d.host.Track(grid.AxisRow).Len(), d.host.Track(grid.AxisColumn).Len())
	d.host.ScheduleRender()
}

// Navigate moves the active cell by (dRow, dCol). With extend set it grows
// the selection instead: row and column sets extend their contiguous run,
// anything else becomes a rectangle. It returns the cell that should be
// scrolled into view.
func (d *Dispatcher) Navigate(dRow, dCol int, extend bool) grid.Point {
	sel := d.host.Selection()
	rows, cols := d.host.Track(grid.AxisRow), d.host.Track(grid.AxisColumn)
	defer d.host.ScheduleRender()

	active, ok := sel.ActiveCell()
	if !ok {
		sel.SelectCell(0, 0)
		return grid.Point{}
	}
	switch {
	case extend && sel.Kind() == grid.SelectRows && dRow != 0:
		focus := rows.Clamp(active.Row + dRow)
		sel.ExtendRows(focus)
		return grid.Point{Row: focus, Col: active.Col}
	case extend && sel.Kind() == grid.SelectColumns && dCol != 0:
		focus := cols.Clamp(active.Col + dCol)
		sel.ExtendColumns(focus)
		return grid.Point{Row: active.Row, Col: focus}
	case extend:
		from := active
		if sel.Kind() == grid.SelectRange {
			from = sel.Focus()
		}
		to := grid.Point{Row: rows.Clamp(from.Row + dRow), Col: cols.Clamp(from.Col + dCol)}
		sel.ExtendTo(to.Row, to.Col)
		return to
	}
	to := grid.Point{Row: rows.Clamp(active.Row + dRow), Col: cols.Clamp(active.Col + dCol)}
	sel.SelectCell(to.Row, to.Col)
	return to
}
