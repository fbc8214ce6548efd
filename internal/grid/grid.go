package grid

import (
	"errors"
	"fmt"

	"github.com/jask/gridsheet/internal/formula"
)

var (
	// ErrDeclined is returned when the caller declines a destructive action.
	ErrDeclined = errors.New("grid: action declined")
	// ErrLastTrack is returned when deleting would leave no rows or columns.
	ErrLastTrack = errors.New("grid: cannot delete the last track")
)

// formatMaterializeLimit bounds how many empty cells a rectangle format may
// create; larger rectangles only format cells that already exist.
const formatMaterializeLimit = 4096

// Config sizes a new grid.
type Config struct {
	Rows               int
	Columns            int
	DefaultRowHeight   int
	DefaultColumnWidth int
	MinRowHeight       int
	MinColumnWidth     int
	DefaultFontSize    int
	HistoryLimit       int
	Overscan           int
}

func DefaultConfig() Config {
	return Config{
		Rows:               100000,
		Columns:            2000,
		DefaultRowHeight:   1,
		DefaultColumnWidth: 10,
		MinRowHeight:       1,
		MinColumnWidth:     3,
		DefaultFontSize:    DefaultFontSize,
		Overscan:           2,
	}
}

// Scheduler is the render scheduling primitive the grid drives. Schedule
// requests a paint; calls between BeginBatch and EndBatch are held until the
// outermost EndBatch.
type Scheduler interface {
	Schedule()
	BeginBatch()
	EndBatch()
}

type nopScheduler struct{}

func (nopScheduler) Schedule()   {}
func (nopScheduler) BeginBatch() {}
func (nopScheduler) EndBatch()   {}

// Confirmer approves destructive structural edits.
type Confirmer interface {
	Confirm(action string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(action string) bool

func (f ConfirmFunc) Confirm(action string) bool { return f(action) }

// Confirmed approves every action. Use it once the caller has already asked.
var Confirmed = ConfirmFunc(func(string) bool { return true })

type Option func(*Grid)

func WithEvaluator(e formula.Evaluator) Option {
	return func(g *Grid) { g.eval = e }
}

func WithScheduler(s Scheduler) Option {
	return func(g *Grid) {
		if s != nil {
			g.sched = s
		}
	}
}

// Grid is the editing engine. It exclusively owns the cell store and both
// size tracks; every value, format and structural change runs as a Command
// through its history.
type Grid struct {
	cfg       Config
	store     *Store
	rows      *SizeTrack
	cols      *SizeTrack
	selection *Selection
	history   *History
	eval      formula.Evaluator
	sched     Scheduler

	batchDepth    int
	batch         *CompositeCommand
	batchFormulas []*EditCellCommand
}

func New(cfg Config, opts ...Option) *Grid {
	g := &Grid{
		cfg:       cfg,
		store:     NewStore(cfg.DefaultFontSize),
		rows:      NewSizeTrack(cfg.Rows, cfg.DefaultRowHeight, cfg.MinRowHeight),
		cols:      NewSizeTrack(cfg.Columns, cfg.DefaultColumnWidth, cfg.MinColumnWidth),
		selection: NewSelection(),
		history:   NewHistory(cfg.HistoryLimit),
		eval:      formula.NewBasic(),
		sched:     nopScheduler{},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Grid) Config() Config         { return g.cfg }
func (g *Grid) Store() *Store          { return g.store }
func (g *Grid) Rows() *SizeTrack       { return g.rows }
func (g *Grid) Columns() *SizeTrack    { return g.cols }
func (g *Grid) Selection() *Selection  { return g.selection }
func (g *Grid) History() *History      { return g.history }
func (g *Grid) RowCount() int          { return g.rows.Len() }
func (g *Grid) ColumnCount() int       { return g.cols.Len() }
func (g *Grid) CountCreatedCells() int { return g.store.Count() }

// Track returns the size track for axis.
func (g *Grid) Track(axis Axis) *SizeTrack {
	if axis == AxisColumn {
		return g.cols
	}
	return g.rows
}

// ScheduleRender requests a coalesced repaint.
func (g *Grid) ScheduleRender() { g.sched.Schedule() }

// CellText returns the displayed value at (row, col); it is the grid reader
// handed to formula evaluation.
func (g *Grid) CellText(row, col int) string { return g.store.ValueOrEmpty(row, col) }

// Bounds reports the addressable extent to the evaluator.
func (g *Grid) Bounds() (int, int) { return g.rows.Len(), g.cols.Len() }

// RangeValues returns the displayed values inside r, row by row.
func (g *Grid) RangeValues(r Rect) [][]string {
	r = g.clampRect(r)
	out := make([][]string, 0, r.Rows())
	for row := r.Top; row <= r.Bottom; row++ {
		line := make([]string, 0, r.Cols())
		for col := r.Left; col <= r.Right; col++ {
			line = append(line, g.store.ValueOrEmpty(row, col))
		}
		out = append(out, line)
	}
	return out
}

// VisibleRange computes the tracks to draw for the given scroll offsets and
// surface size, using the configured overscan.
func (g *Grid) VisibleRange(scrollX, scrollY, width, height int) Range {
	return ComputeVisibleRange(g.rows, g.cols, scrollX, scrollY, width, height, g.cfg.Overscan)
}

// Execute runs cmd through the history and schedules a render. Inside a
// batch the command joins the batch's composite instead.
func (g *Grid) Execute(cmd Command) {
	if cmd == nil {
		return
	}
	if g.batchDepth > 0 {
		cmd.Execute()
		g.batch.Add(cmd)
		g.sched.Schedule()
		return
	}
	g.history.Execute(cmd)
	g.sched.Schedule()
}

// Undo reverts the most recent command. It reports false when there was
// nothing to undo.
func (g *Grid) Undo() (Command, bool) {
	cmd, ok := g.history.Undo()
	if ok {
		g.sched.Schedule()
	}
	return cmd, ok
}

func (g *Grid) Redo() (Command, bool) {
	cmd, ok := g.history.Redo()
	if ok {
		g.sched.Schedule()
	}
	return cmd, ok
}

// BeginBatchUpdate suspends rendering and starts collecting writes into one
// undo unit. Batches nest; only the outermost end takes effect.
func (g *Grid) BeginBatchUpdate() {
	if g.batchDepth == 0 {
		g.batch = NewCompositeCommand("batch update")
		g.batchFormulas = nil
	}
	g.batchDepth++
	g.sched.BeginBatch()
}

// EndBatchUpdate closes a batch. The outermost call re-evaluates formulas
// written during the batch, records the batch as a single history entry and
// releases exactly one render.
func (g *Grid) EndBatchUpdate() {
	if g.batchDepth == 0 {
		return
	}
	if g.batchDepth == 1 {
		last := make(map[*Cell]int, len(g.batchFormulas))
		for i, w := range g.batchFormulas {
			last[w.cell] = i
		}
		for i, w := range g.batchFormulas {
			// only the last write to a cell counts, and only while the
			// cell still holds that formula
			if last[w.cell] != i || !g.holdsFormula(w.cell, w.newFormula) {
				continue
			}
			value := g.evaluate(w.newFormula)
			if value != w.cell.value {
				cmd := newFormulaEdit(w.cell, w.newFormula, value)
				cmd.Execute()
				g.batch.Add(cmd)
			}
		}
		if g.batch.Len() > 0 {
			g.history.Push(g.batch)
		}
		g.batch = nil
		g.batchFormulas = nil
	}
	g.batchDepth--
	g.sched.EndBatch()
}

// holdsFormula reports whether c is still stored and its formula is src.
func (g *Grid) holdsFormula(c *Cell, src string) bool {
	if got, ok := g.store.ReadIfExists(c.Row(), c.Col()); !ok || got != c {
		return false
	}
	f, has := c.Formula()
	return has && f == src
}

// InBatch reports whether a batch update is open.
func (g *Grid) InBatch() bool { return g.batchDepth > 0 }

// SetCellValue writes text to (row, col). Formula text is evaluated at
// write time. Outside a batch each write is its own undo step.
func (g *Grid) SetCellValue(row, col int, text string) *EditCellCommand {
	row, col = g.rows.Clamp(row), g.cols.Clamp(col)
	cmd := g.writeCommand(row, col, text)
	g.Execute(cmd)
	if g.batchDepth > 0 && cmd.newHas {
		g.batchFormulas = append(g.batchFormulas, cmd)
	}
	return cmd
}

// SetCellLiteral writes text to (row, col) as a plain value, even when it
// starts with FormulaMarker.
func (g *Grid) SetCellLiteral(row, col int, text string) *EditCellCommand {
	row, col = g.rows.Clamp(row), g.cols.Clamp(col)
	cmd := newWriteCommand(g.store, row, col, text, "", false)
	g.Execute(cmd)
	return cmd
}

// Import writes a 2D block with its top-left corner at (top, left) as one
// batch: a single undo step and a single render. Values go through
// SetCellValue, so text starting with FormulaMarker becomes a formula and is
// evaluated. Values falling outside the grid are dropped.
func (g *Grid) Import(top, left int, values [][]string) int {
	return g.importBlock(top, left, values, func(row, col int, v string) { g.SetCellValue(row, col, v) })
}

// ImportLiteral is Import without formula detection: every value is stored
// as plain text.
func (g *Grid) ImportLiteral(top, left int, values [][]string) int {
	return g.importBlock(top, left, values, func(row, col int, v string) { g.SetCellLiteral(row, col, v) })
}

func (g *Grid) importBlock(top, left int, values [][]string, write func(row, col int, v string)) int {
	g.BeginBatchUpdate()
	defer g.EndBatchUpdate()
	written := 0
	for i, line := range values {
		row := top + i
		if row < 0 || row >= g.rows.Len() {
			continue
		}
		for j, v := range line {
			col := left + j
			if col < 0 || col >= g.cols.Len() || v == "" {
				continue
			}
			write(row, col, v)
			written++
		}
	}
	return written
}

// OpenForEdit materializes and returns the cell at (row, col) so an editor
// can be opened on it.
func (g *Grid) OpenForEdit(row, col int) *Cell {
	return g.store.GetOrCreate(g.rows.Clamp(row), g.cols.Clamp(col))
}

// EditText returns what an editor should show for (row, col): the formula
// source when there is one, the value otherwise.
func (g *Grid) EditText(row, col int) string {
	c, ok := g.store.ReadIfExists(row, col)
	if !ok {
		return ""
	}
	if f, has := c.Formula(); has {
		return f
	}
	return c.value
}

// CommitEdit applies text typed into the editor at (row, col). Formula
// errors do not fail the commit: the cell shows the error sentinel and keeps
// its source so it can be corrected.
func (g *Grid) CommitEdit(row, col int, text string) *EditCellCommand {
	cell := g.OpenForEdit(row, col)
	var cmd *EditCellCommand
	if IsFormula(text) {
		cmd = newFormulaEdit(cell, text, g.evaluate(text))
	} else {
		cmd = NewEditCellCommand(cell, cell.value, text)
	}
	g.Execute(cmd)
	return cmd
}

// evaluate runs the evaluator on src and returns the display text.
func (g *Grid) evaluate(src string) string {
	v, err := g.eval.Evaluate(src, g)
	if err != nil {
		return formula.Sentinel(err)
	}
	return v.String()
}

func (g *Grid) writeCommand(row, col int, text string) *EditCellCommand {
	if IsFormula(text) {
		return newWriteCommand(g.store, row, col, g.evaluate(text), text, true)
	}
	return newWriteCommand(g.store, row, col, text, "", false)
}

// Paste writes values with the top-left corner at (top, left) as a single
// undoable PasteCommand. Values past the grid edge are dropped.
func (g *Grid) Paste(top, left int, values [][]string) *PasteCommand {
	top, left = g.rows.Clamp(top), g.cols.Clamp(left)
	cmd := &PasteCommand{top: top, left: left, writes: NewCompositeCommand("paste")}
	for i, line := range values {
		row := top + i
		if row >= g.rows.Len() {
			break
		}
		cmd.rows++
		for j, v := range line {
			col := left + j
			if col >= g.cols.Len() {
				break
			}
			cmd.cols = max(cmd.cols, j+1)
			cmd.writes.Add(g.writeCommand(row, col, v))
		}
	}
	if cmd.writes.Len() == 0 {
		return nil
	}
	g.Execute(cmd)
	return cmd
}

// ClearSelection empties the values of every stored cell in the selection.
func (g *Grid) ClearSelection() *CompositeCommand {
	comp := NewCompositeCommand("clear")
	for _, c := range g.selectedStoredCells() {
		if c.value == "" && !c.hasForm {
			continue
		}
		comp.Add(NewEditCellCommand(c, c.value, ""))
	}
	if comp.Len() == 0 {
		return nil
	}
	g.Execute(comp)
	return comp
}

// SetBold, SetItalic and SetFontSize format the current selection as one
// undo step.
func (g *Grid) SetBold(bold bool) *CompositeCommand {
	return g.formatSelection("bold", func(c *Cell) *FormatCommand {
		if c.bold == bold {
			return nil
		}
		return NewBoldCommand(c, bold)
	})
}

func (g *Grid) SetItalic(italic bool) *CompositeCommand {
	return g.formatSelection("italic", func(c *Cell) *FormatCommand {
		if c.italic == italic {
			return nil
		}
		return NewItalicCommand(c, italic)
	})
}

func (g *Grid) SetFontSize(size int) *CompositeCommand {
	return g.formatSelection("font size", func(c *Cell) *FormatCommand {
		if c.fontSize == max(size, 1) {
			return nil
		}
		return NewFontSizeCommand(c, size)
	})
}

// AdjustFontSize changes every selected cell's font size by delta.
func (g *Grid) AdjustFontSize(delta int) *CompositeCommand {
	return g.formatSelection("font size", func(c *Cell) *FormatCommand {
		if max(c.fontSize+delta, 1) == c.fontSize {
			return nil
		}
		return NewFontSizeCommand(c, c.fontSize+delta)
	})
}

// ToggleBold makes the selection bold unless the active cell already is.
func (g *Grid) ToggleBold() *CompositeCommand {
	return g.SetBold(!g.activeFlag(func(c *Cell) bool { return c.bold }))
}

func (g *Grid) ToggleItalic() *CompositeCommand {
	return g.SetItalic(!g.activeFlag(func(c *Cell) bool { return c.italic }))
}

func (g *Grid) activeFlag(get func(*Cell) bool) bool {
	p, ok := g.selection.ActiveCell()
	if !ok {
		return false
	}
	c, ok := g.store.ReadIfExists(p.Row, p.Col)
	return ok && get(c)
}

func (g *Grid) formatSelection(name string, build func(c *Cell) *FormatCommand) *CompositeCommand {
	comp := NewCompositeCommand(name)
	for _, t := range g.formatTargets() {
		cmd := build(t.cell)
		if cmd == nil {
			if t.created {
				g.store.remove(t.cell.row, t.cell.col)
			}
			continue
		}
		if t.created {
			cmd.store, cmd.created = g.store, true
		}
		comp.Add(cmd)
	}
	if comp.Len() == 0 {
		return nil
	}
	g.Execute(comp)
	return comp
}

type formatTarget struct {
	cell    *Cell
	created bool
}

// formatTargets returns the cells a format applies to. A single cell and
// small rectangles are materialized; row sets, column sets and large
// rectangles only reach stored cells.
func (g *Grid) formatTargets() []formatTarget {
	s := g.selection
	var r Rect
	switch s.Kind() {
	case SelectCell:
		p, _ := s.ActiveCell()
		r = Rect{Top: p.Row, Left: p.Col, Bottom: p.Row, Right: p.Col}
	case SelectRange:
		r, _ = s.DragRect()
		r = g.clampRect(r)
	}
	if s.Kind() == SelectCell || (s.Kind() == SelectRange && r.Rows()*r.Cols() <= formatMaterializeLimit) {
		out := make([]formatTarget, 0, r.Rows()*r.Cols())
		for row := r.Top; row <= r.Bottom; row++ {
			for col := r.Left; col <= r.Right; col++ {
				c, ok := g.store.ReadIfExists(row, col)
				if !ok {
					c = g.store.GetOrCreate(row, col)
				}
				out = append(out, formatTarget{cell: c, created: !ok})
			}
		}
		return out
	}
	cells := g.selectedStoredCells()
	out := make([]formatTarget, 0, len(cells))
	for _, c := range cells {
		out = append(out, formatTarget{cell: c})
	}
	return out
}

func (g *Grid) selectedStoredCells() []*Cell {
	s := g.selection
	var out []*Cell
	switch s.Kind() {
	case SelectNone:
		return nil
	case SelectCell:
		p, _ := s.ActiveCell()
		if c, ok := g.store.ReadIfExists(p.Row, p.Col); ok {
			out = append(out, c)
		}
		return out
	case SelectRows:
		for _, r := range s.SelectedRows() {
			out = append(out, g.store.Row(r)...)
		}
		return out
	}
	g.store.Each(func(c *Cell) {
		if s.Contains(c.row, c.col) {
			out = append(out, c)
		}
	})
	return out
}

// SelectionValues returns the displayed values of the selection's bounding
// block. Row and column sets are bounded by the stored cells they contain.
func (g *Grid) SelectionValues() [][]string {
	r, ok := g.SelectionBounds()
	if !ok {
		return nil
	}
	return g.RangeValues(r)
}

// SelectionBounds returns the smallest rectangle covering the selection.
func (g *Grid) SelectionBounds() (Rect, bool) {
	s := g.selection
	switch s.Kind() {
	case SelectCell:
		p, _ := s.ActiveCell()
		return Rect{Top: p.Row, Left: p.Col, Bottom: p.Row, Right: p.Col}, true
	case SelectRange:
		r, _ := s.DragRect()
		return g.clampRect(r), true
	case SelectRows, SelectColumns:
		cells := g.selectedStoredCells()
		if len(cells) == 0 {
			return Rect{}, false
		}
		r := Rect{Top: cells[0].row, Left: cells[0].col, Bottom: cells[0].row, Right: cells[0].col}
		for _, c := range cells[1:] {
			r.Top, r.Bottom = min(r.Top, c.row), max(r.Bottom, c.row)
			r.Left, r.Right = min(r.Left, c.col), max(r.Right, c.col)
		}
		return r, true
	}
	return Rect{}, false
}

// SelectionStats aggregates the selection's stored values.
func (g *Grid) SelectionStats() Stats {
	cells := g.selectedStoredCells()
	values := make([]string, 0, len(cells))
	for _, c := range cells {
		values = append(values, c.value)
	}
	return Aggregate([][]string{values})
}

// Recalculate re-evaluates every formula cell in row-major order as one
// undo step. It returns nil when no value changed.
func (g *Grid) Recalculate() *CompositeCommand {
	comp := NewCompositeCommand("recalculate")
	g.store.Each(func(c *Cell) {
		src, ok := c.Formula()
		if !ok {
			return
		}
		value := g.evaluate(src)
		if value == c.value {
			return
		}
		cmd := newFormulaEdit(c, src, value)
		cmd.Execute()
		comp.Add(cmd)
	})
	if comp.Len() == 0 {
		return nil
	}
	// children already ran so later formulas saw earlier results
	if g.batchDepth > 0 {
		g.batch.Add(comp)
	} else {
		g.history.Push(comp)
	}
	g.sched.Schedule()
	return comp
}

// InsertRow inserts an empty row at index at.
func (g *Grid) InsertRow(at int) *InsertTrackCommand { return g.insertTrack(AxisRow, at) }

// InsertColumn inserts an empty column at index at.
func (g *Grid) InsertColumn(at int) *InsertTrackCommand { return g.insertTrack(AxisColumn, at) }

// DeleteRow removes row at after confirm approves. Declining returns
// ErrDeclined with nothing changed.
func (g *Grid) DeleteRow(at int, confirm Confirmer) error {
	return g.deleteTrack(AxisRow, at, confirm)
}

func (g *Grid) DeleteColumn(at int, confirm Confirmer) error {
	return g.deleteTrack(AxisColumn, at, confirm)
}

func (g *Grid) insertTrack(axis Axis, at int) *InsertTrackCommand {
	track := g.Track(axis)
	if at < 0 {
		at = 0
	}
	if at > track.Len() {
		at = track.Len()
	}
	cmd := NewInsertTrackCommand(axis, track, g.store, at)
	g.Execute(cmd)
	return cmd
}

func (g *Grid) deleteTrack(axis Axis, at int, confirm Confirmer) error {
	track := g.Track(axis)
	if track.Len() <= 1 {
		return ErrLastTrack
	}
	at = track.Clamp(at)
	if confirm == nil || !confirm.Confirm(fmt.Sprintf("delete %s %d", axis, at+1)) {
		return ErrDeclined
	}
	if axis == AxisColumn && g.selection.ReferencesColumn(at) {
		g.selection.Clear()
	}
	if axis == AxisRow && g.selection.ReferencesRow(at) {
		g.selection.Clear()
	}
	g.Execute(NewDeleteTrackCommand(axis, track, g.store, at))
	return nil
}

// BeginResize starts a resize of track index on axis. When the track is part
// of a whole row or column selection, every selected track follows.
func (g *Grid) BeginResize(axis Axis, index int) *ResizeSession {
	track := g.Track(axis)
	index = track.Clamp(index)
	sess := &ResizeSession{primary: NewResizeCommand(axis, track, index)}
	var group []int
	switch {
	case axis == AxisRow && g.selection.Kind() == SelectRows && g.selection.IsRowSelected(index):
		group = g.selection.SelectedRows()
	case axis == AxisColumn && g.selection.Kind() == SelectColumns && g.selection.IsColumnSelected(index):
		group = g.selection.SelectedColumns()
	}
	for _, i := range group {
		if i == index {
			continue
		}
		sess.others = append(sess.others, NewResizeCommand(axis, track, i))
	}
	return sess
}

// ApplyResize sizes the session's tracks directly for live feedback.
func (g *Grid) ApplyResize(sess *ResizeSession, size int) {
	if sess == nil {
		return
	}
	for _, cmd := range sess.commands() {
		cmd.UpdateNewSize(size)
		cmd.track.SetSize(cmd.index, cmd.newSize)
	}
	g.sched.Schedule()
}

// CommitResize records the session as one undo step. The live size is kept;
// a session that changed nothing records nothing.
func (g *Grid) CommitResize(sess *ResizeSession) Command {
	if sess == nil {
		return nil
	}
	var changed []Command
	for _, cmd := range sess.commands() {
		if cmd.Changed() {
			changed = append(changed, cmd)
		}
	}
	var cmd Command
	switch len(changed) {
	case 0:
		return nil
	case 1:
		cmd = changed[0]
	default:
		cmd = NewCompositeCommand(fmt.Sprintf("resize %d %ss", len(changed), sess.primary.axis), changed...)
	}
	g.Execute(cmd)
	return cmd
}

// ResizeSession groups the resize commands of one pointer drag.
type ResizeSession struct {
	primary *ResizeCommand
	others  []*ResizeCommand
}

func (s *ResizeSession) Primary() *ResizeCommand { return s.primary }

func (s *ResizeSession) commands() []*ResizeCommand {
	return append([]*ResizeCommand{s.primary}, s.others...)
}

func (g *Grid) clampRect(r Rect) Rect {
	return Rect{
		Top:    g.rows.Clamp(r.Top),
		Left:   g.cols.Clamp(r.Left),
		Bottom: g.rows.Clamp(r.Bottom),
		Right:  g.cols.Clamp(r.Right),
	}
}
