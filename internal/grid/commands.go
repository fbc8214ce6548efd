package grid

import (
	"fmt"

	"github.com/jask/gridsheet/internal/formula"
)

// Axis selects rows or columns.
type Axis int

const (
	AxisRow Axis = iota
	AxisColumn
)

func (a Axis) String() string {
	if a == AxisColumn {
		return "column"
	}
	return "row"
}

func cellName(row, col int) string {
	return formula.Ref{Row: row, Col: col}.String()
}

// EditCellCommand replaces a cell's display value and formula source.
//
// A command built from an existing cell only swaps values. A command built
// from coordinates materializes the cell on first execute and removes it
// again on undo, so a write followed by its undo leaves the store as it was.
type EditCellCommand struct {
	store *Store
	row   int
	col   int
	cell  *Cell

	created  bool
	executed bool

	oldValue   string
	oldFormula string
	oldHas     bool
	newValue   string
	newFormula string
	newHas     bool
}

// NewEditCellCommand edits a plain value on an existing cell. Any formula on
// the cell is removed by execute and restored by undo.
func NewEditCellCommand(cell *Cell, oldValue, newValue string) *EditCellCommand {
	f, has := cell.Formula()
	return &EditCellCommand{
		row:        cell.row,
		col:        cell.col,
		cell:       cell,
		oldValue:   oldValue,
		oldFormula: f,
		oldHas:     has,
		newValue:   newValue,
	}
}

// newFormulaEdit sets a formula source together with its computed value.
func newFormulaEdit(cell *Cell, source, value string) *EditCellCommand {
	f, has := cell.Formula()
	return &EditCellCommand{
		row:        cell.row,
		col:        cell.col,
		cell:       cell,
		oldValue:   cell.value,
		oldFormula: f,
		oldHas:     has,
		newValue:   value,
		newFormula: source,
		newHas:     true,
	}
}

// newWriteCommand targets (row, col) whether or not a cell exists there yet.
func newWriteCommand(store *Store, row, col int, value, source string, hasFormula bool) *EditCellCommand {
	return &EditCellCommand{
		store:      store,
		row:        row,
		col:        col,
		newValue:   value,
		newFormula: source,
		newHas:     hasFormula,
	}
}

func (c *EditCellCommand) Execute() {
	if c.executed {
		c.Redo()
		return
	}
	c.executed = true
	if c.cell == nil {
		existing, ok := c.store.ReadIfExists(c.row, c.col)
		if ok {
			c.cell = existing
		} else {
			c.cell = c.store.GetOrCreate(c.row, c.col)
			c.created = true
		}
		c.oldValue = c.cell.value
		c.oldFormula, c.oldHas = c.cell.Formula()
	}
	c.apply()
}

// Redo reapplies the new value to the same cell, reinserting it if undo
// removed it.
func (c *EditCellCommand) Redo() {
	if c.created {
		c.store.put(c.cell)
	}
	c.apply()
}

func (c *EditCellCommand) Undo() {
	if c.cell == nil {
		return
	}
	c.cell.value = c.oldValue
	c.cell.formula = c.oldFormula
	c.cell.hasForm = c.oldHas
	if c.created {
		c.store.remove(c.cell.row, c.cell.col)
	}
}

func (c *EditCellCommand) apply() {
	c.cell.value = c.newValue
	c.cell.formula = c.newFormula
	c.cell.hasForm = c.newHas
}

func (c *EditCellCommand) Cell() *Cell { return c.cell }

func (c *EditCellCommand) Label() string {
	return "edit " + cellName(c.row, c.col)
}

// FormatAttr names a formatting attribute.
type FormatAttr int

const (
	FormatBold FormatAttr = iota
	FormatItalic
	FormatFontSize
)

func (a FormatAttr) String() string {
	switch a {
	case FormatItalic:
		return "italic"
	case FormatFontSize:
		return "font size"
	default:
		return "bold"
	}
}

// FormatCommand changes one formatting attribute of a cell. Flags are held
// as 0/1. A command whose cell was materialized for it removes the cell
// again on undo.
type FormatCommand struct {
	cell *Cell
	attr FormatAttr
	old  int
	new  int

	store   *Store
	created bool
}

func NewBoldCommand(cell *Cell, bold bool) *FormatCommand {
	return &FormatCommand{cell: cell, attr: FormatBold, old: flag(cell.bold), new: flag(bold)}
}

func NewItalicCommand(cell *Cell, italic bool) *FormatCommand {
	return &FormatCommand{cell: cell, attr: FormatItalic, old: flag(cell.italic), new: flag(italic)}
}

func NewFontSizeCommand(cell *Cell, size int) *FormatCommand {
	if size < 1 {
		size = 1
	}
	return &FormatCommand{cell: cell, attr: FormatFontSize, old: cell.fontSize, new: size}
}

func (c *FormatCommand) Execute() {
	if c.created {
		c.store.put(c.cell)
	}
	c.set(c.new)
}

func (c *FormatCommand) Undo() {
	c.set(c.old)
	if c.created {
		c.store.remove(c.cell.row, c.cell.col)
	}
}

func (c *FormatCommand) set(v int) {
	switch c.attr {
	case FormatBold:
		c.cell.bold = v != 0
	case FormatItalic:
		c.cell.italic = v != 0
	case FormatFontSize:
		c.cell.fontSize = v
	}
}

func (c *FormatCommand) Label() string {
	return fmt.Sprintf("%s %s", c.attr, cellName(c.cell.row, c.cell.col))
}

func flag(b bool) int {
	if b {
		return 1
	}
	return 0
}

// ResizeCommand records one track's size before and after a resize. While a
// resize drag is live the track is sized directly and UpdateNewSize keeps
// the command's target in step; execute on release is then a no-op apart
// from recording.
type ResizeCommand struct {
	axis    Axis
	track   *SizeTrack
	index   int
	oldSize int
	newSize int
}

func NewResizeCommand(axis Axis, track *SizeTrack, index int) *ResizeCommand {
	index = track.Clamp(index)
	size := track.Size(index)
	return &ResizeCommand{axis: axis, track: track, index: index, oldSize: size, newSize: size}
}

// UpdateNewSize replaces the target size, raised to the track minimum.
func (c *ResizeCommand) UpdateNewSize(size int) {
	if size < c.track.Min() {
		size = c.track.Min()
	}
	c.newSize = size
}

func (c *ResizeCommand) Execute() { c.track.SetSize(c.index, c.newSize) }
func (c *ResizeCommand) Undo()    { c.track.SetSize(c.index, c.oldSize) }

func (c *ResizeCommand) Axis() Axis    { return c.axis }
func (c *ResizeCommand) Index() int    { return c.index }
func (c *ResizeCommand) OldSize() int  { return c.oldSize }
func (c *ResizeCommand) NewSize() int  { return c.newSize }
func (c *ResizeCommand) Changed() bool { return c.oldSize != c.newSize }

func (c *ResizeCommand) Label() string {
	return fmt.Sprintf("resize %s %d", c.axis, c.index)
}

// PasteCommand writes a block of values with its top-left corner at
// (top, left). Its redo reapplies the captured writes to the cells the
// first execute produced.
type PasteCommand struct {
	top    int
	left   int
	rows   int
	cols   int
	writes *CompositeCommand
}

func (c *PasteCommand) Execute() { c.writes.Execute() }
func (c *PasteCommand) Undo()    { c.writes.Undo() }
func (c *PasteCommand) Redo()    { c.writes.Redo() }

func (c *PasteCommand) Label() string {
	return fmt.Sprintf("paste %dx%d at %s", c.rows, c.cols, cellName(c.top, c.left))
}

// InsertTrackCommand inserts an empty row or column.
type InsertTrackCommand struct {
	axis  Axis
	track *SizeTrack
	store *Store
	at    int
}

func NewInsertTrackCommand(axis Axis, track *SizeTrack, store *Store, at int) *InsertTrackCommand {
	return &InsertTrackCommand{axis: axis, track: track, store: store, at: at}
}

func (c *InsertTrackCommand) Execute() {
	c.track.Insert(c.at)
	shift(c.store, c.axis, c.at, +1)
}

func (c *InsertTrackCommand) Undo() {
	shift(c.store, c.axis, c.at+1, -1)
	c.track.Delete(c.at)
}

func (c *InsertTrackCommand) Label() string {
	return fmt.Sprintf("insert %s %d", c.axis, c.at)
}

// DeleteTrackCommand removes a row or column together with its cells. Undo
// puts the same size and the same cells back.
type DeleteTrackCommand struct {
	axis  Axis
	track *SizeTrack
	store *Store
	at    int
	size  int
	cells []*Cell
}

func NewDeleteTrackCommand(axis Axis, track *SizeTrack, store *Store, at int) *DeleteTrackCommand {
	return &DeleteTrackCommand{axis: axis, track: track, store: store, at: at}
}

func (c *DeleteTrackCommand) Execute() {
	c.size = c.track.Size(c.at)
	if c.axis == AxisColumn {
		c.cells = c.store.Column(c.at)
	} else {
		c.cells = c.store.Row(c.at)
	}
	c.track.Delete(c.at)
	shift(c.store, c.axis, c.at+1, -1)
}

func (c *DeleteTrackCommand) Undo() {
	c.track.Insert(c.at)
	c.track.SetSize(c.at, c.size)
	shift(c.store, c.axis, c.at, +1)
	for _, cell := range c.cells {
		c.store.put(cell)
	}
}

func (c *DeleteTrackCommand) Label() string {
	return fmt.Sprintf("delete %s %d", c.axis, c.at)
}

func shift(store *Store, axis Axis, from, dir int) {
	if axis == AxisColumn {
		store.ShiftColumns(from, dir)
		return
	}
	store.ShiftRows(from, dir)
}
