package grid

import "strings"

// FormulaMarker prefixes formula source text.
const FormulaMarker = "="

// DefaultFontSize is used for cells created without an explicit size.
const DefaultFontSize = 11

// Cell is one materialized entry of the store. Its coordinates only change
// when a structural edit relocates it.
type Cell struct {
	row      int
	col      int
	value    string
	formula  string
	hasForm  bool
	fontSize int
	bold     bool
	italic   bool
}

func newCell(row, col, fontSize int) *Cell {
	if fontSize <= 0 {
		fontSize = DefaultFontSize
	}
	return &Cell{row: row, col: col, fontSize: fontSize}
}

func (c *Cell) Row() int { return c.row }
func (c *Cell) Col() int { return c.col }

func (c *Cell) Value() string     { return c.value }
func (c *Cell) SetValue(v string) { c.value = v }

// Formula returns the formula source, including its marker.
func (c *Cell) Formula() (string, bool) {
	return c.formula, c.hasForm
}

// SetFormula stores src as the formula source. Text without the marker is
// treated as a plain value and removes any formula.
func (c *Cell) SetFormula(src string) {
	if !IsFormula(src) {
		c.RemoveFormula()
		return
	}
	c.formula = src
	c.hasForm = true
}

func (c *Cell) HasFormula() bool { return c.hasForm }

func (c *Cell) RemoveFormula() {
	c.formula = ""
	c.hasForm = false
}

func (c *Cell) FontSize() int { return c.fontSize }

func (c *Cell) SetFontSize(size int) {
	if size < 1 {
		size = 1
	}
	c.fontSize = size
}

func (c *Cell) IsBold() bool      { return c.bold }
func (c *Cell) SetBold(b bool)    { c.bold = b }
func (c *Cell) IsItalic() bool    { return c.italic }
func (c *Cell) SetItalic(it bool) { c.italic = it }

// cellState holds every mutable attribute; coordinates are excluded.
type cellState struct {
	value    string
	formula  string
	hasForm  bool
	fontSize int
	bold     bool
	italic   bool
}

func (c *Cell) state() cellState {
	return cellState{
		value:    c.value,
		formula:  c.formula,
		hasForm:  c.hasForm,
		fontSize: c.fontSize,
		bold:     c.bold,
		italic:   c.italic,
	}
}

func (c *Cell) restore(s cellState) {
	c.value = s.value
	c.formula = s.formula
	c.hasForm = s.hasForm
	c.fontSize = s.fontSize
	c.bold = s.bold
	c.italic = s.italic
}

// IsFormula reports whether text is formula source.
func IsFormula(text string) bool {
	return strings.HasPrefix(text, FormulaMarker) && len(text) > len(FormulaMarker)
}
