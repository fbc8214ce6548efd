package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/jask/gridsheet/internal/formula"
	"github.com/jask/gridsheet/internal/grid"
	"github.com/jask/gridsheet/internal/render"
)

const gridLine = "│"

// paint draws one frame into a.frame. It runs only from the scheduler's
// frame callback.
func (a *App) paint() {
	if a.width <= 0 || a.height <= 0 {
		a.frame = ""
		return
	}
	geom := a.input.Geometry()
	v := render.View{
		Width:              a.width,
		Height:             a.surfaceHeight(),
		RowHeaderWidth:     a.RowHeaderWidth(),
		ColumnHeaderHeight: geom.ColumnHeaderHeight,
		ScrollX:            a.scrollX,
		ScrollY:            a.scrollY,
		Overscan:           a.cfg.Viewport.Overscan,
	}
	layout := render.BuildLayout(a.Rows(), a.Columns(), v)

	lines := make([]string, 0, a.height)
	lines = append(lines, a.drawFormulaBar())
	lines = append(lines, a.drawSurface(layout)...)
	lines = append(lines, a.drawBottomLine())
	if len(lines) > a.height {
		lines = lines[:a.height]
	}
	a.frame = strings.Join(lines, "\n")

	a.convergeRowHeader(layout)
}

// convergeRowHeader moves the row header width a step toward what the last
// visible row number needs and keeps frames coming until it settles.
func (a *App) convergeRowHeader(l render.Layout) {
	if l.Range.Empty() {
		return
	}
	target := render.RowHeaderTarget(l.Range.LastRow, a.cfg.Geometry.RowHeaderWidth)
	next := render.Converge(a.rowHeader, float64(target))
	if next == a.rowHeader {
		return
	}
	a.rowHeader = next
	a.clampScroll()
	a.ScheduleRender()
}

// surfaceState is the selection and highlight data one paint reads.
type surfaceState struct {
	sel     *grid.Selection
	last    grid.Rect
	hasLast bool
	refs    []formula.Span
	active  grid.Point
	hasAct  bool
}

func (a *App) snapshot() surfaceState {
	st := surfaceState{sel: a.Selection(), refs: a.activeReferences()}
	st.last, st.hasLast = st.sel.LastRect()
	st.active, st.hasAct = st.sel.ActiveCell()
	return st
}

func (a *App) drawSurface(l render.Layout) []string {
	v := l.View
	st := a.snapshot()
	out := make([]string, v.Height)
	for y := 0; y < v.Height; y++ {
		switch {
		case y == v.ColumnHeaderHeight-1:
			out[y] = a.drawColumnHeader(l, st)
		case y < v.ColumnHeaderHeight:
			out[y] = headerStyle.Render(strings.Repeat(" ", v.Width))
		default:
			span, ok := l.RowAt(y)
			if !ok {
				out[y] = cellStyle.Render(strings.Repeat(" ", v.Width))
				continue
			}
			out[y] = a.drawRow(l, st, span, y == span.Start)
		}
	}
	return out
}

func (a *App) drawColumnHeader(l render.Layout, st surfaceState) string {
	v := l.View
	var b strings.Builder
	b.WriteString(cornerStyle.Render(fit("", v.RowHeaderWidth, false)))
	used := v.RowHeaderWidth
	for _, c := range l.Cols {
		style := headerStyle
		switch {
		case st.sel.ReferencesColumn(c.Index):
			style = headerActiveStyle
		case st.hasLast && c.Index >= st.last.Left && c.Index <= st.last.Right:
			style = headerLastStyle
		}
		b.WriteString(piece(center(formula.ColumnName(c.Index), c.Size-1), c.Start, c.Size-1, v.RowHeaderWidth, v.Width, style))
		b.WriteString(piece(gridLine, c.End()-1, 1, v.RowHeaderWidth, v.Width, headerStyle))
		used = max(used, min(c.End(), v.Width))
	}
	if used < v.Width {
		b.WriteString(headerStyle.Render(strings.Repeat(" ", v.Width-used)))
	}
	return b.String()
}

func (a *App) drawRow(l render.Layout, st surfaceState, row render.Span, first bool) string {
	v := l.View
	var b strings.Builder

	label := ""
	if first {
		label = strconv.Itoa(row.Index + 1)
	}
	hstyle := headerStyle
	switch {
	case st.sel.ReferencesRow(row.Index):
		hstyle = headerActiveStyle
	case st.hasLast && row.Index >= st.last.Top && row.Index <= st.last.Bottom:
		hstyle = headerLastStyle
	}
	if v.RowHeaderWidth > 0 {
		b.WriteString(hstyle.Render(fit(label, v.RowHeaderWidth-1, true) + " "))
	}

	used := v.RowHeaderWidth
	for _, c := range l.Cols {
		text, right, style := a.cellAppearance(st, row.Index, c.Index)
		if !first {
			text = ""
		}
		b.WriteString(piece(fit(text, c.Size-1, right), c.Start, c.Size-1, v.RowHeaderWidth, v.Width, style))
		b.WriteString(piece(gridLine, c.End()-1, 1, v.RowHeaderWidth, v.Width, gridLineStyle))
		used = max(used, min(c.End(), v.Width))
	}
	if used < v.Width {
		b.WriteString(cellStyle.Render(strings.Repeat(" ", v.Width-used)))
	}
	return b.String()
}

// cellAppearance returns what (row, col) shows: its text, whether the text
// is right aligned, and the style to draw it with.
func (a *App) cellAppearance(st surfaceState, row, col int) (string, bool, lipgloss.Style) {
	style := cellStyle
	text, right := "", false
	cell, ok := a.Store().ReadIfExists(row, col)
	if ok {
		text = cell.Value()
		if _, num := formula.ParseNumber(text); num {
			right = true
		}
		if formula.IsSentinel(text) && cell.HasFormula() {
			style = errorCellStyle
		}
	}
	switch {
	case st.hasAct && st.active.Row == row && st.active.Col == col:
		style = activeCellStyle
	case st.sel.Contains(row, col):
		style = selectedStyle
	case referenced(st.refs, row, col):
		if (row+col+a.antsPhase)%2 == 0 {
			style = antsOnStyle
		} else {
			style = antsOffStyle
		}
	}
	if ok {
		style = style.Bold(cell.IsBold()).Italic(cell.IsItalic())
	}
	return text, right, style
}

func referenced(refs []formula.Span, row, col int) bool {
	for _, r := range refs {
		if r.Contains(row, col) {
			return true
		}
	}
	return false
}

func (a *App) drawFormulaBar() string {
	p, ok := a.Selection().ActiveCell()
	if !ok {
		return renderBar(formulaBarStyle, a.width, "")
	}
	name := formula.Ref{Row: p.Row, Col: p.Col}.String()
	text := a.EditText(p.Row, p.Col)
	var flags []string
	if c, ok := a.Store().ReadIfExists(p.Row, p.Col); ok {
		if c.IsBold() {
			flags = append(flags, "bold")
		}
		if c.IsItalic() {
			flags = append(flags, "italic")
		}
		flags = append(flags, fmt.Sprintf("%dpt", c.FontSize()))
	}
	head := refStyle.Render(" " + name + " ")
	tail := ""
	if len(flags) > 0 {
		tail = hintStyle.Render(" " + strings.Join(flags, " ") + " ")
	}
	body := a.width - ansi.StringWidth(head) - ansi.StringWidth(tail)
	return head + renderBar(formulaBarStyle, body, " "+sanitize(text)) + tail
}

func (a *App) drawBottomLine() string {
	switch a.mode {
	case modeEdit:
		return renderBar(formulaBarStyle, a.width, a.editor.View())
	case modeCommand:
		return renderBar(formulaBarStyle, a.width, a.cmdline.View())
	case modeConfirm:
		prompt := confirmStyle.Render(" " + a.confirm.prompt + "? ")
		return renderBar(statusBarStyle, a.width, prompt+promptStyle.Render(" [y/n]"))
	}

	stats := a.statsText()
	statsW := ansi.StringWidth(stats)
	msg := strings.TrimSpace(a.status)
	if msg == "" {
		msg = "Ready"
	}
	style := statusBarStyle
	if a.statusErr {
		style = statusErrStyle
	}
	return renderBar(style, a.width-statsW, " "+msg) + stats
}

// statsText summarizes the selection for the status bar.
func (a *App) statsText() string {
	if a.Selection().Kind() == grid.SelectCell {
		return ""
	}
	s := a.SelectionStats()
	if s.Count == 0 {
		return ""
	}
	parts := []string{"Count " + strconv.Itoa(s.Count)}
	if s.HasNumbers() {
		parts = append(parts,
			"Sum "+formula.FormatNumber(s.Sum),
			"Avg "+formula.FormatNumber(s.Average),
			"Min "+formula.FormatNumber(s.Min),
			"Max "+formula.FormatNumber(s.Max),
		)
	}
	return statsStyle.Render(" " + strings.Join(parts, "  ") + " ")
}

func renderBar(style lipgloss.Style, width int, text string) string {
	if width <= 0 {
		return ""
	}
	line := strings.ReplaceAll(text, "\n", " ")
	line = ansi.Truncate(line, width, "")
	if w := ansi.StringWidth(line); w < width {
		line += strings.Repeat(" ", width-w)
	}
	return style.Render(line)
}

// piece draws the part of a width-wide text starting at surface column
// start that falls inside [lo, hi).
func piece(text string, start, width, lo, hi int, style lipgloss.Style) string {
	from, to := max(start, lo), min(start+width, hi)
	if from >= to {
		return ""
	}
	return style.Render(cutCells(text, from-start, to-start))
}

// cutCells returns display columns [from, to) of s. Wide runes cut in half
// become spaces.
func cutCells(s string, from, to int) string {
	var b strings.Builder
	pos := 0
	for _, r := range s {
		if pos >= to {
			break
		}
		w := runewidth.RuneWidth(r)
		switch {
		case pos >= from && pos+w <= to:
			b.WriteRune(r)
		case pos+w > from:
			b.WriteString(strings.Repeat(" ", min(pos+w, to)-max(pos, from)))
		}
		pos += w
	}
	if pos < to {
		b.WriteString(strings.Repeat(" ", to-max(pos, from)))
	}
	return b.String()
}

// fit truncates or pads text to exactly width display columns.
func fit(text string, width int, right bool) string {
	if width <= 0 {
		return ""
	}
	text = runewidth.Truncate(sanitize(text), width, "…")
	if right {
		return runewidth.FillLeft(text, width)
	}
	return runewidth.FillRight(text, width)
}

func center(text string, width int) string {
	if width <= 0 {
		return ""
	}
	text = runewidth.Truncate(text, width, "")
	pad := (width - runewidth.StringWidth(text)) / 2
	return runewidth.FillRight(strings.Repeat(" ", pad)+text, width)
}

var controlChars = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ")

func sanitize(s string) string { return controlChars.Replace(s) }
