package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/jask/gridsheet/internal/config"
	"github.com/jask/gridsheet/internal/database"
	"github.com/jask/gridsheet/internal/database/repository"
	"github.com/jask/gridsheet/internal/formula"
	"github.com/jask/gridsheet/internal/grid"
	"github.com/jask/gridsheet/internal/input"
	"github.com/jask/gridsheet/internal/render"
	"github.com/jask/gridsheet/internal/source"
)

type (
	frameMsg  time.Time
	antsMsg   time.Time
	statusMsg string
)

type mode int

const (
	modeGrid mode = iota
	modeEdit
	modeCommand
	modeConfirm
)

const (
	formulaBarHeight = 1
	statusBarHeight  = 1

	antsInterval = 300 * time.Millisecond
	wheelRows    = 3
	wheelCols    = 4
)

type pendingConfirm struct {
	prompt string
	run    func() error
}

// App is the terminal front end. It embeds the grid engine and is the input
// host: the dispatcher reads scroll offsets and surface size from it and
// reaches the grid through the promoted methods.
type App struct {
	*grid.Grid

	cfg      config.Config
	log      *log.Logger
	keys     *KeyRegistry
	commands *CommandRegistry
	clip     Clipboard
	sched    *render.Scheduler
	input    *input.Dispatcher
	importer *source.Importer
	literal  bool

	width     int
	height    int
	scrollX   int
	scrollY   int
	rowHeader float64

	frameInterval time.Duration
	frameWanted   bool
	frame         string

	mode    mode
	editor  textinput.Model
	editAt  grid.Point
	cmdline textinput.Model
	confirm *pendingConfirm

	status      string
	statusErr   bool
	antsPhase   int
	antsTicking bool
}

type Option func(*App)

func WithLogger(l *log.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.log = l
		}
	}
}

// WithClipboard replaces the system clipboard; nil disables copy and paste.
func WithClipboard(c Clipboard) Option {
	return func(a *App) { a.clip = c }
}

func WithKeys(k *KeyRegistry) Option {
	return func(a *App) {
		if k != nil {
			a.keys = k
		}
	}
}

// WithImports records every import in repo under session.
// WithLiteralImport makes query imports store "=" values as plain text.
func WithLiteralImport(on bool) Option {
	return func(a *App) { a.literal = on }
}

func WithImports(repo *repository.ImportRepo, session string) Option {
	return func(a *App) {
		a.importer.Imports = repo
		a.importer.Session = session
	}
}

func New(cfg config.Config, opts ...Option) *App {
	a := &App{
		cfg:           cfg,
		log:           log.New(io.Discard),
		keys:          NewKeyRegistry(DefaultBindings()),
		commands:      NewCommandRegistry(builtinCommands()),
		clip:          SystemClipboard(),
		rowHeader:     float64(cfg.Geometry.RowHeaderWidth),
		frameInterval: time.Duration(max(cfg.UI.FrameIntervalMS, 1)) * time.Millisecond,
		editor:        textinput.New(),
		cmdline:       textinput.New(),
	}
	a.sched = render.NewScheduler(a.requestFrame)
	a.Grid = grid.New(cfg.Engine(), grid.WithScheduler(a.sched))
	a.input = input.NewDispatcher(a, cfg.Pointer())
	a.importer = &source.Importer{Grid: a.Grid}
	a.cmdline.Prompt = ":"
	for _, opt := range opts {
		opt(a)
	}
	a.importer.Log = a.log
	a.Selection().SelectCell(0, 0)
	a.ScheduleRender()
	return a
}

// Scroll, ViewSize and RowHeaderWidth complete input.Host. The surface is
// the terminal minus the formula bar and the status line.
func (a *App) Scroll() (int, int)   { return a.scrollX, a.scrollY }
func (a *App) ViewSize() (int, int) { return a.width, a.surfaceHeight() }
func (a *App) RowHeaderWidth() int  { return int(math.Round(a.rowHeader)) }

func (a *App) surfaceHeight() int {
	return max(a.height-formulaBarHeight-statusBarHeight, 0)
}

func (a *App) dataWidth() int  { return max(a.width-a.RowHeaderWidth(), 0) }
func (a *App) dataHeight() int { return max(a.surfaceHeight()-a.cfg.Geometry.ColumnHeaderHeight, 0) }

// ImportQuery loads the result of query from the sqlite file at path into
// the grid at the active cell, led by a header row.
func (a *App) ImportQuery(ctx context.Context, path, query string) (repository.Import, error) {
	db, err := database.OpenReadOnly(path)
	if err != nil {
		return repository.Import{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer db.Close()

	at, _ := a.Selection().ActiveCell()
	rec, err := a.importer.Import(ctx, db, path, query, source.Options{Top: at.Row, Left: at.Col, Header: true, Literal: a.literal})
	if err != nil {
		return rec, err
	}
	a.setStatus(fmt.Sprintf("imported %d rows × %d columns (%d cells)", rec.Rows, rec.Cols, rec.CellsWritten), false)
	return rec, nil
}

func (a *App) Init() tea.Cmd {
	return a.takeFrameCmd()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := a.update(msg)
	return a, tea.Batch(cmd, a.takeFrameCmd(), a.antsCmd())
}

func (a *App) update(msg tea.Msg) tea.Cmd {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
		a.editor.Width = max(m.Width-8, 1)
		a.cmdline.Width = max(m.Width-2, 1)
		a.clampScroll()
		a.ScheduleRender()
	case frameMsg:
		a.sched.Frame(a.paint)
	case antsMsg:
		a.antsTicking = false
		if len(a.activeReferences()) > 0 {
			a.antsPhase++
			a.ScheduleRender()
		}
	case tea.BlurMsg:
		a.input.Blur()
	case tea.MouseMsg:
		return a.handleMouse(m)
	case tea.KeyMsg:
		return a.handleKey(m)
	case statusMsg:
		a.setStatus(string(m), false)
	}
	return nil
}

// View returns the last painted frame. Painting happens on frame ticks only.
func (a *App) View() string { return a.frame }

func (a *App) requestFrame() { a.frameWanted = true }

func (a *App) takeFrameCmd() tea.Cmd {
	if !a.frameWanted {
		return nil
	}
	a.frameWanted = false
	return tea.Tick(a.frameInterval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (a *App) antsCmd() tea.Cmd {
	if a.antsTicking || len(a.activeReferences()) == 0 {
		return nil
	}
	a.antsTicking = true
	return tea.Tick(antsInterval, func(t time.Time) tea.Msg { return antsMsg(t) })
}

// activeReferences lists the ranges the active cell's formula reads.
func (a *App) activeReferences() []formula.Span {
	p, ok := a.Selection().ActiveCell()
	if !ok {
		return nil
	}
	c, ok := a.Store().ReadIfExists(p.Row, p.Col)
	if !ok {
		return nil
	}
	src, ok := c.Formula()
	if !ok {
		return nil
	}
	return formula.References(src)
}

func (a *App) handleMouse(m tea.MouseMsg) tea.Cmd {
	switch m.Button {
	case tea.MouseButtonWheelUp:
		if m.Shift {
			a.scrollBy(-wheelCols, 0)
		} else {
			a.scrollBy(0, -wheelRows)
		}
		return nil
	case tea.MouseButtonWheelDown:
		if m.Shift {
			a.scrollBy(wheelCols, 0)
		} else {
			a.scrollBy(0, wheelRows)
		}
		return nil
	case tea.MouseButtonWheelLeft:
		a.scrollBy(-wheelCols, 0)
		return nil
	case tea.MouseButtonWheelRight:
		a.scrollBy(wheelCols, 0)
		return nil
	}

	ev := input.PointerEvent{X: m.X, Y: m.Y - formulaBarHeight, Shift: m.Shift}
	switch m.Action {
	case tea.MouseActionPress:
		if m.Button != tea.MouseButtonLeft {
			return nil
		}
		switch a.mode {
		case modeEdit:
			a.commitEdit(0, 0)
		case modeCommand, modeConfirm:
			return nil
		}
		a.input.PointerDown(ev)
	case tea.MouseActionMotion:
		a.input.PointerMove(ev)
	case tea.MouseActionRelease:
		a.input.PointerUp(ev)
	}
	return nil
}

func (a *App) scope() string {
	switch a.mode {
	case modeEdit:
		return scopeEdit
	case modeCommand:
		return scopeCommand
	case modeConfirm:
		return scopeConfirm
	}
	return scopeGrid
}

func (a *App) handleKey(m tea.KeyMsg) tea.Cmd {
	if a.keys.IsAction(m, actQuit, a.scope()) {
		return tea.Quit
	}
	switch a.mode {
	case modeConfirm:
		return a.updateConfirm(m)
	case modeCommand:
		return a.updateCommandLine(m)
	case modeEdit:
		return a.updateEditor(m)
	}
	return a.updateGrid(m)
}

func (a *App) updateGrid(m tea.KeyMsg) tea.Cmd {
	act, ok := a.keys.Action(m, scopeGrid)
	if !ok {
		if m.Type == tea.KeyRunes && !m.Alt && len(m.Runes) > 0 {
			return a.beginEdit(string(m.Runes), true)
		}
		return nil
	}
	switch act {
	case actUp:
		a.navigate(-1, 0, false)
	case actDown:
		a.navigate(1, 0, false)
	case actLeft:
		a.navigate(0, -1, false)
	case actRight:
		a.navigate(0, 1, false)
	case actExtendUp:
		a.navigate(-1, 0, true)
	case actExtendDown:
		a.navigate(1, 0, true)
	case actExtendLeft:
		a.navigate(0, -1, true)
	case actExtendRight:
		a.navigate(0, 1, true)
	case actPageUp:
		a.navigate(-a.pageRows(), 0, false)
	case actPageDown:
		a.navigate(a.pageRows(), 0, false)
	case actHome:
		a.goTo(grid.Point{})
	case actSelectAll:
		a.input.SelectAll()
	case actEdit:
		return a.beginEdit("", false)
	case actClear:
		if cmd := a.ClearSelection(); cmd != nil {
			a.setStatus(fmt.Sprintf("cleared %d cells", cmd.Len()), false)
		}
	case actUndo:
		a.undo()
	case actRedo:
		a.redo()
	case actCopy:
		a.reportErr(a.copySelection())
	case actPaste:
		a.reportErr(a.pasteClipboard())
	case actBold:
		a.ToggleBold()
	case actItalic:
		a.ToggleItalic()
	case actFontUp:
		a.AdjustFontSize(1)
	case actFontDown:
		a.AdjustFontSize(-1)
	case actWiden:
		a.resizeActive(grid.AxisColumn, 1)
	case actNarrow:
		a.resizeActive(grid.AxisColumn, -1)
	case actTaller:
		a.resizeActive(grid.AxisRow, 1)
	case actShorter:
		a.resizeActive(grid.AxisRow, -1)
	case actCommandLine:
		return a.openCommandLine()
	}
	return nil
}

func (a *App) navigate(dRow, dCol int, extend bool) {
	p := a.input.Navigate(dRow, dCol, extend)
	a.scrollIntoView(p)
}

func (a *App) goTo(p grid.Point) {
	p.Row, p.Col = a.Rows().Clamp(p.Row), a.Columns().Clamp(p.Col)
	a.Selection().SelectCell(p.Row, p.Col)
	a.scrollIntoView(p)
	a.ScheduleRender()
}

func (a *App) pageRows() int {
	return max(a.dataHeight()/max(a.Rows().Default(), 1)-1, 1)
}

func (a *App) undo() {
	cmd, ok := a.Undo()
	if !ok {
		a.setStatus("nothing to undo", false)
		return
	}
	a.setStatus("undo "+grid.Label(cmd), false)
}

func (a *App) redo() {
	cmd, ok := a.Redo()
	if !ok {
		a.setStatus("nothing to redo", false)
		return
	}
	a.setStatus("redo "+grid.Label(cmd), false)
}

// resizeActive grows or shrinks the active cell's row or column by delta as
// one undo step. Whole-track selections resize together.
func (a *App) resizeActive(axis grid.Axis, delta int) {
	p, ok := a.Selection().ActiveCell()
	if !ok {
		return
	}
	index := p.Row
	if axis == grid.AxisColumn {
		index = p.Col
	}
	sess := a.BeginResize(axis, index)
	a.ApplyResize(sess, a.Track(axis).Size(index)+delta)
	if cmd := a.CommitResize(sess); cmd != nil {
		a.setStatus(grid.Label(cmd), false)
	}
}

func (a *App) beginEdit(initial string, replace bool) tea.Cmd {
	p, ok := a.Selection().ActiveCell()
	if !ok {
		a.Selection().SelectCell(0, 0)
	}
	a.OpenForEdit(p.Row, p.Col)
	text := a.EditText(p.Row, p.Col)
	if replace {
		text = initial
	}
	a.editAt = p
	a.mode = modeEdit
	a.editor.Prompt = formula.Ref{Row: p.Row, Col: p.Col}.String() + " "
	a.editor.SetValue(text)
	a.editor.CursorEnd()
	a.scrollIntoView(p)
	a.ScheduleRender()
	return a.editor.Focus()
}

func (a *App) updateEditor(m tea.KeyMsg) tea.Cmd {
	if act, ok := a.keys.Action(m, scopeEdit); ok {
		switch act {
		case actCommit:
			a.commitEdit(1, 0)
			return nil
		case actCommitRight:
			a.commitEdit(0, 1)
			return nil
		case actCancel:
			a.closeEditor()
			return nil
		}
	}
	var cmd tea.Cmd
	a.editor, cmd = a.editor.Update(m)
	a.ScheduleRender()
	return cmd
}

// commitEdit writes the editor text and moves the active cell by
// (dRow, dCol).
func (a *App) commitEdit(dRow, dCol int) {
	at := a.editAt
	cmd := a.CommitEdit(at.Row, at.Col, a.editor.Value())
	a.closeEditor()
	if v := cmd.Cell().Value(); cmd.Cell().HasFormula() && formula.IsSentinel(v) {
		a.setStatus(fmt.Sprintf("%s: formula error %s", formula.Ref{Row: at.Row, Col: at.Col}, v), true)
	}
	a.log.Debug("edit", "cell", formula.Ref{Row: at.Row, Col: at.Col}.String())
	a.Selection().SelectCell(at.Row, at.Col)
	if dRow != 0 || dCol != 0 {
		a.navigate(dRow, dCol, false)
	}
}

func (a *App) closeEditor() {
	a.mode = modeGrid
	a.editor.Blur()
	a.editor.SetValue("")
	a.ScheduleRender()
}

func (a *App) openCommandLine() tea.Cmd {
	a.mode = modeCommand
	a.cmdline.SetValue("")
	a.ScheduleRender()
	return a.cmdline.Focus()
}

func (a *App) closeCommandLine() {
	a.mode = modeGrid
	a.cmdline.Blur()
	a.ScheduleRender()
}

func (a *App) updateCommandLine(m tea.KeyMsg) tea.Cmd {
	if act, ok := a.keys.Action(m, scopeCommand); ok {
		switch act {
		case actCommit:
			line := a.cmdline.Value()
			a.closeCommandLine()
			return a.runCommand(line)
		case actComplete:
			a.completeCommand()
			return nil
		case actCancel:
			a.closeCommandLine()
			return nil
		}
	}
	var cmd tea.Cmd
	a.cmdline, cmd = a.cmdline.Update(m)
	a.ScheduleRender()
	return cmd
}

func (a *App) runCommand(line string) tea.Cmd {
	cmd, err := a.commands.Execute(line, a)
	if err != nil {
		a.log.Warn("command failed", "line", line, "err", err)
		a.setStatus(err.Error(), true)
		return nil
	}
	a.log.Debug("command", "line", line)
	return cmd
}

func (a *App) completeCommand() {
	fields := strings.Fields(a.cmdline.Value())
	if len(fields) != 1 {
		return
	}
	matches := a.commands.Search(fields[0])
	switch len(matches) {
	case 0:
		a.setStatus("no command starts with "+fields[0], true)
	case 1:
		a.cmdline.SetValue(matches[0].Name + " ")
		a.cmdline.CursorEnd()
	default:
		names := make([]string, len(matches))
		for i, m := range matches {
			names[i] = m.Name
		}
		a.setStatus(strings.Join(names, "  "), false)
	}
	a.ScheduleRender()
}

func (a *App) askConfirm(prompt string, run func() error) {
	a.confirm = &pendingConfirm{prompt: prompt, run: run}
	a.mode = modeConfirm
	a.ScheduleRender()
}

func (a *App) updateConfirm(m tea.KeyMsg) tea.Cmd {
	act, ok := a.keys.Action(m, scopeConfirm)
	if !ok {
		return nil
	}
	pending := a.confirm
	switch act {
	case actConfirmYes:
		a.confirm, a.mode = nil, modeGrid
		if err := pending.run(); err != nil {
			a.setStatus(err.Error(), true)
		} else {
			a.setStatus(pending.prompt+": done", false)
		}
	case actConfirmNo:
		a.confirm, a.mode = nil, modeGrid
		a.setStatus(pending.prompt+": cancelled", false)
	}
	a.ScheduleRender()
	return nil
}

// deleteTrack asks the grid to delete a row or column. The grid's own
// confirmation request is captured and shown as a prompt; the deletion runs
// again, pre-approved, once the user agrees.
func (a *App) deleteTrack(axis grid.Axis, at int) error {
	del := a.DeleteRow
	if axis == grid.AxisColumn {
		del = a.DeleteColumn
	}
	var prompt string
	ask := grid.ConfirmFunc(func(action string) bool {
		prompt = action
		return false
	})
	err := del(at, ask)
	if !errors.Is(err, grid.ErrDeclined) {
		return err
	}
	a.askConfirm(prompt, func() error {
		if err := del(at, grid.Confirmed); err != nil {
			return err
		}
		a.log.Info("structure", "action", prompt)
		return nil
	})
	return nil
}

func (a *App) copySelection() error {
	if a.clip == nil {
		return errors.New("clipboard unavailable")
	}
	values := a.SelectionValues()
	if len(values) == 0 {
		return nil
	}
	if err := a.clip.WriteAll(EncodeTSV(values)); err != nil {
		return fmt.Errorf("copy: %w", err)
	}
	a.setStatus(fmt.Sprintf("copied %d×%d", len(values), len(values[0])), false)
	return nil
}

func (a *App) pasteClipboard() error {
	if a.clip == nil {
		return errors.New("clipboard unavailable")
	}
	text, err := a.clip.ReadAll()
	if err != nil {
		return fmt.Errorf("paste: %w", err)
	}
	values := DecodeTSV(text)
	if len(values) == 0 {
		return nil
	}
	at, ok := a.Selection().ActiveCell()
	if r, bounded := a.SelectionBounds(); bounded {
		at, ok = grid.Point{Row: r.Top, Col: r.Left}, true
	}
	if !ok {
		return nil
	}
	cmd := a.Paste(at.Row, at.Col, values)
	a.setStatus(grid.Label(cmd), false)
	return nil
}

func (a *App) reportErr(err error) {
	if err == nil {
		return
	}
	a.log.Warn("action failed", "err", err)
	a.setStatus(err.Error(), true)
}

func (a *App) setStatus(msg string, isErr bool) {
	a.status, a.statusErr = msg, isErr
	a.ScheduleRender()
}

func (a *App) scrollBy(dx, dy int) {
	a.scrollX += dx
	a.scrollY += dy
	a.clampScroll()
	a.ScheduleRender()
}

func (a *App) clampScroll() {
	a.scrollX = min(max(a.scrollX, 0), max(a.Columns().Total()-a.dataWidth(), 0))
	a.scrollY = min(max(a.scrollY, 0), max(a.Rows().Total()-a.dataHeight(), 0))
}

// scrollIntoView moves the scroll offsets the least amount that shows p.
func (a *App) scrollIntoView(p grid.Point) {
	a.scrollY = reveal(a.scrollY, a.dataHeight(), a.Rows().Position(p.Row), a.Rows().Size(p.Row))
	a.scrollX = reveal(a.scrollX, a.dataWidth(), a.Columns().Position(p.Col), a.Columns().Size(p.Col))
	a.clampScroll()
}

func reveal(scroll, extent, pos, size int) int {
	switch {
	case pos < scroll:
		return pos
	case pos+size > scroll+extent:
		return max(pos+size-extent, 0)
	}
	return scroll
}
