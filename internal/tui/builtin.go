package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/gridsheet/internal/formula"
	"github.com/jask/gridsheet/internal/grid"
)

var errUsage = errors.New("usage")

func usage(c string) error { return fmt.Errorf("%w: %s", errUsage, c) }

func builtinCommands() []Command {
	return []Command{
		{
			Name:        "quit",
			Aliases:     []string{"q"},
			Usage:       "quit",
			Description: "leave gridsheet",
			Run:         func(*App, []string) (tea.Cmd, error) { return tea.Quit, nil },
		},
		{
			Name:        "undo",
			Aliases:     []string{"u"},
			Usage:       "undo",
			Description: "undo the last change",
			Run:         func(a *App, _ []string) (tea.Cmd, error) { a.undo(); return nil, nil },
		},
		{
			Name:        "redo",
			Usage:       "redo",
			Description: "redo the last undone change",
			Run:         func(a *App, _ []string) (tea.Cmd, error) { a.redo(); return nil, nil },
		},
		{
			Name:        "goto",
			Aliases:     []string{"g"},
			Usage:       "goto A1",
			Description: "move to a cell",
			Run:         runGoto,
		},
		{
			Name:        "insert-row",
			Aliases:     []string{"ir"},
			Usage:       "insert-row [row]",
			Description: "insert an empty row above the active row",
			Run: func(a *App, args []string) (tea.Cmd, error) {
				at, err := rowArg(a, args)
				if err != nil {
					return nil, err
				}
				a.setStatus(grid.Label(a.InsertRow(at)), false)
				return nil, nil
			},
		},
		{
			Name:        "insert-col",
			Aliases:     []string{"ic"},
			Usage:       "insert-col [column]",
			Description: "insert an empty column left of the active column",
			Run: func(a *App, args []string) (tea.Cmd, error) {
				at, err := colArg(a, args)
				if err != nil {
					return nil, err
				}
				a.setStatus(grid.Label(a.InsertColumn(at)), false)
				return nil, nil
			},
		},
		{
			Name:        "delete-row",
			Aliases:     []string{"dr"},
			Usage:       "delete-row [row]",
			Description: "delete a row after confirmation",
			Run: func(a *App, args []string) (tea.Cmd, error) {
				at, err := rowArg(a, args)
				if err != nil {
					return nil, err
				}
				return nil, a.deleteTrack(grid.AxisRow, at)
			},
		},
		{
			Name:        "delete-col",
			Aliases:     []string{"dc"},
			Usage:       "delete-col [column]",
			Description: "delete a column after confirmation",
			Run: func(a *App, args []string) (tea.Cmd, error) {
				at, err := colArg(a, args)
				if err != nil {
					return nil, err
				}
				return nil, a.deleteTrack(grid.AxisColumn, at)
			},
		},
		{
			Name:        "bold",
			Aliases:     []string{"b"},
			Usage:       "bold",
			Description: "toggle bold on the selection",
			Run:         func(a *App, _ []string) (tea.Cmd, error) { a.ToggleBold(); return nil, nil },
		},
		{
			Name:        "italic",
			Aliases:     []string{"i"},
			Usage:       "italic",
			Description: "toggle italic on the selection",
			Run:         func(a *App, _ []string) (tea.Cmd, error) { a.ToggleItalic(); return nil, nil },
		},
		{
			Name:        "size",
			Usage:       "size N",
			Description: "set the font size of the selection",
			Run: func(a *App, args []string) (tea.Cmd, error) {
				n, err := intArg(args, "size N")
				if err != nil {
					return nil, err
				}
				a.SetFontSize(n)
				return nil, nil
			},
		},
		{
			Name:        "width",
			Aliases:     []string{"w"},
			Usage:       "width N",
			Description: "set the width of the active column",
			Run: func(a *App, args []string) (tea.Cmd, error) {
				return nil, resizeTo(a, grid.AxisColumn, args, "width N")
			},
		},
		{
			Name:        "height",
			Aliases:     []string{"h"},
			Usage:       "height N",
			Description: "set the height of the active row",
			Run: func(a *App, args []string) (tea.Cmd, error) {
				return nil, resizeTo(a, grid.AxisRow, args, "height N")
			},
		},
		{
			Name:        "clear",
			Usage:       "clear",
			Description: "clear the selected cells",
			Run:         func(a *App, _ []string) (tea.Cmd, error) { a.ClearSelection(); return nil, nil },
		},
		{
			Name:        "recalc",
			Usage:       "recalc",
			Description: "re-evaluate every formula",
			Run: func(a *App, _ []string) (tea.Cmd, error) {
				n := 0
				if cmd := a.Recalculate(); cmd != nil {
					n = cmd.Len()
				}
				a.setStatus(fmt.Sprintf("recalculated, %d cells changed", n), false)
				return nil, nil
			},
		},
		{
			Name:        "select-all",
			Aliases:     []string{"sa"},
			Usage:       "select-all",
			Description: "select every cell",
			Run:         func(a *App, _ []string) (tea.Cmd, error) { a.input.SelectAll(); return nil, nil },
		},
		{
			Name:        "copy",
			Usage:       "copy",
			Description: "copy the selection as tab separated text",
			Run:         func(a *App, _ []string) (tea.Cmd, error) { return nil, a.copySelection() },
		},
		{
			Name:        "paste",
			Usage:       "paste",
			Description: "paste tab separated text at the selection",
			Run:         func(a *App, _ []string) (tea.Cmd, error) { return nil, a.pasteClipboard() },
		},
		{
			Name:        "import",
			Usage:       "import DB QUERY",
			Description: "load a sqlite query result at the active cell",
			Run: func(a *App, args []string) (tea.Cmd, error) {
				if len(args) < 2 {
					return nil, usage("import DB QUERY")
				}
				_, err := a.ImportQuery(context.Background(), args[0], strings.Join(args[1:], " "))
				return nil, err
			},
		},
		{
			Name:        "help",
			Aliases:     []string{"?"},
			Usage:       "help",
			Description: "list commands",
			Run: func(a *App, _ []string) (tea.Cmd, error) {
				matches := a.commands.Search("")
				names := make([]string, len(matches))
				for i, m := range matches {
					names[i] = m.Name
				}
				a.setStatus(strings.Join(names, " "), false)
				return nil, nil
			},
		},
	}
}

func runGoto(a *App, args []string) (tea.Cmd, error) {
	if len(args) != 1 {
		return nil, usage("goto A1")
	}
	ref, err := formula.ParseRef(args[0])
	if err != nil {
		return nil, err
	}
	a.goTo(grid.Point{Row: ref.Row, Col: ref.Col})
	return nil, nil
}

// rowArg reads an optional 1-based row number, defaulting to the active row.
func rowArg(a *App, args []string) (int, error) {
	if len(args) == 0 {
		p, _ := a.Selection().ActiveCell()
		return p.Row, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return 0, fmt.Errorf("bad row %q", args[0])
	}
	return n - 1, nil
}

// colArg reads an optional column given as letters or a 1-based number,
// defaulting to the active column.
func colArg(a *App, args []string) (int, error) {
	if len(args) == 0 {
		p, _ := a.Selection().ActiveCell()
		return p.Col, nil
	}
	if n, err := strconv.Atoi(args[0]); err == nil && n >= 1 {
		return n - 1, nil
	}
	if c := formula.ColumnIndex(args[0]); c >= 0 {
		return c, nil
	}
	return 0, fmt.Errorf("bad column %q", args[0])
}

func intArg(args []string, use string) (int, error) {
	if len(args) != 1 {
		return 0, usage(use)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, usage(use)
	}
	return n, nil
}

func resizeTo(a *App, axis grid.Axis, args []string, use string) error {
	n, err := intArg(args, use)
	if err != nil {
		return err
	}
	p, ok := a.Selection().ActiveCell()
	if !ok {
		return nil
	}
	index := p.Row
	if axis == grid.AxisColumn {
		index = p.Col
	}
	sess := a.BeginResize(axis, index)
	a.ApplyResize(sess, n)
	if cmd := a.CommitResize(sess); cmd != nil {
		a.setStatus(grid.Label(cmd), false)
	}
	return nil
}
