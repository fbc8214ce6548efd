// Package source reads tabular data from sqlite databases and loads it into
// a grid through the bulk-import path.
package source

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/jask/gridsheet/internal/database/repository"
	"github.com/jask/gridsheet/internal/formula"
	"github.com/jask/gridsheet/internal/grid"
)

// ErrEmptyQuery is returned for a blank query.
var ErrEmptyQuery = errors.New("source: empty query")

// Result is a query result with every value rendered as cell text.
type Result struct {
	Columns []string
	Types   []string
	Rows    [][]string
}

// Values returns the result as a 2D block, optionally led by the column
// names.
func (r Result) Values(header bool) [][]string {
	if !header {
		return r.Rows
	}
	out := make([][]string, 0, len(r.Rows)+1)
	out = append(out, r.Columns)
	return append(out, r.Rows...)
}

// Query runs query against db and collects at most limit rows. A limit of
// zero or less reads every row.
func Query(ctx context.Context, db *sql.DB, query string, limit int) (Result, error) {
	if strings.TrimSpace(query) == "" {
		return Result{}, ErrEmptyQuery
	}
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return Result{}, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return Result{}, fmt.Errorf("columns: %w", err)
	}
	res := Result{Columns: cols, Types: make([]string, len(cols))}
	if types, err := rows.ColumnTypes(); err == nil {
		for i, ct := range types {
			res.Types[i] = ct.DatabaseTypeName()
		}
	}

	raw := make([]any, len(cols))
	dest := make([]any, len(cols))
	for i := range raw {
		dest[i] = &raw[i]
	}
	for rows.Next() {
		if limit > 0 && len(res.Rows) >= limit {
			break
		}
		if err := rows.Scan(dest...); err != nil {
			return Result{}, fmt.Errorf("scan row %d: %w", len(res.Rows), err)
		}
		line := make([]string, len(cols))
		for i, v := range raw {
			line[i] = FormatValue(v)
		}
		res.Rows = append(res.Rows, line)
	}
	return res, rows.Err()
}

// FormatValue renders a driver value as cell text. NULL is empty.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(x)
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return formula.FormatNumber(x)
	case bool:
		if x {
			return "TRUE"
		}
		return "FALSE"
	case time.Time:
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprint(x)
	}
}

// Options place and shape an import.
type Options struct {
	Top    int
	Left   int
	Header bool
	Limit  int
	// Literal stores every value as plain text. Without it a value starting
	// with "=" is imported as a formula and evaluated.
	Literal bool
}

// Importer loads query results into a grid and records each load in the
// import history when a repository is set.
type Importer struct {
	Grid    *grid.Grid
	Imports *repository.ImportRepo
	Log     *log.Logger
	Session string
}

// Import runs query against src and writes the result into the grid as one
// batch. name identifies the source in the history. Text values starting
// with "=" become formulas unless opts.Literal is set.
func (im *Importer) Import(ctx context.Context, src *sql.DB, name, query string, opts Options) (repository.Import, error) {
	res, err := Query(ctx, src, query, opts.Limit)
	if err != nil {
		return repository.Import{}, err
	}
	values := res.Values(opts.Header)
	var written int
	if opts.Literal {
		written = im.Grid.ImportLiteral(opts.Top, opts.Left, values)
	} else {
		written = im.Grid.Import(opts.Top, opts.Left, values)
	}

	rec := repository.Import{
		SessionID:    im.Session,
		Source:       name,
		Query:        query,
		Top:          opts.Top,
		Left:         opts.Left,
		Rows:         len(values),
		Cols:         len(res.Columns),
		CellsWritten: written,
	}
	if im.Log != nil {
		im.Log.Info("import", "source", name, "rows", rec.Rows, "cols", rec.Cols, "cells", written)
	}
	if im.Imports == nil {
		return rec, nil
	}
	rec, err = im.Imports.Record(ctx, rec)
	if err != nil {
		return rec, fmt.Errorf("record import: %w", err)
	}
	return rec, nil
}
