package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ImportRepo records bulk loads into the sheet.
type ImportRepo struct {
	db *sql.DB
}

func NewImportRepo(db *sql.DB) *ImportRepo { return &ImportRepo{db: db} }

// Record stores imp, assigning an ID and timestamp when missing, and returns
// the stored row.
func (r *ImportRepo) Record(ctx context.Context, imp Import) (Import, error) {
	if imp.ID == "" {
		imp.ID = uuid.NewString()
	}
	if imp.CreatedAt.IsZero() {
		imp.CreatedAt = time.Now().UTC().Truncate(time.Second)
	}
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO imports(id, session_id, source, query, top_row, left_col, row_count, col_count, cells_written, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`, imp.ID, imp.SessionID, imp.Source, imp.Query, imp.Top, imp.Left, imp.Rows, imp.Cols, imp.CellsWritten, imp.CreatedAt)
	if err != nil {
		return Import{}, err
	}
	return imp, nil
}

const importColumns = `id, session_id, source, query, top_row, left_col, row_count, col_count, cells_written, created_at`

// List returns up to limit imports, newest first. A limit of zero or less
// returns every row.
func (r *ImportRepo) List(ctx context.Context, limit int) ([]Import, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.QueryContext(ctx, `SELECT `+importColumns+` FROM imports ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Import
	for rows.Next() {
		imp, err := scanImport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, imp)
	}
	return out, rows.Err()
}

// ByID returns the import with id, or nil when there is none.
func (r *ImportRepo) ByID(ctx context.Context, id string) (*Import, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+importColumns+` FROM imports WHERE id = ?`, id)
	imp, err := scanImport(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &imp, nil
}

// CountBySession returns how many imports a session recorded.
func (r *ImportRepo) CountBySession(ctx context.Context, sessionID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM imports WHERE session_id = ?`, sessionID).Scan(&n)
	return n, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanImport(s scanner) (Import, error) {
	var imp Import
	err := s.Scan(&imp.ID, &imp.SessionID, &imp.Source, &imp.Query, &imp.Top, &imp.Left,
		&imp.Rows, &imp.Cols, &imp.CellsWritten, &imp.CreatedAt)
	return imp, err
}
