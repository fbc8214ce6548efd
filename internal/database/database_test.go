package database

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/gridsheet/internal/database/repository"
)

func testDB(t *testing.T) (*sql.DB, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gridsheet-test.db")
	require.NoError(t, RunMigrations(path))
	db, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, path
}

func TestRunMigrationsCreatesImports(t *testing.T) {
	db, path := testDB(t)

	var name string
	err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'imports'`).Scan(&name)
	require.NoError(t, err)
	require.Equal(t, "imports", name)

	v, dirty, err := SchemaVersion(path)
	require.NoError(t, err)
	require.False(t, dirty)
	require.EqualValues(t, 1, v)
}

func TestRunMigrationsIsIdempotent(t *testing.T) {
	_, path := testDB(t)
	require.NoError(t, RunMigrations(path))
}

func TestSchemaVersionFreshDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fresh.db")
	v, dirty, err := SchemaVersion(path)
	require.NoError(t, err)
	require.False(t, dirty)
	require.Zero(t, v)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	db, _ := testDB(t)
	repoErr := sql.ErrTxDone

	err := WithTx(db, func(tx *sql.Tx) error {
		_, err := tx.Exec(`INSERT INTO imports(id, session_id, source, query) VALUES ('a', 's', 'src', 'q')`)
		require.NoError(t, err)
		return repoErr
	})
	require.ErrorIs(t, err, repoErr)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM imports`).Scan(&n))
	require.Zero(t, n)
}

func TestOpenReadOnlyRejectsWrites(t *testing.T) {
	_, path := testDB(t)
	ro, err := OpenReadOnly(path)
	require.NoError(t, err)
	defer ro.Close()

	_, err = ro.Exec(`INSERT INTO imports(id, session_id, source, query) VALUES ('a', 's', 'src', 'q')`)
	require.Error(t, err)
}

func TestImportRepoRecordAndList(t *testing.T) {
	db, _ := testDB(t)
	repo := repository.NewImportRepo(db)
	ctx := context.Background()

	base := Now()
	first, err := repo.Record(ctx, repository.Import{
		SessionID: "s1", Source: "data.db", Query: "select 1",
		Rows: 1, Cols: 1, CellsWritten: 1, CreatedAt: base,
	})
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)

	second, err := repo.Record(ctx, repository.Import{
		SessionID: "s1", Source: "data.db", Query: "select * from t",
		Top: 2, Left: 1, Rows: 10, Cols: 3, CellsWritten: 30, CreatedAt: base.Add(time.Minute),
	})
	require.NoError(t, err)

	all, err := repo.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, second.ID, all[0].ID)
	require.Equal(t, 30, all[0].CellsWritten)
	require.Equal(t, 2, all[0].Top)
	require.True(t, all[0].CreatedAt.Equal(second.CreatedAt))

	limited, err := repo.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)

	got, err := repo.ByID(ctx, first.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "select 1", got.Query)

	missing, err := repo.ByID(ctx, "nope")
	require.NoError(t, err)
	require.Nil(t, missing)

	n, err := repo.CountBySession(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, 2, n)
}

func TestImportRepoDefaultsTimestamp(t *testing.T) {
	db, _ := testDB(t)
	repo := repository.NewImportRepo(db)

	imp, err := repo.Record(context.Background(), repository.Import{SessionID: "s", Source: "x", Query: "q"})
	require.NoError(t, err)
	require.False(t, imp.CreatedAt.IsZero())
	require.Equal(t, time.UTC, imp.CreatedAt.Location())
}
