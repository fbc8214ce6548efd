package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/gridsheet/internal/config"
	"github.com/jask/gridsheet/internal/database/repository"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("GRIDSHEET_CONFIG", "")
	return home
}

func TestConfigInitWritesDefaults(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "conf", "gridsheet.toml")

	out, err := execute(t, "config", "init", "--config", path)
	require.NoError(t, err)
	require.Contains(t, out, path)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, config.Default(), cfg)

	_, err = execute(t, "config", "init", "--config", path)
	require.ErrorContains(t, err, "exists")

	_, err = execute(t, "config", "init", "--config", path, "--force")
	require.NoError(t, err)
}

func TestConfigPath(t *testing.T) {
	home := isolate(t)

	out, err := execute(t, "config", "path")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, ".config", "gridsheet", "config.toml")+"\n", out)
}

func TestHistoryListsImports(t *testing.T) {
	isolate(t)

	out, err := execute(t, "history")
	require.NoError(t, err)
	require.Contains(t, out, "no imports yet")

	cfg := config.Default()
	sess, err := openSession(cfg)
	require.NoError(t, err)
	_, err = sess.imports.Record(context.Background(), repository.Import{
		SessionID:    sess.id,
		Source:       "sales.db",
		Query:        "SELECT * FROM orders",
		Top:          1,
		Left:         2,
		Rows:         3,
		Cols:         4,
		CellsWritten: 12,
	})
	require.NoError(t, err)
	sess.Close()

	out, err = execute(t, "history", "-n", "5")
	require.NoError(t, err)
	require.Contains(t, out, "sales.db")
	require.Contains(t, out, "C2")
	require.Contains(t, out, "3×4")
	require.Contains(t, out, "SELECT * FROM orders")
}

func TestQueryNeedsSource(t *testing.T) {
	isolate(t)

	_, err := execute(t, "--query", "SELECT 1")
	require.Error(t, err)
}
