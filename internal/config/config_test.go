package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
	require.Equal(t, 100000, cfg.Grid.Rows)
	require.Equal(t, 2000, cfg.Grid.Columns)
	require.Equal(t, 2, cfg.Viewport.Overscan)
	require.Equal(t, "info", cfg.Log.Level)
}

func TestDefaultIsValid(t *testing.T) {
	var cfg Config
	require.NotPanics(t, func() { cfg = Default() })
	require.NoError(t, cfg.Validate())
	require.Equal(t, 1, cfg.Geometry.DragThreshold)
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
[grid]
rows = 500
default_column_width = 12

[geometry]
row_header_width = 8

[history]
limit = 50
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	t.Setenv("GRIDSHEET_GRID_COLUMNS", "40")
	t.Setenv("GRIDSHEET_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 500, cfg.Grid.Rows)
	require.Equal(t, 40, cfg.Grid.Columns)
	require.Equal(t, 12, cfg.Grid.DefaultColumnWidth)
	require.Equal(t, 8, cfg.Geometry.RowHeaderWidth)
	require.Equal(t, "debug", cfg.Log.Level)

	eng := cfg.Engine()
	require.Equal(t, 50, eng.HistoryLimit)
	require.Equal(t, 40, eng.Columns)
	require.Equal(t, 8, cfg.Pointer().RowHeaderWidth)
}

func TestLoadUsesConfigEnvPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte("[viewport]\noverscan = 7\n"), 0o644))
	t.Setenv("GRIDSHEET_CONFIG", path)

	require.Equal(t, path, Path())
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, 7, cfg.Viewport.Overscan)
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[grid]\nrows = 0\nmin_column_width = 20\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	require.True(t, IsInvalid(err))
	require.Contains(t, err.Error(), "grid.rows")
	require.Contains(t, err.Error(), "grid.default_column_width")
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[grid\nrows = "), 0o644))
	_, err := Load(path)
	require.Error(t, err)
	require.False(t, IsInvalid(err))
}

func TestValidateLogLevel(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "loud"
	err := cfg.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "log.level")
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := Default()
	cfg.Grid.Rows = 321
	cfg.Geometry.DragThreshold = 3
	cfg.Database.Path = "/tmp/sheet.db"

	require.NoError(t, Save(path, cfg))
	got, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg, got)
}
