package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/jask/gridsheet/internal/grid"
	"github.com/jask/gridsheet/internal/input"
)

// Config holds application configuration.
type Config struct {
	Grid     GridConfig
	Geometry GeometryConfig
	Viewport ViewportConfig
	History  HistoryConfig
	Database DatabaseConfig
	Log      LogConfig
	UI       UIConfig
}

// GridConfig sizes a new sheet.
type GridConfig struct {
	Rows               int `mapstructure:"rows"`
	Columns            int `mapstructure:"columns"`
	DefaultRowHeight   int `mapstructure:"default_row_height"`
	DefaultColumnWidth int `mapstructure:"default_column_width"`
	MinRowHeight       int `mapstructure:"min_row_height"`
	MinColumnWidth     int `mapstructure:"min_column_width"`
	DefaultFontSize    int `mapstructure:"default_font_size"`
}

// GeometryConfig holds the header and pointer constants.
type GeometryConfig struct {
	ColumnHeaderHeight int `mapstructure:"column_header_height"`
	RowHeaderWidth     int `mapstructure:"row_header_width"`
	ResizeGutter       int `mapstructure:"resize_gutter"`
	DragThreshold      int `mapstructure:"drag_threshold"`
}

type ViewportConfig struct {
	Overscan int `mapstructure:"overscan"`
}

// HistoryConfig bounds undo depth; zero keeps everything.
type HistoryConfig struct {
	Limit int `mapstructure:"limit"`
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Path  string `mapstructure:"path"`
	Level string `mapstructure:"level"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	FrameIntervalMS int `mapstructure:"frame_interval_ms"`
}

var errInvalid = errors.New("invalid config")

func setDefaults(v *viper.Viper) {
	home := os.Getenv("HOME")
	v.SetDefault("grid.rows", 100000)
	v.SetDefault("grid.columns", 2000)
	v.SetDefault("grid.default_row_height", 1)
	v.SetDefault("grid.default_column_width", 10)
	v.SetDefault("grid.min_row_height", 1)
	v.SetDefault("grid.min_column_width", 3)
	v.SetDefault("grid.default_font_size", grid.DefaultFontSize)
	v.SetDefault("geometry.column_header_height", 1)
	v.SetDefault("geometry.row_header_width", 6)
	v.SetDefault("geometry.resize_gutter", 1)
	v.SetDefault("geometry.drag_threshold", 1)
	v.SetDefault("viewport.overscan", 2)
	v.SetDefault("history.limit", 0)
	v.SetDefault("database.path", filepath.Join(home, ".local", "share", "gridsheet", "gridsheet.db"))
	v.SetDefault("log.path", filepath.Join(home, ".local", "state", "gridsheet", "gridsheet.log"))
	v.SetDefault("log.level", "info")
	v.SetDefault("ui.frame_interval_ms", 16)
}

// Path returns the config file location: GRIDSHEET_CONFIG when set,
// otherwise ~/.config/gridsheet/config.toml.
func Path() string {
	if p := os.Getenv("GRIDSHEET_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "gridsheet", "config.toml")
}

// Load reads configuration from file and env. An empty path uses Path().
// A missing file is not an error. Env var overrides use prefix GRIDSHEET_.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")
	if path == "" {
		path = Path()
	}
	v.SetConfigFile(path)

	v.SetEnvPrefix("GRIDSHEET")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Default returns the configuration Load produces with no file and no env.
// It panics if the built-in defaults cannot be decoded or fail validation.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		panic(fmt.Sprintf("config: decode defaults: %v", err))
	}
	if err := c.Validate(); err != nil {
		panic(fmt.Sprintf("config: invalid defaults: %v", err))
	}
	return c
}

// Save writes cfg as TOML to path (or Path() when empty), creating the
// directory if needed.
func Save(path string, cfg Config) error {
	if path == "" {
		path = Path()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("grid.rows", cfg.Grid.Rows)
	v.Set("grid.columns", cfg.Grid.Columns)
	v.Set("grid.default_row_height", cfg.Grid.DefaultRowHeight)
	v.Set("grid.default_column_width", cfg.Grid.DefaultColumnWidth)
	v.Set("grid.min_row_height", cfg.Grid.MinRowHeight)
	v.Set("grid.min_column_width", cfg.Grid.MinColumnWidth)
	v.Set("grid.default_font_size", cfg.Grid.DefaultFontSize)
	v.Set("geometry.column_header_height", cfg.Geometry.ColumnHeaderHeight)
	v.Set("geometry.row_header_width", cfg.Geometry.RowHeaderWidth)
	v.Set("geometry.resize_gutter", cfg.Geometry.ResizeGutter)
	v.Set("geometry.drag_threshold", cfg.Geometry.DragThreshold)
	v.Set("viewport.overscan", cfg.Viewport.Overscan)
	v.Set("history.limit", cfg.History.Limit)
	v.Set("database.path", cfg.Database.Path)
	v.Set("log.path", cfg.Log.Path)
	v.Set("log.level", cfg.Log.Level)
	v.Set("ui.frame_interval_ms", cfg.UI.FrameIntervalMS)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Validate reports every out-of-range setting at once.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{errInvalid}, args...)...))
		}
	}
	g := c.Grid
	check(g.Rows >= 1, "grid.rows must be at least 1, got %d", g.Rows)
	check(g.Columns >= 1, "grid.columns must be at least 1, got %d", g.Columns)
	check(g.MinRowHeight >= 1, "grid.min_row_height must be at least 1, got %d", g.MinRowHeight)
	check(g.MinColumnWidth >= 1, "grid.min_column_width must be at least 1, got %d", g.MinColumnWidth)
	check(g.DefaultRowHeight >= g.MinRowHeight, "grid.default_row_height %d is below the minimum %d", g.DefaultRowHeight, g.MinRowHeight)
	check(g.DefaultColumnWidth >= g.MinColumnWidth, "grid.default_column_width %d is below the minimum %d", g.DefaultColumnWidth, g.MinColumnWidth)
	check(g.DefaultFontSize >= 1, "grid.default_font_size must be at least 1, got %d", g.DefaultFontSize)
	check(c.Geometry.ColumnHeaderHeight >= 1, "geometry.column_header_height must be at least 1")
	check(c.Geometry.RowHeaderWidth >= 1, "geometry.row_header_width must be at least 1")
	check(c.Geometry.ResizeGutter >= 0, "geometry.resize_gutter must not be negative")
	check(c.Geometry.DragThreshold >= 1, "geometry.drag_threshold must be at least 1")
	check(c.Viewport.Overscan >= 0, "viewport.overscan must not be negative")
	check(c.History.Limit >= 0, "history.limit must not be negative")
	check(c.UI.FrameIntervalMS > 0, "ui.frame_interval_ms must be positive")
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("%w: log.level %q is not one of debug, info, warn, error", errInvalid, c.Log.Level))
	}
	return errors.Join(errs...)
}

// Engine converts the grid settings into an engine configuration.
func (c Config) Engine() grid.Config {
	return grid.Config{
		Rows:               c.Grid.Rows,
		Columns:            c.Grid.Columns,
		DefaultRowHeight:   c.Grid.DefaultRowHeight,
		DefaultColumnWidth: c.Grid.DefaultColumnWidth,
		MinRowHeight:       c.Grid.MinRowHeight,
		MinColumnWidth:     c.Grid.MinColumnWidth,
		DefaultFontSize:    c.Grid.DefaultFontSize,
		HistoryLimit:       c.History.Limit,
		Overscan:           c.Viewport.Overscan,
	}
}

// Pointer converts the geometry settings for the input dispatcher.
func (c Config) Pointer() input.Geometry {
	return input.Geometry{
		ColumnHeaderHeight: c.Geometry.ColumnHeaderHeight,
		RowHeaderWidth:     c.Geometry.RowHeaderWidth,
		ResizeGutter:       c.Geometry.ResizeGutter,
		DragThreshold:      c.Geometry.DragThreshold,
	}
}

// IsInvalid reports whether err came from Validate.
func IsInvalid(err error) bool { return errors.Is(err, errInvalid) }
