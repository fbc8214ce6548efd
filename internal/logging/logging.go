package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	clog "github.com/charmbracelet/log"

	"github.com/jask/gridsheet/internal/config"
)

// New returns the application logger. The terminal belongs to the sheet, so
// output goes to the configured file; an empty path discards everything.
// The returned closer releases the file.
func New(cfg config.LogConfig) (*clog.Logger, io.Closer, error) {
	level, err := clog.ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("log level: %w", err)
	}
	if cfg.Path == "" {
		l := clog.New(io.Discard)
		l.SetLevel(level)
		return l, nopCloser{}, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("mkdir log dir: %w", err)
	}
	f, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log: %w", err)
	}
	l := clog.NewWithOptions(f, clog.Options{
		ReportTimestamp: true,
		Level:           level,
		Prefix:          "gridsheet",
	})
	return l, f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
