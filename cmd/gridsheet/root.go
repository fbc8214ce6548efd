package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jask/gridsheet/internal/config"
	"github.com/jask/gridsheet/internal/database"
	"github.com/jask/gridsheet/internal/database/repository"
	"github.com/jask/gridsheet/internal/formula"
	"github.com/jask/gridsheet/internal/logging"
	"github.com/jask/gridsheet/internal/tui"
)

type rootOptions struct {
	configPath string
	source     string
	query      string
	at         string
	literal    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "gridsheet",
		Short: "gridsheet – a terminal spreadsheet",
		Long:  "gridsheet opens a virtualized, editable grid in the terminal and can load sqlite query results into it.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default "+config.Path()+")")
	cmd.Flags().StringVar(&opts.source, "db", "", "sqlite file to import from")
	cmd.Flags().StringVar(&opts.query, "query", "", "query whose result is loaded on start (needs --db)")
	cmd.Flags().StringVar(&opts.at, "at", "A1", "cell the imported block starts at")
	cmd.Flags().BoolVar(&opts.literal, "literal", false, "store imported values starting with = as text, not formulas")
	cmd.MarkFlagsRequiredTogether("db", "query")

	cmd.AddCommand(newHistoryCmd(opts), newConfigCmd(opts))
	return cmd
}

// session is the open history store and the logger tagged with this run.
type session struct {
	id      string
	log     *log.Logger
	imports *repository.ImportRepo
	closers []io.Closer
}

func (s *session) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		_ = s.closers[i].Close()
	}
}

func openSession(cfg config.Config) (*session, error) {
	logger, logCloser, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	s := &session{id: uuid.NewString(), closers: []io.Closer{logCloser}}
	s.log = logger.With("session", s.id)

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		s.Close()
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}
	if err := database.RunMigrations(cfg.Database.Path); err != nil {
		s.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("open db: %w", err)
	}
	s.closers = append(s.closers, db)
	s.imports = repository.NewImportRepo(db)
	return s, nil
}

func run(ctx context.Context, opts *rootOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	sess, err := openSession(cfg)
	if err != nil {
		return err
	}
	defer sess.Close()
	sess.log.Info("start", "rows", cfg.Grid.Rows, "columns", cfg.Grid.Columns)

	app := tui.New(cfg, tui.WithLogger(sess.log), tui.WithImports(sess.imports, sess.id), tui.WithLiteralImport(opts.literal))
	if opts.query != "" {
		at, err := formula.ParseRef(opts.at)
		if err != nil {
			return fmt.Errorf("--at: %w", err)
		}
		app.Selection().SelectCell(at.Row, at.Col)
		if _, err := app.ImportQuery(ctx, opts.source, opts.query); err != nil {
			return err
		}
	}

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithReportFocus())
	if _, err := p.Run(); err != nil {
		return err
	}
	sess.log.Info("exit")
	return nil
}
