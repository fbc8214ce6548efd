package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/jask/gridsheet/internal/config"
	"github.com/jask/gridsheet/internal/formula"
)

func newHistoryCmd(root *rootOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent imports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(root.configPath)
			if err != nil {
				return err
			}
			sess, err := openSession(cfg)
			if err != nil {
				return err
			}
			defer sess.Close()

			imports, err := sess.imports.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(imports) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no imports yet")
				return nil
			}
			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("WHEN", "SOURCE", "AT", "SIZE", "CELLS", "QUERY")
			for _, imp := range imports {
				t.Row(
					imp.CreatedAt.Local().Format("2006-01-02 15:04"),
					imp.Source,
					formula.Ref{Row: imp.Top, Col: imp.Left}.String(),
					fmt.Sprintf("%d×%d", imp.Rows, imp.Cols),
					strconv.Itoa(imp.CellsWritten),
					imp.Query,
				)
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of imports to show (0 for all)")
	return cmd
}
