package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gridcanvas/pkg/catalog"
	"github.com/matzehuels/gridcanvas/pkg/constraint"
	"github.com/matzehuels/gridcanvas/pkg/grid"
)

// catalogCommand creates the "catalog" command.
func (c *CLI) catalogCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List the widget types that can be added",
		Long: `List the widget catalog. Minimum sizes are shown in pixels and in grid units
for the configured container width.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			cat, err := loadCatalog(cfg)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), catalogTable(cat.Entries(), cfg.Grid))
			return nil
		},
	}
}

// catalogTable renders entries as a bordered table.
func catalogTable(entries []catalog.Entry, c grid.Config) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		limits := constraint.Derive(e.Constraints(), c)
		ratio := "-"
		if e.AspectRatio != nil {
			ratio = fmt.Sprintf("%.2f", *e.AspectRatio)
			if e.LockAspectRatio {
				ratio += " locked"
			}
		}
		requires := "-"
		if len(e.RequiredEntities) > 0 {
			requires = strings.Join(e.RequiredEntities, ", ")
		}
		rows = append(rows, []string{
			e.ID,
			e.Title,
			fmt.Sprintf("%gx%g", e.MinWidthPx, e.MinHeightPx),
			fmt.Sprintf("%dx%d", limits.MinW, limits.MinH),
			ratio,
			requires,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Title", "Min px", "Min units", "Ratio", "Requires").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0:
				return StyleHighlight
			case col >= 4:
				return StyleDim
			}
			return lipgloss.NewStyle()
		})
	return t.Render()
}
