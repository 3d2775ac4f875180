package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gridcanvas/pkg/errors"
	"github.com/matzehuels/gridcanvas/pkg/permission"
	"github.com/matzehuels/gridcanvas/pkg/persist"
	"github.com/matzehuels/gridcanvas/pkg/snapshot"
)

// showCommand creates the "show" command.
func (c *CLI) showCommand() *cobra.Command {
	var (
		asJSON bool
		plain  bool
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the canvas",
		Long: `Print the canvas as a character grid with one cell per grid unit, followed
by a legend. Overlapping cells are drawn as '#'. With --json the persisted
document is printed instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, closeStore, err := c.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			instances := sess.Instances()
			out := cmd.OutOrStdout()
			if asJSON {
				data, err := persist.Encode(instances)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, string(data))
				return err
			}

			if len(instances) == 0 {
				printInfo("Canvas is empty")
				printNextStep("Add a widget", appName+" add <widget>")
				return nil
			}
			fmt.Fprint(out, snapshot.Text(instances, sess.Grid(), snapshot.Options{Plain: plain}))
			printCanvasStats(len(instances), overlapCount(instances))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the persisted JSON document")
	cmd.Flags().BoolVar(&plain, "plain", false, "disable colors")
	return cmd
}

// containerCommand creates the "container" command.
func (c *CLI) containerCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "container <width-px>",
		Short: "Resize the canvas container and revalidate widget minimums",
		Long: `Resize the canvas container. Column widths change with the container, so every
widget's minimum size in grid units is recomputed and widgets smaller than
their new minimum grow.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			px, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return errors.New(errors.ErrCodeInvalidInput, "container width %q is not a number", args[0])
			}
			sess, closeStore, err := c.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			before := sess.Instances()
			if err := sess.ContainerResized(cmd.Context(), px); err != nil {
				return err
			}
			grown := 0
			for i, inst := range sess.Instances() {
				if inst.Layout.W != before[i].Layout.W || inst.Layout.H != before[i].Layout.H {
					grown++
					printDetail("%s grew to %dx%d", inst.ID, inst.Layout.W, inst.Layout.H)
				}
			}
			printSuccess("Container is %gpx, column width %.1fpx", px, sess.Grid().ColumnWidth())
			if grown > 0 {
				printInfo("%d widget(s) resized to their new minimum", grown)
			}
			return nil
		},
	}
}

// permissionsCommand creates the "permissions" command.
func (c *CLI) permissionsCommand() *cobra.Command {
	var (
		grants []string
		views  []string
	)

	cmd := &cobra.Command{
		Use:   "permissions",
		Short: "Apply a permission set and drop widgets the user can no longer see",
		Long: `Apply a permission set to the stored canvas. Widgets whose required entities
are no longer accessible are removed from the canvas.

Views are given as name=base1,base2 and grant access when every base table
is accessible.`,
		Example: `  gridcanvas permissions --grant orders --grant customers
  gridcanvas permissions --grant orders --view revenue=orders,payments`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			viewMap, err := parseViews(views)
			if err != nil {
				return err
			}
			sess, closeStore, err := c.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			perms := permission.NewSet(grants...)
			dropped := sess.PermissionsChanged(cmd.Context(), perms, viewMap)
			if len(dropped) == 0 {
				printSuccess("All %d widgets remain visible", len(sess.Instances()))
				return nil
			}
			printWarning("Dropped %d widget(s)", len(dropped))
			for _, id := range dropped {
				printDetail("%s", id)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&grants, "grant", nil, "granted entity (repeatable, * for all)")
	cmd.Flags().StringArrayVar(&views, "view", nil, "view definition as name=base1,base2 (repeatable)")
	return cmd
}

// parseViews parses name=base1,base2 view definitions.
func parseViews(defs []string) (permission.ViewBaseTableMap, error) {
	out := make(permission.ViewBaseTableMap, len(defs))
	for _, def := range defs {
		name, bases, ok := strings.Cut(def, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" || bases == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "view %q is not name=base1,base2", def)
		}
		for _, b := range strings.Split(bases, ",") {
			if b = strings.TrimSpace(b); b != "" {
				out[name] = append(out[name], b)
			}
		}
	}
	return out, nil
}
