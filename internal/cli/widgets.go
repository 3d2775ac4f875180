package cli

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gridcanvas/pkg/canvas"
	"github.com/matzehuels/gridcanvas/pkg/collision"
	"github.com/matzehuels/gridcanvas/pkg/errors"
)

// addCommand creates the "add" command.
func (c *CLI) addCommand() *cobra.Command {
	var params []string

	cmd := &cobra.Command{
		Use:               "add <widget>",
		Short:             "Place a new widget from the catalog",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeCatalogIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parseParams(params)
			if err != nil {
				return err
			}
			sess, closeStore, err := c.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			inst, err := sess.AddWidget(cmd.Context(), args[0], p)
			if err != nil {
				return err
			}
			printSuccess("Added %s", StyleHighlight.Render(inst.ID))
			printLayout(inst)
			if overlaps := overlapCount(sess.Instances()); overlaps > 0 {
				printWarning("Placement overlaps %d other widget(s)", overlaps)
				printNextStep("Move it", fmt.Sprintf("%s move %s <x> <y>", appName, inst.ID))
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "widget parameter as key=value (repeatable)")
	return cmd
}

// removeCommand creates the "remove" command.
func (c *CLI) removeCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "remove <id>",
		Aliases:           []string{"rm"},
		Short:             "Remove a widget from the canvas",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeInstanceIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, closeStore, err := c.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			if err := sess.RemoveWidget(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess("Removed %s", args[0])
			return nil
		},
	}
}

// moveCommand creates the "move" command: a complete drag gesture.
func (c *CLI) moveCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "move <id> <x> <y>",
		Short:             "Drag a widget to a grid position",
		Long:              `Drag a widget to a grid position. The move is reverted if the widget would overlap another one.`,
		Args:              cobra.ExactArgs(3),
		ValidArgsFunction: c.completeInstanceIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			x, y, err := parsePair(args[1], args[2])
			if err != nil {
				return err
			}
			sess, closeStore, err := c.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			ctx := cmd.Context()
			if _, err := sess.DragMove(ctx, args[0], x, y); err != nil {
				return err
			}
			l, err := sess.DragStop(ctx, args[0], x, y)
			if err != nil {
				return err
			}
			inst, _ := sess.Get(args[0])
			if l.X != x || l.Y != y {
				printWarning("Move reverted: (%d,%d) collides with another widget", x, y)
			} else {
				printSuccess("Moved %s", args[0])
			}
			printLayout(inst)
			return nil
		},
	}
}

// resizeCommand creates the "resize" command: a complete resize gesture.
func (c *CLI) resizeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "resize <id> <w> <h>",
		Short: "Resize a widget in grid units",
		Long: `Resize a widget in grid units. The size is raised to the widget's minimum and,
for widgets with a locked aspect ratio, the height follows the width. The
resize is reverted if the widget would overlap another one.`,
		Args:              cobra.ExactArgs(3),
		ValidArgsFunction: c.completeInstanceIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, h, err := parsePair(args[1], args[2])
			if err != nil {
				return err
			}
			sess, closeStore, err := c.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			ctx := cmd.Context()
			before, ok := sess.Get(args[0])
			if !ok {
				return errors.New(errors.ErrCodeNotFoundInstance, "no widget instance %q", args[0])
			}
			if _, err := sess.ResizeMove(ctx, args[0], w, h); err != nil {
				return err
			}
			l, err := sess.ResizeStop(ctx, args[0], w, h)
			if err != nil {
				return err
			}
			inst, _ := sess.Get(args[0])
			switch {
			case l.W == before.Layout.W && l.H == before.Layout.H && (w != l.W || h != l.H):
				printWarning("Resize reverted or clamped to the current size")
			case l.W != w || l.H != h:
				printInfo("Resized %s to %dx%d (constrained from %dx%d)", args[0], l.W, l.H, w, h)
			default:
				printSuccess("Resized %s", args[0])
			}
			printLayout(inst)
			return nil
		},
	}
}

// paramsCommand creates the "params" command.
func (c *CLI) paramsCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "params <id> key=value...",
		Short:             "Set widget parameters",
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: c.completeInstanceIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			patch, err := parseParams(args[1:])
			if err != nil {
				return err
			}
			sess, closeStore, err := c.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			if len(patch) > 0 {
				if err := sess.EditParams(cmd.Context(), args[0], patch); err != nil {
					return err
				}
			}
			inst, ok := sess.Get(args[0])
			if !ok {
				return errors.New(errors.ErrCodeNotFoundInstance, "no widget instance %q", args[0])
			}
			for _, k := range sortedKeys(inst.Params) {
				printKeyValue(k, fmt.Sprint(inst.Params[k]))
			}
			return nil
		},
	}
}

// =============================================================================
// Argument Parsing
// =============================================================================

// parseParams parses key=value pairs. Values that are valid JSON (numbers,
// booleans, null, quoted strings, arrays, objects) are decoded; anything
// else is kept as a plain string.
func parseParams(pairs []string) (map[string]any, error) {
	out := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "parameter %q is not key=value", pair)
		}
		k = strings.TrimSpace(k)
		if err := errors.ValidateParamKey(k); err != nil {
			return nil, err
		}
		var decoded any
		if err := json.Unmarshal([]byte(v), &decoded); err == nil {
			out[k] = decoded
		} else {
			out[k] = v
		}
	}
	return out, nil
}

// parsePair parses two non-negative grid coordinates.
func parsePair(a, b string) (int, int, error) {
	x, err := strconv.Atoi(a)
	if err != nil || x < 0 {
		return 0, 0, errors.New(errors.ErrCodeInvalidInput, "expected a non-negative integer, got %q", a)
	}
	y, err := strconv.Atoi(b)
	if err != nil || y < 0 {
		return 0, 0, errors.New(errors.ErrCodeInvalidInput, "expected a non-negative integer, got %q", b)
	}
	return x, y, nil
}

func overlapCount(instances []canvas.WidgetInstance) int {
	return len(collision.Overlapping(canvas.Boxes(instances)))
}

func sortedKeys(m map[string]any) []string {
	return slices.Sorted(maps.Keys(m))
}
