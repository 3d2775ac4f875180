package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gridcanvas/pkg/canvas"
	"github.com/matzehuels/gridcanvas/pkg/errors"
	"github.com/matzehuels/gridcanvas/pkg/grid"
	"github.com/matzehuels/gridcanvas/pkg/snapshot"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string  // output file path; stdout when empty
	format   string  // svg, png, pdf, dot or text
	detailed bool    // add grid geometry to labels
	scale    float64 // PNG scale factor
}

// validFormats is the set of supported output formats.
var validFormats = map[string]bool{"svg": true, "png": true, "pdf": true, "dot": true, "text": true}

// renderCommand creates the "render" command.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{scale: 2.0}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Draw the canvas as an image",
		Long: `Draw the canvas with Graphviz. Every widget becomes a box pinned at its grid
position. Overlapping widgets are highlighted.

PNG and PDF output require rsvg-convert (librsvg) on PATH.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.format == "" {
				opts.format = formatFromPath(opts.output)
			}
			if !validFormats[opts.format] {
				return errors.New(errors.ErrCodeInvalidInput, "invalid format: %s (must be 'svg', 'png', 'pdf', 'dot' or 'text')", opts.format)
			}

			sess, closeStore, err := c.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			prog := newProgress(c.Logger)
			data, err := renderCanvas(cmd.Context(), sess.Instances(), sess.Grid(), &opts)
			if err != nil {
				return err
			}
			c.Logger.Debugf("Generated %s: %d bytes", opts.format, len(data))

			out, err := openOutput(opts.output, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer out.Close()
			if _, err := out.Write(data); err != nil {
				return err
			}
			if opts.output != "" {
				prog.done("Rendered canvas")
				printFile(opts.output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: svg (default), png, pdf, dot, text")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show grid geometry in every box")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")
	return cmd
}

// renderCanvas dispatches to the renderer for opts.format.
func renderCanvas(ctx context.Context, instances []canvas.WidgetInstance, c grid.Config, opts *renderOpts) ([]byte, error) {
	snap := snapshot.Options{Detailed: opts.detailed}

	if opts.format == "text" {
		snap.Plain = true
		return []byte(snapshot.Text(instances, c, snap)), nil
	}

	dot := snapshot.ToDOT(instances, c, snap)
	if opts.format == "dot" {
		return []byte(dot), nil
	}

	svg, err := snapshot.RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	switch opts.format {
	case "png":
		return snapshot.ToPNG(ctx, svg, opts.scale)
	case "pdf":
		return snapshot.ToPDF(ctx, svg)
	default:
		return svg, nil
	}
}

// formatFromPath derives the format from the output file extension.
// Unknown or missing extensions fall back to svg.
func formatFromPath(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "txt" {
		return "text"
	}
	if validFormats[ext] {
		return ext
	}
	return "svg"
}

// openOutput returns a WriteCloser for the given path.
// If path is empty, it returns stdout wrapped in nopCloser.
func openOutput(path string, stdout io.Writer) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output: %w", err)
	}
	return f, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
