package snapshot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/gridcanvas/pkg/canvas"
	"github.com/matzehuels/gridcanvas/pkg/collision"
	"github.com/matzehuels/gridcanvas/pkg/grid"
)

// pointsPerInch converts pixel sizes to Graphviz inches (1px = 1pt).
const pointsPerInch = 72.0

// Options configures snapshot rendering.
type Options struct {
	// Selected is highlighted.
	Selected string

	// Detailed adds the grid geometry to every label.
	Detailed bool

	// Plain disables terminal colors in Text.
	Plain bool
}

// ToDOT converts instances to a Graphviz graph with one pinned box per
// instance. Render it with the neato engine to keep the positions.
func ToDOT(instances []canvas.WidgetInstance, c grid.Config, opts Options) string {
	overlapping := overlappingIDs(instances)

	var buf bytes.Buffer
	buf.WriteString("graph canvas {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  splines=false;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fixedsize=true, fontsize=12];\n")
	buf.WriteString("\n")

	// Container frame, so the drawing has the canvas width even when empty.
	bottom := 1
	for _, w := range instances {
		bottom = max(bottom, w.Layout.Rect().Bottom())
	}
	_, frameH := grid.UnitsToPixels(1, bottom, c)
	fmt.Fprintf(&buf, "  %q [label=\"\", shape=rect, style=dashed, color=grey, width=%s, height=%s, pos=%q];\n",
		"__canvas",
		inches(c.ContainerWidthPx), inches(frameH),
		pos(c.ContainerWidthPx/2, frameH/2))

	for _, w := range instances {
		r := w.Layout.Rect()
		xPx, yPx := r.Origin(c)
		wPx, hPx := grid.UnitsToPixels(r.W, r.H, c)

		attrs := []string{
			fmt.Sprintf("label=%q", label(w, opts.Detailed)),
			"width=" + inches(wPx),
			"height=" + inches(hPx),
			fmt.Sprintf("pos=%q", pos(xPx+wPx/2, yPx+hPx/2)),
		}
		switch {
		case overlapping[w.ID]:
			attrs = append(attrs, "fillcolor=mistyrose", "color=red")
		case w.ID == opts.Selected:
			attrs = append(attrs, "fillcolor=lightblue", "penwidth=2")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", w.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func label(w canvas.WidgetInstance, detailed bool) string {
	name := w.CatalogID
	if title, ok := w.Params["title"].(string); ok && title != "" {
		name = title
	}
	if !detailed {
		return name
	}
	l := w.Layout
	return fmt.Sprintf("%s\n(%d,%d) %dx%d\nmin %dx%d", name, l.X, l.Y, l.W, l.H, l.MinW, l.MinH)
}

func inches(px float64) string {
	return strconv.FormatFloat(px/pointsPerInch, 'f', 3, 64)
}

// pos pins a node center. Graphviz's y axis points up.
func pos(xPx, yPx float64) string {
	return fmt.Sprintf("%.1f,%.1f!", xPx, -yPx)
}

func overlappingIDs(instances []canvas.WidgetInstance) map[string]bool {
	out := map[string]bool{}
	for _, pair := range collision.Overlapping(canvas.Boxes(instances)) {
		out[pair[0]], out[pair[1]] = true, true
	}
	return out
}

// RenderSVG lays out a DOT graph with neato and returns SVG bytes.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with one that
// scales to its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
