package snapshot

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/gridcanvas/pkg/canvas"
	"github.com/matzehuels/gridcanvas/pkg/grid"
)

const (
	emptyCell   = '.'
	overlapCell = '#'
	glyphs      = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

var (
	palette = []lipgloss.Color{"39", "208", "42", "170", "220", "81", "203", "112"}

	emptyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	overlapStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Reverse(true)
)

// Glyph returns the character used for the i-th instance.
func Glyph(i int) rune {
	return rune(glyphs[i%len(glyphs)])
}

// Text draws the canvas as a character grid, one character per grid cell,
// followed by a legend. The grid is at least c.Columns wide.
func Text(instances []canvas.WidgetInstance, c grid.Config, opts Options) string {
	width, height := c.Columns, 1
	for _, w := range instances {
		r := w.Layout.Rect()
		width, height = max(width, r.Right()), max(height, r.Bottom())
	}

	owner := make([][]int, height)
	for y := range owner {
		owner[y] = make([]int, width)
		for x := range owner[y] {
			owner[y][x] = -1
		}
	}
	const overlap = -2
	for i, w := range instances {
		r := w.Layout.Rect()
		for y := r.Y; y < r.Bottom(); y++ {
			for x := r.X; x < r.Right(); x++ {
				if owner[y][x] == -1 {
					owner[y][x] = i
				} else {
					owner[y][x] = overlap
				}
			}
		}
	}

	var sb strings.Builder
	for _, row := range owner {
		for _, i := range row {
			switch i {
			case -1:
				sb.WriteString(cell(emptyCell, emptyStyle, opts.Plain))
			case overlap:
				sb.WriteString(cell(overlapCell, overlapStyle, opts.Plain))
			default:
				style := lipgloss.NewStyle().Foreground(palette[i%len(palette)])
				if instances[i].ID == opts.Selected {
					style = style.Inherit(selectedStyle)
				}
				sb.WriteString(cell(Glyph(i), style, opts.Plain))
			}
		}
		sb.WriteByte('\n')
	}

	if len(instances) > 0 {
		sb.WriteByte('\n')
	}
	for i, w := range instances {
		l := w.Layout
		marker := " "
		if w.ID == opts.Selected {
			marker = "*"
		}
		fmt.Fprintf(&sb, "%s%c  %-12s (%d,%d) %dx%d  min %dx%d  %s\n",
			marker, Glyph(i), w.CatalogID, l.X, l.Y, l.W, l.H, l.MinW, l.MinH, w.ID)
	}
	return sb.String()
}

func cell(r rune, style lipgloss.Style, plain bool) string {
	if plain {
		return string(r)
	}
	return style.Render(string(r))
}
