package snapshot

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/gridcanvas/pkg/canvas"
	"github.com/matzehuels/gridcanvas/pkg/grid"
)

func testGrid() grid.Config {
	return grid.Config{Columns: 8, RowHeightPx: 30, MarginPx: [2]float64{6, 6}, ContainerWidthPx: 400}
}

func instances() []canvas.WidgetInstance {
	return []canvas.WidgetInstance{
		{ID: "w1", CatalogID: "metric", Layout: canvas.Layout{X: 0, Y: 0, W: 2, H: 2, MinW: 1, MinH: 1}, Params: map[string]any{"title": "Revenue"}},
		{ID: "w2", CatalogID: "table", Layout: canvas.Layout{X: 3, Y: 0, W: 3, H: 1, MinW: 1, MinH: 1}},
	}
}

func TestText(t *testing.T) {
	got := Text(instances(), testGrid(), Options{Plain: true, Selected: "w2"})
	want := "AA.BBB..\n" +
		"AA......\n" +
		"\n" +
		" A  metric       (0,0) 2x2  min 1x1  w1\n" +
		"*B  table        (3,0) 3x1  min 1x1  w2\n"
	if got != want {
		t.Errorf("Text() =\n%s\nwant\n%s", got, want)
	}
}

func TestTextMarksOverlap(t *testing.T) {
	in := instances()
	in[1].Layout.X = 1
	got := Text(in, testGrid(), Options{Plain: true})
	first := strings.SplitN(got, "\n", 2)[0]
	if first != "A#BB...." {
		t.Errorf("first row = %q, want %q", first, "A#BB....")
	}
}

func TestTextEmpty(t *testing.T) {
	if got := Text(nil, testGrid(), Options{Plain: true}); got != "........\n" {
		t.Errorf("Text(nil) = %q", got)
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(instances(), testGrid(), Options{Detailed: true, Selected: "w2"})

	for _, want := range []string{
		`graph canvas {`,
		`"w1" [label="Revenue\n(0,0) 2x2\nmin 1x1"`,
		`"w2" [label="table\n(3,0) 3x1\nmin 1x1"`,
		`fillcolor=lightblue`,
		`"__canvas"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "mistyrose") {
		t.Error("non-overlapping widgets highlighted")
	}

	// w1 is 2 columns of (400-42)/8 = 44.75px plus one margin: 95.5px wide,
	// centered at 47.75px.
	if !strings.Contains(dot, `pos="47.8,-33.0!"`) {
		t.Errorf("DOT missing pinned position for w1:\n%s", dot)
	}
}

func TestToDOTHighlightsOverlap(t *testing.T) {
	in := instances()
	in[1].Layout.X = 1
	if dot := ToDOT(in, testGrid(), Options{}); strings.Count(dot, "mistyrose") != 2 {
		t.Errorf("expected both overlapping widgets highlighted:\n%s", dot)
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(instances(), testGrid(), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG error: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") || !strings.Contains(string(svg), "Revenue") {
		t.Errorf("unexpected SVG output: %.200s", svg)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))
	if !strings.HasPrefix(got, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50">`) {
		t.Errorf("normalizeViewBox() = %s", got)
	}
}
