package collision

import (
	"testing"

	"github.com/matzehuels/gridcanvas/pkg/grid"
)

func box(id string, x, y, w, h int) Box {
	return Box{ID: id, Rect: grid.Rect{X: x, Y: y, W: w, H: h}}
}

func TestHasCollision(t *testing.T) {
	others := []Box{
		box("a", 0, 0, 4, 4),
		box("b", 6, 0, 2, 2),
	}
	tests := []struct {
		name      string
		candidate Box
		want      bool
	}{
		{"overlaps a", box("c", 2, 2, 4, 4), true},
		{"adjacent to a", box("c", 4, 0, 2, 4), false},
		{"below everything", box("c", 0, 4, 8, 2), false},
		{"overlaps b", box("c", 7, 1, 1, 1), true},
		{"same id ignored", box("a", 1, 1, 2, 2), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasCollision(tt.candidate, others); got != tt.want {
				t.Errorf("HasCollision(%+v) = %v, want %v", tt.candidate, got, tt.want)
			}
		})
	}
}

func TestResolveRevertsFully(t *testing.T) {
	others := []Box{box("a", 0, 0, 4, 4)}
	before := box("b", 10, 10, 3, 3)

	got, reverted := Resolve(box("b", 3, 3, 3, 3), before, others)
	if !reverted || got != before {
		t.Errorf("Resolve() = %+v, %v; want %+v, true", got, reverted, before)
	}

	clear := box("b", 4, 4, 3, 3)
	got, reverted = Resolve(clear, before, others)
	if reverted || got != clear {
		t.Errorf("Resolve() = %+v, %v; want %+v, false", got, reverted, clear)
	}
}

func TestOverlapping(t *testing.T) {
	boxes := []Box{
		box("a", 0, 0, 4, 4),
		box("b", 2, 2, 4, 4),
		box("c", 10, 0, 1, 1),
		box("d", 3, 3, 1, 1),
	}
	pairs := Overlapping(boxes)
	want := [][2]string{{"a", "b"}, {"a", "d"}, {"b", "d"}}
	if len(pairs) != len(want) {
		t.Fatalf("Overlapping() = %v, want %v", pairs, want)
	}
	for i := range want {
		if pairs[i] != want[i] {
			t.Errorf("pair %d = %v, want %v", i, pairs[i], want[i])
		}
	}
}
