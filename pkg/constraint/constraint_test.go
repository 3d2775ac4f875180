package constraint

import (
	"testing"

	"github.com/matzehuels/gridcanvas/pkg/grid"
)

func testGrid() grid.Config {
	return grid.Config{Columns: 30, RowHeightPx: 30, MarginPx: [2]float64{6, 6}, ContainerWidthPx: 1200}
}

func ratio(v float64) *float64 { return &v }

func TestDerive(t *testing.T) {
	tests := []struct {
		name       string
		r          Resize
		wantMinW   int
		wantMinH   int
		wantLocked bool
	}{
		{"scenario minimums", Resize{MinWidthPx: 120, MinHeightPx: 100}, 3, 3, false},
		{"zero minimums clamp to one", Resize{}, 1, 1, false},
		{"locked with ratio", Resize{MinWidthPx: 120, MinHeightPx: 200, AspectRatio: ratio(2), LockAspectRatio: true}, 3, 6, true},
		{"locked without ratio", Resize{MinWidthPx: 120, MinHeightPx: 200, LockAspectRatio: true}, 3, 6, false},
		{"ratio without lock", Resize{AspectRatio: ratio(2)}, 1, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := Derive(tt.r, testGrid())
			if l.MinW != tt.wantMinW || l.MinH != tt.wantMinH || l.Locked != tt.wantLocked {
				t.Errorf("Derive() = %+v, want minW=%d minH=%d locked=%v", l, tt.wantMinW, tt.wantMinH, tt.wantLocked)
			}
		})
	}
}

func TestDeriveUsesPlaceholder(t *testing.T) {
	// A tall minimum height must not influence the width minimum and vice versa.
	a := Derive(Resize{MinWidthPx: 120, MinHeightPx: 900}, testGrid())
	b := Derive(Resize{MinWidthPx: 120, MinHeightPx: 10}, testGrid())
	if a.MinW != b.MinW {
		t.Errorf("MinW depends on MinHeightPx: %d vs %d", a.MinW, b.MinW)
	}
}

func TestWidthAnchored(t *testing.T) {
	tests := []struct {
		name string
		l    Limits
		in   Size
		want Size
	}{
		{"unlocked clamps only", Limits{MinW: 3, MinH: 3}, Size{1, 10}, Size{3, 10}},
		{"height follows width", Limits{MinW: 2, MinH: 2, Ratio: 2, Locked: true}, Size{8, 9}, Size{8, 4}},
		{"min height forces width", Limits{MinW: 3, MinH: 6, Ratio: 1, Locked: true}, Size{4, 4}, Size{6, 6}},
		{"wide ratio clamped", Limits{MinW: 3, MinH: 6, Ratio: 2, Locked: true}, Size{8, 4}, Size{12, 6}},
		{"width minimum drives height", Limits{MinW: 10, MinH: 2, Ratio: 0.5, Locked: true}, Size{1, 1}, Size{10, 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WidthAnchored.Apply(Size{}, tt.in, tt.l)
			if got != tt.want {
				t.Errorf("WidthAnchored.Apply(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestDominantAxis(t *testing.T) {
	l := Limits{MinW: 2, MinH: 3, Ratio: 2, Locked: true}
	tests := []struct {
		name      string
		old, next Size
		want      Size
	}{
		{"width dominates", Size{8, 4}, Size{12, 5}, Size{12, 6}},
		{"height dominates", Size{8, 4}, Size{9, 7}, Size{14, 7}},
		{"width shrinks below min height", Size{8, 4}, Size{4, 4}, Size{6, 3}},
		{"equal change solves width", Size{8, 4}, Size{9, 5}, Size{10, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DominantAxis.Apply(tt.old, tt.next, l)
			if got != tt.want {
				t.Errorf("DominantAxis.Apply(%v, %v) = %v, want %v", tt.old, tt.next, got, tt.want)
			}
		})
	}
}

func TestDominantAxisHeightFallback(t *testing.T) {
	// Height shrinks so much that the derived width drops below MinW.
	l := Limits{MinW: 6, MinH: 1, Ratio: 2, Locked: true}
	got := DominantAxis.Apply(Size{10, 5}, Size{10, 1}, l)
	if want := (Size{6, 3}); got != want {
		t.Errorf("DominantAxis.Apply() = %v, want %v", got, want)
	}
}

func TestPoliciesDiverge(t *testing.T) {
	// The same gesture yields different sizes under the two policies.
	l := Limits{MinW: 1, MinH: 1, Ratio: 1, Locked: true}
	old, next := Size{4, 4}, Size{5, 8}
	live := DominantAxis.Apply(old, next, l)
	commit := WidthAnchored.Apply(old, next, l)
	if live != (Size{8, 8}) || commit != (Size{5, 5}) {
		t.Errorf("live = %v commit = %v, want 8x8 and 5x5", live, commit)
	}
}

func TestMinimumAlwaysHolds(t *testing.T) {
	limits := []Limits{
		{MinW: 3, MinH: 3},
		{MinW: 3, MinH: 6, Ratio: 5.0 / 6.0, Locked: true},
		{MinW: 5, MinH: 2, Ratio: 3, Locked: true},
		{MinW: 1, MinH: 7, Ratio: 0.25, Locked: true},
	}
	for _, l := range limits {
		for w := 0; w < 20; w++ {
			for h := 0; h < 20; h++ {
				for _, p := range []Policy{DominantAxis, WidthAnchored} {
					s := p.Apply(Size{6, 6}, Size{w, h}, l)
					if s.W < l.MinW || s.H < l.MinH {
						t.Fatalf("%v.Apply(%dx%d) = %v violates minimum %+v", p, w, h, s, l)
					}
				}
			}
		}
	}
}

func TestSettleIsIdempotent(t *testing.T) {
	// minH=3, ratio=0.5: one pass yields 2x3, a second pass yields 2x4.
	l := Limits{MinW: 1, MinH: 3, Ratio: 0.5, Locked: true}
	if once := WidthAnchored.Apply(Size{}, Size{1, 1}, l); once != (Size{2, 3}) {
		t.Fatalf("single pass = %v, want 2x3", once)
	}

	settled := Settle(Size{1, 1}, l)
	if again := Settle(settled, l); again != settled {
		t.Errorf("Settle not idempotent: %v then %v", settled, again)
	}
	if settled != (Size{2, 4}) {
		t.Errorf("Settle() = %v, want 2x4", settled)
	}
}

func TestWidthAnchoredPx(t *testing.T) {
	r := Resize{MinWidthPx: 120, MinHeightPx: 100, AspectRatio: ratio(5.0 / 6.0), LockAspectRatio: true}
	w, h := WidthAnchoredPx(250, 300, r)
	if w != 250 || h != 300 {
		t.Errorf("WidthAnchoredPx(250, 300) = (%v, %v), want (250, 300)", w, h)
	}

	// Height falls below the minimum and width is recomputed from it.
	r = Resize{MinWidthPx: 50, MinHeightPx: 200, AspectRatio: ratio(2), LockAspectRatio: true}
	w, h = WidthAnchoredPx(100, 10, r)
	if w != 400 || h != 200 {
		t.Errorf("WidthAnchoredPx(100, 10) = (%v, %v), want (400, 200)", w, h)
	}
}

func TestPolicyString(t *testing.T) {
	if DominantAxis.String() != "dominant-axis" || WidthAnchored.String() != "width-anchored" {
		t.Errorf("unexpected policy names: %s, %s", DominantAxis, WidthAnchored)
	}
}
