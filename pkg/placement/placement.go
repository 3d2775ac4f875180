// Package placement computes the initial geometry of a newly added widget.
//
// Size comes from the catalog entry's preferred pixel size, clamped to its
// minimums and, for locked entries, fitted to the aspect ratio both in pixel
// space and again in grid units (rounding can undo the pixel-space fit).
//
// Position comes from a fixed-width flow over [Columns], a placement-only
// column count that is independent of the visual grid's column count:
//
//	x = (n*w) mod Columns
//	y = floor(n*w / Columns) * h
//
// where n is the number of instances already on the canvas. The flow does
// not look at existing widgets, so widgets of different heights can overlap
// after placement. Existing fixtures depend on these positions; adding
// packing here is a behavior change, not a fix.
package placement

import (
	"github.com/matzehuels/gridcanvas/pkg/catalog"
	"github.com/matzehuels/gridcanvas/pkg/constraint"
	"github.com/matzehuels/gridcanvas/pkg/grid"
)

// Columns is the width of the placement flow in grid units.
const Columns = 12

// Placement is the planned geometry of a new instance.
type Placement struct {
	grid.Rect
	Limits constraint.Limits
}

// Plan places an instance of entry on a canvas that already holds n instances.
func Plan(entry catalog.Entry, n int, c grid.Config) Placement {
	r := entry.Constraints()

	wPx, hPx := constraint.WidthAnchoredPx(entry.PreferredSizePx.Width, entry.PreferredSizePx.Height, r)
	w, h := grid.PixelsToUnits(wPx, hPx, c)

	limits := constraint.Derive(r, c)
	size := constraint.WidthAnchored.Apply(constraint.Size{W: w, H: h}, constraint.Size{W: w, H: h}, limits)

	offset := max(n, 0) * size.W
	return Placement{
		Rect: grid.Rect{
			X: offset % Columns,
			Y: offset / Columns * size.H,
			W: size.W,
			H: size.H,
		},
		Limits: limits,
	}
}
