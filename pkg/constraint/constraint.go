package constraint

import (
	"fmt"

	"github.com/matzehuels/gridcanvas/pkg/grid"
)

// PlaceholderPx is the pixel length used for the "other" dimension when a
// single pixel minimum is converted to grid units.
const PlaceholderPx = 100.0

// Resize is the snapshot of a catalog entry's sizing rules carried by every
// widget instance. Field tags follow the persisted layout schema.
type Resize struct {
	MinWidthPx      float64  `json:"minWidth"`
	MinHeightPx     float64  `json:"minHeight"`
	AspectRatio     *float64 `json:"aspectRatio"`
	LockAspectRatio bool     `json:"lockAspectRatio"`
}

// Ratio returns the width/height ratio and whether it must be enforced.
// A lock without a usable ratio is ignored.
func (r Resize) Ratio() (float64, bool) {
	if !r.LockAspectRatio || r.AspectRatio == nil || *r.AspectRatio <= 0 {
		return 0, false
	}
	return *r.AspectRatio, true
}

// Size is a width and height in grid units.
type Size struct {
	W, H int
}

func (s Size) String() string { return fmt.Sprintf("%dx%d", s.W, s.H) }

// Limits are the constraints of one instance expressed in grid units.
type Limits struct {
	MinW, MinH int
	Ratio      float64
	Locked     bool
}

// Derive converts pixel constraints to grid-unit limits for the given grid.
// It must be called again whenever the grid changes; limits are never
// carried over from a previous conversion.
func Derive(r Resize, c grid.Config) Limits {
	minW, _ := grid.PixelsToUnits(r.MinWidthPx, PlaceholderPx, c)
	_, minH := grid.PixelsToUnits(PlaceholderPx, r.MinHeightPx, c)
	ratio, locked := r.Ratio()
	return Limits{MinW: minW, MinH: minH, Ratio: ratio, Locked: locked}
}

// Clamp raises s to the minimum size.
func (l Limits) Clamp(s Size) Size {
	return Size{W: max(s.W, l.MinW), H: max(s.H, l.MinH)}
}

// heightFromWidth solves height from width, recomputing width when the
// derived height falls below the minimum.
func (l Limits) heightFromWidth(s Size) Size {
	targetH := grid.Round(float64(s.W) / l.Ratio)
	if targetH >= l.MinH {
		return Size{W: s.W, H: targetH}
	}
	return Size{W: max(grid.Round(float64(l.MinH)*l.Ratio), l.MinW), H: l.MinH}
}

// widthFromHeight is heightFromWidth with the axes swapped.
func (l Limits) widthFromHeight(s Size) Size {
	targetW := grid.Round(float64(s.H) * l.Ratio)
	if targetW >= l.MinW {
		return Size{W: targetW, H: s.H}
	}
	return Size{W: l.MinW, H: max(grid.Round(float64(l.MinW)/l.Ratio), l.MinH)}
}

// Policy selects how a locked aspect ratio is restored after a size change.
type Policy int

const (
	// DominantAxis lets the axis with the larger change drive the other one.
	// Used for live resize-move events.
	DominantAxis Policy = iota

	// WidthAnchored always derives height from width.
	// Used on resize-stop, initial placement and revalidation.
	WidthAnchored
)

func (p Policy) String() string {
	switch p {
	case DominantAxis:
		return "dominant-axis"
	case WidthAnchored:
		return "width-anchored"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// Apply constrains next given the size before the change.
// WidthAnchored ignores old.
func (p Policy) Apply(old, next Size, l Limits) Size {
	s := l.Clamp(next)
	if !l.Locked {
		return s
	}
	switch p {
	case DominantAxis:
		if abs(next.W-old.W) > abs(next.H-old.H) {
			s = l.heightFromWidth(s)
		} else {
			s = l.widthFromHeight(s)
		}
	default:
		s = l.heightFromWidth(s)
	}
	return l.Clamp(s)
}

// maxSettlePasses bounds Settle.
const maxSettlePasses = 4

// Settle applies WidthAnchored until the size stops changing.
//
// A single WidthAnchored pass is not always idempotent: when the minimum
// height forces width to round(minH*ratio), the next pass may derive a
// taller height from that width. Revalidation must be idempotent, so it
// settles instead of applying one pass.
func Settle(s Size, l Limits) Size {
	for range maxSettlePasses {
		next := WidthAnchored.Apply(s, s, l)
		if next == s {
			return s
		}
		s = next
	}
	return s
}

// WidthAnchoredPx is WidthAnchored in pixel space, used before a preferred
// pixel size is converted to grid units.
func WidthAnchoredPx(widthPx, heightPx float64, r Resize) (float64, float64) {
	w := max(widthPx, r.MinWidthPx)
	h := max(heightPx, r.MinHeightPx)
	ratio, locked := r.Ratio()
	if !locked {
		return w, h
	}
	if targetH := float64(grid.Round(w / ratio)); targetH >= r.MinHeightPx {
		h = targetH
	} else {
		h = r.MinHeightPx
		w = max(float64(grid.Round(r.MinHeightPx*ratio)), r.MinWidthPx)
	}
	return max(w, r.MinWidthPx), max(h, r.MinHeightPx)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
