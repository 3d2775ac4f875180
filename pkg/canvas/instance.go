package canvas

import (
	"maps"

	"github.com/matzehuels/gridcanvas/pkg/collision"
	"github.com/matzehuels/gridcanvas/pkg/constraint"
	"github.com/matzehuels/gridcanvas/pkg/grid"
)

// Layout is the geometry of an instance in grid units.
type Layout struct {
	X    int `json:"x"`
	Y    int `json:"y"`
	W    int `json:"w"`
	H    int `json:"h"`
	MinW int `json:"minW"`
	MinH int `json:"minH"`
}

// Rect returns the footprint of the layout.
func (l Layout) Rect() grid.Rect { return grid.Rect{X: l.X, Y: l.Y, W: l.W, H: l.H} }

// Size returns the width and height.
func (l Layout) Size() constraint.Size { return constraint.Size{W: l.W, H: l.H} }

// WidgetInstance is one widget placed on the canvas.
type WidgetInstance struct {
	ID                string            `json:"id"`
	CatalogID         string            `json:"catalogId"`
	Layout            Layout            `json:"layout"`
	Params            map[string]any    `json:"params"`
	ResizeConstraints constraint.Resize `json:"resizeConstraints"`
}

// Clone returns a copy that shares no maps or pointers with w.
func (w WidgetInstance) Clone() WidgetInstance {
	out := w
	if w.Params != nil {
		out.Params = maps.Clone(w.Params)
	}
	if w.ResizeConstraints.AspectRatio != nil {
		r := *w.ResizeConstraints.AspectRatio
		out.ResizeConstraints.AspectRatio = &r
	}
	return out
}

// Box returns the collision footprint of the instance.
func (w WidgetInstance) Box() collision.Box {
	return collision.Box{ID: w.ID, Rect: w.Layout.Rect()}
}

// Limits derives the instance's grid-unit limits for c.
func (w WidgetInstance) Limits(c grid.Config) constraint.Limits {
	return constraint.Derive(w.ResizeConstraints, c)
}

// Fit refits l to r on grid c: minimums are derived from the pixel
// constraints, the size is clamped, and a locked ratio is settled with the
// width-anchored policy. Fit(Fit(l)) == Fit(l).
func Fit(l Layout, r constraint.Resize, c grid.Config) Layout {
	limits := constraint.Derive(r, c)
	size := limits.Clamp(l.Size())
	if limits.Locked {
		size = constraint.Settle(size, limits)
	}
	return Layout{
		X:    max(l.X, 0),
		Y:    max(l.Y, 0),
		W:    size.W,
		H:    size.H,
		MinW: limits.MinW,
		MinH: limits.MinH,
	}
}

// Boxes returns the collision footprints of instances.
func Boxes(instances []WidgetInstance) []collision.Box {
	boxes := make([]collision.Box, len(instances))
	for i, w := range instances {
		boxes[i] = w.Box()
	}
	return boxes
}
