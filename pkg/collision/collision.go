// Package collision detects overlapping widgets and reverts offending commits.
//
// Checks only run at commit points (drag-stop, resize-stop, explicit
// mutation). Continuous gestures and initial placement are never checked.
// A collision is never resolved by nudging: the moved widget returns to the
// geometry it had before the gesture started.
package collision

import "github.com/matzehuels/gridcanvas/pkg/grid"

// Box is the footprint of one widget instance.
type Box struct {
	ID string
	grid.Rect
}

// HasCollision reports whether candidate overlaps any box in others with a
// different ID.
func HasCollision(candidate Box, others []Box) bool {
	return First(candidate, others) != ""
}

// First returns the ID of the first box candidate overlaps, or "".
func First(candidate Box, others []Box) string {
	for _, o := range others {
		if o.ID == candidate.ID {
			continue
		}
		if candidate.Overlaps(o.Rect) {
			return o.ID
		}
	}
	return ""
}

// Resolve checks proposed against others and returns the geometry to
// commit. When proposed collides, before is returned and reverted is true.
func Resolve(proposed, before Box, others []Box) (committed Box, reverted bool) {
	if HasCollision(proposed, others) {
		return before, true
	}
	return proposed, false
}

// Overlapping returns every pair of IDs whose boxes overlap, in input order.
func Overlapping(boxes []Box) [][2]string {
	var pairs [][2]string
	for i := range boxes {
		for j := i + 1; j < len(boxes); j++ {
			if boxes[i].ID != boxes[j].ID && boxes[i].Overlaps(boxes[j].Rect) {
				pairs = append(pairs, [2]string{boxes[i].ID, boxes[j].ID})
			}
		}
	}
	return pairs
}
