package canvas

import (
	"fmt"

	"github.com/matzehuels/gridcanvas/pkg/errors"
)

// Phase identifies where a geometry change sits within a gesture.
type Phase int

const (
	DragMove Phase = iota
	DragStop
	ResizeMove
	ResizeStop
	Commit
)

var phaseNames = map[Phase]string{
	DragMove:   "drag-move",
	DragStop:   "drag-stop",
	ResizeMove: "resize-move",
	ResizeStop: "resize-stop",
	Commit:     "commit",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Live reports whether the phase is an uncommitted move event.
func (p Phase) Live() bool { return p == DragMove || p == ResizeMove }

// ParsePhase parses a phase name such as "resize-stop".
func ParsePhase(s string) (Phase, error) {
	for p, name := range phaseNames {
		if name == s {
			return p, nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "unknown gesture phase %q", s)
}
