package canvas

import (
	"maps"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gridcanvas/pkg/collision"
	"github.com/matzehuels/gridcanvas/pkg/constraint"
	"github.com/matzehuels/gridcanvas/pkg/grid"
	"github.com/matzehuels/gridcanvas/pkg/observability"
)

// Commit operation names reported to listeners and hooks.
const (
	OpAdd        = "add"
	OpRemove     = "remove"
	OpParams     = "params"
	OpReplace    = "replace"
	OpRevalidate = "revalidate"
)

// CommitFunc receives a copy of the instance list after every committed mutation.
type CommitFunc func(op string, instances []WidgetInstance)

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCommitFunc registers the listener called after committed mutations.
func WithCommitFunc(fn CommitFunc) Option {
	return func(s *Store) { s.onCommit = fn }
}

// Store is the in-memory list of widget instances on one canvas.
type Store struct {
	grid     grid.Config
	items    []WidgetInstance
	origins  map[string]Layout
	logger   *log.Logger
	onCommit CommitFunc
}

// NewStore creates an empty store for a canvas with geometry c.
func NewStore(c grid.Config, opts ...Option) *Store {
	s := &Store{
		grid:    c,
		origins: make(map[string]Layout),
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetCommitFunc replaces the commit listener.
func (s *Store) SetCommitFunc(fn CommitFunc) { s.onCommit = fn }

// Grid returns the current canvas geometry.
func (s *Store) Grid() grid.Config { return s.grid }

// Len returns the number of instances.
func (s *Store) Len() int { return len(s.items) }

// Instances returns copies of all instances in insertion order.
func (s *Store) Instances() []WidgetInstance {
	out := make([]WidgetInstance, len(s.items))
	for i, w := range s.items {
		out[i] = w.Clone()
	}
	return out
}

// Get returns a copy of the instance with the given ID.
func (s *Store) Get(id string) (WidgetInstance, bool) {
	if i := s.index(id); i >= 0 {
		return s.items[i].Clone(), true
	}
	return WidgetInstance{}, false
}

// InGesture reports whether id has an unfinished drag or resize.
func (s *Store) InGesture(id string) bool {
	_, ok := s.origins[id]
	return ok
}

// Add appends inst. Empty or duplicate IDs are ignored. The size is raised
// to the instance's minimum; the position is taken as given and is not
// checked for collisions.
func (s *Store) Add(inst WidgetInstance) bool {
	if inst.ID == "" || s.index(inst.ID) >= 0 {
		return false
	}
	inst = inst.Clone()
	limits := inst.Limits(s.grid)
	size := limits.Clamp(inst.Layout.Size())
	inst.Layout.W, inst.Layout.H = size.W, size.H
	inst.Layout.MinW, inst.Layout.MinH = limits.MinW, limits.MinH
	inst.Layout.X, inst.Layout.Y = max(inst.Layout.X, 0), max(inst.Layout.Y, 0)
	if inst.Params == nil {
		inst.Params = map[string]any{}
	}
	s.items = append(s.items, inst)
	s.commit(OpAdd, inst.ID)
	return true
}

// Remove deletes the instance with the given ID.
func (s *Store) Remove(id string) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	delete(s.origins, id)
	s.commit(OpRemove, id)
	return true
}

// UpdateLayout applies a geometry change for the given gesture phase and
// returns the resulting layout. MinW and MinH in next are ignored.
func (s *Store) UpdateLayout(id string, next Layout, phase Phase) (Layout, bool) {
	i := s.index(id)
	if i < 0 {
		return Layout{}, false
	}
	inst := &s.items[i]
	cur := inst.Layout
	limits := inst.Limits(s.grid)
	next.X, next.Y = max(next.X, 0), max(next.Y, 0)

	switch phase {
	case DragMove:
		s.begin(id, cur)
		inst.Layout.X, inst.Layout.Y = next.X, next.Y
		return inst.Layout, true

	case ResizeMove:
		s.begin(id, cur)
		size := constraint.DominantAxis.Apply(cur.Size(), next.Size(), limits)
		inst.Layout = withLimits(Layout{X: next.X, Y: next.Y, W: size.W, H: size.H}, limits)
		return inst.Layout, true

	case DragStop:
		origin := s.end(id, cur)
		proposed := cur
		proposed.X, proposed.Y = next.X, next.Y
		return s.settle(i, phase, withLimits(proposed, limits), withLimits(origin, limits)), true

	case ResizeStop, Commit:
		origin := cur
		if phase == ResizeStop {
			origin = s.end(id, cur)
		} else {
			delete(s.origins, id)
		}
		size := constraint.WidthAnchored.Apply(cur.Size(), next.Size(), limits)
		proposed := Layout{X: next.X, Y: next.Y, W: size.W, H: size.H}
		return s.settle(i, phase, withLimits(proposed, limits), withLimits(origin, limits)), true

	default:
		return cur, true
	}
}

// settle runs the collision check for a commit point and stores the result.
func (s *Store) settle(i int, phase Phase, proposed, origin Layout) Layout {
	inst := &s.items[i]
	candidate := collision.Box{ID: inst.ID, Rect: proposed.Rect()}
	others := Boxes(s.items)
	if _, reverted := collision.Resolve(candidate, collision.Box{ID: inst.ID, Rect: origin.Rect()}, others); reverted {
		inst.Layout = origin
		blocker := collision.First(candidate, others)
		s.logger.Debug("reverted gesture", "id", inst.ID, "phase", phase, "blocker", blocker)
		observability.Layout().OnRevert(phase.String(), inst.ID, blocker)
		s.notify(phase.String())
		return inst.Layout
	}
	inst.Layout = proposed
	s.commit(phase.String(), inst.ID)
	return inst.Layout
}

// UpdateParams shallow-merges patch into the instance's params.
func (s *Store) UpdateParams(id string, patch map[string]any) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	if s.items[i].Params == nil {
		s.items[i].Params = make(map[string]any, len(patch))
	}
	maps.Copy(s.items[i].Params, patch)
	s.commit(OpParams, id)
	return true
}

// ReplaceAll swaps the instance list, keeping the first instance for any
// duplicated ID. Gestures in progress are abandoned.
func (s *Store) ReplaceAll(instances []WidgetInstance) {
	seen := make(map[string]bool, len(instances))
	items := make([]WidgetInstance, 0, len(instances))
	for _, w := range instances {
		if w.ID == "" || seen[w.ID] {
			s.logger.Debug("skipped instance", "id", w.ID, "reason", "duplicate or empty id")
			continue
		}
		seen[w.ID] = true
		items = append(items, w.Clone())
	}
	s.items = items
	clear(s.origins)
	s.commit(OpReplace, "")
}

// SetContainerWidth records a new container width and refits every instance.
func (s *Store) SetContainerWidth(px float64) {
	if px <= 0 || px == s.grid.ContainerWidthPx {
		return
	}
	s.logger.Debug("container resized", "from", s.grid.ContainerWidthPx, "to", px)
	s.grid.ContainerWidthPx = px
	s.Revalidate()
}

// Revalidate refits every instance to its constraints on the current grid.
// Pre-gesture layouts of open gestures are refitted too, so a stop that
// reverts restores a layout valid on the current grid. Listeners are
// notified only when something changed.
func (s *Store) Revalidate() {
	for id, origin := range s.origins {
		i := s.index(id)
		if i < 0 {
			delete(s.origins, id)
			continue
		}
		s.origins[id] = Fit(origin, s.items[i].ResizeConstraints, s.grid)
	}

	changed := false
	for i := range s.items {
		inst := &s.items[i]
		fitted := Fit(inst.Layout, inst.ResizeConstraints, s.grid)
		if fitted != inst.Layout {
			s.logger.Debug("refitted instance", "id", inst.ID, "from", inst.Layout.Size(), "to", fitted.Size())
			inst.Layout = fitted
			changed = true
		}
	}
	if changed {
		s.commit(OpRevalidate, "")
	}
}

func (s *Store) begin(id string, cur Layout) {
	if _, ok := s.origins[id]; !ok {
		s.origins[id] = cur
	}
}

func (s *Store) end(id string, cur Layout) Layout {
	origin, ok := s.origins[id]
	delete(s.origins, id)
	if !ok {
		return cur
	}
	return origin
}

func (s *Store) commit(op, id string) {
	observability.Layout().OnCommit(op, id)
	s.notify(op)
}

func (s *Store) notify(op string) {
	if s.onCommit != nil {
		s.onCommit(op, s.Instances())
	}
}

func (s *Store) index(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

func withLimits(l Layout, limits constraint.Limits) Layout {
	l.MinW, l.MinH = limits.MinW, limits.MinH
	return l
}
