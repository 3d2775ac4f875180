// Package session drives one dashboard canvas on behalf of one user.
//
// A Session owns the canvas store, the persistence adapter, the catalog
// and the user's current permissions. It turns host events (widget added,
// pointer drag and resize callbacks, parameter edits, container resizes,
// permission changes) into store operations and writes the canvas back to
// storage after every committed change.
//
// # Usage
//
//	sess, err := session.New(session.Options{
//	    Grid:        grid.Default(),
//	    Catalog:     catalog.Builtin(),
//	    Storage:     storage.NewMemory(),
//	    Permissions: permission.NewSet(permission.Wildcard),
//	})
//	if err != nil {
//	    return err
//	}
//	sess.Open(ctx)
//	inst, err := sess.AddWidget(ctx, "metric", nil)
//
// A Session is not safe for concurrent use. Callers that receive events on
// several goroutines (such as the HTTP server) serialize them.
package session

import (
	"context"
	"maps"
	"reflect"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/gridcanvas/pkg/canvas"
	"github.com/matzehuels/gridcanvas/pkg/catalog"
	"github.com/matzehuels/gridcanvas/pkg/config"
	"github.com/matzehuels/gridcanvas/pkg/errors"
	"github.com/matzehuels/gridcanvas/pkg/grid"
	"github.com/matzehuels/gridcanvas/pkg/permission"
	"github.com/matzehuels/gridcanvas/pkg/persist"
	"github.com/matzehuels/gridcanvas/pkg/placement"
	"github.com/matzehuels/gridcanvas/pkg/storage"
)

// Options configures a Session.
type Options struct {
	Grid    grid.Config
	Catalog catalog.Catalog
	Storage storage.Storage

	// Key is the storage key of the canvas. Defaults to config.DefaultKey.
	Key string

	// Checker decides entity access. Defaults to permission.EntityChecker.
	Checker     permission.Checker
	Permissions permission.Set
	Views       permission.ViewBaseTableMap

	Logger *log.Logger

	// NewID generates instance IDs. Defaults to random UUIDs.
	NewID func() string
}

// Session is the controller of one canvas.
type Session struct {
	store    *canvas.Store
	adapter  *persist.Adapter
	catalog  catalog.Catalog
	logger   *log.Logger
	newID    func() string
	selected string

	pending []canvas.WidgetInstance
	dirty   bool
	saveErr error
}

// New creates a session. Call Open to load the stored canvas.
func New(opts Options) (*Session, error) {
	if err := opts.Grid.Validate(); err != nil {
		return nil, err
	}
	if opts.Catalog == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "session requires a catalog")
	}
	if opts.Storage == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "session requires a storage backend")
	}
	if opts.Key == "" {
		opts.Key = config.DefaultKey
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}

	s := &Session{
		catalog: opts.Catalog,
		logger:  opts.Logger,
		newID:   opts.NewID,
		adapter: &persist.Adapter{
			Storage:     opts.Storage,
			Catalog:     opts.Catalog,
			Checker:     opts.Checker,
			Permissions: opts.Permissions,
			Views:       opts.Views,
			Key:         opts.Key,
			Logger:      opts.Logger,
		},
	}
	s.store = canvas.NewStore(opts.Grid, canvas.WithLogger(opts.Logger), canvas.WithCommitFunc(s.onCommit))
	return s, nil
}

// Open replaces the canvas with the stored one, revalidated against the
// current catalog and permissions. The revalidated list is not written
// back until the next committed change, so a failed read never overwrites
// stored data.
func (s *Session) Open(ctx context.Context) {
	s.store.ReplaceAll(s.adapter.Load(ctx, s.store.Grid()))
	s.dirty, s.pending = false, nil
	s.selected = ""
}

// AddWidget places a new instance of the catalog entry catalogID. params
// override the entry's default params key by key.
func (s *Session) AddWidget(ctx context.Context, catalogID string, params map[string]any) (canvas.WidgetInstance, error) {
	entry, ok := s.catalog.Entry(catalogID)
	if !ok {
		return canvas.WidgetInstance{}, errors.New(errors.ErrCodeNotFoundWidget, "unknown widget %q", catalogID)
	}
	checker := s.checker()
	if denied := permission.Denied(checker, entry.RequiredEntities, s.adapter.Permissions, s.adapter.Views); denied != "" {
		return canvas.WidgetInstance{}, errors.New(errors.ErrCodeForbidden, "widget %q requires access to %q", catalogID, denied)
	}
	for k := range params {
		if err := errors.ValidateParamKey(k); err != nil {
			return canvas.WidgetInstance{}, err
		}
	}

	p := placement.Plan(entry, s.store.Len(), s.store.Grid())
	merged := entry.Defaults()
	maps.Copy(merged, params)
	inst := canvas.WidgetInstance{
		ID:        s.newID(),
		CatalogID: entry.ID,
		Layout: canvas.Layout{
			X: p.X, Y: p.Y, W: p.W, H: p.H,
			MinW: p.Limits.MinW, MinH: p.Limits.MinH,
		},
		Params:            merged,
		ResizeConstraints: entry.Constraints(),
	}
	if !s.store.Add(inst) {
		return canvas.WidgetInstance{}, errors.New(errors.ErrCodeInternal, "instance id %q already in use", inst.ID)
	}
	s.logger.Debug("added widget", "id", inst.ID, "widget", catalogID, "x", p.X, "y", p.Y, "w", p.W, "h", p.H)
	s.flush(ctx)

	added, _ := s.store.Get(inst.ID)
	return added, nil
}

// RemoveWidget deletes an instance. Removing the selected instance clears
// the selection.
func (s *Session) RemoveWidget(ctx context.Context, id string) error {
	if !s.store.Remove(id) {
		return notFound(id)
	}
	if s.selected == id {
		s.selected = ""
	}
	s.flush(ctx)
	return nil
}

// Select marks id as the active instance.
func (s *Session) Select(id string) error {
	if _, ok := s.store.Get(id); !ok {
		return notFound(id)
	}
	s.selected = id
	return nil
}

// ClearSelection unselects the active instance.
func (s *Session) ClearSelection() { s.selected = "" }

// Selected returns the active instance, if any.
func (s *Session) Selected() (canvas.WidgetInstance, bool) {
	if s.selected == "" {
		return canvas.WidgetInstance{}, false
	}
	return s.store.Get(s.selected)
}

// UpdateLayout forwards a geometry event for the given phase.
func (s *Session) UpdateLayout(ctx context.Context, id string, l canvas.Layout, phase canvas.Phase) (canvas.Layout, error) {
	got, ok := s.store.UpdateLayout(id, l, phase)
	if !ok {
		return canvas.Layout{}, notFound(id)
	}
	s.flush(ctx)
	return got, nil
}

// DragMove moves id to (x, y) without committing.
func (s *Session) DragMove(ctx context.Context, id string, x, y int) (canvas.Layout, error) {
	return s.move(ctx, id, x, y, canvas.DragMove)
}

// DragStop ends a drag at (x, y). The move is reverted if it collides.
func (s *Session) DragStop(ctx context.Context, id string, x, y int) (canvas.Layout, error) {
	return s.move(ctx, id, x, y, canvas.DragStop)
}

// ResizeMove resizes id to w x h without committing.
func (s *Session) ResizeMove(ctx context.Context, id string, w, h int) (canvas.Layout, error) {
	return s.resize(ctx, id, w, h, canvas.ResizeMove)
}

// ResizeStop ends a resize at w x h. The resize is reverted if it collides.
func (s *Session) ResizeStop(ctx context.Context, id string, w, h int) (canvas.Layout, error) {
	return s.resize(ctx, id, w, h, canvas.ResizeStop)
}

// SetLayout commits a full geometry change outside of a gesture.
func (s *Session) SetLayout(ctx context.Context, id string, l canvas.Layout) (canvas.Layout, error) {
	return s.UpdateLayout(ctx, id, l, canvas.Commit)
}

func (s *Session) move(ctx context.Context, id string, x, y int, phase canvas.Phase) (canvas.Layout, error) {
	cur, ok := s.store.Get(id)
	if !ok {
		return canvas.Layout{}, notFound(id)
	}
	l := cur.Layout
	l.X, l.Y = x, y
	return s.UpdateLayout(ctx, id, l, phase)
}

func (s *Session) resize(ctx context.Context, id string, w, h int, phase canvas.Phase) (canvas.Layout, error) {
	cur, ok := s.store.Get(id)
	if !ok {
		return canvas.Layout{}, notFound(id)
	}
	l := cur.Layout
	l.W, l.H = w, h
	return s.UpdateLayout(ctx, id, l, phase)
}

// EditParams shallow-merges patch into the instance's params.
func (s *Session) EditParams(ctx context.Context, id string, patch map[string]any) error {
	for k := range patch {
		if err := errors.ValidateParamKey(k); err != nil {
			return err
		}
	}
	if !s.store.UpdateParams(id, patch) {
		return notFound(id)
	}
	s.flush(ctx)
	return nil
}

// ContainerResized refits every instance to a new container width.
func (s *Session) ContainerResized(ctx context.Context, widthPx float64) error {
	if widthPx <= 0 {
		return errors.New(errors.ErrCodeInvalidGrid, "container width must be positive, got %v", widthPx)
	}
	s.store.SetContainerWidth(widthPx)
	s.flush(ctx)
	return nil
}

// PermissionsChanged revalidates the canvas against a new permission
// context. Instances whose required entities became inaccessible are
// dropped; if the selected instance is among them the selection is cleared.
// It returns the IDs of the dropped instances.
func (s *Session) PermissionsChanged(ctx context.Context, perms permission.Set, views permission.ViewBaseTableMap) []string {
	s.adapter.Permissions = perms
	s.adapter.Views = views
	return s.Revalidate(ctx)
}

// Revalidate re-runs catalog and permission validation over the canvas,
// for example after the catalog changed. It returns the dropped IDs.
func (s *Session) Revalidate(ctx context.Context) []string {
	cur := s.store.Instances()
	kept := s.adapter.Revalidate(cur, s.store.Grid())

	keptIDs := make(map[string]bool, len(kept))
	for _, w := range kept {
		keptIDs[w.ID] = true
	}
	var dropped []string
	for _, w := range cur {
		if !keptIDs[w.ID] {
			dropped = append(dropped, w.ID)
		}
	}
	sort.Strings(dropped)

	if !reflect.DeepEqual(cur, kept) {
		s.store.ReplaceAll(kept)
	}
	if s.selected != "" && !keptIDs[s.selected] {
		s.logger.Debug("cleared selection", "id", s.selected)
		s.selected = ""
	}
	s.flush(ctx)
	return dropped
}

// Reset removes every instance.
func (s *Session) Reset(ctx context.Context) {
	s.store.ReplaceAll(nil)
	s.selected = ""
	s.flush(ctx)
}

// Instances returns copies of all instances.
func (s *Session) Instances() []canvas.WidgetInstance { return s.store.Instances() }

// Get returns a copy of one instance.
func (s *Session) Get(id string) (canvas.WidgetInstance, bool) { return s.store.Get(id) }

// Grid returns the current canvas geometry.
func (s *Session) Grid() grid.Config { return s.store.Grid() }

// Catalog returns the catalog the session validates against.
func (s *Session) Catalog() catalog.Catalog { return s.catalog }

// Permissions returns the current permission context.
func (s *Session) Permissions() (permission.Set, permission.ViewBaseTableMap) {
	return s.adapter.Permissions, s.adapter.Views
}

// SaveErr returns the error of the most recent write, or nil.
func (s *Session) SaveErr() error { return s.saveErr }

func (s *Session) onCommit(_ string, instances []canvas.WidgetInstance) {
	s.pending = instances
	s.dirty = true
}

// flush writes the last committed state, if any.
func (s *Session) flush(ctx context.Context) {
	if !s.dirty {
		return
	}
	s.dirty = false
	s.saveErr = s.adapter.Save(ctx, s.pending)
	s.pending = nil
}

func (s *Session) checker() permission.Checker {
	if s.adapter.Checker != nil {
		return s.adapter.Checker
	}
	return permission.EntityChecker{}
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeNotFoundInstance, "no widget instance %q", id)
}
