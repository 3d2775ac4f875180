package persist

import (
	"context"
	"maps"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gridcanvas/pkg/canvas"
	"github.com/matzehuels/gridcanvas/pkg/catalog"
	"github.com/matzehuels/gridcanvas/pkg/errors"
	"github.com/matzehuels/gridcanvas/pkg/grid"
	"github.com/matzehuels/gridcanvas/pkg/observability"
	"github.com/matzehuels/gridcanvas/pkg/permission"
	"github.com/matzehuels/gridcanvas/pkg/storage"
)

// Drop reasons reported to hooks and logs.
const (
	ReasonMissingEntry = "missing catalog entry"
	ReasonForbidden    = "permission denied"
	ReasonInvalidID    = "invalid id"
)

// Adapter reads and writes one canvas under Key.
type Adapter struct {
	Storage storage.Storage
	Catalog catalog.Catalog

	// Checker decides entity access. Nil means permission.EntityChecker.
	Checker     permission.Checker
	Permissions permission.Set
	Views       permission.ViewBaseTableMap

	Key    string
	Logger *log.Logger
}

// Load reads the stored canvas and revalidates it for grid c. A missing,
// unreadable or malformed document yields an empty list; Load never fails.
func (a *Adapter) Load(ctx context.Context, c grid.Config) []canvas.WidgetInstance {
	start := time.Now()
	logger := a.logger()

	raw, ok, err := a.Storage.Get(ctx, a.Key)
	if err != nil {
		logger.Warn("could not read canvas, starting empty", "key", a.Key, "error", err)
		observability.Persistence().OnLoad(ctx, a.Key, 0, 0, time.Since(start), err)
		return []canvas.WidgetInstance{}
	}
	if !ok {
		logger.Debug("no stored canvas", "key", a.Key)
		observability.Persistence().OnLoad(ctx, a.Key, 0, 0, time.Since(start), nil)
		return []canvas.WidgetInstance{}
	}

	stored, err := Decode([]byte(raw))
	if err != nil {
		err = errors.Wrap(errors.ErrCodeStorage, err, "parse canvas %s", a.Key)
		logger.Warn("stored canvas is malformed, starting empty", "key", a.Key, "error", err)
		observability.Persistence().OnLoad(ctx, a.Key, 0, 0, time.Since(start), err)
		return []canvas.WidgetInstance{}
	}

	kept := a.Revalidate(stored, c)
	logger.Debug("loaded canvas", "key", a.Key, "kept", len(kept), "dropped", len(stored)-len(kept))
	observability.Persistence().OnLoad(ctx, a.Key, len(kept), len(stored)-len(kept), time.Since(start), nil)
	return kept
}

// Save writes instances under Key. Errors are logged and returned; the
// caller's in-memory state is not affected either way.
func (a *Adapter) Save(ctx context.Context, instances []canvas.WidgetInstance) error {
	start := time.Now()
	data, err := Encode(instances)
	if err != nil {
		err = errors.Wrap(errors.ErrCodeInternal, err, "encode canvas")
	} else {
		err = a.Storage.Set(ctx, a.Key, string(data))
	}
	observability.Persistence().OnSave(ctx, a.Key, len(instances), len(data), time.Since(start), err)
	if err != nil {
		a.logger().Error("could not save canvas", "key", a.Key, "error", err)
		return err
	}
	a.logger().Debug("saved canvas", "key", a.Key, "instances", len(instances), "bytes", len(data))
	return nil
}

// Revalidate drops instances whose catalog entry is missing or whose
// required entities are not accessible, and refits the rest to the current
// catalog constraints on grid c. Params are the catalog defaults
// overwritten key by key with the instance's own params.
func (a *Adapter) Revalidate(instances []canvas.WidgetInstance, c grid.Config) []canvas.WidgetInstance {
	checker := a.Checker
	if checker == nil {
		checker = permission.EntityChecker{}
	}

	out := make([]canvas.WidgetInstance, 0, len(instances))
	for _, w := range instances {
		if w.ID == "" {
			a.drop(w, ReasonInvalidID)
			continue
		}
		entry, ok := a.Catalog.Entry(w.CatalogID)
		if !ok {
			a.drop(w, ReasonMissingEntry)
			continue
		}
		if denied := permission.Denied(checker, entry.RequiredEntities, a.Permissions, a.Views); denied != "" {
			a.drop(w, ReasonForbidden, "entity", denied)
			continue
		}

		params := entry.Defaults()
		maps.Copy(params, w.Params)
		rc := entry.Constraints()
		out = append(out, canvas.WidgetInstance{
			ID:                w.ID,
			CatalogID:         w.CatalogID,
			Layout:            canvas.Fit(w.Layout, rc, c),
			Params:            params,
			ResizeConstraints: rc,
		})
	}
	return out
}

func (a *Adapter) drop(w canvas.WidgetInstance, reason string, kv ...any) {
	args := append([]any{"id", w.ID, "widget", w.CatalogID, "reason", reason}, kv...)
	a.logger().Info("dropped widget", args...)
	observability.Layout().OnDrop(w.ID, reason)
}

func (a *Adapter) logger() *log.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return log.Default()
}
