// Package catalog describes the widget types that can be placed on a canvas.
//
// The catalog is owned by the host application and is read-only to the
// layout engine. Entries are looked up by ID whenever a widget is added and
// whenever a persisted layout is revalidated, so changing an entry (for
// example raising its minimum size) retroactively affects stored layouts.
package catalog

import (
	"maps"
	"slices"
	"sort"

	"github.com/matzehuels/gridcanvas/pkg/constraint"
	"github.com/matzehuels/gridcanvas/pkg/errors"
)

// Size is a pixel size.
type Size struct {
	Width  float64 `json:"width" toml:"width"`
	Height float64 `json:"height" toml:"height"`
}

// Entry is the descriptor of one widget type.
type Entry struct {
	ID               string         `json:"id" toml:"id"`
	Title            string         `json:"title,omitempty" toml:"title"`
	MinWidthPx       float64        `json:"minWidthPx" toml:"min_width_px"`
	MinHeightPx      float64        `json:"minHeightPx" toml:"min_height_px"`
	PreferredSizePx  Size           `json:"preferredSizePx" toml:"preferred"`
	AspectRatio      *float64       `json:"aspectRatio" toml:"aspect_ratio"`
	LockAspectRatio  bool           `json:"lockAspectRatio" toml:"lock_aspect_ratio"`
	RequiredEntities []string       `json:"requiredEntities,omitempty" toml:"required_entities"`
	DefaultParams    map[string]any `json:"defaultParams,omitempty" toml:"params"`
}

// Constraints returns the resize snapshot copied onto instances of this entry.
func (e Entry) Constraints() constraint.Resize {
	r := constraint.Resize{
		MinWidthPx:      e.MinWidthPx,
		MinHeightPx:     e.MinHeightPx,
		LockAspectRatio: e.LockAspectRatio,
	}
	if e.AspectRatio != nil {
		v := *e.AspectRatio
		r.AspectRatio = &v
	}
	return r
}

// Defaults returns a copy of the entry's default parameters.
func (e Entry) Defaults() map[string]any {
	out := make(map[string]any, len(e.DefaultParams))
	maps.Copy(out, e.DefaultParams)
	return out
}

// Validate checks the entry for values the layout engine cannot work with.
func (e Entry) Validate() error {
	if err := errors.ValidateID(e.ID); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidCatalog, err, "invalid catalog id")
	}
	if e.MinWidthPx < 0 || e.MinHeightPx < 0 {
		return errors.New(errors.ErrCodeInvalidCatalog, "%s: minimum size cannot be negative", e.ID)
	}
	if e.PreferredSizePx.Width < 0 || e.PreferredSizePx.Height < 0 {
		return errors.New(errors.ErrCodeInvalidCatalog, "%s: preferred size cannot be negative", e.ID)
	}
	if e.AspectRatio != nil && *e.AspectRatio <= 0 {
		return errors.New(errors.ErrCodeInvalidCatalog, "%s: aspect ratio must be positive", e.ID)
	}
	if e.LockAspectRatio && e.AspectRatio == nil {
		return errors.New(errors.ErrCodeInvalidCatalog, "%s: locked aspect ratio requires a ratio", e.ID)
	}
	return nil
}

// Catalog looks up widget types by ID.
type Catalog interface {
	// Entry returns the entry with the given ID and whether it exists.
	Entry(id string) (Entry, bool)
}

// Lister is implemented by catalogs that can enumerate their entries.
type Lister interface {
	Entries() []Entry
}

// Memory is an in-memory catalog.
type Memory struct {
	entries map[string]Entry
}

// NewMemory creates a catalog from entries. Later duplicates replace earlier ones.
func NewMemory(entries ...Entry) *Memory {
	m := &Memory{entries: make(map[string]Entry, len(entries))}
	for _, e := range entries {
		m.entries[e.ID] = e
	}
	return m
}

// Entry implements Catalog.
func (m *Memory) Entry(id string) (Entry, bool) {
	e, ok := m.entries[id]
	return e, ok
}

// Put adds or replaces an entry.
func (m *Memory) Put(e Entry) {
	m.entries[e.ID] = e
}

// Delete removes an entry. Instances referencing it are dropped on the next revalidation.
func (m *Memory) Delete(id string) {
	delete(m.entries, id)
}

// Entries returns all entries sorted by ID.
func (m *Memory) Entries() []Entry {
	ids := slices.Collect(maps.Keys(m.entries))
	sort.Strings(ids)
	out := make([]Entry, 0, len(ids))
	for _, id := range ids {
		out = append(out, m.entries[id])
	}
	return out
}

var (
	_ Catalog = (*Memory)(nil)
	_ Lister  = (*Memory)(nil)
)
