// Package persist stores the canvas in a key/value backend and revalidates
// it against the current catalog and permissions when it is read back.
//
// The stored document is one JSON object per canvas:
//
//	{"widgetInstances": [{"id": ..., "dashId": ..., "layout": {...},
//	  "params": {...}, "resizeConstraints": {...}}]}
//
// Only id, dashId, layout position/size and params are trusted on load.
// Minimum sizes and resize constraints are recomputed from the catalog so
// that catalog changes apply to layouts saved before them.
package persist

import (
	"encoding/json"

	"github.com/matzehuels/gridcanvas/pkg/canvas"
	"github.com/matzehuels/gridcanvas/pkg/constraint"
)

// Document is the persisted form of a canvas.
type Document struct {
	WidgetInstances []Record `json:"widgetInstances"`
}

// Record is the persisted form of one widget instance.
type Record struct {
	ID                string            `json:"id"`
	DashID            string            `json:"dashId"`
	Layout            RecordLayout      `json:"layout"`
	Params            map[string]any    `json:"params"`
	ResizeConstraints constraint.Resize `json:"resizeConstraints"`
}

// RecordLayout is the persisted layout. I repeats the instance ID and
// Static is always false; both exist for readers of the stored document.
type RecordLayout struct {
	X      int    `json:"x"`
	Y      int    `json:"y"`
	W      int    `json:"w"`
	H      int    `json:"h"`
	I      string `json:"i"`
	MinW   int    `json:"minW"`
	MinH   int    `json:"minH"`
	Static bool   `json:"static"`
}

// Encode serializes instances into the persisted document format.
func Encode(instances []canvas.WidgetInstance) ([]byte, error) {
	doc := Document{WidgetInstances: make([]Record, 0, len(instances))}
	for _, w := range instances {
		params := w.Params
		if params == nil {
			params = map[string]any{}
		}
		doc.WidgetInstances = append(doc.WidgetInstances, Record{
			ID:     w.ID,
			DashID: w.CatalogID,
			Layout: RecordLayout{
				X: w.Layout.X, Y: w.Layout.Y, W: w.Layout.W, H: w.Layout.H,
				I:    w.ID,
				MinW: w.Layout.MinW, MinH: w.Layout.MinH,
			},
			Params:            params,
			ResizeConstraints: w.ResizeConstraints,
		})
	}
	return json.Marshal(doc)
}

// Decode parses a persisted document. The result is not revalidated.
func Decode(data []byte) ([]canvas.WidgetInstance, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	out := make([]canvas.WidgetInstance, 0, len(doc.WidgetInstances))
	for _, r := range doc.WidgetInstances {
		id := r.ID
		if id == "" {
			id = r.Layout.I
		}
		out = append(out, canvas.WidgetInstance{
			ID:        id,
			CatalogID: r.DashID,
			Layout: canvas.Layout{
				X: r.Layout.X, Y: r.Layout.Y, W: r.Layout.W, H: r.Layout.H,
				MinW: r.Layout.MinW, MinH: r.Layout.MinH,
			},
			Params:            r.Params,
			ResizeConstraints: r.ResizeConstraints,
		})
	}
	return out, nil
}
