package catalog

func ratio(v float64) *float64 { return &v }

// Builtin returns the stock widget catalog used when no catalog file is configured.
func Builtin() *Memory {
	return NewMemory(
		Entry{
			ID:              "metric",
			Title:           "Metric",
			MinWidthPx:      120,
			MinHeightPx:     100,
			PreferredSizePx: Size{Width: 250, Height: 150},
			DefaultParams:   map[string]any{"title": "Metric", "format": "number"},
		},
		Entry{
			ID:               "line-chart",
			Title:            "Line chart",
			MinWidthPx:       300,
			MinHeightPx:      200,
			PreferredSizePx:  Size{Width: 500, Height: 300},
			AspectRatio:      ratio(5.0 / 3.0),
			LockAspectRatio:  true,
			RequiredEntities: []string{"events"},
			DefaultParams:    map[string]any{"title": "Trend", "interval": "day"},
		},
		Entry{
			ID:               "table",
			Title:            "Table",
			MinWidthPx:       400,
			MinHeightPx:      200,
			PreferredSizePx:  Size{Width: 600, Height: 400},
			RequiredEntities: []string{"events"},
			DefaultParams:    map[string]any{"title": "Rows", "pageSize": 25},
		},
		Entry{
			ID:              "pie-chart",
			Title:           "Pie chart",
			MinWidthPx:      120,
			MinHeightPx:     100,
			PreferredSizePx: Size{Width: 250, Height: 300},
			AspectRatio:     ratio(5.0 / 6.0),
			LockAspectRatio: true,
			DefaultParams:   map[string]any{"title": "Share"},
		},
		Entry{
			ID:              "text",
			Title:           "Text",
			MinWidthPx:      80,
			MinHeightPx:     40,
			PreferredSizePx: Size{Width: 300, Height: 80},
			DefaultParams:   map[string]any{"markdown": ""},
		},
	)
}
