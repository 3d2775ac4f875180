package grid

import (
	"math"

	"github.com/matzehuels/gridcanvas/pkg/errors"
)

// Default canvas geometry.
const (
	DefaultColumns          = 30
	DefaultRowHeightPx      = 30.0
	DefaultMarginPx         = 6.0
	DefaultContainerWidthPx = 1200.0
)

// Config describes the geometry of one canvas.
// ContainerWidthPx follows the host container; all other fields are fixed per canvas.
type Config struct {
	Columns          int        `json:"columns" toml:"columns"`
	RowHeightPx      float64    `json:"row_height_px" toml:"row_height_px"`
	MarginPx         [2]float64 `json:"margin_px" toml:"margin_px"`
	ContainerWidthPx float64    `json:"container_width_px" toml:"container_width_px"`
}

// Default returns the stock canvas geometry.
func Default() Config {
	return Config{
		Columns:          DefaultColumns,
		RowHeightPx:      DefaultRowHeightPx,
		MarginPx:         [2]float64{DefaultMarginPx, DefaultMarginPx},
		ContainerWidthPx: DefaultContainerWidthPx,
	}
}

// Validate reports whether the configuration can be used for conversions.
func (c Config) Validate() error {
	if c.Columns <= 0 {
		return errors.New(errors.ErrCodeInvalidGrid, "columns must be positive, got %d", c.Columns)
	}
	if c.RowHeightPx <= 0 {
		return errors.New(errors.ErrCodeInvalidGrid, "row height must be positive, got %v", c.RowHeightPx)
	}
	if c.ContainerWidthPx <= 0 {
		return errors.New(errors.ErrCodeInvalidGrid, "container width must be positive, got %v", c.ContainerWidthPx)
	}
	if c.MarginPx[0] < 0 || c.MarginPx[1] < 0 {
		return errors.New(errors.ErrCodeInvalidGrid, "margins cannot be negative")
	}
	return nil
}

// MarginX is the horizontal gap between two columns.
func (c Config) MarginX() float64 { return c.MarginPx[0] }

// MarginY is the vertical gap between two rows.
func (c Config) MarginY() float64 { return c.MarginPx[1] }

// ColumnWidth returns the pixel width of one column.
func (c Config) ColumnWidth() float64 {
	return (c.ContainerWidthPx - c.MarginX()*float64(c.Columns-1)) / float64(c.Columns)
}

// PixelsToUnits converts a pixel size to grid units. Both results are at least 1.
func PixelsToUnits(widthPx, heightPx float64, c Config) (w, h int) {
	w = max(1, Round(widthPx/(c.ColumnWidth()+c.MarginX())))
	h = max(1, Round(heightPx/(c.RowHeightPx+c.MarginY())))
	return w, h
}

// UnitsToPixels converts a size in grid units to pixels.
func UnitsToPixels(w, h int, c Config) (widthPx, heightPx float64) {
	widthPx = float64(w)*c.ColumnWidth() + float64(w-1)*c.MarginX()
	heightPx = float64(h)*c.RowHeightPx + float64(h-1)*c.MarginY()
	return widthPx, heightPx
}

// Round rounds half away from zero and returns an int.
func Round(v float64) int {
	return int(math.Round(v))
}

// Rect is an axis-aligned rectangle in grid units covering [X, X+W) × [Y, Y+H).
type Rect struct {
	X, Y, W, H int
}

// Right returns the exclusive right edge.
func (r Rect) Right() int { return r.X + r.W }

// Bottom returns the exclusive bottom edge.
func (r Rect) Bottom() int { return r.Y + r.H }

// Overlaps reports whether r and o share any cell.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.Right() && r.Right() > o.X &&
		r.Y < o.Bottom() && r.Bottom() > o.Y
}

// Origin returns the pixel offset of the rectangle's top-left corner.
func (r Rect) Origin(c Config) (xPx, yPx float64) {
	xPx = float64(r.X) * (c.ColumnWidth() + c.MarginX())
	yPx = float64(r.Y) * (c.RowHeightPx + c.MarginY())
	return xPx, yPx
}
