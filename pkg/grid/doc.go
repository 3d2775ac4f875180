// Package grid converts between pixel and grid-unit coordinates on a dashboard canvas.
//
// # Overview
//
// A canvas is a fixed number of columns spread across a container whose pixel
// width is observed from the host environment. Rows have a fixed pixel height.
// Margins are counted between units, never around the outer edge:
//
//	colWidth = (containerWidth - marginX*(columns-1)) / columns
//	widthPx  = w*colWidth + (w-1)*marginX
//	heightPx = h*rowHeight + (h-1)*marginY
//
// # Rounding
//
// [PixelsToUnits] rounds to the nearest unit and never returns less than one
// unit. The round trip through [UnitsToPixels] may drift by one unit. Callers
// that react to repeated events must recompute from the pixel source of truth
// instead of chaining previously rounded unit values.
package grid
