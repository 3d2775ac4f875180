// Package canvas holds the authoritative list of widget instances on a canvas.
//
// # Store
//
// [Store] is the single source of truth for one canvas. It is owned by the
// session controller and handed to collaborators by reference; there is no
// package-level store. All operations are synchronous and total: unknown IDs
// are ignored and nothing panics or returns an error.
//
// # Gestures
//
// Geometry changes arrive as phases of a gesture ([Phase]):
//
//	DragMove    position only, no checks, not committed
//	DragStop    position only, collision check, committed
//	ResizeMove  dominant-axis aspect policy, no collision check, not committed
//	ResizeStop  width-anchored aspect policy, collision check, committed
//	Commit      explicit mutation, width-anchored, collision check, committed
//
// The first move event of a gesture records the instance's pre-gesture
// geometry. A stop that collides with another instance restores that
// geometry in full; the widget is never nudged to a free spot.
//
// # Revalidation
//
// When the container width changes every instance is refitted: grid-unit
// minimums are derived again from the pixel constraints, sizes are clamped,
// and locked instances settle on their aspect ratio. The pass is idempotent.
//
// # Concurrency
//
// A Store is not safe for concurrent use. The host serializes events onto one
// logical thread.
package canvas
