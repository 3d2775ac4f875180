// Package constraint enforces minimum size and locked aspect ratio on widget geometry.
//
// # Minimum size
//
// Minimums are declared in pixels by the catalog and converted to grid units
// with [Derive]. The width minimum is converted with a 100px placeholder
// height and the height minimum with a 100px placeholder width, so each
// minimum is independent of the other dimension. Stored layouts depend on
// this exact derivation; do not replace it with a symmetric conversion.
//
// # Aspect ratio policies
//
// Two policies exist and are kept apart on purpose:
//
//   - [DominantAxis] runs on every incremental resize-move event. Whichever
//     axis changed more drives the other one.
//   - [WidthAnchored] runs on resize-stop, at placement and during
//     revalidation. Width always drives height.
//
// Both clamp to the minimum before and after the ratio logic, so the ratio
// yields whenever it would push a dimension below its minimum.
//
// Whether the live policy is deliberate UX or an accident is unresolved. Do
// not merge the two without settling that question first.
package constraint
