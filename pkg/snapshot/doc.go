// Package snapshot renders a canvas for people: as a Graphviz drawing
// (DOT, SVG, PNG, PDF) with every widget pinned at its pixel position, or
// as a character grid for terminals.
//
// Snapshots are read-only views; they never touch the store.
//
//	dot := snapshot.ToDOT(sess.Instances(), sess.Grid(), snapshot.Options{})
//	svg, err := snapshot.RenderSVG(ctx, dot)
//
//	fmt.Println(snapshot.Text(sess.Instances(), sess.Grid(), snapshot.Options{}))
//
// Overlapping widgets are highlighted in both renderings; placement can
// produce them (see package placement), gestures cannot.
package snapshot
