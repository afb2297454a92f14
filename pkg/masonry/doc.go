// Package masonry positions variable-height children into a masonry grid.
//
// Columns share one fixed width; each child is placed into the currently
// shortest column (or round-robin by index when packing is disabled) and
// the container grows to fit the tallest column. When the container is
// resized the grid re-flows.
//
// # Overview
//
// [Place] is the pure placement algorithm: given a container width, a child
// count, a measurement function and a resolved [Config], it returns the
// column count, column width, per-child positions and container height.
//
// [Grid] binds that algorithm to a live container ([dom.Node]). It applies
// the result as inline styles (width, absolute position, translate3d
// transform, container height and min-width), re-runs it on [Grid.Apply]
// and [Grid.Recompute], and listens for resize notifications through a
// [ResizeSource], debounced to one pass per [ResizeDebounce].
// [Grid.Teardown] restores every inline style the grid claimed.
//
// # Configuration
//
// [Options] carries user input where every field is optional. Lengths are
// [Length] values: plain pixels or CSS length strings such as "2rem", which
// are resolved once per distinct string through a [LengthResolver] and
// memoized for the life of the process.
//
//	g, err := masonry.New("#gallery", masonry.Options{
//	    BaseWidth: masonry.Px(240),
//	    Gutter:    masonry.CSS("1rem"),
//	}, masonry.WithDocument(doc))
//	defer g.Teardown()
//
// # Errors
//
// An unusable target is reported through the grid's logger and yields an
// inert grid whose methods do nothing, unless [WithStrict] is set, in which
// case [New] returns the error. A container that leaves the document is
// logged and skipped on the next pass.
package masonry
