// Package pkg provides the libraries behind the masonry layout engine.
//
// # Overview
//
// Masonry places variable-height children into equal-width columns, always
// putting the next child into the shortest column, the way brick courses are
// laid. The pkg directory is organized into four areas:
//
//  1. [masonry] - The engine: placement, grid lifecycle, resize handling
//  2. [dom] - A headless document the engine measures and styles
//  3. [scene], [render] - Scene files in, SVG/JSON/text out
//  4. [pipeline], [cache] - Cached scene → layout → render runs for the CLI
//     and the HTTP server
//
// # Architecture
//
//	scene file (.toml / .yaml / .json)
//	         ↓
//	    [scene] package (decode, validate, build a document)
//	         ↓
//	    [masonry] package (bind a grid, place children)
//	         ↓
//	    [render] package (SVG, JSON, text)
//
// # Quick Start
//
// Lay out children in a document:
//
//	doc := dom.NewDocument(1100, 800)
//	gallery := doc.Body().AppendChild(doc.CreateElement("div").SetID("gallery"))
//	for _, h := range []float64{80, 240, 160} {
//	    gallery.AppendChild(doc.CreateElement("figure").SetContent(dom.FixedHeight(h)))
//	}
//
//	g, err := masonry.New("#gallery", masonry.Options{Gutter: masonry.CSS("1rem")},
//	    masonry.WithDocument(doc))
//	if err != nil {
//	    return err
//	}
//	defer g.Teardown()
//
// Compute a placement without a document:
//
//	p := masonry.Place(masonry.Input{
//	    Width:   1100,
//	    Count:   len(heights),
//	    Measure: func(i int, _ float64) float64 { return heights[i] },
//	    Config:  masonry.DefaultConfig(),
//	})
//
// # Main Packages
//
// [masonry] - Column-count selection, shortest-column placement, centering
// and direction handling, the style ledger that makes teardown exact, and the
// debounced resize coordinator.
//
// [dom] - Elements with inline styles and selectors. Lengths in absolute
// units, rem/em, percentages and viewport units resolve to pixels, and a
// window emits resize events.
//
// [scene] - Scene files describing a container, its children and engine
// options.
//
// [render] - Frames built from placements and their SVG, JSON and text
// renderings.
//
// [pipeline] - The runner shared by the CLI and the HTTP server.
//
// [cache] - File, Redis and null caches with content-addressed keys.
//
// [observability] - Hooks for layout passes, resize events, cache and HTTP
// activity.
//
// [errors] - Structured errors with codes the HTTP server maps to statuses.
package pkg
