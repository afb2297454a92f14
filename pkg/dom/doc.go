// Package dom is a headless element tree for driving the masonry engine.
//
// It models just enough of a document for layout: elements with inline styles,
// block-level width inheritance, a content model that turns a width into a
// rendered height, selector lookup, CSS length resolution through an invisible
// probe element, and a window that broadcasts resize notifications.
//
// # Measurement
//
// An element's client width is its inline width (resolved against the parent's
// width), otherwise the parent's client width; the body fills the viewport.
// An inline min-width raises the result. Heights come from the inline height,
// else from the element's [Content], else from the sum of its children.
//
// # Concurrency
//
// All reads and writes of the tree and of inline styles go through the
// owning [Document]'s lock, so an element may be measured from a timer
// goroutine while another goroutine resizes the window.
//
// # Usage
//
//	doc := dom.NewDocument(1024, 768)
//	grid := doc.Body().AppendChild(doc.CreateElement("div").SetID("grid"))
//	grid.AppendChild(doc.CreateElement("figure").SetContent(dom.AspectRatio(4.0 / 3)))
//	w, _ := doc.ResolveLength("2rem") // 32
package dom
