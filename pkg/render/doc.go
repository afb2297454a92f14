// Package render turns a computed placement into output formats.
//
// # Overview
//
// A [Frame] is a placement with labels attached: one [Tile] per child at
// its final position. Renderers take a frame and produce:
//
//   - SVG: one rectangle per tile, optionally with column guides
//   - JSON: tile geometry plus the resolved configuration
//   - Text: a character-cell picture for terminals
//
// Basic usage:
//
//	frame := render.FromPlacement(grid.Snapshot().Placement, labels)
//	svg := render.RenderSVG(frame, render.WithColumnGuides())
//	js, err := render.RenderJSON(frame, render.WithJSONConfig(cfg))
//	txt := render.RenderText(frame, 80)
//
// [Render] dispatches on a format name, for the CLI and the HTTP server.
package render
