package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
)

const tileCSS = `
    .tile { fill: #e8eef7; stroke: #4a6fa5; stroke-width: 1.5; }
    .tile:hover { fill: #c9d8ee; }
    .tile-text { font: 12px sans-serif; fill: #1f2d3d; pointer-events: none; }
    .guide { fill: #f7f7f7; }`

// palette cycles tile fills by column so neighbouring columns read apart.
var palette = []string{"#e8eef7", "#eef7e8", "#f7efe8", "#f1e8f7"}

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	guides bool
	labels bool
}

// WithColumnGuides shades each column behind the tiles.
func WithColumnGuides() SVGOption { return func(r *svgRenderer) { r.guides = true } }

// WithoutLabels omits tile labels.
func WithoutLabels() SVGOption { return func(r *svgRenderer) { r.labels = false } }

// RenderSVG draws every tile as a rectangle at its placed position.
func RenderSVG(f Frame, opts ...SVGOption) []byte {
	r := svgRenderer{labels: true}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		f.Width, f.Height, f.Width, f.Height)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", tileCSS)

	if r.guides {
		renderGuides(&buf, f)
	}
	for _, t := range f.Tiles {
		fmt.Fprintf(&buf, `  <rect id="tile-%d" class="tile" x="%.1f" y="%.1f" width="%.2f" height="%.2f" style="fill:%s"/>`+"\n",
			t.Index, t.X, t.Y, t.Width, t.Height, palette[t.Column%len(palette)])
	}
	if r.labels {
		for _, t := range f.Tiles {
			fmt.Fprintf(&buf, `  <text class="tile-text" x="%.1f" y="%.1f">%s</text>`+"\n",
				t.X+6, t.Y+16, escapeXML(t.Label))
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// renderGuides shades the column bands. Bands are derived from the tiles so
// they follow the direction and centering the placement used.
func renderGuides(buf *bytes.Buffer, f Frame) {
	seen := make(map[int]bool)
	for _, t := range f.Tiles {
		if seen[t.Column] {
			continue
		}
		seen[t.Column] = true
		fmt.Fprintf(buf, `  <rect class="guide" x="%.1f" y="0" width="%.2f" height="%.1f"/>`+"\n",
			t.X, t.Width, f.Height)
	}
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
