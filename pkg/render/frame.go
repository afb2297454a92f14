package render

import (
	"fmt"

	"github.com/matzehuels/masonry/pkg/errors"
	"github.com/matzehuels/masonry/pkg/masonry"
)

// Output formats.
const (
	FormatSVG  = "svg"
	FormatJSON = "json"
	FormatText = "text"
)

// Formats lists the formats [Render] accepts.
var Formats = map[string]bool{
	FormatSVG:  true,
	FormatJSON: true,
	FormatText: true,
}

// Tile is one positioned child.
type Tile struct {
	Index  int     `json:"index"`
	Label  string  `json:"label"`
	Column int     `json:"column"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Frame is the full picture of one placement.
type Frame struct {
	Width       float64
	Height      float64
	Columns     int
	ColumnWidth float64
	GutterX     float64
	Tiles       []Tile
	Placement   masonry.Placement
}

// FromPlacement builds a frame. labels[i] names child i; missing labels
// fall back to the child's position.
func FromPlacement(p masonry.Placement, labels []string) Frame {
	f := Frame{
		Width:       p.Width,
		Height:      p.Height,
		Columns:     p.Columns,
		ColumnWidth: p.ColumnWidth,
		GutterX:     p.GutterX,
		Tiles:       make([]Tile, len(p.Items)),
		Placement:   p,
	}
	for i, it := range p.Items {
		label := fmt.Sprintf("item-%d", i+1)
		if i < len(labels) && labels[i] != "" {
			label = labels[i]
		}
		f.Tiles[i] = Tile{
			Index:  it.Index,
			Label:  label,
			Column: it.Column,
			X:      it.X,
			Y:      it.Y,
			Width:  it.Width,
			Height: it.Height,
		}
	}
	return f
}

// Options configures [Render].
type Options struct {
	// Config is recorded in JSON output.
	Config *masonry.Config

	// Scene names the source in JSON output.
	Scene string

	// Guides draws column guides in SVG output.
	Guides bool

	// Cols is the text output width in characters.
	Cols int
}

// Render produces frame in the named format.
func Render(format string, f Frame, opts Options) ([]byte, error) {
	if err := errors.ValidateFormat(format, Formats); err != nil {
		return nil, err
	}
	switch format {
	case FormatSVG:
		var svgOpts []SVGOption
		if opts.Guides {
			svgOpts = append(svgOpts, WithColumnGuides())
		}
		return RenderSVG(f, svgOpts...), nil
	case FormatJSON:
		var jsonOpts []JSONOption
		if opts.Config != nil {
			jsonOpts = append(jsonOpts, WithJSONConfig(*opts.Config))
		}
		if opts.Scene != "" {
			jsonOpts = append(jsonOpts, WithJSONScene(opts.Scene))
		}
		return RenderJSON(f, jsonOpts...)
	default:
		return []byte(RenderText(f, opts.Cols)), nil
	}
}
