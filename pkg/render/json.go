package render

import (
	"encoding/json"

	"github.com/matzehuels/masonry/pkg/masonry"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	config *masonry.Config
	scene  string
}

// WithJSONConfig records the resolved configuration the placement used.
func WithJSONConfig(cfg masonry.Config) JSONOption {
	return func(r *jsonRenderer) { r.config = &cfg }
}

// WithJSONScene records the name of the scene the frame came from.
func WithJSONScene(name string) JSONOption { return func(r *jsonRenderer) { r.scene = name } }

type jsonOutput struct {
	Scene         string          `json:"scene,omitempty"`
	Width         float64         `json:"width"`
	Height        float64         `json:"height"`
	MinWidth      float64         `json:"min_width,omitempty"`
	Columns       int             `json:"columns"`
	ColumnWidth   float64         `json:"column_width"`
	GutterX       float64         `json:"gutter_x"`
	GutterY       float64         `json:"gutter_y"`
	ColumnHeights []float64       `json:"column_heights"`
	Config        *masonry.Config `json:"config,omitempty"`
	Tiles         []Tile          `json:"tiles"`
}

// RenderJSON exports the frame as a pretty-printed JSON document.
func RenderJSON(f Frame, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	tiles := f.Tiles
	if tiles == nil {
		tiles = []Tile{}
	}
	heights := f.Placement.ColumnHeights
	if heights == nil {
		heights = []float64{}
	}

	out := jsonOutput{
		Scene:         r.scene,
		Width:         f.Width,
		Height:        f.Height,
		MinWidth:      f.Placement.MinWidth,
		Columns:       f.Columns,
		ColumnWidth:   f.ColumnWidth,
		GutterX:       f.GutterX,
		GutterY:       f.Placement.GutterY,
		ColumnHeights: heights,
		Config:        r.config,
		Tiles:         tiles,
	}
	return json.MarshalIndent(out, "", "  ")
}
