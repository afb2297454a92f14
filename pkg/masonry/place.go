package masonry

import "math"

// Input is everything a placement pass reads.
type Input struct {
	// Width is the container's measured client width.
	Width float64

	// Count is the number of children.
	Count int

	// Measure returns the height of child i when rendered at width.
	Measure func(i int, width float64) float64

	Config Config
}

// Position is where one child lands.
type Position struct {
	Index  int     `json:"index"`
	Column int     `json:"column"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Placement is the result of one pass.
type Placement struct {
	// Width is the container width the pass used, after clamping to the
	// base width.
	Width float64 `json:"width"`

	// MinWidth is non-zero when the container was narrower than the base
	// width and must be held at this minimum.
	MinWidth float64 `json:"minWidth,omitempty"`

	Columns     int     `json:"columns"`
	ColumnWidth float64 `json:"columnWidth"`

	// GutterX and GutterY are the gutters actually in effect.
	GutterX float64 `json:"gutterX"`
	GutterY float64 `json:"gutterY"`

	// Height is the container height.
	Height float64 `json:"height"`

	ColumnHeights []float64  `json:"columnHeights"`
	Sizes         []float64  `json:"sizes"`
	Items         []Position `json:"items"`
}

// Place runs the placement algorithm.
func Place(in Input) Placement {
	cfg := in.Config
	p := Placement{Width: in.Width}
	if p.Width < cfg.BaseWidth {
		p.Width = cfg.BaseWidth
		p.MinWidth = cfg.BaseWidth
	}

	p.Columns, p.GutterX = columnCount(p.Width, cfg)
	p.GutterY = cfg.GutterY
	if p.Columns == 1 {
		p.GutterY = cfg.SingleColumnGutter
	}
	p.ColumnWidth = columnWidth(p.Width, p.GutterX, p.Columns, cfg.SurroundingGutter)

	p.Sizes = make([]float64, in.Count)
	for i := range p.Sizes {
		p.Sizes[i] = in.Measure(i, p.ColumnWidth)
	}

	startX := startOffset(p, in.Count, cfg)
	p.ColumnHeights = make([]float64, p.Columns)
	p.Items = make([]Position, in.Count)
	for i, size := range p.Sizes {
		col := i % p.Columns
		if cfg.Minify {
			col = shortest(p.ColumnHeights)
		}

		step := (p.ColumnWidth + p.GutterX) * float64(col)
		x := startX + step
		if cfg.Direction == RTL {
			x = startX - step - p.ColumnWidth
		}

		p.Items[i] = Position{
			Index:  i,
			Column: col,
			X:      roundHalfUp(x),
			Y:      roundHalfUp(p.ColumnHeights[col]),
			Width:  p.ColumnWidth,
			Height: size,
		}
		p.ColumnHeights[col] += size + p.GutterY
	}

	p.Height = max(0, p.ColumnHeights[tallest(p.ColumnHeights)]-p.GutterY)
	return p
}

// span is the width available to columns and the gaps between them. Without
// surrounding gutters the n columns share n-1 gaps, which the formula
// expresses by granting back one gutter.
func span(width, gutter float64, surrounding bool) float64 {
	if surrounding {
		return width - gutter
	}
	return width + gutter
}

// columnCount returns the number of columns and the horizontal gutter in
// effect. The fit is always probed with the configured gutter so repeated
// passes over the same width agree.
func columnCount(width float64, cfg Config) (int, float64) {
	count := func(gutter float64) int {
		return int(math.Floor(span(width, gutter, cfg.SurroundingGutter) / (cfg.BaseWidth + gutter)))
	}

	if count(cfg.GutterX) <= 1 {
		return 1, cfg.SingleColumnGutter
	}
	gutter := cfg.GutterX
	if width < cfg.BaseWidth+2*gutter {
		gutter = 0
	}
	return max(1, count(gutter)), gutter
}

func columnWidth(width, gutter float64, columns int, surrounding bool) float64 {
	w := span(width, gutter, surrounding)/float64(columns) - gutter
	return math.Round(w*100) / 100
}

// startOffset returns the x of the leading edge of column 0: its left edge
// for LTR, its right edge for RTL.
func startOffset(p Placement, children int, cfg Config) float64 {
	var edge float64
	if cfg.SurroundingGutter {
		edge = p.GutterX
	}
	start := edge
	if cfg.Direction == RTL {
		start = p.Width - edge
	}
	if p.Columns <= children {
		return start
	}

	occupied := float64(children)*(p.ColumnWidth+p.GutterX) - p.GutterX
	switch {
	case !cfg.Wedge && cfg.Direction == RTL:
		return p.Width - (p.Width-occupied)/2
	case !cfg.Wedge:
		return (p.Width - occupied) / 2
	case cfg.Direction == RTL:
		return p.Width - p.GutterX
	}
	return start
}

// shortest returns the index of the lowest column; ties go to the lowest index.
func shortest(cols []float64) int {
	best := 0
	for i, h := range cols {
		if h < cols[best] {
			best = i
		}
	}
	return best
}

// tallest returns the index of the highest column; ties go to the lowest index.
func tallest(cols []float64) int {
	best := 0
	for i, h := range cols {
		if h > cols[best] {
			best = i
		}
	}
	return best
}

// roundHalfUp rounds to the nearest integer with halves toward +Inf.
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}
