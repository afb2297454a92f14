package dom

import "math"

// Content computes the height an element renders at for a given width.
type Content interface {
	Height(width float64) float64
}

// FixedHeight is content whose height does not depend on width.
type FixedHeight float64

// Height implements Content.
func (h FixedHeight) Height(float64) float64 { return float64(h) }

// AspectRatio is replaced content (an image or video) with an intrinsic
// width/height ratio.
type AspectRatio float64

// Height implements Content.
func (r AspectRatio) Height(width float64) float64 {
	if r <= 0 {
		return 0
	}
	return width / float64(r)
}

// Text is a block of wrapped text. Each line holds as many characters as fit
// in the width minus horizontal padding; the height is the number of lines
// times the line height plus vertical padding.
type Text struct {
	Chars      int
	CharWidth  float64
	LineHeight float64
	Padding    float64
}

// Height implements Content.
func (t Text) Height(width float64) float64 {
	if t.Chars <= 0 {
		return 2 * t.Padding
	}
	cw := t.CharWidth
	if cw <= 0 {
		cw = DefaultFontSize / 2
	}
	lh := t.LineHeight
	if lh <= 0 {
		lh = DefaultFontSize * 1.5
	}
	perLine := math.Floor((width - 2*t.Padding) / cw)
	if perLine < 1 {
		perLine = 1
	}
	lines := math.Ceil(float64(t.Chars) / perLine)
	return lines*lh + 2*t.Padding
}

// ContentFunc adapts a function to Content.
type ContentFunc func(width float64) float64

// Height implements Content.
func (f ContentFunc) Height(width float64) float64 { return f(width) }
