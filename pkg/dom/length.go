package dom

import (
	"strconv"
	"strings"

	"github.com/matzehuels/masonry/pkg/errors"
)

// Absolute units in CSS pixels.
var absoluteUnits = map[string]float64{
	"px": 1,
	"in": 96,
	"cm": 96 / 2.54,
	"mm": 96 / 25.4,
	"q":  96 / 101.6,
	"pt": 96.0 / 72,
	"pc": 16,
}

// SplitLength splits a CSS length such as "2.5rem" into its number and
// lower-cased unit. A bare number yields an empty unit.
func SplitLength(val string) (float64, string, error) {
	s := strings.ToLower(strings.TrimSpace(val))
	if s == "" {
		return 0, "", errors.New(errors.ErrCodeInvalidLength, "empty length")
	}

	end := len(s)
	for end > 0 {
		c := s[end-1]
		if (c >= 'a' && c <= 'z') || c == '%' {
			end--
			continue
		}
		break
	}
	num, unit := s[:end], s[end:]
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, "", errors.New(errors.ErrCodeInvalidLength, "invalid length %q", val)
	}
	return n, unit, nil
}

// toPixels converts a CSS length to pixels. Percentages resolve against
// reference. Must be called with the document lock held.
func (d *Document) toPixels(val string, reference float64) (float64, error) {
	n, unit, err := SplitLength(val)
	if err != nil {
		return 0, err
	}
	if f, ok := absoluteUnits[unit]; ok {
		return n * f, nil
	}
	switch unit {
	case "":
		// Only unitless zero is a valid CSS length.
		if n == 0 {
			return 0, nil
		}
	case "rem", "em":
		return n * d.fontSize, nil
	case "%":
		return n * reference / 100, nil
	case "vw":
		return n * d.viewW / 100, nil
	case "vh":
		return n * d.viewH / 100, nil
	case "vmin":
		return n * min(d.viewW, d.viewH) / 100, nil
	case "vmax":
		return n * max(d.viewW, d.viewH) / 100, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidLength, "unsupported length %q", val)
}

// ResolveLength returns the pixel width of a CSS length string.
//
// The value is applied as the inline width of an invisible probe element
// appended to the body and the probe's computed width is read back, so
// relative units resolve exactly as they would for a body-level element.
func (d *Document) ResolveLength(val string) (float64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	probe := &Element{doc: d, tag: "div", style: map[string]string{
		"position":   "absolute",
		"visibility": "hidden",
		"width":      val,
	}}
	probe.parent = d.body
	d.body.children = append(d.body.children, probe)
	defer probe.detach()

	if _, err := d.toPixels(val, d.body.clientWidth()); err != nil {
		return 0, err
	}
	return probe.clientWidth(), nil
}
