package masonry

import (
	stderrors "errors"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/masonry/pkg/errors"
)

// Direction is the horizontal flow of columns.
type Direction string

const (
	LTR Direction = "ltr"
	RTL Direction = "rtl"
)

// Defaults applied when an option is not given.
const (
	DefaultBaseWidth = 255.0
	DefaultGutter    = 10.0
)

// Options is user configuration. Every field is optional; unset fields keep
// their default (on New) or their current value (on Apply).
type Options struct {
	// BaseWidth is the minimum column width.
	BaseWidth Length `json:"baseWidth,omitzero" toml:"baseWidth" yaml:"baseWidth,omitempty"`

	// Gutter is the spacing between columns and between stacked children.
	Gutter Length `json:"gutter,omitzero" toml:"gutter" yaml:"gutter,omitempty"`

	// GutterX and GutterY override Gutter per axis.
	GutterX Length `json:"gutterX,omitzero" toml:"gutterX" yaml:"gutterX,omitempty"`
	GutterY Length `json:"gutterY,omitzero" toml:"gutterY" yaml:"gutterY,omitempty"`

	// Minify packs each child into the shortest column. When false children
	// are dealt round-robin by index.
	Minify *bool `json:"minify,omitempty" toml:"minify" yaml:"minify,omitempty"`

	// SurroundingGutter also puts the horizontal gutter on the outer edges.
	SurroundingGutter *bool `json:"surroundingGutter,omitempty" toml:"surroundingGutter" yaml:"surroundingGutter,omitempty"`

	// SingleColumnGutter replaces both gutters when only one column fits.
	// Defaults to GutterY, then Gutter.
	SingleColumnGutter Length `json:"singleColumnGutter,omitzero" toml:"singleColumnGutter" yaml:"singleColumnGutter,omitempty"`

	// Direction is LTR or RTL.
	Direction Direction `json:"direction,omitempty" toml:"direction" yaml:"direction,omitempty"`

	// Wedge makes content hug the leading edge instead of centering when
	// there are more columns than children.
	Wedge *bool `json:"wedge,omitempty" toml:"wedge" yaml:"wedge,omitempty"`
}

// Bool returns a pointer to v, for the optional boolean fields of Options.
func Bool(v bool) *bool { return &v }

// Merge returns o overlaid with the fields set in partial. A partial Gutter
// also replaces the per-axis and single-column gutters unless partial sets
// those explicitly.
func (o Options) Merge(partial Options) Options {
	out := o
	out.BaseWidth = partial.BaseWidth.or(o.BaseWidth)
	out.Gutter = partial.Gutter.or(o.Gutter)
	out.GutterX = partial.GutterX.or(partial.Gutter).or(o.GutterX)
	out.GutterY = partial.GutterY.or(partial.Gutter).or(o.GutterY)
	out.SingleColumnGutter = partial.SingleColumnGutter.
		or(partial.GutterY).
		or(partial.Gutter).
		or(o.SingleColumnGutter)
	if partial.Minify != nil {
		out.Minify = Bool(*partial.Minify)
	}
	if partial.SurroundingGutter != nil {
		out.SurroundingGutter = Bool(*partial.SurroundingGutter)
	}
	if partial.Direction != "" {
		out.Direction = partial.Direction
	}
	if partial.Wedge != nil {
		out.Wedge = Bool(*partial.Wedge)
	}
	return out
}

// String lists the fields that are set, for logs.
func (o Options) String() string {
	var parts []string
	add := func(name string, v string) {
		if v != "" {
			parts = append(parts, name+"="+v)
		}
	}
	flag := func(b *bool) string {
		if b == nil {
			return ""
		}
		return strconv.FormatBool(*b)
	}
	add("baseWidth", o.BaseWidth.String())
	add("gutter", o.Gutter.String())
	add("gutterX", o.GutterX.String())
	add("gutterY", o.GutterY.String())
	add("singleColumnGutter", o.SingleColumnGutter.String())
	add("minify", flag(o.Minify))
	add("surroundingGutter", flag(o.SurroundingGutter))
	add("direction", string(o.Direction))
	add("wedge", flag(o.Wedge))
	return strings.Join(parts, " ")
}

// Config is a fully resolved configuration in pixels.
type Config struct {
	BaseWidth          float64   `json:"baseWidth"`
	GutterX            float64   `json:"gutterX"`
	GutterY            float64   `json:"gutterY"`
	SingleColumnGutter float64   `json:"singleColumnGutter"`
	Minify             bool      `json:"minify"`
	SurroundingGutter  bool      `json:"surroundingGutter"`
	Direction          Direction `json:"direction"`
	Wedge              bool      `json:"wedge"`
}

// DefaultConfig returns the configuration used when no option is given.
func DefaultConfig() Config {
	return Config{
		BaseWidth:          DefaultBaseWidth,
		GutterX:            DefaultGutter,
		GutterY:            DefaultGutter,
		SingleColumnGutter: DefaultGutter,
		Minify:             true,
		Direction:          LTR,
	}
}

// Resolve converts o to pixels. Fields that fail to resolve keep their value
// from fallback and are reported together in the returned error, so the
// returned Config is always usable.
func (o Options) Resolve(r LengthResolver, fallback Config) (Config, error) {
	cfg := fallback
	var errs []error

	resolve := func(name string, l Length, dst *float64, positive bool) {
		if !l.IsSet() {
			return
		}
		px, err := l.Pixels(r)
		if err != nil {
			errs = append(errs, errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", name))
			return
		}
		if math.IsNaN(px) || math.IsInf(px, 0) {
			errs = append(errs, errors.New(errors.ErrCodeInvalidConfig, "%s must be finite, got %v", name, px))
			return
		}
		if px < 0 || (positive && px == 0) {
			errs = append(errs, errors.New(errors.ErrCodeInvalidConfig, "%s must be positive, got %v", name, px))
			return
		}
		*dst = px
	}

	resolve("baseWidth", o.BaseWidth, &cfg.BaseWidth, true)

	gutterX, gutterY := o.GutterX.or(o.Gutter), o.GutterY.or(o.Gutter)
	resolve("gutterX", gutterX, &cfg.GutterX, false)
	resolve("gutterY", gutterY, &cfg.GutterY, false)
	resolve("singleColumnGutter", o.SingleColumnGutter.or(gutterY), &cfg.SingleColumnGutter, false)

	if o.Minify != nil {
		cfg.Minify = *o.Minify
	}
	if o.SurroundingGutter != nil {
		cfg.SurroundingGutter = *o.SurroundingGutter
	}
	if o.Wedge != nil {
		cfg.Wedge = *o.Wedge
	}
	if o.Direction != "" {
		if err := errors.ValidateDirection(string(o.Direction)); err != nil {
			errs = append(errs, err)
		} else {
			cfg.Direction = o.Direction
		}
	}

	return cfg, stderrors.Join(errs...)
}
