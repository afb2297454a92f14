package masonry

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/masonry/pkg/errors"
)

// Length is a configuration length: either a number of pixels or a CSS
// length string. The zero value is unset.
type Length struct {
	px   float64
	expr string
	set  bool
}

// Px returns a pixel length.
func Px(v float64) Length { return Length{px: v, set: true} }

// CSS returns a length expressed as a CSS string, such as "1.5rem".
func CSS(expr string) Length { return Length{expr: strings.TrimSpace(expr), set: true} }

// IsSet reports whether the length was given.
func (l Length) IsSet() bool { return l.set }

// IsZero reports whether the length is unset. It lets encoding/json omit
// unset lengths with the omitzero option.
func (l Length) IsZero() bool { return !l.set }

// Expr returns the CSS string of a string length, or "" for pixel lengths.
func (l Length) Expr() string { return l.expr }

// String formats the length as it would appear in a stylesheet.
func (l Length) String() string {
	switch {
	case !l.set:
		return ""
	case l.expr != "":
		return l.expr
	default:
		return strconv.FormatFloat(l.px, 'f', -1, 64) + "px"
	}
}

// or returns l when set, otherwise fallback.
func (l Length) or(fallback Length) Length {
	if l.set {
		return l
	}
	return fallback
}

// MarshalJSON encodes pixel lengths as numbers and CSS lengths as strings.
func (l Length) MarshalJSON() ([]byte, error) {
	if !l.set {
		return []byte("null"), nil
	}
	if l.expr != "" {
		return json.Marshal(l.expr)
	}
	return json.Marshal(l.px)
}

// UnmarshalJSON accepts a number, a string or null.
func (l *Length) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*l = Length{}
		return nil
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	return l.fromValue(v)
}

// UnmarshalTOML implements toml.Unmarshaler.
func (l *Length) UnmarshalTOML(v any) error {
	return l.fromValue(v)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *Length) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("length must be a scalar, got %v", node.Tag)
	}
	switch node.Tag {
	case "!!int", "!!float":
		f, err := strconv.ParseFloat(node.Value, 64)
		if err != nil {
			return err
		}
		*l = Px(f)
		return nil
	case "!!null":
		*l = Length{}
		return nil
	}
	*l = CSS(node.Value)
	return nil
}

// MarshalYAML encodes pixel lengths as numbers and CSS lengths as strings.
func (l Length) MarshalYAML() (any, error) {
	if !l.set {
		return nil, nil
	}
	if l.expr != "" {
		return l.expr, nil
	}
	return l.px, nil
}

func (l *Length) fromValue(v any) error {
	switch t := v.(type) {
	case float64:
		*l = Px(t)
	case int64:
		*l = Px(float64(t))
	case int:
		*l = Px(float64(t))
	case string:
		if strings.TrimSpace(t) == "" {
			return errors.New(errors.ErrCodeInvalidLength, "empty length")
		}
		*l = CSS(t)
	default:
		return errors.New(errors.ErrCodeInvalidLength, "length must be a number or string, got %T", v)
	}
	return nil
}

// LengthResolver converts CSS length strings to pixels. *dom.Document
// implements it by measuring a probe element.
type LengthResolver interface {
	ResolveLength(expr string) (float64, error)
}

// lengthCache memoizes resolved CSS strings for the life of the process,
// keyed by the literal string.
var lengthCache sync.Map

// ResetLengthCache forgets every memoized CSS length.
func ResetLengthCache() {
	lengthCache.Range(func(k, _ any) bool {
		lengthCache.Delete(k)
		return true
	})
}

// Pixels resolves l to pixels. CSS strings go through r and are cached;
// a failed resolution is not cached.
func (l Length) Pixels(r LengthResolver) (float64, error) {
	if !l.set {
		return 0, errors.New(errors.ErrCodeInvalidLength, "length is not set")
	}
	if l.expr == "" {
		return l.px, nil
	}
	if v, ok := lengthCache.Load(l.expr); ok {
		return v.(float64), nil
	}
	if r == nil {
		return 0, errors.New(errors.ErrCodeInvalidLength, "cannot resolve %q without a document", l.expr)
	}
	px, err := r.ResolveLength(l.expr)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidLength, err, "resolve %q", l.expr)
	}
	lengthCache.Store(l.expr, px)
	return px, nil
}
