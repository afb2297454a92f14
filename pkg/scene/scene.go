// Package scene describes a container and its children in a file, so a
// layout can be computed without a browser.
//
// A scene is loaded from TOML, YAML or JSON, chosen by file extension:
//
//	[container]
//	width = 1100
//
//	[options]
//	gutter = "1rem"
//	wedge = true
//
//	[[items]]
//	height = 240
//
//	[[items]]
//	aspect = 1.5
//
// Build turns a scene into a [dom.Document] whose container element is
// ready to hand to [masonry.New].
package scene

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/masonry/pkg/dom"
	"github.com/matzehuels/masonry/pkg/errors"
	"github.com/matzehuels/masonry/pkg/masonry"
)

// Supported scene formats.
const (
	FormatTOML = "toml"
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Defaults for fields a scene may omit.
const (
	DefaultViewportHeight = 800.0
	DefaultContainerID    = "gallery"
)

// Container is the element the grid lays out. Its width is the viewport
// width; the container spans the body.
type Container struct {
	ID       string  `json:"id,omitempty" toml:"id" yaml:"id,omitempty"`
	Width    float64 `json:"width" toml:"width" yaml:"width"`
	Height   float64 `json:"height,omitempty" toml:"height" yaml:"height,omitempty"`
	FontSize float64 `json:"fontSize,omitempty" toml:"fontSize" yaml:"fontSize,omitempty"`
}

// Item is one child. Exactly one of Height, Aspect or Text describes its
// content.
type Item struct {
	ID    string `json:"id,omitempty" toml:"id" yaml:"id,omitempty"`
	Class string `json:"class,omitempty" toml:"class" yaml:"class,omitempty"`

	// Height is a fixed height in pixels.
	Height float64 `json:"height,omitempty" toml:"height" yaml:"height,omitempty"`

	// Aspect is a width/height ratio, as for an image.
	Aspect float64 `json:"aspect,omitempty" toml:"aspect" yaml:"aspect,omitempty"`

	// Text is a character count wrapped at the column width.
	Text    int     `json:"text,omitempty" toml:"text" yaml:"text,omitempty"`
	Padding float64 `json:"padding,omitempty" toml:"padding" yaml:"padding,omitempty"`
}

// Scene is a container, its children and the grid options.
type Scene struct {
	Name      string          `json:"name,omitempty" toml:"name" yaml:"name,omitempty"`
	Container Container       `json:"container" toml:"container" yaml:"container"`
	Options   masonry.Options `json:"options" toml:"options" yaml:"options"`
	Items     []Item          `json:"items" toml:"items" yaml:"items"`
}

// Load reads a scene file. The format follows the extension.
func Load(path string) (*Scene, error) {
	if err := errors.ValidateScenePath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "scene %s", path)
		}
		return nil, fmt.Errorf("read scene: %w", err)
	}
	s, err := Decode(data, FormatForPath(path))
	if err != nil {
		return nil, err
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

// FormatForPath maps a file extension to a scene format.
func FormatForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	}
	return ""
}

// Decode parses and validates a scene.
func Decode(data []byte, format string) (*Scene, error) {
	var s Scene
	var err error
	switch format {
	case FormatTOML:
		_, err = toml.Decode(string(data), &s)
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&s)
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&s)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported scene format %q", format)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "decode %s scene", format)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks the container and every item.
func (s *Scene) Validate() error {
	if s.Container.Width <= 0 {
		return errors.New(errors.ErrCodeInvalidScene, "container width must be positive, got %v", s.Container.Width)
	}
	if s.Container.Height < 0 || s.Container.FontSize < 0 {
		return errors.New(errors.ErrCodeInvalidScene, "container height and font size cannot be negative")
	}
	for i, it := range s.Items {
		if err := it.validate(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidScene, err, "item %d", i)
		}
	}
	return nil
}

func (it Item) validate() error {
	n := 0
	if it.Height != 0 {
		n++
	}
	if it.Aspect != 0 {
		n++
	}
	if it.Text != 0 {
		n++
	}
	switch {
	case n != 1:
		return fmt.Errorf("exactly one of height, aspect or text is required")
	case it.Height < 0, it.Aspect < 0, it.Text < 0, it.Padding < 0:
		return fmt.Errorf("sizes cannot be negative")
	}
	return nil
}

// Content returns how the item's height follows its width.
func (it Item) Content() dom.Content {
	switch {
	case it.Aspect > 0:
		return dom.AspectRatio(it.Aspect)
	case it.Text > 0:
		return dom.Text{Chars: it.Text, Padding: it.Padding}
	}
	return dom.FixedHeight(it.Height)
}

// Label returns the item's id, or its position when it has none.
func (it Item) Label(index int) string {
	if it.ID != "" {
		return it.ID
	}
	return fmt.Sprintf("item-%d", index+1)
}

// Build creates a document for the scene and returns it with the container.
func (s *Scene) Build() (*dom.Document, *dom.Element) {
	h := s.Container.Height
	if h == 0 {
		h = DefaultViewportHeight
	}
	doc := dom.NewDocument(s.Container.Width, h)
	if s.Container.FontSize > 0 {
		doc.SetRootFontSize(s.Container.FontSize)
	}

	id := s.Container.ID
	if id == "" {
		id = DefaultContainerID
	}
	container := doc.Body().AppendChild(doc.CreateElement("div").SetID(id))
	for i, it := range s.Items {
		el := doc.CreateElement("figure").SetID(it.Label(i)).SetContent(it.Content())
		if it.Class != "" {
			el.AddClass(strings.Fields(it.Class)...)
		}
		container.AppendChild(el)
	}
	return doc, container
}

// Sample returns a scene of n items with a repeating mix of fixed heights,
// images and text, for demos and previews.
func Sample(n int, width float64) *Scene {
	s := &Scene{Name: "sample", Container: Container{Width: width}}
	heights := []float64{80, 240, 160, 80, 480, 320, 120, 200}
	for i := range n {
		var it Item
		switch i % 5 {
		case 1:
			it.Aspect = []float64{1.5, 0.75, 1}[i%3]
		case 3:
			it.Text = 60 + 40*(i%4)
			it.Padding = 12
		default:
			it.Height = heights[i%len(heights)]
		}
		s.Items = append(s.Items, it)
	}
	return s
}
