// Package pipeline runs a scene through layout and rendering.
//
// The CLI and the HTTP server both drive the engine through a [Runner], so
// caching and defaults behave the same at every entry point.
//
// # Stages
//
//  1. Layout: build the scene's document, bind a grid to its container and
//     take the placement left by the first pass.
//  2. Render: draw the placement in each requested format (svg, json, text).
//
// Both stages are cached. Layouts are keyed by the scene content, the width
// and the option overrides; artifacts by the placement and the format
// options.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Scene:   s,
//	    Formats: []string{"svg"},
//	})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/masonry/pkg/cache"
	"github.com/matzehuels/masonry/pkg/errors"
	"github.com/matzehuels/masonry/pkg/masonry"
	"github.com/matzehuels/masonry/pkg/render"
	"github.com/matzehuels/masonry/pkg/scene"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultFormat is rendered when no format is requested.
	DefaultFormat = render.FormatSVG

	// MaxWidth bounds the container width accepted from callers.
	MaxWidth = 16384.0

	// MaxItems bounds the number of children in one scene.
	MaxItems = 10000
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
type Options struct {
	// Scene is the container and children to lay out.
	Scene *scene.Scene `json:"scene"`

	// Width overrides the scene's container width when positive.
	Width float64 `json:"width,omitempty"`

	// Overrides are merged over the scene's own options.
	Overrides masonry.Options `json:"options,omitzero"`

	// Render options
	Formats []string `json:"formats,omitempty"`
	Guides  bool     `json:"guides,omitempty"`
	Cols    int      `json:"cols,omitempty"`

	// Refresh skips cache reads; results are still written.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// SceneHash is the content hash of the effective scene.
	SceneHash string

	// Placement is the engine's placement of the scene's children.
	Placement masonry.Placement

	// Config is the resolved configuration the placement was made with.
	Config masonry.Config

	// Frame is the renderable form of Placement.
	Frame render.Frame

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Items      int
	Columns    int
	Height     float64
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the placement came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// Calling it again has no further effect.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	if o.Cols <= 0 {
		o.Cols = render.DefaultTextCols
	}
	o.validated = true
	return nil
}

// ValidateForLayout checks the fields the layout stage reads.
func (o *Options) ValidateForLayout() error {
	if o.Scene == nil {
		return errors.New(errors.ErrCodeInvalidInput, "scene is required")
	}
	if o.Width < 0 || o.Width > MaxWidth {
		return errors.New(errors.ErrCodeInvalidInput, "width %v out of range (0-%v)", o.Width, MaxWidth)
	}
	if len(o.Scene.Items) > MaxItems {
		return errors.New(errors.ErrCodeInvalidScene, "too many items: %d (max %d)", len(o.Scene.Items), MaxItems)
	}
	if err := errors.ValidateDirection(string(o.Overrides.Direction)); err != nil {
		return err
	}
	return o.Scene.Validate()
}

// ValidateForRender checks the fields the render stage reads.
func (o *Options) ValidateForRender() error {
	for _, f := range o.Formats {
		if err := errors.ValidateFormat(f, render.Formats); err != nil {
			return err
		}
	}
	return nil
}

// EffectiveScene returns the scene with the width override and option
// overrides applied. The original scene is not modified.
func (o *Options) EffectiveScene() *scene.Scene {
	s := *o.Scene
	if o.Width > 0 {
		s.Container.Width = o.Width
	}
	s.Options = s.Options.Merge(o.Overrides)
	return &s
}

// LayoutKeyOpts returns the layout cache inputs besides the scene.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	s := o.EffectiveScene()
	return cache.LayoutKeyOpts{Width: s.Container.Width, Options: s.Options.String()}
}

// ArtifactKeyOpts returns the artifact cache inputs for format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case render.FormatSVG:
		opts.Guides = o.Guides
	case render.FormatText:
		opts.Cols = o.Cols
	}
	return opts
}

// RenderOptions returns the render options for this run.
func (o *Options) RenderOptions(cfg masonry.Config) render.Options {
	name := ""
	if o.Scene != nil {
		name = o.Scene.Name
	}
	return render.Options{Config: &cfg, Scene: name, Guides: o.Guides, Cols: o.Cols}
}

func (o *Options) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.Default()
}
