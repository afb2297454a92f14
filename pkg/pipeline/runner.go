package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/masonry/pkg/cache"
	"github.com/matzehuels/masonry/pkg/masonry"
	"github.com/matzehuels/masonry/pkg/observability"
	"github.com/matzehuels/masonry/pkg/render"
	"github.com/matzehuels/masonry/pkg/scene"
)

// Cache key types reported to observability.CacheHooks.
const (
	keyTypeLayout   = "layout"
	keyTypeArtifact = "artifact"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner holds no per-run state, so multiple goroutines can share one
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// layoutRecord is the cached form of a layout stage result.
type layoutRecord struct {
	Placement masonry.Placement `json:"placement"`
	Config    masonry.Config    `json:"config"`
}

// Execute runs the complete layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{}

	// Stage 1: Layout
	layoutStart := time.Now()
	rec, hash, layoutHit, err := r.layout(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.SceneHash = hash
	result.Placement = rec.Placement
	result.Config = rec.Config
	result.Frame = render.FromPlacement(rec.Placement, Labels(opts.Scene))
	result.Stats.Items = len(rec.Placement.Items)
	result.Stats.Columns = rec.Placement.Columns
	result.Stats.Height = rec.Placement.Height
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	opts.Logger.Info("computed layout",
		"items", result.Stats.Items,
		"columns", result.Stats.Columns,
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, result.Frame, rec.Config, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LayoutWithCacheInfo places the effective scene with caching and reports
// whether the placement came from the cache.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, opts Options) (masonry.Placement, masonry.Config, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return masonry.Placement{}, masonry.Config{}, false, err
	}
	r.applyLogger(&opts)
	rec, _, hit, err := r.layout(ctx, opts)
	return rec.Placement, rec.Config, hit, err
}

func (r *Runner) layout(ctx context.Context, opts Options) (layoutRecord, string, bool, error) {
	s := opts.EffectiveScene()
	sceneHash, err := hashScene(s)
	if err != nil {
		return layoutRecord{}, "", false, err
	}
	key := r.Keyer.LayoutKey(sceneHash, opts.LayoutKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var rec layoutRecord
			if err := json.Unmarshal(data, &rec); err == nil {
				observability.Cache().OnCacheHit(ctx, keyTypeLayout)
				return rec, sceneHash, true, nil
			}
		} else if err != nil {
			opts.Logger.Warn("cache read failed", "key", key, "err", err)
		}
		observability.Cache().OnCacheMiss(ctx, keyTypeLayout)
	}

	placement, cfg, err := Layout(s, opts.Logger)
	if err != nil {
		return layoutRecord{}, sceneHash, false, err
	}
	rec := layoutRecord{Placement: placement, Config: cfg}
	if data, err := json.Marshal(rec); err == nil {
		r.store(ctx, keyTypeLayout, key, data, cache.TTLLayout, opts.Logger)
	}
	return rec, sceneHash, false, nil
}

// RenderWithCacheInfo renders every requested format of frame with caching
// and reports whether all artifacts came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, f render.Frame, cfg masonry.Config, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	frameData, err := json.Marshal(f)
	if err != nil {
		return nil, false, fmt.Errorf("serialize frame for cache key: %w", err)
	}
	frameHash := cache.Hash(frameData)
	renderOpts := opts.RenderOptions(cfg)

	artifacts := make(map[string][]byte, len(opts.Formats))
	allCached := true
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(frameHash, opts.ArtifactKeyOpts(format))
		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, keyTypeArtifact)
				artifacts[format] = data
				continue
			}
			observability.Cache().OnCacheMiss(ctx, keyTypeArtifact)
		}
		allCached = false

		hooks := observability.Pipeline()
		hooks.OnRenderStart(ctx, format)
		start := time.Now()
		data, err := render.Render(format, f, renderOpts)
		hooks.OnRenderComplete(ctx, format, len(data), time.Since(start), err)
		if err != nil {
			return nil, false, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
		r.store(ctx, keyTypeArtifact, key, data, cache.TTLArtifact, opts.Logger)
	}
	return artifacts, allCached, nil
}

func (r *Runner) store(ctx context.Context, keyType, key string, data []byte, ttl time.Duration, logger *log.Logger) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		logger.Warn("cache write failed", "key", key, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// applyLogger sets the runner's logger on opts if opts has none.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	opts.Logger = opts.logger()
}

func hashScene(s *scene.Scene) (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("serialize scene for cache key: %w", err)
	}
	return cache.Hash(data), nil
}
