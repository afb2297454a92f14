package masonry

import (
	"fmt"
	"io"
	"reflect"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/matzehuels/masonry/pkg/dom"
	"github.com/matzehuels/masonry/pkg/errors"
	"github.com/matzehuels/masonry/pkg/observability"
)

// Querier resolves a selector to a node. *dom.Document implements it.
type Querier interface {
	Lookup(selector string) (dom.Node, bool)
}

// GridOption configures a Grid.
type GridOption func(*Grid)

// WithLogger sets the logger errors and passes are reported to.
func WithLogger(l *log.Logger) GridOption {
	return func(g *Grid) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithDocument sets the document selector targets are resolved against.
func WithDocument(q Querier) GridOption {
	return func(g *Grid) { g.querier = q }
}

// WithLengthResolver sets how CSS length strings become pixels. By default
// the container's document is used.
func WithLengthResolver(r LengthResolver) GridOption {
	return func(g *Grid) { g.resolver = r }
}

// WithResizeSource sets where resize notifications come from. By default
// the container's document window is used.
func WithResizeSource(s ResizeSource) GridOption {
	return func(g *Grid) { g.source = s }
}

// WithClock sets the clock the resize debounce runs on.
func WithClock(c clockwork.Clock) GridOption {
	return func(g *Grid) {
		if c != nil {
			g.clock = c
		}
	}
}

// WithStrict makes New return target and configuration errors instead of
// logging them. Intended for development builds.
func WithStrict(strict bool) GridOption {
	return func(g *Grid) { g.strict = strict }
}

// state is the mutable layout state of one container.
type state struct {
	children []dom.Node
	count    int
	columns  []float64
	sizes    []float64
	width    float64
	gutterX  float64
	gutterY  float64
	last     Placement
	passes   int
}

// Grid lays out the children of one container.
type Grid struct {
	mu sync.Mutex

	id       string
	logger   *log.Logger
	strict   bool
	querier  Querier
	resolver LengthResolver
	source   ResizeSource
	clock    clockwork.Clock

	container dom.Node
	opts      Options
	cfg       Config
	state     state
	ledger    styleLedger
	resize    *resizeCoordinator

	// inert grids come from an unusable target and ignore every call.
	inert bool
	torn  bool
}

// New binds a grid to target, runs the first placement pass and starts
// listening for resizes.
//
// target is a dom.Node or a selector string resolved through WithDocument.
// An unusable target is logged and yields an inert grid with a nil error;
// with WithStrict the error is returned instead.
func New(target any, opts Options, options ...GridOption) (*Grid, error) {
	g := &Grid{
		id:     uuid.NewString(),
		logger: log.NewWithOptions(io.Discard, log.Options{}),
		clock:  clockwork.NewRealClock(),
	}
	for _, opt := range options {
		opt(g)
	}
	g.logger = g.logger.With("grid", g.id[:8])

	container, err := g.resolveTarget(target)
	if err != nil {
		g.inert = true
		if g.strict {
			return nil, err
		}
		g.logger.Error("grid disabled", "err", err)
		return g, nil
	}
	g.container = container

	if doc := ownerDocument(container); doc != nil {
		if g.resolver == nil {
			g.resolver = doc
		}
		if g.source == nil {
			g.source = doc.Window()
		}
	}

	cfg, err := opts.Resolve(g.resolver, DefaultConfig())
	if err != nil {
		if g.strict {
			return nil, err
		}
		g.logger.Error("invalid options, using defaults for failed fields", "err", err)
	}
	g.opts, g.cfg = opts, cfg

	g.mu.Lock()
	g.recompute()
	if g.source != nil {
		g.resize = newResizeCoordinator(g, g.source)
	}
	g.mu.Unlock()

	return g, nil
}

func (g *Grid) resolveTarget(target any) (dom.Node, error) {
	switch t := target.(type) {
	case nil:
		return nil, errors.New(errors.ErrCodeInvalidTarget, "target is missing")
	case string:
		if err := errors.ValidateSelector(t); err != nil {
			return nil, err
		}
		if g.querier == nil {
			return nil, errors.New(errors.ErrCodeInvalidTarget, "no document to resolve selector %q", t)
		}
		n, ok := g.querier.Lookup(t)
		if !ok || isNil(n) {
			return nil, errors.New(errors.ErrCodeInvalidTarget, "selector %q matched nothing", t)
		}
		return n, nil
	case dom.Node:
		if isNil(t) {
			return nil, errors.New(errors.ErrCodeInvalidTarget, "target is a nil %T", t)
		}
		return t, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidTarget, "target must be an element or a selector, got %T", target)
}

func isNil(n any) bool {
	if n == nil {
		return true
	}
	v := reflect.ValueOf(n)
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}

func ownerDocument(n dom.Node) *dom.Document {
	if e, ok := n.(interface{ Document() *dom.Document }); ok {
		return e.Document()
	}
	return nil
}

// ID returns the grid's instance id.
func (g *Grid) ID() string { return g.id }

// Active reports whether the grid is bound to a container and not torn down.
func (g *Grid) Active() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return !g.inert && !g.torn
}

// Recompute re-runs placement against the container's current children and
// measurements. It does nothing on an inert or torn-down grid, and logs and
// does nothing when the container is no longer attached.
func (g *Grid) Recompute() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.recompute()
}

// Apply merges partial over the current options and re-runs placement.
// Apply(Options{}) forces a relayout. Fields that fail to resolve keep their
// current value; the returned error describes them.
func (g *Grid) Apply(partial Options) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.inert || g.torn {
		return nil
	}

	// Only the partial is resolved, over the current config, so failed
	// fields keep their last good value.
	cfg, err := partial.Resolve(g.resolver, g.cfg)
	if err != nil {
		g.logger.Error("invalid options, keeping previous values for failed fields", "err", err)
	}
	g.opts, g.cfg = g.opts.Merge(partial), cfg
	g.recompute()
	return err
}

// Teardown stops listening for resizes, cancels a pending resize pass and
// restores every inline style the grid applied. It is safe to call more
// than once.
func (g *Grid) Teardown() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.inert || g.torn {
		return
	}
	g.torn = true
	if g.resize != nil {
		g.resize.stop()
	}
	g.ledger.restoreAll()
	g.state = state{}
	g.logger.Debug("grid torn down")
}

// recompute must be called with g.mu held.
func (g *Grid) recompute() {
	if g.inert || g.torn {
		return
	}
	if !g.container.Connected() {
		err := errors.New(errors.ErrCodeDetachedContainer, "container is not attached to a document")
		g.logger.Error("layout skipped", "err", err)
		observability.Layout().OnLayoutError(g.id, err)
		return
	}

	start := time.Now()
	p, children, err := g.measure()
	if err != nil {
		g.logger.Error("layout skipped", "err", err)
		observability.Layout().OnLayoutError(g.id, err)
		return
	}
	g.commit(p, children)
	elapsed := time.Since(start)

	g.logger.Debug("layout pass",
		"columns", p.Columns,
		"columnWidth", p.ColumnWidth,
		"children", len(children),
		"height", p.Height,
		"duration", elapsed)
	observability.Layout().OnLayoutPass(g.id, p.Columns, len(children), elapsed)
}

// measure snapshots the children and computes a placement without writing
// layout styles, so a failure leaves the previous layout untouched.
func (g *Grid) measure() (p Placement, children []dom.Node, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.New(errors.ErrCodeInternal, "measurement failed: %v", r)
		}
	}()

	children = g.container.Children()
	p = Place(Input{
		Width:   g.naturalWidth(),
		Count:   len(children),
		Measure: func(i int, width float64) float64 { return children[i].HeightAt(width) },
		Config:  g.cfg,
	})
	if len(p.Items) != len(children) {
		return p, nil, errors.New(errors.ErrCodeInternal, "placed %d of %d children", len(p.Items), len(children))
	}
	return p, children, nil
}

// naturalWidth measures the container without the min-width the grid may
// have applied on an earlier pass.
func (g *Grid) naturalWidth() float64 {
	applied, ok := g.ledger.claimed(g.container, propMinWidth)
	if !ok {
		return g.container.ClientWidth()
	}
	g.ledger.restore(g.container, propMinWidth)
	w := g.container.ClientWidth()
	g.ledger.set(g.container, propMinWidth, applied)
	return w
}

func (g *Grid) commit(p Placement, children []dom.Node) {
	for i, child := range children {
		it := p.Items[i]
		g.ledger.set(child, propWidth, px(p.ColumnWidth))
		g.ledger.set(child, propPosition, "absolute")
		g.ledger.set(child, propTransform, translate(it.X, it.Y))
	}
	g.ledger.set(g.container, propHeight, px(p.Height))
	if p.MinWidth > 0 {
		g.ledger.set(g.container, propMinWidth, px(p.MinWidth))
	} else {
		g.ledger.restore(g.container, propMinWidth)
	}
	g.ledger.retain(g.container, children)

	g.state = state{
		children: children,
		count:    p.Columns,
		columns:  p.ColumnHeights,
		sizes:    p.Sizes,
		width:    p.Width,
		gutterX:  p.GutterX,
		gutterY:  p.GutterY,
		last:     p,
		passes:   g.state.passes + 1,
	}
}

// Snapshot is a read-only copy of a grid's layout state.
type Snapshot struct {
	Columns       int
	ColumnHeights []float64
	Sizes         []float64
	Children      int
	Width         float64
	GutterX       float64
	GutterY       float64
	Passes        int
	Config        Config
	Placement     Placement
}

// Snapshot returns a copy of the state left by the last pass.
func (g *Grid) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	s := g.state
	return Snapshot{
		Columns:       s.count,
		ColumnHeights: slices.Clone(s.columns),
		Sizes:         slices.Clone(s.sizes),
		Children:      len(s.children),
		Width:         s.width,
		GutterX:       s.gutterX,
		GutterY:       s.gutterY,
		Passes:        s.passes,
		Config:        g.cfg,
		Placement:     s.last,
	}
}

// String describes the grid for logs.
func (g *Grid) String() string {
	s := g.Snapshot()
	return fmt.Sprintf("grid %s: %d columns, %d children, height %s", g.id[:8], s.Columns, s.Children, px(s.Placement.Height))
}
