package masonry

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"

	"github.com/matzehuels/masonry/pkg/dom"
	"github.com/matzehuels/masonry/pkg/errors"
	"github.com/matzehuels/masonry/pkg/observability"
)

// gallery builds a body-level container with one fixed-height child per
// height.
func gallery(width float64, heights ...float64) (*dom.Document, *dom.Element, []*dom.Element) {
	doc := dom.NewDocument(width, 800)
	container := doc.Body().AppendChild(doc.CreateElement("div").SetID("gallery"))
	children := make([]*dom.Element, len(heights))
	for i, h := range heights {
		children[i] = container.AppendChild(doc.CreateElement("figure").SetContent(dom.FixedHeight(h)))
	}
	return doc, container, children
}

func testLogger(buf *bytes.Buffer) *log.Logger {
	return log.NewWithOptions(buf, log.Options{Level: log.DebugLevel})
}

func newTestGrid(t *testing.T, target any, opts Options, extra ...GridOption) *Grid {
	t.Helper()
	options := append([]GridOption{WithClock(clockwork.NewFakeClock()), WithStrict(true)}, extra...)
	g, err := New(target, opts, options...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(g.Teardown)
	return g
}

func style(t *testing.T, n dom.Node, prop string) string {
	t.Helper()
	v, _ := n.Style(prop)
	return v
}

func TestGridAppliesLayout(t *testing.T) {
	_, container, children := gallery(1100, 80, 240, 160, 80, 480, 320)
	g := newTestGrid(t, container, Options{})

	wantTransforms := []string{
		"translate3d(0px,0px,0)",
		"translate3d(278px,0px,0)",
		"translate3d(555px,0px,0)",
		"translate3d(833px,0px,0)",
		"translate3d(0px,90px,0)",
		"translate3d(833px,90px,0)",
	}
	for i, child := range children {
		if got := style(t, child, "width"); got != "267.5px" {
			t.Errorf("child %d width = %q, want 267.5px", i, got)
		}
		if got := style(t, child, "position"); got != "absolute" {
			t.Errorf("child %d position = %q, want absolute", i, got)
		}
		if got := style(t, child, "transform"); got != wantTransforms[i] {
			t.Errorf("child %d transform = %q, want %q", i, got, wantTransforms[i])
		}
	}
	if got := style(t, container, "height"); got != "570px" {
		t.Errorf("container height = %q, want 570px", got)
	}
	if _, ok := container.Style("min-width"); ok {
		t.Error("min-width should not be set on a wide container")
	}

	s := g.Snapshot()
	if s.Columns != 4 || s.Children != 6 || s.Passes != 1 {
		t.Errorf("snapshot = %d columns, %d children, %d passes; want 4, 6, 1", s.Columns, s.Children, s.Passes)
	}
	if diff := cmp.Diff([]float64{80, 240, 160, 80, 480, 320}, s.Sizes); diff != "" {
		t.Errorf("sizes mismatch (-want +got):\n%s", diff)
	}
}

func TestGridThreeColumnsAt1000(t *testing.T) {
	_, container, children := gallery(1000, 80, 240, 160, 80, 480, 320)
	g := newTestGrid(t, container, Options{})

	if s := g.Snapshot(); s.Columns != 3 {
		t.Errorf("Columns = %d, want 3", s.Columns)
	}
	if got := style(t, children[0], "width"); got != "326.67px" {
		t.Errorf("width = %q, want 326.67px", got)
	}
}

func TestGridSelectorTarget(t *testing.T) {
	doc, _, _ := gallery(1100, 100, 100)
	g := newTestGrid(t, "#gallery", Options{}, WithDocument(doc))
	if !g.Active() {
		t.Fatal("grid should be active")
	}
	if s := g.Snapshot(); s.Children != 2 {
		t.Errorf("Children = %d, want 2", s.Children)
	}
}

func TestGridInvalidTarget(t *testing.T) {
	doc, _, _ := gallery(1100, 100)
	var nilElem *dom.Element

	tests := []struct {
		name   string
		target any
		opts   []GridOption
	}{
		{"nil", nil, nil},
		{"typed nil", nilElem, nil},
		{"unsupported type", 42, nil},
		{"empty selector", "  ", []GridOption{WithDocument(doc)}},
		{"no match", "#missing", []GridOption{WithDocument(doc)}},
		{"selector without document", "#gallery", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name+" strict", func(t *testing.T) {
			g, err := New(tt.target, Options{}, append(tt.opts, WithStrict(true))...)
			if !errors.Is(err, errors.ErrCodeInvalidTarget) {
				t.Fatalf("New() error = %v, want INVALID_TARGET", err)
			}
			if g != nil {
				t.Error("strict New should not return a grid")
			}
		})
		t.Run(tt.name+" lax", func(t *testing.T) {
			var buf bytes.Buffer
			g, err := New(tt.target, Options{}, append(tt.opts, WithLogger(testLogger(&buf)))...)
			if err != nil {
				t.Fatalf("New() error = %v, want nil", err)
			}
			if g.Active() {
				t.Error("grid should be inert")
			}
			if !strings.Contains(buf.String(), "INVALID_TARGET") {
				t.Errorf("log = %q, want INVALID_TARGET", buf.String())
			}
			g.Recompute()
			if err := g.Apply(Options{Gutter: Px(1)}); err != nil {
				t.Errorf("Apply() on inert grid = %v", err)
			}
			g.Teardown()
			if s := g.Snapshot(); s.Passes != 0 {
				t.Errorf("inert grid ran %d passes", s.Passes)
			}
		})
	}
}

func TestGridInvalidOptions(t *testing.T) {
	ResetLengthCache()
	t.Cleanup(ResetLengthCache)

	_, container, children := gallery(1100, 100)
	if _, err := New(container, Options{BaseWidth: CSS("huge")}, WithStrict(true), WithClock(clockwork.NewFakeClock())); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Fatalf("strict New() error = %v, want INVALID_CONFIG", err)
	}

	var buf bytes.Buffer
	g, err := New(container, Options{BaseWidth: CSS("huge")}, WithLogger(testLogger(&buf)), WithClock(clockwork.NewFakeClock()))
	if err != nil {
		t.Fatalf("lax New() error = %v", err)
	}
	t.Cleanup(g.Teardown)
	if g.Snapshot().Config.BaseWidth != DefaultBaseWidth {
		t.Errorf("BaseWidth = %v, want default", g.Snapshot().Config.BaseWidth)
	}
	if got := style(t, children[0], "width"); got != "267.5px" {
		t.Errorf("width = %q, want layout with defaults", got)
	}
	if !strings.Contains(buf.String(), "INVALID_CONFIG") {
		t.Errorf("log = %q, want INVALID_CONFIG", buf.String())
	}
}

func TestGridCSSLengthOptions(t *testing.T) {
	ResetLengthCache()
	t.Cleanup(ResetLengthCache)

	doc, container, children := gallery(1100, 100, 100, 100, 100, 100)
	doc.SetRootFontSize(20)
	g := newTestGrid(t, container, Options{Gutter: CSS("1rem"), BaseWidth: CSS("25vw")})

	cfg := g.Snapshot().Config
	if cfg.GutterX != 20 || cfg.GutterY != 20 || cfg.BaseWidth != 275 {
		t.Fatalf("config = %+v", cfg)
	}
	// floor((1100+20)/(275+20)) = 3 columns of 353.33px.
	if got := style(t, children[0], "width"); got != "353.33px" {
		t.Errorf("width = %q, want 353.33px", got)
	}
}

func TestGridIdempotent(t *testing.T) {
	_, container, children := gallery(777, 120, 80, 200, 60, 90)
	g := newTestGrid(t, container, Options{SingleColumnGutter: Px(40)})

	before := make([]map[string]string, len(children))
	for i, c := range children {
		before[i] = c.InlineStyle()
	}
	height := style(t, container, "height")

	g.Recompute()
	g.Recompute()

	for i, c := range children {
		if diff := cmp.Diff(before[i], c.InlineStyle()); diff != "" {
			t.Errorf("child %d styles changed (-before +after):\n%s", i, diff)
		}
	}
	if got := style(t, container, "height"); got != height {
		t.Errorf("height changed from %q to %q", height, got)
	}
	if s := g.Snapshot(); s.Passes != 3 {
		t.Errorf("Passes = %d, want 3", s.Passes)
	}
}

func TestGridNarrowContainer(t *testing.T) {
	doc, container, children := gallery(200, 50, 50)
	g := newTestGrid(t, container, Options{})

	if got := style(t, container, "min-width"); got != "255px" {
		t.Fatalf("min-width = %q, want 255px", got)
	}
	if got := style(t, children[0], "width"); got != "255px" {
		t.Errorf("child width = %q, want 255px", got)
	}

	g.Recompute()
	if got := style(t, container, "min-width"); got != "255px" {
		t.Errorf("min-width after recompute = %q, want 255px", got)
	}

	doc.Window().Resize(800, 800)
	g.Recompute()
	if _, ok := container.Style("min-width"); ok {
		t.Error("min-width should be released once the container is wide enough")
	}
	if s := g.Snapshot(); s.Columns != 3 {
		t.Errorf("Columns = %d, want 3", s.Columns)
	}
}

func TestGridSingleColumnSpacing(t *testing.T) {
	_, container, children := gallery(400, 100, 50)
	newTestGrid(t, container, Options{Gutter: Px(10), SingleColumnGutter: Px(24)})

	if got := style(t, children[1], "transform"); got != "translate3d(0px,124px,0)" {
		t.Errorf("second child transform = %q, want 24px below the first", got)
	}
	if got := style(t, container, "height"); got != "174px" {
		t.Errorf("height = %q, want 174px", got)
	}
}

func TestGridNoChildren(t *testing.T) {
	_, container, _ := gallery(1100)
	newTestGrid(t, container, Options{})
	if got := style(t, container, "height"); got != "0px" {
		t.Errorf("height = %q, want 0px", got)
	}
}

func TestGridRecomputePicksUpNewChildren(t *testing.T) {
	doc, container, _ := gallery(1100, 100, 100)
	g := newTestGrid(t, container, Options{})

	late := container.AppendChild(doc.CreateElement("figure").SetContent(dom.FixedHeight(40)))
	if _, ok := late.Style("transform"); ok {
		t.Fatal("late child should not be positioned before a recompute")
	}
	g.Recompute()
	if got := style(t, late, "transform"); got == "" {
		t.Error("late child should be positioned after recompute")
	}
	if s := g.Snapshot(); s.Children != 3 {
		t.Errorf("Children = %d, want 3", s.Children)
	}
}

func TestGridRecomputeReleasesRemovedChildren(t *testing.T) {
	_, container, children := gallery(1100, 100, 100, 100)
	children[1].SetStyle("width", "50%")
	g := newTestGrid(t, container, Options{})

	children[1].Remove()
	g.Recompute()

	if diff := cmp.Diff(map[string]string{"width": "50%"}, children[1].InlineStyle()); diff != "" {
		t.Errorf("removed child styles (-want +got):\n%s", diff)
	}
	if got := len(g.ledger.order); got != 3 {
		t.Errorf("ledger tracks %d nodes, want container and 2 children", got)
	}
	if _, tracked := g.ledger.prior[children[1]]; tracked {
		t.Error("removed child still tracked")
	}
	if got := style(t, children[2], "transform"); got != "translate3d(278px,0px,0)" {
		t.Errorf("remaining child transform = %q", got)
	}
}

func TestGridApply(t *testing.T) {
	_, container, children := gallery(1100, 100, 100, 100, 100, 100)
	g := newTestGrid(t, container, Options{})

	if err := g.Apply(Options{Gutter: Px(20)}); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	cfg := g.Snapshot().Config
	if cfg.GutterX != 20 || cfg.GutterY != 20 || cfg.SingleColumnGutter != 20 {
		t.Errorf("gutters = %v %v %v, want 20", cfg.GutterX, cfg.GutterY, cfg.SingleColumnGutter)
	}
	if got := style(t, children[0], "width"); got != "260px" {
		t.Errorf("width = %q, want 260px", got)
	}

	passes := g.Snapshot().Passes
	if err := g.Apply(Options{}); err != nil {
		t.Fatalf("Apply(empty) error = %v", err)
	}
	if got := g.Snapshot().Passes; got != passes+1 {
		t.Errorf("Apply(empty) should force a pass: %d -> %d", passes, got)
	}

	err := g.Apply(Options{Direction: "sideways", Wedge: Bool(true)})
	if !errors.Is(err, errors.ErrCodeInvalidDirection) {
		t.Fatalf("Apply() error = %v, want INVALID_DIRECTION", err)
	}
	cfg = g.Snapshot().Config
	if cfg.Direction != LTR || !cfg.Wedge {
		t.Errorf("config = %+v, want ltr kept and wedge applied", cfg)
	}
}

func TestGridDetachedContainer(t *testing.T) {
	var buf bytes.Buffer
	_, container, children := gallery(1100, 100, 100)
	g := newTestGrid(t, container, Options{}, WithLogger(testLogger(&buf)))

	before := children[0].InlineStyle()
	container.Remove()
	g.Recompute()
	if err := g.Apply(Options{Gutter: Px(30)}); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	if diff := cmp.Diff(before, children[0].InlineStyle()); diff != "" {
		t.Errorf("detached pass wrote styles (-before +after):\n%s", diff)
	}
	if s := g.Snapshot(); s.Passes != 1 {
		t.Errorf("Passes = %d, want 1", s.Passes)
	}
	if !strings.Contains(buf.String(), "DETACHED_CONTAINER") {
		t.Errorf("log = %q, want DETACHED_CONTAINER", buf.String())
	}
}

func TestGridMeasurementPanic(t *testing.T) {
	doc, container, children := gallery(1100, 100)
	g := newTestGrid(t, container, Options{})
	before := children[0].InlineStyle()

	container.AppendChild(doc.CreateElement("div").SetContent(dom.ContentFunc(func(float64) float64 {
		panic("layout engine exploded")
	})))
	g.Recompute()

	if diff := cmp.Diff(before, children[0].InlineStyle()); diff != "" {
		t.Errorf("failed pass wrote styles (-before +after):\n%s", diff)
	}
	if s := g.Snapshot(); s.Passes != 1 {
		t.Errorf("Passes = %d, want 1", s.Passes)
	}
}

func TestGridTeardownRestoresStyles(t *testing.T) {
	doc, container, children := gallery(200, 100, 200)
	children[0].SetStyle("position", "relative")
	children[1].SetStyle("color", "red")
	container.SetStyle("height", "auto")

	g := newTestGrid(t, container, Options{})
	if got := style(t, children[0], "position"); got != "absolute" {
		t.Fatalf("position = %q, want absolute while laid out", got)
	}

	g.Teardown()
	g.Teardown()

	if diff := cmp.Diff(map[string]string{"position": "relative"}, children[0].InlineStyle()); diff != "" {
		t.Errorf("child 0 styles (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]string{"color": "red"}, children[1].InlineStyle()); diff != "" {
		t.Errorf("child 1 styles (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]string{"height": "auto"}, container.InlineStyle()); diff != "" {
		t.Errorf("container styles (-want +got):\n%s", diff)
	}
	if doc.Window().Listeners() != 0 {
		t.Errorf("Listeners = %d, want 0", doc.Window().Listeners())
	}
	if g.Active() {
		t.Error("grid should be inactive after teardown")
	}

	g.Recompute()
	if len(children[1].InlineStyle()) != 1 {
		t.Error("recompute after teardown wrote styles")
	}
}

type recordingLayoutHooks struct {
	observability.NoopLayoutHooks
	mu     sync.Mutex
	passes int
	errs   int
}

func (r *recordingLayoutHooks) OnLayoutPass(string, int, int, time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.passes++
}

func (r *recordingLayoutHooks) OnLayoutError(string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs++
}

func TestGridReportsToHooks(t *testing.T) {
	hooks := &recordingLayoutHooks{}
	observability.SetLayoutHooks(hooks)
	t.Cleanup(observability.Reset)

	_, container, _ := gallery(1100, 100)
	g := newTestGrid(t, container, Options{})
	g.Recompute()
	container.Remove()
	g.Recompute()

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	if hooks.passes != 2 || hooks.errs != 1 {
		t.Errorf("hooks saw %d passes and %d errors, want 2 and 1", hooks.passes, hooks.errs)
	}
}
