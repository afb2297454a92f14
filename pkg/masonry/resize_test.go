package masonry

import (
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/matzehuels/masonry/pkg/dom"
	"github.com/matzehuels/masonry/pkg/observability"
)

// waitFor polls cond until it holds. Fake clock timers fire on their own
// goroutine, so a pass triggered by Advance is observed asynchronously.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestResizeDebounce(t *testing.T) {
	clock := clockwork.NewFakeClock()
	doc, container, children := gallery(1100, 100, 100, 100, 100)
	g := newTestGrid(t, container, Options{}, WithClock(clock))

	doc.Window().Resize(700, 800)
	if !g.ResizePending() {
		t.Fatal("resize should schedule a pass")
	}
	doc.Window().Resize(600, 800)
	doc.Window().Resize(610, 800)

	clock.Advance(ResizeDebounce - time.Millisecond)
	if s := g.Snapshot(); s.Passes != 1 {
		t.Fatalf("Passes = %d before the debounce elapsed, want 1", s.Passes)
	}

	clock.Advance(2 * time.Millisecond)
	waitFor(t, "debounced pass", func() bool { return g.Snapshot().Passes == 2 })

	if g.ResizePending() {
		t.Error("no pass should be pending after the debounced pass")
	}
	s := g.Snapshot()
	if s.Columns != 2 || s.Width != 610 {
		t.Errorf("snapshot = %d columns at %v, want 2 at 610", s.Columns, s.Width)
	}
	if got := style(t, children[0], "width"); got != "300px" {
		t.Errorf("width = %q, want 300px", got)
	}
}

func TestResizeIgnoresUnchangedWidth(t *testing.T) {
	tests := []struct {
		name   string
		width  float64
		resize func(w *dom.Window)
	}{
		{"dispatch without change", 1100, func(w *dom.Window) { w.Dispatch() }},
		{"height only", 1100, func(w *dom.Window) { w.Resize(1100, 300) }},
		{"still narrower than base", 200, func(w *dom.Window) { w.Resize(150, 800) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := clockwork.NewFakeClock()
			doc, container, _ := gallery(tt.width, 100, 100)
			g := newTestGrid(t, container, Options{}, WithClock(clock))

			tt.resize(doc.Window())
			if !g.ResizePending() {
				t.Fatal("notification should schedule a check")
			}
			clock.Advance(ResizeDebounce)
			waitFor(t, "debounce to elapse", func() bool { return !g.ResizePending() })

			if s := g.Snapshot(); s.Passes != 1 {
				t.Errorf("Passes = %d, want 1", s.Passes)
			}
		})
	}
}

func TestResizeBelowBaseWidthClamps(t *testing.T) {
	clock := clockwork.NewFakeClock()
	doc, container, children := gallery(255, 100, 100)
	g := newTestGrid(t, container, Options{}, WithClock(clock))
	if _, ok := container.Style("min-width"); ok {
		t.Fatal("a container exactly at the base width should not be clamped")
	}

	doc.Window().Resize(200, 800)
	clock.Advance(ResizeDebounce)
	waitFor(t, "clamping pass", func() bool { return g.Snapshot().Passes == 2 })

	if got := style(t, container, "min-width"); got != "255px" {
		t.Errorf("min-width = %q, want 255px", got)
	}
	if got := style(t, children[0], "width"); got != "255px" {
		t.Errorf("child width = %q, want 255px", got)
	}
}

func TestResizeAfterTeardown(t *testing.T) {
	clock := clockwork.NewFakeClock()
	doc, container, children := gallery(1100, 100, 100)
	g := newTestGrid(t, container, Options{}, WithClock(clock))

	doc.Window().Resize(600, 800)
	if !g.ResizePending() {
		t.Fatal("resize should schedule a pass")
	}
	g.Teardown()
	if g.ResizePending() {
		t.Error("teardown should cancel the pending pass")
	}
	if n := doc.Window().Listeners(); n != 0 {
		t.Errorf("Listeners = %d, want 0", n)
	}

	clock.Advance(time.Second)
	doc.Window().Resize(500, 800)
	time.Sleep(10 * time.Millisecond)

	if _, ok := children[0].Style("width"); ok {
		t.Error("a pass ran after teardown")
	}
	if _, ok := container.Style("height"); ok {
		t.Error("container height set after teardown")
	}
}

type recordingResizeHooks struct {
	observability.NoopLayoutHooks
	mu        sync.Mutex
	events    int
	coalesced int
}

func (r *recordingResizeHooks) OnResizeEvent(_ string, coalesced bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events++
	if coalesced {
		r.coalesced++
	}
}

func TestResizeReportsCoalescedEvents(t *testing.T) {
	hooks := &recordingResizeHooks{}
	observability.SetLayoutHooks(hooks)
	t.Cleanup(observability.Reset)

	doc, container, _ := gallery(1100, 100)
	newTestGrid(t, container, Options{})

	for _, w := range []float64{900, 800, 700} {
		doc.Window().Resize(w, 800)
	}

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	if hooks.events != 3 || hooks.coalesced != 2 {
		t.Errorf("saw %d events, %d coalesced; want 3 and 2", hooks.events, hooks.coalesced)
	}
}
