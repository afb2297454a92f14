package masonry

import (
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/matzehuels/masonry/pkg/observability"
)

// ResizeDebounce is how long the coordinator waits after the first resize
// notification before re-running placement. Notifications arriving while a
// pass is pending are dropped.
const ResizeDebounce = 33 * time.Millisecond

// ResizeSource delivers window resize notifications. *dom.Window implements
// it. The returned function unsubscribes fn.
type ResizeSource interface {
	OnResize(fn func()) (remove func())
}

// resizeCoordinator coalesces bursts of resize notifications into at most
// one placement pass per debounce window. Its fields are guarded by the
// owning grid's mutex.
type resizeCoordinator struct {
	grid   *Grid
	clock  clockwork.Clock
	remove func()
	timer  clockwork.Timer
}

func newResizeCoordinator(g *Grid, src ResizeSource) *resizeCoordinator {
	rc := &resizeCoordinator{grid: g, clock: g.clock}
	rc.remove = src.OnResize(rc.notify)
	return rc
}

func (rc *resizeCoordinator) notify() {
	g := rc.grid
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.torn {
		return
	}
	coalesced := rc.timer != nil
	observability.Layout().OnResizeEvent(g.id, coalesced)
	if coalesced {
		return
	}
	rc.timer = rc.clock.AfterFunc(ResizeDebounce, rc.fire)
}

func (rc *resizeCoordinator) fire() {
	g := rc.grid
	g.mu.Lock()
	defer g.mu.Unlock()
	rc.timer = nil
	if g.torn {
		return
	}
	// Only the width drives column geometry, so a height-only resize is
	// skipped. A container still below the base width of a clamped pass
	// lays out the same.
	if w := g.naturalWidth(); w == g.state.width || (w < g.cfg.BaseWidth && g.state.last.MinWidth > 0) {
		g.logger.Debug("resize ignored, width unchanged", "width", w)
		return
	}
	g.recompute()
}

// pending reports whether a debounced pass is scheduled.
func (rc *resizeCoordinator) pending() bool {
	return rc.timer != nil
}

func (rc *resizeCoordinator) stop() {
	if rc.remove != nil {
		rc.remove()
		rc.remove = nil
	}
	if rc.timer != nil {
		rc.timer.Stop()
		rc.timer = nil
	}
}

// ResizePending reports whether a resize-triggered pass is scheduled but
// has not run yet.
func (g *Grid) ResizePending() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.resize != nil && g.resize.pending()
}
