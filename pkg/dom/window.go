package dom

import (
	"sort"
	"sync"
)

// Window delivers viewport resize notifications for a Document.
type Window struct {
	doc *Document

	mu        sync.Mutex
	listeners map[int]func()
	next      int
}

// OnResize registers fn to run after every viewport resize. The returned
// function removes the listener and is safe to call more than once.
func (w *Window) OnResize(fn func()) (remove func()) {
	w.mu.Lock()
	id := w.next
	w.next++
	w.listeners[id] = fn
	w.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			w.mu.Lock()
			delete(w.listeners, id)
			w.mu.Unlock()
		})
	}
}

// Listeners returns the number of registered resize listeners.
func (w *Window) Listeners() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.listeners)
}

// Size returns the viewport size.
func (w *Window) Size() (width, height float64) {
	w.doc.mu.RLock()
	defer w.doc.mu.RUnlock()
	return w.doc.viewW, w.doc.viewH
}

// Resize changes the viewport size and notifies listeners in registration
// order. Listeners run on the caller's goroutine without any lock held.
func (w *Window) Resize(width, height float64) {
	w.doc.mu.Lock()
	w.doc.viewW, w.doc.viewH = width, height
	w.doc.mu.Unlock()

	w.Dispatch()
}

// Dispatch notifies listeners without changing the viewport, the way some
// platforms emit resize events while scrolling.
func (w *Window) Dispatch() {
	w.mu.Lock()
	ids := make([]int, 0, len(w.listeners))
	for id := range w.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, w.listeners[id])
	}
	w.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
