package masonry

import (
	"strconv"

	"github.com/matzehuels/masonry/pkg/dom"
)

// Inline style properties the grid claims.
const (
	propWidth     = "width"
	propPosition  = "position"
	propTransform = "transform"
	propHeight    = "height"
	propMinWidth  = "min-width"
)

// priorValue is an inline style as it was before the grid first wrote it.
type priorValue struct {
	value   string
	present bool
}

// styleLedger writes inline styles and remembers what each claimed property
// held before, so teardown restores exactly what it took.
type styleLedger struct {
	prior map[dom.Node]map[string]priorValue
	order []dom.Node
}

func (l *styleLedger) set(n dom.Node, prop, value string) {
	if l.prior == nil {
		l.prior = make(map[dom.Node]map[string]priorValue)
	}
	props, ok := l.prior[n]
	if !ok {
		props = make(map[string]priorValue)
		l.prior[n] = props
		l.order = append(l.order, n)
	}
	if _, claimed := props[prop]; !claimed {
		v, present := n.Style(prop)
		props[prop] = priorValue{value: v, present: present}
	}
	n.SetStyle(prop, value)
}

// claimed returns the value the grid applied for prop on n.
func (l *styleLedger) claimed(n dom.Node, prop string) (string, bool) {
	if _, ok := l.prior[n][prop]; !ok {
		return "", false
	}
	return n.Style(prop)
}

// restore puts prop on n back to its pre-grid state and releases the claim.
func (l *styleLedger) restore(n dom.Node, prop string) {
	props, ok := l.prior[n]
	if !ok {
		return
	}
	pv, ok := props[prop]
	if !ok {
		return
	}
	if pv.present {
		n.SetStyle(prop, pv.value)
	} else {
		n.RemoveStyle(prop)
	}
	delete(props, prop)
}

// retain releases the claims on every node other than container and
// children, restoring their pre-grid styles. Children removed from the
// container stop being tracked on the next pass.
func (l *styleLedger) retain(container dom.Node, children []dom.Node) {
	live := make(map[dom.Node]bool, len(children)+1)
	live[container] = true
	for _, n := range children {
		live[n] = true
	}
	kept := l.order[:0]
	for _, n := range l.order {
		if live[n] {
			kept = append(kept, n)
			continue
		}
		for prop := range l.prior[n] {
			l.restore(n, prop)
		}
		delete(l.prior, n)
	}
	clear(l.order[len(kept):])
	l.order = kept
}

// restoreAll releases every claim in the order nodes were first touched.
func (l *styleLedger) restoreAll() {
	for _, n := range l.order {
		for prop := range l.prior[n] {
			l.restore(n, prop)
		}
	}
	l.prior = nil
	l.order = nil
}

func px(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}

func translate(x, y float64) string {
	return "translate3d(" + px(x) + "," + px(y) + ",0)"
}
