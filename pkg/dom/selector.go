package dom

import (
	"slices"
	"strings"
)

// compound is one simple-selector sequence: tag, #id and .class parts.
type compound struct {
	tag     string
	id      string
	classes []string
}

// selector is a descendant chain of compounds, outermost first.
type selector []compound

// parseSelectorGroup splits a comma-separated selector list. Unsupported
// syntax yields a selector that never matches.
func parseSelectorGroup(s string) []selector {
	var out []selector
	for _, part := range strings.Split(s, ",") {
		if sel, ok := parseSelector(part); ok {
			out = append(out, sel)
		}
	}
	return out
}

func parseSelector(s string) (selector, bool) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, false
	}
	sel := make(selector, 0, len(fields))
	for _, f := range fields {
		c, ok := parseCompound(f)
		if !ok {
			return nil, false
		}
		sel = append(sel, c)
	}
	return sel, true
}

func parseCompound(s string) (compound, bool) {
	var c compound
	i := strings.IndexAny(s, "#.")
	if i < 0 {
		c.tag = s
		return c, c.tag == "*" || validIdent(c.tag)
	}
	c.tag = s[:i]
	if c.tag != "" && c.tag != "*" && !validIdent(c.tag) {
		return c, false
	}
	rest := s[i:]
	for rest != "" {
		kind := rest[0]
		rest = rest[1:]
		j := strings.IndexAny(rest, "#.")
		if j < 0 {
			j = len(rest)
		}
		name := rest[:j]
		rest = rest[j:]
		if !validIdent(name) {
			return c, false
		}
		if kind == '#' {
			c.id = name
		} else {
			c.classes = append(c.classes, name)
		}
	}
	return c, true
}

func validIdent(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}

func (c compound) matches(e *Element) bool {
	if c.tag != "" && c.tag != "*" && !strings.EqualFold(c.tag, e.tag) {
		return false
	}
	if c.id != "" && c.id != e.id {
		return false
	}
	for _, cls := range c.classes {
		if !slices.Contains(e.classes, cls) {
			return false
		}
	}
	return true
}

// matches checks the rightmost compound against e and the rest against its
// ancestors. Must be called with the document lock held.
func (s selector) matches(e *Element) bool {
	last := len(s) - 1
	if !s[last].matches(e) {
		return false
	}
	i := last - 1
	for n := e.parent; n != nil && i >= 0; n = n.parent {
		if s[i].matches(n) {
			i--
		}
	}
	return i < 0
}

// walk visits the descendants of e in document order until fn returns true.
func walk(e *Element, fn func(*Element) bool) bool {
	for _, c := range e.children {
		if fn(c) || walk(c, fn) {
			return true
		}
	}
	return false
}

// Query returns the first element in document order matching selector,
// or nil when nothing matches.
func (d *Document) Query(sel string) *Element {
	d.mu.RLock()
	defer d.mu.RUnlock()

	group := parseSelectorGroup(sel)
	var found *Element
	walk(d.body, func(e *Element) bool {
		for _, s := range group {
			if s.matches(e) {
				found = e
				return true
			}
		}
		return false
	})
	return found
}

// QueryAll returns every element matching selector in document order.
func (d *Document) QueryAll(sel string) []*Element {
	d.mu.RLock()
	defer d.mu.RUnlock()

	group := parseSelectorGroup(sel)
	var found []*Element
	walk(d.body, func(e *Element) bool {
		for _, s := range group {
			if s.matches(e) {
				found = append(found, e)
				break
			}
		}
		return false
	})
	return found
}

// Lookup is Query returning the match as a Node.
func (d *Document) Lookup(sel string) (Node, bool) {
	if e := d.Query(sel); e != nil {
		return e, true
	}
	return nil, false
}
