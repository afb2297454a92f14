package dom

import (
	"slices"
	"sync"
)

// DefaultFontSize is the root font size in pixels used for rem and em units.
const DefaultFontSize = 16.0

// Node is the element surface the layout engine reads and writes.
type Node interface {
	// ClientWidth returns the element's current rendered width in pixels.
	ClientWidth() float64

	// HeightAt returns the height the element renders at when given width.
	HeightAt(width float64) float64

	// Children returns the element's children in document order.
	Children() []Node

	// Style returns an inline style property.
	Style(property string) (string, bool)

	// SetStyle sets an inline style property.
	SetStyle(property, value string)

	// RemoveStyle removes an inline style property.
	RemoveStyle(property string)

	// Connected reports whether the element is attached to its document.
	Connected() bool
}

// Document owns an element tree, the viewport and its window.
type Document struct {
	mu       sync.RWMutex
	body     *Element
	viewW    float64
	viewH    float64
	fontSize float64
	window   *Window
}

// NewDocument creates a document whose viewport is width x height pixels.
func NewDocument(width, height float64) *Document {
	d := &Document{
		viewW:    width,
		viewH:    height,
		fontSize: DefaultFontSize,
	}
	d.body = &Element{doc: d, tag: "body", style: map[string]string{}}
	d.window = &Window{doc: d, listeners: map[int]func(){}}
	return d
}

// Body returns the document's body element.
func (d *Document) Body() *Element { return d.body }

// Window returns the document's window.
func (d *Document) Window() *Window { return d.window }

// SetRootFontSize sets the font size in pixels that rem and em resolve against.
func (d *Document) SetRootFontSize(px float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if px > 0 {
		d.fontSize = px
	}
}

// CreateElement creates a detached element owned by d.
func (d *Document) CreateElement(tag string) *Element {
	return &Element{doc: d, tag: tag, style: map[string]string{}}
}

// Element is a node in a Document tree.
type Element struct {
	doc      *Document
	tag      string
	id       string
	classes  []string
	parent   *Element
	children []*Element
	style    map[string]string
	content  Content
}

var _ Node = (*Element)(nil)

// Document returns the element's owning document.
func (e *Element) Document() *Document { return e.doc }

// Tag returns the element's tag name.
func (e *Element) Tag() string { return e.tag }

// ID returns the element's id attribute.
func (e *Element) ID() string {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	return e.id
}

// SetID sets the element's id attribute and returns e.
func (e *Element) SetID(id string) *Element {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	e.id = id
	return e
}

// AddClass adds class names to the element and returns e.
func (e *Element) AddClass(names ...string) *Element {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	for _, n := range names {
		if n != "" && !slices.Contains(e.classes, n) {
			e.classes = append(e.classes, n)
		}
	}
	return e
}

// HasClass reports whether the element carries the class name.
func (e *Element) HasClass(name string) bool {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	return slices.Contains(e.classes, name)
}

// SetContent sets the element's content model and returns e.
func (e *Element) SetContent(c Content) *Element {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	e.content = c
	return e
}

// AppendChild attaches child as the last child of e and returns child.
// A child that already has a parent is moved.
func (e *Element) AppendChild(child *Element) *Element {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	child.detach()
	child.parent = e
	e.children = append(e.children, child)
	return child
}

// Remove detaches e from its parent.
func (e *Element) Remove() {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	e.detach()
}

func (e *Element) detach() {
	if e.parent == nil {
		return
	}
	p := e.parent
	if i := slices.Index(p.children, e); i >= 0 {
		p.children = slices.Delete(p.children, i, i+1)
	}
	e.parent = nil
}

// Parent returns the element's parent, or nil when detached.
func (e *Element) Parent() *Element {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	return e.parent
}

// ChildElements returns a copy of the element's children.
func (e *Element) ChildElements() []*Element {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	return slices.Clone(e.children)
}

// Children implements Node.
func (e *Element) Children() []Node {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	out := make([]Node, len(e.children))
	for i, c := range e.children {
		out[i] = c
	}
	return out
}

// Connected implements Node. The body is always connected.
func (e *Element) Connected() bool {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	return e.connected()
}

func (e *Element) connected() bool {
	for n := e; n != nil; n = n.parent {
		if n == e.doc.body {
			return true
		}
	}
	return false
}

// Style implements Node.
func (e *Element) Style(property string) (string, bool) {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	v, ok := e.style[property]
	return v, ok
}

// SetStyle implements Node.
func (e *Element) SetStyle(property, value string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	e.style[property] = value
}

// RemoveStyle implements Node.
func (e *Element) RemoveStyle(property string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	delete(e.style, property)
}

// InlineStyle returns a copy of all inline style properties.
func (e *Element) InlineStyle() map[string]string {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	out := make(map[string]string, len(e.style))
	for k, v := range e.style {
		out[k] = v
	}
	return out
}

// ClientWidth implements Node.
func (e *Element) ClientWidth() float64 {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	return e.clientWidth()
}

// clientWidth must be called with the document lock held.
func (e *Element) clientWidth() float64 {
	var w float64
	switch {
	case e == e.doc.body:
		w = e.doc.viewW
	case e.parent == nil:
		return 0
	default:
		w = e.parent.clientWidth()
	}
	parentW := w

	if v, ok := e.style["width"]; ok {
		if px, err := e.doc.toPixels(v, parentW); err == nil {
			w = px
		}
	}
	if v, ok := e.style["min-width"]; ok {
		if px, err := e.doc.toPixels(v, parentW); err == nil && px > w {
			w = px
		}
	}
	return w
}

// ClientHeight returns the element's height at its current client width.
func (e *Element) ClientHeight() float64 {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	return e.heightAt(e.clientWidth())
}

// HeightAt implements Node.
func (e *Element) HeightAt(width float64) float64 {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	return e.heightAt(width)
}

func (e *Element) heightAt(width float64) float64 {
	if v, ok := e.style["height"]; ok {
		if px, err := e.doc.toPixels(v, e.doc.viewH); err == nil {
			return px
		}
	}
	if e.content != nil {
		return e.content.Height(width)
	}
	var sum float64
	for _, c := range e.children {
		sum += c.heightAt(width)
	}
	return sum
}
