// Package dom is an in-memory page model. The renderer mutates it and every
// effective mutation is published as a Patch so browsers can replay it.
package dom

import (
	"sync"

	"github.com/pefman/tracker-detail/internal/render"
)

// Patch operations.
const (
	OpText        = "text"
	OpAddClass    = "add_class"
	OpRemoveClass = "remove_class"
	OpWidth       = "width"
)

// Patch is a single element mutation.
type Patch struct {
	Seq   uint64 `json:"seq"`
	ID    string `json:"id"`
	Op    string `json:"op"`
	Value string `json:"value"`
}

// Node is a copy of an element's current state.
type Node struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Classes []string `json:"classes"`
	Width   string   `json:"width"`
}

// Document holds registered elements. Lookups for ids that were never
// registered report false.
type Document struct {
	mu        sync.RWMutex
	nodes     map[string]*Node
	order     []string
	sections  []Section
	seq       uint64
	listeners map[uint64]func(Patch)
	nextSub   uint64
}

// New returns an empty Document.
func New() *Document {
	return &Document{
		nodes:     make(map[string]*Node),
		listeners: make(map[uint64]func(Patch)),
	}
}

// Register adds elements by id. Already registered ids are left untouched.
func (d *Document) Register(ids ...string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, id := range ids {
		d.register(id)
	}
}

func (d *Document) register(id string) {
	if _, ok := d.nodes[id]; ok {
		return
	}
	d.nodes[id] = &Node{ID: id}
	d.order = append(d.order, id)
}

// Lookup implements render.Document.
func (d *Document) Lookup(id string) (render.Element, bool) {
	d.mu.RLock()
	_, ok := d.nodes[id]
	d.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return &element{doc: d, id: id}, true
}

// Node returns a copy of the element with id.
func (d *Document) Node(id string) (Node, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	n, ok := d.nodes[id]
	if !ok {
		return Node{}, false
	}
	return copyNode(n), true
}

// Snapshot returns every element in registration order.
func (d *Document) Snapshot() []Node {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Node, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, copyNode(d.nodes[id]))
	}
	return out
}

// Subscribe registers fn for every future patch. fn is called with the
// document lock held and must not block or call back into the document.
func (d *Document) Subscribe(fn func(Patch)) (cancel func()) {
	d.mu.Lock()
	id := d.nextSub
	d.nextSub++
	d.listeners[id] = fn
	d.mu.Unlock()

	return func() {
		d.mu.Lock()
		delete(d.listeners, id)
		d.mu.Unlock()
	}
}

// mutate applies fn to the node and publishes a patch when fn reports a change.
func (d *Document) mutate(id, op, value string, fn func(n *Node) bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	n, ok := d.nodes[id]
	if !ok || !fn(n) {
		return
	}
	d.seq++
	p := Patch{Seq: d.seq, ID: id, Op: op, Value: value}
	for _, l := range d.listeners {
		l(p)
	}
}

func copyNode(n *Node) Node {
	c := *n
	c.Classes = append([]string(nil), n.Classes...)
	return c
}

type element struct {
	doc *Document
	id  string
}

func (e *element) SetText(text string) {
	e.doc.mutate(e.id, OpText, text, func(n *Node) bool {
		if n.Text == text {
			return false
		}
		n.Text = text
		return true
	})
}

func (e *element) AddClass(class string) {
	e.doc.mutate(e.id, OpAddClass, class, func(n *Node) bool {
		for _, c := range n.Classes {
			if c == class {
				return false
			}
		}
		n.Classes = append(n.Classes, class)
		return true
	})
}

func (e *element) RemoveClass(class string) {
	e.doc.mutate(e.id, OpRemoveClass, class, func(n *Node) bool {
		for i, c := range n.Classes {
			if c == class {
				n.Classes = append(n.Classes[:i], n.Classes[i+1:]...)
				return true
			}
		}
		return false
	})
}

func (e *element) SetWidth(width string) {
	e.doc.mutate(e.id, OpWidth, width, func(n *Node) bool {
		if n.Width == width {
			return false
		}
		n.Width = width
		return true
	})
}
