package dom

import (
	"slices"

	"github.com/go-drift/virtualcontent/pkg/graphics"
	"github.com/go-drift/virtualcontent/pkg/virtual"
)

// MutationCallback receives the child-list changes made since the last
// delivery.
type MutationCallback func([]virtual.MutationRecord)

// Box is the laid-out border box of a visible element.
type Box struct {
	Element *ElementNode
	Rect    graphics.Rect
}

// Container is a flex column of nodes inside a Document. It implements
// virtual.Host.
type Container struct {
	doc      *Document
	children []virtual.Node

	height    float64
	heightSet bool
	pending   []virtual.MutationRecord
	observers map[int]MutationCallback
	nextObsID int
	obsOrder  []int
}

func newContainer(doc *Document) *Container {
	return &Container{doc: doc, observers: make(map[int]MutationCallback)}
}

// Children returns a copy of the child list.
func (c *Container) Children() []virtual.Node {
	return slices.Clone(c.children)
}

// Len returns the number of children.
func (c *Container) Len() int { return len(c.children) }

// AppendChild appends nodes in order and queues one mutation record. Nodes
// already attached elsewhere are moved.
func (c *Container) AppendChild(nodes ...virtual.Node) {
	c.insert(len(c.children), nodes)
}

// InsertBefore inserts n before ref. A nil or unknown ref appends.
func (c *Container) InsertBefore(n, ref virtual.Node) {
	i := slices.Index(c.children, ref)
	if ref == nil || i < 0 {
		i = len(c.children)
	}
	c.insert(i, []virtual.Node{n})
}

func (c *Container) insert(at int, nodes []virtual.Node) {
	var added []virtual.Node
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if p := parentOf(n); p != nil {
			if p == c && slices.Index(c.children, n) < at {
				at--
			}
			p.RemoveChild(n)
		}
		if !setParent(n, c) {
			continue
		}
		added = append(added, n)
	}
	if len(added) == 0 {
		return
	}
	c.children = slices.Insert(c.children, min(at, len(c.children)), added...)
	c.pending = append(c.pending, virtual.MutationRecord{Added: added})
}

// RemoveChild detaches n. Nodes that are not children are ignored.
func (c *Container) RemoveChild(n virtual.Node) {
	i := slices.Index(c.children, n)
	if i < 0 {
		return
	}
	c.children = slices.Delete(c.children, i, i+1)
	setParent(n, nil)
	c.pending = append(c.pending, virtual.MutationRecord{Removed: []virtual.Node{n}})
}

// Observe registers fn for mutation records. The returned function
// unregisters it.
func (c *Container) Observe(fn MutationCallback) (stop func()) {
	id := c.nextObsID
	c.nextObsID++
	c.observers[id] = fn
	c.obsOrder = append(c.obsOrder, id)
	return func() {
		delete(c.observers, id)
		c.obsOrder = slices.DeleteFunc(c.obsOrder, func(v int) bool { return v == id })
	}
}

// HasPendingMutations reports whether records are waiting for Flush.
func (c *Container) HasPendingMutations() bool {
	return len(c.pending) > 0
}

// Flush delivers queued records to every observer. Records queued while
// observers run are delivered by the same call.
func (c *Container) Flush() {
	for len(c.pending) > 0 {
		records := c.pending
		c.pending = nil
		for _, id := range slices.Clone(c.obsOrder) {
			if fn, ok := c.observers[id]; ok {
				fn(records)
			}
		}
	}
}

// ContainerTop returns the container's top edge relative to the viewport.
func (c *Container) ContainerTop() float64 {
	return c.doc.containerOffset - c.doc.scrollY
}

// ViewportHeight returns the document's viewport height.
func (c *Container) ViewportHeight() float64 {
	return c.doc.viewport.Height
}

// Width returns the width available to children.
func (c *Container) Width() float64 {
	return c.doc.viewport.Width
}

// SetHeight fixes the container height.
func (c *Container) SetHeight(h float64) {
	c.height = h
	c.heightSet = true
	c.doc.clampScroll()
}

// Height returns the fixed height, or the stacked height of the visible
// children when none is set.
func (c *Container) Height() float64 {
	if c.heightSet {
		return c.height
	}
	return c.flowHeight()
}

func (c *Container) flowHeight() float64 {
	var sum float64
	for _, n := range c.children {
		if el, ok := n.(*ElementNode); ok && el.visibility == virtual.Visible {
			sum += el.marginTop + el.contentHeight() + el.marginBottom
		}
	}
	return sum
}

// Layout stacks the visible children and returns their border boxes in
// viewport coordinates, in child order.
func (c *Container) Layout() []Box {
	var boxes []Box
	top := c.ContainerTop()
	width := c.Width()
	var flow float64
	for _, n := range c.children {
		el, ok := n.(*ElementNode)
		if !ok || el.visibility != virtual.Visible {
			continue
		}
		h := el.contentHeight()
		y := top + flow + el.marginTop + el.top
		boxes = append(boxes, Box{Element: el, Rect: graphics.RectFromLTWH(0, y, width, h)})
		flow += el.marginTop + h + el.marginBottom
	}
	return boxes
}

// Painted returns the boxes that overlap the viewport.
func (c *Container) Painted() []Box {
	viewport := graphics.RectFromLTWH(0, 0, c.Width(), c.ViewportHeight())
	var out []Box
	for _, box := range c.Layout() {
		if box.Rect.OverlapsVertically(viewport) {
			out = append(out, box)
		}
	}
	return out
}
