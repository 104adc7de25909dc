package virtual

import (
	"fmt"

	"github.com/go-drift/virtualcontent/pkg/errors"
)

// fakeElement is an item with a settable true height.
type fakeElement struct {
	name         string
	height       float64
	visibility   Visibility
	top          float64
	measureErr   error
	measures     int
	badMeasures  int
	topWrites    int
	visibilities []Visibility
}

func newElement(name string, height float64) *fakeElement {
	return &fakeElement{name: name, height: height}
}

func (e *fakeElement) IsElement() bool { return true }
func (e *fakeElement) String() string  { return e.name }

func (e *fakeElement) SetVisibility(v Visibility) {
	e.visibility = v
	e.visibilities = append(e.visibilities, v)
}

func (e *fakeElement) Measure() (float64, error) {
	e.measures++
	if e.visibility != Visible {
		e.badMeasures++
		return 0, errors.ErrNoLayout
	}
	if e.measureErr != nil {
		return 0, e.measureErr
	}
	return e.height, nil
}

func (e *fakeElement) Top() float64 { return e.top }

func (e *fakeElement) SetTop(top float64) {
	e.top = top
	e.topWrites++
}

// fakeText is a non-element child.
type fakeText struct{ data string }

func (t *fakeText) IsElement() bool { return false }

// fakeHost is a container whose top is set directly by tests.
type fakeHost struct {
	children       []Node
	containerTop   float64
	viewportHeight float64
	height         float64
	heightWrites   int
	removed        []Node
}

func (h *fakeHost) Children() []Node { return append([]Node(nil), h.children...) }

func (h *fakeHost) RemoveChild(n Node) {
	for i, c := range h.children {
		if c == n {
			h.children = append(h.children[:i], h.children[i+1:]...)
			h.removed = append(h.removed, n)
			return
		}
	}
}

func (h *fakeHost) ContainerTop() float64   { return h.containerTop }
func (h *fakeHost) ViewportHeight() float64 { return h.viewportHeight }

func (h *fakeHost) SetHeight(height float64) {
	h.height = height
	h.heightWrites++
}

// append adds elements and returns the matching mutation record.
func (h *fakeHost) append(nodes ...Node) MutationRecord {
	h.children = append(h.children, nodes...)
	return MutationRecord{Added: nodes}
}

// fakeFrames queues frame callbacks until flush.
type fakeFrames struct {
	queue []func()
}

func (f *fakeFrames) RequestFrame(callback func()) {
	f.queue = append(f.queue, callback)
}

// flush runs every queued callback, including ones queued while running,
// and returns how many ran.
func (f *fakeFrames) flush() int {
	ran := 0
	for len(f.queue) > 0 {
		queue := f.queue
		f.queue = nil
		for _, cb := range queue {
			cb()
			ran++
		}
	}
	return ran
}

// fakeObserver records observe calls.
type fakeObserver struct {
	observed map[Element]bool
}

func newFakeObserver() *fakeObserver {
	return &fakeObserver{observed: make(map[Element]bool)}
}

func (o *fakeObserver) Observe(el Element)   { o.observed[el] = true }
func (o *fakeObserver) Unobserve(el Element) { delete(o.observed, el) }

// fakeScroll is a ScrollSubscriber driven by tests.
type fakeScroll struct {
	listeners map[int]func()
	next      int
}

func (s *fakeScroll) AddScrollListener(listener func()) func() {
	if s.listeners == nil {
		s.listeners = make(map[int]func())
	}
	id := s.next
	s.next++
	s.listeners[id] = listener
	return func() { delete(s.listeners, id) }
}

func (s *fakeScroll) fire() {
	for _, l := range s.listeners {
		l()
	}
}

func makeElements(n int, height float64) []Node {
	nodes := make([]Node, n)
	for i := range nodes {
		nodes[i] = newElement(fmt.Sprintf("item%d", i), height)
	}
	return nodes
}

// renderedTops returns each visible element's position in list coordinates:
// its in-flow position among visible items plus its offset.
func renderedTops(c *Content) map[Element]float64 {
	tops := make(map[Element]float64)
	var flow float64
	for _, el := range c.VisibleItems() {
		tops[el] = flow + el.Top()
		h, _ := c.Estimate(el)
		flow += h
	}
	return tops
}
