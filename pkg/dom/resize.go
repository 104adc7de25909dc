package dom

import (
	"slices"

	"github.com/go-drift/virtualcontent/pkg/virtual"
)

// unobserved marks an element whose first observation is still pending.
const unobserved = -1

// ResizeObserver reports observed elements whose border-box height changed
// since the previous delivery. A newly observed element is always reported
// once. It implements virtual.ResizeObserver.
type ResizeObserver struct {
	callback func([]virtual.Element)
	sizes    map[*ElementNode]float64
	order    []*ElementNode
}

// NewResizeObserver returns an observer delivering to callback. The
// document delivers observations once per frame.
func (d *Document) NewResizeObserver(callback func([]virtual.Element)) *ResizeObserver {
	ro := &ResizeObserver{
		callback: callback,
		sizes:    make(map[*ElementNode]float64),
	}
	d.observers = append(d.observers, ro)
	return ro
}

// Observe starts watching el. Elements not created by this package are
// ignored.
func (ro *ResizeObserver) Observe(el virtual.Element) {
	e, ok := el.(*ElementNode)
	if !ok {
		return
	}
	if _, exists := ro.sizes[e]; exists {
		return
	}
	ro.sizes[e] = unobserved
	ro.order = append(ro.order, e)
}

// Unobserve stops watching el.
func (ro *ResizeObserver) Unobserve(el virtual.Element) {
	e, ok := el.(*ElementNode)
	if !ok {
		return
	}
	if _, exists := ro.sizes[e]; !exists {
		return
	}
	delete(ro.sizes, e)
	ro.order = slices.DeleteFunc(ro.order, func(o *ElementNode) bool { return o == e })
}

// Len returns the number of observed elements.
func (ro *ResizeObserver) Len() int { return len(ro.order) }

// pending reports whether a delivery would report anything.
func (ro *ResizeObserver) pending() bool {
	for _, e := range ro.order {
		if ro.sizes[e] != e.borderBoxHeight() {
			return true
		}
	}
	return false
}

func (ro *ResizeObserver) deliver() {
	var changed []virtual.Element
	for _, e := range ro.order {
		h := e.borderBoxHeight()
		if ro.sizes[e] != h {
			ro.sizes[e] = h
			changed = append(changed, e)
		}
	}
	if len(changed) > 0 && ro.callback != nil {
		ro.callback(changed)
	}
}
