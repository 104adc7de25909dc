package virtual

import "fmt"

// Visibility is the virtualization state of an item.
type Visibility int

const (
	// Visible items participate in layout and are kept measured.
	Visible Visibility = iota
	// Invisible items take no layout space and are never measured.
	Invisible
)

func (v Visibility) String() string {
	switch v {
	case Visible:
		return "visible"
	case Invisible:
		return "invisible"
	default:
		return fmt.Sprintf("Visibility(%d)", int(v))
	}
}

// Node is a direct child of the host container.
//
// Implementations must be comparable; pointer types are the usual choice.
// Two nodes with identical content are still distinct items.
type Node interface {
	// IsElement reports whether the node is an element the engine can
	// virtualize. Non-element children are removed from the container.
	IsElement() bool
}

// Element is a virtualizable item.
type Element interface {
	Node

	// SetVisibility applies the engine's visibility decision to the item's
	// presentation. Invisible items must be taken out of layout flow.
	SetVisibility(v Visibility)

	// Measure returns the item's laid-out height including its vertical
	// margins. It is only called while the item is visible.
	Measure() (float64, error)

	// Top returns the item's current vertical offset.
	Top() float64

	// SetTop offsets the item vertically relative to its in-flow position.
	SetTop(top float64)
}

// Host is the container whose children are virtualized.
type Host interface {
	// Children returns the current children in order.
	Children() []Node

	// RemoveChild detaches a child from the container.
	RemoveChild(n Node)

	// ContainerTop returns the container's top edge relative to the top of
	// the viewport.
	ContainerTop() float64

	// ViewportHeight returns the height of the viewport.
	ViewportHeight() float64

	// SetHeight sets the container's rendered height.
	SetHeight(height float64)
}

// FrameRequester runs a callback once, before the next rendered frame.
type FrameRequester interface {
	RequestFrame(callback func())
}

// ScrollSubscriber delivers host scroll notifications.
type ScrollSubscriber interface {
	// AddScrollListener registers listener and returns a function that
	// removes it.
	AddScrollListener(listener func()) (remove func())
}

// ResizeObserver reports size changes of observed elements.
type ResizeObserver interface {
	Observe(el Element)
	Unobserve(el Element)
}

func describe(n Node) string {
	if s, ok := n.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", n)
}
