package dom

import (
	"fmt"

	"github.com/go-drift/virtualcontent/pkg/errors"
	"github.com/go-drift/virtualcontent/pkg/graphics"
	"github.com/go-drift/virtualcontent/pkg/virtual"
)

// HeightFunc returns an element's content height for a container width.
type HeightFunc func(width float64) float64

// FixedHeight returns a HeightFunc that ignores the width.
func FixedHeight(h float64) HeightFunc {
	return func(float64) float64 { return h }
}

// ElementNode is a block element laid out in a flex column.
type ElementNode struct {
	Tag string
	ID  string

	text         string
	height       HeightFunc
	marginTop    float64
	marginBottom float64
	top          float64
	visibility   virtual.Visibility
	parent       *Container

	// cached content height for cachedWidth
	cachedWidth  float64
	cachedHeight float64
	cached       bool
}

// NewElement returns a detached element with a fixed content height.
func NewElement(tag string, height float64) *ElementNode {
	return &ElementNode{Tag: tag, height: FixedHeight(height)}
}

// NewElementFunc returns a detached element whose content height depends on
// the container width.
func NewElementFunc(tag string, height HeightFunc) *ElementNode {
	if height == nil {
		height = FixedHeight(0)
	}
	return &ElementNode{Tag: tag, height: height}
}

// IsElement reports true.
func (e *ElementNode) IsElement() bool { return true }

// String returns the tag and id, such as "p#intro".
func (e *ElementNode) String() string {
	if e.ID != "" {
		return fmt.Sprintf("%s#%s", e.Tag, e.ID)
	}
	return e.Tag
}

// TextContent returns the element's text.
func (e *ElementNode) TextContent() string { return e.text }

// SetText replaces the element's text.
func (e *ElementNode) SetText(text string) { e.text = text }

// SetHeight replaces the content height with a fixed value.
func (e *ElementNode) SetHeight(h float64) {
	e.SetHeightFunc(FixedHeight(h))
}

// SetHeightFunc replaces the content height function.
func (e *ElementNode) SetHeightFunc(fn HeightFunc) {
	if fn == nil {
		fn = FixedHeight(0)
	}
	e.height = fn
	e.cached = false
}

// SetMargins sets the vertical margins.
func (e *ElementNode) SetMargins(top, bottom float64) {
	e.marginTop = top
	e.marginBottom = bottom
}

// Margins returns the vertical margins.
func (e *ElementNode) Margins() (top, bottom float64) {
	return e.marginTop, e.marginBottom
}

// SetVisibility sets whether the element takes part in layout.
func (e *ElementNode) SetVisibility(v virtual.Visibility) { e.visibility = v }

// Visibility returns the current visibility.
func (e *ElementNode) Visibility() virtual.Visibility { return e.visibility }

// Top returns the relative offset.
func (e *ElementNode) Top() float64 { return e.top }

// SetTop sets the relative offset. It moves the rendered box without
// affecting the flow position of siblings.
func (e *ElementNode) SetTop(top float64) { e.top = top }

// Parent returns the container holding e, or nil.
func (e *ElementNode) Parent() *Container { return e.parent }

// Measure returns the margin-box height. It fails when the element is
// detached or invisible.
func (e *ElementNode) Measure() (float64, error) {
	if e.parent == nil {
		return 0, errors.ErrDetached
	}
	if e.visibility != virtual.Visible {
		return 0, errors.ErrNoLayout
	}
	return e.marginTop + e.contentHeight() + e.marginBottom, nil
}

// BoundingRect returns the border box in viewport coordinates.
func (e *ElementNode) BoundingRect() (graphics.Rect, error) {
	if e.parent == nil {
		return graphics.Rect{}, errors.ErrDetached
	}
	if e.visibility != virtual.Visible {
		return graphics.Rect{}, errors.ErrNoLayout
	}
	for _, box := range e.parent.Layout() {
		if box.Element == e {
			return box.Rect, nil
		}
	}
	return graphics.Rect{}, errors.ErrNoLayout
}

// borderBoxHeight is what a resize observer sees. Elements outside layout
// report zero.
func (e *ElementNode) borderBoxHeight() float64 {
	if e.parent == nil || e.visibility != virtual.Visible {
		return 0
	}
	return e.contentHeight()
}

func (e *ElementNode) contentHeight() float64 {
	width := 0.0
	if e.parent != nil {
		width = e.parent.Width()
	}
	if !e.cached || e.cachedWidth != width {
		e.cachedHeight = max(e.height(width), 0)
		e.cachedWidth = width
		e.cached = true
	}
	return e.cachedHeight
}

// TextNode is a run of text between elements. It takes no space in the
// column.
type TextNode struct {
	Data   string
	parent *Container
}

// NewText returns a detached text node.
func NewText(data string) *TextNode {
	return &TextNode{Data: data}
}

// IsElement reports false.
func (t *TextNode) IsElement() bool { return false }

// TextContent returns the node's text.
func (t *TextNode) TextContent() string { return t.Data }

func (t *TextNode) String() string { return fmt.Sprintf("#text(%q)", t.Data) }

func setParent(n virtual.Node, c *Container) bool {
	switch n := n.(type) {
	case *ElementNode:
		n.parent = c
	case *TextNode:
		n.parent = c
	default:
		return false
	}
	return true
}

func parentOf(n virtual.Node) *Container {
	switch n := n.(type) {
	case *ElementNode:
		return n.parent
	case *TextNode:
		return n.parent
	}
	return nil
}
