package testing

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/go-drift/virtualcontent/pkg/dom"
	verrors "github.com/go-drift/virtualcontent/pkg/errors"
	"github.com/go-drift/virtualcontent/pkg/graphics"
	"github.com/go-drift/virtualcontent/pkg/virtual"
)

const (
	// DefaultTestWidth is the default viewport width.
	DefaultTestWidth = 800
	// DefaultTestHeight is the default viewport height.
	DefaultTestHeight = 600
	// FrameDuration is the simulated time one pumped frame takes.
	FrameDuration = 16 * time.Millisecond
)

// ErrSettleTimeout is returned when PumpAndSettle exceeds its timeout.
var ErrSettleTimeout = errors.New("PumpAndSettle timed out: content did not settle")

// ContentTester drives a virtual.Content mounted on a headless document.
// Frames run only when pumped.
type ContentTester struct {
	doc      *dom.Document
	content  *virtual.Content
	size     graphics.Size
	opts     []virtual.Option
	reported []*verrors.VirtualError
	panics   []*verrors.PanicError
	prev     verrors.ErrorHandler
}

// NewContentTester creates a tester with the default viewport. Errors
// reported while it is alive are captured. Call Cleanup when done, or use
// NewContentTesterWithT instead.
func NewContentTester(opts ...virtual.Option) *ContentTester {
	t := &ContentTester{
		size: graphics.Size{Width: DefaultTestWidth, Height: DefaultTestHeight},
		opts: opts,
		prev: verrors.DefaultHandler,
	}
	verrors.SetHandler(capture{t})
	t.mount()
	return t
}

// NewContentTesterWithT creates a tester that cleans up via t.Cleanup().
// This is the recommended constructor for tests.
func NewContentTesterWithT(t *testing.T, opts ...virtual.Option) *ContentTester {
	tester := NewContentTester(opts...)
	t.Cleanup(tester.Cleanup)
	return tester
}

func (t *ContentTester) mount() {
	t.doc = dom.NewDocument(t.size)
	t.content = t.doc.Mount(t.opts...)
}

// Cleanup detaches the content and restores the previous error handler.
func (t *ContentTester) Cleanup() {
	t.content.Detach()
	verrors.SetHandler(t.prev)
}

// SetSize resizes the viewport.
func (t *ContentTester) SetSize(size graphics.Size) {
	t.size = size
	t.doc.SetViewport(size)
}

// Document returns the headless document.
func (t *ContentTester) Document() *dom.Document { return t.doc }

// Content returns the content under test.
func (t *ContentTester) Content() *virtual.Content { return t.content }

// AddItems appends one fixed-height div per height and returns them. The
// items are not reconciled until the next pump.
func (t *ContentTester) AddItems(heights ...float64) []*dom.ElementNode {
	items := make([]*dom.ElementNode, len(heights))
	nodes := make([]virtual.Node, len(heights))
	for i, h := range heights {
		items[i] = dom.NewElement("div", h)
		nodes[i] = items[i]
	}
	t.doc.Container().AppendChild(nodes...)
	return items
}

// AddUniform appends n items of the same height.
func (t *ContentTester) AddUniform(n int, height float64) []*dom.ElementNode {
	heights := make([]float64, n)
	for i := range heights {
		heights[i] = height
	}
	return t.AddItems(heights...)
}

// AddHTML parses src and appends the body's children.
func (t *ContentTester) AddHTML(src string) error {
	nodes, err := dom.ParseHTML(strings.NewReader(src), nil)
	if err != nil {
		return err
	}
	t.doc.Container().AppendChild(nodes...)
	return nil
}

// Remove detaches items from the container.
func (t *ContentTester) Remove(items ...*dom.ElementNode) {
	for _, el := range items {
		t.doc.Container().RemoveChild(el)
	}
}

// ScrollTo scrolls the document. Call Pump to reconcile.
func (t *ContentTester) ScrollTo(y float64) {
	t.doc.ScrollTo(y)
}

// Dispatch queues a callback for the next frame.
func (t *ContentTester) Dispatch(fn func()) {
	t.doc.Dispatch(fn)
}

// Pump runs a single frame.
func (t *ContentTester) Pump() {
	t.doc.Step()
}

// PumpAndSettle runs frames until no work remains or the timeout is
// reached. Each frame accounts for FrameDuration of the timeout.
func (t *ContentTester) PumpAndSettle(timeout time.Duration) error {
	frames := max(int(timeout/FrameDuration), 1)
	if _, err := t.doc.Settle(frames); err != nil {
		return ErrSettleTimeout
	}
	return nil
}

// VisibleItems returns the visible elements in child order.
func (t *ContentTester) VisibleItems() []*dom.ElementNode {
	var out []*dom.ElementNode
	for _, el := range t.content.VisibleItems() {
		if e, ok := el.(*dom.ElementNode); ok {
			out = append(out, e)
		}
	}
	return out
}

// Find evaluates a finder against the container.
func (t *ContentTester) Find(finder Finder) FinderResult {
	return FinderResult{
		elements: finder.Evaluate(t.doc.Container()),
		finder:   finder,
	}
}

// Errors returns the errors reported since the tester was created.
func (t *ContentTester) Errors() []*verrors.VirtualError { return t.reported }

// Panics returns the panics recovered since the tester was created.
func (t *ContentTester) Panics() []*verrors.PanicError { return t.panics }

type capture struct{ t *ContentTester }

func (c capture) HandleError(err *verrors.VirtualError) {
	c.t.reported = append(c.t.reported, err)
}

func (c capture) HandlePanic(err *verrors.PanicError) {
	c.t.panics = append(c.t.panics, err)
}
