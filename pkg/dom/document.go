package dom

import (
	"context"
	stderrors "errors"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/go-drift/virtualcontent/pkg/graphics"
	"github.com/go-drift/virtualcontent/pkg/logging"
	"github.com/go-drift/virtualcontent/pkg/virtual"
	"go.uber.org/zap"
)

// DefaultFrameInterval is the frame period used by Run when none is given.
const DefaultFrameInterval = 16 * time.Millisecond

// ErrSettleTimeout is returned by Settle when frames are still being
// requested after the frame budget is spent.
var ErrSettleTimeout = stderrors.New("dom: frames did not settle")

// Document is a headless page: a viewport over one Container, a frame
// queue and scroll notifications.
//
// A Document is not safe for concurrent use. Other goroutines hand work to
// the frame loop through Dispatch.
type Document struct {
	viewport        graphics.Size
	scrollY         float64
	containerOffset float64
	container       *Container

	frames     []func()
	frameCount int
	observers  []*ResizeObserver

	listeners      map[int]func()
	nextListenerID int

	dispatchMu    sync.Mutex
	dispatchQueue []func()

	log *zap.Logger
}

// Option configures a Document.
type Option func(*Document)

// WithLogger sets the logger. The global logger is used by default.
func WithLogger(logger *zap.Logger) Option {
	return func(d *Document) {
		if logger != nil {
			d.log = logger
		}
	}
}

// WithContainerOffset places the container below the document top, as a
// page header or padding would.
func WithContainerOffset(offset float64) Option {
	return func(d *Document) {
		d.containerOffset = max(offset, 0)
	}
}

// NewDocument returns an empty document with the given viewport.
func NewDocument(viewport graphics.Size, opts ...Option) *Document {
	d := &Document{
		viewport:  viewport,
		listeners: make(map[int]func()),
		log:       logging.L(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.log = d.log.Named("dom")
	d.container = newContainer(d)
	return d
}

// Container returns the document's container.
func (d *Document) Container() *Container { return d.container }

// Viewport returns the viewport size.
func (d *Document) Viewport() graphics.Size { return d.viewport }

// SetViewport resizes the viewport.
func (d *Document) SetViewport(size graphics.Size) {
	d.viewport = size
	d.clampScroll()
}

// ScrollY returns the scroll offset.
func (d *Document) ScrollY() float64 { return d.scrollY }

// MaxScroll returns the largest scroll offset the content allows.
func (d *Document) MaxScroll() float64 {
	return max(0, d.containerOffset+d.container.Height()-d.viewport.Height)
}

// ScrollTo scrolls to y, clamped to [0, MaxScroll]. Scroll listeners are
// notified when the offset changes.
func (d *Document) ScrollTo(y float64) {
	y = min(max(y, 0), d.MaxScroll())
	if y == d.scrollY {
		return
	}
	d.scrollY = y
	d.notifyScroll()
}

// ScrollBy scrolls by dy.
func (d *Document) ScrollBy(dy float64) {
	d.ScrollTo(d.scrollY + dy)
}

// ScrollToItem scrolls so that el's estimated position is at the viewport
// top. It reports false if el is not managed by content.
func (d *Document) ScrollToItem(content *virtual.Content, el virtual.Element) bool {
	offset, ok := content.OffsetOf(el)
	if !ok {
		return false
	}
	d.ScrollTo(d.containerOffset + offset)
	return true
}

func (d *Document) clampScroll() {
	if limit := d.MaxScroll(); d.scrollY > limit {
		d.scrollY = limit
		d.notifyScroll()
	}
}

// AddScrollListener registers fn to run when the scroll offset changes.
func (d *Document) AddScrollListener(fn func()) (remove func()) {
	id := d.nextListenerID
	d.nextListenerID++
	d.listeners[id] = fn
	return func() {
		delete(d.listeners, id)
	}
}

func (d *Document) notifyScroll() {
	for _, id := range slices.Sorted(maps.Keys(d.listeners)) {
		if fn, ok := d.listeners[id]; ok {
			fn()
		}
	}
}

// RequestFrame queues fn to run in the next frame.
func (d *Document) RequestFrame(fn func()) {
	if fn != nil {
		d.frames = append(d.frames, fn)
	}
}

// Dispatch queues fn to run on the frame loop before the next frame. It is
// safe to call from any goroutine.
func (d *Document) Dispatch(fn func()) {
	if fn == nil {
		return
	}
	d.dispatchMu.Lock()
	d.dispatchQueue = append(d.dispatchQueue, fn)
	d.dispatchMu.Unlock()
}

func (d *Document) drainDispatchQueue() []func() {
	d.dispatchMu.Lock()
	callbacks := d.dispatchQueue
	d.dispatchQueue = nil
	d.dispatchMu.Unlock()
	return callbacks
}

// Step runs one frame: dispatched work, then the frame callbacks queued
// before the frame started, then resize observations. Mutation records are
// flushed after each callback. It returns the number of frame callbacks
// run.
func (d *Document) Step() int {
	d.frameCount++
	for _, fn := range d.drainDispatchQueue() {
		fn()
		d.container.Flush()
	}
	d.container.Flush()

	callbacks := d.frames
	d.frames = nil
	for _, fn := range callbacks {
		fn()
		d.container.Flush()
	}

	for _, ro := range d.observers {
		ro.deliver()
		d.container.Flush()
	}
	return len(callbacks)
}

// FrameCount returns the number of frames stepped.
func (d *Document) FrameCount() int { return d.frameCount }

// Idle reports whether a frame would do any work.
func (d *Document) Idle() bool {
	d.dispatchMu.Lock()
	dispatched := len(d.dispatchQueue)
	d.dispatchMu.Unlock()
	if dispatched > 0 || len(d.frames) > 0 || d.container.HasPendingMutations() {
		return false
	}
	for _, ro := range d.observers {
		if ro.pending() {
			return false
		}
	}
	return true
}

// Settle steps frames until the document is idle. It returns the number of
// frames stepped, or ErrSettleTimeout after maxFrames.
func (d *Document) Settle(maxFrames int) (int, error) {
	for i := 0; i < maxFrames; i++ {
		if d.Idle() {
			return i, nil
		}
		d.Step()
	}
	if d.Idle() {
		return maxFrames, nil
	}
	return maxFrames, ErrSettleTimeout
}

// Run steps a frame every interval until ctx is done. Frames with no work
// are skipped.
func (d *Document) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	d.log.Debug("frame loop started", zap.Duration("interval", interval))
	defer d.log.Debug("frame loop stopped", zap.Int("frames", d.frameCount))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if !d.Idle() {
				d.Step()
			}
		}
	}
}

// Mount creates a virtual.Content over the container, wired to the
// document's frames, scroll notifications, mutation records and a resize
// observer, and attaches it. Children already in the container are
// reported as added.
func (d *Document) Mount(opts ...virtual.Option) *virtual.Content {
	var content *virtual.Content
	ro := d.NewResizeObserver(func(changed []virtual.Element) {
		content.HandleResize(changed)
	})
	opts = append([]virtual.Option{
		virtual.WithLogger(d.log),
		virtual.WithResizeObserver(ro),
		virtual.WithScrollSubscriber(d),
	}, opts...)
	content = virtual.New(d.container, d, opts...)
	d.container.Observe(content.HandleMutations)
	if existing := d.container.Children(); len(existing) > 0 {
		content.HandleMutations([]virtual.MutationRecord{{Added: existing}})
	}
	content.Attach()
	return content
}
