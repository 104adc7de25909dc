package virtual

import (
	"github.com/go-drift/virtualcontent/pkg/errors"
	"github.com/go-drift/virtualcontent/pkg/logging"
	"go.uber.org/zap"
)

// DefaultOffsetThreshold is the smallest offset change written to an item.
const DefaultOffsetThreshold = 1.0

// Content virtualizes the children of a Host.
type Content struct {
	host       Host
	table      *HeightTable
	watcher    *ResizeWatcher
	scheduler  *UpdateScheduler
	visibility map[Element]Visibility
	scroll     ScrollSubscriber
	unlisten   func()
	log        *zap.Logger

	defaultEstimate float64
	threshold       float64

	totalHeight float64
	sized       bool
	lastPass    PassStats
}

// Option configures a Content.
type Option func(*options)

type options struct {
	defaultEstimate float64
	threshold       float64
	logger          *zap.Logger
	resize          ResizeObserver
	scroll          ScrollSubscriber
}

// WithDefaultEstimate sets the height assumed for unmeasured items.
// Non-positive values are ignored.
func WithDefaultEstimate(height float64) Option {
	return func(o *options) {
		if height > 0 {
			o.defaultEstimate = height
		}
	}
}

// WithOffsetThreshold sets the smallest offset change that is written to an
// item. Negative values are ignored.
func WithOffsetThreshold(threshold float64) Option {
	return func(o *options) {
		if threshold >= 0 {
			o.threshold = threshold
		}
	}
}

// WithLogger sets the logger. The global logger is used by default.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithResizeObserver sets the host observer used to watch visible items.
func WithResizeObserver(observer ResizeObserver) Option {
	return func(o *options) {
		o.resize = observer
	}
}

// WithScrollSubscriber sets the source of scroll notifications used by
// Attach.
func WithScrollSubscriber(scroll ScrollSubscriber) Option {
	return func(o *options) {
		o.scroll = scroll
	}
}

// New returns a Content managing host's children. Updates run from frames.
//
// Children already present in host are not adopted until they are reported
// through HandleMutations or seen by the first Update.
func New(host Host, frames FrameRequester, opts ...Option) *Content {
	o := options{
		defaultEstimate: DefaultEstimate,
		threshold:       DefaultOffsetThreshold,
	}
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.logger
	if logger == nil {
		logger = logging.L()
	}

	c := &Content{
		host:            host,
		table:           NewHeightTable(),
		watcher:         NewResizeWatcher(o.resize),
		visibility:      make(map[Element]Visibility),
		scroll:          o.scroll,
		log:             logger.Named("virtual"),
		defaultEstimate: o.defaultEstimate,
		threshold:       o.threshold,
	}
	c.scheduler = NewUpdateScheduler(frames, c.frame)
	return c
}

// Attach subscribes to scroll notifications and schedules an update.
// Calling Attach twice has no additional effect.
func (c *Content) Attach() {
	if c.unlisten == nil && c.scroll != nil {
		c.unlisten = c.scroll.AddScrollListener(c.ScheduleUpdate)
	}
	c.ScheduleUpdate()
}

// Detach removes the scroll subscription. A frame that is already scheduled
// still runs.
func (c *Content) Detach() {
	if c.unlisten != nil {
		c.unlisten()
		c.unlisten = nil
	}
}

// ScheduleUpdate requests a reconciliation pass before the next frame.
// Repeated calls before that frame are coalesced.
func (c *Content) ScheduleUpdate() {
	c.scheduler.Request()
}

// UpdatePending reports whether a pass is scheduled.
func (c *Content) UpdatePending() bool {
	return c.scheduler.Pending()
}

// TotalHeight returns the container height computed by the last pass.
func (c *Content) TotalHeight() float64 {
	return c.totalHeight
}

// LastPass returns statistics for the most recent pass.
func (c *Content) LastPass() PassStats {
	return c.lastPass
}

// Estimate returns the height estimate for el.
func (c *Content) Estimate(el Element) (float64, bool) {
	return c.table.Get(el)
}

// Tracked returns the number of items with a height estimate.
func (c *Content) Tracked() int {
	return c.table.Len()
}

// EstimatedSum returns the sum of all height estimates.
func (c *Content) EstimatedSum() float64 {
	return c.table.Sum()
}

// VisibilityOf returns el's visibility and whether el is tracked.
func (c *Content) VisibilityOf(el Element) (Visibility, bool) {
	v, ok := c.visibility[el]
	return v, ok
}

// Watched reports whether el is watched for size changes.
func (c *Content) Watched(el Element) bool {
	return c.watcher.Watching(el)
}

// WatchedCount returns the number of items watched for size changes.
func (c *Content) WatchedCount() int {
	return c.watcher.Len()
}

// VisibleItems returns the visible children in child order.
func (c *Content) VisibleItems() []Element {
	var out []Element
	for _, n := range c.host.Children() {
		el, ok := asElement(n)
		if !ok {
			continue
		}
		if v, tracked := c.visibility[el]; tracked && v == Visible {
			out = append(out, el)
		}
	}
	return out
}

// OffsetOf returns the scroll offset, relative to the container top, at
// which el starts: the sum of the estimates of the elements before it. It
// reports false if el is not a child of the host.
func (c *Content) OffsetOf(el Element) (float64, bool) {
	var sum float64
	for _, n := range c.host.Children() {
		child, ok := asElement(n)
		if !ok {
			continue
		}
		if child == el {
			return sum, true
		}
		h, tracked := c.table.Get(child)
		if !tracked {
			h = c.defaultEstimate
		}
		sum += h
	}
	return 0, false
}

func (c *Content) frame() {
	defer errors.Recover("virtual.Content.Update")
	c.Update()
}

func asElement(n Node) (Element, bool) {
	if n == nil || !n.IsElement() {
		return nil, false
	}
	el, ok := n.(Element)
	return el, ok
}
