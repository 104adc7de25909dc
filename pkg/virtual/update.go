package virtual

import (
	"math"

	"github.com/go-drift/virtualcontent/pkg/errors"
	"go.uber.org/zap"
)

// PassStats summarizes one reconciliation pass.
type PassStats struct {
	// Items is the number of element children visited.
	Items int
	// Visible is the number of items visible after the pass.
	Visible int
	// Shown counts items that became visible.
	Shown int
	// Hidden counts items that became invisible, including items shown and
	// hidden again in the same pass.
	Hidden int
	// OffsetsWritten counts SetTop calls.
	OffsetsWritten int
	// TotalHeight is the container height set by the pass.
	TotalHeight float64
}

// Update runs one reconciliation pass over the host's children.
//
// Items are visited in child order while two running totals are kept: sum,
// the estimated height of every item visited so far, and sumVisible, the
// estimated height of the visible ones. An item is a candidate when its
// estimated span, placed at sum, touches the viewport (bounds inclusive).
// An invisible candidate is made visible and measured, then tested again
// with its measured height; if it no longer touches the viewport it is
// hidden again before the frame is rendered. Visible items are offset by
// sum-sumVisible so they appear at their full-list position. The container
// is sized to the final sum.
//
// Update is normally invoked by the scheduler. Calling it directly runs a
// pass immediately.
func (c *Content) Update() PassStats {
	var stats PassStats
	containerTop := c.host.ContainerTop()
	viewportHeight := c.host.ViewportHeight()

	var sum, sumVisible float64
	for _, n := range c.host.Children() {
		el, ok := asElement(n)
		if !ok {
			continue
		}
		stats.Items++
		if !c.table.Has(el) {
			c.adopt(el)
		}

		wasVisible := c.visibility[el] == Visible
		height := c.refreshEstimate(el)

		if intersects(containerTop+sum, height, viewportHeight) {
			if !wasVisible {
				c.show(el)
				height = c.refreshEstimate(el)
			}

			if intersects(containerTop+sum, height, viewportHeight) {
				next := sum - sumVisible
				if math.Abs(el.Top()-next) >= c.threshold {
					el.SetTop(next)
					stats.OffsetsWritten++
				}
				sumVisible += height
				stats.Visible++
				if !wasVisible {
					stats.Shown++
				}
			} else {
				c.hide(el)
				stats.Hidden++
			}
		} else if wasVisible {
			c.hide(el)
			stats.Hidden++
		}

		sum += height
	}

	if !c.sized || sum != c.totalHeight {
		c.host.SetHeight(sum)
		c.sized = true
	}
	c.totalHeight = sum
	stats.TotalHeight = sum
	c.lastPass = stats

	c.log.Debug("reconciled",
		zap.Int("items", stats.Items),
		zap.Int("visible", stats.Visible),
		zap.Int("shown", stats.Shown),
		zap.Int("hidden", stats.Hidden),
		zap.Int("offsets", stats.OffsetsWritten),
		zap.Float64("total_height", sum),
	)
	return stats
}

// intersects reports whether a span of height at top touches
// [0, viewportHeight]. Both bounds are inclusive.
func intersects(top, height, viewportHeight float64) bool {
	return 0 <= top+height && top <= viewportHeight
}

// refreshEstimate re-measures el if it is visible and returns its estimate.
// A failed measurement keeps the previous estimate.
func (c *Content) refreshEstimate(el Element) float64 {
	if c.visibility[el] == Visible {
		height, err := el.Measure()
		if err != nil {
			errors.Report(&errors.VirtualError{
				Op:   "virtual.Content.Update",
				Kind: errors.KindGeometry,
				Item: describe(el),
				Err:  err,
			})
		} else {
			c.table.Set(el, height)
		}
	}
	height, _ := c.table.Get(el)
	return height
}

func (c *Content) show(el Element) {
	el.SetVisibility(Visible)
	c.visibility[el] = Visible
	c.watcher.Watch(el)
}

func (c *Content) hide(el Element) {
	el.SetVisibility(Invisible)
	c.visibility[el] = Invisible
	c.watcher.Unwatch(el)
}
