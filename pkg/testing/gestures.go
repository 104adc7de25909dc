package testing

import (
	"fmt"
	"math"
	"time"

	"github.com/go-drift/virtualcontent/pkg/virtual"
)

// maxScrollIntoViewAttempts bounds the corrections ScrollIntoView makes
// while estimates above the target are replaced by measurements.
const maxScrollIntoViewAttempts = 8

// Drag scrolls by delta in steps equal increments, pumping one frame after
// each, the way a user dragging the page produces a scroll event per frame.
func (t *ContentTester) Drag(delta float64, steps int) {
	if steps < 1 {
		steps = 1
	}
	step := delta / float64(steps)
	for i := 0; i < steps; i++ {
		t.doc.ScrollBy(step)
		t.Pump()
	}
}

// ScrollIntoView scrolls until the first element matched by finder is
// visible with its top at the viewport top, or as close as the scroll
// range allows. Each correction is settled within timeout.
func (t *ContentTester) ScrollIntoView(finder Finder, timeout time.Duration) error {
	result := t.Find(finder)
	if !result.Exists() {
		return fmt.Errorf("ScrollIntoView: finder matched no elements: %s", finder.Description())
	}
	target := result.First()

	for i := 0; i < maxScrollIntoViewAttempts; i++ {
		if !t.doc.ScrollToItem(t.content, target) {
			return fmt.Errorf("ScrollIntoView: element is not managed: %s", finder.Description())
		}
		if err := t.PumpAndSettle(timeout); err != nil {
			return err
		}
		if target.Visibility() != virtual.Visible {
			continue
		}
		rect, err := target.BoundingRect()
		if err != nil {
			return err
		}
		if math.Abs(rect.Top) < 1 || t.doc.ScrollY() >= t.doc.MaxScroll() {
			return nil
		}
	}
	return fmt.Errorf("ScrollIntoView: %s did not reach the viewport top", finder.Description())
}
