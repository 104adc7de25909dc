package testing

import (
	"math"

	"github.com/go-drift/virtualcontent/pkg/dom"
	"github.com/go-drift/virtualcontent/pkg/virtual"
)

// epsilon absorbs float summation order differences.
const epsilon = 1e-6

// CheckInvariants verifies the settled state of the content:
//
//   - the container height equals the total height, which equals the sum
//     of all estimates
//   - an item is visible exactly when its estimated span, placed at the sum
//     of its predecessors' estimates, touches the viewport
//   - visible items are painted at that position, within the offset
//     threshold
//   - exactly the visible items are watched for size changes
//
// Call it after PumpAndSettle.
func (t *ContentTester) CheckInvariants(tt TestingT) {
	tt.Helper()

	total := t.content.TotalHeight()
	if sum := t.content.EstimatedSum(); math.Abs(total-sum) > epsilon {
		tt.Errorf("total height %v != sum of estimates %v", total, sum)
	}
	if h := t.doc.Container().Height(); math.Abs(h-total) > epsilon {
		tt.Errorf("container height %v != total height %v", h, total)
	}

	container := t.doc.Container()
	top := container.ContainerTop()
	viewport := container.ViewportHeight()
	var pos float64
	visible := 0
	for _, n := range container.Children() {
		el, ok := n.(*dom.ElementNode)
		if !ok {
			tt.Errorf("non-element child %v left in container", n)
			continue
		}
		h, tracked := t.content.Estimate(el)
		if !tracked {
			tt.Errorf("%s: no estimate", el)
			continue
		}
		want := 0 <= top+pos+h && top+pos <= viewport
		isVisible := el.Visibility() == virtual.Visible
		if isVisible != want {
			tt.Errorf("%s: visible=%v but span %v+%v at viewport offset %v intersects=%v", el, isVisible, pos, h, top+pos, want)
		}
		if isVisible {
			visible++
			marginTop, _ := el.Margins()
			rect, err := el.BoundingRect()
			if err != nil {
				tt.Errorf("%s: %v", el, err)
			} else if wantTop := top + pos + marginTop; math.Abs(rect.Top-wantTop) >= virtual.DefaultOffsetThreshold {
				tt.Errorf("%s: painted at %v, want %v", el, rect.Top, wantTop)
			}
		}
		if t.content.Watched(el) != isVisible {
			tt.Errorf("%s: watched=%v visible=%v", el, t.content.Watched(el), isVisible)
		}
		pos += h
	}
	if w := t.content.WatchedCount(); w != visible {
		tt.Errorf("watched %d items, %d visible", w, visible)
	}
}
