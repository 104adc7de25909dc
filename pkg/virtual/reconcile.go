package virtual

import "go.uber.org/zap"

// HandleMutations applies a batch of child-list changes and schedules an
// update.
//
// Removed elements are unwatched, returned to normal layout and forgotten.
// Added elements start invisible with the default estimate. Added nodes that
// are not elements are removed from the host, since their presentation
// cannot be controlled.
func (c *Content) HandleMutations(records []MutationRecord) {
	added, removed := Coalesce(records)

	for _, n := range removed {
		if el, ok := asElement(n); ok {
			c.release(el)
		}
	}

	for _, n := range added {
		el, ok := asElement(n)
		if !ok {
			c.log.Debug("removing non-element child", zap.String("node", describe(n)))
			c.host.RemoveChild(n)
			continue
		}
		c.adopt(el)
	}

	if len(added) > 0 || len(removed) > 0 {
		c.log.Debug("child list changed",
			zap.Int("added", len(added)),
			zap.Int("removed", len(removed)),
			zap.Int("tracked", c.table.Len()),
		)
	}
	c.ScheduleUpdate()
}

// HandleResize records that watched items changed size. Any number of
// changes results in one scheduled update.
func (c *Content) HandleResize(changed []Element) {
	c.ScheduleUpdate()
}

// adopt starts tracking el as an invisible item with the default estimate.
// Already tracked elements are left alone; Update adopts children whose
// mutation record has not been delivered yet.
func (c *Content) adopt(el Element) {
	if c.table.Has(el) {
		return
	}
	el.SetVisibility(Invisible)
	c.visibility[el] = Invisible
	c.table.Set(el, c.defaultEstimate)
}

// release stops tracking el and returns it to normal layout.
func (c *Content) release(el Element) {
	c.watcher.Unwatch(el)
	el.SetVisibility(Visible)
	delete(c.visibility, el)
	c.table.Delete(el)
}
