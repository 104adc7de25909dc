// Package virtual renders very long vertical lists by keeping most items out
// of layout.
//
// A [Content] manages the ordered children of a host container. Children far
// from the viewport are kept [Invisible]: they take no layout space and are
// never measured. Children inside or touching the viewport are [Visible]:
// they are measured on every pass and absolutely offset so that consecutive
// visible items pack as if every invisible predecessor were still in flow.
// The container itself is sized to the sum of all height estimates, so the
// scroll range matches the full content even though only a handful of items
// occupy real layout space.
//
// # Driving a Content
//
// The host feeds three kinds of events into a Content:
//
//   - child-list mutations, via [Content.HandleMutations]
//   - size changes of visible items, via [Content.HandleResize]
//   - scrolling, via the [ScrollSubscriber] given to [WithScrollSubscriber]
//
// All three funnel into [Content.ScheduleUpdate], which requests at most one
// frame callback from the [FrameRequester] until that callback has run. The
// callback performs one reconciliation pass, [Content.Update].
//
// Everything runs on the host's single UI goroutine. Content is not safe for
// concurrent use.
//
// # Estimates
//
// Items that were never measured are assumed to be [DefaultEstimate] pixels
// tall. The default is deliberately generous so that the first pass does not
// under-scroll; it is corrected as soon as the item is measured.
package virtual
