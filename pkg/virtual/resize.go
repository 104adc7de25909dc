package virtual

// ResizeWatcher tracks the set of items whose size changes trigger an
// update. Outside of a reconciliation pass it equals the visible set.
type ResizeWatcher struct {
	observer ResizeObserver
	watched  map[Element]struct{}
}

// NewResizeWatcher returns a watcher forwarding to observer, which may be nil.
func NewResizeWatcher(observer ResizeObserver) *ResizeWatcher {
	return &ResizeWatcher{
		observer: observer,
		watched:  make(map[Element]struct{}),
	}
}

// Watch starts reporting size changes for el.
func (w *ResizeWatcher) Watch(el Element) {
	if _, ok := w.watched[el]; ok {
		return
	}
	w.watched[el] = struct{}{}
	if w.observer != nil {
		w.observer.Observe(el)
	}
}

// Unwatch stops reporting size changes for el.
func (w *ResizeWatcher) Unwatch(el Element) {
	if _, ok := w.watched[el]; !ok {
		return
	}
	delete(w.watched, el)
	if w.observer != nil {
		w.observer.Unobserve(el)
	}
}

// Watching reports whether el is watched.
func (w *ResizeWatcher) Watching(el Element) bool {
	_, ok := w.watched[el]
	return ok
}

// Len returns the number of watched items.
func (w *ResizeWatcher) Len() int {
	return len(w.watched)
}
