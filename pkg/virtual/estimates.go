package virtual

// DefaultEstimate is the height assumed for items that were never measured.
const DefaultEstimate = 100.0

// HeightTable maps each tracked item to its last known height.
//
// Entries are keyed by item identity. They are removed explicitly when an
// item leaves the container; the table never keeps an item alive on its own.
type HeightTable struct {
	heights map[Element]float64
}

// NewHeightTable returns an empty table.
func NewHeightTable() *HeightTable {
	return &HeightTable{heights: make(map[Element]float64)}
}

// Get returns the estimate for el and whether an entry exists.
func (t *HeightTable) Get(el Element) (float64, bool) {
	h, ok := t.heights[el]
	return h, ok
}

// Set records the estimate for el. Negative heights are clamped to zero.
func (t *HeightTable) Set(el Element, height float64) {
	if height < 0 {
		height = 0
	}
	t.heights[el] = height
}

// Delete removes the entry for el.
func (t *HeightTable) Delete(el Element) {
	delete(t.heights, el)
}

// Has reports whether el has an entry.
func (t *HeightTable) Has(el Element) bool {
	_, ok := t.heights[el]
	return ok
}

// Len returns the number of entries.
func (t *HeightTable) Len() int {
	return len(t.heights)
}

// Sum returns the total of all estimates.
func (t *HeightTable) Sum() float64 {
	var sum float64
	for _, h := range t.heights {
		sum += h
	}
	return sum
}
