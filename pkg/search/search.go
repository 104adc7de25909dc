// Package search finds container items by their text content.
package search

import (
	"strings"

	"github.com/go-drift/virtualcontent/pkg/virtual"
	"golang.org/x/text/cases"
)

// Texter is implemented by items that expose their text content.
type Texter interface {
	TextContent() string
}

// Parent lists the items being indexed in document order.
type Parent interface {
	Children() []virtual.Node
}

// Normalizer maps text to the form that is indexed and matched.
type Normalizer func(string) string

// Normalize folds case and collapses runs of whitespace to one space.
func Normalize(s string) string {
	return cases.Fold().String(strings.Join(strings.Fields(s), " "))
}

// Index maps the items of a parent to their normalized text. It is kept
// current by feeding it the same mutation records the content engine
// receives.
type Index struct {
	root      Parent
	normalize Normalizer
	text      map[virtual.Node]string
}

// NewIndex returns an empty index over root. A nil normalizer uses
// Normalize.
func NewIndex(root Parent, normalize Normalizer) *Index {
	if normalize == nil {
		normalize = Normalize
	}
	return &Index{
		root:      root,
		normalize: normalize,
		text:      make(map[virtual.Node]string),
	}
}

// HandleMutations indexes added items and forgets removed ones. Items
// without text content are skipped.
func (x *Index) HandleMutations(records []virtual.MutationRecord) {
	added, removed := virtual.Coalesce(records)
	for _, n := range removed {
		delete(x.text, n)
	}
	for _, n := range added {
		x.Add(n)
	}
}

// Add indexes n, replacing any previous text for it.
func (x *Index) Add(n virtual.Node) {
	t, ok := n.(Texter)
	if !ok {
		return
	}
	x.text[n] = x.normalize(t.TextContent())
}

// Len returns the number of indexed items.
func (x *Index) Len() int {
	return len(x.text)
}

// Search returns the indexed items whose text contains query, in document
// order. An empty query matches nothing.
func (x *Index) Search(query string) []virtual.Node {
	q := x.normalize(query)
	if q == "" {
		return nil
	}
	var out []virtual.Node
	for _, n := range x.root.Children() {
		if text, ok := x.text[n]; ok && strings.Contains(text, q) {
			out = append(out, n)
		}
	}
	return out
}
