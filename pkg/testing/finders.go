package testing

import (
	"fmt"
	"strings"

	"github.com/go-drift/virtualcontent/pkg/dom"
	"github.com/go-drift/virtualcontent/pkg/graphics"
	"github.com/go-drift/virtualcontent/pkg/virtual"
)

// Finder locates elements in a container.
type Finder interface {
	// Evaluate returns all matching elements in child order.
	Evaluate(c *dom.Container) []*dom.ElementNode
	// Description returns a human-readable description for error messages.
	Description() string
}

// FinderResult wraps finder results with convenient accessors.
type FinderResult struct {
	elements []*dom.ElementNode
	finder   Finder
}

// First returns the first match. Panics if no matches.
func (r FinderResult) First() *dom.ElementNode {
	if len(r.elements) == 0 {
		panic(fmt.Sprintf("Finder found no elements: %s", r.description()))
	}
	return r.elements[0]
}

// FirstOrNil returns the first match, or nil if none.
func (r FinderResult) FirstOrNil() *dom.ElementNode {
	if len(r.elements) == 0 {
		return nil
	}
	return r.elements[0]
}

// At returns the match at index. Panics if out of range.
func (r FinderResult) At(index int) *dom.ElementNode {
	if index < 0 || index >= len(r.elements) {
		panic(fmt.Sprintf("Finder index %d out of range (found %d): %s", index, len(r.elements), r.description()))
	}
	return r.elements[index]
}

// All returns all matches in child order.
func (r FinderResult) All() []*dom.ElementNode {
	return r.elements
}

// Count returns the number of matches.
func (r FinderResult) Count() int {
	return len(r.elements)
}

// Exists returns true if at least one match was found.
func (r FinderResult) Exists() bool {
	return len(r.elements) > 0
}

// Rect returns the viewport rectangle of the first match.
func (r FinderResult) Rect() (graphics.Rect, error) {
	return r.First().BoundingRect()
}

func (r FinderResult) description() string {
	if r.finder == nil {
		return "unknown"
	}
	return r.finder.Description()
}

// --- Concrete finders ---

// predicateFinder matches elements satisfying a predicate.
type predicateFinder struct {
	fn   func(*dom.ElementNode) bool
	desc string
}

func (f *predicateFinder) Evaluate(c *dom.Container) []*dom.ElementNode {
	var out []*dom.ElementNode
	for _, n := range c.Children() {
		if el, ok := n.(*dom.ElementNode); ok && f.fn(el) {
			out = append(out, el)
		}
	}
	return out
}

func (f *predicateFinder) Description() string {
	return f.desc
}

// ByID returns a finder that matches elements with the given id.
func ByID(id string) Finder {
	return &predicateFinder{
		fn:   func(el *dom.ElementNode) bool { return el.ID == id },
		desc: fmt.Sprintf("ByID(%q)", id),
	}
}

// ByTag returns a finder that matches elements with the given tag.
func ByTag(tag string) Finder {
	return &predicateFinder{
		fn:   func(el *dom.ElementNode) bool { return strings.EqualFold(el.Tag, tag) },
		desc: fmt.Sprintf("ByTag(%q)", tag),
	}
}

// ByText returns a finder that matches elements whose text equals text.
func ByText(text string) Finder {
	return &predicateFinder{
		fn:   func(el *dom.ElementNode) bool { return el.TextContent() == text },
		desc: fmt.Sprintf("ByText(%q)", text),
	}
}

// ByTextContaining returns a finder that matches elements whose text
// contains substring.
func ByTextContaining(substring string) Finder {
	return &predicateFinder{
		fn:   func(el *dom.ElementNode) bool { return strings.Contains(el.TextContent(), substring) },
		desc: fmt.Sprintf("ByTextContaining(%q)", substring),
	}
}

// Visible returns a finder that matches elements currently in layout.
func Visible() Finder {
	return &predicateFinder{
		fn:   func(el *dom.ElementNode) bool { return el.Visibility() == virtual.Visible },
		desc: "Visible()",
	}
}

// ByPredicate returns a finder that matches elements satisfying fn.
func ByPredicate(fn func(*dom.ElementNode) bool) Finder {
	return &predicateFinder{fn: fn, desc: "ByPredicate(<func>)"}
}

// allFinder matches elements matched by every finder.
type allFinder struct {
	finders []Finder
}

func (f *allFinder) Evaluate(c *dom.Container) []*dom.ElementNode {
	if len(f.finders) == 0 {
		return nil
	}
	matches := f.finders[0].Evaluate(c)
	for _, other := range f.finders[1:] {
		keep := make(map[*dom.ElementNode]bool)
		for _, el := range other.Evaluate(c) {
			keep[el] = true
		}
		filtered := matches[:0]
		for _, el := range matches {
			if keep[el] {
				filtered = append(filtered, el)
			}
		}
		matches = filtered
	}
	return matches
}

func (f *allFinder) Description() string {
	parts := make([]string, len(f.finders))
	for i, finder := range f.finders {
		parts[i] = finder.Description()
	}
	return fmt.Sprintf("All(%s)", strings.Join(parts, ", "))
}

// All returns a finder that matches elements matched by every finder.
func All(finders ...Finder) Finder {
	return &allFinder{finders: finders}
}
