// Package lorem generates deterministic placeholder text for simulated
// documents.
package lorem

import (
	"math/rand/v2"
	"strings"
)

var words = []string{
	"lorem", "ipsum", "dolor", "sit", "amet", "consectetur", "adipiscing",
	"elit", "sed", "do", "eiusmod", "tempor", "incididunt", "ut", "labore",
	"et", "dolore", "magna", "aliqua", "enim", "ad", "minim", "veniam",
	"quis", "nostrud", "exercitation", "ullamco", "laboris", "nisi",
	"aliquip", "ex", "ea", "commodo", "consequat", "duis", "aute", "irure",
	"in", "reprehenderit", "voluptate", "velit", "esse", "cillum", "eu",
	"fugiat", "nulla", "pariatur", "excepteur", "sint", "occaecat",
	"cupidatat", "non", "proident", "sunt", "culpa", "qui", "officia",
	"deserunt", "mollit", "anim", "id", "est", "laborum",
}

// Generator produces sentences and paragraphs from a seeded source. The
// same seed always yields the same text.
type Generator struct {
	rng *rand.Rand

	// MinWords and MaxWords bound sentence length.
	MinWords, MaxWords int
	// MinSentences and MaxSentences bound paragraph length.
	MinSentences, MaxSentences int
}

// New returns a generator seeded with seed.
func New(seed uint64) *Generator {
	return &Generator{
		rng:          rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		MinWords:     4,
		MaxWords:     14,
		MinSentences: 2,
		MaxSentences: 8,
	}
}

func (g *Generator) between(lo, hi int) int {
	if hi <= lo {
		return max(lo, 1)
	}
	return lo + g.rng.IntN(hi-lo+1)
}

// Sentence returns one capitalized sentence ending in a period.
func (g *Generator) Sentence() string {
	n := g.between(g.MinWords, g.MaxWords)
	var b strings.Builder
	for i := 0; i < n; i++ {
		w := words[g.rng.IntN(len(words))]
		if i == 0 {
			b.WriteString(strings.ToUpper(w[:1]))
			b.WriteString(w[1:])
			continue
		}
		b.WriteByte(' ')
		b.WriteString(w)
	}
	b.WriteByte('.')
	return b.String()
}

// Paragraph returns a run of sentences separated by single spaces.
func (g *Generator) Paragraph() string {
	n := g.between(g.MinSentences, g.MaxSentences)
	sentences := make([]string, n)
	for i := range sentences {
		sentences[i] = g.Sentence()
	}
	return strings.Join(sentences, " ")
}

// Paragraphs returns n paragraphs.
func (g *Generator) Paragraphs(n int) []string {
	if n <= 0 {
		return nil
	}
	out := make([]string, n)
	for i := range out {
		out[i] = g.Paragraph()
	}
	return out
}
