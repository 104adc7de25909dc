package lorem

import (
	"strings"
	"testing"
	"unicode"

	"github.com/google/go-cmp/cmp"
)

func TestDeterministic(t *testing.T) {
	a := New(7).Paragraphs(5)
	b := New(7).Paragraphs(5)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("same seed produced different text (-a +b):\n%s", diff)
	}
	if c := New(8).Paragraphs(5); cmp.Equal(a, c) {
		t.Error("different seeds produced identical text")
	}
}

func TestSentenceShape(t *testing.T) {
	g := New(1)
	for i := 0; i < 50; i++ {
		s := g.Sentence()
		if !strings.HasSuffix(s, ".") {
			t.Fatalf("sentence %q should end with a period", s)
		}
		if r := []rune(s)[0]; !unicode.IsUpper(r) {
			t.Fatalf("sentence %q should be capitalized", s)
		}
		n := len(strings.Fields(s))
		if n < g.MinWords || n > g.MaxWords {
			t.Fatalf("sentence %q has %d words, want [%d, %d]", s, n, g.MinWords, g.MaxWords)
		}
	}
}

func TestParagraphBounds(t *testing.T) {
	g := New(2)
	g.MinSentences, g.MaxSentences = 3, 3
	p := g.Paragraph()
	if got := strings.Count(p, "."); got != 3 {
		t.Errorf("paragraph has %d sentences, want 3: %q", got, p)
	}
}

func TestParagraphsEmpty(t *testing.T) {
	if got := New(3).Paragraphs(0); got != nil {
		t.Errorf("Paragraphs(0) = %v, want nil", got)
	}
}
