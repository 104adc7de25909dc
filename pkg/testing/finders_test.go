package testing

import (
	"testing"
	"time"

	"github.com/go-drift/virtualcontent/pkg/virtual"
	"github.com/google/go-cmp/cmp"
)

const findersHTML = `<body>
<h1 id="top">Virtual content</h1>
<p id="one">First paragraph.</p>
<p id="two">Second paragraph mentions scrolling.</p>
<div id="three">Scrolling again.</div>
</body>`

func labels(r FinderResult) []string {
	var out []string
	for _, el := range r.All() {
		out = append(out, el.String())
	}
	return out
}

func TestFinders(t *testing.T) {
	tester := NewContentTesterWithT(t)
	if err := tester.AddHTML(findersHTML); err != nil {
		t.Fatal(err)
	}
	if err := tester.PumpAndSettle(time.Second); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		finder Finder
		want   []string
	}{
		{ByID("two"), []string{"p#two"}},
		{ByTag("P"), []string{"p#one", "p#two"}},
		{ByText("Scrolling again."), []string{"div#three"}},
		{ByTextContaining("paragraph"), []string{"p#one", "p#two"}},
		{All(ByTag("p"), ByTextContaining("scrolling")), []string{"p#two"}},
		{All(Visible(), ByID("top")), []string{"h1#top"}},
		{ByID("missing"), nil},
	}
	for _, tt := range tests {
		t.Run(tt.finder.Description(), func(t *testing.T) {
			if diff := cmp.Diff(tt.want, labels(tester.Find(tt.finder))); diff != "" {
				t.Errorf("matches (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFinderResult_Accessors(t *testing.T) {
	tester := NewContentTesterWithT(t)
	tester.AddHTML(findersHTML)
	tester.PumpAndSettle(time.Second)

	r := tester.Find(ByTag("p"))
	if r.Count() != 2 || !r.Exists() {
		t.Fatalf("count = %d", r.Count())
	}
	if r.At(1).ID != "two" || r.FirstOrNil().ID != "one" {
		t.Error("accessors returned wrong elements")
	}
	if rect, err := r.Rect(); err != nil || rect.Height() <= 0 {
		t.Errorf("Rect = %+v, %v", rect, err)
	}

	empty := tester.Find(ByID("missing"))
	if empty.FirstOrNil() != nil {
		t.Error("FirstOrNil on empty result should be nil")
	}
	defer func() {
		if recover() == nil {
			t.Error("First on empty result should panic")
		}
	}()
	empty.First()
}

func TestScrollIntoView(t *testing.T) {
	tester := NewContentTesterWithT(t)
	items := tester.AddUniform(500, 40)
	items[321].ID = "target"
	tester.PumpAndSettle(time.Second)

	if err := tester.ScrollIntoView(ByID("target"), time.Second); err != nil {
		t.Fatal(err)
	}
	rect, err := items[321].BoundingRect()
	if err != nil {
		t.Fatal(err)
	}
	if rect.Top < -1 || rect.Top > 1 {
		t.Errorf("target top = %v, want 0", rect.Top)
	}
	tester.CheckInvariants(t)

	if err := tester.ScrollIntoView(ByID("missing"), time.Second); err == nil {
		t.Error("expected error for a finder with no matches")
	}
}

func TestDrag(t *testing.T) {
	tester := NewContentTesterWithT(t)
	items := tester.AddUniform(200, 50)
	tester.PumpAndSettle(time.Second)

	tester.Drag(2000, 10)
	tester.PumpAndSettle(time.Second)
	if tester.Document().ScrollY() != 2000 {
		t.Errorf("scrollY = %v, want 2000", tester.Document().ScrollY())
	}
	visible := tester.VisibleItems()
	if len(visible) == 0 || visible[0] == items[0] || items[0].Visibility() != virtual.Invisible {
		t.Error("dragging should move the visible window")
	}
	tester.CheckInvariants(t)
}
