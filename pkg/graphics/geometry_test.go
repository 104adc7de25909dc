package graphics

import "testing"

func TestRectFromLTWH(t *testing.T) {
	r := RectFromLTWH(10, 20, 30, 40)
	if r.Right != 40 || r.Bottom != 60 {
		t.Errorf("got %+v", r)
	}
	if r.Width() != 30 || r.Height() != 40 {
		t.Errorf("size = %v", r.Size())
	}
}

func TestRectIntersect(t *testing.T) {
	tests := []struct {
		name string
		a, b Rect
		want Rect
	}{
		{"overlap", RectFromLTWH(0, 0, 10, 10), RectFromLTWH(5, 5, 10, 10), Rect{5, 5, 10, 10}},
		{"disjoint", RectFromLTWH(0, 0, 10, 10), RectFromLTWH(20, 20, 5, 5), Rect{}},
		{"touching", RectFromLTWH(0, 0, 10, 10), RectFromLTWH(0, 10, 10, 10), Rect{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Intersect(tt.b); got != tt.want {
				t.Errorf("Intersect = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRectOverlapsVertically(t *testing.T) {
	viewport := RectFromLTWH(0, 0, 100, 500)
	tests := []struct {
		name string
		r    Rect
		want bool
	}{
		{"inside", RectFromLTWH(0, 100, 100, 50), true},
		{"touching top", RectFromLTWH(0, -50, 100, 50), true},
		{"touching bottom", RectFromLTWH(0, 500, 100, 50), true},
		{"above", RectFromLTWH(0, -100, 100, 50), false},
		{"below", RectFromLTWH(0, 501, 100, 50), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.OverlapsVertically(viewport); got != tt.want {
				t.Errorf("OverlapsVertically = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRectTranslate(t *testing.T) {
	r := RectFromLTWH(0, 0, 10, 10).Translate(5, -5)
	if r != (Rect{5, -5, 15, 5}) {
		t.Errorf("Translate = %+v", r)
	}
	if r.IsEmpty() {
		t.Error("translated rect should not be empty")
	}
}
