package geom

import (
	"math"
	"testing"
)

func TestBoundsOf(t *testing.T) {
	b, ok := BoundsOf([]Point{{3, -1}, {-2, 4}, {0, 0}})
	if !ok {
		t.Fatal("expected bounds for non-empty input")
	}
	if b.MinX != -2 || b.MaxX != 3 || b.MinY != -1 || b.MaxY != 4 {
		t.Errorf("unexpected bounds %+v", b)
	}
	if b.Width() != 5 || b.Height() != 5 {
		t.Errorf("expected 5x5, got %vx%v", b.Width(), b.Height())
	}

	if _, ok := BoundsOf(nil); ok {
		t.Error("empty input should report !ok")
	}
}

func TestLerp(t *testing.T) {
	a, b := Pt(0, 0), Pt(10, -20)
	tests := []struct {
		t    float64
		want Point
	}{
		{0, Pt(0, 0)},
		{0.5, Pt(5, -10)},
		{1, Pt(10, -20)},
	}
	for _, tt := range tests {
		got := Lerp(a, b, tt.t)
		if math.Abs(got.X-tt.want.X) > 1e-9 || math.Abs(got.Y-tt.want.Y) > 1e-9 {
			t.Errorf("Lerp(t=%v) = %v, want %v", tt.t, got, tt.want)
		}
	}
}

func TestRectOverlap(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 10, H: 10}

	if got := RectOverlap(a, Rect{X: 20, Y: 0, W: 10, H: 10}); got != 0 {
		t.Errorf("separated rects overlap %v", got)
	}
	if got := RectOverlap(a, Rect{X: 5, Y: 0, W: 10, H: 10}); math.Abs(got-50) > 1e-9 {
		t.Errorf("half-overlap expected 50, got %v", got)
	}
}

func TestLabelPlacerPrefersRight(t *testing.T) {
	lp := NewLabelPlacer(nil)
	pos := lp.PlaceLabel(Pt(100, 100), 40, 10, 4)
	if pos.X <= 100 || pos.Y != 100 {
		t.Errorf("first label should sit to the right, got %v", pos)
	}
}

func TestLabelPlacerAvoidsPlacedLabels(t *testing.T) {
	lp := NewLabelPlacer(nil)
	first := lp.PlaceLabel(Pt(100, 100), 40, 10, 4)
	second := lp.PlaceLabel(Pt(100, 100), 40, 10, 4)

	r1 := Rect{first.X, first.Y, 40, 10}
	r2 := Rect{second.X, second.Y, 40, 10}
	if RectOverlap(r1, r2) != 0 {
		t.Errorf("second label %v overlaps first %v", second, first)
	}
}
