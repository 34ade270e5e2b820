package viewport

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/ha1tch/campusmap/pkg/geom"
)

const eps = 1e-6

func near(a, b geom.Point, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol
}

func genTransform() *rapid.Generator[Transform] {
	return rapid.Custom(func(t *rapid.T) Transform {
		return Transform{
			Scale:   rapid.Float64Range(ScaleMin, ScaleMax).Draw(t, "scale"),
			OffsetX: rapid.Float64Range(-5000, 5000).Draw(t, "ox"),
			OffsetY: rapid.Float64Range(-5000, 5000).Draw(t, "oy"),
		}
	})
}

func TestToScreen(t *testing.T) {
	tr := Transform{Scale: 2, OffsetX: 10, OffsetY: -5}
	got := tr.ToScreen(geom.Pt(3, 4))
	assert.Equal(t, geom.Pt(16, 3), got)
	assert.Equal(t, geom.Pt(3, 4), tr.ToWorld(got))
}

func TestRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tr := genTransform().Draw(t, "transform")
		p := geom.Pt(
			rapid.Float64Range(-1e4, 1e4).Draw(t, "x"),
			rapid.Float64Range(-1e4, 1e4).Draw(t, "y"),
		)
		back := tr.ToWorld(tr.ToScreen(p))
		// relative tolerance: the offset can dwarf p after scaling
		tol := 1e-9 * (1 + math.Abs(p.X) + math.Abs(p.Y) + math.Abs(tr.OffsetX) + math.Abs(tr.OffsetY))
		if !near(back, p, tol) {
			t.Fatalf("round trip %v -> %v", p, back)
		}
	})
}

func TestPanIsUnclamped(t *testing.T) {
	tr := Identity()
	tr.Pan(1e6, -1e6)
	assert.Equal(t, 1e6, tr.OffsetX)
	assert.Equal(t, -1e6, tr.OffsetY)
}

func TestZoomAtPreservesPivot(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tr := genTransform().Draw(t, "transform")
		p := geom.Pt(
			rapid.Float64Range(0, 2000).Draw(t, "px"),
			rapid.Float64Range(0, 2000).Draw(t, "py"),
		)
		dir := Direction(rapid.IntRange(0, 1).Draw(t, "dir"))

		world := tr.ToWorld(p)
		tr.ZoomAt(p, dir)

		if tr.Scale < ScaleMin || tr.Scale > ScaleMax {
			t.Fatalf("scale %v escaped clamp", tr.Scale)
		}
		if got := tr.ToScreen(world); !near(got, p, 1e-6) {
			t.Fatalf("pivot moved: %v -> %v", p, got)
		}
	})
}

func TestZoomAtClampsAtLimits(t *testing.T) {
	p := geom.Pt(300, 200)

	tr := Transform{Scale: ScaleMax, OffsetX: 40, OffsetY: 40}
	world := tr.ToWorld(p)
	tr.ZoomAt(p, ZoomIn)
	assert.Equal(t, ScaleMax, tr.Scale)
	assert.True(t, near(tr.ToScreen(world), p, eps), "pivot must hold at the upper limit")

	tr = Transform{Scale: ScaleMin * 1.05, OffsetX: -12, OffsetY: 7}
	world = tr.ToWorld(p)
	tr.ZoomAt(p, ZoomOut)
	assert.Equal(t, ScaleMin, tr.Scale)
	assert.True(t, near(tr.ToScreen(world), p, eps), "pivot must hold at the lower limit")
}

func TestZoomStep(t *testing.T) {
	tr := Identity()
	tr.ZoomAt(geom.Pt(0, 0), ZoomIn)
	assert.InDelta(t, 1.1, tr.Scale, eps)
	tr.ZoomAt(geom.Pt(0, 0), ZoomOut)
	assert.InDelta(t, 0.99, tr.Scale, eps)
}

func TestFitContainsAllNodes(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(2, 30).Draw(t, "n")
		pts := make([]geom.Point, n)
		for i := range pts {
			pts[i] = geom.Pt(
				rapid.Float64Range(-1000, 1000).Draw(t, "x"),
				rapid.Float64Range(-1000, 1000).Draw(t, "y"),
			)
		}
		// at least two distinct points
		pts[1] = pts[0].Add(rapid.Float64Range(1, 50).Draw(t, "dx"), 0)

		size := Size{
			W: rapid.Float64Range(200, 2000).Draw(t, "w"),
			H: rapid.Float64Range(200, 2000).Draw(t, "h"),
		}
		padding := rapid.Float64Range(0, 50).Draw(t, "padding")

		var tr Transform
		tr.Fit(pts, size, padding)

		for _, p := range pts {
			s := tr.ToScreen(p)
			if s.X < padding-eps || s.X > size.W-padding+eps ||
				s.Y < padding-eps || s.Y > size.H-padding+eps {
				t.Fatalf("%v projects to %v outside %v with padding %v", p, s, size, padding)
			}
		}
	})
}

func TestFitCentres(t *testing.T) {
	var tr Transform
	tr.Fit([]geom.Point{{X: 0, Y: 0}, {X: 100, Y: 50}}, Size{W: 300, H: 300}, 50)

	assert.InDelta(t, 2.0, tr.Scale, eps)
	c := tr.ToScreen(geom.Pt(50, 25))
	assert.InDelta(t, 150, c.X, eps)
	assert.InDelta(t, 150, c.Y, eps)
}

func TestFitDegenerate(t *testing.T) {
	t.Run("single node", func(t *testing.T) {
		var tr Transform
		tr.Fit([]geom.Point{{X: 7, Y: 9}}, Size{W: 400, H: 200}, 50)
		assert.Equal(t, 1.0, tr.Scale)
		assert.True(t, near(tr.ToScreen(geom.Pt(7, 9)), geom.Pt(200, 100), eps))
	})

	t.Run("horizontal line", func(t *testing.T) {
		var tr Transform
		tr.Fit([]geom.Point{{X: 0, Y: 5}, {X: 100, Y: 5}}, Size{W: 300, H: 300}, 50)
		assert.InDelta(t, 2.0, tr.Scale, eps)
		assert.False(t, math.IsInf(tr.OffsetY, 0))
	})

	t.Run("empty", func(t *testing.T) {
		tr := Transform{Scale: 3, OffsetX: 1, OffsetY: 2}
		tr.Fit(nil, Size{W: 300, H: 300}, 50)
		assert.Equal(t, Transform{Scale: 3, OffsetX: 1, OffsetY: 2}, tr)
	})

	t.Run("viewport smaller than padding", func(t *testing.T) {
		var tr Transform
		tr.Fit([]geom.Point{{X: 0, Y: 0}, {X: 10, Y: 10}}, Size{W: 40, H: 40}, 50)
		assert.Equal(t, 1.0, tr.Scale)
	})
}
