package main

import (
	"image"
	"image/color"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"golang.org/x/image/draw"

	"github.com/ha1tch/campusmap/pkg/geom"
	"github.com/ha1tch/campusmap/pkg/render"
)

// A terminal cell holds a 2x4 grid of braille dots. Screen pixels in the
// viewer are these dots, so the map keeps a roughly square aspect.
const (
	dotsX = 2
	dotsY = 4
)

type cell struct {
	mask uint8
	fg   color.NRGBA
	bg   color.NRGBA
	ch   rune // text glyph, drawn instead of the dots
	wide bool // second half of a double-width glyph
}

// cellCanvas implements render.Canvas on a grid of terminal cells.
type cellCanvas struct {
	w, h  int // in cells
	cells []cell
}

func newCellCanvas(w, h int) *cellCanvas {
	return &cellCanvas{w: max(w, 0), h: max(h, 0), cells: make([]cell, max(w, 0)*max(h, 0))}
}

func (c *cellCanvas) at(cx, cy int) *cell {
	if cx < 0 || cy < 0 || cx >= c.w || cy >= c.h {
		return nil
	}
	return &c.cells[cy*c.w+cx]
}

// setDot sets one braille dot and colours its cell.
func (c *cellCanvas) setDot(mx, my int, fg color.NRGBA) {
	if mx < 0 || my < 0 {
		return
	}
	cl := c.at(mx/dotsX, my/dotsY)
	if cl == nil {
		return
	}
	rx, ry := mx%dotsX, my%dotsY
	var bit uint8
	if rx == 0 {
		bit = [...]uint8{0x01, 0x02, 0x04, 0x40}[ry]
	} else {
		bit = [...]uint8{0x08, 0x10, 0x20, 0x80}[ry]
	}
	cl.mask |= bit
	cl.fg = over(fg, cl.bg)
}

// line draws a Bresenham line in dot coordinates.
func (c *cellCanvas) line(x0, y0, x1, y1 int, fg color.NRGBA) {
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	e := dx + dy
	for {
		c.setDot(x0, y0, fg)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func dot(v float64) int { return int(math.Floor(v)) }

func (c *cellCanvas) BeginLayer(render.Layer) {}
func (c *cellCanvas) EndLayer()               {}

func (c *cellCanvas) Clear(bg color.NRGBA) {
	for i := range c.cells {
		c.cells[i] = cell{bg: bg}
	}
}

// Image samples img once per cell into the cell backgrounds.
func (c *cellCanvas) Image(img image.Image, p geom.Point, scale float64) {
	b := img.Bounds()
	if b.Empty() || c.w == 0 || c.h == 0 {
		return
	}
	dst := image.NewNRGBA(image.Rect(0, 0, c.w, c.h))
	r := image.Rect(
		dot(p.X/dotsX),
		dot(p.Y/dotsY),
		dot((p.X+float64(b.Dx())*scale)/dotsX),
		dot((p.Y+float64(b.Dy())*scale)/dotsY),
	)
	draw.ApproxBiLinear.Scale(dst, r, img, b, draw.Src, nil)

	for y := 0; y < c.h; y++ {
		for x := 0; x < c.w; x++ {
			px := dst.NRGBAAt(x, y)
			if px.A == 0 {
				continue
			}
			cl := c.at(x, y)
			cl.bg = over(px, cl.bg)
		}
	}
}

func (c *cellCanvas) Line(a, b geom.Point, s render.Stroke) {
	a, b, ok := clipSegment(a, b, float64(c.w*dotsX), float64(c.h*dotsY))
	if !ok {
		return
	}
	c.line(dot(a.X), dot(a.Y), dot(b.X), dot(b.Y), s.Color)
}

// clipSegment cuts ab to the box [0,w]x[0,h] (Liang-Barsky). ok is false
// when the segment misses the box.
func clipSegment(a, b geom.Point, w, h float64) (geom.Point, geom.Point, bool) {
	dx, dy := b.X-a.X, b.Y-a.Y
	t0, t1 := 0.0, 1.0
	edges := [4][2]float64{
		{-dx, a.X},
		{dx, w - a.X},
		{-dy, a.Y},
		{dy, h - a.Y},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return a, b, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return a, b, false
			}
			t0 = math.Max(t0, r)
		} else {
			if r < t0 {
				return a, b, false
			}
			t1 = math.Min(t1, r)
		}
	}
	return geom.Pt(a.X+t0*dx, a.Y+t0*dy), geom.Pt(a.X+t1*dx, a.Y+t1*dy), true
}

func (c *cellCanvas) Polyline(pts []geom.Point, s render.Stroke) {
	for i := 0; i+1 < len(pts); i++ {
		c.Line(pts[i], pts[i+1], s)
	}
}

func (c *cellCanvas) Circle(center geom.Point, r float64, fill color.NRGBA) {
	x0, x1 := dot(center.X-r), dot(center.X+r)
	y0, y1 := dot(center.Y-r), dot(center.Y+r)
	for my := y0; my <= y1; my++ {
		for mx := x0; mx <= x1; mx++ {
			if geom.Dist(geom.Pt(float64(mx)+0.5, float64(my)+0.5), center) <= r {
				c.setDot(mx, my, fill)
			}
		}
	}
	// a marker smaller than a dot still shows
	c.setDot(dot(center.X), dot(center.Y), fill)
}

// Rect fills the cells the rectangle covers, clearing their dots.
func (c *cellCanvas) Rect(r geom.Rect, fill color.NRGBA) {
	tl := r.Min()
	x0, y0 := dot(tl.X/dotsX), dot(tl.Y/dotsY)
	x1 := int(math.Ceil((tl.X+r.W)/dotsX)) - 1
	y1 := int(math.Ceil((tl.Y+r.H)/dotsY)) - 1
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if cl := c.at(x, y); cl != nil {
				cl.bg = over(fill, cl.bg)
				cl.mask = 0
				cl.ch = 0
			}
		}
	}
}

// Text writes s on the cell row through p, centred on p.
func (c *cellCanvas) Text(p geom.Point, s string, fg color.NRGBA) {
	cy := dot(p.Y / dotsY)
	cx := int(math.Round(p.X/dotsX - float64(runewidth.StringWidth(s))/2))
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		if cl := c.at(cx, cy); cl != nil {
			cl.ch, cl.fg, cl.wide = r, fg, false
		}
		if rw == 2 {
			if cl := c.at(cx+1, cy); cl != nil {
				cl.ch, cl.wide = 0, true
			}
		}
		cx += rw
	}
}

// MeasureText returns the size of s in dots: one cell row high.
func (c *cellCanvas) MeasureText(s string) (w, h float64) {
	return float64(runewidth.StringWidth(s) * dotsX), dotsY
}

// blit copies the grid to the screen at (ox, oy).
func (c *cellCanvas) blit(s tcell.Screen, ox, oy int) {
	for y := 0; y < c.h; y++ {
		for x := 0; x < c.w; x++ {
			cl := c.cells[y*c.w+x]
			if cl.wide {
				continue
			}
			style := tcell.StyleDefault.Background(tc(cl.bg)).Foreground(tc(cl.fg))
			switch {
			case cl.ch != 0:
				s.SetContent(ox+x, oy+y, cl.ch, nil, style)
			case cl.mask != 0:
				s.SetContent(ox+x, oy+y, rune(0x2800+int(cl.mask)), nil, style)
			default:
				s.SetContent(ox+x, oy+y, ' ', nil, style)
			}
		}
	}
}

// over composites a onto an opaque b.
func over(a, b color.NRGBA) color.NRGBA {
	if a.A == 0xff {
		return a
	}
	t := float64(a.A) / 255
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x)*t + float64(y)*(1-t)))
	}
	return color.NRGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 0xff}
}

func tc(c color.NRGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
