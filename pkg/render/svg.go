package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"
	"golang.org/x/image/font"

	"github.com/ha1tch/campusmap/pkg/geom"
)

// SVGCanvas writes drawing calls as SVG elements. Each layer becomes a
// group. Call Close to finish the document.
type SVGCanvas struct {
	svg      *svg.SVG
	w, h     int
	fontSize float64
	measure  font.Face
	inLayer  bool
}

// NewSVGCanvas starts a w x h document on out.
func NewSVGCanvas(out io.Writer, w, h int, fontSize float64) *SVGCanvas {
	c := &SVGCanvas{
		svg:      svg.New(out),
		w:        w,
		h:        h,
		fontSize: fontSize,
		measure:  newFace(fontSize),
	}
	c.svg.Start(w, h)
	return c
}

// Close ends any open layer and the document.
func (c *SVGCanvas) Close() {
	c.EndLayer()
	c.svg.End()
}

func px(v float64) int { return int(math.Round(v)) }

func (c *SVGCanvas) BeginLayer(l Layer) {
	c.EndLayer()
	c.svg.Gid(l.String())
	c.inLayer = true
}

func (c *SVGCanvas) EndLayer() {
	if c.inLayer {
		c.svg.Gend()
		c.inLayer = false
	}
}

func (c *SVGCanvas) Clear(col color.NRGBA) {
	c.svg.Rect(0, 0, c.w, c.h, fill(col))
}

// Image embeds img as a PNG data URI.
func (c *SVGCanvas) Image(img image.Image, p geom.Point, scale float64) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return
	}
	b := img.Bounds()
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
	c.svg.Image(px(p.X), px(p.Y), px(float64(b.Dx())*scale), px(float64(b.Dy())*scale), uri,
		`preserveAspectRatio="none"`)
}

func (c *SVGCanvas) Line(a, b geom.Point, s Stroke) {
	c.svg.Line(px(a.X), px(a.Y), px(b.X), px(b.Y), stroke(s))
}

func (c *SVGCanvas) Polyline(pts []geom.Point, s Stroke) {
	xs := make([]int, len(pts))
	ys := make([]int, len(pts))
	for i, p := range pts {
		xs[i], ys[i] = px(p.X), px(p.Y)
	}
	c.svg.Polyline(xs, ys, stroke(s)+";fill:none;stroke-linejoin:round;stroke-linecap:round")
}

func (c *SVGCanvas) Circle(center geom.Point, r float64, col color.NRGBA) {
	c.svg.Circle(px(center.X), px(center.Y), px(r), fill(col))
}

func (c *SVGCanvas) Rect(r geom.Rect, col color.NRGBA) {
	tl := r.Min()
	c.svg.Roundrect(px(tl.X), px(tl.Y), px(r.W), px(r.H), 3, 3, fill(col))
}

func (c *SVGCanvas) Text(p geom.Point, s string, col color.NRGBA) {
	c.svg.Text(px(p.X), px(p.Y), s, fmt.Sprintf(
		"%s;font-size:%gpx;font-family:sans-serif;text-anchor:middle;dominant-baseline:central",
		fill(col), c.fontSize))
}

func (c *SVGCanvas) MeasureText(s string) (w, h float64) {
	return measure(c.measure, s)
}

func fill(c color.NRGBA) string {
	if c.A == 255 {
		return "fill:" + css(c)
	}
	return fmt.Sprintf("fill:%s;fill-opacity:%.2f", css(c), opacity(c))
}

func stroke(s Stroke) string {
	out := fmt.Sprintf("stroke:%s;stroke-width:%g", css(s.Color), s.Width)
	if s.Color.A != 255 {
		out += fmt.Sprintf(";stroke-opacity:%.2f", opacity(s.Color))
	}
	return out
}
