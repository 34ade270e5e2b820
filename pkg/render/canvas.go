package render

import (
	"image"
	"image/color"
	"slices"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/ha1tch/campusmap/pkg/geom"
)

// Layer identifies a drawing pass. Layers are drawn in declaration order.
type Layer int

const (
	LayerBackground Layer = iota
	LayerEdges
	LayerPath
	LayerNodes
	LayerLabels
)

var layerNames = [...]string{"background", "edges", "path", "nodes", "labels"}

func (l Layer) String() string {
	if l < 0 || int(l) >= len(layerNames) {
		return "layer?"
	}
	return layerNames[l]
}

// Stroke describes a line.
type Stroke struct {
	Color color.NRGBA
	Width float64
}

// Canvas is a drawing surface in screen coordinates. Implementations exist
// for PNG, SVG, the terminal, and recording.
type Canvas interface {
	BeginLayer(l Layer)
	EndLayer()
	Clear(c color.NRGBA)
	// Image draws img with its top-left corner at p, scaled by scale.
	Image(img image.Image, p geom.Point, scale float64)
	Line(a, b geom.Point, s Stroke)
	Polyline(pts []geom.Point, s Stroke)
	Circle(center geom.Point, r float64, fill color.NRGBA)
	Rect(r geom.Rect, fill color.NRGBA)
	// Text draws s centred on p.
	Text(p geom.Point, s string, c color.NRGBA)
	MeasureText(s string) (w, h float64)
}

// Op is the kind of a recorded directive.
type Op int

const (
	OpClear Op = iota
	OpImage
	OpLine
	OpPolyline
	OpCircle
	OpRect
	OpText
)

// Directive is one recorded drawing call.
type Directive struct {
	Layer  Layer
	Op     Op
	Points []geom.Point
	Radius float64
	Scale  float64
	Rect   geom.Rect
	Color  color.NRGBA
	Width  float64
	Text   string
	Image  image.Image
}

// Recorder is a Canvas that records directives instead of drawing. Text is
// measured with the 7x13 bitmap face.
type Recorder struct {
	Directives []Directive
	layer      Layer
	face       font.Face
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{face: basicfont.Face7x13}
}

func (r *Recorder) add(d Directive) {
	d.Layer = r.layer
	r.Directives = append(r.Directives, d)
}

func (r *Recorder) BeginLayer(l Layer) { r.layer = l }
func (r *Recorder) EndLayer()          {}

func (r *Recorder) Clear(c color.NRGBA) {
	r.add(Directive{Op: OpClear, Color: c})
}

func (r *Recorder) Image(img image.Image, p geom.Point, scale float64) {
	r.add(Directive{Op: OpImage, Image: img, Points: []geom.Point{p}, Scale: scale})
}

func (r *Recorder) Line(a, b geom.Point, s Stroke) {
	r.add(Directive{Op: OpLine, Points: []geom.Point{a, b}, Color: s.Color, Width: s.Width})
}

func (r *Recorder) Polyline(pts []geom.Point, s Stroke) {
	r.add(Directive{Op: OpPolyline, Points: slices.Clone(pts), Color: s.Color, Width: s.Width})
}

func (r *Recorder) Circle(center geom.Point, radius float64, fill color.NRGBA) {
	r.add(Directive{Op: OpCircle, Points: []geom.Point{center}, Radius: radius, Color: fill})
}

func (r *Recorder) Rect(rect geom.Rect, fill color.NRGBA) {
	r.add(Directive{Op: OpRect, Rect: rect, Color: fill})
}

func (r *Recorder) Text(p geom.Point, s string, c color.NRGBA) {
	r.add(Directive{Op: OpText, Points: []geom.Point{p}, Text: s, Color: c})
}

func (r *Recorder) MeasureText(s string) (w, h float64) {
	return measure(r.face, s)
}

// Layers returns the layer of each directive, with consecutive repeats
// collapsed.
func (r *Recorder) Layers() []Layer {
	var out []Layer
	for _, d := range r.Directives {
		if len(out) == 0 || out[len(out)-1] != d.Layer {
			out = append(out, d.Layer)
		}
	}
	return out
}

// In returns the directives drawn in layer l.
func (r *Recorder) In(l Layer) []Directive {
	var out []Directive
	for _, d := range r.Directives {
		if d.Layer == l {
			out = append(out, d)
		}
	}
	return out
}

func measure(face font.Face, s string) (w, h float64) {
	m := face.Metrics()
	return float64(font.MeasureString(face, s)) / 64, float64(m.Ascent+m.Descent) / 64
}
