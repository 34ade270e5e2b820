package render

import (
	"image"
	"image/color"
	"image/png"
	"io"

	"git.sr.ht/~sbinet/gg"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/ha1tch/campusmap/pkg/geom"
)

// Supersample is the factor RasterCanvas draws at before downscaling.
const Supersample = 4

// DefaultFontSize is the label size in points.
const DefaultFontSize = 12

// newFace returns Go Regular at size points without hinting, since output
// is supersampled instead.
func newFace(size float64) font.Face {
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		panic(err) // embedded font
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		panic(err)
	}
	return face
}

// RasterCanvas draws into an image through gg at Supersample times the
// target size. Image downsamples the result.
type RasterCanvas struct {
	dc      *gg.Context
	w, h    int
	measure font.Face // label face at target size
}

// NewRasterCanvas returns a w x h canvas with labels at fontSize points.
func NewRasterCanvas(w, h int, fontSize float64) *RasterCanvas {
	dc := gg.NewContext(w*Supersample, h*Supersample)
	dc.SetFontFace(newFace(fontSize * Supersample))
	return &RasterCanvas{
		dc:      dc,
		w:       w,
		h:       h,
		measure: newFace(fontSize),
	}
}

func up(v float64) float64 { return v * Supersample }

func (r *RasterCanvas) BeginLayer(Layer) {}
func (r *RasterCanvas) EndLayer()        {}

func (r *RasterCanvas) Clear(c color.NRGBA) {
	r.dc.SetColor(c)
	r.dc.Clear()
}

func (r *RasterCanvas) Image(img image.Image, p geom.Point, scale float64) {
	b := img.Bounds()
	dst := image.Rect(
		int(up(p.X)), int(up(p.Y)),
		int(up(p.X+float64(b.Dx())*scale)), int(up(p.Y+float64(b.Dy())*scale)),
	)
	if dst.Empty() {
		return
	}
	target, ok := r.dc.Image().(*image.RGBA)
	if !ok {
		return
	}
	draw.ApproxBiLinear.Scale(target, dst, img, b, draw.Over, nil)
}

func (r *RasterCanvas) Line(a, b geom.Point, s Stroke) {
	r.dc.SetColor(s.Color)
	r.dc.SetLineWidth(up(s.Width))
	r.dc.DrawLine(up(a.X), up(a.Y), up(b.X), up(b.Y))
	r.dc.Stroke()
}

func (r *RasterCanvas) Polyline(pts []geom.Point, s Stroke) {
	if len(pts) < 2 {
		return
	}
	r.dc.SetColor(s.Color)
	r.dc.SetLineWidth(up(s.Width))
	r.dc.SetLineJoin(gg.LineJoinRound)
	r.dc.SetLineCap(gg.LineCapRound)
	r.dc.MoveTo(up(pts[0].X), up(pts[0].Y))
	for _, p := range pts[1:] {
		r.dc.LineTo(up(p.X), up(p.Y))
	}
	r.dc.Stroke()
}

func (r *RasterCanvas) Circle(center geom.Point, radius float64, fill color.NRGBA) {
	r.dc.SetColor(fill)
	r.dc.DrawCircle(up(center.X), up(center.Y), up(radius))
	r.dc.Fill()
}

func (r *RasterCanvas) Rect(rect geom.Rect, fill color.NRGBA) {
	tl := rect.Min()
	r.dc.SetColor(fill)
	r.dc.DrawRoundedRectangle(up(tl.X), up(tl.Y), up(rect.W), up(rect.H), up(3))
	r.dc.Fill()
}

func (r *RasterCanvas) Text(p geom.Point, s string, c color.NRGBA) {
	r.dc.SetColor(c)
	r.dc.DrawStringAnchored(s, up(p.X), up(p.Y), 0.5, 0.35)
}

func (r *RasterCanvas) MeasureText(s string) (w, h float64) {
	return measure(r.measure, s)
}

// Snapshot returns the canvas downsampled to its target size.
func (r *RasterCanvas) Snapshot() *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, r.w, r.h))
	src := r.dc.Image()
	draw.CatmullRom.Scale(out, out.Bounds(), src, src.Bounds(), draw.Over, nil)
	return out
}

// WritePNG encodes the downsampled canvas as PNG.
func (r *RasterCanvas) WritePNG(w io.Writer) error {
	return png.Encode(w, r.Snapshot())
}
