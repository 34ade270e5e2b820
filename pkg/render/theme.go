package render

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// Theme holds the colours used for each map element.
type Theme struct {
	Background color.NRGBA // fallback fill when no image is loaded
	Edge       color.NRGBA
	Path       color.NRGBA
	Node       color.NRGBA
	Start      color.NRGBA
	End        color.NRGBA
	Text       color.NRGBA
	Plaque     color.NRGBA // label background
}

// DefaultTheme returns the standard map palette.
func DefaultTheme() Theme {
	return Theme{
		Background: hex(0xe5e7eb),
		Edge:       hex(0x9ca3af),
		Path:       hex(0xf59e0b),
		Node:       hex(0x3b82f6),
		Start:      hex(0x10b981),
		End:        hex(0xef4444),
		Text:       hex(0x374151),
		Plaque:     color.NRGBA{255, 255, 255, 200},
	}
}

func hex(v uint32) color.NRGBA {
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
}

// ParseHex parses "#rrggbb" or "#rrggbbaa".
func ParseHex(s string) (color.NRGBA, error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) != 6 && len(h) != 8 {
		return color.NRGBA{}, errors.Newf("colour %q: want #rrggbb or #rrggbbaa", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{}, errors.Wrapf(err, "colour %q", s)
	}
	if len(h) == 6 {
		return hex(uint32(v)), nil
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// WithAlpha returns c with its alpha scaled by a in [0, 1].
func WithAlpha(c color.NRGBA, a float64) color.NRGBA {
	c.A = uint8(float64(c.A)*a + 0.5)
	return c
}

// css formats c as an SVG colour, dropping alpha.
func css(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func opacity(c color.NRGBA) float64 {
	return float64(c.A) / 255
}

// Apply overrides colours by element name: background, edge, path, node,
// start, end, text or plaque.
func (t *Theme) Apply(overrides map[string]string) error {
	slots := map[string]*color.NRGBA{
		"background": &t.Background,
		"edge":       &t.Edge,
		"path":       &t.Path,
		"node":       &t.Node,
		"start":      &t.Start,
		"end":        &t.End,
		"text":       &t.Text,
		"plaque":     &t.Plaque,
	}
	for name, v := range overrides {
		slot, ok := slots[strings.ToLower(name)]
		if !ok {
			return errors.Newf("unknown theme element %q", name)
		}
		c, err := ParseHex(v)
		if err != nil {
			return errors.Wrapf(err, "theme.%s", name)
		}
		*slot = c
	}
	return nil
}
