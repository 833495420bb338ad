// Package colormath converts hex color strings to normalized RGB and measures
// the perceptual distance used by color-similarity search.
package colormath

import (
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	errs "github.com/ironsheep/photo-tools-mcp/internal/errors"
)

// MaxDistance is the distance between black and white.
var MaxDistance = math.Sqrt(3)

// RGB is a color with each channel normalized to [0, 1].
type RGB struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

// HexToRGB parses a 6-digit hex color.
//
// Surrounding whitespace and one leading '#' are allowed; digits are
// case-insensitive. Any other length or a non-hex character is an
// InvalidColorFormat error. There is no lenient parsing: "#FFF" fails.
func HexToRGB(s string) (RGB, error) {
	h := strings.TrimSpace(s)
	h = strings.TrimPrefix(h, "#")
	if len(h) != 6 {
		return RGB{}, errs.InvalidColorFormat(s)
	}

	var ch [3]float64
	for i := 0; i < 3; i++ {
		hi, ok1 := hexDigit(h[2*i])
		lo, ok2 := hexDigit(h[2*i+1])
		if !ok1 || !ok2 {
			return RGB{}, errs.InvalidColorFormat(s)
		}
		ch[i] = float64(hi<<4|lo) / 255
	}
	return RGB{R: ch[0], G: ch[1], B: ch[2]}, nil
}

func hexDigit(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// Hex encodes the color as uppercase "#RRGGBB", clamping channels to [0, 1].
func (c RGB) Hex() string {
	r, g, b := c.Colorful().Clamped().RGB255()
	return fmt.Sprintf("#%02X%02X%02X", r, g, b)
}

// Colorful converts to a go-colorful color for color-space work.
func (c RGB) Colorful() colorful.Color {
	return colorful.Color{R: c.R, G: c.G, B: c.B}
}

// FromColorful converts a go-colorful color, clamping it to the sRGB gamut.
func FromColorful(c colorful.Color) RGB {
	c = c.Clamped()
	return RGB{R: c.R, G: c.G, B: c.B}
}

// Distance is the Euclidean distance between two colors, in [0, √3].
func Distance(a, b RGB) float64 {
	return a.Colorful().DistanceRgb(b.Colorful())
}
