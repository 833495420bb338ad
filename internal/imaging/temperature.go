package imaging

import (
	"image"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	MinColorTemperature = 2000
	MaxColorTemperature = 10000
	// NeutralColorTemperature is reported for images with no usable
	// chromaticity, such as pure black.
	NeutralColorTemperature = 6500
)

// planckianFloorY is the chromaticity y below which McCamy's approximation
// is undefined (its epicenter y) plus a margin.
const planckianFloorY = 0.2

// EstimateColorTemperature returns the correlated color temperature of the
// image's mean sampled color in Kelvin, clamped to [2000, 10000]. Bluer images
// score higher, amber images lower.
//
// The mean color is converted to CIE xyY and fed to McCamy's cubic. Colors far
// off the Planckian locus (saturated blues, magentas) fall back to a blue/amber
// axis. An empty image is neutral.
func EstimateColorTemperature(img image.Image) int {
	if isEmpty(img) {
		return NeutralColorTemperature
	}
	r, g, b := meanColor(img)
	x, y, _ := colorful.Color{R: r, G: g, B: b}.Xyy()

	var k float64
	if y > planckianFloorY {
		n := (x - 0.3320) / (0.1858 - y)
		k = 449*n*n*n + 3525*n*n + 6823.3*n + 5520.33
	} else {
		t := 0.0
		if r+b > 0 {
			t = (b - r) / (b + r)
		}
		k = NeutralColorTemperature + t*3500
	}

	k = math.Max(MinColorTemperature, math.Min(MaxColorTemperature, k))
	return int(math.Round(k))
}
