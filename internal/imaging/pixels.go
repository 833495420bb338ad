package imaging

import (
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/parallel"
	"github.com/disintegration/imaging"
)

// Luminance weights (ITU-R BT.601), the same weights used for edge detection.
const (
	lumaR = 0.299
	lumaG = 0.587
	lumaB = 0.114
)

// toNRGBA returns a private *image.NRGBA copy of img with its origin at (0,0).
// Transforms always start from a copy so the caller's image is never mutated.
func toNRGBA(img image.Image) *image.NRGBA {
	return imaging.Clone(img)
}

func luma(r, g, b float64) float64 {
	return lumaR*r + lumaG*g + lumaB*b
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func to8(v float64) uint8 {
	return uint8(clamp01(v)*255 + 0.5)
}

func smoothstep(edge0, edge1, x float64) float64 {
	t := clamp01((x - edge0) / (edge1 - edge0))
	return t * t * (3 - 2*t)
}

// lut is a per-channel tone lookup table.
type lut [256]uint8

// buildLUT samples fn over [0, 1].
func buildLUT(fn func(x float64) float64) lut {
	var l lut
	for i := range l {
		l[i] = to8(fn(float64(i) / 255))
	}
	return l
}

// applyLUT maps every color channel through l, leaving alpha untouched.
func applyLUT(img image.Image, l lut) *image.NRGBA {
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{R: l[c.R], G: l[c.G], B: l[c.B], A: c.A}
	})
}

// mapColor applies fn to every pixel in normalized RGB.
func mapColor(img image.Image, fn func(r, g, b float64) (float64, float64, float64)) *image.NRGBA {
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		r, g, b := fn(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255)
		return color.NRGBA{R: to8(r), G: to8(g), B: to8(b), A: c.A}
	})
}

// mapPositional applies fn to every pixel with its coordinates, in parallel
// over rows. fn must only depend on its arguments.
func mapPositional(img image.Image, fn func(x, y int, r, g, b float64) (float64, float64, float64)) *image.NRGBA {
	dst := toNRGBA(img)
	w, h := dst.Rect.Dx(), dst.Rect.Dy()
	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			row := dst.Pix[y*dst.Stride : y*dst.Stride+w*4]
			for x := 0; x < w; x++ {
				p := row[x*4 : x*4+4]
				r, g, b := fn(x, y, float64(p[0])/255, float64(p[1])/255, float64(p[2])/255)
				p[0], p[1], p[2] = to8(r), to8(g), to8(b)
			}
		}
	})
	return dst
}

// mix blends a toward b by t in [0, 1].
func mix(a, b image.Image, t float64) *image.NRGBA {
	t = clamp01(t)
	dst := toNRGBA(a)
	src := toNRGBA(b)
	if !dst.Rect.Eq(src.Rect) {
		src = imaging.Resize(src, dst.Rect.Dx(), dst.Rect.Dy(), imaging.Linear)
	}
	for i := 0; i+3 < len(dst.Pix); i += 4 {
		for c := 0; c < 3; c++ {
			dst.Pix[i+c] = uint8(float64(dst.Pix[i+c])*(1-t) + float64(src.Pix[i+c])*t + 0.5)
		}
	}
	return dst
}

// radius returns the normalized distance of (x, y) from the image center,
// 0 at the center and 1 at the corners.
func radius(x, y, w, h int) float64 {
	cx, cy := float64(w-1)/2, float64(h-1)/2
	dx, dy := float64(x)-cx, float64(y)-cy
	maxR := math.Hypot(cx, cy)
	if maxR == 0 {
		return 0
	}
	return math.Hypot(dx, dy) / maxR
}

// hash01 is a deterministic per-pixel pseudo-random value in [0, 1).
func hash01(x, y int, seed uint32) float64 {
	h := uint32(x)*374761393 + uint32(y)*668265263 + seed*2246822519
	h = (h ^ (h >> 13)) * 1274126177
	h ^= h >> 16
	return float64(h) / float64(math.MaxUint32+1.0)
}

// isEmpty reports whether img has no pixels.
func isEmpty(img image.Image) bool {
	return img == nil || img.Bounds().Empty()
}
