package imaging

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/blend"
	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/parallel"
	"github.com/disintegration/imaging"
)

const grainSeed = 0x9E3779B9

// vignette darkens (v > 0) or lightens (v < 0) toward the corners.
func vignette(img image.Image, v float64) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	return mapPositional(img, func(x, y int, r, g, bl float64) (float64, float64, float64) {
		m := smoothstep(0.35, 1.0, radius(x, y, w, h))
		if v > 0 {
			k := 1 - 0.8*v*m
			return r * k, g * k, bl * k
		}
		a := -0.6 * v * m
		return r + (1-r)*a, g + (1-g)*a, bl + (1-bl)*a
	})
}

// grain adds deterministic monochrome noise of amplitude |v|, strongest in
// the midtones. The same input always produces the same grain.
func grain(img image.Image, v float64) *image.NRGBA {
	amp := 0.18 * math.Abs(v)
	return mapPositional(img, func(x, y int, r, g, b float64) (float64, float64, float64) {
		n := (hash01(x, y, grainSeed) - 0.5) * 2 * amp
		l := luma(r, g, b)
		n *= 1 - 0.5*math.Abs(2*l-1)
		return r + n, g + n, b + n
	})
}

// fade adds a milky haze (v > 0) or restores punch (v < 0).
func fade(img image.Image, v float64) *image.NRGBA {
	if v > 0 {
		a := 0.35 * v
		return applyLUT(img, buildLUT(func(x float64) float64 {
			return x*(1-a) + a*0.55
		}))
	}
	a := -0.3 * v
	return applyLUT(img, buildLUT(func(x float64) float64 {
		return (x-0.5)*(1+a) + 0.5 - a/6
	}))
}

// curves applies a cubic S-curve (v > 0) or its inverse (v < 0). The curve
// is pinned at black, mid gray and white and stays monotonic over [-1, 1].
func curves(img image.Image, v float64) *image.NRGBA {
	k := 0.9 * v
	return applyLUT(img, buildLUT(func(x float64) float64 {
		return x + k*x*(1-x)*(2*x-1)
	}))
}

// lensCorrection undoes barrel distortion (v > 0) or pincushion (v < 0) with a
// radial remap, and compensates the matching corner falloff.
func lensCorrection(img image.Image, v float64) *image.NRGBA {
	src := toNRGBA(img)
	w, h := src.Rect.Dx(), src.Rect.Dy()
	dst := image.NewNRGBA(src.Rect)
	cx, cy := float64(w-1)/2, float64(h-1)/2
	norm := math.Hypot(cx, cy)
	if norm == 0 {
		return src
	}
	k := 0.08 * v
	falloff := 0.25 * v

	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < w; x++ {
				dx, dy := (float64(x)-cx)/norm, (float64(y)-cy)/norm
				r2 := dx*dx + dy*dy
				scale := 1 + k*r2
				sx := cx + dx*scale*norm
				sy := cy + dy*scale*norm
				gain := 1 + falloff*r2

				i := y*dst.Stride + x*4
				pr, pg, pb, pa := bilinear(src, sx, sy)
				dst.Pix[i] = to8(pr * gain)
				dst.Pix[i+1] = to8(pg * gain)
				dst.Pix[i+2] = to8(pb * gain)
				dst.Pix[i+3] = uint8(pa*255 + 0.5)
			}
		}
	})
	return dst
}

// bilinear samples src at a fractional position, clamping to the edges.
func bilinear(src *image.NRGBA, x, y float64) (r, g, b, a float64) {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	x = math.Max(0, math.Min(float64(w-1), x))
	y = math.Max(0, math.Min(float64(h-1), y))
	x0, y0 := int(x), int(y)
	x1, y1 := x0+1, y0+1
	if x1 >= w {
		x1 = w - 1
	}
	if y1 >= h {
		y1 = h - 1
	}
	fx, fy := x-float64(x0), y-float64(y0)

	at := func(px, py, c int) float64 {
		return float64(src.Pix[py*src.Stride+px*4+c]) / 255
	}
	ch := func(c int) float64 {
		top := at(x0, y0, c)*(1-fx) + at(x1, y0, c)*fx
		bot := at(x0, y1, c)*(1-fx) + at(x1, y1, c)*fx
		return top*(1-fy) + bot*fy
	}
	return ch(0), ch(1), ch(2), ch(3)
}

// doubleExposure overlays a mirrored, softened ghost of the frame: screen
// blend for v > 0, multiply for v < 0, mixed in by |v|.
func doubleExposure(img image.Image, v float64) *image.NRGBA {
	base := toNRGBA(img)
	ghost := imaging.FlipH(blur.Gaussian(base, 2))
	var blended image.Image
	if v > 0 {
		blended = blend.Screen(base, ghost)
	} else {
		blended = blend.Multiply(base, ghost)
	}
	return mix(base, blended, math.Abs(v)*0.8)
}
