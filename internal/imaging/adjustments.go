package imaging

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/disintegration/imaging"

	adj "github.com/ironsheep/photo-tools-mcp/internal/adjust"
	errs "github.com/ironsheep/photo-tools-mcp/internal/errors"
)

// ApplyAdjustment applies one adjustment to img and returns a new image.
//
// value is clamped to [-1, 1]. A value of 0 returns an unmodified copy. For
// bidirectional adjustments the sign selects the direction of the effect
// (texture > 0 adds micro-contrast, texture < 0 smooths).
//
// This switch is the single dispatch point for adjustment identifiers.
func ApplyAdjustment(id adj.ID, value float64, img image.Image) (*image.NRGBA, error) {
	if isEmpty(img) {
		return nil, errs.Processing("adjust", "empty image", nil)
	}
	v := adj.Clamp(value)
	if v == 0 {
		return toNRGBA(img), nil
	}

	switch id {
	// Exposure and tonal
	case adj.Exposure:
		return exposure(img, v), nil
	case adj.Brightness:
		return toNRGBA(adjust.Brightness(img, v)), nil
	case adj.Contrast:
		return imaging.AdjustSigmoid(img, 0.5, v*8), nil
	case adj.Tone:
		return imaging.AdjustGamma(img, math.Pow(2, v)), nil
	case adj.Highlights:
		return highlights(img, v), nil
	case adj.Shadows:
		return shadows(img, v), nil
	case adj.BlackPoint:
		return blackPoint(img, v), nil
	case adj.Brilliance:
		return brilliance(img, v), nil

	// Color
	case adj.Saturation:
		return toNRGBA(adjust.Saturation(img, v)), nil
	case adj.NaturalSaturation:
		return vibrance(img, v), nil
	case adj.Warmth:
		return channelShift(img, 0.12*v, 0.02*v, -0.12*v), nil
	case adj.Tint:
		return channelShift(img, 0.04*v, -0.1*v, 0.04*v), nil
	case adj.ColorTemperature:
		return channelGain(img, 1+0.25*v, 1+0.04*v, 1-0.25*v), nil
	case adj.WhiteBalance:
		return whiteBalance(img, v), nil
	case adj.Hue:
		return toNRGBA(adjust.Hue(img, int(math.Round(v*180)))), nil

	// Detail and texture
	case adj.Sharpness:
		return detail(img, v, 1.0, 1.5), nil
	case adj.Texture:
		return detail(img, v, 0.6, 1.2), nil
	case adj.Clarity:
		return clarity(img, v), nil
	case adj.Dehaze:
		return dehaze(img, v), nil
	case adj.NoiseReduction:
		return noiseReduction(img, v), nil

	// Stylistic
	case adj.Vignette:
		return vignette(img, v), nil
	case adj.Grain:
		return grain(img, v), nil
	case adj.Fade:
		return fade(img, v), nil
	case adj.Curves:
		return curves(img, v), nil
	case adj.LensCorrection:
		return lensCorrection(img, v), nil
	case adj.DoubleExposure:
		return doubleExposure(img, v), nil
	}

	return nil, errs.Processing("adjust", "unknown adjustment "+string(id), nil)
}

// exposure applies a linear gain of 2^(2v), i.e. ±2 stops.
func exposure(img image.Image, v float64) *image.NRGBA {
	gain := math.Pow(2, 2*v)
	return applyLUT(img, buildLUT(func(x float64) float64 { return x * gain }))
}

// highlights recovers (v < 0) or boosts (v > 0) the bright end only.
func highlights(img image.Image, v float64) *image.NRGBA {
	return mapColor(img, func(r, g, b float64) (float64, float64, float64) {
		l := luma(r, g, b)
		w := smoothstep(0.45, 1.0, l)
		d := 0.35 * v * w * (1 - l*0.5)
		return r + d, g + d, b + d
	})
}

// shadows lifts (v > 0) or crushes (v < 0) the dark end only.
func shadows(img image.Image, v float64) *image.NRGBA {
	return mapColor(img, func(r, g, b float64) (float64, float64, float64) {
		l := luma(r, g, b)
		w := 1 - smoothstep(0.0, 0.55, l)
		d := 0.35 * v * w
		return r + d, g + d, b + d
	})
}

// blackPoint moves the black level: v > 0 deepens blacks, v < 0 lifts them.
func blackPoint(img image.Image, v float64) *image.NRGBA {
	bp := 0.2 * v
	return applyLUT(img, buildLUT(func(x float64) float64 {
		if bp >= 0 {
			return (x - bp) / (1 - bp)
		}
		return x*(1+bp) - bp
	}))
}

// brilliance pairs a shadow lift with highlight compression, which brightens
// dark areas while holding back the bright ones.
func brilliance(img image.Image, v float64) *image.NRGBA {
	return mapColor(img, func(r, g, b float64) (float64, float64, float64) {
		l := luma(r, g, b)
		lift := 0.3 * v * (1 - smoothstep(0, 0.6, l))
		hold := -0.15 * v * smoothstep(0.6, 1, l)
		d := lift + hold
		return r + d, g + d, b + d
	})
}

// vibrance raises saturation most where it is lowest.
func vibrance(img image.Image, v float64) *image.NRGBA {
	return mapColor(img, func(r, g, b float64) (float64, float64, float64) {
		mx := math.Max(r, math.Max(g, b))
		mn := math.Min(r, math.Min(g, b))
		sat := mx - mn
		amt := v * (1 - sat)
		if v < 0 {
			amt = v
		}
		l := luma(r, g, b)
		k := 1 + amt
		return l + (r-l)*k, l + (g-l)*k, l + (b-l)*k
	})
}

func channelShift(img image.Image, dr, dg, db float64) *image.NRGBA {
	return mapColor(img, func(r, g, b float64) (float64, float64, float64) {
		return r + dr, g + dg, b + db
	})
}

func channelGain(img image.Image, kr, kg, kb float64) *image.NRGBA {
	return mapColor(img, func(r, g, b float64) (float64, float64, float64) {
		return r * kr, g * kg, b * kb
	})
}

// whiteBalance applies a gray-world correction of strength v. Negative values
// push the image further along its existing cast.
func whiteBalance(img image.Image, v float64) *image.NRGBA {
	mr, mg, mb := meanColor(img)
	gray := (mr + mg + mb) / 3
	if mr == 0 || mg == 0 || mb == 0 || gray == 0 {
		return toNRGBA(img)
	}
	gain := func(m float64) float64 {
		return 1 + v*(gray/m-1)
	}
	return channelGain(img, gain(mr), gain(mg), gain(mb))
}

// meanColor averages normalized channels over a coarse sample grid.
func meanColor(img image.Image) (r, g, b float64) {
	small := sampleImage(img, 128)
	n := 0.0
	for i := 0; i+3 < len(small.Pix); i += 4 {
		r += float64(small.Pix[i])
		g += float64(small.Pix[i+1])
		b += float64(small.Pix[i+2])
		n++
	}
	if n == 0 {
		return 0, 0, 0
	}
	return r / n / 255, g / n / 255, b / n / 255
}

// sampleImage returns a copy no larger than maxDim on its longest side,
// used by analysis passes that do not need every pixel.
func sampleImage(img image.Image, maxDim int) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() <= maxDim && b.Dy() <= maxDim {
		return toNRGBA(img)
	}
	w, h := fitDims(b.Dx(), b.Dy(), maxDim, maxDim)
	return imaging.Resize(img, w, h, imaging.Box)
}
