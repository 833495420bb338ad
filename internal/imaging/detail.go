package imaging

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
)

// detail is the shared high-pass boost behind sharpness and texture. Positive
// values run an unsharp mask at the given radius, negative values blend toward
// a Gaussian blur of twice that radius.
func detail(img image.Image, v, sigma, amount float64) *image.NRGBA {
	if v > 0 {
		return toNRGBA(effect.UnsharpMask(img, sigma, v*amount))
	}
	return mix(img, blur.Gaussian(img, sigma*2), -v)
}

// clarity is a wide-radius local contrast boost aimed at midtone structure.
func clarity(img image.Image, v float64) *image.NRGBA {
	if v > 0 {
		return toNRGBA(effect.UnsharpMask(img, 8, 0.8*v))
	}
	return mix(img, blur.Gaussian(img, 8), -0.7*v)
}

// dehaze removes (v > 0) or adds (v < 0) a uniform haze veil. The veil level
// is estimated from the mean of each pixel's darkest channel.
func dehaze(img image.Image, v float64) *image.NRGBA {
	if v < 0 {
		a := -0.4 * v
		return mapColor(img, func(r, g, b float64) (float64, float64, float64) {
			return r*(1-a) + a*0.85, g*(1-a) + a*0.85, b*(1-a) + a*0.85
		})
	}

	haze := darkChannelMean(img)
	k := math.Min(0.95*v*haze, 0.9)
	return mapColor(img, func(r, g, b float64) (float64, float64, float64) {
		return (r - k) / (1 - k), (g - k) / (1 - k), (b - k) / (1 - k)
	})
}

func darkChannelMean(img image.Image) float64 {
	small := sampleImage(img, 128)
	var sum, n float64
	for i := 0; i+3 < len(small.Pix); i += 4 {
		m := small.Pix[i]
		if small.Pix[i+1] < m {
			m = small.Pix[i+1]
		}
		if small.Pix[i+2] < m {
			m = small.Pix[i+2]
		}
		sum += float64(m)
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / n / 255
}

// noiseReduction low-pass filters the image and blends the result in by v.
// It has no negative direction.
func noiseReduction(img image.Image, v float64) *image.NRGBA {
	if v <= 0 {
		return toNRGBA(img)
	}
	smooth := blur.Gaussian(img, 0.5+1.5*v)
	return mix(img, smooth, 0.85*v)
}
