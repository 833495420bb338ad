package imaging

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/convolution"
	"github.com/anthonynsimon/bild/effect"
)

const (
	edgeSampleDim  = 256
	edgeBlurRadius = 1.0
	// edgeThreshold is the Sobel magnitude, over normalized luminance, above
	// which a pixel counts as an edge.
	edgeThreshold = 0.3

	// The Sobel response over normalized luminance lies in [-4, 4]. Scaling by
	// 1/8 around a bias of 128 keeps its sign inside a byte.
	sobelScale = 1.0 / 8
	sobelBias  = 128
)

var (
	sobelX = scaledKernel(
		-1, 0, 1,
		-2, 0, 2,
		-1, 0, 1,
	)
	sobelY = scaledKernel(
		-1, -2, -1,
		0, 0, 0,
		1, 2, 1,
	)
)

func scaledKernel(m ...float64) *convolution.Kernel {
	k := convolution.NewKernel(3, 3)
	for i, v := range m {
		k.Matrix[i] = v * sobelScale
	}
	return k
}

// EdgeDensity returns the fraction of pixels, in [0, 1], that sit on an edge.
//
// The image is sampled down to at most 256 px, converted to BT.601 luminance,
// smoothed with a small Gaussian and run through the 3x3 Sobel operator.
// Smooth skies score near 0; cloud texture, foliage and skylines score higher.
func EdgeDensity(img image.Image) float64 {
	if isEmpty(img) {
		return 0
	}
	small := sampleImage(img, edgeSampleDim)
	gray := effect.GrayscaleWithWeights(small, lumaR, lumaG, lumaB)
	smooth := blur.Gaussian(gray, edgeBlurRadius)

	opts := &convolution.Options{Bias: sobelBias, KeepAlpha: true}
	gx := convolution.Convolve(smooth, sobelX, opts)
	gy := convolution.Convolve(smooth, sobelY, opts)

	edges := 0
	for i := 0; i < len(gx.Pix); i += 4 {
		if math.Hypot(sobelGradient(gx.Pix[i]), sobelGradient(gy.Pix[i])) > edgeThreshold {
			edges++
		}
	}
	b := small.Bounds()
	return float64(edges) / float64(b.Dx()*b.Dy())
}

// sobelGradient undoes the byte encoding of one Sobel response.
func sobelGradient(v uint8) float64 {
	return (float64(v) - sobelBias) / sobelScale / 255
}
