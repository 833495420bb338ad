package imaging

import (
	"image"
	"math"

	"github.com/disintegration/imaging"

	errs "github.com/ironsheep/photo-tools-mcp/internal/errors"
)

// Size is a bounding box in pixels.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Square returns a Size with both sides equal to n.
func Square(n int) Size {
	return Size{Width: n, Height: n}
}

// Resize downsamples img so both dimensions fit inside limit, keeping the aspect
// ratio. Images that already fit are copied unchanged; Resize never upsamples.
func Resize(img image.Image, limit Size) (*image.NRGBA, error) {
	if isEmpty(img) {
		return nil, errs.Processing("resize", "empty image", nil)
	}
	if limit.Width <= 0 || limit.Height <= 0 {
		return nil, errs.Processing("resize", "degenerate target size", nil)
	}
	b := img.Bounds()
	if b.Dx() <= limit.Width && b.Dy() <= limit.Height {
		return toNRGBA(img), nil
	}
	w, h := fitDims(b.Dx(), b.Dy(), limit.Width, limit.Height)
	return imaging.Resize(img, w, h, imaging.Lanczos), nil
}

// fitDims scales w×h down to fit maxW×maxH, never below 1 pixel per side.
func fitDims(w, h, maxW, maxH int) (int, int) {
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	scale := math.Min(float64(maxW)/float64(w), float64(maxH)/float64(h))
	if scale >= 1 {
		return w, h
	}
	nw := int(math.Round(float64(w) * scale))
	nh := int(math.Round(float64(h) * scale))
	return min(maxW, max(1, nw)), min(maxH, max(1, nh))
}
