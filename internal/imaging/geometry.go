package imaging

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"

	adj "github.com/ironsheep/photo-tools-mcp/internal/adjust"
)

// ApplyOrientation applies quarter turns, then flips, then free rotation. A
// free rotation is followed by a center crop to the largest axis-aligned
// rectangle that contains no corner fill.
func ApplyOrientation(c adj.Crop, img image.Image) *image.NRGBA {
	out := toNRGBA(img)

	switch c.QuarterTurns {
	case 1:
		out = imaging.Rotate90(out)
	case 2:
		out = imaging.Rotate180(out)
	case 3:
		out = imaging.Rotate270(out)
	}
	if c.FlipHorizontal {
		out = imaging.FlipH(out)
	}
	if c.FlipVertical {
		out = imaging.FlipV(out)
	}

	if c.FreeRotation != 0 {
		w, h := out.Rect.Dx(), out.Rect.Dy()
		iw, ih := inscribedSize(float64(w), float64(h), c.FreeRotation)
		rotated := imaging.Rotate(out, c.FreeRotation, color.Transparent)
		out = imaging.CropCenter(rotated, max(1, int(iw)), max(1, int(ih)))
	}
	return out
}

// ApplyGeometry is ApplyOrientation followed by the centered aspect crop.
// AspectOriginal resolves against the source ratio after quarter turns.
func ApplyGeometry(c adj.Crop, img image.Image) *image.NRGBA {
	out := ApplyOrientation(c, img)

	b := img.Bounds()
	original := float64(b.Dx()) / float64(max(1, b.Dy()))
	if c.QuarterTurns%2 == 1 {
		original = float64(b.Dy()) / float64(max(1, b.Dx()))
	}
	ratio, ok := c.Aspect.Ratio(original)
	if !ok {
		return out
	}
	return cropToAspect(out, ratio)
}

func cropToAspect(img *image.NRGBA, ratio float64) *image.NRGBA {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	r := aspectRect(w, h, ratio)
	if r.Dx() == w && r.Dy() == h {
		return img
	}
	return imaging.Crop(img, r)
}

// aspectRect returns the largest rectangle of the given width/height ratio
// centered in a w×h image.
func aspectRect(w, h int, ratio float64) image.Rectangle {
	if w == 0 || h == 0 || ratio <= 0 {
		return image.Rect(0, 0, w, h)
	}
	cw, ch := w, h
	if float64(w)/float64(h) > ratio {
		cw = int(math.Round(float64(h) * ratio))
	} else {
		ch = int(math.Round(float64(w) / ratio))
	}
	cw, ch = max(1, min(cw, w)), max(1, min(ch, h))
	x0, y0 := (w-cw)/2, (h-ch)/2
	return image.Rect(x0, y0, x0+cw, y0+ch)
}

// inscribedSize returns the largest axis-aligned rectangle inside a w×h
// rectangle rotated by deg degrees.
func inscribedSize(w, h, deg float64) (float64, float64) {
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	rad := deg * math.Pi / 180
	sinA, cosA := math.Abs(math.Sin(rad)), math.Abs(math.Cos(rad))

	long, short := w, h
	if h > w {
		long, short = h, w
	}

	if short <= 2*sinA*cosA*long || math.Abs(sinA-cosA) < 1e-10 {
		x := 0.5 * short
		if w >= h {
			return x / sinA, x / cosA
		}
		return x / cosA, x / sinA
	}

	cos2a := cosA*cosA - sinA*sinA
	return (w*cosA - h*sinA) / cos2a, (h*cosA - w*sinA) / cos2a
}
