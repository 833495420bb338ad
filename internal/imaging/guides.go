package imaging

import (
	"image"
	"image/color"
	"image/draw"

	adj "github.com/ironsheep/photo-tools-mcp/internal/adjust"
	"github.com/ironsheep/photo-tools-mcp/internal/colormath"
	errs "github.com/ironsheep/photo-tools-mcp/internal/errors"
)

// DefaultGuideColor is used when CropGuides is given no line color.
const DefaultGuideColor = "#FFFFFF"

const (
	guideShade = 0.45
	guideAlpha = 170
)

// CropGuides draws the crop overlay shown while framing a shot.
//
// Parameters:
//   - img: The preview to annotate. It is not modified.
//   - aspect: The aspect constraint. AspectNone and AspectOriginal frame the
//     whole image.
//   - lineHex: Color of the rule-of-thirds lines as "#RRGGBB"; empty selects
//     DefaultGuideColor.
//
// Returns:
//   - *image.NRGBA: A copy with the area outside the crop darkened and two
//     horizontal and two vertical thirds lines drawn inside it.
//   - image.Rectangle: The crop frame in image coordinates.
//   - error: InvalidColorFormat for a bad lineHex, Processing for an empty image.
func CropGuides(img image.Image, aspect adj.AspectRatio, lineHex string) (*image.NRGBA, image.Rectangle, error) {
	if isEmpty(img) {
		return nil, image.Rectangle{}, errs.Processing("crop_guides", "empty image", nil)
	}
	if lineHex == "" {
		lineHex = DefaultGuideColor
	}
	rgb, err := colormath.HexToRGB(lineHex)
	if err != nil {
		return nil, image.Rectangle{}, err
	}

	out := toNRGBA(img)
	w, h := out.Rect.Dx(), out.Rect.Dy()
	frame := image.Rect(0, 0, w, h)
	if ratio, ok := aspect.Ratio(float64(w) / float64(h)); ok {
		frame = aspectRect(w, h, ratio)
	}

	// Darken outside the frame
	for y := 0; y < h; y++ {
		row := out.Pix[y*out.Stride : y*out.Stride+w*4]
		for x := 0; x < w; x++ {
			if (image.Point{X: x, Y: y}).In(frame) {
				continue
			}
			p := row[x*4 : x*4+3]
			for c := range p {
				p[c] = uint8(float64(p[c]) * guideShade)
			}
		}
	}

	line := &image.Uniform{C: color.NRGBA{R: to8(rgb.R), G: to8(rgb.G), B: to8(rgb.B), A: guideAlpha}}
	for k := 1; k <= 2; k++ {
		x := frame.Min.X + frame.Dx()*k/3
		y := frame.Min.Y + frame.Dy()*k/3
		draw.Draw(out, image.Rect(x, frame.Min.Y, x+1, frame.Max.Y), line, image.Point{}, draw.Over)
		draw.Draw(out, image.Rect(frame.Min.X, y, frame.Max.X, y+1), line, image.Point{}, draw.Over)
	}
	return out, frame, nil
}
