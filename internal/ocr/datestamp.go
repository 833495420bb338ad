package ocr

import (
	"errors"
	"image"
	"image/color"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/disintegration/imaging"
)

// ErrNoDatestamp is returned when no readable date stamp was found.
var ErrNoDatestamp = errors.New("no date stamp found")

// Stamp region as fractions of the frame. Film and early digital cameras
// burn the date into the lower right corner.
const (
	stampLeft    = 0.5
	stampTop     = 0.75
	stampUpscale = 3
)

// stampRegion crops the lower right corner where date stamps are printed.
func stampRegion(img image.Image) *image.NRGBA {
	b := img.Bounds()
	x0 := b.Min.X + int(float64(b.Dx())*stampLeft)
	y0 := b.Min.Y + int(float64(b.Dy())*stampTop)
	return imaging.Crop(img, image.Rect(x0, y0, b.Max.X, b.Max.Y))
}

// isStampInk reports whether a pixel looks like the orange-red LED digits of
// a date imprint, or like bright white digital overlay text.
func isStampInk(c color.NRGBA) bool {
	r, g, b := int(c.R), int(c.G), int(c.B)
	warm := r > 170 && r-b > 70 && g > 60
	white := r > 215 && g > 215 && b > 215
	return warm || white
}

// isolateStamp turns the stamp region into black ink on white, scaled up so
// Tesseract sees strokes several pixels wide.
func isolateStamp(img image.Image) *image.NRGBA {
	region := stampRegion(img)
	w, h := region.Rect.Dx(), region.Rect.Dy()
	mask := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*region.Stride + x*4
			c := color.NRGBA{R: region.Pix[i], G: region.Pix[i+1], B: region.Pix[i+2], A: region.Pix[i+3]}
			if isStampInk(c) {
				mask.Pix[y*mask.Stride+x] = 0
			} else {
				mask.Pix[y*mask.Stride+x] = 255
			}
		}
	}
	return imaging.Resize(mask, w*stampUpscale, h*stampUpscale, imaging.NearestNeighbor)
}

var (
	// 2004/07/14, 2004.07.14, 2004-07-14
	ymdLong = regexp.MustCompile(`(\d{4})\s*[./-]\s*(\d{1,2})\s*[./-]\s*(\d{1,2})`)
	// '98 7 14
	ymdShort = regexp.MustCompile(`'\s*(\d{2})\s+(\d{1,2})\s+(\d{1,2})`)
	// 7 14 '98
	mdyShort = regexp.MustCompile(`(\d{1,2})\s+(\d{1,2})\s+'\s*(\d{2})`)
	// 07/14/98, 14.07.2004
	numeric = regexp.MustCompile(`(\d{1,2})\s*[./-]\s*(\d{1,2})\s*[./-]\s*(\d{2,4})`)
)

// parseDatestamp extracts a calendar date from OCR text. Two-digit years of
// 70 and above are read as 19xx, the rest as 20xx. For purely numeric
// day/month orderings a first field above 12 is taken as the day.
func parseDatestamp(text string) (time.Time, bool) {
	text = strings.ReplaceAll(strings.TrimSpace(text), "’", "'")

	if m := ymdLong.FindStringSubmatch(text); m != nil {
		return makeDate(atoi(m[1]), atoi(m[2]), atoi(m[3]))
	}
	if m := ymdShort.FindStringSubmatch(text); m != nil {
		return makeDate(expandYear(atoi(m[1])), atoi(m[2]), atoi(m[3]))
	}
	if m := mdyShort.FindStringSubmatch(text); m != nil {
		return makeDate(expandYear(atoi(m[3])), atoi(m[1]), atoi(m[2]))
	}
	if m := numeric.FindStringSubmatch(text); m != nil {
		a, b, y := atoi(m[1]), atoi(m[2]), atoi(m[3])
		if len(m[3]) == 2 {
			y = expandYear(y)
		}
		if a > 12 {
			return makeDate(y, b, a)
		}
		return makeDate(y, a, b)
	}
	return time.Time{}, false
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func expandYear(yy int) int {
	if yy >= 70 {
		return 1900 + yy
	}
	return 2000 + yy
}

// makeDate rejects dates that time.Date would normalize, such as Feb 30.
func makeDate(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 || year < 1900 || year > 2099 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, false
	}
	return t, true
}
