package imaging

import (
	"image"
	"sort"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/photo-tools-mcp/internal/colormath"
	errs "github.com/ironsheep/photo-tools-mcp/internal/errors"
)

// DefaultDominantColors is the palette size used when the caller passes a
// non-positive count.
const DefaultDominantColors = 5

const (
	paletteSampleDim = 256
	// paletteFoldDistance is the CIE Lab distance below which two palette
	// entries are treated as the same color.
	paletteFoldDistance = 0.08
)

// Swatch is one dominant color and the share of sampled pixels it covers.
type Swatch struct {
	// Hex is the uppercase "#RRGGBB" encoding of RGB.
	Hex string `json:"hex"`

	// RGB is the mean color of the pixels in this swatch.
	RGB colormath.RGB `json:"rgb"`

	// Percentage of sampled pixels in this swatch (0-100).
	Percentage float64 `json:"percentage"`
}

type paletteBin struct {
	key     uint16
	count   int
	r, g, b float64
}

func (p *paletteBin) mean() colormath.RGB {
	n := float64(p.count) * 255
	return colormath.RGB{R: p.r / n, G: p.g / n, B: p.b / n}
}

// DominantPalette extracts up to maxCount dominant colors ordered by prevalence.
//
// Parameters:
//   - img: The source image. Only a copy of at most 256 px on its longest
//     side is examined.
//   - maxCount: Maximum number of swatches. Values <= 0 mean
//     DefaultDominantColors.
//
// Returns:
//   - []Swatch: At least one swatch for any non-empty image.
//   - error: A processing error if img has no pixels.
//
// # Clustering
//
// Pixels are quantized to 4 bits per channel. Each bin reports the mean of
// the pixels that fell into it rather than the bin corner, so a flat #FF0000
// image yields exactly #FF0000. Bins are ordered by count (ties by bin key)
// and any bin within a small Lab distance of an earlier one is folded into it.
func DominantPalette(img image.Image, maxCount int) ([]Swatch, error) {
	if isEmpty(img) {
		return nil, errs.Processing("dominant_colors", "empty image", nil)
	}
	if maxCount <= 0 {
		maxCount = DefaultDominantColors
	}

	small := sampleImage(img, paletteSampleDim)
	bins := make(map[uint16]*paletteBin)
	total := 0
	for i := 0; i+3 < len(small.Pix); i += 4 {
		r, g, b := small.Pix[i], small.Pix[i+1], small.Pix[i+2]
		key := uint16(r>>4)<<8 | uint16(g>>4)<<4 | uint16(b>>4)
		bin, ok := bins[key]
		if !ok {
			bin = &paletteBin{key: key}
			bins[key] = bin
		}
		bin.count++
		bin.r += float64(r)
		bin.g += float64(g)
		bin.b += float64(b)
		total++
	}

	ordered := make([]*paletteBin, 0, len(bins))
	for _, bin := range bins {
		ordered = append(ordered, bin)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].count != ordered[j].count {
			return ordered[i].count > ordered[j].count
		}
		return ordered[i].key < ordered[j].key
	})

	type cluster struct {
		color colormath.RGB
		lab   colorful.Color
		count int
	}
	var clusters []cluster
	for _, bin := range ordered {
		c := bin.mean()
		lc := c.Colorful()
		folded := false
		for k := range clusters {
			if clusters[k].lab.DistanceLab(lc) < paletteFoldDistance {
				clusters[k].count += bin.count
				folded = true
				break
			}
		}
		if !folded {
			clusters = append(clusters, cluster{color: c, lab: lc, count: bin.count})
		}
	}
	sort.SliceStable(clusters, func(i, j int) bool {
		return clusters[i].count > clusters[j].count
	})

	if len(clusters) > maxCount {
		clusters = clusters[:maxCount]
	}
	out := make([]Swatch, len(clusters))
	for i, c := range clusters {
		out[i] = Swatch{
			Hex:        c.color.Hex(),
			RGB:        c.color,
			Percentage: float64(c.count) / float64(total) * 100,
		}
	}
	return out, nil
}

// DominantColors returns the hex strings of DominantPalette.
func DominantColors(img image.Image, maxCount int) ([]string, error) {
	palette, err := DominantPalette(img, maxCount)
	if err != nil {
		return nil, err
	}
	hexes := make([]string, len(palette))
	for i, s := range palette {
		hexes[i] = s.Hex
	}
	return hexes, nil
}
