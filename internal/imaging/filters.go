package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/blend"
	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"

	adj "github.com/ironsheep/photo-tools-mcp/internal/adjust"
	errs "github.com/ironsheep/photo-tools-mcp/internal/errors"
)

// step is one stage of a filter recipe.
type step func(image.Image) (*image.NRGBA, error)

func set(id adj.ID, v float64) step {
	return func(img image.Image) (*image.NRGBA, error) {
		return ApplyAdjustment(id, v, img)
	}
}

func grayscale(img image.Image) (*image.NRGBA, error) {
	return imaging.Grayscale(img), nil
}

// sepia tones the image and mixes it over the original at the given opacity.
func sepia(opacity float64) step {
	return func(img image.Image) (*image.NRGBA, error) {
		toned := effect.Sepia(img)
		return toNRGBA(blend.Opacity(img, toned, opacity)), nil
	}
}

// recipe returns the ordered steps for f. Every preset has at least two.
func recipe(f adj.Filter) []step {
	vivid := []step{set(adj.Saturation, 0.35), set(adj.Contrast, 0.15)}
	dramatic := []step{set(adj.Contrast, 0.35), set(adj.Highlights, -0.25), set(adj.Saturation, -0.15)}

	switch f {
	case adj.FilterVivid:
		return vivid
	case adj.FilterVividWarm:
		return append(vivid, set(adj.Warmth, 0.25))
	case adj.FilterVividCool:
		return append(vivid, set(adj.Warmth, -0.25))
	case adj.FilterDramatic:
		return dramatic
	case adj.FilterDramaticWarm:
		return append(dramatic, set(adj.Warmth, 0.2))
	case adj.FilterDramaticCool:
		return append(dramatic, set(adj.Warmth, -0.2))
	case adj.FilterMono:
		return []step{grayscale, set(adj.Contrast, 0.1)}
	case adj.FilterSilvertone:
		return []step{grayscale, set(adj.Brightness, 0.1), set(adj.Contrast, 0.25)}
	case adj.FilterNoir:
		return []step{grayscale, set(adj.Contrast, 0.6), set(adj.Vignette, 0.3)}
	case adj.FilterVintage:
		return []step{sepia(0.6), set(adj.Fade, 0.4), set(adj.Grain, 0.2), set(adj.Vignette, 0.25)}
	}
	return nil
}

// ApplyFilter runs the preset recipe for f over img. FilterNone returns a copy.
func ApplyFilter(f adj.Filter, img image.Image) (*image.NRGBA, error) {
	if isEmpty(img) {
		return nil, errs.Processing("filter", "empty image", nil)
	}
	if f == adj.FilterNone {
		return toNRGBA(img), nil
	}

	steps := recipe(f)
	if steps == nil {
		return nil, errs.Processing("filter", "unknown filter "+string(f), nil)
	}

	out := toNRGBA(img)
	for _, s := range steps {
		next, err := s(out)
		if err != nil {
			return nil, err
		}
		out = next
	}
	return out, nil
}
