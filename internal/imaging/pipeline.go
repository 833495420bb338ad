package imaging

import (
	"context"
	"image"

	adj "github.com/ironsheep/photo-tools-mcp/internal/adjust"
	errs "github.com/ironsheep/photo-tools-mcp/internal/errors"
)

// ApplySettings applies the filter, then every active adjustment in canonical
// order. ctx is checked before each step; a cancelled render returns a
// processing error wrapping ctx.Err().
func ApplySettings(ctx context.Context, s adj.Settings, img image.Image) (*image.NRGBA, error) {
	if isEmpty(img) {
		return nil, errs.Processing("render", "empty image", nil)
	}
	if err := ctx.Err(); err != nil {
		return nil, errs.Processing("render", "cancelled", err)
	}

	out := toNRGBA(img)
	if f := s.Filter(); f != adj.FilterNone {
		next, err := ApplyFilter(f, out)
		if err != nil {
			return nil, err
		}
		out = next
	}

	for _, id := range s.Active() {
		if err := ctx.Err(); err != nil {
			return nil, errs.Processing("render", "cancelled", err)
		}
		v, _ := s.Value(id)
		next, err := ApplyAdjustment(id, v, out)
		if err != nil {
			return nil, err
		}
		out = next
	}
	return out, nil
}

// GeneratePreview downsamples img to fit limit, then renders the settings and
// orientation onto it. The aspect crop is left to the final render.
func GeneratePreview(ctx context.Context, img image.Image, s adj.Settings, limit Size) (*image.NRGBA, error) {
	small, err := Resize(img, limit)
	if err != nil {
		return nil, err
	}
	return GeneratePreviewFast(ctx, small, s)
}

// GeneratePreviewFast renders onto an already downsampled buffer. It is the
// realtime path used while a slider is dragged.
func GeneratePreviewFast(ctx context.Context, lowRes image.Image, s adj.Settings) (*image.NRGBA, error) {
	out, err := ApplySettings(ctx, s, lowRes)
	if err != nil {
		return nil, err
	}
	if c := s.Crop(); !c.IsZero() {
		out = ApplyOrientation(c, out)
	}
	return out, nil
}

// RenderFinal renders the settings and full geometry at source resolution.
func RenderFinal(ctx context.Context, img image.Image, s adj.Settings) (*image.NRGBA, error) {
	out, err := ApplySettings(ctx, s, img)
	if err != nil {
		return nil, err
	}
	if c := s.Crop(); !c.IsZero() {
		out = ApplyGeometry(c, out)
	}
	return out, nil
}
