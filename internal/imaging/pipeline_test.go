package imaging

import (
	"context"
	"errors"
	"image/color"
	"testing"

	adj "github.com/ironsheep/photo-tools-mcp/internal/adjust"
	errs "github.com/ironsheep/photo-tools-mcp/internal/errors"
)

func TestApplySettings_FilterBeforeAdjustments(t *testing.T) {
	src := createInMemoryImage(16, 16, color.RGBA{200, 90, 40, 255})

	s := adj.New()
	s.SetFilter(adj.FilterMono)
	s.Set(adj.Warmth, 0.6)

	out, err := ApplySettings(context.Background(), s, src)
	if err != nil {
		t.Fatalf("ApplySettings failed: %v", err)
	}
	c := out.NRGBAAt(8, 8)
	if c.R <= c.B {
		t.Errorf("warmth should tint the mono result, got %v", c)
	}
}

func TestApplySettings_Identity(t *testing.T) {
	src := createPatternImage(20, 20)

	out, err := ApplySettings(context.Background(), adj.New(), src)
	if err != nil {
		t.Fatalf("ApplySettings failed: %v", err)
	}
	want := toNRGBA(src)
	for i := range want.Pix {
		if out.Pix[i] != want.Pix[i] {
			t.Fatal("identity settings changed the image")
		}
	}
}

func TestApplySettings_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := adj.New()
	s.Set(adj.Exposure, 0.3)
	_, err := ApplySettings(ctx, s, createInMemoryImage(8, 8, gray(100)))
	if !errs.Is(err, errs.KindProcessing) {
		t.Errorf("expected processing error, got %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error should wrap context.Canceled, got %v", err)
	}
}

func TestGeneratePreview(t *testing.T) {
	src := createPatternImage(400, 200)
	s := adj.New()
	s.Set(adj.Contrast, 0.2)

	out, err := GeneratePreview(context.Background(), src, s, Square(100))
	if err != nil {
		t.Fatalf("GeneratePreview failed: %v", err)
	}
	if out.Rect.Dx() != 100 || out.Rect.Dy() != 50 {
		t.Errorf("got %dx%d, want 100x50", out.Rect.Dx(), out.Rect.Dy())
	}
}

func TestGeneratePreviewFast_AppliesOrientationNotAspect(t *testing.T) {
	src := createPatternImage(60, 30)
	s := adj.New()
	s.UpdateCrop(func(c *adj.Crop) {
		c.RotateLeft()
		c.Aspect = adj.AspectSquare
	})

	out, err := GeneratePreviewFast(context.Background(), src, s)
	if err != nil {
		t.Fatalf("GeneratePreviewFast failed: %v", err)
	}
	if out.Rect.Dx() != 30 || out.Rect.Dy() != 60 {
		t.Errorf("got %dx%d, want 30x60", out.Rect.Dx(), out.Rect.Dy())
	}
}

func TestRenderFinal_AppliesAspect(t *testing.T) {
	src := createPatternImage(200, 100)
	s := adj.New()
	s.UpdateCrop(func(c *adj.Crop) { c.Aspect = adj.AspectSquare })

	out, err := RenderFinal(context.Background(), src, s)
	if err != nil {
		t.Fatalf("RenderFinal failed: %v", err)
	}
	if out.Rect.Dx() != 100 || out.Rect.Dy() != 100 {
		t.Errorf("got %dx%d, want 100x100", out.Rect.Dx(), out.Rect.Dy())
	}
}
