package imaging

import (
	"image"
	"testing"

	adj "github.com/ironsheep/photo-tools-mcp/internal/adjust"
	errs "github.com/ironsheep/photo-tools-mcp/internal/errors"
)

func TestCropGuides(t *testing.T) {
	src := createInMemoryImage(300, 100, gray(200))

	out, frame, err := CropGuides(src, adj.AspectSquare, "#FF0000")
	if err != nil {
		t.Fatalf("CropGuides failed: %v", err)
	}
	if frame != image.Rect(100, 0, 200, 100) {
		t.Fatalf("frame: got %v, want (100,0)-(200,100)", frame)
	}

	if c := out.NRGBAAt(10, 50); c.R >= 200 {
		t.Errorf("outside the frame should be darkened, got %v", c)
	}
	if c := out.NRGBAAt(110, 10); c.R != 200 || c.G != 200 {
		t.Errorf("inside the frame should be untouched, got %v", c)
	}
	// First vertical thirds line at x = 100 + 100/3
	if c := out.NRGBAAt(133, 10); c.R <= c.G {
		t.Errorf("thirds line should be tinted red, got %v", c)
	}
	if c := out.NRGBAAt(110, 33); c.R <= c.G {
		t.Errorf("horizontal thirds line should be tinted red, got %v", c)
	}
}

func TestCropGuides_NoAspectFramesWholeImage(t *testing.T) {
	src := createInMemoryImage(90, 60, gray(100))

	out, frame, err := CropGuides(src, adj.AspectNone, "")
	if err != nil {
		t.Fatalf("CropGuides failed: %v", err)
	}
	if frame != image.Rect(0, 0, 90, 60) {
		t.Errorf("frame: got %v", frame)
	}
	if c := out.NRGBAAt(30, 5); c.R <= 100 {
		t.Errorf("default white line should lighten the pixel, got %v", c)
	}
	if c := out.NRGBAAt(0, 0); c.R != 100 {
		t.Errorf("corner should be untouched, got %v", c)
	}
}

func TestCropGuides_Errors(t *testing.T) {
	if _, _, err := CropGuides(createInMemoryImage(10, 10, gray(1)), adj.AspectNone, "#FFF"); !errs.Is(err, errs.KindInvalidColorFormat) {
		t.Errorf("bad color: got %v", err)
	}
	if _, _, err := CropGuides(image.NewRGBA(image.Rect(0, 0, 0, 0)), adj.AspectNone, ""); !errs.Is(err, errs.KindProcessing) {
		t.Errorf("empty image: got %v", err)
	}
}
