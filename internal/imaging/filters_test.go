package imaging

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	adj "github.com/ironsheep/photo-tools-mcp/internal/adjust"
	errs "github.com/ironsheep/photo-tools-mcp/internal/errors"
)

// createGradientImage ramps red across and green down over a mid blue.
func createGradientImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{uint8(x * 255 / width), uint8(y * 255 / height), 128, 255})
		}
	}
	return img
}

func TestRecipe_EveryFilterHasSteps(t *testing.T) {
	for _, f := range adj.Filters() {
		if f == adj.FilterNone {
			continue
		}
		if n := len(recipe(f)); n < 2 {
			t.Errorf("%s: got %d steps, want at least 2", f, n)
		}
	}
}

func TestApplyFilter_Deterministic(t *testing.T) {
	src := createGradientImage(48, 32)

	for _, f := range adj.Filters() {
		t.Run(string(f), func(t *testing.T) {
			a, err := ApplyFilter(f, src)
			if err != nil {
				t.Fatalf("ApplyFilter failed: %v", err)
			}
			b, err := ApplyFilter(f, src)
			if err != nil {
				t.Fatalf("ApplyFilter failed: %v", err)
			}
			if !bytes.Equal(a.Pix, b.Pix) {
				t.Error("same input produced different pixels")
			}
			if f != adj.FilterNone && bytes.Equal(a.Pix, toNRGBA(src).Pix) {
				t.Error("filter left the image unchanged")
			}
		})
	}
}

func TestApplyFilter_MonochromeFamilies(t *testing.T) {
	src := createInMemoryImage(16, 16, color.RGBA{200, 90, 40, 255})

	for _, f := range []adj.Filter{adj.FilterMono, adj.FilterSilvertone, adj.FilterNoir} {
		out, err := ApplyFilter(f, src)
		if err != nil {
			t.Fatalf("%s: %v", f, err)
		}
		c := out.NRGBAAt(8, 8)
		if c.R != c.G || c.G != c.B {
			t.Errorf("%s: got %v, want neutral gray", f, c)
		}
	}
}

func TestApplyFilter_WarmAndCoolVariants(t *testing.T) {
	src := createInMemoryImage(16, 16, gray(128))

	warm, _ := ApplyFilter(adj.FilterVividWarm, src)
	cool, _ := ApplyFilter(adj.FilterVividCool, src)
	w, c := warm.NRGBAAt(8, 8), cool.NRGBAAt(8, 8)
	if w.R <= c.R || w.B >= c.B {
		t.Errorf("warm %v should be redder and less blue than cool %v", w, c)
	}
}

func TestApplyFilter_Vintage(t *testing.T) {
	src := createInMemoryImage(32, 32, gray(128))

	out, _ := ApplyFilter(adj.FilterVintage, src)
	c := out.NRGBAAt(16, 16)
	if c.R <= c.B {
		t.Errorf("vintage should tone toward sepia, got %v", c)
	}
}

func TestApplyFilter_NoneIsCopy(t *testing.T) {
	src := createPatternImage(10, 10)

	out, err := ApplyFilter(adj.FilterNone, src)
	if err != nil {
		t.Fatalf("ApplyFilter failed: %v", err)
	}
	if !bytes.Equal(out.Pix, toNRGBA(src).Pix) {
		t.Error("FilterNone should return an identical copy")
	}
}

func TestApplyFilter_Errors(t *testing.T) {
	if _, err := ApplyFilter("sepia", createInMemoryImage(4, 4, gray(9))); !errs.Is(err, errs.KindProcessing) {
		t.Errorf("unknown filter: got %v", err)
	}
	if _, err := ApplyFilter(adj.FilterNoir, image.NewRGBA(image.Rect(0, 0, 0, 0))); !errs.Is(err, errs.KindProcessing) {
		t.Errorf("empty image: got %v", err)
	}
}
