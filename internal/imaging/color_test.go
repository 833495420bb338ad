package imaging

import (
	"image"
	"image/color"
	"testing"

	errs "github.com/ironsheep/photo-tools-mcp/internal/errors"
)

// createInMemoryImage creates an in-memory test image
func createInMemoryImage(width, height int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// createPatternImage creates an image with different colors in each quadrant
func createPatternImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var c color.Color
			if x < width/2 && y < height/2 {
				c = color.RGBA{255, 0, 0, 255} // Red top-left
			} else if x >= width/2 && y < height/2 {
				c = color.RGBA{0, 255, 0, 255} // Green top-right
			} else if x < width/2 && y >= height/2 {
				c = color.RGBA{0, 0, 255, 255} // Blue bottom-left
			} else {
				c = color.RGBA{255, 255, 255, 255} // White bottom-right
			}
			img.Set(x, y, c)
		}
	}
	return img
}

// createStripeImage paints equal vertical stripes in the given colors.
func createStripeImage(width, height int, colors ...color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	stripe := width / len(colors)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := min(x/stripe, len(colors)-1)
			img.Set(x, y, colors[i])
		}
	}
	return img
}

func TestDominantColors(t *testing.T) {
	img := createPatternImage(100, 100)

	colors, err := DominantColors(img, 5)
	if err != nil {
		t.Fatalf("DominantColors failed: %v", err)
	}

	if len(colors) != 4 {
		t.Fatalf("expected 4 colors, got %d: %v", len(colors), colors)
	}
	want := map[string]bool{"#FF0000": true, "#00FF00": true, "#0000FF": true, "#FFFFFF": true}
	for _, c := range colors {
		if !want[c] {
			t.Errorf("unexpected color %s", c)
		}
	}
}

func TestDominantColors_SingleColor(t *testing.T) {
	img := createInMemoryImage(50, 50, color.RGBA{255, 128, 64, 255})

	colors, err := DominantColors(img, 5)
	if err != nil {
		t.Fatalf("DominantColors failed: %v", err)
	}
	if len(colors) != 1 {
		t.Fatalf("expected 1 color, got %d", len(colors))
	}
	if colors[0] != "#FF8040" {
		t.Errorf("got %s, want #FF8040", colors[0])
	}
}

func TestDominantPalette_OrderAndPercentages(t *testing.T) {
	// 3/4 red, 1/4 blue
	img := createStripeImage(100, 40,
		color.RGBA{255, 0, 0, 255}, color.RGBA{255, 0, 0, 255}, color.RGBA{255, 0, 0, 255},
		color.RGBA{0, 0, 255, 255})

	palette, err := DominantPalette(img, 0)
	if err != nil {
		t.Fatalf("DominantPalette failed: %v", err)
	}
	if len(palette) != 2 {
		t.Fatalf("expected 2 swatches, got %d", len(palette))
	}
	if palette[0].Hex != "#FF0000" || palette[1].Hex != "#0000FF" {
		t.Errorf("order: got %s, %s", palette[0].Hex, palette[1].Hex)
	}
	if absFloat(palette[0].Percentage-75) > 0.01 {
		t.Errorf("red percentage: got %.2f, want 75", palette[0].Percentage)
	}
}

func TestDominantPalette_MaxCount(t *testing.T) {
	img := createStripeImage(120, 10,
		color.RGBA{255, 0, 0, 255}, color.RGBA{0, 255, 0, 255}, color.RGBA{0, 0, 255, 255},
		color.RGBA{255, 255, 0, 255}, color.RGBA{0, 0, 0, 255}, color.RGBA{255, 255, 255, 255},
		color.RGBA{255, 0, 255, 255})

	palette, err := DominantPalette(img, 0)
	if err != nil {
		t.Fatalf("DominantPalette failed: %v", err)
	}
	if len(palette) != DefaultDominantColors {
		t.Errorf("default count: got %d, want %d", len(palette), DefaultDominantColors)
	}

	palette, _ = DominantPalette(img, 2)
	if len(palette) != 2 {
		t.Errorf("maxCount 2: got %d swatches", len(palette))
	}
}

func TestDominantPalette_FoldsNearDuplicates(t *testing.T) {
	// Adjacent bins, visually the same red
	img := createStripeImage(100, 10, color.RGBA{250, 10, 10, 255}, color.RGBA{238, 10, 10, 255})

	palette, err := DominantPalette(img, 5)
	if err != nil {
		t.Fatalf("DominantPalette failed: %v", err)
	}
	if len(palette) != 1 {
		t.Fatalf("expected near-identical reds to fold into 1 swatch, got %d", len(palette))
	}
	if absFloat(palette[0].Percentage-100) > 0.01 {
		t.Errorf("folded percentage: got %.2f, want 100", palette[0].Percentage)
	}
}

func TestDominantColors_EmptyImage(t *testing.T) {
	_, err := DominantColors(image.NewRGBA(image.Rect(0, 0, 0, 0)), 5)
	if !errs.Is(err, errs.KindProcessing) {
		t.Errorf("expected processing error, got %v", err)
	}
}

func absFloat(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
