package detection

import (
	"image"
	"image/color"
	"math"
	"testing"
)

// createTestImage creates an image filled with a single color
func createTestImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// createHorizonImage paints sky above and sea below a line through the
// center tilted by tiltDeg (positive falls toward the right).
func createHorizonImage(width, height int, tiltDeg float64) *image.RGBA {
	sky := color.RGBA{135, 190, 240, 255}
	sea := color.RGBA{20, 50, 90, 255}
	img := createTestImage(width, height, sky)
	slope := math.Tan(tiltDeg * math.Pi / 180)
	for x := 0; x < width; x++ {
		lineY := float64(height)/2 + slope*(float64(x)-float64(width)/2)
		for y := 0; y < height; y++ {
			if float64(y) >= lineY {
				img.Set(x, y, sea)
			}
		}
	}
	return img
}

func TestDetectHorizon_Level(t *testing.T) {
	img := createHorizonImage(200, 150, 0)

	h := DetectHorizon(img, 15)
	if !h.Found {
		t.Fatal("expected a horizon")
	}
	if math.Abs(h.TiltDegrees) > 0.5 {
		t.Errorf("TiltDegrees: got %v, want ~0", h.TiltDegrees)
	}
	if h.Start.X > 5 || h.End.X < 194 {
		t.Errorf("extent: got %v-%v, want near full width", h.Start, h.End)
	}
}

func TestDetectHorizon_Tilted(t *testing.T) {
	tests := []struct {
		name string
		tilt float64
	}{
		{"falls right", 5},
		{"rises right", -8},
		{"slight", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := createHorizonImage(240, 180, tt.tilt)
			h := DetectHorizon(img, 15)
			if !h.Found {
				t.Fatal("expected a horizon")
			}
			if math.Abs(h.TiltDegrees-tt.tilt) > 0.75 {
				t.Errorf("TiltDegrees: got %v, want ~%v", h.TiltDegrees, tt.tilt)
			}
			if h.Correction != h.TiltDegrees {
				t.Errorf("Correction %v should level tilt %v", h.Correction, h.TiltDegrees)
			}
			if h.Confidence <= 0 || h.Confidence > 1 {
				t.Errorf("Confidence out of range: %v", h.Confidence)
			}
		})
	}
}

func TestDetectHorizon_NoLine(t *testing.T) {
	img := createTestImage(120, 80, color.RGBA{128, 128, 128, 255})

	h := DetectHorizon(img, 10)
	if h.Found {
		t.Errorf("expected no horizon in a flat image, got %+v", h)
	}
}

func TestDetectHorizon_IgnoresVerticalLines(t *testing.T) {
	img := createTestImage(120, 120, color.White)
	for y := 0; y < 120; y++ {
		img.Set(60, y, color.Black)
	}

	h := DetectHorizon(img, 10)
	if h.Found {
		t.Errorf("vertical line should not count as a horizon, got tilt %v", h.TiltDegrees)
	}
}

func TestDetectHorizon_Empty(t *testing.T) {
	h := DetectHorizon(image.NewRGBA(image.Rect(0, 0, 0, 0)), 10)
	if h.Found {
		t.Error("empty image should not have a horizon")
	}
	if h := DetectHorizon(nil, 10); h.Found {
		t.Error("nil image should not have a horizon")
	}
}

func TestDetectHorizon_LargeImageScalesPoints(t *testing.T) {
	img := createHorizonImage(800, 400, 0)

	h := DetectHorizon(img, 10)
	if !h.Found {
		t.Fatal("expected a horizon")
	}
	if h.End.X < 780 {
		t.Errorf("End.X should be in source coordinates, got %d", h.End.X)
	}
	if math.Abs(float64(h.Start.Y)-200) > 6 {
		t.Errorf("Start.Y: got %d, want ~200", h.Start.Y)
	}
}

func TestGrayValue(t *testing.T) {
	tests := []struct {
		name string
		c    color.Color
		want uint8
	}{
		{"white", color.White, 254},
		{"black", color.Black, 0},
		{"red", color.RGBA{255, 0, 0, 255}, 76},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := createTestImage(1, 1, tt.c)
			got := grayValue(img, 0, 0)
			if diff := int(got) - int(tt.want); diff < -1 || diff > 1 {
				t.Errorf("grayValue: got %d, want ~%d", got, tt.want)
			}
		})
	}
}
