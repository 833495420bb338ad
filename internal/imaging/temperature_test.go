package imaging

import (
	"image"
	"image/color"
	"testing"
)

func TestEstimateColorTemperature(t *testing.T) {
	tests := []struct {
		name     string
		color    color.RGBA
		min, max int
	}{
		{"red is warm", color.RGBA{255, 0, 0, 255}, MinColorTemperature, 4000},
		{"amber is warm", color.RGBA{255, 160, 60, 255}, MinColorTemperature, 5000},
		{"white is neutral", color.RGBA{255, 255, 255, 255}, 6400, 6600},
		{"blue is cool", color.RGBA{0, 0, 255, 255}, 8000, MaxColorTemperature},
		{"black is neutral", color.RGBA{0, 0, 0, 255}, 6400, 6600},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := EstimateColorTemperature(createInMemoryImage(40, 40, tt.color))
			if k < tt.min || k > tt.max {
				t.Errorf("got %dK, want in [%d, %d]", k, tt.min, tt.max)
			}
		})
	}
}

func TestEstimateColorTemperature_Ordering(t *testing.T) {
	warm := EstimateColorTemperature(createInMemoryImage(20, 20, color.RGBA{230, 170, 120, 255}))
	cool := EstimateColorTemperature(createInMemoryImage(20, 20, color.RGBA{150, 180, 230, 255}))
	if warm >= cool {
		t.Errorf("warm image %dK should score below cool image %dK", warm, cool)
	}
}

func TestEstimateColorTemperature_Empty(t *testing.T) {
	if k := EstimateColorTemperature(image.NewRGBA(image.Rect(0, 0, 0, 0))); k != NeutralColorTemperature {
		t.Errorf("empty image: got %d, want %d", k, NeutralColorTemperature)
	}
}
