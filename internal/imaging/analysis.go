package imaging

import (
	"image"

	errs "github.com/ironsheep/photo-tools-mcp/internal/errors"
)

// Analysis is the combined color and capture report handed to tagging.
type Analysis struct {
	Width            int             `json:"width"`
	Height           int             `json:"height"`
	DominantColors   []Swatch        `json:"dominant_colors"`
	ColorTemperature int             `json:"color_temperature_k"`
	Scene            SceneType       `json:"scene"`
	Features         SceneFeatures   `json:"features"`
	Metadata         CaptureMetadata `json:"metadata"`
	TimeOfDay        TimeOfDay       `json:"time_of_day"`
}

// Analyze runs every analysis pass over img. raw is the encoded file the
// image was decoded from and may be nil, in which case the metadata record
// is empty. maxColors <= 0 selects DefaultDominantColors.
func Analyze(img image.Image, raw []byte, maxColors int) (*Analysis, error) {
	if isEmpty(img) {
		return nil, errs.Processing("analyze", "empty image", nil)
	}
	palette, err := DominantPalette(img, maxColors)
	if err != nil {
		return nil, err
	}
	features := MeasureScene(img)
	md := ExtractCaptureMetadata(raw)

	b := img.Bounds()
	return &Analysis{
		Width:            b.Dx(),
		Height:           b.Dy(),
		DominantColors:   palette,
		ColorTemperature: EstimateColorTemperature(img),
		Scene:            classify(features),
		Features:         features,
		Metadata:         md,
		TimeOfDay:        TimeOfDayOf(md.CapturedAt),
	}, nil
}
