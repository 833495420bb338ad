package imaging

import (
	"image"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// SceneType is a sky-scene category.
type SceneType string

const (
	SceneClear   SceneType = "clear"
	SceneCloudy  SceneType = "cloudy"
	SceneSunset  SceneType = "sunset"
	SceneSunrise SceneType = "sunrise"
	SceneNight   SceneType = "night"
	SceneStorm   SceneType = "storm"
	SceneRainbow SceneType = "rainbow"
	SceneSnow    SceneType = "snow"
)

// SceneTypes lists every category ClassifySceneType can return.
func SceneTypes() []SceneType {
	return []SceneType{SceneClear, SceneCloudy, SceneSunset, SceneSunrise, SceneNight, SceneStorm, SceneRainbow, SceneSnow}
}

// SceneFeatures are the measurements scene classification is based on. All
// fractions are shares of sampled pixels in [0, 1].
type SceneFeatures struct {
	MeanLuminance  float64 `json:"mean_luminance"`
	MeanSaturation float64 `json:"mean_saturation"`
	Warm           float64 `json:"warm"`
	Blue           float64 `json:"blue"`
	Gray           float64 `json:"gray"`
	White          float64 `json:"white"`
	// HueSectors counts distinct 60° hue sectors among the saturated
	// dominant colors.
	HueSectors  int     `json:"hue_sectors"`
	EdgeDensity float64 `json:"edge_density"`
}

const sceneSampleDim = 128

// MeasureScene computes SceneFeatures for img. An empty image yields zero features.
func MeasureScene(img image.Image) SceneFeatures {
	var f SceneFeatures
	if isEmpty(img) {
		return f
	}

	small := sampleImage(img, sceneSampleDim)
	var n float64
	for i := 0; i+3 < len(small.Pix); i += 4 {
		r := float64(small.Pix[i]) / 255
		g := float64(small.Pix[i+1]) / 255
		b := float64(small.Pix[i+2]) / 255
		l := luma(r, g, b)
		chroma := math.Max(r, math.Max(g, b)) - math.Min(r, math.Min(g, b))
		h, s, _ := colorful.Color{R: r, G: g, B: b}.Hsl()

		f.MeanLuminance += l
		f.MeanSaturation += s
		switch {
		case l > 0.8 && chroma < 0.15:
			f.White++
		case chroma < 0.12 && l >= 0.15:
			f.Gray++
		case chroma >= 0.15 && (h < 60 || h >= 300):
			f.Warm++
		case chroma >= 0.12 && h >= 180 && h < 260:
			f.Blue++
		}
		n++
	}
	f.MeanLuminance /= n
	f.MeanSaturation /= n
	f.Warm /= n
	f.Blue /= n
	f.Gray /= n
	f.White /= n

	f.HueSectors = hueSectors(small)
	f.EdgeDensity = EdgeDensity(small)
	return f
}

func hueSectors(img image.Image) int {
	palette, err := DominantPalette(img, 12)
	if err != nil {
		return 0
	}
	var seen [6]bool
	count := 0
	for _, sw := range palette {
		if sw.Percentage < 3 {
			continue
		}
		h, s, l := sw.RGB.Colorful().Hsl()
		if s < 0.35 || l < 0.15 || l > 0.9 {
			continue
		}
		sector := int(h/60) % 6
		if !seen[sector] {
			seen[sector] = true
			count++
		}
	}
	return count
}

// ClassifySceneType maps img to exactly one SceneType. It never fails; an
// empty or ambiguous image is SceneClear.
func ClassifySceneType(img image.Image) SceneType {
	if isEmpty(img) {
		return SceneClear
	}
	return classify(MeasureScene(img))
}

// classify applies the rules in priority order.
func classify(f SceneFeatures) SceneType {
	switch {
	case f.MeanLuminance < 0.18:
		return SceneNight
	case f.HueSectors >= 5:
		return SceneRainbow
	case f.White > 0.5 && f.MeanLuminance > 0.7:
		return SceneSnow
	case f.Warm > 0.3:
		if f.Blue > 0.1 {
			return SceneSunrise
		}
		return SceneSunset
	case f.Gray > 0.4 && f.MeanLuminance < 0.45:
		return SceneStorm
	case f.Gray+f.White > 0.5:
		return SceneCloudy
	case f.Blue > 0.25 && f.EdgeDensity > 0.15:
		return SceneCloudy
	case f.Blue > 0.25:
		return SceneClear
	}
	return SceneClear
}
