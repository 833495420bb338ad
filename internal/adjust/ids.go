package adjust

import "fmt"

// ID names one of the fixed, independently toggleable adjustments.
//
// The set is closed: IDs() lists every member, and the render engine dispatches
// on it with a single switch. Adding an adjustment means adding a constant here,
// appending it to canonicalOrder and adding one case to the engine switch.
type ID string

// Exposure and tonal adjustments.
const (
	Exposure   ID = "exposure"
	Brightness ID = "brightness"
	Contrast   ID = "contrast"
	Tone       ID = "tone"
	Highlights ID = "highlights"
	Shadows    ID = "shadows"
	BlackPoint ID = "blackPoint"
	Brilliance ID = "brilliance"
)

// Color adjustments.
const (
	Saturation        ID = "saturation"
	NaturalSaturation ID = "naturalSaturation"
	Warmth            ID = "warmth"
	Tint              ID = "tint"
	ColorTemperature  ID = "colorTemperature"
	WhiteBalance      ID = "whiteBalance"
	Hue               ID = "hue"
)

// Detail and texture adjustments.
const (
	Sharpness      ID = "sharpness"
	Texture        ID = "texture"
	Clarity        ID = "clarity"
	Dehaze         ID = "dehaze"
	NoiseReduction ID = "noiseReduction"
)

// Stylistic adjustments.
const (
	Vignette       ID = "vignette"
	Grain          ID = "grain"
	Fade           ID = "fade"
	Curves         ID = "curves"
	LensCorrection ID = "lensCorrection"
	DoubleExposure ID = "doubleExposure"
)

// Group classifies adjustments by the kind of transform they perform.
type Group string

const (
	GroupTonal     Group = "tonal"
	GroupColor     Group = "color"
	GroupDetail    Group = "detail"
	GroupStylistic Group = "stylistic"
)

// canonicalOrder is the order in which active adjustments are composited.
// It must stay stable: renders are only reproducible if the order is fixed.
var canonicalOrder = []ID{
	Exposure, Brightness, Contrast, Tone, Highlights, Shadows, BlackPoint, Brilliance,
	Saturation, NaturalSaturation, Warmth, Tint, ColorTemperature, WhiteBalance, Hue,
	Sharpness, Texture, Clarity, Dehaze, NoiseReduction,
	Vignette, Grain, Fade, Curves, LensCorrection, DoubleExposure,
}

var groups = map[ID]Group{
	Exposure: GroupTonal, Brightness: GroupTonal, Contrast: GroupTonal, Tone: GroupTonal,
	Highlights: GroupTonal, Shadows: GroupTonal, BlackPoint: GroupTonal, Brilliance: GroupTonal,

	Saturation: GroupColor, NaturalSaturation: GroupColor, Warmth: GroupColor, Tint: GroupColor,
	ColorTemperature: GroupColor, WhiteBalance: GroupColor, Hue: GroupColor,

	Sharpness: GroupDetail, Texture: GroupDetail, Clarity: GroupDetail, Dehaze: GroupDetail,
	NoiseReduction: GroupDetail,

	Vignette: GroupStylistic, Grain: GroupStylistic, Fade: GroupStylistic, Curves: GroupStylistic,
	LensCorrection: GroupStylistic, DoubleExposure: GroupStylistic,
}

// IDs returns every adjustment identifier in canonical composite order.
func IDs() []ID {
	out := make([]ID, len(canonicalOrder))
	copy(out, canonicalOrder)
	return out
}

// ParseID converts a persisted key to an ID.
func ParseID(s string) (ID, error) {
	id := ID(s)
	if _, ok := groups[id]; !ok {
		return "", fmt.Errorf("unknown adjustment %q", s)
	}
	return id, nil
}

// Valid reports whether id is one of the fixed identifiers.
func (id ID) Valid() bool {
	_, ok := groups[id]
	return ok
}

// Group returns the group id belongs to, or "" for an unknown id.
func (id ID) Group() Group {
	return groups[id]
}

// Bidirectional reports whether negative values reverse the effect.
// noiseReduction and grain only have a magnitude.
func (id ID) Bidirectional() bool {
	switch id {
	case NoiseReduction, Grain:
		return false
	default:
		return id.Valid()
	}
}
