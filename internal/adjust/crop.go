package adjust

import (
	"fmt"
	"math"
)

const (
	// MaxFreeRotation bounds the straighten angle in degrees. The range is
	// [-MaxFreeRotation, MaxFreeRotation) so every combined rotation has one
	// split into quarter turns and a free angle.
	MaxFreeRotation = 45.0

	// FreeRotationStep is the resolution of the straighten angle. A power-of-two
	// fraction keeps QuarterTurns*90 + FreeRotation exact in float64.
	FreeRotationStep = 1.0 / 256
)

// AspectRatio is an optional fixed crop aspect constraint.
type AspectRatio string

const (
	AspectNone     AspectRatio = ""
	AspectOriginal AspectRatio = "original"
	AspectSquare   AspectRatio = "square"
	Aspect4x3      AspectRatio = "4:3"
	Aspect3x4      AspectRatio = "3:4"
	Aspect3x2      AspectRatio = "3:2"
	Aspect2x3      AspectRatio = "2:3"
	Aspect16x9     AspectRatio = "16:9"
	Aspect9x16     AspectRatio = "9:16"
	Aspect4x5      AspectRatio = "4:5"
)

var aspectRatios = map[AspectRatio]float64{
	AspectSquare: 1,
	Aspect4x3:    4.0 / 3.0,
	Aspect3x4:    3.0 / 4.0,
	Aspect3x2:    3.0 / 2.0,
	Aspect2x3:    2.0 / 3.0,
	Aspect16x9:   16.0 / 9.0,
	Aspect9x16:   9.0 / 16.0,
	Aspect4x5:    4.0 / 5.0,
}

// AspectRatios returns the named constraints, original first.
func AspectRatios() []AspectRatio {
	return []AspectRatio{
		AspectOriginal, AspectSquare,
		Aspect4x3, Aspect3x4, Aspect3x2, Aspect2x3,
		Aspect16x9, Aspect9x16, Aspect4x5,
	}
}

// ParseAspectRatio converts a persisted aspect name. The empty string is AspectNone.
func ParseAspectRatio(s string) (AspectRatio, error) {
	a := AspectRatio(s)
	if a == AspectNone || a == AspectOriginal {
		return a, nil
	}
	if _, ok := aspectRatios[a]; ok {
		return a, nil
	}
	return AspectNone, fmt.Errorf("unknown aspect ratio %q", s)
}

// Ratio returns width/height for the constraint. original resolves to the
// supplied source ratio; AspectNone reports false.
func (a AspectRatio) Ratio(original float64) (float64, bool) {
	switch a {
	case AspectNone:
		return 0, false
	case AspectOriginal:
		return original, original > 0
	}
	r, ok := aspectRatios[a]
	return r, ok
}

// Crop holds rotation, flip and aspect state. The zero value is "no crop".
type Crop struct {
	// QuarterTurns counts counter-clockwise 90° steps, always in 0..3.
	QuarterTurns int
	// FreeRotation is the straighten angle in degrees, a multiple of
	// FreeRotationStep in [-MaxFreeRotation, MaxFreeRotation).
	FreeRotation   float64
	FlipHorizontal bool
	FlipVertical   bool
	Aspect         AspectRatio
}

// Rotation returns the combined rotation in degrees.
func (c Crop) Rotation() float64 {
	return float64(c.QuarterTurns*90) + c.FreeRotation
}

// IsZero reports whether the crop leaves geometry untouched.
func (c Crop) IsZero() bool {
	return c == Crop{}
}

// RotateLeft steps the rotation 90° counter-clockwise.
func (c *Crop) RotateLeft() {
	c.QuarterTurns = (c.QuarterTurns + 1) % 4
}

// RotateRight steps the rotation 90° clockwise.
func (c *Crop) RotateRight() {
	c.QuarterTurns = (c.QuarterTurns + 3) % 4
}

// SetFreeRotation sets the straighten angle, rounded to FreeRotationStep and
// clamped to [-MaxFreeRotation, MaxFreeRotation). Requests of +45° or more
// land one step below 45°.
func (c *Crop) SetFreeRotation(deg float64) {
	if math.IsNaN(deg) {
		deg = 0
	}
	deg = quantizeRotation(deg)
	c.FreeRotation = math.Max(-MaxFreeRotation, math.Min(MaxFreeRotation-FreeRotationStep, deg))
}

func quantizeRotation(deg float64) float64 {
	return math.Round(deg/FreeRotationStep) * FreeRotationStep
}

// cropFromRotation splits a combined angle into quarter turns plus a free
// angle in [-MaxFreeRotation, MaxFreeRotation). It inverts Crop.Rotation.
func cropFromRotation(deg float64) (int, float64) {
	if math.IsNaN(deg) || math.IsInf(deg, 0) {
		return 0, 0
	}
	deg = quantizeRotation(deg)
	if deg < -MaxFreeRotation || deg >= 360-MaxFreeRotation {
		deg = math.Mod(deg, 360)
		if deg < -MaxFreeRotation {
			deg += 360
		}
		if deg >= 360-MaxFreeRotation {
			deg -= 360
		}
	}
	turns := int(math.Floor((deg + MaxFreeRotation) / 90))
	free := deg - float64(turns*90)
	return turns, free
}
