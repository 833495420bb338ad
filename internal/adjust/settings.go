// Package adjust holds the editing state applied to a photo: the scalar
// adjustments, the selected filter and the crop geometry.
//
// Settings is a value type: a plain copy is independent of the original, since
// the adjustment map is never written in place. Every stored scalar lies in
// [-1, 1]; setters clamp out-of-range input instead of rejecting it, so there is
// no range error. Absence of an adjustment ("not applied") is distinct from a
// stored zero.
//
// Settings itself is not synchronized. Renders running on other goroutines work
// on a Clone taken when the render was issued.
package adjust

import "math"

// Settings is the active editing state for a session.
type Settings struct {
	values map[ID]float64
	filter Filter
	crop   Crop
}

// New returns empty settings: no adjustments, no filter, zero crop.
func New() Settings {
	return Settings{}
}

// Clamp restricts v to [-1, 1]. NaN becomes 0.
func Clamp(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(-1, math.Min(1, v))
}

// Set stores the clamped value for id. Unknown ids are ignored.
func (s *Settings) Set(id ID, v float64) {
	if !id.Valid() {
		return
	}
	values := s.copyValues(len(s.values) + 1)
	values[id] = Clamp(v)
	s.values = values
}

// copyValues returns a fresh copy of the adjustment map. Writers replace the
// map instead of mutating it so copies of Settings never share writes.
func (s Settings) copyValues(size int) map[ID]float64 {
	out := make(map[ID]float64, size)
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// SetOptional stores *v for id, or resets id when v is nil.
func (s *Settings) SetOptional(id ID, v *float64) {
	if v == nil {
		s.Reset(id)
		return
	}
	s.Set(id, *v)
}

// Value returns the stored value for id and whether it is present.
func (s Settings) Value(id ID) (float64, bool) {
	v, ok := s.values[id]
	return v, ok
}

// Has reports whether id is present.
func (s Settings) Has(id ID) bool {
	_, ok := s.values[id]
	return ok
}

// Active returns the present adjustments in canonical composite order.
func (s Settings) Active() []ID {
	out := make([]ID, 0, len(s.values))
	for _, id := range canonicalOrder {
		if _, ok := s.values[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// Reset removes id; its value becomes absent, not zero.
func (s *Settings) Reset(id ID) {
	if !s.Has(id) {
		return
	}
	values := s.copyValues(len(s.values))
	delete(values, id)
	if len(values) == 0 {
		values = nil
	}
	s.values = values
}

// ResetAll clears every adjustment and the filter. Crop is left untouched.
func (s *Settings) ResetAll() {
	s.values = nil
	s.filter = FilterNone
}

// Filter returns the selected preset.
func (s Settings) Filter() Filter {
	return s.filter
}

// SetFilter selects a preset; FilterNone clears it. Unknown names are ignored.
func (s *Settings) SetFilter(f Filter) {
	if !f.Valid() {
		return
	}
	s.filter = f
}

// Crop returns the crop state.
func (s Settings) Crop() Crop {
	return s.crop
}

// SetCrop replaces the crop state, normalizing its fields.
func (s *Settings) SetCrop(c Crop) {
	c.QuarterTurns = ((c.QuarterTurns % 4) + 4) % 4
	c.SetFreeRotation(c.FreeRotation)
	if _, err := ParseAspectRatio(string(c.Aspect)); err != nil {
		c.Aspect = AspectNone
	}
	s.crop = c
}

// UpdateCrop applies fn to the crop state.
func (s *Settings) UpdateCrop(fn func(*Crop)) {
	c := s.crop
	fn(&c)
	s.SetCrop(c)
}

// ResetCrop restores the zero crop.
func (s *Settings) ResetCrop() {
	s.crop = Crop{}
}

// Clone returns a deep copy safe to hand to another goroutine.
func (s Settings) Clone() Settings {
	out := Settings{filter: s.filter, crop: s.crop}
	if len(s.values) > 0 {
		out.values = s.copyValues(len(s.values))
	}
	return out
}

// Equal reports whether two settings hold the same state.
func (s Settings) Equal(o Settings) bool {
	if s.filter != o.filter || s.crop != o.crop || len(s.values) != len(o.values) {
		return false
	}
	for k, v := range s.values {
		ov, ok := o.values[k]
		if !ok || ov != v {
			return false
		}
	}
	return true
}

// IsIdentity reports whether rendering would leave pixels unchanged.
// Present adjustments with value 0 are no-ops.
func (s Settings) IsIdentity() bool {
	if s.filter != FilterNone || !s.crop.IsZero() {
		return false
	}
	for _, v := range s.values {
		if v != 0 {
			return false
		}
	}
	return true
}
