package adjust

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/ironsheep/photo-tools-mcp/internal/errors"
)

func ptr(v float64) *float64 { return &v }

func TestIDs_Complete(t *testing.T) {
	ids := IDs()
	require.Len(t, ids, 26)

	seen := make(map[ID]bool)
	for _, id := range ids {
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
		assert.NotEmpty(t, id.Group(), "id %s has no group", id)

		parsed, err := ParseID(string(id))
		require.NoError(t, err)
		assert.Equal(t, id, parsed)
	}

	counts := map[Group]int{}
	for _, id := range ids {
		counts[id.Group()]++
	}
	assert.Equal(t, map[Group]int{GroupTonal: 8, GroupColor: 7, GroupDetail: 5, GroupStylistic: 6}, counts)
}

func TestParseID_Unknown(t *testing.T) {
	_, err := ParseID("sepia")
	assert.Error(t, err)
	assert.False(t, ID("").Valid())
}

func TestSettings_SetThenRead(t *testing.T) {
	for _, id := range IDs() {
		t.Run(string(id), func(t *testing.T) {
			var s Settings
			s.Set(id, 0.37)
			v, ok := s.Value(id)
			require.True(t, ok)
			assert.Equal(t, 0.37, v)

			s.SetOptional(id, nil)
			_, ok = s.Value(id)
			assert.False(t, ok)
		})
	}
}

func TestSettings_Clamp(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{2.0, 1.0},
		{-3.5, -1.0},
		{1.0, 1.0},
		{-1.0, -1.0},
		{0.25, 0.25},
		{math.Inf(1), 1.0},
		{math.NaN(), 0},
	}
	for _, tt := range tests {
		var s Settings
		s.Set(Contrast, tt.in)
		v, _ := s.Value(Contrast)
		assert.Equal(t, tt.want, v, "input %v", tt.in)
	}
}

func TestSettings_BrightnessClampThenNil(t *testing.T) {
	var s Settings
	s.SetOptional(Brightness, ptr(2.0))

	v, ok := s.Value(Brightness)
	require.True(t, ok)
	assert.Equal(t, 1.0, v)

	s.SetOptional(Brightness, nil)
	_, ok = s.Value(Brightness)
	assert.False(t, ok, "reset must make the value absent, not zero")
	assert.False(t, s.Has(Brightness))
}

func TestSettings_UnknownIgnored(t *testing.T) {
	var s Settings
	s.Set(ID("bogus"), 0.5)
	assert.Empty(t, s.Active())
	s.SetFilter(Filter("sparkle"))
	assert.Equal(t, FilterNone, s.Filter())
}

func TestSettings_ActiveOrder(t *testing.T) {
	var s Settings
	s.Set(DoubleExposure, 0.1)
	s.Set(Exposure, 0.2)
	s.Set(Clarity, 0.3)
	s.Set(Saturation, -0.4)

	assert.Equal(t, []ID{Exposure, Saturation, Clarity, DoubleExposure}, s.Active())
}

func TestSettings_ResetAllKeepsCrop(t *testing.T) {
	var s Settings
	s.Set(Exposure, 0.5)
	s.Set(Vignette, 0.5)
	s.SetFilter(FilterNoir)
	s.UpdateCrop(func(c *Crop) {
		c.RotateLeft()
		c.FlipHorizontal = true
		c.Aspect = AspectSquare
	})

	s.ResetAll()

	assert.Empty(t, s.Active())
	assert.Equal(t, FilterNone, s.Filter())
	assert.Equal(t, Crop{QuarterTurns: 1, FlipHorizontal: true, Aspect: AspectSquare}, s.Crop())

	s.ResetCrop()
	assert.True(t, s.Crop().IsZero())
}

func TestSettings_ResetSingle(t *testing.T) {
	var s Settings
	s.Set(Exposure, 0.5)
	s.Set(Tint, -0.5)
	s.Reset(Exposure)

	assert.False(t, s.Has(Exposure))
	assert.True(t, s.Has(Tint))
}

func TestSettings_CloneIsIndependent(t *testing.T) {
	var s Settings
	s.Set(Warmth, 0.4)
	snap := s.Clone()

	s.Set(Warmth, -0.9)
	s.Set(Grain, 0.2)

	v, _ := snap.Value(Warmth)
	assert.Equal(t, 0.4, v)
	assert.False(t, snap.Has(Grain))
	assert.False(t, snap.Equal(s))
	assert.True(t, snap.Equal(snap.Clone()))
}

func TestSettings_IsIdentity(t *testing.T) {
	var s Settings
	assert.True(t, s.IsIdentity())
	s.Set(Exposure, 0)
	assert.True(t, s.IsIdentity())
	s.Set(Exposure, 0.1)
	assert.False(t, s.IsIdentity())
	s.Reset(Exposure)
	s.SetFilter(FilterMono)
	assert.False(t, s.IsIdentity())
}

func TestCrop_RotationWraps(t *testing.T) {
	var c Crop
	for i := 0; i < 4; i++ {
		c.RotateRight()
	}
	assert.Equal(t, 0, c.QuarterTurns)

	c.RotateRight()
	assert.Equal(t, 3, c.QuarterTurns)
	assert.Equal(t, 270.0, c.Rotation())

	c.RotateLeft()
	c.RotateLeft()
	assert.Equal(t, 1, c.QuarterTurns)

	c.SetFreeRotation(12.5)
	assert.Equal(t, 102.5, c.Rotation())

	c.SetFreeRotation(80)
	assert.Equal(t, MaxFreeRotation-FreeRotationStep, c.FreeRotation)

	c.SetFreeRotation(-80)
	assert.Equal(t, -MaxFreeRotation, c.FreeRotation)

	c.SetFreeRotation(10.3)
	assert.Equal(t, 10.30078125, c.FreeRotation, "rounded to the nearest step")
}

func TestAspectRatio(t *testing.T) {
	r, ok := Aspect16x9.Ratio(1)
	require.True(t, ok)
	assert.InDelta(t, 16.0/9.0, r, 1e-12)

	r, ok = AspectOriginal.Ratio(1.5)
	require.True(t, ok)
	assert.Equal(t, 1.5, r)

	_, ok = AspectNone.Ratio(1.5)
	assert.False(t, ok)

	_, err := ParseAspectRatio("7:5")
	assert.Error(t, err)
}

func TestRecord_RoundTrip(t *testing.T) {
	var s Settings
	s.Set(Brightness, 0.25)
	s.Set(Hue, -1)
	s.Set(NoiseReduction, 0.8)
	s.SetFilter(FilterVintage)
	s.SetCrop(Crop{QuarterTurns: 3, FreeRotation: -10.3, FlipVertical: true, Aspect: Aspect4x5})

	rec := s.Record()
	assert.Equal(t, "vintage", rec.Filter)
	assert.Equal(t, map[string]float64{"brightness": 0.25, "hue": -1, "noiseReduction": 0.8}, rec.Adjustments)

	back, err := FromRecord(rec)
	require.NoError(t, err)

	if diff := cmp.Diff(rec, back.Record()); diff != "" {
		t.Errorf("record round trip mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, s.Equal(back))
	assert.Equal(t, 3, back.Crop().QuarterTurns)
	assert.Equal(t, -10.30078125, back.Crop().FreeRotation)
}

func TestRecord_RoundTripCropBoundaries(t *testing.T) {
	var crops []Crop
	for turns := 0; turns < 4; turns++ {
		for _, free := range []float64{-45, -44.9, -0.1, 0, 7.77, 44.99, 45, 60} {
			for _, flips := range [][2]bool{{false, false}, {true, false}, {false, true}, {true, true}} {
				crops = append(crops, Crop{
					QuarterTurns:   turns,
					FreeRotation:   free,
					FlipHorizontal: flips[0],
					FlipVertical:   flips[1],
					Aspect:         Aspect3x2,
				})
			}
		}
	}

	for _, c := range crops {
		var s Settings
		s.SetCrop(c)
		back, err := FromRecord(s.Record())
		require.NoError(t, err)
		if diff := cmp.Diff(s.Crop(), back.Crop()); diff != "" {
			t.Errorf("crop %+v did not survive the record (-want +got):\n%s", c, diff)
		}
		assert.True(t, s.Equal(back), "settings for %+v", c)
	}
}

func TestRecord_RotationDecomposition(t *testing.T) {
	tests := []struct {
		deg       float64
		wantTurns int
		wantFree  float64
	}{
		{0, 0, 0},
		{90, 1, 0},
		{100, 1, 10},
		{-10, 0, -10},
		{44, 0, 44},
		{44.99609375, 0, 44.99609375},
		{-45, 0, -45},
		{45, 1, -45},
		{134.99609375, 1, 44.99609375},
		{270, 3, 0},
		{350, 0, -10},
		{-90, 3, 0},
		{720, 0, 0},
	}
	for _, tt := range tests {
		turns, free := cropFromRotation(tt.deg)
		assert.Equal(t, tt.wantTurns, turns, "turns for %v", tt.deg)
		assert.InDelta(t, tt.wantFree, free, 1e-9, "free for %v", tt.deg)
	}
}

func TestFromRecord_ClampsAndRejects(t *testing.T) {
	s, err := FromRecord(Record{Adjustments: map[string]float64{"exposure": 4}})
	require.NoError(t, err)
	v, _ := s.Value(Exposure)
	assert.Equal(t, 1.0, v)

	_, err = FromRecord(Record{
		Adjustments: map[string]float64{"sparkle": 0.2},
		Filter:      "polaroid",
		AspectRatio: "5:7",
	})
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.KindValidation))
	assert.Contains(t, err.Error(), "sparkle")
	assert.Contains(t, err.Error(), "polaroid")
	assert.Contains(t, err.Error(), "5:7")
}

func TestFilters(t *testing.T) {
	fs := Filters()
	require.Len(t, fs, 10)
	for _, f := range fs {
		parsed, err := ParseFilter(string(f))
		require.NoError(t, err)
		assert.Equal(t, f, parsed)
	}
	f, err := ParseFilter("")
	require.NoError(t, err)
	assert.Equal(t, FilterNone, f)
}

func TestSettings_CopiesAreIndependent(t *testing.T) {
	var a Settings
	a.Set(Brightness, 0.2)
	a.Set(Warmth, 0.4)

	b := a
	b.Set(Brightness, -0.5)
	b.Set(Contrast, 0.3)
	b.Reset(Warmth)

	v, _ := a.Value(Brightness)
	assert.Equal(t, 0.2, v)
	assert.False(t, a.Has(Contrast))
	assert.True(t, a.Has(Warmth))

	v, _ = b.Value(Brightness)
	assert.Equal(t, -0.5, v)
	assert.True(t, b.Has(Contrast))
	assert.False(t, b.Has(Warmth))

	c := b
	c.ResetAll()
	assert.Len(t, b.Active(), 2)
	assert.Empty(t, c.Active())
}
