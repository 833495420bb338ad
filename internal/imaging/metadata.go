package imaging

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
)

// MetadataSource records where capture metadata came from.
type MetadataSource string

const (
	SourceNone      MetadataSource = "none"
	SourceEXIF      MetadataSource = "exif"
	SourceDatestamp MetadataSource = "datestamp"
)

// CaptureMetadata is best-effort camera information embedded in a source file.
// Fields that could not be read are left at their zero values.
type CaptureMetadata struct {
	// Source is exif when the file carried any readable EXIF block.
	Source MetadataSource `json:"source"`
	// TimeSource records where CapturedAt came from.
	TimeSource   MetadataSource `json:"time_source"`
	CapturedAt   time.Time      `json:"captured_at,omitzero"`
	Make         string         `json:"make,omitempty"`
	Model        string         `json:"model,omitempty"`
	Lens         string         `json:"lens,omitempty"`
	ISO          int            `json:"iso,omitempty"`
	FNumber      float64        `json:"f_number,omitempty"`
	ExposureTime string         `json:"exposure_time,omitempty"`
	FocalLength  float64        `json:"focal_length_mm,omitempty"`
	HasLocation  bool           `json:"has_location"`
	Latitude     float64        `json:"latitude,omitempty"`
	Longitude    float64        `json:"longitude,omitempty"`
}

// ExtractCaptureMetadata reads EXIF from the encoded source bytes. It never
// fails: missing or corrupt metadata yields a record with Source none.
func ExtractCaptureMetadata(raw []byte) CaptureMetadata {
	md := CaptureMetadata{Source: SourceNone, TimeSource: SourceNone}
	if len(raw) == 0 {
		return md
	}
	x, err := exif.Decode(bytes.NewReader(raw))
	if err != nil || x == nil {
		return md
	}
	md.Source = SourceEXIF

	if tm, err := x.DateTime(); err == nil {
		md.CapturedAt = tm
		md.TimeSource = SourceEXIF
	}
	md.Make = exifString(x, exif.Make)
	md.Model = exifString(x, exif.Model)
	md.Lens = exifString(x, exif.LensModel)
	if tag, err := x.Get(exif.ISOSpeedRatings); err == nil {
		if v, err := tag.Int(0); err == nil {
			md.ISO = v
		}
	}
	md.FNumber = exifRational(x, exif.FNumber)
	md.FocalLength = exifRational(x, exif.FocalLength)
	if tag, err := x.Get(exif.ExposureTime); err == nil {
		if num, den, err := tag.Rat2(0); err == nil && den != 0 {
			md.ExposureTime = formatExposure(num, den)
		}
	}
	if lat, long, err := x.LatLong(); err == nil {
		md.HasLocation = true
		md.Latitude, md.Longitude = lat, long
	}
	return md
}

func exifString(x *exif.Exif, name exif.FieldName) string {
	tag, err := x.Get(name)
	if err != nil || tag.Format() != tiff.StringVal {
		return ""
	}
	s, err := tag.StringVal()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(strings.TrimRight(s, "\x00"))
}

func exifRational(x *exif.Exif, name exif.FieldName) float64 {
	tag, err := x.Get(name)
	if err != nil {
		return 0
	}
	num, den, err := tag.Rat2(0)
	if err != nil || den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// formatExposure renders shutter speed the way cameras display it.
func formatExposure(num, den int64) string {
	if num >= den {
		return fmt.Sprintf("%gs", float64(num)/float64(den))
	}
	if num == 0 {
		return "0s"
	}
	return fmt.Sprintf("1/%.0fs", float64(den)/float64(num))
}

// TimeOfDay is a coarse bucket of the local capture hour.
type TimeOfDay string

const (
	TimeUnknown   TimeOfDay = "unknown"
	TimeDawn      TimeOfDay = "dawn"
	TimeMorning   TimeOfDay = "morning"
	TimeAfternoon TimeOfDay = "afternoon"
	TimeEvening   TimeOfDay = "evening"
	TimeNight     TimeOfDay = "night"
)

// TimeOfDayOf buckets t by hour: dawn 05-06, morning 07-11, afternoon
// 12-16, evening 17-20, night otherwise. The zero time is TimeUnknown.
func TimeOfDayOf(t time.Time) TimeOfDay {
	if t.IsZero() {
		return TimeUnknown
	}
	switch h := t.Hour(); {
	case h >= 5 && h < 7:
		return TimeDawn
	case h >= 7 && h < 12:
		return TimeMorning
	case h >= 12 && h < 17:
		return TimeAfternoon
	case h >= 17 && h < 21:
		return TimeEvening
	}
	return TimeNight
}
