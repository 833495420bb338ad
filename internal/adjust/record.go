package adjust

import (
	"sort"
	"strings"

	errs "github.com/ironsheep/photo-tools-mcp/internal/errors"
)

// Record is the flat persisted form of Settings handed to the persistence layer.
type Record struct {
	Adjustments    map[string]float64 `json:"adjustments"`
	Filter         string             `json:"filter,omitempty"`
	Rotation       float64            `json:"rotation"`
	FlipHorizontal bool               `json:"flipHorizontal"`
	FlipVertical   bool               `json:"flipVertical"`
	AspectRatio    string             `json:"aspectRatio,omitempty"`
}

// Record converts settings to their persisted form.
func (s Settings) Record() Record {
	r := Record{
		Adjustments:    make(map[string]float64, len(s.values)),
		Filter:         string(s.filter),
		Rotation:       s.crop.Rotation(),
		FlipHorizontal: s.crop.FlipHorizontal,
		FlipVertical:   s.crop.FlipVertical,
		AspectRatio:    string(s.crop.Aspect),
	}
	for id, v := range s.values {
		r.Adjustments[string(id)] = v
	}
	return r
}

// FromRecord rebuilds settings from a persisted record.
//
// Values are clamped like any other setter input. Unknown adjustment keys,
// filter names or aspect ratios are reported together in one error and no
// settings are returned.
func FromRecord(r Record) (Settings, error) {
	var s Settings
	var problems []string

	keys := make([]string, 0, len(r.Adjustments))
	for k := range r.Adjustments {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		id, err := ParseID(k)
		if err != nil {
			problems = append(problems, err.Error())
			continue
		}
		s.Set(id, r.Adjustments[k])
	}

	f, err := ParseFilter(r.Filter)
	if err != nil {
		problems = append(problems, err.Error())
	}
	aspect, err := ParseAspectRatio(r.AspectRatio)
	if err != nil {
		problems = append(problems, err.Error())
	}
	if len(problems) > 0 {
		return Settings{}, errs.Validation("record", strings.Join(problems, "; "))
	}

	s.filter = f
	turns, free := cropFromRotation(r.Rotation)
	s.crop = Crop{
		QuarterTurns:   turns,
		FreeRotation:   free,
		FlipHorizontal: r.FlipHorizontal,
		FlipVertical:   r.FlipVertical,
		Aspect:         aspect,
	}
	return s, nil
}
