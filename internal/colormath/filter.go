package colormath

// ColorTagged is content carrying zero or more dominant-color hex strings.
type ColorTagged interface {
	ColorSamples() []string
}

// Item is a plain ColorTagged value, used where callers have no richer type.
type Item struct {
	ID     string   `json:"id"`
	Colors []string `json:"colors"`
}

// ColorSamples implements ColorTagged.
func (i Item) ColorSamples() []string {
	return i.Colors
}

// FilterByColorDistance keeps the items with at least one color sample within
// threshold of targetHex, preserving input order.
//
// Items without samples are always excluded. Samples that fail to parse are
// skipped. If targetHex itself does not parse, items is returned unchanged;
// search callers rely on an invalid target meaning "no color filter".
func FilterByColorDistance[T ColorTagged](items []T, targetHex string, threshold float64) []T {
	target, err := HexToRGB(targetHex)
	if err != nil {
		return items
	}

	out := make([]T, 0, len(items))
	for _, item := range items {
		if matchesAny(item.ColorSamples(), target, threshold) {
			out = append(out, item)
		}
	}
	return out
}

func matchesAny(samples []string, target RGB, threshold float64) bool {
	for _, hex := range samples {
		c, err := HexToRGB(hex)
		if err != nil {
			continue
		}
		if Distance(c, target) <= threshold {
			return true
		}
	}
	return false
}
