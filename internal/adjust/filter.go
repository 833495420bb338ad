package adjust

import "fmt"

// Filter is one of the fixed stylistic presets. The zero value means no filter.
type Filter string

const (
	FilterNone         Filter = ""
	FilterVivid        Filter = "vivid"
	FilterVividWarm    Filter = "vividWarm"
	FilterVividCool    Filter = "vividCool"
	FilterDramatic     Filter = "dramatic"
	FilterDramaticWarm Filter = "dramaticWarm"
	FilterDramaticCool Filter = "dramaticCool"
	FilterMono         Filter = "mono"
	FilterSilvertone   Filter = "silvertone"
	FilterNoir         Filter = "noir"
	FilterVintage      Filter = "vintage"
)

var filters = []Filter{
	FilterVivid, FilterVividWarm, FilterVividCool,
	FilterDramatic, FilterDramaticWarm, FilterDramaticCool,
	FilterMono, FilterSilvertone, FilterNoir, FilterVintage,
}

// Filters returns every preset in display order.
func Filters() []Filter {
	out := make([]Filter, len(filters))
	copy(out, filters)
	return out
}

// ParseFilter converts a persisted filter name. The empty string is FilterNone.
func ParseFilter(s string) (Filter, error) {
	if s == "" {
		return FilterNone, nil
	}
	for _, f := range filters {
		if string(f) == s {
			return f, nil
		}
	}
	return FilterNone, fmt.Errorf("unknown filter %q", s)
}

// Valid reports whether f is FilterNone or one of the presets.
func (f Filter) Valid() bool {
	_, err := ParseFilter(string(f))
	return err == nil
}
