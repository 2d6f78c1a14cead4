package builtin

import (
	"strings"

	"github.com/arthurrossibr/general-vision-simplified/pkg/records"
)

// Normalize trims every string value and turns no-break spaces into plain
// spaces, descending into nested objects and arrays. Records are changed
// in place.
type Normalize struct{}

func (Normalize) Apply(in []records.Record) []records.Record {
	for _, r := range in {
		normalizeMap(r)
	}
	return in
}

func normalizeMap(m map[string]any) {
	for k, v := range m {
		m[k] = normalizeValue(v)
	}
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(strings.ReplaceAll(t, "\u00a0", " "))
	case map[string]any:
		normalizeMap(t)
		return t
	case []any:
		for i := range t {
			t[i] = normalizeValue(t[i])
		}
		return t
	default:
		return v
	}
}
