// Package records defines the generic record type shared by the parser,
// the load-time transformers and the case decoder.
//
// A Record is a decoded JSON object. Nested objects stay nested; callers
// reach into them with dotted paths such as "statusPredictus.ramoDireito"
// through Lookup, which never panics on absent or mistyped segments.
package records

import (
	"encoding/json"
	"strconv"
	"strings"
	"sync"

	"github.com/ohler55/ojg/jp"
)

// Record is one decoded JSON object.
type Record map[string]any

// compiled caches dotted path -> JSONPath expression. Paths come from a
// small, fixed set of field names so the cache stays tiny.
var compiled sync.Map // map[string]jp.Expr

func expr(path string) jp.Expr {
	if x, ok := compiled.Load(path); ok {
		return x.(jp.Expr)
	}
	x := jp.R()
	for _, seg := range strings.Split(path, ".") {
		x = x.C(seg)
	}
	compiled.Store(path, x)
	return x
}

// Lookup resolves a dotted path. It returns (nil, false) when any segment
// is missing, when an intermediate value is not an object, or when the
// final value is JSON null.
func (r Record) Lookup(path string) (any, bool) {
	if r == nil || path == "" {
		return nil, false
	}
	if !strings.Contains(path, ".") {
		v, ok := r[path]
		return v, ok && v != nil
	}
	found := expr(path).Get(map[string]any(r))
	if len(found) == 0 || found[0] == nil {
		return nil, false
	}
	return found[0], true
}

// String returns the value at path when it is a string.
func (r Record) String(path string) (string, bool) {
	v, ok := r.Lookup(path)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Text returns a display string for scalar values at path. Strings are
// returned as-is, numbers in their JSON form; objects and arrays are not
// scalars and report false.
func (r Record) Text(path string) (string, bool) {
	v, ok := r.Lookup(path)
	if !ok {
		return "", false
	}
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case bool:
		if t {
			return "true", true
		}
		return "false", true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	default:
		return "", false
	}
}

// Slice returns the value at path when it is a JSON array.
func (r Record) Slice(path string) ([]any, bool) {
	v, ok := r.Lookup(path)
	if !ok {
		return nil, false
	}
	s, ok := v.([]any)
	return s, ok
}

// Object converts v to a Record when it is a JSON object.
func Object(v any) (Record, bool) {
	switch m := v.(type) {
	case map[string]any:
		return Record(m), true
	case Record:
		return m, true
	default:
		return nil, false
	}
}

// Clone returns a deep copy of r. Nested objects and arrays are copied;
// scalars are shared.
func Clone(r Record) Record {
	if r == nil {
		return nil
	}
	return Record(cloneMap(r))
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case Record:
		return Record(cloneMap(t))
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = cloneValue(t[i])
		}
		return out
	default:
		return v
	}
}
