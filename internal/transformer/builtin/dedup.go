// Package builtin contains the load-time transformers selectable from the
// pipeline configuration.
//
// DeDup collapses records sharing a key, typically the process number when
// several exports overlap, and chooses a winner by policy:
//
//   - "keep-first"   : keep the earliest occurrence
//   - "keep-last"    : keep the latest occurrence (default)
//   - "most-complete": keep the record with the most non-empty top-level
//     fields; ties break by keep-last
//
// Keys are dotted paths ("statusPredictus.ramoDireito" works). A record
// missing any key field is passed through untouched. Run DeDup after
// Normalize so that whitespace variants share a key.
package builtin

import (
	"fmt"
	"sort"
	"strings"

	"github.com/arthurrossibr/general-vision-simplified/internal/skiplog"
	"github.com/arthurrossibr/general-vision-simplified/pkg/records"
)

// Dedup policies.
const (
	PolicyKeepFirst    = "keep-first"
	PolicyKeepLast     = "keep-last"
	PolicyMostComplete = "most-complete"
)

// DeDup implements a configurable, in-memory de-duplication policy.
type DeDup struct {
	Keys   []string
	Policy string

	// Drops, when set, counts every discarded duplicate.
	Drops *skiplog.Stats
}

// Apply returns the winning record of each key in the position of the
// winner, followed by unkeyed records in input order.
func (d DeDup) Apply(in []records.Record) []records.Record {
	if len(in) == 0 || len(d.Keys) == 0 {
		return in
	}

	policy := strings.ToLower(strings.TrimSpace(d.Policy))
	if policy == "" {
		policy = PolicyKeepLast
	}

	type slot struct {
		index int
		score int
	}
	winners := make(map[string]slot, len(in))
	var unkeyed []int
	keyed := 0

	for i, r := range in {
		key, ok := d.keyOf(r)
		if !ok {
			unkeyed = append(unkeyed, i)
			continue
		}
		keyed++
		prev, exists := winners[key]
		switch policy {
		case PolicyKeepFirst:
			if !exists {
				winners[key] = slot{index: i}
			}
		case PolicyMostComplete:
			s := slot{index: i, score: completeness(r)}
			if !exists || s.score >= prev.score {
				winners[key] = s
			}
		default:
			winners[key] = slot{index: i}
		}
	}

	d.Drops.Add(skiplog.ReasonDuplicateRecord, keyed-len(winners))

	indexes := make([]int, 0, len(winners))
	for _, s := range winners {
		indexes = append(indexes, s.index)
	}
	sort.Ints(indexes)

	out := make([]records.Record, 0, len(indexes)+len(unkeyed))
	for _, i := range indexes {
		out = append(out, in[i])
	}
	for _, i := range unkeyed {
		out = append(out, in[i])
	}
	return out
}

func (d DeDup) keyOf(r records.Record) (string, bool) {
	var b strings.Builder
	for i, k := range d.Keys {
		v, ok := r.Lookup(k)
		if !ok {
			return "", false
		}
		if i > 0 {
			b.WriteByte('\x1f')
		}
		if s, isStr := v.(string); isStr {
			b.WriteString(s)
		} else {
			b.WriteString(fmt.Sprint(v))
		}
	}
	return b.String(), true
}

// completeness counts top-level fields that are neither null nor "".
func completeness(r records.Record) int {
	n := 0
	for _, v := range r {
		if v == nil {
			continue
		}
		if s, ok := v.(string); ok && s == "" {
			continue
		}
		n++
	}
	return n
}
