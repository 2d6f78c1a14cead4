// Package skiplog keeps a per-reason tally of elements dropped while
// decoding or aggregating case records. A dropped element never aborts a
// report; it only disappears from the view being computed, and the tally
// makes those drops visible in logs and metrics.
package skiplog

import (
	"sort"
	"sync"

	"go.uber.org/zap"
)

// Common drop reasons.
const (
	ReasonPartyNotObject    = "party_not_object"
	ReasonLawyerNotObject   = "lawyer_not_object"
	ReasonLawyerNoBarNumber = "lawyer_missing_bar_number"
	ReasonSubjectNotObject  = "subject_not_object"
	ReasonSubjectNoTitle    = "subject_missing_title"
	ReasonJudgmentNotObject = "judgment_not_object"
	ReasonBadDate           = "unparsable_date"
	ReasonNegativeDelta     = "negative_day_delta"
	ReasonEmptyName         = "empty_canonical_name"
	ReasonDuplicateRecord   = "duplicate_process_number"
	ReasonInvalidDocument   = "invalid_json_document"
)

// Stats counts drops by reason. The zero value is not usable; use New.
// A nil *Stats is a valid no-op sink.
type Stats struct {
	mu      sync.Mutex
	reasons map[string]int
}

// New returns an empty tally.
func New() *Stats {
	return &Stats{reasons: make(map[string]int)}
}

// Add records n drops for reason.
func (s *Stats) Add(reason string, n int) {
	if s == nil || n <= 0 {
		return
	}
	s.mu.Lock()
	s.reasons[reason] += n
	s.mu.Unlock()
}

// Count returns the drops recorded for reason.
func (s *Stats) Count(reason string) int {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reasons[reason]
}

// Total returns the number of drops across all reasons.
func (s *Stats) Total() int {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.reasons {
		n += c
	}
	return n
}

// Merge adds every count in o to s.
func (s *Stats) Merge(o *Stats) {
	if s == nil || o == nil || s == o {
		return
	}
	for reason, n := range o.Snapshot() {
		s.Add(reason, n)
	}
}

// Snapshot returns a copy of the tally.
func (s *Stats) Snapshot() map[string]int {
	out := map[string]int{}
	if s == nil {
		return out
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range s.reasons {
		out[k] = v
	}
	return out
}

// Log writes one line per reason, in reason order.
func (s *Stats) Log(log *zap.Logger, msg string) {
	if s == nil || log == nil {
		return
	}
	snap := s.Snapshot()
	keys := make([]string, 0, len(snap))
	for k := range snap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		log.Info(msg, zap.String("reason", k), zap.Int("count", snap[k]))
	}
}
