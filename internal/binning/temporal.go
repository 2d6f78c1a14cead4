package binning

import (
	"time"

	"github.com/arthurrossibr/general-vision-simplified/internal/cases"
	"github.com/arthurrossibr/general-vision-simplified/internal/skiplog"
)

// DateField selects one date of a case. A nil result means missing.
type DateField func(cases.Record) *time.Time

// Date fields of a case record.
var (
	Distributed   DateField = func(r cases.Record) *time.Time { return r.DistributedOn }
	Archived      DateField = func(r cases.Record) *time.Time { return r.ArchivedOn }
	FinalJudgment DateField = func(r cases.Record) *time.Time { return r.FinalJudgmentOn }
)

// DaysBetween returns the whole calendar days from anchor to end.
func DaysBetween(anchor, end time.Time) int {
	a := time.Date(anchor.Year(), anchor.Month(), anchor.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a) / (24 * time.Hour))
}

// Durations returns end-anchor in days for every record where both dates
// are present. Records missing either date are skipped.
func Durations(tbl cases.Table, anchor, end DateField) []int {
	out := make([]int, 0, len(tbl))
	for _, r := range tbl {
		e := end(r)
		if e == nil {
			continue
		}
		a := anchor(r)
		if a == nil {
			continue
		}
		out = append(out, DaysBetween(*a, *e))
	}
	return out
}

// DayHistogram classifies day deltas with s. Deltas that fit no bucket
// (negative ones) are tallied in drops and left out.
func DayHistogram(s DayScheme, days []int, drops *skiplog.Stats) []BinRow {
	idx := make([]int, 0, len(days))
	for _, d := range days {
		i, ok := s.Index(d)
		if !ok {
			drops.Add(skiplog.ReasonNegativeDelta, 1)
			continue
		}
		idx = append(idx, i)
	}
	return histogram(s.Labels(), idx)
}

// Year returns the calendar year of t, or false when t is missing.
func Year(t *time.Time) (int, bool) {
	if t == nil {
		return 0, false
	}
	return t.Year(), true
}
