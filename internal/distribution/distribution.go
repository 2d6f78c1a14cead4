// Package distribution computes frequency tables over case columns:
// counts ordered by frequency, optional top-N folding into a synthetic
// OTHER row, hard top-N truncation and percentage annotation.
//
// Ordering is count descending; equal counts are ordered by ascending
// category label so results are deterministic for a given input.
package distribution

import (
	"errors"
	"fmt"
	"sort"
)

// OtherLabel is the default category of the folded catch-all row.
const OtherLabel = "OTHER"

// DefaultCutoff is the fold cutoff used when Options.Fold is set and
// Options.Cutoff is not positive.
const DefaultCutoff = 5

// DefaultPercentName is the percentage column appended by ByColumn when
// only category and count names are given.
const DefaultPercentName = "Percentual"

// ErrUnknownColumn means the report asked for a column the source does not
// have. It is a definition bug, not a data problem.
var ErrUnknownColumn = errors.New("distribution: unknown column")

// Row is one category of a frequency table.
type Row struct {
	Category   string `json:"category"`
	Count      int    `json:"count"`
	Percentage string `json:"percentage,omitempty"`
}

// Options controls folding, truncation and percentages.
type Options struct {
	// Fold collapses every category past Cutoff into one OTHER row holding
	// their summed count. The row is appended, not ranked.
	Fold   bool
	Cutoff int

	// OtherLabel overrides the OTHER row's category.
	OtherLabel string

	// TopN keeps only the first TopN rows (no OTHER row). Zero keeps all.
	// Ignored when Fold is set.
	TopN int

	// Percent annotates each kept row with its share of the kept total.
	Percent bool
}

// Result is a frequency table with its declared output column names.
type Result struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// Columnar is any table that can produce the values of a named column.
type Columnar interface {
	Column(name string) ([]string, bool)
}

// Count tallies values and orders the categories by count descending, then
// by category ascending.
func Count(values []string) []Row {
	counts := make(map[string]int, len(values))
	for _, v := range values {
		counts[v]++
	}
	rows := make([]Row, 0, len(counts))
	for k, n := range counts {
		rows = append(rows, Row{Category: k, Count: n})
	}
	sortRows(rows)
	return rows
}

func sortRows(rows []Row) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Category < rows[j].Category
	})
}

// Apply counts values and applies opt. Percentages, when requested, are
// computed after folding or truncation over the rows that remain.
func Apply(values []string, opt Options) []Row {
	rows := Count(values)

	switch {
	case opt.Fold:
		rows = Fold(rows, opt.Cutoff, opt.OtherLabel)
	case opt.TopN > 0 && len(rows) > opt.TopN:
		rows = rows[:opt.TopN]
	}

	if opt.Percent {
		Annotate(rows)
	}
	return rows
}

// Fold keeps the first cutoff rows and appends one row labelled other
// with the summed count of the rest. Rows are returned unchanged when
// there are at most cutoff of them.
func Fold(rows []Row, cutoff int, other string) []Row {
	if cutoff <= 0 {
		cutoff = DefaultCutoff
	}
	if other == "" {
		other = OtherLabel
	}
	if len(rows) <= cutoff {
		return rows
	}
	rest := 0
	for _, r := range rows[cutoff:] {
		rest += r.Count
	}
	out := make([]Row, 0, cutoff+1)
	out = append(out, rows[:cutoff]...)
	return append(out, Row{Category: other, Count: rest})
}

// ByColumn builds the frequency table of column in src. names are the
// output column names: category and count, plus an optional percentage
// name. Unknown columns fail with ErrUnknownColumn; an empty source yields
// an empty table with the declared columns.
func ByColumn(src Columnar, column string, names []string, opt Options) (*Result, error) {
	if len(names) < 2 {
		return nil, fmt.Errorf("distribution: column %q: need at least 2 output names, got %d", column, len(names))
	}
	values, ok := src.Column(column)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, column)
	}
	return NewResult(Apply(values, opt), names, opt.Percent), nil
}

// NewResult wraps rows with their output column names, appending the
// default percentage name when percent is set and names has none.
func NewResult(rows []Row, names []string, percent bool) *Result {
	cols := append([]string(nil), names...)
	if percent && len(cols) == 2 {
		cols = append(cols, DefaultPercentName)
	}
	if rows == nil {
		rows = []Row{}
	}
	return &Result{Columns: cols, Rows: rows}
}
