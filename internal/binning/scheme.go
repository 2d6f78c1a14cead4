// Package binning classifies computed day-deltas and monetary amounts into
// closed, ordered bucket enumerations. Every histogram it produces lists
// every label of its scheme exactly once, in scheme order, zero counts
// included.
//
// Schemes are immutable values built by constructor functions; callers
// pass them explicitly instead of sharing package-level tables.
package binning

import (
	"github.com/shopspring/decimal"
)

// BinRow is one bucket of a histogram.
type BinRow struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

type dayBucket struct {
	label string
	max   int // inclusive upper bound in days; ignored when open
	open  bool
}

// DayScheme is an ordered set of day ranges. The first bucket starts at 0.
type DayScheme struct {
	buckets []dayBucket
}

// MonthRanges returns the 90-day scheme: [0,90], (90,180], ... (630,720]
// and an open "24+ meses" bucket.
func MonthRanges() DayScheme {
	return DayScheme{buckets: []dayBucket{
		{label: "0 a 3 meses", max: 90},
		{label: "4 a 6 meses", max: 180},
		{label: "7 a 9 meses", max: 270},
		{label: "10 a 12 meses", max: 360},
		{label: "13 a 15 meses", max: 450},
		{label: "16 a 18 meses", max: 540},
		{label: "19 a 21 meses", max: 630},
		{label: "22 a 24 meses", max: 720},
		{label: "24+ meses", open: true},
	}}
}

// Labels returns the bucket labels in order.
func (s DayScheme) Labels() []string {
	out := make([]string, len(s.buckets))
	for i, b := range s.buckets {
		out[i] = b.label
	}
	return out
}

// Index returns the bucket holding days. Negative deltas belong to no
// bucket.
func (s DayScheme) Index(days int) (int, bool) {
	if days < 0 {
		return 0, false
	}
	for i, b := range s.buckets {
		if b.open || days <= b.max {
			return i, true
		}
	}
	return 0, false
}

type valueBand struct {
	label string
	max   decimal.Decimal // inclusive upper bound; ignored when open
	open  bool
}

// ValueScheme is an ordered set of monetary bands.
type ValueScheme struct {
	bands []valueBand
}

// ValueBands returns the claim-value bands with upper bounds 5,000,
// 20,000, 50,000 and 100,000 and an open top band.
func ValueBands() ValueScheme {
	return ValueScheme{bands: []valueBand{
		{label: "Até R$5 mil", max: decimal.NewFromInt(5_000)},
		{label: "R$5 a R$20 mil", max: decimal.NewFromInt(20_000)},
		{label: "R$20 a R$50 mil", max: decimal.NewFromInt(50_000)},
		{label: "R$50 a R$100 mil", max: decimal.NewFromInt(100_000)},
		{label: "Acima de R$100 mil", open: true},
	}}
}

// Labels returns the band labels in order.
func (s ValueScheme) Labels() []string {
	out := make([]string, len(s.bands))
	for i, b := range s.bands {
		out[i] = b.label
	}
	return out
}

// Index returns the band holding v. Amounts below zero land in the first
// band.
func (s ValueScheme) Index(v decimal.Decimal) int {
	for i, b := range s.bands {
		if b.open || v.LessThanOrEqual(b.max) {
			return i
		}
	}
	return len(s.bands) - 1
}

// histogram counts indexes into a zero-filled row per label.
func histogram(labels []string, idx []int) []BinRow {
	out := make([]BinRow, len(labels))
	for i, l := range labels {
		out[i] = BinRow{Label: l}
	}
	for _, i := range idx {
		out[i].Count++
	}
	return out
}
