package binning

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"github.com/arthurrossibr/general-vision-simplified/internal/cases"
	"github.com/arthurrossibr/general-vision-simplified/internal/skiplog"
)

func day(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestDayScheme_Boundaries(t *testing.T) {
	t.Parallel()

	s := MonthRanges()
	labels := s.Labels()
	tests := []struct {
		days int
		want string
	}{
		{0, "0 a 3 meses"},
		{90, "0 a 3 meses"},
		{91, "4 a 6 meses"},
		{104, "4 a 6 meses"},
		{180, "4 a 6 meses"},
		{360, "10 a 12 meses"},
		{720, "22 a 24 meses"},
		{721, "24+ meses"},
		{10_000, "24+ meses"},
	}
	for _, tt := range tests {
		i, ok := s.Index(tt.days)
		if !ok || labels[i] != tt.want {
			t.Fatalf("Index(%d)=%q,%v; want %q", tt.days, labels[i], ok, tt.want)
		}
	}
	if _, ok := s.Index(-1); ok {
		t.Fatalf("Index(-1) ok=true; want false")
	}
}

func TestMonthRanges_FreshValue(t *testing.T) {
	t.Parallel()

	a := MonthRanges().Labels()
	a[0] = "mutated"
	if b := MonthRanges().Labels(); b[0] != "0 a 3 meses" {
		t.Fatalf("labels shared across calls: %q", b[0])
	}
}

func TestDayHistogram_ArchivalDelta(t *testing.T) {
	t.Parallel()

	tbl := cases.Table{
		{DistributedOn: day("2023-01-01"), ArchivedOn: day("2023-04-15")},
		{DistributedOn: day("2023-01-01")},
		{ArchivedOn: day("2023-04-15")},
		{DistributedOn: day("2023-05-01"), ArchivedOn: day("2023-04-15")},
	}
	days := Durations(tbl, Distributed, Archived)
	if diff := cmp.Diff([]int{104, -16}, days); diff != "" {
		t.Fatalf("Durations (-want +got):\n%s", diff)
	}

	drops := skiplog.New()
	got := DayHistogram(MonthRanges(), days, drops)
	if len(got) != 9 {
		t.Fatalf("buckets=%d; want 9", len(got))
	}
	for _, b := range got {
		want := 0
		if b.Label == "4 a 6 meses" {
			want = 1
		}
		if b.Count != want {
			t.Fatalf("bucket %q=%d; want %d", b.Label, b.Count, want)
		}
	}
	if n := drops.Count(skiplog.ReasonNegativeDelta); n != 1 {
		t.Fatalf("negative deltas dropped=%d; want 1", n)
	}
}

func TestHistograms_EmptyInputKeepsEveryLabel(t *testing.T) {
	t.Parallel()

	days := DayHistogram(MonthRanges(), nil, nil)
	if diff := cmp.Diff(MonthRanges().Labels(), labelsOf(days)); diff != "" {
		t.Fatalf("day labels (-want +got):\n%s", diff)
	}
	values := ValueHistogram(ValueBands(), nil)
	if diff := cmp.Diff(ValueBands().Labels(), labelsOf(values)); diff != "" {
		t.Fatalf("value labels (-want +got):\n%s", diff)
	}
	for _, b := range append(days, values...) {
		if b.Count != 0 {
			t.Fatalf("bucket %q=%d; want 0", b.Label, b.Count)
		}
	}
}

func labelsOf(rows []BinRow) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Label
	}
	return out
}

func TestValueBands(t *testing.T) {
	t.Parallel()

	tbl := cases.Table{
		{ClaimValue: decimal.NewFromInt(75_000)},
		{}, // missing claim value decodes to zero
		{ClaimValue: decimal.NewFromInt(5_000)},
		{ClaimValue: decimal.RequireFromString("5000.01")},
		{ClaimValue: decimal.NewFromInt(100_000)},
		{ClaimValue: decimal.NewFromInt(250_000)},
		{ClaimValue: decimal.NewFromInt(-10)},
	}
	got := ValueHistogram(ValueBands(), Amounts(tbl, ClaimValue))
	want := []BinRow{
		{Label: "Até R$5 mil", Count: 3},
		{Label: "R$5 a R$20 mil", Count: 1},
		{Label: "R$20 a R$50 mil", Count: 0},
		{Label: "R$50 a R$100 mil", Count: 2},
		{Label: "Acima de R$100 mil", Count: 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ValueHistogram (-want +got):\n%s", diff)
	}
	if sum := Sum(tbl, ClaimValue); !sum.Equal(decimal.RequireFromString("435990.01")) {
		t.Fatalf("Sum=%s; want 435990.01", sum)
	}
}

func TestDaysBetween_IgnoresClock(t *testing.T) {
	t.Parallel()

	a := time.Date(2024, 2, 28, 23, 0, 0, 0, time.UTC)
	b := time.Date(2024, 3, 1, 1, 0, 0, 0, time.UTC)
	if got := DaysBetween(a, b); got != 2 {
		t.Fatalf("DaysBetween=%d; want 2", got)
	}
	if y, ok := Year(nil); ok || y != 0 {
		t.Fatalf("Year(nil)=%d,%v; want 0,false", y, ok)
	}
}
