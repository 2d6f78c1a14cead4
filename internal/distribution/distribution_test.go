package distribution

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/arthurrossibr/general-vision-simplified/internal/cases"
	"github.com/arthurrossibr/general-vision-simplified/internal/skiplog"
)

func TestByColumn_CountsDescending(t *testing.T) {
	t.Parallel()

	tbl := cases.Table{{Branch: "Civil"}, {Branch: "Civil"}, {Branch: "Trabalhista"}}
	got, err := ByColumn(tbl, cases.ColumnBranch, []string{"Ramo", "Total"}, Options{})
	if err != nil {
		t.Fatalf("ByColumn err=%v", err)
	}
	want := &Result{
		Columns: []string{"Ramo", "Total"},
		Rows:    []Row{{Category: "Civil", Count: 2}, {Category: "Trabalhista", Count: 1}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ByColumn (-want +got):\n%s", diff)
	}
}

func TestByColumn_FoldsTailIntoOther(t *testing.T) {
	t.Parallel()

	var tbl cases.Table
	for i := 1; i <= 7; i++ {
		tbl = append(tbl, cases.Record{Tribunal: fmt.Sprintf("TJ%d", i)})
	}
	got, err := ByColumn(tbl, cases.ColumnTribunal, []string{"Tribunal", "Total"}, Options{Fold: true, Cutoff: 5})
	if err != nil {
		t.Fatalf("ByColumn err=%v", err)
	}
	if len(got.Rows) != 6 {
		t.Fatalf("rows=%d; want 6", len(got.Rows))
	}
	last := got.Rows[5]
	if last.Category != OtherLabel || last.Count != 2 {
		t.Fatalf("last row=%+v; want {%s 2}", last, OtherLabel)
	}
	// Equal counts fall back to label order.
	if got.Rows[0].Category != "TJ1" || got.Rows[4].Category != "TJ5" {
		t.Fatalf("head=%q..%q; want TJ1..TJ5", got.Rows[0].Category, got.Rows[4].Category)
	}
}

func TestByColumn_UnknownColumnFailsFast(t *testing.T) {
	t.Parallel()

	_, err := ByColumn(cases.Table{{Branch: "Civil"}}, "no.such.column", []string{"A", "B"}, Options{})
	if !errors.Is(err, ErrUnknownColumn) {
		t.Fatalf("err=%v; want ErrUnknownColumn", err)
	}
	if _, err := ByColumn(cases.Table{}, cases.ColumnBranch, []string{"A"}, Options{}); err == nil {
		t.Fatalf("single output name: want error")
	}
}

func TestByColumn_EmptyInput(t *testing.T) {
	t.Parallel()

	got, err := ByColumn(cases.Table{}, cases.ColumnStatus, []string{"Status", "Total"}, Options{Percent: true})
	if err != nil {
		t.Fatalf("ByColumn err=%v", err)
	}
	want := &Result{Columns: []string{"Status", "Total", DefaultPercentName}, Rows: []Row{}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("empty (-want +got):\n%s", diff)
	}
}

func TestFold_Invariant(t *testing.T) {
	t.Parallel()

	for distinct := 1; distinct <= 12; distinct++ {
		var values []string
		total := 0
		for i := 0; i < distinct; i++ {
			for j := 0; j <= i%4; j++ {
				values = append(values, "c"+strconv.Itoa(i))
				total++
			}
		}
		for _, k := range []int{1, 3, 5} {
			rows := Apply(values, Options{Fold: true, Cutoff: k, OtherLabel: "OUTROS"})
			if distinct <= k {
				if len(rows) != distinct {
					t.Fatalf("distinct=%d k=%d rows=%d; want %d", distinct, k, len(rows), distinct)
				}
				continue
			}
			if len(rows) != k+1 {
				t.Fatalf("distinct=%d k=%d rows=%d; want %d", distinct, k, len(rows), k+1)
			}
			head := 0
			for _, r := range rows[:k] {
				head += r.Count
			}
			if other := rows[k]; other.Category != "OUTROS" || other.Count != total-head {
				t.Fatalf("distinct=%d k=%d other=%+v; want {OUTROS %d}", distinct, k, other, total-head)
			}
		}
	}
}

func TestApply_TopNHasNoOther(t *testing.T) {
	t.Parallel()

	rows := Apply([]string{"a", "a", "a", "b", "b", "c", "d"}, Options{TopN: 2, Percent: true})
	want := []Row{
		{Category: "a", Count: 3, Percentage: "60.00%"},
		{Category: "b", Count: 2, Percentage: "40.00%"},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Fatalf("Apply(TopN) (-want +got):\n%s", diff)
	}
}

func TestShares_SumToHundred(t *testing.T) {
	t.Parallel()

	tests := [][]int{
		{1, 1, 1},
		{1, 1, 1, 1, 1, 1, 1},
		{7, 3, 3, 2, 1, 1},
		{999, 1},
		{5},
	}
	for _, counts := range tests {
		sum := 0
		for _, s := range Shares(counts) {
			sum += s
		}
		if sum != 10000 {
			t.Fatalf("Shares(%v) sum=%d; want 10000", counts, sum)
		}
	}
	if got := Shares([]int{0, 0}); got[0] != 0 || got[1] != 0 {
		t.Fatalf("Shares(zeros)=%v; want [0 0]", got)
	}
	if got := FormatShare(3334); got != "33.34%" {
		t.Fatalf("FormatShare(3334)=%q; want 33.34%%", got)
	}
	if got := FormatShare(5); got != "0.05%" {
		t.Fatalf("FormatShare(5)=%q; want 0.05%%", got)
	}
}

func TestTopParties_CanonicalizesBeforeCounting(t *testing.T) {
	t.Parallel()

	tbl := cases.Table{
		{Parties: []cases.Party{{Name: "FULANO COMERCIO DE PRODUTOS LTDA"}, {Name: "Beltrano"}}},
		{Parties: []cases.Party{{Name: "Fulano Comércio de Produtos Ltda."}, {Name: "LTDA"}}},
	}
	drops := skiplog.New()
	got := TopParties(tbl, 10, drops)
	want := []Row{
		{Category: "FULANO COMERCIO DE PRODUTOS", Count: 2, Percentage: "66.67%"},
		{Category: "BELTRANO", Count: 1, Percentage: "33.33%"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("TopParties (-want +got):\n%s", diff)
	}
	if n := drops.Count(skiplog.ReasonEmptyName); n != 1 {
		t.Fatalf("empty names dropped=%d; want 1", n)
	}
}

func TestTopLawyers_RequiresBarNumber(t *testing.T) {
	t.Parallel()

	tbl := cases.Table{{Parties: []cases.Party{{Lawyers: []cases.Lawyer{
		{Name: "Ana Souza", BarNumber: "123"},
		{Name: "ana souza", BarNumber: "123"},
		{Name: "Sem Registro"},
	}}}}}
	got := TopLawyers(tbl, 1, skiplog.New())
	want := []Row{{Category: "ANA SOUZA", Count: 2, Percentage: "100.00%"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("TopLawyers (-want +got):\n%s", diff)
	}
}

func date(y int) *time.Time {
	t := time.Date(y, time.March, 1, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestTopPrincipalSubjects_IgnoresNonPrincipal(t *testing.T) {
	t.Parallel()

	var tbl cases.Table
	for i := 0; i < 10; i++ {
		tbl = append(tbl, cases.Record{Subjects: []cases.Subject{{Title: "Juros"}}})
	}
	tbl = append(tbl, cases.Record{Subjects: []cases.Subject{{Title: "Dano Moral", Principal: true}}})

	got := TopPrincipalSubjects(tbl, Options{Fold: true, Cutoff: 5, Percent: true})
	want := []Row{{Category: "Dano Moral", Count: 1, Percentage: "100.00%"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("TopPrincipalSubjects (-want +got):\n%s", diff)
	}
}

func TestTopPerYear(t *testing.T) {
	t.Parallel()

	principal := func(title string) cases.Subject { return cases.Subject{Title: title, Principal: true} }
	tbl := cases.Table{
		{DistributedOn: date(2021), Subjects: []cases.Subject{principal("A"), {Title: "Juros"}, {Title: "Juros"}}},
		{DistributedOn: date(2021), Subjects: []cases.Subject{principal("A")}},
		{DistributedOn: date(2021), Subjects: []cases.Subject{principal("B")}},
		{DistributedOn: date(2021), Subjects: []cases.Subject{principal("C")}},
		{DistributedOn: date(2021), Subjects: []cases.Subject{principal("D")}},
		{DistributedOn: date(2020), Subjects: []cases.Subject{principal("Z")}},
		{Subjects: []cases.Subject{principal("NoDate")}},
	}

	got := TopPerYear(tbl, 3)
	want := []YearRow{
		{Year: 2020, Category: "Z", Count: 1, Percentage: "100.00%"},
		{Year: 2021, Category: "A", Count: 2, Percentage: "50.00%"},
		{Year: 2021, Category: "B", Count: 1, Percentage: "25.00%"},
		{Year: 2021, Category: "C", Count: 1, Percentage: "25.00%"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("TopPerYear (-want +got):\n%s", diff)
	}

	top1 := TopPerYear(tbl, 1)
	if len(top1) != 2 || top1[1].Category != "A" || top1[1].Percentage != "100.00%" {
		t.Fatalf("TopPerYear(1)=%+v", top1)
	}
}

func TestPercentagesSumWithinTolerance(t *testing.T) {
	t.Parallel()

	var values []string
	for i := 0; i < 37; i++ {
		values = append(values, "v"+strconv.Itoa(i%11))
	}
	rows := Apply(values, Options{Fold: true, Cutoff: 5, Percent: true})
	sum := 0.0
	for _, r := range rows {
		f, err := strconv.ParseFloat(strings.TrimSuffix(r.Percentage, "%"), 64)
		if err != nil {
			t.Fatalf("parse %q: %v", r.Percentage, err)
		}
		sum += f
	}
	if sum < 99.98 || sum > 100.02 {
		t.Fatalf("percentage sum=%.4f; want 100.00±0.02", sum)
	}
}
