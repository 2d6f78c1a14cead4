package cases

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sampleTable() Table {
	return Table{
		{
			ProcessNumber: "1", Branch: "Civil", Tribunal: "TJSP",
			Parties: []Party{
				{Role: RoleActive, TaxID: "K"},
				{Role: RolePassive, TaxID: "Z"},
			},
			Judgments: []Judgment{{Type: "Procedente"}, {Type: ""}},
			Subjects:  []Subject{{Title: "A", Principal: true}, {Title: "B"}},
		},
		{
			ProcessNumber: "2", Branch: "Civil",
			Parties: []Party{{Role: RolePassive, TaxID: "K"}},
		},
		{
			ProcessNumber: "3", Branch: "Trabalhista",
			Parties:   []Party{{Role: RoleActive, TaxID: "K"}, {Role: RolePassive, TaxID: "K"}},
			Judgments: []Judgment{{Type: "Improcedente"}},
		},
	}
}

func TestTableColumn(t *testing.T) {
	t.Parallel()

	tbl := sampleTable()
	tests := []struct {
		column string
		want   []string
	}{
		{ColumnBranch, []string{"Civil", "Civil", "Trabalhista"}},
		{ColumnTribunal, []string{"TJSP"}},
		{ColumnJudgmentType, []string{"Procedente", "Improcedente"}},
		{ColumnSubjectTitle, []string{"A", "B"}},
		{ColumnProcessNumber, []string{"1", "2", "3"}},
	}
	for _, tt := range tests {
		got, ok := tbl.Column(tt.column)
		if !ok {
			t.Fatalf("Column(%q) unknown", tt.column)
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Fatalf("Column(%q) (-want +got):\n%s", tt.column, diff)
		}
	}

	if _, ok := tbl.Column("statusPredictus.nope"); ok {
		t.Fatalf("unknown column should report false")
	}
	if HasColumn("nope") || !HasColumn(ColumnDegree) {
		t.Fatalf("HasColumn mismatch")
	}
}

func TestTableWithParty_RolesAreIndependent(t *testing.T) {
	t.Parallel()

	tbl := sampleTable()
	active := tbl.WithParty(RoleActive, "K")
	passive := tbl.WithParty(RolePassive, "K")

	ids := func(t Table) []string {
		out := []string{}
		for _, r := range t {
			out = append(out, r.ProcessNumber)
		}
		return out
	}
	if diff := cmp.Diff([]string{"1", "3"}, ids(active)); diff != "" {
		t.Fatalf("active (-want +got):\n%s", diff)
	}
	// Record 3 matches both roles; record 1 matches only ACTIVE.
	if diff := cmp.Diff([]string{"2", "3"}, ids(passive)); diff != "" {
		t.Fatalf("passive (-want +got):\n%s", diff)
	}
	if got := tbl.WithParty(RoleActive, "missing"); len(got) != 0 {
		t.Fatalf("unknown key should match nothing, got %d", len(got))
	}
}
