package report

import (
	"fmt"

	"github.com/arthurrossibr/general-vision-simplified/internal/binning"
	"github.com/arthurrossibr/general-vision-simplified/internal/cases"
	"github.com/arthurrossibr/general-vision-simplified/internal/config"
	"github.com/arthurrossibr/general-vision-simplified/internal/datasource/file"
	"github.com/arthurrossibr/general-vision-simplified/internal/distribution"
)

// View names. They are part of the output contract and never change.
const (
	ViewIndicators                 = "indicators"
	ViewByBranch                   = "distribution_by_branch"
	ViewByStatus                   = "distribution_by_status"
	ViewByTribunal                 = "distribution_by_tribunal"
	ViewByJudgment                 = "distribution_by_judgment"
	ViewByClass                    = "distribution_by_class"
	ViewBySegment                  = "distribution_by_segment"
	ViewByDegree                   = "distribution_by_degree"
	ViewBySubject                  = "distribution_by_subject"
	ViewByState                    = "distribution_by_state"
	ViewTopPrincipalSubjects       = "top_principal_subjects"
	ViewTopParties                 = "top_parties"
	ViewTopLawyers                 = "top_lawyers"
	ViewPrincipalSubjectsPerYear   = "principal_subjects_per_year"
	ViewTopPrincipalSubjectPerYear = "top_principal_subject_per_year"
	ViewDistributedVsArchived      = "distributed_vs_archived"
	ViewDaysToArchival             = "days_to_archival_buckets"
	ViewDaysToFinalJudgment        = "days_to_final_judgment_buckets"
	ViewClaimValueBands            = "claim_value_bands"
	ViewExecutionValueBands        = "execution_value_bands"
)

// ViewNames lists every view of a report in output order.
func ViewNames() []string {
	return []string{
		ViewIndicators,
		ViewByBranch, ViewByStatus, ViewByTribunal, ViewByJudgment,
		ViewByClass, ViewBySegment, ViewByDegree, ViewBySubject,
		ViewByState,
		ViewTopPrincipalSubjects, ViewTopParties, ViewTopLawyers,
		ViewPrincipalSubjectsPerYear, ViewTopPrincipalSubjectPerYear,
		ViewDistributedVsArchived,
		ViewDaysToArchival, ViewDaysToFinalJudgment,
		ViewClaimValueBands, ViewExecutionValueBands,
	}
}

// ColumnView is one column distribution of the report.
type ColumnView struct {
	View   string
	Column string
	// Names are the output column names: category, count and an optional
	// percentage name. A third name turns percentages on.
	Names  []string
	Fold   bool
	Cutoff int
}

func (c ColumnView) options(otherLabel string) distribution.Options {
	return distribution.Options{
		Fold:       c.Fold,
		Cutoff:     c.Cutoff,
		OtherLabel: otherLabel,
		Percent:    len(c.Names) > 2,
	}
}

// Definition fixes the shape of every view. Builders keep their own copy,
// so changing a Definition after NewBuilder has no effect on it.
type Definition struct {
	OtherLabel string

	Columns []ColumnView

	// SubjectCutoff folds the principal subject ranking.
	SubjectCutoff int
	TopParties    int
	TopLawyers    int
	PerYear       int

	// States left-fills the per-state distribution, in output order.
	States []string

	Durations binning.DayScheme
	Amounts   binning.ValueScheme
}

// DefaultStates returns the 27 Brazilian federative unit codes.
func DefaultStates() []string {
	return []string{
		"AC", "AL", "AP", "AM", "BA", "CE", "DF", "ES", "GO", "MA",
		"MT", "MS", "MG", "PA", "PB", "PR", "PE", "PI", "RJ", "RN",
		"RS", "RO", "RR", "SC", "SP", "SE", "TO",
	}
}

// DefaultColumns returns the eight column distributions: branch, tribunal,
// class and segment fold at distribution.DefaultCutoff, the rest are
// complete.
func DefaultColumns() []ColumnView {
	c := distribution.DefaultCutoff
	return []ColumnView{
		{View: ViewByBranch, Column: cases.ColumnBranch, Names: []string{"Ramo", "Total"}, Fold: true, Cutoff: c},
		{View: ViewByStatus, Column: cases.ColumnStatus, Names: []string{"Status", "Total"}},
		{View: ViewByTribunal, Column: cases.ColumnTribunal, Names: []string{"Tribunal", "Total"}, Fold: true, Cutoff: c},
		{View: ViewByJudgment, Column: cases.ColumnJudgmentType, Names: []string{"Julgamento", "Total"}},
		{View: ViewByClass, Column: cases.ColumnClass, Names: []string{"Classe Processual", "Total"}, Fold: true, Cutoff: c},
		{View: ViewBySegment, Column: cases.ColumnSegment, Names: []string{"Segmento", "Total"}, Fold: true, Cutoff: c},
		{View: ViewByDegree, Column: cases.ColumnDegree, Names: []string{"Grau", "Total"}},
		{View: ViewBySubject, Column: cases.ColumnSubjectTitle, Names: []string{"Assunto", "Total"}},
	}
}

// DefaultDefinition returns the standard report.
func DefaultDefinition() Definition {
	return Definition{
		OtherLabel:    distribution.OtherLabel,
		Columns:       DefaultColumns(),
		SubjectCutoff: distribution.DefaultCutoff,
		TopParties:    distribution.DefaultTopN,
		TopLawyers:    distribution.DefaultTopN,
		PerYear:       distribution.DefaultPerYear,
		States:        DefaultStates(),
		Durations:     binning.MonthRanges(),
		Amounts:       binning.ValueBands(),
	}
}

// FromConfig applies the report section of a pipeline to the default
// definition. Zero values keep the defaults. A states file is read here,
// once, so building never does I/O.
func FromConfig(r config.Report) (Definition, error) {
	def := DefaultDefinition()
	if r.OtherLabel != "" {
		def.OtherLabel = r.OtherLabel
	}
	if r.Cutoff > 0 {
		def.SubjectCutoff = r.Cutoff
		for i := range def.Columns {
			if def.Columns[i].Fold {
				def.Columns[i].Cutoff = r.Cutoff
			}
		}
	}
	if r.TopParties > 0 {
		def.TopParties = r.TopParties
	}
	if r.TopLawyers > 0 {
		def.TopLawyers = r.TopLawyers
	}
	if r.PerYear > 0 {
		def.PerYear = r.PerYear
	}

	switch {
	case r.StatesFile != "":
		states, err := file.ReadList(r.StatesFile)
		if err != nil {
			return Definition{}, fmt.Errorf("report: states: %w", err)
		}
		def.States = states
	case len(r.States) > 0:
		def.States = append([]string(nil), r.States...)
	}

	for view, o := range r.Distributions {
		i := def.column(view)
		if i < 0 {
			return Definition{}, fmt.Errorf("report: distributions: %q is not a column distribution view", view)
		}
		c := &def.Columns[i]
		if len(o.Names) > 0 {
			c.Names = append([]string(nil), o.Names...)
		}
		if o.Fold != nil {
			c.Fold = *o.Fold
		}
		if o.Cutoff > 0 {
			c.Cutoff = o.Cutoff
		}
	}
	return def, nil
}

func (d Definition) column(view string) int {
	for i, c := range d.Columns {
		if c.View == view {
			return i
		}
	}
	return -1
}

// clone returns a copy sharing no slices with d.
func (d Definition) clone() Definition {
	out := d
	out.Columns = make([]ColumnView, len(d.Columns))
	for i, c := range d.Columns {
		c.Names = append([]string(nil), c.Names...)
		out.Columns[i] = c
	}
	out.States = append([]string(nil), d.States...)
	return out
}

// check reports definition bugs: unknown columns, bad output names and
// column views missing from the report.
func (d Definition) check() error {
	seen := make(map[string]bool, len(d.Columns))
	for _, c := range d.Columns {
		if !cases.HasColumn(c.Column) {
			return fmt.Errorf("%w: view %s: %q", distribution.ErrUnknownColumn, c.View, c.Column)
		}
		if n := len(c.Names); n < 2 || n > 3 {
			return fmt.Errorf("report: view %s: want 2 or 3 output names, got %d", c.View, n)
		}
		seen[c.View] = true
	}
	for _, v := range DefaultColumns() {
		if !seen[v.View] {
			return fmt.Errorf("report: view %s is not defined", v.View)
		}
	}
	return nil
}
