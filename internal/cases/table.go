package cases

// Table is the flattened case-record table of one run.
type Table []Record

// Column names accepted by Table.Column. They mirror the source field paths
// so report definitions read like the input documents.
const (
	ColumnProcessNumber = PathProcessNumber
	ColumnTribunal      = PathTribunal
	ColumnBranch        = PathBranch
	ColumnStatus        = PathStatus
	ColumnClass         = PathClass
	ColumnSegment       = PathSegment
	ColumnDegree        = PathDegree
	ColumnState         = PathState
	ColumnJudgmentType  = PathJudgments + ".tipoJulgamento"
	ColumnSubjectTitle  = PathSubjects + ".titulo"
)

// extractor returns the per-record value function for a column. Nested
// columns yield one value per child; empty values are never yielded.
func extractor(column string) (func(Record, []string) []string, bool) {
	scalar := func(get func(Record) string) func(Record, []string) []string {
		return func(r Record, dst []string) []string {
			if v := get(r); v != "" {
				dst = append(dst, v)
			}
			return dst
		}
	}

	switch column {
	case ColumnProcessNumber:
		return scalar(func(r Record) string { return r.ProcessNumber }), true
	case ColumnTribunal:
		return scalar(func(r Record) string { return r.Tribunal }), true
	case ColumnBranch:
		return scalar(func(r Record) string { return r.Branch }), true
	case ColumnStatus:
		return scalar(func(r Record) string { return r.Status }), true
	case ColumnClass:
		return scalar(func(r Record) string { return r.Class }), true
	case ColumnSegment:
		return scalar(func(r Record) string { return r.Segment }), true
	case ColumnDegree:
		return scalar(func(r Record) string { return r.Degree }), true
	case ColumnState:
		return scalar(func(r Record) string { return r.State }), true
	case ColumnJudgmentType:
		return func(r Record, dst []string) []string {
			for _, j := range r.Judgments {
				if j.Type != "" {
					dst = append(dst, j.Type)
				}
			}
			return dst
		}, true
	case ColumnSubjectTitle:
		return func(r Record, dst []string) []string {
			for _, s := range r.Subjects {
				dst = append(dst, s.Title)
			}
			return dst
		}, true
	}
	return nil, false
}

// HasColumn reports whether column is a known column name.
func HasColumn(column string) bool {
	_, ok := extractor(column)
	return ok
}

// Column returns every non-empty value of column across the table, in
// record order. It reports false for unknown column names.
func (t Table) Column(column string) ([]string, bool) {
	get, ok := extractor(column)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(t))
	for _, r := range t {
		out = get(r, out)
	}
	return out, true
}

// WithParty returns the records in which a party with role has taxID.
// The result shares Record values with t; neither is modified.
func (t Table) WithParty(role Role, taxID string) Table {
	out := make(Table, 0)
	for _, r := range t {
		if r.HasParty(role, taxID) {
			out = append(out, r)
		}
	}
	return out
}
