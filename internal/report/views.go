package report

import (
	"sort"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/arthurrossibr/general-vision-simplified/internal/binning"
	"github.com/arthurrossibr/general-vision-simplified/internal/cases"
	"github.com/arthurrossibr/general-vision-simplified/internal/distribution"
	"github.com/arthurrossibr/general-vision-simplified/internal/skiplog"
)

// views lists the builders of every view, in ViewNames order.
func (b *Builder) views() []view {
	d := b.def
	out := make([]view, 0, len(ViewNames()))

	out = append(out, view{ViewIndicators, func(in input, _ *skiplog.Stats) (*Table, error) {
		return indicatorTable(indicators(in)), nil
	}})
	for _, c := range d.Columns {
		out = append(out, view{c.View, func(in input, _ *skiplog.Stats) (*Table, error) {
			res, err := distribution.ByColumn(in.all, c.Column, c.Names, c.options(d.OtherLabel))
			if err != nil {
				return nil, err
			}
			return fromResult(res), nil
		}})
	}
	out = append(out,
		view{ViewByState, func(in input, _ *skiplog.Stats) (*Table, error) {
			return stateTable(in.all, d.States), nil
		}},
		view{ViewTopPrincipalSubjects, func(in input, _ *skiplog.Stats) (*Table, error) {
			rows := distribution.TopPrincipalSubjects(in.all, distribution.Options{
				Fold: true, Cutoff: d.SubjectCutoff, OtherLabel: d.OtherLabel, Percent: true,
			})
			return rankingTable([]string{"Assunto", "Total", "Percentual"}, rows), nil
		}},
		view{ViewTopParties, func(in input, drops *skiplog.Stats) (*Table, error) {
			rows := distribution.TopParties(in.all, d.TopParties, drops)
			return rankingTable([]string{"Parte", "Total", "Percentual"}, rows), nil
		}},
		view{ViewTopLawyers, func(in input, drops *skiplog.Stats) (*Table, error) {
			rows := distribution.TopLawyers(in.all, d.TopLawyers, drops)
			return rankingTable([]string{"Advogado", "Total", "Percentual"}, rows), nil
		}},
		view{ViewPrincipalSubjectsPerYear, func(in input, _ *skiplog.Stats) (*Table, error) {
			return yearTable(distribution.TopPerYear(in.all, d.PerYear)), nil
		}},
		view{ViewTopPrincipalSubjectPerYear, func(in input, _ *skiplog.Stats) (*Table, error) {
			return yearTable(distribution.TopPerYear(in.all, 1)), nil
		}},
		view{ViewDistributedVsArchived, func(in input, _ *skiplog.Stats) (*Table, error) {
			return distributedVsArchived(in.all), nil
		}},
		view{ViewDaysToArchival, func(in input, drops *skiplog.Stats) (*Table, error) {
			days := binning.Durations(in.all, binning.Distributed, binning.Archived)
			return binTable("Tempo até Arquivamento", binning.DayHistogram(d.Durations, days, drops)), nil
		}},
		view{ViewDaysToFinalJudgment, func(in input, drops *skiplog.Stats) (*Table, error) {
			days := binning.Durations(in.all, binning.Distributed, binning.FinalJudgment)
			return binTable("Tempo até Trânsito em Julgado", binning.DayHistogram(d.Durations, days, drops)), nil
		}},
		view{ViewClaimValueBands, func(in input, _ *skiplog.Stats) (*Table, error) {
			amounts := binning.Amounts(in.all, binning.ClaimValue)
			return binTable("Faixa de Valor da Causa", binning.ValueHistogram(d.Amounts, amounts)), nil
		}},
		view{ViewExecutionValueBands, func(in input, _ *skiplog.Stats) (*Table, error) {
			amounts := binning.Amounts(in.all, binning.ExecutionValue)
			return binTable("Faixa de Valor de Execução", binning.ValueHistogram(d.Amounts, amounts)), nil
		}},
	)
	return out
}

func indicators(in input) Indicators {
	amounts := func(f binning.AmountField) Amounts {
		return Amounts{
			Total:   binning.Sum(in.all, f),
			Active:  binning.Sum(in.active, f),
			Passive: binning.Sum(in.passive, f),
		}
	}
	return Indicators{
		Processes:      Counts{Total: len(in.all), Active: len(in.active), Passive: len(in.passive)},
		ClaimValue:     amounts(binning.ClaimValue),
		ExecutionValue: amounts(binning.ExecutionValue),
	}
}

func indicatorTable(ind Indicators) *Table {
	p, c, e := ind.Processes, ind.ClaimValue, ind.ExecutionValue
	return &Table{
		Columns: []string{"Indicador", "Total", "Ativo", "Passivo"},
		Rows: [][]any{
			{"processos", p.Total, p.Active, p.Passive},
			{"valor_causa", c.Total, c.Active, c.Passive},
			{"valor_execucao", e.Total, e.Active, e.Passive},
		},
	}
}

func fromResult(res *distribution.Result) *Table {
	percent := len(res.Columns) > 2
	t := &Table{Columns: res.Columns, Rows: make([][]any, 0, len(res.Rows))}
	for _, r := range res.Rows {
		t.Rows = append(t.Rows, rankingRow(r, percent))
	}
	return t
}

func rankingTable(cols []string, rows []distribution.Row) *Table {
	return fromResult(distribution.NewResult(rows, cols, true))
}

func rankingRow(r distribution.Row, percent bool) []any {
	if percent {
		return []any{r.Category, r.Count, r.Percentage}
	}
	return []any{r.Category, r.Count}
}

func yearTable(rows []distribution.YearRow) *Table {
	t := &Table{
		Columns: []string{"Ano", "Assunto", "Total", "Percentual"},
		Rows:    make([][]any, 0, len(rows)),
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{strconv.Itoa(r.Year), r.Category, r.Count, r.Percentage})
	}
	return t
}

func binTable(label string, rows []binning.BinRow) *Table {
	t := &Table{Columns: []string{label, "Total"}, Rows: make([][]any, 0, len(rows))}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{r.Label, r.Count})
	}
	return t
}

// stateTable counts cases and sums claim values per state code, then
// lists states in the given order with zeros for states without cases.
// Percentages are shares of every case that has a state code, including
// codes outside the list.
func stateTable(tbl cases.Table, states []string) *Table {
	type agg struct {
		count int
		value decimal.Decimal
	}
	byState := make(map[string]*agg)
	for _, r := range tbl {
		if r.State == "" {
			continue
		}
		a, ok := byState[r.State]
		if !ok {
			a = &agg{value: decimal.Zero}
			byState[r.State] = a
		}
		a.count++
		a.value = a.value.Add(r.ClaimValue)
	}

	codes := make([]string, 0, len(byState))
	for k := range byState {
		codes = append(codes, k)
	}
	sort.Strings(codes)
	counts := make([]int, len(codes))
	for i, k := range codes {
		counts[i] = byState[k].count
	}
	shares := make(map[string]int, len(codes))
	for i, s := range distribution.Shares(counts) {
		shares[codes[i]] = s
	}

	t := &Table{
		Columns: []string{"UF", "Total", "Valor Total", "Percentual"},
		Rows:    make([][]any, 0, len(states)),
	}
	for _, uf := range states {
		count, value := 0, decimal.Zero
		if a, ok := byState[uf]; ok {
			count, value = a.count, a.value
		}
		t.Rows = append(t.Rows, []any{uf, count, value, distribution.FormatShare(shares[uf])})
	}
	return t
}

// distributedVsArchived counts distributions and archivals per calendar
// year and sums the claim value of each side. Years ascend and cover every
// year seen on either side.
func distributedVsArchived(tbl cases.Table) *Table {
	type side struct {
		count int
		value decimal.Decimal
	}
	dist := make(map[int]*side)
	arch := make(map[int]*side)
	add := func(m map[int]*side, year int, v decimal.Decimal) {
		s, ok := m[year]
		if !ok {
			s = &side{value: decimal.Zero}
			m[year] = s
		}
		s.count++
		s.value = s.value.Add(v)
	}
	for _, r := range tbl {
		if y, ok := binning.Year(r.DistributedOn); ok {
			add(dist, y, r.ClaimValue)
		}
		if y, ok := binning.Year(r.ArchivedOn); ok {
			add(arch, y, r.ClaimValue)
		}
	}

	years := make([]int, 0, len(dist)+len(arch))
	for y := range dist {
		years = append(years, y)
	}
	for y := range arch {
		if _, ok := dist[y]; !ok {
			years = append(years, y)
		}
	}
	sort.Ints(years)

	get := func(m map[int]*side, y int) (int, decimal.Decimal) {
		if s, ok := m[y]; ok {
			return s.count, s.value
		}
		return 0, decimal.Zero
	}
	t := &Table{
		Columns: []string{"Ano", "Distribuídos", "Arquivados", "Valor Distribuído", "Valor Arquivado"},
		Rows:    make([][]any, 0, len(years)),
	}
	for _, y := range years {
		dc, dv := get(dist, y)
		ac, av := get(arch, y)
		t.Rows = append(t.Rows, []any{strconv.Itoa(y), dc, ac, dv, av})
	}
	return t
}
