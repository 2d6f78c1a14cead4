package distribution

import (
	"sort"

	"github.com/arthurrossibr/general-vision-simplified/internal/binning"
	"github.com/arthurrossibr/general-vision-simplified/internal/cases"
)

// DefaultPerYear is how many principal subjects are kept per year.
const DefaultPerYear = 3

// YearRow is one subject's count within one distribution year.
type YearRow struct {
	Year       int    `json:"year"`
	Category   string `json:"category"`
	Count      int    `json:"count"`
	Percentage string `json:"percentage"`
}

// TopPerYear ranks principal subject titles within each distribution
// year and keeps the first n per year. Records without a distribution date
// are left out. Years ascend; within a year rows follow Count ordering and
// percentages are shares of the rows kept for that year.
func TopPerYear(tbl cases.Table, n int) []YearRow {
	if n <= 0 {
		n = DefaultPerYear
	}
	byYear := make(map[int][]string)
	for _, r := range tbl {
		year, ok := binning.Year(r.DistributedOn)
		if !ok {
			continue
		}
		for _, s := range r.Subjects {
			if !s.Principal || s.Title == "" {
				continue
			}
			byYear[year] = append(byYear[year], s.Title)
		}
	}

	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)

	out := make([]YearRow, 0, len(years)*n)
	for _, y := range years {
		rows := Apply(byYear[y], Options{TopN: n, Percent: true})
		for _, r := range rows {
			out = append(out, YearRow{Year: y, Category: r.Category, Count: r.Count, Percentage: r.Percentage})
		}
	}
	return out
}
