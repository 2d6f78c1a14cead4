package distribution

import (
	"fmt"
	"sort"
)

// Shares splits 100% across counts in hundredths of a percent (basis
// points of 0.01%). Each share is floored and the leftover hundredths go to
// the largest remainders (earlier index first on ties), so non-empty input
// always sums to exactly 10000.
func Shares(counts []int) []int {
	out := make([]int, len(counts))
	total := 0
	for _, c := range counts {
		total += c
	}
	if total <= 0 {
		return out
	}

	rem := make([]int, len(counts))
	given := 0
	for i, c := range counts {
		num := 10000 * c
		out[i] = num / total
		rem[i] = num % total
		given += out[i]
	}

	order := make([]int, len(counts))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return rem[order[a]] > rem[order[b]] })
	for k := 0; given < 10000 && k < len(order); k++ {
		out[order[k]]++
		given++
	}
	return out
}

// FormatShare renders hundredths of a percent as "12.34%".
func FormatShare(hundredths int) string {
	return fmt.Sprintf("%d.%02d%%", hundredths/100, hundredths%100)
}

// Annotate sets Percentage on every row to its share of the rows' total.
func Annotate(rows []Row) {
	counts := make([]int, len(rows))
	for i, r := range rows {
		counts[i] = r.Count
	}
	for i, s := range Shares(counts) {
		rows[i].Percentage = FormatShare(s)
	}
}
