package distribution

import (
	"github.com/arthurrossibr/general-vision-simplified/internal/canonical"
	"github.com/arthurrossibr/general-vision-simplified/internal/cases"
	"github.com/arthurrossibr/general-vision-simplified/internal/expand"
	"github.com/arthurrossibr/general-vision-simplified/internal/skiplog"
)

// DefaultTopN is the head size of the party and lawyer rankings.
const DefaultTopN = 10

// TopPrincipalSubjects ranks the titles of principal subjects. Non-principal
// subjects never take part. opt usually folds at 5 with percentages.
func TopPrincipalSubjects(tbl cases.Table, opt Options) []Row {
	subjects := expand.Subjects(tbl, expand.Principal)
	titles := expand.Values(subjects, func(s cases.Subject) string { return s.Title })
	return Apply(titles, opt)
}

// TopParties ranks party names by canonical key, keeping the first n rows
// with percentages over those rows. Parties of every role count.
func TopParties(tbl cases.Table, n int, drops *skiplog.Stats) []Row {
	parties := expand.Parties(tbl)
	names := canonicalNames(expand.Values(parties, func(p cases.Party) string { return p.Name }), drops)
	return Apply(names, Options{TopN: topN(n), Percent: true})
}

// TopLawyers ranks lawyer names by canonical key. Lawyers without a bar
// number are dropped before counting.
func TopLawyers(tbl cases.Table, n int, drops *skiplog.Stats) []Row {
	lawyers := expand.Lawyers(tbl, drops)
	names := canonicalNames(expand.Values(lawyers, func(l cases.Lawyer) string { return l.Name }), drops)
	return Apply(names, Options{TopN: topN(n), Percent: true})
}

// canonicalNames maps names to their canonical keys, dropping names that
// reduce to nothing (e.g. a bare "LTDA").
func canonicalNames(names []string, drops *skiplog.Stats) []string {
	out := names[:0:0]
	for _, n := range names {
		key := canonical.Name(n)
		if key == "" {
			drops.Add(skiplog.ReasonEmptyName, 1)
			continue
		}
		out = append(out, key)
	}
	return out
}

func topN(n int) int {
	if n <= 0 {
		return DefaultTopN
	}
	return n
}
