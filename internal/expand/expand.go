// Package expand explodes the one-to-many collections of a case table into
// row-per-child views. Every child row keeps its parent's process number so
// downstream joins can recover per-case context.
package expand

import (
	"errors"
	"fmt"

	"github.com/arthurrossibr/general-vision-simplified/internal/cases"
	"github.com/arthurrossibr/general-vision-simplified/internal/skiplog"
)

// ErrUnknownCollection is returned by Field for names that are not
// one-to-many collections of a case record.
var ErrUnknownCollection = errors.New("expand: unknown collection")

// Collection names accepted by Field.
const (
	CollectionParties   = "partes"
	CollectionLawyers   = "advogados"
	CollectionSubjects  = "assuntosCNJ"
	CollectionJudgments = "julgamentos"
)

// Child is one exploded element with a back-reference to its parent case.
type Child[T any] struct {
	Parent string // parent process number
	Index  int    // position of the parent record in the table
	Item   T
}

// Principal selects principal subjects only.
func Principal(s cases.Subject) bool { return s.Principal }

// Subjects explodes subjects. When keep is non-nil only subjects for which
// it returns true are emitted; the rest are excluded, not zero-weighted.
func Subjects(tbl cases.Table, keep func(cases.Subject) bool) []Child[cases.Subject] {
	var out []Child[cases.Subject]
	for i, r := range tbl {
		for _, s := range r.Subjects {
			if keep != nil && !keep(s) {
				continue
			}
			out = append(out, Child[cases.Subject]{Parent: r.ProcessNumber, Index: i, Item: s})
		}
	}
	return out
}

// Parties explodes every party of every case.
func Parties(tbl cases.Table) []Child[cases.Party] {
	var out []Child[cases.Party]
	for i, r := range tbl {
		for _, p := range r.Parties {
			out = append(out, Child[cases.Party]{Parent: r.ProcessNumber, Index: i, Item: p})
		}
	}
	return out
}

// Lawyers explodes parties and then their lawyers. Lawyers without a bar
// registration number are dropped and tallied in drops (which may be nil).
func Lawyers(tbl cases.Table, drops *skiplog.Stats) []Child[cases.Lawyer] {
	var out []Child[cases.Lawyer]
	for _, p := range Parties(tbl) {
		for _, l := range p.Item.Lawyers {
			if l.BarNumber == "" {
				drops.Add(skiplog.ReasonLawyerNoBarNumber, 1)
				continue
			}
			out = append(out, Child[cases.Lawyer]{Parent: p.Parent, Index: p.Index, Item: l})
		}
	}
	return out
}

// Judgments explodes the judgments of every case.
func Judgments(tbl cases.Table) []Child[cases.Judgment] {
	var out []Child[cases.Judgment]
	for i, r := range tbl {
		for _, j := range r.Judgments {
			out = append(out, Child[cases.Judgment]{Parent: r.ProcessNumber, Index: i, Item: j})
		}
	}
	return out
}

// Field explodes a collection chosen by name. Items are returned as their
// concrete types (cases.Party, cases.Lawyer, cases.Subject, cases.Judgment).
func Field(tbl cases.Table, name string) ([]Child[any], error) {
	switch name {
	case CollectionParties:
		return widen(Parties(tbl)), nil
	case CollectionLawyers:
		return widen(Lawyers(tbl, nil)), nil
	case CollectionSubjects:
		return widen(Subjects(tbl, nil)), nil
	case CollectionJudgments:
		return widen(Judgments(tbl)), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCollection, name)
	}
}

func widen[T any](in []Child[T]) []Child[any] {
	out := make([]Child[any], len(in))
	for i, c := range in {
		out[i] = Child[any]{Parent: c.Parent, Index: c.Index, Item: c.Item}
	}
	return out
}

// Values maps children to strings, dropping empty results.
func Values[T any](in []Child[T], get func(T) string) []string {
	out := make([]string, 0, len(in))
	for _, c := range in {
		if v := get(c.Item); v != "" {
			out = append(out, v)
		}
	}
	return out
}
