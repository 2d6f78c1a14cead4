package binning

import (
	"github.com/shopspring/decimal"

	"github.com/arthurrossibr/general-vision-simplified/internal/cases"
)

// AmountField selects one monetary amount of a case. Missing and
// non-numeric amounts were already decoded as zero, so unlike dates every
// record contributes a value.
type AmountField func(cases.Record) decimal.Decimal

// Amount fields of a case record.
var (
	ClaimValue     AmountField = func(r cases.Record) decimal.Decimal { return r.ClaimValue }
	ExecutionValue AmountField = func(r cases.Record) decimal.Decimal { return r.ExecutionValue }
)

// Amounts returns field for every record in order.
func Amounts(tbl cases.Table, field AmountField) []decimal.Decimal {
	out := make([]decimal.Decimal, len(tbl))
	for i, r := range tbl {
		out[i] = field(r)
	}
	return out
}

// Sum adds field over every record.
func Sum(tbl cases.Table, field AmountField) decimal.Decimal {
	total := decimal.Zero
	for _, r := range tbl {
		total = total.Add(field(r))
	}
	return total
}

// ValueHistogram classifies amounts with s.
func ValueHistogram(s ValueScheme, amounts []decimal.Decimal) []BinRow {
	idx := make([]int, len(amounts))
	for i, v := range amounts {
		idx[i] = s.Index(v)
	}
	return histogram(s.Labels(), idx)
}
