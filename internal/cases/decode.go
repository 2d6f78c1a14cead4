package cases

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/arthurrossibr/general-vision-simplified/internal/skiplog"
	"github.com/arthurrossibr/general-vision-simplified/pkg/records"
)

// Source field paths.
const (
	PathProcessNumber   = "numeroProcessoUnico"
	PathTribunal        = "tribunal"
	PathBranch          = "statusPredictus.ramoDireito"
	PathStatus          = "statusPredictus.statusProcesso"
	PathClass           = "classeProcessual.nome"
	PathSegment         = "segmento"
	PathDegree          = "grauProcesso"
	PathState           = "uf"
	PathClaimValue      = "valorCausa.valor"
	PathExecutionValue  = "statusPredictus.valorExecucao.valor"
	PathDistributedOn   = "dataDistribuicao"
	PathArchivedOn      = "statusPredictus.dataArquivamento"
	PathFinalJudgmentOn = "statusPredictus.dataTransitoJulgado"
	PathParties         = "partes"
	PathSubjects        = "assuntosCNJ"
	PathJudgments       = "statusPredictus.julgamentos"
)

// dateLayouts are tried in order; the first that parses wins.
var dateLayouts = [...]string{
	"2006-01-02",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"02/01/2006",
}

// Decode builds a typed Record from a raw JSON record. It never fails:
// malformed children are dropped and tallied in drops (which may be nil),
// unparsable dates become nil and non-numeric amounts become zero.
func Decode(r records.Record, drops *skiplog.Stats) Record {
	rec := Record{
		ProcessNumber:  text(r, PathProcessNumber),
		Tribunal:       text(r, PathTribunal),
		Branch:         text(r, PathBranch),
		Status:         text(r, PathStatus),
		Class:          text(r, PathClass),
		Segment:        text(r, PathSegment),
		Degree:         text(r, PathDegree),
		State:          text(r, PathState),
		ClaimValue:     Money(lookup(r, PathClaimValue)),
		ExecutionValue: Money(lookup(r, PathExecutionValue)),
	}
	rec.DistributedOn = date(r, PathDistributedOn, drops)
	rec.ArchivedOn = date(r, PathArchivedOn, drops)
	rec.FinalJudgmentOn = date(r, PathFinalJudgmentOn, drops)

	if items, ok := r.Slice(PathParties); ok {
		rec.Parties = decodeParties(items, drops)
	}
	if items, ok := r.Slice(PathSubjects); ok {
		rec.Subjects = decodeSubjects(items, drops)
	}
	if items, ok := r.Slice(PathJudgments); ok {
		rec.Judgments = decodeJudgments(items, drops)
	}
	return rec
}

// DecodeAll decodes every raw record in order.
func DecodeAll(in []records.Record, drops *skiplog.Stats) Table {
	out := make(Table, 0, len(in))
	for _, r := range in {
		out = append(out, Decode(r, drops))
	}
	return out
}

func decodeParties(items []any, drops *skiplog.Stats) []Party {
	out := make([]Party, 0, len(items))
	for _, it := range items {
		obj, ok := records.Object(it)
		if !ok {
			drops.Add(skiplog.ReasonPartyNotObject, 1)
			continue
		}
		p := Party{
			Role:  Role(text(obj, "polo")),
			TaxID: text(obj, "cnpj"),
			Name:  text(obj, "nome"),
		}
		if lawyers, ok := obj.Slice("advogados"); ok {
			p.Lawyers = decodeLawyers(lawyers, drops)
		}
		out = append(out, p)
	}
	return out
}

func decodeLawyers(items []any, drops *skiplog.Stats) []Lawyer {
	out := make([]Lawyer, 0, len(items))
	for _, it := range items {
		obj, ok := records.Object(it)
		if !ok {
			drops.Add(skiplog.ReasonLawyerNotObject, 1)
			continue
		}
		out = append(out, Lawyer{
			Name:      text(obj, "nome"),
			BarNumber: text(obj, "oab.numero"),
		})
	}
	return out
}

func decodeSubjects(items []any, drops *skiplog.Stats) []Subject {
	out := make([]Subject, 0, len(items))
	for _, it := range items {
		obj, ok := records.Object(it)
		if !ok {
			drops.Add(skiplog.ReasonSubjectNotObject, 1)
			continue
		}
		title := text(obj, "titulo")
		if title == "" {
			drops.Add(skiplog.ReasonSubjectNoTitle, 1)
			continue
		}
		principal, _ := obj["ePrincipal"].(bool)
		out = append(out, Subject{Title: title, Principal: principal})
	}
	return out
}

func decodeJudgments(items []any, drops *skiplog.Stats) []Judgment {
	out := make([]Judgment, 0, len(items))
	for _, it := range items {
		obj, ok := records.Object(it)
		if !ok {
			drops.Add(skiplog.ReasonJudgmentNotObject, 1)
			continue
		}
		out = append(out, Judgment{Type: text(obj, "tipoJulgamento")})
	}
	return out
}

// Money converts a JSON amount to a decimal. JSON numbers, numeric strings
// and Go numeric types are accepted; anything else is zero.
func Money(v any) decimal.Decimal {
	switch n := v.(type) {
	case json.Number:
		if d, err := decimal.NewFromString(n.String()); err == nil {
			return d
		}
	case float64:
		return decimal.NewFromFloat(n)
	case int:
		return decimal.NewFromInt(int64(n))
	case int64:
		return decimal.NewFromInt(n)
	case string:
		if d, err := decimal.NewFromString(strings.TrimSpace(n)); err == nil {
			return d
		}
	}
	return decimal.Zero
}

// ParseDate parses a date value with the accepted layouts. The result is
// truncated to the calendar day in UTC.
func ParseDate(v any) (time.Time, bool) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

func date(r records.Record, path string, drops *skiplog.Stats) *time.Time {
	v, ok := r.Lookup(path)
	if !ok {
		return nil
	}
	t, ok := ParseDate(v)
	if !ok {
		drops.Add(skiplog.ReasonBadDate, 1)
		return nil
	}
	return &t
}

func lookup(r records.Record, path string) any {
	v, _ := r.Lookup(path)
	return v
}

func text(r records.Record, path string) string {
	s, ok := r.Text(path)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}
