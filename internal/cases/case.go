// Package cases holds the typed lawsuit schema: one Record per case with
// its parties, lawyers, subjects and judgments. Records are built once at
// load time by Decode and are treated as immutable afterwards.
package cases

import (
	"time"

	"github.com/shopspring/decimal"
)

// Role is a party's procedural position in a case.
type Role string

const (
	RoleActive  Role = "ATIVO"
	RolePassive Role = "PASSIVO"
)

// Record is one lawsuit.
type Record struct {
	ProcessNumber string `json:"numeroProcessoUnico"`
	Tribunal      string `json:"tribunal"`
	Branch        string `json:"ramoDireito"`
	Status        string `json:"statusProcesso"`
	Class         string `json:"classeProcessual"`
	Segment       string `json:"segmento"`
	Degree        string `json:"grauProcesso"`
	State         string `json:"uf"`

	// Missing or non-numeric amounts decode to zero.
	ClaimValue     decimal.Decimal `json:"valorCausa"`
	ExecutionValue decimal.Decimal `json:"valorExecucao"`

	// Missing or unparsable dates decode to nil.
	DistributedOn   *time.Time `json:"dataDistribuicao,omitempty"`
	ArchivedOn      *time.Time `json:"dataArquivamento,omitempty"`
	FinalJudgmentOn *time.Time `json:"dataTransitoJulgado,omitempty"`

	Parties   []Party    `json:"partes"`
	Subjects  []Subject  `json:"assuntosCNJ"`
	Judgments []Judgment `json:"julgamentos"`
}

// Party is a litigant; it only exists inside its parent Record.
type Party struct {
	Role    Role     `json:"polo"`
	TaxID   string   `json:"cnpj"`
	Name    string   `json:"nome"`
	Lawyers []Lawyer `json:"advogados"`
}

// Lawyer represents a party's counsel. BarNumber is the OAB registration.
type Lawyer struct {
	Name      string `json:"nome"`
	BarNumber string `json:"oab"`
}

// Subject is a CNJ classification tag; Principal marks the primary one.
type Subject struct {
	Title     string `json:"titulo"`
	Principal bool   `json:"ePrincipal"`
}

// Judgment is one ruling recorded for the case.
type Judgment struct {
	Type string `json:"tipoJulgamento"`
}

// HasParty reports whether a party with role and taxID appears in the case.
// taxID is compared verbatim.
func (r Record) HasParty(role Role, taxID string) bool {
	for _, p := range r.Parties {
		if p.Role == role && p.TaxID == taxID {
			return true
		}
	}
	return false
}
