// Package report builds the aggregate views of one case snapshot for one
// filter key.
//
// A Builder runs every view of its Definition concurrently over the same
// immutable snapshot. Views share no state: each gets the snapshot tables
// and its own drop tally, and writes only its own result slot. Every view
// name is present in every report, with empty or zero-filled tables when
// there is no data.
package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/arthurrossibr/general-vision-simplified/internal/cases"
	"github.com/arthurrossibr/general-vision-simplified/internal/metrics"
	"github.com/arthurrossibr/general-vision-simplified/internal/skiplog"
	"github.com/arthurrossibr/general-vision-simplified/internal/store"
)

// Table is one view: named columns and positional rows.
type Table struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// Counts splits a process count by the filter key's role.
type Counts struct {
	Total   int `json:"total"`
	Active  int `json:"active"`
	Passive int `json:"passive"`
}

// Amounts splits a money sum by the filter key's role.
type Amounts struct {
	Total   decimal.Decimal `json:"total"`
	Active  decimal.Decimal `json:"active"`
	Passive decimal.Decimal `json:"passive"`
}

// Indicators are the headline figures of a report.
type Indicators struct {
	Processes      Counts  `json:"processes"`
	ClaimValue     Amounts `json:"claim_value"`
	ExecutionValue Amounts `json:"execution_value"`
}

// Report is the result of one build. It is never modified after Build
// returns and may be shared.
type Report struct {
	RunID       string            `json:"run_id"`
	SnapshotID  string            `json:"snapshot_id"`
	FilterKey   string            `json:"filter_key"`
	GeneratedAt time.Time         `json:"generated_at"`
	Records     int               `json:"records"`
	Indicators  Indicators        `json:"indicators"`
	Views       map[string]*Table `json:"views"`
	Drops       map[string]int    `json:"drops,omitempty"`
}

// Builder computes reports for one Definition.
type Builder struct {
	def Definition
	job string
	log *zap.Logger
	now func() time.Time
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the builder's logger.
func WithLogger(l *zap.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.log = l
		}
	}
}

// WithJob sets the job label of the builder's metrics.
func WithJob(job string) Option {
	return func(b *Builder) { b.job = job }
}

// NewBuilder checks def and returns a Builder holding a private copy of it.
// Definition bugs such as unknown columns fail here rather than per build.
func NewBuilder(def Definition, opts ...Option) (*Builder, error) {
	def = def.clone()
	if len(def.Durations.Labels()) == 0 {
		def.Durations = DefaultDefinition().Durations
	}
	if len(def.Amounts.Labels()) == 0 {
		def.Amounts = DefaultDefinition().Amounts
	}
	if err := def.check(); err != nil {
		return nil, err
	}
	b := &Builder{def: def, log: zap.NewNop(), now: time.Now}
	for _, o := range opts {
		o(b)
	}
	return b, nil
}

// input is what every view reads. Tables share records with the snapshot.
type input struct {
	all, active, passive cases.Table
}

type view struct {
	name  string
	build func(in input, drops *skiplog.Stats) (*Table, error)
}

// Build computes every view of the report for filterKey. The key is
// compared verbatim with party tax IDs; an empty key yields empty role
// subsets. Bad data never fails a build; only definition bugs and
// cancellation do.
func (b *Builder) Build(ctx context.Context, snap *store.Snapshot, filterKey string) (*Report, error) {
	if snap == nil {
		return nil, errors.New("report: nil snapshot")
	}
	start := time.Now()

	in := input{all: snap.Records}
	if filterKey != "" {
		in.active = snap.Records.WithParty(cases.RoleActive, filterKey)
		in.passive = snap.Records.WithParty(cases.RolePassive, filterKey)
	}

	views := b.views()
	tables := make([]*Table, len(views))
	drops := make([]*skiplog.Stats, len(views))

	g, gctx := errgroup.WithContext(ctx)
	for i, v := range views {
		drops[i] = skiplog.New()
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			t0 := time.Now()
			t, err := v.build(in, drops[i])
			metrics.RecordStep(b.job, v.name, err, time.Since(t0))
			if err != nil {
				return fmt.Errorf("report: %s: %w", v.name, err)
			}
			tables[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		metrics.RecordStep(b.job, "build", err, time.Since(start))
		return nil, err
	}

	total := skiplog.New()
	out := &Report{
		RunID:       uuid.NewString(),
		SnapshotID:  snap.ID,
		FilterKey:   filterKey,
		GeneratedAt: b.now(),
		Records:     len(in.all),
		Indicators:  indicators(in),
		Views:       make(map[string]*Table, len(views)),
	}
	for i, v := range views {
		out.Views[v.name] = tables[i]
		total.Merge(drops[i])
	}
	if total.Total() > 0 {
		out.Drops = total.Snapshot()
	}

	metrics.RecordStep(b.job, "build", nil, time.Since(start))
	metrics.RecordDrops(b.job, out.Drops)
	b.log.Info("report built",
		zap.String("run_id", out.RunID),
		zap.String("snapshot", snap.ID),
		zap.Int("records", out.Records),
		zap.Int("active", len(in.active)),
		zap.Int("passive", len(in.passive)),
		zap.Duration("elapsed", time.Since(start)))
	total.Log(b.log, "report drops")
	return out, nil
}

// Definition returns a copy of the builder's definition.
func (b *Builder) Definition() Definition { return b.def.clone() }
