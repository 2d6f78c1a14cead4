// Package store loads case exports into an immutable Snapshot.
//
// Loading is the only I/O step of a run: every source is read fully,
// hashed, parsed, passed through the load transform chain and decoded into
// the typed case table. Report building never touches a source.
package store

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/zeebo/xxh3"
	"go.uber.org/zap"

	"github.com/arthurrossibr/general-vision-simplified/internal/cases"
	"github.com/arthurrossibr/general-vision-simplified/internal/datasource"
	"github.com/arthurrossibr/general-vision-simplified/internal/metrics"
	"github.com/arthurrossibr/general-vision-simplified/internal/parser"
	jsonparser "github.com/arthurrossibr/general-vision-simplified/internal/parser/json"
	"github.com/arthurrossibr/general-vision-simplified/internal/skiplog"
	"github.com/arthurrossibr/general-vision-simplified/internal/transformer"
	"github.com/arthurrossibr/general-vision-simplified/internal/transformer/builtin"
	"github.com/arthurrossibr/general-vision-simplified/pkg/records"
)

// Snapshot is the case table of one run. Its ID identifies the input:
// the same bytes in the same order always produce the same ID.
// Records must not be modified once the snapshot is built.
type Snapshot struct {
	ID       string
	Records  cases.Table
	LoadedAt time.Time

	// Skipped counts top-level elements the parser rejected.
	Skipped int
	// Drops tallies records and children discarded while loading.
	Drops map[string]int
}

// Len returns the number of case records.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Records)
}

// Options configures Load and FromRecords. The zero value uses the JSON
// envelope parser and the default transform chain.
type Options struct {
	Job       string
	Parser    parser.Parser
	Transform transformer.Chain
	Logger    *zap.Logger

	// Drops receives load-time drops. Pass the tally a configured
	// Transform chain was built with so its discards are reported too.
	// Nil means a fresh tally.
	Drops *skiplog.Stats

	now func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Drops == nil {
		o.Drops = skiplog.New()
	}
	if o.Parser == nil {
		o.Parser = jsonparser.New(jsonparser.DefaultOptions())
	}
	if o.Transform == nil {
		o.Transform = builtin.DefaultChain(o.Drops)
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.now == nil {
		o.now = time.Now
	}
	return o
}

// Load reads every source in order and builds a Snapshot.
func Load(ctx context.Context, sources []datasource.Source, opt Options) (snap *Snapshot, err error) {
	start := time.Now()
	defer func() { metrics.RecordStep(opt.Job, "load", err, time.Since(start)) }()

	if len(sources) == 0 {
		return nil, fmt.Errorf("store: no sources")
	}
	opt = opt.withDefaults()

	h := xxh3.New()
	var (
		raw     []records.Record
		skipped int
	)
	for _, src := range sources {
		name := datasource.Name(src)
		data, err := readAll(ctx, src)
		if err != nil {
			return nil, fmt.Errorf("store: read %s: %w", name, err)
		}
		writeFramed(h, data)

		recs, n, err := opt.Parser.Parse(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("store: parse %s: %w", name, err)
		}
		opt.Logger.Debug("source parsed",
			zap.String("source", name),
			zap.Int("bytes", len(data)),
			zap.Int("records", len(recs)),
			zap.Int("skipped", n))
		raw = append(raw, recs...)
		skipped += n
	}

	return build(sum(h), raw, skipped, opt), nil
}

// FromRecords builds a Snapshot from records already in memory. The ID is
// the hash of their JSON encoding, in order. raw is copied before the
// transform chain runs and is left as the caller passed it.
func FromRecords(raw []records.Record, opt Options) (*Snapshot, error) {
	opt = opt.withDefaults()

	h := xxh3.New()
	own := make([]records.Record, len(raw))
	for i, r := range raw {
		b, err := json.Marshal(r)
		if err != nil {
			return nil, fmt.Errorf("store: encode record %d: %w", i, err)
		}
		writeFramed(h, b)
		own[i] = records.Clone(r)
	}
	return build(sum(h), own, 0, opt), nil
}

func build(id string, raw []records.Record, skipped int, opt Options) *Snapshot {
	drops := opt.Drops
	parsed := len(raw)
	raw = opt.Transform.Apply(raw)
	tbl := cases.DecodeAll(raw, drops)

	snap := &Snapshot{
		ID:       id,
		Records:  tbl,
		LoadedAt: opt.now(),
		Skipped:  skipped,
		Drops:    drops.Snapshot(),
	}

	metrics.RecordRecords(opt.Job, "parsed", parsed)
	metrics.RecordRecords(opt.Job, "loaded", len(tbl))
	metrics.RecordRecords(opt.Job, "skipped", skipped)
	metrics.RecordDrops(opt.Job, snap.Drops)

	opt.Logger.Info("snapshot loaded",
		zap.String("snapshot", id),
		zap.Int("parsed", parsed),
		zap.Int("records", len(tbl)),
		zap.Int("skipped", skipped),
		zap.Int("dropped", drops.Total()))
	drops.Log(opt.Logger, "load drops")
	return snap
}

func readAll(ctx context.Context, src datasource.Source) ([]byte, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// writeFramed hashes b behind its length so that source boundaries are
// part of the identity.
func writeFramed(h *xxh3.Hasher, b []byte) {
	var n [8]byte
	binary.LittleEndian.PutUint64(n[:], uint64(len(b)))
	_, _ = h.Write(n[:])
	_, _ = h.Write(b)
}

func sum(h *xxh3.Hasher) string {
	b := h.Sum128().Bytes()
	return hex.EncodeToString(b[:])
}
