// Package sqlds reads case documents from a SQL database. The configured
// query must return one column holding a JSON object per row (json/jsonb
// or text); rows are emitted as a single JSON array in query order. Rows
// that are blank or not valid JSON are skipped and counted as drops, so one
// bad row never fails the load.
//
// Supported drivers:
//
//   - "postgres"  (github.com/jackc/pgx/v5/stdlib)
//   - "sqlserver" (github.com/microsoft/go-mssqldb)
//   - "mysql"     (github.com/go-sql-driver/mysql)
//   - "sqlite"    (modernc.org/sqlite)
package sqlds

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/microsoft/go-mssqldb"
	_ "modernc.org/sqlite"

	"github.com/arthurrossibr/general-vision-simplified/internal/skiplog"
)

// drivers maps source driver names to database/sql driver names.
var drivers = map[string]string{
	"postgres":  "pgx",
	"sqlserver": "sqlserver",
	"mysql":     "mysql",
	"sqlite":    "sqlite",
}

// Drivers lists the accepted driver names.
func Drivers() []string {
	out := make([]string, 0, len(drivers))
	for k := range drivers {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Config describes one query source.
type Config struct {
	Driver string
	DSN    string
	Query  string

	// Drops receives rows skipped as invalid JSON. May be nil.
	Drops *skiplog.Stats
}

// Source runs its query on every Open. A connection is opened per call
// and closed before Open returns.
type Source struct {
	cfg    Config
	driver string
}

// New checks cfg and returns a Source. It does not connect.
func New(cfg Config) (*Source, error) {
	name, ok := drivers[cfg.Driver]
	if !ok {
		return nil, fmt.Errorf("sqlds: unknown driver %q (want one of %s)", cfg.Driver, strings.Join(Drivers(), ", "))
	}
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, fmt.Errorf("sqlds: %s: DSN must not be empty", cfg.Driver)
	}
	if strings.TrimSpace(cfg.Query) == "" {
		return nil, fmt.Errorf("sqlds: %s: query must not be empty", cfg.Driver)
	}
	return &Source{cfg: cfg, driver: name}, nil
}

// Open runs the query and returns its documents as a JSON array.
func (s *Source) Open(ctx context.Context) (io.ReadCloser, error) {
	db, err := sql.Open(s.driver, s.cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("sqlds: %s: open: %w", s.cfg.Driver, err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, s.cfg.Query)
	if err != nil {
		return nil, fmt.Errorf("sqlds: %s: query: %w", s.cfg.Driver, err)
	}
	defer rows.Close()

	var buf bytes.Buffer
	buf.WriteByte('[')
	n := 0
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("sqlds: %s: scan row %d: %w", s.cfg.Driver, n, err)
		}
		doc = bytes.TrimSpace(doc)
		if len(doc) == 0 {
			continue
		}
		if !json.Valid(doc) {
			s.cfg.Drops.Add(skiplog.ReasonInvalidDocument, 1)
			continue
		}
		if n > 0 {
			buf.WriteByte(',')
		}
		buf.Write(doc)
		n++
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlds: %s: rows: %w", s.cfg.Driver, err)
	}
	buf.WriteByte(']')
	return io.NopCloser(&buf), nil
}

// String names the source without its DSN, which may hold credentials.
func (s *Source) String() string { return "sql:" + s.cfg.Driver }
