// Package config defines the JSON/YAML configuration model for a case
// report run: where the case records come from, how they are decoded and
// cleaned at load time, how the report views are shaped, and where
// metrics and the HTTP surface go.
//
// Field names in Go mirror the document keys. Free-form, implementation
// specific settings travel in Options bags that the consuming package reads
// with typed accessors.
//
// Example (trimmed):
//
//	{
//	  "job": "casereport",
//	  "sources": [ { "kind": "file", "file": { "path": "data/processos.json" } } ],
//	  "parser":  { "kind": "json", "options": { "root_key": "" } },
//	  "transform": [
//	    { "kind": "normalize" },
//	    { "kind": "dedup", "options": { "keys": ["numeroProcessoUnico"], "policy": "keep-last" } }
//	  ],
//	  "report":  { "filter_key": "12345678000199", "other_label": "OUTROS" },
//	  "metrics": { "backend": "pushgateway", "pushgateway_url": "http://localhost:9091" },
//	  "server":  { "addr": ":8080" }
//	}
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Pipeline is the top-level configuration document.
type Pipeline struct {
	// Job names the run for metrics grouping and logs.
	Job string `json:"job" yaml:"job"`

	// Sources are read in order; later records win on duplicate process
	// numbers when the dedup transform uses keep-last.
	Sources []Source `json:"sources" yaml:"sources"`

	Parser    Parser      `json:"parser" yaml:"parser"`
	Transform []Transform `json:"transform" yaml:"transform"`
	Report    Report      `json:"report" yaml:"report"`
	Metrics   Metrics     `json:"metrics" yaml:"metrics"`
	Server    Server      `json:"server" yaml:"server"`
}

// Source identifies one input. Kind is "file", "http", "s3" or "sql".
type Source struct {
	Kind string     `json:"kind" yaml:"kind"`
	File SourceFile `json:"file" yaml:"file"`
	HTTP SourceHTTP `json:"http" yaml:"http"`
	S3   SourceS3   `json:"s3" yaml:"s3"`
	SQL  SourceSQL  `json:"sql" yaml:"sql"`
}

// SourceFile holds configuration for the "file" source kind.
type SourceFile struct {
	Path string `json:"path" yaml:"path"`
}

// SourceHTTP holds configuration for the "http" source kind.
type SourceHTTP struct {
	URL string `json:"url" yaml:"url"`
	// Timeout is a Go duration string; empty means the client default.
	Timeout string `json:"timeout" yaml:"timeout"`
	Retries int    `json:"retries" yaml:"retries"`
}

// SourceS3 holds configuration for the "s3" source kind. Empty credentials
// fall back to the SDK's default chain.
type SourceS3 struct {
	Bucket          string `json:"bucket" yaml:"bucket"`
	Key             string `json:"key" yaml:"key"`
	Region          string `json:"region" yaml:"region"`
	Endpoint        string `json:"endpoint" yaml:"endpoint"`
	AccessKeyID     string `json:"access_key_id" yaml:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key" yaml:"secret_access_key"`
}

// SourceSQL holds configuration for the "sql" source kind. Query must
// return a single column with one JSON case document per row.
type SourceSQL struct {
	Driver string `json:"driver" yaml:"driver"`
	DSN    string `json:"dsn" yaml:"dsn"`
	Query  string `json:"query" yaml:"query"`
}

// SQLDrivers lists the accepted SourceSQL.Driver values.
var SQLDrivers = []string{"mysql", "postgres", "sqlite", "sqlserver"}

// Parser selects how raw bytes become records. Only "json" exists today.
type Parser struct {
	Kind    string  `json:"kind" yaml:"kind"`
	Options Options `json:"options" yaml:"options"`
}

// Transform is one load-time step: "normalize" or "dedup".
type Transform struct {
	Kind    string  `json:"kind" yaml:"kind"`
	Options Options `json:"options" yaml:"options"`
}

// Report shapes the aggregate views.
type Report struct {
	// FilterKey is the identity number splitting ACTIVE and PASSIVE cases.
	// Compared verbatim against party tax IDs.
	FilterKey string `json:"filter_key" yaml:"filter_key"`

	// OtherLabel names the folded catch-all row. Default "OTHER".
	OtherLabel string `json:"other_label" yaml:"other_label"`

	// Cutoff is the fold size of folded distributions. Default 5.
	Cutoff int `json:"cutoff" yaml:"cutoff"`

	TopParties int `json:"top_parties" yaml:"top_parties"`
	TopLawyers int `json:"top_lawyers" yaml:"top_lawyers"`
	PerYear    int `json:"per_year" yaml:"per_year"`

	// States left-fills the per-state distribution. StatesFile, when set,
	// is read with one state code per line and wins over States.
	States     []string `json:"states" yaml:"states"`
	StatesFile string   `json:"states_file" yaml:"states_file"`

	// Distributions overrides the output names or fold settings of the
	// column distributions, keyed by view name.
	Distributions map[string]Distribution `json:"distributions" yaml:"distributions"`
}

// Distribution overrides one column distribution view.
type Distribution struct {
	Names  []string `json:"names" yaml:"names"`
	Fold   *bool    `json:"fold" yaml:"fold"`
	Cutoff int      `json:"cutoff" yaml:"cutoff"`
}

// Metrics selects the metrics backend: "", "none", "pushgateway" or
// "datadog".
type Metrics struct {
	Backend        string `json:"backend" yaml:"backend"`
	PushgatewayURL string `json:"pushgateway_url" yaml:"pushgateway_url"`
	DatadogAddr    string `json:"datadog_addr" yaml:"datadog_addr"`
}

// Server configures the HTTP surface.
type Server struct {
	Addr string `json:"addr" yaml:"addr"`
}

// Default values applied by Load and Defaults.
const (
	DefaultJob        = "casereport"
	DefaultParser     = "json"
	DefaultServerAddr = ":8080"
)

// Defaults returns a pipeline with every optional field filled.
func Defaults() Pipeline {
	var p Pipeline
	p.applyDefaults()
	return p
}

func (p *Pipeline) applyDefaults() {
	if p.Job == "" {
		p.Job = DefaultJob
	}
	if p.Parser.Kind == "" {
		p.Parser.Kind = DefaultParser
	}
	if p.Parser.Options == nil {
		p.Parser.Options = Options{}
	}
	for i := range p.Transform {
		if p.Transform[i].Options == nil {
			p.Transform[i].Options = Options{}
		}
	}
	if p.Server.Addr == "" {
		p.Server.Addr = DefaultServerAddr
	}
}

// Load reads a pipeline document. Files ending in .yaml or .yml are
// decoded as YAML, anything else as JSON. Defaults are applied; validation
// is left to Validate.
func Load(path string) (Pipeline, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Pipeline{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Decode(b, filepath.Ext(path))
}

// Decode parses b as JSON, or YAML when ext is ".yaml"/".yml".
func Decode(b []byte, ext string) (Pipeline, error) {
	var p Pipeline
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &p); err != nil {
			return Pipeline{}, fmt.Errorf("config: decode yaml: %w", err)
		}
	default:
		if err := json.Unmarshal(b, &p); err != nil {
			return Pipeline{}, fmt.Errorf("config: decode json: %w", err)
		}
	}
	p.applyDefaults()
	return p, nil
}

// Options is a small helper to fetch typed values from free-form option
// maps. It performs minimal coercion and returns the provided default when
// a key is absent or of an unexpected type.
type Options map[string]any

// String returns the string value for key or def.
func (o Options) String(key, def string) string {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// Bool returns the bool value for key or def.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// Int returns the int value for key or def. JSON numbers decode as float64
// and YAML integers as int; both are accepted.
func (o Options) Int(key string, def int) int {
	if v, ok := o[key]; ok {
		switch n := v.(type) {
		case float64:
			return int(n)
		case int:
			return n
		}
	}
	return def
}

// StringSlice returns the strings of an array value for key. Non-string
// elements are skipped. Returns nil when the key is missing or not an
// array.
func (o Options) StringSlice(key string) []string {
	if v, ok := o[key]; ok {
		switch vv := v.(type) {
		case []any:
			out := make([]string, 0, len(vv))
			for _, x := range vv {
				if s, ok := x.(string); ok {
					out = append(out, s)
				}
			}
			return out
		case []string:
			return vv
		}
	}
	return nil
}

// UnmarshalJSON makes a missing or null options object decode to an empty,
// non-nil map.
func (o *Options) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		*o = Options{}
		return nil
	}
	var tmp map[string]any
	if err := json.Unmarshal(b, &tmp); err != nil {
		return err
	}
	*o = Options(tmp)
	return nil
}
