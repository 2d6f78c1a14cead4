package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError blocks execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning is surfaced to users but does not block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding.
//
// Path is a dotted path into the document (e.g. "sources[1].s3.bucket").
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// HasErrors reports whether any issue has error severity.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Known view names whose distribution settings may be overridden.
var overridableViews = map[string]struct{}{
	"distribution_by_branch":   {},
	"distribution_by_status":   {},
	"distribution_by_tribunal": {},
	"distribution_by_judgment": {},
	"distribution_by_class":    {},
	"distribution_by_segment":  {},
	"distribution_by_degree":   {},
	"distribution_by_subject":  {},
}

// Validate performs static checks over p and returns every finding. It
// does not mutate p.
func Validate(p Pipeline) []Issue {
	var issues []Issue

	if strings.TrimSpace(p.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "job",
			Message:  "job must not be empty; it labels metrics and logs",
		})
	}
	issues = append(issues, validateSources(p.Sources)...)
	issues = append(issues, validateParser(p.Parser)...)
	issues = append(issues, validateTransforms(p.Transform)...)
	issues = append(issues, validateReport(p.Report)...)
	issues = append(issues, validateMetrics(p.Metrics)...)

	return issues
}

func validateSources(ss []Source) []Issue {
	var issues []Issue
	if len(ss) == 0 {
		return append(issues, Issue{
			Severity: SeverityError,
			Path:     "sources",
			Message:  "at least one source is required",
		})
	}

	for i, s := range ss {
		base := fmt.Sprintf("sources[%d]", i)
		switch s.Kind {
		case "file":
			if strings.TrimSpace(s.File.Path) == "" {
				issues = append(issues, Issue{SeverityError, base + ".file.path", "file source requires a non-empty path"})
			}
		case "http":
			u, err := url.Parse(s.HTTP.URL)
			if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
				issues = append(issues, Issue{SeverityError, base + ".http.url", fmt.Sprintf("invalid http url %q", s.HTTP.URL)})
			}
			if s.HTTP.Timeout != "" {
				if _, err := time.ParseDuration(s.HTTP.Timeout); err != nil {
					issues = append(issues, Issue{SeverityError, base + ".http.timeout", err.Error()})
				}
			}
			if s.HTTP.Retries < 0 {
				issues = append(issues, Issue{SeverityError, base + ".http.retries", "retries must not be negative"})
			}
		case "s3":
			if s.S3.Bucket == "" || s.S3.Key == "" {
				issues = append(issues, Issue{SeverityError, base + ".s3", "s3 source requires bucket and key"})
			}
			if (s.S3.AccessKeyID == "") != (s.S3.SecretAccessKey == "") {
				issues = append(issues, Issue{SeverityWarning, base + ".s3", "only one of access_key_id/secret_access_key set; falling back to the default credential chain"})
			}
		case "sql":
			if !slices.Contains(SQLDrivers, s.SQL.Driver) {
				issues = append(issues, Issue{SeverityError, base + ".sql.driver", fmt.Sprintf("unknown sql driver %q (want one of %s)", s.SQL.Driver, strings.Join(SQLDrivers, ", "))})
			}
			if strings.TrimSpace(s.SQL.DSN) == "" {
				issues = append(issues, Issue{SeverityError, base + ".sql.dsn", "sql source requires a dsn"})
			}
			if strings.TrimSpace(s.SQL.Query) == "" {
				issues = append(issues, Issue{SeverityError, base + ".sql.query", "sql source requires a query"})
			}
		case "":
			issues = append(issues, Issue{SeverityError, base + ".kind", "source kind must not be empty"})
		default:
			issues = append(issues, Issue{SeverityError, base + ".kind", fmt.Sprintf("unknown source kind %q", s.Kind)})
		}
	}
	return issues
}

func validateParser(p Parser) []Issue {
	if p.Kind != "json" {
		return []Issue{{
			Severity: SeverityError,
			Path:     "parser.kind",
			Message:  fmt.Sprintf("unsupported parser kind %q; only json is available", p.Kind),
		}}
	}
	return nil
}

func validateTransforms(ts []Transform) []Issue {
	var issues []Issue
	for i, t := range ts {
		path := fmt.Sprintf("transform[%d]", i)
		switch t.Kind {
		case "normalize":
		case "dedup":
			if len(t.Options.StringSlice("keys")) == 0 {
				issues = append(issues, Issue{SeverityWarning, path + ".options.keys", "dedup without keys passes records through unchanged"})
			}
			switch t.Options.String("policy", "keep-last") {
			case "keep-first", "keep-last", "most-complete":
			default:
				issues = append(issues, Issue{SeverityError, path + ".options.policy", fmt.Sprintf("unknown dedup policy %q", t.Options.String("policy", ""))})
			}
		default:
			issues = append(issues, Issue{SeverityError, path + ".kind", fmt.Sprintf("unknown transform kind %q", t.Kind)})
		}
	}
	return issues
}

func validateReport(r Report) []Issue {
	var issues []Issue
	if r.FilterKey == "" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "report.filter_key",
			Message:  "filter_key is empty; ACTIVE and PASSIVE indicators will be zero unless given at run time",
		})
	}
	for _, f := range []struct {
		path string
		n    int
	}{
		{"report.cutoff", r.Cutoff},
		{"report.top_parties", r.TopParties},
		{"report.top_lawyers", r.TopLawyers},
		{"report.per_year", r.PerYear},
	} {
		if f.n < 0 {
			issues = append(issues, Issue{SeverityError, f.path, "must not be negative"})
		}
	}
	for view, d := range r.Distributions {
		path := "report.distributions." + view
		if _, ok := overridableViews[view]; !ok {
			issues = append(issues, Issue{SeverityError, path, "not a column distribution view"})
			continue
		}
		if n := len(d.Names); n != 0 && n != 2 && n != 3 {
			issues = append(issues, Issue{SeverityError, path + ".names", fmt.Sprintf("want 2 or 3 output names, got %d", n)})
		}
		if d.Cutoff < 0 {
			issues = append(issues, Issue{SeverityError, path + ".cutoff", "must not be negative"})
		}
	}
	return issues
}

func validateMetrics(m Metrics) []Issue {
	switch m.Backend {
	case "", "none":
	case "pushgateway":
		if m.PushgatewayURL == "" {
			return []Issue{{SeverityError, "metrics.pushgateway_url", "pushgateway backend requires a url"}}
		}
	case "datadog":
		if m.DatadogAddr == "" {
			return []Issue{{SeverityWarning, "metrics.datadog_addr", "empty address; the agent default will be used"}}
		}
	default:
		return []Issue{{SeverityError, "metrics.backend", fmt.Sprintf("unknown metrics backend %q", m.Backend)}}
	}
	return nil
}
