// Package metrics is a small, backend-agnostic facade for operational
// metrics of report runs.
//
// A process-wide backend defaults to a no-op implementation, so every
// helper is safe to call with no metrics system configured. Concrete
// systems live in subpackages (prompush, datadog) and are installed once
// at startup with SetBackend.
package metrics

import (
	"sync"
	"time"
)

// Metric names.
const (
	StepTotal       = "casereport_step_total"
	StepDuration    = "casereport_step_duration_seconds"
	RecordsTotal    = "casereport_records_total"
	CacheTotal      = "casereport_cache_total"
	statusSuccess   = "success"
	statusFailure   = "failure"
	cacheHit        = "hit"
	cacheMiss       = "miss"
	defaultJobLabel = "casereport"
)

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	IncCounter(name string, delta float64, labels Labels)
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes or flushes buffered metrics, if the backend needs it.
	Flush() error
}

type nopBackend struct{}

func (nopBackend) IncCounter(string, float64, Labels)       {}
func (nopBackend) ObserveHistogram(string, float64, Labels) {}
func (nopBackend) Flush() error                             { return nil }

var (
	mu      sync.RWMutex
	backend Backend = nopBackend{}
)

// SetBackend installs b. Passing nil restores the no-op backend.
func SetBackend(b Backend) {
	if b == nil {
		b = nopBackend{}
	}
	mu.Lock()
	backend = b
	mu.Unlock()
}

func current() Backend {
	mu.RLock()
	defer mu.RUnlock()
	return backend
}

// Flush delegates to the current backend.
func Flush() error {
	return current().Flush()
}

func jobLabel(job string) string {
	if job == "" {
		return defaultJobLabel
	}
	return job
}

// RecordStep counts one execution of step and observes its latency. Steps
// are load phases and report views.
func RecordStep(job, step string, err error, d time.Duration) {
	status := statusSuccess
	if err != nil {
		status = statusFailure
	}
	lbls := Labels{"job": jobLabel(job), "step": step, "status": status}
	b := current()
	b.IncCounter(StepTotal, 1, lbls)
	b.ObserveHistogram(StepDuration, d.Seconds(), lbls)
}

// RecordRecords adds delta to the record counter of kind, e.g. "loaded",
// "skipped" or a drop reason.
func RecordRecords(job, kind string, delta int) {
	if delta <= 0 {
		return
	}
	current().IncCounter(RecordsTotal, float64(delta), Labels{"job": jobLabel(job), "kind": kind})
}

// RecordDrops reports a drop tally keyed by reason.
func RecordDrops(job string, byReason map[string]int) {
	for reason, n := range byReason {
		RecordRecords(job, reason, n)
	}
}

// RecordCache counts one report cache lookup.
func RecordCache(job string, hit bool) {
	result := cacheMiss
	if hit {
		result = cacheHit
	}
	current().IncCounter(CacheTotal, 1, Labels{"job": jobLabel(job), "result": result})
}
