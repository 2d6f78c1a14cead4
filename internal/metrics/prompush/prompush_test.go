package prompush

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/arthurrossibr/general-vision-simplified/internal/metrics"
)

func TestNewBackend(t *testing.T) {
	t.Parallel()

	if _, err := NewBackend("x", ""); err == nil {
		t.Fatalf("NewBackend without url: want error")
	}
	b, err := NewBackend("", "http://localhost:9091")
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}
	if b.jobName != "casereport" {
		t.Fatalf("jobName=%q; want casereport", b.jobName)
	}
}

func TestBackend_RecordsFacadeCalls(t *testing.T) {
	t.Parallel()

	b, err := NewBackend("acme", "http://localhost:9091")
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}
	b.IncCounter(metrics.StepTotal, 1, metrics.Labels{"step": "top_parties", "status": "success"})
	b.IncCounter(metrics.StepTotal, 1, metrics.Labels{"step": "top_parties", "status": "success"})
	b.IncCounter(metrics.RecordsTotal, 7, metrics.Labels{"kind": "loaded"})
	b.IncCounter(metrics.CacheTotal, 1, metrics.Labels{"result": "hit"})
	b.IncCounter("unknown_metric", 1, nil)
	b.ObserveHistogram(metrics.StepDuration, 0.25, metrics.Labels{"step": "top_parties", "status": "success"})

	if got := testutil.ToFloat64(b.steps.WithLabelValues("top_parties", "success")); got != 2 {
		t.Fatalf("steps=%v; want 2", got)
	}
	if got := testutil.ToFloat64(b.records.WithLabelValues("loaded")); got != 7 {
		t.Fatalf("records=%v; want 7", got)
	}
	if got := testutil.ToFloat64(b.cache.WithLabelValues("hit")); got != 1 {
		t.Fatalf("cache=%v; want 1", got)
	}
	if n := testutil.CollectAndCount(b.duration); n != 1 {
		t.Fatalf("duration series=%d; want 1", n)
	}
}

func TestBackend_FlushPushesToGateway(t *testing.T) {
	t.Parallel()

	var (
		mu   sync.Mutex
		path string
		body string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		path, body = r.URL.Path, string(b)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	b, err := NewBackend("acme", srv.URL)
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}
	b.IncCounter(metrics.RecordsTotal, 3, metrics.Labels{"kind": "loaded"})
	if err := b.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if path != "/metrics/job/acme" {
		t.Fatalf("push path=%q; want /metrics/job/acme", path)
	}
	if !strings.Contains(body, metrics.RecordsTotal) {
		t.Fatalf("pushed body lacks %s", metrics.RecordsTotal)
	}
}
