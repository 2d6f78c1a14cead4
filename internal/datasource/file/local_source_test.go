package file

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestLocalOpen covers success, missing file, and pre-canceled context.
func TestLocalOpen(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	existing := filepath.Join(dir, "processos.json")
	const payload = `[{"numeroProcessoUnico":"1"}]`
	if err := os.WriteFile(existing, []byte(payload), 0o644); err != nil {
		t.Fatalf("write test file: %v", err)
	}
	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name         string
		path         string
		ctx          context.Context
		wantErrIs    error
		wantContains string
		wantContent  string
	}{
		{name: "reads content", path: existing, ctx: context.Background(), wantContent: payload},
		{name: "missing file", path: filepath.Join(dir, "missing.json"), ctx: context.Background(), wantErrIs: os.ErrNotExist, wantContains: "open "},
		{name: "canceled context", path: existing, ctx: canceled, wantErrIs: context.Canceled},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rc, err := NewLocal(tc.path).Open(tc.ctx)
			if tc.wantErrIs != nil {
				if !errors.Is(err, tc.wantErrIs) {
					t.Fatalf("errors.Is(%v, %v) = false", err, tc.wantErrIs)
				}
				if tc.wantContains != "" && !strings.Contains(err.Error(), tc.wantContains) {
					t.Fatalf("error %q does not contain %q", err, tc.wantContains)
				}
				if rc != nil {
					_ = rc.Close()
					t.Fatalf("got non-nil ReadCloser on error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			defer rc.Close()
			got, err := io.ReadAll(rc)
			if err != nil {
				t.Fatalf("reading: %v", err)
			}
			if string(got) != tc.wantContent {
				t.Fatalf("content = %q, want %q", got, tc.wantContent)
			}
		})
	}
}

// BenchmarkLocalOpen measures open+close of a small export, including the
// read-ahead hint.
func BenchmarkLocalOpen(b *testing.B) {
	p := filepath.Join(b.TempDir(), "processos.json")
	if err := os.WriteFile(p, []byte("[]"), 0o644); err != nil {
		b.Fatalf("write test file: %v", err)
	}
	src := NewLocal(p)
	ctx := context.Background()

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		rc, err := src.Open(ctx)
		if err != nil {
			b.Fatal(err)
		}
		_ = rc.Close()
	}
}
