package skiplog

import (
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestStats_AddCountTotal(t *testing.T) {
	t.Parallel()

	s := New()
	s.Add(ReasonPartyNotObject, 2)
	s.Add(ReasonPartyNotObject, 1)
	s.Add(ReasonBadDate, 4)
	s.Add(ReasonBadDate, 0)
	s.Add(ReasonBadDate, -3)

	if got := s.Count(ReasonPartyNotObject); got != 3 {
		t.Fatalf("Count(party)=%d; want 3", got)
	}
	if got := s.Total(); got != 7 {
		t.Fatalf("Total=%d; want 7", got)
	}
}

func TestStats_NilIsNoop(t *testing.T) {
	t.Parallel()

	var s *Stats
	s.Add("x", 1)
	s.Merge(New())
	if s.Total() != 0 || s.Count("x") != 0 || len(s.Snapshot()) != 0 {
		t.Fatalf("nil stats should report nothing")
	}
}

func TestStats_ConcurrentAddAndMerge(t *testing.T) {
	t.Parallel()

	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s.Add(ReasonEmptyName, 1)
			}
		}()
	}
	wg.Wait()

	other := New()
	other.Add(ReasonEmptyName, 5)
	s.Merge(other)

	if got := s.Count(ReasonEmptyName); got != 1605 {
		t.Fatalf("Count=%d; want 1605", got)
	}
}

func TestStats_LogOneLinePerReason(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.InfoLevel)
	s := New()
	s.Add("b", 1)
	s.Add("a", 2)
	s.Log(zap.New(core), "dropped")

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("got %d log lines; want 2", len(entries))
	}
	if got := entries[0].ContextMap()["reason"]; got != "a" {
		t.Fatalf("first reason=%v; want a", got)
	}
}
