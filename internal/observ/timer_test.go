package observ

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestTimerBeginEnd(t *testing.T) {
	tm := NewTimer()
	idx := tm.Begin("load")
	time.Sleep(time.Millisecond)
	tm.End(idx, "3 logs")

	r := tm.Report()
	if len(r.Phases) != 1 {
		t.Fatalf("phases = %d, want 1", len(r.Phases))
	}
	if r.Phases[0].Name != "load" || r.Phases[0].Note != "3 logs" {
		t.Fatalf("unexpected phase %+v", r.Phases[0])
	}
	if r.Phases[0].DurationMS <= 0 || r.TotalMS != r.Phases[0].DurationMS {
		t.Fatalf("durations: phase %v total %v", r.Phases[0].DurationMS, r.TotalMS)
	}
}

func TestTimerEndOutOfRange(t *testing.T) {
	tm := NewTimer()
	tm.End(5, "ignored")
	tm.End(-1, "ignored")
	if r := tm.Report(); len(r.Phases) != 0 {
		t.Fatalf("expected empty report, got %+v", r)
	}
}

func TestTimerAddAccumulates(t *testing.T) {
	tm := NewTimer()
	idx := tm.Begin("classify")

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tm.Add("classify/log", 2*time.Millisecond)
		}()
	}
	wg.Wait()
	tm.End(idx, "")

	r := tm.Report()
	if len(r.Phases) != 2 {
		t.Fatalf("phases = %d, want 2", len(r.Phases))
	}
	acc := r.Phases[1]
	if acc.Count != 8 || acc.DurationMS != 16 {
		t.Fatalf("accumulated phase = %+v", acc)
	}
	if r.TotalMS != r.Phases[0].DurationMS {
		t.Fatalf("total %v should only include begun phases (%v)", r.TotalMS, r.Phases[0].DurationMS)
	}
}

func TestTimerSummary(t *testing.T) {
	tm := NewTimer()
	tm.End(tm.Begin("merge"), "sorted")
	tm.Add("classify/log", time.Millisecond)
	tm.Add("classify/log", time.Millisecond)

	out := tm.Summary()
	for _, want := range []string{"timings:", "merge", "// sorted", "classify/log", "x2", "total"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}
