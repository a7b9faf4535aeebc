package observ

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// fakeClock advances by step on every reading.
func fakeClock(step time.Duration) func() time.Time {
	var mu sync.Mutex
	cur := time.Unix(0, 0)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		cur = cur.Add(step)
		return cur
	}
}

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	tm.now = fakeClock(2 * time.Millisecond)
	load := tm.Begin("load")
	tm.End(load, "2 documents")
	_ = tm.Measure("generate", func() error { return errors.New("boom") })
	tm.End(42, "ignored")

	want := Report{
		TotalMS: 4,
		Phases: []PhaseReport{
			{Name: "load", DurationMS: 2, Note: "2 documents"},
			{Name: "generate", DurationMS: 2, Note: "boom"},
		},
	}
	if diff := cmp.Diff(want, tm.Report()); diff != "" {
		t.Fatalf("report mismatch (-want +got):\n%s", diff)
	}
	sum := tm.Summary()
	for _, part := range []string{"load", "// 2 documents", "// boom", "total"} {
		if !strings.Contains(sum, part) {
			t.Fatalf("summary lacks %q:\n%s", part, sum)
		}
	}
}

func TestEmptyTimer(t *testing.T) {
	if diff := cmp.Diff(Report{}, NewTimer().Report()); diff != "" {
		t.Fatal(diff)
	}
}

func TestTimerConcurrentPhases(t *testing.T) {
	tm := NewTimer()
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tm.End(tm.Begin("doc"), "")
		}()
	}
	wg.Wait()
	if n := len(tm.Report().Phases); n != 16 {
		t.Fatalf("got %d phases, want 16", n)
	}
}
