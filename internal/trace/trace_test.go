package trace

import (
	"bytes"
	"strings"
	"testing"
)

func TestLevelFiltersScopes(t *testing.T) {
	ring := NewRingTracer(16, LevelDetail)
	root := Begin(ring, ScopePass, "generate", 0)
	cls := Begin(ring, ScopeModule, "class:Main", root.ID())
	fn := Begin(ring, ScopeNode, "fn:Main.main", cls.ID())
	fn.End("")
	cls.End("")
	root.WithExtra("functions", "1").End("ok")

	events := ring.Snapshot()
	if len(events) != 4 {
		t.Fatalf("expected 4 events (node scope filtered), got %d", len(events))
	}
	last := events[len(events)-1]
	if last.Kind != KindSpanEnd || last.Name != "generate" || last.Extra["functions"] != "1" {
		t.Fatalf("unexpected last event %+v", last)
	}
}

func TestRingWrapsOldestFirst(t *testing.T) {
	ring := NewRingTracer(3, LevelDebug)
	for _, name := range []string{"a", "b", "c", "d"} {
		Point(ring, ScopeNode, name, "", 0)
	}
	var names []string
	for _, ev := range ring.Snapshot() {
		names = append(names, ev.Name)
	}
	if got := strings.Join(names, ","); got != "b,c,d" {
		t.Fatalf("expected b,c,d, got %s", got)
	}
}

func TestStreamTextFormat(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatText)
	Begin(tr, ScopeDriver, "load", 0).End("2 documents")
	out := buf.String()
	if !strings.Contains(out, "→ load") || !strings.Contains(out, "← load (2 documents)") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestDisabledSpanIsSafe(t *testing.T) {
	s := Begin(Nop, ScopeDriver, "x", 0)
	s.WithExtra("k", "v")
	if d := s.End(""); d != 0 {
		t.Fatalf("disabled span reported duration %v", d)
	}
	var nilSpan *Span
	nilSpan.End("")
}

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel("DETAIL")
	if err != nil || l != LevelDetail {
		t.Fatalf("got %v, %v", l, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error")
	}
}
