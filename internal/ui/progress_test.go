package ui

import (
	"errors"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"

	"github.com/ywhdzrb/Cavvy-sub000/internal/buildpipeline"
)

func newModel(files ...string) *progressModel {
	return NewProgressModel("emit", files, nil).(*progressModel)
}

func TestApplyEventTracksStages(t *testing.T) {
	m := newModel("a.json", "b.json")
	m.applyEvent(buildpipeline.Event{File: "a.json", Stage: buildpipeline.StageGenerate, Status: buildpipeline.StatusWorking})
	if got := m.items[0].status; got != "generating" {
		t.Fatalf("status %q, want generating", got)
	}
	// A finished intermediate stage keeps the last label.
	m.applyEvent(buildpipeline.Event{File: "a.json", Stage: buildpipeline.StageGenerate, Status: buildpipeline.StatusDone})
	if got := m.items[0].status; got != "generating" || m.items[0].final {
		t.Fatalf("status %q final %v after generate", got, m.items[0].final)
	}
	m.applyEvent(buildpipeline.Event{File: "a.json", Stage: buildpipeline.StageWrite, Status: buildpipeline.StatusDone})
	if !m.items[0].final || m.items[0].status != "done" {
		t.Fatalf("a.json not finished: %+v", m.items[0])
	}
	if got := m.percent(); got != 0.5 {
		t.Fatalf("percent %v, want 0.5", got)
	}

	m.applyEvent(buildpipeline.Event{File: "b.json", Stage: buildpipeline.StageGenerate, Status: buildpipeline.StatusError, Err: errors.New("boom")})
	// Events after a failure do not revive the item.
	m.applyEvent(buildpipeline.Event{File: "b.json", Stage: buildpipeline.StageWrite, Status: buildpipeline.StatusWorking})
	if m.items[1].status != "error" || !m.items[1].failed {
		t.Fatalf("b.json %+v", m.items[1])
	}
	if got := m.summary(); got != "2/2, 1 failed" {
		t.Fatalf("summary %q", got)
	}
	// Unknown files are ignored.
	if cmd := m.applyEvent(buildpipeline.Event{File: "c.json", Stage: buildpipeline.StageLoad, Status: buildpipeline.StatusWorking}); cmd != nil {
		t.Fatal("unknown file produced a command")
	}
}

func TestCachedSummary(t *testing.T) {
	m := newModel("a.json")
	m.applyEvent(buildpipeline.Event{File: "a.json", Stage: buildpipeline.StageGenerate, Status: buildpipeline.StatusCached})
	if m.items[0].status != "cached" {
		t.Fatalf("status %q", m.items[0].status)
	}
	if got := m.summary(); got != "0/1, 1 cached" {
		t.Fatalf("summary %q", got)
	}
}

func TestViewListsFiles(t *testing.T) {
	m := newModel("src/a.json", "b.json")
	m.done = true
	view := m.View()
	for _, want := range []string{"done: emit (0/2)", "src/a.json", "b.json", "queued"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view misses %q:\n%s", want, view)
		}
	}
	if newModel().View() != "" {
		t.Fatal("empty model should render nothing")
	}
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("界", 20)
	got := truncate(long, 11)
	if runewidth.StringWidth(got) > 11 || !strings.HasSuffix(got, "...") {
		t.Fatalf("truncate gave %q", got)
	}
	if truncate("short", 10) != "short" {
		t.Fatal("short value changed")
	}
	if truncate("abcdef", 2) != "ab" {
		t.Fatalf("narrow truncate gave %q", truncate("abcdef", 2))
	}
}
