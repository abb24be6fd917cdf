package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"":       LevelOff,
		"off":    LevelOff,
		"PHASE":  LevelPhase,
		"detail": LevelDetail,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
	for _, bad := range []string{"loud", "debug", "error"} {
		if _, err := ParseLevel(bad); err == nil {
			t.Errorf("expected error for level %q", bad)
		}
	}
}

func TestLevelShouldEmit(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelOff, ScopeLog, false},
		{LevelPhase, ScopeDriver, true},
		{LevelPhase, ScopePhase, true},
		{LevelPhase, ScopeLog, false},
		{LevelDetail, ScopePhase, true},
		{LevelDetail, ScopeLog, true},
	}
	for _, tt := range tests {
		if got := tt.level.ShouldEmit(tt.scope); got != tt.want {
			t.Errorf("%v.ShouldEmit(%v) = %v, want %v", tt.level, tt.scope, got, tt.want)
		}
	}
}

func TestNewOffReturnsNop(t *testing.T) {
	tr, err := New(Config{Level: LevelOff, Mode: ModeStream})
	if err != nil {
		t.Fatal(err)
	}
	if tr != Nop || tr.Enabled() {
		t.Fatalf("expected Nop tracer, got %T", tr)
	}
}

func TestStreamTracerText(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelPhase, Mode: ModeStream, Format: FormatText, Output: &buf})
	if err != nil {
		t.Fatal(err)
	}

	span := Begin(tr, ScopePhase, "classify", 0)
	span.WithExtra("logs", "2").End("ok")
	Point(tr, ScopeLog, "skipped", "below level", span.ID())

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "→ classify") {
		t.Errorf("begin line = %q", lines[0])
	}
	if !strings.Contains(lines[1], "← classify (ok) {logs=2}") {
		t.Errorf("end line = %q", lines[1])
	}
}

func TestStreamTracerNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatNDJSON)
	Point(tr, ScopeLog, "cached", "link.log", 7)

	var got map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &got); err != nil {
		t.Fatalf("invalid json %q: %v", buf.String(), err)
	}
	if got["kind"] != "point" || got["scope"] != "log" || got["name"] != "cached" {
		t.Errorf("unexpected event %v", got)
	}
	if got["parent_id"] != float64(7) {
		t.Errorf("parent_id = %v", got["parent_id"])
	}
}

func TestRingTracerWraps(t *testing.T) {
	ring := NewRingTracer(3, LevelDetail)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		Point(ring, ScopeLog, name, "", 0)
	}
	snap := ring.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("snapshot len = %d, want 3", len(snap))
	}
	for i, want := range []string{"c", "d", "e"} {
		if snap[i].Name != want {
			t.Errorf("snap[%d] = %q, want %q", i, snap[i].Name, want)
		}
	}
	if snap[0].Order >= snap[2].Order {
		t.Errorf("order not increasing: %d, %d", snap[0].Order, snap[2].Order)
	}

	var buf bytes.Buffer
	if err := ring.Dump(&buf, FormatText); err != nil {
		t.Fatal(err)
	}
	if strings.Count(buf.String(), "\n") != 3 {
		t.Errorf("dump:\n%s", buf.String())
	}
}

func TestMultiTracerFansOut(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelPhase, Mode: ModeBoth, Format: FormatText, Output: &buf, RingSize: 8})
	if err != nil {
		t.Fatal(err)
	}
	Begin(tr, ScopeDriver, "scan", 0).End("")

	if strings.Count(buf.String(), "\n") != 2 {
		t.Errorf("stream output:\n%s", buf.String())
	}
	d, ok := tr.(Dumper)
	if !ok {
		t.Fatalf("%T does not implement Dumper", tr)
	}
	var dump bytes.Buffer
	if err := d.Dump(&dump, FormatText); err != nil {
		t.Fatal(err)
	}
	if dump.String() != buf.String() {
		t.Errorf("stream and ring disagree:\n%s\n%s", buf.String(), dump.String())
	}
}

func TestContextRoundTrip(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Error("empty context should yield Nop")
	}
	ring := NewRingTracer(4, LevelDetail)
	ctx := WithTracer(context.Background(), ring)
	if FromContext(ctx) != Tracer(ring) {
		t.Error("tracer not carried by context")
	}
	if FromContext(WithTracer(ctx, nil)) != Nop {
		t.Error("nil tracer should become Nop")
	}
}

func TestSpanOnDisabledTracer(t *testing.T) {
	span := Begin(Nop, ScopeDriver, "scan", 0)
	if span.ID() != 0 {
		t.Errorf("disabled span id = %d", span.ID())
	}
	if d := span.WithExtra("k", "v").End("done"); d != 0 {
		t.Errorf("disabled span duration = %v", d)
	}
}

func TestParseModeAndFormat(t *testing.T) {
	if m, err := ParseMode("both"); err != nil || m != ModeBoth {
		t.Errorf("ParseMode(both) = %v, %v", m, err)
	}
	if _, err := ParseMode("tape"); err == nil {
		t.Error("expected error for unknown mode")
	}
	if f, err := ParseFormat("json"); err != nil || f != FormatNDJSON {
		t.Errorf("ParseFormat(json) = %v, %v", f, err)
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}
