package term

import (
	"strings"
	"testing"

	"github.com/rvilkov/loglab/internal/stream"
)

func TestRenderBlockContents(t *testing.T) {
	var out strings.Builder
	r := NewRenderer(&out, nil)
	rec, _ := stream.ParseLine([]byte(`{"time":"2025-10-24T10:00:00Z","level":"error","section":"train","run_name":"exp","run_id":"r1","group":"g1","message":"loss spiked","loss":3.2}`))
	r.Render(rec)

	got := out.String()
	for _, want := range []string{"10:00:00", "ERROR", "[train]", "run:exp", "id:r1", "group:g1", "loss spiked", `"loss"`} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestRenderRawTimestampFallback(t *testing.T) {
	var out strings.Builder
	r := NewRenderer(&out, nil)
	rec, _ := stream.ParseLine([]byte(`{"time":"12:34:56ish","message":"m"}`))
	r.Render(rec)

	if !strings.Contains(out.String(), "12:34:56") {
		t.Errorf("output = %q, want raw prefix fallback", out.String())
	}
}

func TestBannerShowsFilters(t *testing.T) {
	var out strings.Builder
	r := NewRenderer(&out, nil)
	r.Banner("/tmp/app.jsonl", stream.Criteria{Level: "INFO"})

	got := out.String()
	if !strings.Contains(got, "/tmp/app.jsonl") {
		t.Errorf("banner missing path:\n%s", got)
	}
	if !strings.Contains(got, "level=INFO") {
		t.Errorf("banner missing filters:\n%s", got)
	}
}

func TestFormatLine(t *testing.T) {
	rec, _ := stream.ParseLine([]byte(`{"time":"2025-10-24T10:00:00Z","level":"info","section":"eval","message":"done"}`))
	line := formatLine(rec)
	if !strings.HasPrefix(line, "10:00:00 INFO") {
		t.Errorf("line = %q", line)
	}
	if !strings.Contains(line, "[eval] done") {
		t.Errorf("line = %q", line)
	}
}
