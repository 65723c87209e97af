package stream

import (
	"os"
	"path/filepath"
	"testing"
)

func writeLog(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func appendLog(t *testing.T, path, content string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatalf("open append: %v", err)
	}
	if _, err := f.WriteString(content); err != nil {
		t.Fatalf("append: %v", err)
	}
	_ = f.Close()
}

func TestPollMissingFile(t *testing.T) {
	r := NewReader(filepath.Join(t.TempDir(), "nope.jsonl"))
	_, err := r.Poll()
	if !os.IsNotExist(err) {
		t.Errorf("err = %v, want not-exist", err)
	}
	if r.Offset() != 0 {
		t.Errorf("offset = %d, want 0", r.Offset())
	}
}

func TestPollReadsCompleteLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.jsonl")
	writeLog(t, path, "{\"a\":1}\n{\"b\":2}\n")

	r := NewReader(path)
	lines, err := r.Poll()
	if err != nil {
		t.Fatalf("poll: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}
	if string(lines[0]) != `{"a":1}` {
		t.Errorf("line[0] = %q", lines[0])
	}
	if r.Offset() != 16 {
		t.Errorf("offset = %d, want 16", r.Offset())
	}
}

func TestPollRetainsPartialLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.jsonl")
	writeLog(t, path, "{\"a\":1}\n{\"b\":")

	r := NewReader(path)
	lines, err := r.Poll()
	if err != nil {
		t.Fatalf("poll: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("lines = %d, want 1", len(lines))
	}
	// offset stops after the last complete line
	if r.Offset() != 8 {
		t.Errorf("offset = %d, want 8", r.Offset())
	}

	// completing the line makes it available on the next poll
	appendLog(t, path, "2}\n")
	lines, err = r.Poll()
	if err != nil {
		t.Fatalf("poll: %v", err)
	}
	if len(lines) != 1 || string(lines[0]) != `{"b":2}` {
		t.Fatalf("lines = %q, want the completed line", lines)
	}
}

func TestPollMonotonicOffsetOnAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.jsonl")
	writeLog(t, path, "{\"n\":1}\n")

	r := NewReader(path)
	var offsets []int64
	for i := 0; i < 3; i++ {
		if _, err := r.Poll(); err != nil {
			t.Fatalf("poll: %v", err)
		}
		offsets = append(offsets, r.Offset())
		appendLog(t, path, "{\"n\":2}\n")
	}
	for i := 1; i < len(offsets); i++ {
		if offsets[i] < offsets[i-1] {
			t.Errorf("offset decreased: %v", offsets)
		}
	}
}

func TestPollNoNewData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.jsonl")
	writeLog(t, path, "{\"a\":1}\n")

	r := NewReader(path)
	if _, err := r.Poll(); err != nil {
		t.Fatalf("poll: %v", err)
	}
	lines, err := r.Poll()
	if err != nil {
		t.Fatalf("poll: %v", err)
	}
	if lines != nil {
		t.Errorf("lines = %q, want nil", lines)
	}
}

func TestPollTruncationResetsToStart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.jsonl")
	writeLog(t, path, "{\"a\":1}\n{\"b\":2}\n{\"c\":3}\n")

	r := NewReader(path)
	if _, err := r.Poll(); err != nil {
		t.Fatalf("poll: %v", err)
	}

	// rotate: replaced with a shorter file
	writeLog(t, path, "{\"d\":4}\n")
	lines, err := r.Poll()
	if err != nil {
		t.Fatalf("poll after truncate: %v", err)
	}
	if len(lines) != 1 || string(lines[0]) != `{"d":4}` {
		t.Fatalf("lines = %q, want the fresh content from offset 0", lines)
	}
	if r.Offset() != 8 {
		t.Errorf("offset = %d, want 8", r.Offset())
	}
}

func TestSkipToEnd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.jsonl")
	writeLog(t, path, "{\"old\":1}\n")

	r := NewReader(path)
	r.SkipToEnd()
	lines, err := r.Poll()
	if err != nil {
		t.Fatalf("poll: %v", err)
	}
	if len(lines) != 0 {
		t.Fatalf("lines = %q, want none after skip", lines)
	}

	appendLog(t, path, "{\"new\":2}\n")
	lines, err = r.Poll()
	if err != nil {
		t.Fatalf("poll: %v", err)
	}
	if len(lines) != 1 || string(lines[0]) != `{"new":2}` {
		t.Fatalf("lines = %q, want only the new line", lines)
	}
}
