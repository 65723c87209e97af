package stream

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestScanAllCountsValidLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.jsonl")
	content := `{"valid":"json"}
invalid json line
{"another":"valid","run_name":"test","run_id":"1"}
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	var got []Record
	n, err := ScanAll(path, Criteria{}, func(r Record) { got = append(got, r) })
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if n != 2 || len(got) != 2 {
		t.Fatalf("emitted = %d, want 2", n)
	}
}

func TestScanAllIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.jsonl")
	content := "{\"level\":\"INFO\",\"message\":\"a\"}\n{\"level\":\"ERROR\",\"message\":\"b\"}\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	var first, second []string
	if _, err := ScanAll(path, Criteria{}, func(r Record) { first = append(first, r.Message()) }); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if _, err := ScanAll(path, Criteria{}, func(r Record) { second = append(second, r.Message()) }); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("runs differ: %v vs %v", first, second)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("record %d differs: %q vs %q", i, first[i], second[i])
		}
	}
}

func TestScanAllFilterConjunction(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.jsonl")
	content := "{\"level\":\"INFO\",\"run_name\":\"a\"}\n{\"level\":\"ERROR\",\"run_name\":\"a\"}\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	var got []Record
	n, err := ScanAll(path, Criteria{Level: "INFO", RunName: "a"}, func(r Record) { got = append(got, r) })
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if n != 1 {
		t.Fatalf("emitted = %d, want 1", n)
	}
	if got[0].Level() != "INFO" {
		t.Errorf("level = %q, want INFO", got[0].Level())
	}
}

func TestScanAllMissingFile(t *testing.T) {
	_, err := ScanAll(filepath.Join(t.TempDir(), "nope.jsonl"), Criteria{}, func(Record) {})
	if err == nil {
		t.Fatal("expected error for missing file in bounded mode")
	}
}

func TestFollowPicksUpAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.jsonl")
	if err := os.WriteFile(path, []byte("{\"message\":\"existing\"}\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	var mu sync.Mutex
	var msgs []string
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Follow(ctx, path, Criteria{}, 10*time.Millisecond, false, func(r Record) {
			mu.Lock()
			msgs = append(msgs, r.Message())
			mu.Unlock()
		})
	}()

	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(msgs) == 1
	})

	appendLog(t, path, "{\"message\":\"appended\"}\n")
	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(msgs) == 2
	})

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("follow: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if msgs[0] != "existing" || msgs[1] != "appended" {
		t.Errorf("msgs = %v", msgs)
	}
}

func TestFollowWaitsForFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "late.jsonl")

	var mu sync.Mutex
	var count int
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Follow(ctx, path, Criteria{}, 10*time.Millisecond, false, func(Record) {
			mu.Lock()
			count++
			mu.Unlock()
		})
	}()

	// file appears after the session starts
	time.Sleep(30 * time.Millisecond)
	if err := os.WriteFile(path, []byte("{\"message\":\"late\"}\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return count == 1
	})

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("follow: %v", err)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}
