package term

import (
	"fmt"
	"testing"

	"github.com/rvilkov/loglab/internal/stream"
)

func TestRingPushSnapshot(t *testing.T) {
	r := NewRing(10)
	for i := 0; i < 3; i++ {
		r.Push(stream.Record{"message": fmt.Sprintf("m%d", i)})
	}

	snap := r.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("len = %d, want 3", len(snap))
	}
	if snap[0].Message() != "m0" || snap[2].Message() != "m2" {
		t.Errorf("snapshot out of order: %v", snap)
	}
}

func TestRingWrapsOldest(t *testing.T) {
	r := NewRing(3)
	for i := 0; i < 5; i++ {
		r.Push(stream.Record{"message": fmt.Sprintf("m%d", i)})
	}

	snap := r.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("len = %d, want 3", len(snap))
	}
	if snap[0].Message() != "m2" || snap[2].Message() != "m4" {
		t.Errorf("wrap kept wrong entries: %v", snap)
	}
}

func TestRingVersionAdvances(t *testing.T) {
	r := NewRing(2)
	v0 := r.Version()
	r.Push(stream.Record{})
	if r.Version() <= v0 {
		t.Error("version did not advance")
	}
}

func TestRingEmptySnapshot(t *testing.T) {
	r := NewRing(0)
	if snap := r.Snapshot(); snap != nil {
		t.Errorf("snapshot = %v, want nil", snap)
	}
}
