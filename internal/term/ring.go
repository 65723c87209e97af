package term

import (
	"sync"

	"github.com/rvilkov/loglab/internal/stream"
)

const defaultRingSize = 5_000

// Ring is a fixed-size circular buffer of accepted records backing the
// interactive view. All methods are safe for concurrent use; the follow
// loop pushes while the TUI snapshots.
type Ring struct {
	mu      sync.Mutex
	buf     []stream.Record
	cap     int
	head    int // next write position
	count   int // entries in buffer (≤ cap)
	version int // monotonic counter for change detection
}

// NewRing creates a ring buffer with the given capacity.
// If cap ≤ 0, defaultRingSize is used.
func NewRing(cap int) *Ring {
	if cap <= 0 {
		cap = defaultRingSize
	}
	return &Ring{
		buf: make([]stream.Record, cap),
		cap: cap,
	}
}

// Push adds a record to the ring. If full, the oldest is overwritten.
// Never blocks.
func (r *Ring) Push(rec stream.Record) {
	r.mu.Lock()
	r.buf[r.head] = rec
	r.head = (r.head + 1) % r.cap
	if r.count < r.cap {
		r.count++
	}
	r.version++
	r.mu.Unlock()
}

// Snapshot returns a chronological copy of all records in the ring.
func (r *Ring) Snapshot() []stream.Record {
	r.mu.Lock()
	n := r.count
	if n == 0 {
		r.mu.Unlock()
		return nil
	}

	out := make([]stream.Record, n)
	start := (r.head - n + r.cap) % r.cap
	for i := 0; i < n; i++ {
		out[i] = r.buf[(start+i)%r.cap]
	}
	r.mu.Unlock()
	return out
}

// Version returns a monotonic counter that increments on every Push.
func (r *Ring) Version() int {
	r.mu.Lock()
	v := r.version
	r.mu.Unlock()
	return v
}
