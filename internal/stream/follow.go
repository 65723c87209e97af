package stream

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"
)

// DefaultInterval is the poll interval used by follow sessions when the
// caller does not specify one.
const DefaultInterval = 250 * time.Millisecond

// Sink receives each record accepted by the filter, in file order.
type Sink func(Record)

// ScanAll performs one bounded pass over the file: parse every line, apply
// the criteria, hand accepted records to fn. Returns the number of records
// emitted. A missing file is an error in bounded mode.
func ScanAll(path string, c Criteria, fn Sink) (int, error) {
	r := NewReader(path)
	lines, err := r.Poll()
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", path, err)
	}

	var emitted int
	for _, line := range lines {
		rec, ok := ParseLine(line)
		if !ok {
			continue
		}
		if !c.Matches(rec) {
			continue
		}
		fn(rec)
		emitted++
	}
	return emitted, nil
}

// Follow drives a cursor over the file until ctx is cancelled, emitting
// accepted records to fn as they appear. The first poll delivers everything
// already in the file; set skipExisting to start from the current end
// instead. A file that does not exist yet is waited for, and a file that is
// truncated mid-session is replayed from the top.
func Follow(ctx context.Context, path string, c Criteria, interval time.Duration, skipExisting bool, fn Sink) error {
	if interval <= 0 {
		interval = DefaultInterval
	}

	r := NewReader(path)
	if skipExisting {
		r.SkipToEnd()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		lines, err := r.Poll()
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("poll %s: %w", path, err)
		}
		for _, line := range lines {
			rec, ok := ParseLine(line)
			if !ok {
				continue
			}
			if !c.Matches(rec) {
				continue
			}
			fn(rec)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
