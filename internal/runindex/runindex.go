// Package runindex builds a per-run summary from a full scan of a JSONL log
// file. Records without a run_name contribute nothing; within a run, counts
// and first/last timestamps are tracked per run_id.
package runindex

import (
	"fmt"
	"sort"
	"time"

	"github.com/rvilkov/loglab/internal/stream"
)

// Summary is the top-level run index, keyed by run name. It marshals to the
// wire shape served by /api/runs.
type Summary struct {
	Runs map[string]*Run `json:"runs"`
}

// Run aggregates all records sharing one run_name.
type Run struct {
	Total  int      `json:"total"`
	RunIDs []*RunID `json:"run_ids"`
}

// RunID aggregates the records of one run_id within a run.
type RunID struct {
	RunID    string `json:"run_id"`
	Count    int    `json:"count"`
	Earliest string `json:"earliest,omitempty"`
	Latest   string `json:"latest,omitempty"`

	earliest time.Time
	latest   time.Time
}

// Build scans path from the beginning, independent of any live cursor, and
// returns the run index. A missing file is an error; malformed lines are
// skipped as everywhere else in the pipeline.
func Build(path string) (*Summary, error) {
	s := &Summary{Runs: map[string]*Run{}}
	ids := map[string]map[string]*RunID{}

	_, err := stream.ScanAll(path, stream.Criteria{}, func(rec stream.Record) {
		name := rec.RunName()
		if name == "" {
			return
		}
		run := s.Runs[name]
		if run == nil {
			run = &Run{}
			s.Runs[name] = run
			ids[name] = map[string]*RunID{}
		}
		run.Total++

		id := rec.RunID()
		if id == "" {
			return
		}
		rid := ids[name][id]
		if rid == nil {
			rid = &RunID{RunID: id}
			ids[name][id] = rid
			run.RunIDs = append(run.RunIDs, rid)
		}
		rid.Count++
		rid.observe(rec)
	})
	if err != nil {
		return nil, fmt.Errorf("build run index: %w", err)
	}

	// deterministic output: run ids sorted by id value
	for _, run := range s.Runs {
		sort.Slice(run.RunIDs, func(i, j int) bool {
			return run.RunIDs[i].RunID < run.RunIDs[j].RunID
		})
	}
	return s, nil
}

// observe folds a record's timestamp into the earliest/latest bounds.
// Records with a missing or unparseable time still count but do not move
// the bounds.
func (r *RunID) observe(rec stream.Record) {
	ts, ok := rec.Time()
	if !ok {
		return
	}
	if r.earliest.IsZero() || ts.Before(r.earliest) {
		r.earliest = ts
		r.Earliest = rec.TimeString()
	}
	if r.latest.IsZero() || ts.After(r.latest) {
		r.latest = ts
		r.Latest = rec.TimeString()
	}
}
