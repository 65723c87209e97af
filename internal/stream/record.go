package stream

import (
	"encoding/json"
	"time"
)

// Record is one decoded JSONL log line. All fields are optional; accessors
// return zero values when a field is absent or has an unexpected type.
type Record map[string]any

// knownFields are rendered in the header/message of a record and excluded
// from the extra-fields block.
var knownFields = map[string]bool{
	"time":       true,
	"level":      true,
	"section":    true,
	"message":    true,
	"msg":        true,
	"event":      true,
	"run_name":   true,
	"run_id":     true,
	"group":      true,
	"cache_path": true,
}

func (r Record) str(key string) string {
	v, ok := r[key]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// TimeString returns the raw time field.
func (r Record) TimeString() string { return r.str("time") }

// Time parses the time field as RFC3339 (Z or numeric offset).
// Returns the zero time and false when absent or unparseable.
func (r Record) Time() (time.Time, bool) {
	s := r.str("time")
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func (r Record) Level() string     { return r.str("level") }
func (r Record) Section() string   { return r.str("section") }
func (r Record) RunName() string   { return r.str("run_name") }
func (r Record) RunID() string     { return r.str("run_id") }
func (r Record) Group() string     { return r.str("group") }
func (r Record) CachePath() string { return r.str("cache_path") }

// Message returns the display text: the first non-empty of message, msg, event.
func (r Record) Message() string {
	for _, key := range []string{"message", "msg", "event"} {
		if s := r.str(key); s != "" {
			return s
		}
	}
	return ""
}

// Extra returns the fields outside the known set, for the secondary block.
// Returns nil when there are none.
func (r Record) Extra() map[string]any {
	var extra map[string]any
	for k, v := range r {
		if knownFields[k] {
			continue
		}
		if extra == nil {
			extra = make(map[string]any)
		}
		extra[k] = v
	}
	return extra
}

// JSON re-encodes the record as a single line. Encoding a decoded map
// cannot fail; the error path exists only for interface symmetry.
func (r Record) JSON() ([]byte, error) {
	return json.Marshal(r)
}
