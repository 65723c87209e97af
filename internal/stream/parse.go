package stream

import (
	"bytes"
	"encoding/json"
)

// ParseLine decodes one JSONL line into a Record. Returns false for lines
// that carry no record: empty or whitespace-only lines, invalid JSON, and
// JSON values that are not objects. Malformed input never surfaces as an
// error; the stream continues.
func ParseLine(line []byte) (Record, bool) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return nil, false
	}

	var rec Record
	if err := json.Unmarshal(line, &rec); err != nil {
		return nil, false
	}
	if rec == nil {
		// valid JSON "null" decodes to a nil map
		return nil, false
	}
	return rec, true
}
