package stream

import (
	"fmt"
	"strings"
	"time"
)

// Criteria filters records. Zero-value fields impose no constraint; set
// fields are conjunctive. Level is a case-insensitive exact match; Section,
// RunName, RunID and Group are case-insensitive substring matches; Within
// accepts only records whose time field falls inside the trailing window.
type Criteria struct {
	Level   string
	Section string
	RunName string
	RunID   string
	Group   string
	Within  time.Duration

	// now allows tests to pin the clock. Nil means time.Now.
	now func() time.Time
}

// Active reports whether any criterion is set.
func (c Criteria) Active() bool {
	return c.Level != "" || c.Section != "" || c.RunName != "" ||
		c.RunID != "" || c.Group != "" || c.Within > 0
}

// Matches reports whether rec passes every set criterion. It is total:
// missing fields fail only explicitly set string criteria, and a missing or
// unparseable time field leaves the Within criterion non-restrictive.
func (c Criteria) Matches(rec Record) bool {
	if c.Level != "" && !strings.EqualFold(rec.Level(), c.Level) {
		return false
	}
	if !containsFold(rec.Section(), c.Section) {
		return false
	}
	if !containsFold(rec.RunName(), c.RunName) {
		return false
	}
	if !containsFold(rec.RunID(), c.RunID) {
		return false
	}
	if !containsFold(rec.Group(), c.Group) {
		return false
	}

	if c.Within > 0 {
		if ts, ok := rec.Time(); ok {
			now := time.Now()
			if c.now != nil {
				now = c.now()
			}
			if now.Sub(ts) > c.Within {
				return false
			}
		}
	}

	return true
}

// String renders the active criteria for the tail banner.
func (c Criteria) String() string {
	var parts []string
	if c.Level != "" {
		parts = append(parts, "level="+strings.ToUpper(c.Level))
	}
	if c.Section != "" {
		parts = append(parts, "section="+c.Section)
	}
	if c.RunName != "" {
		parts = append(parts, "run_name="+c.RunName)
	}
	if c.RunID != "" {
		parts = append(parts, "run_id="+c.RunID)
	}
	if c.Group != "" {
		parts = append(parts, "group="+c.Group)
	}
	if c.Within > 0 {
		parts = append(parts, fmt.Sprintf("within=%s", c.Within))
	}
	return strings.Join(parts, ", ")
}

// containsFold reports whether want appears within got, case-insensitively.
// An empty want always matches.
func containsFold(got, want string) bool {
	if want == "" {
		return true
	}
	return strings.Contains(strings.ToLower(got), strings.ToLower(want))
}
