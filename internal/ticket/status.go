package ticket

import (
	"slices"
	"strings"
)

const DefaultInitialStatus = "open"

var DefaultStatuses = []string{"open", "in-progress", "resolved", "closed"}

// StatusSet is the closed set of statuses a ticket may hold. Order is kept
// for display.
type StatusSet struct {
	values []string
}

// NewStatusSet normalizes values (trim, lower-case) and drops blanks and
// duplicates.
func NewStatusSet(values ...string) StatusSet {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = NormalizeStatus(v)
		if v == "" || slices.Contains(out, v) {
			continue
		}
		out = append(out, v)
	}
	return StatusSet{values: out}
}

func NormalizeStatus(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (s StatusSet) Contains(status string) bool {
	return slices.Contains(s.values, status)
}

func (s StatusSet) Values() []string {
	return slices.Clone(s.values)
}

func (s StatusSet) Len() int { return len(s.values) }
