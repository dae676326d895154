package notice

import (
	"encoding/json"
)

// Container is an append-only, ordered sequence of notices. It is not safe
// for concurrent use; the engine gives every validator its own container and
// merges them afterwards.
type Container struct {
	notices []*Notice
}

// NewContainer returns an empty container.
func NewContainer() *Container {
	return &Container{}
}

// Add appends a notice.
func (c *Container) Add(n *Notice) {
	c.notices = append(c.notices, n)
}

// AddAll appends every notice of other, preserving its order.
func (c *Container) AddAll(other *Container) {
	if other == nil {
		return
	}
	c.notices = append(c.notices, other.notices...)
}

// Notices returns the notices in emission order. The slice must not be
// modified.
func (c *Container) Notices() []*Notice {
	return c.notices
}

func (c *Container) Len() int {
	return len(c.notices)
}

func (c *Container) count(s Severity) int {
	total := 0
	for _, n := range c.notices {
		if n.Severity == s {
			total++
		}
	}
	return total
}

func (c *Container) ErrorCount() int   { return c.count(Error) }
func (c *Container) WarningCount() int { return c.count(Warning) }
func (c *Container) InfoCount() int    { return c.count(Info) }

// IsValid reports whether no Error-severity notice was recorded.
func (c *Container) IsValid() bool {
	return c.ErrorCount() == 0
}

// CountsByCode summarizes the container per notice code, most severe first
// and then alphabetically.
func (c *Container) CountsByCode() []CodeCount {
	idx := make(map[string]int)
	var counts []CodeCount
	for _, n := range c.notices {
		i, ok := idx[n.Code]
		if !ok {
			i = len(counts)
			idx[n.Code] = i
			counts = append(counts, CodeCount{Code: n.Code, Severity: n.Severity})
		}
		counts[i].Count++
		if n.Severity > counts[i].Severity {
			counts[i].Severity = n.Severity
		}
	}
	sortCodeCounts(counts)
	return counts
}

// MarshalJSON encodes the notices as a JSON array in emission order.
func (c *Container) MarshalJSON() ([]byte, error) {
	if c == nil || len(c.notices) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(c.notices)
}
