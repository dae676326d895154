package validator

import (
	"slices"
	"time"

	"github.com/abasis-ltd/gtfs.guru-sub001/internal/table"
)

// Config is the read-only, run-scoped configuration handed to every
// validator. It is built once before dispatch and must not change while
// validators run.
type Config struct {
	// CurrentDate anchors date-relative rules such as feed expiration.
	CurrentDate time.Time
	// CountryCode is an upper-case ISO 3166-1 region, or empty.
	CountryCode string
	// VendorRules enables the stricter rule subset used by trip planners.
	VendorRules bool
	// Thorough enables expensive checks.
	Thorough bool
	// Skip lists validator names that must not run.
	Skip []string
}

// DefaultConfig returns a configuration anchored at now with every optional
// rule set disabled.
func DefaultConfig(now time.Time) *Config {
	return &Config{CurrentDate: now}
}

// Today is CurrentDate as a service date.
func (c *Config) Today() table.Date {
	return table.DateOf(c.CurrentDate)
}

// Skipped reports whether the named validator is disabled.
func (c *Config) Skipped(name string) bool {
	return slices.Contains(c.Skip, name)
}
