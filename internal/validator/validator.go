package validator

import (
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/gtfs"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/notice"
)

// Validator is a single fixed validation rule. Validate reads the feed and
// configuration, never mutates them, and writes findings only to sink.
// A validator returns without notices when its inputs are absent or unusable.
type Validator interface {
	Name() string
	Validate(feed *gtfs.Feed, cfg *Config, sink *notice.Container)
}

// Func adapts a plain function to the Validator interface.
type Func struct {
	name string
	fn   func(*gtfs.Feed, *Config, *notice.Container)
}

// New wraps fn as a named validator.
func New(name string, fn func(*gtfs.Feed, *Config, *notice.Container)) *Func {
	return &Func{name: name, fn: fn}
}

func (f *Func) Name() string { return f.name }

func (f *Func) Validate(feed *gtfs.Feed, cfg *Config, sink *notice.Container) {
	f.fn(feed, cfg, sink)
}
