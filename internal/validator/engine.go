package validator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/abasis-ltd/gtfs.guru-sub001/internal/gtfs"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/notice"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/port"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/progress"
)

// CodeRuntimeException replaces the output of a validator that panicked.
const CodeRuntimeException = "runtime_exception_in_validator"

// Engine dispatches the validators of a Registry over one feed.
type Engine struct {
	registry *Registry
	progress port.ProgressReporter

	// Parallelism is the maximum number of validators run at once. Values
	// below 2 run validators sequentially on the calling goroutine.
	Parallelism int
}

// NewEngine creates a new validation engine. A nil reporter is treated as
// progress.Noop.
func NewEngine(registry *Registry, reporter port.ProgressReporter) *Engine {
	return &Engine{
		registry: registry,
		progress: progress.OrNoop(reporter),
	}
}

// Run executes every enabled validator and returns their notices merged in
// registration order, whatever order they completed in. It returns ctx.Err()
// if the context is cancelled before all validators were started.
func (e *Engine) Run(ctx context.Context, feed *gtfs.Feed, cfg *Config) (*notice.Container, error) {
	validators := e.registry.Enabled(cfg.Skip)
	e.progress.SetTotalValidators(len(validators))

	start := time.Now()
	results := make([]*notice.Container, len(validators))

	if e.Parallelism < 2 {
		for i, v := range validators {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			results[i] = e.runOne(v, feed, cfg)
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(e.Parallelism)
		for i, v := range validators {
			if gctx.Err() != nil {
				break
			}
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				results[i] = e.runOne(v, feed, cfg)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	merged := notice.NewContainer()
	for _, r := range results {
		merged.AddAll(r)
	}

	slog.Info("validation finished",
		"validators", len(validators),
		"parallelism", max(e.Parallelism, 1),
		"notices", merged.Len(),
		"errors", merged.ErrorCount(),
		"warnings", merged.WarningCount(),
		"elapsed", time.Since(start),
	)
	return merged, nil
}

// runOne runs a single validator into a private container. A panic discards
// whatever the validator emitted and yields one runtime exception notice.
func (e *Engine) runOne(v Validator, feed *gtfs.Feed, cfg *Config) (out *notice.Container) {
	name := v.Name()
	out = notice.NewContainer()
	e.progress.OnStartValidation(name)
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			slog.Error("validator panicked", "validator", name, "panic", r)
			out = notice.NewContainer()
			out.Add(notice.New(CodeRuntimeException, notice.Error, "validator failed unexpectedly and its results were discarded").
				Str("validator", name).
				Str("exception", fmt.Sprint(r)))
		}
		e.progress.OnFinishValidation(name)
		e.progress.IncrementValidatorProgress()
	}()

	v.Validate(feed, cfg, out)
	slog.Debug("validator finished", "validator", name, "notices", out.Len(), "elapsed", time.Since(start))
	return out
}
