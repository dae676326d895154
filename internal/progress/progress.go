// Package progress provides port.ProgressReporter implementations.
package progress

import (
	"log/slog"
	"sync/atomic"

	"github.com/abasis-ltd/gtfs.guru-sub001/internal/port"
)

// Noop discards all progress events. It is the default reporter.
type Noop struct{}

func (Noop) SetTotalFiles(int)           {}
func (Noop) OnStartFileLoad(string)      {}
func (Noop) OnFinishFileLoad(string)     {}
func (Noop) SetTotalValidators(int)      {}
func (Noop) OnStartValidation(string)    {}
func (Noop) OnFinishValidation(string)   {}
func (Noop) IncrementValidatorProgress() {}

// OrNoop returns r, or a Noop reporter when r is nil.
func OrNoop(r port.ProgressReporter) port.ProgressReporter {
	if r == nil {
		return Noop{}
	}
	return r
}

// Logger reports progress as debug-level structured log lines.
type Logger struct {
	log             *slog.Logger
	totalFiles      atomic.Int64
	loadedFiles     atomic.Int64
	totalValidators atomic.Int64
	doneValidators  atomic.Int64
}

// NewLogger creates a reporter writing to log, or to slog.Default when nil.
func NewLogger(log *slog.Logger) *Logger {
	if log == nil {
		log = slog.Default()
	}
	return &Logger{log: log}
}

func (l *Logger) SetTotalFiles(n int) { l.totalFiles.Store(int64(n)) }

func (l *Logger) OnStartFileLoad(file string) {
	l.log.Debug("loading file", "file", file)
}

func (l *Logger) OnFinishFileLoad(file string) {
	done := l.loadedFiles.Add(1)
	l.log.Debug("loaded file", "file", file, "done", done, "total", l.totalFiles.Load())
}

func (l *Logger) SetTotalValidators(n int) { l.totalValidators.Store(int64(n)) }

func (l *Logger) OnStartValidation(name string) {
	l.log.Debug("validator started", "validator", name)
}

func (l *Logger) OnFinishValidation(name string) {
	l.log.Debug("validator finished", "validator", name)
}

func (l *Logger) IncrementValidatorProgress() {
	done := l.doneValidators.Add(1)
	if total := l.totalValidators.Load(); total > 0 && done == total {
		l.log.Info("all validators finished", "validators", total)
	}
}
