package dockerexec

import (
	"log/slog"
	"time"
)

// Option configures an Executor.
type Option func(*Executor)

// WithTimeout bounds the run phase of each execution. When the deadline
// elapses Execute abandons the run and returns *TimeoutError; cleanup
// still removes the container. Zero or negative means no deadline.
func WithTimeout(d time.Duration) Option {
	return func(x *Executor) {
		x.timeout = d
	}
}

// WithLogger sets the structured logger. By default logs are discarded.
func WithLogger(logger *slog.Logger) Option {
	return func(x *Executor) {
		if logger != nil {
			x.logger = logger
		}
	}
}

// WithLogWriter registers fn to receive each log chunk as it is read.
// Chunks arrive in stream order. fn is called synchronously while logs are
// drained and should not block.
func WithLogWriter(fn func(chunk string)) Option {
	return func(x *Executor) {
		x.logWriter = fn
	}
}

// WithNamePrefix overrides the prefix of generated container names.
func WithNamePrefix(prefix string) Option {
	return func(x *Executor) {
		if prefix != "" {
			x.namePrefix = prefix
		}
	}
}
