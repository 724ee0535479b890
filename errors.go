package dockerexec

import (
	"fmt"
	"time"
)

// EngineError wraps a failure from the underlying container engine and
// records which lifecycle operation failed.
type EngineError struct {
	// Op is the engine operation that failed: "create", "start", "wait"
	// or "logs".
	Op string

	// Err is the engine's error.
	Err error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("engine %s: %v", e.Op, e.Err)
}

func (e *EngineError) Unwrap() error { return e.Err }

// ExitError reports a command that ran to completion with a non-zero exit
// code. Output holds the combined stdout and stderr, trimmed.
type ExitError struct {
	Code   int
	Output string
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("Command failed with status code: %d\n%s", e.Code, e.Output)
}

// ExitCode returns the command's exit code.
func (e *ExitError) ExitCode() int { return e.Code }

// TimeoutError reports an execution abandoned because the configured
// deadline elapsed before the run phase finished.
type TimeoutError struct {
	// After is the deadline that elapsed.
	After time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("execution timed out after %s", e.After)
}

// DecodeError reports a log chunk that was not valid UTF-8.
type DecodeError struct {
	// Off is the byte offset of the first invalid sequence within the
	// chunk.
	Off int
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("log chunk is not valid UTF-8 (invalid byte at offset %d)", e.Off)
}

// CleanupError reports that the execution itself succeeded but removing
// the container afterwards failed, leaving it behind on the host.
type CleanupError struct {
	Err error
}

func (e *CleanupError) Error() string {
	return fmt.Sprintf("cleanup: remove container: %v", e.Err)
}

func (e *CleanupError) Unwrap() error { return e.Err }
