package dockerexec

import (
	"context"
	"time"
)

// Handle identifies a container created by an Engine for the lifetime of
// one execution. Opaque to this package; the docker engine uses container
// IDs.
type Handle string

// CreateSpec describes the container an Engine should create.
type CreateSpec struct {
	// Image is the image reference to create the container from.
	Image string

	// Command is the full argv the container runs, replacing any
	// entrypoint default.
	Command []string

	// Name is the container name. Generated by the Executor, unique per
	// execution.
	Name string
}

// LogOptions selects which streams a Logs call returns.
type LogOptions struct {
	Stdout bool
	Stderr bool
}

// StopOptions configures graceful shutdown.
type StopOptions struct {
	// Grace is how long the engine waits between the polite stop signal
	// and the follow-up kill. Zero means the engine's default.
	Grace time.Duration
}

// RemoveOptions configures container removal.
type RemoveOptions struct {
	// Force removes the container even if it is still running.
	Force bool
}

// LogReader streams log chunks in the order the engine produced them.
type LogReader interface {
	// Next returns the next chunk, or io.EOF after the final one.
	// Chunks are never empty.
	Next() ([]byte, error)

	// Close releases the underlying stream. Safe to call after Next
	// returned an error.
	Close() error
}

// Engine is the container runtime surface the Executor drives. One Handle
// is used by at most one execution at a time, but implementations must be
// safe for concurrent use across handles.
type Engine interface {
	// Create provisions a container without starting it.
	Create(ctx context.Context, spec CreateSpec) (Handle, error)

	// Start begins execution of a created container.
	Start(ctx context.Context, h Handle) error

	// Wait blocks until the container exits and returns its exit code.
	Wait(ctx context.Context, h Handle) (int, error)

	// Logs opens the container's output for reading. The caller closes
	// the returned reader.
	Logs(ctx context.Context, h Handle, opts LogOptions) (LogReader, error)

	// Stop requests a graceful shutdown. Stopping an already-exited
	// container is not an error.
	Stop(ctx context.Context, h Handle, opts StopOptions) error

	// Remove deletes the container and its resources.
	Remove(ctx context.Context, h Handle, opts RemoveOptions) error
}
