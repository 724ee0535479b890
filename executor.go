package dockerexec

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
)

const (
	// defaultNamePrefix prefixes generated container names.
	defaultNamePrefix = "docker-exec"

	// cleanupTimeout bounds the stop and forced-remove phase. Cleanup runs
	// on a fresh background context so it completes even when the caller's
	// context is cancelled or the run phase timed out.
	cleanupTimeout = 30 * time.Second
)

// Executor runs a fixed command in ephemeral containers. Each Execute call
// creates a fresh container, runs the command to completion, captures its
// output, and stops and force-removes the container regardless of outcome.
//
// An Executor is safe for concurrent use; concurrent Execute calls operate
// on independent containers.
type Executor struct {
	engine     Engine
	image      string
	command    []string
	timeout    time.Duration
	namePrefix string
	logger     *slog.Logger
	logWriter  func(chunk string)
}

// New creates an Executor that runs command in containers created from
// image. The command must be non-empty.
func New(engine Engine, image string, command []string, opts ...Option) (*Executor, error) {
	if len(command) == 0 {
		return nil, errors.New("dockerexec: empty command")
	}

	x := &Executor{
		engine:     engine,
		image:      image,
		command:    append([]string(nil), command...),
		namePrefix: defaultNamePrefix,
		logger:     slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(x)
	}
	return x, nil
}

// Execute creates a container, runs the command, and returns its trimmed
// output. On a non-zero exit code it returns *ExitError with the combined
// stdout and stderr. When the configured timeout elapses first it returns
// *TimeoutError. The container is stopped and force-removed on every path
// after creation succeeds; if that removal fails after an otherwise
// successful run, Execute returns *CleanupError.
func (x *Executor) Execute(ctx context.Context) (string, error) {
	name := x.containerName()
	logger := x.logger.With("container", name, "image", x.image)

	handle, err := x.engine.Create(ctx, CreateSpec{
		Image:   x.image,
		Command: x.command,
		Name:    name,
	})
	if err != nil {
		executionsTotal.WithLabelValues(statusFailed).Inc()
		return "", &EngineError{Op: "create", Err: err}
	}
	logger.Info("container created", "command", x.command)

	activeContainers.Inc()
	start := time.Now()

	output, runErr := x.runGuarded(ctx, handle, logger)
	runElapsed := time.Since(start)
	runDuration.Observe(runElapsed.Seconds())

	cleanupErr := x.cleanup(handle, logger, runErr != nil)
	activeContainers.Dec()

	if runErr != nil {
		executionsTotal.WithLabelValues(statusOf(runErr)).Inc()
		return "", runErr
	}
	if cleanupErr != nil {
		executionsTotal.WithLabelValues(statusFailed).Inc()
		return "", &CleanupError{Err: cleanupErr}
	}

	executionsTotal.WithLabelValues(statusCompleted).Inc()
	logger.Info("execution completed", "duration", runElapsed)
	return output, nil
}

// runResult carries the run phase's outcome across the timeout race.
type runResult struct {
	output string
	err    error
}

// runGuarded runs the start/wait/logs phase, racing it against the
// configured timeout. On timeout the run goroutine is abandoned rather
// than interrupted; the result channel is buffered so it can still
// complete, and the subsequent forced remove reclaims the container.
func (x *Executor) runGuarded(ctx context.Context, h Handle, logger *slog.Logger) (string, error) {
	if x.timeout <= 0 {
		return x.run(ctx, h, logger)
	}

	done := make(chan runResult, 1)
	go func() {
		output, err := x.run(ctx, h, logger)
		done <- runResult{output: output, err: err}
	}()

	timer := time.NewTimer(x.timeout)
	defer timer.Stop()

	select {
	case res := <-done:
		return res.output, res.err
	case <-timer.C:
		logger.Warn("run phase timed out", "timeout", x.timeout)
		return "", &TimeoutError{After: x.timeout}
	}
}

// run drives a created container through start, wait, and log collection.
func (x *Executor) run(ctx context.Context, h Handle, logger *slog.Logger) (string, error) {
	if err := x.engine.Start(ctx, h); err != nil {
		return "", &EngineError{Op: "start", Err: err}
	}

	code, err := x.engine.Wait(ctx, h)
	if err != nil {
		return "", &EngineError{Op: "wait", Err: err}
	}
	logger.Debug("container exited", "exit_code", code)

	if code != 0 {
		output, err := x.fetchLogs(ctx, h, LogOptions{Stdout: true, Stderr: true})
		if err != nil {
			return "", err
		}
		return "", &ExitError{Code: code, Output: output}
	}

	return x.fetchLogs(ctx, h, LogOptions{Stdout: true})
}

// fetchLogs opens the container's log stream and aggregates it.
func (x *Executor) fetchLogs(ctx context.Context, h Handle, opts LogOptions) (string, error) {
	stream, err := x.engine.Logs(ctx, h, opts)
	if err != nil {
		return "", &EngineError{Op: "logs", Err: err}
	}
	defer stream.Close()

	return collectOutput(stream, x.logWriter)
}

// cleanup stops and force-removes the container on a fresh background
// context (the caller's may be cancelled or past its deadline). Stop
// failures are logged and swallowed, since the container may have already
// exited; a failed remove is returned so callers learn the container
// leaked. swallowed marks cleanup failures the caller will discard in
// favor of a run-phase error, which keeps them at Debug level.
func (x *Executor) cleanup(h Handle, logger *slog.Logger, swallowed bool) error {
	cleanupStart := time.Now()
	defer func() {
		cleanupDuration.Observe(time.Since(cleanupStart).Seconds())
	}()

	ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
	defer cancel()

	if err := x.engine.Stop(ctx, h, StopOptions{}); err != nil {
		logger.Debug("stop failed, proceeding to forced remove", "error", err)
	}

	if err := x.engine.Remove(ctx, h, RemoveOptions{Force: true}); err != nil {
		if swallowed {
			logger.Debug("forced remove failed, container may be leaked", "error", err)
		} else {
			logger.Error("forced remove failed, container may be leaked", "error", err)
		}
		return err
	}

	logger.Debug("cleanup complete")
	return nil
}

// containerName generates a unique name for the next container.
func (x *Executor) containerName() string {
	return x.namePrefix + "-" + ulid.Make().String()
}

// statusOf maps a run phase error to its metric label.
func statusOf(err error) string {
	var te *TimeoutError
	if errors.As(err, &te) {
		return statusTimeout
	}
	return statusFailed
}
