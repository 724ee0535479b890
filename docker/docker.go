// Package docker adapts the Docker Engine API to dockerexec.Engine.
package docker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"

	dockerexec "github.com/insprac/docker-exec"
)

// PullPolicy controls when Create pulls the container image.
type PullPolicy string

const (
	// PullMissing pulls only when the image is absent locally. Default.
	PullMissing PullPolicy = "missing"

	// PullAlways pulls on every Create, refreshing mutable tags.
	PullAlways PullPolicy = "always"

	// PullNever fails Create if the image is absent locally.
	PullNever PullPolicy = "never"
)

// Engine drives containers through the Docker Engine API. It is safe for
// concurrent use; executions share one daemon connection.
type Engine struct {
	cli       *client.Client
	pull      PullPolicy
	stopGrace time.Duration
}

// New creates an Engine connected per the standard environment variables
// (DOCKER_HOST and friends), negotiating the API version with the daemon.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{pull: PullMissing}
	for _, opt := range opts {
		opt(e)
	}

	if e.cli == nil {
		cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
		if err != nil {
			return nil, fmt.Errorf("create docker client: %w", err)
		}
		e.cli = cli
	}
	return e, nil
}

// Create pulls the image per the pull policy and creates a container that
// will run the command. The container is not started.
func (e *Engine) Create(ctx context.Context, spec dockerexec.CreateSpec) (dockerexec.Handle, error) {
	if err := e.ensureImage(ctx, spec.Image); err != nil {
		return "", err
	}

	// Tty stays false so stdout and stderr arrive as separate streams.
	cfg := &container.Config{
		Image: spec.Image,
		Cmd:   spec.Command,
	}
	resp, err := e.cli.ContainerCreate(ctx, cfg, nil, nil, nil, spec.Name)
	if err != nil {
		return "", fmt.Errorf("create container: %w", err)
	}
	return dockerexec.Handle(resp.ID), nil
}

// ensureImage makes the image available locally per the pull policy.
func (e *Engine) ensureImage(ctx context.Context, ref string) error {
	switch e.pull {
	case PullNever:
		return nil
	case PullMissing:
		if _, err := e.cli.ImageInspect(ctx, ref); err == nil {
			return nil
		}
	}

	rc, err := e.cli.ImagePull(ctx, ref, image.PullOptions{})
	if err != nil {
		return fmt.Errorf("pull image %s: %w", ref, err)
	}
	defer rc.Close()

	// Drain the progress stream; the pull completes only once it is read.
	if _, err := io.Copy(io.Discard, rc); err != nil {
		return fmt.Errorf("pull image %s: %w", ref, err)
	}
	return nil
}

func (e *Engine) Start(ctx context.Context, h dockerexec.Handle) error {
	return e.cli.ContainerStart(ctx, string(h), container.StartOptions{})
}

// Wait blocks until the container is no longer running and returns its
// exit code.
func (e *Engine) Wait(ctx context.Context, h dockerexec.Handle) (int, error) {
	statusCh, errCh := e.cli.ContainerWait(ctx, string(h), container.WaitConditionNotRunning)

	select {
	case err := <-errCh:
		return 0, err
	case status := <-statusCh:
		if status.Error != nil {
			return 0, errors.New(status.Error.Message)
		}
		return int(status.StatusCode), nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// Logs opens the selected output streams. The returned reader demultiplexes
// the daemon's framing and yields payload chunks in order.
func (e *Engine) Logs(ctx context.Context, h dockerexec.Handle, opts dockerexec.LogOptions) (dockerexec.LogReader, error) {
	rc, err := e.cli.ContainerLogs(ctx, string(h), container.LogsOptions{
		ShowStdout: opts.Stdout,
		ShowStderr: opts.Stderr,
	})
	if err != nil {
		return nil, err
	}
	return newStreamReader(rc), nil
}

// Stop requests a graceful shutdown, falling back to the engine-wide grace
// period and then the daemon's default when none is set.
func (e *Engine) Stop(ctx context.Context, h dockerexec.Handle, opts dockerexec.StopOptions) error {
	grace := opts.Grace
	if grace == 0 {
		grace = e.stopGrace
	}

	stopOpts := container.StopOptions{}
	if grace > 0 {
		// Round up: the daemon reads a zero timeout as kill immediately.
		seconds := int((grace + time.Second - 1) / time.Second)
		stopOpts.Timeout = &seconds
	}
	return e.cli.ContainerStop(ctx, string(h), stopOpts)
}

func (e *Engine) Remove(ctx context.Context, h dockerexec.Handle, opts dockerexec.RemoveOptions) error {
	return e.cli.ContainerRemove(ctx, string(h), container.RemoveOptions{Force: opts.Force})
}

// Ping verifies the daemon is reachable.
func (e *Engine) Ping(ctx context.Context) error {
	_, err := e.cli.Ping(ctx)
	return err
}

// Close releases the underlying client connection.
func (e *Engine) Close() error {
	return e.cli.Close()
}
