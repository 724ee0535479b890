package docker

import (
	"time"

	"github.com/docker/docker/client"
)

// Option configures an Engine.
type Option func(*Engine)

// WithClient supplies a pre-built Docker client instead of the
// environment-derived default.
func WithClient(cli *client.Client) Option {
	return func(e *Engine) {
		e.cli = cli
	}
}

// WithPullPolicy sets when images are pulled. Default is PullMissing.
func WithPullPolicy(p PullPolicy) Option {
	return func(e *Engine) {
		e.pull = p
	}
}

// WithStopGrace sets the default grace period between the stop signal and
// the follow-up kill, used when StopOptions does not specify one. Zero
// leaves it to the daemon's default.
func WithStopGrace(d time.Duration) Option {
	return func(e *Engine) {
		e.stopGrace = d
	}
}
