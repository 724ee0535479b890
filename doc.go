// Package dockerexec executes one-shot commands in ephemeral containers.
//
// Each Execute call creates a fresh container from the configured image,
// runs the command, captures its trimmed stdout, and removes the container
// again regardless of outcome, including after failures and timeouts:
//
//	engine, err := docker.New()
//	if err != nil {
//		return err
//	}
//	exec, err := dockerexec.New(engine, "alpine", []string{"echo", "Hello"},
//		dockerexec.WithTimeout(10*time.Second))
//	if err != nil {
//		return err
//	}
//	output, err := exec.Execute(ctx) // "Hello"
//
// The container engine is injected as an interface (the docker subpackage
// adapts the Docker Engine API), so tests can substitute a fake and
// concurrent executions can share one daemon connection. Failures are
// typed (*ExitError, *TimeoutError, *EngineError, *DecodeError,
// *CleanupError) and carry structured fields for callers to assert on.
package dockerexec
