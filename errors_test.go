package dockerexec_test

import (
	"errors"
	"testing"
	"time"

	dockerexec "github.com/insprac/docker-exec"
)

func TestExitErrorMessage(t *testing.T) {
	err := &dockerexec.ExitError{Code: 2, Output: "ls: /nope: No such file or directory"}

	want := "Command failed with status code: 2\nls: /nope: No such file or directory"
	if err.Error() != want {
		t.Errorf("message = %q, want %q", err.Error(), want)
	}
	if err.ExitCode() != 2 {
		t.Errorf("ExitCode() = %d, want 2", err.ExitCode())
	}
}

func TestTimeoutErrorMessage(t *testing.T) {
	err := &dockerexec.TimeoutError{After: 1500 * time.Millisecond}
	if err.Error() != "execution timed out after 1.5s" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestEngineErrorUnwrap(t *testing.T) {
	cause := errors.New("daemon unreachable")
	err := &dockerexec.EngineError{Op: "start", Err: cause}

	if !errors.Is(err, cause) {
		t.Error("errors.Is failed to reach the cause")
	}
	if err.Error() != "engine start: daemon unreachable" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestCleanupErrorUnwrap(t *testing.T) {
	cause := errors.New("removal in progress")
	err := &dockerexec.CleanupError{Err: cause}

	if !errors.Is(err, cause) {
		t.Error("errors.Is failed to reach the cause")
	}
	if err.Error() != "cleanup: remove container: removal in progress" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestDecodeErrorMessage(t *testing.T) {
	err := &dockerexec.DecodeError{Off: 17}
	if err.Error() != "log chunk is not valid UTF-8 (invalid byte at offset 17)" {
		t.Errorf("message = %q", err.Error())
	}
}
