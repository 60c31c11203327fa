package runner

import (
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"time"
)

// Exit codes reported by the wrapper when the child's own status is not available.
const (
	ExitConfiguration = 1
	ExitUsage         = 2
	ExitTimeout       = 124
	ExitNotExecutable = 126
	ExitNotFound      = 127
	exitSignalBase    = 128
)

// ExitCoder is implemented by errors that carry the process exit code the
// wrapper should terminate with.
type ExitCoder interface {
	ExitCode() int
}

// ConfigurationError reports a bad option detected before any process was spawned.
type ConfigurationError struct {
	Msg string
	Err error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

func (e *ConfigurationError) ExitCode() int { return ExitConfiguration }

func configErrorf(err error, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Msg: fmt.Sprintf(format, args...), Err: err}
}

// SpawnError reports that the child process could not be started at all.
type SpawnError struct {
	Command string
	Err     error
}

func (e *SpawnError) Error() string {
	if errors.Is(e.Err, exec.ErrNotFound) {
		return fmt.Sprintf("%s: command not found", e.Command)
	}
	return fmt.Sprintf("failed to start %s: %v", e.Command, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// ExitCode follows the shell convention: 126 when the file exists but cannot
// be executed, 127 for everything else.
func (e *SpawnError) ExitCode() int {
	if errors.Is(e.Err, fs.ErrPermission) || errors.Is(e.Err, exec.ErrDot) {
		return ExitNotExecutable
	}
	return ExitNotFound
}

// ChildFailure reports a child that started but did not exit cleanly.
type ChildFailure struct {
	Command string
	Status  Status
	Code    int
	Signal  string
	Timeout time.Duration
}

func (e *ChildFailure) Error() string {
	switch e.Status {
	case StatusTimeout:
		return fmt.Sprintf("%s: timed out after %s", e.Command, e.Timeout)
	case StatusKilled:
		return fmt.Sprintf("%s: terminated by signal %s", e.Command, e.Signal)
	default:
		return fmt.Sprintf("%s: exited with status %d", e.Command, e.Code)
	}
}

func (e *ChildFailure) ExitCode() int { return e.Code }
