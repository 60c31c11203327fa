package helpers

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/zinc-sig/fluttertools/internal/runner"
)

// UsageError reports invalid flags or arguments. It exits with status 2.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string { return e.Err.Error() }

func (e *UsageError) Unwrap() error { return e.Err }

func (e *UsageError) ExitCode() int { return runner.ExitUsage }

// Usagef returns a formatted UsageError.
func Usagef(format string, args ...any) error {
	return &UsageError{Err: fmt.Errorf(format, args...)}
}

// FlagErrorFunc turns cobra flag parsing errors into UsageErrors.
func FlagErrorFunc(_ *cobra.Command, err error) error {
	return &UsageError{Err: err}
}

// UsageArgs wraps a positional argument validator so its errors are UsageErrors.
func UsageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return &UsageError{Err: err}
		}
		return nil
	}
}

// ReportedError wraps a failure that has already been reported to the
// user. Its exit code is kept but nothing more is printed.
type ReportedError struct {
	Err error
}

func (e *ReportedError) Error() string { return e.Err.Error() }

func (e *ReportedError) Unwrap() error { return e.Err }

// ExitCode maps an error returned by a command to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var coder runner.ExitCoder
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}
	return 1
}

// ParseTimeout parses and validates a timeout duration string
func ParseTimeout(timeoutStr string) (time.Duration, error) {
	if timeoutStr == "" {
		return 0, nil
	}

	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return 0, Usagef("invalid timeout duration: %v", err)
	}

	if timeout <= 0 {
		return 0, Usagef("timeout must be positive")
	}

	return timeout, nil
}

// RequireFlags checks that each named string flag has a non-empty value.
func RequireFlags(cmd *cobra.Command, names ...string) error {
	for _, name := range names {
		value, err := cmd.Flags().GetString(name)
		if err != nil {
			return err
		}
		if value == "" {
			return Usagef("required flag '%s' not set", name)
		}
	}
	return nil
}
