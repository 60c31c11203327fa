package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
)

// Status is the outcome class of a finished child process.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
	StatusKilled  Status = "killed"
	StatusTimeout Status = "timeout"
)

// Invocation is a single request to run one external command.
type Invocation struct {
	Command string
	Args    []string
	Dir     string // working directory of the child, empty for the caller's
	LogFile string // appended with the child's stdout and stderr when set
	Echo    bool   // also write output to the terminal when LogFile is set
	Timeout time.Duration
	Verbose bool

	// Terminal streams, defaulting to the process's own.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Result describes a finished child process.
type Result struct {
	Command       string
	Status        Status
	ExitCode      int
	ExecutionTime int64 // milliseconds
}

// FullCommand renders the command line for display.
func (inv *Invocation) FullCommand() string {
	return strings.Join(append([]string{inv.Command}, inv.Args...), " ")
}

func (inv *Invocation) stdin() io.Reader {
	if inv.Stdin != nil {
		return inv.Stdin
	}
	return os.Stdin
}

func (inv *Invocation) stdout() io.Writer {
	if inv.Stdout != nil {
		return inv.Stdout
	}
	return os.Stdout
}

func (inv *Invocation) stderr() io.Writer {
	if inv.Stderr != nil {
		return inv.Stderr
	}
	return os.Stderr
}

// Validate checks everything that can be checked without touching the log
// file or spawning a process.
func (inv *Invocation) Validate() error {
	if strings.TrimSpace(inv.Command) == "" {
		return configErrorf(nil, "no command specified")
	}
	if inv.Timeout < 0 {
		return configErrorf(nil, "timeout must be positive")
	}
	if inv.Dir != "" {
		info, err := os.Stat(inv.Dir)
		if err != nil {
			return configErrorf(err, "invalid working directory %s", inv.Dir)
		}
		if !info.IsDir() {
			return configErrorf(nil, "working directory %s is not a directory", inv.Dir)
		}
	}
	if inv.LogFile != "" {
		info, err := os.Stat(inv.LogFile)
		switch {
		case err == nil:
			if info.Mode().Type()&(fs.ModeDir|fs.ModeNamedPipe|fs.ModeSocket) != 0 {
				return configErrorf(nil, "log path %s is not a writable file", inv.LogFile)
			}
		case !errors.Is(err, fs.ErrNotExist):
			return configErrorf(err, "invalid log path %s", inv.LogFile)
		}
	}
	return nil
}

// Execute runs the invocation to completion. A non-nil Result is returned
// whenever the child was started; the error is then nil or a *ChildFailure.
// Errors returned without a Result are *ConfigurationError or *SpawnError.
func Execute(ctx context.Context, inv *Invocation) (*Result, error) {
	if err := inv.Validate(); err != nil {
		return nil, err
	}

	runCtx := ctx
	if inv.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, inv.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, inv.Command, inv.Args...)
	if cmd.Err != nil {
		return nil, &SpawnError{Command: inv.Command, Err: cmd.Err}
	}
	cmd.Dir = inv.Dir
	cmd.Stdin = inv.stdin()
	// Grandchildren holding the pipes open must not keep us waiting forever
	// once the child itself is gone.
	cmd.WaitDelay = 2 * time.Second

	var logFile *os.File
	createdLog := false
	if inv.LogFile != "" {
		_, statErr := os.Stat(inv.LogFile)
		createdLog = errors.Is(statErr, fs.ErrNotExist)
		f, err := os.OpenFile(inv.LogFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
		if err != nil {
			return nil, configErrorf(err, "failed to open log file %s", inv.LogFile)
		}
		logFile = f
		defer func() {
			if logFile != nil {
				_ = logFile.Close()
			}
		}()

		sink := newLockedWriter(logFile)
		if inv.Echo {
			cmd.Stdout = io.MultiWriter(inv.stdout(), sink)
			cmd.Stderr = io.MultiWriter(inv.stderr(), sink)
		} else {
			cmd.Stdout = sink
			cmd.Stderr = sink
		}
	} else {
		cmd.Stdout = inv.stdout()
		cmd.Stderr = inv.stderr()
	}

	if inv.Verbose {
		PrintPreExecution(inv.stderr(), inv)
	}

	startTime := time.Now()
	if err := cmd.Start(); err != nil {
		// Path-style commands skip LookPath, so Start is the first to notice them missing.
		if logFile != nil {
			_ = logFile.Close()
			logFile = nil
			if createdLog {
				_ = os.Remove(inv.LogFile)
			}
		}
		return nil, &SpawnError{Command: inv.Command, Err: err}
	}

	stopForwarding := forwardSignals(cmd.Process)
	err := cmd.Wait()
	stopForwarding()

	result := &Result{
		Command:       inv.FullCommand(),
		Status:        StatusSuccess,
		ExecutionTime: time.Since(startTime).Milliseconds(),
	}

	if errors.Is(err, exec.ErrWaitDelay) && cmd.ProcessState != nil && cmd.ProcessState.Success() {
		// The child exited cleanly but a background process it started still
		// holds stdout or stderr; its remaining output is dropped.
		logrus.WithField("command", inv.Command).
			Warnf("output truncated: a background process kept the output open %s after exit", cmd.WaitDelay)
		err = nil
	}

	var failure *ChildFailure
	if err != nil {
		failure = classifyWaitError(inv, runCtx, err)
		if failure == nil {
			return nil, fmt.Errorf("failed to copy output of %s: %w", inv.Command, err)
		}
		result.Status = failure.Status
		result.ExitCode = failure.Code
	}

	if logFile != nil {
		closeErr := logFile.Close()
		logFile = nil
		if closeErr != nil {
			return result, fmt.Errorf("failed to close log file %s: %w", inv.LogFile, closeErr)
		}
	}

	if inv.Verbose {
		PrintPostExecution(inv.stderr(), result)
	}

	if failure != nil {
		return result, failure
	}
	return result, nil
}

// classifyWaitError maps the error returned by Wait to a ChildFailure, or
// nil if the child itself exited cleanly and only output copying failed.
func classifyWaitError(inv *Invocation, runCtx context.Context, err error) *ChildFailure {
	if inv.Timeout > 0 && errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return &ChildFailure{
			Command: inv.Command,
			Status:  StatusTimeout,
			Code:    ExitTimeout,
			Timeout: inv.Timeout,
		}
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return nil
	}

	if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
		sig := status.Signal()
		return &ChildFailure{
			Command: inv.Command,
			Status:  StatusKilled,
			Code:    exitSignalBase + int(sig),
			Signal:  sig.String(),
		}
	}

	code := exitErr.ExitCode()
	if code <= 0 {
		// Abnormal termination without a usable status must never read as success.
		code = 1
	}
	return &ChildFailure{Command: inv.Command, Status: StatusFailed, Code: code}
}
