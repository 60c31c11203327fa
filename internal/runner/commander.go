package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Commander is the process port used by the Flutter tools. It lets them be
// tested against a mock instead of real flutter, git, keytool or pkl binaries.
type Commander interface {
	// Output runs a command in dir and returns its stdout. Stderr is folded
	// into the error when the command fails.
	Output(ctx context.Context, dir, name string, args ...string) ([]byte, error)
	// Run runs a command in dir with output streamed to the terminal.
	Run(ctx context.Context, dir, name string, args ...string) error
	// LookPath resolves a command name the way the runner would.
	LookPath(name string) (string, error)
}

// OSCommander executes commands on the host.
type OSCommander struct{}

func NewOSCommander() *OSCommander {
	return &OSCommander{}
}

func (c *OSCommander) Output(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if cmd.Err != nil {
		return nil, &SpawnError{Command: name, Err: cmd.Err}
	}
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, &SpawnError{Command: name, Err: err}
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return stdout.Bytes(), fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
		}
		return stdout.Bytes(), fmt.Errorf("%s %s: %w: %s", name, strings.Join(args, " "), err, msg)
	}
	return stdout.Bytes(), nil
}

func (c *OSCommander) Run(ctx context.Context, dir, name string, args ...string) error {
	_, err := Execute(ctx, &Invocation{
		Command: name,
		Args:    args,
		Dir:     dir,
		Echo:    true,
	})
	return err
}

func (c *OSCommander) LookPath(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", &SpawnError{Command: name, Err: err}
	}
	return path, nil
}

var _ Commander = (*OSCommander)(nil)
