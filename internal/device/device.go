// Package device resolves a device argument to a Flutter device id.
package device

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"github.com/zinc-sig/fluttertools/internal/runner"
)

// Device is one entry of `flutter devices --machine`.
type Device struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	TargetPlatform string `json:"targetPlatform"`
	Emulator       bool   `json:"emulator"`
}

type Selector struct {
	cmd  runner.Commander
	goos string
}

func NewSelector(cmd runner.Commander) *Selector {
	return &Selector{cmd: cmd, goos: runtime.GOOS}
}

// Select maps query to a device id. An empty query selects nothing, a
// non-negative integer is a 0-based index into the connected devices and
// anything else is returned unchanged as an id.
func (s *Selector) Select(ctx context.Context, query string) (string, error) {
	if query == "" {
		return "", nil
	}

	index, err := strconv.ParseUint(query, 10, 0)
	if err != nil {
		return query, nil
	}

	devices, err := s.List(ctx)
	if err != nil {
		return "", err
	}
	if index >= uint64(len(devices)) {
		return "", fmt.Errorf("device index %d out of range (found %d devices)", index, len(devices))
	}
	return devices[index].ID, nil
}

// List runs `flutter devices --machine`. On Windows flutter.bat is tried
// when flutter itself cannot be started.
func (s *Selector) List(ctx context.Context) ([]Device, error) {
	args := []string{"devices", "--machine"}

	out, err := s.cmd.Output(ctx, "", "flutter", args...)
	var spawnErr *runner.SpawnError
	if err != nil && s.goos == "windows" && errors.As(err, &spawnErr) {
		out, err = s.cmd.Output(ctx, "", "flutter.bat", args...)
	}
	if err != nil {
		if errors.As(err, &spawnErr) {
			return nil, fmt.Errorf("error running flutter devices: %w", err)
		}
		return nil, fmt.Errorf("flutter devices command failed: %w", err)
	}

	return ParseDevices(out)
}

// ParseDevices decodes the JSON array in flutter's machine output, ignoring
// any banner text around it.
func ParseDevices(out []byte) ([]Device, error) {
	text := string(out)
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 {
		start = 0
	}
	if end < 0 {
		end = len(text)
	} else {
		end++
	}
	clean := "[]"
	if start < end {
		clean = text[start:end]
	}

	var devices []Device
	if err := json.Unmarshal([]byte(clean), &devices); err != nil {
		return nil, fmt.Errorf("error parsing device list: %w", err)
	}
	return devices, nil
}
