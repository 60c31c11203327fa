package platforms

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const windowSizeMarker = "Win32Window::Size size("

// ConfigureWindows checks that windows/ exists and, when a window size is
// configured, rewrites the size line of windows/runner/main.cpp. It reports
// whether main.cpp was changed.
func ConfigureWindows(projectDir string, cfg *WindowsConfig) (bool, error) {
	windowsDir := filepath.Join(projectDir, "windows")
	if _, err := os.Stat(windowsDir); err != nil {
		return false, errors.New("windows directory not found. Run 'flutter create --platforms=windows .' first")
	}

	if cfg.WindowWidth == nil || cfg.WindowHeight == nil {
		return false, nil
	}

	mainCpp := filepath.Join(windowsDir, "runner", "main.cpp")
	data, err := os.ReadFile(mainCpp)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read main.cpp: %w", err)
	}

	replacement := fmt.Sprintf("  Win32Window::Size size(%d, %d);  // Configured window size", *cfg.WindowWidth, *cfg.WindowHeight)
	lines := strings.Split(string(data), "\n")
	for i, line := range lines {
		if !strings.Contains(line, windowSizeMarker) {
			continue
		}
		if strings.HasSuffix(line, "\r") {
			lines[i] = replacement + "\r"
		} else {
			lines[i] = replacement
		}
	}

	if err := os.WriteFile(mainCpp, []byte(strings.Join(lines, "\n")), 0644); err != nil {
		return false, fmt.Errorf("failed to write main.cpp: %w", err)
	}
	return true, nil
}
