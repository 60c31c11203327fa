package output

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// ColorsEnabled reports whether stderr is a terminal and NO_COLOR is unset.
// Status messages go to stderr so stdout stays clean for piped tool output.
func ColorsEnabled() bool {
	if _, noColor := os.LookupEnv("NO_COLOR"); noColor {
		return false
	}
	return term.IsTerminal(int(os.Stderr.Fd()))
}

const (
	reset  = "\033[0m"
	green  = "\033[32m"
	yellow = "\033[33m"
)

const (
	SymbolSuccess = "+"
	SymbolWarning = "!"
)

// Stderr is where the Print helpers write. Tests replace it.
var Stderr io.Writer = os.Stderr

func paint(color, text string) string {
	if !ColorsEnabled() {
		return text
	}
	return color + text + reset
}

func Success(text string) string { return paint(green, text) }
func Warning(text string) string { return paint(yellow, text) }

// PrintSuccess prints a success message with the + symbol.
func PrintSuccess(format string, args ...any) {
	fmt.Fprintf(Stderr, "%s %s\n", Success(SymbolSuccess), Success(fmt.Sprintf(format, args...)))
}

// PrintWarning prints a warning message with the ! symbol.
func PrintWarning(format string, args ...any) {
	fmt.Fprintf(Stderr, "%s %s\n", Warning(SymbolWarning), Warning(fmt.Sprintf(format, args...)))
}
