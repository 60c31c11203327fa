package runner

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

// Seconds converts a millisecond duration to seconds without float rounding noise.
func Seconds(ms int64) decimal.Decimal {
	return decimal.NewFromInt(ms).Shift(-3)
}

// PrintPreExecution prints command details before execution
func PrintPreExecution(w io.Writer, inv *Invocation) {
	fmt.Fprintln(w, "========================================")
	fmt.Fprintln(w, "Command Execution Details")
	fmt.Fprintln(w, "========================================")
	fmt.Fprintf(w, "Command: %s\n", inv.FullCommand())
	if inv.Dir != "" {
		fmt.Fprintf(w, "Cwd:     %s\n", inv.Dir)
	}
	if inv.LogFile != "" {
		fmt.Fprintf(w, "Log:     %s\n", inv.LogFile)
	}
	if inv.Timeout > 0 {
		fmt.Fprintf(w, "Timeout: %s\n", inv.Timeout)
	}
	fmt.Fprintln(w, "----------------------------------------")
	fmt.Fprintln(w, "Command Output:")
	fmt.Fprintln(w, "----------------------------------------")
}

// PrintPostExecution prints execution results after command completion
func PrintPostExecution(w io.Writer, result *Result) {
	fmt.Fprintln(w, "----------------------------------------")
	fmt.Fprintln(w, "Execution Results:")
	fmt.Fprintln(w, "----------------------------------------")
	fmt.Fprintf(w, "Status:         %s\n", result.Status)
	fmt.Fprintf(w, "Exit Code:      %d\n", result.ExitCode)
	fmt.Fprintf(w, "Execution Time: %s s\n", Seconds(result.ExecutionTime).StringFixed(3))
	fmt.Fprintln(w, "========================================")
}
