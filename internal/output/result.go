package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"github.com/zinc-sig/fluttertools/internal/runner"
)

// Result is the JSON record of one run, written with --result and sent to
// the webhook.
type Result struct {
	Command          string          `json:"command"`
	Status           string          `json:"status"`
	Cwd              string          `json:"cwd,omitempty"`
	Log              string          `json:"log,omitempty"`
	ExitCode         int             `json:"exit_code"`
	ExecutionTime    int64           `json:"execution_time"`
	ExecutionSeconds decimal.Decimal `json:"execution_seconds"`
	Timeout          *int64          `json:"timeout,omitempty"` // in milliseconds
	Context          any             `json:"context,omitempty"`
	UploadPath       string          `json:"upload_path,omitempty"`
	UploadError      string          `json:"upload_error,omitempty"`

	// Webhook status (only in local output, not sent to webhook)
	WebhookSent  bool   `json:"webhook_sent,omitempty"`
	WebhookError string `json:"webhook_error,omitempty"`
}

// NewResult builds the record for a finished invocation.
func NewResult(inv *runner.Invocation, res *runner.Result, ctx any) *Result {
	r := &Result{
		Command:          res.Command,
		Status:           string(res.Status),
		Cwd:              inv.Dir,
		Log:              inv.LogFile,
		ExitCode:         res.ExitCode,
		ExecutionTime:    res.ExecutionTime,
		ExecutionSeconds: runner.Seconds(res.ExecutionTime),
		Context:          ctx,
	}
	if inv.Timeout > 0 {
		ms := inv.Timeout.Milliseconds()
		r.Timeout = &ms
	}
	return r
}

// WebhookPayload returns a copy without the local-only delivery fields.
func (r *Result) WebhookPayload() *Result {
	payload := *r
	payload.WebhookSent = false
	payload.WebhookError = ""
	return &payload
}

// WriteFile writes the record as indented JSON, creating parent directories.
func (r *Result) WriteFile(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create result directory: %w", err)
		}
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write result to %s: %w", path, err)
	}
	return nil
}
