package upload

import (
	"context"
	"io"
)

// Provider stores run artifacts such as log files in remote storage.
type Provider interface {
	// Upload uploads content from reader to the remote path
	Upload(ctx context.Context, reader io.Reader, remotePath string) error

	// Configure sets up the provider with the given configuration.
	// It must not perform network calls.
	Configure(config map[string]any) error

	// Name returns the provider name
	Name() string
}
