package upload

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// builtin lists the providers compiled into the binary.
var builtin = map[string]func() Provider{
	"minio": func() Provider { return NewMinioProvider() },
}

// NewProvider creates a new provider instance by name
func NewProvider(name string) (Provider, error) {
	factory, ok := builtin[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown upload provider: %s (available: %s)", name, strings.Join(Names(), ", "))
	}
	return factory(), nil
}

// Names returns the available provider names in sorted order.
func Names() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UploadFile uploads a local file and returns the remote path actually used.
// With compress set the content is zstd-compressed on the fly and ".zst" is
// appended to the remote path.
func UploadFile(ctx context.Context, p Provider, localPath, remotePath string, compress bool) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to open %s for upload: %w", localPath, err)
	}
	defer func() { _ = f.Close() }()

	var reader io.Reader = f
	if compress {
		zr := CompressReader(f)
		defer func() { _ = zr.Close() }()
		reader = zr
		remotePath += ".zst"
	}

	if err := p.Upload(ctx, reader, remotePath); err != nil {
		return "", fmt.Errorf("failed to upload to %s: %w", remotePath, err)
	}
	return remotePath, nil
}
