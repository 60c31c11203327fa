package helpers

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/zinc-sig/fluttertools/cmd/config"
	"github.com/zinc-sig/fluttertools/internal/output"
	"github.com/zinc-sig/fluttertools/internal/settings"
	"github.com/zinc-sig/fluttertools/internal/upload"
)

// BuildUploadConfig builds upload configuration from all sources
func BuildUploadConfig(cfg *config.UploadConfig) (map[string]any, error) {
	result, err := settings.BuildMap(settings.Sources{
		EnvPrefix: settings.UploadPrefix,
		File:      cfg.ConfigFile,
		JSON:      cfg.Config,
		KV:        cfg.ConfigKV,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build upload config: %w", err)
	}
	return result, nil
}

// SetupUploadProvider creates and configures an upload provider. The
// provider is nil when no provider was requested.
func SetupUploadProvider(cfg *config.UploadConfig) (upload.Provider, map[string]any, error) {
	if cfg.Provider == "" {
		return nil, nil, nil
	}

	uploadConf, err := BuildUploadConfig(cfg)
	if err != nil {
		return nil, nil, err
	}

	provider, err := upload.NewProvider(cfg.Provider)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create upload provider: %w", err)
	}

	if err := provider.Configure(uploadConf); err != nil {
		return nil, nil, fmt.Errorf("failed to configure upload provider: %w", err)
	}

	return provider, uploadConf, nil
}

// UploadLog uploads the log file and records the outcome in result.
// Failures are logged, never returned.
func UploadLog(ctx context.Context, provider upload.Provider, conf map[string]any, cfg *config.UploadConfig, logPath string, result *output.Result, log logrus.FieldLogger) {
	if provider == nil {
		return
	}

	remote := cfg.Path
	if remote == "" {
		remote = filepath.Base(logPath)
	}
	compress, _ := settings.Bool(conf, "compress")

	remote, err := upload.UploadFile(ctx, provider, logPath, remote, compress)
	if err != nil {
		log.WithField("provider", provider.Name()).Warnf("log upload failed: %v", err)
		result.UploadError = err.Error()
		return
	}
	log.WithField("provider", provider.Name()).Infof("Uploaded log to %s", remote)
	result.UploadPath = remote
}
