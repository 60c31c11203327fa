package helpers

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/zinc-sig/fluttertools/cmd/config"
	"github.com/zinc-sig/fluttertools/internal/output"
	"github.com/zinc-sig/fluttertools/internal/settings"
	"github.com/zinc-sig/fluttertools/internal/webhook"
)

// BuildWebhookConfig builds webhook configuration from all sources
func BuildWebhookConfig(cfg *config.WebhookConfig) (map[string]any, error) {
	// Precedence: env < file < json < kv < direct flags
	webhookConf, err := settings.BuildMap(settings.Sources{
		EnvPrefix: settings.WebhookPrefix,
		File:      cfg.ConfigFile,
		JSON:      cfg.Config,
		KV:        cfg.ConfigKV,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build webhook config: %w", err)
	}

	// Override with explicit flag values if set (highest precedence)
	if cfg.URL != "" {
		webhookConf["url"] = cfg.URL
	}
	if cfg.Method != "" && cfg.Method != "POST" {
		webhookConf["method"] = cfg.Method
	}
	if cfg.AuthType != "" && cfg.AuthType != "none" {
		webhookConf["auth_type"] = cfg.AuthType
	}
	if cfg.AuthToken != "" {
		webhookConf["auth_token"] = cfg.AuthToken
	}
	if cfg.Timeout != "" && cfg.Timeout != webhook.DefaultTimeout.String() {
		webhookConf["timeout"] = cfg.Timeout
	}
	if cfg.Retries != webhook.DefaultRetries {
		webhookConf["retries"] = cfg.Retries
	}
	if cfg.RetryDelay != "" && cfg.RetryDelay != webhook.DefaultRetryDelay.String() {
		webhookConf["retry_delay"] = cfg.RetryDelay
	}

	return webhookConf, nil
}

// ParseWebhookConfig builds and validates the webhook configuration. Both
// results are nil when no webhook URL is configured.
func ParseWebhookConfig(cfg *config.WebhookConfig) (*webhook.Config, *webhook.RetryConfig, error) {
	configMap, err := BuildWebhookConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	return webhook.ParseConfig(configMap)
}

// SendWebhook posts the result and records the delivery status in it.
// Delivery failures are logged, never returned.
func SendWebhook(ctx context.Context, cfg *webhook.Config, retry *webhook.RetryConfig, result *output.Result, log logrus.FieldLogger) {
	if cfg == nil || cfg.URL == "" {
		return
	}

	log.WithField("webhook", cfg.URL).Debug("sending result")
	client := webhook.NewClient(cfg, retry, log)
	if err := client.Send(ctx, result.WebhookPayload()); err != nil {
		log.WithField("webhook", cfg.URL).Warnf("webhook delivery failed: %v", err)
		result.WebhookSent = false
		result.WebhookError = err.Error()
		return
	}
	result.WebhookSent = true
}
