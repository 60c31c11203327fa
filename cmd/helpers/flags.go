package helpers

import (
	"github.com/spf13/cobra"

	"github.com/zinc-sig/fluttertools/cmd/config"
	"github.com/zinc-sig/fluttertools/internal/webhook"
)

// SetupContextFlags adds context-related flags to a command
func SetupContextFlags(cmd *cobra.Command, cfg *config.ContextConfig) {
	cmd.Flags().StringVar(&cfg.JSON, "context", "", "Context data as JSON string")
	cmd.Flags().StringArrayVar(&cfg.KV, "context-kv", nil, "Context key=value pairs (can be used multiple times)")
	cmd.Flags().StringVar(&cfg.File, "context-file", "", "Path to a JSON, YAML or TOML file containing context data")
}

// SetupUploadFlags adds upload-related flags to a command
func SetupUploadFlags(cmd *cobra.Command, cfg *config.UploadConfig) {
	cmd.Flags().StringVar(&cfg.Provider, "upload-provider", "", "Upload provider for the log file (e.g., minio)")
	cmd.Flags().StringVar(&cfg.Config, "upload-config", "", "Upload configuration as JSON string")
	cmd.Flags().StringArrayVar(&cfg.ConfigKV, "upload-config-kv", nil, "Upload config key=value pairs (can be used multiple times)")
	cmd.Flags().StringVar(&cfg.ConfigFile, "upload-config-file", "", "Path to a file containing upload configuration")
	cmd.Flags().StringVar(&cfg.Path, "upload-path", "", "Remote path of the uploaded log (default: the log's file name)")
}

// SetupCommonFlags adds commonly used flags to a command
func SetupCommonFlags(cmd *cobra.Command, flags *config.CommonFlags) {
	cmd.Flags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Print execution details before and after the command")
	cmd.Flags().StringVarP(&flags.TimeoutStr, "timeout", "t", "", "Timeout duration (e.g., 30s, 2m, 500ms)")
}

// SetupWebhookFlags adds webhook-related flags to a command
func SetupWebhookFlags(cmd *cobra.Command, cfg *config.WebhookConfig) {
	// Direct configuration flags
	cmd.Flags().StringVar(&cfg.URL, "webhook-url", "", "Webhook URL to send results to")
	cmd.Flags().StringVar(&cfg.Method, "webhook-method", "POST", "HTTP method to use: GET, POST, PUT, PATCH, DELETE")
	cmd.Flags().StringVar(&cfg.AuthType, "webhook-auth-type", "none", "Authentication type: none, bearer, api-key")
	cmd.Flags().StringVar(&cfg.AuthToken, "webhook-auth-token", "", "Authentication token (use with --webhook-auth-type)")
	cmd.Flags().IntVar(&cfg.Retries, "webhook-retries", webhook.DefaultRetries, "Maximum webhook retry attempts (0 = no retries)")
	cmd.Flags().StringVar(&cfg.RetryDelay, "webhook-retry-delay", webhook.DefaultRetryDelay.String(), "Initial delay between webhook retries")
	cmd.Flags().StringVar(&cfg.Timeout, "webhook-timeout", webhook.DefaultTimeout.String(), "Total timeout for webhook including retries")

	// Alternative configuration methods
	cmd.Flags().StringVar(&cfg.Config, "webhook-config", "", "Webhook configuration as JSON string")
	cmd.Flags().StringArrayVar(&cfg.ConfigKV, "webhook-config-kv", nil, "Webhook config key=value pairs (can be used multiple times)")
	cmd.Flags().StringVar(&cfg.ConfigFile, "webhook-config-file", "", "Path to a file containing webhook configuration")
}

// SetupRunFlags adds every flag of the run command.
func SetupRunFlags(cmd *cobra.Command, flags *config.RunFlags) {
	cmd.Flags().StringVar(&flags.Log, "log", "", "Append the command's stdout and stderr to this file")
	cmd.Flags().StringVar(&flags.Cwd, "cwd", "", "Working directory of the command")
	cmd.Flags().BoolVarP(&flags.Quiet, "quiet", "q", false, "Write output to the log only (requires --log)")
	cmd.Flags().StringVar(&flags.Result, "result", "", "Write the JSON result to this file")

	SetupCommonFlags(cmd, &flags.Common)
	SetupContextFlags(cmd, &flags.Context)
	SetupWebhookFlags(cmd, &flags.Webhook)
	SetupUploadFlags(cmd, &flags.Upload)
}
