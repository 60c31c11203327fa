package cmd

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/zinc-sig/fluttertools/cmd/config"
	"github.com/zinc-sig/fluttertools/cmd/helpers"
	"github.com/zinc-sig/fluttertools/internal/output"
	"github.com/zinc-sig/fluttertools/internal/runner"
	"github.com/zinc-sig/fluttertools/internal/settings"
)

func newRunCmd() *cobra.Command {
	flags := &config.RunFlags{}

	runCmd := &cobra.Command{
		Use:   "run [flags] [--] <command> [args...]",
		Short: "Run a command, optionally teeing its output to a log file",
		Long: `Run a command to completion and exit with its exit status.

With --log the command's stdout and stderr are appended to the file as well as
shown on the terminal (log only with --quiet). Flag parsing stops at the first
argument that is not a flag, so the command's own flags need no '--'.

Exit codes: the command's own status, 127 when it cannot be found, 126 when it
cannot be executed, 124 on timeout, 128+N when killed by signal N, 2 for
invalid arguments and 1 for configuration errors.`,
		Example: `  fluttertools run --log build.log flutter build apk --release
  fluttertools run --cwd app --timeout 30m --result out/result.json -- flutter test
  cmd_run --log=build.log flutter pub get`,
		Args: helpers.UsageArgs(cobra.MinimumNArgs(1)),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			timeout, err := helpers.ParseTimeout(flags.Common.TimeoutStr)
			if err != nil {
				return err
			}
			flags.Common.Timeout = timeout
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommand(cmd.Context(), flags, args)
		},
	}
	runCmd.Flags().SetInterspersed(false)
	helpers.SetupRunFlags(runCmd, flags)

	return runCmd
}

func runCommand(ctx context.Context, flags *config.RunFlags, args []string) error {
	log := helpers.Logger("run")

	ctxData, err := settings.Build(settings.Sources{
		EnvPrefix: settings.ContextPrefix,
		File:      flags.Context.File,
		JSON:      flags.Context.JSON,
		KV:        flags.Context.KV,
	})
	if err != nil {
		return &runner.ConfigurationError{Msg: "failed to build context", Err: err}
	}

	webhookConfig, retryConfig, err := helpers.ParseWebhookConfig(&flags.Webhook)
	if err != nil {
		return &runner.ConfigurationError{Msg: "invalid webhook configuration", Err: err}
	}

	provider, uploadConf, err := helpers.SetupUploadProvider(&flags.Upload)
	if err != nil {
		return &runner.ConfigurationError{Msg: "invalid upload configuration", Err: err}
	}
	if provider != nil && flags.Log == "" {
		return &runner.ConfigurationError{Msg: "--upload-provider requires --log"}
	}

	if flags.Quiet && flags.Log == "" {
		output.PrintWarning("--quiet has no effect without --log")
	}

	inv := &runner.Invocation{
		Command: args[0],
		Args:    args[1:],
		Dir:     flags.Cwd,
		LogFile: flags.Log,
		Echo:    !flags.Quiet,
		Timeout: flags.Common.Timeout,
		Verbose: flags.Common.Verbose,
	}

	if flags.Common.Verbose {
		helpers.PrintContextInfo(os.Stderr, ctxData)
		if provider != nil {
			helpers.PrintUploadInfo(os.Stderr, provider, uploadConf, flags.Log)
		}
	}

	res, runErr := runner.Execute(ctx, inv)
	if res == nil {
		return runErr
	}

	result := output.NewResult(inv, res, ctxData)
	helpers.UploadLog(ctx, provider, uploadConf, &flags.Upload, flags.Log, result, log)
	helpers.SendWebhook(ctx, webhookConfig, retryConfig, result, log)

	if flags.Result != "" {
		if err := result.WriteFile(flags.Result); err != nil {
			log.Warn(err)
		}
	}

	var failure *runner.ChildFailure
	if errors.As(runErr, &failure) && !flags.Common.Verbose {
		return &helpers.ReportedError{Err: runErr}
	}
	return runErr
}
