package cmd

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/zinc-sig/fluttertools/cmd/config"
	"github.com/zinc-sig/fluttertools/cmd/helpers"
	"github.com/zinc-sig/fluttertools/internal/runner"
)

// BusyboxName is the executable name that behaves like `fluttertools run`.
const BusyboxName = "cmd_run"

// newCommander returns the process port used by the tool subcommands.
var newCommander = func() runner.Commander {
	return runner.NewOSCommander()
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	global := &config.GlobalFlags{}

	rootCmd := &cobra.Command{
		Use:   "fluttertools",
		Short: "Build tooling for Flutter projects",
		Long: `fluttertools bundles the helpers a Flutter release pipeline needs:
a command runner with log capture and structured results, device selection,
version bumping, keystore and changelog generation, web asset builds and
platform directory generation.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return helpers.SetupLogging(global.LogLevel)
		},
	}
	rootCmd.PersistentFlags().StringVar(&global.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.SetFlagErrorFunc(helpers.FlagErrorFunc)

	rootCmd.AddCommand(
		newRunCmd(),
		newSelectDeviceCmd(),
		newBumpVersionCmd(),
		newGenKeystoreCmd(),
		newGenChangelogCmd(),
		newWebBuildCmd(),
		newGenPlatformsCmd(),
	)
	return rootCmd
}

// commandArgs returns the arguments for the command tree. Invoked as
// cmd_run, every argument belongs to the run command.
func commandArgs(argv []string) []string {
	if len(argv) == 0 {
		return nil
	}
	name := argv[0]
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimSuffix(strings.ToLower(name), ".exe")
	if name == BusyboxName {
		return append([]string{"run"}, argv[1:]...)
	}
	return argv[1:]
}

// Run executes the command line and returns the process exit status.
func Run(ctx context.Context, argv []string) int {
	_ = helpers.SetupLogging("info")
	rootCmd := NewRootCmd()
	rootCmd.SetArgs(commandArgs(argv))

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var reported *helpers.ReportedError
	if !errors.As(err, &reported) {
		logrus.Error(err)
	}
	return helpers.ExitCode(err)
}

func Execute() {
	os.Exit(Run(context.Background(), os.Args))
}
