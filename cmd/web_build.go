package cmd

import (
	"github.com/spf13/cobra"

	"github.com/zinc-sig/fluttertools/cmd/config"
	"github.com/zinc-sig/fluttertools/cmd/helpers"
	"github.com/zinc-sig/fluttertools/internal/output"
	"github.com/zinc-sig/fluttertools/internal/webbuild"
)

func newWebBuildCmd() *cobra.Command {
	webCmd := &cobra.Command{
		Use:   "web-build",
		Short: "Build a web project and copy its output into the Flutter assets",
	}

	buildFlags := &config.WebBuildFlags{}
	buildCmd := &cobra.Command{
		Use:   "build",
		Short: "Install dependencies and run the build script",
		Args:  helpers.UsageArgs(cobra.NoArgs),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return helpers.RequireFlags(cmd, "src")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := newBuilder().Build(cmd.Context(), buildFlags.Src, buildFlags.PackageManager, buildFlags.BuildCommand); err != nil {
				return err
			}
			output.PrintSuccess("Web build finished")
			return nil
		},
	}
	setupWebSrcFlags(buildCmd, buildFlags)

	copyFlags := &config.WebBuildFlags{}
	copyCmd := &cobra.Command{
		Use:   "copy",
		Short: "Replace the destination with the build output",
		Args:  helpers.UsageArgs(cobra.NoArgs),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return helpers.RequireFlags(cmd, "src", "dst")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := newBuilder().Copy(copyFlags.Src, copyFlags.Dst, copyFlags.OutputDir); err != nil {
				return err
			}
			output.PrintSuccess("Web assets copied to %s", copyFlags.Dst)
			return nil
		},
	}
	setupWebCopyFlags(copyCmd, copyFlags)

	refreshFlags := &config.WebBuildFlags{}
	refreshCmd := &cobra.Command{
		Use:   "refresh",
		Short: "Build, then copy",
		Args:  helpers.UsageArgs(cobra.NoArgs),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return helpers.RequireFlags(cmd, "src", "dst")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			f := refreshFlags
			if err := newBuilder().Refresh(cmd.Context(), f.Src, f.Dst, f.PackageManager, f.BuildCommand, f.OutputDir); err != nil {
				return err
			}
			output.PrintSuccess("Web assets refreshed in %s", f.Dst)
			return nil
		},
	}
	setupWebSrcFlags(refreshCmd, refreshFlags)
	refreshCmd.Flags().StringVarP(&refreshFlags.Dst, "dst", "d", "", "Destination assets directory (required)")
	refreshCmd.Flags().StringVarP(&refreshFlags.OutputDir, "output-dir", "o", webbuild.DefaultOutputDir, "Build output directory inside the source")

	webCmd.AddCommand(buildCmd, copyCmd, refreshCmd)
	return webCmd
}

func newBuilder() *webbuild.Builder {
	return webbuild.NewBuilder(newCommander(), helpers.Logger("web-build"))
}

func setupWebSrcFlags(cmd *cobra.Command, flags *config.WebBuildFlags) {
	cmd.Flags().StringVarP(&flags.Src, "src", "s", "", "Web project directory (required)")
	cmd.Flags().StringVarP(&flags.PackageManager, "package-manager", "m", webbuild.DefaultPackageManager, "Package manager command")
	cmd.Flags().StringVarP(&flags.BuildCommand, "build-command", "c", webbuild.DefaultBuildCommand, "Package script that builds the project")
}

func setupWebCopyFlags(cmd *cobra.Command, flags *config.WebBuildFlags) {
	cmd.Flags().StringVarP(&flags.Src, "src", "s", "", "Web project directory (required)")
	cmd.Flags().StringVarP(&flags.Dst, "dst", "d", "", "Destination assets directory (required)")
	cmd.Flags().StringVarP(&flags.OutputDir, "output-dir", "o", webbuild.DefaultOutputDir, "Build output directory inside the source")
}
