package cmd

import (
	"github.com/spf13/cobra"

	"github.com/zinc-sig/fluttertools/cmd/config"
	"github.com/zinc-sig/fluttertools/cmd/helpers"
	"github.com/zinc-sig/fluttertools/internal/output"
	"github.com/zinc-sig/fluttertools/internal/platforms"
)

func newGenPlatformsCmd() *cobra.Command {
	flags := &config.PlatformsFlags{}

	platformsCmd := &cobra.Command{
		Use:   "gen-platforms",
		Short: "Generate android/ and windows/ from the app config",
		Long: `Generate platform directories from an app config (.pkl, .toml, .yaml).

Runs 'flutter create' for the configured platforms, renders the Android
templates under <platforms_dir>/android into android/ with the template
variables substituted, and applies the configured Windows window size.
Config values may reference environment variables as $VAR or ${VAR}.`,
		Example: `  fluttertools gen-platforms
  fluttertools gen-platforms --config app.toml --clean
  fluttertools gen-platforms --project app --skip-create`,
		Args: helpers.UsageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			gen := platforms.NewGenerator(newCommander(), helpers.Logger("gen-platforms"))
			err := gen.Generate(cmd.Context(), platforms.Options{
				ConfigPath: flags.Config,
				ProjectDir: flags.Project,
				Flutter:    flags.Flutter,
				SkipCreate: flags.SkipCreate,
				Clean:      flags.Clean,
			})
			if err != nil {
				return err
			}
			output.PrintSuccess("Platform directories generated in %s", flags.Project)
			return nil
		},
	}
	platformsCmd.Flags().StringVar(&flags.Config, "config", "app.pkl", "App config file")
	platformsCmd.Flags().StringVar(&flags.Project, "project", ".", "Flutter project directory")
	platformsCmd.Flags().StringVar(&flags.Flutter, "flutter", "flutter", "flutter command name or path")
	platformsCmd.Flags().BoolVar(&flags.SkipCreate, "skip-create", false, "Do not run 'flutter create'")
	platformsCmd.Flags().BoolVar(&flags.Clean, "clean", false, "Remove android/ before generating")

	return platformsCmd
}
