package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zinc-sig/fluttertools/cmd/config"
	"github.com/zinc-sig/fluttertools/cmd/helpers"
	"github.com/zinc-sig/fluttertools/internal/changelog"
	"github.com/zinc-sig/fluttertools/internal/gitutil"
	"github.com/zinc-sig/fluttertools/internal/output"
)

func newGenChangelogCmd() *cobra.Command {
	flags := &config.ChangelogFlags{}

	changelogCmd := &cobra.Command{
		Use:   "gen-changelog",
		Short: "Draft release notes from git history",
		Long: `Draft a changelog for the release at HEAD (or --tag) from the first-parent
commits since the previous semver tag. The draft is written by the Messages
API; when that fails a plain list of commits is produced instead.

The API key is read from --api-key, ANTHROPIC_API_KEY, ANTHROPIC_AUTH_TOKEN
or the OS keyring. Store a key in the keyring with --save-key --api-key <key>.`,
		Example: `  fluttertools gen-changelog -o build/CHANGELOG.md
  fluttertools gen-changelog --tag v1.4.0 --lang zh --app-name Wallet
  fluttertools gen-changelog --save-key --api-key sk-ant-...`,
		Args: helpers.UsageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.SaveKey {
				if err := changelog.SaveAPIKey(flags.APIKey); err != nil {
					return err
				}
				output.PrintSuccess("API key saved to the OS keyring")
				return nil
			}
			return genChangelog(cmd.Context(), cmd, flags)
		},
	}
	changelogCmd.Flags().StringVar(&flags.Tag, "tag", "", "Release tag (default: the tag at HEAD)")
	changelogCmd.Flags().StringVarP(&flags.Output, "output", "o", "", "Write the changelog to this file instead of stdout")
	changelogCmd.Flags().IntVar(&flags.MaxCommits, "max-commits", 50, "Maximum number of commits to include")
	changelogCmd.Flags().StringVar(&flags.Model, "model", changelog.DefaultModel, "Model name")
	changelogCmd.Flags().StringVar(&flags.APIKey, "api-key", "", "API key")
	changelogCmd.Flags().StringVar(&flags.BaseURL, "base-url", "", "API base URL (default: ANTHROPIC_BASE_URL or "+changelog.DefaultBaseURL+")")
	changelogCmd.Flags().StringVar(&flags.Prompt, "prompt", "", "Custom prompt template with {tag}, {prev_tag}, {git_log} and {lang}")
	changelogCmd.Flags().StringVar(&flags.Lang, "lang", "English", "Output language: English name, ISO 639-1 or ISO 639-3 code")
	changelogCmd.Flags().StringVar(&flags.AppName, "app-name", "", "App name used in the prompt")
	changelogCmd.Flags().BoolVar(&flags.SaveKey, "save-key", false, "Store --api-key in the OS keyring and exit")

	return changelogCmd
}

func genChangelog(ctx context.Context, cmd *cobra.Command, flags *config.ChangelogFlags) error {
	log := helpers.Logger("gen-changelog")

	lang, err := changelog.ResolveLanguage(flags.Lang)
	if err != nil {
		return err
	}
	apiKey, err := changelog.ResolveAPIKey(flags.APIKey)
	if err != nil {
		return err
	}

	repo, err := gitutil.Open(ctx, newCommander(), ".")
	if err != nil {
		return err
	}

	client := changelog.NewClient(changelog.ResolveBaseURL(flags.BaseURL), apiKey, flags.Model)
	text, err := changelog.NewGenerator(repo, client, log).Generate(ctx, changelog.Options{
		Tag:        flags.Tag,
		MaxCommits: flags.MaxCommits,
		Prompt:     flags.Prompt,
		Language:   lang,
		AppName:    flags.AppName,
	})
	if err != nil {
		return err
	}
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}

	if flags.Output == "" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), text)
		return err
	}
	if dir := filepath.Dir(flags.Output); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(flags.Output, []byte(text), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", flags.Output, err)
	}
	output.PrintSuccess("Changelog written to %s", flags.Output)
	return nil
}
