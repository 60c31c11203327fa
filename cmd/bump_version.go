package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/zinc-sig/fluttertools/cmd/config"
	"github.com/zinc-sig/fluttertools/cmd/helpers"
	"github.com/zinc-sig/fluttertools/internal/gitutil"
	"github.com/zinc-sig/fluttertools/internal/output"
	"github.com/zinc-sig/fluttertools/internal/pubspec"
	"github.com/zinc-sig/fluttertools/internal/runner"
)

func newBumpVersionCmd() *cobra.Command {
	flags := &config.BumpVersionFlags{}

	bumpCmd := &cobra.Command{
		Use:   "bump-version <major|minor|patch|build>",
		Short: "Bump the version in pubspec.yaml",
		Long: `Bump the version line of pubspec.yaml.

Before bumping, the current version is tagged at HEAD unless a tag for it
already exists (with or without the v prefix). major, minor and patch reset
the lower parts and restart the build number at 1. build increments the
build number.`,
		Example: `  fluttertools bump-version patch
  fluttertools bump-version build --pubspec app/pubspec.yaml --tag-prefix none`,
		Args: helpers.UsageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			part, err := pubspec.ParsePart(args[0])
			if err != nil {
				return &helpers.UsageError{Err: err}
			}
			var preferV bool
			switch flags.TagPrefix {
			case "v":
				preferV = true
			case "none":
			default:
				return helpers.Usagef("invalid --tag-prefix %q (want v or none)", flags.TagPrefix)
			}
			return bumpVersion(cmd.Context(), cmd, flags.Pubspec, part, preferV)
		},
	}
	bumpCmd.Flags().StringVar(&flags.Pubspec, "pubspec", "pubspec.yaml", "Path to pubspec.yaml")
	bumpCmd.Flags().StringVar(&flags.TagPrefix, "tag-prefix", "v", "Prefix of the tag created for the current version: v or none")

	return bumpCmd
}

func bumpVersion(ctx context.Context, cmd *cobra.Command, path string, part pubspec.Part, preferV bool) error {
	log := helpers.Logger("bump-version")

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := tagCurrentVersion(ctx, newCommander(), filepath.Dir(path), content, preferV, log); err != nil {
		return err
	}

	out, next, ok, err := pubspec.Rewrite(content, part)
	if err != nil {
		return err
	}
	if !ok {
		log.Infof("No version line found in %s", path)
		return nil
	}

	if err := os.WriteFile(path, out, info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	output.PrintSuccess("Bumped %s version to %s", part, next)
	_, err = fmt.Fprintln(cmd.OutOrStdout(), next)
	return err
}

// tagCurrentVersion tags HEAD with the version being bumped away from. Every
// reason not to tag is logged and skipped.
func tagCurrentVersion(ctx context.Context, commander runner.Commander, dir string, content []byte, preferV bool, log logrus.FieldLogger) error {
	raw := pubspec.ReadVersion(content)
	if raw == "" {
		log.Info("No current version, skipping tag")
		return nil
	}
	current, err := pubspec.ParseVersion(raw)
	if err != nil {
		log.Infof("Current version %q is not valid semver, skipping tag", raw)
		return nil
	}

	repo, err := gitutil.Open(ctx, commander, dir)
	if err != nil {
		log.Debug(err)
		log.Info("Not in a git repository, skipping tag")
		return nil
	}

	outcome, err := repo.EnsureVersionTag(ctx, current, preferV)
	if err != nil {
		return fmt.Errorf("failed to tag current version: %w", err)
	}
	switch {
	case outcome.Existed:
		log.Infof("Tag for %s already exists", outcome.Plain)
	case outcome.NoCommits:
		log.Info("No commits yet, skipping tag")
	default:
		log.Infof("Created tag %s", outcome.Created)
	}
	return nil
}
