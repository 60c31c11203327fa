package platforms

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/zinc-sig/fluttertools/internal/runner"
)

type Options struct {
	ConfigPath string
	ProjectDir string
	Flutter    string // flutter command name or path
	SkipCreate bool
	Clean      bool // remove android/ before generating
}

type Generator struct {
	cmd    runner.Commander
	log    logrus.FieldLogger
	lookup func(string) (string, bool)
}

func NewGenerator(cmd runner.Commander, log logrus.FieldLogger) *Generator {
	return &Generator{cmd: cmd, log: log, lookup: os.LookupEnv}
}

// Generate loads the config and produces the platform directories.
func (g *Generator) Generate(ctx context.Context, opts Options) error {
	projectDir := opts.ProjectDir
	if projectDir == "" {
		projectDir = "."
	}

	configPath := opts.ConfigPath
	if !filepath.IsAbs(configPath) {
		if _, err := os.Stat(configPath); err != nil {
			configPath = filepath.Join(projectDir, configPath)
		}
	}

	cfg, err := LoadConfig(ctx, g.cmd, configPath)
	if err != nil {
		return err
	}
	if err := cfg.Expand(g.lookup); err != nil {
		return err
	}
	vars := cfg.TemplateVars()

	if opts.Clean {
		androidDir := filepath.Join(projectDir, "android")
		if err := os.RemoveAll(androidDir); err != nil {
			return fmt.Errorf("failed to remove directory: %s: %w", androidDir, err)
		}
		g.log.Infof("Removed %s", androidDir)
	}

	if !opts.SkipCreate {
		if err := g.flutterCreate(ctx, projectDir, opts.Flutter, cfg); err != nil {
			return err
		}
	}

	androidDir, err := GenerateAndroid(projectDir, cfg, vars)
	if err != nil {
		return err
	}
	g.log.Infof("Android directory generated at: %s", androidDir)

	if cfg.Windows != nil && cfg.Windows.Enabled {
		updated, err := ConfigureWindows(projectDir, cfg.Windows)
		if err != nil {
			return err
		}
		if updated {
			g.log.Infof("Windows main.cpp updated with window size %dx%d", *cfg.Windows.WindowWidth, *cfg.Windows.WindowHeight)
		}
		g.log.Info("Windows platform directory configured")
	}
	return nil
}

// CreateArgs builds the `flutter create` argument list.
func CreateArgs(projectDir string, cfg *Config) []string {
	args := []string{"create", "--project-name", cfg.ProjectName}
	if len(cfg.Create.Platforms) > 0 {
		args = append(args, "--platforms", strings.Join(cfg.Create.Platforms, ","))
	}
	if cfg.Create.AndroidLanguage != nil {
		args = append(args, "--android-language", *cfg.Create.AndroidLanguage)
	}
	if cfg.Org != nil {
		args = append(args, "--org", *cfg.Org)
	}
	if cfg.Description != nil {
		args = append(args, "--description", *cfg.Description)
	}
	return append(args, projectDir)
}

func (g *Generator) flutterCreate(ctx context.Context, projectDir, flutter string, cfg *Config) error {
	if flutter == "" {
		flutter = "flutter"
	}
	bin, err := ResolveCommand(g.cmd, flutter)
	if err != nil {
		return err
	}
	if err := g.cmd.Run(ctx, "", bin, CreateArgs(projectDir, cfg)...); err != nil {
		return fmt.Errorf("flutter create failed: %w", err)
	}
	return nil
}
