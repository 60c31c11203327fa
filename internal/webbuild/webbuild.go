// Package webbuild builds a JavaScript web project and copies its output
// into a Flutter assets directory.
package webbuild

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/zinc-sig/fluttertools/internal/runner"
)

const (
	DefaultPackageManager = "pnpm"
	DefaultBuildCommand   = "build"
	DefaultOutputDir      = "build"
)

type Builder struct {
	cmd runner.Commander
	log logrus.FieldLogger
}

func NewBuilder(cmd runner.Commander, log logrus.FieldLogger) *Builder {
	return &Builder{cmd: cmd, log: log}
}

// Build runs `<pm> install` and `<pm> <buildCommand>` in src with the
// package manager's output streamed to the terminal.
func (b *Builder) Build(ctx context.Context, src, packageManager, buildCommand string) error {
	b.log.Infof("Building web project at: %s", src)

	if _, err := os.Stat(src); err != nil {
		return fmt.Errorf("source directory does not exist: %s", src)
	}

	pm, err := b.cmd.LookPath(packageManager)
	if err != nil {
		return fmt.Errorf("%s not found in PATH. Please install %s or ensure it's in your PATH", packageManager, packageManager)
	}
	b.log.Infof("Using package manager: %s (%s)", packageManager, pm)

	if err := b.cmd.Run(ctx, src, pm, "install"); err != nil {
		return fmt.Errorf("%s install failed: %w", packageManager, err)
	}
	if err := b.cmd.Run(ctx, src, pm, buildCommand); err != nil {
		return fmt.Errorf("%s %s failed: %w", packageManager, buildCommand, err)
	}

	b.log.Info("Build completed successfully")
	return nil
}

// Copy replaces dst with the contents of <src>/<outputDir>.
func (b *Builder) Copy(src, dst, outputDir string) error {
	buildDir := filepath.Join(src, outputDir)
	if info, err := os.Stat(buildDir); err != nil || !info.IsDir() {
		return fmt.Errorf("build output not found: %s. Expected directory: %s", buildDir, outputDir)
	}

	b.log.Infof("Copying assets from %s to %s", buildDir, dst)

	if err := os.RemoveAll(dst); err != nil {
		return fmt.Errorf("failed to remove destination: %s: %w", dst, err)
	}
	if err := os.MkdirAll(dst, 0755); err != nil {
		return fmt.Errorf("failed to create destination: %s: %w", dst, err)
	}
	if err := os.CopyFS(dst, os.DirFS(buildDir)); err != nil {
		return fmt.Errorf("failed to copy assets: %w", err)
	}

	b.log.Infof("Copied %s -> %s", buildDir, dst)
	return nil
}

// Refresh builds then copies.
func (b *Builder) Refresh(ctx context.Context, src, dst, packageManager, buildCommand, outputDir string) error {
	if err := b.Build(ctx, src, packageManager, buildCommand); err != nil {
		return err
	}
	return b.Copy(src, dst, outputDir)
}
