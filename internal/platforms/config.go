// Package platforms generates the android/ and windows/ directories of a
// Flutter project from an app config and a tree of platform templates.
package platforms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/zinc-sig/fluttertools/internal/runner"
)

type Config struct {
	ProjectName  string         `json:"project_name" toml:"project_name" yaml:"project_name"`
	Org          *string        `json:"org" toml:"org" yaml:"org"`
	Description  *string        `json:"description" toml:"description" yaml:"description"`
	Version      *string        `json:"version" toml:"version" yaml:"version"`
	PlatformsDir *string        `json:"platforms_dir" toml:"platforms_dir" yaml:"platforms_dir"`
	Create       CreateConfig   `json:"create" toml:"create" yaml:"create"`
	Android      AndroidConfig  `json:"android" toml:"android" yaml:"android"`
	Windows      *WindowsConfig `json:"windows" toml:"windows" yaml:"windows"`
}

// CreateConfig holds extra `flutter create` arguments.
type CreateConfig struct {
	Platforms       []string `json:"platforms" toml:"platforms" yaml:"platforms"`
	AndroidLanguage *string  `json:"android_language" toml:"android_language" yaml:"android_language"`
}

type AndroidConfig struct {
	GradleWrapper GradleWrapperConfig `json:"gradle_wrapper" toml:"gradle_wrapper" yaml:"gradle_wrapper"`
	TemplateVars  TemplateVars        `json:"template_vars" toml:"template_vars" yaml:"template_vars"`
}

type GradleWrapperConfig struct {
	DistributionURL *string `json:"distribution_url" toml:"distribution_url" yaml:"distribution_url"`
}

// TemplateVars are substituted for {{name}} in Android template files.
type TemplateVars struct {
	Namespace      *string `json:"namespace" toml:"namespace" yaml:"namespace"`
	ApplicationID  *string `json:"application_id" toml:"application_id" yaml:"application_id"`
	OutputFileName *string `json:"output_file_name" toml:"output_file_name" yaml:"output_file_name"`
	KeyAlias       *string `json:"key_alias" toml:"key_alias" yaml:"key_alias"`
	StoreFile      *string `json:"store_file" toml:"store_file" yaml:"store_file"`
}

type WindowsConfig struct {
	Enabled      bool    `json:"enabled" toml:"enabled" yaml:"enabled"`
	WindowWidth  *uint32 `json:"window_width" toml:"window_width" yaml:"window_width"`
	WindowHeight *uint32 `json:"window_height" toml:"window_height" yaml:"window_height"`
}

// LoadConfig reads a .pkl, .toml, .yaml or .yml app config. pkl files are
// evaluated to JSON with the pkl CLI.
func LoadConfig(ctx context.Context, cmd runner.Commander, path string) (*Config, error) {
	var cfg Config

	switch strings.ToLower(filepath.Ext(path)) {
	case ".pkl":
		data, err := evalPkl(ctx, cmd, path)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse pkl output: %s: %w", path, err)
		}
	case ".toml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format: %s", path)
	}

	if strings.TrimSpace(cfg.ProjectName) == "" {
		return nil, fmt.Errorf("project_name is required in %s", path)
	}
	return &cfg, nil
}

func evalPkl(ctx context.Context, cmd runner.Commander, path string) ([]byte, error) {
	pkl, err := ResolveCommand(cmd, "pkl")
	if err != nil {
		return nil, err
	}

	out, err := cmd.Output(ctx, "", pkl, "eval", "-f", "json", path)
	if err != nil {
		out, err = cmd.Output(ctx, "", pkl, "eval", "--format", "json", path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to run pkl eval for: %s: %w", path, err)
	}
	return bytes.TrimSpace(out), nil
}

// ResolveCommand accepts a bare command name, looked up on PATH, or a path
// that must exist.
func ResolveCommand(cmd runner.Commander, name string) (string, error) {
	if strings.ContainsAny(name, `/\`) {
		if _, err := os.Stat(name); err != nil {
			return "", fmt.Errorf("command not found at: %s", name)
		}
		return name, nil
	}
	path, err := cmd.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("command not found in PATH: %s", name)
	}
	return path, nil
}

// Expand substitutes environment variables in the string fields that allow
// them and fills in derived Android identifiers.
func (c *Config) Expand(lookup func(string) (string, bool)) error {
	var err error
	expand := func(s *string) {
		if err == nil && s != nil {
			*s, err = ExpandEnv(*s, lookup)
		}
	}

	expand(&c.ProjectName)
	expand(c.Org)
	expand(c.Description)
	expand(c.PlatformsDir)
	expand(c.Create.AndroidLanguage)
	for i := range c.Create.Platforms {
		expand(&c.Create.Platforms[i])
	}
	tv := &c.Android.TemplateVars
	expand(tv.Namespace)
	expand(tv.ApplicationID)
	expand(tv.OutputFileName)
	expand(tv.KeyAlias)
	expand(tv.StoreFile)
	if err != nil {
		return err
	}

	if blank(tv.ApplicationID) {
		if blank(c.Org) {
			return fmt.Errorf("android.template_vars.application_id is required when org is not set")
		}
		id := strings.TrimRight(strings.TrimSpace(*c.Org), ".") + "." + c.ProjectName
		tv.ApplicationID = &id
	}
	if blank(tv.Namespace) {
		ns := *tv.ApplicationID
		tv.Namespace = &ns
	}

	expand(c.Android.GradleWrapper.DistributionURL)
	return err
}

// TemplateVars returns the {{name}} substitutions for the set template vars.
func (c *Config) TemplateVars() map[string]string {
	vars := make(map[string]string)
	tv := c.Android.TemplateVars
	for name, v := range map[string]*string{
		"namespace":        tv.Namespace,
		"application_id":   tv.ApplicationID,
		"output_file_name": tv.OutputFileName,
		"key_alias":        tv.KeyAlias,
		"store_file":       tv.StoreFile,
	} {
		if v != nil {
			vars[name] = *v
		}
	}
	return vars
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
