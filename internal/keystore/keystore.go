// Package keystore generates an Android release keystore with keytool.
package keystore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/magiconair/properties"
	"github.com/sirupsen/logrus"

	"github.com/zinc-sig/fluttertools/internal/runner"
)

const DefaultDname = "CN=Android, OU=Dev, O=Dev, L=Unknown, ST=Unknown, C=CN"

type Options struct {
	PropsPath  string // key.properties with storePassword and keyPassword
	OutputPath string
	Alias      string // read from ConfigPath via pkl when empty
	ConfigPath string
	Dname      string
	Force      bool
}

// Credentials are the passwords read from key.properties.
type Credentials struct {
	StorePassword string
	KeyPassword   string
}

// ReadCredentials loads and validates key.properties.
func ReadCredentials(path string) (*Credentials, error) {
	// Passwords may contain ${...}, so expansion stays off.
	loader := &properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}
	props, err := loader.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	creds := &Credentials{
		StorePassword: props.GetString("storePassword", ""),
		KeyPassword:   props.GetString("keyPassword", ""),
	}
	if creds.StorePassword == "" {
		return nil, errors.New("storePassword is missing or empty in key.properties")
	}
	if creds.KeyPassword == "" {
		return nil, errors.New("keyPassword is missing or empty in key.properties")
	}
	return creds, nil
}

type Generator struct {
	cmd runner.Commander
	log logrus.FieldLogger
}

func NewGenerator(cmd runner.Commander, log logrus.FieldLogger) *Generator {
	return &Generator{cmd: cmd, log: log}
}

// ReadAlias evaluates android.template_vars.key_alias from a pkl config.
func (g *Generator) ReadAlias(ctx context.Context, configPath string) (string, error) {
	pkl, err := g.cmd.LookPath("pkl")
	if err != nil {
		return "", fmt.Errorf("pkl not found in PATH: %w", err)
	}
	out, err := g.cmd.Output(ctx, "", pkl, "eval", "--expression", "android.template_vars.key_alias", configPath)
	if err != nil {
		return "", fmt.Errorf("pkl eval failed: %w", err)
	}
	alias := strings.Trim(strings.TrimSpace(string(out)), `"`)
	if alias == "" {
		return "", fmt.Errorf("key_alias is empty in %s", configPath)
	}
	return alias, nil
}

// Generate creates the keystore. It returns false without error when the
// keystore exists and Force is not set.
func (g *Generator) Generate(ctx context.Context, opts Options) (bool, error) {
	if _, err := os.Stat(opts.PropsPath); errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("%s not found.\nCopy key.properties.example to key.properties and fill in passwords", opts.PropsPath)
	}

	keytool, err := g.cmd.LookPath("keytool")
	if err != nil {
		return false, fmt.Errorf("keytool not found in PATH, install a JDK: %w", err)
	}

	creds, err := ReadCredentials(opts.PropsPath)
	if err != nil {
		return false, err
	}

	alias := opts.Alias
	if alias == "" {
		if alias, err = g.ReadAlias(ctx, opts.ConfigPath); err != nil {
			return false, err
		}
	}

	_, statErr := os.Stat(opts.OutputPath)
	exists := statErr == nil
	if exists && !opts.Force {
		g.log.Infof("Keystore already exists at %s. Skipping. Use --force to overwrite.", opts.OutputPath)
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.OutputPath), 0755); err != nil {
		return false, fmt.Errorf("failed to create directory: %w", err)
	}
	if exists {
		if err := os.Remove(opts.OutputPath); err != nil {
			return false, fmt.Errorf("failed to remove %s: %w", opts.OutputPath, err)
		}
	}

	dname := opts.Dname
	if dname == "" {
		dname = DefaultDname
	}

	err = g.cmd.Run(ctx, "", keytool,
		"-genkey", "-v",
		"-keystore", opts.OutputPath,
		"-keyalg", "RSA",
		"-keysize", "2048",
		"-validity", "36500",
		"-alias", alias,
		"-storepass", creds.StorePassword,
		"-keypass", creds.KeyPassword,
		"-dname", dname,
	)
	if err != nil {
		return false, fmt.Errorf("keytool failed: %w", err)
	}
	return true, nil
}
