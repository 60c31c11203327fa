package platforms

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/magiconair/properties"
)

// skipFiles are never copied into android/.
var skipFiles = map[string]bool{
	"keystore.jks":           true,
	"key.properties.example": true,
}

// templateExts are rendered with {{var}} substitution.
var templateExts = map[string]bool{
	".kts":        true,
	".xml":        true,
	".properties": true,
}

// CopyTemplates copies src into dst recursively. Files with a template
// extension have {{name}} placeholders replaced when vars is non-empty.
func CopyTemplates(src, dst string, vars map[string]string) error {
	var replacer *strings.Replacer
	if len(vars) > 0 {
		pairs := make([]string, 0, len(vars)*2)
		for k, v := range vars {
			pairs = append(pairs, "{{"+k+"}}", v)
		}
		replacer = strings.NewReplacer(pairs...)
	}

	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("failed to read dir: %s: %w", path, err)
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if d.IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return fmt.Errorf("failed to create dir: %s: %w", target, err)
			}
			return nil
		}
		if skipFiles[d.Name()] {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read: %s: %w", path, err)
		}
		if replacer != nil && templateExts[filepath.Ext(path)] {
			data = []byte(replacer.Replace(string(data)))
		}

		mode := fs.FileMode(0644)
		if info, err := d.Info(); err == nil {
			mode = info.Mode().Perm()
		}
		if err := os.WriteFile(target, data, mode); err != nil {
			return fmt.Errorf("failed to write: %s: %w", target, err)
		}
		return nil
	})
}

// SetDistributionURL sets distributionUrl in a gradle-wrapper.properties
// file, creating it if needed. Other keys and comments are kept.
func SetDistributionURL(path, url string) error {
	loader := &properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}
	props, err := loader.LoadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		props = properties.NewProperties()
		props.DisableExpansion = true
	} else if err != nil {
		return fmt.Errorf("failed to parse properties: %s: %w", path, err)
	}

	if _, _, err := props.Set("distributionUrl", url); err != nil {
		return fmt.Errorf("failed to set distributionUrl: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to write file: %s: %w", path, err)
	}
	if _, err := props.WriteComment(f, "# ", properties.UTF8); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write properties: %s: %w", path, err)
	}
	return f.Close()
}

// GenerateAndroid renders <project>/<platformsDir>/android into
// <project>/android and applies the gradle wrapper URL when configured.
func GenerateAndroid(projectDir string, cfg *Config, vars map[string]string) (string, error) {
	root := strings.TrimSpace(deref(cfg.PlatformsDir))
	if root == "" {
		root = "platforms"
	}
	src := filepath.Join(projectDir, root, "android")
	if _, err := os.Stat(src); err != nil {
		return "", fmt.Errorf("android platform templates directory not found: %s", src)
	}

	androidDir := filepath.Join(projectDir, "android")
	if err := CopyTemplates(src, androidDir, vars); err != nil {
		return "", err
	}

	if url := cfg.Android.GradleWrapper.DistributionURL; url != nil {
		wrapper := filepath.Join(androidDir, "gradle", "wrapper", "gradle-wrapper.properties")
		if err := SetDistributionURL(wrapper, *url); err != nil {
			return "", err
		}
	}
	return androidDir, nil
}
