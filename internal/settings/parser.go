// Package settings merges key/value settings from the environment, files,
// inline JSON and key=value flags. It backs the run context, webhook and
// upload configuration.
package settings

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Env prefixes read by the run command.
const (
	ContextPrefix = "FLUTTERTOOLS_CONTEXT"
	WebhookPrefix = "FLUTTERTOOLS_WEBHOOK"
	UploadPrefix  = "FLUTTERTOOLS_UPLOAD_CONFIG"
)

// Sources lists every place a settings map can come from. Build applies them
// in increasing priority: EnvPrefix, File, JSON, KV.
type Sources struct {
	EnvPrefix string
	File      string
	JSON      string
	KV        []string
}

// InferValue converts a flag or env string to int, float or bool when it
// looks like one. Integers win over booleans so "1" stays a number.
func InferValue(s string) any {
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	if s == "true" || s == "false" {
		return s == "true"
	}
	return s
}

// ParseKV parses a key=value pair with type inference on the value.
func ParseKV(kvPair string) (string, any, error) {
	key, value, ok := strings.Cut(kvPair, "=")
	if !ok {
		return "", nil, fmt.Errorf("invalid format, expected key=value: %s", kvPair)
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", nil, fmt.Errorf("empty key in key=value pair")
	}
	return key, InferValue(strings.TrimSpace(value)), nil
}

// ParseJSON parses a JSON document of any shape.
func ParseJSON(jsonStr string) (any, error) {
	var result any
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return result, nil
}

// ParseFile reads a settings file. The format follows the extension:
// .yaml/.yml and .toml are decoded natively, anything else as JSON.
func ParseFile(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var result any
		if err := yaml.Unmarshal(data, &result); err != nil {
			return nil, fmt.Errorf("invalid YAML in %s: %w", path, err)
		}
		if result == nil {
			return nil, fmt.Errorf("empty YAML document in %s", path)
		}
		return result, nil
	case ".toml":
		result := map[string]any{}
		if _, err := toml.Decode(string(data), &result); err != nil {
			return nil, fmt.Errorf("invalid TOML in %s: %w", path, err)
		}
		return result, nil
	default:
		var result any
		if err := json.Unmarshal(data, &result); err != nil {
			return nil, fmt.Errorf("invalid JSON in %s: %w", path, err)
		}
		return result, nil
	}
}

// ParseEnv collects PREFIX (a JSON object) and PREFIX_* variables. Variable
// suffixes are lowercased into keys. Invalid JSON in PREFIX is ignored.
// Returns nil when nothing is set.
func ParseEnv(prefix string) map[string]any {
	values := make(map[string]any)

	if jsonStr := os.Getenv(prefix); jsonStr != "" {
		if parsed, err := ParseJSON(jsonStr); err == nil {
			if m, ok := parsed.(map[string]any); ok {
				maps.Copy(values, m)
			}
		}
	}

	envPrefix := prefix + "_"
	for _, env := range os.Environ() {
		name, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(name, envPrefix) {
			continue
		}
		key := strings.ToLower(strings.TrimPrefix(name, envPrefix))
		if key == "" {
			continue
		}
		values[key] = InferValue(value)
	}

	if len(values) == 0 {
		return nil
	}
	return values
}

// Merge merges sources left to right, later keys overriding earlier ones.
// A leading non-object value (array or scalar) is returned as is.
func Merge(sources ...any) any {
	result := make(map[string]any)

	for _, src := range sources {
		if src == nil {
			continue
		}
		switch v := src.(type) {
		case map[string]any:
			maps.Copy(result, v)
		default:
			if len(result) == 0 {
				return v
			}
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}

// Build merges every configured source. The result is nil when no source
// contributed anything.
func Build(src Sources) (any, error) {
	var layers []any

	if src.EnvPrefix != "" {
		if env := ParseEnv(src.EnvPrefix); env != nil {
			layers = append(layers, env)
		}
	}

	if src.File != "" {
		fileValues, err := ParseFile(src.File)
		if err != nil {
			return nil, err
		}
		layers = append(layers, fileValues)
	}

	if src.JSON != "" {
		jsonValues, err := ParseJSON(src.JSON)
		if err != nil {
			return nil, err
		}
		layers = append(layers, jsonValues)
	}

	if len(src.KV) > 0 {
		kv := make(map[string]any, len(src.KV))
		for _, pair := range src.KV {
			key, value, err := ParseKV(pair)
			if err != nil {
				return nil, err
			}
			kv[key] = value
		}
		layers = append(layers, kv)
	}

	return Merge(layers...), nil
}

// BuildMap is Build for consumers that need an object, such as provider
// configuration. A non-object result is an error.
func BuildMap(src Sources) (map[string]any, error) {
	merged, err := Build(src)
	if err != nil {
		return nil, err
	}
	if merged == nil {
		return map[string]any{}, nil
	}
	m, ok := merged.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected a JSON object, got %T", merged)
	}
	return m, nil
}

// Bool reads a boolean setting given either as a bool or as a string such as
// "true" or "1". ok is false when the key is absent or not a boolean.
func Bool(m map[string]any, key string) (value, ok bool) {
	switch v := m[key].(type) {
	case bool:
		return v, true
	case string:
		b, err := strconv.ParseBool(v)
		return b, err == nil
	case int:
		return v != 0, v == 0 || v == 1
	case int64:
		return v != 0, v == 0 || v == 1
	}
	return false, false
}
