package changelog

import (
	"errors"
	"fmt"
	"os"

	"github.com/zalando/go-keyring"
)

const (
	KeyringService = "fluttertools"
	KeyringUser    = "anthropic"
)

// ErrNoAPIKey is returned when no source provides an API key.
var ErrNoAPIKey = errors.New("API key not provided. Use --api-key, set ANTHROPIC_API_KEY / ANTHROPIC_AUTH_TOKEN, or store one with --save-key")

// ResolveAPIKey returns the first key found in flag, ANTHROPIC_API_KEY,
// ANTHROPIC_AUTH_TOKEN and the OS keyring.
func ResolveAPIKey(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	for _, env := range []string{"ANTHROPIC_API_KEY", "ANTHROPIC_AUTH_TOKEN"} {
		if v := os.Getenv(env); v != "" {
			return v, nil
		}
	}

	key, err := keyring.Get(KeyringService, KeyringUser)
	if err == nil && key != "" {
		return key, nil
	}
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return "", fmt.Errorf("%w (keyring: %v)", ErrNoAPIKey, err)
	}
	return "", ErrNoAPIKey
}

// SaveAPIKey stores key in the OS keyring.
func SaveAPIKey(key string) error {
	if key == "" {
		return errors.New("no API key to save, pass --api-key")
	}
	if err := keyring.Set(KeyringService, KeyringUser, key); err != nil {
		return fmt.Errorf("failed to store API key in keyring: %w", err)
	}
	return nil
}

// ResolveBaseURL returns flag, ANTHROPIC_BASE_URL or the default.
func ResolveBaseURL(flag string) string {
	if flag != "" {
		return flag
	}
	if v := os.Getenv("ANTHROPIC_BASE_URL"); v != "" {
		return v
	}
	return DefaultBaseURL
}
