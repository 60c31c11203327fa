package webhook

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultTimeout    = 30 * time.Second
	DefaultRetries    = 3
	DefaultRetryDelay = 1 * time.Second
)

// Config holds webhook endpoint configuration
type Config struct {
	URL       string            // Webhook endpoint URL
	Method    string            // HTTP method (default: POST)
	Headers   map[string]string // Custom headers
	Timeout   time.Duration     // Overall timeout for all retries
	AuthType  string            // Authentication type: none, bearer, api-key
	AuthToken string            // Authentication token
}

// RetryConfig holds retry configuration
type RetryConfig struct {
	MaxRetries   int           // Maximum retry attempts (default: 3)
	InitialDelay time.Duration // Initial delay between retries (default: 1s)
	MaxDelay     time.Duration // Maximum delay (default: 30s)
	Multiplier   float64       // Backoff multiplier (default: 2.0)
}

// DefaultRetryConfig returns default retry configuration
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries:   DefaultRetries,
		InitialDelay: DefaultRetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
}

var validMethods = map[string]bool{
	http.MethodGet:    true,
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodPatch:  true,
	http.MethodDelete: true,
}

// ParseConfig converts a merged settings map into client configuration.
// Keys: url, method, auth_type, auth_token, timeout, retries, retry_delay,
// headers. A map without url yields nil configs and no error.
func ParseConfig(m map[string]any) (*Config, *RetryConfig, error) {
	url, _ := m["url"].(string)
	if url == "" {
		return nil, nil, nil
	}

	cfg := &Config{
		URL:      url,
		Method:   http.MethodPost,
		Timeout:  DefaultTimeout,
		AuthType: "none",
	}
	retry := DefaultRetryConfig()

	if method, _ := m["method"].(string); method != "" {
		cfg.Method = strings.ToUpper(method)
	}
	if !validMethods[cfg.Method] {
		return nil, nil, fmt.Errorf("invalid webhook method %q", cfg.Method)
	}

	if authType, _ := m["auth_type"].(string); authType != "" {
		cfg.AuthType = authType
	}
	switch cfg.AuthType {
	case "none":
	case "bearer", "api-key":
		token, _ := m["auth_token"].(string)
		if token == "" {
			return nil, nil, fmt.Errorf("webhook auth type %s requires an auth token", cfg.AuthType)
		}
		cfg.AuthToken = token
	default:
		return nil, nil, fmt.Errorf("invalid webhook auth type %q (want none, bearer or api-key)", cfg.AuthType)
	}

	var err error
	if cfg.Timeout, err = durationValue(m, "timeout", DefaultTimeout); err != nil {
		return nil, nil, fmt.Errorf("invalid webhook timeout duration: %w", err)
	}
	if retry.InitialDelay, err = durationValue(m, "retry_delay", DefaultRetryDelay); err != nil {
		return nil, nil, fmt.Errorf("invalid webhook retry delay: %w", err)
	}

	// JSON numbers decode as float64, flag and env values as int.
	switch r := m["retries"].(type) {
	case int:
		retry.MaxRetries = r
	case int64:
		retry.MaxRetries = int(r)
	case float64:
		retry.MaxRetries = int(r)
	}
	if retry.MaxRetries < 0 {
		return nil, nil, fmt.Errorf("webhook retries must not be negative")
	}

	if headers, ok := m["headers"].(map[string]any); ok {
		cfg.Headers = make(map[string]string, len(headers))
		for k, v := range headers {
			cfg.Headers[k] = fmt.Sprint(v)
		}
	}

	return cfg, retry, nil
}

func durationValue(m map[string]any, key string, def time.Duration) (time.Duration, error) {
	raw, ok := m[key]
	if !ok {
		return def, nil
	}
	s, ok := raw.(string)
	if !ok {
		return 0, fmt.Errorf("%s must be a duration string, got %v", key, raw)
	}
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return d, nil
}
