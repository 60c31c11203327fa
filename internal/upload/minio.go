package upload

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioProvider implements the Provider interface for MinIO/S3 storage
type MinioProvider struct {
	client *minio.Client
	bucket string
	prefix string
	// bucketChecked avoids one round trip per file within a single run.
	bucketChecked bool
}

// NewMinioProvider creates a new MinioProvider
func NewMinioProvider() *MinioProvider {
	return &MinioProvider{}
}

// Name returns the provider name
func (m *MinioProvider) Name() string {
	return "minio"
}

// Configure sets up the MinIO client with the given configuration.
// An endpoint given as a URL decides TLS from its scheme; a bare host:port
// uses the "secure" key (default true).
func (m *MinioProvider) Configure(config map[string]any) error {
	endpoint, ok := getStringValue(config, "endpoint")
	if !ok {
		return fmt.Errorf("minio: endpoint is required")
	}

	accessKey, ok := getStringValue(config, "access_key")
	if !ok {
		return fmt.Errorf("minio: access_key is required")
	}

	secretKey, ok := getStringValue(config, "secret_key")
	if !ok {
		return fmt.Errorf("minio: secret_key is required")
	}

	bucket, ok := getStringValue(config, "bucket")
	if !ok {
		return fmt.Errorf("minio: bucket is required")
	}

	secure := getBoolValue(config, "secure", true)
	host, secure, err := splitEndpoint(endpoint, secure)
	if err != nil {
		return err
	}

	region := getStringValueWithDefault(config, "region", "us-east-1")
	prefix := strings.Trim(getStringValueWithDefault(config, "prefix", ""), "/")

	client, err := minio.New(host, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: secure,
		Region: region,
	})
	if err != nil {
		return fmt.Errorf("minio: failed to create client: %w", err)
	}

	m.client = client
	m.bucket = bucket
	m.prefix = prefix
	m.bucketChecked = false
	return nil
}

// Upload uploads content from reader to MinIO
func (m *MinioProvider) Upload(ctx context.Context, reader io.Reader, remotePath string) error {
	if m.client == nil {
		return fmt.Errorf("minio: provider not configured")
	}

	if !m.bucketChecked {
		exists, err := m.client.BucketExists(ctx, m.bucket)
		if err != nil {
			return fmt.Errorf("minio: failed to check bucket existence: %w", err)
		}
		if !exists {
			return fmt.Errorf("minio: bucket %s does not exist", m.bucket)
		}
		m.bucketChecked = true
	}

	objectName := m.objectName(remotePath)

	// -1 means unknown size, MinIO will handle streaming
	_, err := m.client.PutObject(ctx, m.bucket, objectName, reader, -1, minio.PutObjectOptions{
		ContentType: contentTypeFor(objectName),
	})
	if err != nil {
		return fmt.Errorf("minio: failed to upload to %s: %w", objectName, err)
	}

	return nil
}

// objectName joins the prefix and remote path with forward slashes on every platform.
func (m *MinioProvider) objectName(remotePath string) string {
	remotePath = strings.TrimLeft(strings.ReplaceAll(remotePath, "\\", "/"), "/")
	if m.prefix == "" {
		return remotePath
	}
	return path.Join(m.prefix, remotePath)
}

func splitEndpoint(endpoint string, secure bool) (string, bool, error) {
	if !strings.Contains(endpoint, "://") {
		return endpoint, secure, nil
	}
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return "", false, fmt.Errorf("minio: invalid endpoint URL %q", endpoint)
	}
	switch u.Scheme {
	case "http":
		return u.Host, false, nil
	case "https":
		return u.Host, true, nil
	default:
		return "", false, fmt.Errorf("minio: invalid endpoint URL %q: unsupported scheme %s", endpoint, u.Scheme)
	}
}

func contentTypeFor(objectName string) string {
	switch path.Ext(objectName) {
	case ".zst":
		return "application/zstd"
	case ".json":
		return "application/json"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Helper functions to extract values from config map
func getStringValue(config map[string]any, key string) (string, bool) {
	if val, ok := config[key]; ok {
		if str, ok := val.(string); ok && str != "" {
			return str, true
		}
	}
	return "", false
}

func getStringValueWithDefault(config map[string]any, key, defaultValue string) string {
	if val, ok := getStringValue(config, key); ok {
		return val
	}
	return defaultValue
}

func getBoolValue(config map[string]any, key string, defaultValue bool) bool {
	if val, ok := config[key]; ok {
		switch v := val.(type) {
		case bool:
			return v
		case string:
			if b, err := strconv.ParseBool(v); err == nil {
				return b
			}
		}
	}
	return defaultValue
}
