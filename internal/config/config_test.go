package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/moments/internal/blurhash"
	"github.com/dmitrijs2005/moments/internal/common"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "oss", c.StorageBackend)
	assert.Equal(t, "moments", c.UploadDir)
	assert.Equal(t, 1920, c.MaxWidth)
	assert.Equal(t, 1_500_000, c.MaxBytes)
	assert.InDelta(t, 0.7, c.InitialQuality, 1e-9)
	assert.InDelta(t, 0.3, c.MinQuality, 1e-9)
	assert.Equal(t, 4, c.HashX)
	assert.Equal(t, 3, c.HashY)
	assert.Equal(t, 1, c.Workers)
	assert.Equal(t, 60*time.Second, c.HTTPTimeout)
	assert.NotEmpty(t, c.DataDir)
}

func TestLoadConfig_NoFile(t *testing.T) {
	cfg, err := LoadConfig([]string{"publish", "a.jpg"})
	require.NoError(t, err)
	assert.Equal(t, 1920, cfg.MaxWidth)
}

func TestLoadConfig_JSONFile(t *testing.T) {
	path := writeFile(t, "moments.json", `{
		"oss_endpoint": "https://bucket.oss.example.com",
		"oss_bucket": "bucket",
		"oss_access_key_id": "id",
		"oss_access_key_secret": "secret",
		"max_width": 1280,
		"http_timeout": "15s",
		"workers": 3
	}`)

	cfg, err := LoadConfig([]string{"publish", "-c", path})
	require.NoError(t, err)

	assert.Equal(t, "https://bucket.oss.example.com", cfg.OSSEndpoint)
	assert.Equal(t, "secret", cfg.OSSAccessKeySecret)
	assert.Equal(t, 1280, cfg.MaxWidth)
	assert.Equal(t, 15*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, 1_500_000, cfg.MaxBytes, "absent keys keep defaults")

	creds := cfg.OSSCredentials()
	assert.Equal(t, "bucket", creds.Bucket)
	assert.Equal(t, "id", creds.AccessKeyID)
}

func TestLoadConfig_TOMLFile(t *testing.T) {
	path := writeFile(t, "moments.toml", `
storage_backend = "s3"
s3_bucket = "pics"
s3_endpoint = "http://127.0.0.1:9000"
s3_use_path_style = true
min_quality = 0.4
http_timeout = "2m"
`)

	cfg, err := LoadConfig([]string{"--config=" + path})
	require.NoError(t, err)

	assert.Equal(t, "s3", cfg.StorageBackend)
	assert.True(t, cfg.S3UsePathStyle)
	assert.InDelta(t, 0.4, cfg.MinQuality, 1e-9)
	assert.Equal(t, 2*time.Minute, cfg.HTTPTimeout)

	opts := cfg.StorageOptions(nil)
	assert.Equal(t, "pics", opts.S3.Bucket)
	assert.Equal(t, "us-east-1", opts.S3.Region)
	assert.True(t, opts.S3.UsePathStyle)

	copts := cfg.CompressorOptions()
	assert.InDelta(t, 0.4, copts.MinQuality, 1e-9)
	assert.Equal(t, 200, copts.WidthStep)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "moments.json", `{"oss_bucket": "from-file", "max_width": 1280}`)
	t.Setenv("MOMENTS_OSS_BUCKET", "from-env")
	t.Setenv("MOMENTS_WORKERS", "4")
	t.Setenv("MOMENTS_HTTP_TIMEOUT", "5s")
	t.Setenv("MOMENTS_S3_USE_PATH_STYLE", "true")

	cfg, err := LoadConfig([]string{"-c", path})
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.OSSBucket)
	assert.Equal(t, 1280, cfg.MaxWidth, "file value survives when env is unset")
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.True(t, cfg.S3UsePathStyle)
}

func TestLoadConfig_BadEnvValue(t *testing.T) {
	t.Setenv("MOMENTS_WORKERS", "many")
	_, err := LoadConfig(nil)
	require.Error(t, err)
}

func TestLoadConfig_FileErrors(t *testing.T) {
	_, err := LoadConfig([]string{"-c", filepath.Join(t.TempDir(), "missing.json")})
	require.Error(t, err)

	_, err = LoadConfig([]string{"-c", writeFile(t, "bad.json", `{"max_width": "wide"}`)})
	require.Error(t, err)

	_, err = LoadConfig([]string{"-c", writeFile(t, "bad.toml", `max_width = [`)})
	require.Error(t, err)
}

func TestLedgerPath(t *testing.T) {
	c := Config{DataDir: "/var/lib/moments"}
	assert.Equal(t, filepath.Join("/var/lib/moments", "moments.db"), c.LedgerPath())
}

func TestLogValue_RedactsSecrets(t *testing.T) {
	var c Config
	c.LoadDefaults()
	c.OSSAccessKeySecret = "oss-secret-value"
	c.S3SecretAccessKey = "s3-secret-value"
	c.APIToken = "api-token-value"

	var buf bytes.Buffer
	slog.New(slog.NewTextHandler(&buf, nil)).Info("config", "cfg", c)

	out := buf.String()
	assert.NotContains(t, out, "oss-secret-value")
	assert.NotContains(t, out, "s3-secret-value")
	assert.NotContains(t, out, "api-token-value")
	assert.Contains(t, out, "[REDACTED]")
	assert.Contains(t, out, "cfg.max_width=1920")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		c := &Config{}
		c.LoadDefaults()
		c.APIBaseURL = "https://journal.example.com/api"
		return c
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
		is     error
	}{
		{"default empty api url", func(c *Config) { c.APIBaseURL = "" }, common.ErrInvalidURL},
		{"relative api url", func(c *Config) { c.APIBaseURL = "/api" }, common.ErrInvalidURL},
		{"non http scheme", func(c *Config) { c.APIBaseURL = "ftp://journal.example.com" }, common.ErrInvalidURL},
		{"missing host", func(c *Config) { c.APIBaseURL = "http://" }, common.ErrInvalidURL},
		{"hash x too small", func(c *Config) { c.HashX = 0 }, blurhash.ErrInvalidComponents},
		{"hash y too large", func(c *Config) { c.HashY = 10 }, blurhash.ErrInvalidComponents},
		{"no workers", func(c *Config) { c.Workers = 0 }, ErrInvalidWorkers},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			require.ErrorIs(t, c.Validate(), tt.is)
		})
	}
}
