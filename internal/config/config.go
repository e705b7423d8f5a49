package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/moments/internal/blurhash"
	"github.com/dmitrijs2005/moments/internal/common"
	"github.com/dmitrijs2005/moments/internal/compressor"
	"github.com/dmitrijs2005/moments/internal/filex"
	"github.com/dmitrijs2005/moments/internal/flagx"
	"github.com/dmitrijs2005/moments/internal/ledger"
	"github.com/dmitrijs2005/moments/internal/storage"
	"github.com/dmitrijs2005/moments/internal/storage/oss"
	"github.com/dmitrijs2005/moments/internal/storage/s3"
)

const redacted = "[REDACTED]"

var ErrInvalidWorkers = errors.New("workers must be at least 1")

// Config holds runtime settings of the moments CLI. Keys in mapstructure
// tags are shared by the file and environment layers.
type Config struct {
	StorageBackend string `mapstructure:"storage_backend"`
	UploadDir      string `mapstructure:"upload_dir"`

	OSSEndpoint        string `mapstructure:"oss_endpoint"`
	OSSBucket          string `mapstructure:"oss_bucket"`
	OSSAccessKeyID     string `mapstructure:"oss_access_key_id"`
	OSSAccessKeySecret string `mapstructure:"oss_access_key_secret"`

	S3Region          string `mapstructure:"s3_region"`
	S3Endpoint        string `mapstructure:"s3_endpoint"`
	S3Bucket          string `mapstructure:"s3_bucket"`
	S3AccessKeyID     string `mapstructure:"s3_access_key_id"`
	S3SecretAccessKey string `mapstructure:"s3_secret_access_key"`
	S3PublicBaseURL   string `mapstructure:"s3_public_base_url"`
	S3UsePathStyle    bool   `mapstructure:"s3_use_path_style"`

	APIBaseURL string `mapstructure:"api_base_url"`
	APIToken   string `mapstructure:"api_token"`

	MaxWidth       int     `mapstructure:"max_width"`
	MaxBytes       int     `mapstructure:"max_bytes"`
	InitialQuality float64 `mapstructure:"initial_quality"`
	MinQuality     float64 `mapstructure:"min_quality"`

	HashX int `mapstructure:"hash_x"`
	HashY int `mapstructure:"hash_y"`

	Workers     int           `mapstructure:"workers"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
	DataDir     string        `mapstructure:"data_dir"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	opts := compressor.DefaultOptions()

	c.StorageBackend = storage.BackendOSS
	c.UploadDir = storage.DefaultDir
	c.S3Region = "us-east-1"
	c.MaxWidth = opts.MaxWidth
	c.MaxBytes = opts.MaxBytes
	c.InitialQuality = opts.InitialQuality
	c.MinQuality = opts.MinQuality
	c.HashX = blurhash.DefaultXComponents
	c.HashY = blurhash.DefaultYComponents
	c.Workers = 1
	c.HTTPTimeout = 60 * time.Second
	c.DataDir = filex.DefaultDataDir()
	c.LogLevel = "info"
	c.LogFormat = "text"
}

// LoadConfig applies defaults, then the config file named by -c/--config in
// args (if any), then MOMENTS_* environment variables.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if path := flagx.ConfigPath(args); path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
	}
	if err := loadEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings publish depends on, so a bad value fails
// before anything is uploaded.
func (c *Config) Validate() error {
	if err := c.ValidateAPI(); err != nil {
		return err
	}
	if c.HashX < 1 || c.HashX > 9 || c.HashY < 1 || c.HashY > 9 {
		return fmt.Errorf("hash grid %dx%d: %w", c.HashX, c.HashY, blurhash.ErrInvalidComponents)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w, got %d", ErrInvalidWorkers, c.Workers)
	}
	return nil
}

// ValidateAPI checks that api_base_url is an absolute http(s) URL.
func (c *Config) ValidateAPI() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: api_base_url %q must be an absolute http(s) url", common.ErrInvalidURL, c.APIBaseURL)
	}
	return nil
}

func (c *Config) CompressorOptions() compressor.Options {
	opts := compressor.DefaultOptions()
	opts.MaxWidth = c.MaxWidth
	opts.MaxBytes = c.MaxBytes
	opts.InitialQuality = c.InitialQuality
	opts.MinQuality = c.MinQuality
	return opts
}

func (c *Config) OSSCredentials() oss.Credentials {
	return oss.Credentials{
		AccessKeyID:     c.OSSAccessKeyID,
		AccessKeySecret: c.OSSAccessKeySecret,
		Bucket:          c.OSSBucket,
		Endpoint:        c.OSSEndpoint,
	}
}

func (c *Config) StorageOptions(httpClient *http.Client) storage.Options {
	return storage.Options{
		Backend: c.StorageBackend,
		OSS:     c.OSSCredentials(),
		S3: s3.Options{
			Region:          c.S3Region,
			Endpoint:        c.S3Endpoint,
			Bucket:          c.S3Bucket,
			AccessKeyID:     c.S3AccessKeyID,
			SecretAccessKey: c.S3SecretAccessKey,
			PublicBaseURL:   c.S3PublicBaseURL,
			UsePathStyle:    c.S3UsePathStyle,
		},
		HTTPClient: httpClient,
	}
}

// LedgerPath is the ledger database file inside DataDir.
func (c *Config) LedgerPath() string {
	return filepath.Join(c.DataDir, ledger.DatabaseName)
}

// LogValue prints the configuration with secrets replaced.
func (c Config) LogValue() slog.Value {
	hide := func(s string) string {
		if s == "" {
			return ""
		}
		return redacted
	}
	return slog.GroupValue(
		slog.String("storage_backend", c.StorageBackend),
		slog.String("upload_dir", c.UploadDir),
		slog.String("oss_endpoint", c.OSSEndpoint),
		slog.String("oss_bucket", c.OSSBucket),
		slog.String("oss_access_key_id", c.OSSAccessKeyID),
		slog.String("oss_access_key_secret", hide(c.OSSAccessKeySecret)),
		slog.String("s3_endpoint", c.S3Endpoint),
		slog.String("s3_bucket", c.S3Bucket),
		slog.String("s3_secret_access_key", hide(c.S3SecretAccessKey)),
		slog.String("api_base_url", c.APIBaseURL),
		slog.String("api_token", hide(c.APIToken)),
		slog.Int("max_width", c.MaxWidth),
		slog.Int("max_bytes", c.MaxBytes),
		slog.Int("workers", c.Workers),
		slog.Duration("http_timeout", c.HTTPTimeout),
		slog.String("data_dir", c.DataDir),
	)
}
