package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by LoadConfig.
const EnvPrefix = "MOMENTS"

// loadEnv overlays cfg with MOMENTS_* environment variables. The current
// values of cfg act as defaults, so unset variables change nothing.
func loadEnv(cfg *Config) error {
	v := viper.NewWithOptions(
		viper.KeyDelimiter("."),
		viper.EnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_")),
	)
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	for key, value := range cfg.settings() {
		_ = v.BindEnv(key)
		v.SetDefault(key, value)
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to load configuration from environment: %w", err)
	}
	return nil
}

// settings maps every configuration key to its current value.
func (c *Config) settings() map[string]any {
	return map[string]any{
		"storage_backend":       c.StorageBackend,
		"upload_dir":            c.UploadDir,
		"oss_endpoint":          c.OSSEndpoint,
		"oss_bucket":            c.OSSBucket,
		"oss_access_key_id":     c.OSSAccessKeyID,
		"oss_access_key_secret": c.OSSAccessKeySecret,
		"s3_region":             c.S3Region,
		"s3_endpoint":           c.S3Endpoint,
		"s3_bucket":             c.S3Bucket,
		"s3_access_key_id":      c.S3AccessKeyID,
		"s3_secret_access_key":  c.S3SecretAccessKey,
		"s3_public_base_url":    c.S3PublicBaseURL,
		"s3_use_path_style":     c.S3UsePathStyle,
		"api_base_url":          c.APIBaseURL,
		"api_token":             c.APIToken,
		"max_width":             c.MaxWidth,
		"max_bytes":             c.MaxBytes,
		"initial_quality":       c.InitialQuality,
		"min_quality":           c.MinQuality,
		"hash_x":                c.HashX,
		"hash_y":                c.HashY,
		"workers":               c.Workers,
		"http_timeout":          c.HTTPTimeout,
		"data_dir":              c.DataDir,
		"log_level":             c.LogLevel,
		"log_format":            c.LogFormat,
	}
}
