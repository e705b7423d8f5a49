package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/dmitrijs2005/moments/internal/timex"
)

// FileConfig is a DTO used exclusively for decoding config files. It relies
// on timex.Duration so intervals may be written as "30s". Zero values leave
// the corresponding Config field unchanged.
type FileConfig struct {
	StorageBackend string `json:"storage_backend" toml:"storage_backend"`
	UploadDir      string `json:"upload_dir" toml:"upload_dir"`

	OSSEndpoint        string `json:"oss_endpoint" toml:"oss_endpoint"`
	OSSBucket          string `json:"oss_bucket" toml:"oss_bucket"`
	OSSAccessKeyID     string `json:"oss_access_key_id" toml:"oss_access_key_id"`
	OSSAccessKeySecret string `json:"oss_access_key_secret" toml:"oss_access_key_secret"`

	S3Region          string `json:"s3_region" toml:"s3_region"`
	S3Endpoint        string `json:"s3_endpoint" toml:"s3_endpoint"`
	S3Bucket          string `json:"s3_bucket" toml:"s3_bucket"`
	S3AccessKeyID     string `json:"s3_access_key_id" toml:"s3_access_key_id"`
	S3SecretAccessKey string `json:"s3_secret_access_key" toml:"s3_secret_access_key"`
	S3PublicBaseURL   string `json:"s3_public_base_url" toml:"s3_public_base_url"`
	S3UsePathStyle    bool   `json:"s3_use_path_style" toml:"s3_use_path_style"`

	APIBaseURL string `json:"api_base_url" toml:"api_base_url"`
	APIToken   string `json:"api_token" toml:"api_token"`

	MaxWidth       int     `json:"max_width" toml:"max_width"`
	MaxBytes       int     `json:"max_bytes" toml:"max_bytes"`
	InitialQuality float64 `json:"initial_quality" toml:"initial_quality"`
	MinQuality     float64 `json:"min_quality" toml:"min_quality"`

	HashX int `json:"hash_x" toml:"hash_x"`
	HashY int `json:"hash_y" toml:"hash_y"`

	Workers     int            `json:"workers" toml:"workers"`
	HTTPTimeout timex.Duration `json:"http_timeout" toml:"http_timeout"`
	DataDir     string         `json:"data_dir" toml:"data_dir"`

	LogLevel  string `json:"log_level" toml:"log_level"`
	LogFormat string `json:"log_format" toml:"log_format"`
}

// loadFile overlays cfg with the non-zero values of the file at path.
func loadFile(cfg *Config, path string) error {
	var fc FileConfig

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.DecodeFile(path, &fc); err != nil {
			return err
		}
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(data, &fc); err != nil {
			return err
		}
	}

	fc.apply(cfg)
	return nil
}

func (fc *FileConfig) apply(cfg *Config) {
	setString(&cfg.StorageBackend, fc.StorageBackend)
	setString(&cfg.UploadDir, fc.UploadDir)
	setString(&cfg.OSSEndpoint, fc.OSSEndpoint)
	setString(&cfg.OSSBucket, fc.OSSBucket)
	setString(&cfg.OSSAccessKeyID, fc.OSSAccessKeyID)
	setString(&cfg.OSSAccessKeySecret, fc.OSSAccessKeySecret)
	setString(&cfg.S3Region, fc.S3Region)
	setString(&cfg.S3Endpoint, fc.S3Endpoint)
	setString(&cfg.S3Bucket, fc.S3Bucket)
	setString(&cfg.S3AccessKeyID, fc.S3AccessKeyID)
	setString(&cfg.S3SecretAccessKey, fc.S3SecretAccessKey)
	setString(&cfg.S3PublicBaseURL, fc.S3PublicBaseURL)
	setString(&cfg.APIBaseURL, fc.APIBaseURL)
	setString(&cfg.APIToken, fc.APIToken)
	setString(&cfg.DataDir, fc.DataDir)
	setString(&cfg.LogLevel, fc.LogLevel)
	setString(&cfg.LogFormat, fc.LogFormat)

	if fc.S3UsePathStyle {
		cfg.S3UsePathStyle = true
	}
	setInt(&cfg.MaxWidth, fc.MaxWidth)
	setInt(&cfg.MaxBytes, fc.MaxBytes)
	setInt(&cfg.HashX, fc.HashX)
	setInt(&cfg.HashY, fc.HashY)
	setInt(&cfg.Workers, fc.Workers)
	if fc.InitialQuality > 0 {
		cfg.InitialQuality = fc.InitialQuality
	}
	if fc.MinQuality > 0 {
		cfg.MinQuality = fc.MinQuality
	}
	if fc.HTTPTimeout.Duration > 0 {
		cfg.HTTPTimeout = fc.HTTPTimeout.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}
