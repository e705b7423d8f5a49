// Package config loads runtime configuration for the moments CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON or TOML file selected with -c/--config. The format
//     follows the file extension; anything but ".toml" is read as JSON.
//  3. Environment variables prefixed with MOMENTS_, e.g. MOMENTS_OSS_BUCKET.
//  4. Command-line flags, bound by the cli package on top of the loaded
//     values.
//
// # File schema
//
// Durations are either strings like "30s" or integer nanoseconds:
//
//	{
//	  "storage_backend": "oss",
//	  "oss_endpoint": "https://moments-bucket.oss-cn-hangzhou.aliyuncs.com",
//	  "oss_bucket": "moments-bucket",
//	  "oss_access_key_id": "LTAI...",
//	  "api_base_url": "https://api.example.com",
//	  "http_timeout": "60s",
//	  "workers": 1
//	}
//
// Secrets (oss_access_key_secret, s3_secret_access_key, api_token) are never
// logged; Config implements slog.LogValuer and redacts them.
package config
