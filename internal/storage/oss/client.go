// Package oss uploads objects to Alibaba Cloud OSS style endpoints with a
// header-signed PUT (HMAC-SHA1 over a canonical string).
package oss

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/moments/internal/common"
	"github.com/dmitrijs2005/moments/internal/logging"
	"github.com/dmitrijs2005/moments/internal/netx"
)

// Credentials are loaded once at start-up and never change afterwards.
type Credentials struct {
	AccessKeyID     string
	AccessKeySecret string
	Bucket          string
	// Endpoint is the bucket origin, e.g. https://bucket.oss-cn-hangzhou.aliyuncs.com.
	Endpoint string
}

// LogValue keeps the secret out of logs.
func (c Credentials) LogValue() slog.Value {
	secret := ""
	if c.AccessKeySecret != "" {
		secret = "[REDACTED]"
	}
	return slog.GroupValue(
		slog.String("access_key_id", c.AccessKeyID),
		slog.String("access_key_secret", secret),
		slog.String("bucket", c.Bucket),
		slog.String("endpoint", c.Endpoint),
	)
}

var ErrMissingCredentials = errors.New("oss: access key id, secret and bucket are required")

func (c Credentials) Validate() error {
	if c.AccessKeyID == "" || c.AccessKeySecret == "" || c.Bucket == "" {
		return ErrMissingCredentials
	}
	u, err := url.Parse(c.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: oss endpoint %q", common.ErrInvalidURL, c.Endpoint)
	}
	return nil
}

type Client struct {
	creds Credentials
	http  *http.Client
	now   func() time.Time
	log   logging.Logger
}

func NewClient(creds Credentials, httpClient *http.Client, log logging.Logger) (*Client, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	creds.Endpoint = strings.TrimRight(creds.Endpoint, "/")
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &Client{creds: creds, http: httpClient, now: time.Now, log: log}, nil
}

// Put stores payload under objectKey with a single signed PUT and returns
// {endpoint}/{objectKey}. Non-2xx answers fail with *common.ServerError and
// transport failures with *common.NetworkError.
func (c *Client) Put(ctx context.Context, payload []byte, objectKey, contentType string) (string, error) {
	date := HTTPDate(c.now())
	signature := Sign(c.creds.AccessKeySecret,
		StringToSign(http.MethodPut, "", contentType, date, c.creds.Bucket, objectKey))

	target := c.creds.Endpoint + "/" + objectKey

	h := http.Header{}
	h.Set("Content-Type", contentType)
	h.Set("Date", date)
	h.Set("Authorization", Authorization(c.creds.AccessKeyID, signature))

	if _, err := netx.Put(ctx, c.http, target, h, payload); err != nil {
		c.log.Error(ctx, "oss upload failed", "key", objectKey, "error", err)
		return "", fmt.Errorf("oss put %s: %w", objectKey, err)
	}

	c.log.Debug(ctx, "oss upload done", "key", objectKey, "bytes", len(payload))
	return target, nil
}
