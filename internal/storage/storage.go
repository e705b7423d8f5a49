// Package storage names the object-storage contract used by the ingestion
// pipeline and builds the configured backend.
package storage

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/moments/internal/logging"
	"github.com/dmitrijs2005/moments/internal/storage/oss"
	"github.com/dmitrijs2005/moments/internal/storage/s3"
)

// DefaultDir is the first path segment of every object key.
const DefaultDir = "moments"

const (
	BackendOSS = "oss"
	BackendS3  = "s3"
)

// Uploader stores one object and returns its public URL.
type Uploader interface {
	Put(ctx context.Context, payload []byte, objectKey, contentType string) (string, error)
}

var (
	_ Uploader = (*oss.Client)(nil)
	_ Uploader = (*s3.Client)(nil)
)

// ObjectKey renders {dir}/{yyyy}/{MM}/{dd}/{epochMillis}_{id8}.jpg. The date
// path is in UTC and id8 is the first eight characters of id without dashes.
func ObjectKey(dir string, now time.Time, id string) string {
	now = now.UTC()
	suffix := strings.ReplaceAll(id, "-", "")
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}
	return fmt.Sprintf("%s/%04d/%02d/%02d/%d_%s.jpg",
		strings.Trim(dir, "/"), now.Year(), int(now.Month()), now.Day(), now.UnixMilli(), suffix)
}

// KeyGenerator issues unique object keys without coordination.
type KeyGenerator struct {
	dir   string
	now   func() time.Time
	newID func() string
}

func NewKeyGenerator(dir string) *KeyGenerator {
	if dir == "" {
		dir = DefaultDir
	}
	return &KeyGenerator{dir: dir, now: time.Now, newID: uuid.NewString}
}

func (g *KeyGenerator) Next() string {
	return ObjectKey(g.dir, g.now(), g.newID())
}

type Options struct {
	Backend    string
	OSS        oss.Credentials
	S3         s3.Options
	HTTPClient *http.Client
}

// New builds the uploader selected by opts.Backend ("oss" when empty).
func New(ctx context.Context, opts Options, log logging.Logger) (Uploader, error) {
	switch strings.ToLower(opts.Backend) {
	case "", BackendOSS:
		c, err := oss.NewClient(opts.OSS, opts.HTTPClient, log)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendS3:
		c, err := s3.New(ctx, opts.S3, opts.HTTPClient)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
}
