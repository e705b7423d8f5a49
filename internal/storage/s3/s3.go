// Package s3 uploads objects to an S3-compatible endpoint (AWS, MinIO)
// through aws-sdk-go-v2.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dmitrijs2005/moments/internal/common"
)

type Options struct {
	Region          string
	Endpoint        string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	// PublicBaseURL prefixes returned URLs; defaults to {Endpoint}/{Bucket}.
	PublicBaseURL string
	UsePathStyle  bool
}

type putObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3Client = func(cfg aws.Config, optFns ...func(*s3.Options)) putObjectAPI {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

type Client struct {
	api        putObjectAPI
	bucket     string
	publicBase string
}

func New(ctx context.Context, opts Options, httpClient *http.Client) (*Client, error) {
	if opts.Bucket == "" {
		return nil, errors.New("s3: bucket is required")
	}

	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(opts.Region),
	}
	if opts.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, "")))
	}
	if httpClient != nil {
		loadOpts = append(loadOpts, config.WithHTTPClient(httpClient))
	}

	cfg, err := loadDefaultAWSConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	api := newS3Client(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
		o.UsePathStyle = opts.UsePathStyle
	})

	base := opts.PublicBaseURL
	if base == "" {
		base = strings.TrimRight(opts.Endpoint, "/") + "/" + opts.Bucket
	}

	return &Client{api: api, bucket: opts.Bucket, publicBase: strings.TrimRight(base, "/")}, nil
}

// Put stores payload with PutObject and returns {PublicBaseURL}/{objectKey}.
func (c *Client) Put(ctx context.Context, payload []byte, objectKey, contentType string) (string, error) {
	_, err := c.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(objectKey),
		Body:          bytes.NewReader(payload),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(payload))),
	})
	if err != nil {
		return "", fmt.Errorf("s3 put %s: %w", objectKey, classify(err))
	}
	return c.publicBase + "/" + objectKey, nil
}

// classify maps SDK errors onto the shared taxonomy: anything carrying an
// HTTP status is a server error, the rest never got a response.
func classify(err error) error {
	var re interface{ HTTPStatusCode() int }
	if errors.As(err, &re) && re.HTTPStatusCode() > 0 {
		return &common.ServerError{Code: re.HTTPStatusCode(), Body: err.Error()}
	}
	return &common.NetworkError{Err: err}
}
