// Package storage talks to S3-compatible object storage (AWS S3, R2, MinIO).
// It holds the bundled dataset object and the published PNG renders.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	pkglogger "github.com/emojitopng/emojitopng-backend/pkg/logger"
)

const (
	// dataset CSVs are a few hundred KB
	maxDownloadSize = 64 << 20

	// renders are addressed by slug and size, so a key never changes content
	// unless an operator regenerates it
	renderCacheControl = "public, max-age=86400"
)

// ErrObjectTooLarge an object is bigger than this client will buffer
var ErrObjectTooLarge = errors.New("object too large")

// S3Config holds S3-compatible storage configuration
type S3Config struct {
	Endpoint        string // empty for AWS, e.g. https://<account>.r2.cloudflarestorage.com
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	CDNURL          string // optional public base URL in front of the bucket
	BasePath        string // key prefix, e.g. "emojitopng/"
	ForcePathStyle  bool   // MinIO, R2
}

// S3Client reads and writes objects under one bucket and key prefix
type S3Client struct {
	client *s3.Client
	cfg    S3Config
}

// NewS3Client validates cfg and builds the client. No request is made.
func NewS3Client(cfg S3Config) (*S3Client, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3: bucket is required")
	}
	cfg.CDNURL = strings.TrimRight(cfg.CDNURL, "/")
	cfg.Endpoint = strings.TrimRight(cfg.Endpoint, "/")

	client := s3.New(s3.Options{
		Region:       cfg.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		UsePathStyle: cfg.ForcePathStyle,
	}, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	pkglogger.WithComponent("storage").Info().
		Str("bucket", cfg.Bucket).
		Str("endpoint", cfg.Endpoint).
		Str("base_path", cfg.BasePath).
		Msg("object storage configured")

	return &S3Client{client: client, cfg: cfg}, nil
}

// UploadResult describes a stored object
type UploadResult struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	CDNURL      string `json:"cdn_url,omitempty"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// Upload stores body at key. PNG renders get a public Cache-Control.
func (c *S3Client) Upload(ctx context.Context, key string, body io.Reader, contentType string, size int64) (*UploadResult, error) {
	fullKey := c.fullKey(key)

	input := &s3.PutObjectInput{
		Bucket:        aws.String(c.cfg.Bucket),
		Key:           aws.String(fullKey),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	}
	if contentType == "image/png" {
		input.CacheControl = aws.String(renderCacheControl)
	}

	if _, err := c.client.PutObject(ctx, input); err != nil {
		return nil, fmt.Errorf("s3 put %s: %w", fullKey, err)
	}

	res := &UploadResult{
		Key:         fullKey,
		URL:         c.objectURL(fullKey),
		ContentType: contentType,
		Size:        size,
	}
	if c.cfg.CDNURL != "" {
		res.CDNURL = c.cfg.CDNURL + "/" + fullKey
	}
	return res, nil
}

// Download reads a whole object into memory
func (c *S3Client) Download(ctx context.Context, key string) ([]byte, error) {
	fullKey := c.fullKey(key)
	out, err := c.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.cfg.Bucket),
		Key:    aws.String(fullKey),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 get %s: %w", fullKey, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(io.LimitReader(out.Body, maxDownloadSize+1))
	if err != nil {
		return nil, fmt.Errorf("s3 read %s: %w", fullKey, err)
	}
	if len(data) > maxDownloadSize {
		return nil, fmt.Errorf("s3 read %s: %w", fullKey, ErrObjectTooLarge)
	}
	return data, nil
}

// Delete removes an object; deleting a missing key is not an error on S3
func (c *S3Client) Delete(ctx context.Context, key string) error {
	fullKey := c.fullKey(key)
	_, err := c.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.cfg.Bucket),
		Key:    aws.String(fullKey),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s: %w", fullKey, err)
	}
	return nil
}

// GetCDNURL is the public URL of key: CDN first, bucket URL otherwise
func (c *S3Client) GetCDNURL(key string) string {
	fullKey := c.fullKey(key)
	if c.cfg.CDNURL != "" {
		return c.cfg.CDNURL + "/" + fullKey
	}
	return c.objectURL(fullKey)
}

func (c *S3Client) fullKey(key string) string {
	return c.cfg.BasePath + strings.TrimLeft(key, "/")
}

// objectURL direct bucket URL; custom endpoints use path style
func (c *S3Client) objectURL(fullKey string) string {
	if c.cfg.Endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", c.cfg.Endpoint, c.cfg.Bucket, fullKey)
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", c.cfg.Bucket, fullKey)
}

// RenderKey object key of a rendered glyph
func RenderKey(slug string, size int) string {
	return fmt.Sprintf("renders/%d/%s.png", size, url.PathEscape(slug))
}
