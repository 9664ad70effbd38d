// Package s3 uploads finished dataset artifacts to S3-compatible object
// storage.
package s3

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"sync/atomic"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"threatsim/internal/config"
)

const uploadTimeout = 5 * time.Minute

// Client uploads run artifacts (CSV exports, summaries) as gzip objects.
type Client struct {
	client *awss3.Client
	cfg    config.S3Config
	logger *slog.Logger

	objectsUploaded atomic.Int64
	bytesUploaded   atomic.Int64
}

// NewClient creates an S3 client. Static credentials and a custom endpoint
// are optional; without them the default AWS credential chain applies.
func NewClient(ctx context.Context, cfg config.S3Config, logger *slog.Logger) (*Client, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3: bucket is required")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("s3: load aws config: %w", err)
	}

	client := awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &Client{
		client: client,
		cfg:    cfg,
		logger: logger.With("component", "s3"),
	}, nil
}

// UploadArtifact gzips and uploads one named artifact under the run's prefix.
func (c *Client) UploadArtifact(ctx context.Context, runID uuid.UUID, name string, data []byte) error {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(data); err != nil {
		return fmt.Errorf("s3: compress %s: %w", name, err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("s3: compress %s: %w", name, err)
	}

	key := path.Join(c.cfg.Prefix, runID.String(), name+".gz")

	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	_, err := c.client.PutObject(ctx, &awss3.PutObjectInput{
		Bucket:          aws.String(c.cfg.Bucket),
		Key:             aws.String(key),
		Body:            bytes.NewReader(buf.Bytes()),
		ContentEncoding: aws.String("gzip"),
	})
	if err != nil {
		return fmt.Errorf("s3: put %s: %w", key, err)
	}

	c.objectsUploaded.Add(1)
	c.bytesUploaded.Add(int64(buf.Len()))
	c.logger.Info("artifact uploaded", "key", key, "bytes", buf.Len())
	return nil
}

// UploadFile reads a local file and uploads it under the run's prefix.
func (c *Client) UploadFile(ctx context.Context, runID uuid.UUID, filePath string) error {
	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("s3: open %s: %w", filePath, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return fmt.Errorf("s3: read %s: %w", filePath, err)
	}
	return c.UploadArtifact(ctx, runID, path.Base(filePath), data)
}

// Stats returns upload counters.
func (c *Client) Stats() (objects, bytesUploaded int64) {
	return c.objectsUploaded.Load(), c.bytesUploaded.Load()
}
