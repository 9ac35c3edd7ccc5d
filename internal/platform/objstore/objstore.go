// Copyright (c) 2026 MangaHive. All rights reserved.
// Author: nhat.trandinh.vn@gmail.com

/*
Package objstore provides the S3-compatible object storage client used for
cover and page images.

Architecture:

  - Explicit construction: the client is built once in main and injected into
    the services that upload images. No package-level storage singleton exists,
    which keeps the upload paths testable without network calls.
  - Public URLs: every stored object is addressable under a stable public
    base URL; the services persist those URLs, never bucket-internal paths.
*/
package objstore

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Uploader is the object storage contract consumed by the upload services.
//
// # Why an interface?
//
// Services depend on this instead of the concrete MinIO client so unit tests
// can substitute an in-memory fake.
type Uploader interface {
	// Upload stores the payload under objectPath and returns the publicly
	// retrievable URL of the stored object.
	Upload(ctx context.Context, objectPath string, payload io.Reader, size int64, contentType string) (string, error)

	// Remove deletes the object at objectPath. Used for best-effort cleanup
	// when a multi-image upload is aborted midway.
	Remove(ctx context.Context, objectPath string) error
}

// Config holds the connection settings for the storage backend.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// PublicBaseURL is the base for public object URLs. When empty, a URL is
	// derived from the endpoint and SSL setting.
	PublicBaseURL string
}

// Client implements [Uploader] backed by an S3-compatible service
// (MinIO, Cloudflare R2, or any S3 API endpoint).
type Client struct {
	client        *minio.Client
	bucket        string
	publicBaseURL string
	logger        *slog.Logger
}

// NewClient builds and validates the storage client.
func NewClient(ctx context.Context, cfg Config, logger *slog.Logger) (*Client, error) {
	minioClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("objstore: failed to create client for %s: %w", cfg.Endpoint, err)
	}

	// Fail fast on a missing bucket rather than at first upload.
	exists, err := minioClient.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("objstore: failed to check bucket %q: %w", cfg.Bucket, err)
	}
	if !exists {
		return nil, fmt.Errorf("objstore: bucket %q does not exist", cfg.Bucket)
	}

	baseURL := cfg.PublicBaseURL
	if baseURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		baseURL = scheme + "://" + cfg.Endpoint
	}

	logger.Info("object storage connected",
		slog.String("endpoint", cfg.Endpoint),
		slog.String("bucket", cfg.Bucket),
	)

	return &Client{
		client:        minioClient,
		bucket:        cfg.Bucket,
		publicBaseURL: baseURL,
		logger:        logger,
	}, nil
}

// Upload stores the payload and returns its public URL.
func (c *Client) Upload(ctx context.Context, objectPath string, payload io.Reader, size int64, contentType string) (string, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := c.client.PutObject(ctx, c.bucket, objectPath, payload, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("objstore: upload of %q failed: %w", objectPath, err)
	}

	return c.PublicURL(objectPath), nil
}

// Remove deletes an object. Missing objects are not an error.
func (c *Client) Remove(ctx context.Context, objectPath string) error {
	err := c.client.RemoveObject(ctx, c.bucket, objectPath, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("objstore: remove of %q failed: %w", objectPath, err)
	}
	return nil
}

// PublicURL returns the publicly retrievable URL for an object path.
func (c *Client) PublicURL(objectPath string) string {
	return c.publicBaseURL + "/" + c.bucket + "/" + objectPath
}
