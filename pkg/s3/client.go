/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

// Package s3 is the image sink: it pushes artifact images to an
// S3-compatible object store so the status endpoint can serve markdown
// whose image links survive outside the worker filesystem.
package s3

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/dinobot22/mineru-tianshu/pkg/utils"
)

const (
	defaultTimeout = 60 * time.Second

	// ImagePrefix is the object key prefix of uploaded artifact images.
	ImagePrefix = "images/"
)

// Interface is the surface the markdown rewriter depends on.
type Interface interface {
	PutObject(ctx context.Context, key string, body []byte, contentType string) error
	UploadImage(ctx context.Context, localPath string) (string, error)
	PublicURL(key string) string
}

// Client is the S3 image-sink client.
type Client struct {
	cfg      *Config
	s3Client *awss3.Client
}

// NewClient builds the sink from system-wide settings and verifies the
// bucket is reachable.
func NewClient(ctx context.Context) (Interface, error) {
	cfg, err := NewConfig(ctx)
	if err != nil {
		return nil, err
	}
	s3Client := awss3.NewFromConfig(cfg.Config, func(o *awss3.Options) {
		o.UsePathStyle = true
	})
	cli := &Client{cfg: cfg, s3Client: s3Client}
	timeoutCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	if _, err = s3Client.HeadBucket(timeoutCtx, &awss3.HeadBucketInput{
		Bucket: aws.String(cfg.Bucket),
	}); err != nil {
		return nil, fmt.Errorf("s3 bucket %s is not reachable: %w", cfg.Bucket, err)
	}
	return cli, nil
}

// PutObject uploads one object.
func (c *Client) PutObject(ctx context.Context, key string, body []byte, contentType string) error {
	timeoutCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	_, err := c.s3Client.PutObject(timeoutCtx, &awss3.PutObjectInput{
		Bucket:      aws.String(c.cfg.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	return err
}

// UploadImage pushes a local artifact image under a fresh uuid key and
// returns its public URL.
func (c *Client) UploadImage(ctx context.Context, localPath string) (string, error) {
	data, err := os.ReadFile(localPath)
	if err != nil {
		return "", err
	}
	key := ImagePrefix + uuid.New().String() + strings.ToLower(filepath.Ext(localPath))
	if err = c.PutObject(ctx, key, data, utils.GetContentType(localPath)); err != nil {
		return "", err
	}
	return c.PublicURL(key), nil
}

// PublicURL renders the path-style public URL of an object.
func (c *Client) PublicURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(c.cfg.PublicURL, "/"), c.cfg.Bucket, key)
}
