/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package s3

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"

	commonconfig "github.com/dinobot22/mineru-tianshu/pkg/config"
)

// Config wraps the aws config together with the bucket and the public base
// URL rewritten image links point at.
type Config struct {
	aws.Config
	Bucket    string
	PublicURL string
}

// NewConfig builds the S3 configuration from system-wide settings. The
// image sink targets S3-compatible object stores (MinIO and friends), so
// path-style addressing and a custom endpoint are the norm.
func NewConfig(ctx context.Context) (*Config, error) {
	if !commonconfig.IsS3Enable() {
		return nil, fmt.Errorf("s3 is disabled")
	}
	endpoint := commonconfig.GetS3Endpoint()
	if endpoint == "" {
		return nil, fmt.Errorf("the s3 endpoint is empty")
	}
	if commonconfig.GetS3AccessKey() == "" || commonconfig.GetS3SecretKey() == "" {
		return nil, fmt.Errorf("the s3 credentials are empty")
	}
	if commonconfig.GetS3Bucket() == "" {
		return nil, fmt.Errorf("the s3 bucket is empty")
	}

	var httpClient *http.Client
	if !commonconfig.IsS3Secure() {
		httpClient = &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
		}
	}

	opts := []func(*config.LoadOptions) error{
		config.WithRegion(commonconfig.GetS3Region()),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			commonconfig.GetS3AccessKey(), commonconfig.GetS3SecretKey(), "")),
		config.WithBaseEndpoint(endpoint),
	}
	if httpClient != nil {
		opts = append(opts, config.WithHTTPClient(httpClient))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &Config{
		Config:    cfg,
		Bucket:    commonconfig.GetS3Bucket(),
		PublicURL: commonconfig.GetS3PublicURL(),
	}, nil
}
