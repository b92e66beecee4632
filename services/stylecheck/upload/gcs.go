// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package upload publishes lint reports to Google Cloud Storage so CI runs
// can archive results per commit.
package upload

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/AleutianAI/objstyle/services/stylecheck/report"
)

// ErrNoBucket indicates no destination bucket was configured.
var ErrNoBucket = errors.New("bucket name is required")

// Client uploads reports to a GCS bucket.
type Client struct {
	storageClient *storage.Client
	BucketName    string
	Prefix        string
}

// NewClient creates a GCS upload client.
//
// Description:
//
//	When saKeyPath is non-empty, credentials are read from the service
//	account key file. Otherwise Application Default Credentials are used.
//
// Inputs:
//
//	ctx - Context for client creation.
//	bucketName - Destination bucket. Required.
//	prefix - Object name prefix (e.g., "reports/myapp").
//	saKeyPath - Optional service account key file path.
//
// Outputs:
//
//	*Client - The client. Caller must call Close() when done.
//	error - Non-nil if the key file is missing or the client fails.
func NewClient(ctx context.Context, bucketName, prefix, saKeyPath string) (*Client, error) {
	if bucketName == "" {
		return nil, ErrNoBucket
	}

	var opts []option.ClientOption
	if saKeyPath != "" {
		if _, err := os.Stat(saKeyPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("service account key not found at path: %s", saKeyPath)
		}
		opts = append(opts, option.WithCredentialsFile(saKeyPath))
	}

	storageClient, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS storage client: %w", err)
	}

	return &Client{
		storageClient: storageClient,
		BucketName:    bucketName,
		Prefix:        prefix,
	}, nil
}

// Close releases the underlying storage client.
func (c *Client) Close() error {
	return c.storageClient.Close()
}

// UploadReport writes the report as a JSON object.
//
// Description:
//
//	The object name is <prefix>/<date>/<report-id>.json so successive CI
//	runs never collide.
//
// Outputs:
//
//	string - The gs:// URL of the uploaded object.
//	error - Non-nil if encoding or the upload fails.
func (c *Client) UploadReport(ctx context.Context, r *report.Report) (string, error) {
	if r == nil {
		return "", errors.New("report must not be nil")
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding report %s: %w", r.ID, err)
	}

	name := path.Join(c.Prefix, r.GeneratedAt.Format("2006-01-02"), r.ID+".json")
	obj := c.storageClient.Bucket(c.BucketName).Object(name)
	writer := obj.NewWriter(ctx)
	writer.ContentType = "application/json"
	writer.CacheControl = "no-cache, no-store, must-revalidate"

	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return "", fmt.Errorf("failed to write report to GCS object %s: %w", name, err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to close GCS writer for %s: %w", name, err)
	}
	return fmt.Sprintf("gs://%s/%s", c.BucketName, name), nil
}

// UploadFile uploads an already rendered report file (e.g., a markdown
// summary) under the client prefix.
func (c *Client) UploadFile(ctx context.Context, localPath, contentType string) (string, error) {
	data, err := os.ReadFile(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", localPath, err)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	name := path.Join(c.Prefix, time.Now().UTC().Format("2006-01-02"), path.Base(localPath))
	obj := c.storageClient.Bucket(c.BucketName).Object(name)
	writer := obj.NewWriter(ctx)
	writer.ContentType = contentType
	writer.CacheControl = "no-cache, no-store, must-revalidate"

	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return "", fmt.Errorf("failed to copy %s to GCS object %s: %w", localPath, name, err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to close GCS writer for %s: %w", name, err)
	}
	return fmt.Sprintf("gs://%s/%s", c.BucketName, name), nil
}
