// Package storage uploads media evidence to the object-storage service
// and builds the public URLs persisted on media rows.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Client talks to a Supabase-compatible storage REST API.
type Client struct {
	http    *resty.Client
	baseURL string
	bucket  string
	logger  *zap.SugaredLogger
}

// NewClient creates a storage client for one bucket. Returns nil when no
// base URL is configured; callers treat a nil client as "uploads disabled".
func NewClient(baseURL, serviceKey, bucket string, logger *zap.SugaredLogger) *Client {
	if baseURL == "" {
		return nil
	}

	http := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30 * time.Second).
		SetAuthToken(serviceKey)

	return &Client{http: http, baseURL: baseURL, bucket: bucket, logger: logger}
}

// Upload stores content at objectPath inside the bucket and returns the
// public URL. Object paths are namespaced per report by the caller, e.g.
// "reports/{report_id}/{media_id}.jpg".
func (c *Client) Upload(ctx context.Context, objectPath, contentType string, content []byte) (string, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", contentType).
		SetBody(content).
		Post(fmt.Sprintf("/storage/v1/object/%s/%s", c.bucket, objectPath))
	if err != nil {
		return "", fmt.Errorf("storage upload: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("storage upload: HTTP %d: %s", resp.StatusCode(), resp.String())
	}

	c.logger.Infow("Media uploaded", "path", objectPath, "bytes", len(content))

	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.baseURL, c.bucket, objectPath), nil
}
