package worker

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/url"
	"strings"

	"github.com/hibiken/asynq"
)

// ParseRedisURL parses a Redis URL and returns asynq.RedisClientOpt
func ParseRedisURL(redisURL string) (asynq.RedisClientOpt, error) {
	// Handle plain host:port format
	if !strings.HasPrefix(redisURL, "redis://") && !strings.HasPrefix(redisURL, "rediss://") {
		return asynq.RedisClientOpt{Addr: redisURL}, nil
	}

	u, err := url.Parse(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	opt := asynq.RedisClientOpt{
		Addr: u.Host,
	}

	if u.User != nil {
		opt.Username = u.User.Username()
		if password, ok := u.User.Password(); ok {
			opt.Password = password
		}
	}

	if db := strings.TrimPrefix(u.Path, "/"); db != "" {
		if _, err := fmt.Sscanf(db, "%d", &opt.DB); err != nil {
			return asynq.RedisClientOpt{}, fmt.Errorf("invalid redis database %q", db)
		}
	}

	// For rediss:// (TLS), we need to set TLS config
	if u.Scheme == "rediss" {
		opt.TLSConfig = &tls.Config{ServerName: u.Hostname()}
	}

	return opt, nil
}

// Client enqueues ingestion tasks.
type Client struct {
	asynq *asynq.Client
}

// NewClient creates a new Asynq client for enqueueing tasks
func NewClient(redisURL string) (*Client, error) {
	opt, err := ParseRedisURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	return &Client{asynq: asynq.NewClient(opt)}, nil
}

// EnqueueDocument queues a document for ingestion and returns the task ID.
func (c *Client) EnqueueDocument(ctx context.Context, filename string, data []byte) (string, error) {
	task, err := NewIngestDocumentTask(IngestDocumentPayload{Filename: filename, Data: data})
	if err != nil {
		return "", err
	}
	info, err := c.asynq.EnqueueContext(ctx, task)
	if err != nil {
		return "", fmt.Errorf("failed to enqueue document: %w", err)
	}
	return info.ID, nil
}

// Close closes the client connection
func (c *Client) Close() error {
	return c.asynq.Close()
}
