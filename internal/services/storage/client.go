package storage

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/socialchef/recipe-finder/internal/httpclient"
)

// maxImageBytes bounds the size of a mirrored image.
const maxImageBytes = 20 << 20

type Client struct {
	supabaseURL string
	serviceKey  string
	bucket      string
	httpClient  *http.Client
}

var (
	ErrUploadFailed   = errors.New("upload failed")
	ErrDownloadFailed = errors.New("download failed")
)

// NewClient creates a Supabase storage client that mirrors images into bucket.
func NewClient(supabaseURL, serviceKey, bucket string) *Client {
	return &Client{
		supabaseURL: strings.TrimRight(supabaseURL, "/"),
		serviceKey:  serviceKey,
		bucket:      bucket,
		httpClient:  httpclient.NewInstrumentedClient(60 * time.Second),
	}
}

func HashContent(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// MirrorImage downloads the image at sourceURL and stores it under a path
// derived from its content hash, so the same picture is stored once.
func (c *Client) MirrorImage(ctx context.Context, sourceURL string) (string, error) {
	data, contentType, err := c.download(ctx, sourceURL)
	if err != nil {
		return "", err
	}

	path := "recipes/" + HashContent(data) + extensionFor(contentType)
	return c.UploadImage(ctx, path, data, contentType)
}

func (c *Client) UploadImage(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	uploadURL := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.supabaseURL, c.bucket, path)

	req, err := http.NewRequestWithContext(httpclient.WithProvider(ctx, "Supabase"), http.MethodPost, uploadURL, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "true")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("%w (status %d): %s", ErrUploadFailed, resp.StatusCode, string(body))
	}

	return c.GetPublicURL(path), nil
}

func (c *Client) GetPublicURL(path string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.supabaseURL, c.bucket, path)
}

func (c *Client) download(ctx context.Context, sourceURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(httpclient.WithProvider(ctx, "ImageHost"), http.MethodGet, sourceURL, nil)
	if err != nil {
		return nil, "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, "", fmt.Errorf("%w (status %d)", ErrDownloadFailed, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}
	if len(data) > maxImageBytes {
		return nil, "", fmt.Errorf("%w: image exceeds %d bytes", ErrDownloadFailed, maxImageBytes)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		contentType = http.DetectContentType(data)
	}
	return data, contentType, nil
}

func extensionFor(contentType string) string {
	switch {
	case strings.HasPrefix(contentType, "image/png"):
		return ".png"
	case strings.HasPrefix(contentType, "image/webp"):
		return ".webp"
	default:
		return ".jpg"
	}
}
