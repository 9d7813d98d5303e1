// Package imghost uploads rendered slides to imgbb so the Instagram
// Graph API can fetch them by public URL.
package imghost

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultEndpoint = "https://api.imgbb.com/1/upload"

// Client uploads images to imgbb with a fixed expiration, long enough
// for Instagram to ingest the carousel but not permanent.
type Client struct {
	apiKey     string
	endpoint   string
	expiration time.Duration
	http       *http.Client
}

// NewClient creates a client. A zero expiration defaults to 24 hours.
func NewClient(apiKey string, expiration time.Duration) *Client {
	if expiration <= 0 {
		expiration = 24 * time.Hour
	}
	return &Client{
		apiKey:     apiKey,
		endpoint:   defaultEndpoint,
		expiration: expiration,
		http:       &http.Client{Timeout: 60 * time.Second},
	}
}

// WithEndpoint overrides the upload URL, for tests.
func (c *Client) WithEndpoint(endpoint string) *Client {
	c.endpoint = endpoint
	return c
}

// Upload posts one image and returns its public URL.
func (c *Client) Upload(ctx context.Context, name string, data []byte) (string, error) {
	form := url.Values{}
	form.Set("key", c.apiKey)
	form.Set("name", name)
	form.Set("expiration", strconv.Itoa(int(c.expiration.Seconds())))
	form.Set("image", base64.StdEncoding.EncodeToString(data))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("imghost: upload %s: %w", name, err)
	}
	defer resp.Body.Close()

	var body struct {
		Success bool `json:"success"`
		Status  int  `json:"status"`
		Data    struct {
			URL string `json:"url"`
		} `json:"data"`
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("imghost: upload %s: %w", name, err)
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return "", fmt.Errorf("imghost: upload %s: status %d: %w", name, resp.StatusCode, err)
	}
	if !body.Success || body.Data.URL == "" {
		msg := body.Error.Message
		if msg == "" {
			msg = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return "", fmt.Errorf("imghost: upload %s: %s", name, msg)
	}
	return body.Data.URL, nil
}

// UploadBatch uploads images in order and returns their URLs in the
// same order. It stops at the first failure so a partial carousel is
// never published.
func (c *Client) UploadBatch(ctx context.Context, prefix string, images [][]byte) ([]string, error) {
	urls := make([]string, 0, len(images))
	for i, data := range images {
		u, err := c.Upload(ctx, fmt.Sprintf("%s-%02d", prefix, i+1), data)
		if err != nil {
			return nil, err
		}
		urls = append(urls, u)
	}
	return urls, nil
}
