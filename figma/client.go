// Package figma is a minimal client for the Figma REST API covering
// what the card-news pipeline needs: listing a file's frames and
// exporting selected frames as raster images.
package figma

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.figma.com"

// Frame is one top-level frame of a Figma file, together with the page
// it lives on. Frame names carry the carousel ordering convention
// ("250213-1", "250213-2", ...).
type Frame struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Page string `json:"page"`
}

// Client talks to the Figma REST API for a single file.
type Client struct {
	token   string
	fileKey string
	baseURL string
	http    *http.Client
}

// NewClient creates a client with the personal access token and file
// key. The file key is the segment after /file/ in a Figma URL.
func NewClient(token, fileKey string) *Client {
	return &Client{
		token:   token,
		fileKey: fileKey,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// WithBaseURL overrides the API endpoint, for tests.
func (c *Client) WithBaseURL(base string) *Client {
	c.baseURL = strings.TrimRight(base, "/")
	return c
}

// Frames lists every top-level frame of the file, page by page, in
// document order.
func (c *Client) Frames(ctx context.Context) ([]Frame, error) {
	var doc struct {
		Document struct {
			Children []struct {
				Name     string `json:"name"`
				Children []struct {
					ID   string `json:"id"`
					Name string `json:"name"`
					Type string `json:"type"`
				} `json:"children"`
			} `json:"children"`
		} `json:"document"`
	}
	if err := c.get(ctx, "/v1/files/"+c.fileKey, nil, &doc); err != nil {
		return nil, fmt.Errorf("figma: list frames: %w", err)
	}

	var frames []Frame
	for _, page := range doc.Document.Children {
		for _, node := range page.Children {
			if node.Type != "FRAME" {
				continue
			}
			frames = append(frames, Frame{ID: node.ID, Name: node.Name, Page: page.Name})
		}
	}
	return frames, nil
}

// ExportImages asks Figma to rasterize the given nodes and returns a
// node-ID to image-URL map. Nodes Figma could not export are absent
// from the map.
func (c *Client) ExportImages(ctx context.Context, nodeIDs []string, format string, scale int) (map[string]string, error) {
	if len(nodeIDs) == 0 {
		return nil, fmt.Errorf("figma: no node ids to export")
	}
	if format == "" {
		format = "png"
	}
	if scale <= 0 {
		scale = 1
	}

	q := url.Values{}
	q.Set("ids", strings.Join(nodeIDs, ","))
	q.Set("format", format)
	q.Set("scale", strconv.Itoa(scale))

	var resp struct {
		Err    string            `json:"err"`
		Images map[string]string `json:"images"`
	}
	if err := c.get(ctx, "/v1/images/"+c.fileKey, q, &resp); err != nil {
		return nil, fmt.Errorf("figma: export images: %w", err)
	}
	if resp.Err != "" {
		return nil, fmt.Errorf("figma: export images: %s", resp.Err)
	}
	return resp.Images, nil
}

// Download fetches one exported image. Export URLs are short-lived
// S3 links, so callers should download promptly.
func (c *Client) Download(ctx context.Context, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("figma: download image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("figma: download image: status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-Figma-Token", c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
