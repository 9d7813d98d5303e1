// Package instagram publishes carousels through the Instagram Graph
// API and manages the long-lived tokens the publishing flow needs.
package instagram

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

const (
	defaultGraphURL = "https://graph.facebook.com/v19.0"

	// Instagram rejects scheduled posts outside this window.
	minScheduleLead = 10 * time.Minute
	maxScheduleLead = 75 * 24 * time.Hour

	// A carousel needs at least two children; ten is the API cap.
	minCarouselItems = 2
	maxCarouselItems = 10
)

// PublishResult reports what happened to a carousel. A published post
// carries the media ID; a scheduled one only has its container ID
// until Instagram publishes it.
type PublishResult struct {
	Status      string // "published" or "scheduled"
	MediaID     string
	ContainerID string
	ScheduledAt time.Time
}

// PublishingLimit is the daily content-publishing quota state.
type PublishingLimit struct {
	QuotaUsage int
	QuotaTotal int
}

// Client publishes to one Instagram business account.
type Client struct {
	userID      string
	accessToken string
	baseURL     string
	http        *http.Client
}

// NewClient creates a client for the given IG business user ID and a
// page access token with instagram_content_publish permission.
func NewClient(userID, accessToken string) *Client {
	return &Client{
		userID:      userID,
		accessToken: accessToken,
		baseURL:     defaultGraphURL,
		http:        &http.Client{Timeout: 60 * time.Second},
	}
}

// WithBaseURL overrides the Graph API endpoint, for tests.
func (c *Client) WithBaseURL(base string) *Client {
	c.baseURL = strings.TrimRight(base, "/")
	return c
}

// PublishCarousel uploads the image URLs as carousel items, bundles
// them into a carousel container with the caption, and either
// publishes immediately (zero scheduledAt) or schedules for later.
func (c *Client) PublishCarousel(ctx context.Context, imageURLs []string, caption string, scheduledAt time.Time) (*PublishResult, error) {
	if len(imageURLs) < minCarouselItems {
		return nil, fmt.Errorf("instagram: carousel needs at least %d images, got %d", minCarouselItems, len(imageURLs))
	}
	if len(imageURLs) > maxCarouselItems {
		return nil, fmt.Errorf("instagram: carousel allows at most %d images, got %d", maxCarouselItems, len(imageURLs))
	}
	if !scheduledAt.IsZero() {
		if err := ValidateScheduleTime(scheduledAt, time.Now()); err != nil {
			return nil, err
		}
	}

	children := make([]string, 0, len(imageURLs))
	for i, u := range imageURLs {
		id, err := c.createItemContainer(ctx, u)
		if err != nil {
			return nil, fmt.Errorf("instagram: item %d: %w", i+1, err)
		}
		children = append(children, id)
	}

	containerID, err := c.createCarouselContainer(ctx, children, caption, scheduledAt)
	if err != nil {
		return nil, err
	}

	if !scheduledAt.IsZero() {
		return &PublishResult{Status: "scheduled", ContainerID: containerID, ScheduledAt: scheduledAt}, nil
	}

	mediaID, err := c.publish(ctx, containerID)
	if err != nil {
		return nil, err
	}
	return &PublishResult{Status: "published", MediaID: mediaID, ContainerID: containerID}, nil
}

// CheckPublishingLimit reads the daily quota so callers can warn
// before a publish attempt would be rejected.
func (c *Client) CheckPublishingLimit(ctx context.Context) (*PublishingLimit, error) {
	q := url.Values{}
	q.Set("fields", "quota_usage,config")
	q.Set("access_token", c.accessToken)

	var resp struct {
		Data []struct {
			QuotaUsage int `json:"quota_usage"`
			Config     struct {
				QuotaTotal int `json:"quota_total"`
			} `json:"config"`
		} `json:"data"`
	}
	if err := c.call(ctx, http.MethodGet, "/"+c.userID+"/content_publishing_limit", q, &resp); err != nil {
		return nil, fmt.Errorf("instagram: publishing limit: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("instagram: publishing limit: empty response")
	}
	return &PublishingLimit{
		QuotaUsage: resp.Data[0].QuotaUsage,
		QuotaTotal: resp.Data[0].Config.QuotaTotal,
	}, nil
}

// ValidateScheduleTime checks the Graph API scheduling window: at
// least 10 minutes and at most 75 days ahead.
func ValidateScheduleTime(scheduledAt, now time.Time) error {
	lead := scheduledAt.Sub(now)
	if lead < minScheduleLead {
		return fmt.Errorf("instagram: scheduled time must be at least %s from now", minScheduleLead)
	}
	if lead > maxScheduleLead {
		return fmt.Errorf("instagram: scheduled time must be within %d days", int(maxScheduleLead.Hours()/24))
	}
	return nil
}

func (c *Client) createItemContainer(ctx context.Context, imageURL string) (string, error) {
	form := url.Values{}
	form.Set("image_url", imageURL)
	form.Set("is_carousel_item", "true")
	form.Set("access_token", c.accessToken)

	var resp struct {
		ID string `json:"id"`
	}
	if err := c.call(ctx, http.MethodPost, "/"+c.userID+"/media", form, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

func (c *Client) createCarouselContainer(ctx context.Context, children []string, caption string, scheduledAt time.Time) (string, error) {
	form := url.Values{}
	form.Set("media_type", "CAROUSEL")
	form.Set("children", strings.Join(children, ","))
	form.Set("caption", caption)
	form.Set("access_token", c.accessToken)
	if !scheduledAt.IsZero() {
		form.Set("scheduled_publish_time", strconv.FormatInt(scheduledAt.Unix(), 10))
	}

	var resp struct {
		ID string `json:"id"`
	}
	if err := c.call(ctx, http.MethodPost, "/"+c.userID+"/media", form, &resp); err != nil {
		return "", fmt.Errorf("instagram: carousel container: %w", err)
	}
	return resp.ID, nil
}

func (c *Client) publish(ctx context.Context, containerID string) (string, error) {
	form := url.Values{}
	form.Set("creation_id", containerID)
	form.Set("access_token", c.accessToken)

	var resp struct {
		ID string `json:"id"`
	}
	if err := c.call(ctx, http.MethodPost, "/"+c.userID+"/media_publish", form, &resp); err != nil {
		return "", fmt.Errorf("instagram: publish: %w", err)
	}
	return resp.ID, nil
}

// call issues one Graph API request and decodes either the payload or
// the standard Graph error envelope.
func (c *Client) call(ctx context.Context, method, path string, params url.Values, out any) error {
	return graphCall(ctx, c.http, method, c.baseURL+path, params, out)
}

func graphCall(ctx context.Context, client *http.Client, method, endpoint string, params url.Values, out any) error {
	var req *http.Request
	var err error
	switch method {
	case http.MethodGet:
		req, err = http.NewRequestWithContext(ctx, method, endpoint+"?"+params.Encode(), nil)
	default:
		req, err = http.NewRequestWithContext(ctx, method, endpoint, strings.NewReader(params.Encode()))
		if req != nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
	}
	if err != nil {
		return err
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		var ge struct {
			Error struct {
				Message string `json:"message"`
				Type    string `json:"type"`
				Code    int    `json:"code"`
			} `json:"error"`
		}
		if json.Unmarshal(raw, &ge) == nil && ge.Error.Message != "" {
			return fmt.Errorf("graph api error %d (%s): %s", ge.Error.Code, ge.Error.Type, ge.Error.Message)
		}
		return fmt.Errorf("graph api status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	return json.Unmarshal(raw, out)
}
