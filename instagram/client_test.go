package instagram

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// graphStub records the container/publish call sequence the carousel
// flow is expected to make.
type graphStub struct {
	t         *testing.T
	itemCalls int
	carousel  map[string]string
	published string
}

func (g *graphStub) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		switch {
		case strings.HasSuffix(r.URL.Path, "/media") && r.Form.Get("media_type") == "CAROUSEL":
			g.carousel = map[string]string{
				"children":               r.Form.Get("children"),
				"caption":                r.Form.Get("caption"),
				"scheduled_publish_time": r.Form.Get("scheduled_publish_time"),
			}
			fmt.Fprint(w, `{"id":"car-1"}`)
		case strings.HasSuffix(r.URL.Path, "/media"):
			if r.Form.Get("is_carousel_item") != "true" {
				g.t.Errorf("item container missing is_carousel_item")
			}
			g.itemCalls++
			fmt.Fprintf(w, `{"id":"item-%d"}`, g.itemCalls)
		case strings.HasSuffix(r.URL.Path, "/media_publish"):
			g.published = r.Form.Get("creation_id")
			fmt.Fprint(w, `{"id":"media-9"}`)
		default:
			g.t.Errorf("unexpected path %s", r.URL.Path)
		}
	})
}

func TestPublishCarouselImmediate(t *testing.T) {
	stub := &graphStub{t: t}
	srv := httptest.NewServer(stub.handler())
	defer srv.Close()

	c := NewClient("17841400000", "tok").WithBaseURL(srv.URL)
	res, err := c.PublishCarousel(context.Background(),
		[]string{"https://img/1.png", "https://img/2.png", "https://img/3.png"},
		"caption text", time.Time{})
	if err != nil {
		t.Fatalf("PublishCarousel: %v", err)
	}
	if res.Status != "published" || res.MediaID != "media-9" || res.ContainerID != "car-1" {
		t.Errorf("result = %+v", res)
	}
	if stub.carousel["children"] != "item-1,item-2,item-3" {
		t.Errorf("children = %q", stub.carousel["children"])
	}
	if stub.carousel["caption"] != "caption text" {
		t.Errorf("caption = %q", stub.carousel["caption"])
	}
	if stub.carousel["scheduled_publish_time"] != "" {
		t.Errorf("unexpected schedule on immediate publish")
	}
	if stub.published != "car-1" {
		t.Errorf("published creation_id = %q", stub.published)
	}
}

func TestPublishCarouselScheduled(t *testing.T) {
	stub := &graphStub{t: t}
	srv := httptest.NewServer(stub.handler())
	defer srv.Close()

	at := time.Now().Add(2 * time.Hour)
	c := NewClient("17841400000", "tok").WithBaseURL(srv.URL)
	res, err := c.PublishCarousel(context.Background(),
		[]string{"https://img/1.png", "https://img/2.png"}, "", at)
	if err != nil {
		t.Fatalf("PublishCarousel: %v", err)
	}
	if res.Status != "scheduled" || res.ContainerID != "car-1" || res.MediaID != "" {
		t.Errorf("result = %+v", res)
	}
	if want := fmt.Sprint(at.Unix()); stub.carousel["scheduled_publish_time"] != want {
		t.Errorf("scheduled_publish_time = %q, want %q", stub.carousel["scheduled_publish_time"], want)
	}
	if stub.published != "" {
		t.Error("scheduled post must not call media_publish")
	}
}

func TestPublishCarouselItemCount(t *testing.T) {
	c := NewClient("ig", "tok")
	if _, err := c.PublishCarousel(context.Background(), []string{"https://img/1.png"}, "", time.Time{}); err == nil {
		t.Error("expected error for single image")
	}
	urls := make([]string, 11)
	for i := range urls {
		urls[i] = "https://img/x.png"
	}
	if _, err := c.PublishCarousel(context.Background(), urls, "", time.Time{}); err == nil {
		t.Error("expected error for 11 images")
	}
}

func TestValidateScheduleTime(t *testing.T) {
	now := time.Date(2025, 2, 13, 10, 0, 0, 0, time.UTC)
	cases := []struct {
		name string
		at   time.Time
		ok   bool
	}{
		{"five minutes ahead", now.Add(5 * time.Minute), false},
		{"ten minutes ahead", now.Add(10 * time.Minute), true},
		{"in the past", now.Add(-time.Hour), false},
		{"74 days ahead", now.Add(74 * 24 * time.Hour), true},
		{"76 days ahead", now.Add(76 * 24 * time.Hour), false},
	}
	for _, tc := range cases {
		err := ValidateScheduleTime(tc.at, now)
		if tc.ok && err != nil {
			t.Errorf("%s: unexpected error %v", tc.name, err)
		}
		if !tc.ok && err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}

func TestCheckPublishingLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/content_publishing_limit") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"data":[{"quota_usage":3,"config":{"quota_total":50}}]}`)
	}))
	defer srv.Close()

	c := NewClient("ig", "tok").WithBaseURL(srv.URL)
	lim, err := c.CheckPublishingLimit(context.Background())
	if err != nil {
		t.Fatalf("CheckPublishingLimit: %v", err)
	}
	if lim.QuotaUsage != 3 || lim.QuotaTotal != 50 {
		t.Errorf("limit = %+v", lim)
	}
}

func TestGraphErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":{"message":"Invalid parameter","type":"OAuthException","code":100}}`)
	}))
	defer srv.Close()

	c := NewClient("ig", "tok").WithBaseURL(srv.URL)
	_, err := c.PublishCarousel(context.Background(), []string{"a", "b"}, "", time.Time{})
	if err == nil {
		t.Fatal("expected graph error")
	}
	if !strings.Contains(err.Error(), "Invalid parameter") {
		t.Errorf("error %q should carry the graph message", err)
	}
}
