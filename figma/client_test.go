package figma

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFramesWalksPages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/files/abc123" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("X-Figma-Token"); got != "tok" {
			t.Errorf("token header = %q", got)
		}
		w.Write([]byte(`{"document":{"children":[
			{"name":"Page 1","children":[
				{"id":"1:2","name":"250213-1","type":"FRAME"},
				{"id":"1:3","name":"note","type":"TEXT"},
				{"id":"1:4","name":"250213-2","type":"FRAME"}
			]},
			{"name":"Page 2","children":[
				{"id":"2:1","name":"250301-1","type":"FRAME"}
			]}
		]}}`))
	}))
	defer srv.Close()

	c := NewClient("tok", "abc123").WithBaseURL(srv.URL)
	frames, err := c.Frames(context.Background())
	if err != nil {
		t.Fatalf("Frames: %v", err)
	}
	if len(frames) != 3 {
		t.Fatalf("got %d frames, want 3", len(frames))
	}
	want := []Frame{
		{ID: "1:2", Name: "250213-1", Page: "Page 1"},
		{ID: "1:4", Name: "250213-2", Page: "Page 1"},
		{ID: "2:1", Name: "250301-1", Page: "Page 2"},
	}
	for i, f := range frames {
		if f != want[i] {
			t.Errorf("frame %d = %+v, want %+v", i, f, want[i])
		}
	}
}

func TestExportImages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("ids") != "1:2,1:4" || q.Get("format") != "png" || q.Get("scale") != "2" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		w.Write([]byte(`{"err":"","images":{"1:2":"https://img/a.png","1:4":"https://img/b.png"}}`))
	}))
	defer srv.Close()

	c := NewClient("tok", "abc123").WithBaseURL(srv.URL)
	urls, err := c.ExportImages(context.Background(), []string{"1:2", "1:4"}, "png", 2)
	if err != nil {
		t.Fatalf("ExportImages: %v", err)
	}
	if urls["1:2"] != "https://img/a.png" || urls["1:4"] != "https://img/b.png" {
		t.Errorf("urls = %v", urls)
	}
}

func TestExportImagesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"err":"node not found","images":{}}`))
	}))
	defer srv.Close()

	c := NewClient("tok", "abc123").WithBaseURL(srv.URL)
	if _, err := c.ExportImages(context.Background(), []string{"9:9"}, "png", 1); err == nil {
		t.Fatal("expected error from err field")
	}
}

func TestExportImagesEmptyIDs(t *testing.T) {
	c := NewClient("tok", "abc123")
	if _, err := c.ExportImages(context.Background(), nil, "png", 1); err == nil {
		t.Fatal("expected error for empty id list")
	}
}

func TestDownload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("pngbytes"))
	}))
	defer srv.Close()

	c := NewClient("tok", "abc123")
	data, err := c.Download(context.Background(), srv.URL+"/a.png")
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if string(data) != "pngbytes" {
		t.Errorf("data = %q", data)
	}
}

func TestDownloadBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient("tok", "abc123")
	if _, err := c.Download(context.Background(), srv.URL+"/a.png"); err == nil {
		t.Fatal("expected error for 403")
	}
}
