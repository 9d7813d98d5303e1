package imghost

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestUpload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if got := r.Form.Get("key"); got != "k" {
			t.Errorf("key = %q", got)
		}
		if got := r.Form.Get("expiration"); got != "86400" {
			t.Errorf("expiration = %q", got)
		}
		raw, err := base64.StdEncoding.DecodeString(r.Form.Get("image"))
		if err != nil || string(raw) != "pngbytes" {
			t.Errorf("image payload = %q, err %v", raw, err)
		}
		w.Write([]byte(`{"success":true,"status":200,"data":{"url":"https://i.ibb.co/x/a.png"}}`))
	}))
	defer srv.Close()

	c := NewClient("k", 24*time.Hour).WithEndpoint(srv.URL)
	u, err := c.Upload(context.Background(), "slide-01", []byte("pngbytes"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if u != "https://i.ibb.co/x/a.png" {
		t.Errorf("url = %q", u)
	}
}

func TestUploadFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"success":false,"status":400,"error":{"message":"invalid api key"}}`))
	}))
	defer srv.Close()

	c := NewClient("bad", 0).WithEndpoint(srv.URL)
	if _, err := c.Upload(context.Background(), "slide-01", []byte("x")); err == nil {
		t.Fatal("expected upload error")
	}
}

func TestUploadBatchStopsOnFailure(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 2 {
			w.Write([]byte(`{"success":false,"error":{"message":"quota"}}`))
			return
		}
		w.Write([]byte(`{"success":true,"data":{"url":"https://i.ibb.co/x/ok.png"}}`))
	}))
	defer srv.Close()

	c := NewClient("k", 0).WithEndpoint(srv.URL)
	_, err := c.UploadBatch(context.Background(), "carousel", [][]byte{[]byte("a"), []byte("b"), []byte("c")})
	if err == nil {
		t.Fatal("expected batch error")
	}
	if calls != 2 {
		t.Errorf("made %d calls, want 2 (stop at first failure)", calls)
	}
}

func TestUploadBatchPreservesOrder(t *testing.T) {
	var names []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		names = append(names, r.Form.Get("name"))
		w.Write([]byte(`{"success":true,"data":{"url":"https://i.ibb.co/` + r.Form.Get("name") + `"}}`))
	}))
	defer srv.Close()

	c := NewClient("k", 0).WithEndpoint(srv.URL)
	urls, err := c.UploadBatch(context.Background(), "post", [][]byte{[]byte("a"), []byte("b")})
	if err != nil {
		t.Fatalf("UploadBatch: %v", err)
	}
	if len(urls) != 2 || urls[0] != "https://i.ibb.co/post-01" || urls[1] != "https://i.ibb.co/post-02" {
		t.Errorf("urls = %v", urls)
	}
	if len(names) != 2 || names[0] != "post-01" || names[1] != "post-02" {
		t.Errorf("names = %v", names)
	}
}
