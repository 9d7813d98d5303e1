package cardnews

import (
	"bytes"
	"net/url"
	"os"
	"path/filepath"
	"testing"
)

func writeUpload(t *testing.T, staticDir, filename string, data []byte) {
	t.Helper()
	dir := filepath.Join(staticDir, uploadsSubdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir uploads: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, filename), data, 0o644); err != nil {
		t.Fatalf("write upload: %v", err)
	}
}

func TestApplyBackgroundsFollowsFormRows(t *testing.T) {
	a := &App{staticDir: t.TempDir()}
	photo := []byte("jpeg-bytes-2")
	writeUpload(t, a.staticDir, "bg2.jpg", photo)

	// Row 1 is blank (its slide is dropped); row 2 carries the photo.
	// The select for row 2 must still land on row 2's slide.
	form := url.Values{
		"heading":    {"", "둘째 슬라이드"},
		"body":       {"", "내용"},
		"background": {"", "bg2.jpg"},
	}

	slides := SlidesFromForm(form)
	if len(slides) != 1 {
		t.Fatalf("got %d slides, want 1", len(slides))
	}
	a.applyBackgrounds(slides, form)

	if !bytes.Equal(slides[0].BackgroundBytes, photo) {
		t.Errorf("slide background = %q, want the photo chosen on its form row", slides[0].BackgroundBytes)
	}
}

func TestApplyBackgroundsCoverAndClosing(t *testing.T) {
	a := &App{staticDir: t.TempDir()}
	coverPhoto := []byte("cover-photo")
	closingPhoto := []byte("closing-photo")
	writeUpload(t, a.staticDir, "cover.jpg", coverPhoto)
	writeUpload(t, a.staticDir, "closing.jpg", closingPhoto)

	form := url.Values{
		"cover_title":        {"제목"},
		"cover_background":   {"cover.jpg"},
		"heading":            {"본문"},
		"cta_text":           {"팔로우"},
		"closing_background": {"closing.jpg"},
	}

	slides := SlidesFromForm(form)
	if len(slides) != 3 {
		t.Fatalf("got %d slides, want 3", len(slides))
	}
	a.applyBackgrounds(slides, form)

	if !bytes.Equal(slides[0].BackgroundBytes, coverPhoto) {
		t.Errorf("cover background not applied")
	}
	if slides[1].BackgroundBytes != nil {
		t.Errorf("content slide without a select should have no background")
	}
	if !bytes.Equal(slides[2].BackgroundBytes, closingPhoto) {
		t.Errorf("closing background not applied")
	}
}

func TestApplyBackgroundsIgnoresMissingFile(t *testing.T) {
	a := &App{staticDir: t.TempDir()}
	form := url.Values{
		"heading":    {"본문"},
		"background": {"gone.jpg"},
	}
	slides := SlidesFromForm(form)
	a.applyBackgrounds(slides, form)
	if slides[0].BackgroundBytes != nil {
		t.Errorf("missing file should leave the slide without a photo")
	}
}

func TestApplyBackgroundsRejectsPathTraversal(t *testing.T) {
	a := &App{staticDir: t.TempDir()}
	secret := filepath.Join(a.staticDir, "secret.txt")
	if err := os.WriteFile(secret, []byte("keep out"), 0o644); err != nil {
		t.Fatalf("write secret: %v", err)
	}
	writeUpload(t, a.staticDir, "secret.txt", []byte("safe copy"))

	form := url.Values{
		"heading":    {"본문"},
		"background": {"../secret.txt"},
	}
	slides := SlidesFromForm(form)
	a.applyBackgrounds(slides, form)
	if string(slides[0].BackgroundBytes) == "keep out" {
		t.Errorf("background lookup escaped the uploads dir")
	}
}
