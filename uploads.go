package cardnews

import (
	"bytes"
	"fmt"
	"image/jpeg"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/labstack/echo/v4"
)

const (
	// Slides are 1080 wide and exported at 2x, so anything wider
	// than 2160 is wasted storage.
	maxBackgroundWidth = 2160
	jpegQuality        = 85
	maxUploadSize      = 10 << 20 // 10MB
	uploadsSubdir      = "uploads"
)

// processBackground decodes an uploaded photo, downsizes it when wider
// than the render canvas needs, and re-encodes it as JPEG.
func processBackground(src io.Reader, originalName string) (Background, []byte, error) {
	img, err := imaging.Decode(src, imaging.AutoOrientation(true))
	if err != nil {
		return Background{}, nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > maxBackgroundWidth {
		resized := imaging.Resize(img, maxBackgroundWidth, 0, imaging.Lanczos)
		img = resized
		w = resized.Bounds().Dx()
		h = resized.Bounds().Dy()
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return Background{}, nil, fmt.Errorf("encode jpeg: %w", err)
	}

	return Background{
		Filename:     slugifyFilename(originalName) + ".jpg",
		OriginalName: originalName,
		Width:        w,
		Height:       h,
		Size:         buf.Len(),
		UploadedAt:   time.Now().UTC().Format(time.RFC3339),
	}, buf.Bytes(), nil
}

// slugifyFilename converts a filename (without extension) to a safe
// lowercase ascii slug.
func slugifyFilename(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	base = strings.ToLower(strings.TrimSpace(base))
	var b strings.Builder
	prev := false
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	slug := strings.TrimRight(b.String(), "-")
	if slug == "" {
		slug = "background"
	}
	return slug
}

// ensureUniqueFilename appends a counter if the filename already
// exists on disk or in the database.
func (a *App) ensureUniqueFilename(bg *Background) {
	dir := filepath.Join(a.staticDir, uploadsSubdir)
	base := strings.TrimSuffix(bg.Filename, ".jpg")
	candidate := bg.Filename
	counter := 1
	existing, _ := a.Store.ListBackgrounds()
	taken := make(map[string]struct{}, len(existing))
	for _, ex := range existing {
		taken[ex.Filename] = struct{}{}
	}
	for {
		_, statErr := os.Stat(filepath.Join(dir, candidate))
		_, inDB := taken[candidate]
		if statErr != nil && !inDB {
			break
		}
		counter++
		candidate = fmt.Sprintf("%s-%d.jpg", base, counter)
	}
	bg.Filename = candidate
}

func (a *App) handleBackgroundUpload(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/")
	}

	file, err := c.FormFile("image")
	if err != nil {
		return c.String(http.StatusBadRequest, "No image file provided")
	}
	if file.Size > maxUploadSize {
		return c.String(http.StatusBadRequest, "File too large (max 10MB)")
	}

	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	bg, data, err := processBackground(src, file.Filename)
	if err != nil {
		return c.String(http.StatusBadRequest, "Invalid image: "+err.Error())
	}

	a.ensureUniqueFilename(&bg)

	dir := filepath.Join(a.staticDir, uploadsSubdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create uploads dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, bg.Filename), data, 0o644); err != nil {
		return fmt.Errorf("write image: %w", err)
	}

	if err := a.Store.SaveBackground(bg); err != nil {
		return err
	}

	return a.renderBackgroundList(c)
}

func (a *App) handleBackgroundDelete(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/")
	}

	filename := filepath.Base(c.Param("filename"))
	if filename == "" || filename == "." {
		return c.String(http.StatusBadRequest, "Filename required")
	}

	path := filepath.Join(a.staticDir, uploadsSubdir, filename)
	_ = os.Remove(path) // ignore error if file already gone

	if err := a.Store.DeleteBackground(filename); err != nil {
		return err
	}

	return a.renderBackgroundList(c)
}

func (a *App) handleBackgroundList(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/")
	}
	return a.renderBackgroundList(c)
}

func (a *App) renderBackgroundList(c echo.Context) error {
	backgrounds, err := a.Store.ListBackgrounds()
	if err != nil {
		return err
	}
	return Render(c, a.Views.Backgrounds(backgrounds, CsrfToken(c)))
}
