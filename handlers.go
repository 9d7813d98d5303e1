package cardnews

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sejongkim-ctrl/figma-to-instagram/instagram"
	"github.com/sejongkim-ctrl/figma-to-instagram/render"
)

func (a *App) handleDashboard(c echo.Context) error {
	if !IsAdmin(c) {
		return Render(c, a.Views.Login(false, CsrfToken(c)))
	}
	return a.renderDashboard(c, c.QueryParam("msg"))
}

func (a *App) renderDashboard(c echo.Context, msg string) error {
	accounts, err := a.Store.ListAccounts()
	if err != nil {
		return err
	}
	publishes, err := a.Store.ListPublishes(20)
	if err != nil {
		return err
	}
	var warnings []string
	now := time.Now()
	for _, acct := range accounts {
		if instagram.ExpiresSoon(acct.TokenExpiry, now) {
			warnings = append(warnings, fmt.Sprintf("%s: 토큰이 %d일 후 만료됩니다", acct.Name, DaysUntil(acct.TokenExpiry, now)))
		}
	}
	return Render(c, a.Views.Dashboard(accounts, publishes, warnings, msg, CsrfToken(c)))
}

func (a *App) handleCompose(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/")
	}
	backgrounds, err := a.Store.ListBackgrounds()
	if err != nil {
		return err
	}
	accounts, err := a.Store.ListAccounts()
	if err != nil {
		return err
	}
	return Render(c, a.Views.Compose(a.Templates(), backgrounds, accounts, CsrfToken(c)))
}

// handlePreview renders one slide of the composed deck and returns it
// as PNG. The slide index comes from the "slide" form value.
func (a *App) handlePreview(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/")
	}
	slides, tpl, style, err := a.composedDeck(c)
	if err != nil {
		return c.String(http.StatusBadRequest, err.Error())
	}
	images, err := RenderSlides(tpl, style, slides)
	if err != nil {
		return a.renderError(c, err)
	}
	if len(images) == 0 {
		return c.String(http.StatusBadRequest, "슬라이드가 없습니다")
	}
	idx, _ := strconv.Atoi(c.FormValue("slide"))
	if idx < 0 || idx >= len(images) {
		idx = 0
	}
	return c.Blob(http.StatusOK, "image/png", images[idx])
}

// handleRenderZip renders the whole deck and streams it as a zip of
// numbered PNGs.
func (a *App) handleRenderZip(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/")
	}
	slides, tpl, style, err := a.composedDeck(c)
	if err != nil {
		return c.String(http.StatusBadRequest, err.Error())
	}
	images, err := RenderSlides(tpl, style, slides)
	if err != nil {
		return a.renderError(c, err)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for i, img := range images {
		f, err := zw.Create(fmt.Sprintf("slide-%02d.png", i+1))
		if err != nil {
			return err
		}
		if _, err := f.Write(img); err != nil {
			return err
		}
	}
	if err := zw.Close(); err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="cardnews.zip"`)
	return c.Blob(http.StatusOK, "application/zip", buf.Bytes())
}

func (a *App) handleComposePublish(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/")
	}
	if !a.publishLimiter.Allow(c.RealIP()) {
		return c.String(http.StatusTooManyRequests, "Too many publish attempts. Try again later.")
	}
	slides, tpl, style, err := a.composedDeck(c)
	if err != nil {
		return c.String(http.StatusBadRequest, err.Error())
	}
	acct, caption, scheduledAt, err := a.publishParams(c)
	if err != nil {
		return c.String(http.StatusBadRequest, err.Error())
	}

	rec, pubErr := a.Pipeline.RenderAndPublish(c.Request().Context(), acct, tpl, style, slides, caption, scheduledAt)
	if err := a.Store.RecordPublish(rec); err != nil {
		c.Logger().Errorf("record publish: %v", err)
	}
	if pubErr != nil {
		return a.renderError(c, pubErr)
	}
	return c.Redirect(http.StatusSeeOther, "/?msg="+url.QueryEscape("게시 완료: "+rec.Status))
}

func (a *App) handleFrames(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/")
	}
	if a.Frames == nil {
		return c.String(http.StatusNotFound, "Figma가 설정되지 않았습니다")
	}
	groups, err := a.Frames.Groups(c.Request().Context())
	if err != nil {
		return err
	}
	accounts, err := a.Store.ListAccounts()
	if err != nil {
		return err
	}
	return Render(c, a.Views.Frames(groups, accounts, CsrfToken(c)))
}

func (a *App) handleFramesRefresh(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/")
	}
	if a.Frames != nil {
		a.Frames.Invalidate()
	}
	return c.Redirect(http.StatusSeeOther, "/frames/")
}

func (a *App) handleFramesPublish(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/")
	}
	if a.Frames == nil {
		return c.String(http.StatusNotFound, "Figma가 설정되지 않았습니다")
	}
	if !a.publishLimiter.Allow(c.RealIP()) {
		return c.String(http.StatusTooManyRequests, "Too many publish attempts. Try again later.")
	}
	date := strings.TrimSpace(c.FormValue("date"))
	group, ok, err := a.Frames.Group(c.Request().Context(), date)
	if err != nil {
		return err
	}
	if !ok {
		return c.String(http.StatusBadRequest, "해당 날짜의 프레임이 없습니다: "+date)
	}
	acct, caption, scheduledAt, err := a.publishParams(c)
	if err != nil {
		return c.String(http.StatusBadRequest, err.Error())
	}

	rec, pubErr := a.Pipeline.ExportAndPublish(c.Request().Context(), acct, group, caption, scheduledAt)
	if err := a.Store.RecordPublish(rec); err != nil {
		c.Logger().Errorf("record publish: %v", err)
	}
	if pubErr != nil {
		return a.renderError(c, pubErr)
	}
	return c.Redirect(http.StatusSeeOther, "/?msg="+url.QueryEscape("게시 완료: "+rec.Status))
}

// composedDeck parses the compose form into slides plus template and
// style choices, loading any selected background photos.
func (a *App) composedDeck(c echo.Context) ([]render.Slide, string, render.Style, error) {
	if err := c.Request().ParseForm(); err != nil {
		return nil, "", 0, err
	}
	form := c.Request().Form

	slides := SlidesFromForm(form)
	if len(slides) == 0 {
		return nil, "", 0, fmt.Errorf("슬라이드 내용을 입력하세요")
	}

	style := render.StylePhoto
	if form.Get("style") == "flat" {
		style = render.StyleFlat
	}

	a.applyBackgrounds(slides, form)
	return slides, form.Get("template"), style, nil
}

// applyBackgrounds loads uploaded photos referenced by the form onto
// the matching slides. A missing or unreadable file leaves the slide
// without a photo; the renderer falls back to the flat look.
func (a *App) applyBackgrounds(slides []render.Slide, form url.Values) {
	names := form["background"]
	rows := contentRows(form)
	ci := 0
	for i := range slides {
		var name string
		switch slides[i].Kind {
		case render.KindCover:
			name = form.Get("cover_background")
		case render.KindClosing:
			name = form.Get("closing_background")
		case render.KindContent:
			// The form submits one background select per row, blank
			// rows included; index by the slide's original row.
			if ci < len(rows) && rows[ci] < len(names) {
				name = names[rows[ci]]
			}
			ci++
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(a.staticDir, uploadsSubdir, filepath.Base(name)))
		if err != nil {
			continue
		}
		slides[i].BackgroundBytes = data
	}
}

// publishParams resolves the target account and validates the caption
// and optional schedule from the form.
func (a *App) publishParams(c echo.Context) (Account, string, time.Time, error) {
	name := strings.TrimSpace(c.FormValue("account"))
	if name == "" {
		return Account{}, "", time.Time{}, fmt.Errorf("계정을 선택하세요")
	}
	acct, err := a.Store.GetAccount(name)
	if err != nil {
		return Account{}, "", time.Time{}, fmt.Errorf("계정을 찾을 수 없습니다: %s", name)
	}
	caption := c.FormValue("caption")

	var scheduledAt time.Time
	if v := strings.TrimSpace(c.FormValue("scheduled_at")); v != "" {
		t, err := time.ParseInLocation("2006-01-02T15:04", v, time.Local)
		if err != nil {
			return Account{}, "", time.Time{}, fmt.Errorf("예약 시간 형식이 잘못되었습니다")
		}
		if err := instagram.ValidateScheduleTime(t, time.Now()); err != nil {
			return Account{}, "", time.Time{}, err
		}
		scheduledAt = t
	}
	return acct, caption, scheduledAt, nil
}

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(a.staticDir + "/favicon.svg")
}

// renderError reports pipeline failures on the error page but keeps
// template misconfiguration loud and specific.
func (a *App) renderError(c echo.Context, err error) error {
	c.Logger().Errorf("pipeline error: %v", err)
	var cfgErr *render.ConfigurationError
	if errors.As(err, &cfgErr) {
		return c.String(http.StatusBadRequest, cfgErr.Error())
	}
	return RenderStatus(c, http.StatusInternalServerError, a.Views.ServerError())
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, a.Views.ServerError())
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
