package cardnews

import (
	"crypto/subtle"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

func (a *App) handleLogin(c echo.Context) error {
	if !a.loginLimiter.Check(c.RealIP()) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	pass := c.FormValue("password")
	if subtle.ConstantTimeCompare([]byte(pass), []byte(a.Config.AdminPassword)) == 1 {
		if err := setAdminSession(c); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, "/")
	}
	a.loginLimiter.Record(c.RealIP())
	return Render(c, a.Views.Login(true, CsrfToken(c)))
}

func handleLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

func (a *App) handleAccountSave(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/")
	}
	name := strings.TrimSpace(c.FormValue("name"))
	igUserID := strings.TrimSpace(c.FormValue("ig_user_id"))
	accessToken := strings.TrimSpace(c.FormValue("access_token"))
	if name == "" || igUserID == "" || accessToken == "" {
		return c.Redirect(http.StatusSeeOther, "/?msg="+url.QueryEscape("이름, IG 사용자 ID, 액세스 토큰은 필수입니다"))
	}

	var expiry time.Time
	if v := strings.TrimSpace(c.FormValue("token_expiry")); v != "" {
		t, err := time.ParseInLocation("2006-01-02", v, time.Local)
		if err != nil {
			return c.Redirect(http.StatusSeeOther, "/?msg="+url.QueryEscape("만료일 형식이 잘못되었습니다 (YYYY-MM-DD)"))
		}
		expiry = t
	}

	if err := a.Store.SaveAccount(Account{
		Name:        name,
		IGUserID:    igUserID,
		AccessToken: accessToken,
		TokenExpiry: expiry,
	}); err != nil {
		return err
	}
	return a.renderDashboard(c, "계정 저장됨")
}

func (a *App) handleAccountDelete(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/")
	}
	name := c.Param("name")
	if err := a.Store.DeleteAccount(name); err != nil {
		return err
	}
	return a.renderDashboard(c, "계정 삭제됨")
}
