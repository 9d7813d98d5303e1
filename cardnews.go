// Package cardnews turns template-driven slide decks and Figma frames
// into Instagram carousels. It bundles the deterministic renderer, a
// small admin web UI built with Echo and templ, SQLite-backed account
// and history storage, and the publish pipeline (imgbb hosting plus
// the Instagram Graph API).
//
// Users provide their own templ components via the ViewFuncs struct;
// cardnews handles the handler logic, middleware, and storage.
package cardnews

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/sejongkim-ctrl/figma-to-instagram/render"
)

// ViewFuncs holds user-provided templ components that the app calls
// when rendering pages. This is the inversion-of-control mechanism
// that lets users own and customize all templates.
type ViewFuncs struct {
	Login       func(showError bool, csrfToken string) templ.Component
	Dashboard   func(accounts []Account, publishes []PublishRecord, warnings []string, message, csrfToken string) templ.Component
	Compose     func(templates []string, backgrounds []Background, accounts []Account, csrfToken string) templ.Component
	Frames      func(groups []FrameGroup, accounts []Account, csrfToken string) templ.Component
	Backgrounds func(backgrounds []Background, csrfToken string) templ.Component
	NotFound    func() templ.Component
	ServerError func() templ.Component
}

// App is the central cardnews application. It wires together the
// store, frame cache, pipeline, handlers, middleware, and
// user-provided templates.
type App struct {
	Config   Config
	Echo     *echo.Echo
	Store    *Store
	Frames   *FrameCache
	Pipeline *Pipeline
	Views    ViewFuncs

	loginLimiter   *AttemptLimiter
	publishLimiter *AttemptLimiter
	customRoutes   []func(*App)
	staticDir      string
}

// New creates a cardnews App with the given configuration and view
// functions.
func New(cfg Config, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     views,
		staticDir: "public",
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Start initializes the store, cache, pipeline, middleware, and routes,
// then starts the server.
func (a *App) Start() error {
	if a.Config.AdminPassword == "" {
		return fmt.Errorf("cardnews: AdminPassword is required")
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("cardnews: SessionSecret is required")
	}

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("cardnews: init store: %w", err)
	}
	a.Store = store

	a.Pipeline = NewPipeline(a.Config)
	if a.Pipeline.Figma != nil {
		a.Frames = NewFrameCache(a.Pipeline.Figma, a.Config.FrameCacheTTL)
	}

	a.loginLimiter = NewAttemptLimiter(5, time.Minute)
	a.publishLimiter = NewAttemptLimiter(10, time.Minute)

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}

	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.Static("/public", a.staticDir)
	e.GET("/favicon.svg", a.handleFavicon)

	e.GET("/", a.handleDashboard)
	e.POST("/login/", a.handleLogin)
	e.POST("/logout/", handleLogout)

	// Account management
	e.POST("/accounts/save/", a.handleAccountSave)
	e.POST("/accounts/:name/delete/", a.handleAccountDelete)

	// Compose flow: form, live preview, zip download, publish
	e.GET("/compose/", a.handleCompose)
	e.POST("/compose/preview/", a.handlePreview)
	e.POST("/compose/render/", a.handleRenderZip)
	e.POST("/compose/publish/", a.handleComposePublish)

	// Figma frame flow
	e.GET("/frames/", a.handleFrames)
	e.POST("/frames/refresh/", a.handleFramesRefresh)
	e.POST("/frames/publish/", a.handleFramesPublish)

	// Uploaded backgrounds for content slides
	e.GET("/backgrounds/", a.handleBackgroundList)
	e.POST("/backgrounds/upload/", a.handleBackgroundUpload)
	e.POST("/backgrounds/:filename/delete/", a.handleBackgroundDelete)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

// Templates lists the render template names for the compose form.
func (a *App) Templates() []string {
	return render.TemplateNames()
}

// Render writes a templ component as an HTTP 200 HTML response.
func Render(c echo.Context, cmp templ.Component) error {
	return RenderStatus(c, http.StatusOK, cmp)
}

// RenderStatus writes a templ component with a specific HTTP status
// code.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}

// EnvOr returns the value of the environment variable key, or fallback
// if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustEnv returns the value of the environment variable key, or
// fatally exits if empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("cardnews: required environment variable %s is not set", key)
	}
	return v
}
