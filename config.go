package cardnews

import "time"

// Config holds all configuration for a cardnews deployment.
type Config struct {
	Addr string // Listen address (default ":3000")

	DatabasePath string // SQLite path (default "data/cardnews.db")

	AdminPassword string // Required: admin login password
	SessionSecret string // Required: session encryption secret
	CookieSecure  bool   // Set true for HTTPS

	FigmaToken   string // Figma personal access token (empty disables frame import)
	FigmaFileKey string // Figma file holding the designed frames

	ImgbbKey string // imgbb API key used to host images for Instagram

	MetaAppID     string // Meta app credentials for the token setup flow
	MetaAppSecret string

	FrameCacheTTL    time.Duration // Figma frame list cache TTL (default 5min)
	UploadExpiration time.Duration // imgbb image lifetime (default 24h)
	ExportScale      int           // Figma raster scale (default 2)
}

func (c *Config) setDefaults() {
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/cardnews.db"
	}
	if c.FrameCacheTTL == 0 {
		c.FrameCacheTTL = 5 * time.Minute
	}
	if c.UploadExpiration == 0 {
		c.UploadExpiration = 24 * time.Hour
	}
	if c.ExportScale == 0 {
		c.ExportScale = 2
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for static assets and uploaded
// backgrounds (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}
