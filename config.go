package folio

import (
	"time"

	"github.com/eringen/folio/loader"
)

// SiteConfig holds all configuration for a folio site.
type SiteConfig struct {
	Name        string // Site name (default "Portfolio")
	URL         string // Canonical URL (default "http://localhost:3000")
	Description string // Fallback meta description when the bio is unavailable

	Addr         string // Listen address (default ":3000")
	DatabasePath string // SQLite path for the inbox (default "data/folio.db")

	// DataURL is the base the JSON resources are fetched from. Empty means
	// read them from the static directory.
	DataURL      string
	FetchTimeout time.Duration // HTTP timeout per resource (default 10s)

	// LenientContent adopts well-formed documents even when required fields
	// are missing, instead of falling back.
	LenientContent bool

	ContentCacheTTL time.Duration // Lifetime of a fully loaded snapshot (default 5min)
	FallbackRetry   time.Duration // Lifetime of a snapshot with a fallback section (default 30s)

	ResumeFile     string // Path under the static dir (default "images/resume.png")
	ResumeFilename string // Download name (default "resume.png")

	ContactLimit  int           // Contact submissions per IP per window (default 3)
	ContactWindow time.Duration // (default 10min)

	AdminPassword string // Required: admin login password
	SessionSecret string // Required: session encryption secret
	CookieSecure  bool   // Set true for HTTPS

	DisableMinify bool // Serve templates as rendered, without HTML minification
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Portfolio"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/folio.db"
	}
	if c.FetchTimeout == 0 {
		c.FetchTimeout = 10 * time.Second
	}
	if c.ContentCacheTTL == 0 {
		c.ContentCacheTTL = 5 * time.Minute
	}
	if c.FallbackRetry == 0 {
		c.FallbackRetry = 30 * time.Second
	}
	if c.ResumeFile == "" {
		c.ResumeFile = "images/resume.png"
	}
	if c.ResumeFilename == "" {
		c.ResumeFilename = "resume.png"
	}
	if c.ContactLimit == 0 {
		c.ContactLimit = 3
	}
	if c.ContactWindow == 0 {
		c.ContactWindow = 10 * time.Minute
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App after the built-in routes are set up.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for static assets, JSON resources and
// images (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithFetcher overrides where section resources are read from.
func WithFetcher(f loader.Fetcher) Option {
	return func(a *App) {
		a.fetcher = f
	}
}
