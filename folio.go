// Package folio is a single-page portfolio engine built with Go, Echo, and templ.
// It mounts the hero, tech stack, projects and contact sections from static
// JSON resources, falls back to fixed content when a resource cannot be
// loaded, and serves the page together with a contact inbox and admin.
//
// Users provide their own templ components via the ViewFuncs struct; the
// views package ships a default set.
package folio

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	gommonlog "github.com/labstack/gommon/log"

	"github.com/eringen/folio/content"
	"github.com/eringen/folio/loader"
)

// ViewFuncs holds the templ components the App renders.
type ViewFuncs struct {
	Home           func(d HomeData) templ.Component
	Section        func(name string, d HomeData) templ.Component
	ContactResult  func(ok bool, message string, errs map[string]string) templ.Component
	AdminLogin     func(showError bool, csrfToken string) templ.Component
	AdminDashboard func(d AdminData) templ.Component
	AdminImages    func(images []Image, csrfToken string) templ.Component
	NotFound       func() templ.Component
	ServerError    func() templ.Component
}

// App is the central folio application. It wires together the content
// cache, inbox store, handlers, middleware, and templates.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Store  *Store
	Cache  *ContentCache
	Views  ViewFuncs

	fetcher        loader.Fetcher
	loginLimiter   *Limiter
	contactLimiter *Limiter
	customRoutes   []func(*App)
	staticDir      string
}

// New creates a folio App with the given configuration and view functions.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	e := echo.New()
	e.Logger.SetLevel(gommonlog.INFO)

	a := &App{
		Config:    cfg,
		Echo:      e,
		Views:     views,
		staticDir: "public",
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Init validates the configuration and builds the store, content cache,
// limiters, middleware and routes. Start calls it; tests may call it
// directly and drive a.Echo with httptest.
func (a *App) Init() error {
	if a.Config.AdminPassword == "" {
		return fmt.Errorf("folio: AdminPassword is required")
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("folio: SessionSecret is required")
	}

	fetcher, err := a.contentFetcher()
	if err != nil {
		return fmt.Errorf("folio: content source: %w", err)
	}
	a.fetcher = fetcher

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("folio: init store: %w", err)
	}
	a.Store = store

	a.Cache = NewContentCache(a.newPage, a.Config.ContentCacheTTL, a.Config.FallbackRetry)

	a.loginLimiter = NewLimiter(5, time.Minute)
	a.contactLimiter = NewLimiter(a.Config.ContactLimit, a.Config.ContactWindow)

	if !a.hasAsset(htmxAsset) {
		a.Echo.Logger.Warnf("%s not found in %s; partial swaps and fallback retries are disabled", htmxAsset, a.staticDir)
	}

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// Start initializes the app and starts the server.
func (a *App) Start() error {
	if err := a.Init(); err != nil {
		return err
	}
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// contentFetcher reads the JSON resources over HTTP when DataURL is set,
// otherwise straight from the static directory.
func (a *App) contentFetcher() (loader.Fetcher, error) {
	if a.fetcher != nil {
		return a.fetcher, nil
	}
	if a.Config.DataURL != "" {
		f, err := loader.NewHTTPFetcher(a.Config.DataURL)
		if err != nil {
			return nil, err
		}
		f.Client = &http.Client{Timeout: a.Config.FetchTimeout}
		return f, nil
	}
	return loader.FSFetcher{FS: os.DirFS(a.staticDir)}, nil
}

func (a *App) newPage() *content.Page {
	opts := []loader.Option{loader.WithLogger(a.Echo.Logger)}
	if a.Config.LenientContent {
		opts = append(opts, loader.Lenient())
	}
	return content.NewPage(a.fetcher, opts...)
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Static resources referenced by the page and its JSON documents.
	e.GET("/public/"+htmxAsset, a.handleHTMX)
	e.Static("/public", a.staticDir)
	e.Static("/data", filepath.Join(a.staticDir, "data"))
	e.Static("/images", filepath.Join(a.staticDir, "images"))
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)

	// Public routes
	e.GET("/", a.handleHome)
	e.GET("/resume/", a.handleResume)
	e.POST("/contact/", a.handleContact)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/api/content", a.handleContentAPI)
	e.GET("/api/health", handleHealth)

	// Admin routes
	e.GET("/admin/", a.handleAdmin)
	e.POST("/admin/login/", a.handleAdminLogin)
	e.POST("/admin/logout/", handleAdminLogout)
	e.DELETE("/admin/messages/:id/", a.handleAdminDeleteMessage)
	e.POST("/admin/refresh/", a.handleAdminRefresh)
	e.GET("/admin/images/", a.handleImageList)
	e.POST("/admin/images/upload/", a.handleImageUpload)
	e.DELETE("/admin/images/:filename/", a.handleImageDelete)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.loginLimiter != nil {
		a.loginLimiter.Stop()
	}
	if a.contactLimiter != nil {
		a.contactLimiter.Stop()
	}
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustEnv returns the value of the environment variable key, or fatally exits if empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("folio: required environment variable %s is not set", key)
	}
	return v
}
