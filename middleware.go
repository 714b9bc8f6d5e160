package folio

import (
	"net/http"
	"strings"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const (
	sessionName = "admin_session"
	sessionKey  = "authenticated"
)

const contentSecurityPolicy = "default-src 'self'; " +
	"script-src 'self' 'unsafe-inline'; " +
	"style-src 'self' 'unsafe-inline'; " +
	"img-src 'self' https: data:; " +
	"font-src 'self'; connect-src 'self'; form-action 'self'; frame-ancestors 'none'"

// pathClass groups request paths that share caching and middleware rules.
type pathClass int

const (
	classPage pathClass = iota
	classAsset
	classData
	classSEO
	classAdmin
	classDownload
)

func classify(path string) pathClass {
	switch {
	case strings.HasPrefix(path, "/public/"), strings.HasPrefix(path, "/images/"), path == "/favicon.svg":
		return classAsset
	case strings.HasPrefix(path, "/data/"), strings.HasPrefix(path, "/api/"):
		return classData
	case path == "/sitemap.xml", path == "/feed.xml", path == "/robots.txt":
		return classSEO
	case strings.HasPrefix(path, "/admin"):
		return classAdmin
	case path == "/resume/":
		return classDownload
	}
	return classPage
}

var cacheControl = map[pathClass]string{
	classPage:     "private, no-cache", // the page carries a per-visitor CSRF token
	classAsset:    "public, max-age=31536000, immutable",
	classData:     "public, max-age=300",
	classSEO:      "public, max-age=86400",
	classAdmin:    "no-store",
	classDownload: "public, max-age=3600",
}

func (a *App) setupMiddleware() {
	e := a.Echo

	e.IPExtractor = echo.ExtractIPFromXFFHeader(
		echo.TrustLoopback(true),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(true),
	)
	e.HTTPErrorHandler = a.httpErrorHandler

	e.Pre(middleware.NonWWWRedirect())

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			via := ""
			if c.Request().Header.Get("HX-Request") == "true" {
				via = " htmx"
			}
			c.Logger().Infof("%s %s -> %d (%s)%s", v.Method, v.URI, v.Status, v.Latency, via)
			return nil
		},
	}))
	e.Use(middleware.Recover())

	// Uploads are capped again in handleImageUpload; this bounds every body.
	e.Use(middleware.BodyLimit("12M"))

	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
		Skipper: func(c echo.Context) bool {
			path := c.Request().URL.Path
			return classify(path) == classDownload || strings.HasPrefix(path, "/images/")
		},
	}))

	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: contentSecurityPolicy,
		HSTSMaxAge:            31536000,
	}))

	e.Use(session.Middleware(a.newSessionStore()))
	e.Use(middleware.CSRFWithConfig(a.csrfConfig()))

	e.Use(middleware.AddTrailingSlashWithConfig(middleware.TrailingSlashConfig{
		RedirectCode: http.StatusMovedPermanently,
		Skipper: func(c echo.Context) bool {
			switch classify(c.Request().URL.Path) {
			case classAsset, classData, classSEO:
				return true
			}
			return false
		},
	}))

	e.Use(cacheControlMiddleware)
}

// csrfConfig protects every form post. The JSON API is read-only and
// skipped.
func (a *App) csrfConfig() middleware.CSRFConfig {
	return middleware.CSRFConfig{
		ContextKey:     middleware.DefaultCSRFConfig.ContextKey,
		TokenLookup:    "header:X-CSRF-Token,form:_csrf",
		CookieName:     "_csrf",
		CookiePath:     "/",
		CookieSameSite: http.SameSiteLaxMode,
		CookieSecure:   a.Config.CookieSecure,
		CookieHTTPOnly: true,
		Skipper: func(c echo.Context) bool {
			return strings.HasPrefix(c.Request().URL.Path, "/api/")
		},
		ErrorHandler: func(err error, c echo.Context) error {
			return c.String(http.StatusForbidden, "Forbidden")
		},
	}
}

func cacheControlMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set("Cache-Control", cacheControl[classify(c.Request().URL.Path)])
		return next(c)
	}
}

func (a *App) newSessionStore() *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(a.Config.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/admin",
		HttpOnly: true,
		MaxAge:   60 * 60 * 12,
		SameSite: http.SameSiteLaxMode,
		Secure:   a.Config.CookieSecure,
	}
	return store
}

// IsAdmin reports whether the request carries an authenticated admin session.
func IsAdmin(c echo.Context) bool {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return false
	}
	auth, _ := sess.Values[sessionKey].(bool)
	return auth
}

// setAdminSession marks the session authenticated, or clears it.
func setAdminSession(c echo.Context, auth bool) error {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	if auth {
		sess.Values[sessionKey] = true
	} else {
		delete(sess.Values, sessionKey)
		sess.Options.MaxAge = -1
	}
	return sess.Save(c.Request(), c.Response())
}

// CsrfToken returns the token the CSRF middleware stored on the context.
func CsrfToken(c echo.Context) string {
	token, _ := c.Get(middleware.DefaultCSRFConfig.ContextKey).(string)
	return token
}
