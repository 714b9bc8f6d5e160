package folio

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"

	"github.com/labstack/echo/v4"

	"github.com/eringen/folio/content"
	"github.com/eringen/folio/loader"
	"github.com/eringen/folio/richtext"
)

func (a *App) homeData(c echo.Context) HomeData {
	snap := a.Cache.Snapshot(c.Request().Context())
	return HomeData{
		Site:      a.Config,
		Meta:      a.pageMeta(snap),
		Content:   snap,
		Nav:       Navigation,
		CSRFToken: CsrfToken(c),
		JSONLD:    PersonJsonLD(snap, a.Config),
	}
}

func (a *App) pageMeta(snap content.Snapshot) PageMeta {
	p := snap.Profile
	title := a.Config.Name
	if name := p.FullName(); name != "" {
		title = name
		if p.Role != "" {
			title += " - " + p.Role
		}
	}
	desc := richtext.Plain(p.Bio)
	if desc == "" {
		desc = a.Config.Description
	}
	return PageMeta{
		Title:       title,
		Description: desc,
		URL:         BuildURL(a.Config.URL),
		Image:       AbsoluteURL(a.Config.URL, ProfileImage(p.ProfilePhoto)),
	}
}

func (a *App) handleHome(c echo.Context) error {
	d := a.homeData(c)
	if c.Request().Header.Get("HX-Request") == "true" {
		if partial := c.QueryParam("partial"); isSection(partial) {
			return a.Render(c, a.Views.Section(partial, d))
		}
	}
	return a.Render(c, a.Views.Home(d))
}

func isSection(name string) bool {
	for _, s := range content.SectionNames {
		if s == name {
			return true
		}
	}
	return false
}

// sectionJSON is one section in the /api/content response.
type sectionJSON struct {
	State loader.State `json:"state"`
	Value any          `json:"value"`
}

func (a *App) handleContentAPI(c echo.Context) error {
	snap := a.Cache.Snapshot(c.Request().Context())
	return c.JSON(http.StatusOK, map[string]any{
		content.SectionHero:     sectionJSON{snap.ProfileState, snap.Profile},
		content.SectionTech:     sectionJSON{snap.TechState, snap.TechStack},
		content.SectionProjects: sectionJSON{snap.ProjectsState, snap.Projects},
		content.SectionContact:  sectionJSON{snap.ContactState, snap.Contact},
		"mounted_at":            snap.MountedAt.UTC(),
	})
}

func handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) handleResume(c echo.Context) error {
	path := filepath.Join(a.staticDir, filepath.FromSlash(a.Config.ResumeFile))
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return echo.ErrNotFound
		}
		return err
	}
	return c.Attachment(path, a.Config.ResumeFilename)
}

func (a *App) handleSitemap(c echo.Context) error {
	return a.renderSitemap(c)
}

func (a *App) handleFeed(c echo.Context) error {
	snap := a.Cache.Snapshot(c.Request().Context())
	return a.renderFeed(c, snap)
}

func (a *App) handleFavicon(c echo.Context) error {
	return a.staticOrEmbedded(c, "favicon.svg")
}

func (a *App) handleRobots(c echo.Context) error {
	return a.staticOrEmbedded(c, "robots.txt")
}

func (a *App) handleHTMX(c echo.Context) error {
	return a.staticOrEmbedded(c, htmxAsset)
}

// staticOrEmbedded serves name from the static directory, falling back to
// the copy in EmbeddedAssets.
func (a *App) staticOrEmbedded(c echo.Context, name string) error {
	p := filepath.Join(a.staticDir, name)
	if _, err := os.Stat(p); err == nil {
		return c.File(p)
	}
	return echo.StaticFileHandler("embedded/"+name, EmbeddedAssets)(c)
}

// hasAsset reports whether staticOrEmbedded can serve name.
func (a *App) hasAsset(name string) bool {
	if _, err := os.Stat(filepath.Join(a.staticDir, name)); err == nil {
		return true
	}
	_, err := fs.Stat(EmbeddedAssets, "embedded/"+name)
	return err == nil
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	ok := errors.As(err, &he)
	if ok && he.Code == http.StatusNotFound {
		_ = a.RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = a.RenderStatus(c, code, a.Views.ServerError())
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
