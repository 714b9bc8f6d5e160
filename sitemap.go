package folio

import (
	"encoding/xml"
	"net/http"
	"os"
	"path/filepath"

	"github.com/labstack/echo/v4"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

func (a *App) renderSitemap(c echo.Context) error {
	base := a.Config.URL
	urls := []sitemapURL{
		{Loc: BuildURL(base), LastMod: a.contentModTime()},
	}
	if _, err := os.Stat(filepath.Join(a.staticDir, filepath.FromSlash(a.Config.ResumeFile))); err == nil {
		urls = append(urls, sitemapURL{Loc: BuildURL(base, "resume")})
	}
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	return writeXML(c, "application/xml; charset=utf-8", sitemap)
}

// writeXML encodes v with the XML declaration prepended.
func writeXML(c echo.Context, contentType string, v any) error {
	out, err := xml.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, contentType, append([]byte(xml.Header), out...))
}

// contentModTime returns the newest modification date of the local JSON
// resources, or "" when they are fetched remotely or absent.
func (a *App) contentModTime() string {
	if a.Config.DataURL != "" {
		return ""
	}
	var newest string
	for _, name := range []string{"profile.json", "techstack.json", "projects.json"} {
		fi, err := os.Stat(filepath.Join(a.staticDir, "data", name))
		if err != nil {
			continue
		}
		if d := fi.ModTime().UTC().Format("2006-01-02"); d > newest {
			newest = d
		}
	}
	return newest
}
