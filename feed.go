package folio

import (
	"encoding/xml"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/folio/content"
	"github.com/eringen/folio/richtext"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	Description string   `xml:"description"`
	Categories  []string `xml:"category"`
	GUID        rssGUID  `xml:"guid"`
}

type rssGUID struct {
	Value       string `xml:",chardata"`
	IsPermaLink bool   `xml:"isPermaLink,attr"`
}

// renderFeed publishes the project gallery as RSS. Projects without a
// repository link to their anchor on the page.
func (a *App) renderFeed(c echo.Context, snap content.Snapshot) error {
	base := a.Config.URL
	items := make([]rssItem, 0, len(snap.Projects))
	for _, p := range snap.Projects {
		link := p.GitHubURL()
		if link == "" {
			link = BuildURL(base) + "#" + content.SectionProjects
		}
		items = append(items, rssItem{
			Title:       p.Name,
			Link:        link,
			Description: richtext.Plain(p.Description),
			Categories:  p.TechStack,
			GUID:        rssGUID{Value: BuildURL(base) + "#project-" + Slugify(p.Name)},
		})
	}
	title := a.Config.Name
	if name := snap.Profile.FullName(); name != "" {
		title = name + " - Projects"
	}
	desc := a.Config.Description
	if desc == "" {
		desc = strings.TrimSpace(richtext.Plain(snap.Profile.Bio))
	}
	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       title,
			Link:        BuildURL(base),
			Description: desc,
			Items:       items,
		},
	}
	return writeXML(c, "application/rss+xml; charset=utf-8", feed)
}
