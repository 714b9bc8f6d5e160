package folio

import (
	"strconv"
	"time"

	"github.com/eringen/folio/content"
)

// HomeData is everything the page templates read.
type HomeData struct {
	Site      SiteConfig
	Meta      PageMeta
	Content   content.Snapshot
	Nav       []NavItem
	CSRFToken string
	JSONLD    string
}

// RetryTrigger is the hx-trigger a fallback section uses to poll for a
// fresh copy, timed to the cache's fallback retry.
func (d HomeData) RetryTrigger() string {
	secs := int(d.Site.FallbackRetry.Round(time.Second) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return "load delay:" + strconv.Itoa(secs) + "s"
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	Image       string // og:image, absolute
}

// NavItem is one button of the floating navigation bar.
type NavItem struct {
	ID    string // section anchor
	Label string
}

// Navigation lists the nav bar entries in page order.
var Navigation = []NavItem{
	{ID: content.SectionHero, Label: "Home"},
	{ID: content.SectionTech, Label: "Tech"},
	{ID: content.SectionProjects, Label: "Projects"},
	{ID: content.SectionContact, Label: "Contact"},
}

// ContactMessage is a stored contact form submission.
type ContactMessage struct {
	ID        int64
	Name      string
	Email     string
	Subject   string
	Message   string
	IPHash    string
	CreatedAt string // RFC3339, UTC
}

// ContactForm is the validated contact form input.
type ContactForm struct {
	Name    string `form:"name" validate:"required,max=100"`
	Email   string `form:"email" validate:"required,email,max=254"`
	Subject string `form:"subject" validate:"max=200"`
	Message string `form:"message" validate:"required,min=10,max=5000"`
}

// Image is an uploaded image available to profile.json and projects.json.
type Image struct {
	Filename     string
	OriginalName string
	Width        int
	Height       int
	Size         int
	UploadedAt   string
}

// URL is the path the image is served from.
func (i Image) URL() string {
	return "/images/" + uploadsSubdir + "/" + i.Filename
}

// AdminData feeds the admin dashboard.
type AdminData struct {
	Messages  []ContactMessage
	States    map[string]string
	MountedAt string
	Notice    string
	CSRFToken string
}
