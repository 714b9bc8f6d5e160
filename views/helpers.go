package views

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/eringen/folio"
	"github.com/eringen/folio/loader"
	"github.com/eringen/folio/richtext"
)

var funcs = template.FuncMap{
	"inline":        richtext.Inline,
	"paragraphs":    richtext.Paragraphs,
	"profileImage":  folio.ProfileImage,
	"projectImage":  folio.ProjectImage,
	"githubProfile": folio.GitHubProfileURL,
	"slug":          folio.Slugify,
	"isFallback":    isFallback,
	"tilt":          TechTilt,
	"flip":          ProjectFlip,
	"jsonLD":        jsonLD,
	"humanSize":     HumanSize,
}

func isFallback(s loader.State) bool { return s == loader.FallbackLoaded }

// TechTilt alternates the card tilt by index parity.
func TechTilt(i int) string {
	if i%2 == 0 {
		return "tilt-right"
	}
	return "tilt-left"
}

// ProjectFlip puts the image on the right for odd-indexed projects.
func ProjectFlip(i int) string {
	if i%2 == 1 {
		return "project flipped"
	}
	return "project"
}

// jsonLD marks a JSON-LD document built by folio as safe script content.
func jsonLD(s string) template.JS {
	return template.JS(strings.ReplaceAll(s, "</", `<\/`))
}

// HumanSize formats a byte count for the image library.
func HumanSize(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	}
	return fmt.Sprintf("%d B", n)
}
