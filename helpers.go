package folio

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/url"
	"path"
	"strings"

	"github.com/eringen/folio/content"
	"github.com/eringen/folio/richtext"
)

// PlaceholderImage is shown for projects without an image.
const PlaceholderImage = "https://placehold.co/600x400"

// Slugify converts a name to a URL-safe slug.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// AbsoluteURL resolves a site-relative reference against base. Absolute
// references are returned unchanged.
func AbsoluteURL(base, ref string) string {
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	if r.IsAbs() {
		return ref
	}
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}

// ProfileImage returns the src of the hero photo. Bare file names live
// under /images/; rooted paths and absolute URLs are used as given.
func ProfileImage(photo string) string {
	switch {
	case photo == "":
		return ""
	case strings.HasPrefix(photo, "/"), strings.Contains(photo, "://"):
		return photo
	default:
		return "/images/" + photo
	}
}

// ProjectImage returns the src of a project image, or the placeholder.
func ProjectImage(p content.Project) string {
	if strings.TrimSpace(p.Image) == "" {
		return PlaceholderImage
	}
	return p.Image
}

// GitHubProfileURL links a GitHub handle.
func GitHubProfileURL(handle string) string {
	return "https://github.com/" + url.PathEscape(strings.TrimPrefix(handle, "@"))
}

// HashIP returns a salted, truncated SHA-256 of ip so the inbox never
// stores raw addresses.
func HashIP(ip, salt string) string {
	sum := sha256.Sum256([]byte(salt + "|" + ip))
	return hex.EncodeToString(sum[:])[:16]
}

// PersonJsonLD returns a Schema.org Person JSON-LD string for the profile.
func PersonJsonLD(snap content.Snapshot, cfg SiteConfig) string {
	p := snap.Profile
	data := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "Person",
		"name":     p.FullName(),
		"url":      BuildURL(cfg.URL),
	}
	if p.Role != "" {
		data["jobTitle"] = p.Role
	}
	if p.Bio != "" {
		data["description"] = richtext.Plain(p.Bio)
	}
	if img := ProfileImage(p.ProfilePhoto); img != "" {
		data["image"] = AbsoluteURL(cfg.URL, img)
	}
	if snap.Contact.Email != "" {
		data["email"] = "mailto:" + snap.Contact.Email
	}
	if snap.Contact.GitHub != "" {
		data["sameAs"] = []string{GitHubProfileURL(snap.Contact.GitHub)}
	}
	if len(snap.TechStack) > 0 {
		names := make([]string, 0, len(snap.TechStack))
		for _, t := range snap.TechStack {
			names = append(names, t.Name)
		}
		data["knowsAbout"] = names
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
