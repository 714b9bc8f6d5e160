// Package content defines the portfolio's section models, their wire
// shapes and fallbacks, and mounts the four sections of a page.
package content

// Resource locations of the static JSON documents.
const (
	ProfilePath   = "/data/profile.json"
	TechStackPath = "/data/techstack.json"
	ProjectsPath  = "/data/projects.json"
)

// Profile drives the hero section.
type Profile struct {
	FirstName    string `json:"firstName" validate:"required"`
	LastName     string `json:"lastName" validate:"required"`
	Role         string `json:"role" validate:"required"`
	Bio          string `json:"bio" validate:"required"`
	ProfilePhoto string `json:"profilePhoto" validate:"required"`
}

// FullName joins first and last name.
func (p Profile) FullName() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// ProfileWire is profile.json as stored: snake_case keys.
type ProfileWire struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Role         string `json:"role"`
	Bio          string `json:"bio"`
	ProfilePhoto string `json:"profile_photo"`
	Email        string `json:"email"`
	GitHub       string `json:"github"`
}

// ProfileFromWire maps the stored profile to the hero view shape.
func ProfileFromWire(w ProfileWire) (Profile, error) {
	return Profile{
		FirstName:    w.FirstName,
		LastName:     w.LastName,
		Role:         w.Role,
		Bio:          w.Bio,
		ProfilePhoto: w.ProfilePhoto,
	}, nil
}

// Contact drives the contact section. It is decoded from profile.json
// directly; the other profile keys are ignored.
type Contact struct {
	Email  string `json:"email" validate:"required,email"`
	GitHub string `json:"github" validate:"required"`
}

// TechItem is one card of the tech stack, in display order.
type TechItem struct {
	Name     string `json:"name" validate:"required"`
	Category string `json:"category" validate:"required"`
	Icon     string `json:"icon" validate:"required"`
	Color    string `json:"color" validate:"required"`
}

// Project is one entry of the gallery, in display order. GitHub is nil
// when the project has no public repository.
type Project struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description" validate:"required"`
	TechStack   []string `json:"techStack" validate:"required,dive,required"`
	Image       string   `json:"image"`
	GitHub      *string  `json:"github" validate:"omitempty,url"`
}

// HasGitHub reports whether the project links to a repository.
func (p Project) HasGitHub() bool {
	return p.GitHub != nil && *p.GitHub != ""
}

// GitHubURL returns the repository link or "".
func (p Project) GitHubURL() string {
	if p.GitHub == nil {
		return ""
	}
	return *p.GitHub
}
