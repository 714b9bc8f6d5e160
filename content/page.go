package content

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/eringen/folio/loader"
)

// Section names, also used as anchor ids and partial names.
const (
	SectionHero     = "hero"
	SectionTech     = "tech"
	SectionProjects = "projects"
	SectionContact  = "contact"
)

// SectionNames lists the sections in page order.
var SectionNames = []string{SectionHero, SectionTech, SectionProjects, SectionContact}

// HeroSection loads profile.json through ProfileFromWire.
func HeroSection(f loader.Fetcher, opts ...loader.Option) *loader.Section[Profile] {
	return loader.NewSection(SectionHero, func(ctx context.Context) loader.Result[Profile] {
		return loader.LoadMapped(ctx, f, ProfilePath, FallbackProfile(), ProfileFromWire, opts...)
	})
}

// TechSection loads techstack.json.
func TechSection(f loader.Fetcher, opts ...loader.Option) *loader.Section[[]TechItem] {
	return loader.NewSection(SectionTech, func(ctx context.Context) loader.Result[[]TechItem] {
		return loader.Load(ctx, f, TechStackPath, FallbackTechStack(), opts...)
	})
}

// ProjectsSection loads projects.json.
func ProjectsSection(f loader.Fetcher, opts ...loader.Option) *loader.Section[[]Project] {
	return loader.NewSection(SectionProjects, func(ctx context.Context) loader.Result[[]Project] {
		return loader.Load(ctx, f, ProjectsPath, FallbackProjects(), opts...)
	})
}

// ContactSection loads the contact fields of profile.json as they are.
func ContactSection(f loader.Fetcher, opts ...loader.Option) *loader.Section[Contact] {
	return loader.NewSection(SectionContact, func(ctx context.Context) loader.Result[Contact] {
		return loader.Load(ctx, f, ProfilePath, FallbackContact(), opts...)
	})
}

// Page holds one independent instance of each section.
type Page struct {
	Hero     *loader.Section[Profile]
	Tech     *loader.Section[[]TechItem]
	Projects *loader.Section[[]Project]
	Contact  *loader.Section[Contact]
}

// NewPage builds unloaded sections reading from f.
func NewPage(f loader.Fetcher, opts ...loader.Option) *Page {
	return &Page{
		Hero:     HeroSection(f, opts...),
		Tech:     TechSection(f, opts...),
		Projects: ProjectsSection(f, opts...),
		Contact:  ContactSection(f, opts...),
	}
}

// Mount loads all four sections concurrently and returns their snapshot.
// Sections never fail, so Mount always returns a fully populated snapshot.
func (p *Page) Mount(ctx context.Context) Snapshot {
	var g errgroup.Group
	g.Go(func() error { p.Hero.Mount(ctx); return nil })
	g.Go(func() error { p.Tech.Mount(ctx); return nil })
	g.Go(func() error { p.Projects.Mount(ctx); return nil })
	g.Go(func() error { p.Contact.Mount(ctx); return nil })
	// Section mounts settle on a fallback instead of failing.
	_ = g.Wait()
	return p.Snapshot()
}

// Errors maps section name to the failure that sent it to its fallback.
// Sections that loaded, or have not mounted yet, are absent.
func (p *Page) Errors() map[string]error {
	errs := make(map[string]error)
	for name, err := range map[string]error{
		SectionHero:     p.Hero.Err(),
		SectionTech:     p.Tech.Err(),
		SectionProjects: p.Projects.Err(),
		SectionContact:  p.Contact.Err(),
	} {
		if err != nil {
			errs[name] = err
		}
	}
	return errs
}

// Snapshot captures the current value and state of each section.
func (p *Page) Snapshot() Snapshot {
	var s Snapshot
	s.Profile, s.ProfileState = p.Hero.Snapshot()
	s.TechStack, s.TechState = p.Tech.Snapshot()
	s.Projects, s.ProjectsState = p.Projects.Snapshot()
	s.Contact, s.ContactState = p.Contact.Snapshot()
	s.MountedAt = time.Now()
	return s
}

// Snapshot is the rendered view state of one page mount.
type Snapshot struct {
	Profile       Profile
	ProfileState  loader.State
	TechStack     []TechItem
	TechState     loader.State
	Projects      []Project
	ProjectsState loader.State
	Contact       Contact
	ContactState  loader.State
	MountedAt     time.Time
}

// States maps section name to its state.
func (s Snapshot) States() map[string]loader.State {
	return map[string]loader.State{
		SectionHero:     s.ProfileState,
		SectionTech:     s.TechState,
		SectionProjects: s.ProjectsState,
		SectionContact:  s.ContactState,
	}
}

// AnyFallback reports whether some section fell back.
func (s Snapshot) AnyFallback() bool {
	for _, st := range s.States() {
		if st == loader.FallbackLoaded {
			return true
		}
	}
	return false
}
