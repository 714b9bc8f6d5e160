// Package views is folio's default presentation: html/template files
// embedded in the binary and exposed as templ components, so they plug
// into folio.ViewFuncs like hand-written templ views.
package views

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/http"

	"github.com/a-h/templ"

	"github.com/eringen/folio"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("views").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))

// Default returns the ViewFuncs backed by the embedded templates.
func Default() folio.ViewFuncs {
	return folio.ViewFuncs{
		Home:           Home,
		Section:        Section,
		ContactResult:  ContactResult,
		AdminLogin:     AdminLogin,
		AdminDashboard: AdminDashboard,
		AdminImages:    AdminImages,
		NotFound:       NotFound,
		ServerError:    ServerError,
	}
}

func render(name string, data any) templ.Component {
	t := templates.Lookup(name)
	if t == nil {
		return templ.ComponentFunc(func(context.Context, io.Writer) error {
			return fmt.Errorf("views: template %q not defined", name)
		})
	}
	return templ.FromGoHTML(t, data)
}

// Home renders the full single page.
func Home(d folio.HomeData) templ.Component {
	return render("page", d)
}

// Section renders one section on its own, for htmx partial swaps.
func Section(name string, d folio.HomeData) templ.Component {
	return render("section-"+name, d)
}

func ContactResult(ok bool, message string, errs map[string]string) templ.Component {
	return render("contact-result", contactResultData{OK: ok, Message: message, Errors: errs})
}

func AdminLogin(showError bool, csrfToken string) templ.Component {
	return render("admin-login", loginData{ShowError: showError, CSRFToken: csrfToken})
}

func AdminDashboard(d folio.AdminData) templ.Component {
	return render("admin-dashboard", d)
}

func AdminImages(images []folio.Image, csrfToken string) templ.Component {
	return render("admin-images", imagesData{Images: images, CSRFToken: csrfToken})
}

func NotFound() templ.Component {
	return render("error-page", errorData{
		Title:   "Not found",
		Code:    http.StatusNotFound,
		Message: "The page you are looking for does not exist.",
	})
}

func ServerError() templ.Component {
	return render("error-page", errorData{
		Title:   "Server error",
		Code:    http.StatusInternalServerError,
		Message: "Something went wrong on our side. Please try again later.",
	})
}
