package folio

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// maxMessagesPerDay caps stored submissions per hashed IP, on top of the
// in-memory limiter which resets on restart.
const maxMessagesPerDay = 10

var validate = validator.New()

// contactFieldErrors maps validator failures to per-field messages.
var contactFieldErrors = map[string]string{
	"Name":    "Please enter your name (up to 100 characters).",
	"Email":   "Please enter a valid email address.",
	"Subject": "Subject must be 200 characters or fewer.",
	"Message": "Message must be between 10 and 5000 characters.",
}

func parseContactForm(c echo.Context) (ContactForm, error) {
	var f ContactForm
	if err := (&echo.DefaultBinder{}).BindBody(c, &f); err != nil {
		return ContactForm{}, err
	}
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	f.Subject = strings.TrimSpace(f.Subject)
	f.Message = strings.TrimSpace(f.Message)
	return f, nil
}

// validateContactForm returns nil when f is acceptable, otherwise a map of
// lower-case field name to message.
func validateContactForm(f ContactForm) map[string]string {
	err := validate.Struct(f)
	if err == nil {
		return nil
	}
	errs := make(map[string]string)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs["form"] = "Invalid submission."
		return errs
	}
	for _, fe := range verrs {
		errs[strings.ToLower(fe.Field())] = contactFieldErrors[fe.Field()]
	}
	return errs
}

func (a *App) handleContact(c echo.Context) error {
	ip := c.RealIP()
	if !a.contactLimiter.Allow(ip) {
		return a.RenderStatus(c, http.StatusTooManyRequests,
			a.Views.ContactResult(false, "Too many messages. Please try again later.", nil))
	}

	form, err := parseContactForm(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	if errs := validateContactForm(form); errs != nil {
		// 200 so htmx swaps the fragment in place of the form.
		return a.Render(c, a.Views.ContactResult(false, "Please correct the highlighted fields.", errs))
	}

	ipHash := HashIP(ip, a.Config.SessionSecret)
	n, err := a.Store.CountMessagesSince(ipHash, time.Now().Add(-24*time.Hour))
	if err != nil {
		return err
	}
	if n >= maxMessagesPerDay {
		return a.RenderStatus(c, http.StatusTooManyRequests,
			a.Views.ContactResult(false, "Too many messages. Please try again later.", nil))
	}

	if _, err := a.Store.SaveMessage(ContactMessage{
		Name:    form.Name,
		Email:   form.Email,
		Subject: form.Subject,
		Message: form.Message,
		IPHash:  ipHash,
	}); err != nil {
		return err
	}
	c.Logger().Infof("contact message stored from %s", ipHash)
	return a.Render(c, a.Views.ContactResult(true, "Thank you for your message! I'll get back to you soon.", nil))
}
