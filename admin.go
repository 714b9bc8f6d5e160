package folio

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/folio/content"
)

func (a *App) handleAdmin(c echo.Context) error {
	if !IsAdmin(c) {
		return a.Render(c, a.Views.AdminLogin(false, CsrfToken(c)))
	}
	return a.renderAdminDashboard(c, c.QueryParam("msg"))
}

func (a *App) handleAdminLogin(c echo.Context) error {
	ip := c.RealIP()
	if !a.loginLimiter.Check(ip) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	pass := c.FormValue("password")
	if subtle.ConstantTimeCompare([]byte(pass), []byte(a.Config.AdminPassword)) == 1 {
		if err := setAdminSession(c, true); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	a.loginLimiter.Record(ip)
	c.Logger().Warnf("failed admin login from %s", ip)
	return a.Render(c, a.Views.AdminLogin(true, CsrfToken(c)))
}

func handleAdminLogout(c echo.Context) error {
	if err := setAdminSession(c, false); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func (a *App) handleAdminDeleteMessage(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.String(http.StatusBadRequest, "Invalid message id")
	}
	msg, err := a.Store.GetMessage(id)
	if errors.Is(err, ErrNotFound) {
		return c.NoContent(http.StatusNotFound)
	}
	if err != nil {
		return err
	}
	if err := a.Store.DeleteMessage(id); err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	c.Logger().Infof("deleted message %d from %s (%s)", id, msg.Email, msg.CreatedAt)
	return a.renderAdminDashboard(c, "deleted")
}

// handleAdminRefresh drops the cached snapshot so the next request mounts
// every section again.
func (a *App) handleAdminRefresh(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	a.Cache.Invalidate()
	return a.renderAdminDashboard(c, "refreshed")
}

func (a *App) renderAdminDashboard(c echo.Context, msg string) error {
	msgs, err := a.Store.ListMessages()
	if err != nil {
		return err
	}
	snap := a.Cache.Snapshot(c.Request().Context())
	return a.Render(c, a.Views.AdminDashboard(AdminData{
		Messages:  msgs,
		States:    sectionStates(snap),
		MountedAt: snap.MountedAt.UTC().Format(time.RFC3339),
		Notice:    msg,
		CSRFToken: CsrfToken(c),
	}))
}

func sectionStates(snap content.Snapshot) map[string]string {
	states := make(map[string]string, len(content.SectionNames))
	for name, st := range snap.States() {
		states[name] = st.String()
	}
	return states
}
