package folio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/a-h/templ"

	"github.com/eringen/folio/content"
	"github.com/eringen/folio/loader"
)

func text(format string, args ...any) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, format, args...)
		return err
	})
}

func stubViews() ViewFuncs {
	return ViewFuncs{
		Home: func(d HomeData) templ.Component {
			return text("home title=%s projects=%d", d.Meta.Title, len(d.Content.Projects))
		},
		Section: func(name string, d HomeData) templ.Component {
			return text("section:%s", name)
		},
		ContactResult: func(ok bool, message string, errs map[string]string) templ.Component {
			fields := make([]string, 0, len(errs))
			for f := range errs {
				fields = append(fields, f)
			}
			return text("result ok=%v fields=%s", ok, strings.Join(fields, ","))
		},
		AdminLogin: func(showError bool, csrf string) templ.Component {
			return text("login error=%v csrf=%s", showError, csrf)
		},
		AdminDashboard: func(d AdminData) templ.Component {
			return text("dashboard notice=%s messages=%d hero=%s", d.Notice, len(d.Messages), d.States[content.SectionHero])
		},
		AdminImages: func(images []Image, csrf string) templ.Component {
			return text("images=%d", len(images))
		},
		NotFound:    func() templ.Component { return text("not found") },
		ServerError: func() templ.Component { return text("server error") },
	}
}

func newTestApp(t *testing.T, fsys fstest.MapFS) *App {
	t.Helper()
	dir := t.TempDir()
	cfg := SiteConfig{
		Name:          "Test",
		URL:           "https://jane.example",
		DatabasePath:  filepath.Join(dir, "test.db"),
		AdminPassword: "secret",
		SessionSecret: "0123456789abcdef0123456789abcdef",
		DisableMinify: true,
	}
	a := New(cfg, stubViews(), WithStaticDir(dir), WithFetcher(loader.FSFetcher{FS: fsys}))
	if err := a.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	a.Echo.Logger.SetOutput(io.Discard)
	t.Cleanup(func() { a.Close() })
	return a
}

func do(a *App, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)
	return rec
}

func get(a *App, target string) *httptest.ResponseRecorder {
	return do(a, httptest.NewRequest(http.MethodGet, target, nil))
}

func TestInitRequiresSecrets(t *testing.T) {
	a := New(SiteConfig{DatabasePath: filepath.Join(t.TempDir(), "x.db")}, stubViews())
	if err := a.Init(); err == nil {
		t.Fatal("expected error without AdminPassword")
	}
	a = New(SiteConfig{AdminPassword: "x", DatabasePath: filepath.Join(t.TempDir(), "x.db")}, stubViews())
	if err := a.Init(); err == nil {
		t.Fatal("expected error without SessionSecret")
	}
}

func TestHome(t *testing.T) {
	a := newTestApp(t, testSiteFS())
	rec := get(a, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body := rec.Body.String(); body != "home title=Jane Doe - Engineer projects=2" {
		t.Fatalf("body = %q", body)
	}
	if cc := rec.Header().Get("Cache-Control"); cc != "private, no-cache" {
		t.Errorf("Cache-Control = %q", cc)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestHomeFallbackTitle(t *testing.T) {
	a := newTestApp(t, fstest.MapFS{})
	rec := get(a, "/")
	if body := rec.Body.String(); body != "home title=John Doe - Peternak Lele projects=3" {
		t.Fatalf("body = %q", body)
	}
}

func TestHomePartial(t *testing.T) {
	a := newTestApp(t, testSiteFS())
	tests := []struct {
		name   string
		target string
		htmx   bool
		want   string
	}{
		{"htmx section", "/?partial=tech", true, "section:tech"},
		{"no htmx header", "/?partial=tech", false, "home title=Jane Doe - Engineer projects=2"},
		{"unknown section", "/?partial=footer", true, "home title=Jane Doe - Engineer projects=2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.htmx {
				req.Header.Set("HX-Request", "true")
			}
			if got := do(a, req).Body.String(); got != tt.want {
				t.Fatalf("body = %q, want %q", got, tt.want)
			}
		})
	}
}

type apiSection struct {
	State string          `json:"state"`
	Value json.RawMessage `json:"value"`
}

func TestContentAPI(t *testing.T) {
	fsys := testSiteFS()
	delete(fsys, "data/projects.json")
	a := newTestApp(t, fsys)

	rec := get(a, "/api/content")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := map[string]string{
		content.SectionHero:     "loaded",
		content.SectionTech:     "loaded",
		content.SectionProjects: "fallback",
		content.SectionContact:  "loaded",
	}
	for name, state := range want {
		var s apiSection
		if err := json.Unmarshal(got[name], &s); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if s.State != state {
			t.Errorf("%s state = %q, want %q", name, s.State, state)
		}
	}

	var projects apiSection
	json.Unmarshal(got[content.SectionProjects], &projects)
	if !strings.Contains(string(projects.Value), "Inventory API") {
		t.Errorf("projects value should be the fallback list: %s", projects.Value)
	}
	if _, ok := got["mounted_at"]; !ok {
		t.Error("missing mounted_at")
	}
}

func TestHealth(t *testing.T) {
	a := newTestApp(t, testSiteFS())
	rec := get(a, "/api/health")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Fatalf("health = %d %s", rec.Code, rec.Body.String())
	}
}

func TestNotFound(t *testing.T) {
	a := newTestApp(t, testSiteFS())
	rec := get(a, "/nope/")
	if rec.Code != http.StatusNotFound || rec.Body.String() != "not found" {
		t.Fatalf("got %d %q", rec.Code, rec.Body.String())
	}
}

func TestResume(t *testing.T) {
	a := newTestApp(t, testSiteFS())
	if rec := get(a, "/resume/"); rec.Code != http.StatusNotFound {
		t.Fatalf("missing resume status = %d", rec.Code)
	}

	path := filepath.Join(a.staticDir, "images", "resume.png")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}
	rec := get(a, "/resume/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "attachment") || !strings.Contains(cd, "resume.png") {
		t.Errorf("Content-Disposition = %q", cd)
	}
}

func TestSitemapAndFeed(t *testing.T) {
	a := newTestApp(t, testSiteFS())

	sm := get(a, "/sitemap.xml")
	if sm.Code != http.StatusOK || !strings.Contains(sm.Body.String(), "<loc>https://jane.example</loc>") {
		t.Fatalf("sitemap = %d %s", sm.Code, sm.Body.String())
	}

	feed := get(a, "/feed.xml").Body.String()
	for _, want := range []string{
		"<title>Folio</title>",
		"<link>https://github.com/jane/folio</link>",
		"<link>https://jane.example#projects</link>",
		"<category>Go</category>",
	} {
		if !strings.Contains(feed, want) {
			t.Errorf("feed missing %q", want)
		}
	}
}

func TestRobotsFallsBackToEmbedded(t *testing.T) {
	a := newTestApp(t, testSiteFS())
	rec := get(a, "/robots.txt")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Disallow: /admin/") {
		t.Fatalf("robots = %d %q", rec.Code, rec.Body.String())
	}

	if err := os.WriteFile(filepath.Join(a.staticDir, "robots.txt"), []byte("User-agent: *\nDisallow: /\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if body := get(a, "/robots.txt").Body.String(); !strings.Contains(body, "Disallow: /\n") {
		t.Fatalf("static robots.txt not preferred: %q", body)
	}
}

func TestFaviconFromEmbedded(t *testing.T) {
	a := newTestApp(t, testSiteFS())
	rec := get(a, "/favicon.svg")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "<svg") {
		t.Fatalf("favicon = %d %q", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "image/svg+xml") {
		t.Errorf("content type = %q", ct)
	}
}

func TestHTMXServedLocally(t *testing.T) {
	a := newTestApp(t, testSiteFS())
	if rec := get(a, "/public/htmx.min.js"); rec.Code != http.StatusNotFound {
		t.Fatalf("missing htmx status = %d", rec.Code)
	}

	if err := os.WriteFile(filepath.Join(a.staticDir, "htmx.min.js"), []byte("var htmx={};"), 0o644); err != nil {
		t.Fatal(err)
	}
	rec := get(a, "/public/htmx.min.js")
	if rec.Code != http.StatusOK || rec.Body.String() != "var htmx={};" {
		t.Fatalf("htmx = %d %q", rec.Code, rec.Body.String())
	}
	csp := rec.Header().Get("Content-Security-Policy")
	if !strings.Contains(csp, "script-src 'self' 'unsafe-inline';") {
		t.Errorf("csp = %q", csp)
	}
}

func TestContactRequiresCSRF(t *testing.T) {
	a := newTestApp(t, testSiteFS())
	req := httptest.NewRequest(http.MethodPost, "/contact/", strings.NewReader("name=Ann"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if rec := do(a, req); rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func postContact(a *App, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/contact/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.RemoteAddr = "203.0.113.7:1234"
	rec := httptest.NewRecorder()
	c := a.Echo.NewContext(req, rec)
	if err := a.handleContact(c); err != nil {
		a.Echo.HTTPErrorHandler(err, c)
	}
	return rec
}

func validContact() url.Values {
	return url.Values{
		"name":    {" Ann "},
		"email":   {"ann@example.com"},
		"subject": {"Hello"},
		"message": {"I would like to work with you."},
	}
}

func TestContactStoresMessage(t *testing.T) {
	a := newTestApp(t, testSiteFS())
	rec := postContact(a, validContact())
	if rec.Code != http.StatusOK || rec.Body.String() != "result ok=true fields=" {
		t.Fatalf("got %d %q", rec.Code, rec.Body.String())
	}
	msgs, err := a.Store.ListMessages()
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 1 || msgs[0].Name != "Ann" {
		t.Fatalf("messages = %+v", msgs)
	}
	if msgs[0].IPHash == "" || strings.Contains(msgs[0].IPHash, "203.0.113.7") {
		t.Errorf("ip not hashed: %q", msgs[0].IPHash)
	}
}

func TestContactValidation(t *testing.T) {
	a := newTestApp(t, testSiteFS())
	form := validContact()
	form.Set("email", "not-an-email")
	rec := postContact(a, form)
	if rec.Code != http.StatusOK || rec.Body.String() != "result ok=false fields=email" {
		t.Fatalf("got %d %q", rec.Code, rec.Body.String())
	}
	if msgs, _ := a.Store.ListMessages(); len(msgs) != 0 {
		t.Fatalf("invalid submission stored: %+v", msgs)
	}
}

func TestContactRateLimited(t *testing.T) {
	a := newTestApp(t, testSiteFS())
	for i := 0; i < a.Config.ContactLimit; i++ {
		if rec := postContact(a, validContact()); rec.Code != http.StatusOK {
			t.Fatalf("submission %d: status %d", i, rec.Code)
		}
	}
	if rec := postContact(a, validContact()); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
}

// adminClient carries cookies and the CSRF token between requests.
type adminClient struct {
	a       *App
	cookies map[string]*http.Cookie
	csrf    string
}

func (c *adminClient) do(req *http.Request) *httptest.ResponseRecorder {
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	if c.csrf != "" {
		req.Header.Set("X-CSRF-Token", c.csrf)
	}
	rec := do(c.a, req)
	for _, ck := range rec.Result().Cookies() {
		c.cookies[ck.Name] = ck
	}
	return rec
}

func loginAdmin(t *testing.T, a *App) *adminClient {
	t.Helper()
	c := &adminClient{a: a, cookies: map[string]*http.Cookie{}}
	rec := c.do(httptest.NewRequest(http.MethodGet, "/admin/", nil))
	body := rec.Body.String()
	if !strings.HasPrefix(body, "login error=false csrf=") {
		t.Fatalf("admin page = %q", body)
	}
	c.csrf = strings.TrimPrefix(body, "login error=false csrf=")

	form := url.Values{"password": {"secret"}}
	req := httptest.NewRequest(http.MethodPost, "/admin/login/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if rec := c.do(req); rec.Code != http.StatusSeeOther {
		t.Fatalf("login status = %d %q", rec.Code, rec.Body.String())
	}
	return c
}

func TestAdminLoginAndDashboard(t *testing.T) {
	a := newTestApp(t, testSiteFS())
	c := loginAdmin(t, a)

	rec := c.do(httptest.NewRequest(http.MethodGet, "/admin/", nil))
	if body := rec.Body.String(); body != "dashboard notice= messages=0 hero=loaded" {
		t.Fatalf("dashboard = %q", body)
	}
	if cc := rec.Header().Get("Cache-Control"); cc != "no-store" {
		t.Errorf("Cache-Control = %q", cc)
	}
}

func TestAdminWrongPasswordLimited(t *testing.T) {
	a := newTestApp(t, testSiteFS())
	c := &adminClient{a: a, cookies: map[string]*http.Cookie{}}
	body := c.do(httptest.NewRequest(http.MethodGet, "/admin/", nil)).Body.String()
	c.csrf = strings.TrimPrefix(body, "login error=false csrf=")

	attempt := func() *httptest.ResponseRecorder {
		form := url.Values{"password": {"wrong"}}
		req := httptest.NewRequest(http.MethodPost, "/admin/login/", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return c.do(req)
	}
	for i := 0; i < 5; i++ {
		rec := attempt()
		if !strings.HasPrefix(rec.Body.String(), "login error=true") {
			t.Fatalf("attempt %d: %q", i, rec.Body.String())
		}
	}
	if rec := attempt(); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
}

func TestAdminRefreshRemounts(t *testing.T) {
	f := newCountingFetcher()
	f.failing.Store(content.ProfilePath)
	a := newTestApp(t, nil)
	a.fetcher = f
	c := loginAdmin(t, a)

	first := c.do(httptest.NewRequest(http.MethodGet, "/admin/", nil)).Body.String()
	if !strings.HasSuffix(first, "hero=fallback") {
		t.Fatalf("dashboard = %q", first)
	}

	f.failing.Store("")
	rec := c.do(httptest.NewRequest(http.MethodPost, "/admin/refresh/", nil))
	if body := rec.Body.String(); body != "dashboard notice=refreshed messages=0 hero=loaded" {
		t.Fatalf("refresh = %q", body)
	}
}

func TestAdminDeleteMessage(t *testing.T) {
	a := newTestApp(t, testSiteFS())
	id, err := a.Store.SaveMessage(ContactMessage{Name: "Ann", Email: "ann@example.com", Message: "Hello there, Jane!"})
	if err != nil {
		t.Fatal(err)
	}
	c := loginAdmin(t, a)

	missing := c.do(httptest.NewRequest(http.MethodDelete, "/admin/messages/9999/", nil))
	if missing.Code != http.StatusNotFound {
		t.Fatalf("missing id status = %d", missing.Code)
	}
	bad := c.do(httptest.NewRequest(http.MethodDelete, "/admin/messages/abc/", nil))
	if bad.Code != http.StatusBadRequest {
		t.Fatalf("bad id status = %d", bad.Code)
	}

	var logs bytes.Buffer
	a.Echo.Logger.SetOutput(&logs)
	rec := c.do(httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/admin/messages/%d/", id), nil))
	if body := rec.Body.String(); body != "dashboard notice=deleted messages=0 hero=loaded" {
		t.Fatalf("delete = %q", body)
	}
	if !strings.Contains(logs.String(), fmt.Sprintf("deleted message %d from ann@example.com", id)) {
		t.Errorf("delete not logged: %s", logs.String())
	}

	again := c.do(httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/admin/messages/%d/", id), nil))
	if again.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d", again.Code)
	}
}

func TestAdminRoutesRequireLogin(t *testing.T) {
	a := newTestApp(t, testSiteFS())
	c := &adminClient{a: a, cookies: map[string]*http.Cookie{}}
	body := c.do(httptest.NewRequest(http.MethodGet, "/admin/", nil)).Body.String()
	c.csrf = strings.TrimPrefix(body, "login error=false csrf=")

	for _, tt := range []struct{ method, target string }{
		{http.MethodPost, "/admin/refresh/"},
		{http.MethodDelete, "/admin/messages/1/"},
		{http.MethodGet, "/admin/images/"},
	} {
		rec := c.do(httptest.NewRequest(tt.method, tt.target, nil))
		if rec.Code != http.StatusSeeOther {
			t.Errorf("%s %s status = %d, want 303", tt.method, tt.target, rec.Code)
		}
	}
}

func TestMinifiedRender(t *testing.T) {
	a := newTestApp(t, testSiteFS())
	a.Config.DisableMinify = false
	a.Views.Home = func(HomeData) templ.Component {
		return text("<html>\n  <body>\n    <p>  hi  </p>\n  </body>\n</html>")
	}
	body := get(a, "/").Body.String()
	if strings.Contains(body, "\n  ") {
		t.Fatalf("output not minified: %q", body)
	}
}

func uploadRequest(t *testing.T, name string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("image", name)
	if err != nil {
		t.Fatal(err)
	}
	fw.Write(data)
	mw.Close()
	req := httptest.NewRequest(http.MethodPost, "/admin/images/upload/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestAdminImageUploadAndDelete(t *testing.T) {
	a := newTestApp(t, testSiteFS())
	c := loginAdmin(t, a)
	png := encodePNG(t, 40, 20).Bytes()

	if body := c.do(uploadRequest(t, "Avatar.png", png)).Body.String(); body != "images=1" {
		t.Fatalf("upload = %q", body)
	}
	if body := c.do(uploadRequest(t, "Avatar.png", png)).Body.String(); body != "images=2" {
		t.Fatalf("second upload = %q", body)
	}
	for _, name := range []string{"avatar.jpg", "avatar-2.jpg"} {
		if _, err := os.Stat(filepath.Join(a.staticDir, "images", uploadsSubdir, name)); err != nil {
			t.Errorf("%s not written: %v", name, err)
		}
	}

	if rec := get(a, "/images/uploads/avatar.jpg"); rec.Code != http.StatusOK {
		t.Errorf("uploaded image not served: %d", rec.Code)
	}

	rec := c.do(httptest.NewRequest(http.MethodDelete, "/admin/images/avatar.jpg/", nil))
	if body := rec.Body.String(); body != "images=1" {
		t.Fatalf("delete = %q", body)
	}
	if _, err := os.Stat(filepath.Join(a.staticDir, "images", uploadsSubdir, "avatar.jpg")); !os.IsNotExist(err) {
		t.Errorf("file still present: %v", err)
	}
}

func TestAdminImageUploadRejectsGarbage(t *testing.T) {
	a := newTestApp(t, testSiteFS())
	c := loginAdmin(t, a)
	if rec := c.do(uploadRequest(t, "x.png", []byte("nope"))); rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}
