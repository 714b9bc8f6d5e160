package loader

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"strings"
)

// maxDocumentSize caps how much of a resource body is read.
const maxDocumentSize = 4 << 20 // 4MB

// Fetcher retrieves the raw bytes of a resource location.
type Fetcher interface {
	Fetch(ctx context.Context, location string) ([]byte, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, location string) ([]byte, error)

// Fetch calls fn.
func (fn FetcherFunc) Fetch(ctx context.Context, location string) ([]byte, error) {
	return fn(ctx, location)
}

// StatusError reports a non-2xx HTTP response.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d %s", e.URL, e.Code, http.StatusText(e.Code))
}

// HTTPFetcher resolves locations against Base and fetches them over HTTP.
type HTTPFetcher struct {
	Base   *url.URL
	Client *http.Client
}

// NewHTTPFetcher parses base and returns a fetcher using http.DefaultClient.
func NewHTTPFetcher(base string) (*HTTPFetcher, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", base)
	}
	return &HTTPFetcher{Base: u}, nil
}

// Resolve returns the absolute URL for location. Site-relative locations
// such as "/data/profile.json" are joined under the base path, so a base
// of "https://cdn.example.com/site" yields ".../site/data/profile.json".
func (f *HTTPFetcher) Resolve(location string) (string, error) {
	ref, err := url.Parse(location)
	if err != nil {
		return "", fmt.Errorf("parse location: %w", err)
	}
	if f.Base == nil || ref.IsAbs() {
		return ref.String(), nil
	}
	base := *f.Base
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	ref.Path = strings.TrimPrefix(ref.Path, "/")
	return base.ResolveReference(ref).String(), nil
}

// Fetch issues a single GET. Non-2xx responses return *StatusError.
func (f *HTTPFetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	target, err := f.Resolve(location)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{URL: target, Code: resp.StatusCode}
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(body) > maxDocumentSize {
		return nil, fmt.Errorf("GET %s: document exceeds %d bytes", target, maxDocumentSize)
	}
	return body, nil
}

// FSFetcher reads locations from a filesystem, typically the site's own
// static directory.
type FSFetcher struct {
	FS fs.FS
}

// Fetch reads location with its leading slash removed.
func (f FSFetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.FS == nil {
		return nil, fmt.Errorf("read %s: no filesystem configured", location)
	}
	name := strings.TrimPrefix(location, "/")
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "read", Path: location, Err: fs.ErrInvalid}
	}
	return fs.ReadFile(f.FS, name)
}
