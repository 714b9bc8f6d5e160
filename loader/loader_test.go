package loader

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync"
	"testing"
	"testing/fstest"
)

type item struct {
	Name     string `json:"name" validate:"required"`
	Category string `json:"category" validate:"required"`
}

type wireItem struct {
	DisplayName string `json:"display_name"`
}

type recordingLogger struct {
	mu      sync.Mutex
	records []string
}

func (l *recordingLogger) Warnf(format string, args ...interface{}) {
	l.mu.Lock()
	l.records = append(l.records, fmt.Sprintf(format, args...))
	l.mu.Unlock()
}

func (l *recordingLogger) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

var fallbackItems = []item{{Name: "Fallback", Category: "None"}}

func staticFetcher(files map[string]string) Fetcher {
	fsys := fstest.MapFS{}
	for name, body := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(body)}
	}
	return FSFetcher{FS: fsys}
}

func TestLoadSuccess(t *testing.T) {
	f := staticFetcher(map[string]string{
		"data/items.json": `[{"name":"Go","category":"Backend"},{"name":"Redis","category":"Database"}]`,
	})
	log := &recordingLogger{}

	r := Load(context.Background(), f, "/data/items.json", fallbackItems, WithLogger(log))
	if r.State != Loaded {
		t.Fatalf("State = %v, want loaded (err %v)", r.State, r.Err)
	}
	want := []item{{"Go", "Backend"}, {"Redis", "Database"}}
	if !reflect.DeepEqual(r.Value, want) {
		t.Errorf("Value = %+v, want %+v", r.Value, want)
	}
	if r.Err != nil {
		t.Errorf("Err = %v, want nil", r.Err)
	}
	if log.count() != 0 {
		t.Errorf("expected no diagnostics, got %d", log.count())
	}
}

func TestLoadFallbackCases(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
	}{
		{"missing resource", map[string]string{}},
		{"malformed json", map[string]string{"data/items.json": `[{"name":`}},
		{"null document", map[string]string{"data/items.json": `null`}},
		{"empty body", map[string]string{"data/items.json": "  \n"}},
		{"trailing data", map[string]string{"data/items.json": `[] []`}},
		{"wrong shape", map[string]string{"data/items.json": `{"name":"Go"}`}},
		{"missing field", map[string]string{"data/items.json": `[{"name":"Go"}]`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := &recordingLogger{}
			r := Load(context.Background(), staticFetcher(tt.files), "/data/items.json", fallbackItems, WithLogger(log))
			if r.State != FallbackLoaded {
				t.Fatalf("State = %v, want fallback", r.State)
			}
			if !reflect.DeepEqual(r.Value, fallbackItems) {
				t.Errorf("Value = %+v, want fallback %+v", r.Value, fallbackItems)
			}
			if r.Err == nil {
				t.Error("expected Err to carry the cause")
			}
			if log.count() != 1 {
				t.Errorf("expected exactly one diagnostic, got %d", log.count())
			}
		})
	}
}

func TestLoadLenientAcceptsMissingFields(t *testing.T) {
	f := staticFetcher(map[string]string{"data/items.json": `[{"name":"Go"}]`})
	r := Load(context.Background(), f, "/data/items.json", fallbackItems, Lenient(), WithLogger(&recordingLogger{}))
	if r.State != Loaded {
		t.Fatalf("State = %v, want loaded (err %v)", r.State, r.Err)
	}
	if len(r.Value) != 1 || r.Value[0].Name != "Go" || r.Value[0].Category != "" {
		t.Errorf("Value = %+v, want one item with empty category", r.Value)
	}
}

func TestLoadRejectsMiscasedKeys(t *testing.T) {
	f := staticFetcher(map[string]string{"data/items.json": `[{"name":"Go","category":"Backend"},{"NAME":"Redis","category":"Database"}]`})
	log := &recordingLogger{}
	r := Load(context.Background(), f, "/data/items.json", fallbackItems, WithLogger(log))
	if r.State != FallbackLoaded {
		t.Fatalf("State = %v, want fallback", r.State)
	}
	if r.Err == nil || !strings.Contains(r.Err.Error(), `"NAME"`) {
		t.Errorf("Err = %v, want a key casing error", r.Err)
	}
	if log.count() != 1 {
		t.Errorf("logged %d records, want 1", log.count())
	}

	lenient := Load(context.Background(), f, "/data/items.json", fallbackItems, Lenient(), WithLogger(log))
	if lenient.State != Loaded || lenient.Value[1].Name != "Redis" {
		t.Errorf("lenient = %v %+v", lenient.State, lenient.Value)
	}
}

func TestCheckKeyCase(t *testing.T) {
	type inner struct {
		Label string `json:"label"`
	}
	type base struct {
		ID string `json:"id"`
	}
	type doc struct {
		base
		Title string           `json:"title"`
		Tags  []inner          `json:"tags"`
		Meta  map[string]inner `json:"meta"`
		Skip  string           `json:"-"`
		Plain string
	}
	typ := reflect.TypeOf(doc{})
	tests := []struct {
		name string
		body string
		ok   bool
	}{
		{"exact", `{"id":"1","title":"t","tags":[{"label":"a"}],"meta":{"x":{"label":"b"}},"Plain":"p"}`, true},
		{"unknown keys", `{"title":"t","extra":{"LABEL":1}}`, true},
		{"top level", `{"TITLE":"t"}`, false},
		{"embedded", `{"Id":"1"}`, false},
		{"slice element", `{"tags":[{"label":"a"},{"Label":"b"}]}`, false},
		{"map value", `{"meta":{"x":{"LABEL":"b"}}}`, false},
		{"default name", `{"plain":"p"}`, false},
		{"ignored field", `{"SKIP":"s"}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkKeyCase([]byte(tt.body), typ)
			if (err == nil) != tt.ok {
				t.Errorf("checkKeyCase(%s) = %v, want ok=%v", tt.body, err, tt.ok)
			}
		})
	}
}

func TestLoadEmptySequenceIsLoaded(t *testing.T) {
	f := staticFetcher(map[string]string{"data/items.json": `[]`})
	r := Load(context.Background(), f, "/data/items.json", fallbackItems, WithLogger(&recordingLogger{}))
	if r.State != Loaded {
		t.Fatalf("State = %v, want loaded (err %v)", r.State, r.Err)
	}
	if r.Value == nil || len(r.Value) != 0 {
		t.Errorf("Value = %#v, want empty non-nil slice", r.Value)
	}
}

func TestLoadMapped(t *testing.T) {
	f := staticFetcher(map[string]string{"data/item.json": `{"display_name":"Go"}`})
	mapper := func(w wireItem) (item, error) {
		return item{Name: w.DisplayName, Category: "Mapped"}, nil
	}
	r := LoadMapped(context.Background(), f, "/data/item.json", item{Name: "x", Category: "y"}, mapper, WithLogger(&recordingLogger{}))
	if r.State != Loaded {
		t.Fatalf("State = %v, want loaded (err %v)", r.State, r.Err)
	}
	if r.Value != (item{Name: "Go", Category: "Mapped"}) {
		t.Errorf("Value = %+v", r.Value)
	}
}

func TestLoadMappedErrorAndPanicFallBack(t *testing.T) {
	f := staticFetcher(map[string]string{"data/item.json": `{"display_name":"Go"}`})
	fallback := item{Name: "Fallback", Category: "None"}
	mappers := map[string]func(wireItem) (item, error){
		"error": func(wireItem) (item, error) { return item{}, errors.New("boom") },
		"panic": func(wireItem) (item, error) { panic("boom") },
	}
	for name, mapper := range mappers {
		t.Run(name, func(t *testing.T) {
			r := LoadMapped(context.Background(), f, "/data/item.json", fallback, mapper, WithLogger(&recordingLogger{}))
			if r.State != FallbackLoaded {
				t.Fatalf("State = %v, want fallback", r.State)
			}
			if r.Value != fallback {
				t.Errorf("Value = %+v, want %+v", r.Value, fallback)
			}
			if !strings.Contains(r.Err.Error(), "boom") {
				t.Errorf("Err = %v, want mention of boom", r.Err)
			}
		})
	}
}

func TestLoadNilFetcher(t *testing.T) {
	r := Load[[]item](context.Background(), nil, "/data/items.json", fallbackItems, WithLogger(&recordingLogger{}))
	if r.State != FallbackLoaded {
		t.Fatalf("State = %v, want fallback", r.State)
	}
}

func TestLoadIsIdempotent(t *testing.T) {
	f := staticFetcher(map[string]string{
		"data/items.json": `[{"name":"Go","category":"Backend"}]`,
	})
	first := Load(context.Background(), f, "/data/items.json", fallbackItems)
	second := Load(context.Background(), f, "/data/items.json", fallbackItems)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated loads differ: %+v vs %+v", first, second)
	}
	if len(second.Value) != 1 {
		t.Errorf("expected no accumulation, got %d items", len(second.Value))
	}
}

func TestHTTPFetcherStatusAndTransportErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/data/items.json":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[{"name":"Go","category":"Backend"}]`))
		default:
			http.NotFound(w, r)
		}
	}))

	f, err := NewHTTPFetcher(srv.URL)
	if err != nil {
		t.Fatalf("NewHTTPFetcher: %v", err)
	}

	r := Load(context.Background(), f, "/data/items.json", fallbackItems)
	if r.State != Loaded {
		t.Fatalf("State = %v, want loaded (err %v)", r.State, r.Err)
	}

	r = Load(context.Background(), f, "/data/missing.json", fallbackItems, WithLogger(&recordingLogger{}))
	if r.State != FallbackLoaded {
		t.Fatalf("State = %v, want fallback on 404", r.State)
	}
	var se *StatusError
	if !errors.As(r.Err, &se) || se.Code != http.StatusNotFound {
		t.Errorf("Err = %v, want *StatusError 404", r.Err)
	}

	srv.Close()
	r = Load(context.Background(), f, "/data/items.json", fallbackItems, WithLogger(&recordingLogger{}))
	if r.State != FallbackLoaded {
		t.Fatalf("State = %v, want fallback on network error", r.State)
	}
	if !reflect.DeepEqual(r.Value, fallbackItems) {
		t.Errorf("Value = %+v, want fallback", r.Value)
	}
}

func TestHTTPFetcherResolve(t *testing.T) {
	tests := []struct {
		base     string
		location string
		want     string
	}{
		{"http://localhost:3000", "/data/profile.json", "http://localhost:3000/data/profile.json"},
		{"https://cdn.example.com/site", "/data/profile.json", "https://cdn.example.com/site/data/profile.json"},
		{"https://cdn.example.com/site/", "data/projects.json", "https://cdn.example.com/site/data/projects.json"},
		{"https://cdn.example.com", "https://other.example.com/x.json", "https://other.example.com/x.json"},
	}
	for _, tt := range tests {
		f, err := NewHTTPFetcher(tt.base)
		if err != nil {
			t.Fatalf("NewHTTPFetcher(%q): %v", tt.base, err)
		}
		got, err := f.Resolve(tt.location)
		if err != nil {
			t.Fatalf("Resolve(%q): %v", tt.location, err)
		}
		if got != tt.want {
			t.Errorf("Resolve(%q, %q) = %q, want %q", tt.base, tt.location, got, tt.want)
		}
	}
}

func TestNewHTTPFetcherRejectsBadScheme(t *testing.T) {
	if _, err := NewHTTPFetcher("ftp://example.com"); err == nil {
		t.Fatal("expected error for ftp scheme")
	}
}

func TestFSFetcherRejectsTraversal(t *testing.T) {
	f := staticFetcher(map[string]string{"data/items.json": `[]`})
	if _, err := f.Fetch(context.Background(), "/../secret.json"); err == nil {
		t.Fatal("expected error for path traversal")
	}
}

func TestFSFetcherHonoursCancelledContext(t *testing.T) {
	f := staticFetcher(map[string]string{"data/items.json": `[]`})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := Load(ctx, f, "/data/items.json", fallbackItems, WithLogger(&recordingLogger{}))
	if r.State != FallbackLoaded {
		t.Fatalf("State = %v, want fallback", r.State)
	}
	if !errors.Is(r.Err, context.Canceled) {
		t.Errorf("Err = %v, want context.Canceled", r.Err)
	}
}
