package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/eringen/folio/content"
	"github.com/eringen/folio/loader"
)

type quietLogger struct{}

func (quietLogger) Warnf(string, ...interface{}) {}

// runCheck mounts every section against source, a static directory or a
// base URL, and prints each section's state. It reports false when any
// section fell back.
func runCheck(w io.Writer, source string) (bool, error) {
	f, err := fetcherFor(source)
	if err != nil {
		return false, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	page := content.NewPage(f, loader.WithLogger(quietLogger{}))
	snap := page.Mount(ctx)
	errs := page.Errors()
	states := snap.States()

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SECTION\tSTATE\tDETAIL")
	for _, name := range content.SectionNames {
		detail := "-"
		if err := errs[name]; err != nil {
			detail = err.Error()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", name, states[name], detail)
	}
	if err := tw.Flush(); err != nil {
		return false, err
	}
	return !snap.AnyFallback(), nil
}

func fetcherFor(source string) (loader.Fetcher, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return loader.NewHTTPFetcher(source)
	}
	fi, err := os.Stat(source)
	if err != nil {
		return nil, err
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", source)
	}
	return loader.FSFetcher{FS: os.DirFS(source)}, nil
}
