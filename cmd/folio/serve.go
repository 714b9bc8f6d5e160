package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/eringen/folio"
	"github.com/eringen/folio/views"
)

func runServe() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	cfg := configFromEnv()
	app := folio.New(cfg, views.Default(),
		folio.WithStaticDir(folio.EnvOr("STATIC_DIR", "public")),
	)
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- app.Start() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return app.Echo.Shutdown(shutdownCtx)
}

// configFromEnv builds the site configuration. Unset values fall back to
// the SiteConfig defaults.
func configFromEnv() folio.SiteConfig {
	cfg := folio.SiteConfig{
		Name:           os.Getenv("SITE_NAME"),
		URL:            os.Getenv("SITE_URL"),
		Description:    os.Getenv("SITE_DESCRIPTION"),
		Addr:           os.Getenv("ADDR"),
		DatabasePath:   os.Getenv("DATABASE_PATH"),
		DataURL:        os.Getenv("DATA_URL"),
		ResumeFilename: os.Getenv("RESUME_FILENAME"),
		AdminPassword:  folio.MustEnv("ADMIN_PASSWORD"),
		SessionSecret:  folio.MustEnv("SESSION_SECRET"),
	}
	cfg.CookieSecure, _ = strconv.ParseBool(os.Getenv("COOKIE_SECURE"))
	cfg.LenientContent, _ = strconv.ParseBool(os.Getenv("LENIENT_CONTENT"))
	return cfg
}
