package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/eringen/folio/scaffold"
)

// scaffoldData holds the template variables passed to every scaffold template.
type scaffoldData struct {
	SiteName  string
	FirstName string
	LastName  string
	Handle    string
}

func runNew(dir string) error {
	if _, err := os.Stat(dir); err == nil {
		return fmt.Errorf("directory %q already exists", dir)
	}
	if err := writeScaffold(dir, newScaffoldData(filepath.Base(dir))); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("Done! Next steps:")
	fmt.Println()
	fmt.Printf("  cd %s\n", dir)
	fmt.Println("  cp .env.example .env")
	fmt.Println("  folio check public")
	fmt.Println("  folio serve")
	fmt.Println()
	fmt.Println("Edit public/data/*.json to describe yourself and your projects.")
	fmt.Println("Set ADMIN_PASSWORD and SESSION_SECRET in .env for production.")
	return nil
}

func newScaffoldData(name string) scaffoldData {
	d := scaffoldData{SiteName: toTitle(name), FirstName: "Jane", LastName: "Doe", Handle: handle(name)}
	if parts := strings.Fields(d.SiteName); len(parts) >= 2 {
		d.FirstName, d.LastName = parts[0], strings.Join(parts[1:], " ")
	}
	return d
}

// writeScaffold renders the embedded starter site into dir.
func writeScaffold(dir string, data scaffoldData) error {
	const root = "templates"
	return fs.WalkDir(scaffold.Templates, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		outPath := strings.TrimSuffix(filepath.Join(dir, relPath), ".tmpl")
		if filepath.Base(outPath) == "dotenv" {
			outPath = filepath.Join(filepath.Dir(outPath), ".env.example")
		}

		if d.IsDir() {
			return os.MkdirAll(outPath, 0o755)
		}

		content, err := scaffold.Templates.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		if !strings.HasSuffix(path, ".tmpl") {
			return os.WriteFile(outPath, content, 0o644)
		}

		tmpl, err := template.New(filepath.Base(path)).Parse(string(content))
		if err != nil {
			return fmt.Errorf("parse template %s: %w", path, err)
		}
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create %s: %w", outPath, err)
		}
		defer f.Close()
		if err := tmpl.Execute(f, data); err != nil {
			return fmt.Errorf("execute template %s: %w", path, err)
		}

		fmt.Printf("  created %s\n", outPath)
		return nil
	})
}

// toTitle converts a hyphenated or lowercase name to a title-case string.
// e.g. "jane-doe" -> "Jane Doe", "portfolio" -> "Portfolio"
func toTitle(s string) string {
	parts := strings.Split(s, "-")
	for i, p := range parts {
		if len(p) > 0 {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, " ")
}

// handle derives a GitHub-style handle from a directory name.
func handle(s string) string {
	return strings.ToLower(strings.ReplaceAll(s, " ", "-"))
}
