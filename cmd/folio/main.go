package main

import (
	"fmt"
	"os"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		if err := runServe(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "check":
		source := "public"
		if len(os.Args) >= 3 {
			source = os.Args[2]
		}
		ok, err := runCheck(os.Stdout, source)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if !ok {
			os.Exit(1)
		}
	case "new":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: folio new <directory>")
			os.Exit(1)
		}
		if err := runNew(os.Args[2]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "version":
		fmt.Printf("folio %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`folio - A single-page portfolio server built with Go, Echo, and templ

Usage:
  folio <command> [arguments]

Commands:
  serve               Start the portfolio server (configured from the environment)
  check [dir|url]     Load every section strictly and report which would fall back
  new <directory>     Create a starter site with sample content
  version             Print the folio version
  help                Show this help message

Examples:
  folio serve
  folio check public
  folio check https://cdn.example.com/portfolio/
  folio new mysite`)
}
