// Package scaffold provides the embedded starter site written by
// `folio new`: the three JSON content documents, an images directory and
// an example environment file.
package scaffold

import "embed"

// Templates contains all scaffold template files.
// Files use Go text/template syntax and have a .tmpl suffix.
//
//go:embed all:templates
var Templates embed.FS
