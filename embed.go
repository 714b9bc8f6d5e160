package folio

import "embed"

// htmxAsset is served at /public/htmx.min.js from the static directory, or
// from EmbeddedAssets when a release build vendors it there.
const htmxAsset = "htmx.min.js"

// EmbeddedAssets holds the defaults served when the static directory has no
// favicon.svg, robots.txt or htmx.min.js of its own.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
