// Package web holds the embedded single-page UI.
package web

import "embed"

// Static is the UI: index.html plus the files under assets/
//
//go:embed static
var Static embed.FS
