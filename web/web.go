// Package web holds the HTML templates, embedded into the binary so the
// server runs from any working directory.
package web

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.html
var templates embed.FS

// Templates returns the template files with "templates/" stripped, so
// pages are addressed as "login.html", "trip.html" and so on.
func Templates() fs.FS {
	sub, err := fs.Sub(templates, "templates")
	if err != nil {
		// fs.Sub only fails on an invalid path, and "templates" is a constant.
		panic(err)
	}
	return sub
}
