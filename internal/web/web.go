// Package web holds the listing page templates and static assets.
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"strings"
)

const (
	IndexTemplate = "index.tmpl"
	ErrorTemplate = "error.tmpl"

	// ListingLink is where every card points.
	ListingLink = "https://www.entrepotes.ca/"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Templates parses the embedded page templates.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"upper": strings.ToUpper,
		"link":  func() string { return ListingLink },
	}).ParseFS(templateFS, "templates/*.tmpl")
}

// Static returns the embedded assets rooted at the static directory.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
