// Package web holds the browser UI. The page talks to the JSON API only.
package web

import (
	"embed"
	"html/template"
	"io"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// Page is the data the index template is rendered with.
type Page struct {
	Title     string
	PageSize  int
	Functions []string
}

func Render(w io.Writer, p Page) error {
	return indexTemplate.Execute(w, p)
}
