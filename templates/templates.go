package templates

import (
	"embed"
	"html/template"
)

//go:embed *.html
var files embed.FS

// Catalog is the name of the storefront page template.
const Catalog = "index.html"

// Load parses the embedded page templates.
func Load() (*template.Template, error) {
	return template.ParseFS(files, "*.html")
}
