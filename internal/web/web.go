// Package web holds the embedded HTML templates.
package web

import (
	"embed"
	"html/template"
	"time"

	"github.com/yukikurage/showcase/internal/constants"
	"github.com/yukikurage/showcase/internal/dto"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses every page. Each page is defined under its file name, for
// example "index.html".
func Templates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"formatDate": formatDate,
		"imageURL":   dto.ImageURL,
	}).ParseFS(templateFS, "templates/*.html")
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(constants.DateLayout)
}
