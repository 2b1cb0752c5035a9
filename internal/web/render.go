// Package web holds the embedded HTML templates and static assets of the
// public site.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

const layoutFile = "templates/layout.html"

// Page is the data every template receives.
type Page struct {
	Title       string
	Description string
	Path        string
	SiteURL     string
	Data        any
}

// Renderer renders one template set per page, each sharing the layout.
type Renderer struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"safeHTML": func(s string) template.HTML { return template.HTML(s) },
	"join":     strings.Join,
	"year":     func() int { return time.Now().Year() },
	"inc":      func(i int) int { return i + 1 },
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	layout, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, layoutFile)
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	r := &Renderer{pages: map[string]*template.Template{}}
	for _, file := range files {
		if file == layoutFile {
			continue
		}
		clone, err := layout.Clone()
		if err != nil {
			return nil, err
		}
		tmpl, err := clone.ParseFS(templateFS, file)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
		r.pages[strings.TrimSuffix(path.Base(file), ".html")] = tmpl
	}
	return r, nil
}

// Render implements echo.Renderer.
func (r *Renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}
	return tmpl.ExecuteTemplate(w, "layout.html", data)
}

// Static returns the embedded assets rooted at the static directory.
func Static() fs.FS {
	return echo.MustSubFS(staticFS, "static")
}
