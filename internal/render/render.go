// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render provides HTML template rendering for the public site.
// It supports full-page and HTMX partial rendering, automatically detecting
// the request type via the HX-Request header. Pages are rendered into a
// buffer so handlers can cache the result before writing it.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"folio/internal/models"
)

//go:embed templates/public/*.html
var publicFS embed.FS

// sharedTemplates are parsed into every page.
var sharedTemplates = []string{"base.html", "table.html"}

// PageData holds all data passed to public templates.
type PageData struct {
	SiteName  string              // Shown in the header and <title>
	Title     string              // Page title
	Verticals []models.Vertical   // Navigation entries
	Vertical  *models.Vertical    // Current vertical (nil on the home page)
	Query     string              // Current search query
	Table     Table               // Rows for listing and category pages
	Category  *models.Category    // Current category on detail pages
	Item      *models.ContentItem // Current item on item pages
	Lead      template.HTML       // Rendered item preview
	Body      template.HTML       // Rendered item body
	Date      string              // Formatted item date
	Year      int                 // Footer copyright year
}

// Renderer holds the parsed page templates.
type Renderer struct {
	templates map[string]*template.Template
	funcMap   template.FuncMap
}

// New parses every page template from the embedded filesystem, each paired
// with the base layout and the shared table partial.
func New() (*Renderer, error) {
	r := &Renderer{
		templates: make(map[string]*template.Template),
		funcMap: template.FuncMap{
			"formatDate": FormatDate,
			// activeClass marks the current vertical in the navigation.
			"activeClass": func(current *models.Vertical, name string) string {
				if current != nil && current.Name == name {
					return "active"
				}
				return ""
			},
		},
	}

	entries, err := publicFS.ReadDir("templates/public")
	if err != nil {
		return nil, fmt.Errorf("read embedded templates: %w", err)
	}

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || isShared(name) {
			continue
		}

		files := make([]string, 0, len(sharedTemplates)+1)
		for _, s := range sharedTemplates {
			files = append(files, "templates/public/"+s)
		}
		files = append(files, "templates/public/"+name)

		tmpl, err := template.New("base.html").Funcs(r.funcMap).ParseFS(publicFS, files...)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.templates[strings.TrimSuffix(name, ".html")] = tmpl
	}

	return r, nil
}

// Render executes a page template. HTMX requests receive only the page's
// "partial" block when it defines one (the listing's table rows), otherwise
// its "content" block. Full requests receive the whole layout.
func (rn *Renderer) Render(r *http.Request, name string, data *PageData) ([]byte, error) {
	tmpl, ok := rn.templates[name]
	if !ok {
		return nil, fmt.Errorf("template %q not found", name)
	}
	if data.Year == 0 {
		data.Year = time.Now().Year()
	}

	execName := "base.html"
	if isHTMX(r) {
		execName = "content"
		if tmpl.Lookup("partial") != nil {
			execName = "partial"
		}
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, execName, data); err != nil {
		return nil, fmt.Errorf("execute template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// Write sends rendered HTML with the given status.
func Write(w http.ResponseWriter, status int, html []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(html)
}

// IsHTMX reports whether the request was made by HTMX. Handlers use it to
// keep fragments and full pages apart in the page cache.
func IsHTMX(r *http.Request) bool {
	return isHTMX(r)
}

// isHTMX returns true if the request was made by HTMX (has HX-Request header).
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

func isShared(name string) bool {
	for _, s := range sharedTemplates {
		if s == name {
			return true
		}
	}
	return false
}
