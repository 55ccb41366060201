// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render provides HTML template rendering for the catalog pages.
// It supports full-page and HTMX partial rendering, automatically detecting
// the request type via the HX-Request header.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"toybox/internal/flash"
	"toybox/internal/markdown"
)

//go:embed templates/catalog/*.html
var catalogFS embed.FS

const templateDir = "templates/catalog"

// PageData holds all data passed to catalog templates.
type PageData struct {
	Title   string          // Page title for <title> tag
	Flashes []flash.Message // One-time notification messages
	Data    map[string]any  // Page-specific data
}

// Renderer handles template parsing and execution for catalog pages.
type Renderer struct {
	templates map[string]*template.Template
	funcMap   template.FuncMap
}

// New creates a Renderer by parsing all catalog templates from the embedded
// filesystem. Each page template is paired with the base layout.
// When devMode is true, the layout loads TailwindCSS from its CDN; when
// false, it references the compiled stylesheet under /static.
func New(devMode bool) (*Renderer, error) {
	r := &Renderer{
		templates: make(map[string]*template.Template),
		funcMap: template.FuncMap{
			"isDev": func() bool {
				return devMode
			},
			// price formats a decimal amount with two fractional digits.
			"price": func(d decimal.Decimal) string {
				return d.StringFixed(2)
			},
			"markdown": markdown.Render,
			"date": func(t time.Time) string {
				return t.Format("Jan 2, 2006")
			},
		},
	}

	entries, err := fs.ReadDir(catalogFS, templateDir)
	if err != nil {
		return nil, fmt.Errorf("read embedded templates: %w", err)
	}

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || name == "base.html" {
			continue
		}

		tmpl, err := template.New("base.html").Funcs(r.funcMap).ParseFS(
			catalogFS, path.Join(templateDir, "base.html"), path.Join(templateDir, name),
		)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}

		r.templates[strings.TrimSuffix(name, ".html")] = tmpl
	}

	return r, nil
}

// Render executes the named page into a byte slice. When partial is true
// only the "content" block is rendered.
func (rn *Renderer) Render(name string, data *PageData, partial bool) ([]byte, error) {
	tmpl, ok := rn.templates[name]
	if !ok {
		return nil, fmt.Errorf("template %q not found", name)
	}

	execName := "base.html"
	if partial {
		execName = "content"
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, execName, data); err != nil {
		return nil, fmt.Errorf("execute template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// Page renders a full page or an HTMX partial, depending on the request
// headers. Nothing is written to w until the template executed successfully.
func (rn *Renderer) Page(w http.ResponseWriter, r *http.Request, name string, data *PageData) {
	if _, ok := rn.templates[name]; !ok {
		http.Error(w, fmt.Sprintf("template %q not found", name), http.StatusInternalServerError)
		return
	}

	body, err := rn.Render(name, data, IsHTMX(r))
	if err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	Write(w, body)
}

// Write sends an already rendered HTML body.
func Write(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(body) //nolint:errcheck
}

// IsHTMX returns true if the request was made by HTMX (has HX-Request header).
func IsHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
