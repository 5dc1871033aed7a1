package web

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"

	vm "github.com/ericfisherdev/costumedesk/internal/adapter/driving/web/viewmodel"
)

// Page template files, each parsed together with layout.html.
const (
	pageLogin    = "login.html"
	pageCostumes = "costumes.html"
	pageCostume  = "costume.html"
	pageForm     = "form.html"
)

// renderer holds one parsed template set per page.
type renderer struct {
	pages map[string]*template.Template
}

func newRenderer() (*renderer, error) {
	r := &renderer{pages: map[string]*template.Template{}}
	for _, page := range []string{pageLogin, pageCostumes, pageCostume, pageForm} {
		tmpl, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", page, err)
		}
		r.pages[page] = tmpl
	}
	return r, nil
}

// render executes page into a buffer first so a template error never leaves
// a half-written response.
func (r *renderer) render(w http.ResponseWriter, status int, page string, data vm.Page) error {
	tmpl, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
	return nil
}
