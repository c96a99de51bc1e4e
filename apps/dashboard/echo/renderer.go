package echodash

import (
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

const (
	templatesDir = "templates"
	baseTemplate = "_base.gohtml"
)

// renderer executes page templates, each parsed together with the base layout.
type renderer struct {
	templates map[string]*template.Template
}

var _ echo.Renderer = (*renderer)(nil)

func newRenderer(fsys fs.FS, strict bool) (*renderer, error) {
	pages, err := fs.Glob(fsys, path.Join(templatesDir, "*.gohtml"))
	if err != nil {
		return nil, errors.Wrap(err, "listing templates")
	}

	r := &renderer{templates: make(map[string]*template.Template, len(pages))}
	for _, page := range pages {
		fname := path.Base(page)
		if strings.HasPrefix(fname, "_") {
			continue
		}
		tmpl, err := template.ParseFS(fsys, path.Join(templatesDir, baseTemplate), page)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing %s", fname)
		}
		if strict {
			tmpl = tmpl.Option("missingkey=error")
		}
		r.templates[strings.TrimSuffix(fname, path.Ext(fname))] = tmpl
	}
	return r, nil
}

func (r *renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return errors.Errorf("template %q not found", name)
	}
	return tmpl.ExecuteTemplate(w, "base", data)
}
