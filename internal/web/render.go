package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/kissit/website/internal/site"
)

//go:embed templates/*.html
var templatesFS embed.FS

const baseTemplate = "base.html"

var pageTemplates = []string{
	"entrypoint.html",
	"projects.html",
	"project.html",
	"error.html",
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"markdown": func(v interface{}) template.HTML {
			if v == nil {
				return ""
			}
			src := fmt.Sprint(v)
			html, err := site.Markdown([]byte(src))
			if err != nil {
				return template.HTML(template.HTMLEscapeString(src))
			}
			return html
		},
		"title": func(s string) string {
			// a Caser keeps state, so each call gets its own
			return cases.Title(language.English).String(s)
		},
		"shorthash": site.ShortHash,
	}
}

// parseTemplates parses every page together with the base layout, one
// template set per page so that each page can define its own blocks.
func parseTemplates() (map[string]*template.Template, error) {
	pages := make(map[string]*template.Template, len(pageTemplates))
	for _, page := range pageTemplates {
		tmpl, err := template.New(baseTemplate).Funcs(templateFuncs()).
			ParseFS(templatesFS, "templates/"+baseTemplate, "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", page, err)
		}
		pages[page] = tmpl
	}
	return pages, nil
}

// Render executes page into memory so a failing template never leaves a
// half-written response behind.
func (s *Server) Render(page string, data interface{}) ([]byte, error) {
	tmpl, ok := s.pages[page]
	if !ok {
		return nil, fmt.Errorf("unknown template %s", page)
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, baseTemplate, data); err != nil {
		return nil, fmt.Errorf("failed to execute template %s: %w", page, err)
	}
	return buf.Bytes(), nil
}
