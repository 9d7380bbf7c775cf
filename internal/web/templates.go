// Package web is the thin render layer: embedded HTML templates and
// one-time flash notices. Styling and asset pipelines are out of scope.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/memberhub/memberhub/internal/models"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

// PageData carries everything a page template can use.
type PageData struct {
	Title  string
	User   *models.User
	Flash  string
	Errors map[string]string // field name -> message
	Form   map[string]string // sticky form values on re-render
	Next   string            // deep-link target carried through login
}

// Renderer renders embedded page templates over a shared layout.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses the embedded templates. Each page gets its own template
// set sharing the layout.
func NewRenderer() (*Renderer, error) {
	pages := make(map[string]*template.Template)
	for _, name := range []string{"signup", "login", "dashboard"} {
		t, err := template.ParseFS(templateFS,
			"templates/layout.html.tmpl",
			fmt.Sprintf("templates/%s.html.tmpl", name))
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		pages[name] = t
	}
	return &Renderer{pages: pages}, nil
}

// Render writes the named page with the given status code, folding in any
// pending flash notice.
func (rn *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, page string, data PageData) {
	t, ok := rn.pages[page]
	if !ok {
		log.Error().Str("page", page).Msg("Unknown page template")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if data.Flash == "" {
		if msg, ok := PopFlash(w, r); ok {
			data.Flash = msg
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := t.ExecuteTemplate(w, "layout", data); err != nil {
		log.Error().Err(err).Str("page", page).Msg("Failed to render template")
	}
}
