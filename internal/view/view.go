// Package view renders the embedded HTML templates and serves the static
// assets.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"

	"news-reader/internal/domain"
	"news-reader/internal/session"
	"news-reader/pkg/datetime"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

// Page names accepted by Render.
const (
	Home            = "home.html"
	Articles        = "articles.html"
	Detail          = "detail.html"
	About           = "about.html"
	Login           = "login.html"
	Register        = "register.html"
	CompleteProfile = "complete_profile.html"
	ForgotPassword  = "forgot_password.html"
)

var pages = []string{Home, Detail, About, Login, Register, CompleteProfile, ForgotPassword}

// Page is the data every full page receives.
type Page struct {
	Title   string
	Path    string
	Session session.Session
	Alert   string
	Notices []string
	CSRF    template.HTML
	Errors  domain.ValidationErrors
	Form    interface{}
	Data    interface{}
}

type Renderer struct {
	templates map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	dates := datetime.NewFormatter()
	funcs := template.FuncMap{
		"cardDate":    dates.FormatForCard,
		"articlePath": ArticlePath,
	}

	r := &Renderer{templates: make(map[string]*template.Template)}
	for _, page := range pages {
		t, err := template.New(page).Funcs(funcs).ParseFS(templateFS,
			"templates/layout.html", "templates/cards.html", "templates/fields.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", page, err)
		}
		r.templates[page] = t
	}

	fragment, err := template.New(Articles).Funcs(funcs).ParseFS(templateFS, "templates/cards.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", Articles, err)
	}
	r.templates[Articles] = fragment

	return r, nil
}

// Render executes page into w with status. Output is buffered so a
// template failure never leaves a half-written page.
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, data interface{}) error {
	t, ok := r.templates[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}

	entry := "layout"
	if page == Articles {
		entry = "articles"
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, entry, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", page, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// Static serves the embedded assets; mount it under /static/.
func Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}

// ArticlePath is the detail page path of id. The id is escaped as a single
// path segment since provider ids may be URLs.
func ArticlePath(id string) string {
	return "/" + url.PathEscape(id)
}

// DetailData feeds detail.html.
type DetailData struct {
	ID       string
	Article  *domain.Article
	NotFound bool
	Expanded bool
	Comments []domain.Comment
}

// Body is the text to show for the current toggle state.
func (d DetailData) Body() string {
	if d.Article == nil {
		return ""
	}
	return d.Article.BodyPreview(d.Expanded)
}

func (d DetailData) Toggleable() bool {
	return d.Article != nil && d.Article.IsLong()
}
