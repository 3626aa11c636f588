package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Static returns the embedded static assets rooted at the static directory.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(fmt.Sprintf("static assets: %v", err))
	}
	return sub
}

// LandingData feeds the landing page template.
type LandingData struct {
	SessionID       string
	ChatHTML        template.HTML
	QuickReplies    []string
	Typing          bool
	LoginURL        string
	PolicyAvailable bool
}

// PlaceholderData feeds the login and signup placeholder pages.
type PlaceholderData struct {
	Title   string
	Message string
}

// Pages renders full HTML pages around the shared header and footer.
type Pages struct {
	landing     *template.Template
	placeholder *template.Template
}

// NewPages parses the embedded page templates.
func NewPages() (*Pages, error) {
	funcs := template.FuncMap{
		"header": Header,
		"footer": Footer,
	}
	landing, err := template.New("landing.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/landing.html")
	if err != nil {
		return nil, fmt.Errorf("parse landing template: %w", err)
	}
	placeholder, err := template.New("placeholder.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/placeholder.html")
	if err != nil {
		return nil, fmt.Errorf("parse placeholder template: %w", err)
	}
	return &Pages{landing: landing, placeholder: placeholder}, nil
}

// Landing writes the marketing landing page.
func (p *Pages) Landing(w io.Writer, data LandingData) error {
	return p.landing.ExecuteTemplate(w, "layout", data)
}

// Placeholder writes a minimal page with a title and a message.
func (p *Pages) Placeholder(w io.Writer, data PlaceholderData) error {
	return p.placeholder.ExecuteTemplate(w, "layout", data)
}
