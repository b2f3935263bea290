// Package handler contains the HTTP request handlers of the application.
//
// WHAT IS A HANDLER?
// In Go, an HTTP handler is anything that implements the http.Handler interface:
//
//	type Handler interface {
//	    ServeHTTP(ResponseWriter, *Request)
//	}
//
// Or more commonly, an http.HandlerFunc. Chi's router accepts these directly.
//
// HANDLER RESPONSIBILITIES:
//  1. Parse the incoming request (form fields, JSON body, URL params)
//  2. Call the service layer
//  3. Write the response: a rendered page, a redirect with a flash message,
//     or a JSON body for the chat API
//
// Handlers should NOT contain business logic. They are the glue between HTTP
// and the services.
package handler

import (
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/sakif/travel-together/internal/auth"
)

// pages lists every page template. Each is parsed together with base.html,
// which defines the layout and calls {{template "content" .}}.
var pages = []string{
	"login", "register", "home", "about",
	"dashboard", "create_trip", "trip", "search", "profile",
}

var funcs = template.FuncMap{
	"datetime": func(t time.Time) string { return t.Format("2006-01-02 15:04") },
}

// Renderer holds parsed page templates so they are not re-parsed on every
// request.
type Renderer struct {
	templates map[string]*template.Template
	logger    *slog.Logger
}

// NewRenderer parses base.html plus one file per page from fsys.
//
// TEMPLATE COMPOSITION:
// Every page gets its own template set because each page file defines the
// same "content" block. Parsing them all into one set would let the last
// file win.
func NewRenderer(fsys fs.FS, logger *slog.Logger) (*Renderer, error) {
	r := &Renderer{templates: make(map[string]*template.Template, len(pages)), logger: logger}

	for _, page := range pages {
		tmpl, err := template.New(page).Funcs(funcs).ParseFS(fsys, "base.html", page+".html")
		if err != nil {
			return nil, fmt.Errorf("handler: parsing %s template: %w", page, err)
		}
		r.templates[page] = tmpl
	}

	return r, nil
}

// view is what every template receives. Page specific values go in Data.
type view struct {
	Title    string
	User     auth.Identity
	LoggedIn bool
	Flash    *Flash
	Data     any
}

// Render writes page with the given status.
//
// A flash message left by the previous request is consumed here, unless
// flash is non-nil, in which case it is shown instead.
func (rd *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, page, title string, flash *Flash, data any) {
	tmpl, ok := rd.templates[page]
	if !ok {
		rd.logger.Error("unknown template", slog.String("page", page))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	pending := popFlash(w, r)
	if flash == nil {
		flash = pending
	}

	v := view{Title: title, Flash: flash, Data: data}
	v.User, v.LoggedIn = auth.IdentityFromContext(r.Context())

	// Headers must be set before WriteHeader; the body follows.
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "base", v); err != nil {
		// The status line is already sent, so the error can only be logged.
		rd.logger.Error("failed to render template",
			slog.String("page", page),
			slog.String("error", err.Error()),
		)
	}
}

// serverError logs err and answers 500 without leaking the cause.
func serverError(logger *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	logger.Error("request failed",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}
