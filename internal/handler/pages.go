package handler

import "net/http"

// PageHandler serves the static pages.
type PageHandler struct {
	render *Renderer
}

func NewPageHandler(render *Renderer) *PageHandler {
	return &PageHandler{render: render}
}

// Home serves GET /home.
func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, r, http.StatusOK, "home", "Home", nil, nil)
}

// About serves GET /about.
func (h *PageHandler) About(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, r, http.StatusOK, "about", "About", nil, nil)
}
