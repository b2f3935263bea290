package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/travel-together/internal/apperror"
	"github.com/sakif/travel-together/internal/auth"
	"github.com/sakif/travel-together/internal/service"
)

// ProfileHandler shows and edits the current user's name and city.
type ProfileHandler struct {
	users    *service.UserService
	sessions *auth.SessionManager
	render   *Renderer
	logger   *slog.Logger
}

func NewProfileHandler(users *service.UserService, sessions *auth.SessionManager, render *Renderer, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{users: users, sessions: sessions, render: render, logger: logger}
}

// Show serves GET /profile.
func (h *ProfileHandler) Show(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Get(r.Context(), currentUser(r).UserID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			h.endSession(w, r)
			return
		}
		serverError(h.logger, w, r, err)
		return
	}

	h.render.Render(w, r, http.StatusOK, "profile", "Profile", nil, user)
}

// Update serves POST /profile.
//
// The display name lives in the session token, so the session is reissued
// after a successful update.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.UpdateProfile(r.Context(), currentUser(r).UserID,
		r.PostFormValue("name"), r.PostFormValue("city"))
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			h.endSession(w, r)
			return
		}
		serverError(h.logger, w, r, err)
		return
	}

	token, err := h.sessions.Start(auth.Identity{UserID: user.ID, Name: user.Name})
	if err != nil {
		serverError(h.logger, w, r, err)
		return
	}
	h.sessions.SetCookie(w, token)

	redirectWithFlash(w, r, "/profile", FlashSuccess, "Profile updated")
}

// endSession logs out a session whose account no longer exists.
func (h *ProfileHandler) endSession(w http.ResponseWriter, r *http.Request) {
	h.sessions.ClearCookie(w)
	http.Redirect(w, r, auth.LoginPath, http.StatusSeeOther)
}
